// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package memory provides the memory side of the simulated computer: a RAM
// device, the system bus it is mapped on and a loader for JSON program
// files.
//
package memory

import (
	"fmt"
	"io"
	"strconv"

	"github.com/db47h/ucsim"
	"github.com/pkg/errors"
)

// WordWidth is the width of a memory word.
const WordWidth = 16

// RAMSize is the default RAM size in words.
const RAMSize = 4096

// RAM is a word addressed random access memory. It is a bus Device.
//
type RAM struct {
	words  []uint16
	reads  uint64
	writes uint64
}

// NewRAM returns a zeroed RAM of the given size in words.
//
func NewRAM(size int) (*RAM, error) {
	if size < 1 || size > 1<<16 {
		return nil, errors.Errorf("invalid RAM size %d", size)
	}
	return &RAM{words: make([]uint16, size)}, nil
}

func (r *RAM) check(addr uint16) error {
	if int(addr) >= len(r.words) {
		return errors.Errorf("RAM address %#04x out of range [0, %#04x]", addr, len(r.words)-1)
	}
	return nil
}

// Size returns the RAM size in words.
func (r *RAM) Size() int { return len(r.words) }

// Read returns the word at addr.
//
func (r *RAM) Read(addr uint16) (ucsim.Word, error) {
	if err := r.check(addr); err != nil {
		return ucsim.Word{}, err
	}
	r.reads++
	return ucsim.FromUint(WordWidth, r.words[addr])
}

// Write stores w at addr. w must be 16 bits wide.
//
func (r *RAM) Write(addr uint16, w ucsim.Word) error {
	if err := r.check(addr); err != nil {
		return err
	}
	if w.Width() != WordWidth {
		return errors.Wrap(&ucsim.WidthError{Want: WordWidth, Got: w.Width()}, "RAM write at "+strconv.Itoa(int(addr)))
	}
	r.writes++
	r.words[addr] = uint16(w.Uint())
	return nil
}

// Clear zeroes the RAM and its counters.
//
func (r *RAM) Clear() {
	for i := range r.words {
		r.words[i] = 0
	}
	r.reads, r.writes = 0, 0
}

// Stats returns the number of reads and writes since creation or the last
// Clear.
//
func (r *RAM) Stats() (reads, writes uint64) { return r.reads, r.writes }

// Dump writes the non-zero words in the count words starting at start, one
// per line with their address and their hex, decimal and binary values.
// Addresses past the end of the RAM are ignored.
//
//	ADDR    HEX     DEC    BIN
//	0x0012  0x002A  42     0000000000101010
//
func (r *RAM) Dump(w io.Writer, start, count int) error {
	if start < 0 || count < 0 {
		return errors.Errorf("invalid dump range %d+%d", start, count)
	}
	if _, err := fmt.Fprintf(w, "%-7s %-7s %-6s %s\n", "ADDR", "HEX", "DEC", "BIN"); err != nil {
		return errors.Wrap(err, "RAM dump")
	}
	for a := start; a < start+count && a < len(r.words); a++ {
		v := r.words[a]
		if v == 0 {
			continue
		}
		wd, _ := ucsim.FromUint(WordWidth, v)
		if _, err := fmt.Fprintf(w, "0x%04X  %-7s %-6d %s\n", a, wd.Hex(), v, wd.Binary()); err != nil {
			return errors.Wrap(err, "RAM dump")
		}
	}
	return nil
}
