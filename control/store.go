// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package control

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/db47h/ucsim"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Control store geometry.
const (
	Steps     = 1 << CounterWidth
	StoreSize = (1 << OpcodeWidth) * Steps
)

// Address returns the control store address of the given opcode and
// micro-step: opcode<<4 | step.
//
func Address(opcode, step int) (int, error) {
	if opcode < 0 || opcode >= 1<<OpcodeWidth {
		return 0, errors.Errorf("opcode %d out of range", opcode)
	}
	if step < 0 || step >= Steps {
		return 0, errors.Errorf("micro-step %d out of range", step)
	}
	return opcode<<CounterWidth | step, nil
}

// Store is the control store: a 256 x 32-bit microcode ROM.
//
type Store struct {
	words [StoreSize]ucsim.Word
	Log   logrus.FieldLogger
}

// NewStore returns a control store holding the microcode returned by
// Microcode.
//
func NewStore() *Store {
	return &Store{words: Microcode(), Log: logrus.StandardLogger()}
}

func (s *Store) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

// Read returns the control word at addr.
//
func (s *Store) Read(addr int) (ucsim.Word, error) {
	if addr < 0 || addr >= StoreSize {
		return ucsim.Word{}, errors.Errorf("control store address %d out of range", addr)
	}
	return s.words[addr], nil
}

// Fetch returns the control word for the given opcode and micro-step.
//
func (s *Store) Fetch(opcode, step int) (ucsim.Word, error) {
	addr, err := Address(opcode, step)
	if err != nil {
		return ucsim.Word{}, err
	}
	return s.words[addr], nil
}

type entry struct {
	Hex string `json:"hex"`
	Bin string `json:"bin"`
	Dec uint64 `json:"dec"`
}

// Save writes the store content as a JSON object mapping each address to
// its hex, binary and decimal value.
//
func (s *Store) Save(w io.Writer) error {
	m := make(map[string]entry, StoreSize)
	for addr, cw := range s.words {
		m[strconv.Itoa(addr)] = entry{
			Hex: fmt.Sprintf("0x%08X", cw.Uint()),
			Bin: cw.Binary(),
			Dec: cw.Uint(),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(m), "save control store")
}

func (e *entry) value() (uint64, error) {
	switch {
	case e.Hex != "":
		return strconv.ParseUint(e.Hex, 0, WordWidth)
	case e.Bin != "":
		return strconv.ParseUint(e.Bin, 2, WordWidth)
	}
	return e.Dec, nil
}

// Load replaces the store content with a document written by Save.
// Addresses missing from the document are cleared. On error, the store is
// left unchanged.
//
func (s *Store) Load(r io.Reader) error {
	var m map[string]entry
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return errors.Wrap(err, "load control store")
	}
	var words [StoreSize]ucsim.Word
	for i := range words {
		words[i] = ucsim.MustWord(WordWidth, 0)
	}
	for k, e := range m {
		addr, err := strconv.Atoi(k)
		if err != nil || addr < 0 || addr >= StoreSize {
			return errors.Errorf("load control store: invalid address %q", k)
		}
		v, err := e.value()
		if err != nil {
			return errors.Wrapf(err, "load control store: address %d", addr)
		}
		if words[addr], err = ucsim.NewWord(WordWidth, v); err != nil {
			return errors.Wrapf(err, "load control store: address %d", addr)
		}
	}
	s.words = words
	s.logger().WithField("entries", len(m)).Debug("control store loaded")
	return nil
}

// Dump writes the control words at addresses from to to inclusive, one per
// line with the opcode and micro-step they belong to and their active lines.
// Zero words are skipped unless all is set.
//
//	ADDR  HEX         BIN                               OP  STEP  LINES
//	0x93  0x00800041  00000000100000000000000001000001  9   3     AC_LOAD|OPERAND_OUT|END_INSTR
//
func (s *Store) Dump(w io.Writer, from, to int, all bool) error {
	if from < 0 || to >= StoreSize || from > to {
		return errors.Errorf("invalid control store range %d-%d", from, to)
	}
	if _, err := fmt.Fprintf(w, "%-5s %-11s %-33s %-3s %-5s %s\n", "ADDR", "HEX", "BIN", "OP", "STEP", "LINES"); err != nil {
		return errors.Wrap(err, "control store dump")
	}
	for addr := from; addr <= to; addr++ {
		cw := s.words[addr]
		if !all && cw.Uint() == 0 {
			continue
		}
		lines, err := DecodeLines(cw)
		if err != nil {
			return errors.Wrapf(err, "control store dump: address %d", addr)
		}
		_, err = fmt.Fprintf(w, "0x%02X  0x%08X  %s  %-3X %-5d %s\n",
			addr, cw.Uint(), cw.Binary(), addr>>CounterWidth, addr&(Steps-1), lines)
		if err != nil {
			return errors.Wrap(err, "control store dump")
		}
	}
	return nil
}
