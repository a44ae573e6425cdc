// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package asm implements a line assembler and a disassembler for the
// instruction set.
//
// A source line is a mnemonic optionally followed by an operand:
//
//	LOADI 5     ; AC <- 5
//	ADD 0x010
//	HALT
//
// Operands are decimal, 0x hexadecimal, 0o octal or 0b binary numbers in the
// range [0, 0xFFF].
//
package asm

import (
	"bufio"
	"strings"

	"github.com/db47h/ucsim"
	"github.com/db47h/ucsim/control"
	"github.com/pkg/errors"
)

func parseError(in string, pos int, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, pos+1, msg)
}

// Assemble assembles a single instruction.
//
func Assemble(line string) (uint16, error) {
	items := lex(line)
	i := items[0]
	if i.Type != Ident {
		return 0, parseError(line, i.Pos, "expected mnemonic")
	}
	k, ok := control.KindByName(i.Value.(string))
	if !ok {
		return 0, parseError(line, i.Pos, "unknown mnemonic "+i.Value.(string))
	}
	var operand uint16
	i = items[1]
	switch i.Type {
	case Int:
		if !k.HasOperand() {
			return 0, parseError(line, i.Pos, k.String()+" takes no operand")
		}
		operand = i.Value.(uint16)
		if operand > control.MaxOperand {
			return 0, parseError(line, i.Pos, "operand out of range")
		}
		i = items[2]
	case Raw:
		return 0, parseError(line, i.Pos, "invalid operand")
	default:
		if k.HasOperand() {
			return 0, parseError(line, i.Pos, "missing operand")
		}
	}
	if i.Type != EOF {
		return 0, parseError(line, i.Pos, "expected end of line")
	}
	return control.EncodeInstruction(k, operand)
}

// Program assembles a source text, one instruction per line. Blank lines and
// comment lines are skipped.
//
func Program(src string) ([]uint16, error) {
	var out []uint16
	s := bufio.NewScanner(strings.NewReader(src))
	for n := 1; s.Scan(); n++ {
		if items := lex(s.Text()); items[0].Type == EOF {
			continue
		}
		w, err := Assemble(s.Text())
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n)
		}
		out = append(out, w)
	}
	return out, errors.Wrap(s.Err(), "read source")
}

// Disassemble returns the source form of an instruction word.
//
func Disassemble(w uint16) string {
	in, err := control.DecodeInstruction(ucsim.MustWord(control.InstrWidth, uint64(w)))
	if err != nil {
		return "???"
	}
	return in.String()
}
