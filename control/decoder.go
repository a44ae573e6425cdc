// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package control

import (
	"strconv"
	"strings"

	"github.com/db47h/ucsim"
	hl "github.com/db47h/ucsim/hwlib"
	"github.com/pkg/errors"
)

// Instruction format.
const (
	InstrWidth   = 16
	OpcodeWidth  = 4
	OperandWidth = InstrWidth - OpcodeWidth
	MaxOperand   = 1<<OperandWidth - 1
)

// A Kind is an instruction kind. Its value is the instruction opcode.
//
type Kind uint8

// Instruction kinds.
const (
	NOP Kind = iota
	LOAD
	STORE
	ADD
	SUB
	MULT
	DIV
	JUMP
	JZ
	LOADI
	AND
	OR
	XOR
	SHL
	SHR
	HALT

	NumKinds
)

var kindNames = [NumKinds]string{
	"NOP", "LOAD", "STORE", "ADD", "SUB", "MULT", "DIV", "JUMP",
	"JZ", "LOADI", "AND", "OR", "XOR", "SHL", "SHR", "HALT",
}

func (k Kind) String() string {
	if k < NumKinds {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// HasOperand returns false for instructions that ignore their operand.
func (k Kind) HasOperand() bool { return k != NOP && k != HALT }

// KindByName returns the instruction kind for a mnemonic. The lookup is case
// insensitive.
//
func KindByName(name string) (Kind, bool) {
	name = strings.ToUpper(name)
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// An Instruction is a decoded instruction word.
//
type Instruction struct {
	Word    ucsim.Word // 16 bits
	Opcode  ucsim.Word // bits 0-3
	Operand ucsim.Word // bits 4-15
	Kind    Kind
}

// DecodeInstruction splits an instruction word into its opcode and operand
// fields and classifies it with a 4 to 16 decoder.
//
func DecodeInstruction(ir ucsim.Word) (Instruction, error) {
	in := Instruction{Word: ir}
	if ir.Width() != InstrWidth {
		return in, errors.Wrap(&ucsim.WidthError{Want: InstrWidth, Got: ir.Width()}, "instruction")
	}
	in.Opcode, _ = ir.Slice(0, OpcodeWidth)
	in.Operand, _ = ir.Slice(OpcodeWidth, InstrWidth)
	lines, err := hl.Decoder4to16(in.Opcode)
	if err != nil {
		return in, err
	}
	in.Kind = Kind(hl.Encode(lines[:]))
	return in, nil
}

// OperandWord returns the operand zero-extended to 16 bits.
//
func (in *Instruction) OperandWord() ucsim.Word {
	w, _ := ucsim.Concat(ucsim.MustWord(OpcodeWidth, 0), in.Operand)
	return w
}

func (in Instruction) String() string {
	if !in.Kind.HasOperand() {
		return in.Kind.String()
	}
	return in.Kind.String() + " " + in.Operand.Hex()
}

// EncodeInstruction assembles an instruction word.
//
func EncodeInstruction(k Kind, operand uint16) (uint16, error) {
	if k >= NumKinds {
		return 0, errors.Errorf("invalid instruction kind %d", k)
	}
	if operand > MaxOperand {
		return 0, errors.Wrap(&ucsim.RangeError{Value: uint64(operand), Width: OperandWidth}, k.String()+" operand")
	}
	return uint16(k)<<OperandWidth | operand, nil
}
