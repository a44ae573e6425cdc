// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package control implements the microcode control unit: the control store,
// the control line decoder, the micro-step counter, the instruction decoder
// and the multiply/divide sequencer.
//
package control

import (
	"strconv"
	"strings"

	"github.com/db47h/ucsim"
	"github.com/pkg/errors"
)

// A Line is a control line. Its value is the index of its bit in a control
// word, 0 being the most significant bit.
//
type Line int

// Control lines.
const (
	ALUOp0 Line = iota
	ALUOp1
	ALUFn0
	ALUFn1
	ALUFn2
	MARLoad
	MDRLoad
	IRLoad
	ACLoad
	PCLoad
	PCInc
	HILoad
	LOLoad
	TEMPLoad
	MDCntLoad
	StepCntLoad
	MemRead
	MemWrite
	IORead
	IOWrite
	MDStart
	MDShift
	MDAdd
	MDSub
	ALUEn      // latch the ALU output and refresh the flags
	OperandOut // IR operand drives the internal bus
	ACOut      // AC drives the internal bus
	CondZero   // qualify PC_LOAD with the zero flag
	Halt
	Reset
	Wait
	EndInstr

	NumLines
)

// WordWidth is the width of a control word.
const WordWidth = int(NumLines)

var lineNames = [NumLines]string{
	"ALU_OP0", "ALU_OP1", "ALU_FN0", "ALU_FN1", "ALU_FN2",
	"MAR_LOAD", "MDR_LOAD", "IR_LOAD", "AC_LOAD", "PC_LOAD", "PC_INC",
	"HI_LOAD", "LO_LOAD", "TEMP_LOAD", "MD_CNT_LOAD", "STEP_CNT_LOAD",
	"MEM_READ", "MEM_WRITE", "IO_READ", "IO_WRITE",
	"MD_START", "MD_SHIFT", "MD_ADD", "MD_SUB",
	"ALU_EN", "OPERAND_OUT", "AC_OUT", "COND_ZERO",
	"HALT", "RESET", "WAIT", "END_INSTR",
}

func (l Line) String() string {
	if l >= 0 && l < NumLines {
		return lineNames[l]
	}
	return "Line(" + strconv.Itoa(int(l)) + ")"
}

// LineByName returns the line with the given name.
//
func LineByName(name string) (Line, bool) {
	for i, n := range lineNames {
		if n == name {
			return Line(i), true
		}
	}
	return 0, false
}

// Encode returns a control word with the given lines set.
//
func Encode(lines ...Line) (ucsim.Word, error) {
	w := ucsim.MustWord(WordWidth, 0)
	for _, l := range lines {
		if err := w.SetBit(int(l), ucsim.High); err != nil {
			return ucsim.Word{}, errors.Wrap(err, "line "+l.String())
		}
	}
	return w, nil
}

// ALU returns the lines selecting the given unit and function code.
//
func ALU(op, fn uint8) []Line {
	var lines []Line
	for i, l := range []Line{ALUOp0, ALUOp1} {
		if op&(1<<uint(i)) != 0 {
			lines = append(lines, l)
		}
	}
	for i, l := range []Line{ALUFn0, ALUFn1, ALUFn2} {
		if fn&(1<<uint(i)) != 0 {
			lines = append(lines, l)
		}
	}
	return lines
}

// Lines holds the control lines decoded from a control word.
//
type Lines struct {
	word  ucsim.Word
	lines [NumLines]ucsim.Signal
}

// DecodeLines splits a 32-bit control word into individual control lines.
//
func DecodeLines(cw ucsim.Word) (Lines, error) {
	var l Lines
	if cw.Width() != WordWidth {
		return l, errors.Wrap(&ucsim.WidthError{Want: WordWidth, Got: cw.Width()}, "control word")
	}
	l.word = cw
	for i := range l.lines {
		l.lines[i] = cw.At(i)
	}
	return l, nil
}

// Get returns the state of the given line.
func (l *Lines) Get(line Line) ucsim.Signal { return l.lines[line] }

// Is returns true if the given line is asserted.
func (l *Lines) Is(line Line) bool { return l.lines[line] == ucsim.High }

// Word returns the control word the lines were decoded from.
func (l *Lines) Word() ucsim.Word { return l.word }

// ALUOp returns the 2-bit unit select: ALU_OP1 is the most significant bit.
//
func (l *Lines) ALUOp() ucsim.Word {
	w, _ := ucsim.FromSignals(l.lines[ALUOp1], l.lines[ALUOp0])
	return w
}

// ALUFunc returns the 3-bit function code: ALU_FN2 is the most significant
// bit.
//
func (l *Lines) ALUFunc() ucsim.Word {
	w, _ := ucsim.FromSignals(l.lines[ALUFn2], l.lines[ALUFn1], l.lines[ALUFn0])
	return w
}

// Active returns the asserted lines in bit order.
//
func (l *Lines) Active() []Line {
	var a []Line
	for i, s := range l.lines {
		if s == ucsim.High {
			a = append(a, Line(i))
		}
	}
	return a
}

func (l Lines) String() string {
	var b strings.Builder
	for _, a := range l.Active() {
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString(a.String())
	}
	return b.String()
}
