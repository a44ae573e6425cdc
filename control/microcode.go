// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package control

import (
	"github.com/db47h/ucsim"
	"github.com/db47h/ucsim/alu"
)

// FetchSteps is the number of micro-steps of the fetch sequence shared by
// all instructions.
const FetchSteps = 3

// A Microprogram is the list of micro-steps of an instruction's execute
// phase, each step being the set of lines asserted during that step.
//
type Microprogram [][]Line

var fetch = Microprogram{
	{MARLoad},                 // MAR <- PC
	{MemRead, MDRLoad, PCInc}, // MDR <- mem[MAR], PC <- PC+1
	{IRLoad},                  // IR <- MDR
}

func with(lines []Line, more ...Line) []Line {
	return append(append([]Line(nil), lines...), more...)
}

// memory operand: MDR <- mem[operand]
var readOperand = Microprogram{
	{MARLoad, OperandOut},
	{MemRead, MDRLoad},
}

func aluMem(op, fn uint8) Microprogram {
	return append(readOperand, with(ALU(op, fn), ALUEn, ACLoad, EndInstr))
}

func mulDiv(md Line) Microprogram {
	return append(readOperand,
		[]Line{TEMPLoad, MDCntLoad, MDStart},
		[]Line{MDShift, md, Wait},
		[]Line{HILoad, LOLoad, ACLoad, EndInstr},
	)
}

var programs = [NumKinds]Microprogram{
	NOP:   {{EndInstr}},
	LOAD:  append(readOperand, []Line{ACLoad, EndInstr}),
	STORE: {{MARLoad, OperandOut}, {ACOut, MDRLoad}, {MemWrite, EndInstr}},
	ADD:   aluMem(alu.OpArith, alu.FnAdd),
	SUB:   aluMem(alu.OpArith, alu.FnSub),
	MULT:  mulDiv(MDAdd),
	DIV:   mulDiv(MDSub),
	JUMP:  {{PCLoad, OperandOut, EndInstr}},
	JZ:    {{PCLoad, OperandOut, CondZero, EndInstr}},
	LOADI: {{ACLoad, OperandOut, EndInstr}},
	AND:   aluMem(alu.OpLogic, alu.FnAnd),
	OR:    aluMem(alu.OpLogic, alu.FnOr),
	XOR:   aluMem(alu.OpLogic, alu.FnXor),
	SHL:   {with(ALU(alu.OpShift, alu.FnSLL), OperandOut, ALUEn, ACLoad, EndInstr)},
	SHR:   {with(ALU(alu.OpShift, alu.FnLSR), OperandOut, ALUEn, ACLoad, EndInstr)},
	HALT:  {{Halt, EndInstr}},
}

// Program returns the execute microprogram of the given instruction kind.
//
func Program(k Kind) Microprogram {
	if k >= NumKinds {
		return nil
	}
	return programs[k]
}

// Microcode generates the content of the control store: the fetch sequence
// at steps 0-2 of every opcode followed by the opcode's execute microprogram.
// Unused entries are zero.
//
func Microcode() [StoreSize]ucsim.Word {
	var m [StoreSize]ucsim.Word
	for i := range m {
		m[i] = ucsim.MustWord(WordWidth, 0)
	}
	for k := NOP; k < NumKinds; k++ {
		steps := append(append(Microprogram(nil), fetch...), programs[k]...)
		if len(steps) > Steps {
			panic("microprogram too long for " + k.String())
		}
		for step, lines := range steps {
			w, err := Encode(lines...)
			if err != nil {
				panic(err)
			}
			m[int(k)<<CounterWidth|step] = w
		}
	}
	return m
}
