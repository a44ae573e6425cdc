// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cpu

import "github.com/db47h/ucsim"

// Register widths.
const (
	DataWidth   = 16
	StatusWidth = 8
)

// Status register bits.
const (
	StatusDivideByZero = 1 << iota
)

// Registers is the CPU register file.
//
type Registers struct {
	PC     *ucsim.Register // program counter
	IR     *ucsim.Register // instruction register
	AC     *ucsim.Register // accumulator
	MAR    *ucsim.Register // memory address register
	MDR    *ucsim.Register // memory data register
	TEMP   *ucsim.Register // multiply/divide operand latch
	HI, LO *ucsim.Register // multiply/divide results
	STATUS *ucsim.Register // error status bits
}

func mustRegister(name string, width int) *ucsim.Register {
	r, err := ucsim.NewRegister(name, width)
	if err != nil {
		panic(err)
	}
	return r
}

func newRegisters() Registers {
	return Registers{
		PC:     mustRegister("PC", DataWidth),
		IR:     mustRegister("IR", DataWidth),
		AC:     mustRegister("AC", DataWidth),
		MAR:    mustRegister("MAR", DataWidth),
		MDR:    mustRegister("MDR", DataWidth),
		TEMP:   mustRegister("TEMP", DataWidth),
		HI:     mustRegister("HI", DataWidth),
		LO:     mustRegister("LO", DataWidth),
		STATUS: mustRegister("STATUS", StatusWidth),
	}
}

// All returns the registers in display order.
//
func (r *Registers) All() []*ucsim.Register {
	return []*ucsim.Register{r.PC, r.IR, r.AC, r.MAR, r.MDR, r.TEMP, r.HI, r.LO, r.STATUS}
}

func (r *Registers) save() []ucsim.Word {
	all := r.All()
	ws := make([]ucsim.Word, len(all))
	for i, reg := range all {
		ws[i] = reg.Word()
	}
	return ws
}

func (r *Registers) restore(ws []ucsim.Word) {
	for i, reg := range r.All() {
		_ = reg.Load(ws[i])
	}
}

func (r *Registers) reset() {
	for _, reg := range r.All() {
		reg.Reset()
	}
}

// Flags are the condition flags refreshed by the ALU and the multiply/divide
// unit.
//
type Flags struct {
	Zero     ucsim.Signal
	Carry    ucsim.Signal
	Negative ucsim.Signal
}
