// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package control

import (
	"github.com/db47h/ucsim"
	"github.com/pkg/errors"
)

// Unit is the control unit. On each clock cycle, the control word addressed
// by the current opcode and micro-step is read from the store and decoded
// into control lines; Advance then moves the micro-step counter.
//
type Unit struct {
	Store   *Store
	Counter *MicroCounter
	FSM     FSM

	lines Lines
}

// NewUnit returns a control unit loaded with the default microcode.
//
func NewUnit() *Unit {
	return &Unit{Store: NewStore(), Counter: NewMicroCounter()}
}

// Reset clears the micro-step counter and the sequencer.
//
func (u *Unit) Reset() {
	u.Counter.Clear()
	u.FSM.Reset()
	u.lines = Lines{}
}

// Step returns the current micro-step.
func (u *Unit) Step() int { return u.Counter.Value() }

// Signals reads and decodes the control word for the given opcode at the
// current micro-step.
//
func (u *Unit) Signals(opcode ucsim.Word) (Lines, error) {
	if opcode.Width() != OpcodeWidth {
		return Lines{}, errors.Wrap(&ucsim.WidthError{Want: OpcodeWidth, Got: opcode.Width()}, "opcode")
	}
	cw, err := u.Store.Fetch(int(opcode.Uint()), u.Counter.Value())
	if err != nil {
		return Lines{}, err
	}
	if u.lines, err = DecodeLines(cw); err != nil {
		return Lines{}, err
	}
	return u.lines, nil
}

// Lines returns the lines decoded by the last call to Signals.
func (u *Unit) Lines() Lines { return u.lines }

// Advance clocks the micro-step counter: END_INSTR or RESET clears it,
// STEP_CNT_LOAD loads it from Counter.In, otherwise it increments unless
// hold is set.
//
func (u *Unit) Advance(hold bool) error {
	c := u.Counter
	c.Reset = ucsim.Bool(u.lines.Is(EndInstr) || u.lines.Is(Reset))
	c.Load = u.lines.Get(StepCntLoad)
	c.Inc = ucsim.Bool(!hold)
	err := c.Clock()
	c.Reset, c.Load, c.Inc = ucsim.Low, ucsim.Low, ucsim.Low
	return err
}
