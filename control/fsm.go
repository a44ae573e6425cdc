// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package control

import "strconv"

// State is a state of the multiply/divide sequencer.
type State uint8

// Sequencer states.
const (
	Idle State = iota
	MultInit
	MultCycle
	DivInit
	DivCycle
	Error
)

var stateNames = [...]string{"IDLE", "MULT_INIT", "MULT_CYCLE", "DIV_INIT", "DIV_CYCLE", "ERROR"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// FSMInputs are the inputs of the sequencer, sampled by Update.
//
type FSMInputs struct {
	StartMult bool
	StartDiv  bool
	DivZero   bool
	Done      bool
	Reset     bool
}

// FSMOutputs are the sequencer outputs. They depend only on the current
// state.
//
type FSMOutputs struct {
	Start bool // md_start
	Shift bool // md_shift
	Busy  bool
	Error bool // md_error
}

// FSM is the multiply/divide sequencer.
//
//	IDLE       -> MULT_INIT on StartMult
//	IDLE       -> DIV_INIT on StartDiv, or ERROR if DivZero is also set
//	MULT_INIT  -> MULT_CYCLE
//	DIV_INIT   -> DIV_CYCLE
//	xxx_CYCLE  -> IDLE on Done
//	ERROR      -> ERROR
//
// Reset forces IDLE from any state. The zero FSM is idle.
//
type FSM struct {
	state State
	out   FSMOutputs
}

// Update performs one state transition and returns the new state.
//
func (f *FSM) Update(in FSMInputs) State {
	switch {
	case in.Reset:
		f.state = Idle
	case f.state == Idle:
		switch {
		case in.StartMult:
			f.state = MultInit
		case in.StartDiv && in.DivZero:
			f.state = Error
		case in.StartDiv:
			f.state = DivInit
		}
	case f.state == MultInit:
		f.state = MultCycle
	case f.state == DivInit:
		f.state = DivCycle
	case f.state == MultCycle || f.state == DivCycle:
		if in.Done {
			f.state = Idle
		}
	}
	f.out = outputs(f.state)
	return f.state
}

// Reset forces the FSM to IDLE.
func (f *FSM) Reset() { f.Update(FSMInputs{Reset: true}) }

// State returns the current state.
func (f *FSM) State() State { return f.state }

// Outputs returns the outputs for the current state.
func (f *FSM) Outputs() FSMOutputs { return f.out }

func outputs(s State) FSMOutputs {
	return FSMOutputs{
		Start: s == MultInit || s == DivInit,
		Shift: s == MultCycle || s == DivCycle,
		Busy:  s == MultCycle || s == DivCycle,
		Error: s == Error,
	}
}
