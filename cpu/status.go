// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cpu

import (
	"fmt"
	"strings"

	"github.com/db47h/ucsim/control"
)

// Phase is the phase of the instruction cycle the next micro-step belongs
// to.
type Phase uint8

// Instruction cycle phases.
const (
	Fetch Phase = iota
	Decode
	Execute
	Halted
)

var phaseNames = [...]string{"FETCH", "DECODE", "EXECUTE", "HALT"}

func (p Phase) String() string { return phaseNames[p] }

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Phase returns the current phase.
//
func (c *CPU) Phase() Phase {
	switch step := c.Control.Step(); {
	case !c.running:
		return Halted
	case step < control.FetchSteps-1:
		return Fetch
	case step == control.FetchSteps-1:
		return Decode
	default:
		return Execute
	}
}

// FlagStatus holds the condition flags of a Status.
type FlagStatus struct {
	Zero     bool `json:"zero"`
	Carry    bool `json:"carry"`
	Negative bool `json:"negative"`
}

// Status is a snapshot of the CPU state. Register values are hex strings.
//
type Status struct {
	Registers    map[string]string `json:"registers"`
	Flags        FlagStatus        `json:"flags"`
	Instruction  string            `json:"instruction"`
	Phase        Phase             `json:"phase"`
	MicroStep    int               `json:"micro_step"`
	FSM          string            `json:"fsm_state"`
	Cycles       uint64            `json:"clock_cycles"`
	Instructions uint64            `json:"instructions"`
	Running      bool              `json:"running"`
	Halted       bool              `json:"halted"`
	Error        string            `json:"error,omitempty"`

	order []string
}

// Status returns a snapshot of the CPU state.
//
func (c *CPU) Status() Status {
	s := Status{
		Registers: make(map[string]string),
		Flags: FlagStatus{
			Zero:     c.Flags.Zero.Bool(),
			Carry:    c.Flags.Carry.Bool(),
			Negative: c.Flags.Negative.Bool(),
		},
		Instruction:  c.Instruction().String(),
		Phase:        c.Phase(),
		MicroStep:    c.Control.Step(),
		FSM:          c.Control.FSM.State().String(),
		Cycles:       c.cycles,
		Instructions: c.instrs,
		Running:      c.running,
		Halted:       !c.running,
	}
	for _, r := range c.Regs.All() {
		s.Registers[r.Name()] = r.Hex()
		s.order = append(s.order, r.Name())
	}
	if c.Regs.STATUS.Uint()&StatusDivideByZero != 0 {
		s.Error = "divide by zero"
	}
	return s
}

func flag(name string, set bool) string {
	if set {
		return name
	}
	return "-"
}

func (s Status) String() string {
	var b strings.Builder
	for i, name := range s.order {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%s", name, s.Registers[name])
	}
	fmt.Fprintf(&b, "\nflags=%s%s%s phase=%s step=%d fsm=%s ir=%q\n",
		flag("Z", s.Flags.Zero), flag("C", s.Flags.Carry), flag("N", s.Flags.Negative),
		s.Phase, s.MicroStep, s.FSM, s.Instruction)
	fmt.Fprintf(&b, "cycles=%d instructions=%d running=%v", s.Cycles, s.Instructions, s.Running)
	if s.Error != "" {
		fmt.Fprintf(&b, " error=%q", s.Error)
	}
	return b.String()
}
