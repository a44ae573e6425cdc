// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cpu

import (
	"github.com/db47h/ucsim"
	"github.com/db47h/ucsim/alu"
	"github.com/db47h/ucsim/control"
	hl "github.com/db47h/ucsim/hwlib"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// datapath performs the register transfers of one micro-step.
//
type datapath struct {
	*CPU
	l       *control.Lines
	in      control.Instruction
	aborted bool
}

func (d *datapath) is(line control.Line) bool { return d.l.Is(line) }

// operand is the IR operand, zero-extended, as driven on the internal bus.
func (d *datapath) operand() ucsim.Word { return d.in.OperandWord() }

func (d *datapath) run() (hold bool, err error) {
	r := &d.Regs

	if d.is(control.MARLoad) {
		src := r.PC.Word()
		if d.is(control.OperandOut) {
			src = d.operand()
		}
		if err = r.MAR.Load(src); err != nil {
			return false, err
		}
	}

	if d.is(control.MDRLoad) {
		switch {
		case d.is(control.MemRead):
			err = r.MDR.Load(d.mem.Read(uint16(r.MAR.Uint())))
		case d.is(control.ACOut):
			err = r.MDR.Load(r.AC.Word())
		}
		if err != nil {
			return false, errors.Wrap(err, "MDR")
		}
	}

	if d.is(control.IRLoad) {
		_ = r.IR.Load(r.MDR.Word())
	}
	if d.is(control.TEMPLoad) {
		_ = r.TEMP.Load(r.MDR.Word())
	}

	if d.is(control.MemWrite) {
		d.mem.Write(uint16(r.MAR.Uint()), r.MDR.Word())
	}

	if d.is(control.MDStart) || d.is(control.Wait) {
		if hold, err = d.mulDiv(); err != nil || d.aborted {
			return false, err
		}
	}

	if d.is(control.HILoad) {
		_ = r.HI.Load(d.md.Hi())
	}
	if d.is(control.LOLoad) {
		_ = r.LO.Load(d.md.Lo())
	}
	if d.is(control.HILoad) && d.is(control.LOLoad) {
		// flags follow LO, the value loaded into AC
		lo := r.LO.Word()
		d.setFlags(hl.IsZero(lo), ucsim.Low, lo.At(0))
	}

	if d.is(control.ACLoad) {
		if err = d.loadAC(); err != nil {
			return false, err
		}
	}

	if d.is(control.PCInc) {
		pc, _ := hl.Inc(r.PC.Word())
		_ = r.PC.Load(pc)
	}
	if d.is(control.PCLoad) && (!d.is(control.CondZero) || d.Flags.Zero == ucsim.High) {
		_ = r.PC.Load(d.operand())
	}

	if d.is(control.Halt) {
		d.running = false
		d.Log.WithFields(logrus.Fields{
			"pc":           r.PC.Hex(),
			"cycles":       d.cycles + 1,
			"instructions": d.instrs + 1,
		}).Info("CPU halted")
	}
	return hold, nil
}

// loadAC selects the AC source. Evaluating the ALU refreshes the flags.
//
func (d *datapath) loadAC() error {
	r := &d.Regs
	switch {
	case d.is(control.ALUEn):
		b := r.MDR.Word()
		if d.is(control.OperandOut) {
			b = d.operand()
		}
		res, err := alu.Execute(r.AC.Word(), b, d.l.ALUOp(), d.l.ALUFunc())
		if err != nil {
			return errors.Wrap(err, "ALU")
		}
		d.setFlags(res.Zero, res.CarryFlag(), res.Negative)
		return r.AC.Load(res.Out)
	case d.is(control.LOLoad):
		return r.AC.Load(r.LO.Word())
	case d.is(control.OperandOut):
		return r.AC.Load(d.operand())
	default:
		return r.AC.Load(r.MDR.Word())
	}
}

// mulDiv drives the multiply/divide sequencer. MD_START starts the unit
// with AC and TEMP as operands; during WAIT, each clock performs one
// iteration and the micro-step counter is held until the sequencer returns to
// IDLE. On a division by zero, the instruction is aborted.
//
func (d *datapath) mulDiv() (hold bool, err error) {
	r := &d.Regs
	fsm := &d.Control.FSM
	op := alu.Mul
	if d.in.Kind == control.DIV {
		op = alu.Div
	}

	var in control.FSMInputs
	switch {
	case d.is(control.MDStart):
		in.StartMult = op == alu.Mul
		in.StartDiv = op == alu.Div
		in.DivZero = isZero(r.TEMP.Word())
	case fsm.Outputs().Shift:
		d.md.Step()
		in.Done = d.md.Done()
	}
	fsm.Update(in)

	out := fsm.Outputs()
	switch {
	case out.Error:
		d.setStatus(StatusDivideByZero)
		d.Log.WithFields(logrus.Fields{
			"pc": r.PC.Hex(),
			"ac": r.AC.Hex(),
		}).Warn("divide by zero")
		fsm.Reset()
		d.Control.Counter.Clear()
		d.retire(d.in)
		d.aborted = true
		return false, nil
	case out.Start:
		if err = d.md.Start(op, r.AC.Word(), r.TEMP.Word()); err != nil {
			return false, err
		}
	}
	return d.is(control.Wait) && fsm.State() != control.Idle, nil
}
