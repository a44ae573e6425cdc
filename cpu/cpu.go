// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package cpu implements a 16-bit accumulator CPU driven by the microcode
// control unit.
//
// Each clock cycle executes one micro-step: the control word addressed by
// the current opcode and micro-step is decoded into control lines which drive
// register transfers between the register file, the ALU, the multiply/divide
// unit and memory. An instruction cycle is the sequence of micro-steps from
// the fetch of an instruction up to its END_INSTR micro-step.
//
// The register transfers of a micro-step are performed in this order:
//
//	MAR_LOAD                MAR <- operand if OPERAND_OUT, else PC
//	MEM_READ + MDR_LOAD     MDR <- mem[MAR]
//	AC_OUT + MDR_LOAD       MDR <- AC
//	IR_LOAD, TEMP_LOAD      IR <- MDR, TEMP <- MDR
//	MEM_WRITE               mem[MAR] <- MDR
//	MD_START, WAIT          multiply/divide sequencing
//	HI_LOAD, LO_LOAD        HI, LO <- multiply/divide results
//	AC_LOAD                 AC <- ALU if ALU_EN, else LO if LO_LOAD,
//	                        else operand if OPERAND_OUT, else MDR
//	PC_INC, PC_LOAD         PC <- PC+1, PC <- operand (if Z when COND_ZERO)
//	HALT, END_INSTR         stop, next instruction
//
package cpu

import (
	"github.com/db47h/ucsim"
	"github.com/db47h/ucsim/alu"
	"github.com/db47h/ucsim/control"
	hl "github.com/db47h/ucsim/hwlib"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MaxMicroSteps is the maximum number of micro-steps Cycle will run for a
// single instruction. A multiplication takes 24.
const MaxMicroSteps = 64

// Memory is the memory bus as seen by the CPU. *memory.Port implements
// Memory.
//
type Memory interface {
	Read(addr uint16) ucsim.Word
	Write(addr uint16, w ucsim.Word)
}

// CPU is the processor state.
//
type CPU struct {
	Log     logrus.FieldLogger
	Control *control.Unit
	Regs    Registers
	Flags   Flags

	mem     Memory
	md      alu.MulDiv
	running bool
	cycles  uint64
	instrs  uint64
}

// New returns a new CPU connected to mem, loaded with the default microcode
// and in its reset state.
//
func New(mem Memory) *CPU {
	c := &CPU{
		Log:     logrus.StandardLogger(),
		Control: control.NewUnit(),
		Regs:    newRegisters(),
		mem:     mem,
	}
	c.Reset()
	return c
}

// Reset clears all registers, flags and counters and starts the CPU.
//
func (c *CPU) Reset() {
	c.Regs.reset()
	c.Flags = Flags{}
	c.Control.Reset()
	c.md = alu.MulDiv{}
	c.cycles, c.instrs = 0, 0
	c.running = true
}

// SetPC sets the program counter. It is used to set a program's entry point
// after Reset.
//
func (c *CPU) SetPC(addr uint16) {
	_ = c.Regs.PC.LoadUint(uint64(addr))
}

// Running returns false once the CPU has executed a HALT instruction.
func (c *CPU) Running() bool { return c.running }

// Cycles returns the number of clock cycles (micro-steps) executed since
// the last reset.
func (c *CPU) Cycles() uint64 { return c.cycles }

// Instructions returns the number of instructions completed since the last
// reset.
func (c *CPU) Instructions() uint64 { return c.instrs }

// Instruction returns the decoded content of IR.
//
func (c *CPU) Instruction() control.Instruction {
	in, _ := control.DecodeInstruction(c.Regs.IR.Word())
	return in
}

// Step executes one micro-step. It does nothing if the CPU is halted. If the
// micro-step fails, the registers and flags are left as they were before the
// call.
//
func (c *CPU) Step() error {
	if !c.running {
		return nil
	}
	in := c.Instruction()
	step := c.Control.Step()
	lines, err := c.Control.Signals(in.Opcode)
	if err != nil {
		return errors.Wrapf(err, "step %d of %s", step, in.Kind)
	}
	c.Log.WithFields(logrus.Fields{
		"pc":     c.Regs.PC.Hex(),
		"ir":     c.Regs.IR.Hex(),
		"step":   step,
		"opcode": in.Kind,
		"lines":  lines,
	}).Debug("micro-step")

	regs, flags := c.Regs.save(), c.Flags
	dp := &datapath{CPU: c, l: &lines, in: in}
	hold, err := dp.run()
	if err != nil {
		c.Regs.restore(regs)
		c.Flags = flags
		return errors.Wrapf(err, "step %d of %s", step, in.Kind)
	}
	c.cycles++
	if dp.aborted {
		return nil
	}
	if lines.Is(control.EndInstr) {
		c.retire(in)
	}
	if err = c.Control.Advance(hold); err != nil {
		return errors.Wrap(err, "micro-step counter")
	}
	return nil
}

func (c *CPU) retire(in control.Instruction) {
	c.instrs++
	c.Log.WithFields(logrus.Fields{
		"pc":          c.Regs.PC.Hex(),
		"instruction": in.String(),
		"ac":          c.Regs.AC.Hex(),
	}).Debug("instruction retired")
}

// Cycle executes micro-steps up to and including the END_INSTR micro-step
// of the current instruction. It does nothing if the CPU is halted.
//
func (c *CPU) Cycle() error {
	n := c.instrs
	for i := 0; i < MaxMicroSteps; i++ {
		if !c.running {
			return nil
		}
		if err := c.Step(); err != nil {
			return err
		}
		if c.instrs != n {
			return nil
		}
	}
	return errors.Errorf("instruction %s at PC %s did not complete in %d micro-steps", c.Instruction(), c.Regs.PC.Hex(), MaxMicroSteps)
}

// Run executes up to max instruction cycles and stops early if the CPU
// halts. It returns the number of instruction cycles executed.
//
func (c *CPU) Run(max int) (int, error) {
	if max < 0 {
		return 0, errors.Errorf("invalid cycle count %d", max)
	}
	n := 0
	for ; n < max && c.running; n++ {
		if err := c.Cycle(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (c *CPU) setFlags(z, carry, neg ucsim.Signal) {
	c.Flags = Flags{Zero: z, Carry: carry, Negative: neg}
}

func (c *CPU) setStatus(bits uint64) {
	_ = c.Regs.STATUS.LoadUint(c.Regs.STATUS.Uint() | bits)
}

func isZero(w ucsim.Word) bool { return hl.IsZero(w) == ucsim.High }
