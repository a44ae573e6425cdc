// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package alu

import (
	"github.com/db47h/ucsim"
	hl "github.com/db47h/ucsim/hwlib"
)

// Unit select codes (ALUop).
const (
	OpArith = 0
	OpLogic = 1
	OpShift = 2
	OpZero  = 3
)

// Function codes. Arithmetic uses the least significant bit as the subtract
// control, the logical unit uses the two most significant bits as its mode
// and the shift unit uses all three as a ShiftMode.
const (
	FnAdd = 0 // 000
	FnSub = 1 // 001

	FnAnd = LogicAnd << 1 // 000
	FnOr  = LogicOr << 1  // 010
	FnXor = LogicXor << 1 // 100
	FnNot = LogicNot << 1 // 110

	FnSLL = uint8(SLL)
	FnASR = uint8(ASR)
	FnROL = uint8(ROL)
	FnROR = uint8(ROR)
	FnLSR = uint8(LSR)
)

// Result holds the outputs of one ALU evaluation.
//
type Result struct {
	Op  ucsim.Word // unit select, 2 bits
	Out ucsim.Word

	// sub-unit outputs, all computed on every evaluation
	Arith ucsim.Word
	Logic ucsim.Word
	Shift ucsim.Word

	Carry    ucsim.Signal // carry out of the arithmetic unit
	Zero     ucsim.Signal
	Negative ucsim.Signal
}

// CarryFlag returns the carry out of the arithmetic unit when it is the
// selected unit and Low otherwise.
//
func (r *Result) CarryFlag() ucsim.Signal {
	return hl.AndN(r.Carry, hl.Not(r.Op.At(0)), hl.Not(r.Op.At(1)))
}

// Execute evaluates the ALU.
//
//	Inputs: a[16], b[16], op[2], fn[3]
//	Outputs: out[16], carry, zero, negative
//	Function: out = {arith(a, b, fn[2]), logic(a, b, fn[0..1]), shift(a, b, fn), 0}[op]
//	          zero = out == 0
//	          negative = out[0]
//
func Execute(a, b, op, fn ucsim.Word) (Result, error) {
	r := Result{Op: op}
	if err := checkWidth("ALU op", op, 2); err != nil {
		return r, err
	}
	if err := checkWidth("ALU function", fn, 3); err != nil {
		return r, err
	}
	var err error
	if r.Arith, r.Carry, err = Arithmetic(a, b, fn.At(2)); err != nil {
		return r, err
	}
	mode, _ := fn.Slice(0, 2)
	if r.Logic, err = Logical(a, b, mode); err != nil {
		return r, err
	}
	if r.Shift, err = ShiftUnit(a, b, fn); err != nil {
		return r, err
	}
	if r.Out, err = hl.Mux3Word(r.Arith, r.Logic, r.Shift, op); err != nil {
		return r, err
	}
	r.Zero = hl.IsZero(r.Out)
	r.Negative = r.Out.At(0)
	return r, nil
}

// Compute is a convenience wrapper around Execute taking integer operands
// and select codes.
//
func Compute(a, b uint16, op, fn uint8) (Result, error) {
	wa, _ := ucsim.FromUint(Width, a)
	wb, _ := ucsim.FromUint(Width, b)
	wop, err := ucsim.FromUint(2, op)
	if err != nil {
		return Result{}, err
	}
	wfn, err := ucsim.FromUint(3, fn)
	if err != nil {
		return Result{}, err
	}
	return Execute(wa, wb, wop, wfn)
}
