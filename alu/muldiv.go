// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package alu

import (
	"github.com/db47h/ucsim"
	hl "github.com/db47h/ucsim/hwlib"
	"github.com/pkg/errors"
)

// MulDivOp selects the operation of a MulDiv unit.
type MulDivOp uint8

// MulDiv operations.
const (
	Mul MulDivOp = iota
	Div
)

// Iterations is the number of clock cycles a multiplication or a division
// takes.
const Iterations = Width

// ErrDivideByZero is returned by Start and Divide when the divisor is zero.
var ErrDivideByZero = errors.New("division by zero")

// MulDiv is a sequential unsigned multiplier/divider built around the
// arithmetic unit. It performs one iteration per call to Step.
//
// Multiplication is shift-and-add: on completion, Hi:Lo holds the 32-bit
// product. Division is restoring division: on completion, Lo holds the
// quotient and Hi the remainder.
//
type MulDiv struct {
	op      MulDivOp
	hi, lo  ucsim.Word
	operand ucsim.Word
	count   int
}

// Start loads the operands and arms the iteration counter. For Mul, a is the
// multiplier and b the multiplicand. For Div, a is the dividend and b the
// divisor.
//
func (m *MulDiv) Start(op MulDivOp, a, b ucsim.Word) error {
	if err := checkWidth("muldiv A", a, Width); err != nil {
		return err
	}
	if err := checkWidth("muldiv B", b, Width); err != nil {
		return err
	}
	if op == Div && b.Uint() == 0 {
		return ErrDivideByZero
	}
	m.op = op
	m.hi = ucsim.MustWord(Width, 0)
	m.lo = a
	m.operand = b
	m.count = Iterations
	return nil
}

// Step performs one iteration. It does nothing once the operation has
// completed.
//
func (m *MulDiv) Step() {
	if m.count == 0 {
		return
	}
	switch m.op {
	case Mul:
		sum, c := m.hi, ucsim.Low
		if m.lo.At(Width-1) == ucsim.High {
			sum, c, _ = Arithmetic(m.hi, m.operand, ucsim.Low)
		}
		// {c, sum, lo} >>= 1
		hi, lo := sum, m.lo
		for i := Width - 1; i > 0; i-- {
			_ = hi.SetBit(i, sum.At(i-1))
			_ = lo.SetBit(i, m.lo.At(i-1))
		}
		_ = hi.SetBit(0, c)
		_ = lo.SetBit(0, sum.At(Width-1))
		m.hi, m.lo = hi, lo
	case Div:
		// {out, hi, lo} <<= 1
		out := m.hi.At(0)
		hi, lo := m.hi, m.lo
		for i := 0; i < Width-1; i++ {
			_ = hi.SetBit(i, m.hi.At(i+1))
			_ = lo.SetBit(i, m.lo.At(i+1))
		}
		_ = hi.SetBit(Width-1, m.lo.At(0))
		_ = lo.SetBit(Width-1, ucsim.Low)
		diff, c, _ := Arithmetic(hi, m.operand, ucsim.High)
		if hl.Or(out, c) == ucsim.High {
			hi = diff
			_ = lo.SetBit(Width-1, ucsim.High)
		}
		m.hi, m.lo = hi, lo
	}
	m.count--
}

// Done returns true when no iterations are left.
func (m *MulDiv) Done() bool { return m.count == 0 }

// Remaining returns the number of iterations left.
func (m *MulDiv) Remaining() int { return m.count }

// Hi returns the high result register.
func (m *MulDiv) Hi() ucsim.Word { return m.hi }

// Lo returns the low result register.
func (m *MulDiv) Lo() ucsim.Word { return m.lo }

func run(op MulDivOp, a, b ucsim.Word) (hi, lo ucsim.Word, err error) {
	var m MulDiv
	if err = m.Start(op, a, b); err != nil {
		return
	}
	for !m.Done() {
		m.Step()
	}
	return m.Hi(), m.Lo(), nil
}

// Multiply returns the 32-bit product of a and b as a high and a low word.
//
func Multiply(a, b ucsim.Word) (hi, lo ucsim.Word, err error) {
	return run(Mul, a, b)
}

// Divide returns the quotient and remainder of a / b.
//
func Divide(a, b ucsim.Word) (q, r ucsim.Word, err error) {
	r, q, err = run(Div, a, b)
	return
}
