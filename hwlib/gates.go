// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides the combinational building blocks of the simulator:
// logic gates, multiplexers, decoders and adders.
//
// All parts are stateless functions: outputs are computed from the inputs
// given on each call and nothing is cached between calls.
//
package hwlib

import (
	"strconv"

	"github.com/db47h/ucsim"
	"github.com/pkg/errors"
)

// Not returns the complement of in.
//
//	Inputs: in
//	Outputs: out
//	Function: out = !in
//
func Not(in ucsim.Signal) ucsim.Signal { return in ^ 1 }

// And returns a AND b.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b
//
func And(a, b ucsim.Signal) ucsim.Signal { return a & b }

// Nand returns NOT (a AND b).
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a && b)
//
func Nand(a, b ucsim.Signal) ucsim.Signal { return Not(And(a, b)) }

// Or returns a OR b.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a || b
//
func Or(a, b ucsim.Signal) ucsim.Signal { return a | b }

// Nor returns NOT (a OR b).
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a || b)
//
func Nor(a, b ucsim.Signal) ucsim.Signal { return Not(Or(a, b)) }

// Xor returns a XOR b.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && !b || !a && b
//
func Xor(a, b ucsim.Signal) ucsim.Signal { return Or(And(a, Not(b)), And(Not(a), b)) }

// Xnor returns NOT (a XOR b).
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b || !a && !b
//
func Xnor(a, b ucsim.Signal) ucsim.Signal { return Not(Xor(a, b)) }

// AndN returns the AND of all its inputs. It returns High when called with no
// inputs.
//
func AndN(in ...ucsim.Signal) ucsim.Signal {
	out := ucsim.High
	for _, s := range in {
		out = And(out, s)
	}
	return out
}

// OrN returns the OR of all its inputs. It returns Low when called with no
// inputs.
//
func OrN(in ...ucsim.Signal) ucsim.Signal {
	out := ucsim.Low
	for _, s := range in {
		out = Or(out, s)
	}
	return out
}

// A Gate describes a gate with a fixed number of inputs.
//
// Eval tolerates partially wired gates: inputs missing at the end of the
// input list are taken as Low. Passing more inputs than FanIn is an error.
//
type Gate struct {
	Name  string
	FanIn int
	fn    func(in ...ucsim.Signal) ucsim.Signal
}

// NewGate returns a new gate descriptor with the given fan-in. fn is called
// with exactly fanIn inputs.
//
func NewGate(name string, fanIn int, fn func(in ...ucsim.Signal) ucsim.Signal) (*Gate, error) {
	if fanIn < 1 || fanIn > 8 {
		return nil, errors.Errorf("gate %s: invalid fan-in %d", name, fanIn)
	}
	return &Gate{Name: name, FanIn: fanIn, fn: fn}, nil
}

func mustGate(name string, fanIn int, fn func(in ...ucsim.Signal) ucsim.Signal) *Gate {
	g, err := NewGate(name+strconv.Itoa(fanIn), fanIn, fn)
	if err != nil {
		panic(err)
	}
	return g
}

// Eval evaluates the gate.
//
func (g *Gate) Eval(in ...ucsim.Signal) (ucsim.Signal, error) {
	if len(in) > g.FanIn {
		return ucsim.Low, errors.Wrap(&ucsim.WidthError{Want: g.FanIn, Got: len(in)}, g.Name)
	}
	var buf [8]ucsim.Signal
	for i, s := range in {
		if s > ucsim.High {
			return ucsim.Low, errors.Wrap(&ucsim.RangeError{Value: uint64(s)}, g.Name+" input "+strconv.Itoa(i))
		}
		buf[i] = s
	}
	return g.fn(buf[:g.FanIn]...), nil
}

func xorN(in ...ucsim.Signal) ucsim.Signal {
	out := ucsim.Low
	for _, s := range in {
		out = Xor(out, s)
	}
	return out
}

// Common fixed fan-in gates.
var (
	NOT1 = mustGate("NOT", 1, func(in ...ucsim.Signal) ucsim.Signal { return Not(in[0]) })
	AND2 = mustGate("AND", 2, AndN)
	AND4 = mustGate("AND", 4, AndN)
	AND8 = mustGate("AND", 8, AndN)
	OR2  = mustGate("OR", 2, OrN)
	OR4  = mustGate("OR", 4, OrN)
	OR8  = mustGate("OR", 8, OrN)
	XOR2 = mustGate("XOR", 2, xorN)
)

func checkWidths(name string, a, b ucsim.Word) error {
	if a.Width() != b.Width() {
		return errors.Wrap(&ucsim.WidthError{Want: a.Width(), Got: b.Width()}, name)
	}
	return nil
}

func lanes(name string, a, b ucsim.Word, g func(a, b ucsim.Signal) ucsim.Signal) (ucsim.Word, error) {
	if err := checkWidths(name, a, b); err != nil {
		return ucsim.Word{}, err
	}
	out := a
	for i := 0; i < a.Width(); i++ {
		_ = out.SetBit(i, g(a.At(i), b.At(i)))
	}
	return out, nil
}

// NotWord returns the bitwise complement of in.
//
//	Inputs: in[n]
//	Outputs: out[n]
//	Function: for i := range out { out[i] = !in[i] }
//
func NotWord(in ucsim.Word) ucsim.Word {
	out := in
	for i := 0; i < in.Width(); i++ {
		_ = out.SetBit(i, Not(in.At(i)))
	}
	return out
}

// AndWord returns the bitwise AND of a and b.
//
//	Inputs: a[n], b[n]
//	Outputs: out[n]
//	Function: for i := range out { out[i] = a[i] && b[i] }
//
func AndWord(a, b ucsim.Word) (ucsim.Word, error) { return lanes("AND", a, b, And) }

// OrWord returns the bitwise OR of a and b.
//
//	Inputs: a[n], b[n]
//	Outputs: out[n]
//	Function: for i := range out { out[i] = a[i] || b[i] }
//
func OrWord(a, b ucsim.Word) (ucsim.Word, error) { return lanes("OR", a, b, Or) }

// XorWord returns the bitwise XOR of a and b.
//
//	Inputs: a[n], b[n]
//	Outputs: out[n]
//	Function: for i := range out { out[i] = a[i] != b[i] }
//
func XorWord(a, b ucsim.Word) (ucsim.Word, error) { return lanes("XOR", a, b, Xor) }

// IsZero returns High if all bits of in are Low.
//
//	Inputs: in[n]
//	Outputs: out
//	Function: out = !(in[0] || in[1] || ... || in[n-1])
//
func IsZero(in ucsim.Word) ucsim.Signal { return Not(OrN(in.Signals()...)) }
