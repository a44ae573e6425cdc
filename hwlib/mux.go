// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/ucsim"
	"github.com/pkg/errors"
)

// Mux is a 2:1 multiplexer.
//
//	Inputs: a, b, sel
//	Outputs: out
//	Function: if sel == 0 { out = a } else { out = b }
//
func Mux(a, b, sel ucsim.Signal) ucsim.Signal {
	return Or(And(a, Not(sel)), And(b, sel))
}

// Mux4 is a 4:1 multiplexer. s1 is the most significant select bit.
//
//	Inputs: d0, d1, d2, d3, s1, s0
//	Outputs: out
//	Function: out = d[s1<<1|s0]
//
func Mux4(d0, d1, d2, d3, s1, s0 ucsim.Signal) ucsim.Signal {
	n1, n0 := Not(s1), Not(s0)
	return OrN(
		AndN(d0, n1, n0),
		AndN(d1, n1, s0),
		AndN(d2, s1, n0),
		AndN(d3, s1, s0),
	)
}

// Mux3 is a 3:1 multiplexer. The unused select code 11 outputs Low.
//
//	Inputs: a, b, c, s1, s0
//	Outputs: out
//	Function: switch s1<<1|s0 { case 0: out = a; case 1: out = b; case 2: out = c; default: out = 0 }
//
func Mux3(a, b, c, s1, s0 ucsim.Signal) ucsim.Signal {
	return Mux4(a, b, c, ucsim.Low, s1, s0)
}

// Mux8 is a 8:1 multiplexer. s2 is the most significant select bit.
//
//	Inputs: d[8], s2, s1, s0
//	Outputs: out
//	Function: out = d[s2<<2|s1<<1|s0]
//
func Mux8(d [8]ucsim.Signal, s2, s1, s0 ucsim.Signal) ucsim.Signal {
	n2, n1, n0 := Not(s2), Not(s1), Not(s0)
	return OrN(
		AndN(d[0], n2, n1, n0),
		AndN(d[1], n2, n1, s0),
		AndN(d[2], n2, s1, n0),
		AndN(d[3], n2, s1, s0),
		AndN(d[4], s2, n1, n0),
		AndN(d[5], s2, n1, s0),
		AndN(d[6], s2, s1, n0),
		AndN(d[7], s2, s1, s0),
	)
}

func checkSel(name string, sel ucsim.Word, bits int) error {
	if sel.Width() != bits {
		return errors.Wrap(&ucsim.WidthError{Want: bits, Got: sel.Width()}, name+" select")
	}
	return nil
}

func sameWidth(name string, ws ...ucsim.Word) error {
	for _, w := range ws[1:] {
		if err := checkWidths(name, ws[0], w); err != nil {
			return err
		}
	}
	return nil
}

// MuxWord is a 2:1 multiplexer over Words.
//
//	Inputs: a[n], b[n], sel
//	Outputs: out[n]
//	Function: if sel == 0 { out = a } else { out = b }
//
func MuxWord(a, b ucsim.Word, sel ucsim.Signal) (ucsim.Word, error) {
	if err := checkWidths("MUX", a, b); err != nil {
		return ucsim.Word{}, err
	}
	out := a
	for i := 0; i < a.Width(); i++ {
		_ = out.SetBit(i, Mux(a.At(i), b.At(i), sel))
	}
	return out, nil
}

// Mux3Word is a 3:1 multiplexer over Words. sel must be 2 bits wide.
//
//	Inputs: a[n], b[n], c[n], sel[2]
//	Outputs: out[n]
//	Function: out = {a, b, c, 0}[sel]
//
func Mux3Word(a, b, c, sel ucsim.Word) (ucsim.Word, error) {
	if err := checkSel("MUX3", sel, 2); err != nil {
		return ucsim.Word{}, err
	}
	if err := sameWidth("MUX3", a, b, c); err != nil {
		return ucsim.Word{}, err
	}
	s1, s0 := sel.At(0), sel.At(1)
	out := a
	for i := 0; i < a.Width(); i++ {
		_ = out.SetBit(i, Mux3(a.At(i), b.At(i), c.At(i), s1, s0))
	}
	return out, nil
}

// Mux4Word is a 4:1 multiplexer over Words. sel must be 2 bits wide.
//
//	Inputs: d[4][n], sel[2]
//	Outputs: out[n]
//	Function: out = d[sel]
//
func Mux4Word(d [4]ucsim.Word, sel ucsim.Word) (ucsim.Word, error) {
	if err := checkSel("MUX4", sel, 2); err != nil {
		return ucsim.Word{}, err
	}
	if err := sameWidth("MUX4", d[:]...); err != nil {
		return ucsim.Word{}, err
	}
	s1, s0 := sel.At(0), sel.At(1)
	out := d[0]
	for i := 0; i < out.Width(); i++ {
		_ = out.SetBit(i, Mux4(d[0].At(i), d[1].At(i), d[2].At(i), d[3].At(i), s1, s0))
	}
	return out, nil
}

// Mux8Word is a 8:1 multiplexer over Words. sel must be 3 bits wide.
//
//	Inputs: d[8][n], sel[3]
//	Outputs: out[n]
//	Function: out = d[sel]
//
func Mux8Word(d [8]ucsim.Word, sel ucsim.Word) (ucsim.Word, error) {
	if err := checkSel("MUX8", sel, 3); err != nil {
		return ucsim.Word{}, err
	}
	if err := sameWidth("MUX8", d[:]...); err != nil {
		return ucsim.Word{}, err
	}
	s2, s1, s0 := sel.At(0), sel.At(1), sel.At(2)
	out := d[0]
	var lane [8]ucsim.Signal
	for i := 0; i < out.Width(); i++ {
		for k := range d {
			lane[k] = d[k].At(i)
		}
		_ = out.SetBit(i, Mux8(lane, s2, s1, s0))
	}
	return out, nil
}
