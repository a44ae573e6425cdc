// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import "github.com/db47h/ucsim"

// HalfAdder adds two bits.
//
//	Inputs: a, b
//	Outputs: s, c
//	Function: s = lsb(a + b)
//	          c = msb(a + b)
//
func HalfAdder(a, b ucsim.Signal) (s, c ucsim.Signal) {
	return Xor(a, b), And(a, b)
}

// FullAdder adds three bits.
//
//	Inputs: a, b, cin
//	Outputs: s, cout
//	Function: s = lsb(a + b + cin)
//	          cout = msb(a + b + cin)
//
func FullAdder(a, b, cin ucsim.Signal) (s, cout ucsim.Signal) {
	s0 := Xor(a, b)
	return Xor(s0, cin), Or(And(a, b), And(s0, cin))
}

// Adder is a ripple carry adder. The carry enters at the least significant
// lane (index Width()-1) and ripples towards index 0.
//
//	Inputs: a[n], b[n], cin
//	Outputs: out[n], cout
//	Function: out = lsb(a + b + cin)
//	          cout = carry out of lane 0
//
func Adder(a, b ucsim.Word, cin ucsim.Signal) (out ucsim.Word, cout ucsim.Signal, err error) {
	if err = checkWidths("ADDER", a, b); err != nil {
		return ucsim.Word{}, ucsim.Low, err
	}
	out = a
	c := cin
	for i := a.Width() - 1; i >= 0; i-- {
		var s ucsim.Signal
		s, c = FullAdder(a.At(i), b.At(i), c)
		_ = out.SetBit(i, s)
	}
	return out, c, nil
}

// Inc adds one to in using a chain of half adders. The result wraps around.
//
//	Inputs: in[n]
//	Outputs: out[n], c
//	Function: out = lsb(in + 1)
//
func Inc(in ucsim.Word) (out ucsim.Word, c ucsim.Signal) {
	out = in
	c = ucsim.High
	for i := in.Width() - 1; i >= 0; i-- {
		var s ucsim.Signal
		s, c = HalfAdder(in.At(i), c)
		_ = out.SetBit(i, s)
	}
	return out, c
}
