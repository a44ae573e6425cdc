// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package alu

import (
	"github.com/db47h/ucsim"
	hl "github.com/db47h/ucsim/hwlib"
)

// Arithmetic is the adder/subtractor. When sub is High, b is inverted by
// XOR gates and the carry in is set, giving a + ^b + 1.
//
//	Inputs: a[16], b[16], sub
//	Outputs: out[16], cout
//	Function: if sub == 0 { out = a + b } else { out = a - b }
//
func Arithmetic(a, b ucsim.Word, sub ucsim.Signal) (out ucsim.Word, cout ucsim.Signal, err error) {
	if err = checkWidth("arithmetic A", a, Width); err != nil {
		return
	}
	if err = checkWidth("arithmetic B", b, Width); err != nil {
		return
	}
	bx := b
	for i := 0; i < Width; i++ {
		_ = bx.SetBit(i, hl.Xor(b.At(i), sub))
	}
	return hl.Adder(a, bx, sub)
}
