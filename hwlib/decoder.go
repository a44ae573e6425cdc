// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/ucsim"
	"github.com/pkg/errors"
)

// Decoder is a n to 2^n one-hot decoder for 1 <= n <= 8. Output line k is
// High iff in == k.
//
//	Inputs: in[n]
//	Outputs: out[2^n]
//	Function: out[k] = in == k
//
func Decoder(in ucsim.Word) ([]ucsim.Signal, error) {
	n := in.Width()
	if n < 1 || n > 8 {
		return nil, errors.Wrap(&ucsim.WidthError{Got: n}, "decoder input")
	}
	bits := in.Signals()
	terms := make([]ucsim.Signal, n)
	out := make([]ucsim.Signal, 1<<uint(n))
	for k := range out {
		for j := range bits {
			// bit j of in has weight 2^(n-1-j)
			if k&(1<<uint(n-1-j)) != 0 {
				terms[j] = bits[j]
			} else {
				terms[j] = Not(bits[j])
			}
		}
		out[k] = AndN(terms...)
	}
	return out, nil
}

// Decoder4to16 is a 4 to 16 one-hot decoder.
//
//	Inputs: in[4]
//	Outputs: out[16]
//	Function: out[k] = in == k
//
func Decoder4to16(in ucsim.Word) (out [16]ucsim.Signal, err error) {
	if in.Width() != 4 {
		return out, errors.Wrap(&ucsim.WidthError{Want: 4, Got: in.Width()}, "decoder4to16 input")
	}
	lines, err := Decoder(in)
	if err != nil {
		return out, err
	}
	copy(out[:], lines)
	return out, nil
}

// Encode returns the index of the first High line, or -1 if none is set.
// It is the inverse of Decoder for one-hot inputs.
//
func Encode(lines []ucsim.Signal) int {
	for k, s := range lines {
		if s == ucsim.High {
			return k
		}
	}
	return -1
}
