// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package alu

import (
	"github.com/db47h/ucsim"
	hl "github.com/db47h/ucsim/hwlib"
)

// Logical unit modes.
const (
	LogicAnd = iota
	LogicOr
	LogicXor
	LogicNot
)

// Logical computes a AND b, a OR b, a XOR b and NOT a, then selects one of
// them with a 4:1 multiplexer on each lane.
//
//	Inputs: a[16], b[16], mode[2]
//	Outputs: out[16]
//	Function: out = {a & b, a | b, a ^ b, ^a}[mode]
//
func Logical(a, b, mode ucsim.Word) (ucsim.Word, error) {
	if err := checkWidth("logical A", a, Width); err != nil {
		return ucsim.Word{}, err
	}
	if err := checkWidth("logical B", b, Width); err != nil {
		return ucsim.Word{}, err
	}
	var d [4]ucsim.Word
	d[LogicAnd], _ = hl.AndWord(a, b)
	d[LogicOr], _ = hl.OrWord(a, b)
	d[LogicXor], _ = hl.XorWord(a, b)
	d[LogicNot] = hl.NotWord(a)
	return hl.Mux4Word(d, mode)
}
