// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package alu

import (
	"strconv"

	"github.com/db47h/ucsim"
	hl "github.com/db47h/ucsim/hwlib"
	"github.com/pkg/errors"
)

// ShiftMode selects a shift engine. The values are the 3-bit mode codes of the
// shift unit.
//
type ShiftMode uint8

// Shift modes.
const (
	SLL ShiftMode = iota // shift left logical
	ASR                  // shift right arithmetic
	ROL                  // rotate left
	ROR                  // rotate right
	LSR                  // shift right logical
)

var shiftNames = [...]string{"SLL", "ASR", "ROL", "ROR", "LSR"}

func (m ShiftMode) String() string {
	if int(m) < len(shiftNames) {
		return shiftNames[m]
	}
	return "ShiftMode(" + strconv.Itoa(int(m)) + ")"
}

// Stages is the number of barrel shifter stages. Stage k shifts by 2^k.
const Stages = 4

// A Shift is one evaluation of the barrel shifter. It keeps the output of
// every stage for inspection.
//
type Shift struct {
	Mode   ShiftMode
	In     ucsim.Word
	Amount ucsim.Word // 4 bits, Amount[3] drives stage 0
	Stages [Stages]ucsim.Word
}

// Out returns the output of the last stage.
func (s *Shift) Out() ucsim.Word { return s.Stages[Stages-1] }

// BarrelShift shifts in by amount using a cascade of four 2:1 multiplexer
// stages. Stage k is controlled by amount bit 3-k.
//
// Lanes vacated by a stage are filled with Low for SLL and LSR and with the
// sign bit of in for ASR. For ROL and ROR, they receive the bits rotated off
// the other end: the fill lanes read in directly, offset by the distance
// already rotated by the preceding stages.
//
//	Inputs: in[16], amount[4]
//	Outputs: out[16]
//
func BarrelShift(mode ShiftMode, in, amount ucsim.Word) (Shift, error) {
	s := Shift{Mode: mode, In: in, Amount: amount}
	if mode > LSR {
		return s, errors.Errorf("invalid shift mode %d", mode)
	}
	if err := checkWidth("shifter input", in, Width); err != nil {
		return s, err
	}
	if err := checkWidth("shift amount", amount, Stages); err != nil {
		return s, err
	}

	sign := in.At(0)
	prev := in
	done := 0
	for k := 0; k < Stages; k++ {
		d := 1 << uint(k)
		sel := amount.At(Stages - 1 - k)
		out := prev
		for i := 0; i < Width; i++ {
			var shifted ucsim.Signal
			switch mode {
			case SLL:
				if i+d < Width {
					shifted = prev.At(i + d)
				}
			case LSR:
				if i >= d {
					shifted = prev.At(i - d)
				}
			case ASR:
				if i >= d {
					shifted = prev.At(i - d)
				} else {
					shifted = sign
				}
			case ROL:
				if i+d < Width {
					shifted = prev.At(i + d)
				} else {
					shifted = in.At((i + d + done) % Width)
				}
			case ROR:
				if i >= d {
					shifted = prev.At(i - d)
				} else {
					shifted = in.At(((i-d-done)%Width + Width) % Width)
				}
			}
			_ = out.SetBit(i, hl.Mux(prev.At(i), shifted, sel))
		}
		if sel == ucsim.High {
			done += d
		}
		s.Stages[k] = out
		prev = out
	}
	return s, nil
}

func engine(mode ShiftMode, in, amount ucsim.Word) (ucsim.Word, error) {
	s, err := BarrelShift(mode, in, amount)
	if err != nil {
		return ucsim.Word{}, err
	}
	return s.Out(), nil
}

// ShiftLeft is the SLL engine.
//
//	Inputs: in[16], amount[4]
//	Outputs: out[16]
//	Function: out = in << amount
//
func ShiftLeft(in, amount ucsim.Word) (ucsim.Word, error) { return engine(SLL, in, amount) }

// ShiftRight is the LSR engine.
//
//	Inputs: in[16], amount[4]
//	Outputs: out[16]
//	Function: out = in >> amount
//
func ShiftRight(in, amount ucsim.Word) (ucsim.Word, error) { return engine(LSR, in, amount) }

// ShiftRightArith is the ASR engine.
//
//	Inputs: in[16], amount[4]
//	Outputs: out[16]
//	Function: out = int16(in) >> amount
//
func ShiftRightArith(in, amount ucsim.Word) (ucsim.Word, error) { return engine(ASR, in, amount) }

// RotateLeft is the ROL engine.
//
//	Inputs: in[16], amount[4]
//	Outputs: out[16]
//	Function: out = in<<amount | in>>(16-amount)
//
func RotateLeft(in, amount ucsim.Word) (ucsim.Word, error) { return engine(ROL, in, amount) }

// RotateRight is the ROR engine.
//
//	Inputs: in[16], amount[4]
//	Outputs: out[16]
//	Function: out = in>>amount | in<<(16-amount)
//
func RotateRight(in, amount ucsim.Word) (ucsim.Word, error) { return engine(ROR, in, amount) }

// ShiftAmount returns the shift amount field of operand b: its four least
// significant bits.
//
func ShiftAmount(b ucsim.Word) (ucsim.Word, error) {
	if err := checkWidth("shift operand", b, Width); err != nil {
		return ucsim.Word{}, err
	}
	return b.Slice(Width-Stages, Width)
}

// ShiftUnit runs the five shift engines on a and selects one with a 8:1
// multiplexer on each lane. The amount is the low nibble of b. The unused
// mode codes 101, 110 and 111 output 0.
//
//	Inputs: a[16], b[16], mode[3]
//	Outputs: out[16]
//
func ShiftUnit(a, b, mode ucsim.Word) (ucsim.Word, error) {
	amount, err := ShiftAmount(b)
	if err != nil {
		return ucsim.Word{}, err
	}
	var d [8]ucsim.Word
	for m := SLL; m <= LSR; m++ {
		if d[m], err = engine(m, a, amount); err != nil {
			return ucsim.Word{}, err
		}
	}
	zero := ucsim.MustWord(Width, 0)
	for m := LSR + 1; m < 8; m++ {
		d[m] = zero
	}
	return hl.Mux8Word(d, mode)
}
