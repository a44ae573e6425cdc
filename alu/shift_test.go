// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package alu_test

import (
	"math/bits"
	"testing"
	"testing/quick"

	hw "github.com/db47h/ucsim"
	"github.com/db47h/ucsim/alu"
	"github.com/db47h/ucsim/hwtest"
)

func refShift(mode alu.ShiftMode, v uint16, n uint) uint16 {
	switch mode {
	case alu.SLL:
		return v << n
	case alu.LSR:
		return v >> n
	case alu.ASR:
		return uint16(int16(v) >> n)
	case alu.ROL:
		return bits.RotateLeft16(v, int(n))
	case alu.ROR:
		return bits.RotateLeft16(v, -int(n))
	}
	return 0
}

func TestBarrelShift(t *testing.T) {
	td := []struct {
		mode alu.ShiftMode
		in   uint64
		n    uint64
		out  uint64
	}{
		{alu.SLL, 0x0001, 4, 0x0010},
		{alu.LSR, 0x8000, 1, 0x4000},
		{alu.ASR, 0x8000, 1, 0xC000},
		{alu.ROL, 0x8000, 1, 0x0001},
		{alu.ROR, 0x0001, 1, 0x8000},
		{alu.ASR, 0x8000, 15, 0xFFFF},
		{alu.ASR, 0x4000, 14, 0x0001},
		{alu.ROL, 0x8001, 3, 0x000C},
		{alu.ROR, 0x8001, 3, 0x3000},
	}
	for _, d := range td {
		t.Run(d.mode.String(), func(t *testing.T) {
			s, err := alu.BarrelShift(d.mode, hw.MustWord(16, d.in), hw.MustWord(4, d.n))
			if err != nil {
				t.Fatal(err)
			}
			if out := s.Out(); out.Uint() != d.out {
				t.Fatalf("%v(%#04x, %d) = %s, expected %#04x", d.mode, d.in, d.n, out, d.out)
			}
		})
	}
}

func TestBarrelShift_identity(t *testing.T) {
	f := func(v uint16) bool {
		for m := alu.SLL; m <= alu.LSR; m++ {
			s, err := alu.BarrelShift(m, hw.MustWord(16, uint64(v)), hw.MustWord(4, 0))
			if err != nil || s.Out().Uint() != uint64(v) {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestBarrelShift_stages(t *testing.T) {
	// 5 = stage 0 and stage 2
	s, err := alu.BarrelShift(alu.SLL, hw.MustWord(16, 1), hw.MustWord(4, 5))
	if err != nil {
		t.Fatal(err)
	}
	ex := []uint64{0x2, 0x2, 0x20, 0x20}
	for k, st := range s.Stages {
		if st.Uint() != ex[k] {
			t.Errorf("stage %d = %s, expected %#04x", k, st, ex[k])
		}
	}
}

func TestBarrelShift_errors(t *testing.T) {
	if _, err := alu.BarrelShift(alu.LSR+1, hw.MustWord(16, 1), hw.MustWord(4, 1)); err == nil {
		t.Error("invalid mode accepted")
	}
	if _, err := alu.BarrelShift(alu.SLL, hw.MustWord(8, 1), hw.MustWord(4, 1)); err == nil {
		t.Error("8-bit input accepted")
	}
	if _, err := alu.BarrelShift(alu.SLL, hw.MustWord(16, 1), hw.MustWord(3, 1)); err == nil {
		t.Error("3-bit amount accepted")
	}
}

func TestShiftEngines(t *testing.T) {
	engines := []struct {
		mode alu.ShiftMode
		fn   func(in, amount hw.Word) (hw.Word, error)
	}{
		{alu.SLL, alu.ShiftLeft},
		{alu.LSR, alu.ShiftRight},
		{alu.ASR, alu.ShiftRightArith},
		{alu.ROL, alu.RotateLeft},
		{alu.ROR, alu.RotateRight},
	}
	for _, e := range engines {
		t.Run(e.mode.String(), func(t *testing.T) {
			// inputs: in[16] amount[4]
			part := func(in uint64) uint64 {
				out, err := e.fn(hw.MustWord(16, in>>4), hw.MustWord(4, in&0xF))
				if err != nil {
					t.Fatal(err)
				}
				return out.Uint()
			}
			ref := func(in uint64) uint64 {
				return uint64(refShift(e.mode, uint16(in>>4), uint(in&0xF)))
			}
			hwtest.Compare(t, 20, part, ref)
		})
	}
}

func TestShiftUnit(t *testing.T) {
	// inputs: a[16] b[4] mode[3]
	part := func(in uint64) uint64 {
		a := hw.MustWord(16, in>>7)
		b := hw.MustWord(16, in>>3&0xF)
		out, err := alu.ShiftUnit(a, b, hw.MustWord(3, in&7))
		if err != nil {
			t.Fatal(err)
		}
		return out.Uint()
	}
	ref := func(in uint64) uint64 {
		mode := alu.ShiftMode(in & 7)
		if mode > alu.LSR {
			return 0
		}
		return uint64(refShift(mode, uint16(in>>7), uint(in>>3&0xF)))
	}
	hwtest.Compare(t, 23, part, ref)

	// only the low nibble of b is the amount: 16 rotates by 0
	out, err := alu.ShiftUnit(hw.MustWord(16, 0x1234), hw.MustWord(16, 16), hw.MustWord(3, uint64(alu.ROL)))
	if err != nil {
		t.Fatal(err)
	}
	if out.Uint() != 0x1234 {
		t.Fatalf("ROL by 16 = %s", out)
	}
}
