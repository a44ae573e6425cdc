// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing parts.
//
package hwtest

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/db47h/ucsim"
)

// A Func is a part with its input bits packed in an uint64 and its output bits
// packed in the return value. Use Bits and Pack to convert between packed
// values and Signals.
//
type Func func(in uint64) uint64

// maximum number of input bits tested exhaustively
const exhaustive = 12

// Compare feeds the same inputs to part and ref and compares their outputs.
// inputs is the number of input bits.
//
// Both parts are tested with all inputs at 0 and all inputs at 1, then with
// every input combination if inputs <= 12, or with 4096 random combinations
// otherwise.
//
func Compare(t testing.TB, inputs int, part, ref Func) {
	t.Helper()

	if inputs < 1 || inputs > ucsim.MaxWidth {
		t.Fatalf("invalid input count %d", inputs)
	}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	mask := ucsim.Mask[uint64](inputs)

	errString := func(in, ex, got uint64) string {
		return fmt.Sprintf("\nExpected in=%0*b => out=%#x\nGot %#x", inputs, in, ex, got)
	}

	start := time.Now()
	n := 0
	check := func(in uint64) {
		n++
		if ex, got := ref(in), part(in); ex != got {
			t.Fatal(errString(in, ex, got))
		}
	}

	// try all 0, then all 1
	check(0)
	check(mask)

	if inputs <= exhaustive {
		for in := uint64(0); in <= mask; in++ {
			check(in)
		}
	} else {
		for i := 0; i < 1<<exhaustive; i++ {
			check(rnd.Uint64() & mask)
		}
	}

	elapsed := time.Since(start)
	t.Logf("%d input combinations in %v", n, elapsed)
}

// Bits returns the low n bits of v as Signals, most significant first.
//
func Bits(v uint64, n int) []ucsim.Signal {
	s := make([]ucsim.Signal, n)
	for i := range s {
		s[i] = ucsim.Signal(v>>uint(n-1-i)) & 1
	}
	return s
}

// Pack packs Signals into an uint64, the first Signal being the most
// significant.
//
func Pack(s ...ucsim.Signal) uint64 {
	var v uint64
	for _, b := range s {
		v = v<<1 | uint64(b&1)
	}
	return v
}
