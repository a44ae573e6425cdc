// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ucsim

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// MaxWidth is the maximum width of a Word.
//
const MaxWidth = 64

// A Word is a fixed width sequence of Signals. Bit 0 is the most significant
// bit.
//
// Words are values: assigning a Word copies its bits. The zero Word has a
// width of 0 and is only useful as a placeholder; use NewWord to create
// usable Words.
//
type Word struct {
	width int
	bits  [MaxWidth]Signal
}

// NewWord returns a new Word of the given width set to v.
//
func NewWord(width int, v uint64) (Word, error) {
	if width < 1 || width > MaxWidth {
		return Word{}, errors.WithStack(&WidthError{Got: width})
	}
	w := Word{width: width}
	if err := w.SetBinary(v); err != nil {
		return Word{}, err
	}
	return w, nil
}

// MustWord is like NewWord but panics on error. It is intended for constant
// initializers.
//
func MustWord(width int, v uint64) Word {
	w, err := NewWord(width, v)
	if err != nil {
		panic(err)
	}
	return w
}

// FromUint returns a Word of the given width set to v.
//
func FromUint[T constraints.Unsigned](width int, v T) (Word, error) {
	return NewWord(width, uint64(v))
}

// Mask returns a value of type T with the low width bits set.
//
func Mask[T constraints.Unsigned](width int) T {
	if width >= MaxWidth {
		return ^T(0)
	}
	return T(uint64(1)<<uint(width) - 1)
}

// FromSignals builds a Word from individual bits, most significant bit first.
//
func FromSignals(bits ...Signal) (Word, error) {
	if len(bits) < 1 || len(bits) > MaxWidth {
		return Word{}, errors.WithStack(&WidthError{Got: len(bits)})
	}
	w := Word{width: len(bits)}
	for i, b := range bits {
		if b > High {
			return Word{}, errors.WithStack(&RangeError{Value: uint64(b)})
		}
		w.bits[i] = b
	}
	return w, nil
}

// Concat returns the concatenation of the given Words. The first Word
// provides the most significant bits.
//
func Concat(ws ...Word) (Word, error) {
	var r Word
	for _, w := range ws {
		if r.width+w.width > MaxWidth {
			return Word{}, errors.WithStack(&WidthError{Got: r.width + w.width})
		}
		copy(r.bits[r.width:], w.bits[:w.width])
		r.width += w.width
	}
	if r.width == 0 {
		return Word{}, errors.WithStack(&WidthError{Got: 0})
	}
	return r, nil
}

// Width returns the number of bits in w.
func (w Word) Width() int { return w.width }

// SetBinary sets the value of w to v. It returns a *RangeError if v does not
// fit in w, in which case w is left unchanged.
//
func (w *Word) SetBinary(v uint64) error {
	if v&^Mask[uint64](w.width) != 0 {
		return errors.WithStack(&RangeError{Value: v, Width: w.width})
	}
	for i := 0; i < w.width; i++ {
		w.bits[i] = Signal(v>>uint(w.width-1-i)) & 1
	}
	return nil
}

// Uint returns the numeric value of w.
//
func (w Word) Uint() uint64 {
	var v uint64
	for _, b := range w.bits[:w.width] {
		v = v<<1 | uint64(b)
	}
	return v
}

// Bit returns the bit at index i.
//
func (w Word) Bit(i int) (Signal, error) {
	if i < 0 || i >= w.width {
		return Low, errors.WithStack(&IndexError{Index: i, Width: w.width})
	}
	return w.bits[i], nil
}

// At returns the bit at index i. Unlike Bit, it panics if i is out of range.
// Parts use it once widths have been validated.
//
func (w Word) At(i int) Signal {
	if i < 0 || i >= w.width {
		panic(&IndexError{Index: i, Width: w.width})
	}
	return w.bits[i]
}

// SetBit sets the bit at index i to s.
//
func (w *Word) SetBit(i int, s Signal) error {
	if i < 0 || i >= w.width {
		return errors.WithStack(&IndexError{Index: i, Width: w.width})
	}
	if s > High {
		return errors.WithStack(&RangeError{Value: uint64(s)})
	}
	w.bits[i] = s
	return nil
}

// Signals returns a copy of the bits in w, most significant first.
//
func (w Word) Signals() []Signal {
	s := make([]Signal, w.width)
	copy(s, w.bits[:w.width])
	return s
}

// Slice returns bits [from, to) of w as a new Word.
//
func (w Word) Slice(from, to int) (Word, error) {
	if from < 0 || from >= w.width {
		return Word{}, errors.WithStack(&IndexError{Index: from, Width: w.width})
	}
	if to <= from || to > w.width {
		return Word{}, errors.WithStack(&IndexError{Index: to, Width: w.width})
	}
	return FromSignals(w.bits[from:to]...)
}

// Equal returns true if w and o have the same width and bits.
func (w Word) Equal(o Word) bool { return w == o }

// Binary returns the bits of w as a string of '0' and '1', most significant
// bit first. The returned string is always Width() characters long.
//
func (w Word) Binary() string {
	var b strings.Builder
	b.Grow(w.width)
	for _, s := range w.bits[:w.width] {
		b.WriteByte('0' + byte(s))
	}
	return b.String()
}

// Hex returns the value of w as "0x" followed by ceil(width/4) upper case hex
// digits.
//
func (w Word) Hex() string {
	return fmt.Sprintf("0x%0*X", (w.width+3)/4, w.Uint())
}

// Decimal returns the value of w in base 10.
//
func (w Word) Decimal() string {
	return fmt.Sprintf("%d", w.Uint())
}

func (w Word) String() string { return w.Hex() }
