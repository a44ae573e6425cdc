// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ucsim

import "github.com/pkg/errors"

// A Register is a named Word of fixed width. It models a bank of data flip
// flops with a common load enable: its content changes only on Load or Reset.
//
type Register struct {
	name string
	w    Word
}

// NewRegister returns a new zeroed register.
//
func NewRegister(name string, width int) (*Register, error) {
	w, err := NewWord(width, 0)
	if err != nil {
		return nil, errors.Wrap(err, "register "+name)
	}
	return &Register{name: name, w: w}, nil
}

// Name returns the register name.
func (r *Register) Name() string { return r.name }

// Width returns the register width.
func (r *Register) Width() int { return r.w.width }

// Load latches w into the register. w must have the same width as the
// register.
//
func (r *Register) Load(w Word) error {
	if w.width != r.w.width {
		return errors.Wrap(&WidthError{Want: r.w.width, Got: w.width}, "register "+r.name)
	}
	r.w = w
	return nil
}

// LoadUint latches v into the register.
//
func (r *Register) LoadUint(v uint64) error {
	w := r.w
	if err := w.SetBinary(v); err != nil {
		return errors.Wrap(err, "register "+r.name)
	}
	r.w = w
	return nil
}

// Reset clears the register.
func (r *Register) Reset() { r.w = Word{width: r.w.width} }

// Word returns the register content.
func (r *Register) Word() Word { return r.w }

// Uint returns the register content as an unsigned integer.
func (r *Register) Uint() uint64 { return r.w.Uint() }

// Hex returns the register content formatted by Word.Hex.
func (r *Register) Hex() string { return r.w.Hex() }
