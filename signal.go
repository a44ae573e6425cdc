// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ucsim

import "github.com/pkg/errors"

// A Signal is a single binary value.
//
type Signal uint8

// Signal values.
const (
	Low  Signal = 0
	High Signal = 1
)

// NewSignal returns the Signal for v. v must be 0 or 1.
//
func NewSignal(v int) (Signal, error) {
	if v != 0 && v != 1 {
		return Low, errors.WithStack(&RangeError{Value: uint64(v)})
	}
	return Signal(v), nil
}

// Bool converts a boolean to a Signal.
//
func Bool(b bool) Signal {
	if b {
		return High
	}
	return Low
}

// Set assigns v to s. s is left unchanged if v is neither 0 nor 1.
//
func (s *Signal) Set(v int) error {
	n, err := NewSignal(v)
	if err != nil {
		return err
	}
	*s = n
	return nil
}

// Toggle inverts s.
func (s *Signal) Toggle() { *s ^= 1 }

// Bool returns true if s is High.
func (s Signal) Bool() bool { return s != Low }

func (s Signal) String() string {
	if s != Low {
		return "1"
	}
	return "0"
}
