// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package alu implements the 16-bit execution unit: an arithmetic unit, a
// logical unit and a barrel shifter, selected by a 2-bit unit code, plus the
// sequential multiply/divide unit.
//
// All sub-units are evaluated on every call to Execute; the unit select only
// chooses which output reaches the result.
//
package alu

import (
	"github.com/db47h/ucsim"
	"github.com/pkg/errors"
)

// Width is the data path width.
const Width = 16

func checkWidth(name string, w ucsim.Word, width int) error {
	if w.Width() != width {
		return errors.Wrap(&ucsim.WidthError{Want: width, Got: w.Width()}, name)
	}
	return nil
}
