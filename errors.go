// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ucsim

import "strconv"

// RangeError is returned when a value does not fit the width of a Word or
// when a Signal is assigned something other than 0 or 1.
//
type RangeError struct {
	Value uint64
	Width int
}

func (e *RangeError) Error() string {
	if e.Width == 0 {
		return "invalid signal value " + strconv.FormatUint(e.Value, 10)
	}
	return "value " + strconv.FormatUint(e.Value, 10) + " out of range for " + strconv.Itoa(e.Width) + "-bit word"
}

// IndexError is returned when a bit index is outside [0, Width).
//
type IndexError struct {
	Index int
	Width int
}

func (e *IndexError) Error() string {
	return "bit index " + strconv.Itoa(e.Index) + " out of range for " + strconv.Itoa(e.Width) + "-bit word"
}

// WidthError is returned for an illegal word width or when two parts
// exchange Words of different widths.
//
type WidthError struct {
	Want int
	Got  int
}

func (e *WidthError) Error() string {
	if e.Want == 0 {
		return "invalid word width " + strconv.Itoa(e.Got)
	}
	return "width mismatch: want " + strconv.Itoa(e.Want) + " bits, got " + strconv.Itoa(e.Got)
}
