// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package control

import (
	"github.com/db47h/ucsim"
	hl "github.com/db47h/ucsim/hwlib"
	"github.com/pkg/errors"
)

// CounterWidth is the width of the micro-step counter.
const CounterWidth = 4

// MicroCounter is the micro-step counter.
//
// Its control inputs are sampled on each call to Clock with the priority
// Reset > Load > Inc. Incrementing past 15 wraps to 0.
//
//	Inputs: reset, load, inc, in[4]
//	Outputs: out[4]
//
type MicroCounter struct {
	Reset ucsim.Signal
	Load  ucsim.Signal
	Inc   ucsim.Signal
	In    ucsim.Word

	value ucsim.Word
}

// NewMicroCounter returns a new zeroed counter.
//
func NewMicroCounter() *MicroCounter {
	zero := ucsim.MustWord(CounterWidth, 0)
	return &MicroCounter{In: zero, value: zero}
}

// Clock latches the next counter value according to the control inputs. A
// parallel load of a Word that is not 4 bits wide fails and leaves the
// counter unchanged.
//
func (c *MicroCounter) Clock() error {
	switch {
	case c.Reset == ucsim.High:
		c.value = ucsim.MustWord(CounterWidth, 0)
	case c.Load == ucsim.High:
		if c.In.Width() != CounterWidth {
			return errors.Wrap(&ucsim.WidthError{Want: CounterWidth, Got: c.In.Width()}, "micro-counter load")
		}
		c.value = c.In
	case c.Inc == ucsim.High:
		c.value, _ = hl.Inc(c.value)
	}
	return nil
}

func (c *MicroCounter) drive(reset, load, inc ucsim.Signal) error {
	c.Reset, c.Load, c.Inc = reset, load, inc
	err := c.Clock()
	c.Reset, c.Load, c.Inc = ucsim.Low, ucsim.Low, ucsim.Low
	return err
}

// Clear resets the counter on the next clock edge.
func (c *MicroCounter) Clear() { _ = c.drive(ucsim.High, ucsim.Low, ucsim.Low) }

// Increment increments the counter on the next clock edge.
func (c *MicroCounter) Increment() { _ = c.drive(ucsim.Low, ucsim.Low, ucsim.High) }

// Set loads v into the counter on the next clock edge.
//
func (c *MicroCounter) Set(v uint8) error {
	w, err := ucsim.FromUint(CounterWidth, v)
	if err != nil {
		return errors.Wrap(err, "micro-counter load")
	}
	c.In = w
	return c.drive(ucsim.Low, ucsim.High, ucsim.Low)
}

// Word returns the counter value.
func (c *MicroCounter) Word() ucsim.Word { return c.value }

// Value returns the counter value as an int.
func (c *MicroCounter) Value() int { return int(c.value.Uint()) }

// IsMax returns true if the counter is at 15.
func (c *MicroCounter) IsMax() bool { return c.Value() == 1<<CounterWidth-1 }

// IsMin returns true if the counter is at 0.
func (c *MicroCounter) IsMin() bool { return hl.IsZero(c.value) == ucsim.High }

// Equal returns true if the counter value is v.
func (c *MicroCounter) Equal(v int) bool { return c.Value() == v }
