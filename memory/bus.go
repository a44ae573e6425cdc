// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package memory

import (
	"github.com/db47h/ucsim"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// A Device can be connected to a Bus as a slave. Addresses passed to a device
// are relative to the start of its address range.
//
type Device interface {
	Read(offset uint16) (ucsim.Word, error)
	Write(offset uint16, w ucsim.Word) error
}

// Role is the role of a device on the bus.
type Role uint8

// Device roles.
const (
	Slave Role = iota
	Master
)

func (r Role) String() string {
	if r == Master {
		return "master"
	}
	return "slave"
}

// A Range is an inclusive address range.
type Range struct {
	Lo, Hi uint16
}

func (r Range) contains(addr uint16) bool { return r.Lo <= addr && addr <= r.Hi }

func (r Range) overlaps(o Range) bool { return r.Lo <= o.Hi && o.Lo <= r.Hi }

// Unmapped is the value read from an address no device responds to.
const Unmapped = 0xFFFF

// DeviceInfo describes a connected device.
type DeviceInfo struct {
	Name  string
	Range Range
	Role  Role
}

type slot struct {
	DeviceInfo
	dev Device
}

// Bus is the system bus. Slave devices are mapped into a 16-bit address
// space. At most one master holds the bus at any time: a master must Acquire
// the bus before it can Read or Write, and a request from a second master is
// denied rather than queued.
//
type Bus struct {
	Log logrus.FieldLogger

	slots  []slot
	held   bool
	owner  string
	denied uint64
	cycles uint64
}

// NewBus returns a new bus with no devices.
//
func NewBus() *Bus {
	return &Bus{Log: logrus.StandardLogger()}
}

func (b *Bus) logger() logrus.FieldLogger {
	if b.Log == nil {
		return logrus.StandardLogger()
	}
	return b.Log
}

// Connect connects a device to the bus. Slaves must provide a Device and an
// address range that does not overlap any other slave. Masters have no
// address range and dev may be nil.
//
func (b *Bus) Connect(dev Device, name string, rng Range, role Role) error {
	if name == "" {
		return errors.New("empty device name")
	}
	for _, s := range b.slots {
		if s.Name == name {
			return errors.Errorf("device %q already connected", name)
		}
	}
	if role == Slave {
		if dev == nil {
			return errors.Errorf("slave device %q: nil device", name)
		}
		if rng.Lo > rng.Hi {
			return errors.Errorf("slave device %q: invalid range %#04x-%#04x", name, rng.Lo, rng.Hi)
		}
		for _, s := range b.slots {
			if s.Role == Slave && s.Range.overlaps(rng) {
				return errors.Errorf("slave device %q: range %#04x-%#04x overlaps device %q", name, rng.Lo, rng.Hi, s.Name)
			}
		}
	} else {
		rng = Range{}
	}
	b.slots = append(b.slots, slot{DeviceInfo{name, rng, role}, dev})
	b.logger().WithFields(logrus.Fields{
		"device": name,
		"role":   role,
		"lo":     rng.Lo,
		"hi":     rng.Hi,
	}).Info("device connected")
	return nil
}

// Devices returns the connected devices in connection order.
//
func (b *Bus) Devices() []DeviceInfo {
	d := make([]DeviceInfo, len(b.slots))
	for i := range b.slots {
		d[i] = b.slots[i].DeviceInfo
	}
	return d
}

func (b *Bus) isMaster(name string) bool {
	for _, s := range b.slots {
		if s.Name == name && s.Role == Master {
			return true
		}
	}
	return false
}

// Acquire requests the bus for the given master. It returns true if the bus
// was free or already held by that master, and false if it is held by another
// master or if master is not a connected master device.
//
func (b *Bus) Acquire(master string) bool {
	if !b.isMaster(master) {
		b.logger().WithField("device", master).Warn("bus request from unknown master")
		return false
	}
	if b.held && b.owner != master {
		b.denied++
		b.logger().WithFields(logrus.Fields{"device": master, "owner": b.owner}).Warn("bus request denied")
		return false
	}
	b.held, b.owner = true, master
	return true
}

// Release releases the bus. It returns false if master did not hold it.
//
func (b *Bus) Release(master string) bool {
	if !b.held || b.owner != master {
		return false
	}
	b.held, b.owner = false, ""
	return true
}

// Owner returns the master holding the bus, if any.
//
func (b *Bus) Owner() (string, bool) { return b.owner, b.held }

// Denied returns the number of denied bus requests.
func (b *Bus) Denied() uint64 { return b.denied }

// Cycles returns the number of completed bus transfers.
func (b *Bus) Cycles() uint64 { return b.cycles }

// Reset frees the bus and clears its counters. Connected devices are kept.
//
func (b *Bus) Reset() {
	b.held, b.owner = false, ""
	b.denied, b.cycles = 0, 0
}

// BusStatus is a snapshot of the bus state.
type BusStatus struct {
	Master string `json:"current_master,omitempty"`
	Held   bool   `json:"held"`
	Cycles uint64 `json:"cycles"`
	Denied uint64 `json:"denied"`
}

// Status returns a snapshot of the bus state.
//
func (b *Bus) Status() BusStatus {
	return BusStatus{Master: b.owner, Held: b.held, Cycles: b.cycles, Denied: b.denied}
}

func (b *Bus) find(addr uint16) *slot {
	for i := range b.slots {
		if s := &b.slots[i]; s.Role == Slave && s.Range.contains(addr) {
			return s
		}
	}
	return nil
}

func (b *Bus) holds(master string) bool { return b.held && b.owner == master }

// Read reads the word at addr on behalf of master. It returns false if master
// does not hold the bus. Reads from unmapped addresses, or failing device
// reads, return Unmapped.
//
func (b *Bus) Read(master string, addr uint16) (ucsim.Word, bool) {
	if !b.holds(master) {
		return ucsim.MustWord(WordWidth, 0), false
	}
	b.cycles++
	if s := b.find(addr); s != nil {
		w, err := s.dev.Read(addr - s.Range.Lo)
		if err == nil {
			return w, true
		}
		b.logger().WithError(err).WithFields(logrus.Fields{"device": s.Name, "addr": addr}).Warn("device read failed")
	} else {
		b.logger().WithField("addr", addr).Debug("read from unmapped address")
	}
	return ucsim.MustWord(WordWidth, Unmapped), true
}

// Write writes w at addr on behalf of master. It returns false if master does
// not hold the bus. Writes to unmapped addresses are dropped.
//
func (b *Bus) Write(master string, addr uint16, w ucsim.Word) bool {
	if !b.holds(master) {
		return false
	}
	b.cycles++
	if s := b.find(addr); s != nil {
		if err := s.dev.Write(addr-s.Range.Lo, w); err != nil {
			b.logger().WithError(err).WithFields(logrus.Fields{"device": s.Name, "addr": addr}).Warn("device write failed")
		}
	} else {
		b.logger().WithField("addr", addr).Debug("write to unmapped address")
	}
	return true
}
