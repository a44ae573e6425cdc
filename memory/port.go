// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package memory

import (
	"github.com/db47h/ucsim"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// A Port gives a bus master plain read/write access to the bus. Each access
// acquires the bus, performs the transfer and releases it. If the master
// already held the bus, it still holds it afterwards.
//
// If the bus is held by another master, reads return 0 and writes are
// dropped; Denied counts these accesses.
//
type Port struct {
	bus    *Bus
	master string
	denied uint64
}

// Port returns a port for the given master, which must be connected to the
// bus.
//
func (b *Bus) Port(master string) (*Port, error) {
	if !b.isMaster(master) {
		return nil, errors.Errorf("%q is not a bus master", master)
	}
	return &Port{bus: b, master: master}, nil
}

// acquire returns false if the bus is busy. release must be called once the
// transfer is done.
func (p *Port) acquire() (release func(), ok bool) {
	owner, held := p.bus.Owner()
	if held && owner == p.master {
		return func() {}, true
	}
	if !p.bus.Acquire(p.master) {
		return nil, false
	}
	return func() { p.bus.Release(p.master) }, true
}

func (p *Port) deny(op string, addr uint16) {
	p.denied++
	p.bus.logger().WithFields(logrus.Fields{"device": p.master, "addr": addr}).Warn(op + " dropped: bus busy")
}

// Read reads the word at addr.
//
func (p *Port) Read(addr uint16) ucsim.Word {
	release, ok := p.acquire()
	if !ok {
		p.deny("read", addr)
		return ucsim.MustWord(WordWidth, 0)
	}
	defer release()
	w, _ := p.bus.Read(p.master, addr)
	return w
}

// Write writes w at addr.
//
func (p *Port) Write(addr uint16, w ucsim.Word) {
	release, ok := p.acquire()
	if !ok {
		p.deny("write", addr)
		return
	}
	defer release()
	p.bus.Write(p.master, addr, w)
}

// Denied returns the number of accesses dropped because the bus was busy.
func (p *Port) Denied() uint64 { return p.denied }
