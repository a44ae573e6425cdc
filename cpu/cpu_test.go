// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cpu_test

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"testing"

	hw "github.com/db47h/ucsim"
	"github.com/db47h/ucsim/control"
	"github.com/db47h/ucsim/cpu"
	"github.com/db47h/ucsim/memory"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type machine struct {
	*cpu.CPU
	bus *memory.Bus
	ram *memory.RAM
}

func quiet() *logrus.Logger {
	l := logrus.New()
	l.Out = ioutil.Discard
	return l
}

// newMachine returns a CPU connected to a 4K RAM through the bus, with code
// loaded at address 0 and data words at the given addresses.
func newMachine(t *testing.T, code []uint16, data map[uint16]uint16) *machine {
	t.Helper()
	log := quiet()
	bus := memory.NewBus()
	bus.Log = log
	ram, err := memory.NewRAM(memory.RAMSize)
	require.NoError(t, err)
	require.NoError(t, bus.Connect(ram, "RAM", memory.Range{Lo: 0, Hi: memory.RAMSize - 1}, memory.Slave))
	require.NoError(t, bus.Connect(nil, "CPU", memory.Range{}, memory.Master))
	require.NoError(t, bus.Connect(nil, "DMA", memory.Range{}, memory.Master))
	port, err := bus.Port("CPU")
	require.NoError(t, err)

	for i, w := range code {
		require.NoError(t, ram.Write(uint16(i), hw.MustWord(16, uint64(w))))
	}
	for a, w := range data {
		require.NoError(t, ram.Write(a, hw.MustWord(16, uint64(w))))
	}
	c := cpu.New(port)
	c.Log = log
	return &machine{c, bus, ram}
}

func (m *machine) mem(t *testing.T, addr uint16) uint64 {
	t.Helper()
	w, err := m.ram.Read(addr)
	require.NoError(t, err)
	return w.Uint()
}

func (m *machine) run(t *testing.T) int {
	t.Helper()
	n, err := m.Run(1000)
	require.NoError(t, err)
	require.False(t, m.Running(), "program did not halt")
	return n
}

func TestLoadImmediateHalt(t *testing.T) {
	assert := assert.New(t)
	m := newMachine(t, []uint16{0x9005, 0xF000}, nil)

	require.NoError(t, m.Cycle())
	assert.Equal(uint64(5), m.Regs.AC.Uint())
	assert.Equal(uint64(1), m.Regs.PC.Uint())
	assert.True(m.Running())
	assert.Equal(uint64(1), m.Instructions())
	assert.Equal(uint64(4), m.Cycles())

	require.NoError(t, m.Cycle())
	assert.False(m.Running())
	assert.Equal(uint64(5), m.Regs.AC.Uint())
	assert.Equal(uint64(2), m.Instructions())

	st := m.Status()
	assert.True(st.Halted)
	assert.Equal(cpu.Halted, st.Phase)
	for i := 0; i < 3; i++ {
		require.NoError(t, m.Cycle())
		require.NoError(t, m.Step())
	}
	assert.Equal(st, m.Status())
	n, err := m.Run(10)
	assert.NoError(err)
	assert.Equal(0, n)
}

func TestPhases(t *testing.T) {
	assert := assert.New(t)
	m := newMachine(t, []uint16{0x9005, 0xF000}, nil)
	want := []cpu.Phase{cpu.Fetch, cpu.Fetch, cpu.Decode, cpu.Execute, cpu.Fetch}
	for i, p := range want {
		assert.Equal(p, m.Phase(), "step %d", i)
		if i < len(want)-1 {
			require.NoError(t, m.Step())
		}
	}
	assert.Equal(uint64(0x9005), m.Regs.IR.Uint())
	assert.Equal(control.LOADI, m.Instruction().Kind)
}

func TestMemoryInstructions(t *testing.T) {
	assert := assert.New(t)
	m := newMachine(t, []uint16{
		0x1010, // LOAD 0x010
		0x3011, // ADD 0x011
		0x2012, // STORE 0x012
		0xF000, // HALT
	}, map[uint16]uint16{0x10: 40, 0x11: 2})

	assert.Equal(4, m.run(t))
	assert.Equal(uint64(42), m.Regs.AC.Uint())
	assert.Equal(uint64(42), m.mem(t, 0x12))
	// the HALT fetch left its own address and word in MAR and MDR
	assert.Equal(uint64(3), m.Regs.MAR.Uint())
	assert.Equal(uint64(0xF000), m.Regs.MDR.Uint())
	// LOAD 6, ADD 6, STORE 6, HALT 4
	assert.Equal(uint64(22), m.Cycles())
}

func TestJumpIfZero(t *testing.T) {
	prog := []uint16{
		0x9005, // LOADI 5
		0x4020, // SUB 0x020
		0x8005, // JZ 0x005
		0x90FF, // LOADI 0x0FF
		0xF000, // HALT
		0x9007, // LOADI 0x007
		0xF000, // HALT
	}
	td := []struct {
		name  string
		sub   uint16
		ac    uint64
		n     int
		zero  bool
		carry bool
	}{
		{"taken", 5, 7, 5, true, true},
		{"not taken", 3, 0xFF, 5, false, true},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			m := newMachine(t, prog, map[uint16]uint16{0x20: d.sub})
			assert.Equal(t, d.n, m.run(t))
			assert.Equal(t, d.ac, m.Regs.AC.Uint())
			assert.Equal(t, d.zero, m.Status().Flags.Zero)
			assert.Equal(t, d.carry, m.Status().Flags.Carry)
		})
	}
}

func TestJump(t *testing.T) {
	m := newMachine(t, []uint16{0x7003, 0x9001, 0xF000, 0x9002, 0xF000}, nil)
	assert.Equal(t, 3, m.run(t))
	assert.Equal(t, uint64(2), m.Regs.AC.Uint())
	assert.Equal(t, uint64(5), m.Regs.PC.Uint())
}

func TestALUInstructions(t *testing.T) {
	td := []struct {
		name  string
		code  []uint16
		data  uint16
		ac    uint64
		flags cpu.FlagStatus
	}{
		{"AND", []uint16{0x9F0F, 0xA020}, 0x0FF0, 0x0F00, cpu.FlagStatus{}},
		{"OR", []uint16{0x9F0F, 0xB020}, 0x0FF0, 0x0FFF, cpu.FlagStatus{}},
		{"XOR", []uint16{0x9F0F, 0xC020}, 0x0FF0, 0x00FF, cpu.FlagStatus{}},
		{"XOR zero", []uint16{0x9F0F, 0xC020}, 0x0F0F, 0, cpu.FlagStatus{Zero: true}},
		{"SHL", []uint16{0x9001, 0xD004}, 0, 0x0010, cpu.FlagStatus{}},
		{"SHL out", []uint16{0x9800, 0xD005}, 0, 0, cpu.FlagStatus{Zero: true}},
		{"SHR", []uint16{0x9800, 0xE003}, 0, 0x0100, cpu.FlagStatus{}},
		{"SUB negative", []uint16{0x9000, 0x4020}, 1, 0xFFFF, cpu.FlagStatus{Negative: true}},
		{"ADD carry", []uint16{0x9001, 0x3020}, 0xFFFF, 0, cpu.FlagStatus{Zero: true, Carry: true}},
		{"NOP", []uint16{0x9003, 0x0000}, 0, 3, cpu.FlagStatus{}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			m := newMachine(t, append(d.code, 0xF000), map[uint16]uint16{0x20: d.data})
			m.run(t)
			assert.Equal(t, d.ac, m.Regs.AC.Uint())
			assert.Equal(t, d.flags, m.Status().Flags)
		})
	}
}

func TestMultiply(t *testing.T) {
	assert := assert.New(t)
	m := newMachine(t, []uint16{
		0x912C, // LOADI 300
		0x5020, // MULT 0x020
		0xF000,
	}, map[uint16]uint16{0x20: 300})

	require.NoError(t, m.Cycle())
	require.NoError(t, m.Cycle())
	// 90000 = 0x00015F90
	assert.Equal(uint64(0x0001), m.Regs.HI.Uint())
	assert.Equal(uint64(0x5F90), m.Regs.LO.Uint())
	assert.Equal(uint64(0x5F90), m.Regs.AC.Uint())
	assert.Equal(uint64(300), m.Regs.TEMP.Uint())
	assert.Equal(uint64(4+24), m.Cycles())
	assert.Equal(control.Idle, m.Control.FSM.State())
	st := m.Status()
	assert.False(st.Flags.Zero)
	assert.False(st.Flags.Negative)
	assert.False(st.Flags.Carry)
	assert.Empty(st.Error)
}

func TestMultiplyWait(t *testing.T) {
	m := newMachine(t, []uint16{0x5020, 0xF000}, map[uint16]uint16{0x20: 3})
	for i := 0; i < 6; i++ {
		require.NoError(t, m.Step())
	}
	assert.Equal(t, control.MultInit, m.Control.FSM.State())
	for i := 0; i < 17; i++ {
		assert.Equal(t, 6, m.Control.Step(), "clock %d", i)
		require.NoError(t, m.Step())
	}
	assert.Equal(t, 7, m.Control.Step())
	assert.Equal(t, control.Idle, m.Control.FSM.State())
	require.NoError(t, m.Step())
	assert.Equal(t, uint64(0), m.Regs.AC.Uint())
	assert.True(t, m.Status().Flags.Zero)
}

func TestMultiplyFlags(t *testing.T) {
	td := []struct {
		name   string
		ac     uint16
		hi, lo uint64
		pc     uint64
		flags  cpu.FlagStatus
	}{
		// 0x100 * 0x100 = 0x00010000: AC is zero and JZ is taken
		{"zero low word", 0x100, 0x0001, 0x0000, 6, cpu.FlagStatus{Zero: true}},
		{"negative", 0x0FF, 0x0000, 0xFF00, 5, cpu.FlagStatus{Negative: true}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			m := newMachine(t, []uint16{
				0x9000 | d.ac, // LOADI ac
				0x5020,        // MULT 0x020
				0x8005,        // JZ 0x005
				0x90FF,        // LOADI 0x0FF
				0xF000,        // HALT
				0xF000,        // HALT
			}, map[uint16]uint16{0x20: 0x100})
			m.run(t)
			assert.Equal(t, d.hi, m.Regs.HI.Uint())
			assert.Equal(t, d.lo, m.Regs.LO.Uint())
			assert.Equal(t, d.pc, m.Regs.PC.Uint())
			assert.Equal(t, d.flags, m.Status().Flags)
		})
	}
}

func TestDivide(t *testing.T) {
	assert := assert.New(t)
	m := newMachine(t, []uint16{
		0x9064, // LOADI 100
		0x6020, // DIV 0x020
		0xF000,
	}, map[uint16]uint16{0x20: 7})
	m.run(t)
	assert.Equal(uint64(14), m.Regs.LO.Uint())
	assert.Equal(uint64(2), m.Regs.HI.Uint())
	assert.Equal(uint64(14), m.Regs.AC.Uint())
	assert.Equal(uint64(0), m.Regs.STATUS.Uint())
	assert.False(m.Status().Flags.Zero)
}

func TestDivideByZero(t *testing.T) {
	assert := assert.New(t)
	m := newMachine(t, []uint16{
		0x9064, // LOADI 100
		0x6020, // DIV 0x020
		0x9001, // LOADI 1
		0xF000,
	}, nil)

	require.NoError(t, m.Cycle())
	require.NoError(t, m.Cycle())
	assert.Equal(uint64(cpu.StatusDivideByZero), m.Regs.STATUS.Uint())
	assert.Equal(uint64(100), m.Regs.AC.Uint())
	assert.Equal(uint64(0), m.Regs.HI.Uint())
	assert.Equal(uint64(0), m.Regs.LO.Uint())
	assert.Equal(control.Idle, m.Control.FSM.State())
	assert.Equal(0, m.Control.Step())
	assert.Equal(uint64(2), m.Instructions())
	assert.Equal(uint64(4+6), m.Cycles())

	// execution continues with the next instruction
	assert.Equal(2, m.run(t))
	assert.Equal(uint64(1), m.Regs.AC.Uint())
	st := m.Status()
	assert.Equal("divide by zero", st.Error)
	assert.Equal("0x01", st.Registers["STATUS"])
}

func TestRunBound(t *testing.T) {
	m := newMachine(t, []uint16{0x7000}, nil) // JUMP 0x000
	n, err := m.Run(10)
	assert.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.True(t, m.Running())
	assert.Equal(t, uint64(10), m.Instructions())

	_, err = m.Run(-1)
	assert.Error(t, err)
}

func TestReset(t *testing.T) {
	assert := assert.New(t)
	m := newMachine(t, []uint16{0x0000, 0x9005, 0xF000}, nil)
	m.run(t)
	m.Reset()
	assert.True(m.Running())
	assert.Equal(uint64(0), m.Regs.AC.Uint())
	assert.Equal(uint64(0), m.Cycles())
	m.SetPC(1)
	require.NoError(t, m.Cycle())
	assert.Equal(uint64(5), m.Regs.AC.Uint())
	assert.Equal(uint64(2), m.Regs.PC.Uint())
}

func TestBusBusy(t *testing.T) {
	m := newMachine(t, []uint16{0x9005, 0xF000}, nil)
	require.True(t, m.bus.Acquire("DMA"))
	// the fetch reads 0, a NOP
	require.NoError(t, m.Cycle())
	assert.Equal(t, uint64(0), m.Regs.IR.Uint())
	assert.Equal(t, uint64(1), m.Regs.PC.Uint())
	assert.Equal(t, uint64(0), m.Regs.AC.Uint())
	assert.Equal(t, uint64(1), m.bus.Denied())
	require.True(t, m.bus.Release("DMA"))
}

type badMemory struct{}

func (badMemory) Read(addr uint16) hw.Word         { return hw.MustWord(8, 0) }
func (badMemory) Write(addr uint16, w hw.Word) {}

func TestMemoryWidthError(t *testing.T) {
	c := cpu.New(badMemory{})
	c.Log = quiet()
	c.SetPC(5)
	require.NoError(t, c.Step())
	err := c.Step()
	require.Error(t, err)
	_, ok := errors.Cause(err).(*hw.WidthError)
	assert.True(t, ok, "%v", err)
	assert.Equal(t, uint64(1), c.Cycles())
	assert.Equal(t, uint64(5), c.Regs.PC.Uint())
	assert.Equal(t, uint64(5), c.Regs.MAR.Uint())
	assert.Equal(t, uint64(0), c.Regs.MDR.Uint())
	assert.Equal(t, 1, c.Control.Step())
}

func TestFailedStepRollback(t *testing.T) {
	// a single micro-step loading MAR then reading memory
	cw, err := control.Encode(control.MARLoad, control.MemRead, control.MDRLoad, control.PCInc)
	require.NoError(t, err)
	doc, err := json.Marshal(map[string]map[string]string{"0": {"hex": cw.Hex()}})
	require.NoError(t, err)

	c := cpu.New(badMemory{})
	c.Log = quiet()
	c.Control.Store.Log = quiet()
	require.NoError(t, c.Control.Store.Load(bytes.NewReader(doc)))
	c.SetPC(5)
	require.Error(t, c.Step())
	assert.Equal(t, uint64(0), c.Regs.MAR.Uint(), "MAR load rolled back")
	assert.Equal(t, uint64(5), c.Regs.PC.Uint())
	assert.Equal(t, uint64(0), c.Cycles())
	assert.Equal(t, 0, c.Control.Step())
}

func TestStatusJSON(t *testing.T) {
	m := newMachine(t, []uint16{0x9005, 0xF000}, nil)
	require.NoError(t, m.Cycle())

	b, err := json.Marshal(m.Status())
	require.NoError(t, err)
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &v))
	assert.Equal(t, "FETCH", v["phase"])
	assert.Equal(t, "IDLE", v["fsm_state"])
	assert.Equal(t, true, v["running"])
	assert.Equal(t, float64(4), v["clock_cycles"])
	regs := v["registers"].(map[string]interface{})
	assert.Equal(t, "0x0005", regs["AC"])
	assert.Equal(t, "0x9005", regs["IR"])
	assert.Equal(t, "0x00", regs["STATUS"])
	assert.NotContains(t, v, "error")

	assert.Contains(t, m.Status().String(), "AC=0x0005")
	assert.Contains(t, m.Status().String(), `ir="LOADI 0x005"`)
}
