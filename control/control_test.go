// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package control_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	hw "github.com/db47h/ucsim"
	"github.com/db47h/ucsim/alu"
	"github.com/db47h/ucsim/control"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	assert := assert.New(t)
	for op := 0; op < 16; op++ {
		for step := 0; step < 16; step++ {
			addr, err := control.Address(op, step)
			assert.NoError(err)
			assert.Equal(op<<4|step, addr)
		}
	}
	_, err := control.Address(16, 0)
	assert.Error(err)
	_, err = control.Address(0, 16)
	assert.Error(err)
}

func TestStore_fetch(t *testing.T) {
	s := control.NewStore()
	for op := 0; op < 16; op++ {
		for step := 0; step < control.FetchSteps; step++ {
			cw, err := s.Fetch(op, step)
			require.NoError(t, err)
			ex, _ := s.Fetch(0, step)
			assert.Equal(t, ex, cw, "opcode %d step %d", op, step)
		}
	}
	l := decode(t, s, 0, 0)
	assert.Equal(t, []control.Line{control.MARLoad}, l.Active())
	l = decode(t, s, 0, 1)
	assert.ElementsMatch(t, []control.Line{control.MemRead, control.MDRLoad, control.PCInc}, l.Active())
	l = decode(t, s, 0, 2)
	assert.Equal(t, []control.Line{control.IRLoad}, l.Active())
}

func decode(t *testing.T, s *control.Store, op, step int) control.Lines {
	t.Helper()
	cw, err := s.Fetch(op, step)
	require.NoError(t, err)
	l, err := control.DecodeLines(cw)
	require.NoError(t, err)
	return l
}

func TestStore_halt(t *testing.T) {
	s := control.NewStore()
	for op := 0; op < 16; op++ {
		for step := 0; step < 16; step++ {
			l := decode(t, s, op, step)
			if op == int(control.HALT) && step == control.FetchSteps {
				assert.True(t, l.Is(control.Halt))
				assert.True(t, l.Is(control.EndInstr))
				continue
			}
			assert.False(t, l.Is(control.Halt), "HALT set at opcode %d step %d", op, step)
		}
	}
}

func TestStore_endInstr(t *testing.T) {
	s := control.NewStore()
	for k := control.NOP; k < control.NumKinds; k++ {
		prog := control.Program(k)
		require.NotEmpty(t, prog, k.String())
		last := control.FetchSteps + len(prog) - 1
		for step := 0; step < 16; step++ {
			l := decode(t, s, int(k), step)
			assert.Equal(t, step == last, l.Is(control.EndInstr), "%v step %d", k, step)
			if step > last {
				assert.Empty(t, l.Active(), "%v step %d", k, step)
			}
		}
	}
}

func TestStore_aluFields(t *testing.T) {
	s := control.NewStore()
	td := []struct {
		kind control.Kind
		step int
		op   uint64
		fn   uint64
	}{
		{control.ADD, 5, alu.OpArith, alu.FnAdd},
		{control.SUB, 5, alu.OpArith, alu.FnSub},
		{control.AND, 5, alu.OpLogic, alu.FnAnd},
		{control.OR, 5, alu.OpLogic, alu.FnOr},
		{control.XOR, 5, alu.OpLogic, alu.FnXor},
		{control.SHL, 3, alu.OpShift, uint64(alu.FnSLL)},
		{control.SHR, 3, alu.OpShift, uint64(alu.FnLSR)},
	}
	for _, d := range td {
		l := decode(t, s, int(d.kind), d.step)
		assert.True(t, l.Is(control.ALUEn), d.kind.String())
		assert.Equal(t, d.op, l.ALUOp().Uint(), d.kind.String())
		assert.Equal(t, d.fn, l.ALUFunc().Uint(), d.kind.String())
		assert.Equal(t, 2, l.ALUOp().Width())
		assert.Equal(t, 3, l.ALUFunc().Width())
	}
}

func TestStore_saveLoad(t *testing.T) {
	s := control.NewStore()
	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))

	var doc map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Len(t, doc, control.StoreSize)
	halt := doc["243"] // HALT step 3
	assert.Equal(t, "0x00000009", halt["hex"])
	assert.Equal(t, strings.Repeat("0", 28)+"1001", halt["bin"])
	assert.Equal(t, float64(9), halt["dec"])

	s2 := control.NewStore()
	require.NoError(t, s2.Load(strings.NewReader(`{"3": {"hex": "0x80000000"}, "4": {"bin": "11"}, "5": {"dec": 7}}`)))
	for addr := 0; addr < control.StoreSize; addr++ {
		cw, err := s2.Read(addr)
		require.NoError(t, err)
		switch addr {
		case 3:
			assert.Equal(t, uint64(0x80000000), cw.Uint())
		case 4:
			assert.Equal(t, uint64(3), cw.Uint())
		case 5:
			assert.Equal(t, uint64(7), cw.Uint())
		default:
			assert.Equal(t, uint64(0), cw.Uint())
		}
	}

	require.NoError(t, s2.Load(&buf))
	for addr := 0; addr < control.StoreSize; addr++ {
		a, _ := s.Read(addr)
		b, _ := s2.Read(addr)
		assert.Equal(t, a, b, "address %d", addr)
	}

	assert.Error(t, s2.Load(strings.NewReader(`{"256": {"dec": 1}}`)))
	assert.Error(t, s2.Load(strings.NewReader(`{"1": {"hex": "0x100000000"}}`)))
	assert.Error(t, s2.Load(strings.NewReader(`not json`)))
	cw, _ := s2.Read(243)
	assert.Equal(t, uint64(9), cw.Uint(), "failed loads must not modify the store")

	_, err := s2.Read(256)
	assert.Error(t, err)
}

func TestStore_zeroValueLoad(t *testing.T) {
	var s control.Store
	assert.NotPanics(t, func() {
		require.NoError(t, s.Load(strings.NewReader(`{"1": {"dec": 5}}`)))
	})
	cw, err := s.Read(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), cw.Uint())
}

func TestStore_dump(t *testing.T) {
	s := control.NewStore()
	var buf bytes.Buffer
	require.NoError(t, s.Dump(&buf, 0x90, 0x9F, false))
	rows := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, rows, 5) // header, fetch steps 0-2, LOADI step 3
	assert.True(t, strings.HasPrefix(rows[0], "ADDR"))
	assert.Equal(t, "0x90  0x04000000  00000100000000000000000000000000  9   0     MAR_LOAD", rows[1])
	assert.Equal(t, "0x93  0x00800041  00000000100000000000000001000001  9   3     AC_LOAD|OPERAND_OUT|END_INSTR", rows[4])

	buf.Reset()
	require.NoError(t, s.Dump(&buf, 0x94, 0x95, true))
	rows = strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, rows, 3)
	assert.Equal(t, "0x95  0x00000000  "+strings.Repeat("0", 32)+"  9   5     ", rows[2])

	assert.Error(t, s.Dump(&buf, 0, control.StoreSize, false))
	assert.Error(t, s.Dump(&buf, 5, 4, false))
}

func TestLines(t *testing.T) {
	cw, err := control.Encode(control.ALUOp1, control.ALUFn0, control.ALUFn2, control.EndInstr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<30|1<<29|1<<27|1), cw.Uint())
	l, err := control.DecodeLines(cw)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), l.ALUOp().Uint())
	assert.Equal(t, uint64(5), l.ALUFunc().Uint())
	assert.Equal(t, "ALU_OP1|ALU_FN0|ALU_FN2|END_INSTR", l.String())

	_, err = control.DecodeLines(hw.MustWord(16, 0))
	assert.Error(t, err)
	_, err = control.Encode(control.NumLines)
	assert.Error(t, err)

	line, ok := control.LineByName("MEM_WRITE")
	assert.True(t, ok)
	assert.Equal(t, control.MemWrite, line)
	_, ok = control.LineByName("DISP_LOAD")
	assert.False(t, ok)
	assert.Equal(t, 32, control.WordWidth)
}
