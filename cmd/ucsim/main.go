// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command ucsim runs a program on the simulated CPU.
//
// Programs are JSON program files or, if the file name ends in .asm, assembly
// source with one instruction per line. Without a program, a built-in demo
// loading 5 in the accumulator is run.
//
//	ucsim -program sum.json -max-cycles 500 -json
//	ucsim -program sum.json -dump 0x010:16
//	ucsim -microcode-dump 0x90:0x9F
//	ucsim -asm "LOADI 0x2A"
//
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/db47h/ucsim/cpu"
	"github.com/db47h/ucsim/internal/asm"
	"github.com/db47h/ucsim/memory"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var demo = []uint16{
	0x9005, // LOADI 5
	0xF000, // HALT
}

type options struct {
	program      string
	entry        int
	maxCycles    int
	trace        bool
	microcodeOut string
	microcodeIn  string
	json         bool
	asm          string
	dump         string
	microDump    string
}

func main() {
	var o options
	flag.StringVar(&o.program, "program", "", "program `file` (JSON, or assembly if the name ends in .asm)")
	flag.IntVar(&o.entry, "entry", -1, "entry point `address`; defaults to the program's entry point")
	flag.IntVar(&o.maxCycles, "max-cycles", 10000, "maximum number of instruction cycles")
	flag.BoolVar(&o.trace, "trace", false, "log every micro-step")
	flag.StringVar(&o.microcodeOut, "microcode-out", "", "write the control store to `file` as JSON")
	flag.StringVar(&o.microcodeIn, "microcode-in", "", "load the control store from `file`")
	flag.BoolVar(&o.json, "json", false, "print the final CPU status as JSON")
	flag.StringVar(&o.asm, "asm", "", "assemble a single `instruction`, print it and exit")
	flag.StringVar(&o.dump, "dump", "", "after the run, print the non-zero RAM words in `start:count`")
	flag.StringVar(&o.microDump, "microcode-dump", "", "print the non-zero control words in `from:to` (inclusive) before the run")
	flag.Parse()

	logrus.SetOutput(os.Stderr)
	if o.trace {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := run(&o); err != nil {
		logrus.WithError(err).Fatal("ucsim")
	}
}

func run(o *options) error {
	if o.asm != "" {
		w, err := asm.Assemble(o.asm)
		if err != nil {
			return err
		}
		fmt.Printf("0x%04X\t%s\n", w, asm.Disassemble(w))
		return nil
	}

	var dump, microDump [2]int
	if o.dump != "" {
		a, b, err := parseRange(o.dump)
		if err != nil {
			return errors.Wrap(err, "-dump")
		}
		dump = [2]int{a, b}
	}
	if o.microDump != "" {
		a, b, err := parseRange(o.microDump)
		if err != nil {
			return errors.Wrap(err, "-microcode-dump")
		}
		microDump = [2]int{a, b}
	}

	prog, err := loadProgram(o.program)
	if err != nil {
		return err
	}

	bus := memory.NewBus()
	ram, err := memory.NewRAM(memory.RAMSize)
	if err != nil {
		return err
	}
	if err = bus.Connect(ram, "RAM", memory.Range{Lo: 0, Hi: memory.RAMSize - 1}, memory.Slave); err != nil {
		return err
	}
	if err = bus.Connect(nil, "CPU", memory.Range{}, memory.Master); err != nil {
		return err
	}
	port, err := bus.Port("CPU")
	if err != nil {
		return err
	}
	if err = prog.Install(port, logrus.StandardLogger()); err != nil {
		return err
	}

	c := cpu.New(port)
	if o.microcodeIn != "" {
		if err = withFile(o.microcodeIn, os.Open, func(f *os.File) error { return c.Control.Store.Load(f) }); err != nil {
			return errors.Wrap(err, "load microcode")
		}
	}
	if o.microcodeOut != "" {
		if err = withFile(o.microcodeOut, os.Create, func(f *os.File) error { return c.Control.Store.Save(f) }); err != nil {
			return errors.Wrap(err, "save microcode")
		}
	}

	if o.microDump != "" {
		if err = c.Control.Store.Dump(os.Stdout, microDump[0], microDump[1], false); err != nil {
			return err
		}
	}

	entry := prog.EntryPoint()
	if o.entry >= 0 {
		if o.entry > 0xFFFF {
			return errors.Errorf("entry point %#x out of range", o.entry)
		}
		entry = uint16(o.entry)
	}
	c.SetPC(entry)

	n, err := c.Run(o.maxCycles)
	if err != nil {
		return err
	}
	if c.Running() {
		logrus.WithField("cycles", n).Warn("cycle limit reached before HALT")
	}

	st := c.Status()
	if o.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err = enc.Encode(st); err != nil {
			return err
		}
	} else {
		fmt.Println(st)
	}
	if o.dump != "" {
		return ram.Dump(os.Stdout, dump[0], dump[1])
	}
	return nil
}

// parseRange parses "a:b" where a and b are decimal, 0x hex or 0b binary.
func parseRange(s string) (a, b int, err error) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return 0, 0, errors.Errorf("invalid range %q, want a:b", s)
	}
	x, err := strconv.ParseUint(s[:i], 0, 16)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "invalid range %q", s)
	}
	y, err := strconv.ParseUint(s[i+1:], 0, 17)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "invalid range %q", s)
	}
	return int(x), int(y), nil
}

func loadProgram(name string) (*memory.Program, error) {
	if name == "" {
		return memory.FromWords("demo", demo), nil
	}
	if strings.EqualFold(filepath.Ext(name), ".asm") {
		src, err := ioutil.ReadFile(name)
		if err != nil {
			return nil, err
		}
		words, err := asm.Program(string(src))
		if err != nil {
			return nil, errors.Wrap(err, name)
		}
		return memory.FromWords(filepath.Base(name), words), nil
	}
	var p *memory.Program
	err := withFile(name, os.Open, func(f *os.File) (err error) {
		p, err = memory.ParseProgram(f)
		return err
	})
	return p, errors.Wrap(err, name)
}

func withFile(name string, open func(string) (*os.File, error), fn func(*os.File) error) error {
	f, err := open(name)
	if err != nil {
		return err
	}
	err = fn(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
