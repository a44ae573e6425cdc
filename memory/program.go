// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package memory

import (
	"encoding/json"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/db47h/ucsim"
	"github.com/db47h/ucsim/internal/asm"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// A Number is a 16-bit value in a program file. It can be written as a JSON
// number or as a string holding a decimal, 0x hexadecimal or 0b binary
// number. Negative values in [-32768, -1] are stored in two's complement.
//
type Number uint16

func parseNumber(v interface{}) (Number, error) {
	var n int64
	switch v := v.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, errors.Errorf("%v is not an integer", v)
		}
		n = int64(v)
	case string:
		var err error
		if n, err = strconv.ParseInt(strings.TrimSpace(v), 0, 32); err != nil {
			return 0, errors.Wrap(err, "invalid number")
		}
	default:
		return 0, errors.Errorf("invalid number %v", v)
	}
	if n < math.MinInt16 || n > math.MaxUint16 {
		return 0, errors.Errorf("%d does not fit in 16 bits", n)
	}
	return Number(uint16(n)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
//
func (n *Number) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	x, err := parseNumber(v)
	if err != nil {
		return err
	}
	*n = x
	return nil
}

// Code is an instruction in a program file: a JSON number, or a string
// holding a hexadecimal word with or without a 0x prefix ("9005",
// "0xF000"). Any other string is assembled as a source line such as
// "LOADI 5".
//
type Code uint16

func parseHex(s string) (uint16, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	v, err := strconv.ParseUint(s, 16, 16)
	return uint16(v), err == nil
}

// UnmarshalJSON implements json.Unmarshaler.
//
func (c *Code) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case float64:
		n, err := parseNumber(v)
		if err != nil {
			return errors.Wrap(err, "instruction")
		}
		*c = Code(n)
		return nil
	case string:
		if w, ok := parseHex(v); ok {
			*c = Code(w)
			return nil
		}
		w, err := asm.Assemble(v)
		if err != nil {
			return err
		}
		*c = Code(w)
		return nil
	}
	return errors.Errorf("invalid instruction %s", b)
}

// An Entry is an instruction placed at a given address. If Instruction is
// missing, Mnemonic is assembled instead.
//
type Entry struct {
	Address     Number `json:"address"`
	Instruction *Code  `json:"instruction,omitempty"`
	Mnemonic    string `json:"mnemonic,omitempty"`
	Comment     string `json:"comment,omitempty"`
}

// A Variable is a named data word.
type Variable struct {
	Address Number `json:"address"`
	Value   Number `json:"value"`
}

// A String is stored one character per word followed by a zero word.
type String struct {
	Address Number `json:"address"`
	Value   string `json:"value"`
}

// DataSection holds the initialized data of a program.
type DataSection struct {
	Variables map[string]Variable `json:"variables,omitempty"`
	Strings   map[string]String   `json:"strings,omitempty"`
}

// ExecInfo holds execution parameters.
type ExecInfo struct {
	EntryPoint Number `json:"entry_point"`
}

// Metadata describes a program.
type Metadata struct {
	Name          string `json:"name,omitempty"`
	Author        string `json:"author,omitempty"`
	Description   string `json:"description,omitempty"`
	Created       string `json:"created,omitempty"`
	FormatVersion string `json:"format_version,omitempty"`
}

// Program is the content of a program file.
//
// The program description is read from the metadata object. The top level
// program_name, author and description keys are accepted as aliases and
// take precedence.
//
type Program struct {
	Name        string      `json:"program_name,omitempty"`
	Author      string      `json:"author,omitempty"`
	Description string      `json:"description,omitempty"`
	Metadata    Metadata    `json:"metadata"`
	Code        []Entry     `json:"program"`
	Data        DataSection `json:"data_section"`
	Exec        ExecInfo    `json:"execution_info"`
}

func coalesce(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}

// ParseProgram reads a program file.
//
func ParseProgram(r io.Reader) (*Program, error) {
	var p Program
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, errors.Wrap(err, "parse program")
	}
	p.Name = coalesce(p.Name, p.Metadata.Name)
	p.Author = coalesce(p.Author, p.Metadata.Author)
	p.Description = coalesce(p.Description, p.Metadata.Description)
	p.Metadata.Name, p.Metadata.Author, p.Metadata.Description = p.Name, p.Author, p.Description
	if _, err := p.Image(); err != nil {
		return nil, err
	}
	return &p, nil
}

// FromWords returns a program holding the given instructions at consecutive
// addresses starting at 0.
//
func FromWords(name string, words []uint16) *Program {
	p := &Program{Name: name}
	for i, w := range words {
		c := Code(w)
		p.Code = append(p.Code, Entry{Address: Number(i), Instruction: &c, Mnemonic: asm.Disassemble(w)})
	}
	return p
}

// A Cell is a word of a program image.
type Cell struct {
	Address uint16
	Value   uint16
}

// Image returns the memory content described by p in the order it should be
// written: code, then variables and strings sorted by name. Two items
// writing the same address are an error.
//
func (p *Program) Image() ([]Cell, error) {
	var img []Cell
	used := make(map[uint16]string)
	put := func(addr int, v uint16, what string) error {
		if addr > math.MaxUint16 {
			return errors.Errorf("%s: address %#x out of range", what, addr)
		}
		if prev, ok := used[uint16(addr)]; ok {
			return errors.Errorf("%s: address %#04x already used by %s", what, addr, prev)
		}
		used[uint16(addr)] = what
		img = append(img, Cell{uint16(addr), v})
		return nil
	}

	for i, e := range p.Code {
		what := "instruction " + strconv.Itoa(i)
		var v uint16
		switch {
		case e.Instruction != nil:
			v = uint16(*e.Instruction)
		case e.Mnemonic != "":
			w, err := asm.Assemble(e.Mnemonic)
			if err != nil {
				return nil, errors.Wrap(err, what)
			}
			v = w
		default:
			return nil, errors.New(what + ": no instruction")
		}
		if err := put(int(e.Address), v, what); err != nil {
			return nil, err
		}
	}

	for _, name := range sortedKeys(p.Data.Variables) {
		v := p.Data.Variables[name]
		if err := put(int(v.Address), uint16(v.Value), "variable "+name); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedKeys(p.Data.Strings) {
		s := p.Data.Strings[name]
		addr := int(s.Address)
		for _, r := range s.Value {
			if r > math.MaxUint16 {
				return nil, errors.Errorf("string %s: character %q does not fit in 16 bits", name, r)
			}
			if err := put(addr, uint16(r), "string "+name); err != nil {
				return nil, err
			}
			addr++
		}
		if err := put(addr, 0, "string "+name); err != nil {
			return nil, err
		}
	}
	return img, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// A Writer accepts memory writes. *Port implements Writer.
type Writer interface {
	Write(addr uint16, w ucsim.Word)
}

// Install writes the program image through w.
//
func (p *Program) Install(w Writer, log logrus.FieldLogger) error {
	img, err := p.Image()
	if err != nil {
		return err
	}
	for _, c := range img {
		w.Write(c.Address, ucsim.MustWord(WordWidth, uint64(c.Value)))
	}
	log.WithFields(logrus.Fields{
		"program": p.Name,
		"words":   len(img),
		"entry":   uint16(p.Exec.EntryPoint),
	}).Info("program loaded")
	return nil
}

// EntryPoint returns the program entry point.
func (p *Program) EntryPoint() uint16 { return uint16(p.Exec.EntryPoint) }
