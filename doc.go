// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package ucsim provides the data model of a 16-bit microprogrammed computer
simulated from first principles.

Individual binary Signals are grouped into fixed width Words. Words are the
values that flow between the parts found in the sub-packages: gates,
multiplexers and adders in hwlib, the arithmetic/logic/shift unit in alu, the
microcode control unit in control and the CPU itself in cpu.

Bit numbering

Throughout this module, bit index 0 of a Word is its most significant bit. A
16-bit Word holding 0x8000 has bit 0 set; the least significant bit is at
index Width()-1. This convention applies everywhere a bit index is used:
instruction fields, control word lines and ALU select codes.

Errors

Validation failures are reported as *RangeError, *IndexError or *WidthError,
wrapped with a stack trace. Use errors.Cause from github.com/pkg/errors to get
the typed error back. A failed operation never modifies its receiver.
*/
package ucsim
