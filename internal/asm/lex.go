// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package asm

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token types.
type Type int

// Tokens
const (
	EOF Type = iota
	Raw
	Ident
	Int
)

// An Item is a token.
type Item struct {
	Type  Type
	Pos   int
	Value interface{}
}

type stateFn func(l *lexer) stateFn

type lexer struct {
	input string
	pos   int
	start int
	cur   rune
	items []Item
}

const eof = -1

func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.cur = eof
		l.pos++
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += w
	l.cur = r
	return r
}

func (l *lexer) backup() {
	if l.cur == eof {
		l.pos--
		return
	}
	l.pos -= utf8.RuneLen(l.cur)
}

func (l *lexer) emit(t Type, v interface{}) {
	l.items = append(l.items, Item{Type: t, Pos: l.start, Value: v})
	l.start = l.pos
}

func (l *lexer) acceptWhile(f func(rune) bool) {
	for f(l.next()) {
	}
	l.backup()
}

// lex splits a source line into tokens. A ';' or '#' starts a comment that
// runs to the end of the line.
//
func lex(input string) []Item {
	l := &lexer{input: input}
	for state := lexInit; state != nil; {
		state = state(l)
	}
	return l.items
}

func lexInit(l *lexer) stateFn {
	l.start = l.pos
	r := l.next()
	switch {
	case r == eof || r == ';' || r == '#':
		return lexEOF
	case unicode.IsSpace(r):
		l.acceptWhile(unicode.IsSpace)
	case unicode.IsLetter(r) || r == '_':
		return lexIdent
	case '0' <= r && r <= '9':
		return lexNumber
	default:
		l.emit(Raw, r)
		return lexEOF
	}
	return lexInit
}

func isIdent(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func lexIdent(l *lexer) stateFn {
	l.acceptWhile(isIdent)
	l.emit(Ident, l.input[l.start:l.pos])
	return lexInit
}

func lexNumber(l *lexer) stateFn {
	l.acceptWhile(isIdent)
	s := l.input[l.start:l.pos]
	v, err := strconv.ParseUint(strings.Replace(s, "_", "", -1), 0, 16)
	if err != nil {
		l.emit(Raw, s)
		return lexEOF
	}
	l.emit(Int, uint16(v))
	return lexInit
}

func lexEOF(l *lexer) stateFn {
	l.start = l.pos
	l.emit(EOF, nil)
	return nil
}
