// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package packfmt reads and writes the text logs produced by
// compression benchmark runs.
//
// A log is a loosely structured stream of lines. Three line shapes
// carry data:
//
//	lz4: 12345 bytes
//	compression/lz4.pack
//	                        time:   [1.2345 ms 1.2400 ms 1.2500 ms]
//
// The first reports the size of the packed output of an entry. The
// second is a section header naming the entry and phase that the
// following timing lines belong to. The third is a timing result; its
// middle estimate is the measurement of interest. A header and its
// timing result may also appear on the same line. All other lines are
// ignored.
//
// The Reader classifies lines into Records but does not track which
// section a timing result belongs to; that is left to consumers such
// as package packstat.
package packfmt

import "fmt"

// A Record is a single record read from a benchmark log. It may be a
// *ByteCount, *Header, *Timing, or *SyntaxError.
type Record interface {
	// Pos returns the position of this record as a file name and a
	// 1-based line number within that file. If this record was not
	// read from a file, it returns "", 0.
	Pos() (fileName string, line int)
}

var _ Record = (*ByteCount)(nil)
var _ Record = (*Header)(nil)
var _ Record = (*Timing)(nil)
var _ Record = (*SyntaxError)(nil)

// pos records where a Record was read from.
type pos struct {
	fileName string
	line     int
}

func (p pos) Pos() (fileName string, line int) {
	return p.fileName, p.line
}

// A Phase is the half of a round trip that a timing measures.
type Phase int

const (
	Pack Phase = iota
	Unpack
)

func (p Phase) String() string {
	switch p {
	case Pack:
		return "pack"
	case Unpack:
		return "unpack"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// A ByteCount reports the number of bytes an entry produced when
// packing the input.
type ByteCount struct {
	Name  string
	Bytes uint64

	pos
}

// VariantCRC is the header variant that marks an entry measured with
// integrity checking enabled.
const VariantCRC = "crc"

// A Header starts a benchmark section. Timing records that follow
// belong to the entry and phase it names until the next Header.
type Header struct {
	// Name is the entry name as it appears in the identifier.
	Name string
	// Phase is Unpack if the identifier's phase tag is "unpack",
	// and Pack otherwise.
	Phase Phase
	// Variant is the optional third part of the identifier, or "".
	Variant string

	pos
}

// Entry returns the name of the entry this section accumulates into.
// The crc variant is a distinct entry from the plain one.
func (h *Header) Entry() string {
	if h.Variant == VariantCRC {
		return h.Name + " + " + VariantCRC
	}
	return h.Name
}

// A Timing is a timing result. The measurement is kept as the text
// that appeared in the log; it is never converted to a number.
type Timing struct {
	// Fields are the whitespace-separated tokens between the
	// brackets, typically a lower bound, estimate, and upper bound
	// each followed by its unit.
	Fields []string
	// Value and Unit are the third and fourth tokens.
	Value, Unit string

	pos
}

// Duration returns the estimate as "value unit", for example "1.24 ms".
func (t *Timing) Duration() string {
	return t.Value + " " + t.Unit
}

// A SyntaxError represents a malformed line in a benchmark log.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

