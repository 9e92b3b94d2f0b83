// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package packfmt

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"unicode"
)

// DefaultGroup is the benchmark group that section headers are
// expected to belong to.
const DefaultGroup = "compression"

// A Reader reads benchmark logs.
//
// Its API is modeled on bufio.Scanner. To construct a new Reader,
// either call NewReader, or call Reset on a zeroed Reader.
type Reader struct {
	s   *bufio.Scanner
	err error // current I/O error

	// q is the queue of records to return before processing the
	// next input line. A single line can produce both a Header and
	// a Timing. qPos is the index of the current record in q.
	q    []Record
	qPos int

	fileName string
	line     int

	// headerPrefix is "<group>/".
	headerPrefix []byte
}

var noResult = &SyntaxError{"", 0, "Reader.Scan has not been called"}

// NewReader constructs a reader to parse benchmark logs from r.
// fileName is used in error messages; it is purely diagnostic.
// Section headers must belong to group; if group is "", DefaultGroup
// is used.
func NewReader(r io.Reader, fileName, group string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName, group)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName, group string) {
	r.s = bufio.NewScanner(ior)
	if fileName == "" {
		fileName = "<unknown>"
	}
	if group == "" {
		group = DefaultGroup
	}
	r.err = nil
	r.qPos = 0
	r.q = r.q[:0]
	r.fileName = fileName
	r.line = 0
	r.headerPrefix = append(append(r.headerPrefix[:0], group...), '/')
}

// newSyntaxError returns a *SyntaxError at the Reader's current position.
func (r *Reader) newSyntaxError(msg string) *SyntaxError {
	return &SyntaxError{r.fileName, r.line, msg}
}

func (r *Reader) pos() pos {
	return pos{r.fileName, r.line}
}

// Scan advances the reader to the next record and reports whether a
// record was read.
// The caller should use the Result method to get the record.
// If Scan reaches EOF or an I/O error occurs, it returns false,
// in which case the caller should use the Err method to check for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}

	if r.qPos+1 < len(r.q) {
		r.qPos++
		return true
	}
	r.qPos = 0
	r.q = r.q[:0]

	// Process lines until we add something to the queue or hit EOF.
	for len(r.q) == 0 && r.s.Scan() {
		r.line++
		r.q = r.classify(r.s.Bytes(), r.q)
	}

	if len(r.q) > 0 {
		return true
	}

	// We hit EOF. Check for IO errors.
	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
		return false
	}
	r.err = nil
	return false
}

// Result returns the record that was just read by Scan. This is
// either a *ByteCount, *Header, *Timing, or a *SyntaxError
// indicating a malformed line.
//
// Syntax errors do not stop the Reader, so the caller can continue to
// call Scan.
func (r *Reader) Result() Record {
	if r.qPos >= len(r.q) {
		// This should only happen if Scan has never been called.
		return noResult
	}
	return r.q[r.qPos]
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}

var (
	bytesSuffix = []byte(" bytes")
	bytesSep    = []byte(": ")
	timeMarker  = []byte("time:")
)

// classify appends the records found on line to q.
//
// A byte count line is never also a header or a timing line. Any other
// line is checked for a header and then for a timing result, since a
// short benchmark identifier is followed by its result on the same
// line.
func (r *Reader) classify(line []byte, q []Record) []Record {
	if body, ok := bytes.CutSuffix(line, bytesSuffix); ok {
		if rec := r.parseByteCount(body); rec != nil {
			q = append(q, rec)
		}
		return q
	}
	if rest, ok := bytes.CutPrefix(line, r.headerPrefix); ok {
		if h := r.parseHeader(rest); h != nil {
			q = append(q, h)
		}
	}
	if i := bytes.Index(line, timeMarker); i >= 0 {
		if rec := r.parseTiming(line[i+len(timeMarker):]); rec != nil {
			q = append(q, rec)
		}
	}
	return q
}

// parseByteCount parses "name: count", the part of a byte count line
// before " bytes". It returns nil if body does not have that shape.
func (r *Reader) parseByteCount(body []byte) Record {
	name, count, ok := bytes.Cut(body, bytesSep)
	if !ok {
		return nil
	}
	// Anything after a second separator is not part of the count.
	if i := bytes.Index(count, bytesSep); i >= 0 {
		count = count[:i]
	}
	n, err := strconv.ParseUint(string(count), 10, 64)
	if err != nil {
		return r.newSyntaxError(fmt.Sprintf("parsing byte count of %s: %v", name, err.(*strconv.NumError).Err))
	}
	return &ByteCount{Name: string(name), Bytes: n, pos: r.pos()}
}

// parseHeader parses the identifier following the group prefix. It
// returns nil if the identifier has no phase tag.
func (r *Reader) parseHeader(rest []byte) *Header {
	id := rest
	if i := bytes.IndexByte(rest, ' '); i >= 0 {
		id = rest[:i]
	}
	parts := bytes.Split(id, []byte("."))
	if len(parts) < 2 {
		return nil
	}
	h := &Header{Name: string(parts[0]), Phase: Pack, pos: r.pos()}
	if string(parts[1]) == "unpack" {
		h.Phase = Unpack
	}
	if len(parts) > 2 {
		h.Variant = string(parts[2])
	}
	return h
}

// parseTiming parses the text following the time marker. It returns
// nil if there is no bracketed measurement.
func (r *Reader) parseTiming(rest []byte) Record {
	rest = bytes.TrimLeftFunc(rest, unicode.IsSpace)
	rest, ok := bytes.CutPrefix(rest, []byte("["))
	if !ok {
		return nil
	}
	if i := bytes.IndexByte(rest, ']'); i >= 0 {
		rest = rest[:i]
	}
	fs := bytes.Fields(rest)
	if len(fs) < 4 {
		return r.newSyntaxError(fmt.Sprintf("timing result has %d fields, want at least 4", len(fs)))
	}
	if _, err := strconv.ParseFloat(string(fs[2]), 64); err != nil {
		return r.newSyntaxError(fmt.Sprintf("parsing timing estimate: %v", err.(*strconv.NumError).Err))
	}
	t := &Timing{Fields: make([]string, len(fs)), pos: r.pos()}
	for i, f := range fs {
		t.Fields[i] = string(f)
	}
	t.Value, t.Unit = t.Fields[2], t.Fields[3]
	return t
}
