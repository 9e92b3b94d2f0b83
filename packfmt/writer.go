// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package packfmt

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// A Writer writes benchmark logs in the form Reader reads.
type Writer struct {
	w     io.Writer
	buf   bytes.Buffer
	group string
}

// NewWriter returns a writer that writes records to w. Headers are
// written in group; if group is "", DefaultGroup is used.
func NewWriter(w io.Writer, group string) *Writer {
	if group == "" {
		group = DefaultGroup
	}
	return &Writer{w: w, group: group}
}

// Write writes Record rec to w. Each record is written on its own
// line; a Header and its Timing are not joined onto one line.
// SyntaxErrors are ignored.
func (w *Writer) Write(rec Record) error {
	switch rec := rec.(type) {
	case *ByteCount:
		w.buf.WriteString(rec.Name)
		w.buf.Write(bytesSep)
		w.buf.WriteString(strconv.FormatUint(rec.Bytes, 10))
		w.buf.Write(bytesSuffix)
	case *Header:
		fmt.Fprintf(&w.buf, "%s/%s.%s", w.group, rec.Name, rec.Phase)
		if rec.Variant != "" {
			w.buf.WriteString("." + rec.Variant)
		}
	case *Timing:
		// Indent the result the way criterion does when the
		// identifier is too long to share its line.
		fmt.Fprintf(&w.buf, "%24s%s   [%s]", "", timeMarker, strings.Join(rec.Fields, " "))
	case *SyntaxError:
		// Ignore
		return nil
	default:
		return fmt.Errorf("unknown Record type %T", rec)
	}
	w.buf.WriteByte('\n')

	// Flush the buffer out to the io.Writer. Write to the buffer
	// can't fail, so we only have to check if this fails.
	_, err := w.w.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}
