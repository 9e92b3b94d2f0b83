// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package packstat aggregates compression benchmark logs into a
// comparative report.
//
// Each log file becomes a Benchmark: an ordered list of Entries, one
// per compressor, holding the packed size and the pack and unpack
// times read from the log. A Collection of Benchmarks is pivoted into
// a Table with one row per entry and one column group per benchmark,
// which can be rendered as Markdown, aligned text, CSV, or HTML.
package packstat

import (
	"fmt"

	"github.com/packbench/packstat/packfmt"
)

// An Entry is one compressor's results within a single benchmark.
type Entry struct {
	Name string

	// Bytes is the size of the packed output. It is only
	// meaningful if HasBytes is set.
	Bytes    uint64
	HasBytes bool

	// PackTime and UnpackTime are durations exactly as they
	// appeared in the log, such as "1.24 ms", or "" if the log
	// did not report them.
	PackTime, UnpackTime string
}

// Time returns the entry's time for phase p, or "" if it has none.
func (e *Entry) Time(p packfmt.Phase) string {
	if p == packfmt.Unpack {
		return e.UnpackTime
	}
	return e.PackTime
}

// setTime records the time for phase p. Each phase can be set only
// once; a second value means the log repeats a section.
func (e *Entry) setTime(p packfmt.Phase, d string) bool {
	field := &e.PackTime
	if p == packfmt.Unpack {
		field = &e.UnpackTime
	}
	if *field != "" {
		return false
	}
	*field = d
	return true
}

// A Registry is an ordered set of entries, kept in the order their
// names were first seen.
type Registry struct {
	Entries []*Entry
}

// Lookup returns the entry called name, appending a new, empty entry
// if there is none.
//
// Lookups usually concern the entry most recently added, so the
// search runs from the end.
func (r *Registry) Lookup(name string) *Entry {
	for i := len(r.Entries) - 1; i >= 0; i-- {
		if r.Entries[i].Name == name {
			return r.Entries[i]
		}
	}
	e := &Entry{Name: name}
	r.Entries = append(r.Entries, e)
	return e
}

// A Benchmark is the set of entries read from one log file.
type Benchmark struct {
	// Name is derived from the log's file name.
	Name string

	Registry
}

// A DuplicateError reports a second timing result for the same entry
// and phase within one log.
type DuplicateError struct {
	FileName string
	Line     int

	Entry string
	Phase packfmt.Phase
	// Have is the time recorded first.
	Have string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s:%d: duplicate %s time for %s (already have %s)", e.FileName, e.Line, e.Phase, e.Entry, e.Have)
}
