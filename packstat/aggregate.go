// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package packstat

import (
	"fmt"
	"io"

	"github.com/packbench/packstat/packfmt"
)

// aggState is the section context carried from one record to the next
// while aggregating a log.
type aggState struct {
	// entry is the entry named by the most recent header.
	entry     string
	inSection bool
	phase     packfmt.Phase
}

// Aggregate reads all records from r into a new Benchmark called name.
//
// Byte counts set the size of the entry they name. Headers select the
// entry and phase that subsequent timing results are recorded for.
// Aggregation stops at the first malformed line, at a timing result
// outside of any section, at a second timing result for the same entry
// and phase, or at an I/O error.
func Aggregate(name string, r *packfmt.Reader) (*Benchmark, error) {
	b := &Benchmark{Name: name}
	var st aggState
	for r.Scan() {
		switch rec := r.Result().(type) {
		case *packfmt.SyntaxError:
			return nil, rec
		case *packfmt.ByteCount:
			e := b.Lookup(rec.Name)
			e.Bytes, e.HasBytes = rec.Bytes, true
		case *packfmt.Header:
			st = aggState{entry: rec.Entry(), inSection: true, phase: rec.Phase}
		case *packfmt.Timing:
			if !st.inSection {
				fileName, line := rec.Pos()
				return nil, &packfmt.SyntaxError{FileName: fileName, Line: line, Msg: "timing result outside of a benchmark section"}
			}
			e := b.Lookup(st.entry)
			if have := e.Time(st.phase); !e.setTime(st.phase, rec.Duration()) {
				fileName, line := rec.Pos()
				return nil, &DuplicateError{fileName, line, e.Name, st.phase, have}
			}
		}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

// A Collection is an ordered list of benchmarks, one per log file.
type Collection struct {
	Benchmarks []*Benchmark

	// Group is the benchmark group of section headers. If "",
	// packfmt.DefaultGroup is used.
	Group string

	reader packfmt.Reader
}

// AddFile aggregates the log read from r as a benchmark called name
// and appends it to c. fileName is used in error messages.
func (c *Collection) AddFile(name, fileName string, r io.Reader) error {
	c.reader.Reset(r, fileName, c.Group)
	b, err := Aggregate(name, &c.reader)
	if err != nil {
		return err
	}
	c.Benchmarks = append(c.Benchmarks, b)
	return nil
}

// AddInput opens, aggregates and closes a log file found by
// packfmt.Glob.
func (c *Collection) AddInput(in packfmt.Input) error {
	f, err := in.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	if err := c.AddFile(in.Name, in.Path, f); err != nil {
		return err
	}
	return nil
}

// ReadDir adds every log file in dir that matches p, in file name
// order. It stops at the first file that cannot be read or aggregated.
func (c *Collection) ReadDir(dir string, p packfmt.Pattern) error {
	inputs, err := packfmt.Glob(dir, p)
	if err != nil {
		return err
	}
	for _, in := range inputs {
		if err := c.AddInput(in); err != nil {
			return fmt.Errorf("benchmark %s: %w", in.Name, err)
		}
	}
	return nil
}
