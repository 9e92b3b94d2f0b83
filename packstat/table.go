// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package packstat

import (
	"fmt"
	"math"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"github.com/packbench/packstat/packunit"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// A Join selects how entries of different benchmarks are matched up
// into rows.
type Join int

const (
	// JoinStrict matches entries by position and fails if any
	// benchmark's entries differ in name or number from the first
	// benchmark's.
	JoinStrict Join = iota
	// JoinIndex matches entries by position without checking
	// their names. Benchmarks with fewer entries than the first
	// have empty cells.
	JoinIndex
	// JoinName matches entries by name. Rows follow the first
	// benchmark's order, followed by entries that only appear in
	// later benchmarks in the order they are first seen.
	JoinName
)

var joinNames = []string{"strict", "index", "name"}

func (j Join) String() string {
	if int(j) < len(joinNames) {
		return joinNames[j]
	}
	return fmt.Sprintf("Join(%d)", int(j))
}

// ParseJoin returns the Join called s.
func ParseJoin(s string) (Join, error) {
	for i, name := range joinNames {
		if strings.EqualFold(s, name) {
			return Join(i), nil
		}
	}
	return 0, fmt.Errorf("unknown join %q: want one of %s", s, strings.Join(joinNames, ", "))
}

// TableOptions controls how a Collection is pivoted into a Table.
type TableOptions struct {
	Join Join

	// Geomean adds a summary row holding the geometric mean of
	// each column.
	Geomean bool

	// Locale selects the digit grouping of byte counts. The zero
	// Tag formats with the root locale.
	Locale language.Tag
}

// A Table is a Collection pivoted into one row per entry and one
// column group per benchmark.
type Table struct {
	// Benchmarks are the names of the column groups.
	Benchmarks []string

	Rows []*Row

	// Summary is the geomean row, or nil.
	Summary *Row

	printer *message.Printer
}

// A Row is one entry across all benchmarks.
type Row struct {
	Name string
	// Cells has one entry per benchmark. An entry is nil if the
	// benchmark has no matching entry.
	Cells []*Entry
}

// A MismatchError reports that a benchmark's entries do not line up
// with the first benchmark's.
type MismatchError struct {
	Benchmark string
	Index     int
	// Want and Got are the entry names at Index in the first
	// benchmark and in Benchmark. Either is "" if that benchmark
	// has fewer entries.
	Want, Got string
}

func (e *MismatchError) Error() string {
	switch {
	case e.Got == "":
		return fmt.Sprintf("benchmark %s: missing entry %d (%s)", e.Benchmark, e.Index, e.Want)
	case e.Want == "":
		return fmt.Sprintf("benchmark %s: extra entry %d (%s)", e.Benchmark, e.Index, e.Got)
	}
	return fmt.Sprintf("benchmark %s: entry %d is %s, want %s", e.Benchmark, e.Index, e.Got, e.Want)
}

// Table pivots the benchmarks of c into a Table.
func (c *Collection) Table(opts TableOptions) (*Table, error) {
	t := &Table{printer: message.NewPrinter(opts.Locale)}
	if len(c.Benchmarks) == 0 {
		return t, nil
	}
	for _, b := range c.Benchmarks {
		t.Benchmarks = append(t.Benchmarks, b.Name)
	}

	var err error
	switch opts.Join {
	case JoinStrict, JoinIndex:
		err = t.joinIndex(c.Benchmarks, opts.Join == JoinStrict)
	case JoinName:
		t.joinName(c.Benchmarks)
	default:
		err = fmt.Errorf("unknown join %v", opts.Join)
	}
	if err != nil {
		return nil, err
	}

	if opts.Geomean {
		if t.Summary, err = t.geomean(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) joinIndex(bs []*Benchmark, strict bool) error {
	base := bs[0].Entries
	if strict {
		for _, b := range bs[1:] {
			if err := checkAligned(base, b); err != nil {
				return err
			}
		}
	}
	for i, e := range base {
		row := &Row{Name: e.Name}
		for _, b := range bs {
			var cell *Entry
			if i < len(b.Entries) {
				cell = b.Entries[i]
			}
			row.Cells = append(row.Cells, cell)
		}
		t.Rows = append(t.Rows, row)
	}
	return nil
}

func checkAligned(base []*Entry, b *Benchmark) error {
	n := len(base)
	if len(b.Entries) > n {
		n = len(b.Entries)
	}
	name := func(es []*Entry, i int) string {
		if i < len(es) {
			return es[i].Name
		}
		return ""
	}
	for i := 0; i < n; i++ {
		want, got := name(base, i), name(b.Entries, i)
		if want != got {
			return &MismatchError{b.Name, i, want, got}
		}
	}
	return nil
}

func (t *Table) joinName(bs []*Benchmark) {
	rows := make(map[string]*Row)
	for bi, b := range bs {
		for _, e := range b.Entries {
			row := rows[e.Name]
			if row == nil {
				row = &Row{Name: e.Name, Cells: make([]*Entry, len(bs))}
				rows[e.Name] = row
				t.Rows = append(t.Rows, row)
			}
			row.Cells[bi] = e
		}
	}
}

// geomean computes the summary row. Each cell summarizes the values
// present in its column; absent and zero values are left out.
func (t *Table) geomean() (*Row, error) {
	sum := &Row{Name: "geomean", Cells: make([]*Entry, len(t.Benchmarks))}
	for bi := range t.Benchmarks {
		var packs, sizes, unpacks []float64
		for _, row := range t.Rows {
			e := row.Cells[bi]
			if e == nil {
				continue
			}
			for _, x := range []struct {
				d  string
				xs *[]float64
			}{{e.PackTime, &packs}, {e.UnpackTime, &unpacks}} {
				if x.d == "" {
					continue
				}
				sec, err := packunit.ParseDuration(x.d)
				if err != nil {
					return nil, fmt.Errorf("benchmark %s, entry %s: %w", t.Benchmarks[bi], e.Name, err)
				}
				if sec > 0 {
					*x.xs = append(*x.xs, sec)
				}
			}
			if e.HasBytes && e.Bytes > 0 {
				sizes = append(sizes, float64(e.Bytes))
			}
		}

		cell := &Entry{Name: sum.Name}
		if len(packs) > 0 {
			cell.PackTime = packunit.FormatDuration(stats.GeoMean(packs))
		}
		if len(unpacks) > 0 {
			cell.UnpackTime = packunit.FormatDuration(stats.GeoMean(unpacks))
		}
		if len(sizes) > 0 {
			cell.Bytes, cell.HasBytes = uint64(math.Round(stats.GeoMean(sizes))), true
		}
		sum.Cells[bi] = cell
	}
	return sum, nil
}
