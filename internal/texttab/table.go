// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out tables of text for fixed-width fonts.
package texttab

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Row, Cell and Span return the Table so calls can be chained to
// build up a row at once.
type Table struct {
	rows [][]cell
	cols int
}

type cell struct {
	col, span  int
	value      string
	leftMargin string
	alignment  align
}

// A CellOption customizes a single cell.
type CellOption func(c *cell)

// LeftMargin sets the text printed to the left of a cell. Cells other
// than the first of a row default to a single space.
func LeftMargin(x string) CellOption {
	return func(c *cell) {
		c.leftMargin = x
	}
}

var (
	Left   CellOption = func(c *cell) { c.alignment = alignLeft }
	Center CellOption = func(c *cell) { c.alignment = alignCenter }
	Right  CellOption = func(c *cell) { c.alignment = alignRight }
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

// pad pads s to width w.
func (a align) pad(s string, w int) string {
	n := w - width(s)
	if n <= 0 {
		return s
	}
	switch a {
	case alignCenter:
		l := n / 2
		return strings.Repeat(" ", l) + s + strings.Repeat(" ", n-l)
	case alignRight:
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

func width(s string) int {
	return utf8.RuneCountInString(s)
}

// Row starts a new row in t.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, nil)
	return t
}

// Cell adds a single-column cell to the current row.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	return t.Span(1, value, opts...)
}

// Span adds a cell covering cols columns to the current row.
func (t *Table) Span(cols int, value string, opts ...CellOption) *Table {
	if len(t.rows) == 0 {
		t.Row()
	}
	row := &t.rows[len(t.rows)-1]
	col := 0
	if n := len(*row); n > 0 {
		last := (*row)[n-1]
		col = last.col + last.span
	}
	c := cell{col: col, span: cols, value: value, leftMargin: " "}
	if col == 0 || value == "" {
		c.leftMargin = ""
	}
	for _, o := range opts {
		o(&c)
	}
	*row = append(*row, c)
	if col+cols > t.cols {
		t.cols = col + cols
	}
	return t
}

// widths returns the width of each column, including the widest left
// margin used in that column. A spanning cell that is wider than the
// columns it covers widens the last of them.
func (t *Table) widths() (margins, ws []int) {
	margins = make([]int, t.cols)
	ws = make([]int, t.cols)
	for _, row := range t.rows {
		for _, c := range row {
			if m := width(c.leftMargin); m > margins[c.col] {
				margins[c.col] = m
			}
		}
	}
	for _, span := range []bool{false, true} {
		for _, row := range t.rows {
			for _, c := range row {
				if (c.span > 1) != span {
					continue
				}
				need := margins[c.col] + width(c.value)
				have := 0
				for i := c.col; i < c.col+c.span; i++ {
					have += ws[i]
				}
				if need > have {
					ws[c.col+c.span-1] += need - have
				}
			}
		}
	}
	return margins, ws
}

// Format lays out t and writes it to w. Trailing spaces are trimmed
// from every line.
func (t *Table) Format(w io.Writer) error {
	margins, ws := t.widths()
	bw := bufio.NewWriter(w)
	var line strings.Builder
	for _, row := range t.rows {
		line.Reset()
		for _, c := range row {
			total := -margins[c.col]
			for i := c.col; i < c.col+c.span; i++ {
				total += ws[i]
			}
			fmt.Fprintf(&line, "%*s", margins[c.col], c.leftMargin)
			line.WriteString(c.alignment.pad(c.value, total))
		}
		bw.WriteString(strings.TrimRight(line.String(), " "))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
