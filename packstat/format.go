// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package packstat

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/google/safehtml/template"
	"github.com/packbench/packstat/internal/texttab"
)

// Placeholder is printed in place of a missing time.
const Placeholder = "—"

// Markers decorate the column group headers: times to the left and
// right of the byte count are better when lower.
const (
	lowerLeft  = "↘"
	lowerRight = "↗"
)

// cells returns the pack time, byte count and unpack time of e as
// printed in human-readable formats.
func (t *Table) cells(e *Entry) (pack, bytes, unpack string) {
	pack, unpack = Placeholder, Placeholder
	var n uint64
	if e != nil {
		if e.PackTime != "" {
			pack = e.PackTime
		}
		if e.UnpackTime != "" {
			unpack = e.UnpackTime
		}
		n = e.Bytes
	}
	return pack, t.printer.Sprintf("%d b", n), unpack
}

// rows returns the body rows followed by the summary row, if any.
func (t *Table) rows() []*Row {
	if t.Summary == nil {
		return t.Rows
	}
	return append(t.Rows[:len(t.Rows):len(t.Rows)], t.Summary)
}

// ToMarkdown renders t as a pipe-delimited table with one row per
// entry. Each benchmark contributes three columns: pack time, packed
// size and unpack time.
func (t *Table) ToMarkdown(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("|benchmarks|")
	for _, name := range t.Benchmarks {
		bw.WriteString(name + " " + lowerLeft + "|bytes|" + lowerRight + "|")
	}
	bw.WriteString("\n|:--|")
	for range t.Benchmarks {
		bw.WriteString("--:|--:|--:|")
	}
	bw.WriteString("\n")
	for _, row := range t.rows() {
		bw.WriteString("|" + row.Name)
		for _, e := range row.Cells {
			pack, bytes, unpack := t.cells(e)
			bw.WriteString("|" + pack + "|" + bytes + "|" + unpack)
		}
		bw.WriteString("|\n")
	}
	return bw.Flush()
}

// ToText renders t as a table aligned for a fixed-width font.
func (t *Table) ToText(w io.Writer) error {
	var tab texttab.Table
	tab.Row().Cell("")
	for _, name := range t.Benchmarks {
		tab.Span(3, name, texttab.Center, texttab.LeftMargin("  "))
	}
	tab.Row().Cell("benchmarks")
	for range t.Benchmarks {
		tab.Cell("pack "+lowerLeft, texttab.Right, texttab.LeftMargin("  "))
		tab.Cell("bytes", texttab.Right)
		tab.Cell("unpack "+lowerRight, texttab.Right)
	}
	for _, row := range t.rows() {
		tab.Row().Cell(row.Name)
		for _, e := range row.Cells {
			pack, bytes, unpack := t.cells(e)
			tab.Cell(pack, texttab.Right, texttab.LeftMargin("  "))
			tab.Cell(bytes, texttab.Right)
			tab.Cell(unpack, texttab.Right)
		}
	}
	return tab.Format(w)
}

// ToCSV renders t as CSV. Byte counts are written without grouping and
// missing values are empty.
func (t *Table) ToCSV(w io.Writer) error {
	o := csv.NewWriter(w)
	header := []string{"benchmark"}
	for _, name := range t.Benchmarks {
		header = append(header, name+" pack", name+" bytes", name+" unpack")
	}
	o.Write(header)
	for _, row := range t.rows() {
		rec := []string{row.Name}
		for _, e := range row.Cells {
			if e == nil {
				rec = append(rec, "", "", "")
				continue
			}
			var bytes string
			if e.HasBytes {
				bytes = strconv.FormatUint(e.Bytes, 10)
			}
			rec = append(rec, e.PackTime, bytes, e.UnpackTime)
		}
		o.Write(rec)
	}
	o.Flush()
	return o.Error()
}

var htmlTemplate = template.Must(template.New("").Parse(`<table class='packstat'>
<thead>
<tr><th>benchmarks{{range .Benchmarks}}<th colspan='3'>{{.}}{{end}}
<tr><th>{{range .Benchmarks}}<th>pack ↘<th>bytes<th>unpack ↗{{end}}
</thead>
<tbody>
{{range .Rows -}}
{{if .Summary}}<tr class='summary'>{{else}}<tr>{{end}}<td>{{.Name}}{{range .Cells}}<td>{{.}}{{end}}
{{end -}}
</tbody>
</table>
`))

type htmlRow struct {
	Name    string
	Cells   []string
	Summary bool
}

// ToHTML renders t as an HTML table.
func (t *Table) ToHTML(w io.Writer) error {
	data := struct {
		Benchmarks []string
		Rows       []htmlRow
	}{Benchmarks: t.Benchmarks}
	for _, row := range t.rows() {
		hr := htmlRow{Name: row.Name, Summary: row == t.Summary}
		for _, e := range row.Cells {
			pack, bytes, unpack := t.cells(e)
			hr.Cells = append(hr.Cells, pack, bytes, unpack)
		}
		data.Rows = append(data.Rows, hr)
	}
	return htmlTemplate.Execute(w, data)
}

// A Format names one of the Table renderers.
type Format string

const (
	Markdown Format = "markdown"
	Text     Format = "text"
	CSV      Format = "csv"
	HTML     Format = "html"
)

// ParseFormat returns the Format called s, ignoring case. The empty
// string selects Markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return Markdown, nil
	case Markdown, Text, CSV, HTML:
		return f, nil
	}
	return "", &FormatError{Format(s)}
}

// Write renders t in format f.
func (t *Table) Write(w io.Writer, f Format) error {
	f, err := ParseFormat(string(f))
	if err != nil {
		return err
	}
	switch f {
	case Text:
		return t.ToText(w)
	case CSV:
		return t.ToCSV(w)
	case HTML:
		return t.ToHTML(w)
	}
	return t.ToMarkdown(w)
}

// A FormatError reports an unknown output format.
type FormatError struct {
	Format Format
}

func (e *FormatError) Error() string {
	return "unknown format " + strconv.Quote(string(e.Format)) + ": want markdown, text, csv or html"
}
