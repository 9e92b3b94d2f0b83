// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package packchart draws benchmarks as bar charts.
//
// Each benchmark gets a time chart, with a pair of bars per entry for
// the pack and unpack time on a y axis scaled to a common SI prefix,
// and a size chart with one bar per packed size on a binary-prefixed
// axis.
package packchart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/packbench/packstat/packstat"
	"github.com/packbench/packstat/packunit"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Options controls the size of a chart. Zero fields select a size
// based on the number of entries.
type Options struct {
	Width, Height vg.Length
	DPI           int
}

const (
	defaultDPI = 96
	barWidth   = 12 // points
)

var (
	packColor   = color.NRGBA{0x33, 0x66, 0xCC, 0xFF}
	unpackColor = color.NRGBA{0xFF, 0x99, 0x00, 0xFF}
	bytesColor  = color.NRGBA{0x66, 0x99, 0x33, 0xFF}
)

// Plot builds the chart for b. Missing times are drawn as bars of zero
// height.
func Plot(b *packstat.Benchmark) (*plot.Plot, error) {
	if len(b.Entries) == 0 {
		return nil, fmt.Errorf("benchmark %s has no entries", b.Name)
	}

	var names []string
	packs := make(plotter.Values, 0, len(b.Entries))
	unpacks := make(plotter.Values, 0, len(b.Entries))
	for _, e := range b.Entries {
		p, err := seconds(e.PackTime)
		if err != nil {
			return nil, fmt.Errorf("benchmark %s, entry %s: %w", b.Name, e.Name, err)
		}
		u, err := seconds(e.UnpackTime)
		if err != nil {
			return nil, fmt.Errorf("benchmark %s, entry %s: %w", b.Name, e.Name, err)
		}
		names = append(names, e.Name)
		packs = append(packs, p)
		unpacks = append(unpacks, u)
	}

	all := append(append([]float64(nil), packs...), unpacks...)
	scale := packunit.CommonScale(all, packunit.Decimal)
	for i := range packs {
		packs[i] /= scale.Factor
		unpacks[i] /= scale.Factor
	}

	pl := newPlot(b.Name, "time ("+scale.Prefix+"s)")
	w := vg.Points(barWidth)
	for _, s := range []struct {
		label  string
		values plotter.Values
		clr    color.Color
		offset vg.Length
	}{
		{"pack", packs, packColor, -w / 2},
		{"unpack", unpacks, unpackColor, w / 2},
	} {
		bars, err := plotter.NewBarChart(s.values, w)
		if err != nil {
			return nil, err
		}
		bars.Color = s.clr
		bars.LineStyle.Width = 0
		bars.Offset = s.offset
		pl.Add(bars)
		pl.Legend.Add(s.label, bars)
	}
	pl.Legend.Top = true
	nominalX(pl, names)
	return pl, nil
}

// PlotBytes builds the packed size chart for b. Each bar is labeled
// with its size. Entries without a byte count are left out.
func PlotBytes(b *packstat.Benchmark) (*plot.Plot, error) {
	var names, labels []string
	var sizes plotter.Values
	for _, e := range b.Entries {
		if !e.HasBytes {
			continue
		}
		names = append(names, e.Name)
		sizes = append(sizes, float64(e.Bytes))
		labels = append(labels, packunit.FormatBytes(float64(e.Bytes)))
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("benchmark %s has no byte counts", b.Name)
	}

	scale := packunit.CommonScale(sizes, packunit.Binary)
	xys := make(plotter.XYs, len(sizes))
	for i := range sizes {
		sizes[i] /= scale.Factor
		xys[i] = plotter.XY{X: float64(i), Y: sizes[i]}
	}

	pl := newPlot(b.Name+" packed size", "size ("+scale.Prefix+"B)")
	bars, err := plotter.NewBarChart(sizes, vg.Points(2*barWidth))
	if err != nil {
		return nil, err
	}
	bars.Color = bytesColor
	bars.LineStyle.Width = 0
	pl.Add(bars)

	lbls, err := plotter.NewLabels(&plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, err
	}
	lbls.Offset = vg.Point{X: -barWidth, Y: 2}
	pl.Add(lbls)

	nominalX(pl, names)
	return pl, nil
}

func newPlot(title, yLabel string) *plot.Plot {
	pl := plot.New()
	pl.Title.Text = title
	pl.Y.Label.Text = yLabel
	pl.Y.Min = 0

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid)
	return pl
}

func nominalX(pl *plot.Plot, names []string) {
	pl.NominalX(names...)
	pl.X.Tick.Label.Rotation = -math.Pi / 8
	pl.X.Tick.Label.YAlign = draw.YTop
	pl.X.Tick.Label.XAlign = draw.XLeft
}

func seconds(d string) (float64, error) {
	if d == "" {
		return 0, nil
	}
	return packunit.ParseDuration(d)
}

// Write draws the time chart for b and writes it to w as a PNG image.
func Write(w io.Writer, b *packstat.Benchmark, opts Options) error {
	pl, err := Plot(b)
	if err != nil {
		return err
	}
	return writePNG(w, pl, len(b.Entries), opts)
}

// WriteBytes draws the packed size chart for b and writes it to w as a
// PNG image.
func WriteBytes(w io.Writer, b *packstat.Benchmark, opts Options) error {
	pl, err := PlotBytes(b)
	if err != nil {
		return err
	}
	return writePNG(w, pl, len(b.Entries), opts)
}

func writePNG(w io.Writer, pl *plot.Plot, entries int, opts Options) error {
	// Heuristic size: room for a pair of bars and a label per entry.
	width, height := opts.Width, opts.Height
	if width == 0 {
		width = vg.Length(1.5*float64(2+entries)) * vg.Centimeter
		if width < 12*vg.Centimeter {
			width = 12 * vg.Centimeter
		}
	}
	if height == 0 {
		height = 8 * vg.Centimeter
	}
	dpi := opts.DPI
	if dpi == 0 {
		dpi = defaultDPI
	}

	c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))
	pl.Draw(draw.New(c))
	_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return err
}

// WriteDir writes <benchmark>.png to dir for every benchmark in c that
// has entries, and <benchmark>-bytes.png for every benchmark that has
// byte counts, creating dir if needed. It returns the paths written.
func WriteDir(dir string, c *packstat.Collection, opts Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, err
	}
	var paths []string
	for _, b := range c.Benchmarks {
		if len(b.Entries) == 0 {
			continue
		}
		path := filepath.Join(dir, b.Name+".png")
		if err := writeFile(path, b, opts, Write); err != nil {
			return paths, err
		}
		paths = append(paths, path)
		if !hasBytes(b) {
			continue
		}
		path = filepath.Join(dir, b.Name+"-bytes.png")
		if err := writeFile(path, b, opts, WriteBytes); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func hasBytes(b *packstat.Benchmark) bool {
	for _, e := range b.Entries {
		if e.HasBytes {
			return true
		}
	}
	return false
}

func writeFile(path string, b *packstat.Benchmark, opts Options, write func(io.Writer, *packstat.Benchmark, Options) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, b, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
