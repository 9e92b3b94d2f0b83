// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Packstat summarizes compression benchmark logs as a table.
//
// Usage:
//
//	packstat [flags] [dir]
//
// Packstat reads every log file in dir (default ".") whose name has the
// form rust-compression-<name>.bench, optionally compressed with gzip
// (.gz) or zstd (.zst). Each file becomes one column group named
// <name>, and each compressor found in the logs becomes one row:
//
//	|benchmarks|linux ↘|bytes|↗|
//	|:--|--:|--:|--:|
//	|lz4|453.54 ms|96.216.084 b|77.512 ms|
//
// The columns of a group are the time to pack, the packed size and the
// time to unpack. Missing times are shown as "—".
//
// A log is the output of a benchmark harness. Packstat recognizes three
// kinds of lines:
//
//	lz4: 96216084 bytes
//	compression/lz4.pack    time:   [452.77 ms 453.54 ms 454.35 ms]
//	compression/snappy.unpack.crc
//	                        time:   [294.51 ms 295.16 ms 295.86 ms]
//
// A byte count line gives the packed size of a compressor. A section
// header starts the measurements of one compressor and phase (pack or
// unpack); the variant "crc" is reported as a separate row. A timing
// line records the middle estimate of the current section. A section
// may only be timed once. All other lines are ignored.
//
// By default the rows of all files must name the same compressors in
// the same order. The -join flag relaxes this: "index" matches rows by
// position, as older versions did, and "name" matches them by
// compressor name.
//
// The -db flag names a database to store runs in. With -save, the
// collection read from dir is stored as a new run; -load renders a
// stored run instead of reading logs, and -runs lists the stored runs.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/packbench/packstat/internal/texttab"
	"github.com/packbench/packstat/packchart"
	"github.com/packbench/packstat/packfmt"
	"github.com/packbench/packstat/packstat"
	"github.com/packbench/packstat/storage/db"
	"golang.org/x/text/language"
)

var exit = os.Exit // replaced during testing

// errUsage reports a command line error after the usage message has
// been printed.
var errUsage = errors.New("usage")

func main() {
	log.SetPrefix("packstat: ")
	log.SetFlags(0)

	err := run(os.Stdout, os.Stderr, os.Args[1:])
	switch {
	case err == errUsage:
		exit(2)
	case err != nil:
		log.Fatal(err)
	}
}

func run(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("packstat", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: packstat [flags] [dir]\nflags:\n")
		flags.PrintDefaults()
	}
	var (
		flagPrefix  = flags.String("prefix", packfmt.DefaultPattern.Prefix, "read log files whose names start with `prefix`")
		flagExt     = flags.String("ext", packfmt.DefaultPattern.Ext, "read log files whose names end with `ext`")
		flagGroup   = flags.String("group", packfmt.DefaultGroup, "benchmark `group` of section headers")
		flagFormat  = flags.String("format", "markdown", "print the table as `format`: markdown, text, csv or html")
		flagJoin    = flags.String("join", "strict", "match rows of different files by `mode`: strict, index or name")
		flagLocale  = flags.String("locale", "eu", "group digits of byte counts following `locale`")
		flagGeomean = flags.Bool("geomean", false, "add a row with the geometric mean of each column")
		flagChart   = flags.String("chart", "", "write a PNG bar chart per file to `dir`")
		flagDB      = flags.String("db", "", "store runs in the database at `dsn`")
		flagDriver  = flags.String("driver", "sqlite3", "database `driver`: sqlite3 or mysql")
		flagSave    = flags.Bool("save", false, "store the files read as a new run (requires -db)")
		flagLoad    = flags.Int64("load", 0, "render the stored run with this `id` instead of reading files (requires -db)")
		flagRuns    = flags.Bool("runs", false, "list the stored runs (requires -db)")
	)
	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return errUsage
	}
	usageErr := func(format string, a ...any) error {
		fmt.Fprintf(wErr, "packstat: "+format+"\n", a...)
		flags.Usage()
		return errUsage
	}

	if flags.NArg() > 1 {
		return usageErr("too many arguments")
	}
	dir := "."
	if flags.NArg() == 1 {
		dir = flags.Arg(0)
	}
	format, err := packstat.ParseFormat(*flagFormat)
	if err != nil {
		return usageErr("%s", err)
	}
	join, err := packstat.ParseJoin(*flagJoin)
	if err != nil {
		return usageErr("%s", err)
	}
	locale, err := language.Parse(*flagLocale)
	if err != nil {
		return usageErr("bad locale %q: %s", *flagLocale, err)
	}
	if *flagDB == "" && (*flagSave || *flagLoad != 0 || *flagRuns) {
		return usageErr("-save, -load and -runs require -db")
	}
	if *flagSave && *flagLoad != 0 {
		return usageErr("-save and -load are mutually exclusive")
	}

	ctx := context.Background()
	var store *db.DB
	if *flagDB != "" {
		store, err = db.OpenSQL(*flagDriver, *flagDB)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()
	}
	if *flagRuns {
		return listRuns(ctx, w, store)
	}

	// Read the benchmarks.
	var c *packstat.Collection
	if *flagLoad != 0 {
		if c, err = store.Run(ctx, *flagLoad); err != nil {
			return err
		}
	} else {
		c = &packstat.Collection{Group: *flagGroup}
		pattern := packfmt.Pattern{Prefix: *flagPrefix, Ext: *flagExt}
		if err := c.ReadDir(dir, pattern); err != nil {
			return err
		}
	}
	if *flagSave {
		id, err := store.InsertRun(ctx, c)
		if err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
		fmt.Fprintf(wErr, "saved run %d\n", id)
	}

	// Build and print the table.
	tab, err := c.Table(packstat.TableOptions{Join: join, Geomean: *flagGeomean, Locale: locale})
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := tab.Write(&buf, format); err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}

	if *flagChart != "" {
		paths, err := packchart.WriteDir(*flagChart, c, packchart.Options{})
		if err != nil {
			return fmt.Errorf("writing charts: %w", err)
		}
		for _, path := range paths {
			fmt.Fprintf(wErr, "wrote %s\n", path)
		}
	}
	return nil
}

func listRuns(ctx context.Context, w io.Writer, store *db.DB) error {
	runs, err := store.Runs(ctx)
	if err != nil {
		return err
	}
	var tab texttab.Table
	tab.Row().Cell("run").Cell("created").Cell("group").Cell("benchmarks", texttab.Right)
	for _, r := range runs {
		group := r.Group
		if group == "" {
			group = packfmt.DefaultGroup
		}
		tab.Row().Cell(strconv.FormatInt(r.ID, 10), texttab.Right)
		tab.Cell(r.Created.Format("2006-01-02 15:04:05"))
		tab.Cell(group)
		tab.Cell(strconv.Itoa(r.Benchmarks), texttab.Right)
	}
	return tab.Format(w)
}
