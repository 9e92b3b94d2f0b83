// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// packfilter reads compression benchmark logs from input files, keeps
// the results of the compressors whose names match a regular
// expression, and writes them to stdout in the same log form. If no
// inputs are provided, it reads from stdin.
//
// A byte count is kept if its compressor matches. A section is kept,
// along with its timing results, if its entry matches; the entry of a
// "crc" variant section is "<name> + crc". Lines that are not part of
// the log format are dropped.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"

	"github.com/packbench/packstat/packfmt"
)

var exit = os.Exit // replaced during testing

func main() {
	log.SetPrefix("")
	log.SetFlags(0)

	if err := packfilter(os.Stdout, os.Stderr, os.Stdin, os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			exit(2)
		}
		log.Fatal(err)
	}
}

func packfilter(w, wErr io.Writer, stdin io.Reader, args []string) error {
	flags := flag.NewFlagSet("packfilter", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), `Usage: packfilter [flags] regexp [inputs...]

packfilter reads compression benchmark logs from input files, keeps the
results of the compressors whose names match regexp, and writes them to
stdout. If no inputs are provided, it reads from stdin.
`)
		flags.PrintDefaults()
	}
	flagGroup := flags.String("group", packfmt.DefaultGroup, "benchmark `group` of section headers")
	flagInvert := flags.Bool("v", false, "keep the results that do not match")
	if err := flags.Parse(args); err != nil {
		return flag.ErrHelp
	}
	if flags.NArg() < 1 {
		flags.Usage()
		return flag.ErrHelp
	}

	re, err := regexp.Compile(flags.Arg(0))
	if err != nil {
		return err
	}
	match := func(name string) bool {
		return re.MatchString(name) != *flagInvert
	}

	f := &filter{
		w:     packfmt.NewWriter(w, *flagGroup),
		wErr:  wErr,
		group: *flagGroup,
		match: match,
	}
	paths := flags.Args()[1:]
	if len(paths) == 0 {
		return f.filter(stdin, "<stdin>")
	}
	for _, path := range paths {
		if err := f.filterFile(path); err != nil {
			return err
		}
	}
	return nil
}

type filter struct {
	w     *packfmt.Writer
	wErr  io.Writer
	group string
	match func(name string) bool

	reader packfmt.Reader
}

func (f *filter) filterFile(path string) error {
	r, err := packfmt.Input{Path: path}.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	return f.filter(r, path)
}

// filter copies the matching records of one log. Whether a section
// is kept is decided by its header and applies to every timing result
// up to the next header.
func (f *filter) filter(r io.Reader, fileName string) error {
	f.reader.Reset(r, fileName, f.group)
	keep := false
	for f.reader.Scan() {
		rec := f.reader.Result()
		switch rec := rec.(type) {
		case *packfmt.SyntaxError:
			// Non-fatal parse error. Warn but keep going.
			fmt.Fprintln(f.wErr, rec)
			continue
		case *packfmt.ByteCount:
			if !f.match(rec.Name) {
				continue
			}
		case *packfmt.Header:
			keep = f.match(rec.Entry())
			if !keep {
				continue
			}
		case *packfmt.Timing:
			if !keep {
				continue
			}
		}
		if err := f.w.Write(rec); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	return f.reader.Err()
}
