// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package packfmt

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// A Pattern describes the names of benchmark log files. A log for
// benchmark "silesia" with the default pattern is named
// "rust-compression-silesia.bench". Logs may additionally be
// compressed, in which case ".gz" or ".zst" follows Ext.
type Pattern struct {
	Prefix string
	Ext    string
}

// DefaultPattern is the file name pattern written by the benchmark
// harness.
var DefaultPattern = Pattern{Prefix: "rust-compression-", Ext: ".bench"}

var compressedExts = []string{".gz", ".zst"}

// Match reports whether base is the name of a log file and, if so,
// returns the name of its benchmark.
func (p Pattern) Match(base string) (name string, ok bool) {
	for _, ext := range compressedExts {
		if s, ok := strings.CutSuffix(base, p.Ext+ext); ok {
			base = s + p.Ext
			break
		}
	}
	stem, ok := strings.CutSuffix(base, p.Ext)
	if !ok {
		return "", false
	}
	name, ok = strings.CutPrefix(stem, p.Prefix)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// An Input is one benchmark log file.
type Input struct {
	// Path is the file's path.
	Path string
	// Name is the benchmark name derived from the file name.
	Name string
}

// Glob returns the log files in dir that match p, in directory order
// (sorted by file name). Directories and files that do not match p
// are skipped.
func Glob(dir string, p Pattern) ([]Input, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var inputs []Input
	for _, de := range des {
		if !de.Type().IsRegular() {
			continue
		}
		name, ok := p.Match(de.Name())
		if !ok {
			continue
		}
		inputs = append(inputs, Input{Path: filepath.Join(dir, de.Name()), Name: name})
	}
	return inputs, nil
}

// Open opens the input for reading. Compressed inputs are
// decompressed transparently.
func (in Input) Open() (io.ReadCloser, error) {
	f, err := os.Open(in.Path)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(in.Path) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: %w", in.Path, err)
		}
		return &decompressor{zr, zr.Close, f}, nil
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: %w", in.Path, err)
		}
		return &decompressor{zr, func() error { zr.Close(); return nil }, f}, nil
	}
	return f, nil
}

// decompressor closes both a decompressing reader and its underlying
// file.
type decompressor struct {
	io.Reader
	close func() error
	file  *os.File
}

func (d *decompressor) Close() error {
	err := d.close()
	if err2 := d.file.Close(); err == nil {
		err = err2
	}
	return err
}
