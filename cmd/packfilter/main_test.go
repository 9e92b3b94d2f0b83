// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

const input = `uncompressed: 1000 bytes
compression/lz4.pack    time:   [1 2 3 ms]
lz4: 100 bytes
compression/snappy.pack
                        time:   [4 5 6 ms]
snappy: 50 bytes
compression/snappy.unpack.crc
                        time:   [7 8 9 ns]
compression/lz4.unpack time: [1 1 1 ms]
bad: x bytes
Found 2 outliers among 100 measurements (2.00%)
`

func run(t *testing.T, stdin string, args ...string) (stdout, stderr string) {
	t.Helper()
	var w, wErr strings.Builder
	if err := packfilter(&w, &wErr, strings.NewReader(stdin), args); err != nil {
		t.Fatalf("packfilter %s: %v", strings.Join(args, " "), err)
	}
	return w.String(), wErr.String()
}

func TestFilter(t *testing.T) {
	for _, test := range []struct {
		name string
		args []string
		want string
	}{
		{"lz4", []string{"lz4"}, `compression/lz4.pack
                        time:   [1 2 3 ms]
lz4: 100 bytes
compression/lz4.unpack
                        time:   [1 1 1 ms]
`},
		{"prefix", []string{"^snappy"}, `compression/snappy.pack
                        time:   [4 5 6 ms]
snappy: 50 bytes
compression/snappy.unpack.crc
                        time:   [7 8 9 ns]
`},
		{"crc", []string{"crc$"}, `compression/snappy.unpack.crc
                        time:   [7 8 9 ns]
`},
		{"invert", []string{"-v", "lz4|crc"}, `uncompressed: 1000 bytes
compression/snappy.pack
                        time:   [4 5 6 ms]
snappy: 50 bytes
`},
		{"none", []string{"brotli"}, ""},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, gotErr := run(t, input, test.args...)
			if got != test.want {
				t.Errorf("want:\n%sgot:\n%s", test.want, got)
			}
			if want := "<stdin>:10: parsing byte count of bad: invalid syntax\n"; gotErr != want {
				t.Errorf("stderr: got %q, want %q", gotErr, want)
			}
		})
	}
}

func TestFilterGroup(t *testing.T) {
	got, _ := run(t, "hashing/xxh3.pack time: [1 2 3 ns]\ncompression/xxh3.unpack\nlz4: 5 bytes\n", "-group", "hashing", "xxh3")
	want := "hashing/xxh3.pack\n                        time:   [1 2 3 ns]\n"
	if got != want {
		t.Errorf("want:\n%sgot:\n%s", want, got)
	}
}

func TestFilterFiles(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "a.bench")
	if err := os.WriteFile(plain, []byte("lz4: 1 bytes\nzstd: 2 bytes\n"), 0666); err != nil {
		t.Fatal(err)
	}
	compressed := filepath.Join(dir, "b.bench.gz")
	f, err := os.Create(compressed)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	zw.Write([]byte("lz4: 3 bytes\nzstd: 4 bytes\n"))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	got, _ := run(t, "lz4: 99 bytes\n", "lz4", plain, compressed)
	if want := "lz4: 1 bytes\nlz4: 3 bytes\n"; got != want {
		t.Errorf("want:\n%sgot:\n%s", want, got)
	}
}

func TestFilterErrors(t *testing.T) {
	var w, wErr strings.Builder
	if err := packfilter(&w, &wErr, strings.NewReader(""), nil); err != flag.ErrHelp {
		t.Errorf("no arguments: got %v, want usage error", err)
	}
	if !strings.Contains(wErr.String(), "Usage: packfilter") {
		t.Errorf("usage not printed:\n%s", wErr.String())
	}
	if err := packfilter(&w, &wErr, strings.NewReader(""), []string{"("}); err == nil {
		t.Errorf("bad regexp: want error")
	}
	missing := filepath.Join(t.TempDir(), "missing.bench")
	if err := packfilter(&w, &wErr, strings.NewReader(""), []string{".", missing}); err == nil {
		t.Errorf("missing file: want error")
	}
}
