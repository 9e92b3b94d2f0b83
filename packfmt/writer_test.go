// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package packfmt

import (
	"strings"
	"testing"
)

func TestWriter(t *testing.T) {
	const input = `uncompressed: 1000 bytes
compression/lz4.pack
                        time:   [1.0 ms 1.1 ms 1.2 ms]
lz4: 500 bytes
compression/snappy.unpack.crc
                        time:   [3 µs 4 µs 5 µs]
`

	out := new(strings.Builder)
	w := NewWriter(out, "")
	r := NewReader(strings.NewReader(input), "test", "")
	for r.Scan() {
		if err := w.Write(r.Result()); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}

	if out.String() != input {
		t.Fatalf("want:\n%sgot:\n%s", input, out.String())
	}
}

func TestWriterSplitsLines(t *testing.T) {
	out := new(strings.Builder)
	w := NewWriter(out, "hashing")
	r := NewReader(strings.NewReader("hashing/xxh3.pack time: [1 2 3 ns]\nbad: x bytes\n"), "test", "hashing")
	for r.Scan() {
		if err := w.Write(r.Result()); err != nil {
			t.Fatal(err)
		}
	}
	want := "hashing/xxh3.pack\n                        time:   [1 2 3 ns]\n"
	if out.String() != want {
		t.Fatalf("want:\n%sgot:\n%s", want, out.String())
	}
}
