// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package packfmt

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func parseAll(t *testing.T, data string) []Record {
	t.Helper()
	r := NewReader(strings.NewReader(data), "test", "")
	var out []Record
	for r.Scan() {
		switch rec := r.Result(); rec.(type) {
		case *ByteCount, *Header, *Timing, *SyntaxError:
			out = append(out, rec)
		default:
			t.Fatalf("unexpected result type %T", rec)
		}
	}
	if err := r.Err(); err != nil {
		t.Fatal("parsing failed: ", err)
	}
	return out
}

// ignorePos compares records without their positions.
var ignorePos = cmpopts.IgnoreUnexported(ByteCount{}, Header{}, Timing{})

func timing(fields ...string) *Timing {
	return &Timing{Fields: fields, Value: fields[2], Unit: fields[3]}
}

func TestReader(t *testing.T) {
	type testCase struct {
		name, input string
		want        []Record
	}
	for _, test := range []testCase{
		{
			"same line",
			`compression/lz4.pack time: [1 2 3 ms]
lz4: 100 bytes
compression/lz4.unpack time: [1 2 3 ms]
`,
			[]Record{
				&Header{Name: "lz4", Phase: Pack},
				timing("1", "2", "3", "ms"),
				&ByteCount{Name: "lz4", Bytes: 100},
				&Header{Name: "lz4", Phase: Unpack},
				timing("1", "2", "3", "ms"),
			},
		},
		{
			"criterion",
			`uncompressed: 211938580 bytes
Benchmarking compression/lz4_flex.pack: Warming up for 3.0000 s
compression/lz4_flex.pack
                        time:   [318.21 ms 319.66 ms 321.26 ms]
                        thrpt:  [629.14 MiB/s 632.29 MiB/s 635.17 MiB/s]
Found 2 outliers among 100 measurements (2.00%)
lz4_flex: 100881553 bytes
compression/lz4_flex.unpack
                        time:   [96.118 ms 96.402 ms 96.718 ms]
                        change: [-1.2079% -0.7695% -0.3346%] (p = 0.00 < 0.05)
`,
			[]Record{
				&ByteCount{Name: "uncompressed", Bytes: 211938580},
				&Header{Name: "lz4_flex", Phase: Pack},
				timing("318.21", "ms", "319.66", "ms", "321.26", "ms"),
				&ByteCount{Name: "lz4_flex", Bytes: 100881553},
				&Header{Name: "lz4_flex", Phase: Unpack},
				timing("96.118", "ms", "96.402", "ms", "96.718", "ms"),
			},
		},
		{
			"variants",
			`compression/snappy-framed.unpack.nocrc
compression/snappy-framed.unpack.crc    time:   [1.5 µs 1.6 µs 1.7 µs]
compression/lzma-rs/xz.pack
compression/zstd-level-3.pack.crc.extra
`,
			[]Record{
				&Header{Name: "snappy-framed", Phase: Unpack, Variant: "nocrc"},
				&Header{Name: "snappy-framed", Phase: Unpack, Variant: "crc"},
				timing("1.5", "µs", "1.6", "µs", "1.7", "µs"),
				&Header{Name: "lzma-rs/xz", Phase: Pack},
				&Header{Name: "zstd-level-3", Phase: Pack, Variant: "crc"},
			},
		},
		{
			"ignored lines",
			`compression/nophase
other/lz4.pack
compression/
no separator bytes
time: 5 ms
`,
			nil,
		},
		{
			"bad lines",
			`lz4: many bytes
lz4: -1 bytes
lz4: 99999999999999999999999 bytes
compression/lz4.pack time: [1 ms]
compression/lz4.pack time: [1 ms x ms 3 ms]
`,
			[]Record{
				&SyntaxError{"test", 1, "parsing byte count of lz4: invalid syntax"},
				&SyntaxError{"test", 2, "parsing byte count of lz4: invalid syntax"},
				&SyntaxError{"test", 3, "parsing byte count of lz4: value out of range"},
				&Header{Name: "lz4", Phase: Pack},
				&SyntaxError{"test", 4, "timing result has 2 fields, want at least 4"},
				&Header{Name: "lz4", Phase: Pack},
				&SyntaxError{"test", 5, "parsing timing estimate: invalid syntax"},
			},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got := parseAll(t, test.input)
			if diff := cmp.Diff(test.want, got, ignorePos); diff != "" {
				t.Errorf("records mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReaderPos(t *testing.T) {
	r := NewReader(strings.NewReader("\nlz4: 1 bytes\n\ncompression/lz4.pack time: [1 2 3 ms]\n"), "log.bench", "")
	type position struct {
		file string
		line int
	}
	var got []position
	for r.Scan() {
		f, l := r.Result().Pos()
		got = append(got, position{f, l})
	}
	want := []position{{"log.bench", 2}, {"log.bench", 4}, {"log.bench", 4}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(position{})); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderGroup(t *testing.T) {
	r := NewReader(strings.NewReader("compression/lz4.pack\nhashing/xxh3.pack\n"), "test", "hashing")
	var got []Record
	for r.Scan() {
		got = append(got, r.Result())
	}
	want := []Record{&Header{Name: "xxh3", Phase: Pack}}
	if diff := cmp.Diff(want, got, ignorePos); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderResultBeforeScan(t *testing.T) {
	r := NewReader(strings.NewReader(""), "", "")
	if _, ok := r.Result().(*SyntaxError); !ok {
		t.Errorf("Result before Scan: got %T, want *SyntaxError", r.Result())
	}
	if r.Scan() {
		t.Errorf("Scan of empty input returned true")
	}
}

type errReader struct{}

var errBroken = errors.New("broken pipe")

func (errReader) Read([]byte) (int, error) { return 0, errBroken }

func TestReaderIOError(t *testing.T) {
	r := NewReader(io.MultiReader(strings.NewReader("lz4: 1 bytes\n"), errReader{}), "test", "")
	n := 0
	for r.Scan() {
		n++
	}
	if n != 1 {
		t.Errorf("read %d records before the error, want 1", n)
	}
	if !errors.Is(r.Err(), errBroken) {
		t.Errorf("Err() = %v, want %v", r.Err(), errBroken)
	}
}

func TestPhaseString(t *testing.T) {
	for p, want := range map[Phase]string{Pack: "pack", Unpack: "unpack", Phase(7): "Phase(7)"} {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(p), got, want)
		}
	}
}

func TestHeaderEntry(t *testing.T) {
	for _, test := range []struct {
		h    Header
		want string
	}{
		{Header{Name: "snappy"}, "snappy"},
		{Header{Name: "snappy", Variant: "crc"}, "snappy + crc"},
		{Header{Name: "snappy", Variant: "nocrc"}, "snappy"},
	} {
		if got := test.h.Entry(); got != test.want {
			t.Errorf("%+v.Entry() = %q, want %q", test.h, got, test.want)
		}
	}
}
