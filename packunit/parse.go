// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package packunit converts the measurements in benchmark logs to
// numbers and formats numbers with unit prefixes.
//
// Benchmark logs report durations as text such as "1.24 ms". Reports
// carry that text through unchanged; packunit is only needed where a
// duration takes part in arithmetic, such as summary rows and charts.
package packunit

import (
	"fmt"
	"strconv"
	"strings"
)

// A Class specifies what class of unit prefixes are in use.
type Class int

const (
	// Decimal indicates values of a given unit should be scaled
	// by powers of 1000, using SI prefixes such as "k", "m" and "µ".
	Decimal Class = iota
	// Binary indicates values of a given unit should be scaled by
	// powers of 1024, using IEC prefixes such as "Ki" and "Mi".
	Binary
)

func (c Class) String() string {
	switch c {
	case Decimal:
		return "Decimal"
	case Binary:
		return "Binary"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// Tidy normalizes a duration in a pre-scaled unit into seconds. Units
// it does not know are returned unchanged.
func Tidy(value float64, unit string) (tidiedValue float64, tidiedUnit string) {
	if f, ok := durationFactors[unit]; ok {
		return value * f, "s"
	}
	return value, unit
}

var durationFactors = map[string]float64{
	"ps": 1e-12,
	"ns": 1e-9,
	"µs": 1e-6, // U+00B5 MICRO SIGN
	"μs": 1e-6, // U+03BC GREEK SMALL LETTER MU
	"us": 1e-6,
	"ms": 1e-3,
	"s":  1,
}

// ParseDuration parses a duration as it appears in a benchmark log,
// such as "1.24 ms", and returns it in seconds.
func ParseDuration(s string) (float64, error) {
	fs := strings.Fields(s)
	if len(fs) != 2 {
		return 0, fmt.Errorf("malformed duration %q: want value and unit", s)
	}
	v, err := strconv.ParseFloat(fs[0], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed duration %q: %w", s, err)
	}
	sec, unit := Tidy(v, fs[1])
	if unit != "s" {
		return 0, fmt.Errorf("malformed duration %q: unknown unit %q", s, fs[1])
	}
	return sec, nil
}
