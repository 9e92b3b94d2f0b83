// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package packunit

import (
	"fmt"
	"math"
	"strconv"
)

// A Scaler represents a scaling factor for a number and
// its scientific representation.
type Scaler struct {
	Prec   int     // Digits after the decimal point
	Factor float64 // Unscaled value of 1 Prefix (e.g., 1 k => 1000)
	Prefix string  // Unit prefix ("k", "M", "Ki", etc)
}

// FormatUnit formats val followed by a space and the prefixed unit,
// for example "1.240 ms". unit must be a tidied unit.
func (s Scaler) FormatUnit(val float64, unit string) string {
	return strconv.FormatFloat(val/s.Factor, 'f', s.Prec, 64) + " " + s.Prefix + unit
}

type factor struct {
	factor float64
	prefix string
	// Thresholds for 100.0, 10.00, 1.000.
	t100, t10, t1 float64
}

var siFactors = mkFactors(10, 3, 12, []string{"T", "G", "M", "k", "", "m", "µ", "n"})
var iecFactors = mkFactors(2, 10, 40, []string{"Ti", "Gi", "Mi", "Ki", ""})

// mkFactors builds the prefix table for powers of base, stepping the
// exponent down by step from top. The thresholds are computed so that
// a value just below one prints the same as it rounds, e.g. 999.95
// prints as "1.000k" rather than "1000.0".
func mkFactors(base, step, top int, prefixes []string) []factor {
	var factors []factor
	exp := top
	for _, p := range prefixes {
		f := math.Pow(float64(base), float64(exp))
		factors = append(factors, factor{f, p, 99.995 * f, 9.9995 * f, .99995 * f})
		exp -= step
	}
	return factors
}

// CommonScale returns a common Scaler to apply to all values in vals.
// This scale will show at least three significant digits for every
// value.
func CommonScale(vals []float64, cls Class) Scaler {
	// The common scale is determined by the non-zero value
	// closest to zero.
	var min float64
	for _, v := range vals {
		v = math.Abs(v)
		if v != 0 && (min == 0 || v < min) {
			min = v
		}
	}
	if min == 0 {
		return Scaler{3, 1, ""}
	}

	var factors []factor
	switch cls {
	default:
		panic(fmt.Sprintf("bad Class %v", cls))
	case Decimal:
		factors = siFactors
	case Binary:
		factors = iecFactors
	}

	for _, factor := range factors {
		switch {
		case min >= factor.t100:
			return Scaler{1, factor.factor, factor.prefix}
		case min >= factor.t10:
			return Scaler{2, factor.factor, factor.prefix}
		case min >= factor.t1:
			return Scaler{3, factor.factor, factor.prefix}
		}
	}

	// The value is less than the smallest factor. Print it using
	// the smallest factor and enough extra precision for three
	// significant digits, up to ten digits after the decimal point.
	factor := factors[len(factors)-1]
	prec := 3
	for val := min / factor.factor; val < .99995 && prec < 10; val *= 10 {
		prec++
	}
	return Scaler{prec, factor.factor, factor.prefix}
}

// FormatDuration formats a duration in seconds the way benchmark logs
// print them, for example "1.240 ms".
func FormatDuration(sec float64) string {
	return CommonScale([]float64{sec}, Decimal).FormatUnit(sec, "s")
}

// FormatBytes formats a byte count with a binary prefix, for example
// "96.21 MiB".
func FormatBytes(b float64) string {
	return CommonScale([]float64{b}, Binary).FormatUnit(b, "B")
}
