// Package progress converts the engine's heterogeneous progress encodings
// into a canonical 0-100 integer. The push channel reports fractions in
// [0,1] while the REST surface reports percentages; this is the single
// place where that ambiguity is resolved, so callers must never apply
// scale assumptions themselves.
package progress

import "math"

// Normalize maps a possibly-absent progress value onto [0,100]. A nil or
// non-finite input yields 0. Values at or below 1 are treated as fractions
// and scaled by 100; larger values are treated as percentages already.
func Normalize(v *float64) int {
	if v == nil {
		return 0
	}
	f := *v
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f <= 1 {
		return clamp(int(math.Round(f * 100)))
	}
	return clamp(int(math.Round(f)))
}

func clamp(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
