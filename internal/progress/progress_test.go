package progress

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name string
		in   *float64
		want int
	}{
		{name: "nil", in: nil, want: 0},
		{name: "nan", in: f(math.NaN()), want: 0},
		{name: "positive infinity", in: f(math.Inf(1)), want: 0},
		{name: "negative", in: f(-0.3), want: 0},
		{name: "zero", in: f(0), want: 0},
		{name: "fraction half", in: f(0.5), want: 50},
		{name: "fraction rounds", in: f(0.424), want: 42},
		{name: "fraction one is full", in: f(1), want: 100},
		{name: "percent passthrough", in: f(75), want: 75},
		{name: "percent rounds", in: f(66.6), want: 67},
		{name: "percent above range clamps", in: f(180), want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeRange(t *testing.T) {
	for _, v := range []float64{-5, 0, 0.001, 0.999, 1, 1.001, 50, 100, 1e9, math.NaN()} {
		v := v
		got := Normalize(&v)
		if got < 0 || got > 100 {
			t.Fatalf("Normalize(%v) = %d, outside [0,100]", v, got)
		}
	}
}
