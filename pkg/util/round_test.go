package util

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	cases := []struct {
		in     float64
		places int32
		want   float64
	}{
		{5.6, 2, 5.6},
		{10.0 / 3.0, 2, 3.33},
		{2.675, 2, 2.68},
		{0.99995, 4, 1},
		{-0.12345, 4, -0.1235},
		{123.4567891, 6, 123.456789},
		{0, 2, 0},
	}
	for _, tc := range cases {
		if got := Round(tc.in, tc.places); got != tc.want {
			t.Fatalf("Round(%v, %d) = %v, want %v", tc.in, tc.places, got, tc.want)
		}
	}
}

func TestRoundNonFinite(t *testing.T) {
	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		if got := Round(v, 2); got != 0 {
			t.Fatalf("Round(%v, 2) = %v, want 0", v, got)
		}
	}
}

func TestNormalizeTicker(t *testing.T) {
	if got := NormalizeTicker(" nvda "); got != "NVDA" {
		t.Fatalf("unexpected %q", got)
	}
}
