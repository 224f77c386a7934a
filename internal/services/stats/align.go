package stats

import (
	"slices"
	"time"

	"StatPull/internal/domain/models"
)

// Align pairs two ascending price series on the union of their timestamps.
// At each timestamp t both sides carry the last price observed at or before t;
// timestamps where either side has no observation yet are skipped.
// Each cursor only moves forward.
func Align(a, b models.PriceSeries) models.AlignedSeries {
	stamps := unionTimestamps(a, b)

	out := models.AlignedSeries{
		A:          make([]float64, 0, len(stamps)),
		B:          make([]float64, 0, len(stamps)),
		Timestamps: make([]time.Time, 0, len(stamps)),
	}

	var (
		i, j         int
		lastA, lastB float64
		haveA, haveB bool
	)
	for _, t := range stamps {
		for i < len(a) && !a[i].LastUpdatedAt.After(t) {
			lastA, haveA = a[i].Price, true
			i++
		}
		for j < len(b) && !b[j].LastUpdatedAt.After(t) {
			lastB, haveB = b[j].Price, true
			j++
		}
		if haveA && haveB {
			out.A = append(out.A, lastA)
			out.B = append(out.B, lastB)
			out.Timestamps = append(out.Timestamps, t)
		}
	}
	return out
}

// unionTimestamps returns the distinct timestamps of both series, ascending.
// Instants are compared with Equal, so the same moment in two zones is one stamp.
func unionTimestamps(a, b models.PriceSeries) []time.Time {
	all := make([]time.Time, 0, len(a)+len(b))
	for _, p := range a {
		all = append(all, p.LastUpdatedAt)
	}
	for _, p := range b {
		all = append(all, p.LastUpdatedAt)
	}
	slices.SortFunc(all, func(x, y time.Time) int { return x.Compare(y) })
	return slices.CompactFunc(all, func(x, y time.Time) bool { return x.Equal(y) })
}
