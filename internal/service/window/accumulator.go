package window

import (
	"sync"

	"StatPull/internal/domain/models"
	"StatPull/internal/services/stats"
	"StatPull/pkg/util"
)

// Accumulator is a fixed-capacity FIFO of unique numbers.
// Absorb calls are serialised by an internal mutex.
type Accumulator struct {
	mu       sync.Mutex
	capacity int
	values   []float64
	members  map[float64]struct{}
}

// New returns an empty window. Capacity below 1 is treated as 1.
func New(capacity int) *Accumulator {
	if capacity < 1 {
		capacity = 1
	}
	return &Accumulator{
		capacity: capacity,
		values:   make([]float64, 0, capacity),
		members:  make(map[float64]struct{}, capacity),
	}
}

// Capacity returns the maximum window length.
func (a *Accumulator) Capacity() int { return a.capacity }

// Absorb adds newValues in order, skipping values already in the window and
// evicting the oldest entry whenever the window is full.
func (a *Accumulator) Absorb(newValues []float64) models.NumbersResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	prev := a.snapshotLocked()

	for _, v := range newValues {
		if _, ok := a.members[v]; ok {
			continue
		}
		if len(a.values) >= a.capacity {
			delete(a.members, a.values[0])
			a.values = append(a.values[:0], a.values[1:]...)
		}
		a.values = append(a.values, v)
		a.members[v] = struct{}{}
	}

	numbers := make([]float64, len(newValues))
	copy(numbers, newValues)

	return models.NumbersResult{
		WindowPrevState: prev,
		WindowCurrState: a.snapshotLocked(),
		Numbers:         numbers,
		Avg:             util.Round(stats.Mean(a.values), 2),
	}
}

// Snapshot returns a copy of the current window contents.
func (a *Accumulator) Snapshot() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Accumulator) snapshotLocked() []float64 {
	out := make([]float64, len(a.values))
	copy(out, a.values)
	return out
}
