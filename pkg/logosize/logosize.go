// Package logosize maps the density of a signature's text block to the pixel
// size of its logo.
//
// Two strategies share the same contract: ForPositions estimates the size from
// the number of filled positions, FromHeight derives it from a measured text
// block height. Both are monotonic non-decreasing and clamped. ForPositions is
// the reference for headless composition; FromHeight refines an interactive
// preview and is gated by a Sizer so small layout jitter does not thrash.
package logosize

import (
	"math"
	"sync"
)

// Analytic bounds.
const (
	MinAnalytic = 80
	MaxAnalytic = 120

	base         = 84
	perPosition  = 12
	heightFactor = 0.95
)

// Measured bounds.
const (
	MinMeasured = 80
	MaxMeasured = 200
)

// Default is the displayed size before any measurement arrives.
const Default = 90

// Threshold is the smallest change in pixels a Sizer will apply.
const Threshold = 5

// ForPositions returns the logo size for a signature with n filled positions.
func ForPositions(n int) int {
	n = max(n, 0)
	return clamp(base+perPosition*n, MinAnalytic, MaxAnalytic)
}

// FromHeight returns the logo size for a text block of height h pixels.
// NaN and negative heights map to the minimum.
func FromHeight(h float64) int {
	if math.IsNaN(h) || h <= 0 {
		return MinMeasured
	}
	if math.IsInf(h, 1) {
		return MaxMeasured
	}
	v := math.Round(h * heightFactor)
	if v >= MaxMeasured {
		return MaxMeasured
	}
	return clamp(int(v), MinMeasured, MaxMeasured)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Sizer holds the displayed logo size and applies measured heights with hysteresis.
// It is safe for concurrent use.
type Sizer struct {
	mu       sync.Mutex
	size     int
	observed bool
}

// NewSizer returns a Sizer showing Default.
func NewSizer() *Sizer {
	return &Sizer{size: Default}
}

// Restore returns a Sizer showing size. Out-of-range values are clamped.
// observed marks whether size came from a measurement.
func Restore(size int, observed bool) *Sizer {
	if size <= 0 {
		return NewSizer()
	}
	return &Sizer{size: clamp(size, MinMeasured, MaxMeasured), observed: observed}
}

// Observe applies a measured text block height.
// The first observation always takes the measured size, since until then the
// display follows the analytic size and not the Sizer. After that the size
// changes only when the new size differs by at least Threshold.
func (s *Sizer) Observe(h float64) (size int, changed bool) {
	next := FromHeight(h)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.observed {
		s.observed = true
		s.size = next
		return s.size, true
	}
	if abs(next-s.size) < Threshold {
		return s.size, false
	}
	s.size = next
	return s.size, true
}

// Size returns the displayed size.
func (s *Sizer) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Observed reports whether any measurement has been applied since the last reset.
func (s *Sizer) Observed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observed
}

// Reset returns the Sizer to Default.
func (s *Sizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.size = Default
	s.observed = false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
