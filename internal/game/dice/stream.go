package dice

import "fmt"

// boolResolution is the number of buckets Bool draws from. It fits in a
// 32-bit int so Stream behaves the same on every platform.
const boolResolution = 1 << 30

// Stream adapts a Source into a RandomSource.
//
// Invariant: every IntRange and Bool call performs exactly one Intn call on
// the underlying Source, even for a degenerate range.
type Stream struct {
	src Source
}

// NewStream wraps src.
//
// Precondition: src must be non-nil.
func NewStream(src Source) *Stream {
	return &Stream{src: src}
}

// IntRange returns a uniform int in [lo, hi].
//
// Precondition: lo <= hi. Panics otherwise.
func (s *Stream) IntRange(lo, hi int) int {
	if lo > hi {
		panic(fmt.Sprintf("dice: IntRange called with lo %d > hi %d", lo, hi))
	}
	return lo + s.src.Intn(hi-lo+1)
}

// Bool returns true with probability p, quantised to 1/2^30.
func (s *Stream) Bool(p float64) bool {
	return float64(s.src.Intn(boolResolution)) < p*boolResolution
}
