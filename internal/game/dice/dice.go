// Package dice provides the randomness abstraction consumed by battle
// resolution.
//
// A battle owns exactly one RandomSource for its whole lifetime. Every draw
// mutates the source, so the sequence of calls made against it is the only
// input besides the seed that decides an outcome.
package dice

// Source is the primitive randomness provider.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RandomSource is the draw surface used by chance formulas.
//
// Implementations are not safe for concurrent use. The holder of a
// RandomSource has exclusive access to it.
type RandomSource interface {
	// IntRange returns a uniform int in the inclusive range [lo, hi].
	//
	// Precondition: lo <= hi.
	IntRange(lo, hi int) int
	// Bool returns true with probability p.
	//
	// Precondition: 0 < p < 1.
	Bool(p float64) bool
}
