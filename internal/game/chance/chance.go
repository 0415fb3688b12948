// Package chance converts luck stats and percentages into randomized
// outcomes.
//
// Every function clamps its input into a valid domain instead of rejecting
// it and performs at most one draw on the supplied RandomSource. Callers
// must keep the number and order of calls stable for a given rules version;
// saved seeds replay only against the same call sequence.
package chance

import "github.com/cory-johannsen/battlelog/internal/game/dice"

const (
	// MaxLuck is the highest luck value the formulas distinguish.
	MaxLuck = 99
	// statFloorBase is the multiplier floor, in percent, at zero luck.
	statFloorBase = 40
)

// StatMultiplier returns a multiplier in [0.40, 1.00] whose floor rises
// with luck. Luck of 60 or more always yields 1.00.
//
// Postcondition: exactly one draw is made on rng.
func StatMultiplier(luck int, rng dice.RandomSource) float64 {
	luck = clamp(luck, 0, MaxLuck)
	lower := clamp(statFloorBase+luck, 0, 100)
	return float64(rng.IntRange(lower, 100)) / 100
}

// SpeedMultiplier returns a multiplier in [0.00, 1.00]. The floor is zero
// up to luck 10 and reaches 1.00 at luck 60.
//
// Postcondition: exactly one draw is made on rng.
func SpeedMultiplier(luck int, rng dice.RandomSource) float64 {
	luck = clamp(luck, 0, MaxLuck)
	lower := clamp((luck-10)*2, 0, 100)
	return float64(rng.IntRange(lower, 100)) / 100
}

// PercentChance succeeds with probability percent/100.
//
// Postcondition: no draw is made when percent <= 0 or percent >= 100;
// otherwise exactly one draw in [1, 100] is made.
func PercentChance(percent int, rng dice.RandomSource) bool {
	switch {
	case percent <= 0:
		return false
	case percent >= 100:
		return true
	}
	return rng.IntRange(1, 100) <= percent
}

// Probability succeeds with probability p.
//
// Postcondition: no draw is made when p <= 0 or p >= 1; otherwise exactly
// one Bool draw is made.
func Probability(p float64, rng dice.RandomSource) bool {
	switch {
	case p <= 0:
		return false
	case p >= 1:
		return true
	}
	return rng.Bool(p)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
