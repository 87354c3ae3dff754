// Package random provides the deterministic randomization used for question
// and option ordering. Every draw is a pure function of a string seed, so an
// ordering can be regenerated on demand from the seed components instead of
// being persisted.
package random

// hashSeed folds a string into a 32-bit state via two multiply-xor lanes.
// Two lanes keep short seeds (single-character user ids, small numeric ids)
// from colliding, and the final avalanche mixes both lanes into one word.
func hashSeed(seed string) uint32 {
	h1 := uint32(1779033703)
	h2 := uint32(3144134277)
	for _, r := range seed {
		c := uint32(r)
		h1 = (h1 ^ c) * 2654435761
		h2 = (h2 ^ c) * 1597334677
	}
	h1 = (h1 ^ (h1 >> 16)) * 2246822507
	h2 = (h2 ^ (h2 >> 13)) * 3266489909
	return (h1 ^ h2) ^ ((h1 ^ h2) >> 16)
}

// New returns a restartable pseudo-random stream of floats in [0,1) seeded by
// s. Identical seeds yield identical sequences on every platform; the advance
// rule is a plain LCG over uint32, which wraps mod 2^32 by construction.
// Not cryptographically secure: the only requirement here is reproducibility
// and low bias, not unpredictability.
func New(seed string) func() float64 {
	state := hashSeed(seed)
	return func() float64 {
		state = state*1664525 + 1013904223
		return float64(state) / (1 << 32)
	}
}

// Shuffle returns a permutation of items determined entirely by seed, using
// Fisher-Yates from the last index down. The input slice is never mutated and
// no state is shared between calls, so same items + same seed means the same
// ordering every time.
func Shuffle[T any](items []T, seed string) []T {
	out := make([]T, len(items))
	copy(out, items)
	next := New(seed)
	for i := len(out) - 1; i > 0; i-- {
		j := int(next() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// AttemptSeed is the composite seed for question-level ordering. The three
// components are fixed at attempt creation and must never change afterwards:
// any view that re-renders the attempt recomputes the same ordering from them.
func AttemptSeed(quizID, userID, attemptID string) string {
	return quizID + "|" + userID + "|" + attemptID
}

// OptionSeed extends AttemptSeed with the question id so that two questions
// in the same attempt shuffle their options independently.
func OptionSeed(quizID, userID, attemptID, questionID string) string {
	return AttemptSeed(quizID, userID, attemptID) + "|" + questionID
}
