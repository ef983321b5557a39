// Package mastery implements the mastery state machine for flashcards.
//
// A flashcard's mastery is a coarse counter from 0 (unknown) to 5
// (mastered). A correct answer moves it one step up, an incorrect answer
// one step down, saturating at both ends. This is deliberately not a
// time-decayed spaced-repetition model; scheduling pressure comes from
// the selection engine's oldest-reviewed-first ordering instead.
package mastery

// Level is a flashcard's mastery counter.
type Level int

// Mastery bounds. MaxLevel cards are excluded from study sittings.
const (
	MinLevel Level = 0
	MaxLevel Level = 5
)

// NumLevels is the number of distinct mastery levels, useful for
// histogram allocation.
const NumLevels = int(MaxLevel-MinLevel) + 1

// Valid reports whether the level is within the allowed range.
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// Advance computes the level after one answer. It is pure: persisting the
// result and stamping the review time is the caller's responsibility.
func Advance(current Level, correct bool) Level {
	if correct {
		if current < MaxLevel {
			return current + 1
		}
		return current
	}

	if current > MinLevel {
		return current - 1
	}
	return current
}
