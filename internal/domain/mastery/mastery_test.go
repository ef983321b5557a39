package mastery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvance(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		current  Level
		correct  bool
		expected Level
	}{
		{
			name:     "correct answer increments level",
			current:  2,
			correct:  true,
			expected: 3,
		},
		{
			name:     "correct answer at max level saturates",
			current:  MaxLevel,
			correct:  true,
			expected: MaxLevel,
		},
		{
			name:     "incorrect answer decrements level",
			current:  3,
			correct:  false,
			expected: 2,
		},
		{
			name:     "incorrect answer at min level saturates",
			current:  MinLevel,
			correct:  false,
			expected: MinLevel,
		},
		{
			name:     "correct answer from min level",
			current:  MinLevel,
			correct:  true,
			expected: 1,
		},
		{
			name:     "incorrect answer from max level",
			current:  MaxLevel,
			correct:  false,
			expected: 4,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, Advance(tc.current, tc.correct))
		})
	}
}

func TestAdvanceStaysInBounds(t *testing.T) {
	t.Parallel()

	for level := MinLevel; level <= MaxLevel; level++ {
		for _, correct := range []bool{true, false} {
			next := Advance(level, correct)
			assert.True(t, next.Valid(),
				"Advance(%d, %v) produced out-of-range level %d", level, correct, next)
		}
	}
}

func TestLevelValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Level(0).Valid())
	assert.True(t, Level(5).Valid())
	assert.False(t, Level(-1).Valid())
	assert.False(t, Level(6).Valid())
}
