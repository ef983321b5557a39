package study

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pklenglish/study-api/internal/store"
)

// stubRand returns a scripted sequence of IntN values and leaves shuffles
// untouched, so drill construction is fully deterministic.
type stubRand struct {
	vals []int
	i    int
}

func (r *stubRand) IntN(n int) int {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

func (r *stubRand) Shuffle(n int, swap func(i, j int)) {}

func TestMaskWord(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		sentence string
		word     string
		expected string
	}{
		{
			name:     "masks case-insensitively",
			sentence: "The dog ran",
			word:     "Dog",
			expected: "The ___ ran",
		},
		{
			name:     "masks every occurrence",
			sentence: "A dog chases a DOG",
			word:     "dog",
			expected: "A ___ chases a ___",
		},
		{
			name:     "word absent leaves sentence unchanged",
			sentence: "Nothing to hide here",
			word:     "dog",
			expected: "Nothing to hide here",
		},
		{
			name:     "empty sentence yields bare mask",
			sentence: "",
			word:     "apple",
			expected: "_____",
		},
		{
			name:     "mask length counts runes not bytes",
			sentence: "say café please",
			word:     "café",
			expected: "say ____ please",
		},
		{
			name:     "regex metacharacters are literal",
			sentence: "what is a+b here",
			word:     "a+b",
			expected: "what is ___ here",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, MaskWord(tc.sentence, tc.word))
		})
	}
}

func TestAnswersMatch(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		raw      string
		word     string
		expected bool
	}{
		{name: "exact match", raw: "apple", word: "apple", expected: true},
		{name: "case insensitive", raw: "APPLE", word: "apple", expected: true},
		{name: "surrounding whitespace ignored", raw: "  apple \n", word: "apple", expected: true},
		{name: "different word", raw: "orange", word: "apple", expected: false},
		{name: "interior whitespace matters", raw: "ap ple", word: "apple", expected: false},
		{name: "empty answer", raw: "", word: "apple", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, AnswersMatch(tc.raw, tc.word))
		})
	}
}

func TestFillBlankInstruction(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `Fill in the word meaning: "a red fruit"`, FillBlankInstruction("a red fruit"))
}

func TestBuildDrill(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	row := &store.CardRow{
		CardID:          uuid.New(),
		MasteryLevel:    2,
		LastReviewed:    &now,
		VocabularyID:    uuid.New(),
		Word:            "Dog",
		Phonetic:        "/dɒɡ/",
		Definition:      "a domesticated canine",
		ExampleSentence: "The dog ran",
		MeaningSentence: "a loyal pet",
		AudioRef:        "audio/dog.mp3",
		TopicImageRef:   "images/animals.png",
	}

	t.Run("coin flip heads picks listening", func(t *testing.T) {
		t.Parallel()

		drill := buildDrill(row, &stubRand{vals: []int{0}})

		assert.Equal(t, QuestionListening, drill.Type)
		assert.Equal(t, "Listen and type the word you hear", drill.Instruction)
		assert.Equal(t, "Listen carefully", drill.Content)
		assert.Equal(t, row.CardID, drill.CardID)
		assert.Equal(t, row.AudioRef, drill.AudioRef)
	})

	t.Run("coin flip tails picks fill blank", func(t *testing.T) {
		t.Parallel()

		drill := buildDrill(row, &stubRand{vals: []int{1}})

		assert.Equal(t, QuestionFillBlank, drill.Type)
		assert.Equal(t, `Fill in the word meaning: "a loyal pet"`, drill.Instruction)
		assert.Equal(t, "The ___ ran", drill.Content)
	})

	t.Run("no audio always fill blank", func(t *testing.T) {
		t.Parallel()

		silent := *row
		silent.AudioRef = ""

		for flip := 0; flip < 2; flip++ {
			drill := buildDrill(&silent, &stubRand{vals: []int{flip}})
			assert.Equal(t, QuestionFillBlank, drill.Type)
		}
	})

	t.Run("carries vocabulary presentation fields", func(t *testing.T) {
		t.Parallel()

		drill := buildDrill(row, &stubRand{vals: []int{1}})

		assert.Equal(t, row.VocabularyID, drill.VocabularyID)
		assert.Equal(t, row.Word, drill.Word)
		assert.Equal(t, row.Phonetic, drill.Phonetic)
		assert.Equal(t, row.Definition, drill.Definition)
		assert.Equal(t, row.MeaningSentence, drill.Meaning)
		assert.Equal(t, row.TopicImageRef, drill.ImageRef)
	})
}
