package study

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pklenglish/study-api/internal/store"
)

// QuestionType distinguishes the two drill forms.
type QuestionType string

// Possible question types. A vocabulary item without audio can only be
// drilled as fill_blank.
const (
	QuestionFillBlank QuestionType = "fill_blank"
	QuestionListening QuestionType = "listening"
)

// Fixed instruction for listening drills; the audio reference carries the
// real signal and the content field is only a placeholder.
const (
	listeningInstruction = "Listen and type the word you hear"
	listeningContent     = "Listen carefully"
)

// Drill is the presentable practice question built from one flashcard.
// It is pure presentation data; answering is a separate operation.
type Drill struct {
	CardID       uuid.UUID    `json:"card_id"`
	VocabularyID uuid.UUID    `json:"vocabulary_id"`
	Type         QuestionType `json:"type"`
	Word         string       `json:"word"`
	Phonetic     string       `json:"phonetic"`
	Definition   string       `json:"definition"`
	Meaning      string       `json:"meaning"`
	ImageRef     string       `json:"image_ref"`
	AudioRef     string       `json:"audio_ref"`
	Instruction  string       `json:"instruction"`
	Content      string       `json:"content"`
}

// buildDrill turns a candidate card row into a Drill. Cards with audio
// flip a fair coin between the two question types; cards without audio
// always drill as fill_blank.
func buildDrill(row *store.CardRow, rng Rand) *Drill {
	qType := QuestionFillBlank
	if row.AudioRef != "" && rng.IntN(2) == 0 {
		qType = QuestionListening
	}

	drill := &Drill{
		CardID:       row.CardID,
		VocabularyID: row.VocabularyID,
		Type:         qType,
		Word:         row.Word,
		Phonetic:     row.Phonetic,
		Definition:   row.Definition,
		Meaning:      row.MeaningSentence,
		ImageRef:     row.TopicImageRef,
		AudioRef:     row.AudioRef,
	}

	switch qType {
	case QuestionListening:
		drill.Instruction = listeningInstruction
		drill.Content = listeningContent
	default:
		drill.Instruction = FillBlankInstruction(row.MeaningSentence)
		drill.Content = MaskWord(row.ExampleSentence, row.Word)
	}

	return drill
}

// FillBlankInstruction states the target meaning for a fill-blank drill.
func FillBlankInstruction(meaning string) string {
	return fmt.Sprintf("Fill in the word meaning: %q", meaning)
}

// MaskWord replaces every case-insensitive occurrence of word in sentence
// with an underscore run of equal length, preserving the sentence shape.
// An empty sentence yields a bare underscore run sized to the word.
func MaskWord(sentence, word string) string {
	mask := strings.Repeat("_", utf8.RuneCountInString(word))
	if sentence == "" {
		return mask
	}

	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(word))
	return re.ReplaceAllString(sentence, mask)
}

// AnswersMatch compares a raw submission against the expected word,
// ignoring surrounding whitespace and letter case.
func AnswersMatch(rawAnswer, word string) bool {
	return strings.EqualFold(strings.TrimSpace(rawAnswer), strings.TrimSpace(word))
}
