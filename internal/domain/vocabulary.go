package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Vocabulary
var (
	ErrEmptyVocabularyID      = errors.New("vocabulary ID cannot be empty")
	ErrEmptyVocabularyTopicID = errors.New("vocabulary topic ID cannot be empty")
	ErrEmptyVocabularyWord    = errors.New("vocabulary word cannot be empty")
)

// Vocabulary is a single word inside a topic together with the material
// used to drill it: its phonetic transcription, definition, an example
// sentence, the translated meaning of that sentence, and an optional
// reference to a pronunciation audio file.
//
// The study engines treat vocabulary as read-only; only topic owners
// mutate it through the catalog endpoints.
type Vocabulary struct {
	ID              uuid.UUID `json:"id"`
	TopicID         uuid.UUID `json:"topic_id"`
	Word            string    `json:"word"`
	Phonetic        string    `json:"phonetic,omitempty"`
	Definition      string    `json:"definition"`
	ExampleSentence string    `json:"example_sentence,omitempty"`
	MeaningSentence string    `json:"meaning_sentence,omitempty"`
	AudioRef        string    `json:"audio_ref,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewVocabulary creates a new Vocabulary entry in the given topic.
// Returns an error if validation fails.
func NewVocabulary(topicID uuid.UUID, word, definition string) (*Vocabulary, error) {
	now := time.Now().UTC()
	vocab := &Vocabulary{
		ID:         uuid.New(),
		TopicID:    topicID,
		Word:       word,
		Definition: definition,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := vocab.Validate(); err != nil {
		return nil, err
	}

	return vocab, nil
}

// Validate checks if the Vocabulary has valid data.
func (v *Vocabulary) Validate() error {
	if v.ID == uuid.Nil {
		return ErrEmptyVocabularyID
	}

	if v.TopicID == uuid.Nil {
		return ErrEmptyVocabularyTopicID
	}

	if v.Word == "" {
		return ErrEmptyVocabularyWord
	}

	return nil
}

// HasAudio reports whether a pronunciation recording is available,
// which is what decides whether listening drills can be generated.
func (v *Vocabulary) HasAudio() bool {
	return v.AudioRef != ""
}
