package api

import (
	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SubmitAnswerRequest defines the payload for answering a study drill.
type SubmitAnswerRequest struct {
	CardID uuid.UUID `json:"card_id" validate:"required"`
	Answer string    `json:"answer"`
}

// CheckReviewRequest defines the payload for answering a notebook review
// question. Fill-blank questions carry the typed answer; listening
// questions carry the selected option's vocabulary ID.
type CheckReviewRequest struct {
	Type                 string    `json:"type" validate:"required,oneof=fill_blank listening"`
	VocabularyID         uuid.UUID `json:"vocabulary_id" validate:"required"`
	Answer               string    `json:"answer,omitempty"`
	SelectedVocabularyID uuid.UUID `json:"selected_vocabulary_id,omitempty"`
}

// CheckReviewResponse reports the outcome of a notebook review answer.
type CheckReviewResponse struct {
	IsCorrect bool `json:"is_correct"`
}

// AddNotebookRequest defines the payload for saving a word to the notebook.
type AddNotebookRequest struct {
	VocabularyID uuid.UUID `json:"vocabulary_id" validate:"required"`
	Note         string    `json:"note,omitempty" validate:"max=2000"`
}

// UpdateNoteRequest defines the payload for editing a notebook note.
type UpdateNoteRequest struct {
	Note string `json:"note" validate:"max=2000"`
}

// TopicRequest defines the payload for creating or updating a topic.
type TopicRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	ImageRef    string `json:"image_ref,omitempty" validate:"max=500"`
}

// VocabularyRequest defines the payload for creating or updating a
// vocabulary item. Media references are opaque strings; this API never
// handles uploads.
type VocabularyRequest struct {
	Word            string `json:"word" validate:"required,max=200"`
	Phonetic        string `json:"phonetic,omitempty" validate:"max=200"`
	Definition      string `json:"definition" validate:"required,max=2000"`
	ExampleSentence string `json:"example_sentence,omitempty" validate:"max=2000"`
	MeaningSentence string `json:"meaning_sentence,omitempty" validate:"max=2000"`
	AudioRef        string `json:"audio_ref,omitempty" validate:"max=500"`
}
