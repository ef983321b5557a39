package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pklenglish/study-api/internal/service/auth"
	"github.com/pklenglish/study-api/internal/service/catalog"
	"github.com/pklenglish/study-api/internal/service/notebook"
	"github.com/pklenglish/study-api/internal/service/stats"
	"github.com/pklenglish/study-api/internal/service/study"
	"github.com/pklenglish/study-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, catalog.ErrNotOwner),
		errors.Is(err, catalog.ErrTopicNotVisible):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrTopicNotFound),
		errors.Is(err, catalog.ErrTopicNotFound),
		errors.Is(err, catalog.ErrVocabularyNotFound),
		errors.Is(err, store.ErrVocabularyNotFound),
		errors.Is(err, store.ErrFlashcardNotFound),
		errors.Is(err, store.ErrNotebookEntryNotFound),
		errors.Is(err, study.ErrCardNotFound),
		errors.Is(err, notebook.ErrVocabularyNotFound),
		errors.Is(err, notebook.ErrEntryNotFound),
		errors.Is(err, stats.ErrTopicNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, store.ErrNotebookEntryExists),
		errors.Is(err, notebook.ErrAlreadySaved):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, notebook.ErrNotebookTooSmall):
		return http.StatusBadRequest

	// Sitting exhaustion is a normal terminal state, not an error
	case errors.Is(err, study.ErrNoCardsRemaining),
		errors.Is(err, notebook.ErrReviewComplete):
		return http.StatusNoContent

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrTopicNotFound),
		errors.Is(err, catalog.ErrTopicNotFound),
		errors.Is(err, stats.ErrTopicNotFound):
		return "Topic not found"

	case errors.Is(err, catalog.ErrNotOwner),
		errors.Is(err, catalog.ErrTopicNotVisible):
		return "You do not own this topic"

	case errors.Is(err, store.ErrVocabularyNotFound),
		errors.Is(err, catalog.ErrVocabularyNotFound),
		errors.Is(err, notebook.ErrVocabularyNotFound):
		return "Vocabulary not found"

	case errors.Is(err, store.ErrFlashcardNotFound),
		errors.Is(err, study.ErrCardNotFound):
		return "Flashcard not found"

	case errors.Is(err, store.ErrNotebookEntryNotFound),
		errors.Is(err, notebook.ErrEntryNotFound):
		return "Notebook entry not found"

	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, auth.ErrEmailTaken):
		return "Email already exists"

	case errors.Is(err, store.ErrNotebookEntryExists),
		errors.Is(err, notebook.ErrAlreadySaved):
		return "Word already saved in notebook"

	case errors.Is(err, notebook.ErrNotebookTooSmall):
		return "Save at least 2 words to start notebook review"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError converts a validator error into a user-friendly
// message without echoing the submitted values back.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				switch tag {
				case "required":
					return field + " is required"
				case "email":
					return field + " must be a valid email address"
				case "min":
					return field + " is too short"
				case "max":
					return field + " is too long"
				default:
					return field + " is invalid"
				}
			}
		}
	}

	return "Invalid request payload"
}
