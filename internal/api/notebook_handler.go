package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/pklenglish/study-api/internal/api/shared"
	"github.com/pklenglish/study-api/internal/platform/logger"
	"github.com/pklenglish/study-api/internal/platform/session"
	"github.com/pklenglish/study-api/internal/service/notebook"
	"github.com/pklenglish/study-api/internal/service/study"
)

// NotebookHandler serves the notebook management and review endpoints.
type NotebookHandler struct {
	notebook notebook.Service
	sessions session.Store
	validate *validator.Validate
	logger   *slog.Logger
}

// NewNotebookHandler creates a new NotebookHandler.
func NewNotebookHandler(
	notebookSvc notebook.Service,
	sessions session.Store,
	validate *validator.Validate,
	log *slog.Logger,
) *NotebookHandler {
	if notebookSvc == nil {
		panic("notebook service cannot be nil")
	}
	if sessions == nil {
		panic("session store cannot be nil")
	}
	if validate == nil {
		validate = validator.New()
	}
	if log == nil {
		log = slog.Default()
	}
	return &NotebookHandler{
		notebook: notebookSvc,
		sessions: sessions,
		validate: validate,
		logger:   log.With(slog.String("component", "notebook_handler")),
	}
}

// List handles GET /notebook.
func (h *NotebookHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	items, err := h.notebook.List(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, items)
}

// Add handles POST /notebook.
func (h *NotebookHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req AddNotebookRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	if err := h.notebook.Add(r.Context(), userID, req.VocabularyID, req.Note); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Remove handles DELETE /notebook/{vocabularyID}.
func (h *NotebookHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	vocabID, ok := pathUUID(w, r, "vocabularyID")
	if !ok {
		return
	}

	if err := h.notebook.Remove(r.Context(), userID, vocabID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateNote handles PUT /notebook/{vocabularyID}/note.
func (h *NotebookHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	vocabID, ok := pathUUID(w, r, "vocabularyID")
	if !ok {
		return
	}

	var req UpdateNoteRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	if err := h.notebook.UpdateNote(r.Context(), userID, vocabID, req.Note); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// NextQuestion handles GET /notebook/review/next.
// Responds 204 when every saved word has been reviewed this sitting.
func (h *NotebookHandler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)
	key := session.NotebookKey(userID)

	excluded, err := h.sessions.Members(ctx, key)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to load review session", err)
		return
	}

	question, err := h.notebook.NextQuestion(ctx, userID, excluded)
	if err != nil {
		if errors.Is(err, notebook.ErrReviewComplete) {
			// The sitting is exhausted; drop it so the next request
			// starts fresh.
			if clearErr := h.sessions.Clear(ctx, key); clearErr != nil {
				log.Warn("failed to clear exhausted sitting", "error", clearErr)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := h.sessions.Add(ctx, key, question.VocabularyID); err != nil {
		log.Warn("failed to record sitting member", "error", err)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, question)
}

// CheckAnswer handles POST /notebook/review/answer.
func (h *NotebookHandler) CheckAnswer(w http.ResponseWriter, r *http.Request) {
	if _, ok := userIDFromRequest(w, r); !ok {
		return
	}

	var req CheckReviewRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	switch study.QuestionType(req.Type) {
	case study.QuestionListening:
		shared.RespondWithJSON(w, r, http.StatusOK, CheckReviewResponse{
			IsCorrect: notebook.CheckListening(req.VocabularyID, req.SelectedVocabularyID),
		})
	default:
		isCorrect, err := h.notebook.CheckFillBlank(r.Context(), req.VocabularyID, req.Answer)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, CheckReviewResponse{IsCorrect: isCorrect})
	}
}

// EndSitting handles POST /notebook/review/end.
func (h *NotebookHandler) EndSitting(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Clear(r.Context(), session.NotebookKey(userID)); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to end review session", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
