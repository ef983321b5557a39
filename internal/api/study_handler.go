package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/pklenglish/study-api/internal/api/shared"
	"github.com/pklenglish/study-api/internal/platform/logger"
	"github.com/pklenglish/study-api/internal/platform/session"
	"github.com/pklenglish/study-api/internal/service/study"
)

// StudyHandler serves the flashcard study endpoints. It owns the sitting
// plumbing: exclusion lists live in the session store and are threaded
// into the selection engine as explicit parameters.
type StudyHandler struct {
	study    study.Service
	sessions session.Store
	validate *validator.Validate
	logger   *slog.Logger
}

// StudyNextResponse carries the next drill and the sitting's completion
// percentage after this card is counted as shown.
type StudyNextResponse struct {
	Question *study.Drill `json:"question"`
	Progress int          `json:"progress"`
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(
	studySvc study.Service,
	sessions session.Store,
	validate *validator.Validate,
	log *slog.Logger,
) *StudyHandler {
	if studySvc == nil {
		panic("study service cannot be nil")
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
	return &StudyHandler{
		study:    studySvc,
		sessions: sessions,
		validate: validate,
		logger:   log.With(slog.String("component", "study_handler")),
	}
}

// NextCard handles GET /topics/{topicID}/study/next.
// Responds 204 when the sitting is exhausted.
func (h *StudyHandler) NextCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	topicID, ok := pathUUID(w, r, "topicID")
	if !ok {
		return
	}

	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)
	key := session.StudyKey(userID, topicID)

	excluded, err := h.sessions.Members(ctx, key)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to load study session", err)
		return
	}

	drill, err := h.study.NextCard(ctx, userID, topicID, excluded)
	if err != nil {
		if errors.Is(err, study.ErrNoCardsRemaining) {
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

	if err := h.sessions.Add(ctx, key, drill.CardID); err != nil {
		// A lost sitting member only means the card may repeat; keep going.
		log.Warn("failed to record sitting member", "error", err)
	}

	progress, err := h.study.Progress(ctx, userID, topicID, len(excluded)+1)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StudyNextResponse{
		Question: drill,
		Progress: progress,
	})
}

// SubmitAnswer handles POST /study/answer.
func (h *StudyHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	result, err := h.study.SubmitAnswer(r.Context(), userID, req.CardID, req.Answer)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// ResetTopic handles POST /topics/{topicID}/study/reset. All of the
// user's flashcards under the topic return to level zero and the sitting
// ends.
func (h *StudyHandler) ResetTopic(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	topicID, ok := pathUUID(w, r, "topicID")
	if !ok {
		return
	}

	ctx := r.Context()
	if err := h.study.ResetTopic(ctx, userID, topicID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := h.sessions.Clear(ctx, session.StudyKey(userID, topicID)); err != nil {
		logger.FromContextOrDefault(ctx, h.logger).Warn("failed to clear sitting", "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}

// EndSitting handles POST /topics/{topicID}/study/end. It drops the
// exclusion list so the next request starts a fresh sitting; mastery
// state is untouched.
func (h *StudyHandler) EndSitting(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	topicID, ok := pathUUID(w, r, "topicID")
	if !ok {
		return
	}

	if err := h.sessions.Clear(r.Context(), session.StudyKey(userID, topicID)); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to end study session", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
