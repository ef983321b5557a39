package api

import (
	"net/http"

	"github.com/pklenglish/study-api/internal/api/shared"
	"github.com/pklenglish/study-api/internal/service/stats"
)

// StatsHandler serves the statistics endpoints.
type StatsHandler struct {
	stats stats.Service
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsSvc stats.Service) *StatsHandler {
	if statsSvc == nil {
		panic("stats service cannot be nil")
	}
	return &StatsHandler{stats: statsSvc}
}

// Summary handles GET /stats/summary.
func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	summary, err := h.stats.Summarize(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// Report handles GET /stats.
func (h *StatsHandler) Report(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	report, err := h.stats.Report(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// TopicProgress handles GET /topics/{topicID}/progress.
func (h *StatsHandler) TopicProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	topicID, ok := pathUUID(w, r, "topicID")
	if !ok {
		return
	}

	progress, err := h.stats.TopicProgress(r.Context(), userID, topicID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}
