package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/pklenglish/study-api/internal/api/shared"
	"github.com/pklenglish/study-api/internal/service/catalog"
)

// TopicHandler serves the topic and vocabulary catalog endpoints.
type TopicHandler struct {
	catalog  catalog.Service
	validate *validator.Validate
}

// NewTopicHandler creates a new TopicHandler.
func NewTopicHandler(catalogSvc catalog.Service, validate *validator.Validate) *TopicHandler {
	if catalogSvc == nil {
		panic("catalog service cannot be nil")
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TopicHandler{catalog: catalogSvc, validate: validate}
}

// List handles GET /topics.
func (h *TopicHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	topics, err := h.catalog.ListTopics(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, topics)
}

// Get handles GET /topics/{topicID}.
func (h *TopicHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	topicID, ok := pathUUID(w, r, "topicID")
	if !ok {
		return
	}

	topic, err := h.catalog.GetTopic(r.Context(), userID, topicID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, topic)
}

// Create handles POST /topics.
func (h *TopicHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req TopicRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	topic, err := h.catalog.CreateTopic(r.Context(), userID, catalog.TopicInput{
		Title:       req.Title,
		Description: req.Description,
		ImageRef:    req.ImageRef,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, topic)
}

// Update handles PUT /topics/{topicID}.
func (h *TopicHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	topicID, ok := pathUUID(w, r, "topicID")
	if !ok {
		return
	}

	var req TopicRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	topic, err := h.catalog.UpdateTopic(r.Context(), userID, topicID, catalog.TopicInput{
		Title:       req.Title,
		Description: req.Description,
		ImageRef:    req.ImageRef,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, topic)
}

// Delete handles DELETE /topics/{topicID}.
func (h *TopicHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	topicID, ok := pathUUID(w, r, "topicID")
	if !ok {
		return
	}

	if err := h.catalog.DeleteTopic(r.Context(), userID, topicID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListVocabulary handles GET /topics/{topicID}/vocabulary.
func (h *TopicHandler) ListVocabulary(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	topicID, ok := pathUUID(w, r, "topicID")
	if !ok {
		return
	}

	vocabs, err := h.catalog.ListVocabulary(r.Context(), userID, topicID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, vocabs)
}

// CreateVocabulary handles POST /topics/{topicID}/vocabulary.
func (h *TopicHandler) CreateVocabulary(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	topicID, ok := pathUUID(w, r, "topicID")
	if !ok {
		return
	}

	var req VocabularyRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	vocab, err := h.catalog.CreateVocabulary(r.Context(), userID, topicID, vocabInputFromRequest(req))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, vocab)
}

// UpdateVocabulary handles PUT /vocabulary/{vocabularyID}.
func (h *TopicHandler) UpdateVocabulary(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	vocabID, ok := pathUUID(w, r, "vocabularyID")
	if !ok {
		return
	}

	var req VocabularyRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	vocab, err := h.catalog.UpdateVocabulary(r.Context(), userID, vocabID, vocabInputFromRequest(req))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, vocab)
}

// DeleteVocabulary handles DELETE /vocabulary/{vocabularyID}.
func (h *TopicHandler) DeleteVocabulary(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	vocabID, ok := pathUUID(w, r, "vocabularyID")
	if !ok {
		return
	}

	if err := h.catalog.DeleteVocabulary(r.Context(), userID, vocabID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func vocabInputFromRequest(req VocabularyRequest) catalog.VocabularyInput {
	return catalog.VocabularyInput{
		Word:            req.Word,
		Phonetic:        req.Phonetic,
		Definition:      req.Definition,
		ExampleSentence: req.ExampleSentence,
		MeaningSentence: req.MeaningSentence,
		AudioRef:        req.AudioRef,
	}
}
