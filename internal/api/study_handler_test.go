package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pklenglish/study-api/internal/api/shared"
	"github.com/pklenglish/study-api/internal/platform/session"
	"github.com/pklenglish/study-api/internal/service/study"
)

type mockStudyService struct {
	nextCardFn     func(ctx context.Context, userID, topicID uuid.UUID, excluded []uuid.UUID) (*study.Drill, error)
	submitAnswerFn func(ctx context.Context, userID, cardID uuid.UUID, answer string) (*study.AnswerResult, error)
	progressFn     func(ctx context.Context, userID, topicID uuid.UUID, excludedCount int) (int, error)
	resetTopicFn   func(ctx context.Context, userID, topicID uuid.UUID) error
}

var _ study.Service = (*mockStudyService)(nil)

func (m *mockStudyService) NextCard(ctx context.Context, userID, topicID uuid.UUID, excluded []uuid.UUID) (*study.Drill, error) {
	return m.nextCardFn(ctx, userID, topicID, excluded)
}

func (m *mockStudyService) SubmitAnswer(ctx context.Context, userID, cardID uuid.UUID, answer string) (*study.AnswerResult, error) {
	return m.submitAnswerFn(ctx, userID, cardID, answer)
}

func (m *mockStudyService) Progress(ctx context.Context, userID, topicID uuid.UUID, excludedCount int) (int, error) {
	return m.progressFn(ctx, userID, topicID, excludedCount)
}

func (m *mockStudyService) ResetTopic(ctx context.Context, userID, topicID uuid.UUID) error {
	return m.resetTopicFn(ctx, userID, topicID)
}

// memSessionStore is an in-memory session.Store for handler tests.
type memSessionStore struct {
	sets map[string][]uuid.UUID
}

var _ session.Store = (*memSessionStore)(nil)

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sets: make(map[string][]uuid.UUID)}
}

func (s *memSessionStore) Members(ctx context.Context, key string) ([]uuid.UUID, error) {
	return s.sets[key], nil
}

func (s *memSessionStore) Add(ctx context.Context, key string, id uuid.UUID) error {
	s.sets[key] = append(s.sets[key], id)
	return nil
}

func (s *memSessionStore) Clear(ctx context.Context, key string) error {
	delete(s.sets, key)
	return nil
}

// newStudyRequest builds an authenticated GET request carrying the topic
// ID as a chi URL parameter.
func newStudyRequest(t *testing.T, userID, topicID uuid.UUID) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/topics/"+topicID.String()+"/study/next", nil)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("topicID", topicID.String())
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)

	return req.WithContext(ctx)
}

func TestNextCardResponse(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	topicID := uuid.New()
	cardID := uuid.New()

	svc := &mockStudyService{
		nextCardFn: func(ctx context.Context, uid, tid uuid.UUID, excluded []uuid.UUID) (*study.Drill, error) {
			assert.Equal(t, userID, uid)
			assert.Equal(t, topicID, tid)
			assert.Empty(t, excluded)
			return &study.Drill{CardID: cardID, Type: study.QuestionFillBlank, Word: "apple"}, nil
		},
		progressFn: func(ctx context.Context, uid, tid uuid.UUID, excludedCount int) (int, error) {
			assert.Equal(t, 1, excludedCount)
			return 25, nil
		},
	}
	sessions := newMemSessionStore()
	handler := NewStudyHandler(svc, sessions, nil, nil)

	rr := httptest.NewRecorder()
	handler.NextCard(rr, newStudyRequest(t, userID, topicID))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp StudyNextResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, cardID, resp.Question.CardID)
	assert.Equal(t, 25, resp.Progress)

	key := session.StudyKey(userID, topicID)
	assert.Equal(t, []uuid.UUID{cardID}, sessions.sets[key], "shown card is recorded in the sitting")
}

func TestNextCardExhaustionClearsSitting(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	topicID := uuid.New()
	key := session.StudyKey(userID, topicID)

	svc := &mockStudyService{
		nextCardFn: func(ctx context.Context, uid, tid uuid.UUID, excluded []uuid.UUID) (*study.Drill, error) {
			return nil, study.ErrNoCardsRemaining
		},
	}
	sessions := newMemSessionStore()
	sessions.sets[key] = []uuid.UUID{uuid.New(), uuid.New()}

	handler := NewStudyHandler(svc, sessions, nil, nil)

	rr := httptest.NewRecorder()
	handler.NextCard(rr, newStudyRequest(t, userID, topicID))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	_, exists := sessions.sets[key]
	assert.False(t, exists, "exhausted sitting is cleared so the next request starts fresh")
}
