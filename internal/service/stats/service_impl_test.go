package stats

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pklenglish/study-api/internal/domain"
	"github.com/pklenglish/study-api/internal/domain/mastery"
	"github.com/pklenglish/study-api/internal/store"
)

// fixedNow is the reference "today" for the clock-sensitive tests.
var fixedNow = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

type memState struct {
	levelCounts map[mastery.Level]int
	totals      store.AnswerTotals
	daily       []store.DailyBucket
	wrong       []store.WrongCount
	dates       []time.Time

	topic      *domain.Topic
	vocabCount int
}

type memCardStore struct{ st *memState }

var _ store.FlashcardStore = (*memCardStore)(nil)

func (s *memCardStore) ListVocabIDs(ctx context.Context, userID, topicID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (s *memCardStore) CreateMissing(ctx context.Context, userID uuid.UUID, vocabIDs []uuid.UUID) error {
	return nil
}

func (s *memCardStore) NextCandidate(ctx context.Context, userID, topicID uuid.UUID, excludeIDs []uuid.UUID) (*store.CardRow, error) {
	return nil, store.ErrFlashcardNotFound
}

func (s *memCardStore) Get(ctx context.Context, userID, cardID uuid.UUID) (*store.CardRow, error) {
	return nil, store.ErrFlashcardNotFound
}

func (s *memCardStore) UpdateReview(ctx context.Context, cardID uuid.UUID, level mastery.Level, reviewedAt time.Time) error {
	return nil
}

func (s *memCardStore) CountBelowLevel(ctx context.Context, userID, topicID uuid.UUID, threshold mastery.Level) (int, error) {
	return 0, nil
}

func (s *memCardStore) CountAtLevel(ctx context.Context, userID, topicID uuid.UUID, level mastery.Level) (int, error) {
	return s.st.levelCounts[level], nil
}

func (s *memCardStore) ResetTopic(ctx context.Context, userID, topicID uuid.UUID) error { return nil }

func (s *memCardStore) CountByLevel(ctx context.Context, userID uuid.UUID) (map[mastery.Level]int, error) {
	return s.st.levelCounts, nil
}

func (s *memCardStore) CountAll(ctx context.Context, userID uuid.UUID) (int, error) {
	total := 0
	for _, c := range s.st.levelCounts {
		total += c
	}
	return total, nil
}

func (s *memCardStore) WithTx(tx *sql.Tx) store.FlashcardStore { return s }

type memLogStore struct{ st *memState }

var _ store.StudyLogStore = (*memLogStore)(nil)

func (s *memLogStore) Append(ctx context.Context, userID, vocabularyID uuid.UUID, isCorrect bool) error {
	return nil
}

func (s *memLogStore) Totals(ctx context.Context, userID uuid.UUID) (store.AnswerTotals, error) {
	return s.st.totals, nil
}

func (s *memLogStore) DailyBuckets(ctx context.Context, userID uuid.UUID, since time.Time) ([]store.DailyBucket, error) {
	return s.st.daily, nil
}

func (s *memLogStore) MostWrong(ctx context.Context, userID uuid.UUID, limit int) ([]store.WrongCount, error) {
	if len(s.st.wrong) > limit {
		return s.st.wrong[:limit], nil
	}
	return s.st.wrong, nil
}

func (s *memLogStore) DistinctAnswerDates(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	return s.st.dates, nil
}

func (s *memLogStore) WithTx(tx *sql.Tx) store.StudyLogStore { return s }

type memTopicStore struct{ st *memState }

var _ store.TopicStore = (*memTopicStore)(nil)

func (s *memTopicStore) Create(ctx context.Context, topic *domain.Topic) error { return nil }

func (s *memTopicStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error) {
	if s.st.topic != nil && s.st.topic.ID == id {
		return s.st.topic, nil
	}
	return nil, store.ErrTopicNotFound
}

func (s *memTopicStore) ListPublic(ctx context.Context) ([]*domain.Topic, error) { return nil, nil }

func (s *memTopicStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Topic, error) {
	return nil, nil
}

func (s *memTopicStore) Update(ctx context.Context, topic *domain.Topic) error { return nil }
func (s *memTopicStore) Delete(ctx context.Context, id uuid.UUID) error        { return nil }

func (s *memTopicStore) CountVocabulary(ctx context.Context, topicID uuid.UUID) (int, error) {
	return s.st.vocabCount, nil
}

func (s *memTopicStore) WithTx(tx *sql.Tx) store.TopicStore { return s }

func newTestService(st *memState) Service {
	return NewService(
		&memCardStore{st: st},
		&memLogStore{st: st},
		&memTopicStore{st: st},
		func() time.Time { return fixedNow },
		nil,
	)
}

func day(offset int) time.Time {
	return time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	st := &memState{levelCounts: map[mastery.Level]int{0: 3, 2: 1, 5: 2}}
	svc := newTestService(st)

	summary, err := svc.Summarize(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalLearned, "level-zero cards are not learned yet")
	require.Len(t, summary.Levels, mastery.NumLevels, "every level appears, zero counts included")
	assert.Equal(t, []LevelBucket{
		{Level: 0, Count: 3},
		{Level: 1, Count: 0},
		{Level: 2, Count: 1},
		{Level: 3, Count: 0},
		{Level: 4, Count: 0},
		{Level: 5, Count: 2},
	}, summary.Levels)
}

func TestReportAccuracy(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		totals   store.AnswerTotals
		expected int
	}{
		{name: "no answers", totals: store.AnswerTotals{}, expected: 0},
		{name: "rounds half up", totals: store.AnswerTotals{Total: 9, Correct: 7}, expected: 78},
		{name: "all correct", totals: store.AnswerTotals{Total: 4, Correct: 4}, expected: 100},
		{name: "one third", totals: store.AnswerTotals{Total: 3, Correct: 1}, expected: 33},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			st := &memState{levelCounts: map[mastery.Level]int{}, totals: tc.totals}
			report, err := newTestService(st).Report(context.Background(), uuid.New())
			require.NoError(t, err)
			assert.Equal(t, tc.expected, report.Accuracy)
		})
	}
}

func TestReportDailyWindow(t *testing.T) {
	t.Parallel()

	st := &memState{
		levelCounts: map[mastery.Level]int{},
		daily: []store.DailyBucket{
			{Date: day(-2), Total: 4, Correct: 3},
			{Date: day(0), Total: 2, Correct: 2},
		},
	}

	report, err := newTestService(st).Report(context.Background(), uuid.New())
	require.NoError(t, err)

	require.Len(t, report.Daily, activityDays)
	assert.Equal(t, "2025-03-09", report.Daily[0].Date, "window opens six days back")
	assert.Equal(t, "2025-03-15", report.Daily[6].Date)

	assert.Equal(t, DayActivity{Date: "2025-03-13", Total: 4, Correct: 3}, report.Daily[4])
	assert.Equal(t, DayActivity{Date: "2025-03-15", Total: 2, Correct: 2}, report.Daily[6])
	assert.Equal(t, DayActivity{Date: "2025-03-10"}, report.Daily[1], "silent days appear with zeros")
}

func TestReportMostMissedAndMastered(t *testing.T) {
	t.Parallel()

	vocabID := uuid.New()
	st := &memState{
		levelCounts: map[mastery.Level]int{4: 1, 5: 3},
		wrong: []store.WrongCount{
			{VocabularyID: vocabID, Word: "ephemeral", MeaningSentence: "lasting briefly", TotalAttempts: 6, WrongCount: 4},
		},
	}

	report, err := newTestService(st).Report(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalWords)
	assert.Equal(t, 3, report.MasteredWords)
	require.Len(t, report.MostMissed, 1)
	assert.Equal(t, MissedWord{
		VocabularyID:  vocabID,
		Word:          "ephemeral",
		Meaning:       "lasting briefly",
		TotalAttempts: 6,
		WrongCount:    4,
	}, report.MostMissed[0])
}

func TestStreakDays(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		dates    []time.Time
		expected int
	}{
		{
			name:     "no history",
			dates:    nil,
			expected: 0,
		},
		{
			name:     "single day today",
			dates:    []time.Time{day(0)},
			expected: 1,
		},
		{
			name:     "chain anchored at today",
			dates:    []time.Time{day(0), day(-1), day(-2)},
			expected: 3,
		},
		{
			name:     "chain anchored at yesterday survives",
			dates:    []time.Time{day(-1), day(-2)},
			expected: 2,
		},
		{
			name:     "gap before day break ends streak",
			dates:    []time.Time{day(0), day(-1), day(-3), day(-4)},
			expected: 2,
		},
		{
			name:     "last study two days ago is broken",
			dates:    []time.Time{day(-2), day(-3)},
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			st := &memState{levelCounts: map[mastery.Level]int{}, dates: tc.dates}
			report, err := newTestService(st).Report(context.Background(), uuid.New())
			require.NoError(t, err)
			assert.Equal(t, tc.expected, report.StreakDays)
		})
	}
}

func TestTopicProgress(t *testing.T) {
	t.Parallel()

	topic, err := domain.NewSystemTopic("Animals", "")
	require.NoError(t, err)

	t.Run("partially mastered", func(t *testing.T) {
		t.Parallel()

		st := &memState{
			levelCounts: map[mastery.Level]int{5: 3},
			topic:       topic,
			vocabCount:  10,
		}

		progress, err := newTestService(st).TopicProgress(context.Background(), uuid.New(), topic.ID)
		require.NoError(t, err)

		assert.Equal(t, 10, progress.TotalWords)
		assert.Equal(t, 3, progress.MasteredWords)
		assert.Equal(t, 30, progress.Percent)
	})

	t.Run("empty topic", func(t *testing.T) {
		t.Parallel()

		st := &memState{levelCounts: map[mastery.Level]int{}, topic: topic}

		progress, err := newTestService(st).TopicProgress(context.Background(), uuid.New(), topic.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, progress.Percent)
	})

	t.Run("unknown topic", func(t *testing.T) {
		t.Parallel()

		st := &memState{levelCounts: map[mastery.Level]int{}}

		_, err := newTestService(st).TopicProgress(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, ErrTopicNotFound)
	})
}
