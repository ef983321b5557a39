package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/pklenglish/study-api/internal/domain/mastery"
	"github.com/pklenglish/study-api/internal/store"
)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	cards  store.FlashcardStore
	logs   store.StudyLogStore
	topics store.TopicStore
	now    func() time.Time
	logger *slog.Logger
}

var _ Service = (*serviceImpl)(nil)

// NewService creates a stats service. now and logger may be nil, in which
// case the wall clock and the default logger are used.
func NewService(
	cards store.FlashcardStore,
	logs store.StudyLogStore,
	topics store.TopicStore,
	now func() time.Time,
	log *slog.Logger,
) Service {
	if cards == nil {
		panic("flashcard store cannot be nil")
	}
	if logs == nil {
		panic("study log store cannot be nil")
	}
	if topics == nil {
		panic("topic store cannot be nil")
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if log == nil {
		log = slog.Default()
	}
	return &serviceImpl{
		cards:  cards,
		logs:   logs,
		topics: topics,
		now:    now,
		logger: log.With(slog.String("component", "stats_service")),
	}
}

func (s *serviceImpl) Summarize(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	counts, err := s.cards.CountByLevel(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count cards by level: %w", err)
	}

	learned := 0
	levels := make([]LevelBucket, 0, mastery.NumLevels)
	for l := mastery.MinLevel; l <= mastery.MaxLevel; l++ {
		c := counts[l]
		if l > mastery.MinLevel {
			learned += c
		}
		levels = append(levels, LevelBucket{Level: l, Count: c})
	}

	return &Summary{TotalLearned: learned, Levels: levels}, nil
}

func (s *serviceImpl) Report(ctx context.Context, userID uuid.UUID) (*Report, error) {
	summary, err := s.Summarize(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals, err := s.logs.Totals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to total answers: %w", err)
	}

	today := truncateDay(s.now())
	windowStart := today.AddDate(0, 0, -(activityDays - 1))

	buckets, err := s.logs.DailyBuckets(ctx, userID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("failed to bucket daily activity: %w", err)
	}

	wrong, err := s.logs.MostWrong(ctx, userID, mostWrongLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank missed words: %w", err)
	}

	dates, err := s.logs.DistinctAnswerDates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answer dates: %w", err)
	}

	totalWords := 0
	for _, b := range summary.Levels {
		totalWords += b.Count
	}

	report := &Report{
		TotalWords:     totalWords,
		TotalAnswers:   totals.Total,
		CorrectAnswers: totals.Correct,
		StreakDays:     streakDays(today, dates),
		Daily:          fillDaily(windowStart, buckets),
		MostMissed:     make([]MissedWord, 0, len(wrong)),
		Levels:         summary.Levels,
	}

	for _, b := range summary.Levels {
		if b.Level == mastery.MaxLevel {
			report.MasteredWords = b.Count
		}
	}

	if totals.Total > 0 {
		report.Accuracy = int(math.Round(float64(totals.Correct) / float64(totals.Total) * 100))
	}

	for _, w := range wrong {
		report.MostMissed = append(report.MostMissed, MissedWord{
			VocabularyID:  w.VocabularyID,
			Word:          w.Word,
			Meaning:       w.MeaningSentence,
			TotalAttempts: w.TotalAttempts,
			WrongCount:    w.WrongCount,
		})
	}

	return report, nil
}

// fillDaily expands the sparse store buckets into the full window, oldest
// day first, with zero entries for days without answers.
func fillDaily(windowStart time.Time, buckets []store.DailyBucket) []DayActivity {
	byDate := make(map[string]store.DailyBucket, len(buckets))
	for _, b := range buckets {
		byDate[truncateDay(b.Date).Format("2006-01-02")] = b
	}

	daily := make([]DayActivity, 0, activityDays)
	for i := 0; i < activityDays; i++ {
		date := windowStart.AddDate(0, 0, i).Format("2006-01-02")
		day := DayActivity{Date: date}
		if b, ok := byDate[date]; ok {
			day.Total = b.Total
			day.Correct = b.Correct
		}
		daily = append(daily, day)
	}
	return daily
}

func (s *serviceImpl) TopicProgress(ctx context.Context, userID, topicID uuid.UUID) (*TopicProgress, error) {
	if _, err := s.topics.GetByID(ctx, topicID); err != nil {
		if errors.Is(err, store.ErrTopicNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}

	total, err := s.topics.CountVocabulary(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to count topic vocabulary: %w", err)
	}

	mastered, err := s.cards.CountAtLevel(ctx, userID, topicID, mastery.MaxLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to count mastered cards: %w", err)
	}

	progress := &TopicProgress{
		TopicID:       topicID,
		TotalWords:    total,
		MasteredWords: mastered,
	}
	if total > 0 {
		progress.Percent = mastered * 100 / total
	}
	return progress, nil
}
