// Package stats implements the statistics and streak calculator: mastery
// histograms, answer accuracy, recent daily activity, most-missed words
// and the consecutive-day study streak, all derived on demand from the
// flashcard table and the append-only study log.
package stats

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pklenglish/study-api/internal/domain/mastery"
)

// ErrTopicNotFound indicates the topic does not exist.
var ErrTopicNotFound = errors.New("topic not found")

// activityDays is the size of the recent-activity window, today included.
const activityDays = 7

// mostWrongLimit caps the most-missed word ranking.
const mostWrongLimit = 5

// LevelBucket is one bar of the mastery histogram. Every level appears,
// zero counts included.
type LevelBucket struct {
	Level mastery.Level `json:"level"`
	Count int           `json:"count"`
}

// Summary is the lightweight per-user overview. TotalLearned counts cards
// the user has moved off level zero.
type Summary struct {
	TotalLearned int           `json:"total_learned"`
	Levels       []LevelBucket `json:"levels"`
}

// DayActivity is one calendar day of the recent-activity window. Days
// with no answers appear with zero counts.
type DayActivity struct {
	Date    string `json:"date"`
	Total   int    `json:"total"`
	Correct int    `json:"correct"`
}

// MissedWord ranks a vocabulary item by how often the user got it wrong.
type MissedWord struct {
	VocabularyID  uuid.UUID `json:"vocabulary_id"`
	Word          string    `json:"word"`
	Meaning       string    `json:"meaning"`
	TotalAttempts int       `json:"total_attempts"`
	WrongCount    int       `json:"wrong_count"`
}

// Report is the full statistics page for a user.
type Report struct {
	TotalWords     int           `json:"total_words"`
	MasteredWords  int           `json:"mastered_words"`
	TotalAnswers   int           `json:"total_answers"`
	CorrectAnswers int           `json:"correct_answers"`
	Accuracy       int           `json:"accuracy"`
	StreakDays     int           `json:"streak_days"`
	Daily          []DayActivity `json:"daily"`
	MostMissed     []MissedWord  `json:"most_missed"`
	Levels         []LevelBucket `json:"levels"`
}

// TopicProgress is the per-topic completion view shown on topic listings.
type TopicProgress struct {
	TopicID       uuid.UUID `json:"topic_id"`
	TotalWords    int       `json:"total_words"`
	MasteredWords int       `json:"mastered_words"`
	Percent       int       `json:"percent"`
}

// Service derives user statistics. All figures are computed from the
// stored state at call time; nothing is cached or denormalized.
type Service interface {
	// Summarize returns the mastery histogram and total card count.
	Summarize(ctx context.Context, userID uuid.UUID) (*Summary, error)

	// Report returns the full statistics page: accuracy, streak, recent
	// daily activity and the most-missed words.
	Report(ctx context.Context, userID uuid.UUID) (*Report, error)

	// TopicProgress reports how much of one topic the user has mastered.
	// Returns ErrTopicNotFound if the topic does not exist.
	TopicProgress(ctx context.Context, userID, topicID uuid.UUID) (*TopicProgress, error)
}

// streakDays counts consecutive studied days ending at the chain head,
// given the distinct answer dates in descending order. The chain may be
// anchored at today or at yesterday, so a streak survives until a full
// calendar day is skipped.
func streakDays(today time.Time, dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	today = truncateDay(today)
	head := truncateDay(dates[0])
	if head.Before(today.AddDate(0, 0, -1)) {
		return 0
	}

	streak := 1
	prev := head
	for _, d := range dates[1:] {
		d = truncateDay(d)
		if !d.Equal(prev.AddDate(0, 0, -1)) {
			break
		}
		streak++
		prev = d
	}
	return streak
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
