package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pklenglish/study-api/internal/store"
)

// StudyLogStore implements store.StudyLogStore using PostgreSQL.
type StudyLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewStudyLogStore creates a new PostgreSQL implementation of the
// StudyLogStore interface. If logger is nil, the default logger is used.
func NewStudyLogStore(db store.DBTX, log *slog.Logger) *StudyLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &StudyLogStore{
		db:     db,
		logger: log.With(slog.String("component", "studylog_store")),
	}
}

var _ store.StudyLogStore = (*StudyLogStore)(nil)

// WithTx returns a StudyLogStore bound to the given transaction.
func (s *StudyLogStore) WithTx(tx *sql.Tx) store.StudyLogStore {
	return &StudyLogStore{db: tx, logger: s.logger}
}

// Append implements store.StudyLogStore.Append.
func (s *StudyLogStore) Append(ctx context.Context, userID, vocabularyID uuid.UUID, isCorrect bool) error {
	query := `
		INSERT INTO study_logs (id, user_id, vocabulary_id, is_correct, answered_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.ExecContext(ctx, query,
		uuid.New(), userID, vocabularyID, isCorrect, time.Now().UTC())
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: user or vocabulary not found", store.ErrInvalidEntity)
		}
		return fmt.Errorf("failed to append study log: %w", err)
	}

	return nil
}

// Totals implements store.StudyLogStore.Totals.
func (s *StudyLogStore) Totals(ctx context.Context, userID uuid.UUID) (store.AnswerTotals, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_correct)
		FROM study_logs
		WHERE user_id = $1
	`

	var totals store.AnswerTotals
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&totals.Total, &totals.Correct); err != nil {
		return store.AnswerTotals{}, fmt.Errorf("failed to query answer totals: %w", err)
	}

	return totals, nil
}

// DailyBuckets implements store.StudyLogStore.DailyBuckets.
func (s *StudyLogStore) DailyBuckets(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]store.DailyBucket, error) {
	query := `
		SELECT DATE(answered_at), COUNT(*), COUNT(*) FILTER (WHERE is_correct)
		FROM study_logs
		WHERE user_id = $1 AND answered_at >= $2
		GROUP BY DATE(answered_at)
		ORDER BY DATE(answered_at) ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily buckets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var buckets []store.DailyBucket
	for rows.Next() {
		var b store.DailyBucket
		if err := rows.Scan(&b.Date, &b.Total, &b.Correct); err != nil {
			return nil, fmt.Errorf("failed to scan daily bucket: %w", err)
		}
		buckets = append(buckets, b)
	}

	return buckets, rows.Err()
}

// MostWrong implements store.StudyLogStore.MostWrong. Vocabulary ID is the
// tie-break so equal wrong counts order the same way on every call.
func (s *StudyLogStore) MostWrong(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]store.WrongCount, error) {
	query := `
		SELECT
			v.id,
			v.word,
			v.meaning_sentence,
			COUNT(*),
			COUNT(*) FILTER (WHERE NOT sl.is_correct)
		FROM study_logs sl
		JOIN vocabulary v ON sl.vocabulary_id = v.id
		WHERE sl.user_id = $1
		GROUP BY v.id, v.word, v.meaning_sentence
		HAVING COUNT(*) FILTER (WHERE NOT sl.is_correct) > 0
		ORDER BY COUNT(*) FILTER (WHERE NOT sl.is_correct) DESC, v.id ASC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query most wrong words: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []store.WrongCount
	for rows.Next() {
		var wc store.WrongCount
		if err := rows.Scan(&wc.VocabularyID, &wc.Word, &wc.MeaningSentence, &wc.TotalAttempts, &wc.WrongCount); err != nil {
			return nil, fmt.Errorf("failed to scan wrong count: %w", err)
		}
		results = append(results, wc)
	}

	return results, rows.Err()
}

// DistinctAnswerDates implements store.StudyLogStore.DistinctAnswerDates.
func (s *StudyLogStore) DistinctAnswerDates(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	query := `
		SELECT DISTINCT DATE(answered_at)
		FROM study_logs
		WHERE user_id = $1
		ORDER BY DATE(answered_at) DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query answer dates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan answer date: %w", err)
		}
		dates = append(dates, d)
	}

	return dates, rows.Err()
}
