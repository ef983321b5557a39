package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pklenglish/study-api/internal/domain/mastery"
	"github.com/pklenglish/study-api/internal/platform/logger"
	"github.com/pklenglish/study-api/internal/store"
)

// FlashcardStore implements store.FlashcardStore using PostgreSQL.
type FlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewFlashcardStore creates a new PostgreSQL implementation of the
// FlashcardStore interface. If logger is nil, the default logger is used.
func NewFlashcardStore(db store.DBTX, log *slog.Logger) *FlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &FlashcardStore{
		db:     db,
		logger: log.With(slog.String("component", "flashcard_store")),
	}
}

var _ store.FlashcardStore = (*FlashcardStore)(nil)

// WithTx returns a FlashcardStore bound to the given transaction.
func (s *FlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &FlashcardStore{db: tx, logger: s.logger}
}

// ListVocabIDs implements store.FlashcardStore.ListVocabIDs.
func (s *FlashcardStore) ListVocabIDs(ctx context.Context, userID, topicID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT fc.vocabulary_id
		FROM flashcards fc
		JOIN vocabulary v ON fc.vocabulary_id = v.id
		WHERE fc.user_id = $1 AND v.topic_id = $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list flashcard vocabulary IDs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan vocabulary ID: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// CreateMissing implements store.FlashcardStore.CreateMissing.
// The ON CONFLICT clause turns concurrent duplicate inserts into no-ops,
// keeping the sync step idempotent.
func (s *FlashcardStore) CreateMissing(ctx context.Context, userID uuid.UUID, vocabIDs []uuid.UUID) error {
	if len(vocabIDs) == 0 {
		return nil
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO flashcards (id, user_id, vocabulary_id, mastery_level, created_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, $4)
		ON CONFLICT (user_id, vocabulary_id) DO NOTHING
	`

	now := time.Now().UTC()
	for _, vocabID := range vocabIDs {
		if _, err := s.db.ExecContext(ctx, query, uuid.New(), userID, vocabID, now); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: vocabulary %s", store.ErrInvalidEntity, vocabID)
			}
			return fmt.Errorf("failed to create flashcard: %w", err)
		}
	}

	log.Debug("synced missing flashcards",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(vocabIDs)))
	return nil
}

const cardRowColumns = `
	fc.id, fc.mastery_level, fc.last_reviewed,
	v.id, v.word, v.phonetic, v.definition, v.example_sentence, v.meaning_sentence, v.audio_ref,
	t.image_ref
`

func scanCardRow(row interface{ Scan(...any) error }) (*store.CardRow, error) {
	var cr store.CardRow
	var lastReviewed sql.NullTime

	err := row.Scan(
		&cr.CardID,
		&cr.MasteryLevel,
		&lastReviewed,
		&cr.VocabularyID,
		&cr.Word,
		&cr.Phonetic,
		&cr.Definition,
		&cr.ExampleSentence,
		&cr.MeaningSentence,
		&cr.AudioRef,
		&cr.TopicImageRef,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewed.Valid {
		t := lastReviewed.Time
		cr.LastReviewed = &t
	}

	return &cr, nil
}

// NextCandidate implements store.FlashcardStore.NextCandidate. Candidates
// are ordered never-reviewed first, then by oldest review, with a random
// tie-break among cards of equal rank.
func (s *FlashcardStore) NextCandidate(
	ctx context.Context,
	userID, topicID uuid.UUID,
	excludeIDs []uuid.UUID,
) (*store.CardRow, error) {
	args := []any{userID, topicID, mastery.MaxLevel}

	var exclude string
	if len(excludeIDs) > 0 {
		placeholders := make([]string, len(excludeIDs))
		for i, id := range excludeIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		exclude = fmt.Sprintf("AND fc.id NOT IN (%s)", strings.Join(placeholders, ", "))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM flashcards fc
		JOIN vocabulary v ON fc.vocabulary_id = v.id
		JOIN topics t ON v.topic_id = t.id
		WHERE fc.user_id = $1
		  AND v.topic_id = $2
		  AND fc.mastery_level < $3
		  %s
		ORDER BY
			fc.last_reviewed IS NULL DESC,
			fc.last_reviewed ASC,
			random()
		LIMIT 1
	`, cardRowColumns, exclude)

	cr, err := scanCardRow(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrFlashcardNotFound
		}
		return nil, fmt.Errorf("failed to query next candidate: %w", err)
	}

	return cr, nil
}

// Get implements store.FlashcardStore.Get. The user ID is part of the
// lookup, so a card belonging to someone else reads as not found.
func (s *FlashcardStore) Get(ctx context.Context, userID, cardID uuid.UUID) (*store.CardRow, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM flashcards fc
		JOIN vocabulary v ON fc.vocabulary_id = v.id
		JOIN topics t ON v.topic_id = t.id
		WHERE fc.id = $1 AND fc.user_id = $2
	`, cardRowColumns)

	cr, err := scanCardRow(s.db.QueryRowContext(ctx, query, cardID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrFlashcardNotFound
		}
		return nil, fmt.Errorf("failed to get flashcard: %w", err)
	}

	return cr, nil
}

// UpdateReview implements store.FlashcardStore.UpdateReview.
func (s *FlashcardStore) UpdateReview(
	ctx context.Context,
	cardID uuid.UUID,
	level mastery.Level,
	reviewedAt time.Time,
) error {
	query := `
		UPDATE flashcards
		SET mastery_level = $1, last_reviewed = $2, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, level, reviewedAt, cardID)
	if err != nil {
		return fmt.Errorf("failed to update flashcard review: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return store.ErrFlashcardNotFound
	}

	return nil
}

// CountBelowLevel implements store.FlashcardStore.CountBelowLevel.
func (s *FlashcardStore) CountBelowLevel(
	ctx context.Context,
	userID, topicID uuid.UUID,
	threshold mastery.Level,
) (int, error) {
	query := `
		SELECT COUNT(fc.id)
		FROM flashcards fc
		JOIN vocabulary v ON fc.vocabulary_id = v.id
		WHERE fc.user_id = $1 AND v.topic_id = $2 AND fc.mastery_level < $3
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, topicID, threshold).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count flashcards below level: %w", err)
	}

	return count, nil
}

// CountAtLevel implements store.FlashcardStore.CountAtLevel.
func (s *FlashcardStore) CountAtLevel(
	ctx context.Context,
	userID, topicID uuid.UUID,
	level mastery.Level,
) (int, error) {
	query := `
		SELECT COUNT(fc.id)
		FROM flashcards fc
		JOIN vocabulary v ON fc.vocabulary_id = v.id
		WHERE fc.user_id = $1 AND v.topic_id = $2 AND fc.mastery_level = $3
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, topicID, level).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count flashcards at level: %w", err)
	}

	return count, nil
}

// ResetTopic implements store.FlashcardStore.ResetTopic.
func (s *FlashcardStore) ResetTopic(ctx context.Context, userID, topicID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE flashcards fc
		SET mastery_level = 0, last_reviewed = NULL, updated_at = $3
		FROM vocabulary v
		WHERE fc.vocabulary_id = v.id
		  AND fc.user_id = $1
		  AND v.topic_id = $2
	`

	result, err := s.db.ExecContext(ctx, query, userID, topicID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to reset topic progress: %w", err)
	}

	affected, _ := result.RowsAffected()
	log.Info("reset topic progress",
		slog.String("user_id", userID.String()),
		slog.String("topic_id", topicID.String()),
		slog.Int64("cards_reset", affected))
	return nil
}

// CountByLevel implements store.FlashcardStore.CountByLevel.
func (s *FlashcardStore) CountByLevel(ctx context.Context, userID uuid.UUID) (map[mastery.Level]int, error) {
	query := `
		SELECT mastery_level, COUNT(id)
		FROM flashcards
		WHERE user_id = $1
		GROUP BY mastery_level
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count flashcards by level: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[mastery.Level]int)
	for rows.Next() {
		var level mastery.Level
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("failed to scan level count: %w", err)
		}
		counts[level] = count
	}

	return counts, rows.Err()
}

// CountAll implements store.FlashcardStore.CountAll.
func (s *FlashcardStore) CountAll(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(id) FROM flashcards WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count flashcards: %w", err)
	}

	return count, nil
}
