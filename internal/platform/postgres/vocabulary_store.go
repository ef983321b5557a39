package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pklenglish/study-api/internal/domain"
	"github.com/pklenglish/study-api/internal/platform/logger"
	"github.com/pklenglish/study-api/internal/store"
)

// VocabularyStore implements store.VocabularyStore using PostgreSQL.
type VocabularyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewVocabularyStore creates a new PostgreSQL implementation of the
// VocabularyStore interface. If logger is nil, the default logger is used.
func NewVocabularyStore(db store.DBTX, log *slog.Logger) *VocabularyStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &VocabularyStore{
		db:     db,
		logger: log.With(slog.String("component", "vocabulary_store")),
	}
}

var _ store.VocabularyStore = (*VocabularyStore)(nil)

// WithTx returns a VocabularyStore bound to the given transaction.
func (s *VocabularyStore) WithTx(tx *sql.Tx) store.VocabularyStore {
	return &VocabularyStore{db: tx, logger: s.logger}
}

// Create implements store.VocabularyStore.Create.
func (s *VocabularyStore) Create(ctx context.Context, vocab *domain.Vocabulary) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := vocab.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO vocabulary
			(id, topic_id, word, phonetic, definition, example_sentence, meaning_sentence, audio_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.db.ExecContext(ctx, query,
		vocab.ID,
		vocab.TopicID,
		vocab.Word,
		vocab.Phonetic,
		vocab.Definition,
		vocab.ExampleSentence,
		vocab.MeaningSentence,
		vocab.AudioRef,
		vocab.CreatedAt,
		vocab.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: topic %s not found", store.ErrInvalidEntity, vocab.TopicID)
		}
		return fmt.Errorf("failed to create vocabulary: %w", err)
	}

	log.Info("vocabulary created",
		slog.String("vocabulary_id", vocab.ID.String()),
		slog.String("topic_id", vocab.TopicID.String()))
	return nil
}

const vocabularyColumns = `
	id, topic_id, word, phonetic, definition, example_sentence, meaning_sentence, audio_ref, created_at, updated_at
`

func scanVocabulary(row interface{ Scan(...any) error }) (*domain.Vocabulary, error) {
	var v domain.Vocabulary
	err := row.Scan(
		&v.ID,
		&v.TopicID,
		&v.Word,
		&v.Phonetic,
		&v.Definition,
		&v.ExampleSentence,
		&v.MeaningSentence,
		&v.AudioRef,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetByID implements store.VocabularyStore.GetByID.
func (s *VocabularyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vocabulary, error) {
	query := fmt.Sprintf(`SELECT %s FROM vocabulary WHERE id = $1`, vocabularyColumns)

	vocab, err := scanVocabulary(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrVocabularyNotFound
		}
		return nil, fmt.Errorf("failed to get vocabulary: %w", err)
	}

	return vocab, nil
}

// ListByTopic implements store.VocabularyStore.ListByTopic.
func (s *VocabularyStore) ListByTopic(ctx context.Context, topicID uuid.UUID) ([]*domain.Vocabulary, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM vocabulary WHERE topic_id = $1 ORDER BY created_at, id`, vocabularyColumns)

	rows, err := s.db.QueryContext(ctx, query, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vocabulary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var vocabs []*domain.Vocabulary
	for rows.Next() {
		vocab, err := scanVocabulary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vocabulary: %w", err)
		}
		vocabs = append(vocabs, vocab)
	}

	return vocabs, rows.Err()
}

// ListIDsByTopic implements store.VocabularyStore.ListIDsByTopic.
func (s *VocabularyStore) ListIDsByTopic(ctx context.Context, topicID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM vocabulary WHERE topic_id = $1`, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vocabulary IDs: %w", err)
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

// Update implements store.VocabularyStore.Update.
func (s *VocabularyStore) Update(ctx context.Context, vocab *domain.Vocabulary) error {
	if err := vocab.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE vocabulary
		SET word = $1, phonetic = $2, definition = $3, example_sentence = $4,
		    meaning_sentence = $5, audio_ref = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := s.db.ExecContext(ctx, query,
		vocab.Word,
		vocab.Phonetic,
		vocab.Definition,
		vocab.ExampleSentence,
		vocab.MeaningSentence,
		vocab.AudioRef,
		vocab.UpdatedAt,
		vocab.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update vocabulary: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return store.ErrVocabularyNotFound
	}

	return nil
}

// Delete implements store.VocabularyStore.Delete.
func (s *VocabularyStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM vocabulary WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vocabulary: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return store.ErrVocabularyNotFound
	}

	log.Info("vocabulary deleted", slog.String("vocabulary_id", id.String()))
	return nil
}
