package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pklenglish/study-api/internal/domain"
	"github.com/pklenglish/study-api/internal/platform/logger"
	"github.com/pklenglish/study-api/internal/store"
)

// NotebookStore implements store.NotebookStore using PostgreSQL.
type NotebookStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewNotebookStore creates a new PostgreSQL implementation of the
// NotebookStore interface. If logger is nil, the default logger is used.
func NewNotebookStore(db store.DBTX, log *slog.Logger) *NotebookStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &NotebookStore{
		db:     db,
		logger: log.With(slog.String("component", "notebook_store")),
	}
}

var _ store.NotebookStore = (*NotebookStore)(nil)

// WithTx returns a NotebookStore bound to the given transaction.
func (s *NotebookStore) WithTx(tx *sql.Tx) store.NotebookStore {
	return &NotebookStore{db: tx, logger: s.logger}
}

// Add implements store.NotebookStore.Add.
func (s *NotebookStore) Add(ctx context.Context, entry *domain.NotebookEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO notebook_entries (id, user_id, vocabulary_id, note, added_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.VocabularyID, entry.Note, entry.AddedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrNotebookEntryExists
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: vocabulary %s not found", store.ErrInvalidEntity, entry.VocabularyID)
		}
		return fmt.Errorf("failed to add notebook entry: %w", err)
	}

	log.Info("notebook entry added",
		slog.String("user_id", entry.UserID.String()),
		slog.String("vocabulary_id", entry.VocabularyID.String()))
	return nil
}

// Remove implements store.NotebookStore.Remove.
func (s *NotebookStore) Remove(ctx context.Context, userID, vocabularyID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM notebook_entries WHERE user_id = $1 AND vocabulary_id = $2`,
		userID, vocabularyID)
	if err != nil {
		return fmt.Errorf("failed to remove notebook entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return store.ErrNotebookEntryNotFound
	}

	return nil
}

// UpdateNote implements store.NotebookStore.UpdateNote.
func (s *NotebookStore) UpdateNote(ctx context.Context, userID, vocabularyID uuid.UUID, note string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE notebook_entries SET note = $1 WHERE user_id = $2 AND vocabulary_id = $3`,
		note, userID, vocabularyID)
	if err != nil {
		return fmt.Errorf("failed to update notebook note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return store.ErrNotebookEntryNotFound
	}

	return nil
}

// List implements store.NotebookStore.List.
func (s *NotebookStore) List(ctx context.Context, userID uuid.UUID) ([]store.NotebookItem, error) {
	query := `
		SELECT
			nb.id, nb.note, nb.added_at,
			v.id, v.topic_id, v.word, v.phonetic, v.definition,
			v.example_sentence, v.meaning_sentence, v.audio_ref,
			t.title
		FROM notebook_entries nb
		JOIN vocabulary v ON nb.vocabulary_id = v.id
		JOIN topics t ON v.topic_id = t.id
		WHERE nb.user_id = $1
		ORDER BY nb.added_at DESC, nb.id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notebook: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []store.NotebookItem
	for rows.Next() {
		var item store.NotebookItem
		err := rows.Scan(
			&item.Entry.ID,
			&item.Entry.Note,
			&item.Entry.AddedAt,
			&item.Vocabulary.ID,
			&item.Vocabulary.TopicID,
			&item.Vocabulary.Word,
			&item.Vocabulary.Phonetic,
			&item.Vocabulary.Definition,
			&item.Vocabulary.ExampleSentence,
			&item.Vocabulary.MeaningSentence,
			&item.Vocabulary.AudioRef,
			&item.TopicTitle,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notebook item: %w", err)
		}
		item.Entry.UserID = userID
		item.Entry.VocabularyID = item.Vocabulary.ID
		items = append(items, item)
	}

	return items, rows.Err()
}

// ListVocabulary implements store.NotebookStore.ListVocabulary.
func (s *NotebookStore) ListVocabulary(ctx context.Context, userID uuid.UUID) ([]*domain.Vocabulary, error) {
	query := `
		SELECT
			v.id, v.topic_id, v.word, v.phonetic, v.definition,
			v.example_sentence, v.meaning_sentence, v.audio_ref,
			v.created_at, v.updated_at
		FROM notebook_entries nb
		JOIN vocabulary v ON nb.vocabulary_id = v.id
		WHERE nb.user_id = $1
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notebook vocabulary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var vocabs []*domain.Vocabulary
	for rows.Next() {
		vocab, err := scanVocabulary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notebook vocabulary: %w", err)
		}
		vocabs = append(vocabs, vocab)
	}

	return vocabs, rows.Err()
}
