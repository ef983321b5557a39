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

// TopicStore implements store.TopicStore using PostgreSQL.
type TopicStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTopicStore creates a new PostgreSQL implementation of the TopicStore
// interface. If logger is nil, the default logger is used.
func NewTopicStore(db store.DBTX, log *slog.Logger) *TopicStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &TopicStore{
		db:     db,
		logger: log.With(slog.String("component", "topic_store")),
	}
}

var _ store.TopicStore = (*TopicStore)(nil)

// WithTx returns a TopicStore bound to the given transaction.
func (s *TopicStore) WithTx(tx *sql.Tx) store.TopicStore {
	return &TopicStore{db: tx, logger: s.logger}
}

// Create implements store.TopicStore.Create.
func (s *TopicStore) Create(ctx context.Context, topic *domain.Topic) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := topic.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO topics (id, title, description, image_ref, owner_id, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var owner uuid.NullUUID
	if topic.Owner != nil {
		owner = uuid.NullUUID{UUID: *topic.Owner, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		topic.ID,
		topic.Title,
		topic.Description,
		topic.ImageRef,
		owner,
		topic.IsPublic,
		topic.CreatedAt,
		topic.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: owner not found", store.ErrInvalidEntity)
		}
		return fmt.Errorf("failed to create topic: %w", err)
	}

	log.Info("topic created",
		slog.String("topic_id", topic.ID.String()),
		slog.Bool("is_public", topic.IsPublic))
	return nil
}

const topicColumns = `id, title, description, image_ref, owner_id, is_public, created_at, updated_at`

func scanTopic(row interface{ Scan(...any) error }) (*domain.Topic, error) {
	var t domain.Topic
	var owner uuid.NullUUID

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.ImageRef,
		&owner,
		&t.IsPublic,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if owner.Valid {
		id := owner.UUID
		t.Owner = &id
	}

	return &t, nil
}

// GetByID implements store.TopicStore.GetByID.
func (s *TopicStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error) {
	query := fmt.Sprintf(`SELECT %s FROM topics WHERE id = $1`, topicColumns)

	topic, err := scanTopic(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}

	return topic, nil
}

func (s *TopicStore) list(ctx context.Context, query string, args ...any) ([]*domain.Topic, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var topics []*domain.Topic
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, topic)
	}

	return topics, rows.Err()
}

// ListPublic implements store.TopicStore.ListPublic.
func (s *TopicStore) ListPublic(ctx context.Context) ([]*domain.Topic, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM topics
		WHERE is_public = TRUE AND owner_id IS NULL
		ORDER BY created_at DESC, id DESC
	`, topicColumns)

	return s.list(ctx, query)
}

// ListByOwner implements store.TopicStore.ListByOwner.
func (s *TopicStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Topic, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM topics
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`, topicColumns)

	return s.list(ctx, query, ownerID)
}

// Update implements store.TopicStore.Update.
func (s *TopicStore) Update(ctx context.Context, topic *domain.Topic) error {
	if err := topic.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE topics
		SET title = $1, description = $2, image_ref = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(ctx, query,
		topic.Title,
		topic.Description,
		topic.ImageRef,
		topic.UpdatedAt,
		topic.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update topic: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return store.ErrTopicNotFound
	}

	return nil
}

// Delete implements store.TopicStore.Delete.
func (s *TopicStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return store.ErrTopicNotFound
	}

	log.Info("topic deleted", slog.String("topic_id", id.String()))
	return nil
}

// CountVocabulary implements store.TopicStore.CountVocabulary.
func (s *TopicStore) CountVocabulary(ctx context.Context, topicID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(id) FROM vocabulary WHERE topic_id = $1`, topicID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count vocabulary: %w", err)
	}

	return count, nil
}
