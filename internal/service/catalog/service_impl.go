package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pklenglish/study-api/internal/domain"
	"github.com/pklenglish/study-api/internal/platform/logger"
	"github.com/pklenglish/study-api/internal/store"
)

type serviceImpl struct {
	topics store.TopicStore
	vocab  store.VocabularyStore
	logger *slog.Logger
}

var _ Service = (*serviceImpl)(nil)

// NewService creates a catalog service. logger may be nil.
func NewService(topics store.TopicStore, vocab store.VocabularyStore, log *slog.Logger) Service {
	if topics == nil {
		panic("topic store cannot be nil")
	}
	if vocab == nil {
		panic("vocabulary store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &serviceImpl{
		topics: topics,
		vocab:  vocab,
		logger: log.With(slog.String("component", "catalog_service")),
	}
}

func (s *serviceImpl) ListTopics(ctx context.Context, userID uuid.UUID) ([]*domain.Topic, error) {
	public, err := s.topics.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list public topics: %w", err)
	}

	private, err := s.topics.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned topics: %w", err)
	}

	return append(public, private...), nil
}

func (s *serviceImpl) GetTopic(ctx context.Context, userID, topicID uuid.UUID) (*domain.Topic, error) {
	topic, err := s.visibleTopic(ctx, userID, topicID)
	if err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *serviceImpl) CreateTopic(ctx context.Context, userID uuid.UUID, input TopicInput) (*domain.Topic, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	topic, err := domain.NewUserTopic(userID, input.Title, input.Description)
	if err != nil {
		return nil, err
	}
	topic.ImageRef = input.ImageRef

	if err := s.topics.Create(ctx, topic); err != nil {
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}

	log.Info("topic created",
		slog.String("topic_id", topic.ID.String()),
		slog.String("owner_id", userID.String()))
	return topic, nil
}

func (s *serviceImpl) UpdateTopic(ctx context.Context, userID, topicID uuid.UUID, input TopicInput) (*domain.Topic, error) {
	topic, err := s.ownedTopic(ctx, userID, topicID)
	if err != nil {
		return nil, err
	}

	topic.Title = input.Title
	topic.Description = input.Description
	topic.ImageRef = input.ImageRef
	topic.UpdatedAt = time.Now().UTC()

	if err := topic.Validate(); err != nil {
		return nil, err
	}
	if err := s.topics.Update(ctx, topic); err != nil {
		return nil, fmt.Errorf("failed to update topic: %w", err)
	}
	return topic, nil
}

func (s *serviceImpl) DeleteTopic(ctx context.Context, userID, topicID uuid.UUID) error {
	if _, err := s.ownedTopic(ctx, userID, topicID); err != nil {
		return err
	}

	if err := s.topics.Delete(ctx, topicID); err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}
	return nil
}

func (s *serviceImpl) ListVocabulary(ctx context.Context, userID, topicID uuid.UUID) ([]*domain.Vocabulary, error) {
	if _, err := s.visibleTopic(ctx, userID, topicID); err != nil {
		return nil, err
	}

	vocabs, err := s.vocab.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vocabulary: %w", err)
	}
	return vocabs, nil
}

func (s *serviceImpl) CreateVocabulary(ctx context.Context, userID, topicID uuid.UUID, input VocabularyInput) (*domain.Vocabulary, error) {
	if _, err := s.ownedTopic(ctx, userID, topicID); err != nil {
		return nil, err
	}

	vocab, err := domain.NewVocabulary(topicID, input.Word, input.Definition)
	if err != nil {
		return nil, err
	}
	applyVocabInput(vocab, input)

	if err := s.vocab.Create(ctx, vocab); err != nil {
		return nil, fmt.Errorf("failed to create vocabulary: %w", err)
	}
	return vocab, nil
}

func (s *serviceImpl) UpdateVocabulary(ctx context.Context, userID, vocabularyID uuid.UUID, input VocabularyInput) (*domain.Vocabulary, error) {
	vocab, err := s.ownedVocabulary(ctx, userID, vocabularyID)
	if err != nil {
		return nil, err
	}

	vocab.Word = input.Word
	vocab.Definition = input.Definition
	applyVocabInput(vocab, input)
	vocab.UpdatedAt = time.Now().UTC()

	if err := vocab.Validate(); err != nil {
		return nil, err
	}
	if err := s.vocab.Update(ctx, vocab); err != nil {
		return nil, fmt.Errorf("failed to update vocabulary: %w", err)
	}
	return vocab, nil
}

func (s *serviceImpl) DeleteVocabulary(ctx context.Context, userID, vocabularyID uuid.UUID) error {
	if _, err := s.ownedVocabulary(ctx, userID, vocabularyID); err != nil {
		return err
	}

	if err := s.vocab.Delete(ctx, vocabularyID); err != nil {
		return fmt.Errorf("failed to delete vocabulary: %w", err)
	}
	return nil
}

func applyVocabInput(vocab *domain.Vocabulary, input VocabularyInput) {
	vocab.Phonetic = input.Phonetic
	vocab.ExampleSentence = input.ExampleSentence
	vocab.MeaningSentence = input.MeaningSentence
	vocab.AudioRef = input.AudioRef
}

// visibleTopic loads a topic the user may read: public, or owned by them.
func (s *serviceImpl) visibleTopic(ctx context.Context, userID, topicID uuid.UUID) (*domain.Topic, error) {
	topic, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, store.ErrTopicNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	if !topic.IsPublic && !topic.OwnedBy(userID) {
		return nil, ErrTopicNotVisible
	}
	return topic, nil
}

// ownedTopic loads a topic the user may modify.
func (s *serviceImpl) ownedTopic(ctx context.Context, userID, topicID uuid.UUID) (*domain.Topic, error) {
	topic, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, store.ErrTopicNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	if !topic.OwnedBy(userID) {
		return nil, ErrNotOwner
	}
	return topic, nil
}

// ownedVocabulary loads a vocabulary item whose topic the user owns.
func (s *serviceImpl) ownedVocabulary(ctx context.Context, userID, vocabularyID uuid.UUID) (*domain.Vocabulary, error) {
	vocab, err := s.vocab.GetByID(ctx, vocabularyID)
	if err != nil {
		if errors.Is(err, store.ErrVocabularyNotFound) {
			return nil, ErrVocabularyNotFound
		}
		return nil, fmt.Errorf("failed to get vocabulary: %w", err)
	}
	if _, err := s.ownedTopic(ctx, userID, vocab.TopicID); err != nil {
		return nil, err
	}
	return vocab, nil
}
