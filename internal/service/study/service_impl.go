package study

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pklenglish/study-api/internal/domain/mastery"
	"github.com/pklenglish/study-api/internal/platform/logger"
	"github.com/pklenglish/study-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	db     *sql.DB
	vocab  store.VocabularyStore
	cards  store.FlashcardStore
	logs   store.StudyLogStore
	rng    Rand
	logger *slog.Logger
}

// NewService creates the card selection engine. db may be nil, in which
// case answer submission runs without a wrapping transaction; unit tests
// with in-memory stores rely on this.
func NewService(
	db *sql.DB,
	vocab store.VocabularyStore,
	cards store.FlashcardStore,
	logs store.StudyLogStore,
	rng Rand,
	log *slog.Logger,
) Service {
	if vocab == nil {
		panic("vocab store cannot be nil")
	}
	if cards == nil {
		panic("flashcard store cannot be nil")
	}
	if logs == nil {
		panic("study log store cannot be nil")
	}
	if rng == nil {
		rng = DefaultRand()
	}
	if log == nil {
		log = slog.Default()
	}

	return &serviceImpl{
		db:     db,
		vocab:  vocab,
		cards:  cards,
		logs:   logs,
		rng:    rng,
		logger: log.With(slog.String("component", "study_service")),
	}
}

// NextCard implements Service.NextCard.
func (s *serviceImpl) NextCard(
	ctx context.Context,
	userID, topicID uuid.UUID,
	excludedCardIDs []uuid.UUID,
) (*Drill, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.syncFlashcards(ctx, userID, topicID); err != nil {
		return nil, err
	}

	row, err := s.cards.NextCandidate(ctx, userID, topicID, excludedCardIDs)
	if err != nil {
		if errors.Is(err, store.ErrFlashcardNotFound) {
			log.Debug("topic exhausted for sitting",
				slog.String("user_id", userID.String()),
				slog.String("topic_id", topicID.String()))
			return nil, ErrNoCardsRemaining
		}
		return nil, fmt.Errorf("failed to select next card: %w", err)
	}

	return buildDrill(row, s.rng), nil
}

// syncFlashcards creates level-0 flashcards for every vocabulary item
// under the topic the user has no card for yet. The store's conflict
// handling makes a concurrent duplicate insert a no-op, so running this
// twice is harmless.
func (s *serviceImpl) syncFlashcards(ctx context.Context, userID, topicID uuid.UUID) error {
	allIDs, err := s.vocab.ListIDsByTopic(ctx, topicID)
	if err != nil {
		return fmt.Errorf("failed to list topic vocabulary: %w", err)
	}

	haveIDs, err := s.cards.ListVocabIDs(ctx, userID, topicID)
	if err != nil {
		return fmt.Errorf("failed to list user flashcards: %w", err)
	}

	have := make(map[uuid.UUID]struct{}, len(haveIDs))
	for _, id := range haveIDs {
		have[id] = struct{}{}
	}

	var missing []uuid.UUID
	for _, id := range allIDs {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	if err := s.cards.CreateMissing(ctx, userID, missing); err != nil {
		return fmt.Errorf("failed to sync flashcards: %w", err)
	}

	return nil
}

// SubmitAnswer implements Service.SubmitAnswer.
func (s *serviceImpl) SubmitAnswer(
	ctx context.Context,
	userID, cardID uuid.UUID,
	rawAnswer string,
) (*AnswerResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row, err := s.cards.Get(ctx, userID, cardID)
	if err != nil {
		if errors.Is(err, store.ErrFlashcardNotFound) {
			log.Warn("answer submitted for unknown card",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get flashcard: %w", err)
	}

	isCorrect := AnswersMatch(rawAnswer, row.Word)
	newLevel := mastery.Advance(row.MasteryLevel, isCorrect)
	now := time.Now().UTC()

	err = s.runInTx(ctx, func(cards store.FlashcardStore, logs store.StudyLogStore) error {
		if err := cards.UpdateReview(ctx, cardID, newLevel, now); err != nil {
			return fmt.Errorf("failed to persist review: %w", err)
		}
		if err := logs.Append(ctx, userID, row.VocabularyID, isCorrect); err != nil {
			return fmt.Errorf("failed to append study log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("answer processed",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Bool("is_correct", isCorrect),
		slog.Int("new_level", int(newLevel)))

	return &AnswerResult{
		IsCorrect: isCorrect,
		NewLevel:  newLevel,
		Word:      row.Word,
		Phonetic:  row.Phonetic,
		Meaning:   row.MeaningSentence,
		AudioRef:  row.AudioRef,
	}, nil
}

// runInTx executes fn against transaction-bound stores when a database
// handle is available, and directly against the configured stores
// otherwise.
func (s *serviceImpl) runInTx(
	ctx context.Context,
	fn func(cards store.FlashcardStore, logs store.StudyLogStore) error,
) error {
	if s.db == nil {
		return fn(s.cards, s.logs)
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(s.cards.WithTx(tx), s.logs.WithTx(tx))
	})
}

// Progress implements Service.Progress.
func (s *serviceImpl) Progress(
	ctx context.Context,
	userID, topicID uuid.UUID,
	excludedCount int,
) (int, error) {
	toLearn, err := s.cards.CountBelowLevel(ctx, userID, topicID, mastery.MaxLevel)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards to learn: %w", err)
	}

	if toLearn == 0 {
		return 0, nil
	}

	return excludedCount * 100 / toLearn, nil
}

// ResetTopic implements Service.ResetTopic.
func (s *serviceImpl) ResetTopic(ctx context.Context, userID, topicID uuid.UUID) error {
	if err := s.cards.ResetTopic(ctx, userID, topicID); err != nil {
		return fmt.Errorf("failed to reset topic: %w", err)
	}

	return nil
}
