package notebook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pklenglish/study-api/internal/domain"
	"github.com/pklenglish/study-api/internal/platform/logger"
	"github.com/pklenglish/study-api/internal/service/study"
	"github.com/pklenglish/study-api/internal/store"
)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	entries store.NotebookStore
	vocab   store.VocabularyStore
	rng     study.Rand
	logger  *slog.Logger
}

var _ Service = (*serviceImpl)(nil)

// NewService creates a notebook service. The rng and logger may be nil, in
// which case defaults are used.
func NewService(entries store.NotebookStore, vocab store.VocabularyStore, rng study.Rand, log *slog.Logger) Service {
	if entries == nil {
		panic("notebook store cannot be nil")
	}
	if vocab == nil {
		panic("vocabulary store cannot be nil")
	}
	if rng == nil {
		rng = study.DefaultRand()
	}
	if log == nil {
		log = slog.Default()
	}
	return &serviceImpl{
		entries: entries,
		vocab:   vocab,
		rng:     rng,
		logger:  log.With(slog.String("component", "notebook_service")),
	}
}

func (s *serviceImpl) Add(ctx context.Context, userID, vocabularyID uuid.UUID, note string) error {
	if _, err := s.vocab.GetByID(ctx, vocabularyID); err != nil {
		if errors.Is(err, store.ErrVocabularyNotFound) {
			return ErrVocabularyNotFound
		}
		return fmt.Errorf("checking vocabulary: %w", err)
	}

	entry, err := domain.NewNotebookEntry(userID, vocabularyID, note)
	if err != nil {
		return fmt.Errorf("creating notebook entry: %w", err)
	}
	if err := s.entries.Add(ctx, entry); err != nil {
		if errors.Is(err, store.ErrNotebookEntryExists) {
			return ErrAlreadySaved
		}
		return fmt.Errorf("saving notebook entry: %w", err)
	}
	return nil
}

func (s *serviceImpl) Remove(ctx context.Context, userID, vocabularyID uuid.UUID) error {
	if err := s.entries.Remove(ctx, userID, vocabularyID); err != nil {
		if errors.Is(err, store.ErrNotebookEntryNotFound) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("removing notebook entry: %w", err)
	}
	return nil
}

func (s *serviceImpl) UpdateNote(ctx context.Context, userID, vocabularyID uuid.UUID, note string) error {
	if err := s.entries.UpdateNote(ctx, userID, vocabularyID, note); err != nil {
		if errors.Is(err, store.ErrNotebookEntryNotFound) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("updating notebook note: %w", err)
	}
	return nil
}

func (s *serviceImpl) List(ctx context.Context, userID uuid.UUID) ([]store.NotebookItem, error) {
	items, err := s.entries.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing notebook: %w", err)
	}
	return items, nil
}

func (s *serviceImpl) NextQuestion(ctx context.Context, userID uuid.UUID, excludedVocabIDs []uuid.UUID) (*ReviewQuestion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	vocabs, err := s.entries.ListVocabulary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading notebook vocabulary: %w", err)
	}
	if len(vocabs) < 2 {
		return nil, ErrNotebookTooSmall
	}

	excluded := make(map[uuid.UUID]struct{}, len(excludedVocabIDs))
	for _, id := range excludedVocabIDs {
		excluded[id] = struct{}{}
	}
	available := make([]*domain.Vocabulary, 0, len(vocabs))
	for _, v := range vocabs {
		if _, ok := excluded[v.ID]; !ok {
			available = append(available, v)
		}
	}
	if len(available) == 0 {
		return nil, ErrReviewComplete
	}

	var withAudio, withWord []*domain.Vocabulary
	for _, v := range available {
		if v.HasAudio() {
			withAudio = append(withAudio, v)
		}
		if v.Word != "" {
			withWord = append(withWord, v)
		}
	}

	// Prefer a coin flip between the two question types; fall back to
	// whichever subset is non-empty.
	useListening := len(withAudio) > 0 && (len(withWord) == 0 || s.rng.IntN(2) == 0)
	if useListening {
		target := withAudio[s.rng.IntN(len(withAudio))]
		q := s.buildListening(target, vocabs)
		log.DebugContext(ctx, "generated notebook question",
			slog.String("type", string(q.Type)),
			slog.String("vocabulary_id", q.VocabularyID.String()))
		return q, nil
	}
	// Entries with neither word nor audio still cycle through as
	// fill-blank questions.
	pick := available
	if len(withWord) > 0 {
		pick = withWord
	}
	target := pick[s.rng.IntN(len(pick))]
	q := buildFillBlank(target)
	log.DebugContext(ctx, "generated notebook question",
		slog.String("type", string(q.Type)),
		slog.String("vocabulary_id", q.VocabularyID.String()))
	return q, nil
}

// buildListening assembles a multiple-choice question: the target plus up
// to three distractor words sampled from the whole notebook.
func (s *serviceImpl) buildListening(target *domain.Vocabulary, all []*domain.Vocabulary) *ReviewQuestion {
	pool := make([]*domain.Vocabulary, 0, len(all))
	for _, v := range all {
		if v.ID != target.ID && v.Word != "" {
			pool = append(pool, v)
		}
	}
	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	n := maxDistractors
	if len(pool) < n {
		n = len(pool)
	}

	options := make([]ReviewOption, 0, n+1)
	options = append(options, ReviewOption{
		VocabularyID: target.ID,
		Word:         target.Word,
		IsCorrect:    true,
	})
	for _, v := range pool[:n] {
		options = append(options, ReviewOption{
			VocabularyID: v.ID,
			Word:         v.Word,
		})
	}
	s.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return &ReviewQuestion{
		VocabularyID: target.ID,
		Type:         study.QuestionListening,
		Word:         target.Word,
		Phonetic:     target.Phonetic,
		Definition:   target.Definition,
		Meaning:      target.MeaningSentence,
		AudioRef:     target.AudioRef,
		Instruction:  "Listen and choose the word you hear",
		Options:      options,
	}
}

func buildFillBlank(target *domain.Vocabulary) *ReviewQuestion {
	return &ReviewQuestion{
		VocabularyID: target.ID,
		Type:         study.QuestionFillBlank,
		Word:         target.Word,
		Phonetic:     target.Phonetic,
		Definition:   target.Definition,
		Meaning:      target.MeaningSentence,
		AudioRef:     target.AudioRef,
		Instruction:  study.FillBlankInstruction(target.MeaningSentence),
		Content:      study.MaskWord(target.ExampleSentence, target.Word),
	}
}

func (s *serviceImpl) CheckFillBlank(ctx context.Context, vocabularyID uuid.UUID, rawAnswer string) (bool, error) {
	v, err := s.vocab.GetByID(ctx, vocabularyID)
	if err != nil {
		if errors.Is(err, store.ErrVocabularyNotFound) {
			return false, ErrVocabularyNotFound
		}
		return false, fmt.Errorf("loading vocabulary: %w", err)
	}
	return study.AnswersMatch(rawAnswer, v.Word), nil
}
