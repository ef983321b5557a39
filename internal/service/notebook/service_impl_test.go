package notebook

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pklenglish/study-api/internal/domain"
	"github.com/pklenglish/study-api/internal/service/study"
	"github.com/pklenglish/study-api/internal/store"
)

// stubRand returns a scripted sequence of IntN values and leaves shuffles
// untouched.
type stubRand struct {
	vals []int
	i    int
}

func (r *stubRand) IntN(n int) int {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

func (r *stubRand) Shuffle(n int, swap func(i, j int)) {}

type memState struct {
	vocabs  []*domain.Vocabulary
	entries []*domain.NotebookEntry
}

func (st *memState) addVocab(word, example, meaning, audioRef string) *domain.Vocabulary {
	v := &domain.Vocabulary{
		ID:              uuid.New(),
		TopicID:         uuid.New(),
		Word:            word,
		ExampleSentence: example,
		MeaningSentence: meaning,
		AudioRef:        audioRef,
	}
	st.vocabs = append(st.vocabs, v)
	return v
}

func (st *memState) save(userID uuid.UUID, v *domain.Vocabulary) {
	entry, _ := domain.NewNotebookEntry(userID, v.ID, "")
	st.entries = append(st.entries, entry)
}

type memVocabStore struct{ st *memState }

var _ store.VocabularyStore = (*memVocabStore)(nil)

func (s *memVocabStore) Create(ctx context.Context, vocab *domain.Vocabulary) error { return nil }

func (s *memVocabStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vocabulary, error) {
	for _, v := range s.st.vocabs {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, store.ErrVocabularyNotFound
}

func (s *memVocabStore) ListByTopic(ctx context.Context, topicID uuid.UUID) ([]*domain.Vocabulary, error) {
	return nil, nil
}

func (s *memVocabStore) ListIDsByTopic(ctx context.Context, topicID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (s *memVocabStore) Update(ctx context.Context, vocab *domain.Vocabulary) error { return nil }
func (s *memVocabStore) Delete(ctx context.Context, id uuid.UUID) error             { return nil }
func (s *memVocabStore) WithTx(tx *sql.Tx) store.VocabularyStore                    { return s }

type memNotebookStore struct{ st *memState }

var _ store.NotebookStore = (*memNotebookStore)(nil)

func (s *memNotebookStore) Add(ctx context.Context, entry *domain.NotebookEntry) error {
	for _, e := range s.st.entries {
		if e.UserID == entry.UserID && e.VocabularyID == entry.VocabularyID {
			return store.ErrNotebookEntryExists
		}
	}
	s.st.entries = append(s.st.entries, entry)
	return nil
}

func (s *memNotebookStore) Remove(ctx context.Context, userID, vocabularyID uuid.UUID) error {
	for i, e := range s.st.entries {
		if e.UserID == userID && e.VocabularyID == vocabularyID {
			s.st.entries = append(s.st.entries[:i], s.st.entries[i+1:]...)
			return nil
		}
	}
	return store.ErrNotebookEntryNotFound
}

func (s *memNotebookStore) UpdateNote(ctx context.Context, userID, vocabularyID uuid.UUID, note string) error {
	for _, e := range s.st.entries {
		if e.UserID == userID && e.VocabularyID == vocabularyID {
			e.Note = note
			return nil
		}
	}
	return store.ErrNotebookEntryNotFound
}

func (s *memNotebookStore) List(ctx context.Context, userID uuid.UUID) ([]store.NotebookItem, error) {
	var out []store.NotebookItem
	for _, e := range s.st.entries {
		if e.UserID != userID {
			continue
		}
		for _, v := range s.st.vocabs {
			if v.ID == e.VocabularyID {
				out = append(out, store.NotebookItem{Entry: *e, Vocabulary: *v})
			}
		}
	}
	return out, nil
}

func (s *memNotebookStore) ListVocabulary(ctx context.Context, userID uuid.UUID) ([]*domain.Vocabulary, error) {
	var out []*domain.Vocabulary
	for _, e := range s.st.entries {
		if e.UserID != userID {
			continue
		}
		for _, v := range s.st.vocabs {
			if v.ID == e.VocabularyID {
				out = append(out, v)
			}
		}
	}
	return out, nil
}

func (s *memNotebookStore) WithTx(tx *sql.Tx) store.NotebookStore { return s }

func newTestService(st *memState, rng study.Rand) Service {
	return NewService(&memNotebookStore{st: st}, &memVocabStore{st: st}, rng, nil)
}

func TestAddRemoveUpdateNote(t *testing.T) {
	t.Parallel()

	st := &memState{}
	userID := uuid.New()
	v := st.addVocab("apple", "An apple a day", "a red fruit", "")

	svc := newTestService(st, nil)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, userID, v.ID, "tricky spelling"))
	assert.ErrorIs(t, svc.Add(ctx, userID, v.ID, ""), ErrAlreadySaved)
	assert.ErrorIs(t, svc.Add(ctx, userID, uuid.New(), ""), ErrVocabularyNotFound)

	require.NoError(t, svc.UpdateNote(ctx, userID, v.ID, "still tricky"))
	assert.Equal(t, "still tricky", st.entries[0].Note)
	assert.ErrorIs(t, svc.UpdateNote(ctx, userID, uuid.New(), "x"), ErrEntryNotFound)

	items, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "apple", items[0].Vocabulary.Word)

	require.NoError(t, svc.Remove(ctx, userID, v.ID))
	assert.ErrorIs(t, svc.Remove(ctx, userID, v.ID), ErrEntryNotFound)
}

func TestNextQuestionTooSmall(t *testing.T) {
	t.Parallel()

	st := &memState{}
	userID := uuid.New()
	st.save(userID, st.addVocab("apple", "", "a red fruit", ""))

	svc := newTestService(st, &stubRand{vals: []int{0}})

	_, err := svc.NextQuestion(context.Background(), userID, nil)
	assert.ErrorIs(t, err, ErrNotebookTooSmall)
}

func TestNextQuestionReviewComplete(t *testing.T) {
	t.Parallel()

	st := &memState{}
	userID := uuid.New()
	a := st.addVocab("apple", "", "a red fruit", "")
	b := st.addVocab("banana", "", "a yellow fruit", "")
	st.save(userID, a)
	st.save(userID, b)

	svc := newTestService(st, &stubRand{vals: []int{0}})

	_, err := svc.NextQuestion(context.Background(), userID, []uuid.UUID{a.ID, b.ID})
	assert.ErrorIs(t, err, ErrReviewComplete)
}

func TestNextQuestionListening(t *testing.T) {
	t.Parallel()

	st := &memState{}
	userID := uuid.New()
	words := []string{"apple", "banana", "cherry", "date", "elder"}
	for _, w := range words {
		st.save(userID, st.addVocab(w, w+" sentence", "meaning of "+w, "audio/"+w+".mp3"))
	}

	// Coin flip 0 selects listening; next draw 0 targets the first
	// audio-capable word.
	svc := newTestService(st, &stubRand{vals: []int{0}})

	q, err := svc.NextQuestion(context.Background(), userID, nil)
	require.NoError(t, err)

	assert.Equal(t, study.QuestionListening, q.Type)
	assert.Equal(t, "apple", q.Word)
	assert.NotEmpty(t, q.AudioRef)
	require.Len(t, q.Options, maxDistractors+1)

	correct := 0
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct++
			assert.Equal(t, q.VocabularyID, opt.VocabularyID)
			assert.Equal(t, "apple", opt.Word)
		}
	}
	assert.Equal(t, 1, correct, "exactly one option is correct")

	seen := make(map[uuid.UUID]struct{})
	for _, opt := range q.Options {
		_, dup := seen[opt.VocabularyID]
		assert.False(t, dup, "options must be distinct words")
		seen[opt.VocabularyID] = struct{}{}
	}
}

func TestNextQuestionListeningFewDistractors(t *testing.T) {
	t.Parallel()

	st := &memState{}
	userID := uuid.New()
	st.save(userID, st.addVocab("apple", "", "a red fruit", "audio/apple.mp3"))
	st.save(userID, st.addVocab("banana", "", "a yellow fruit", "audio/banana.mp3"))

	svc := newTestService(st, &stubRand{vals: []int{0}})

	q, err := svc.NextQuestion(context.Background(), userID, nil)
	require.NoError(t, err)

	assert.Equal(t, study.QuestionListening, q.Type)
	assert.Len(t, q.Options, 2, "a two-word notebook yields one distractor")
}

func TestNextQuestionFillBlank(t *testing.T) {
	t.Parallel()

	st := &memState{}
	userID := uuid.New()
	st.save(userID, st.addVocab("Dog", "The dog ran", "a loyal pet", ""))
	st.save(userID, st.addVocab("Cat", "The cat sat", "an aloof pet", ""))

	// No audio anywhere, so the type is forced to fill blank regardless
	// of the coin; draw 0 targets the first word.
	svc := newTestService(st, &stubRand{vals: []int{0}})

	q, err := svc.NextQuestion(context.Background(), userID, nil)
	require.NoError(t, err)

	assert.Equal(t, study.QuestionFillBlank, q.Type)
	assert.Equal(t, "Dog", q.Word)
	assert.Equal(t, "The ___ ran", q.Content)
	assert.Equal(t, `Fill in the word meaning: "a loyal pet"`, q.Instruction)
	assert.Empty(t, q.Options)
}

func TestNextQuestionWordlessEntries(t *testing.T) {
	t.Parallel()

	st := &memState{}
	userID := uuid.New()
	a := st.addVocab("", "", "a red fruit", "")
	b := st.addVocab("", "", "a yellow fruit", "")
	st.save(userID, a)
	st.save(userID, b)

	// Neither entry has a word or audio; the engine still serves them as
	// fill-blank questions instead of ending the review early.
	svc := newTestService(st, &stubRand{vals: []int{0}})

	q, err := svc.NextQuestion(context.Background(), userID, nil)
	require.NoError(t, err)

	assert.Equal(t, study.QuestionFillBlank, q.Type)
	assert.Equal(t, a.ID, q.VocabularyID)
	assert.Equal(t, `Fill in the word meaning: "a red fruit"`, q.Instruction)
}

func TestNextQuestionSkipsExcluded(t *testing.T) {
	t.Parallel()

	st := &memState{}
	userID := uuid.New()
	a := st.addVocab("apple", "eat the apple", "a red fruit", "")
	b := st.addVocab("banana", "peel the banana", "a yellow fruit", "")
	st.save(userID, a)
	st.save(userID, b)

	svc := newTestService(st, &stubRand{vals: []int{0}})

	q, err := svc.NextQuestion(context.Background(), userID, []uuid.UUID{a.ID})
	require.NoError(t, err)
	assert.Equal(t, b.ID, q.VocabularyID)
}

func TestCheckListening(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	assert.True(t, CheckListening(id, id))
	assert.False(t, CheckListening(id, uuid.New()))
}

func TestCheckFillBlank(t *testing.T) {
	t.Parallel()

	st := &memState{}
	v := st.addVocab("Apple", "", "a red fruit", "")
	svc := newTestService(st, nil)
	ctx := context.Background()

	ok, err := svc.CheckFillBlank(ctx, v.ID, " apple ")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckFillBlank(ctx, v.ID, "orange")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.CheckFillBlank(ctx, uuid.New(), "apple")
	assert.ErrorIs(t, err, ErrVocabularyNotFound)
}
