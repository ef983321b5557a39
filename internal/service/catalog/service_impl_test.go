package catalog

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pklenglish/study-api/internal/domain"
	"github.com/pklenglish/study-api/internal/store"
)

type memState struct {
	topics []*domain.Topic
	vocabs []*domain.Vocabulary
}

type memTopicStore struct{ st *memState }

var _ store.TopicStore = (*memTopicStore)(nil)

func (s *memTopicStore) Create(ctx context.Context, topic *domain.Topic) error {
	s.st.topics = append(s.st.topics, topic)
	return nil
}

func (s *memTopicStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error) {
	for _, t := range s.st.topics {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, store.ErrTopicNotFound
}

func (s *memTopicStore) ListPublic(ctx context.Context) ([]*domain.Topic, error) {
	var out []*domain.Topic
	for _, t := range s.st.topics {
		if t.IsPublic {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memTopicStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Topic, error) {
	var out []*domain.Topic
	for _, t := range s.st.topics {
		if t.OwnedBy(ownerID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memTopicStore) Update(ctx context.Context, topic *domain.Topic) error { return nil }

func (s *memTopicStore) Delete(ctx context.Context, id uuid.UUID) error {
	for i, t := range s.st.topics {
		if t.ID == id {
			s.st.topics = append(s.st.topics[:i], s.st.topics[i+1:]...)
			return nil
		}
	}
	return store.ErrTopicNotFound
}

func (s *memTopicStore) CountVocabulary(ctx context.Context, topicID uuid.UUID) (int, error) {
	count := 0
	for _, v := range s.st.vocabs {
		if v.TopicID == topicID {
			count++
		}
	}
	return count, nil
}

func (s *memTopicStore) WithTx(tx *sql.Tx) store.TopicStore { return s }

type memVocabStore struct{ st *memState }

var _ store.VocabularyStore = (*memVocabStore)(nil)

func (s *memVocabStore) Create(ctx context.Context, vocab *domain.Vocabulary) error {
	s.st.vocabs = append(s.st.vocabs, vocab)
	return nil
}

func (s *memVocabStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vocabulary, error) {
	for _, v := range s.st.vocabs {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, store.ErrVocabularyNotFound
}

func (s *memVocabStore) ListByTopic(ctx context.Context, topicID uuid.UUID) ([]*domain.Vocabulary, error) {
	var out []*domain.Vocabulary
	for _, v := range s.st.vocabs {
		if v.TopicID == topicID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *memVocabStore) ListIDsByTopic(ctx context.Context, topicID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (s *memVocabStore) Update(ctx context.Context, vocab *domain.Vocabulary) error { return nil }

func (s *memVocabStore) Delete(ctx context.Context, id uuid.UUID) error {
	for i, v := range s.st.vocabs {
		if v.ID == id {
			s.st.vocabs = append(s.st.vocabs[:i], s.st.vocabs[i+1:]...)
			return nil
		}
	}
	return store.ErrVocabularyNotFound
}

func (s *memVocabStore) WithTx(tx *sql.Tx) store.VocabularyStore { return s }

func newTestService(st *memState) Service {
	return NewService(&memTopicStore{st: st}, &memVocabStore{st: st}, nil)
}

func TestListTopics(t *testing.T) {
	t.Parallel()

	st := &memState{}
	svc := newTestService(st)
	ctx := context.Background()
	userID := uuid.New()

	system, err := domain.NewSystemTopic("Animals", "common animals")
	require.NoError(t, err)
	st.topics = append(st.topics, system)

	mine, err := svc.CreateTopic(ctx, userID, TopicInput{Title: "My words"})
	require.NoError(t, err)

	other, err := domain.NewUserTopic(uuid.New(), "Not mine", "")
	require.NoError(t, err)
	st.topics = append(st.topics, other)

	topics, err := svc.ListTopics(ctx, userID)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, system.ID, topics[0].ID)
	assert.Equal(t, mine.ID, topics[1].ID)
}

func TestTopicVisibility(t *testing.T) {
	t.Parallel()

	st := &memState{}
	svc := newTestService(st)
	ctx := context.Background()
	userID := uuid.New()

	private, err := domain.NewUserTopic(uuid.New(), "Someone else's", "")
	require.NoError(t, err)
	st.topics = append(st.topics, private)

	_, err = svc.GetTopic(ctx, userID, private.ID)
	assert.ErrorIs(t, err, ErrTopicNotVisible)

	_, err = svc.GetTopic(ctx, userID, uuid.New())
	assert.ErrorIs(t, err, ErrTopicNotFound)
}

func TestTopicOwnership(t *testing.T) {
	t.Parallel()

	st := &memState{}
	svc := newTestService(st)
	ctx := context.Background()
	userID := uuid.New()

	system, err := domain.NewSystemTopic("Animals", "")
	require.NoError(t, err)
	st.topics = append(st.topics, system)

	// System topics cannot be modified, even though they are visible.
	_, err = svc.UpdateTopic(ctx, userID, system.ID, TopicInput{Title: "Renamed"})
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.ErrorIs(t, svc.DeleteTopic(ctx, userID, system.ID), ErrNotOwner)

	mine, err := svc.CreateTopic(ctx, userID, TopicInput{Title: "My words"})
	require.NoError(t, err)

	updated, err := svc.UpdateTopic(ctx, userID, mine.ID, TopicInput{Title: "Renamed", Description: "desc"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	require.NoError(t, svc.DeleteTopic(ctx, userID, mine.ID))
	_, err = svc.GetTopic(ctx, userID, mine.ID)
	assert.ErrorIs(t, err, ErrTopicNotFound)
}

func TestVocabularyLifecycle(t *testing.T) {
	t.Parallel()

	st := &memState{}
	svc := newTestService(st)
	ctx := context.Background()
	userID := uuid.New()

	mine, err := svc.CreateTopic(ctx, userID, TopicInput{Title: "My words"})
	require.NoError(t, err)

	vocab, err := svc.CreateVocabulary(ctx, userID, mine.ID, VocabularyInput{
		Word:            "ephemeral",
		Definition:      "lasting a very short time",
		ExampleSentence: "Fame is ephemeral",
		MeaningSentence: "short-lived",
	})
	require.NoError(t, err)
	assert.Equal(t, mine.ID, vocab.TopicID)

	vocabs, err := svc.ListVocabulary(ctx, userID, mine.ID)
	require.NoError(t, err)
	require.Len(t, vocabs, 1)

	updated, err := svc.UpdateVocabulary(ctx, userID, vocab.ID, VocabularyInput{
		Word:       "ephemeral",
		Definition: "fleeting",
	})
	require.NoError(t, err)
	assert.Equal(t, "fleeting", updated.Definition)

	// Another user cannot touch vocabulary in a topic they do not own.
	_, err = svc.UpdateVocabulary(ctx, uuid.New(), vocab.ID, VocabularyInput{Word: "x", Definition: "y"})
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, svc.DeleteVocabulary(ctx, userID, vocab.ID))
	_, err = svc.UpdateVocabulary(ctx, userID, vocab.ID, VocabularyInput{Word: "x", Definition: "y"})
	assert.ErrorIs(t, err, ErrVocabularyNotFound)
}
