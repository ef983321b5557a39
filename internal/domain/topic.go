package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Topic
var (
	ErrEmptyTopicID    = errors.New("topic ID cannot be empty")
	ErrEmptyTopicTitle = errors.New("topic title cannot be empty")
)

// Topic is a named collection of vocabulary items. A topic either belongs
// to the system (Owner is nil, IsPublic true) or to a single user who
// created it for private study.
type Topic struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageRef    string     `json:"image_ref,omitempty"`
	Owner       *uuid.UUID `json:"owner,omitempty"`
	IsPublic    bool       `json:"is_public"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewSystemTopic creates a public topic with no owner.
func NewSystemTopic(title, description string) (*Topic, error) {
	return newTopic(title, description, nil, true)
}

// NewUserTopic creates a private topic owned by the given user.
func NewUserTopic(ownerID uuid.UUID, title, description string) (*Topic, error) {
	return newTopic(title, description, &ownerID, false)
}

func newTopic(title, description string, owner *uuid.UUID, isPublic bool) (*Topic, error) {
	now := time.Now().UTC()
	topic := &Topic{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Owner:       owner,
		IsPublic:    isPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := topic.Validate(); err != nil {
		return nil, err
	}

	return topic, nil
}

// Validate checks if the Topic has valid data.
func (t *Topic) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTopicID
	}

	if t.Title == "" {
		return ErrEmptyTopicTitle
	}

	return nil
}

// OwnedBy reports whether the topic is a private topic owned by userID.
func (t *Topic) OwnedBy(userID uuid.UUID) bool {
	return t.Owner != nil && *t.Owner == userID
}
