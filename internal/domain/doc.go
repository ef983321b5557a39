// Package domain defines the core business entities of the vocabulary
// study application: topics, vocabulary items, per-user flashcards,
// study logs, and notebook entries.
//
// Entities validate themselves; persistence and presentation concerns
// live in the store and api packages respectively.
package domain
