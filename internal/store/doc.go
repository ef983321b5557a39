// Package store defines the narrow repository interfaces through which the
// study engines reach persistent data, together with the sentinel errors
// all implementations must return. The interfaces name query shapes, not
// SQL; the postgres implementations live in internal/platform/postgres.
package store
