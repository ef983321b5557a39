// Package postgres implements the store interfaces against PostgreSQL
// using database/sql with the pgx stdlib driver. Constraint violations
// are translated into the sentinel errors declared in internal/store.
package postgres
