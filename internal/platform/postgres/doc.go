// Package postgres stores the knowledge-base document in PostgreSQL. It owns
// the connection setup, the embedded goose migrations and the mapping of
// PostgreSQL error codes onto blob errors.
package postgres
