// Package storage defines the persistence contracts shared by the memory,
// PostgreSQL and ClickHouse backends.
package storage

import "errors"

// Sentinels returned by every backend. Callers compare with errors.Is.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("record already exists")

	// ErrInvalidInput covers missing required fields and rows the database
	// rejects, such as an activity for an unknown wallet.
	ErrInvalidInput = errors.New("invalid input")
)
