package domain

import "context"

// JournalRepository is an append-only store of JournalEntries.
type JournalRepository interface {
	// AddEntries appends the given entries.
	AddEntries(ctx context.Context, entries []JournalEntry) error
	// GetEntries returns the entries selected by the filter, oldest first.
	GetEntries(ctx context.Context, filter JournalFilter) ([]JournalEntry, error)
}
