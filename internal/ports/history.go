package ports

import (
	"context"

	"dominoscore/internal/domain"
)

// HistoryStore persists the archive of completed matches for one owner.
type HistoryStore interface {
	// Load returns the owner's archived records in the order they were saved.
	// An owner with no archive yields an empty slice and no error.
	Load(ctx context.Context, ownerID string) ([]domain.MatchRecord, error)

	// Save replaces the owner's archive with the given records.
	Save(ctx context.Context, ownerID string, records []domain.MatchRecord) error

	// Clear removes the owner's archive.
	Clear(ctx context.Context, ownerID string) error
}
