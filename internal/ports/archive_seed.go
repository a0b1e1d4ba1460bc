package ports

import "context"

// ArchiveSeedPort creates an empty score archive at most once per user.
type ArchiveSeedPort interface {
	// SeedArchiveOnce writes an empty archive for userID.
	// Returns seeded=false when the user already has one.
	SeedArchiveOnce(ctx context.Context, userID string) (bool, error)
}
