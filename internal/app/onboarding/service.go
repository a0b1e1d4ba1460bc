package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"dominoscore/internal/ports"
)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
	// ArchiveSeeded is false when the user already had an archive.
	ArchiveSeeded bool
	DisplayName   string
}

// Service handles post-auth onboarding for new scorekeepers.
type Service struct {
	accounts ports.AccountPort
	archives ports.ArchiveSeedPort
	rng      *rand.Rand
}

// NewService constructs an onboarding service with required ports.
// accounts/archives must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, archives ports.ArchiveSeedPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts: accounts,
		archives: archives,
		rng:      rng,
	}
}

// OnboardNewUser gives a new account a display name and an empty archive.
// Returns an error only if the archive cannot be created.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.archives == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{DisplayName: s.generateFriendlyName()}
	if err := s.accounts.UpdateProfile(ctx, userID, result.DisplayName, result.DisplayName); err != nil {
		// Profile updates are best-effort; the archive is what tables rely on.
		result.ProfileUpdateErr = err
	}

	seeded, err := s.archives.SeedArchiveOnce(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("failed to create score archive: %w", err)
	}
	result.ArchiveSeeded = seeded

	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Steady", "Sharp", "Lucky", "Quiet", "Bold", "Patient", "Quick", "Cool", "Sly", "Grand"}
	nouns := []string{"Scorer", "Tallier", "Domino", "Spinner", "Double", "Blank", "Tile", "Marker", "Counter", "Chalk"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
