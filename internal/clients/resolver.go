package clients

import (
	"strings"

	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"go.uber.org/zap"
)

// maxCandidates caps the substring match pass
const maxCandidates = 5

// ClientLister is the read-side dependency of the resolver
type ClientLister interface {
	ListByProfile(profileID int64) ([]entity.Client, error)
}

// Resolver backfills a freshly drafted customer with contact details
// from previously stored clients. Resolution is best effort: drafting
// proceeds with just the spoken name when nothing matches, and a lookup
// failure is never surfaced as an error.
type Resolver struct {
	repo   ClientLister
	logger *zap.Logger
}

// NewResolver creates a new customer resolver
func NewResolver(repo ClientLister, logger *zap.Logger) *Resolver {
	return &Resolver{
		repo:   repo,
		logger: logger,
	}
}

// Resolve finds the stored client best matching the given name.
// Exact case-insensitive match wins outright when there is exactly one;
// otherwise up to five substring matches (stored name contains the
// term) compete and the shortest name wins, on the heuristic that the
// shortest containing name is the precise match ("John" over "John
// Smith-Jones Pty Ltd"). Returns nil when nothing matches.
func (r *Resolver) Resolve(profileID int64, name string) *entity.Client {
	term := strings.TrimSpace(name)
	if term == "" {
		return nil
	}

	stored, err := r.repo.ListByProfile(profileID)
	if err != nil {
		r.logger.Warn("Client lookup failed, drafting without stored details",
			zap.Error(err))
		return nil
	}

	lower := strings.ToLower(term)

	var exact []entity.Client
	for _, c := range stored {
		if strings.ToLower(c.Name) == lower {
			exact = append(exact, c)
		}
	}
	if len(exact) == 1 {
		return &exact[0]
	}

	var candidates []entity.Client
	for _, c := range stored {
		if strings.Contains(strings.ToLower(c.Name), lower) {
			candidates = append(candidates, c)
			if len(candidates) == maxCandidates {
				break
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c.Name) < len(best.Name) {
			best = c
		}
	}
	return &best
}
