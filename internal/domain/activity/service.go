package activity

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record appends an activity entry after a successful mutation. The append
// runs outside the mutation's persistence step and its failure is only
// logged: a saved record with a missing audit entry beats a failed save over
// audit garnish. The log/data gap this opens is accepted and documented.
func (s *Service) Record(ctx context.Context, e *Entry) {
	if err := s.repo.Append(ctx, e); err != nil {
		s.logger.Error().Err(err).
			Str("profile_id", e.ProfileID.String()).
			Str("domain", e.Domain).
			Str("action", e.Action).
			Str("entity_id", e.EntityID).
			Msg("activity append failed")
	}
}

// Feed returns the owner's activity entries, newest first.
func (s *Service) Feed(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByProfile(ctx, profileID, limit, offset)
}
