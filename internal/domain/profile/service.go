package profile

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// onAmbiguousActor names the degrade policy: when a claimed actor profile
// cannot be confirmed as the caller's, the attribution is omitted rather
// than the mutation blocked. The caller's account id is always recorded
// regardless.
const onAmbiguousActor = "omitAttribution"

// ownershipColumns is the ordered legacy chain: profiles were keyed by
// user_id originally and by account_id after the account migration. The
// first column that confirms ownership wins.
var ownershipColumns = []string{"user_id", "account_id"}

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ResolveActor confirms that the client-claimed actor profile id belongs to
// the caller. It returns the claimed id when some ownership column matches,
// and nil otherwise: nil claim, no match, or a store error all degrade to an
// unattributed actor per the omitAttribution policy. This is audit garnish;
// it never blocks a mutation.
func (s *Service) ResolveActor(ctx context.Context, callerID string, claimed *uuid.UUID) *uuid.UUID {
	if claimed == nil || *claimed == uuid.Nil {
		return nil
	}

	for _, column := range ownershipColumns {
		owns, err := s.repo.Owns(ctx, column, *claimed, callerID)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("column", column).
				Str("caller_id", callerID).
				Str("policy", onAmbiguousActor).
				Msg("actor profile ownership check failed")
			return nil
		}
		if owns {
			return claimed
		}
	}
	return nil
}
