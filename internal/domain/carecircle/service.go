package carecircle

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrForbidden is returned when the caller holds the link but the link
	// does not grant mutation rights.
	ErrForbidden = errors.New("not allowed for this care circle member")
	// ErrOwnerProfileUnavailable is returned when an otherwise valid link has
	// no owner profile to operate on.
	ErrOwnerProfileUnavailable = errors.New("owner profile is not available")
)

// Access is the proof that a caller may mutate an owner's records. It is the
// sole source of the owner identity downstream: handlers and stores never
// look at client-supplied owner ids.
type Access struct {
	LinkID         uuid.UUID
	OwnerProfileID uuid.UUID
	OwnerUserID    string
	ActorUserID    string
}

type Service struct {
	links LinkRepository
}

func NewService(links LinkRepository) *Service {
	return &Service{links: links}
}

// Authorize loads the link and decides whether callerID may act on the
// owner's behalf. Every clause must hold: the caller is the link's
// recipient, the invitation was accepted, and the relationship derives the
// family role. Failures are deliberately split between ErrNotFound and
// ErrForbidden so a caller probing random link ids cannot distinguish
// "wrong person" from "wrong capability" by guessing.
func (s *Service) Authorize(ctx context.Context, callerID string, linkID uuid.UUID) (*Access, error) {
	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}

	if link.RecipientID != callerID ||
		link.Status != StatusAccepted ||
		RoleFromRelationship(link.Relationship) != RoleFamily {
		return nil, ErrForbidden
	}

	if link.OwnerProfileID == nil || *link.OwnerProfileID == uuid.Nil {
		return nil, ErrOwnerProfileUnavailable
	}

	return &Access{
		LinkID:         link.ID,
		OwnerProfileID: *link.OwnerProfileID,
		OwnerUserID:    link.RequesterID,
		ActorUserID:    callerID,
	}, nil
}
