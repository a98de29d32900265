package profile

import (
	"context"

	"github.com/google/uuid"
)

// Repository answers ownership questions about profiles. Owns reports
// whether the profile row identified by profileID carries userID in the
// given ownership column.
type Repository interface {
	Owns(ctx context.Context, column string, profileID uuid.UUID, userID string) (bool, error)
}
