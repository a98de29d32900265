package activity

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	ListByProfile(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]*Entry, int, error)
}
