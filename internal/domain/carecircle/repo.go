package carecircle

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no link exists for the given id.
var ErrNotFound = errors.New("care circle link not found")

// LinkRepository reads delegation links. This service never writes them;
// the invite flow owns the table.
type LinkRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Link, error)
}
