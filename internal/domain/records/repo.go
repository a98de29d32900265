package records

import (
	"context"

	"github.com/google/uuid"
)

// RowRepository stores one whole record list per owner. There is one row per
// owner per kind; reads of an absent row yield an empty list.
//
// Upsert is a blind whole-list replace: the row contract carries no version
// column, so there is no compare-and-swap and concurrent writers to the same
// owner are last-writer-wins. The legacy owner user id is written through on
// every upsert for older readers that still key on it.
type RowRepository interface {
	Get(ctx context.Context, ownerProfileID uuid.UUID) ([]Record, error)
	Upsert(ctx context.Context, ownerProfileID uuid.UUID, ownerUserID string, records []Record) error
}
