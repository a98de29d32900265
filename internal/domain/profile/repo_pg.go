package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carebook/carebook/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// ownershipColumnWhitelist guards the column interpolation below. Ownership
// columns arrive as data (the legacy chain), never from the client.
var ownershipColumnWhitelist = map[string]bool{
	"user_id":    true,
	"account_id": true,
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) Owns(ctx context.Context, column string, profileID uuid.UUID, userID string) (bool, error) {
	if !ownershipColumnWhitelist[column] {
		return false, fmt.Errorf("unknown ownership column %q", column)
	}

	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1 AND %s = $2)`, column),
		profileID, userID).Scan(&exists)
	if err != nil {
		// 42703: the legacy column is gone from this deployment's schema.
		// Treat it as "no match" so the chain can move on.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "42703" {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}
