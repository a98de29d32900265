package records

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

type rowRepoPG struct {
	pool  *pgxpool.Pool
	table string
}

// NewAppointmentRowRepoPG returns the row store backing appointment lists.
func NewAppointmentRowRepoPG(pool *pgxpool.Pool) RowRepository {
	return &rowRepoPG{pool: pool, table: "profile_appointments"}
}

// NewMedicationRowRepoPG returns the row store backing medication lists.
func NewMedicationRowRepoPG(pool *pgxpool.Pool) RowRepository {
	return &rowRepoPG{pool: pool, table: "profile_medications"}
}

func (r *rowRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *rowRepoPG) Get(ctx context.Context, ownerProfileID uuid.UUID) ([]Record, error) {
	var records []Record
	err := r.conn(ctx).QueryRow(ctx,
		fmt.Sprintf(`SELECT records FROM %s WHERE owner_profile_id = $1`, r.table),
		ownerProfileID).Scan(&records)
	if errors.Is(err, pgx.ErrNoRows) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (r *rowRepoPG) Upsert(ctx context.Context, ownerProfileID uuid.UUID, ownerUserID string, records []Record) error {
	_, err := r.conn(ctx).Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (owner_profile_id, owner_user_id, records, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (owner_profile_id)
		DO UPDATE SET owner_user_id = EXCLUDED.owner_user_id,
			records = EXCLUDED.records,
			updated_at = NOW()`, r.table),
		ownerProfileID, ownerUserID, records)
	return err
}
