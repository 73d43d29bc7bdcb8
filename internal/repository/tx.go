package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxRunner runs fn against lead and assignment repositories bound to one
// transaction. A non-nil error from fn rolls the transaction back.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(leads LeadRepository, assignments AssignmentRepository) error) error
}

type pgTxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds a runner over the pool.
func NewTxRunner(pool *pgxpool.Pool) TxRunner {
	return &pgTxRunner{pool: pool}
}

func (r *pgTxRunner) WithTx(ctx context.Context, fn func(LeadRepository, AssignmentRepository) error) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&leadRepository{db: tx}, &assignmentRepository{db: tx})
	})
}
