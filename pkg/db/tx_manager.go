package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Transaction interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type txCloser interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// completeTx rolls back when the body failed, otherwise commits; a failed
// commit becomes the caller's error instead of being swallowed.
func completeTx(ctx context.Context, tx txCloser, cause error) error {
	if cause != nil {
		_ = tx.Rollback(ctx)
		return cause
	}
	return tx.Commit(ctx)
}
