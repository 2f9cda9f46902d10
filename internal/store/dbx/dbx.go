package dbx

import (
	"context"
	"database/sql"
)

// Queryer/Execer/Getter let store code work with *sql.DB and *sql.Tx alike.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
type Getter interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB is the surface the read-mostly stores run on.
type DB interface {
	Queryer
	Execer
	Getter
}

// Exec runs a statement and reports the affected row count.
func Exec(ctx context.Context, e Execer, query string, args ...any) (int64, error) {
	res, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// WithinTx runs fn in a transaction: commit on nil, rollback on error or
// panic. Context cancellation aborts the transaction with a rollback, so a
// caller-supplied timeout never leaves partial state behind.
func WithinTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
