package postgres

import (
	"context"

	"hirehub/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type txAdapter struct {
	tx pgx.Tx
}

func (t txAdapter) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return execTag(t.tx.Exec(ctx, query, args...))
}

func (t txAdapter) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return wrapRows(t.tx.Query(ctx, query, args...))
}

func (t txAdapter) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return t.tx.QueryRow(ctx, query, args...)
}

func (t txAdapter) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t txAdapter) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

func execTag(tag pgconn.CommandTag, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// rowsAdapter narrows pgx.Rows to database.Rows.
type rowsAdapter struct{ pgx.Rows }

func wrapRows(rows pgx.Rows, err error) (database.Rows, error) {
	if err != nil {
		return nil, err
	}
	return rowsAdapter{rows}, nil
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }
