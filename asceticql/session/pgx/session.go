package pgx

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-query-go/asceticql/session"
)

func NewSession(pool *pgxpool.Pool) *Session {
	return &Session{
		pool:       pool,
		dbExecutor: pool,
	}
}

// Session runs compiled queries on a pgx pool or transaction.
type Session struct {
	pool       *pgxpool.Pool
	dbExecutor DbExecutor
}

func (s *Session) Atomic(ctx context.Context, callback func(session.Querier) error) error {
	if s.pool == nil {
		return errors.New("nested transactions are not supported")
	}
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return errors.Wrap(err, "unable to start transaction")
	}
	err = callback(&Session{dbExecutor: tx})
	if err != nil {
		if txErr := tx.Rollback(ctx); txErr != nil {
			return multierror.Append(err, txErr)
		}
		return err
	}
	if txErr := tx.Commit(ctx); txErr != nil {
		return errors.Wrap(txErr, "failed to commit tx")
	}
	return nil
}

func (s *Session) Query(ctx context.Context, query string, args ...any) (session.Rows, error) {
	rows, err := s.dbExecutor.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

type DbExecutor interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Rows adapts pgx.Rows to session.Rows.
type Rows struct {
	rows pgx.Rows
}

func (r *Rows) Close() error {
	r.rows.Close()
	return nil
}

func (r *Rows) Err() error {
	return r.rows.Err()
}

func (r *Rows) Next() bool {
	return r.rows.Next()
}

func (r *Rows) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

func (r *Rows) Columns() ([]string, error) {
	fields := r.rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}
	return columns, nil
}
