package sql

import (
	"context"
	"database/sql"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-query-go/asceticql/session"
)

func NewSession(db *sql.DB) *Session {
	return &Session{
		db:         db,
		dbExecutor: db,
	}
}

// Session runs compiled queries on a database/sql handle.
type Session struct {
	db         *sql.DB
	dbExecutor DbExecutor
}

// Atomic runs callback inside a read-only transaction, so every query the
// callback issues sees the same snapshot.
func (s *Session) Atomic(ctx context.Context, callback func(session.Querier) error) error {
	if s.db == nil {
		return errors.New("nested transactions are not supported")
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return errors.Wrap(err, "unable to start transaction")
	}
	err = callback(&Session{dbExecutor: tx})
	if err != nil {
		if txErr := tx.Rollback(); txErr != nil {
			return multierror.Append(err, txErr)
		}
		return err
	}
	if txErr := tx.Commit(); txErr != nil {
		return errors.Wrap(txErr, "failed to commit tx")
	}
	return nil
}

func (s *Session) Query(ctx context.Context, query string, args ...any) (session.Rows, error) {
	rows, err := s.dbExecutor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type DbExecutor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}
