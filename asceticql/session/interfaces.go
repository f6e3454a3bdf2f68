package session

import (
	"context"
)

type Rows interface {
	Close() error
	Err() error
	Next() bool
	Scan(dest ...any) error
	Columns() ([]string, error)
}

// Querier runs compiled query text. It is the only thing the engine needs from
// a database driver.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

type QuerierFunc func(ctx context.Context, query string, args ...any) (Rows, error)

func (f QuerierFunc) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	return f(ctx, query, args...)
}
