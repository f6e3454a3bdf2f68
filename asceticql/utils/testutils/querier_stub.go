package testutils

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/krew-solutions/ascetic-query-go/asceticql/session"
)

func NewQuerierStub(rows *RowsStub) *QuerierStub {
	return &QuerierStub{Rows: rows}
}

// QuerierStub records the last query it was asked to run and answers with
// Rows, or with Err when set.
type QuerierStub struct {
	mu           sync.Mutex
	Rows         *RowsStub
	Err          error
	ActualQuery  string
	ActualParams []any
	Calls        int
}

func (s *QuerierStub) Query(_ context.Context, query string, args ...any) (session.Rows, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ActualQuery = query
	s.ActualParams = args
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Rows, nil
}

func NewRowsStub(columns []string, rows ...[]any) *RowsStub {
	return &RowsStub{
		columns: columns,
		rows:    rows,
		idx:     -1,
		Closed:  false,
	}
}

type RowsStub struct {
	columns  []string
	rows     [][]any
	idx      int
	Closed   bool
	CloseErr error
	IterErr  error
}

func (r *RowsStub) Close() error {
	r.Closed = true
	return r.CloseErr
}

func (r *RowsStub) Err() error {
	return r.IterErr
}

func (r *RowsStub) Next() bool {
	r.idx++
	return r.idx < len(r.rows)
}

func (r *RowsStub) Columns() ([]string, error) {
	return append([]string(nil), r.columns...), nil
}

func (r *RowsStub) Scan(dest ...any) error {
	if r.idx < 0 || r.idx >= len(r.rows) {
		return errors.New("no current row")
	}

	row := r.rows[r.idx]
	for i, val := range row {
		if i >= len(dest) {
			break
		}

		switch d := dest[i].(type) {
		case *any:
			*d = val
		case *int:
			*d = toInt(val)
		case *int64:
			*d = toInt64(val)
		case *string:
			*d = val.(string)
		case *bool:
			*d = val.(bool)
		case *[]byte:
			*d = val.([]byte)
		case *float64:
			*d = toFloat64(val)
		case sql.Scanner:
			if err := d.Scan(val); err != nil {
				return err
			}
		default:
			return errors.New("unsupported scan type")
		}
	}
	return nil
}

func toInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	default:
		panic("cannot convert to int")
	}
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case int32:
		return int64(v)
	default:
		panic("cannot convert to int64")
	}
}

func toFloat64(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		panic("cannot convert to float64")
	}
}
