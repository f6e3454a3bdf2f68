package session

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"

	q "github.com/krew-solutions/ascetic-query-go/asceticql/query/domain"
	qi "github.com/krew-solutions/ascetic-query-go/asceticql/query/infrastructure"
	"github.com/krew-solutions/ascetic-query-go/asceticql/signals"
)

type ExecutorOption func(*Executor)

func MaxRows(n int) ExecutorOption {
	return func(e *Executor) {
		e.maxRows = n
	}
}

// InlineLiterals compiles literals into the query text instead of passing
// them as bind parameters.
func InlineLiterals() ExecutorOption {
	return func(e *Executor) {
		e.inline = true
	}
}

func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// Executor compiles statements for one dialect and runs them on a Querier.
type Executor struct {
	compiler       *qi.Compiler
	querier        Querier
	dialect        string
	maxRows        int
	inline         bool
	logger         *slog.Logger
	onQueryStarted *signals.SignalImp[QueryStartedEvent]
	onQueryEnded   *signals.SignalImp[QueryEndedEvent]
}

func NewExecutor(compiler *qi.Compiler, querier Querier, dialect string, opts ...ExecutorOption) *Executor {
	e := &Executor{
		compiler:       compiler,
		querier:        querier,
		dialect:        dialect,
		logger:         slog.Default(),
		onQueryStarted: signals.NewSignal[QueryStartedEvent](),
		onQueryEnded:   signals.NewSignal[QueryEndedEvent](),
	}
	for i := range opts {
		opts[i](e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

func (e *Executor) OnQueryStarted() signals.Signal[QueryStartedEvent] {
	return e.onQueryStarted
}

func (e *Executor) OnQueryEnded() signals.Signal[QueryEndedEvent] {
	return e.onQueryEnded
}

// Query compiles stmt and runs it. The caller closes the returned rows.
func (e *Executor) Query(ctx context.Context, stmt q.SelectStatement) (Rows, error) {
	var (
		sql    string
		params []any
		err    error
	)
	if e.inline {
		sql, err = e.compiler.Compile(stmt, e.maxRows, e.dialect)
	} else {
		sql, params, err = e.compiler.CompileWithParams(stmt, e.maxRows, e.dialect)
	}
	if err != nil {
		return nil, err
	}

	id := ulid.Make()
	e.onQueryStarted.Notify(QueryStartedEvent{ID: id, Query: sql, Params: params, Sender: e})
	start := time.Now()

	rows, err := e.querier.Query(ctx, sql, params...)

	elapsed := time.Since(start)
	e.onQueryEnded.Notify(QueryEndedEvent{ID: id, Query: sql, Params: params, Sender: e, ResponseTime: elapsed, Err: err})
	if err != nil {
		e.logger.Error("query failed", "id", id.String(), "dialect", e.dialect, "error", err)
		return nil, errors.Wrapf(err, "query %s", id)
	}
	e.logger.Debug("query", "id", id.String(), "dialect", e.dialect, "elapsed", elapsed)
	return rows, nil
}

// Result holds every row of a query keyed by column name.
type Result struct {
	Columns []string
	Rows    []map[string]any
}

// Collect runs stmt and drains its rows.
func (e *Executor) Collect(ctx context.Context, stmt q.SelectStatement) (Result, error) {
	rows, err := e.Query(ctx, stmt)
	if err != nil {
		return Result{}, err
	}
	return Collect(rows)
}

// Collect drains and closes rows.
func Collect(rows Rows) (result Result, err error) {
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = multierror.Append(err, errors.Wrap(closeErr, "close rows")).ErrorOrNil()
		}
	}()

	columns, err := rows.Columns()
	if err != nil {
		return Result{}, errors.Wrap(err, "columns")
	}
	result.Columns = columns
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return Result{}, errors.Wrap(err, "scan")
		}
		row := make(map[string]any, len(columns))
		for i, column := range columns {
			row[column] = values[i]
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return Result{}, errors.Wrap(err, "rows")
	}
	return result, nil
}
