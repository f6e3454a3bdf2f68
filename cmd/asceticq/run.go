package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/krew-solutions/ascetic-query-go/asceticql/session"
	pgxsession "github.com/krew-solutions/ascetic-query-go/asceticql/session/pgx"
	sqlsession "github.com/krew-solutions/ascetic-query-go/asceticql/session/sql"
)

var ErrNoDriver = errors.New("no driver for dialect")

// drivers maps dialect names to database/sql driver names.
var drivers = map[string]string{
	"postgres": "postgres",
	"mysql":    "mysql",
	"sqlite":   "sqlite3",
}

type RunOptions struct {
	*RootOptions
	Inline bool
}

func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Execute a statement document against the configured database",
		Long: `Execute a statement document against the configured DSN and print the rows.

The "pgx" dialect tag runs through a pgx connection pool; other tags use
database/sql with the lib/pq, go-sql-driver/mysql or go-sqlite3 driver.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return opts.run(ctx, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.Inline, "inline", false, "inline literals instead of binding them")

	return cmd
}

func (o *RunOptions) run(ctx context.Context, path string, w io.Writer) error {
	stmt, err := o.statement(path)
	if err != nil {
		return err
	}
	if o.config.DSN == "" {
		return errors.New("dsn is not configured")
	}
	querier, closer, err := o.open(ctx)
	if err != nil {
		return err
	}
	defer closer()

	execOpts := []session.ExecutorOption{session.MaxRows(o.config.MaxRows), session.WithLogger(o.logger)}
	if o.Inline {
		execOpts = append(execOpts, session.InlineLiterals())
	}
	executor := session.NewExecutor(o.compiler, querier, o.config.Dialect, execOpts...)
	executor.OnQueryEnded().Attach(func(e session.QueryEndedEvent) {
		o.logger.Debug("query ended", "id", e.ID.String(), "elapsed", e.ResponseTime, "sql", e.Query)
	})

	result, err := executor.Collect(ctx, stmt)
	if err != nil {
		return err
	}
	return writeTable(w, result)
}

func (o *RunOptions) open(ctx context.Context) (session.Querier, func(), error) {
	tag := strings.ToLower(strings.TrimSpace(o.config.Dialect))
	if tag == "pgx" {
		pool, err := pgxpool.New(ctx, o.config.DSN)
		if err != nil {
			return nil, nil, errors.Wrap(err, "connect")
		}
		return pgxsession.NewSession(pool), pool.Close, nil
	}

	dialect, err := o.compiler.Dialect(tag)
	if err != nil {
		return nil, nil, err
	}
	driver, ok := drivers[dialect.Name()]
	if !ok {
		return nil, nil, errors.Wrap(ErrNoDriver, dialect.Name())
	}
	db, err := sql.Open(driver, o.config.DSN)
	if err != nil {
		return nil, nil, errors.Wrap(err, "connect")
	}
	return sqlsession.NewSession(db), func() { db.Close() }, nil
}

func writeTable(w io.Writer, result session.Result) error {
	data := pterm.TableData{result.Columns}
	for _, row := range result.Rows {
		cells := make([]string, len(result.Columns))
		for i, column := range result.Columns {
			cells[i] = cellText(row[column])
		}
		data = append(data, cells)
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, table)
	fmt.Fprintf(w, "(%d rows)\n", len(result.Rows))
	return nil
}

func cellText(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

