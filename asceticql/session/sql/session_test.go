package sql

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	q "github.com/krew-solutions/ascetic-query-go/asceticql/query/domain"
	qi "github.com/krew-solutions/ascetic-query-go/asceticql/query/infrastructure"
	"github.com/krew-solutions/ascetic-query-go/asceticql/session"
	"github.com/krew-solutions/ascetic-query-go/asceticql/utils/testutils"
)

var seed = []string{
	`CREATE TABLE customers (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`,
	`CREATE TABLE orders (id INTEGER PRIMARY KEY, customer_id INTEGER NOT NULL, total INTEGER NOT NULL)`,
	`INSERT INTO customers (id, name) VALUES (1, 'Jane'), (2, 'John'), (3, 'Mary'), (4, 'J_ck')`,
	`INSERT INTO orders (id, customer_id, total) VALUES (10, 1, 150), (11, 2, 50), (12, 3, 300)`,
}

func TestSession_SQLite(t *testing.T) {
	db := testutils.NewSQLiteDB(t, seed...)
	compiler, err := qi.NewCompiler(qi.WithLogger(nil))
	require.NoError(t, err)

	c := q.NewEntity("customers").As("c")
	o := q.NewEntity("orders").As("o")
	stmt, err := q.NewSelect(c).
		Fields(c.Field("name"), o.Field("total")).
		Join(o, q.Equal(o.Field("customer_id"), c.Field("id"))).
		Where(q.And(
			q.Like(c.Field("name"), q.Wildcard("J*")),
			q.GreaterThan(o.Field("total"), q.Lit(100)),
		)).
		Build()
	require.NoError(t, err)

	for _, opts := range [][]session.ExecutorOption{nil, {session.InlineLiterals()}} {
		e := session.NewExecutor(compiler, NewSession(db), "sqlite3", append(opts, session.WithLogger(nil))...)
		result, err := e.Collect(context.Background(), stmt)
		require.NoError(t, err)
		assert.Equal(t, []map[string]any{{"name": "Jane", "total": int64(150)}}, result.Rows)
	}
}

func TestSession_SQLite_EscapedWildcard(t *testing.T) {
	db := testutils.NewSQLiteDB(t, seed...)
	compiler, err := qi.NewCompiler(qi.WithLogger(nil))
	require.NoError(t, err)

	stmt, err := q.NewSelect(q.NewEntity("customers")).
		Fields(q.Field("id")).
		Where(q.Like(q.Field("name"), q.Wildcard("J_*"))).
		Build()
	require.NoError(t, err)

	e := session.NewExecutor(compiler, NewSession(db), "sqlite", session.WithLogger(nil))
	result, err := e.Collect(context.Background(), stmt)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"id": int64(4)}}, result.Rows)
}

func TestSession_Atomic(t *testing.T) {
	db := testutils.NewSQLiteDB(t, seed...)
	s := NewSession(db)

	err := s.Atomic(context.Background(), func(tx session.Querier) error {
		rows, err := tx.Query(context.Background(), `SELECT count(*) AS n FROM orders`)
		if err != nil {
			return err
		}
		result, err := session.Collect(rows)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(3), result.Rows[0]["n"])
		return nil
	})
	require.NoError(t, err)

	boom := errors.New("abort")
	err = s.Atomic(context.Background(), func(session.Querier) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestSession_QueryError(t *testing.T) {
	db := testutils.NewSQLiteDB(t, seed...)

	rows, err := NewSession(db).Query(context.Background(), `SELECT missing FROM nowhere`)
	require.Error(t, err)
	assert.Nil(t, rows)
	assert.True(t, rows == nil)
}
