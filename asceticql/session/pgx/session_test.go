package pgx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	q "github.com/krew-solutions/ascetic-query-go/asceticql/query/domain"
	qi "github.com/krew-solutions/ascetic-query-go/asceticql/query/infrastructure"
	"github.com/krew-solutions/ascetic-query-go/asceticql/session"
	"github.com/krew-solutions/ascetic-query-go/asceticql/utils/testutils"
)

func TestSession_Postgres(t *testing.T) {
	pool := testutils.NewPgPool(t)
	compiler, err := qi.NewCompiler(qi.WithLogger(nil))
	require.NoError(t, err)

	ctx := context.Background()
	err = NewSession(pool).Atomic(ctx, func(tx session.Querier) error {
		stmt, err := q.NewSelect(q.NewEntity("pg_type").As("t")).
			Fields(q.Field("typname").Of(q.NewEntity("pg_type").As("t"))).
			Where(q.Like(q.Field("typname"), q.Wildcard("int?"))).
			Build()
		require.NoError(t, err)

		e := session.NewExecutor(compiler, tx, "pgx", session.WithLogger(nil))
		result, err := e.Collect(ctx, stmt)
		if err != nil {
			return err
		}
		assert.Equal(t, []string{"typname"}, result.Columns)
		names := make([]any, 0, len(result.Rows))
		for _, row := range result.Rows {
			names = append(names, row["typname"])
		}
		assert.ElementsMatch(t, []any{"int2", "int4", "int8"}, names)
		return nil
	})
	require.NoError(t, err)
}
