package query

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	q "github.com/krew-solutions/ascetic-query-go/asceticql/query/domain"
	"github.com/krew-solutions/ascetic-query-go/asceticql/query/domain/operators"
	"github.com/krew-solutions/ascetic-query-go/asceticql/query/domain/wildcard"
)

func TestCompileCondition_NodeByNode(t *testing.T) {
	var tree q.ExpressionTree
	a, err := tree.AddComparison(q.Field("a"), operators.OperatorGte, q.Lit(1))
	require.NoError(t, err)
	b, err := tree.AddComparison(q.Field("b"), operators.OperatorLte, q.Lit(2))
	require.NoError(t, err)
	ab, err := tree.AddLogical(a, operators.OperatorOr, b)
	require.NoError(t, err)
	c, err := tree.AddComparison(q.Field("c"), operators.OperatorEq, q.Lit(nil))
	require.NoError(t, err)
	_, err = tree.AddLogical(ab, operators.OperatorAnd, c)
	require.NoError(t, err)

	sql, params, err := CompileCondition(&tree, Postgres())
	require.NoError(t, err)
	assert.Equal(t, `(("a">=1)OR("b"<=2))AND("c" IS NULL)`, sql)
	assert.Empty(t, params)
}

func TestCompileCondition_NullComparisons(t *testing.T) {
	filter, err := q.NewFilterExpression(q.Or(q.NotEqual(q.Field("a"), q.Lit(nil)), q.LessThan(q.Field("b"), q.Lit(nil))))
	require.NoError(t, err)
	tree := filter.Tree()

	sql, params, err := CompileCondition(&tree, Postgres(), BindParameters(0))
	require.NoError(t, err)
	assert.Equal(t, `("a" IS NOT NULL)OR("b"<NULL)`, sql)
	assert.Empty(t, params)
}

func TestCompileCondition_TypedNilIsNull(t *testing.T) {
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	filter, err := q.NewFilterExpression(q.And(
		q.Equal(q.Field("deleted_at"), q.Lit((*time.Time)(nil))),
		q.NotEqual(q.Field("owner"), q.Lit((*uuid.UUID)(nil))),
		q.GreaterThan(q.Field("created_at"), q.Lit(&at)),
	))
	require.NoError(t, err)
	tree := filter.Tree()

	sql, _, err := CompileCondition(&tree, Postgres())
	require.NoError(t, err)
	assert.Equal(t, `(("deleted_at" IS NULL)AND("owner" IS NOT NULL))AND("created_at">'2024-03-01 00:00:00Z')`, sql)

	sql, params, err := CompileCondition(&tree, Postgres(), BindParameters(0))
	require.NoError(t, err)
	assert.Equal(t, `(("deleted_at" IS NULL)AND("owner" IS NOT NULL))AND("created_at">$1)`, sql)
	assert.Equal(t, []any{at}, params)
}

func TestCompileCondition_BindParametersContinueNumbering(t *testing.T) {
	filter, err := q.NewFilterExpression(q.And(q.Equal(q.Field("a"), q.Lit("x")), q.Equal(q.Field("b"), q.Lit("y"))))
	require.NoError(t, err)
	tree := filter.Tree()

	v, err := NewSQLVisitor(&tree, Postgres(), BindParameters(2))
	require.NoError(t, err)
	require.NoError(t, q.Walk(&tree, v))

	sql, params := v.Result()
	assert.Equal(t, `("a"=$3)AND("b"=$4)`, sql)
	assert.Equal(t, []any{"x", "y"}, params)
	assert.Equal(t, 4, v.PlaceholderIndex())
}

func TestCompileCondition_EmptyTree(t *testing.T) {
	_, _, err := CompileCondition(&q.ExpressionTree{}, Postgres())
	assert.ErrorIs(t, err, q.ErrEmptyTree)
}

func TestNewSQLVisitor_ConflictingPatternSyntax(t *testing.T) {
	d := NewDialect("odd", WithPatternSyntax(wildcard.Syntax{One: '?', Many: '%', Escape: '\\'}))
	var tree q.ExpressionTree
	_, err := NewSQLVisitor(&tree, d)
	assert.ErrorIs(t, err, wildcard.ErrSyntaxConflict)
}
