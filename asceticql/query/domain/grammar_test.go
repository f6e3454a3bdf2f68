package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/ascetic-query-go/asceticql/query/domain/operators"
)

func TestComparisonConstructors(t *testing.T) {
	cases := []struct {
		got Comparison
		op  operators.ComparisonOperator
	}{
		{Equal(Field("a"), Lit(1)), operators.OperatorEq},
		{NotEqual(Field("a"), Lit(1)), operators.OperatorNe},
		{LessThan(Field("a"), Lit(1)), operators.OperatorLt},
		{LessThanEqual(Field("a"), Lit(1)), operators.OperatorLte},
		{GreaterThan(Field("a"), Lit(1)), operators.OperatorGt},
		{GreaterThanEqual(Field("a"), Lit(1)), operators.OperatorGte},
	}
	for _, c := range cases {
		t.Run(string(c.op), func(t *testing.T) {
			assert.Equal(t, c.op, c.got.Operator())
			assert.Equal(t, Field("a"), c.got.Left())
			assert.Equal(t, Lit(1), c.got.Right())
		})
	}

	like := Like(Field("name"), Wildcard("J*"))
	assert.Equal(t, operators.OperatorLike, like.Operator())
	assert.Equal(t, Wildcard("J*"), like.Right())
}

func TestCompare(t *testing.T) {
	c, err := Compare(Field("a"), operators.OperatorLike, Wildcard("?"))
	require.NoError(t, err)
	assert.Equal(t, Like(Field("a"), Wildcard("?")), c)

	_, err = Compare(Field("a"), operators.OperatorLike, Lit("?"))
	assert.ErrorIs(t, err, ErrLikeRequiresPattern)

	_, err = Compare(Field("a"), operators.OperatorGt, Wildcard("?"))
	assert.ErrorIs(t, err, ErrPatternRequiresLike)

	_, err = Compare(Field("a"), operators.ComparisonOperator("=="), Lit(1))
	assert.ErrorIs(t, err, ErrUnknownOperator)
}

func TestAnd_FoldsLeftDeep(t *testing.T) {
	a := Equal(Field("a"), Lit(1))
	b := Equal(Field("b"), Lit(2))
	c := Equal(Field("c"), Lit(3))

	got := And(a, b, c)
	assert.Equal(t, a.And(b).And(c), got)

	filter, err := NewFilterExpression(got)
	require.NoError(t, err)
	tree := filter.Tree()
	assert.Equal(t, "(((a = 1) AND (b = 2)) AND (c = 3))", InfixString(&tree))
}

func TestAnd_SingleOperand(t *testing.T) {
	a := Equal(Field("a"), Lit(1))
	assert.Equal(t, Condition(a), And(a))
}

func TestOr_Mixed(t *testing.T) {
	got := Or(Equal(Field("a"), Lit(1)), GreaterThan(Field("b"), Field("c")).And(Like(Field("d"), Wildcard("x*"))))
	filter, err := NewFilterExpression(got)
	require.NoError(t, err)
	tree := filter.Tree()
	assert.Equal(t, "((a = 1) OR ((b > c) AND (d LIKE 'x*')))", InfixString(&tree))
}

func TestNewFilterExpression_Errors(t *testing.T) {
	_, err := NewFilterExpression(nil)
	assert.ErrorIs(t, err, ErrEmptyCondition)

	_, err = NewFilterExpression(And(Equal(Field("a"), Lit(1)), nil))
	assert.ErrorIs(t, err, ErrEmptyCondition)

	_, err = NewFilterExpression(Equal(Field(""), Lit(1)))
	assert.ErrorIs(t, err, ErrEmptyFieldName)

	_, err = FilterFromTree(&ExpressionTree{})
	assert.ErrorIs(t, err, ErrEmptyTree)
}

func TestNewJoinConstraint(t *testing.T) {
	users := NewEntity("users").As("u")
	orders := NewEntity("orders").As("o")

	_, err := NewJoinConstraint(Equal(users.Field("id"), orders.Field("user_id")))
	require.NoError(t, err)

	_, err = NewJoinConstraint(And(Equal(users.Field("id"), orders.Field("user_id")), Equal(orders.Field("state"), Lit("open"))))
	assert.ErrorIs(t, err, ErrJoinConstraintOperand)

	_, err = NewJoinConstraint(Like(users.Field("name"), Wildcard("*")))
	assert.ErrorIs(t, err, ErrJoinConstraintOperand)
}

func TestFilterExpression_TreeIsACopy(t *testing.T) {
	filter, err := NewFilterExpression(Equal(Field("a"), Lit(1)))
	require.NoError(t, err)

	tree := filter.Tree()
	tree.Clear()

	again := filter.Tree()
	assert.False(t, again.IsNull())
}
