package query

import (
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-query-go/asceticql/query/domain/operators"
)

// Operand is anything that may stand on the right of a comparison:
// FieldRef, Literal or Pattern.
type Operand interface {
	isOperand()
}

// Value is an Operand usable with the ordering and equality operators:
// FieldRef or Literal.
type Value interface {
	Operand
	isValue()
}

// Condition is a boolean expression: a Comparison or a Logical combination of
// conditions. Fields and literals are not conditions, so they can never be
// combined with AND or OR.
type Condition interface {
	And(Condition) Logical
	Or(Condition) Logical
	isCondition()
}

type Comparison struct {
	left  FieldRef
	op    operators.ComparisonOperator
	right Operand
}

func (c Comparison) Left() FieldRef                         { return c.left }
func (c Comparison) Operator() operators.ComparisonOperator { return c.op }
func (c Comparison) Right() Operand                         { return c.right }

func (c Comparison) And(other Condition) Logical {
	return Logical{left: c, op: operators.OperatorAnd, right: other}
}

func (c Comparison) Or(other Condition) Logical {
	return Logical{left: c, op: operators.OperatorOr, right: other}
}

func (Comparison) isCondition() {}

type Logical struct {
	left  Condition
	op    operators.LogicalOperator
	right Condition
}

func (l Logical) Left() Condition                     { return l.left }
func (l Logical) Operator() operators.LogicalOperator { return l.op }
func (l Logical) Right() Condition                    { return l.right }

func (l Logical) And(other Condition) Logical {
	return Logical{left: l, op: operators.OperatorAnd, right: other}
}

func (l Logical) Or(other Condition) Logical {
	return Logical{left: l, op: operators.OperatorOr, right: other}
}

func (Logical) isCondition() {}

func Equal(left FieldRef, right Value) Comparison {
	return Comparison{left: left, op: operators.OperatorEq, right: right}
}

func NotEqual(left FieldRef, right Value) Comparison {
	return Comparison{left: left, op: operators.OperatorNe, right: right}
}

func LessThan(left FieldRef, right Value) Comparison {
	return Comparison{left: left, op: operators.OperatorLt, right: right}
}

func LessThanEqual(left FieldRef, right Value) Comparison {
	return Comparison{left: left, op: operators.OperatorLte, right: right}
}

func GreaterThan(left FieldRef, right Value) Comparison {
	return Comparison{left: left, op: operators.OperatorGt, right: right}
}

func GreaterThanEqual(left FieldRef, right Value) Comparison {
	return Comparison{left: left, op: operators.OperatorGte, right: right}
}

func Like(left FieldRef, p Pattern) Comparison {
	return Comparison{left: left, op: operators.OperatorLike, right: p}
}

// Compare builds a comparison from an operator known only at run time.
func Compare(left FieldRef, op operators.ComparisonOperator, right Operand) (Comparison, error) {
	if err := checkComparison(left, op, right); err != nil {
		return Comparison{}, err
	}
	return Comparison{left: left, op: op, right: right}, nil
}

// And folds its operands left-deep: And(a, b, c) is (a AND b) AND c.
func And(left Condition, rights ...Condition) Condition {
	return foldLeft(operators.OperatorAnd, left, rights)
}

// Or folds its operands left-deep: Or(a, b, c) is (a OR b) OR c.
func Or(left Condition, rights ...Condition) Condition {
	return foldLeft(operators.OperatorOr, left, rights)
}

func foldLeft(op operators.LogicalOperator, left Condition, rights []Condition) Condition {
	acc := left
	for _, right := range rights {
		acc = Logical{left: acc, op: op, right: right}
	}
	return acc
}

// Materialize appends the nodes of c to t and returns the id of its top node.
func Materialize(t *ExpressionTree, c Condition) (NodeID, error) {
	switch c := c.(type) {
	case nil:
		return 0, ErrEmptyCondition
	case Comparison:
		return t.AddComparison(c.left, c.op, c.right)
	case Logical:
		left, err := Materialize(t, c.left)
		if err != nil {
			return 0, err
		}
		right, err := Materialize(t, c.right)
		if err != nil {
			return 0, err
		}
		return t.AddLogical(left, c.op, right)
	}
	return 0, errors.Errorf("unsupported condition %T", c)
}

// FilterExpression is the tree of a WHERE clause.
type FilterExpression struct {
	tree ExpressionTree
}

func NewFilterExpression(c Condition) (FilterExpression, error) {
	var t ExpressionTree
	if _, err := Materialize(&t, c); err != nil {
		return FilterExpression{}, errors.Wrap(err, "filter")
	}
	return FilterExpression{tree: t}, nil
}

// FilterFromTree adopts a tree built node by node. The tree is copied.
func FilterFromTree(t *ExpressionTree) (FilterExpression, error) {
	if t == nil || t.IsNull() {
		return FilterExpression{}, errors.Wrap(ErrEmptyTree, "filter")
	}
	return FilterExpression{tree: t.Clone()}, nil
}

// Tree returns a copy of the filter tree.
func (f FilterExpression) Tree() ExpressionTree {
	return f.tree.Clone()
}

func (f FilterExpression) IsNull() bool {
	return f.tree.IsNull()
}

// JoinConstraintExpression is the tree of a join's ON clause. Every comparison
// in it relates two fields.
type JoinConstraintExpression struct {
	tree ExpressionTree
}

func NewJoinConstraint(c Condition) (JoinConstraintExpression, error) {
	var t ExpressionTree
	if _, err := Materialize(&t, c); err != nil {
		return JoinConstraintExpression{}, errors.Wrap(err, "join constraint")
	}
	return JoinConstraintFromTree(&t)
}

// JoinConstraintFromTree adopts a tree built node by node. The tree is copied.
func JoinConstraintFromTree(t *ExpressionTree) (JoinConstraintExpression, error) {
	if t == nil || t.IsNull() {
		return JoinConstraintExpression{}, errors.Wrap(ErrEmptyTree, "join constraint")
	}
	for i := 0; i < t.Len(); i++ {
		switch v := t.slots[i].value.(type) {
		case LiteralNode:
			return JoinConstraintExpression{}, errors.Wrapf(ErrJoinConstraintOperand, "literal %s", v.Literal)
		case PatternNode:
			return JoinConstraintExpression{}, errors.Wrapf(ErrJoinConstraintOperand, "pattern %s", v.Pattern)
		}
	}
	return JoinConstraintExpression{tree: t.Clone()}, nil
}

func (j JoinConstraintExpression) Tree() ExpressionTree {
	return j.tree.Clone()
}

func (j JoinConstraintExpression) IsNull() bool {
	return j.tree.IsNull()
}
