package query

import (
	"strings"

	"github.com/pkg/errors"

	q "github.com/krew-solutions/ascetic-query-go/asceticql/query/domain"
	"github.com/krew-solutions/ascetic-query-go/asceticql/query/domain/operators"
	"github.com/krew-solutions/ascetic-query-go/asceticql/query/domain/wildcard"
)

type SQLVisitorOption func(*SQLVisitor)

// BindParameters makes the visitor emit placeholders for literals and patterns
// and collect their values, numbering from start+1.
func BindParameters(start int) SQLVisitorOption {
	return func(v *SQLVisitor) {
		v.bind = true
		v.placeholderIndex = start
	}
}

// SQLVisitor renders a condition tree as SQL. Comparisons directly under a
// logical operator are parenthesised, so nesting is always explicit.
type SQLVisitor struct {
	q.BaseVisitor
	tree             *q.ExpressionTree
	dialect          Dialect
	translator       *wildcard.Translator
	sb               strings.Builder
	bind             bool
	placeholderIndex int
	parameters       []any
}

func NewSQLVisitor(tree *q.ExpressionTree, dialect Dialect, opts ...SQLVisitorOption) (*SQLVisitor, error) {
	translator, err := wildcard.NewTranslator(wildcard.PortableSyntax, dialect.PatternSyntax())
	if err != nil {
		return nil, errors.Wrapf(err, "dialect %s", dialect.Name())
	}
	v := &SQLVisitor{
		tree:       tree,
		dialect:    dialect,
		translator: translator,
	}
	for i := range opts {
		opts[i](v)
	}
	return v, nil
}

func (v *SQLVisitor) Preorder(n q.Node) error {
	if v.underLogical(n) {
		v.sb.WriteByte('(')
	}
	return nil
}

func (v *SQLVisitor) Postorder(n q.Node) error {
	if v.underLogical(n) {
		v.sb.WriteByte(')')
	}
	return nil
}

func (v *SQLVisitor) Inorder(n q.Node) error {
	switch value := n.Value.(type) {
	case q.LogicalNode:
		v.sb.WriteString(value.Operator.String())
	case q.ComparisonNode:
		if v.comparesWithNull(n, value.Operator) {
			v.sb.WriteString(nullComparisonText(value.Operator))
			return nil
		}
		v.sb.WriteString(comparisonText(value.Operator))
	case q.FieldNode:
		v.sb.WriteString(qualifiedName(v.dialect, value.Field))
	case q.LiteralNode:
		return v.writeValue(value.Literal.Value())
	case q.PatternNode:
		return v.writePattern(value.Pattern)
	default:
		return errors.Errorf("unexpected node %T", value)
	}
	return nil
}

func (v *SQLVisitor) writeValue(value any) error {
	value = Indirect(value)
	if value == nil {
		v.sb.WriteString("NULL")
		return nil
	}
	if v.bind {
		v.parameters = append(v.parameters, value)
		v.placeholderIndex++
		v.sb.WriteString(v.dialect.Placeholder(v.placeholderIndex))
		return nil
	}
	text, err := v.dialect.FormatValue(value)
	if err != nil {
		return errors.Wrap(err, "format literal")
	}
	v.sb.WriteString(text)
	return nil
}

func (v *SQLVisitor) writePattern(p q.Pattern) error {
	if err := v.writeValue(v.translator.Translate(p.Text())); err != nil {
		return err
	}
	escape, err := v.dialect.FormatValue(string(v.translator.Backend().Escape))
	if err != nil {
		return errors.Wrap(err, "format escape")
	}
	v.sb.WriteString(" ESCAPE " + escape)
	return nil
}

// comparesWithNull reports whether n is an equality test against a NULL literal.
func (v *SQLVisitor) comparesWithNull(n q.Node, op operators.ComparisonOperator) bool {
	if op != operators.OperatorEq && op != operators.OperatorNe {
		return false
	}
	children := v.tree.Children(n.ID)
	if len(children) != 2 {
		return false
	}
	right, err := v.tree.Node(children[1])
	if err != nil {
		return false
	}
	lit, ok := right.Value.(q.LiteralNode)
	return ok && Indirect(lit.Literal.Value()) == nil
}

func (v *SQLVisitor) underLogical(n q.Node) bool {
	parentID, ok := n.Parent()
	if !ok {
		return false
	}
	parent, err := v.tree.Node(parentID)
	return err == nil && parent.IsLogical()
}

func (v *SQLVisitor) Result() (sql string, params []any) {
	return v.sb.String(), v.parameters
}

// PlaceholderIndex is the number of the last placeholder emitted.
func (v *SQLVisitor) PlaceholderIndex() int {
	return v.placeholderIndex
}

func comparisonText(op operators.ComparisonOperator) string {
	switch op {
	case operators.OperatorNe:
		return "<>"
	case operators.OperatorLike:
		return " LIKE "
	}
	return op.String()
}

func nullComparisonText(op operators.ComparisonOperator) string {
	if op == operators.OperatorNe {
		return " IS NOT "
	}
	return " IS "
}

func qualifiedName(d Dialect, f q.FieldRef) string {
	name := d.EscapeIdentifier(f.Name())
	if qualifier, ok := f.Qualifier().Get(); ok {
		return d.EscapeIdentifier(qualifier) + "." + name
	}
	return name
}

// CompileCondition renders a filter or join constraint tree on its own.
func CompileCondition(tree *q.ExpressionTree, dialect Dialect, opts ...SQLVisitorOption) (sql string, params []any, err error) {
	if tree.IsNull() {
		return "", nil, q.ErrEmptyTree
	}
	v, err := NewSQLVisitor(tree, dialect, opts...)
	if err != nil {
		return "", nil, err
	}
	if err := q.Walk(tree, v); err != nil {
		return "", nil, err
	}
	sql, params = v.Result()
	return sql, params, nil
}
