package query

import (
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-query-go/asceticql/query/domain/operators"
)

// NodeID addresses a node inside the ExpressionTree that created it.
type NodeID int

// NodeValue is the payload of a tree node. It is implemented by LogicalNode,
// ComparisonNode, FieldNode, LiteralNode and PatternNode only.
type NodeValue interface {
	isNodeValue()
}

type LogicalNode struct {
	Operator operators.LogicalOperator
}

type ComparisonNode struct {
	Operator operators.ComparisonOperator
}

type FieldNode struct {
	Field FieldRef
}

type LiteralNode struct {
	Literal Literal
}

type PatternNode struct {
	Pattern Pattern
}

func (LogicalNode) isNodeValue()    {}
func (ComparisonNode) isNodeValue() {}
func (FieldNode) isNodeValue()      {}
func (LiteralNode) isNodeValue()    {}
func (PatternNode) isNodeValue()    {}

func (n LogicalNode) String() string    { return n.Operator.String() }
func (n ComparisonNode) String() string { return n.Operator.String() }
func (n FieldNode) String() string      { return n.Field.String() }
func (n LiteralNode) String() string    { return n.Literal.String() }
func (n PatternNode) String() string    { return n.Pattern.String() }

// Node is a read-only view of one tree slot.
type Node struct {
	ID       NodeID
	Value    NodeValue
	parent   NodeID
	attached bool
}

func (n Node) Parent() (NodeID, bool) {
	return n.parent, n.attached
}

func (n Node) IsCondition() bool {
	switch n.Value.(type) {
	case LogicalNode, ComparisonNode:
		return true
	}
	return false
}

func (n Node) IsLogical() bool {
	_, ok := n.Value.(LogicalNode)
	return ok
}

type slot struct {
	value    NodeValue
	parent   NodeID
	attached bool
	children []NodeID
}

// ExpressionTree is an append-only arena of expression nodes. The most recently
// added operator node is the root. The zero value is an empty tree.
type ExpressionTree struct {
	slots []slot
}

func (t *ExpressionTree) IsNull() bool {
	return len(t.slots) == 0
}

func (t *ExpressionTree) Len() int {
	return len(t.slots)
}

func (t *ExpressionTree) Clear() {
	t.slots = nil
}

func (t *ExpressionTree) Root() (NodeID, bool) {
	if t.IsNull() {
		return 0, false
	}
	return NodeID(len(t.slots) - 1), true
}

func (t *ExpressionTree) Node(id NodeID) (Node, error) {
	if !t.has(id) {
		return Node{}, errors.Wrapf(ErrUnknownNode, "node %d", id)
	}
	s := t.slots[id]
	return Node{ID: id, Value: s.value, parent: s.parent, attached: s.attached}, nil
}

// Children returns the ordered children of id: left then right for operator
// nodes, nothing for leaves.
func (t *ExpressionTree) Children(id NodeID) []NodeID {
	if !t.has(id) {
		return nil
	}
	return append([]NodeID(nil), t.slots[id].children...)
}

func (t *ExpressionTree) Parent(id NodeID) (NodeID, bool) {
	if !t.has(id) {
		return 0, false
	}
	s := t.slots[id]
	return s.parent, s.attached
}

// AddComparison appends the operands and the comparison node joining them. The
// comparison becomes the root.
func (t *ExpressionTree) AddComparison(left FieldRef, op operators.ComparisonOperator, right Operand) (NodeID, error) {
	if err := checkComparison(left, op, right); err != nil {
		return 0, err
	}
	rv, err := operandNode(right)
	if err != nil {
		return 0, err
	}
	l := t.push(FieldNode{Field: left})
	r := t.push(rv)
	return t.join(ComparisonNode{Operator: op}, l, r), nil
}

// AddLogical combines two previously built sub-trees. Both must be detached
// condition nodes. The new node becomes the root.
func (t *ExpressionTree) AddLogical(left NodeID, op operators.LogicalOperator, right NodeID) (NodeID, error) {
	if !op.Valid() {
		return 0, errors.Wrapf(ErrUnknownOperator, "logical operator %q", op)
	}
	if left == right {
		return 0, errors.Wrapf(ErrAlreadyAttached, "node %d used as both operands", left)
	}
	for _, id := range []NodeID{left, right} {
		if err := t.checkDetachedCondition(id); err != nil {
			return 0, err
		}
	}
	return t.join(LogicalNode{Operator: op}, left, right), nil
}

// Clone returns a deep copy sharing no storage with t.
func (t *ExpressionTree) Clone() ExpressionTree {
	out := ExpressionTree{slots: make([]slot, len(t.slots))}
	for i, s := range t.slots {
		s.children = append([]NodeID(nil), s.children...)
		out.slots[i] = s
	}
	return out
}

func (t *ExpressionTree) checkDetachedCondition(id NodeID) error {
	node, err := t.Node(id)
	if err != nil {
		return err
	}
	if !node.IsCondition() {
		return errors.Wrapf(ErrNotCondition, "node %d", id)
	}
	if node.attached {
		return errors.Wrapf(ErrAlreadyAttached, "node %d", id)
	}
	return nil
}

func (t *ExpressionTree) has(id NodeID) bool {
	return id >= 0 && int(id) < len(t.slots)
}

func (t *ExpressionTree) push(v NodeValue) NodeID {
	t.slots = append(t.slots, slot{value: v})
	return NodeID(len(t.slots) - 1)
}

func (t *ExpressionTree) join(v NodeValue, left, right NodeID) NodeID {
	id := t.push(v)
	t.slots[id].children = []NodeID{left, right}
	for _, c := range []NodeID{left, right} {
		t.slots[c].parent = id
		t.slots[c].attached = true
	}
	return id
}

func operandNode(o Operand) (NodeValue, error) {
	switch v := o.(type) {
	case FieldRef:
		return FieldNode{Field: v}, nil
	case Literal:
		return LiteralNode{Literal: v}, nil
	case Pattern:
		return PatternNode{Pattern: v}, nil
	}
	return nil, errors.Errorf("unsupported operand %T", o)
}

func checkComparison(left FieldRef, op operators.ComparisonOperator, right Operand) error {
	if err := left.Validate(); err != nil {
		return err
	}
	if !op.Valid() {
		return errors.Wrapf(ErrUnknownOperator, "comparison operator %q", op)
	}
	switch r := right.(type) {
	case nil:
		return errors.Wrap(ErrEmptyCondition, "missing right operand")
	case Pattern:
		if !op.IsPattern() {
			return errors.Wrapf(ErrPatternRequiresLike, "operator %s", op)
		}
	case FieldRef:
		if op.IsPattern() {
			return ErrLikeRequiresPattern
		}
		if err := r.Validate(); err != nil {
			return err
		}
	default:
		if op.IsPattern() {
			return ErrLikeRequiresPattern
		}
	}
	return nil
}
