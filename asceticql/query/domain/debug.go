package query

import (
	"fmt"
	"strings"
)

type infixPrinter struct {
	BaseVisitor
	sb *strings.Builder
}

func (p infixPrinter) Preorder(n Node) error {
	if !isLeaf(n) {
		p.sb.WriteByte('(')
	}
	return nil
}

func (p infixPrinter) Inorder(n Node) error {
	if isLeaf(n) {
		p.sb.WriteString(nodeText(n))
	} else {
		p.sb.WriteString(" " + nodeText(n) + " ")
	}
	return nil
}

func (p infixPrinter) Postorder(n Node) error {
	if !isLeaf(n) {
		p.sb.WriteByte(')')
	}
	return nil
}

// InfixString renders t fully parenthesised, e.g. ((a = 1) AND (b < 2)).
func InfixString(t *ExpressionTree) string {
	var sb strings.Builder
	_ = Walk(t, infixPrinter{sb: &sb})
	return sb.String()
}

type tokenPrinter struct {
	BaseVisitor
	tokens *[]string
	post   bool
}

func (p tokenPrinter) Preorder(n Node) error {
	if !p.post {
		*p.tokens = append(*p.tokens, nodeText(n))
	}
	return nil
}

func (p tokenPrinter) Postorder(n Node) error {
	if p.post {
		*p.tokens = append(*p.tokens, nodeText(n))
	}
	return nil
}

// PrefixString renders t in Polish notation, operators before operands.
func PrefixString(t *ExpressionTree) string {
	var tokens []string
	_ = Walk(t, tokenPrinter{tokens: &tokens})
	return strings.Join(tokens, " ")
}

// PostfixString renders t in reverse Polish notation.
func PostfixString(t *ExpressionTree) string {
	var tokens []string
	_ = Walk(t, tokenPrinter{tokens: &tokens, post: true})
	return strings.Join(tokens, " ")
}

// Stats summarises the shape of a tree. Depth counts logical ancestors: a lone
// comparison has depth 0, (a AND b) has depth 1.
type Stats struct {
	Nodes       int
	Logicals    int
	Comparisons int
	Fields      int
	Literals    int
	Patterns    int
	Depth       int
}

func (s Stats) String() string {
	return fmt.Sprintf("nodes=%d logical=%d comparison=%d field=%d literal=%d pattern=%d depth=%d",
		s.Nodes, s.Logicals, s.Comparisons, s.Fields, s.Literals, s.Patterns, s.Depth)
}

type statsVisitor struct {
	BaseVisitor
	stats *Stats
	depth *int
}

func (v statsVisitor) Preorder(n Node) error {
	v.stats.Nodes++
	switch n.Value.(type) {
	case LogicalNode:
		v.stats.Logicals++
	case ComparisonNode:
		v.stats.Comparisons++
	case FieldNode:
		v.stats.Fields++
	case LiteralNode:
		v.stats.Literals++
	case PatternNode:
		v.stats.Patterns++
	}
	return nil
}

func (v statsVisitor) OnEdge(parent, _ Node) error {
	if parent.IsLogical() {
		*v.depth++
		v.stats.Depth = max(v.stats.Depth, *v.depth)
	}
	return nil
}

func (v statsVisitor) PostEdge(parent, _ Node) error {
	if parent.IsLogical() {
		*v.depth--
	}
	return nil
}

func TreeStats(t *ExpressionTree) Stats {
	var (
		stats Stats
		depth int
	)
	_ = Walk(t, statsVisitor{stats: &stats, depth: &depth})
	return stats
}

// Depth returns the number of logical ancestors of id.
func Depth(t *ExpressionTree, id NodeID) int {
	depth := 0
	for {
		parent, ok := t.Parent(id)
		if !ok {
			return depth
		}
		if _, logical := t.slots[parent].value.(LogicalNode); logical {
			depth++
		}
		id = parent
	}
}

func isLeaf(n Node) bool {
	return !n.IsCondition()
}

func nodeText(n Node) string {
	if s, ok := n.Value.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", n.Value)
}
