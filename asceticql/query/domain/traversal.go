package query

// TreeVisitor receives traversal events from Walk.
//
// For every node Walk calls Preorder first. The first child is then entered
// with OnEdge, walked, and left with PostEdge. Each later child is preceded by
// an Inorder call on the parent. Postorder follows the last child. A leaf sees
// Preorder, Inorder and Postorder in that order.
type TreeVisitor interface {
	Preorder(n Node) error
	Inorder(n Node) error
	Postorder(n Node) error
	OnEdge(parent, child Node) error
	PostEdge(parent, child Node) error
}

// BaseVisitor implements every TreeVisitor hook as a no-op. Embed it and
// override the hooks of interest.
type BaseVisitor struct{}

func (BaseVisitor) Preorder(Node) error       { return nil }
func (BaseVisitor) Inorder(Node) error        { return nil }
func (BaseVisitor) Postorder(Node) error      { return nil }
func (BaseVisitor) OnEdge(Node, Node) error   { return nil }
func (BaseVisitor) PostEdge(Node, Node) error { return nil }

// Walk traverses t from its root. An empty tree produces no events. The first
// error returned by a hook stops the walk and is returned as is.
func Walk[V TreeVisitor](t *ExpressionTree, v V) error {
	root, ok := t.Root()
	if !ok {
		return nil
	}
	return walk(t, root, v)
}

func walk[V TreeVisitor](t *ExpressionTree, id NodeID, v V) error {
	node, err := t.Node(id)
	if err != nil {
		return err
	}
	if err := v.Preorder(node); err != nil {
		return err
	}
	children := t.slots[id].children
	if len(children) == 0 {
		if err := v.Inorder(node); err != nil {
			return err
		}
		return v.Postorder(node)
	}
	for i, childID := range children {
		if i > 0 {
			if err := v.Inorder(node); err != nil {
				return err
			}
		}
		child, err := t.Node(childID)
		if err != nil {
			return err
		}
		if err := v.OnEdge(node, child); err != nil {
			return err
		}
		if err := walk(t, childID, v); err != nil {
			return err
		}
		if err := v.PostEdge(node, child); err != nil {
			return err
		}
	}
	return v.Postorder(node)
}
