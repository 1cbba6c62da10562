package menu

// TreeItem is anything that can be placed in a menu forest.
type TreeItem interface {
	ID() int64
	ParentID() *int64
}

// Node is one entry of a built forest. Children are owned by their parent
// node and hold no back reference.
type Node[T TreeItem] struct {
	Item     T
	Children []*Node[T]
}

// BuildTree turns a flat list into a forest.
//
// Roots and children keep the order of the input. Items whose parent is not
// part of the input are dropped. The builder never sorts; callers pass the
// list already ordered by order_number.
func BuildTree[T TreeItem](items []T) []*Node[T] {
	nodes := make(map[int64]*Node[T], len(items))
	for _, item := range items {
		nodes[item.ID()] = &Node[T]{Item: item, Children: []*Node[T]{}}
	}

	roots := make([]*Node[T], 0)
	for _, item := range items {
		node := nodes[item.ID()]
		parentID := item.ParentID()
		if parentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*parentID]; ok && parent != node {
			parent.Children = append(parent.Children, node)
		}
	}
	return roots
}

// Flatten walks a forest depth-first, parents before children.
// Each node is visited at most once so a malformed input cannot loop.
func Flatten[T TreeItem](roots []*Node[T]) []T {
	var out []T
	seen := make(map[int64]struct{})
	var walk func(nodes []*Node[T])
	walk = func(nodes []*Node[T]) {
		for _, n := range nodes {
			if _, ok := seen[n.Item.ID()]; ok {
				continue
			}
			seen[n.Item.ID()] = struct{}{}
			out = append(out, n.Item)
			walk(n.Children)
		}
	}
	walk(roots)
	return out
}
