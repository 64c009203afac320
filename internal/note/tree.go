package note

import (
	"errors"

	"orion-os/internal/domain"
)

var (
	ErrParentNotFound    = errors.New("parent note not found")
	ErrParentNotFolder   = errors.New("parent note is not a folder")
	ErrCycle             = errors.New("a note cannot be moved inside itself or its descendants")
	ErrFolderHasChildren = errors.New("a folder with children cannot become a note")
)

// TreeNode is a note with its children, as rendered by the sidebar
type TreeNode struct {
	domain.Note
	Children []*TreeNode `json:"children"`
}

// BuildTree groups notes by parent into a forest. Notes whose parent is
// missing are roots. Sibling order follows the input order.
func BuildTree(notes []domain.Note) []*TreeNode {
	nodes := make(map[string]*TreeNode, len(notes))
	ordered := make([]*TreeNode, 0, len(notes))
	for _, n := range notes {
		node := &TreeNode{Note: n, Children: []*TreeNode{}}
		nodes[n.ID] = node
		ordered = append(ordered, node)
	}

	parentOf := make(map[string]*TreeNode, len(notes))
	roots := []*TreeNode{}
	for _, node := range ordered {
		parent := lookupParent(nodes, node)
		if parent == nil {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
		parentOf[node.ID] = parent
	}

	// stored cycles never reach a root; cut them so every note is listed once
	visited := make(map[string]bool, len(notes))
	for _, root := range roots {
		markVisited(root, visited)
	}
	for _, node := range ordered {
		if visited[node.ID] {
			continue
		}
		if parent := parentOf[node.ID]; parent != nil {
			parent.Children = removeChild(parent.Children, node)
		}
		roots = append(roots, node)
		markVisited(node, visited)
	}

	return roots
}

func lookupParent(nodes map[string]*TreeNode, node *TreeNode) *TreeNode {
	if node.ParentID == nil || *node.ParentID == node.ID {
		return nil
	}
	return nodes[*node.ParentID]
}

func markVisited(node *TreeNode, visited map[string]bool) {
	stack := []*TreeNode{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[n.ID] {
			continue
		}
		visited[n.ID] = true
		stack = append(stack, n.Children...)
	}
}

func removeChild(children []*TreeNode, child *TreeNode) []*TreeNode {
	for i, c := range children {
		if c == child {
			return append(children[:i], children[i+1:]...)
		}
	}
	return children
}

// ValidateMove checks that noteID may be placed under newParentID given the
// profile's notes. A nil parent means root and is always allowed.
func ValidateMove(notes []domain.Note, noteID string, newParentID *string) error {
	if newParentID == nil {
		return nil
	}
	if *newParentID == noteID {
		return ErrCycle
	}

	byID := make(map[string]*domain.Note, len(notes))
	for i := range notes {
		byID[notes[i].ID] = &notes[i]
	}

	parent, ok := byID[*newParentID]
	if !ok {
		return ErrParentNotFound
	}
	if !parent.IsFolder {
		return ErrParentNotFolder
	}

	// walk up from the new parent; meeting the moved note means a cycle
	seen := map[string]bool{parent.ID: true}
	for cur := parent; cur.ParentID != nil; {
		next := *cur.ParentID
		if next == noteID {
			return ErrCycle
		}
		if seen[next] {
			break
		}
		seen[next] = true
		if cur, ok = byID[next]; !ok {
			break
		}
	}
	return nil
}

// HasChildren reports whether any note names id as its parent
func HasChildren(notes []domain.Note, id string) bool {
	for _, n := range notes {
		if n.ParentID != nil && *n.ParentID == id {
			return true
		}
	}
	return false
}
