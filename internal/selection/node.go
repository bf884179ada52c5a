// Package selection models the user's working set as a forest of snapshot trees.
package selection

import (
	"go.uber.org/zap"

	"github.com/temirov/snippetbundle/internal/fsys"
)

const displayPathSeparator = "/"

// Ignorer decides whether a handle is excluded from a tree.
type Ignorer interface {
	ShouldIgnore(handle fsys.FileHandle) bool
}

// Node is one entry of the selection. Children are computed once, when the
// node is built, and are not re-synchronized with the file system.
type Node struct {
	handle   fsys.FileHandle
	parent   *Node
	children []*Node
	expanded bool
}

// Handle returns the file system entry the node represents.
func (node *Node) Handle() fsys.FileHandle {
	return node.handle
}

// Parent returns the parent node or nil for a root.
func (node *Node) Parent() *Node {
	return node.parent
}

// Children returns a copy of the node's children in provider order.
func (node *Node) Children() []*Node {
	return append([]*Node(nil), node.children...)
}

// IsDirectory reports whether the node represents a directory.
func (node *Node) IsDirectory() bool {
	return node.handle.IsDirectory()
}

// Expanded reports the presentation-only expansion flag.
func (node *Node) Expanded() bool {
	return node.expanded
}

// SetExpanded sets the presentation-only expansion flag.
func (node *Node) SetExpanded(expanded bool) {
	node.expanded = expanded
}

// ToggleExpanded flips the presentation-only expansion flag.
func (node *Node) ToggleExpanded() {
	node.expanded = !node.expanded
}

// Tree builds nodes over a file system provider, pruning ignored entries.
type Tree struct {
	ignorer Ignorer
	logger  *zap.Logger
}

// NewTree constructs a Tree.
func NewTree(ignorer Ignorer, logger *zap.Logger) *Tree {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tree{ignorer: ignorer, logger: logger}
}

// BuildNode constructs a node for handle. Directory children that the ignorer
// excludes are discarded; the remaining ones are built recursively in order.
func (tree *Tree) BuildNode(handle fsys.FileHandle, parent *Node) *Node {
	node := &Node{handle: handle, parent: parent}
	if !handle.IsDirectory() {
		return node
	}
	childHandles, childrenError := handle.Children()
	if childrenError != nil {
		tree.logger.Warn("unable to list directory", zap.String("path", handle.Path()), zap.Error(childrenError))
		return node
	}
	for _, childHandle := range childHandles {
		if tree.ignorer != nil && tree.ignorer.ShouldIgnore(childHandle) {
			tree.logger.Debug("ignored entry", zap.String("path", childHandle.Path()))
			continue
		}
		node.children = append(node.children, tree.BuildNode(childHandle, node))
	}
	return node
}

// RemoveDescendant removes target from the child list that directly contains it,
// searching depth-first in child order. It reports whether a removal happened.
func RemoveDescendant(root *Node, target *Node) bool {
	if root == nil || target == nil {
		return false
	}
	for childIndex, child := range root.children {
		if child == target {
			root.children = append(root.children[:childIndex:childIndex], root.children[childIndex+1:]...)
			return true
		}
		if child.IsDirectory() && RemoveDescendant(child, target) {
			return true
		}
	}
	return false
}

// FileCount returns the number of non-directory nodes in the subtree rooted at node.
func FileCount(node *Node) int {
	if node == nil {
		return 0
	}
	if !node.IsDirectory() {
		return 1
	}
	count := 0
	for _, child := range node.children {
		count += FileCount(child)
	}
	return count
}

// DisplayPath joins the names from the root down to node with "/".
func DisplayPath(node *Node) string {
	if node.parent == nil {
		return node.handle.Name()
	}
	return DisplayPath(node.parent) + displayPathSeparator + node.handle.Name()
}
