package selection

import (
	"sync"

	"go.uber.org/zap"

	"github.com/temirov/snippetbundle/internal/fsys"
)

// ListenerID identifies a registered change listener.
type ListenerID uint64

type listenerEntry struct {
	id       ListenerID
	callback func()
}

// Store owns the ordered forest of root nodes and notifies listeners after changes.
//
// The forest is not synchronized: AddFiles, RemoveNode, and ClearAll must be
// called from a single owner goroutine. The listener registry is copy-on-write
// and may be changed from any goroutine, including from inside a listener.
type Store struct {
	tree    *Tree
	ignorer Ignorer
	logger  *zap.Logger
	roots   []*Node

	listenersMutex sync.Mutex
	listeners      []listenerEntry
	nextListenerID ListenerID
}

// NewStore constructs an empty Store whose trees are pruned by ignorer.
func NewStore(ignorer Ignorer, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		tree:    NewTree(ignorer, logger),
		ignorer: ignorer,
		logger:  logger,
	}
}

// AddFiles appends a freshly built root for every usable handle that is not
// already a root. Listeners are notified once when at least one root was added.
// It returns the number of roots added.
func (store *Store) AddFiles(handles []fsys.FileHandle) int {
	added := 0
	for _, handle := range handles {
		if handle == nil || !handle.IsValid() {
			continue
		}
		if store.ignorer != nil && store.ignorer.ShouldIgnore(handle) {
			store.logger.Debug("ignored root", zap.String("path", handle.Path()))
			continue
		}
		if store.hasRoot(handle) {
			continue
		}
		store.roots = append(store.roots, store.tree.BuildNode(handle, nil))
		added++
	}
	if added > 0 {
		store.notifyChanged()
	}
	return added
}

func (store *Store) hasRoot(handle fsys.FileHandle) bool {
	for _, root := range store.roots {
		if fsys.SameEntity(root.handle, handle) {
			return true
		}
	}
	return false
}

// RemoveNode removes node from the forest, either as a root or as a descendant.
// Listeners are notified even when node was not found.
func (store *Store) RemoveNode(node *Node) bool {
	removed := store.removeNode(node)
	store.notifyChanged()
	return removed
}

func (store *Store) removeNode(node *Node) bool {
	if node == nil {
		return false
	}
	for rootIndex, root := range store.roots {
		if root == node {
			store.roots = append(store.roots[:rootIndex:rootIndex], store.roots[rootIndex+1:]...)
			return true
		}
	}
	for _, root := range store.roots {
		if RemoveDescendant(root, node) {
			return true
		}
	}
	return false
}

// ClearAll removes every root. An empty store is left untouched and listeners are not notified.
func (store *Store) ClearAll() {
	if len(store.roots) == 0 {
		return
	}
	store.roots = nil
	store.notifyChanged()
}

// Snapshot returns a copy of the current root list.
func (store *Store) Snapshot() []*Node {
	return append([]*Node(nil), store.roots...)
}

// FileCount returns the number of files across the whole forest.
func (store *Store) FileCount() int {
	total := 0
	for _, root := range store.roots {
		total += FileCount(root)
	}
	return total
}

// FindByKey returns the first node, in depth-first root order, whose handle key equals key.
func (store *Store) FindByKey(key string) *Node {
	for _, root := range store.roots {
		if found := findByKey(root, key); found != nil {
			return found
		}
	}
	return nil
}

func findByKey(node *Node, key string) *Node {
	if node.handle.Key() == key {
		return node
	}
	for _, child := range node.children {
		if found := findByKey(child, key); found != nil {
			return found
		}
	}
	return nil
}

// AddListener registers callback to run after every state change.
func (store *Store) AddListener(callback func()) ListenerID {
	store.listenersMutex.Lock()
	defer store.listenersMutex.Unlock()
	store.nextListenerID++
	updated := make([]listenerEntry, 0, len(store.listeners)+1)
	updated = append(updated, store.listeners...)
	updated = append(updated, listenerEntry{id: store.nextListenerID, callback: callback})
	store.listeners = updated
	return store.nextListenerID
}

// RemoveListener unregisters the listener with the given id. Unknown ids are ignored.
func (store *Store) RemoveListener(id ListenerID) {
	store.listenersMutex.Lock()
	defer store.listenersMutex.Unlock()
	updated := make([]listenerEntry, 0, len(store.listeners))
	for _, entry := range store.listeners {
		if entry.id != id {
			updated = append(updated, entry)
		}
	}
	store.listeners = updated
}

func (store *Store) notifyChanged() {
	store.listenersMutex.Lock()
	current := store.listeners
	store.listenersMutex.Unlock()
	for _, entry := range current {
		entry.callback()
	}
}
