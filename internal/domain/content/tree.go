package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/KennelOS/backend/internal/shared/paths"
)

// ErrNotFound is returned when a path does not resolve to a node
var ErrNotFound = errors.New("path not found")

// Tree is the immutable content catalog exposed by the desktop
type Tree struct {
	roots *Children
}

// NewTree wraps an ordered root mapping
func NewTree(roots *Children) *Tree {
	if roots == nil {
		roots = NewChildren()
	}
	return &Tree{roots: roots}
}

// Roots returns the top-level mapping
func (t *Tree) Roots() *Children {
	return t.roots
}

// Root looks up a top-level node
func (t *Tree) Root(key string) (*Node, bool) {
	return t.roots.Get(key)
}

// Resolve maps a dotted path to its node. The first segment is looked up in
// the root mapping; later segments descend through Children, skipping the
// literal "children" marker. Any miss yields ErrNotFound with no partial result.
func (t *Tree) Resolve(path string) (*Node, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrNotFound)
	}

	segments := strings.Split(path, paths.Separator)
	current, ok := t.roots.Get(segments[0])
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	for _, seg := range segments[1:] {
		if seg == paths.ChildrenMarker {
			continue
		}
		children, ok := current.Children()
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		next, ok := children.Get(seg)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		current = next
	}

	return current, nil
}

// Entry is one child of a container together with its full path
type Entry struct {
	Key  string `json:"key"`
	Path string `json:"path"`
	Node *Node  `json:"node"`
}

// List returns the children of the container at path in declaration order
func (t *Tree) List(path string) ([]Entry, error) {
	n, err := t.Resolve(path)
	if err != nil {
		return nil, err
	}
	children, ok := n.Children()
	if !ok {
		return nil, fmt.Errorf("%s is a %s, not a container", path, n.Kind)
	}

	entries := make([]Entry, 0, children.Len())
	for _, key := range children.Keys() {
		child, _ := children.Get(key)
		entries = append(entries, Entry{Key: key, Path: paths.Child(path, key), Node: child})
	}
	return entries, nil
}

// Walk visits every node depth-first in declaration order. Returning false
// from fn stops the walk.
func (t *Tree) Walk(fn func(path string, depth int, n *Node) bool) {
	var visit func(prefix string, depth int, c *Children) bool
	visit = func(prefix string, depth int, c *Children) bool {
		for _, key := range c.Keys() {
			n, _ := c.Get(key)
			p := paths.Child(prefix, key)
			if !fn(p, depth, n) {
				return false
			}
			if children, ok := n.Children(); ok {
				if !visit(p, depth+1, children) {
					return false
				}
			}
		}
		return true
	}
	visit("", 0, t.roots)
}

// Size returns the total number of nodes
func (t *Tree) Size() int {
	count := 0
	t.Walk(func(string, int, *Node) bool {
		count++
		return true
	})
	return count
}
