package content

import (
	"fmt"
)

// Kind tags a content node
type Kind string

const (
	KindRoot   Kind = "root"
	KindDrive  Kind = "drive"
	KindFolder Kind = "folder"
	KindFile   Kind = "file"
	KindChat   Kind = "chat"
)

// IsContainer reports whether nodes of this kind hold children
func (k Kind) IsContainer() bool {
	switch k {
	case KindRoot, KindDrive, KindFolder:
		return true
	default:
		return false
	}
}

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	switch k {
	case KindRoot, KindDrive, KindFolder, KindFile, KindChat:
		return true
	default:
		return false
	}
}

// FileTypePresentation marks a file rendered as a slide deck
const FileTypePresentation = "presentation"

// Node is one entry of the content tree. Only container kinds own a
// Children mapping; Children returns false for files and chats.
type Node struct {
	Title    string `json:"title"`
	Icon     string `json:"icon"`
	Kind     Kind   `json:"type"`
	FileType string `json:"file_type,omitempty"`
	Breed    string `json:"breed,omitempty"`

	children *Children
}

// NewContainer creates a root, drive or folder node
func NewContainer(kind Kind, title, icon string, children *Children) (*Node, error) {
	if !kind.IsContainer() {
		return nil, fmt.Errorf("kind %q cannot hold children", kind)
	}
	if children == nil {
		children = NewChildren()
	}
	return &Node{Title: title, Icon: icon, Kind: kind, children: children}, nil
}

// NewLeaf creates a file or chat node
func NewLeaf(kind Kind, title, icon string) (*Node, error) {
	if !kind.Valid() || kind.IsContainer() {
		return nil, fmt.Errorf("kind %q is not a leaf kind", kind)
	}
	return &Node{Title: title, Icon: icon, Kind: kind}, nil
}

// Children returns the child mapping of a container node
func (n *Node) Children() (*Children, bool) {
	if n == nil || n.children == nil {
		return nil, false
	}
	return n.children, true
}

// Children is an ordered key -> node mapping
type Children struct {
	keys  []string
	nodes map[string]*Node
}

// NewChildren creates an empty mapping
func NewChildren() *Children {
	return &Children{nodes: make(map[string]*Node)}
}

// Add appends key; duplicate keys are rejected
func (c *Children) Add(key string, n *Node) error {
	if key == "" {
		return fmt.Errorf("empty key")
	}
	if n == nil {
		return fmt.Errorf("nil node for key %q", key)
	}
	if _, exists := c.nodes[key]; exists {
		return fmt.Errorf("duplicate key %q", key)
	}
	c.keys = append(c.keys, key)
	c.nodes[key] = n
	return nil
}

// Get looks up a child by key
func (c *Children) Get(key string) (*Node, bool) {
	if c == nil {
		return nil, false
	}
	n, ok := c.nodes[key]
	return n, ok
}

// Keys returns the keys in declaration order
func (c *Children) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of children
func (c *Children) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}
