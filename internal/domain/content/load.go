package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/goccy/go-yaml"
)

//go:embed kennel.yaml
var kennelYAML []byte

var (
	defaultTree *Tree
	defaultOnce sync.Once
)

// Default returns the built-in kennel tree. It panics if the embedded file
// is malformed, which is a build defect.
func Default() *Tree {
	defaultOnce.Do(func() {
		t, err := Load(bytes.NewReader(kennelYAML))
		if err != nil {
			panic(fmt.Sprintf("content: embedded tree: %v", err))
		}
		defaultTree = t
	})
	return defaultTree
}

// LoadFile reads a tree from a YAML file, or returns Default for an empty path
func LoadFile(path string) (*Tree, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open content tree: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a YAML document whose top-level mapping is the root mapping.
// Key order in the document is preserved.
func Load(r io.Reader) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content tree: %w", err)
	}

	var doc yaml.MapSlice
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("failed to parse content tree: %w", err)
	}

	roots, err := parseChildren(doc, "")
	if err != nil {
		return nil, err
	}
	return NewTree(roots), nil
}

func parseChildren(items yaml.MapSlice, parent string) (*Children, error) {
	children := NewChildren()
	for _, item := range items {
		key, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("%s: non-string key %v", parent, item.Key)
		}
		body, ok := item.Value.(yaml.MapSlice)
		if !ok {
			return nil, fmt.Errorf("%s: node %q is not a mapping", parent, key)
		}
		where := key
		if parent != "" {
			where = parent + "." + key
		}
		n, err := parseNode(body, where)
		if err != nil {
			return nil, err
		}
		if err := children.Add(key, n); err != nil {
			return nil, fmt.Errorf("%s: %w", where, err)
		}
	}
	return children, nil
}

func parseNode(body yaml.MapSlice, where string) (*Node, error) {
	var (
		title, icon, fileType, breed string
		kind                         Kind
		rawChildren                  yaml.MapSlice
		hasChildren                  bool
	)

	for _, field := range body {
		name, _ := field.Key.(string)
		switch name {
		case "title":
			title = fmt.Sprint(field.Value)
		case "icon":
			icon = fmt.Sprint(field.Value)
		case "type":
			kind = Kind(fmt.Sprint(field.Value))
		case "fileType":
			fileType = fmt.Sprint(field.Value)
		case "breed":
			breed = fmt.Sprint(field.Value)
		case "children":
			hasChildren = true
			if field.Value == nil {
				continue
			}
			ms, ok := field.Value.(yaml.MapSlice)
			if !ok {
				return nil, fmt.Errorf("%s: children must be a mapping", where)
			}
			rawChildren = ms
		default:
			return nil, fmt.Errorf("%s: unknown field %q", where, name)
		}
	}

	if !kind.Valid() {
		return nil, fmt.Errorf("%s: invalid type %q", where, kind)
	}
	if title == "" {
		return nil, fmt.Errorf("%s: missing title", where)
	}

	if !kind.IsContainer() {
		if hasChildren {
			return nil, fmt.Errorf("%s: %s nodes cannot have children", where, kind)
		}
		n, err := NewLeaf(kind, title, icon)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", where, err)
		}
		n.FileType = fileType
		n.Breed = breed
		return n, nil
	}

	children, err := parseChildren(rawChildren, where)
	if err != nil {
		return nil, err
	}
	n, err := NewContainer(kind, title, icon, children)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", where, err)
	}
	return n, nil
}
