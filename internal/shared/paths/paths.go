package paths

import "strings"

const (
	// Separator delimits keys in an internal path
	Separator = "."

	// ChildrenMarker is the structural segment marking descent into a container
	ChildrenMarker = "children"

	// FragmentSeparator replaces every ".children." boundary in a fragment
	FragmentSeparator = "#"

	childBoundary = Separator + ChildrenMarker + Separator
)

// ToExternal converts an internal path to its shareable fragment form.
// "ourDogs.children.championRex" becomes "ourDogs#championRex".
func ToExternal(path string) string {
	return strings.ReplaceAll(path, childBoundary, FragmentSeparator)
}

// ToInternal converts a fragment back to an internal path.
// "ourDogs#championRex" becomes "ourDogs.children.championRex".
func ToInternal(fragment string) string {
	return strings.ReplaceAll(fragment, FragmentSeparator, childBoundary)
}

// Child returns the path of key inside the container at parent
func Child(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + childBoundary + key
}

// Segments returns the real tree keys of a path, skipping children markers
func Segments(path string) []string {
	if path == "" {
		return nil
	}
	raw := strings.Split(path, Separator)
	keys := make([]string, 0, len(raw))
	for i, seg := range raw {
		if i > 0 && seg == ChildrenMarker {
			continue
		}
		keys = append(keys, seg)
	}
	return keys
}

// HasSegment reports whether any real key of path equals one of keys
func HasSegment(path string, keys ...string) bool {
	for _, seg := range Segments(path) {
		for _, k := range keys {
			if seg == k {
				return true
			}
		}
	}
	return false
}

// Leaf returns the last real key of a path
func Leaf(path string) string {
	segs := Segments(path)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}
