package router

import (
	"fmt"

	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/content"
	"github.com/GriffinCanCode/KennelOS/backend/internal/shared/paths"
)

// Opener is the controller command a folder browser drills down with
type Opener interface {
	Open(path string, forceCreate, updateFragment bool)
}

// Lister lists the children of a container path
type Lister interface {
	List(path string) ([]content.Entry, error)
}

// FolderBrowser is the generic container collaborator. It has no access to
// the window store beyond issuing Open for a child.
type FolderBrowser struct {
	path   string
	tree   Lister
	opener Opener
}

// NewFolderBrowser creates a browser over the container at path
func NewFolderBrowser(path string, tree Lister, opener Opener) *FolderBrowser {
	return &FolderBrowser{path: path, tree: tree, opener: opener}
}

// Path returns the container path being browsed
func (f *FolderBrowser) Path() string {
	return f.path
}

// Entries lists the container's children in display order
func (f *FolderBrowser) Entries() ([]content.Entry, error) {
	return f.tree.List(f.path)
}

// Activate opens a child file or drills into a child folder. Existing
// windows for the child are reused.
func (f *FolderBrowser) Activate(childKey string) error {
	entries, err := f.Entries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Key == childKey {
			f.opener.Open(e.Path, false, true)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", content.ErrNotFound, paths.Child(f.path, childKey))
}
