package router

import (
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/content"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/KennelOS/backend/internal/shared/paths"
)

// Collaborator names the renderer that draws a window body
type Collaborator string

const (
	Mail         Collaborator = "mail"
	Browser      Collaborator = "browser"
	Messenger    Collaborator = "messenger"
	Conversation Collaborator = "conversation"
	AddressBook  Collaborator = "address-book"
	Profile      Collaborator = "profile"
	PhotoGallery Collaborator = "photo-gallery"
	ServiceInfo  Collaborator = "service-info"
	Presentation Collaborator = "presentation"
	TextViewer   Collaborator = "text-viewer"
	FolderView   Collaborator = "folder-browser"
)

// Singleton paths with a dedicated collaborator
const (
	PathMail      = "emailApp"
	PathBrowser   = "browserApp"
	PathMessenger = "communityHub"
)

var singletons = map[string]Collaborator{
	PathMail:      Mail,
	PathBrowser:   Browser,
	PathMessenger: Messenger,
}

// Route picks the collaborator for a window. Rules are ordered and the first
// match wins.
func Route(w desktop.Window) Collaborator {
	if c, ok := singletons[w.Path]; ok {
		return c
	}
	if w.IsChat() {
		return Conversation
	}
	if paths.HasSegment(w.Path, "contactInfo", "contact") {
		return AddressBook
	}
	if w.Kind == content.KindFile {
		return routeFile(w)
	}
	return FolderView
}

func routeFile(w desktop.Window) Collaborator {
	switch {
	case w.FileType == content.FileTypePresentation:
		return Presentation
	case paths.HasSegment(w.Path, "ourDogs", "breedingProgram"):
		return Profile
	case paths.HasSegment(w.Path, "kennelPhotos", "dogPhotos"):
		return PhotoGallery
	case paths.HasSegment(w.Path, "services"):
		return ServiceInfo
	default:
		return TextViewer
	}
}

// Payload is what a collaborator receives for one window
type Payload struct {
	WindowID     string       `json:"window_id"`
	Path         string       `json:"path"`
	Kind         content.Kind `json:"type"`
	Title        string       `json:"title"`
	ContactID    string       `json:"contact_id,omitempty"`
	ContactName  string       `json:"contact_name,omitempty"`
	Collaborator Collaborator `json:"collaborator"`
}

// Describe builds the collaborator payload for w
func Describe(w desktop.Window) Payload {
	return Payload{
		WindowID:     w.ID,
		Path:         w.Path,
		Kind:         w.Kind,
		Title:        w.Title,
		ContactID:    w.ContactID,
		ContactName:  w.ContactName,
		Collaborator: Route(w),
	}
}
