package gallery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/KennelOS/backend/internal/shared/paths"
)

// ErrNotGallery is returned for content paths outside the photo folders
var ErrNotGallery = errors.New("not a gallery path")

// Folders are the tree keys whose files are photo albums
var Folders = []string{"kennelPhotos", "dogPhotos"}

// Photo is one image on disk
type Photo struct {
	Path     string `json:"path"`
	Album    string `json:"album"`
	MIME     string `json:"mime"`
	Size     int64  `json:"size"`
	Category string `json:"category"`
}

// Gallery lists album images under <root>/<folder>/<category>/
type Gallery struct {
	root   string
	logger *zap.Logger
}

// New creates a gallery rooted at an asset directory
func New(root string, logger *zap.Logger) *Gallery {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gallery{root: root, logger: logger}
}

// album splits a content path into the photo folder and the category below
// it. The category is empty for the folder itself.
func album(contentPath string) (string, string, error) {
	segs := paths.Segments(contentPath)
	for i, seg := range segs {
		for _, folder := range Folders {
			if seg != folder {
				continue
			}
			if i+1 < len(segs) {
				return folder, segs[i+1], nil
			}
			return folder, "", nil
		}
	}
	return "", "", fmt.Errorf("%w: %s", ErrNotGallery, contentPath)
}

// Photos lists the images shown for a content path. A category lists its own
// album; the folder lists every album in it.
func (g *Gallery) Photos(ctx context.Context, contentPath string) ([]Photo, error) {
	folder, category, err := album(contentPath)
	if err != nil {
		return nil, err
	}

	pattern := folder + "/**/*"
	if category != "" {
		pattern = folder + "/" + category + "/**/*"
	}

	matches, err := doublestar.Glob(os.DirFS(g.root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob failed: %w", err)
	}

	photos := make([]Photo, 0, len(matches))
	for _, rel := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p, ok := g.inspect(rel); ok {
			photos = append(photos, p)
		}
	}
	sort.Slice(photos, func(i, j int) bool { return photos[i].Path < photos[j].Path })
	return photos, nil
}

// inspect returns the photo at a root-relative slash path if it is an image
func (g *Gallery) inspect(rel string) (Photo, bool) {
	full := filepath.Join(g.root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		return Photo{}, false
	}
	mime, err := mimetype.DetectFile(full)
	if err != nil || !strings.HasPrefix(mime.String(), "image/") {
		return Photo{}, false
	}

	parts := strings.SplitN(rel, "/", 3)
	p := Photo{Path: rel, Album: parts[0], MIME: mime.String(), Size: info.Size()}
	if len(parts) == 3 {
		p.Category = parts[1]
	}
	return p, true
}

// Index counts the images per album across the whole asset tree. A missing
// root yields an empty index.
func (g *Gallery) Index(ctx context.Context) (map[string]int, error) {
	index := make(map[string]int)
	if _, err := os.Stat(g.root); errors.Is(err, fs.ErrNotExist) {
		return index, nil
	}

	var mu sync.Mutex
	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, g.root, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(g.root, p)
		if err != nil {
			return nil
		}
		photo, ok := g.inspect(filepath.ToSlash(rel))
		if !ok {
			return nil
		}

		name := photo.Album
		if photo.Category != "" {
			name = path.Join(photo.Album, photo.Category)
		}
		mu.Lock()
		index[name]++
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to index gallery: %w", err)
	}

	g.logger.Debug("Indexed gallery", zap.String("root", g.root), zap.Int("albums", len(index)))
	return index, nil
}

// Open returns the absolute file for a root-relative photo path, refusing
// anything outside the root
func (g *Gallery) Open(rel string) (string, error) {
	clean := path.Clean("/" + rel)[1:]
	if clean == "" || !fs.ValidPath(clean) {
		return "", fmt.Errorf("%w: %s", fs.ErrNotExist, rel)
	}
	if _, ok := g.inspect(clean); !ok {
		return "", fmt.Errorf("%w: %s", fs.ErrNotExist, rel)
	}
	return filepath.Join(g.root, filepath.FromSlash(clean)), nil
}
