package records

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"go.uber.org/zap"
)

//go:embed seed
var seedFS embed.FS

// Seed writes the bundled sample records that are missing from the store and
// returns how many were written
func (s *Store) Seed() (int, error) {
	written := 0
	err := fs.WalkDir(seedFS, "seed", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		collection := path.Base(path.Dir(p))
		file := strings.TrimSuffix(path.Base(p), extension)
		if s.d.Has(key(collection, file)) {
			return nil
		}
		data, err := seedFS.ReadFile(p)
		if err != nil {
			return err
		}
		if err := s.Put(collection, file, data); err != nil {
			return err
		}
		written++
		return nil
	})
	if err != nil {
		return written, fmt.Errorf("failed to seed records: %w", err)
	}
	if written > 0 {
		s.logger.Info("Seeded records", zap.Int("count", written), zap.String("path", s.basePath))
	}
	return written, nil
}
