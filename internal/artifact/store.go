// Package artifact stores rendered summary documents on disk for later
// download and ages them out in the background.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"gpdf/internal/converter"
)

// ErrNotFound is returned when a filename has no stored artifact.
var ErrNotFound = errors.New("file not found")

// Artifact describes one saved rendered document.
type Artifact struct {
	Filename string `json:"filename"`
	Size     int    `json:"file_size"`
}

// Store writes rendered artifacts under a single downloads directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates the downloads directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create downloads dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// Save writes data under a time-derived name. A short random suffix keeps
// two conversions within the same second from colliding.
func (s *Store) Save(format converter.Format, data []byte) (*Artifact, error) {
	filename := fmt.Sprintf("summary_%d_%s%s",
		s.now().Unix(), uuid.NewString()[:8], format.Ext())

	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to save artifact: %w", err)
	}
	return &Artifact{Filename: filename, Size: len(data)}, nil
}

// Path resolves a stored filename to its on-disk path. The name is
// reduced to its base so callers cannot traverse outside the directory.
// Returns ErrNotFound when no such artifact exists.
func (s *Store) Path(filename string) (string, error) {
	p := filepath.Join(s.dir, filepath.Base(filename))
	if _, err := os.Stat(p); err != nil {
		return "", ErrNotFound
	}
	return p, nil
}

// CleanupOld deletes artifacts older than maxAge. Deletion failures are
// ignored; the next sweep retries them. Returns the number removed.
func (s *Store) CleanupOld(maxAge time.Duration) int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0
	}

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "summary_") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, e.Name())); err == nil {
				removed++
			}
		}
	}
	return removed
}

// StartCleanupTicker ages out old artifacts until the context is
// cancelled.
func (s *Store) StartCleanupTicker(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.CleanupOld(maxAge); n > 0 {
					log.Printf("Artifact cleanup: removed %d old files", n)
				}
			}
		}
	}()
}
