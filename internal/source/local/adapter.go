package local

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/timmy/chadgen/internal/domain"
	"github.com/timmy/chadgen/internal/source"
)

const SourceID = "local"

// Adapter implements TemplateSource for a directory of template images.
type Adapter struct {
	dir string

	mu     sync.Mutex
	pairs  []domain.TemplatePair // Cached pairs
	loaded bool
}

// NewAdapter creates a new directory adapter.
func NewAdapter(dir string) *Adapter {
	return &Adapter{dir: dir}
}

// GetSourceID returns the unique identifier for this source
func (a *Adapter) GetSourceID() string {
	return SourceID + ":" + a.dir
}

// Pairs scans the directory once and returns the cached pairs.
func (a *Adapter) Pairs(_ context.Context) ([]domain.TemplatePair, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.loaded {
		return a.pairs, nil
	}

	if _, err := os.Stat(a.dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: template directory does not exist: %s", domain.ErrNoTemplates, a.dir)
	}

	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}

	pairs, err := source.MatchPairs(names)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.dir, err)
	}

	a.pairs = pairs
	a.loaded = true
	return pairs, nil
}

// Open decodes a template file from the directory.
func (a *Adapter) Open(_ context.Context, name string) (image.Image, error) {
	img, err := imaging.Open(filepath.Join(a.dir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to open template %s: %w", name, err)
	}
	return img, nil
}
