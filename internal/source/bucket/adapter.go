package bucket

import (
	"context"
	"fmt"
	"image"
	"path"
	"strings"

	"github.com/timmy/chadgen/internal/domain"
	"github.com/timmy/chadgen/internal/source"
	"github.com/timmy/chadgen/internal/storage"
)

const SourceID = "bucket"

// Adapter implements TemplateSource over object storage keys under a prefix.
type Adapter struct {
	store  storage.ObjectStorage
	prefix string
}

// NewAdapter creates a new bucket adapter.
// Parameters:
//   - store: object storage holding the templates.
//   - prefix: key prefix, e.g. "templates/".
//
// Returns:
//   - *Adapter: initialized adapter.
func NewAdapter(store storage.ObjectStorage, prefix string) *Adapter {
	return &Adapter{store: store, prefix: prefix}
}

// GetSourceID returns the unique identifier for this source.
func (a *Adapter) GetSourceID() string {
	return SourceID + ":" + a.prefix
}

// Pairs lists the prefix on every call so new uploads are picked up.
func (a *Adapter) Pairs(ctx context.Context) ([]domain.TemplatePair, error) {
	keys, err := a.store.List(ctx, a.prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	// Only direct children of the prefix count.
	direct := keys[:0]
	for _, k := range keys {
		if !strings.Contains(strings.TrimPrefix(k, a.prefix), "/") {
			direct = append(direct, k)
		}
	}

	pairs, err := source.MatchPairs(direct)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.prefix, err)
	}
	return pairs, nil
}

// Open downloads and decodes a template object.
func (a *Adapter) Open(ctx context.Context, key string) (image.Image, error) {
	rc, err := a.store.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download template %s: %w", path.Base(key), err)
	}
	defer rc.Close()
	return source.Decode(rc, key)
}
