package source

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"sort"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/timmy/chadgen/internal/domain"
)

// Category prefixes for template file names.
const (
	VirginPrefix = "virgin"
	ChadPrefix   = "chad"
)

// TemplateSource provides the character template images.
type TemplateSource interface {
	// GetSourceID returns the unique identifier for this source.
	// Parameters: none.
	// Returns:
	//   - string: stable source identifier.
	GetSourceID() string

	// Pairs returns the matched virgin/chad templates.
	// Parameters:
	//   - ctx: context for cancellation and deadlines.
	// Returns:
	//   - []domain.TemplatePair: pairs in sorted-name order.
	//   - error: wraps domain.ErrNoTemplates naming the empty category.
	Pairs(ctx context.Context) ([]domain.TemplatePair, error)

	// Open decodes one template by the name reported in Pairs.
	Open(ctx context.Context, name string) (image.Image, error)
}

// IsImage reports whether name has a decodable image extension.
func IsImage(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	default:
		return false
	}
}

// MatchPairs splits names by category prefix, sorts each category and zips
// them. Extra templates in the longer category are ignored.
func MatchPairs(names []string) ([]domain.TemplatePair, error) {
	var virgins, chads []string
	for _, name := range names {
		base := strings.ToLower(path.Base(name))
		if !IsImage(base) {
			continue
		}
		switch {
		case strings.HasPrefix(base, VirginPrefix):
			virgins = append(virgins, name)
		case strings.HasPrefix(base, ChadPrefix):
			chads = append(chads, name)
		}
	}

	if len(virgins) == 0 {
		return nil, fmt.Errorf("%w: category %q", domain.ErrNoTemplates, VirginPrefix)
	}
	if len(chads) == 0 {
		return nil, fmt.Errorf("%w: category %q", domain.ErrNoTemplates, ChadPrefix)
	}

	sort.Strings(virgins)
	sort.Strings(chads)

	n := min(len(virgins), len(chads))
	pairs := make([]domain.TemplatePair, n)
	for i := 0; i < n; i++ {
		pairs[i] = domain.TemplatePair{Virgin: virgins[i], Chad: chads[i]}
	}
	return pairs, nil
}

// Decode reads an image in any registered format.
func Decode(r io.Reader, name string) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode template %s: %w", name, err)
	}
	return img, nil
}
