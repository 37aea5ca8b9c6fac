package caption

import (
	"context"
	"fmt"
	"strings"

	"github.com/timmy/chadgen/internal/domain"
	"github.com/timmy/chadgen/internal/random"
)

// LabelPlaceholder is replaced by the role's label in every template.
const LabelPlaceholder = "{label}"

// DefaultVirginTemplates frame the label as the inferior side.
var DefaultVirginTemplates = []string{
	"Mom still buys {label}",
	"Scared of {label} power",
	"Needs {label} manual",
	"Everyone mocks him",
	"Can't handle basics",
	"Cries at {label}",
	"Zero skill level",
	"Still uses training mode",
	"Reads {label} reviews for hours",
	"Asks Reddit about {label}",
	"Owns a {label} starter kit",
	"Apologizes to {label}",
	"Gets winded thinking about it",
	"Has a {label} support group",
}

// DefaultChadTemplates frame the label as the superior side.
var DefaultChadTemplates = []string{
	"{label} feared by gods",
	"Makes chads stronger",
	"{label} energy radiates",
	"Never needs practice",
	"Crushes competition",
	"Has 300 IQ moves",
	"Gigachad approves",
	"Sigma {label} grindset",
	"Invented {label} by accident",
	"{label} bends to his will",
	"Wins without trying",
	"Jawline sharpened by {label}",
	"Never reads the manual",
	"Legends whisper about {label}",
}

// StaticTemplateSource samples captions from fixed per-role template lists.
type StaticTemplateSource struct {
	virgin []string
	chad   []string
	width  int
	rng    random.Rand
}

// NewStaticTemplateSource creates a source over the default template lists.
func NewStaticTemplateSource(width int, rng random.Rand) *StaticTemplateSource {
	return NewStaticTemplateSourceWith(DefaultVirginTemplates, DefaultChadTemplates, width, rng)
}

// NewStaticTemplateSourceWith creates a source over custom template lists.
func NewStaticTemplateSourceWith(virgin, chad []string, width int, rng random.Rand) *StaticTemplateSource {
	if rng == nil {
		rng = random.Default()
	}
	if width < 1 {
		width = DefaultWrapWidth
	}
	return &StaticTemplateSource{virgin: virgin, chad: chad, width: width, rng: rng}
}

// Name implements Source.
func (s *StaticTemplateSource) Name() string {
	return "static"
}

// Capacity returns the largest count every role can serve.
func (s *StaticTemplateSource) Capacity() int {
	return min(len(s.virgin), len(s.chad))
}

// Captions samples req.Count distinct templates for the role without replacement.
func (s *StaticTemplateSource) Captions(_ context.Context, req Request) ([]domain.Caption, error) {
	templates := s.virgin
	if req.Role == domain.RoleChad {
		templates = s.chad
	}

	if req.Count < 1 {
		return nil, fmt.Errorf("caption count must be at least 1, got %d", req.Count)
	}
	if req.Count > len(templates) {
		return nil, fmt.Errorf("%w: %s needs %d, have %d", domain.ErrNotEnoughTemplates, req.Role, req.Count, len(templates))
	}

	label := req.Label()
	perm := s.rng.Perm(len(templates))
	captions := make([]domain.Caption, req.Count)
	for i := 0; i < req.Count; i++ {
		text := strings.ReplaceAll(templates[perm[i]], LabelPlaceholder, label)
		captions[i] = Format(text, s.width)
	}
	return captions, nil
}
