// Package layout computes where caption blocks go on the canvas.
package layout

import (
	"image"
	"math"

	"github.com/timmy/chadgen/internal/config"
	"github.com/timmy/chadgen/internal/domain"
	"github.com/timmy/chadgen/internal/random"
)

// Engine places n caption blocks for one role.
type Engine interface {
	Positions(canvas image.Point, role domain.Role, n int) []domain.Position
}

// Span is a horizontal band expressed as fractions of the canvas width.
type Span struct {
	Min float64
	Max float64
}

// Geometry holds the placement parameters. X values are fractions of the
// canvas width, AnchorY a fraction of its height.
type Geometry struct {
	VirginAnchorX float64
	ChadAnchorX   float64
	AnchorY       float64
	VirginSpread  Span
	ChadSpread    Span
	TotalHeight   int // pixels covered by the column of captions
	JitterX       int // pixels, uniform in [-JitterX, JitterX]
	JitterY       int
}

// DefaultGeometry returns the classic two-column arrangement.
func DefaultGeometry() Geometry {
	return Geometry{
		VirginAnchorX: 0.35,
		ChadAnchorX:   0.65,
		AnchorY:       0.5,
		VirginSpread:  Span{Min: 0.05, Max: 0.10},
		ChadSpread:    Span{Min: 0.70, Max: 0.95},
		TotalHeight:   400,
		JitterX:       30,
		JitterY:       20,
	}
}

// GeometryFromConfig maps the layout section onto a Geometry.
func GeometryFromConfig(cfg *config.LayoutConfig) Geometry {
	return Geometry{
		VirginAnchorX: cfg.VirginAnchorX,
		ChadAnchorX:   cfg.ChadAnchorX,
		AnchorY:       cfg.AnchorY,
		VirginSpread:  Span{Min: cfg.VirginSpreadMin, Max: cfg.VirginSpreadMax},
		ChadSpread:    Span{Min: cfg.ChadSpreadMin, Max: cfg.ChadSpreadMax},
		TotalHeight:   cfg.TotalHeight,
		JitterX:       cfg.JitterX,
		JitterY:       cfg.JitterY,
	}
}

// AnchorX returns the horizontal center of the character for role.
func (g Geometry) AnchorX(role domain.Role) float64 {
	if role == domain.RoleChad {
		return g.ChadAnchorX
	}
	return g.VirginAnchorX
}

// ColumnX returns the base x fraction of the caption column. Virgin captions
// hug the inner edge of the left band, chad captions the inner edge of the right one.
func (g Geometry) ColumnX(role domain.Role) float64 {
	if role == domain.RoleChad {
		return g.ChadSpread.Min
	}
	return g.VirginSpread.Max
}

// SpreadEngine lays captions out in a vertical column beside each character.
type SpreadEngine struct {
	geometry Geometry
	rng      random.Rand
}

// NewSpreadEngine creates an engine. A nil rng uses the default source.
func NewSpreadEngine(g Geometry, rng random.Rand) *SpreadEngine {
	if rng == nil {
		rng = random.Default()
	}
	return &SpreadEngine{geometry: g, rng: rng}
}

// Geometry returns the engine's parameters.
func (e *SpreadEngine) Geometry() Geometry {
	return e.geometry
}

// Positions implements Engine.
func (e *SpreadEngine) Positions(canvas image.Point, role domain.Role, n int) []domain.Position {
	base := BasePositions(e.geometry, canvas, role, n)
	for i := range base {
		base[i].X += random.Uniform(e.rng, e.geometry.JitterX)
		base[i].Y += random.Uniform(e.rng, e.geometry.JitterY)
	}
	return base
}

// BasePositions returns the pre-jitter grid: evenly spaced from
// anchorY - TotalHeight/2 to anchorY + TotalHeight/2, or the anchor alone for n = 1.
func BasePositions(g Geometry, canvas image.Point, role domain.Role, n int) []domain.Position {
	if n <= 0 {
		return []domain.Position{}
	}

	x := Scale(canvas.X, g.ColumnX(role))
	anchorY := Scale(canvas.Y, g.AnchorY)

	out := make([]domain.Position, n)
	if n == 1 {
		out[0] = domain.Position{X: x, Y: anchorY}
		return out
	}

	top := anchorY - g.TotalHeight/2
	step := float64(g.TotalHeight) / float64(n-1)
	for i := range out {
		out[i] = domain.Position{X: x, Y: top + int(math.Round(float64(i)*step))}
	}
	return out
}

// Scale converts a fraction of a pixel extent to pixels.
func Scale(extent int, fraction float64) int {
	return int(math.Round(float64(extent) * fraction))
}
