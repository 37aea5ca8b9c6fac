// Package render composites the character templates, titles and captions
// onto a single canvas.
package render

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/timmy/chadgen/internal/config"
	"github.com/timmy/chadgen/internal/domain"
	"github.com/timmy/chadgen/internal/layout"
	"github.com/timmy/chadgen/internal/logger"
)

// Options controls canvas size, template placement and text styling.
type Options struct {
	Width          int
	Height         int
	TemplateHeight int
	TemplateY      int
	TitleY         int
	TitleSize      float64
	CaptionSize    float64
	OutlineWidth   int
	LineSpacing    float64
	FontPaths      []string // tried before DefaultFontPaths
}

// DefaultOptions returns the classic 1600x1000 layout.
func DefaultOptions() Options {
	return Options{
		Width:          1600,
		Height:         1000,
		TemplateHeight: 500,
		TemplateY:      250,
		TitleY:         100,
		TitleSize:      40,
		CaptionSize:    24,
		OutlineWidth:   3,
		LineSpacing:    5,
	}
}

// OptionsFromConfig maps the render section onto Options.
func OptionsFromConfig(cfg *config.RenderConfig) Options {
	return Options{
		Width:          cfg.Width,
		Height:         cfg.Height,
		TemplateHeight: cfg.TemplateHeight,
		TemplateY:      cfg.TemplateY,
		TitleY:         cfg.TitleY,
		TitleSize:      cfg.TitleSize,
		CaptionSize:    cfg.CaptionSize,
		OutlineWidth:   cfg.OutlineWidth,
		LineSpacing:    cfg.LineSpacing,
		FontPaths:      cfg.FontPaths,
	}
}

// Character is one side of the scene.
type Character struct {
	Image     image.Image
	AnchorX   float64 // fraction of the canvas width the image is centered on
	Title     string
	Captions  []domain.Caption
	Positions []domain.Position
}

// Scene is everything drawn in one render.
type Scene struct {
	Virgin Character
	Chad   Character
}

// Frame is the rendered canvas and what was drawn on it.
type Frame struct {
	Image    image.Image
	Images   int
	Titles   int
	Captions int
}

// Renderer draws scenes. It is safe for concurrent use.
type Renderer struct {
	opts  Options
	fonts *fontSet
}

// NewRenderer resolves the font chain once and returns a renderer.
// Parameters:
//   - opts: canvas and styling options.
//   - log: receives a warning when falling back from the configured fonts.
//
// Returns:
//   - *Renderer: ready renderer.
func NewRenderer(opts Options, log *logger.Logger) *Renderer {
	if log == nil {
		log = logger.GetDefault()
	}

	candidates := append(append([]string{}, opts.FontPaths...), DefaultFontPaths...)
	fonts, errs := loadFont(candidates)
	for _, err := range errs {
		log.WithError(err).Warn("Skipping unusable font")
	}
	if fonts.name == FontEmbeddedGoBold || fonts.name == FontBitmap {
		log.WithField("font", fonts.name).Warn("No system font found, using fallback font")
	} else {
		log.WithField("font", fonts.name).Debug("Loaded font")
	}

	return &Renderer{opts: opts, fonts: fonts}
}

// FontName returns the path or name of the font in use.
func (r *Renderer) FontName() string {
	return r.fonts.name
}

// Canvas returns the canvas size.
func (r *Renderer) Canvas() image.Point {
	return image.Pt(r.opts.Width, r.opts.Height)
}

// Render draws the scene onto a new white canvas.
func (r *Renderer) Render(scene Scene) (*Frame, error) {
	dc := gg.NewContext(r.opts.Width, r.opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	frame := &Frame{}
	titleFace := r.fonts.face(r.opts.TitleSize)
	captionFace := r.fonts.face(r.opts.CaptionSize)

	for _, ch := range []Character{scene.Virgin, scene.Chad} {
		if ch.Image == nil {
			return nil, errors.New("character image is nil")
		}
		if len(ch.Captions) != len(ch.Positions) {
			return nil, fmt.Errorf("have %d captions but %d positions", len(ch.Captions), len(ch.Positions))
		}

		resized := imaging.Resize(ch.Image, 0, r.opts.TemplateHeight, imaging.Lanczos)
		centerX := layout.Scale(r.opts.Width, ch.AnchorX)
		dc.DrawImage(resized, centerX-resized.Bounds().Dx()/2, r.opts.TemplateY)
		frame.Images++

		if ch.Title != "" {
			dc.SetFontFace(titleFace)
			r.drawOutlined(dc, ch.Title, float64(centerX), float64(r.opts.TitleY), 0.5)
			frame.Titles++
		}

		dc.SetFontFace(captionFace)
		lineHeight := dc.FontHeight() + r.opts.LineSpacing
		for i, c := range ch.Captions {
			p := ch.Positions[i]
			for j, line := range c.Lines {
				r.drawOutlined(dc, line, float64(p.X), float64(p.Y)+float64(j)*lineHeight, 0)
			}
			frame.Captions++
		}
	}

	frame.Image = dc.Image()
	return frame, nil
}

// drawOutlined stamps the text in white at every offset within the outline
// width, then draws it in black. y is the top of the text.
func (r *Renderer) drawOutlined(dc *gg.Context, text string, x, y, ax float64) {
	w := r.opts.OutlineWidth
	dc.SetRGB(1, 1, 1)
	for dx := -w; dx <= w; dx++ {
		for dy := -w; dy <= w; dy++ {
			if dx != 0 || dy != 0 {
				dc.DrawStringAnchored(text, x+float64(dx), y+float64(dy), ax, 1)
			}
		}
	}

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(text, x, y, ax, 1)
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}
