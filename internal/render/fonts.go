package render

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
)

// DefaultFontPaths are tried after the configured paths, DejaVu first.
var DefaultFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans-Bold.ttf",
	"/Library/Fonts/DejaVuSans-Bold.ttf",
	"/System/Library/Fonts/Supplemental/Arial Bold.ttf",
	`C:\Windows\Fonts\arialbd.ttf`,
}

// Font names reported when no file could be loaded.
const (
	FontEmbeddedGoBold = "embedded:gobold"
	FontBitmap         = "bitmap:basicfont7x13"
)

// fontSet holds a parsed TrueType font shared by every render.
// A nil font means the fixed bitmap face is used.
type fontSet struct {
	ttf  *truetype.Font
	name string
}

// loadFont walks the candidates and returns the first font that parses,
// then the embedded Go Bold, then the bitmap face.
func loadFont(candidates []string) (*fontSet, []error) {
	var errs []error
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				errs = append(errs, fmt.Errorf("read %s: %w", path, err))
			}
			continue
		}
		f, err := truetype.Parse(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", path, err))
			continue
		}
		return &fontSet{ttf: f, name: path}, errs
	}

	f, err := truetype.Parse(gobold.TTF)
	if err != nil {
		errs = append(errs, fmt.Errorf("parse embedded font: %w", err))
		return &fontSet{name: FontBitmap}, errs
	}
	return &fontSet{ttf: f, name: FontEmbeddedGoBold}, errs
}

// face returns a new face at size. Faces keep a glyph cache and must not be
// shared between goroutines.
func (s *fontSet) face(size float64) font.Face {
	if s.ttf == nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(s.ttf, &truetype.Options{Size: size, Hinting: font.HintingFull})
}
