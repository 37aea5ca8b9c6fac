package domain

import "strings"

// Caption is one bullet point attached to a side of the comparison.
type Caption struct {
	Text  string   // cleaned text before wrapping
	Lines []string // display lines, first one carries the bullet
}

// Block returns the display lines joined by newlines.
func (c Caption) Block() string {
	return strings.Join(c.Lines, "\n")
}

// Texts returns the cleaned text of each caption.
func Texts(captions []Caption) []string {
	out := make([]string, len(captions))
	for i, c := range captions {
		out[i] = c.Text
	}
	return out
}

// Position is the top-left anchor of a caption block on the canvas.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// TemplatePair is a matched virgin/chad character image pair.
type TemplatePair struct {
	Virgin string
	Chad   string
}
