package caption

import (
	"strings"

	"github.com/timmy/chadgen/internal/domain"
)

const (
	// DefaultWrapWidth is the line width used when none is configured.
	DefaultWrapWidth = 25

	// Bullet prefixes the first line of every caption.
	Bullet = "• "
	// Indent prefixes continuation lines.
	Indent = "  "

	leadingMarkers = "- *•"
)

// Clean removes leading list markers and surrounding whitespace.
func Clean(s string) string {
	return strings.TrimSpace(strings.TrimLeft(s, leadingMarkers))
}

// Wrap breaks s into lines of at most width characters, never splitting a word.
// A word longer than width gets a line of its own.
func Wrap(s string, width int) []string {
	if width < 1 {
		width = DefaultWrapWidth
	}

	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	currentLen := runeLen(current)
	for _, w := range words[1:] {
		wl := runeLen(w)
		if currentLen+1+wl <= width {
			current += " " + w
			currentLen += 1 + wl
			continue
		}
		lines = append(lines, current)
		current = w
		currentLen = wl
	}
	return append(lines, current)
}

// Format cleans and wraps s into a display caption with a bullet and indented continuations.
func Format(s string, width int) domain.Caption {
	text := Clean(s)
	wrapped := Wrap(text, width)
	if len(wrapped) == 0 {
		return domain.Caption{Text: text, Lines: []string{Bullet}}
	}

	lines := make([]string, len(wrapped))
	for i, l := range wrapped {
		if i == 0 {
			lines[i] = Bullet + l
		} else {
			lines[i] = Indent + l
		}
	}
	return domain.Caption{Text: text, Lines: lines}
}

// FormatAll formats every text with the same width.
func FormatAll(texts []string, width int) []domain.Caption {
	out := make([]domain.Caption, len(texts))
	for i, t := range texts {
		out[i] = Format(t, width)
	}
	return out
}

// Strip removes the bullet and indentation from a formatted block.
func Strip(block string) string {
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		if i == 0 {
			lines[i] = strings.TrimPrefix(l, Bullet)
		} else {
			lines[i] = strings.TrimPrefix(l, Indent)
		}
	}
	return strings.Join(lines, "\n")
}

func runeLen(s string) int {
	return len([]rune(s))
}
