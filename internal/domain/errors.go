package domain

import "errors"

var (
	// ErrMalformedTopic is returned when a topic does not contain exactly two labels.
	ErrMalformedTopic = errors.New("malformed topic, expected \"<A> vs <B>\"")

	// ErrInvalidSide is returned for side names outside left, right, both.
	ErrInvalidSide = errors.New("invalid side")

	// ErrNoTemplates is returned when a template category has no files.
	ErrNoTemplates = errors.New("no templates found")

	// ErrNotEnoughTemplates is returned when more captions are requested than templates exist.
	ErrNotEnoughTemplates = errors.New("not enough caption templates")
)
