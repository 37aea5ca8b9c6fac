package caption

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/timmy/chadgen/internal/domain"
	"github.com/timmy/chadgen/internal/logger"
	"github.com/timmy/chadgen/internal/prompts"
)

// ResponseFormat is the shape the backend is asked to answer in.
// Values include FormatJSON and FormatLines.
type ResponseFormat string

const (
	// FormatJSON asks for {"virgin_points": [...], "chad_points": [...]}.
	FormatJSON ResponseFormat = "json"
	// FormatLines asks for a bullet list for one role.
	FormatLines ResponseFormat = "lines"
)

var (
	// ErrEmptyResponse is returned when the backend answers with no text.
	ErrEmptyResponse = errors.New("empty completion")
	// ErrCountMismatch is returned when the backend does not return exactly the requested count.
	ErrCountMismatch = errors.New("caption count mismatch")
)

// Completer sends one prompt to a text-generation backend.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// GenerativeOptions configures a GenerativeSource.
type GenerativeOptions struct {
	Format         ResponseFormat
	CharLimit      int
	WrapWidth      int
	VirginEmphasis string
	Provider       string // used in the source name
}

// GenerativeSource asks a Completer for captions and falls back to another
// source whenever the backend call or its parsing fails.
type GenerativeSource struct {
	completer Completer
	fallback  Source
	opts      GenerativeOptions
	log       *logger.Logger
}

// NewGenerativeSource creates a generative source with the given fallback.
func NewGenerativeSource(completer Completer, fallback Source, opts GenerativeOptions, log *logger.Logger) *GenerativeSource {
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	if opts.CharLimit < 1 {
		opts.CharLimit = 40
	}
	if opts.WrapWidth < 1 {
		opts.WrapWidth = DefaultWrapWidth
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &GenerativeSource{
		completer: completer,
		fallback:  fallback,
		opts:      opts,
		log:       log.WithField(logger.FieldComponent, "caption"),
	}
}

// Name implements Source.
func (s *GenerativeSource) Name() string {
	if s.opts.Provider == "" {
		return "generative"
	}
	return "generative:" + s.opts.Provider
}

// Captions implements Source.
func (s *GenerativeSource) Captions(ctx context.Context, req Request) ([]domain.Caption, error) {
	set, err := s.Produce(ctx, req)
	if err != nil {
		return nil, err
	}
	return set.Captions, nil
}

// Produce asks the backend for one role. Any failure is logged and served by the fallback.
func (s *GenerativeSource) Produce(ctx context.Context, req Request) (Set, error) {
	if req.Count < 1 {
		return Set{}, fmt.Errorf("caption count must be at least 1, got %d", req.Count)
	}

	start := time.Now()
	var texts []string
	var err error
	if s.opts.Format == FormatLines {
		texts, err = s.lines(ctx, req)
	} else {
		var points *Points
		if points, err = s.points(ctx, req.Assignment, req.Count); err == nil {
			texts = points.For(req.Role)
		}
	}
	if err != nil {
		s.warn(req.Assignment, err)
		return s.fallbackSet(ctx, req, err)
	}

	set := Set{Captions: FormatAll(texts, s.opts.WrapWidth), Source: s.Name()}
	logger.With(logger.Fields{logger.FieldRole: string(req.Role)}).
		WithDuration(time.Since(start)).
		WithCaptions(set.Source, len(set.Captions), false).
		Debug(ctx, "Generated captions for %q", req.Label())
	return set, nil
}

// ProducePair asks for both roles together. In JSON format one completion
// supplies both lists. If either side fails both sides come from the fallback.
func (s *GenerativeSource) ProducePair(ctx context.Context, a domain.Assignment, n int) (Pair, error) {
	if n < 1 {
		return Pair{}, fmt.Errorf("caption count must be at least 1, got %d", n)
	}

	start := time.Now()
	points, err := s.pair(ctx, a, n)
	if err != nil {
		s.warn(a, err)
		virgin, verr := s.fallbackSet(ctx, Request{Assignment: a, Role: domain.RoleVirgin, Count: n}, err)
		if verr != nil {
			return Pair{}, verr
		}
		chad, cerr := s.fallbackSet(ctx, Request{Assignment: a, Role: domain.RoleChad, Count: n}, err)
		if cerr != nil {
			return Pair{}, cerr
		}
		return Pair{Virgin: virgin, Chad: chad}, nil
	}

	pair := Pair{
		Virgin: Set{Captions: FormatAll(points.Virgin, s.opts.WrapWidth), Source: s.Name()},
		Chad:   Set{Captions: FormatAll(points.Chad, s.opts.WrapWidth), Source: s.Name()},
	}
	logger.With(nil).
		WithDuration(time.Since(start)).
		WithCaptions(s.Name(), len(pair.Virgin.Captions)+len(pair.Chad.Captions), false).
		Debug(ctx, "Generated captions for %q vs %q", a.Virgin, a.Chad)
	return pair, nil
}

func (s *GenerativeSource) pair(ctx context.Context, a domain.Assignment, n int) (*Points, error) {
	if s.opts.Format != FormatLines {
		return s.points(ctx, a, n)
	}
	virgin, err := s.lines(ctx, Request{Assignment: a, Role: domain.RoleVirgin, Count: n})
	if err != nil {
		return nil, err
	}
	chad, err := s.lines(ctx, Request{Assignment: a, Role: domain.RoleChad, Count: n})
	if err != nil {
		return nil, err
	}
	return &Points{Virgin: virgin, Chad: chad}, nil
}

// points makes one JSON completion covering both roles.
func (s *GenerativeSource) points(ctx context.Context, a domain.Assignment, n int) (*Points, error) {
	prompt := prompts.CaptionJSONPrompt(n, a.Virgin, a.Chad, s.opts.CharLimit, s.opts.VirginEmphasis)
	content, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseJSON(content, n, s.opts.CharLimit)
}

// lines makes one bullet-list completion for req.Role.
func (s *GenerativeSource) lines(ctx context.Context, req Request) ([]string, error) {
	prompt := prompts.CaptionLinesPrompt(req.Count, string(req.Role), req.Label(), req.Other(), s.opts.CharLimit, s.opts.VirginEmphasis)
	content, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseLines(content, req.Count, s.opts.CharLimit)
}

func (s *GenerativeSource) complete(ctx context.Context, prompt string) (string, error) {
	content, err := s.completer.Complete(ctx, prompts.CaptionSystemPrompt, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

func (s *GenerativeSource) warn(a domain.Assignment, err error) {
	s.log.WithFields(logger.Fields{
		"virgin": a.Virgin,
		"chad":   a.Chad,
		"error":  err.Error(),
	}).Warn("Generative captions failed, using fallback")
}

func (s *GenerativeSource) fallbackSet(ctx context.Context, req Request, cause error) (Set, error) {
	if s.fallback == nil {
		return Set{}, fmt.Errorf("generate captions: %w", cause)
	}
	captions, err := s.fallback.Captions(ctx, req)
	if err != nil {
		return Set{}, fmt.Errorf("fallback captions: %w", err)
	}
	return Set{Captions: captions, Source: s.fallback.Name(), FellBack: true}, nil
}

// Points is the decoded JSON answer.
type Points struct {
	Virgin []string `json:"virgin_points"`
	Chad   []string `json:"chad_points"`
}

// For returns the list for role.
func (p *Points) For(role domain.Role) []string {
	if role == domain.RoleChad {
		return p.Chad
	}
	return p.Virgin
}

// ParseJSON extracts the first balanced JSON object from content and checks
// that both lists hold exactly n usable items after over-long ones are dropped.
func ParseJSON(content string, n, charLimit int) (*Points, error) {
	jsonStr, err := extractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var points Points
	if err := json.Unmarshal([]byte(jsonStr), &points); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	points.Virgin = usable(points.Virgin, charLimit)
	points.Chad = usable(points.Chad, charLimit)
	if len(points.Virgin) != n || len(points.Chad) != n {
		return nil, fmt.Errorf("%w: want %d per side, got virgin=%d chad=%d",
			ErrCountMismatch, n, len(points.Virgin), len(points.Chad))
	}
	return &points, nil
}

// extractJSONObject returns the first brace-balanced object, ignoring braces inside strings.
func extractJSONObject(content string) (string, error) {
	jsonStart := strings.Index(content, "{")
	if jsonStart == -1 {
		return "", fmt.Errorf("no JSON found in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := jsonStart; i < len(content); i++ {
		c := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[jsonStart : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("incomplete JSON in response")
}

func usable(items []string, charLimit int) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		text := Clean(item)
		if text == "" || runeLen(text) > charLimit {
			continue
		}
		out = append(out, text)
	}
	return out
}

var (
	listMarker = regexp.MustCompile(`^(?:[-*•]+|\d+[.)])\s*`)
	preamble   = regexp.MustCompile(`(?i)^(here|sure|okay|ok|certainly)\b`)
)

// ParseLines reads one caption per line, skipping preambles, headings and
// code fences. Exactly n usable lines must remain.
func ParseLines(content string, n, charLimit int) ([]string, error) {
	var out []string
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "```") || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, ":") || preamble.MatchString(line) {
			continue
		}

		text := strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		text = strings.Trim(text, `"`)
		if text == "" || runeLen(text) > charLimit {
			continue
		}
		out = append(out, text)
	}
	if len(out) != n {
		return nil, fmt.Errorf("%w: want %d, got %d usable lines", ErrCountMismatch, n, len(out))
	}
	return out, nil
}
