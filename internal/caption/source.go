package caption

import (
	"context"
	"fmt"

	"github.com/timmy/chadgen/internal/config"
	"github.com/timmy/chadgen/internal/domain"
	"github.com/timmy/chadgen/internal/logger"
	"github.com/timmy/chadgen/internal/prompts"
	"github.com/timmy/chadgen/internal/random"
)

// Request describes one batch of captions for a single role.
type Request struct {
	Assignment domain.Assignment
	Role       domain.Role
	Count      int
}

// Label returns the label the captions are about.
func (r Request) Label() string {
	return r.Assignment.Label(r.Role)
}

// Other returns the opposing label.
func (r Request) Other() string {
	if r.Role == domain.RoleChad {
		return r.Assignment.Virgin
	}
	return r.Assignment.Chad
}

// Source produces formatted captions for one role of a comparison.
type Source interface {
	// Name identifies the source in logs and generation records.
	Name() string

	// Captions returns exactly req.Count captions or an error.
	Captions(ctx context.Context, req Request) ([]domain.Caption, error)
}

// Set is a batch of captions together with where they came from.
type Set struct {
	Captions []domain.Caption
	Source   string // name of the source that actually produced the captions
	FellBack bool
}

// producer is implemented by sources that can report fallback.
type producer interface {
	Produce(ctx context.Context, req Request) (Set, error)
}

// Collect asks src for captions and reports which source produced them.
func Collect(ctx context.Context, src Source, req Request) (Set, error) {
	if p, ok := src.(producer); ok {
		return p.Produce(ctx, req)
	}
	captions, err := src.Captions(ctx, req)
	if err != nil {
		return Set{}, err
	}
	return Set{Captions: captions, Source: src.Name()}, nil
}

// Pair holds the captions of both roles for one render.
type Pair struct {
	Virgin Set
	Chad   Set
}

// pairProducer is implemented by sources that answer for both roles at once.
type pairProducer interface {
	ProducePair(ctx context.Context, a domain.Assignment, n int) (Pair, error)
}

// CollectPair gathers n captions per role for a. Sources that can answer
// for both roles together are asked once.
func CollectPair(ctx context.Context, src Source, a domain.Assignment, n int) (Pair, error) {
	if p, ok := src.(pairProducer); ok {
		return p.ProducePair(ctx, a, n)
	}
	virgin, err := Collect(ctx, src, Request{Assignment: a, Role: domain.RoleVirgin, Count: n})
	if err != nil {
		return Pair{}, fmt.Errorf("virgin captions: %w", err)
	}
	chad, err := Collect(ctx, src, Request{Assignment: a, Role: domain.RoleChad, Count: n})
	if err != nil {
		return Pair{}, fmt.Errorf("chad captions: %w", err)
	}
	return Pair{Virgin: virgin, Chad: chad}, nil
}

// NewSource selects the caption source from configuration.
// With no usable credential the static templates are used alone; otherwise
// a generative source is built with the static templates as its fallback.
// Parameters:
//   - cfg: application configuration.
//   - rng: randomness for template sampling.
//   - log: logger for the fallback warnings.
//
// Returns:
//   - Source: selected caption source.
//   - error: non-nil if the configured backend cannot be constructed.
func NewSource(cfg *config.Config, rng random.Rand, log *logger.Logger) (Source, error) {
	static := NewStaticTemplateSource(cfg.Caption.WrapWidth, rng)
	if cfg.Caption.Count > static.Capacity() {
		return nil, fmt.Errorf("%w: need %d, have %d", domain.ErrNotEnoughTemplates, cfg.Caption.Count, static.Capacity())
	}

	if cfg.Caption.Mode == "static" {
		return static, nil
	}

	provider := cfg.LLM.ActiveProvider()
	var completer Completer
	switch provider {
	case "":
		log.Info("No LLM credential configured, using static caption templates")
		return static, nil
	case "openai":
		completer = NewOpenAICompleter(&OpenAIConfig{
			APIKey:      cfg.LLM.OpenAI.APIKey,
			BaseURL:     cfg.LLM.OpenAI.BaseURL,
			Model:       cfg.LLM.OpenAI.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		})
	case "anthropic":
		ac := &AnthropicConfig{
			APIKey:      cfg.LLM.Anthropic.APIKey,
			BaseURL:     cfg.LLM.Anthropic.BaseURL,
			Model:       cfg.LLM.Anthropic.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}
		if cfg.LLM.Anthropic.Prefill && cfg.Caption.Format == string(FormatJSON) {
			ac.Prefill = prompts.JSONPrefill
		}
		completer = NewAnthropicCompleter(ac)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}

	log.WithField("provider", provider).Info("Using generative captions")
	return NewGenerativeSource(completer, static, GenerativeOptions{
		Format:         ResponseFormat(cfg.Caption.Format),
		CharLimit:      cfg.Caption.CharLimit,
		WrapWidth:      cfg.Caption.WrapWidth,
		VirginEmphasis: cfg.Caption.VirginEmphasis,
		Provider:       provider,
	}, log), nil
}
