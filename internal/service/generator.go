package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/timmy/chadgen/internal/caption"
	"github.com/timmy/chadgen/internal/domain"
	"github.com/timmy/chadgen/internal/layout"
	"github.com/timmy/chadgen/internal/logger"
	"github.com/timmy/chadgen/internal/random"
	"github.com/timmy/chadgen/internal/render"
	"github.com/timmy/chadgen/internal/source"
	"github.com/timmy/chadgen/internal/storage"
)

// OutputPrefix starts every rendered file name.
const OutputPrefix = "virgin_vs_chad_meme_"

// GenerationRepo persists generation records. A nil repo disables history.
type GenerationRepo interface {
	Create(ctx context.Context, g *domain.Generation) error
}

// GeneratorConfig holds generator settings.
type GeneratorConfig struct {
	CaptionCount int
	Policy       domain.MalformedTopicPolicy
	KeyPrefix    string // prepended to every storage key
	UniqueKeys   bool   // nest each output under its generation id
}

// Generator turns a topic into rendered memes.
type Generator struct {
	templates source.TemplateSource
	captions  caption.Source
	layout    layout.Engine
	geometry  layout.Geometry
	renderer  *render.Renderer
	store     storage.ObjectStorage
	repo      GenerationRepo
	rng       random.Rand
	cfg       *GeneratorConfig
	logger    *logger.Logger
}

// Result is one rendered side of a request.
type Result struct {
	Generation *domain.Generation
	Key        string
	URL        string
	Frame      *render.Frame
}

// NewGenerator creates a new generator.
// Parameters:
//   - templates: provider of the character template pairs.
//   - captions: caption source for both roles.
//   - engine: caption placement engine.
//   - geometry: anchors used to center the character images.
//   - renderer: canvas compositor.
//   - store: destination for the encoded PNG.
//   - repo: optional generation history, may be nil.
//   - rng: randomness for template choice, nil uses the default source.
//   - log: logger instance.
//   - cfg: generator settings.
//
// Returns:
//   - *Generator: initialized generator.
func NewGenerator(
	templates source.TemplateSource,
	captions caption.Source,
	engine layout.Engine,
	geometry layout.Geometry,
	renderer *render.Renderer,
	store storage.ObjectStorage,
	repo GenerationRepo,
	rng random.Rand,
	log *logger.Logger,
	cfg *GeneratorConfig,
) *Generator {
	if rng == nil {
		rng = random.Default()
	}
	if cfg.Policy == "" {
		cfg.Policy = domain.MalformedTopicDuplicate
	}
	return &Generator{
		templates: templates,
		captions:  captions,
		layout:    engine,
		geometry:  geometry,
		renderer:  renderer,
		store:     store,
		repo:      repo,
		rng:       rng,
		cfg:       cfg,
		logger:    log,
	}
}

func (g *Generator) log(ctx context.Context) *logger.Logger {
	return logger.FromContextOr(ctx, g.logger)
}

// Generate parses the topic and renders one meme per side it expands to.
// Side both renders right then left.
// Parameters:
//   - ctx: context for cancellation and log fields.
//   - topicText: raw "<A> vs <B>" input.
//   - side: which label plays the virgin.
//
// Returns:
//   - []*Result: one result per rendered side, in render order.
//   - error: malformed topic under the reject policy, missing templates, or a render failure.
func (g *Generator) Generate(ctx context.Context, topicText string, side domain.Side) ([]*Result, error) {
	ctx = g.log(ctx).WithContext(ctx)

	topic, err := domain.ParseTopic(topicText, g.cfg.Policy)
	if err != nil {
		return nil, err
	}
	if topic.Degraded {
		g.log(ctx).WithField(logger.FieldTopic, topic.Raw).
			Warn("Topic has no separator, using it for both characters")
	}

	pairs, err := g.templates.Pairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates from %s: %w", g.templates.GetSourceID(), err)
	}

	sides := side.Expand()
	results := make([]*Result, 0, len(sides))
	for _, s := range sides {
		res, err := g.generateOne(ctx, topic, s, pairs)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (g *Generator) generateOne(ctx context.Context, topic domain.Topic, side domain.Side, pairs []domain.TemplatePair) (*Result, error) {
	start := time.Now()
	id := uuid.New().String()
	ctx = logger.SetGeneration(ctx, id, topic.Raw, string(side))

	a := topic.Assign(side)
	pair := pairs[g.rng.IntN(len(pairs))]

	gen := &domain.Generation{
		ID:             id,
		Topic:          topic.Raw,
		VirginLabel:    a.Virgin,
		ChadLabel:      a.Chad,
		Side:           side,
		Degraded:       topic.Degraded,
		VirginTemplate: pair.Virgin,
		ChadTemplate:   pair.Chad,
		Status:         domain.GenerationStatusCompleted,
	}

	res, err := g.render(ctx, gen, a, pair)
	if err != nil {
		gen.Status = domain.GenerationStatusFailed
		gen.Error = err.Error()
		g.record(ctx, gen)
		return nil, err
	}
	g.record(ctx, gen)

	logger.With(nil).
		WithDuration(time.Since(start)).
		WithCaptions(gen.CaptionSource, len(gen.VirginCaptions)+len(gen.ChadCaptions), gen.FellBack).
		WithFrame(res.Frame.Images, res.Frame.Captions).
		Info(ctx, "Meme rendered: key=%s", res.Key)

	return res, nil
}

func (g *Generator) render(ctx context.Context, gen *domain.Generation, a domain.Assignment, pair domain.TemplatePair) (*Result, error) {
	virginImg, err := g.templates.Open(ctx, pair.Virgin)
	if err != nil {
		return nil, err
	}
	chadImg, err := g.templates.Open(ctx, pair.Chad)
	if err != nil {
		return nil, err
	}

	captions, err := caption.CollectPair(ctx, g.captions, a, g.cfg.CaptionCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get captions: %w", err)
	}
	virginSet, chadSet := captions.Virgin, captions.Chad

	gen.CaptionSource = chadSet.Source
	gen.FellBack = virginSet.FellBack || chadSet.FellBack
	if virginSet.Source != chadSet.Source {
		gen.CaptionSource = virginSet.Source + "," + chadSet.Source
	}
	gen.VirginCaptions = domain.Texts(virginSet.Captions)
	gen.ChadCaptions = domain.Texts(chadSet.Captions)

	canvas := g.renderer.Canvas()
	scene := render.Scene{
		Virgin: g.character(canvas, domain.RoleVirgin, virginImg, "The Virgin "+a.Virgin, virginSet.Captions),
		Chad:   g.character(canvas, domain.RoleChad, chadImg, "The Chad "+a.Chad, chadSet.Captions),
	}

	frame, err := g.renderer.Render(scene)
	if err != nil {
		return nil, fmt.Errorf("failed to render: %w", err)
	}

	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, frame.Image); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}

	key := g.key(gen.ID, gen.Topic, gen.Side)
	if err := g.store.Upload(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "image/png"); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	b := frame.Image.Bounds()
	gen.StorageKey = key
	gen.URL = g.store.GetURL(key)
	gen.Width = b.Dx()
	gen.Height = b.Dy()

	return &Result{Generation: gen, Key: key, URL: gen.URL, Frame: frame}, nil
}

func (g *Generator) character(canvas image.Point, role domain.Role, img image.Image, title string, captions []domain.Caption) render.Character {
	return render.Character{
		Image:     img,
		AnchorX:   g.geometry.AnchorX(role),
		Title:     title,
		Captions:  captions,
		Positions: g.layout.Positions(canvas, role, len(captions)),
	}
}

// record saves gen; history failures are logged and never fail the render.
func (g *Generator) record(ctx context.Context, gen *domain.Generation) {
	if g.repo == nil {
		return
	}
	if err := g.repo.Create(ctx, gen); err != nil {
		g.log(ctx).WithError(err).Warn("Failed to record generation")
	}
}

func (g *Generator) key(id, topic string, side domain.Side) string {
	key := g.cfg.KeyPrefix
	if g.cfg.UniqueKeys {
		key += id + "/"
	}
	return key + OutputName(topic, side)
}

// OutputName returns the file name for a render of topic from side:
// the lowercased topic with " vs " turned into "_vs_" and whitespace runs
// collapsed to "_".
func OutputName(topic string, side domain.Side) string {
	safe := strings.ToLower(topic)
	safe = strings.ReplaceAll(safe, domain.TopicSeparator, "_vs_")
	safe = strings.Join(strings.Fields(safe), "_")
	safe = strings.NewReplacer("/", "_", `\`, "_").Replace(safe)
	return OutputPrefix + safe + "_" + string(side) + ".png"
}
