package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/timmy/chadgen/internal/caption"
	"github.com/timmy/chadgen/internal/domain"
	"github.com/timmy/chadgen/internal/layout"
	"github.com/timmy/chadgen/internal/logger"
	"github.com/timmy/chadgen/internal/random"
	"github.com/timmy/chadgen/internal/render"
	"github.com/timmy/chadgen/internal/source/local"
	"github.com/timmy/chadgen/internal/storage"
)

type memoryRepo struct {
	mu   sync.Mutex
	gens []*domain.Generation
}

func (r *memoryRepo) Create(_ context.Context, g *domain.Generation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gens = append(r.gens, g)
	return nil
}

func writeTemplate(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 100, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

type fixture struct {
	gen     *Generator
	repo    *memoryRepo
	outDir  string
	tplDir  string
	cfg     *GeneratorConfig
	storage *storage.LocalStorage
}

func newFixture(t *testing.T, policy domain.MalformedTopicPolicy) *fixture {
	t.Helper()
	tplDir := t.TempDir()
	writeTemplate(t, filepath.Join(tplDir, "virgin1.png"), color.NRGBA{R: 255, A: 255})
	writeTemplate(t, filepath.Join(tplDir, "chad1.png"), color.NRGBA{B: 255, A: 255})

	outDir := t.TempDir()
	store, err := storage.NewLocalStorage(outDir, "")
	if err != nil {
		t.Fatal(err)
	}

	rng := random.NewSeeded(42)
	log := logger.NewNop()
	geometry := layout.DefaultGeometry()
	cfg := &GeneratorConfig{CaptionCount: 5, Policy: policy}
	repo := &memoryRepo{}

	gen := NewGenerator(
		local.NewAdapter(tplDir),
		caption.NewStaticTemplateSource(caption.DefaultWrapWidth, rng),
		layout.NewSpreadEngine(geometry, rng),
		geometry,
		render.NewRenderer(render.DefaultOptions(), log),
		store,
		repo,
		rng,
		log,
		cfg,
	)
	return &fixture{gen: gen, repo: repo, outDir: outDir, tplDir: tplDir, cfg: cfg, storage: store}
}

func TestGenerate_BananasVsApples(t *testing.T) {
	f := newFixture(t, domain.MalformedTopicDuplicate)

	results, err := f.gen.Generate(context.Background(), "Bananas vs Apples", domain.SideLeft)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}

	res := results[0]
	gen := res.Generation
	if gen.VirginLabel != "Bananas" || gen.ChadLabel != "Apples" {
		t.Errorf("labels = virgin %q chad %q", gen.VirginLabel, gen.ChadLabel)
	}
	if res.Frame.Images != 2 || res.Frame.Titles != 2 || res.Frame.Captions != 10 {
		t.Errorf("frame = %+v", res.Frame)
	}
	if len(gen.VirginCaptions) != 5 || len(gen.ChadCaptions) != 5 {
		t.Errorf("captions = %d/%d, want 5/5", len(gen.VirginCaptions), len(gen.ChadCaptions))
	}
	for _, c := range gen.ChadCaptions {
		if strings.Contains(c, caption.LabelPlaceholder) {
			t.Errorf("unreplaced placeholder in %q", c)
		}
	}
	if gen.CaptionSource != "static" || gen.FellBack {
		t.Errorf("caption source = %q fell back %v", gen.CaptionSource, gen.FellBack)
	}
	if gen.Status != domain.GenerationStatusCompleted {
		t.Errorf("status = %s", gen.Status)
	}
	if gen.Width != 1600 || gen.Height != 1000 {
		t.Errorf("size = %dx%d", gen.Width, gen.Height)
	}

	want := "virgin_vs_chad_meme_bananas_vs_apples_left.png"
	if res.Key != want {
		t.Errorf("key = %q, want %q", res.Key, want)
	}
	file, err := os.Open(filepath.Join(f.outDir, want))
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	defer file.Close()
	cfg, err := png.DecodeConfig(file)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 1600 || cfg.Height != 1000 {
		t.Errorf("png = %dx%d", cfg.Width, cfg.Height)
	}

	if len(f.repo.gens) != 1 || f.repo.gens[0].ID != gen.ID {
		t.Errorf("recorded = %d generations", len(f.repo.gens))
	}
}

func TestGenerate_BothRendersRightThenLeft(t *testing.T) {
	f := newFixture(t, domain.MalformedTopicDuplicate)

	results, err := f.gen.Generate(context.Background(), "Cats vs Dogs", domain.SideBoth)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Generation.Side != domain.SideRight || results[1].Generation.Side != domain.SideLeft {
		t.Errorf("order = %s, %s", results[0].Generation.Side, results[1].Generation.Side)
	}
	if results[1].Generation.VirginLabel != "Cats" {
		t.Errorf("left virgin = %q, want Cats", results[1].Generation.VirginLabel)
	}
	if results[0].Generation.ID == results[1].Generation.ID {
		t.Error("generation ids must differ")
	}
	for _, name := range []string{
		"virgin_vs_chad_meme_cats_vs_dogs_right.png",
		"virgin_vs_chad_meme_cats_vs_dogs_left.png",
	} {
		if _, err := os.Stat(filepath.Join(f.outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

type countingCompleter struct {
	calls int
}

func (c *countingCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	c.calls++
	k := c.calls
	return fmt.Sprintf(`{"virgin_points":["v%[1]d one","v%[1]d two"],"chad_points":["c%[1]d one","c%[1]d two"]}`, k), nil
}

func TestGenerate_CaptionsShareOneCompletion(t *testing.T) {
	f := newFixture(t, domain.MalformedTopicDuplicate)
	completer := &countingCompleter{}
	f.gen.captions = caption.NewGenerativeSource(completer, caption.NewStaticTemplateSource(caption.DefaultWrapWidth, random.NewSeeded(1)),
		caption.GenerativeOptions{Format: caption.FormatJSON, Provider: "openai"}, logger.NewNop())
	f.cfg.CaptionCount = 2

	results, err := f.gen.Generate(context.Background(), "Tea vs Coffee", domain.SideRight)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if completer.calls != 1 {
		t.Errorf("completions = %d, want 1 per render", completer.calls)
	}
	gen := results[0].Generation
	if strings.Join(gen.VirginCaptions, ",") != "v1 one,v1 two" || strings.Join(gen.ChadCaptions, ",") != "c1 one,c1 two" {
		t.Errorf("captions = %q / %q", gen.VirginCaptions, gen.ChadCaptions)
	}
	if gen.CaptionSource != "generative:openai" || gen.FellBack {
		t.Errorf("caption source = %q fell back %v", gen.CaptionSource, gen.FellBack)
	}
}

func TestGenerate_MalformedTopic(t *testing.T) {
	t.Run("reject", func(t *testing.T) {
		f := newFixture(t, domain.MalformedTopicReject)
		_, err := f.gen.Generate(context.Background(), "just bananas", domain.SideLeft)
		if !errors.Is(err, domain.ErrMalformedTopic) {
			t.Fatalf("err = %v, want ErrMalformedTopic", err)
		}
		if len(f.repo.gens) != 0 {
			t.Error("nothing should be recorded")
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		f := newFixture(t, domain.MalformedTopicDuplicate)
		results, err := f.gen.Generate(context.Background(), "just bananas", domain.SideLeft)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		gen := results[0].Generation
		if !gen.Degraded || gen.VirginLabel != "just bananas" || gen.ChadLabel != "just bananas" {
			t.Errorf("generation = %+v", gen)
		}
	})
}

func TestGenerate_MissingTemplates(t *testing.T) {
	f := newFixture(t, domain.MalformedTopicDuplicate)
	if err := os.Remove(filepath.Join(f.tplDir, "chad1.png")); err != nil {
		t.Fatal(err)
	}

	_, err := f.gen.Generate(context.Background(), "Bananas vs Apples", domain.SideLeft)
	if !errors.Is(err, domain.ErrNoTemplates) {
		t.Fatalf("err = %v, want ErrNoTemplates", err)
	}
	if !strings.Contains(err.Error(), "chad") {
		t.Errorf("error should name the missing category: %v", err)
	}
}

func TestGenerate_UniqueKeys(t *testing.T) {
	f := newFixture(t, domain.MalformedTopicDuplicate)
	f.cfg.KeyPrefix = "memes/"
	f.cfg.UniqueKeys = true

	results, err := f.gen.Generate(context.Background(), "Bananas vs Apples", domain.SideLeft)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	res := results[0]
	want := "memes/" + res.Generation.ID + "/virgin_vs_chad_meme_bananas_vs_apples_left.png"
	if res.Key != want {
		t.Errorf("key = %q, want %q", res.Key, want)
	}
	ok, err := f.storage.Exists(context.Background(), want)
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v", ok, err)
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		topic string
		side  domain.Side
		want  string
	}{
		{"Bananas vs Apples", domain.SideRight, "virgin_vs_chad_meme_bananas_vs_apples_right.png"},
		{"Tabs vs Spaces", domain.SideLeft, "virgin_vs_chad_meme_tabs_vs_spaces_left.png"},
		{"Vim  Users vs Emacs Users", domain.SideLeft, "virgin_vs_chad_meme_vim_users_vs_emacs_users_left.png"},
		{"just bananas", domain.SideRight, "virgin_vs_chad_meme_just_bananas_right.png"},
		{"AC/DC vs Queen", domain.SideRight, "virgin_vs_chad_meme_ac_dc_vs_queen_right.png"},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			if got := OutputName(tt.topic, tt.side); got != tt.want {
				t.Errorf("OutputName(%q) = %q, want %q", tt.topic, got, tt.want)
			}
		})
	}
}
