// Package app wires the configured components into a Generator.
package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/timmy/chadgen/internal/caption"
	"github.com/timmy/chadgen/internal/config"
	"github.com/timmy/chadgen/internal/domain"
	"github.com/timmy/chadgen/internal/layout"
	"github.com/timmy/chadgen/internal/logger"
	"github.com/timmy/chadgen/internal/random"
	"github.com/timmy/chadgen/internal/render"
	"github.com/timmy/chadgen/internal/repository"
	"github.com/timmy/chadgen/internal/service"
	"github.com/timmy/chadgen/internal/source"
	"github.com/timmy/chadgen/internal/source/bucket"
	"github.com/timmy/chadgen/internal/source/local"
	"github.com/timmy/chadgen/internal/storage"
)

const ensureTimeout = 30 * time.Second

// Options adjust the wiring per entry point.
type Options struct {
	Seed       uint64 // 0 uses the global random source
	UniqueKeys bool
}

// App holds the wired components.
type App struct {
	Generator *service.Generator
	Captions  caption.Source
	Renderer  *render.Renderer
	Storage   storage.ObjectStorage
	History   *repository.GenerationRepository // nil when the database is disabled

	db *gorm.DB
}

// Build constructs every component from cfg.
// Parameters:
//   - cfg: validated configuration.
//   - log: base logger.
//   - opts: per-entry-point options.
//
// Returns:
//   - *App: wired application; call Close when done.
//   - error: non-nil if any component cannot be constructed.
func Build(cfg *config.Config, log *logger.Logger, opts Options) (*App, error) {
	rng := random.Default()
	if opts.Seed != 0 {
		rng = random.NewSeeded(opts.Seed)
	}

	policy, err := domain.ParseMalformedTopicPolicy(cfg.Topic.MalformedPolicy)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStorage(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), ensureTimeout)
	defer cancel()
	if err := storage.Ensure(ctx, store); err != nil {
		return nil, fmt.Errorf("failed to ensure storage bucket: %w", err)
	}

	templates, err := newTemplateSource(&cfg.Templates, store)
	if err != nil {
		return nil, err
	}

	captions, err := caption.NewSource(cfg, rng, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize caption source: %w", err)
	}

	a := &App{
		Captions: captions,
		Renderer: render.NewRenderer(render.OptionsFromConfig(&cfg.Render), log),
		Storage:  store,
	}

	var repo service.GenerationRepo
	if cfg.Database.Enabled {
		db, err := repository.InitDB(&cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.db = db
		a.History = repository.NewGenerationRepository(db)
		repo = a.History
	}

	geometry := layout.GeometryFromConfig(&cfg.Layout)
	a.Generator = service.NewGenerator(
		templates,
		captions,
		layout.NewSpreadEngine(geometry, rng),
		geometry,
		a.Renderer,
		store,
		repo,
		rng,
		log.WithField(logger.FieldComponent, "generator"),
		&service.GeneratorConfig{
			CaptionCount: cfg.Caption.Count,
			Policy:       policy,
			KeyPrefix:    cfg.Storage.Prefix,
			UniqueKeys:   opts.UniqueKeys,
		},
	)

	log.WithFields(logger.Fields{
		"captions":  captions.Name(),
		"templates": templates.GetSourceID(),
		"font":      a.Renderer.FontName(),
		"history":   cfg.Database.Enabled,
	}).Info("Generator ready")

	return a, nil
}

// Close releases the database connection.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// newTemplateSource reads templates from a directory or from the output store.
func newTemplateSource(cfg *config.TemplatesConfig, store storage.ObjectStorage) (source.TemplateSource, error) {
	switch cfg.Source {
	case "", "local":
		return local.NewAdapter(cfg.Dir), nil
	case "bucket":
		return bucket.NewAdapter(store, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown template source %q", cfg.Source)
	}
}
