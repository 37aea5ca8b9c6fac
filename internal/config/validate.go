package config

import "fmt"

// Validate checks that the configuration is usable.
// Returns an error describing the first validation failure, or nil if valid.
func (c *Config) Validate() error {
	if err := c.Caption.Validate(); err != nil {
		return err
	}
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if err := c.Render.Validate(); err != nil {
		return err
	}

	switch c.Topic.MalformedPolicy {
	case "", "duplicate", "reject":
	default:
		return fmt.Errorf("topic: unknown malformed_policy %q", c.Topic.MalformedPolicy)
	}

	switch c.Storage.Type {
	case "", "local", "s3", "r2", "s3compatible":
	default:
		return fmt.Errorf("storage: unknown type %q", c.Storage.Type)
	}
	if !c.Storage.IsLocal() && c.Storage.Bucket == "" {
		return fmt.Errorf("storage: bucket is required for type %q", c.Storage.Type)
	}

	switch c.Templates.Source {
	case "", "local":
		if c.Templates.Dir == "" {
			return fmt.Errorf("templates: dir is required")
		}
	case "bucket":
		if c.Storage.IsLocal() {
			return fmt.Errorf("templates: bucket source requires a remote storage type")
		}
	default:
		return fmt.Errorf("templates: unknown source %q", c.Templates.Source)
	}

	if c.Database.Enabled {
		switch c.Database.Driver {
		case "sqlite", "postgres":
		default:
			return fmt.Errorf("database: unknown driver %q", c.Database.Driver)
		}
	}
	return nil
}

// Validate checks caption counts and budgets.
func (c *CaptionConfig) Validate() error {
	if c.Count < 1 {
		return fmt.Errorf("caption: count must be at least 1, got %d", c.Count)
	}
	if c.WrapWidth < 1 {
		return fmt.Errorf("caption: wrap_width must be positive, got %d", c.WrapWidth)
	}
	if c.CharLimit < 1 {
		return fmt.Errorf("caption: char_limit must be positive, got %d", c.CharLimit)
	}
	switch c.Format {
	case "json", "lines":
	default:
		return fmt.Errorf("caption: unknown format %q", c.Format)
	}
	switch c.Mode {
	case "", "auto", "static":
	default:
		return fmt.Errorf("caption: unknown mode %q", c.Mode)
	}
	return nil
}

// Validate checks the provider name and request limits.
func (c *LLMConfig) Validate() error {
	switch c.Provider {
	case "", "openai", "anthropic":
	default:
		return fmt.Errorf("llm: unknown provider %q", c.Provider)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("llm: max_tokens must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("llm: timeout must be positive")
	}
	return nil
}

// Validate checks that every fraction lies inside the canvas.
func (c *LayoutConfig) Validate() error {
	fractions := map[string]float64{
		"anchor_y":          c.AnchorY,
		"virgin_anchor_x":   c.VirginAnchorX,
		"chad_anchor_x":     c.ChadAnchorX,
		"virgin_spread_min": c.VirginSpreadMin,
		"virgin_spread_max": c.VirginSpreadMax,
		"chad_spread_min":   c.ChadSpreadMin,
		"chad_spread_max":   c.ChadSpreadMax,
	}
	for name, f := range fractions {
		if f < 0 || f > 1 {
			return fmt.Errorf("layout: %s must be within [0, 1], got %v", name, f)
		}
	}
	if c.VirginSpreadMin > c.VirginSpreadMax {
		return fmt.Errorf("layout: virgin spread min exceeds max")
	}
	if c.ChadSpreadMin > c.ChadSpreadMax {
		return fmt.Errorf("layout: chad spread min exceeds max")
	}
	if c.TotalHeight < 0 || c.JitterX < 0 || c.JitterY < 0 {
		return fmt.Errorf("layout: total_height and jitter must not be negative")
	}
	return nil
}

// Validate checks canvas and font sizes.
func (c *RenderConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("render: canvas size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.TemplateHeight <= 0 {
		return fmt.Errorf("render: template_height must be positive")
	}
	if c.TitleSize <= 0 || c.CaptionSize <= 0 {
		return fmt.Errorf("render: font sizes must be positive")
	}
	if c.OutlineWidth < 0 {
		return fmt.Errorf("render: outline_width must not be negative")
	}
	return nil
}
