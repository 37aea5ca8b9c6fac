package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Caption   CaptionConfig   `mapstructure:"caption"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Layout    LayoutConfig    `mapstructure:"layout"`
	Render    RenderConfig    `mapstructure:"render"`
	Topic     TopicConfig     `mapstructure:"topic"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Driver          string        `mapstructure:"driver"` // sqlite, postgres
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	URL             string        `mapstructure:"url"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	LogLevel        string        `mapstructure:"log_level"` // silent, error, warn, info
}

// DSN returns the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		if c.URL != "" {
			return c.URL
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	}
	return c.Path
}

type StorageConfig struct {
	Type      string `mapstructure:"type"` // local, s3, r2, s3compatible
	Dir       string `mapstructure:"dir"`  // local output directory
	BaseURL   string `mapstructure:"base_url"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
	Prefix    string `mapstructure:"prefix"` // key prefix for rendered memes
}

// IsLocal reports whether rendered memes are written to the filesystem.
func (c *StorageConfig) IsLocal() bool {
	return c.Type == "" || c.Type == "local"
}

type TemplatesConfig struct {
	Source string `mapstructure:"source"` // local, bucket
	Dir    string `mapstructure:"dir"`
	Prefix string `mapstructure:"prefix"` // bucket key prefix
}

type CaptionConfig struct {
	Count          int    `mapstructure:"count"`
	WrapWidth      int    `mapstructure:"wrap_width"`
	CharLimit      int    `mapstructure:"char_limit"`
	Format         string `mapstructure:"format"` // json, lines
	VirginEmphasis string `mapstructure:"virgin_emphasis"`
	Mode           string `mapstructure:"mode"` // auto, static
}

type LLMConfig struct {
	Provider    string          `mapstructure:"provider"` // openai, anthropic; empty picks whichever has a key
	MaxTokens   int             `mapstructure:"max_tokens"`
	Temperature float64         `mapstructure:"temperature"`
	Timeout     time.Duration   `mapstructure:"timeout"`
	OpenAI      OpenAIConfig    `mapstructure:"openai"`
	Anthropic   AnthropicConfig `mapstructure:"anthropic"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type AnthropicConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	Prefill bool   `mapstructure:"prefill"`
}

// ActiveProvider returns the provider to call, or "" when no credential is present.
func (c *LLMConfig) ActiveProvider() string {
	switch c.Provider {
	case "openai":
		if c.OpenAI.APIKey != "" {
			return "openai"
		}
		return ""
	case "anthropic":
		if c.Anthropic.APIKey != "" {
			return "anthropic"
		}
		return ""
	}
	if c.Anthropic.APIKey != "" {
		return "anthropic"
	}
	if c.OpenAI.APIKey != "" {
		return "openai"
	}
	return ""
}

type LayoutConfig struct {
	TotalHeight     int     `mapstructure:"total_height"`
	JitterX         int     `mapstructure:"jitter_x"`
	JitterY         int     `mapstructure:"jitter_y"`
	AnchorY         float64 `mapstructure:"anchor_y"`
	VirginAnchorX   float64 `mapstructure:"virgin_anchor_x"`
	ChadAnchorX     float64 `mapstructure:"chad_anchor_x"`
	VirginSpreadMin float64 `mapstructure:"virgin_spread_min"`
	VirginSpreadMax float64 `mapstructure:"virgin_spread_max"`
	ChadSpreadMin   float64 `mapstructure:"chad_spread_min"`
	ChadSpreadMax   float64 `mapstructure:"chad_spread_max"`
}

type RenderConfig struct {
	Width          int      `mapstructure:"width"`
	Height         int      `mapstructure:"height"`
	TemplateHeight int      `mapstructure:"template_height"`
	TemplateY      int      `mapstructure:"template_y"`
	TitleY         int      `mapstructure:"title_y"`
	TitleSize      float64  `mapstructure:"title_size"`
	CaptionSize    float64  `mapstructure:"caption_size"`
	OutlineWidth   int      `mapstructure:"outline_width"`
	LineSpacing    float64  `mapstructure:"line_spacing"`
	FontPaths      []string `mapstructure:"font_paths"`
}

type TopicConfig struct {
	MalformedPolicy string `mapstructure:"malformed_policy"` // duplicate, reject
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	// Set config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("llm.provider", "LLM_PROVIDER")
	v.BindEnv("llm.openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("llm.openai.base_url", "OPENAI_BASE_URL")
	v.BindEnv("llm.openai.model", "OPENAI_MODEL")
	v.BindEnv("llm.anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("llm.anthropic.base_url", "ANTHROPIC_BASE_URL")
	v.BindEnv("llm.anthropic.model", "ANTHROPIC_MODEL")
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY", "AWS_ACCESS_KEY_ID")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY", "AWS_SECRET_ACCESS_KEY")
	v.BindEnv("storage.bucket", "STORAGE_BUCKET")
	v.BindEnv("storage.public_url", "STORAGE_PUBLIC_URL")
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("database.password", "DATABASE_PASSWORD")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration produced by the defaults alone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})

	v.SetDefault("database.enabled", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/chadgen.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.dir", "./res")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.bucket", "chadgen")

	v.SetDefault("templates.source", "local")
	v.SetDefault("templates.dir", "./templates")
	v.SetDefault("templates.prefix", "templates/")

	v.SetDefault("caption.count", 5)
	v.SetDefault("caption.wrap_width", 25)
	v.SetDefault("caption.char_limit", 40)
	v.SetDefault("caption.format", "json")
	v.SetDefault("caption.mode", "auto")

	v.SetDefault("llm.max_tokens", 300)
	v.SetDefault("llm.temperature", 0.9)
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.anthropic.model", "claude-3-5-haiku-latest")
	v.SetDefault("llm.anthropic.prefill", true)

	v.SetDefault("layout.total_height", 400)
	v.SetDefault("layout.jitter_x", 30)
	v.SetDefault("layout.jitter_y", 20)
	v.SetDefault("layout.anchor_y", 0.5)
	v.SetDefault("layout.virgin_anchor_x", 0.35)
	v.SetDefault("layout.chad_anchor_x", 0.65)
	v.SetDefault("layout.virgin_spread_min", 0.05)
	v.SetDefault("layout.virgin_spread_max", 0.10)
	v.SetDefault("layout.chad_spread_min", 0.70)
	v.SetDefault("layout.chad_spread_max", 0.95)

	v.SetDefault("render.width", 1600)
	v.SetDefault("render.height", 1000)
	v.SetDefault("render.template_height", 500)
	v.SetDefault("render.template_y", 250)
	v.SetDefault("render.title_y", 100)
	v.SetDefault("render.title_size", 40)
	v.SetDefault("render.caption_size", 24)
	v.SetDefault("render.outline_width", 3)
	v.SetDefault("render.line_spacing", 5)
	v.SetDefault("render.font_paths", []string{})

	v.SetDefault("topic.malformed_policy", "duplicate")
}
