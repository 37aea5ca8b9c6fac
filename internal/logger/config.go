package logger

import (
	"io"
	"os"
	"strconv"
)

// EnvConfig is the logger setup read from LOG_* variables.
type EnvConfig struct {
	Level       string
	Format      string    // json or text
	Output      io.Writer // overrides the stdout/file selection when set
	ServiceName string

	// Environment is APP_ENV. "local" always logs to stdout and never to a file.
	Environment string

	LogFile     string
	LogFileOnly bool

	// Rotation, passed to lumberjack.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// LoadFromEnv reads EnvConfig from the process environment.
func LoadFromEnv() *EnvConfig {
	return loadEnv(os.LookupEnv)
}

func loadEnv(lookup func(string) (string, bool)) *EnvConfig {
	env := envReader(lookup)
	return &EnvConfig{
		Level:       env.str("LOG_LEVEL", "info"),
		Format:      env.str("LOG_FORMAT", "json"),
		ServiceName: env.str("SERVICE_NAME", serviceName),
		Environment: env.str("APP_ENV", "local"),
		LogFile:     env.str("LOG_FILE", "logs/chadgen.log"),
		LogFileOnly: env.boolean("LOG_FILE_ONLY", false),
		MaxSizeMB:   env.integer("LOG_MAX_SIZE", 50),
		MaxBackups:  env.integer("LOG_MAX_BACKUPS", 5),
		MaxAgeDays:  env.integer("LOG_MAX_AGE", 14),
		Compress:    env.boolean("LOG_COMPRESS", true),
	}
}

// envReader parses variables, keeping the default for unset or invalid values.
type envReader func(string) (string, bool)

func (r envReader) str(key, def string) string {
	if v, ok := r(key); ok && v != "" {
		return v
	}
	return def
}

func (r envReader) boolean(key string, def bool) bool {
	b, err := strconv.ParseBool(r.str(key, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return b
}

func (r envReader) integer(key string, def int) int {
	i, err := strconv.Atoi(r.str(key, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return i
}
