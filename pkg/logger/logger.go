// Package logger configures the global zerolog logger for the binaries.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Level string `mapstructure:"level"`
	Debug bool   `mapstructure:"debug"`
	// JSON switches from the console writer to one JSON object per line.
	JSON bool `mapstructure:"json"`
}

// DefaultConfig reads PATRIOT_LOG_LEVEL, PATRIOT_DEBUG and PATRIOT_LOG_JSON.
func DefaultConfig() Config {
	return Config{
		Level: getEnvOrDefault("PATRIOT_LOG_LEVEL", "info"),
		Debug: getEnvBool("PATRIOT_DEBUG"),
		JSON:  getEnvBool("PATRIOT_LOG_JSON"),
	}
}

// Init points log.Logger at stderr. Stdout stays free for the MCP transport
// and CLI output.
func Init(config Config) error {
	return InitWriter(config, os.Stderr)
}

// InitWriter is Init with an explicit destination.
func InitWriter(config Config, w io.Writer) error {
	level := zerolog.InfoLevel
	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(strings.ToLower(config.Level))
		if err != nil {
			return err
		}
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	out := w
	if !config.JSON {
		out = zerolog.ConsoleWriter{Out: w}
	}

	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	return nil
}

// WithComponent returns a child of the global logger tagged with component.
func WithComponent(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
