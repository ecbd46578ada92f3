// Package config loads jsonstream's runtime configuration from a YAML
// file using sigs.k8s.io/yaml for Marshal/Unmarshal.
package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/hashicorp/go-hclog"

	"github.com/jsonstream/jsonstream"
)

// Config is a thin, optional convenience layer entirely outside the core
// parser: a caller that wants to configure a Parser from a file can load
// one of these and apply it, but nothing in the core package depends on
// it.
type Config struct {
	// Mode is the stream mode: "single", "stream", or "array".
	Mode string `json:"mode"`

	// CompactionThreshold overrides the read offset at which the parser's
	// internal buffer discards its already-consumed prefix. Zero (the
	// field's default) falls back to the parser's own default.
	CompactionThreshold int `json:"compactionThreshold"`

	// LogLevel is an hclog level name: "trace", "debug", "info", "warn",
	// "error", or "off".
	LogLevel string `json:"logLevel"`

	// SessionCacheSize is the capacity passed to session.NewStore.
	SessionCacheSize int `json:"sessionCacheSize"`
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &c, nil
}

// ParserMode translates the configured mode name into a jsonstream.Mode.
// An empty or unrecognized value defaults to ValueStream.
func (c *Config) ParserMode() jsonstream.Mode {
	switch c.Mode {
	case "single":
		return jsonstream.SingleValue
	case "array":
		return jsonstream.UnwrapArray
	default:
		return jsonstream.ValueStream
	}
}

// Logger builds an hclog.Logger at the configured LogLevel. An empty or
// unrecognized level falls back to hclog's own default.
func (c *Config) Logger(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  name,
		Level: hclog.LevelFromString(c.LogLevel),
	})
}

// NewParser builds a jsonstream.Parser[V] from c's mode, compaction
// threshold override, and log level, the way a caller that loaded a
// Config from disk would construct its parser. builder is supplied by the
// caller since V can't be recovered from the Config itself.
func NewParser[V any](c *Config, builder jsonstream.Builder[V]) *jsonstream.Parser[V] {
	return jsonstream.NewWithCompactionThreshold(c.ParserMode(), builder, c.Logger("jsonstream"), c.CompactionThreshold)
}
