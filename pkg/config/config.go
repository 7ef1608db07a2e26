// Package config resolves the settings of an evaluation run from defaults,
// an optional YAML file, LINGEVAL_* environment variables and flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"lingeval/pkg/contrastive"
)

// Output formats.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatProm  = "prom"
)

// Stdin is the scores path that reads from standard input.
const Stdin = "-"

// Config holds every setting of an evaluation run.
type Config struct {
	// Reference is the path of the JSON reference document.
	Reference string `yaml:"reference"`
	// Scores is the path of the score file, "-" for standard input.
	Scores string `yaml:"scores"`
	// Maximize treats higher scores as better.
	Maximize bool `yaml:"maximize"`
	// Categories restricts the statistics; empty means all categories.
	Categories []string `yaml:"categories"`

	Verbose       bool `yaml:"verbose"`
	FD            bool `yaml:"fd"`
	LaTeX         bool `yaml:"latex"`
	LaTeXPolarity bool `yaml:"latex_polarity"`

	Format   string `yaml:"format"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Scores:   Stdin,
		Format:   FormatText,
		LogLevel: "info",
	}
}

// Load reads a YAML config file on top of the defaults. Unknown keys are
// rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from LINGEVAL_* variables found through lookup,
// usually os.LookupEnv after godotenv has loaded a .env file.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", key, v, err)
		}
		*dst = b
		return nil
	}

	str("LINGEVAL_REFERENCE", &c.Reference)
	str("LINGEVAL_SCORES", &c.Scores)
	str("LINGEVAL_FORMAT", &c.Format)
	str("LINGEVAL_LOG_LEVEL", &c.LogLevel)
	if v, ok := lookup("LINGEVAL_CATEGORIES"); ok && v != "" {
		c.Categories = SplitList(v)
	}
	for _, b := range []struct {
		key string
		dst *bool
	}{
		{"LINGEVAL_MAXIMIZE", &c.Maximize},
		{"LINGEVAL_VERBOSE", &c.Verbose},
		{"LINGEVAL_FD", &c.FD},
		{"LINGEVAL_LATEX", &c.LaTeX},
		{"LINGEVAL_LATEX_POLARITY", &c.LaTeXPolarity},
	} {
		if err := boolean(b.key, b.dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks required fields and enumerations.
func (c Config) Validate() error {
	if c.Reference == "" {
		return errors.New("reference path is required")
	}
	if c.Scores == "" {
		return errors.New("scores path is empty")
	}
	if _, err := c.CategorySet(); err != nil {
		return err
	}
	switch c.Format {
	case FormatText, FormatTable, FormatJSON, FormatYAML, FormatProm:
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// CategorySet returns the configured categories, or all of them when none
// are configured.
func (c Config) CategorySet() ([]contrastive.Category, error) {
	if len(c.Categories) == 0 {
		return contrastive.Categories(), nil
	}
	out := make([]contrastive.Category, 0, len(c.Categories))
	for _, s := range c.Categories {
		cat, err := contrastive.ParseCategory(s)
		if err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// SplitList splits a comma- or space-separated list, dropping empty items.
func SplitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
