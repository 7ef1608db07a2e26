package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lingeval/pkg/contrastive"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eval.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
reference: testset.json
maximize: true
categories: [np_agreement, compound]
fd: true
format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Config{
		Reference:  "testset.json",
		Scores:     Stdin,
		Maximize:   true,
		Categories: []string{"np_agreement", "compound"},
		FD:         true,
		Format:     FormatJSON,
		LogLevel:   "info",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_Empty(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	if _, err := Load(writeFile(t, "referense: typo.json\n")); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"LINGEVAL_REFERENCE":  "env.json",
		"LINGEVAL_SCORES":     "scores.txt",
		"LINGEVAL_MAXIMIZE":   "true",
		"LINGEVAL_CATEGORIES": "auxiliary, verb_particle",
		"LINGEVAL_LATEX":      "1",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	cfg.Reference = "file.json"
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	want := Default()
	want.Reference = "env.json"
	want.Scores = "scores.txt"
	want.Maximize = true
	want.Categories = []string{"auxiliary", "verb_particle"}
	want.LaTeX = true
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("ApplyEnv() mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyEnv_BadBool(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) (string, bool) {
		if k == "LINGEVAL_MAXIMIZE" {
			return "sometimes", true
		}
		return "", false
	})
	if err == nil {
		t.Error("expected error for invalid boolean")
	}
}

func TestApplyEnv_FirstInvalidBoolWins(t *testing.T) {
	env := map[string]string{
		"LINGEVAL_MAXIMIZE":       "maybe",
		"LINGEVAL_FD":             "often",
		"LINGEVAL_LATEX_POLARITY": "never",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	for i := 0; i < 20; i++ {
		cfg := Default()
		err := cfg.ApplyEnv(lookup)
		if err == nil || !strings.Contains(err.Error(), "LINGEVAL_MAXIMIZE") {
			t.Fatalf("ApplyEnv() error = %v, want the LINGEVAL_MAXIMIZE error", err)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Reference = "ref.json"

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing reference", func(c *Config) { c.Reference = "" }, true},
		{"unknown category", func(c *Config) { c.Categories = []string{"spelling"} }, true},
		{"unknown format", func(c *Config) { c.Format = "xml" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"prom format", func(c *Config) { c.Format = FormatProm }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCategorySet(t *testing.T) {
	all, err := Default().CategorySet()
	if err != nil {
		t.Fatalf("CategorySet() error = %v", err)
	}
	if diff := cmp.Diff(contrastive.Categories(), all); diff != "" {
		t.Errorf("default categories mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("debug"); err != nil || l != slog.LevelDebug {
		t.Errorf("ParseLevel(debug) = (%v, %v)", l, err)
	}
	if l, err := ParseLevel("WARN"); err != nil || l != slog.LevelWarn {
		t.Errorf("ParseLevel(WARN) = (%v, %v)", l, err)
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList("a,b  c,,d")
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, got); diff != "" {
		t.Errorf("SplitList() mismatch (-want +got):\n%s", diff)
	}
}
