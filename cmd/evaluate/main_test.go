package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/google/go-cmp/cmp"

	"lingeval/pkg/config"
	"lingeval/pkg/report"
)

const reference = `[{"source": "The house is small.", "reference": "Das Haus ist klein.",
  "errors": [
    {"type": "np_agreement", "distance": 0, "frequency": 50, "contrastive": "Der Haus ist klein."},
    {"type": "compound", "contrastive": "Das Hasu ist klein."}
  ]}]`

func writeReference(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "testset.json")
	if err := os.WriteFile(path, []byte(reference), 0o644); err != nil {
		t.Fatalf("write reference: %v", err)
	}
	return path
}

func TestRun_Text(t *testing.T) {
	cfg := config.Default()
	cfg.Reference = writeReference(t)
	cfg.FD = true

	var out bytes.Buffer
	if err := run(cfg, strings.NewReader("1.0\n2.0\n0.5\n"), &out, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	want := strings.Join([]string{
		"total : 1 2 0.5",
		"",
		"statistics by error category",
		"np_agreement : 1 1 1.0",
		"compound : 0 1 0.0",
		"",
		"statistics by distance",
		"distance 0: 1 1 1.0",
		"",
		"statistics by frequency in training data",
		">20 : 1 1 1.0",
		"",
		"statistics by frequency and distance",
		"frequency: >20 distance: 0: 1 1 1.0",
		"",
		"",
	}, "\n")
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("run() output mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_ScoresFile(t *testing.T) {
	cfg := config.Default()
	cfg.Reference = writeReference(t)
	cfg.Maximize = true
	cfg.Categories = []string{"compound"}
	cfg.Format = config.FormatTable
	cfg.Scores = filepath.Join(t.TempDir(), "scores.txt")
	if err := os.WriteFile(cfg.Scores, []byte("1.0\n2.0\n0.5\n"), 0o644); err != nil {
		t.Fatalf("write scores: %v", err)
	}

	var out bytes.Buffer
	if err := run(cfg, strings.NewReader(""), &out, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out.String(), "compound  1        1      100.00%") {
		t.Errorf("unexpected table:\n%s", out.String())
	}
	if strings.Contains(out.String(), "np_agreement") {
		t.Errorf("filtered category reported:\n%s", out.String())
	}
}

func TestRun_ShortScores(t *testing.T) {
	cfg := config.Default()
	cfg.Reference = writeReference(t)

	var out bytes.Buffer
	if err := run(cfg, strings.NewReader("1.0\n2.0\n"), &out, io.Discard); err == nil {
		t.Fatal("expected error for exhausted score stream")
	}
	if out.Len() != 0 {
		t.Errorf("expected no report on failure, got %q", out.String())
	}
}

func TestRun_VerboseKeepsJSONParseable(t *testing.T) {
	cfg := config.Default()
	cfg.Reference = writeReference(t)
	cfg.Verbose = true
	cfg.Format = config.FormatJSON

	var out, errOut bytes.Buffer
	if err := run(cfg, strings.NewReader("1.0\n2.0\n0.5\n"), &out, &errOut); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var snap report.Snapshot
	if err := sonic.Unmarshal(out.Bytes(), &snap); err != nil {
		t.Fatalf("stdout is not valid JSON: %v\n%s", err, out.String())
	}
	if snap.Overall.Total != 2 || snap.Overall.Correct != 1 {
		t.Errorf("overall = %+v, want 1 of 2", snap.Overall)
	}
	if !strings.Contains(errOut.String(), "error: compound") {
		t.Errorf("verbose record missing from stderr: %q", errOut.String())
	}
}

func TestRun_VerboseTextGoesToStdout(t *testing.T) {
	cfg := config.Default()
	cfg.Reference = writeReference(t)
	cfg.Verbose = true

	var out, errOut bytes.Buffer
	if err := run(cfg, strings.NewReader("1.0\n2.0\n0.5\n"), &out, &errOut); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "error: compound\n") {
		t.Errorf("expected verbose record before the report:\n%s", out.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected stderr output: %q", errOut.String())
	}
}
