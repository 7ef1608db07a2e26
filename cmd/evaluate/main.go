package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"lingeval/pkg/bins"
	"lingeval/pkg/config"
	"lingeval/pkg/contrastive"
	"lingeval/pkg/report"
	"lingeval/pkg/tally"
)

// listFlag collects repeated or comma-separated values.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, config.SplitList(v)...)
	return nil
}

func main() {
	var (
		configPath string
		categories listFlag
		flags      = config.Default()
	)
	flag.StringVar(&configPath, "config", "", "YAML config file (optional)")
	flag.BoolVar(&flags.Verbose, "v", false, "Verbose mode (prints out all wrong classifications)")
	flag.BoolVar(&flags.Maximize, "maximize", false, "Use for models where higher means better (probability, log-likelihood). By default lower is better (negative log-likelihood)")
	flag.StringVar(&flags.Reference, "reference", "", "Reference JSON file")
	flag.StringVar(&flags.Reference, "r", "", "Shorthand for -reference")
	flag.StringVar(&flags.Scores, "scores", config.Stdin, "File with scores, one per line (\"-\" for stdin)")
	flag.StringVar(&flags.Scores, "s", config.Stdin, "Shorthand for -scores")
	flag.Var(&categories, "categories", "Error categories to include in statistics, comma-separated or repeated (default: all)")
	flag.BoolVar(&flags.FD, "fd", false, "Print statistics by frequency and distance")
	flag.BoolVar(&flags.LaTeX, "latex", false, "Print LaTeX table")
	flag.BoolVar(&flags.LaTeXPolarity, "latex-polarity", false, "Print LaTeX table (for polarity)")
	flag.StringVar(&flags.Format, "format", config.FormatText, "Output format: text, table, json, yaml or prom")
	flag.StringVar(&flags.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flag.Parse()
	flags.Categories = categories

	_ = godotenv.Load()

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}
	applyFlags(&cfg, flags)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(cfg, os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
}

// applyFlags copies only the flags given on the command line, so they win
// over the config file and environment without clobbering them with defaults.
func applyFlags(cfg *config.Config, flags config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":
			cfg.Verbose = flags.Verbose
		case "maximize":
			cfg.Maximize = flags.Maximize
		case "reference", "r":
			cfg.Reference = flags.Reference
		case "scores", "s":
			cfg.Scores = flags.Scores
		case "categories":
			cfg.Categories = flags.Categories
		case "fd":
			cfg.FD = flags.FD
		case "latex":
			cfg.LaTeX = flags.LaTeX
		case "latex-polarity":
			cfg.LaTeXPolarity = flags.LaTeXPolarity
		case "format":
			cfg.Format = flags.Format
		case "log-level":
			cfg.LogLevel = flags.LogLevel
		}
	})
}

// run evaluates one configuration. Reports go to stdout; verbose records join
// them only in text format and go to stderr otherwise, keeping json, yaml,
// prom and table output parseable.
func run(cfg config.Config, stdin io.Reader, stdout, stderr io.Writer) error {
	entries, err := contrastive.LoadFile(cfg.Reference)
	if err != nil {
		return err
	}

	scoresIn := stdin
	if cfg.Scores != config.Stdin {
		f, err := os.Open(cfg.Scores)
		if err != nil {
			return fmt.Errorf("failed to open scores: %w", err)
		}
		defer f.Close()
		scoresIn = f
	}

	cats, err := cfg.CategorySet()
	if err != nil {
		return err
	}
	mode := tally.Minimize
	if cfg.Maximize {
		mode = tally.Maximize
	}
	opts := tally.Options{
		Mode:       mode,
		Categories: tally.NewFilter(cats...),
	}
	if cfg.Verbose {
		opts.Verbose = stderr
		if cfg.Format == config.FormatText {
			opts.Verbose = stdout
		}
	}

	tables := bins.Default()
	scores := tally.NewScoreReader(scoresIn)
	results, err := tally.New(tables, opts).Count(entries, scores)
	if err != nil {
		return err
	}

	if n, err := scores.Trailing(); err != nil {
		return err
	} else if n > 0 {
		slog.Warn("Score stream has unread lines", "consumed", scores.Line(), "trailing", n)
	}

	return render(cfg, tables, results, mode, stdout)
}

func render(cfg config.Config, tables bins.Tables, results *tally.Tallies, mode tally.Mode, w io.Writer) error {
	if cfg.Format == config.FormatText {
		return report.New(w, tables).WriteAll(results, report.Sections{
			FrequencyAndDistance: cfg.FD,
			LaTeX:                cfg.LaTeX,
			LaTeXPolarity:        cfg.LaTeXPolarity,
		})
	}

	snap := report.NewSnapshot(results, tables, report.Meta{Mode: mode, Reference: cfg.Reference})
	slog.Info("Evaluation finished", "run_id", snap.RunID, "total", snap.Overall.Total, "accuracy", snap.Overall.Accuracy)
	switch cfg.Format {
	case config.FormatTable:
		return snap.WriteTable(w)
	case config.FormatJSON:
		return snap.WriteJSON(w)
	case config.FormatYAML:
		return snap.WriteYAML(w)
	case config.FormatProm:
		return snap.WritePrometheus(w)
	}
	return fmt.Errorf("unknown format %q", cfg.Format)
}
