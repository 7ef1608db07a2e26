package tally

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"lingeval/pkg/bins"
	"lingeval/pkg/contrastive"
)

// Filter is the set of categories that contribute to the tallies.
type Filter map[contrastive.Category]struct{}

// NewFilter builds a filter from explicit categories.
func NewFilter(cats ...contrastive.Category) Filter {
	f := make(Filter, len(cats))
	for _, c := range cats {
		f[c] = struct{}{}
	}
	return f
}

// AllCategories admits the whole closed category set.
func AllCategories() Filter {
	return NewFilter(contrastive.Categories()...)
}

func (f Filter) Allows(c contrastive.Category) bool {
	_, ok := f[c]
	return ok
}

// Options configure an Aggregator.
type Options struct {
	Mode Mode
	// Categories defaults to AllCategories when nil.
	Categories Filter
	// Verbose, when set, receives a record for every misclassified error.
	Verbose io.Writer
}

// Aggregator scores a reference against a score stream.
type Aggregator struct {
	tables bins.Tables
	opts   Options
}

func New(tables bins.Tables, opts Options) *Aggregator {
	if opts.Categories == nil {
		opts.Categories = AllCategories()
	}
	return &Aggregator{tables: tables, opts: opts}
}

// Count reads one score per entry followed by one per error, in order, and
// tallies every error whose category passes the filter. Filtered errors still
// consume their score. Any stream failure aborts the run with no tallies.
func (a *Aggregator) Count(entries []contrastive.Entry, scores ScoreSource) (*Tallies, error) {
	t := newTallies()
	skipped := 0

	for i, e := range entries {
		score, err := scores.Next()
		if err != nil {
			return nil, fmt.Errorf("entry %d reference score: %w", i, err)
		}

		for j, er := range e.Errors {
			errScore, err := scores.Next()
			if err != nil {
				return nil, fmt.Errorf("entry %d error %d score: %w", i, j, err)
			}
			if !a.opts.Categories.Allows(er.Type) {
				skipped++
				continue
			}

			d := decision{
				category: er.Type,
				correct:  a.opts.Mode.Better(score, errScore),
			}
			d.distance = classify(a.tables.Distance, er.Distance)
			d.frequency = classify(a.tables.Frequency, er.Frequency)
			t.record(d)

			if a.opts.Verbose != nil && !d.correct {
				if err := writeMiss(a.opts.Verbose, e, er, score, errScore); err != nil {
					return nil, err
				}
			}
		}
	}

	slog.Debug("Counted contrastive errors",
		slog.Int("entries", len(entries)),
		slog.Int("counted", t.Overall().Total),
		slog.Int("skipped", skipped))
	return t, nil
}

// classify returns the bucket label of v, or "" when v is absent.
func classify(t *bins.Table, v *contrastive.RawValue) string {
	if v == nil {
		return ""
	}
	label, _ := t.Lookup(v)
	return label
}

func writeMiss(w io.Writer, e contrastive.Entry, er contrastive.ErrorInstance, score, errScore float64) error {
	var b strings.Builder
	fmt.Fprintf(&b, "error: %s\n", er.Type)
	fmt.Fprintf(&b, "source: %s\n", e.Source)
	fmt.Fprintf(&b, "correct (score %s): %s\n", FormatFloat(score), e.Reference)
	fmt.Fprintf(&b, "error (score %s): %s\n\n", FormatFloat(errScore), er.Contrastive)
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write verbose record: %w", err)
	}
	return nil
}

// FormatFloat prints the shortest representation that round-trips, in
// positional form for magnitudes in [1e-4, 1e16) and with a ".0" kept on
// integral values, so scores and accuracies read as floats.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
