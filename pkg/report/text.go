// Package report renders completed tallies as plain text, LaTeX table rows,
// aligned tables and machine-readable snapshots.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"lingeval/pkg/bins"
	"lingeval/pkg/contrastive"
	"lingeval/pkg/tally"
)

// ErrEmptySlot is returned by the LaTeX renderers when a column has no
// decisions. The published tables assume every column is populated.
var ErrEmptySlot = errors.New("empty table slot")

// Sections toggles the optional parts of the text report.
type Sections struct {
	FrequencyAndDistance bool
	LaTeX                bool
	LaTeXPolarity        bool
}

// Reporter writes text views of a Tallies value.
type Reporter struct {
	w      io.Writer
	tables bins.Tables
}

func New(w io.Writer, tables bins.Tables) *Reporter {
	return &Reporter{w: w, tables: tables}
}

// WriteAll prints the full text report.
func (r *Reporter) WriteAll(t *tally.Tallies, s Sections) error {
	steps := []func() error{
		func() error { return r.Summary(t) },
		r.blank,
		r.heading("statistics by error category"),
		func() error { return r.ByCategory(t) },
		r.blank,
		r.heading("statistics by distance"),
		func() error { return r.ByDistance(t) },
		r.blank,
		r.heading("statistics by frequency in training data"),
		func() error { return r.ByFrequency(t) },
		r.blank,
	}
	if s.FrequencyAndDistance {
		steps = append(steps,
			r.heading("statistics by frequency and distance"),
			func() error { return r.ByFrequencyAndDistance(t) },
			r.blank)
	}
	if s.LaTeX {
		steps = append(steps,
			r.heading("LaTeX table"),
			func() error { return r.LaTeXTable(t) })
	}
	if s.LaTeXPolarity {
		steps = append(steps,
			r.heading("LaTeX table (polarity)"),
			func() error { return r.LaTeXPolarityTable(t) })
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// Summary prints the overall counts across all categories.
// The line is printed even when nothing was counted.
func (r *Reporter) Summary(t *tally.Tallies) error {
	c := t.Overall()
	_, err := fmt.Fprintf(r.w, "total : %d %d %s\n", c.Correct, c.Total, tally.FormatFloat(c.Accuracy()))
	return err
}

// ByCategory prints one line per category in canonical order, skipping
// categories with no decisions.
func (r *Reporter) ByCategory(t *tally.Tallies) error {
	for _, c := range contrastive.Categories() {
		if err := r.row(string(c)+" : ", t.Category(c)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) ByDistance(t *tally.Tallies) error {
	for _, d := range r.tables.Distance.Labels() {
		if err := r.row("distance "+d+": ", t.Distance(d)); err != nil {
			return err
		}
	}
	return nil
}

// ByFrequency prints frequency buckets from the most frequent down.
func (r *Reporter) ByFrequency(t *tally.Tallies) error {
	for _, f := range r.tables.Frequency.Labels() {
		if err := r.row(f+" : ", t.Frequency(f)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) ByFrequencyAndDistance(t *tally.Tallies) error {
	for _, f := range r.tables.Frequency.Labels() {
		for _, d := range r.tables.Distance.Labels() {
			prefix := "frequency: " + f + " distance: " + d + ": "
			if err := r.row(prefix, t.FrequencyAndDistance(f, d)); err != nil {
				return err
			}
		}
	}
	return nil
}

// slot is one column of a published LaTeX table.
type slot struct {
	name       string
	categories []contrastive.Category
}

var latexSlots = []slot{
	{"np_agreement", []contrastive.Category{contrastive.NPAgreement}},
	{"subj_verb_agreement", []contrastive.Category{contrastive.SubjVerbAgreement}},
	{"verb_particle", []contrastive.Category{contrastive.VerbParticle}},
	{"polarity_ins", []contrastive.Category{
		contrastive.PolarityParticleNichtIns,
		contrastive.PolarityParticleKeinIns,
		contrastive.PolarityAffixIns,
	}},
	{"polarity_del", []contrastive.Category{
		contrastive.PolarityParticleNichtDel,
		contrastive.PolarityParticleKeinDel,
		contrastive.PolarityAffixDel,
	}},
	{"transliteration", []contrastive.Category{contrastive.Transliteration}},
}

var latexPolaritySlots = []slot{
	{"polarity_particle_nicht_ins", []contrastive.Category{contrastive.PolarityParticleNichtIns}},
	{"polarity_particle_kein_ins", []contrastive.Category{contrastive.PolarityParticleKeinIns}},
	{"polarity_affix_ins", []contrastive.Category{contrastive.PolarityAffixIns}},
	{"polarity_particle_nicht_del", []contrastive.Category{contrastive.PolarityParticleNichtDel}},
	{"polarity_particle_kein_del", []contrastive.Category{contrastive.PolarityParticleKeinDel}},
	{"polarity_affix_del", []contrastive.Category{contrastive.PolarityAffixDel}},
}

// LaTeXTable prints the published summary table with the three polarity
// insertion and the three deletion categories merged.
func (r *Reporter) LaTeXTable(t *tally.Tallies) error {
	return r.latex(t, latexSlots)
}

// LaTeXPolarityTable prints the polarity-only table, one column per
// negation mechanism and direction.
func (r *Reporter) LaTeXPolarityTable(t *tally.Tallies) error {
	return r.latex(t, latexPolaritySlots)
}

func (r *Reporter) latex(t *tally.Tallies, slots []slot) error {
	totals := make([]string, len(slots))
	pcts := make([]string, len(slots))
	for i, s := range slots {
		c := t.Sum(s.categories...)
		// Unlike the published script, which printed the totals row and then
		// failed, every slot is checked before anything is written.
		if c.Total == 0 {
			return fmt.Errorf("%w: %s", ErrEmptySlot, s.name)
		}
		totals[i] = fmt.Sprintf("%d", c.Total)
		pcts[i] = fmt.Sprintf("%.1f", float64(c.Correct)/float64(c.Total)*100)
	}
	_, err := fmt.Fprintf(r.w, "%s\n%s\n", strings.Join(totals, " & "), strings.Join(pcts, " & "))
	return err
}

// row prints "prefix correct total accuracy" unless the counter is empty.
func (r *Reporter) row(prefix string, c tally.Counter) error {
	if c.Total == 0 {
		return nil
	}
	_, err := fmt.Fprintf(r.w, "%s%d %d %s\n", prefix, c.Correct, c.Total, tally.FormatFloat(c.Accuracy()))
	return err
}

func (r *Reporter) blank() error {
	_, err := fmt.Fprintln(r.w)
	return err
}

func (r *Reporter) heading(s string) func() error {
	return func() error {
		_, err := fmt.Fprintln(r.w, s)
		return err
	}
}
