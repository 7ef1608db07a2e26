package report

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"lingeval/pkg/bins"
	"lingeval/pkg/contrastive"
	"lingeval/pkg/tally"
)

// Snapshot is the machine-readable form of a finished run.
type Snapshot struct {
	RunID     string `json:"run_id" yaml:"run_id"`
	Mode      string `json:"mode" yaml:"mode"`
	Reference string `json:"reference,omitempty" yaml:"reference,omitempty"`

	Overall                Row   `json:"overall" yaml:"overall"`
	ByCategory             []Row `json:"by_category" yaml:"by_category"`
	ByDistance             []Row `json:"by_distance" yaml:"by_distance"`
	ByFrequency            []Row `json:"by_frequency" yaml:"by_frequency"`
	ByFrequencyAndDistance []Row `json:"by_frequency_and_distance" yaml:"by_frequency_and_distance"`
}

// Row is one non-empty counter of a breakdown.
type Row struct {
	Key       string  `json:"key,omitempty" yaml:"key,omitempty"`
	Frequency string  `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	Distance  string  `json:"distance,omitempty" yaml:"distance,omitempty"`
	Correct   int     `json:"correct" yaml:"correct"`
	Total     int     `json:"total" yaml:"total"`
	Accuracy  float64 `json:"accuracy" yaml:"accuracy"`
}

func newRow(c tally.Counter) Row {
	return Row{Correct: c.Correct, Total: c.Total, Accuracy: c.Accuracy()}
}

// Meta describes the run a snapshot belongs to.
type Meta struct {
	RunID     string
	Mode      tally.Mode
	Reference string
}

// NewSnapshot flattens t into breakdown lists in canonical order. A random
// run ID is assigned when meta carries none.
func NewSnapshot(t *tally.Tallies, tables bins.Tables, meta Meta) *Snapshot {
	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}
	s := &Snapshot{
		RunID:                  meta.RunID,
		Mode:                   meta.Mode.String(),
		Reference:              meta.Reference,
		Overall:                newRow(t.Overall()),
		ByCategory:             []Row{},
		ByDistance:             []Row{},
		ByFrequency:            []Row{},
		ByFrequencyAndDistance: []Row{},
	}

	for _, c := range contrastive.Categories() {
		if ct := t.Category(c); ct.Total > 0 {
			row := newRow(ct)
			row.Key = string(c)
			s.ByCategory = append(s.ByCategory, row)
		}
	}
	for _, d := range tables.Distance.Labels() {
		if ct := t.Distance(d); ct.Total > 0 {
			row := newRow(ct)
			row.Key = d
			s.ByDistance = append(s.ByDistance, row)
		}
	}
	for _, f := range tables.Frequency.Labels() {
		if ct := t.Frequency(f); ct.Total > 0 {
			row := newRow(ct)
			row.Key = f
			s.ByFrequency = append(s.ByFrequency, row)
		}
		for _, d := range tables.Distance.Labels() {
			if ct := t.FrequencyAndDistance(f, d); ct.Total > 0 {
				row := newRow(ct)
				row.Frequency = f
				row.Distance = d
				s.ByFrequencyAndDistance = append(s.ByFrequencyAndDistance, row)
			}
		}
	}
	return s
}

// WriteJSON encodes s as indented JSON.
func (s *Snapshot) WriteJSON(w io.Writer) error {
	data, err := sonic.ConfigStd.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// WriteYAML encodes s as YAML.
func (s *Snapshot) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return enc.Close()
}
