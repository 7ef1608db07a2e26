package contrastive

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bytedance/sonic"
)

// ErrMissingField is returned when a reference record lacks a required key.
var ErrMissingField = errors.New("missing required field")

// rawEntry mirrors the reference document; pointers detect absent keys.
type rawEntry struct {
	Source    *string     `json:"source"`
	Reference *string     `json:"reference"`
	Errors    *[]rawError `json:"errors"`
}

type rawError struct {
	Type        *string   `json:"type"`
	Distance    *RawValue `json:"distance"`
	Frequency   *RawValue `json:"frequency"`
	Contrastive *string   `json:"contrastive"`
}

// Load decodes a reference document: a JSON array of entries, each with
// "source", "reference" and "errors". Every error record needs "type" and
// "contrastive"; "distance" and "frequency" are optional.
func Load(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference: %w", err)
	}

	var raw []rawEntry
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse reference JSON: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	numErrors := 0
	for i, re := range raw {
		e, err := re.entry()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		numErrors += len(e.Errors)
		entries = append(entries, e)
	}

	slog.Debug("Loaded reference", "entries", len(entries), "errors", numErrors)
	return entries, nil
}

// LoadFile opens path and decodes it with Load.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func (re rawEntry) entry() (Entry, error) {
	switch {
	case re.Source == nil:
		return Entry{}, fmt.Errorf("%w %q", ErrMissingField, "source")
	case re.Reference == nil:
		return Entry{}, fmt.Errorf("%w %q", ErrMissingField, "reference")
	case re.Errors == nil:
		return Entry{}, fmt.Errorf("%w %q", ErrMissingField, "errors")
	}

	e := Entry{
		Source:    *re.Source,
		Reference: *re.Reference,
		Errors:    make([]ErrorInstance, 0, len(*re.Errors)),
	}
	for j, rerr := range *re.Errors {
		if rerr.Type == nil {
			return Entry{}, fmt.Errorf("error %d: %w %q", j, ErrMissingField, "type")
		}
		if rerr.Contrastive == nil {
			return Entry{}, fmt.Errorf("error %d: %w %q", j, ErrMissingField, "contrastive")
		}
		e.Errors = append(e.Errors, ErrorInstance{
			Type:        Category(*rerr.Type),
			Distance:    rerr.Distance,
			Frequency:   rerr.Frequency,
			Contrastive: *rerr.Contrastive,
		})
	}
	return e, nil
}
