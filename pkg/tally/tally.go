// Package tally counts how often a scoring model prefers the reference
// sentence over its contrastive variants.
package tally

import "lingeval/pkg/contrastive"

// Mode selects which direction of score is better.
type Mode int

const (
	// Minimize treats lower scores as better (negative log-likelihood).
	Minimize Mode = iota
	// Maximize treats higher scores as better (probability, log-likelihood).
	Maximize
)

// Better reports whether a is strictly better than b. Ties are never better.
func (m Mode) Better(a, b float64) bool {
	if m == Maximize {
		return a > b
	}
	return a < b
}

func (m Mode) String() string {
	if m == Maximize {
		return "maximize"
	}
	return "minimize"
}

// Counter holds correct and total decisions for one key.
type Counter struct {
	Correct int `json:"correct" yaml:"correct"`
	Total   int `json:"total" yaml:"total"`
}

// Accuracy is Correct/Total, or 0 for an empty counter.
func (c Counter) Accuracy() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Correct) / float64(c.Total)
}

func (c *Counter) add(correct bool) {
	c.Total++
	if correct {
		c.Correct++
	}
}

// Joint keys the frequency x distance dimension.
type Joint struct {
	Frequency string
	Distance  string
}

// Tallies are four views over the same stream of decisions.
type Tallies struct {
	ByCategory             map[contrastive.Category]*Counter
	ByDistance             map[string]*Counter
	ByFrequency            map[string]*Counter
	ByFrequencyAndDistance map[Joint]*Counter
}

func newTallies() *Tallies {
	return &Tallies{
		ByCategory:             make(map[contrastive.Category]*Counter),
		ByDistance:             make(map[string]*Counter),
		ByFrequency:            make(map[string]*Counter),
		ByFrequencyAndDistance: make(map[Joint]*Counter),
	}
}

// Category returns the counter for c, zero if c was never seen.
func (t *Tallies) Category(c contrastive.Category) Counter {
	return deref(t.ByCategory[c])
}

func (t *Tallies) Distance(label string) Counter {
	return deref(t.ByDistance[label])
}

func (t *Tallies) Frequency(label string) Counter {
	return deref(t.ByFrequency[label])
}

func (t *Tallies) FrequencyAndDistance(freq, dist string) Counter {
	return deref(t.ByFrequencyAndDistance[Joint{Frequency: freq, Distance: dist}])
}

// Overall sums every category counter.
func (t *Tallies) Overall() Counter {
	var sum Counter
	for _, c := range t.ByCategory {
		sum.Correct += c.Correct
		sum.Total += c.Total
	}
	return sum
}

// Sum merges the counters of the given categories.
func (t *Tallies) Sum(cats ...contrastive.Category) Counter {
	var sum Counter
	for _, cat := range cats {
		c := t.Category(cat)
		sum.Correct += c.Correct
		sum.Total += c.Total
	}
	return sum
}

// decision is one classified error instance. Distance and Frequency are
// empty when not applicable.
type decision struct {
	category  contrastive.Category
	distance  string
	frequency string
	correct   bool
}

func (t *Tallies) record(d decision) {
	bump(t.ByCategory, d.category, d.correct)
	if d.distance != "" {
		bump(t.ByDistance, d.distance, d.correct)
	}
	if d.frequency != "" {
		bump(t.ByFrequency, d.frequency, d.correct)
	}
	if d.distance != "" && d.frequency != "" {
		bump(t.ByFrequencyAndDistance, Joint{Frequency: d.frequency, Distance: d.distance}, d.correct)
	}
}

func bump[K comparable](m map[K]*Counter, k K, correct bool) {
	c, ok := m[k]
	if !ok {
		c = &Counter{}
		m[k] = c
	}
	c.add(correct)
}

func deref(c *Counter) Counter {
	if c == nil {
		return Counter{}
	}
	return *c
}
