// Package bins holds the fixed bucket tables used to stratify contrastive
// errors by edit distance and by training-data frequency.
//
// Tables are built once and are read-only afterwards; share them by pointer.
package bins

import "strconv"

// ZeroMarker is the string form of zero found in published reference files.
const ZeroMarker = "0"

// Fallback labels for present values that fall outside every explicit bucket.
const (
	DefaultDistance  = ">15"
	DefaultFrequency = ">10k"
)

// Bucket is one labeled set of raw values.
type Bucket struct {
	Label   string
	Values  []int
	Markers []string
}

// Table maps raw values to bucket labels.
type Table struct {
	name     string
	labels   []string
	ints     map[int]string
	markers  map[string]string
	fallback string
}

// NewTable registers buckets in order. A value listed by more than one bucket
// belongs to the last one that lists it.
func NewTable(name, fallback string, buckets []Bucket) *Table {
	t := &Table{
		name:     name,
		ints:     make(map[int]string),
		markers:  make(map[string]string),
		fallback: fallback,
	}
	for _, b := range buckets {
		t.labels = append(t.labels, b.Label)
		for _, v := range b.Values {
			t.ints[v] = b.Label
		}
		for _, m := range b.Markers {
			t.markers[m] = b.Label
		}
	}
	return t
}

func (t *Table) Name() string { return t.name }

// Fallback is the label for present values not covered by any bucket.
func (t *Table) Fallback() string { return t.fallback }

// Labels returns bucket labels in canonical reporting order.
func (t *Table) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

// Value is a raw distance or frequency: an integral number, a string, or
// neither.
type Value interface {
	Int() (int, bool)
	Text() (string, bool)
}

// Lookup classifies v. A nil v is "not applicable" and yields ok=false;
// every present value yields a label, the fallback if nothing else matches.
func (t *Table) Lookup(v Value) (label string, ok bool) {
	if v == nil {
		return "", false
	}
	if n, isInt := v.Int(); isInt {
		if l, found := t.ints[n]; found {
			return l, true
		}
	}
	if s, isText := v.Text(); isText {
		if l, found := t.markers[s]; found {
			return l, true
		}
	}
	return t.fallback, true
}

// Tables bundles the two dimensions the aggregator classifies by.
type Tables struct {
	Distance  *Table
	Frequency *Table
}

// Default builds the published distance and frequency tables.
func Default() Tables {
	return Tables{
		Distance:  Distance(),
		Frequency: Frequency(),
	}
}

// Distance reports every distance up to 15 on its own and the rest as ">15".
func Distance() *Table {
	buckets := []Bucket{{Label: "0", Values: []int{0}, Markers: []string{ZeroMarker}}}
	for i := 1; i <= 15; i++ {
		buckets = append(buckets, Bucket{Label: strconv.Itoa(i), Values: []int{i}})
	}
	buckets = append(buckets, Bucket{Label: DefaultDistance})
	return NewTable("distance", DefaultDistance, buckets)
}

// Frequency covers Zipfian strata from ">10k" down to "0". The ">5" and ">2"
// ranges both list 5; registration order puts 5 in ">2".
func Frequency() *Table {
	return NewTable("frequency", DefaultFrequency, []Bucket{
		{Label: DefaultFrequency},
		{Label: ">5k", Values: span(5001, 10000)},
		{Label: ">2k", Values: span(2001, 5000)},
		{Label: ">1k", Values: span(1001, 2000)},
		{Label: ">500", Values: span(501, 1000)},
		{Label: ">200", Values: span(201, 500)},
		{Label: ">100", Values: span(101, 200)},
		{Label: ">50", Values: span(51, 100)},
		{Label: ">20", Values: span(21, 50)},
		{Label: ">10", Values: span(11, 20)},
		{Label: ">5", Values: span(5, 10)},
		{Label: ">2", Values: span(3, 5)},
		{Label: "2", Values: []int{2}},
		{Label: "1", Values: []int{1}},
		{Label: "0", Values: []int{0}, Markers: []string{ZeroMarker}},
	})
}

// span returns lo..hi inclusive.
func span(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}
	return out
}
