package contrastive

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/bytedance/sonic"
)

// Category identifies the kind of corruption applied to a contrastive sentence.
type Category string

const (
	NPAgreement              Category = "np_agreement"                // wrong gender of determiner in noun phrase
	SubjVerbAgreement        Category = "subj_verb_agreement"         // wrong number of verb
	SubjAdequacy             Category = "subj_adequacy"               // verb number flipped for ambiguous "sie"
	PolarityParticleNichtDel Category = "polarity_particle_nicht_del" // negation particle "nicht" deleted
	PolarityParticleKeinDel  Category = "polarity_particle_kein_del"  // "kein" -> "ein"
	PolarityAffixDel         Category = "polarity_affix_del"          // negation prefix "un-" deleted
	PolarityParticleNichtIns Category = "polarity_particle_nicht_ins" // negation particle "nicht" inserted
	PolarityParticleKeinIns  Category = "polarity_particle_kein_ins"  // "ein" -> "kein"
	PolarityAffixIns         Category = "polarity_affix_ins"          // negation prefix "un-" inserted
	Auxiliary                Category = "auxiliary"                   // wrong auxiliary in past participle construction
	VerbParticle             Category = "verb_particle"               // wrong verb particle
	Compound                 Category = "compound"                    // first two morphemes of an unseen compound swapped
	Transliteration          Category = "transliteration"             // two characters of an unseen name swapped
)

// categories is kept in the order the published tables report them.
var categories = []Category{
	NPAgreement,
	SubjVerbAgreement,
	SubjAdequacy,
	PolarityParticleNichtDel,
	PolarityParticleKeinDel,
	PolarityAffixDel,
	PolarityParticleNichtIns,
	PolarityParticleKeinIns,
	PolarityAffixIns,
	Auxiliary,
	VerbParticle,
	Compound,
	Transliteration,
}

// Categories returns the closed category set in canonical reporting order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Known reports whether c belongs to the closed category set.
func (c Category) Known() bool {
	for _, k := range categories {
		if k == c {
			return true
		}
	}
	return false
}

// ParseCategory validates a category label.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Known() {
		return "", fmt.Errorf("unknown error category %q", s)
	}
	return c, nil
}

// Entry is one evaluation instance: a correct sentence and its contrastive variants.
type Entry struct {
	Source    string
	Reference string
	Errors    []ErrorInstance
}

// ErrorInstance is a single contrastive variant of an Entry's reference.
// Distance and Frequency are nil when the record does not carry them.
type ErrorInstance struct {
	Type        Category
	Distance    *RawValue
	Frequency   *RawValue
	Contrastive string
}

type rawKind int

const (
	rawNumber rawKind = iota
	rawText
)

// RawValue is a distance or frequency exactly as it appears in the reference
// document. Published test sets mix integers with the string marker "0".
type RawValue struct {
	kind rawKind
	num  float64
	text string
}

// Number returns a numeric RawValue.
func Number(v float64) *RawValue {
	return &RawValue{kind: rawNumber, num: v}
}

// Text returns a string RawValue.
func Text(s string) *RawValue {
	return &RawValue{kind: rawText, text: s}
}

// Int returns the value as an int when it is an integral number.
func (v RawValue) Int() (int, bool) {
	if v.kind != rawNumber || math.IsNaN(v.num) || math.IsInf(v.num, 0) || v.num != math.Trunc(v.num) {
		return 0, false
	}
	if v.num > math.MaxInt32 || v.num < math.MinInt32 {
		return 0, false
	}
	return int(v.num), true
}

// Text returns the value as a string when it was given as one.
func (v RawValue) Text() (string, bool) {
	if v.kind != rawText {
		return "", false
	}
	return v.text, true
}

func (v RawValue) GoString() string {
	if v.kind == rawText {
		return strconv.Quote(v.text)
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

// UnmarshalJSON accepts JSON numbers and strings.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = RawValue{kind: rawText, text: s}
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("invalid number %s: %w", data, err)
		}
		*v = RawValue{kind: rawNumber, num: f}
		return nil
	default:
		return fmt.Errorf("expected number or string, got %s", data)
	}
}

// MarshalJSON writes the value back in its original JSON form.
func (v RawValue) MarshalJSON() ([]byte, error) {
	if v.kind == rawText {
		return sonic.Marshal(v.text)
	}
	return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
}
