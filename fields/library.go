// Package fields recognizes typed statistical expressions in abstract text:
// confidence intervals, p-values, labelled values, percentages and counts.
package fields

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/fwojciec/trialsum"
)

// Ensure Library implements trialsum.FieldMatcher at compile time.
var _ trialsum.FieldMatcher = (*Library)(nil)

// number matches an optionally signed decimal with or without a leading
// zero. Both ASCII hyphen and U+2212 minus are accepted as the sign.
const number = `[-−]?\d*\.?\d+`

// Pattern priorities. Lower values are tried first, so a number embedded in
// a confidence interval or p-value is never claimed by a plainer pattern.
const (
	priorityInterval = iota
	priorityPValue
	priorityNamed
	priorityPercentage
	priorityCount
)

// pattern is one entry of the library.
type pattern struct {
	name     string
	priority int
	regex    *regexp.Regexp
	build    func(text string, loc []int) (trialsum.TypedField, bool)
}

// Library is a priority-ordered registry of field patterns.
// A Library is immutable and safe for concurrent use.
type Library struct {
	patterns []*pattern
}

// NewLibrary returns a Library with the built-in patterns.
func NewLibrary() *Library {
	return &Library{patterns: []*pattern{
		{
			name:     "confidence_interval",
			priority: priorityInterval,
			regex:    regexp.MustCompile(`(?i)(\d{1,2}(?:\.\d+)?)\s?%\s*CI\b\s*[,:;]?\s*(` + number + `)\s*(?:to|–|—)\s*(` + number + `)`),
			build:    buildInterval,
		},
		{
			name:     "p_value",
			priority: priorityPValue,
			regex:    regexp.MustCompile(`(?i)\bP(?:\s*value)?\s*(<=|>=|=|<|>|≤|≥)\s*(\d*\.\d+|\d+)`),
			build:    buildPValue,
		},
		{
			name:     "named_value",
			priority: priorityNamed,
			regex:    regexp.MustCompile(`(?m)(?:^|[^\p{L}\p{N}])(\p{L}[\p{L}\p{N} '’/()&=,;-]{0,60}?)[ \t]*:[ \t]*[~≈]?[ \t]*([-−]?\d+(?:\.\d+)?)(?:[ \t]?%)?`),
			build:    buildNamed,
		},
		{
			name:     "percentage",
			priority: priorityPercentage,
			regex:    regexp.MustCompile(`(?:^|[^\p{L}\p{N}.])([-−]?\d+(?:\.\d+)?)[ \t]?%`),
			build:    buildPercentage,
		},
		{
			name:     "count",
			priority: priorityCount,
			regex:    regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}.,])((?:(approximately|about|nearly|almost|over|under|more than|fewer than|less than|at least|up to|a total of|total of)[ \t]+)?(\d{1,3}(?:,\d{3})+|\d+)[ \t]+(\p{L}[\p{L}-]*))`),
			build:    buildCount,
		},
	}}
}

// candidate is a match waiting for overlap resolution.
type candidate struct {
	field    trialsum.TypedField
	priority int
}

// Match returns the fields found in text ordered by position.
//
// Overlapping matches are resolved by pattern priority first, then the
// longest match, then the leftmost one. Numbers no pattern claims are left
// as plain text.
func (l *Library) Match(text string) []trialsum.TypedField {
	var candidates []candidate
	for _, p := range l.patterns {
		for _, loc := range p.regex.FindAllStringSubmatchIndex(text, -1) {
			f, ok := p.build(text, loc)
			if !ok {
				continue
			}
			candidates = append(candidates, candidate{field: f, priority: p.priority})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		la, lb := a.field.End-a.field.Start, b.field.End-b.field.Start
		if la != lb {
			return la > lb
		}
		return a.field.Start < b.field.Start
	})

	accepted := make([]trialsum.TypedField, 0, len(candidates))
	for _, c := range candidates {
		if overlapsAny(c.field, accepted) {
			continue
		}
		accepted = append(accepted, c.field)
	}

	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].Start < accepted[j].Start
	})
	return accepted
}

func overlapsAny(f trialsum.TypedField, fields []trialsum.TypedField) bool {
	for _, other := range fields {
		if f.Overlaps(other) {
			return true
		}
	}
	return false
}

// ParseNumber parses a decimal as written in abstracts: unicode minus,
// thousands separators and a missing leading zero are accepted.
func ParseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, "−", "-")
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// group returns the text of submatch n, or "" if it did not participate.
func group(text string, loc []int, n int) string {
	if 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return ""
	}
	return text[loc[2*n]:loc[2*n+1]]
}

// field builds a TypedField spanning text[start:end].
func field(kind trialsum.FieldKind, text string, start, end int) trialsum.TypedField {
	return trialsum.TypedField{
		Kind:  kind,
		Raw:   text[start:end],
		Start: start,
		End:   end,
	}
}

func buildInterval(text string, loc []int) (trialsum.TypedField, bool) {
	low, err := ParseNumber(group(text, loc, 2))
	if err != nil {
		return trialsum.TypedField{}, false
	}
	high, err := ParseNumber(group(text, loc, 3))
	if err != nil {
		return trialsum.TypedField{}, false
	}
	level, err := ParseNumber(group(text, loc, 1))
	if err != nil {
		return trialsum.TypedField{}, false
	}

	f := field(trialsum.FieldConfidenceInterval, text, loc[0], loc[1])
	f.Label = group(text, loc, 1) + "% CI"
	f.Value = level
	r := trialsum.NewRange(low, high)
	f.Range = &r
	return f, true
}

func buildPValue(text string, loc []int) (trialsum.TypedField, bool) {
	v, err := ParseNumber(group(text, loc, 2))
	if err != nil || v < 0 || v > 1 {
		return trialsum.TypedField{}, false
	}
	f := field(trialsum.FieldPValue, text, loc[0], loc[1])
	f.Label = "P"
	f.Comparator = group(text, loc, 1)
	f.Value = v
	return f, true
}

// pLabelRe matches a label that names a p-value, as in "P value: 0.92".
var pLabelRe = regexp.MustCompile(`(?i)^p(?:[\s-]*value)?$`)

func buildNamed(text string, loc []int) (trialsum.TypedField, bool) {
	label := strings.TrimSpace(group(text, loc, 1))
	if label == "" {
		return trialsum.TypedField{}, false
	}
	v, err := ParseNumber(group(text, loc, 2))
	if err != nil {
		return trialsum.TypedField{}, false
	}

	if pLabelRe.MatchString(label) {
		if v < 0 || v > 1 {
			return trialsum.TypedField{}, false
		}
		f := field(trialsum.FieldPValue, text, loc[2], loc[1])
		f.Label = "P"
		f.Comparator = "="
		f.Value = v
		return f, true
	}

	kind := trialsum.FieldNamedValue
	if strings.Contains(strings.ToLower(label), "mean difference") {
		kind = trialsum.FieldMeanDifference
	}
	f := field(kind, text, loc[2], loc[1])
	f.Label = label
	f.Value = v
	return f, true
}

func buildPercentage(text string, loc []int) (trialsum.TypedField, bool) {
	v, err := ParseNumber(group(text, loc, 1))
	if err != nil {
		return trialsum.TypedField{}, false
	}
	f := field(trialsum.FieldPercentage, text, loc[2], loc[1])
	f.Value = v
	return f, true
}

// unitStopwords are words that follow a number without naming what was
// counted ("18 to 65", "2 of 3").
var unitStopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"by": true, "for": true, "from": true, "had": true, "in": true, "is": true,
	"of": true, "on": true, "or": true, "per": true, "than": true, "the": true,
	"to": true, "versus": true, "vs": true, "was": true, "were": true,
	"with": true, "x": true,
}

func buildCount(text string, loc []int) (trialsum.TypedField, bool) {
	unit := group(text, loc, 4)
	if unitStopwords[strings.ToLower(unit)] {
		return trialsum.TypedField{}, false
	}
	v, err := ParseNumber(group(text, loc, 3))
	if err != nil {
		return trialsum.TypedField{}, false
	}
	f := field(trialsum.FieldCount, text, loc[2], loc[3])
	f.Label = unit
	f.Qualifier = strings.ToLower(group(text, loc, 2))
	f.Value = v
	return f, true
}
