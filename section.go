package trialsum

import (
	"strings"
	"unicode"
)

// SectionKind identifies a box of the structured summary.
type SectionKind string

// Structured summary section kinds.
const (
	SectionPopulation   SectionKind = "population"
	SectionIntervention SectionKind = "intervention"
	SectionSetting      SectionKind = "setting"
	SectionOutcome      SectionKind = "outcome"
	SectionFinding      SectionKind = "finding"
)

// RequiredSectionKinds lists the non-repeatable kinds, in box order.
// Every StructuredRecord carries exactly one section of each.
var RequiredSectionKinds = []SectionKind{
	SectionPopulation,
	SectionIntervention,
	SectionSetting,
	SectionOutcome,
}

// wordBudgets is the maximum number of words rendered per box.
var wordBudgets = map[SectionKind]int{
	SectionPopulation:   15,
	SectionIntervention: 15,
	SectionSetting:      10,
	SectionOutcome:      20,
	SectionFinding:      15,
}

// Budget returns the word budget of the section kind.
// Unknown kinds have no budget (0).
func (k SectionKind) Budget() int {
	return wordBudgets[k]
}

// Repeatable reports whether a record may hold more than one section of k.
func (k SectionKind) Repeatable() bool {
	return k == SectionFinding
}

// Ellipsis marks box text that was shortened to its word budget.
const Ellipsis = "..."

// Section is one recognized subsection of an abstract.
// RawText is never modified; Text is its word-budget rendering.
type Section struct {
	Kind      SectionKind  `json:"kind"`
	Heading   string       `json:"heading,omitempty"`
	RawText   string       `json:"rawText"`
	WordCount int          `json:"wordCount"`
	Text      string       `json:"text"`
	Truncated bool         `json:"truncated"`
	Fields    []TypedField `json:"fields"`
}

// Empty reports whether the section has no text.
// Empty sections stand in for anchors missing from the document.
func (s Section) Empty() bool {
	return strings.TrimSpace(s.RawText) == ""
}

// FieldsOf returns the section's fields of the given kind in document order.
func (s Section) FieldsOf(kind FieldKind) []TypedField {
	var out []TypedField
	for _, f := range s.Fields {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// wordSpan is the byte range of one whitespace-delimited word.
type wordSpan struct {
	start, end int
}

// splitWords returns the byte ranges of the words in text.
func splitWords(text string) []wordSpan {
	var words []wordSpan
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				words = append(words, wordSpan{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, wordSpan{start, len(text)})
	}
	return words
}

// CountWords returns the number of whitespace-delimited words in text.
func CountWords(text string) int {
	return len(splitWords(text))
}

// WordCut returns the byte offset at which text is cut to keep at most
// budget words. The cut always falls on a word boundary and never inside a
// field span: it retracts to the last word ending before the field, or, when
// that would leave nothing, extends past the field. A budget <= 0 or a text
// within budget returns len(text).
func WordCut(text string, budget int, fields []TypedField) int {
	words := splitWords(text)
	if budget <= 0 || len(words) <= budget {
		return len(text)
	}

	cut := words[budget-1].end
	for range len(fields) + 1 {
		moved := false
		for _, f := range fields {
			if f.Start >= cut || cut >= f.End {
				continue
			}
			if back := lastWordEndBefore(words, f.Start); back > 0 {
				cut = back
			} else {
				cut = wordEndAfter(words, f.End)
			}
			moved = true
		}
		if !moved {
			break
		}
	}
	return cut
}

// lastWordEndBefore returns the end of the last word ending at or before pos,
// or 0 if there is none.
func lastWordEndBefore(words []wordSpan, pos int) int {
	end := 0
	for _, w := range words {
		if w.end > pos {
			break
		}
		end = w.end
	}
	return end
}

// wordEndAfter returns the end of the word containing or following pos.
func wordEndAfter(words []wordSpan, pos int) int {
	for _, w := range words {
		if w.end >= pos {
			return w.end
		}
	}
	return words[len(words)-1].end
}

// Truncate renders text within budget words, collapsing whitespace and
// appending Ellipsis when words were dropped. Field spans are never split.
func Truncate(text string, budget int, fields []TypedField) (string, bool) {
	cut := WordCut(text, budget, fields)
	kept := strings.Join(strings.Fields(text[:cut]), " ")
	if cut >= len(strings.TrimRightFunc(text, unicode.IsSpace)) {
		return kept, false
	}
	return kept + Ellipsis, true
}
