// Package extract turns the text of a structured abstract into a
// StructuredRecord by locating section anchors and applying word budgets.
package extract

import (
	"regexp"
	"strings"

	"github.com/fwojciec/trialsum"
	"github.com/fwojciec/trialsum/fields"
)

// Ensure Extractor implements trialsum.StructuredExtractor at compile time.
var _ trialsum.StructuredExtractor = (*Extractor)(nil)

// DefaultMaxResultFindings is how many statistical sentences are taken from
// a Results paragraph when the document has no explicit Findings anchors.
const DefaultMaxResultFindings = 2

// Extractor segments abstract text into sections.
type Extractor struct {
	matcher           trialsum.FieldMatcher
	maxResultFindings int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMatcher sets the field matcher applied to each section.
func WithMatcher(m trialsum.FieldMatcher) Option {
	return func(e *Extractor) {
		e.matcher = m
	}
}

// WithMaxResultFindings sets how many Results sentences become findings.
// Values below 1 are ignored.
func WithMaxResultFindings(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxResultFindings = n
		}
	}
}

// NewExtractor creates an Extractor using the built-in field library.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		matcher:           fields.NewLibrary(),
		maxResultFindings: DefaultMaxResultFindings,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// block is the text between one anchor and the next.
type block struct {
	anchor  anchor
	heading string
	lines   []string
}

func (b *block) text() string {
	return strings.TrimSpace(strings.Join(b.lines, "\n"))
}

// Extract segments raw into sections. Required sections whose anchors are
// absent are left empty; only text with no content anchors at all fails,
// with an ExtractionError of kind NoStructuredContent.
func (e *Extractor) Extract(raw string) (*trialsum.StructuredRecord, error) {
	blocks := segment(raw)

	var (
		found    bool
		direct   = map[trialsum.SectionKind]bool{}
		combined []*block
		results  []*block
		findings []trialsum.Section
		record   = &trialsum.StructuredRecord{}
	)
	for _, b := range blocks {
		switch b.anchor.role {
		case roleNeutral:
			continue
		case roleCombined:
			found = true
			combined = append(combined, b)
		case roleResults:
			found = true
			results = append(results, b)
		case roleSection:
			found = true
			text := b.text()
			if b.anchor.kind == trialsum.SectionFinding {
				if text != "" {
					findings = append(findings, e.section(trialsum.SectionFinding, b.heading, text))
				}
				continue
			}
			if direct[b.anchor.kind] {
				continue
			}
			direct[b.anchor.kind] = true
			*slot(record, b.anchor.kind) = e.section(b.anchor.kind, b.heading, text)
		}
	}
	if !found {
		return nil, &trialsum.ExtractionError{
			Kind:   trialsum.NoStructuredContent,
			Detail: "no section anchors found",
		}
	}

	for _, b := range combined {
		text := b.text()
		if text == "" {
			continue
		}
		sentences := splitSentences(text)
		if !direct[trialsum.SectionSetting] {
			direct[trialsum.SectionSetting] = true
			record.Setting = e.section(trialsum.SectionSetting, b.heading, settingSentence(sentences))
		}
		if !direct[trialsum.SectionPopulation] {
			direct[trialsum.SectionPopulation] = true
			record.Population = e.section(trialsum.SectionPopulation, b.heading, populationSentence(sentences))
		}
	}

	if len(findings) == 0 {
		for _, b := range results {
			for _, s := range e.resultSentences(b.text()) {
				if len(findings) == e.maxResultFindings {
					break
				}
				findings = append(findings, e.section(trialsum.SectionFinding, b.heading, s))
			}
		}
	}
	record.Findings = findings

	for _, k := range []trialsum.SectionKind{
		trialsum.SectionPopulation,
		trialsum.SectionIntervention,
		trialsum.SectionSetting,
		trialsum.SectionOutcome,
	} {
		if s := slot(record, k); s.Kind == "" {
			*s = e.section(k, "", "")
		}
	}
	return record, nil
}

// ExtractArticle extracts the article abstract and copies its metadata onto
// the record.
func (e *Extractor) ExtractArticle(a *trialsum.Article) (*trialsum.StructuredRecord, error) {
	record, err := e.Extract(a.Abstract)
	if err != nil {
		return nil, err
	}
	record.Title = a.Title
	record.Authors = a.Authors
	record.Published = a.Published
	record.DOI = a.DOI
	return record, nil
}

// section builds a Section from raw text, matching fields and applying the
// word budget of kind.
func (e *Extractor) section(kind trialsum.SectionKind, heading, raw string) trialsum.Section {
	s := trialsum.Section{
		Kind:    kind,
		Heading: heading,
		RawText: raw,
		Fields:  []trialsum.TypedField{},
	}
	if raw == "" {
		return s
	}
	if fields := e.matcher.Match(raw); fields != nil {
		s.Fields = fields
	}
	s.WordCount = trialsum.CountWords(raw)
	s.Text, s.Truncated = trialsum.Truncate(raw, kind.Budget(), s.Fields)
	return s
}

// resultSentences returns the sentences of a Results paragraph that carry
// statistical fields. When none do, all sentences are returned.
func (e *Extractor) resultSentences(text string) []string {
	sentences := splitSentences(text)
	var stats []string
	for _, s := range sentences {
		if len(e.matcher.Match(s)) > 0 {
			stats = append(stats, s)
		}
	}
	if len(stats) == 0 {
		return sentences
	}
	return stats
}

func slot(r *trialsum.StructuredRecord, kind trialsum.SectionKind) *trialsum.Section {
	switch kind {
	case trialsum.SectionPopulation:
		return &r.Population
	case trialsum.SectionIntervention:
		return &r.Intervention
	case trialsum.SectionSetting:
		return &r.Setting
	case trialsum.SectionOutcome:
		return &r.Outcome
	}
	panic("extract: no slot for section kind " + string(kind))
}

// segment splits text into blocks at anchor headings. Text before the first
// heading is discarded.
func segment(text string) []*block {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var (
		blocks []*block
		cur    *block
	)
	for _, line := range strings.Split(text, "\n") {
		if a, heading, rest, ok := matchHeading(line); ok {
			cur = &block{anchor: a, heading: heading}
			if rest = strings.TrimSpace(rest); rest != "" {
				cur.lines = append(cur.lines, rest)
			}
			blocks = append(blocks, cur)
			continue
		}
		if cur != nil {
			cur.lines = append(cur.lines, line)
		}
	}
	return blocks
}

// abbreviations end with a period that does not end a sentence.
var abbreviations = []string{"vs.", "et al.", "e.g.", "i.e.", "no.", "approx.", "fig."}

// splitSentences splits text at a period, question or exclamation mark
// followed by whitespace or the end of text. A period followed by a digit,
// as in "P = .04", never splits.
func splitSentences(text string) []string {
	text = strings.Join(strings.Fields(text), " ")

	var (
		out   []string
		start int
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '?' && c != '!' {
			continue
		}
		if i+1 < len(text) && text[i+1] != ' ' {
			continue
		}
		if c == '.' && endsWithAbbreviation(text[start:i+1]) {
			continue
		}
		if s := strings.TrimSpace(text[start : i+1]); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func endsWithAbbreviation(s string) bool {
	lower := strings.ToLower(s)
	for _, a := range abbreviations {
		if strings.HasSuffix(lower, " "+a) || lower == a {
			return true
		}
	}
	return false
}

var (
	settingRe     = regexp.MustCompile(`(?i)\b(conducted|performed|carried out|took place|enrolled|recruited|sites?|centers?|centres?|hospitals?|clinics?|communit(?:y|ies))\b`)
	participantRe = regexp.MustCompile(`(?i)\b(participants?|patients?|individuals?|subjects?|adults?|children|adolescents|infants|women|men|residents|veterans|volunteers)\b`)
)

// settingSentence picks the sentence of a combined design paragraph that
// describes where the study ran.
func settingSentence(sentences []string) string {
	for _, s := range sentences {
		if settingRe.MatchString(s) {
			return s
		}
	}
	if len(sentences) > 0 {
		return sentences[0]
	}
	return ""
}

// populationSentence picks the sentence of a combined design paragraph that
// describes who took part, preferring one that counts them.
func populationSentence(sentences []string) string {
	var first string
	for _, s := range sentences {
		if !participantRe.MatchString(s) {
			continue
		}
		if countRe.MatchString(s) {
			return s
		}
		if first == "" {
			first = s
		}
	}
	if first != "" {
		return first
	}
	if len(sentences) > 0 {
		return sentences[len(sentences)-1]
	}
	return ""
}

var countRe = regexp.MustCompile(`\d`)
