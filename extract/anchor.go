package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fwojciec/trialsum"
)

// role says what an anchor contributes to the record.
type role int

const (
	// roleSection starts a section of a single kind.
	roleSection role = iota
	// roleResults starts a results paragraph split into finding sentences.
	roleResults
	// roleCombined starts a paragraph that stands in for Setting and
	// Population when the document has no dedicated anchors for them.
	roleCombined
	// roleNeutral is a recognized heading that contributes nothing; it only
	// ends the preceding section.
	roleNeutral
)

// anchor is a recognized section heading.
type anchor struct {
	label string
	kind  trialsum.SectionKind
	role  role
}

// anchors maps heading labels, as used by journals and visual abstracts,
// to the section they open.
var anchors = []anchor{
	{"Population", trialsum.SectionPopulation, roleSection},
	{"Study Population", trialsum.SectionPopulation, roleSection},
	{"Participants", trialsum.SectionPopulation, roleSection},
	{"Patients", trialsum.SectionPopulation, roleSection},

	{"Intervention", trialsum.SectionIntervention, roleSection},
	{"Interventions", trialsum.SectionIntervention, roleSection},
	{"Exposure", trialsum.SectionIntervention, roleSection},
	{"Exposures", trialsum.SectionIntervention, roleSection},

	{"Setting", trialsum.SectionSetting, roleSection},
	{"Settings", trialsum.SectionSetting, roleSection},
	{"Study Setting", trialsum.SectionSetting, roleSection},

	{"Primary Outcome", trialsum.SectionOutcome, roleSection},
	{"Primary Outcomes", trialsum.SectionOutcome, roleSection},
	{"Primary Endpoint", trialsum.SectionOutcome, roleSection},
	{"Primary Endpoints", trialsum.SectionOutcome, roleSection},
	{"Main Outcome Measures", trialsum.SectionOutcome, roleSection},
	{"Main Outcomes and Measures", trialsum.SectionOutcome, roleSection},
	{"Main Outcome and Measures", trialsum.SectionOutcome, roleSection},
	{"Main Outcome and Measure", trialsum.SectionOutcome, roleSection},
	{"Outcome", trialsum.SectionOutcome, roleSection},
	{"Outcomes", trialsum.SectionOutcome, roleSection},

	{"Findings", trialsum.SectionFinding, roleSection},
	{"Finding", trialsum.SectionFinding, roleSection},
	{"Key Findings", trialsum.SectionFinding, roleSection},
	{"Key Finding", trialsum.SectionFinding, roleSection},
	{"Results", trialsum.SectionFinding, roleResults},

	{"Design, Setting, and Participants", "", roleCombined},
	{"Design, Setting and Participants", "", roleCombined},
	{"Setting and Participants", "", roleCombined},

	{"Abstract", "", roleNeutral},
	{"Key Points", "", roleNeutral},
	{"Question", "", roleNeutral},
	{"Meaning", "", roleNeutral},
	{"Importance", "", roleNeutral},
	{"Objective", "", roleNeutral},
	{"Objectives", "", roleNeutral},
	{"Background", "", roleNeutral},
	{"Design", "", roleNeutral},
	{"Methods", "", roleNeutral},
	{"Conclusions", "", roleNeutral},
	{"Conclusions and Relevance", "", roleNeutral},
	{"Conclusion", "", roleNeutral},
	{"Trial Registration", "", roleNeutral},
}

var (
	// anchorByLabel indexes anchors by lower-cased, space-normalized label.
	anchorByLabel = map[string]anchor{}

	// headingRe matches a line that starts with an anchor label, optionally
	// dressed as a markdown heading or bold text, and either ends there or
	// continues after a separator with the section body. A dash separates
	// only when followed by whitespace, so "Outcome-level" stays body text.
	headingRe *regexp.Regexp
)

func init() {
	labels := make([]string, 0, len(anchors))
	for _, a := range anchors {
		anchorByLabel[normalizeLabel(a.label)] = a
		labels = append(labels, a.label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return len(labels[i]) > len(labels[j])
	})

	alts := make([]string, 0, len(labels))
	for _, l := range labels {
		alts = append(alts, strings.ReplaceAll(regexp.QuoteMeta(l), " ", `\s+`))
	}
	headingRe = regexp.MustCompile(`(?i)^\s*(?:#{1,6}\s*)?(?:\*\*|__)?\s*(` +
		strings.Join(alts, "|") +
		`)\s*(?:\*\*|__)?\s*(?:(?:[:.]+[-–—]*|[-–—]+(?:\s|$))\s*(?:\*\*|__)?\s*(.*?))?\s*$`)
}

// normalizeLabel lower-cases a label and collapses inner whitespace.
func normalizeLabel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// matchHeading reports whether line opens a section and returns the
// anchor, the heading text as written and the rest of the line.
func matchHeading(line string) (anchor, string, string, bool) {
	m := headingRe.FindStringSubmatch(line)
	if m == nil {
		return anchor{}, "", "", false
	}
	a, ok := anchorByLabel[normalizeLabel(m[1])]
	if !ok {
		return anchor{}, "", "", false
	}
	return a, strings.TrimSpace(m[1]), m[2], true
}

// HasAnchor reports whether text contains at least one line opening a
// content section. Neutral headings such as "Objective" do not count.
func HasAnchor(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if a, _, _, ok := matchHeading(line); ok && a.role != roleNeutral {
			return true
		}
	}
	return false
}
