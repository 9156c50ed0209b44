package trialsum

import (
	"context"
	"time"
)

// StructuredRecord is the typed structured summary of one article.
// It holds exactly one section of each required kind and zero or more
// findings. A record is never modified after it is built.
type StructuredRecord struct {
	SourceURL string `json:"sourceUrl,omitempty"`
	Title     string `json:"title,omitempty"`
	Authors   string `json:"authors,omitempty"`
	Published string `json:"published,omitempty"`
	DOI       string `json:"doi,omitempty"`

	Population   Section   `json:"population"`
	Intervention Section   `json:"intervention"`
	Setting      Section   `json:"setting"`
	Outcome      Section   `json:"outcome"`
	Findings     []Section `json:"findings"`
}

// Section returns the record's section of a non-repeatable kind.
func (r *StructuredRecord) Section(kind SectionKind) (Section, bool) {
	switch kind {
	case SectionPopulation:
		return r.Population, true
	case SectionIntervention:
		return r.Intervention, true
	case SectionSetting:
		return r.Setting, true
	case SectionOutcome:
		return r.Outcome, true
	}
	return Section{}, false
}

// Missing returns the required kinds whose section is empty.
func (r *StructuredRecord) Missing() []SectionKind {
	var out []SectionKind
	for _, kind := range RequiredSectionKinds {
		if s, _ := r.Section(kind); s.Empty() {
			out = append(out, kind)
		}
	}
	return out
}

// ExtractionErrorKind classifies a terminal extraction failure.
type ExtractionErrorKind string

// Terminal extraction failure kinds.
const (
	NoStructuredContent ExtractionErrorKind = "no_structured_content"
)

// ExtractionError is returned when fetched content holds no parseable
// structure at all. Missing individual sections are not errors.
type ExtractionError struct {
	Kind   ExtractionErrorKind
	Detail string
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Detail == "" {
		return "extract: " + string(e.Kind)
	}
	return "extract: " + string(e.Kind) + ": " + e.Detail
}

// StructuredExtractor turns anchored abstract text into a StructuredRecord.
type StructuredExtractor interface {
	// Extract segments raw text into sections.
	// Returns *ExtractionError when no anchor is recognized.
	Extract(raw string) (*StructuredRecord, error)

	// ExtractArticle extracts the article's abstract and carries its
	// metadata onto the record.
	ExtractArticle(a *Article) (*StructuredRecord, error)
}

// Result is the outcome of one pipeline run, handed by value to the
// rendering collaborator.
type Result struct {
	Record *StructuredRecord `json:"record"`
	Charts []*ChartInput     `json:"charts"`
	Fetch  *FetchResult      `json:"fetch"`
}

// Run is a stored pipeline result.
type Run struct {
	ID          string     `json:"id"`
	SourceURL   string     `json:"sourceUrl"`
	ContentHash string     `json:"contentHash"`
	Strategy    StrategyID `json:"strategy"`
	Result      *Result    `json:"result"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.SourceURL == "" {
		return Errorf(EINVALID, "run source URL required")
	}
	if r.Result == nil || r.Result.Record == nil {
		return Errorf(EINVALID, "run result required")
	}
	return nil
}

// RunService persists pipeline results.
type RunService interface {
	// CreateRun stores a run. content is the accepted fetched document;
	// only its hash is kept.
	CreateRun(ctx context.Context, run *Run, content string) error

	// FindLatestRun returns the most recent run for a source URL.
	// Returns ENOTFOUND if no run exists.
	FindLatestRun(ctx context.Context, sourceURL string) (*Run, error)

	// FindRuns returns runs ordered newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	SourceURL *string `json:"sourceUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
