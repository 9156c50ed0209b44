package trialsum

// FieldKind classifies a typed field recognized in free text.
type FieldKind string

// Recognized field kinds.
const (
	FieldCount              FieldKind = "count"
	FieldPercentage         FieldKind = "percentage"
	FieldPValue             FieldKind = "p_value"
	FieldConfidenceInterval FieldKind = "confidence_interval"
	FieldNamedValue         FieldKind = "named_value"

	// FieldMeanDifference is a labelled decimal whose label names a mean
	// difference. It is kept apart from FieldNamedValue so that effect
	// estimates never enter a comparison series.
	FieldMeanDifference FieldKind = "mean_difference"
)

// Range is a closed numeric interval with Low <= High.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// NewRange returns a Range with its bounds ordered.
func NewRange(a, b float64) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Low: a, High: b}
}

// TypedField is a classified numeric or statistical expression.
// Start and End are byte offsets of Raw within the text it was matched in.
type TypedField struct {
	Kind       FieldKind `json:"kind"`
	Label      string    `json:"label,omitempty"`
	Qualifier  string    `json:"qualifier,omitempty"`
	Comparator string    `json:"comparator,omitempty"`
	Value      float64   `json:"value"`
	Range      *Range    `json:"range,omitempty"`
	Raw        string    `json:"raw"`
	Start      int       `json:"start"`
	End        int       `json:"end"`
}

// Overlaps reports whether two fields share any byte of text.
func (f TypedField) Overlaps(other TypedField) bool {
	return f.Start < other.End && other.Start < f.End
}

// FieldMatcher finds typed fields in text.
type FieldMatcher interface {
	// Match returns the fields found in text ordered by position.
	// Text without recognizable fields yields no fields and no error.
	Match(text string) []TypedField
}
