package trialsum

// SeriesPoint is one labelled value of a comparison series.
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// MeanDifference is an effect estimate with its confidence interval.
type MeanDifference struct {
	Value  float64 `json:"value"`
	CILow  float64 `json:"ciLow"`
	CIHigh float64 `json:"ciHigh"`
}

// ChartInput is the graphable schema built from one chartable finding.
// Series always holds at least two points; a finding that cannot supply
// them produces no ChartInput at all.
type ChartInput struct {
	Finding        int             `json:"finding"`
	Series         []SeriesPoint   `json:"series"`
	MeanDifference *MeanDifference `json:"meanDifference,omitempty"`
	PValue         *float64        `json:"pValue,omitempty"`
}

// ChartNormalizer builds chart input from findings.
type ChartNormalizer interface {
	// Normalize returns the chart input for the finding at index, or nil
	// when the finding is not chartable.
	Normalize(index int, finding Section) *ChartInput

	// NormalizeAll returns the chart inputs of every chartable finding of
	// the record, in finding order.
	NormalizeAll(record *StructuredRecord) []*ChartInput
}
