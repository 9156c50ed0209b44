// Package chart builds graphable comparison series from extracted findings.
package chart

import (
	"github.com/fwojciec/trialsum"
)

// Ensure Normalizer implements trialsum.ChartNormalizer at compile time.
var _ trialsum.ChartNormalizer = (*Normalizer)(nil)

// Normalizer turns the typed fields of a finding into chart input.
// The zero value is ready to use.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize returns chart input for the finding at index, or nil when the
// finding has fewer than two distinct labelled values.
//
// The series holds every labelled value in document order. A mean
// difference is attached only when the finding also has a confidence
// interval; a p-value is attached when present. Neither is required.
func (n *Normalizer) Normalize(index int, finding trialsum.Section) *trialsum.ChartInput {
	named := finding.FieldsOf(trialsum.FieldNamedValue)
	labels := make(map[string]struct{}, len(named))
	for _, f := range named {
		labels[f.Label] = struct{}{}
	}
	if len(labels) < 2 {
		return nil
	}

	in := &trialsum.ChartInput{
		Finding: index,
		Series:  make([]trialsum.SeriesPoint, 0, len(named)),
	}
	for _, f := range named {
		in.Series = append(in.Series, trialsum.SeriesPoint{Label: f.Label, Value: f.Value})
	}

	if md, ok := meanDifference(finding.Fields); ok {
		in.MeanDifference = md
	}
	if ps := finding.FieldsOf(trialsum.FieldPValue); len(ps) > 0 {
		p := ps[0].Value
		in.PValue = &p
	}
	return in
}

// NormalizeAll returns the charts of every chartable finding of the record.
// Each finding is charted on its own.
func (n *Normalizer) NormalizeAll(record *trialsum.StructuredRecord) []*trialsum.ChartInput {
	var out []*trialsum.ChartInput
	for i, f := range record.Findings {
		if in := n.Normalize(i, f); in != nil {
			out = append(out, in)
		}
	}
	return out
}

// meanDifference pairs the first mean difference with the first confidence
// interval following it, or the first interval anywhere when none follows.
func meanDifference(fields []trialsum.TypedField) (*trialsum.MeanDifference, bool) {
	mdIdx := -1
	for i, f := range fields {
		if f.Kind == trialsum.FieldMeanDifference {
			mdIdx = i
			break
		}
	}
	if mdIdx < 0 {
		return nil, false
	}

	var ci *trialsum.Range
	for _, f := range fields[mdIdx+1:] {
		if f.Kind == trialsum.FieldConfidenceInterval && f.Range != nil {
			ci = f.Range
			break
		}
	}
	if ci == nil {
		for _, f := range fields[:mdIdx] {
			if f.Kind == trialsum.FieldConfidenceInterval && f.Range != nil {
				ci = f.Range
				break
			}
		}
	}
	if ci == nil {
		return nil, false
	}
	return &trialsum.MeanDifference{
		Value:  fields[mdIdx].Value,
		CILow:  ci.Low,
		CIHigh: ci.High,
	}, true
}
