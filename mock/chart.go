package mock

import "github.com/fwojciec/trialsum"

var _ trialsum.ChartNormalizer = (*ChartNormalizer)(nil)

// ChartNormalizer is a mock implementation of trialsum.ChartNormalizer.
type ChartNormalizer struct {
	NormalizeFn    func(index int, finding trialsum.Section) *trialsum.ChartInput
	NormalizeAllFn func(record *trialsum.StructuredRecord) []*trialsum.ChartInput
}

func (n *ChartNormalizer) Normalize(index int, finding trialsum.Section) *trialsum.ChartInput {
	return n.NormalizeFn(index, finding)
}

func (n *ChartNormalizer) NormalizeAll(record *trialsum.StructuredRecord) []*trialsum.ChartInput {
	return n.NormalizeAllFn(record)
}
