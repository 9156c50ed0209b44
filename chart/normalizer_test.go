package chart_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fwojciec/trialsum"
	"github.com/fwojciec/trialsum/chart"
	"github.com/fwojciec/trialsum/fields"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// finding builds a Finding section from raw text using the field library.
func finding(raw string) trialsum.Section {
	return trialsum.Section{
		Kind:    trialsum.SectionFinding,
		RawText: raw,
		Fields:  fields.NewLibrary().Match(raw),
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	t.Parallel()

	t.Run("builds series, mean difference and p-value", func(t *testing.T) {
		t.Parallel()

		f := finding("Enhanced support: 1.0\nFoundational support: 1.0\nMean difference: -0.1 (95% CI, -1.1 to 1.0)\nP=.92")

		got := chart.NewNormalizer().Normalize(0, f)

		require.NotNil(t, got)
		assert.Equal(t, []trialsum.SeriesPoint{
			{Label: "Enhanced support", Value: 1.0},
			{Label: "Foundational support", Value: 1.0},
		}, got.Series)
		require.NotNil(t, got.MeanDifference)
		assert.InDelta(t, -0.1, got.MeanDifference.Value, 1e-9)
		assert.InDelta(t, -1.1, got.MeanDifference.CILow, 1e-9)
		assert.InDelta(t, 1.0, got.MeanDifference.CIHigh, 1e-9)
		require.NotNil(t, got.PValue)
		assert.InDelta(t, 0.92, *got.PValue, 1e-9)
	})

	t.Run("charts arms labelled with numbers", func(t *testing.T) {
		t.Parallel()

		got := chart.NewNormalizer().Normalize(0, finding("Arm 1: 2.3\nArm 2: 3.1"))

		require.NotNil(t, got)
		assert.Equal(t, []trialsum.SeriesPoint{
			{Label: "Arm 1", Value: 2.3},
			{Label: "Arm 2", Value: 3.1},
		}, got.Series)
	})

	t.Run("keeps a labelled p value out of the series", func(t *testing.T) {
		t.Parallel()

		got := chart.NewNormalizer().Normalize(0, finding("Group A (n=65): 1.0\nGroup B (n=65): 1.4\nP value: 0.92"))

		require.NotNil(t, got)
		assert.Len(t, got.Series, 2)
		require.NotNil(t, got.PValue)
		assert.InDelta(t, 0.92, *got.PValue, 1e-9)
	})

	t.Run("returns nil with fewer than two labelled values", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{
			"",
			"Pain improved in 38% of participants (P = .02)",
			"Enhanced support: 1.0\nMean difference: -0.1 (95% CI, -1.1 to 1.0)",
		} {
			assert.Nil(t, chart.NewNormalizer().Normalize(0, finding(raw)), raw)
		}
	})

	t.Run("returns nil when both values share a label", func(t *testing.T) {
		t.Parallel()

		got := chart.NewNormalizer().Normalize(0, finding("Score: 1.0, Score: 2.0"))

		assert.Nil(t, got)
	})

	t.Run("series length matches labelled value count", func(t *testing.T) {
		t.Parallel()

		for n := 2; n <= 5; n++ {
			var lines []string
			for i := range n {
				lines = append(lines, fmt.Sprintf("Group %c: %d.5", 'A'+i, i))
			}
			f := finding(strings.Join(lines, "\n"))
			require.Len(t, f.FieldsOf(trialsum.FieldNamedValue), n)

			got := chart.NewNormalizer().Normalize(0, f)

			require.NotNil(t, got)
			assert.Len(t, got.Series, n)
		}
	})

	t.Run("mean difference without interval is omitted", func(t *testing.T) {
		t.Parallel()

		f := finding("Enhanced support: 1.0\nFoundational support: 1.2\nMean difference: -0.2")

		got := chart.NewNormalizer().Normalize(0, f)

		require.NotNil(t, got)
		assert.Len(t, got.Series, 2)
		assert.Nil(t, got.MeanDifference)
		assert.Nil(t, got.PValue)
	})

	t.Run("records the finding index", func(t *testing.T) {
		t.Parallel()

		got := chart.NewNormalizer().Normalize(3, finding("A arm: 1\nB arm: 2"))

		require.NotNil(t, got)
		assert.Equal(t, 3, got.Finding)
	})
}

func TestNormalizer_NormalizeAll(t *testing.T) {
	t.Parallel()

	record := &trialsum.StructuredRecord{
		Findings: []trialsum.Section{
			finding("No difference in pain (P = .40)"),
			finding("Yoga: 4.1\nStretching: 3.2\nP = .03"),
			finding("Drug: 12%, Placebo: 9%"),
		},
	}

	got := chart.NewNormalizer().NormalizeAll(record)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Finding)
	assert.Equal(t, 2, got[1].Finding)
	assert.InDelta(t, 0.03, *got[0].PValue, 1e-9)
	assert.Nil(t, got[1].PValue)
}
