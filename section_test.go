package trialsum_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/trialsum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spanField returns a field covering the first occurrence of raw in text.
func spanField(t *testing.T, text, raw string) trialsum.TypedField {
	t.Helper()
	start := strings.Index(text, raw)
	require.GreaterOrEqual(t, start, 0, "%q not in text", raw)
	return trialsum.TypedField{Raw: raw, Start: start, End: start + len(raw)}
}

func TestSectionKind_Budget(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 15, trialsum.SectionPopulation.Budget())
	assert.Equal(t, 15, trialsum.SectionIntervention.Budget())
	assert.Equal(t, 10, trialsum.SectionSetting.Budget())
	assert.Equal(t, 20, trialsum.SectionOutcome.Budget())
	assert.Equal(t, 15, trialsum.SectionFinding.Budget())
	assert.Equal(t, 0, trialsum.SectionKind("unknown").Budget())
}

func TestSectionKind_Repeatable(t *testing.T) {
	t.Parallel()

	assert.True(t, trialsum.SectionFinding.Repeatable())
	for _, k := range trialsum.RequiredSectionKinds {
		assert.False(t, k.Repeatable(), k)
	}
}

func TestCountWords(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, trialsum.CountWords("  \n\t"))
	assert.Equal(t, 3, trialsum.CountWords("one  two\nthree"))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	t.Run("leaves text within budget unchanged", func(t *testing.T) {
		t.Parallel()

		got, truncated := trialsum.Truncate("Adults with knee pain", 15, nil)

		assert.Equal(t, "Adults with knee pain", got)
		assert.False(t, truncated)
	})

	t.Run("collapses whitespace without truncating", func(t *testing.T) {
		t.Parallel()

		got, truncated := trialsum.Truncate("Adults\n  with knee pain \n", 4, nil)

		assert.Equal(t, "Adults with knee pain", got)
		assert.False(t, truncated)
	})

	t.Run("cuts at word budget and appends ellipsis", func(t *testing.T) {
		t.Parallel()

		got, truncated := trialsum.Truncate("one two three four five six", 4, nil)

		assert.Equal(t, "one two three four...", got)
		assert.True(t, truncated)
	})

	t.Run("retracts before a field that straddles the cut", func(t *testing.T) {
		t.Parallel()

		text := "Pain improved by 1.2 points (95% CI, 0.4 to 2.0) at week 12"
		ci := spanField(t, text, "95% CI, 0.4 to 2.0")

		got, truncated := trialsum.Truncate(text, 7, []trialsum.TypedField{ci})

		assert.Equal(t, "Pain improved by 1.2 points...", got)
		assert.True(t, truncated)
	})

	t.Run("extends past a field when retracting leaves nothing", func(t *testing.T) {
		t.Parallel()

		text := "95% CI, 0.4 to 2.0 favoring the intervention group"
		ci := spanField(t, text, "95% CI, 0.4 to 2.0")

		got, truncated := trialsum.Truncate(text, 2, []trialsum.TypedField{ci})

		assert.Equal(t, "95% CI, 0.4 to 2.0...", got)
		assert.True(t, truncated)
	})

	t.Run("zero budget keeps everything", func(t *testing.T) {
		t.Parallel()

		got, truncated := trialsum.Truncate("a b c", 0, nil)

		assert.Equal(t, "a b c", got)
		assert.False(t, truncated)
	})
}

func TestWordCut_NeverSplitsField(t *testing.T) {
	t.Parallel()

	text := "Mean difference: -0.1 (95% CI, -1.1 to 1.0) with P = .92 among 130 men"
	fields := []trialsum.TypedField{
		spanField(t, text, "Mean difference: -0.1"),
		spanField(t, text, "95% CI, -1.1 to 1.0"),
		spanField(t, text, "P = .92"),
		spanField(t, text, "130 men"),
	}

	for budget := 1; budget <= trialsum.CountWords(text)+1; budget++ {
		cut := trialsum.WordCut(text, budget, fields)
		for _, f := range fields {
			inside := f.Start < cut && cut < f.End
			assert.False(t, inside, "budget %d cuts inside %q at %d", budget, f.Raw, cut)
		}
	}
}

func TestSection_FieldsOf(t *testing.T) {
	t.Parallel()

	s := trialsum.Section{Fields: []trialsum.TypedField{
		{Kind: trialsum.FieldNamedValue, Label: "A"},
		{Kind: trialsum.FieldPValue},
		{Kind: trialsum.FieldNamedValue, Label: "B"},
	}}

	got := s.FieldsOf(trialsum.FieldNamedValue)

	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Label)
	assert.Equal(t, "B", got[1].Label)
}

func TestSection_Empty(t *testing.T) {
	t.Parallel()

	assert.True(t, trialsum.Section{RawText: " \n"}.Empty())
	assert.False(t, trialsum.Section{RawText: "x"}.Empty())
}
