package nlu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC)
}

func newTestNormalizer() *DateNormalizer {
	return NewDateNormalizer(2025, fixedClock)
}

func TestNormalize_CanonicalPassthrough(t *testing.T) {
	n := newTestNormalizer()

	got, ok := n.Normalize("2025-12-25")
	require.True(t, ok)
	assert.Equal(t, "2025-12-25", got)

	got, ok = n.Normalize("2025-12")
	require.True(t, ok)
	assert.Equal(t, "2025-12", got)
}

func TestNormalize_MonthDayForms(t *testing.T) {
	n := newTestNormalizer()

	cases := map[string]string{
		"December 25th":    "2025-12-25",
		"december 25":      "2025-12-25",
		"Dec 25, 2026":     "2026-12-25",
		"January 3rd 2026": "2026-01-03",
	}
	for input, want := range cases {
		got, ok := n.Normalize(input)
		require.True(t, ok, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestNormalize_DayMonthForms(t *testing.T) {
	n := newTestNormalizer()

	got, ok := n.Normalize("25 December")
	require.True(t, ok)
	assert.Equal(t, "2025-12-25", got)

	got, ok = n.Normalize("3rd January 2026")
	require.True(t, ok)
	assert.Equal(t, "2026-01-03", got)
}

func TestNormalize_MonthOnlyYieldsPartial(t *testing.T) {
	n := newTestNormalizer()

	got, ok := n.Normalize("in December")
	require.True(t, ok)
	assert.Equal(t, "2025-12", got)

	got, ok = n.Normalize("sometime in march")
	require.True(t, ok)
	assert.Equal(t, "2025-03", got)
}

func TestNormalize_MonthWithExplicitYearKeepsYear(t *testing.T) {
	n := newTestNormalizer()

	// The year's leading digits must not be read as a day, and the year
	// itself must survive into the partial.
	got, ok := n.Normalize("january 2026")
	require.True(t, ok)
	assert.Equal(t, "2026-01", got)

	got, ok = n.Normalize("january 2025")
	require.True(t, ok)
	assert.Equal(t, "2025-01", got)
}

func TestNormalize_RelativeOffsets(t *testing.T) {
	n := newTestNormalizer()

	got, ok := n.Normalize("in 2 weeks")
	require.True(t, ok)
	assert.Equal(t, "2025-11-24", got)

	got, ok = n.Normalize("next week")
	require.True(t, ok)
	assert.Equal(t, "2025-11-17", got)

	got, ok = n.Normalize("in 3 days")
	require.True(t, ok)
	assert.Equal(t, "2025-11-13", got)

	got, ok = n.Normalize("tomorrow")
	require.True(t, ok)
	assert.Equal(t, "2025-11-11", got)
}

func TestNormalize_GarbageYieldsNothing(t *testing.T) {
	n := newTestNormalizer()

	for _, input := range []string{"asdfgh", "somewhere sunny", "the beach"} {
		got, ok := n.Normalize(input)
		assert.False(t, ok, "input %q", input)
		assert.Empty(t, got, "input %q", input)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := newTestNormalizer()

	inputs := []string{"December 25th", "25 December", "in December", "in 2 weeks", "2025-12-25"}
	for _, input := range inputs {
		first, ok := n.Normalize(input)
		require.True(t, ok, "input %q", input)

		second, ok := n.Normalize(first)
		require.True(t, ok, "re-normalizing %q", first)
		assert.Equal(t, first, second, "input %q", input)
	}
}
