package health_test

import (
	"testing"

	"github.com/luisamog/ARKHO-PHS/internal/domain/health"
	"github.com/stretchr/testify/require"
)

func TestLatest(t *testing.T) {
	_, ok := health.Latest(nil)
	require.False(t, ok)

	// Insertion order must not matter.
	got, ok := health.Latest([]health.Assessment{
		scored("2024-W10", 4),
		scored("2024-W05", 3),
		scored("2023-W52", 2),
	})
	require.True(t, ok)
	require.Equal(t, "2024-W10", got.Week)
}

func TestSelectRelevant_NoYear(t *testing.T) {
	got, ok := health.SelectRelevant([]health.Assessment{
		scored("2024-W05", 3),
		scored("2024-W10", 4),
	}, "")
	require.True(t, ok)
	require.Equal(t, "2024-W10", got.Week)
}

func TestSelectRelevant_FallsBackWithinYear(t *testing.T) {
	got, ok := health.SelectRelevant([]health.Assessment{
		scored("2023-W10", 2),
		scored("2023-W40", 3),
		scored("2024-W02", 4),
	}, "2023")
	require.True(t, ok)
	require.Equal(t, "2023-W40", got.Week)
}

func TestSelectRelevant_LatestAlreadyInYear(t *testing.T) {
	got, ok := health.SelectRelevant([]health.Assessment{
		scored("2024-W05", 4),
		scored("2024-W01", 3),
	}, "2024")
	require.True(t, ok)
	require.Equal(t, "2024-W05", got.Week)
}

func TestSelectRelevant_NoAssessmentInYear(t *testing.T) {
	_, ok := health.SelectRelevant([]health.Assessment{
		scored("2023-W40", 3),
		scored("2024-W02", 4),
	}, "2022")
	require.False(t, ok)

	_, ok = health.SelectRelevant(nil, "2024")
	require.False(t, ok)
}

func TestSelectRelevant_MalformedWeeks(t *testing.T) {
	assessments := []health.Assessment{
		scored("garbage", 1),
		scored("", 1),
		scored("2024-W03", 4),
	}

	// "garbage" sorts after every digit-led week and is the overall latest,
	// but it never matches a year.
	got, ok := health.SelectRelevant(assessments, "")
	require.True(t, ok)
	require.Equal(t, "garbage", got.Week)

	got, ok = health.SelectRelevant(assessments, "2024")
	require.True(t, ok)
	require.Equal(t, "2024-W03", got.Week)

	_, ok = health.SelectRelevant([]health.Assessment{scored("bad", 1)}, "2024")
	require.False(t, ok)
}
