package similarity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRatio_IdenticalStrings(t *testing.T) {
	require.Equal(t, 1.0, Ratio("python", "python"))
	require.Equal(t, 1.0, Ratio("", ""))
}

func TestRatio_NoOverlap(t *testing.T) {
	require.Equal(t, 0.0, Ratio("abc", "xyz"))
	require.Equal(t, 0.0, Ratio("abc", ""))
	require.Equal(t, 0.0, Ratio("", "abc"))
}

func TestRatio_KnownValue(t *testing.T) {
	// "machine learning" vs "machine lerning": blocks "machine le" (10) and
	// "rning" (5), so 2*15/(16+15).
	got := Ratio("machine learning", "machine lerning")
	require.InDelta(t, 30.0/31.0, got, 1e-9)
}

func TestRatio_Symmetric(t *testing.T) {
	a, b := "postgresql", "postgres"
	require.InDelta(t, Ratio(a, b), Ratio(b, a), 1e-12)
	// 8 common chars over 18 total
	require.InDelta(t, 16.0/18.0, Ratio(a, b), 1e-9)
}

func TestRatio_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"golang", "go"},
		{"kubernetes", "k8s"},
		{"aws certified solutions architect", "aws solutions architect"},
	}
	for _, p := range pairs {
		r := Ratio(p[0], p[1])
		require.GreaterOrEqual(t, r, 0.0)
		require.LessOrEqual(t, r, 1.0)
	}
}

func TestRatio_Unicode(t *testing.T) {
	require.Equal(t, 1.0, Ratio("résumé", "résumé"))
	require.Greater(t, Ratio("résumé", "resume"), 0.0)
}
