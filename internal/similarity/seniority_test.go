package similarity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hirestack/candidate-ranker/internal/domain"
)

func seniorityJob(level string, minYears int) *JobContext {
	return BuildJobContext("j1", domain.Job{SeniorityLevel: level, MinYearsExperience: minYears})
}

func TestSeniorityMetric_WithinBand(t *testing.T) {
	m := NewSeniorityMetric()
	got, err := m.Calculate(context.Background(),
		domain.Candidate{YearsOfExperience: 10}, seniorityJob("Senior", 0))
	require.NoError(t, err)
	require.Equal(t, 1.0, got)
}

func TestSeniorityMetric_BelowBand(t *testing.T) {
	m := NewSeniorityMetric()
	got, err := m.Calculate(context.Background(),
		domain.Candidate{YearsOfExperience: 3}, seniorityJob("senior", 0))
	require.NoError(t, err)
	require.InDelta(t, 3.0/7.0, got, 1e-9)
}

func TestSeniorityMetric_BelowBandFloor(t *testing.T) {
	m := NewSeniorityMetric()
	got, err := m.Calculate(context.Background(),
		domain.Candidate{YearsOfExperience: 0}, seniorityJob("executive", 0))
	require.NoError(t, err)
	require.Equal(t, 0.3, got)
}

func TestSeniorityMetric_AboveBandDecaysToFloor(t *testing.T) {
	m := NewSeniorityMetric()
	got, err := m.Calculate(context.Background(),
		domain.Candidate{YearsOfExperience: 30}, seniorityJob("senior", 0))
	require.NoError(t, err)
	require.Equal(t, 0.7, got)

	got, err = m.Calculate(context.Background(),
		domain.Candidate{YearsOfExperience: 17}, seniorityJob("senior", 0))
	require.NoError(t, err)
	require.InDelta(t, 0.9, got, 1e-9)
}

func TestSeniorityMetric_UnknownLabelUsesMinYears(t *testing.T) {
	m := NewSeniorityMetric()
	got, err := m.Calculate(context.Background(),
		domain.Candidate{YearsOfExperience: 6}, seniorityJob("wizard", 5))
	require.NoError(t, err)
	require.Equal(t, 1.0, got)

	got, err = m.Calculate(context.Background(),
		domain.Candidate{YearsOfExperience: 1}, seniorityJob("wizard", 5))
	require.NoError(t, err)
	require.InDelta(t, 0.3, got, 1e-9)
}

func TestSeniorityMetric_NoSignalNeutral(t *testing.T) {
	m := NewSeniorityMetric()
	got, err := m.Calculate(context.Background(),
		domain.Candidate{YearsOfExperience: 4}, seniorityJob("", 0))
	require.NoError(t, err)
	require.Equal(t, 0.8, got)
}

func TestSeniorityMetric_FallbackValue(t *testing.T) {
	require.Equal(t, 0.8, NewSeniorityMetric().Fallback())
	require.Equal(t, "seniority", NewSeniorityMetric().Name())
}
