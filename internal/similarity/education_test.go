package similarity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hirestack/candidate-ranker/internal/domain"
)

func eduJob(reqs ...string) *JobContext {
	return BuildJobContext("j1", domain.Job{EducationRequirements: reqs})
}

func TestEducationMetric_NoRequirementsNeutral(t *testing.T) {
	m := NewEducationMetric()
	got, err := m.Calculate(context.Background(), domain.Candidate{}, eduJob())
	require.NoError(t, err)
	require.Equal(t, 0.8, got)
}

func TestEducationMetric_NoCandidateEducation(t *testing.T) {
	m := NewEducationMetric()
	got, err := m.Calculate(context.Background(), domain.Candidate{}, eduJob("Bachelor in Computer Science"))
	require.NoError(t, err)
	require.Equal(t, 0.0, got)
}

func TestEducationMetric_CloseMatchScoresHigh(t *testing.T) {
	m := NewEducationMetric()
	candidate := domain.Candidate{Education: []domain.Education{
		{Degree: "Bachelor of Science", FieldOfStudy: "Computer Science"},
	}}
	close, err := m.Calculate(context.Background(), candidate,
		eduJob("Degree: Bachelor of Science. Field: Computer Science"))
	require.NoError(t, err)

	far, err := m.Calculate(context.Background(), candidate,
		eduJob("PhD in Organic Chemistry"))
	require.NoError(t, err)

	require.Greater(t, close, far)
	require.Greater(t, close, 0.9)
	require.LessOrEqual(t, close, 1.0)
}

func TestCandidateEducationText_Format(t *testing.T) {
	text := candidateEducationText([]domain.Education{
		{Degree: "BSc", FieldOfStudy: "CS"},
		{Degree: "MSc"},
		{},
	})
	require.Equal(t, "Degree: BSc. Field: CS. Degree: MSc", text)
	require.Equal(t, "", candidateEducationText(nil))
}

func TestEducationMetric_FallbackValue(t *testing.T) {
	require.Equal(t, 0.0, NewEducationMetric().Fallback())
	require.Equal(t, "education", NewEducationMetric().Name())
}
