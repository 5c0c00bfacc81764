package similarity

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hirestack/candidate-ranker/internal/domain"
)

// EducationMetric scores the whole-text similarity between the candidate's
// education history and the job's education requirements.
type EducationMetric struct{}

// NewEducationMetric returns the education metric.
func NewEducationMetric() *EducationMetric { return &EducationMetric{} }

func (m *EducationMetric) Name() string      { return "education" }
func (m *EducationMetric) Fallback() float64 { return 0.0 }

// Calculate builds a "Degree: X. Field: Y" blob from the candidate's
// education entries and compares it against the space-joined requirement
// strings with the ratio primitive.
func (m *EducationMetric) Calculate(_ context.Context, candidate domain.Candidate, jc *JobContext) (float64, error) {
	requirements := strings.TrimSpace(strings.Join(jc.EducationRequirements, " "))
	if requirements == "" {
		slog.Debug("no education requirements for job", slog.String("job_id", jc.JobID))
		return 0.8, nil
	}
	candidateText := candidateEducationText(candidate.Education)
	if candidateText == "" {
		slog.Debug("no education on candidate profile")
		return 0.0, nil
	}
	return clamp01(Ratio(candidateText, requirements)), nil
}

func candidateEducationText(education []domain.Education) string {
	parts := make([]string, 0, len(education))
	for _, edu := range education {
		var fragments []string
		if edu.Degree != "" {
			fragments = append(fragments, "Degree: "+edu.Degree)
		}
		if edu.FieldOfStudy != "" {
			fragments = append(fragments, "Field: "+edu.FieldOfStudy)
		}
		if len(fragments) > 0 {
			parts = append(parts, strings.Join(fragments, ". "))
		}
	}
	return strings.Join(parts, ". ")
}
