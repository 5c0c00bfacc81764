package similarity

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hirestack/candidate-ranker/internal/domain"
)

// ExperienceMetric blends a years-of-experience fit with the semantic
// relevance of the candidate's past positions to the job.
type ExperienceMetric struct {
	embedder domain.EmbeddingClient
}

// NewExperienceMetric returns the experience metric backed by the given
// embedding client for responsibility relevance lookups.
func NewExperienceMetric(embedder domain.EmbeddingClient) *ExperienceMetric {
	return &ExperienceMetric{embedder: embedder}
}

func (m *ExperienceMetric) Name() string      { return "experience" }
func (m *ExperienceMetric) Fallback() float64 { return 0.0 }

// Calculate weighs the years component at 0.6 and position relevance at 0.4.
// Embedding failures degrade the responsibility component to zero for the
// affected position rather than failing the metric.
func (m *ExperienceMetric) Calculate(ctx context.Context, candidate domain.Candidate, jc *JobContext) (float64, error) {
	years := candidate.YearsOfExperience
	minRequired := jc.MinYearsExperience

	var yearsScore float64
	if years >= minRequired {
		yearsScore = 1.0
		if jc.MaxYearsExperience != nil && years > *jc.MaxYearsExperience {
			yearsScore = 1.0 - float64(years-*jc.MaxYearsExperience)*0.05
			if yearsScore < 0.8 {
				yearsScore = 0.8
			}
		}
	} else {
		denom := minRequired
		if denom < 1 {
			denom = 1
		}
		yearsScore = float64(years) / float64(denom)
		if yearsScore < 0 {
			yearsScore = 0
		}
	}

	relevance := m.experienceRelevance(ctx, candidate, jc)
	return yearsScore*0.6 + relevance*0.4, nil
}

// experienceRelevance averages per-position relevance over all positions.
func (m *ExperienceMetric) experienceRelevance(ctx context.Context, candidate domain.Candidate, jc *JobContext) float64 {
	if len(candidate.Experience) == 0 {
		return 0.3
	}
	total := 0.0
	for _, exp := range candidate.Experience {
		total += m.positionRelevance(ctx, exp, jc)
	}
	return total / float64(len(candidate.Experience))
}

// positionRelevance is 0.6 title similarity + 0.4 responsibility similarity.
func (m *ExperienceMetric) positionRelevance(ctx context.Context, exp domain.Experience, jc *JobContext) float64 {
	expTitle := strings.ToLower(exp.JobTitle)
	jobTitle := strings.ToLower(jc.Job.JobTitle)

	titleScore := 0.0
	if expTitle != "" && jobTitle != "" {
		titleScore = Ratio(expTitle, jobTitle)
	}

	respScore := m.responsibilitySimilarity(ctx, exp, jc)
	score := titleScore*0.6 + respScore*0.4
	return clamp01(score)
}

// responsibilitySimilarity queries the job context's lazily built embedding
// index with the position's joined responsibility text.
func (m *ExperienceMetric) responsibilitySimilarity(ctx context.Context, exp domain.Experience, jc *JobContext) float64 {
	if len(exp.Responsibilities) == 0 {
		return 0.0
	}
	if jc.ResponsibilitiesText == "" {
		return 0.0
	}
	candidateText := strings.Join(exp.Responsibilities, " ")

	ix, err := jc.responsibilityIndex(ctx, m.embedder)
	if err != nil {
		slog.Warn("responsibility index build failed",
			slog.String("job_id", jc.JobID), slog.Any("error", err))
		return 0.0
	}
	_, distance, err := ix.Nearest(ctx, candidateText)
	if err != nil {
		slog.Warn("responsibility similarity lookup failed",
			slog.String("job_id", jc.JobID), slog.Any("error", err))
		return 0.0
	}
	return distanceToSimilarity(distance)
}
