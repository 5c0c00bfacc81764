package similarity

import (
	"context"
	"log/slog"

	"github.com/hirestack/candidate-ranker/internal/domain"
)

// SkillsMetric scores skill overlap with a Jaccard-style index over fuzzy
// matched skill names.
type SkillsMetric struct {
	threshold float64
}

// NewSkillsMetric returns the skills metric with the standard 0.6 fuzzy
// match threshold.
func NewSkillsMetric() *SkillsMetric { return &SkillsMetric{threshold: 0.6} }

func (m *SkillsMetric) Name() string      { return "skills" }
func (m *SkillsMetric) Fallback() float64 { return 0.0 }

// Calculate marks each required skill matched when it appears verbatim in
// the candidate's skills or fuzzy-matches one of them, then divides matched
// count by the size of the union of both skill sets.
func (m *SkillsMetric) Calculate(_ context.Context, candidate domain.Candidate, jc *JobContext) (float64, error) {
	candidateSkills := extractCandidateSkills(candidate)
	required := jc.RequiredSkills

	if len(required) == 0 {
		slog.Debug("no required skills for job", slog.String("job_id", jc.JobID))
		return 0.8, nil
	}
	if len(candidateSkills) == 0 {
		slog.Debug("no skills on candidate profile")
		return 0.0, nil
	}

	matched := m.fuzzyMatchSkills(candidateSkills, required)
	union := make(map[string]struct{}, len(candidateSkills)+len(required))
	for _, s := range candidateSkills {
		union[s] = struct{}{}
	}
	for _, s := range required {
		union[s] = struct{}{}
	}
	if len(union) == 0 {
		return 0.0, nil
	}
	score := float64(len(matched)) / float64(len(union))
	slog.Debug("skills similarity",
		slog.Int("matched", len(matched)),
		slog.Int("union", len(union)),
		slog.Float64("jaccard", score))
	return clamp01(score), nil
}

// extractCandidateSkills flattens the candidate's skill groups to a lowered
// flat list. Groups may carry either a Skills list or a single Name.
func extractCandidateSkills(candidate domain.Candidate) []string {
	var skills []string
	for _, g := range candidate.Skills {
		switch {
		case len(g.Skills) > 0:
			skills = append(skills, g.Skills...)
		case g.Name != "":
			skills = append(skills, g.Name)
		}
	}
	return normalizeSkills(skills)
}

func (m *SkillsMetric) fuzzyMatchSkills(candidateSkills, required []string) map[string]struct{} {
	matched := make(map[string]struct{})
	candidateSet := make(map[string]struct{}, len(candidateSkills))
	for _, s := range candidateSkills {
		candidateSet[s] = struct{}{}
	}
	for _, req := range required {
		if _, ok := candidateSet[req]; ok {
			matched[req] = struct{}{}
			continue
		}
		for _, cs := range candidateSkills {
			if Ratio(req, cs) >= m.threshold {
				matched[req] = struct{}{}
				break
			}
		}
	}
	return matched
}
