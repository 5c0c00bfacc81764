package similarity

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hirestack/candidate-ranker/internal/domain"
)

// proficiencyRanks orders the recognized proficiency labels. Unknown labels
// rank as basic.
var proficiencyRanks = map[string]int{
	"basic":          1,
	"elementary":     1,
	"beginner":       1,
	"intermediate":   2,
	"conversational": 2,
	"advanced":       3,
	"fluent":         4,
	"native":         5,
	"bilingual":      5,
}

const languageNameThreshold = 0.8

// LanguageMetric scores language requirements as name similarity weighted by
// proficiency fit, averaged over all required languages.
type LanguageMetric struct{}

// NewLanguageMetric returns the language metric.
func NewLanguageMetric() *LanguageMetric { return &LanguageMetric{} }

func (m *LanguageMetric) Name() string      { return "language" }
func (m *LanguageMetric) Fallback() float64 { return 0.5 }

func (m *LanguageMetric) Calculate(_ context.Context, candidate domain.Candidate, jc *JobContext) (float64, error) {
	required := jc.RequiredLanguages
	if len(required) == 0 {
		slog.Debug("no language requirements for job", slog.String("job_id", jc.JobID))
		return 0.9, nil
	}
	candidateLangs := extractCandidateLanguages(candidate)
	if len(candidateLangs) == 0 {
		slog.Debug("no languages on candidate profile")
		return 0.0, nil
	}

	total := 0.0
	for _, req := range required {
		total += m.singleLanguageMatch(req, candidateLangs)
	}
	return clamp01(total / float64(len(required))), nil
}

func extractCandidateLanguages(candidate domain.Candidate) []domain.LanguageSkill {
	langs := make([]domain.LanguageSkill, 0, len(candidate.Languages))
	for _, l := range candidate.Languages {
		name := strings.ToLower(strings.TrimSpace(l.Language))
		if name == "" {
			continue
		}
		langs = append(langs, domain.LanguageSkill{
			Language:    name,
			Proficiency: strings.ToLower(strings.TrimSpace(l.Proficiency)),
		})
	}
	return langs
}

// singleLanguageMatch returns the best name_similarity * proficiency_ratio
// over the candidate's languages, considering only names at or above the
// match threshold. Proficiency ratio is 1.0 when the candidate meets the
// required rank, otherwise candidate_rank/required_rank.
func (m *LanguageMetric) singleLanguageMatch(req requiredLanguage, candidateLangs []domain.LanguageSkill) float64 {
	requiredRank := proficiencyRank(req.RequiredLevel)
	best := 0.0
	for _, cl := range candidateLangs {
		nameSim := Ratio(req.Language, cl.Language)
		if nameSim < languageNameThreshold {
			continue
		}
		candidateRank := proficiencyRank(cl.Proficiency)
		ratio := 1.0
		if candidateRank < requiredRank {
			ratio = float64(candidateRank) / float64(requiredRank)
		}
		if s := nameSim * ratio; s > best {
			best = s
		}
	}
	return best
}

func proficiencyRank(label string) int {
	if r, ok := proficiencyRanks[label]; ok {
		return r
	}
	return 1
}
