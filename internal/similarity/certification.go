package similarity

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hirestack/candidate-ranker/internal/domain"
)

// CertificationMetric scores how many required certifications the candidate
// holds, with a stricter fuzzy threshold than skills since certification
// names are near-standardized.
type CertificationMetric struct {
	threshold float64
}

// NewCertificationMetric returns the certification metric with its 0.8
// fuzzy match threshold.
func NewCertificationMetric() *CertificationMetric { return &CertificationMetric{threshold: 0.8} }

func (m *CertificationMetric) Name() string      { return "certification" }
func (m *CertificationMetric) Fallback() float64 { return 0.5 }

// Calculate divides matched required certifications by the total required.
func (m *CertificationMetric) Calculate(_ context.Context, candidate domain.Candidate, jc *JobContext) (float64, error) {
	candidateCerts := extractCandidateCertifications(candidate)
	required := jc.RequiredCertifications

	if len(required) == 0 {
		slog.Debug("no certification requirements for job", slog.String("job_id", jc.JobID))
		return 0.9, nil
	}
	if len(candidateCerts) == 0 {
		slog.Debug("no certifications on candidate profile")
		return 0.0, nil
	}

	matched := 0
	for _, req := range required {
		if m.hasMatchingCertification(req, candidateCerts) {
			matched++
		}
	}
	score := float64(matched) / float64(len(required))
	slog.Debug("certification similarity",
		slog.Int("required", len(required)),
		slog.Int("matched", matched),
		slog.Float64("score", score))
	return clamp01(score), nil
}

func extractCandidateCertifications(candidate domain.Candidate) []string {
	var certs []string
	for _, c := range candidate.Certifications {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name != "" {
			certs = append(certs, name)
		}
	}
	return certs
}

func (m *CertificationMetric) hasMatchingCertification(required string, candidateCerts []string) bool {
	for _, c := range candidateCerts {
		if c == required {
			return true
		}
	}
	for _, c := range candidateCerts {
		if Ratio(required, c) >= m.threshold {
			return true
		}
	}
	return false
}
