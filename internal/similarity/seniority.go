package similarity

import (
	"context"
	"strings"

	"github.com/hirestack/candidate-ranker/internal/domain"
)

// seniorityBand is the inclusive years-of-experience range a seniority label
// implies.
type seniorityBand struct {
	min, max int
}

var seniorityBands = map[string]seniorityBand{
	"entry-level": {0, 2},
	"junior":      {0, 3},
	"mid-level":   {3, 7},
	"senior":      {7, 15},
	"lead":        {5, 100},
	"principal":   {10, 100},
	"executive":   {15, 100},
}

// SeniorityMetric scores how well the candidate's years of experience fit
// the job's seniority level.
type SeniorityMetric struct{}

// NewSeniorityMetric returns the seniority metric.
func NewSeniorityMetric() *SeniorityMetric { return &SeniorityMetric{} }

func (m *SeniorityMetric) Name() string      { return "seniority" }
func (m *SeniorityMetric) Fallback() float64 { return 0.8 }

// Calculate maps the job's seniority label to a years band: inside the band
// scores 1.0, below decays toward 0.3, above decays toward 0.7. Unknown
// labels fall back to the min-years requirement; a job with no seniority
// signal scores 0.8.
func (m *SeniorityMetric) Calculate(_ context.Context, candidate domain.Candidate, jc *JobContext) (float64, error) {
	years := candidate.YearsOfExperience

	if band, ok := seniorityBands[strings.ToLower(jc.SeniorityLevel)]; ok {
		switch {
		case years >= band.min && years <= band.max:
			return 1.0, nil
		case years < band.min:
			denom := band.min
			if denom < 1 {
				denom = 1
			}
			return maxFloat(0.3, float64(years)/float64(denom)), nil
		default:
			return maxFloat(0.7, 1.0-float64(years-band.max)*0.05), nil
		}
	}

	if jc.MinYearsExperience > 0 {
		if years >= jc.MinYearsExperience {
			return 1.0, nil
		}
		return maxFloat(0.3, float64(years)/float64(jc.MinYearsExperience)), nil
	}

	return 0.8, nil
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
