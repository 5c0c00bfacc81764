package similarity

import (
	"context"

	"github.com/hirestack/candidate-ranker/internal/domain"
)

// Metric is one scoring signal. Calculate returns a score in [0,1]; an error
// signals a provider or internal failure and makes the engine substitute
// Fallback(). Missing-data neutral scores are normal return values, not
// errors, so the two degradation reasons stay distinguishable.
type Metric interface {
	Name() string
	Fallback() float64
	Calculate(ctx context.Context, candidate domain.Candidate, jc *JobContext) (float64, error)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
