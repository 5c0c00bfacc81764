package similarity

import (
	"context"

	"github.com/hirestack/candidate-ranker/internal/domain"
)

// SemanticMetric scores the embedding similarity between the candidate's
// summary and the job summary. The single-document index is rebuilt per call
// because the query side is candidate-specific; the embed cache in front of
// the provider keeps the job-summary vector cheap across a batch.
type SemanticMetric struct {
	embedder domain.EmbeddingClient
}

// NewSemanticMetric returns the semantic metric backed by the given
// embedding client.
func NewSemanticMetric(embedder domain.EmbeddingClient) *SemanticMetric {
	return &SemanticMetric{embedder: embedder}
}

func (m *SemanticMetric) Name() string      { return "semantic" }
func (m *SemanticMetric) Fallback() float64 { return 0.5 }

// Calculate returns the neutral 0.5 when either summary is missing.
func (m *SemanticMetric) Calculate(ctx context.Context, candidate domain.Candidate, jc *JobContext) (float64, error) {
	if candidate.Summary == "" || jc.JobSummary == "" {
		return 0.5, nil
	}
	ix, err := newEmbeddingIndex(ctx, m.embedder, []string{jc.JobSummary})
	if err != nil {
		return 0, err
	}
	_, distance, err := ix.Nearest(ctx, candidate.Summary)
	if err != nil {
		return 0, err
	}
	return distanceToSimilarity(distance), nil
}
