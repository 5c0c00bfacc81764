package similarity

import (
	"context"
	"fmt"
	"math"

	"github.com/hirestack/candidate-ranker/internal/domain"
)

// embeddingIndex is a small nearest-neighbor lookup over a fixed set of
// reference documents. Documents are embedded once at construction; queries
// embed one text and scan linearly, which is the right trade-off for the
// single-digit document counts a job context holds.
type embeddingIndex struct {
	embedder domain.EmbeddingClient
	docs     []string
	vecs     [][]float32
}

func newEmbeddingIndex(ctx context.Context, embedder domain.EmbeddingClient, docs []string) (*embeddingIndex, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no documents to index", domain.ErrInvalidArgument)
	}
	vecs, err := embedder.Embed(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("op=index.embed_docs: %w", err)
	}
	if len(vecs) != len(docs) {
		return nil, fmt.Errorf("op=index.embed_docs: got %d vectors for %d documents", len(vecs), len(docs))
	}
	return &embeddingIndex{embedder: embedder, docs: docs, vecs: vecs}, nil
}

// Nearest returns the closest document to query with its cosine distance.
// Distance is in [0,2]; 0 means identical direction.
func (ix *embeddingIndex) Nearest(ctx context.Context, query string) (string, float64, error) {
	qv, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		return "", 0, fmt.Errorf("op=index.embed_query: %w", err)
	}
	if len(qv) == 0 {
		return "", 0, fmt.Errorf("op=index.embed_query: empty embedding response")
	}
	best := -1
	bestDist := math.MaxFloat64
	for i, v := range ix.vecs {
		d := cosineDistance(qv[0], v)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return ix.docs[best], bestDist, nil
}

// cosineDistance is 1 - cosine similarity. Zero-norm vectors carry no
// direction; they are treated as orthogonal (distance 1).
func cosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1.0
	}
	return 1.0 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

// distanceToSimilarity maps a cosine distance to a [0,1] score.
func distanceToSimilarity(distance float64) float64 {
	s := 1.0 - distance/2.0
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
