// Package usecase contains application services orchestrating the domain
// ports. It stays transport-agnostic: handlers translate HTTP to these
// calls and back.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/hirestack/candidate-ranker/internal/adapter/observability"
	"github.com/hirestack/candidate-ranker/internal/domain"
)

// Scorer is the similarity engine surface the rank service depends on.
type Scorer interface {
	ScoreBatch(ctx context.Context, jobID string, candidateIDs []string, weights map[string]float64) ([]domain.SimilarityScore, error)
	Evict(jobID string)
	EvictAll()
	CachedJobIDs() []string
}

// RankedCandidate is one row of a ranking result.
type RankedCandidate struct {
	CandidateID   string                 `json:"candidate_id"`
	CandidateName string                 `json:"candidate_name,omitempty"`
	Score         domain.SimilarityScore `json:"score"`
}

// RankService ranks stored candidates against a job and manages the
// job-context cache, broadcasting evictions to peer replicas when an
// invalidator is configured.
type RankService struct {
	Engine      Scorer
	Candidates  domain.CandidateRepository
	Invalidator domain.CacheInvalidator
	// PoolLimit bounds how many candidates a full ranking pass loads.
	PoolLimit int
}

// NewRankService constructs a RankService. invalidator may be nil.
func NewRankService(engine Scorer, candidates domain.CandidateRepository, invalidator domain.CacheInvalidator, poolLimit int) *RankService {
	if poolLimit <= 0 {
		poolLimit = 1000
	}
	return &RankService{Engine: engine, Candidates: candidates, Invalidator: invalidator, PoolLimit: poolLimit}
}

// Rank scores candidates against jobID, drops scores below minScore, sorts
// descending by overall score (stable, so equal scores keep input order) and
// truncates to limit. With an empty candidateIDs the stored candidate pool is
// ranked; explicit ids are scored as given and carry no name.
func (s *RankService) Rank(ctx context.Context, jobID string, candidateIDs []string, minScore float64, limit int, weights map[string]float64) ([]RankedCandidate, error) {
	observability.RankRequestsTotal.WithLabelValues("rank").Inc()

	ids := candidateIDs
	names := map[string]string{}
	if len(ids) == 0 {
		pool, err := s.Candidates.List(ctx, 0, s.PoolLimit, "")
		if err != nil {
			return nil, fmt.Errorf("op=rank.list: %w", err)
		}
		ids = make([]string, len(pool))
		for i, c := range pool {
			ids[i] = c.ID
			names[c.ID] = c.FullName
		}
	}

	scores, err := s.Engine.ScoreBatch(ctx, jobID, ids, weights)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedCandidate, 0, len(ids))
	for i, id := range ids {
		if scores[i].OverallScore < minScore {
			continue
		}
		ranked = append(ranked, RankedCandidate{
			CandidateID:   id,
			CandidateName: names[id],
			Score:         scores[i],
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.OverallScore > ranked[j].Score.OverallScore
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	observability.RankedCandidatesTotal.Add(float64(len(ranked)))

	slog.Info("ranking complete",
		slog.String("job_id", jobID),
		slog.Int("scored", len(ids)),
		slog.Int("returned", len(ranked)))
	return ranked, nil
}

// RankBatch scores the given candidate ids against jobID, preserving input
// order. Unknown candidate ids score zero rather than failing the batch.
func (s *RankService) RankBatch(ctx context.Context, jobID string, candidateIDs []string, weights map[string]float64) ([]RankedCandidate, error) {
	observability.RankRequestsTotal.WithLabelValues("batch").Inc()

	scores, err := s.Engine.ScoreBatch(ctx, jobID, candidateIDs, weights)
	if err != nil {
		return nil, err
	}
	out := make([]RankedCandidate, len(candidateIDs))
	for i, id := range candidateIDs {
		out[i] = RankedCandidate{CandidateID: id, Score: scores[i]}
	}
	return out, nil
}

// ClearCache evicts the context for jobID, or every context when jobID is
// empty, and broadcasts the eviction to peer replicas.
func (s *RankService) ClearCache(ctx context.Context, jobID string) error {
	if jobID == "" {
		s.Engine.EvictAll()
	} else {
		s.Engine.Evict(jobID)
	}
	if s.Invalidator == nil {
		return nil
	}
	if err := s.Invalidator.PublishEvict(ctx, jobID); err != nil {
		return fmt.Errorf("op=rank.clearcache: %w", err)
	}
	return nil
}

// CachedJobIDs lists the jobs whose context is currently cached locally.
func (s *RankService) CachedJobIDs() []string { return s.Engine.CachedJobIDs() }
