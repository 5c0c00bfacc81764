package similarity

import (
	"context"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"

	"github.com/hirestack/candidate-ranker/internal/adapter/observability"
	"github.com/hirestack/candidate-ranker/internal/domain"
)

// DefaultWeights is the standard blend of the seven metrics. The weighted
// sum is divided by the sum of the supplied weights, so partial custom maps
// stay self-normalizing.
var DefaultWeights = map[string]float64{
	"skills":        0.30,
	"experience":    0.25,
	"education":     0.15,
	"language":      0.03,
	"certification": 0.02,
	"semantic":      0.05,
	"seniority":     0.02,
}

// Engine combines the seven metrics into one similarity score per
// candidate x job pair, caching job-side preprocessing across candidates.
type Engine struct {
	candidates domain.CandidateRepository
	cache      *ContextCache
	metrics    []Metric
}

// NewEngine wires the engine with its repositories and embedding client.
func NewEngine(candidates domain.CandidateRepository, jobs domain.JobRepository, embedder domain.EmbeddingClient) *Engine {
	return &Engine{
		candidates: candidates,
		cache:      NewContextCache(jobs),
		metrics: []Metric{
			NewSkillsMetric(),
			NewExperienceMetric(embedder),
			NewEducationMetric(),
			NewLanguageMetric(),
			NewCertificationMetric(),
			NewSemanticMetric(embedder),
			NewSeniorityMetric(),
		},
	}
}

// Score calculates the similarity for a single candidate/job pair.
// Returns domain.ErrNotFound (wrapped) when the job does not exist.
func (e *Engine) Score(ctx context.Context, candidateID, jobID string, weights map[string]float64) (domain.SimilarityScore, error) {
	jc, err := e.cache.GetOrBuild(ctx, jobID)
	if err != nil {
		return domain.SimilarityScore{}, err
	}
	return e.scoreWithContext(ctx, candidateID, jc, weights), nil
}

// ScoreBatch scores all candidates against one job, building the job context
// exactly once. The result slice corresponds positionally to candidateIDs.
func (e *Engine) ScoreBatch(ctx context.Context, jobID string, candidateIDs []string, weights map[string]float64) ([]domain.SimilarityScore, error) {
	tracer := otel.Tracer("similarity.engine")
	ctx, span := tracer.Start(ctx, "engine.ScoreBatch")
	defer span.End()

	jc, err := e.cache.GetOrBuild(ctx, jobID)
	if err != nil {
		return nil, err
	}
	results := make([]domain.SimilarityScore, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		results = append(results, e.scoreWithContext(ctx, id, jc, weights))
	}
	return results, nil
}

// scoreWithContext runs all metrics and combines them. A missing candidate
// yields an all-zero score: one bad record must not abort a batch.
func (e *Engine) scoreWithContext(ctx context.Context, candidateID string, jc *JobContext, weights map[string]float64) domain.SimilarityScore {
	if len(weights) == 0 {
		weights = DefaultWeights
	}

	candidate, err := e.candidates.Get(ctx, candidateID)
	if err != nil {
		slog.Error("candidate lookup failed, scoring zero",
			slog.String("candidate_id", candidateID), slog.Any("error", err))
		return emptyScore()
	}

	scores := make(map[string]float64, len(e.metrics))
	for _, m := range e.metrics {
		s := e.safeCalculate(ctx, m, candidate, jc)
		scores[m.Name()] = s
		observability.MetricScoreHistogram.WithLabelValues(m.Name()).Observe(s)
	}

	var weighted, weightSum float64
	for name, w := range weights {
		s, ok := scores[name]
		if !ok {
			continue
		}
		weighted += s * w
		weightSum += w
	}
	overall := 0.0
	if weightSum > 0 {
		overall = weighted / weightSum
	}
	observability.OverallScoreHistogram.Observe(overall)

	slog.Debug("similarity calculated",
		slog.String("candidate_id", candidateID),
		slog.String("job_id", jc.JobID),
		slog.Float64("overall", overall))

	return domain.SimilarityScore{
		OverallScore:       round4(overall),
		SkillsScore:        round4(scores["skills"]),
		ExperienceScore:    round4(scores["experience"]),
		EducationScore:     round4(scores["education"]),
		SemanticSimilarity: round4(scores["semantic"]),
		SeniorityMatch:     round4(scores["seniority"]),
		DetailedBreakdown: map[string]any{
			"certification_score": round4(scores["certification"]),
			"language_score":      round4(scores["language"]),
			"weights_used":        weights,
			"job_id":              jc.JobID,
			"cached":              true,
		},
	}
}

// safeCalculate shields the orchestrator from metric failures: errors and
// panics are logged, counted, and replaced by the metric's fallback.
func (e *Engine) safeCalculate(ctx context.Context, m Metric, candidate domain.Candidate, jc *JobContext) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("metric panicked",
				slog.String("metric", m.Name()), slog.Any("recover", r))
			observability.MetricFallbacksTotal.WithLabelValues(m.Name(), "panic").Inc()
			score = m.Fallback()
		}
	}()
	v, err := m.Calculate(ctx, candidate, jc)
	if err != nil {
		slog.Error("metric failed, using fallback",
			slog.String("metric", m.Name()),
			slog.Float64("fallback", m.Fallback()),
			slog.Any("error", err))
		observability.MetricFallbacksTotal.WithLabelValues(m.Name(), "error").Inc()
		return m.Fallback()
	}
	return clamp01(v)
}

// Evict drops the cached context for one job.
func (e *Engine) Evict(jobID string) { e.cache.Evict(jobID) }

// EvictAll drops every cached job context.
func (e *Engine) EvictAll() { e.cache.EvictAll() }

// CachedJobIDs lists the jobs with a cached context.
func (e *Engine) CachedJobIDs() []string { return e.cache.CachedIDs() }

func emptyScore() domain.SimilarityScore {
	return domain.SimilarityScore{DetailedBreakdown: map[string]any{}}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
