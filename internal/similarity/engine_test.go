package similarity

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hirestack/candidate-ranker/internal/domain"
)

func engineFixture(t *testing.T, embedder domain.EmbeddingClient) (*Engine, *countingJobRepo) {
	t.Helper()
	candidates := &mapCandidateRepo{}
	_, err := candidates.Create(context.Background(), domain.Candidate{
		ID:                "c1",
		FullName:          "Ada Moreno",
		Summary:           "Backend engineer building data pipelines",
		YearsOfExperience: 8,
		Education: []domain.Education{
			{Degree: "Bachelor of Science", FieldOfStudy: "Computer Science"},
		},
		Experience: []domain.Experience{{
			JobTitle:         "Senior Backend Engineer",
			Responsibilities: []string{"Operated ingestion pipelines"},
		}},
		Skills: []domain.SkillGroup{{Skills: []string{"Python", "Go", "Kubernetes"}}},
		Languages: []domain.LanguageSkill{
			{Language: "English", Proficiency: "fluent"},
		},
	})
	require.NoError(t, err)
	_, err = candidates.Create(context.Background(), domain.Candidate{
		ID:                "c2",
		FullName:          "Jun Park",
		YearsOfExperience: 1,
		Skills:            []domain.SkillGroup{{Skills: []string{"JavaScript"}}},
	})
	require.NoError(t, err)

	jobs := &countingJobRepo{jobs: map[string]domain.Job{
		"j1": {
			ID:             "j1",
			JobTitle:       "Senior Backend Engineer",
			JobSummary:     "Own the ingestion platform",
			JobDescription: "Operate high-throughput data services",
			RequiredSkills: []domain.SkillGroup{
				{Requirements: []string{"Python", "Go"}},
			},
			EducationRequirements: []string{"Bachelor in Computer Science"},
			RequiredLanguages: []domain.LanguageRequirement{
				{Language: "English", Level: "fluent"},
			},
			MinYearsExperience: 5,
			SeniorityLevel:     "senior",
		},
	}}
	return NewEngine(candidates, jobs, embedder), jobs
}

func requireRounded4(t *testing.T, v float64) {
	t.Helper()
	require.InDelta(t, v, math.Round(v*10000)/10000, 1e-12)
}

func TestEngine_Score_BoundsAndRounding(t *testing.T) {
	engine, _ := engineFixture(t, &stubEmbedder{})
	score, err := engine.Score(context.Background(), "c1", "j1", nil)
	require.NoError(t, err)

	for name, v := range map[string]float64{
		"overall":    score.OverallScore,
		"skills":     score.SkillsScore,
		"experience": score.ExperienceScore,
		"education":  score.EducationScore,
		"semantic":   score.SemanticSimilarity,
		"seniority":  score.SeniorityMatch,
	} {
		require.GreaterOrEqual(t, v, 0.0, name)
		require.LessOrEqual(t, v, 1.0, name)
		requireRounded4(t, v)
	}
	require.Equal(t, "j1", score.DetailedBreakdown["job_id"])
	require.Equal(t, true, score.DetailedBreakdown["cached"])
	require.Contains(t, score.DetailedBreakdown, "certification_score")
	require.Contains(t, score.DetailedBreakdown, "language_score")
	require.Contains(t, score.DetailedBreakdown, "weights_used")
}

func TestEngine_Score_JobNotFound(t *testing.T) {
	engine, _ := engineFixture(t, &stubEmbedder{})
	_, err := engine.Score(context.Background(), "c1", "missing", nil)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEngine_Score_MissingCandidateScoresZero(t *testing.T) {
	engine, _ := engineFixture(t, &stubEmbedder{})
	score, err := engine.Score(context.Background(), "ghost", "j1", nil)
	require.NoError(t, err)
	require.Equal(t, 0.0, score.OverallScore)
	require.Equal(t, 0.0, score.SkillsScore)
}

func TestEngine_Score_SingleWeightSelfNormalizes(t *testing.T) {
	engine, _ := engineFixture(t, &stubEmbedder{})
	score, err := engine.Score(context.Background(), "c1", "j1", map[string]float64{"skills": 2.0})
	require.NoError(t, err)
	require.Equal(t, score.SkillsScore, score.OverallScore)
}

func TestEngine_Score_UnknownWeightKeysIgnored(t *testing.T) {
	engine, _ := engineFixture(t, &stubEmbedder{})
	score, err := engine.Score(context.Background(), "c1", "j1",
		map[string]float64{"skills": 1.0, "charisma": 9.0})
	require.NoError(t, err)
	require.Equal(t, score.SkillsScore, score.OverallScore)
}

func TestEngine_Score_Deterministic(t *testing.T) {
	engine, _ := engineFixture(t, &stubEmbedder{})
	a, err := engine.Score(context.Background(), "c1", "j1", nil)
	require.NoError(t, err)
	b, err := engine.Score(context.Background(), "c1", "j1", nil)
	require.NoError(t, err)
	require.Equal(t, a.OverallScore, b.OverallScore)
	require.Equal(t, a.SkillsScore, b.SkillsScore)
}

func TestEngine_ScoreBatch_OrderAndSingleJobFetch(t *testing.T) {
	engine, jobs := engineFixture(t, &stubEmbedder{})
	scores, err := engine.ScoreBatch(context.Background(), "j1", []string{"c2", "c1", "c2"}, nil)
	require.NoError(t, err)
	require.Len(t, scores, 3)
	require.Equal(t, scores[0].OverallScore, scores[2].OverallScore)
	require.Greater(t, scores[1].OverallScore, scores[0].OverallScore)
	require.Equal(t, 1, jobs.getCalls())
}

func TestEngine_MetricErrorFallsBack(t *testing.T) {
	// The failing embedder breaks the semantic metric, which must fall back
	// to its neutral 0.5 instead of failing the score.
	engine, _ := engineFixture(t, &stubEmbedder{err: errors.New("provider down")})
	score, err := engine.Score(context.Background(), "c1", "j1", nil)
	require.NoError(t, err)
	require.Equal(t, 0.5, score.SemanticSimilarity)
	require.GreaterOrEqual(t, score.OverallScore, 0.0)
	require.LessOrEqual(t, score.OverallScore, 1.0)
}

func TestEngine_EvictionManagement(t *testing.T) {
	engine, jobs := engineFixture(t, &stubEmbedder{})
	_, err := engine.Score(context.Background(), "c1", "j1", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"j1"}, engine.CachedJobIDs())

	engine.Evict("j1")
	require.Empty(t, engine.CachedJobIDs())

	_, err = engine.Score(context.Background(), "c1", "j1", nil)
	require.NoError(t, err)
	require.Equal(t, 2, jobs.getCalls())

	engine.EvictAll()
	require.Empty(t, engine.CachedJobIDs())
}

func TestDefaultWeights_CoverAllMetrics(t *testing.T) {
	engine, _ := engineFixture(t, &stubEmbedder{})
	for _, m := range engine.metrics {
		require.Contains(t, DefaultWeights, m.Name())
	}
	sum := 0.0
	for _, w := range DefaultWeights {
		sum += w
	}
	require.InDelta(t, 0.82, sum, 1e-9)
}
