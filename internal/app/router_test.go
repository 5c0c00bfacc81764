package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	httpserver "github.com/hirestack/candidate-ranker/internal/adapter/httpserver"
	"github.com/hirestack/candidate-ranker/internal/app"
	"github.com/hirestack/candidate-ranker/internal/config"
	"github.com/hirestack/candidate-ranker/internal/domain"
	"github.com/hirestack/candidate-ranker/internal/usecase"
)

func TestParseOrigins(t *testing.T) {
	require.Equal(t, []string{"*"}, app.ParseOrigins(""))
	require.Equal(t, []string{"*"}, app.ParseOrigins("*"))
	require.Equal(t, []string{"*"}, app.ParseOrigins(" , ,"))
	require.Equal(t,
		[]string{"https://a.example", "https://b.example"},
		app.ParseOrigins(" https://a.example , https://b.example "))
}

type noopScorer struct{}

func (noopScorer) ScoreBatch(_ context.Context, _ string, ids []string, _ map[string]float64) ([]domain.SimilarityScore, error) {
	return make([]domain.SimilarityScore, len(ids)), nil
}
func (noopScorer) Evict(string)           {}
func (noopScorer) EvictAll()              {}
func (noopScorer) CachedJobIDs() []string { return nil }

type emptyCandidateRepo struct{}

func (emptyCandidateRepo) Create(_ domain.Context, c domain.Candidate) (string, error) {
	return c.ID, nil
}
func (emptyCandidateRepo) Get(_ domain.Context, _ string) (domain.Candidate, error) {
	return domain.Candidate{}, domain.ErrNotFound
}
func (emptyCandidateRepo) List(_ domain.Context, _, _ int, _ string) ([]domain.Candidate, error) {
	return nil, nil
}

func testRouter() http.Handler {
	cfg := config.Config{Port: 8080, RateLimitPerMin: 100, CORSAllowOrigins: "*"}
	rank := usecase.NewRankService(noopScorer{}, emptyCandidateRepo{}, nil, 10)
	srv := httpserver.NewServer(cfg, rank, func(context.Context) error { return nil }, nil)
	return app.BuildRouter(cfg, srv)
}

func TestRouter_HealthEndpoints(t *testing.T) {
	h := testRouter()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SecurityHeadersAndRequestID(t *testing.T) {
	h := testRouter()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouter_RankingRouteWired(t *testing.T) {
	h := testRouter()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/jobs/j1/matching-candidates", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UnknownRoute404(t *testing.T) {
	h := testRouter()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
