package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/hirestack/candidate-ranker/internal/config"
	"github.com/hirestack/candidate-ranker/internal/domain"
	"github.com/hirestack/candidate-ranker/internal/similarity"
	"github.com/hirestack/candidate-ranker/internal/usecase"
)

const (
	defaultRankLimit = 50
	maxRankLimit     = 500
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Rank       *usecase.RankService
	DBCheck    func(ctx context.Context) error
	RedisCheck func(ctx context.Context) error
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, rank *usecase.RankService, dbCheck, redisCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Rank: rank, DBCheck: dbCheck, RedisCheck: redisCheck}
}

// MatchingCandidatesHandler ranks all stored candidates against a job.
// Query params: min_score (0..1, default 0) and limit (1..500, default 50).
func (s *Server) MatchingCandidatesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "id")
		if jobID == "" {
			writeError(w, r, fmt.Errorf("%w: job id missing", domain.ErrInvalidArgument), nil)
			return
		}
		minScore, err := parseFloatParam(r, "min_score", 0)
		if err != nil || minScore < 0 || minScore > 1 {
			writeError(w, r, fmt.Errorf("%w: min_score must be in [0,1]", domain.ErrInvalidArgument), map[string]string{"param": "min_score"})
			return
		}
		limit, err := parseIntParam(r, "limit", defaultRankLimit)
		if err != nil || limit < 1 || limit > maxRankLimit {
			writeError(w, r, fmt.Errorf("%w: limit must be in [1,%d]", domain.ErrInvalidArgument, maxRankLimit), map[string]string{"param": "limit"})
			return
		}

		ranked, err := s.Rank.Rank(r.Context(), jobID, nil, minScore, limit, nil)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"job_id":     jobID,
			"count":      len(ranked),
			"candidates": ranked,
		})
	}
}

// BatchScoreHandler scores an explicit list of candidate ids against a job,
// preserving input order. Weights are optional and self-normalizing.
func (s *Server) BatchScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
		var req struct {
			JobID        string             `json:"job_id" validate:"required"`
			CandidateIDs []string           `json:"candidate_ids" validate:"required,min=1,max=1000,dive,required"`
			Weights      map[string]float64 `json:"weights"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			verrs := map[string]string{}
			if ve, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range ve {
					verrs[strings.ToLower(fe.Field())] = fe.Tag()
				}
			}
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
			return
		}
		if err := validateWeights(req.Weights); err != nil {
			writeError(w, r, err, map[string]string{"field": "weights"})
			return
		}

		ranked, err := s.Rank.RankBatch(r.Context(), req.JobID, req.CandidateIDs, req.Weights)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"job_id":  req.JobID,
			"count":   len(ranked),
			"results": ranked,
		})
	}
}

// RankScoreHandler ranks an explicit list of candidate ids against a job:
// scores below min_score are dropped, the rest sorted descending with stable
// ties and truncated to limit.
func (s *Server) RankScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
		var req struct {
			JobID        string             `json:"job_id" validate:"required"`
			CandidateIDs []string           `json:"candidate_ids" validate:"required,min=1,max=1000,dive,required"`
			MinScore     float64            `json:"min_score" validate:"gte=0,lte=1"`
			Limit        int                `json:"limit" validate:"gte=0,lte=500"`
			Weights      map[string]float64 `json:"weights"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			verrs := map[string]string{}
			if ve, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range ve {
					verrs[strings.ToLower(fe.Field())] = fe.Tag()
				}
			}
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
			return
		}
		if err := validateWeights(req.Weights); err != nil {
			writeError(w, r, err, map[string]string{"field": "weights"})
			return
		}
		if req.Limit == 0 {
			req.Limit = defaultRankLimit
		}

		ranked, err := s.Rank.Rank(r.Context(), req.JobID, req.CandidateIDs, req.MinScore, req.Limit, req.Weights)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"job_id":  req.JobID,
			"count":   len(ranked),
			"results": ranked,
		})
	}
}

// validateWeights rejects unknown metric names and non-positive weight sums.
func validateWeights(weights map[string]float64) error {
	if len(weights) == 0 {
		return nil
	}
	var sum float64
	for name, w := range weights {
		if _, ok := similarity.DefaultWeights[name]; !ok {
			return fmt.Errorf("%w: unknown metric %q", domain.ErrInvalidArgument, name)
		}
		if w < 0 {
			return fmt.Errorf("%w: weight for %q must be >= 0", domain.ErrInvalidArgument, name)
		}
		sum += w
	}
	if sum <= 0 {
		return fmt.Errorf("%w: weights must sum to a positive value", domain.ErrInvalidArgument)
	}
	return nil
}

// EvictJobCacheHandler drops the cached job context for one job.
func (s *Server) EvictJobCacheHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "id")
		if jobID == "" {
			writeError(w, r, fmt.Errorf("%w: job id missing", domain.ErrInvalidArgument), nil)
			return
		}
		if err := s.Rank.ClearCache(r.Context(), jobID); err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "evicted", "job_id": jobID})
	}
}

// EvictAllCacheHandler drops every cached job context.
func (s *Server) EvictAllCacheHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Rank.ClearCache(r.Context(), ""); err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "evicted"})
	}
}

// CacheInfoHandler lists the job ids with a locally cached context.
func (s *Server) CacheInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids := s.Rank.CachedJobIDs()
		writeJSON(w, http.StatusOK, map[string]any{"count": len(ids), "job_ids": ids})
	}
}

// ReadyzHandler returns a readiness handler that probes the database and,
// when configured, Redis.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 2)
		if s.DBCheck != nil {
			if err := s.DBCheck(ctx); err != nil {
				checks = append(checks, check{Name: "db", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "db", OK: true})
			}
		}
		if s.RedisCheck != nil {
			if err := s.RedisCheck(ctx); err != nil {
				checks = append(checks, check{Name: "redis", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "redis", OK: true})
			}
		}
		ok := true
		for _, c := range checks {
			if !c.OK {
				ok = false
				break
			}
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}

func parseFloatParam(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func parseIntParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
