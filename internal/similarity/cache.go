package similarity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/hirestack/candidate-ranker/internal/adapter/observability"
	"github.com/hirestack/candidate-ranker/internal/domain"
)

// ContextCache holds one JobContext per job id for the lifetime of the
// process. Entries are built lazily on first access and live until evicted
// explicitly; staleness after a job update is the caller's responsibility.
type ContextCache struct {
	jobs  domain.JobRepository
	group singleflight.Group

	mu sync.RWMutex
	m  map[string]*JobContext
}

// NewContextCache constructs an empty cache backed by the given job lookup.
func NewContextCache(jobs domain.JobRepository) *ContextCache {
	return &ContextCache{jobs: jobs, m: make(map[string]*JobContext)}
}

// GetOrBuild returns the cached context for jobID, building and storing it on
// first call. Concurrent callers for the same jobID share a single build.
// Returns domain.ErrNotFound (wrapped) when the job record does not exist.
func (c *ContextCache) GetOrBuild(ctx context.Context, jobID string) (*JobContext, error) {
	c.mu.RLock()
	jc, ok := c.m[jobID]
	c.mu.RUnlock()
	if ok {
		observability.JobContextCacheHits.Inc()
		return jc, nil
	}
	v, err, _ := c.group.Do(jobID, func() (any, error) {
		// A racing caller may have finished the build before we entered
		// the group; re-check before hitting the repository.
		c.mu.RLock()
		jc, ok := c.m[jobID]
		c.mu.RUnlock()
		if ok {
			return jc, nil
		}
		observability.JobContextCacheMisses.Inc()
		job, err := c.jobs.Get(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("op=jobcontext.build: %w", err)
		}
		built := BuildJobContext(jobID, job)
		c.mu.Lock()
		c.m[jobID] = built
		c.mu.Unlock()
		slog.Info("job context built and cached",
			slog.String("job_id", jobID),
			slog.String("job_title", job.JobTitle),
			slog.Int("required_skills", len(built.RequiredSkills)))
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*JobContext), nil
}

// Evict removes the cached context for jobID. No-op when absent.
func (c *ContextCache) Evict(jobID string) {
	c.mu.Lock()
	delete(c.m, jobID)
	c.mu.Unlock()
	slog.Info("job context evicted", slog.String("job_id", jobID))
}

// EvictAll drops every cached context.
func (c *ContextCache) EvictAll() {
	c.mu.Lock()
	c.m = make(map[string]*JobContext)
	c.mu.Unlock()
	slog.Info("all job contexts evicted")
}

// CachedIDs returns the ids of all cached job contexts.
func (c *ContextCache) CachedIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.m))
	for id := range c.m {
		ids = append(ids, id)
	}
	return ids
}
