package similarity

import (
	"sync"

	"github.com/hirestack/candidate-ranker/internal/domain"
)

// stubEmbedder returns deterministic vectors derived from the text content,
// so identical texts always embed identically. When vectors is set, it wins
// over the derived value. err fails every call.
type stubEmbedder struct {
	mu      sync.Mutex
	calls   int
	err     error
	vectors map[string][]float32
}

func (s *stubEmbedder) Embed(_ domain.Context, texts []string) ([][]float32, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := s.vectors[t]; ok {
			out[i] = v
			continue
		}
		out[i] = deriveVector(t)
	}
	return out, nil
}

func deriveVector(text string) []float32 {
	v := make([]float32, 8)
	for i, r := range text {
		v[i%8] += float32(r % 31)
	}
	// Never return the zero vector for non-empty text.
	v[0] += 1
	return v
}

// countingJobRepo records Get calls; used by cache tests.
type countingJobRepo struct {
	mu    sync.Mutex
	calls int
	jobs  map[string]domain.Job
}

func (r *countingJobRepo) Create(_ domain.Context, j domain.Job) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.jobs == nil {
		r.jobs = make(map[string]domain.Job)
	}
	r.jobs[j.ID] = j
	return j.ID, nil
}

func (r *countingJobRepo) Get(_ domain.Context, id string) (domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	j, ok := r.jobs[id]
	if !ok {
		return domain.Job{}, domain.ErrNotFound
	}
	return j, nil
}

func (r *countingJobRepo) getCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// mapCandidateRepo is an in-memory candidate repository for engine tests.
type mapCandidateRepo struct {
	candidates map[string]domain.Candidate
	order      []string
}

func (r *mapCandidateRepo) Create(_ domain.Context, c domain.Candidate) (string, error) {
	if r.candidates == nil {
		r.candidates = make(map[string]domain.Candidate)
	}
	r.candidates[c.ID] = c
	r.order = append(r.order, c.ID)
	return c.ID, nil
}

func (r *mapCandidateRepo) Get(_ domain.Context, id string) (domain.Candidate, error) {
	c, ok := r.candidates[id]
	if !ok {
		return domain.Candidate{}, domain.ErrNotFound
	}
	return c, nil
}

func (r *mapCandidateRepo) List(_ domain.Context, offset, limit int, _ string) ([]domain.Candidate, error) {
	out := make([]domain.Candidate, 0, len(r.order))
	for i, id := range r.order {
		if i < offset {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, r.candidates[id])
	}
	return out, nil
}
