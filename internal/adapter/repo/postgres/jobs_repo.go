package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/hirestack/candidate-ranker/internal/domain"
)

// JobRepo persists and loads job records.
type JobRepo struct{ Pool PgxPool }

// NewJobRepo constructs a JobRepo with the given pool.
func NewJobRepo(p PgxPool) *JobRepo { return &JobRepo{Pool: p} }

// Create stores a new job record and returns its id (generates one if empty).
func (r *JobRepo) Create(ctx domain.Context, j domain.Job) (string, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.Create")
	defer span.End()
	id := j.ID
	if id == "" {
		id = uuid.New().String()
	}
	j.ID = id
	profile, err := json.Marshal(j)
	if err != nil {
		return "", fmt.Errorf("op=job.create: %w", err)
	}
	q := `INSERT INTO jobs (id, job_title, profile, created_at, updated_at) VALUES ($1,$2,$3,$4,$5)`
	now := time.Now().UTC()
	if _, err := r.Pool.Exec(ctx, q, id, j.JobTitle, profile, now, now); err != nil {
		return "", fmt.Errorf("op=job.create: %w", err)
	}
	return id, nil
}

// Get loads a job by id.
func (r *JobRepo) Get(ctx domain.Context, id string) (domain.Job, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.Get")
	defer span.End()
	q := `SELECT profile FROM jobs WHERE id=$1`
	var profile []byte
	if err := r.Pool.QueryRow(ctx, q, id).Scan(&profile); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, fmt.Errorf("op=job.get: %w", domain.ErrNotFound)
		}
		return domain.Job{}, fmt.Errorf("op=job.get: %w", err)
	}
	var j domain.Job
	if err := json.Unmarshal(profile, &j); err != nil {
		return domain.Job{}, fmt.Errorf("op=job.get: %w", err)
	}
	j.ID = id
	return j, nil
}
