// Package postgres provides PostgreSQL repository adapters. Candidate and
// job profiles are stored as JSONB documents with a few extracted columns
// for search.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"

	"github.com/hirestack/candidate-ranker/internal/domain"
)

// PgxPool is a minimal subset of pgxpool used by the repos for easy testing.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CandidateRepo persists and loads candidate profiles.
type CandidateRepo struct{ Pool PgxPool }

// NewCandidateRepo constructs a CandidateRepo with the given pool.
func NewCandidateRepo(p PgxPool) *CandidateRepo { return &CandidateRepo{Pool: p} }

// Create stores a new candidate profile and returns its id (generates one if
// empty).
func (r *CandidateRepo) Create(ctx domain.Context, c domain.Candidate) (string, error) {
	tracer := otel.Tracer("repo.candidates")
	ctx, span := tracer.Start(ctx, "candidates.Create")
	defer span.End()
	id := c.ID
	if id == "" {
		id = uuid.New().String()
	}
	c.ID = id
	profile, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("op=candidate.create: %w", err)
	}
	q := `INSERT INTO candidates (id, full_name, profile, created_at, updated_at) VALUES ($1,$2,$3,$4,$5)`
	now := time.Now().UTC()
	if _, err := r.Pool.Exec(ctx, q, id, c.FullName, profile, now, now); err != nil {
		return "", fmt.Errorf("op=candidate.create: %w", err)
	}
	return id, nil
}

// Get loads a candidate by id.
func (r *CandidateRepo) Get(ctx domain.Context, id string) (domain.Candidate, error) {
	tracer := otel.Tracer("repo.candidates")
	ctx, span := tracer.Start(ctx, "candidates.Get")
	defer span.End()
	q := `SELECT profile FROM candidates WHERE id=$1`
	var profile []byte
	if err := r.Pool.QueryRow(ctx, q, id).Scan(&profile); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Candidate{}, fmt.Errorf("op=candidate.get: %w", domain.ErrNotFound)
		}
		return domain.Candidate{}, fmt.Errorf("op=candidate.get: %w", err)
	}
	var c domain.Candidate
	if err := json.Unmarshal(profile, &c); err != nil {
		return domain.Candidate{}, fmt.Errorf("op=candidate.get: %w", err)
	}
	c.ID = id
	return c, nil
}

// List returns candidates ordered by creation time, optionally filtered by a
// case-insensitive name search.
func (r *CandidateRepo) List(ctx domain.Context, offset, limit int, search string) ([]domain.Candidate, error) {
	tracer := otel.Tracer("repo.candidates")
	ctx, span := tracer.Start(ctx, "candidates.List")
	defer span.End()
	q := `SELECT id, profile FROM candidates WHERE ($3 = '' OR full_name ILIKE '%' || $3 || '%') ORDER BY created_at, id OFFSET $1 LIMIT $2`
	rows, err := r.Pool.Query(ctx, q, offset, limit, search)
	if err != nil {
		return nil, fmt.Errorf("op=candidate.list: %w", err)
	}
	defer rows.Close()
	var out []domain.Candidate
	for rows.Next() {
		var id string
		var profile []byte
		if err := rows.Scan(&id, &profile); err != nil {
			return nil, fmt.Errorf("op=candidate.list: %w", err)
		}
		var c domain.Candidate
		if err := json.Unmarshal(profile, &c); err != nil {
			return nil, fmt.Errorf("op=candidate.list: %w", err)
		}
		c.ID = id
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=candidate.list: %w", err)
	}
	return out, nil
}
