// Integration tests exercise the real Postgres repositories against a
// containerized database. They are skipped unless INTEGRATION=1 is set,
// since they require a local Docker daemon.
package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/hirestack/candidate-ranker/internal/adapter/repo/postgres"
	"github.com/hirestack/candidate-ranker/internal/domain"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS candidates (
    id TEXT PRIMARY KEY,
    full_name TEXT NOT NULL DEFAULT '',
    profile JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS jobs (
    id TEXT PRIMARY KEY,
    job_title TEXT NOT NULL DEFAULT '',
    profile JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
}

func TestPostgresRepos_RoundTrip(t *testing.T) {
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run container-backed tests")
	}
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16",
		Env:          map[string]string{"POSTGRES_PASSWORD": "postgres", "POSTGRES_USER": "postgres", "POSTGRES_DB": "app"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithStartupTimeout(90 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: pgReq, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)
	dsn := "postgres://postgres:postgres@" + host + ":" + port.Port() + "/app?sslmode=disable"

	pool, err := postgres.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.Eventually(t, func() bool { return pool.Ping(ctx) == nil }, 30*time.Second, time.Second)

	for _, stmt := range schema {
		_, err = pool.Exec(ctx, stmt)
		require.NoError(t, err)
	}

	candidates := postgres.NewCandidateRepo(pool)
	jobs := postgres.NewJobRepo(pool)

	cid, err := candidates.Create(ctx, domain.Candidate{
		FullName:          "Ada Moreno",
		Summary:           "Backend engineer",
		YearsOfExperience: 8,
		Skills:            []domain.SkillGroup{{Skills: []string{"Python", "Go"}}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, cid)

	got, err := candidates.Get(ctx, cid)
	require.NoError(t, err)
	require.Equal(t, "Ada Moreno", got.FullName)
	require.Equal(t, 8, got.YearsOfExperience)
	require.Equal(t, []string{"Python", "Go"}, got.Skills[0].Skills)

	_, err = candidates.Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	list, err := candidates.List(ctx, 0, 10, "ada")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, cid, list[0].ID)

	empty, err := candidates.List(ctx, 0, 10, "nobody")
	require.NoError(t, err)
	require.Empty(t, empty)

	jid, err := jobs.Create(ctx, domain.Job{
		JobTitle:           "Senior Backend Engineer",
		MinYearsExperience: 5,
		SeniorityLevel:     "senior",
	})
	require.NoError(t, err)

	job, err := jobs.Get(ctx, jid)
	require.NoError(t, err)
	require.Equal(t, "Senior Backend Engineer", job.JobTitle)
	require.Equal(t, 5, job.MinYearsExperience)

	_, err = jobs.Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
