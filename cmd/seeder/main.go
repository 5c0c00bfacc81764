// Command seeder loads candidate and job fixtures from a YAML file into the
// database. Intended for local development and demo environments.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hirestack/candidate-ranker/internal/adapter/observability"
	"github.com/hirestack/candidate-ranker/internal/adapter/repo/postgres"
	"github.com/hirestack/candidate-ranker/internal/config"
	"github.com/hirestack/candidate-ranker/internal/domain"
)

type fixtures struct {
	Candidates []map[string]any `yaml:"candidates"`
	Jobs       []map[string]any `yaml:"jobs"`
}

func main() {
	var path string
	flag.StringVar(&path, "f", "fixtures/seed.yaml", "path to the YAML fixtures file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	slog.SetDefault(observability.SetupLogger(cfg))

	raw, err := os.ReadFile(path)
	if err != nil {
		slog.Error("read fixtures failed", slog.String("path", path), slog.Any("error", err))
		os.Exit(1)
	}
	var fx fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		slog.Error("parse fixtures failed", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	candidateRepo := postgres.NewCandidateRepo(pool)
	jobRepo := postgres.NewJobRepo(pool)

	for i, m := range fx.Candidates {
		var c domain.Candidate
		if err := remarshal(m, &c); err != nil {
			slog.Error("candidate fixture invalid", slog.Int("index", i), slog.Any("error", err))
			os.Exit(1)
		}
		id, err := candidateRepo.Create(ctx, c)
		if err != nil {
			slog.Error("candidate insert failed", slog.Int("index", i), slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("candidate seeded", slog.String("id", id), slog.String("name", c.FullName))
	}
	for i, m := range fx.Jobs {
		var j domain.Job
		if err := remarshal(m, &j); err != nil {
			slog.Error("job fixture invalid", slog.Int("index", i), slog.Any("error", err))
			os.Exit(1)
		}
		id, err := jobRepo.Create(ctx, j)
		if err != nil {
			slog.Error("job insert failed", slog.Int("index", i), slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("job seeded", slog.String("id", id), slog.String("title", j.JobTitle))
	}
	slog.Info("seeding complete",
		slog.Int("candidates", len(fx.Candidates)),
		slog.Int("jobs", len(fx.Jobs)))
}

// remarshal converts a YAML-decoded map into a domain struct via its JSON
// tags, so fixtures use the same field names as the API.
func remarshal(m map[string]any, out any) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
