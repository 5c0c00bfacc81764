package similarity

import (
	"context"
	"strings"
	"sync"

	"github.com/hirestack/candidate-ranker/internal/domain"
)

// requiredLanguage is a job language requirement normalized to lower case.
type requiredLanguage struct {
	Language      string
	RequiredLevel string
}

// JobContext is the cached, pre-extracted projection of a job record that
// every metric consumes. It is immutable once built except for the lazily
// constructed responsibility embedding index, which transitions once from
// absent to present and is read-only afterwards.
type JobContext struct {
	JobID                  string
	Job                    domain.Job
	RequiredSkills         []string
	ResponsibilitiesText   string
	EducationRequirements  []string
	RequiredLanguages      []requiredLanguage
	RequiredCertifications []string
	MinYearsExperience     int
	MaxYearsExperience     *int
	SeniorityLevel         string
	JobSummary             string

	idxMu sync.Mutex
	idx   *embeddingIndex
}

// BuildJobContext extracts everything the metrics need from a job record.
// Missing fields default to empty/neutral values; the builder never fails.
func BuildJobContext(jobID string, job domain.Job) *JobContext {
	return &JobContext{
		JobID:                  jobID,
		Job:                    job,
		RequiredSkills:         extractJobRequiredSkills(job),
		ResponsibilitiesText:   extractJobResponsibilitiesText(job),
		EducationRequirements:  append([]string(nil), job.EducationRequirements...),
		RequiredLanguages:      extractJobRequiredLanguages(job),
		RequiredCertifications: extractJobRequiredCertifications(job),
		MinYearsExperience:     job.MinYearsExperience,
		MaxYearsExperience:     job.MaxYearsExperience,
		SeniorityLevel:         job.SeniorityLevel,
		JobSummary:             job.JobSummary,
	}
}

// responsibilityIndex returns the embedding index over the job
// responsibilities text, building it on first use. A failed build leaves the
// index absent so a later call may retry.
func (jc *JobContext) responsibilityIndex(ctx context.Context, embedder domain.EmbeddingClient) (*embeddingIndex, error) {
	jc.idxMu.Lock()
	defer jc.idxMu.Unlock()
	if jc.idx != nil {
		return jc.idx, nil
	}
	ix, err := newEmbeddingIndex(ctx, embedder, []string{"Job requirements: " + jc.ResponsibilitiesText})
	if err != nil {
		return nil, err
	}
	jc.idx = ix
	return ix, nil
}

// extractJobRequiredSkills flattens skill requirements across the job fields
// that different upstream extractors populate, in a fixed priority order.
// Names are lower-cased so matching is case-insensitive; duplicates are kept
// (set arithmetic at match time handles them).
func extractJobRequiredSkills(job domain.Job) []string {
	var skills []string
	for _, groups := range [][]domain.SkillGroup{job.RequiredSkills, job.Skills, job.TechnicalSkills, job.CoreSkills} {
		for _, g := range groups {
			switch {
			case len(g.Requirements) > 0:
				skills = append(skills, g.Requirements...)
			case len(g.Skills) > 0:
				skills = append(skills, g.Skills...)
			case g.Name != "":
				skills = append(skills, g.Name)
			}
		}
	}
	return normalizeSkills(skills)
}

func normalizeSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// extractJobResponsibilitiesText joins description, summary, and each
// responsibility line into one space-separated blob.
func extractJobResponsibilitiesText(job domain.Job) string {
	parts := make([]string, 0, 2+len(job.Responsibilities))
	if job.JobDescription != "" {
		parts = append(parts, job.JobDescription)
	}
	if job.JobSummary != "" {
		parts = append(parts, job.JobSummary)
	}
	parts = append(parts, job.Responsibilities...)
	return strings.TrimSpace(strings.Join(parts, " "))
}

func extractJobRequiredLanguages(job domain.Job) []requiredLanguage {
	var langs []requiredLanguage
	for _, reqs := range [][]domain.LanguageRequirement{job.RequiredLanguages, job.Languages, job.LanguageRequirements} {
		for _, lr := range reqs {
			name := strings.ToLower(strings.TrimSpace(lr.Language))
			if name == "" {
				continue
			}
			level := strings.ToLower(strings.TrimSpace(lr.Level))
			if level == "" {
				level = strings.ToLower(strings.TrimSpace(lr.Proficiency))
			}
			if level == "" {
				level = "basic"
			}
			langs = append(langs, requiredLanguage{Language: name, RequiredLevel: level})
		}
	}
	return langs
}

func extractJobRequiredCertifications(job domain.Job) []string {
	var certs []string
	for _, reqs := range [][]domain.Certification{job.RequiredCertifications, job.Certifications, job.CertificationRequirements, job.PreferredCertifications} {
		for _, c := range reqs {
			name := strings.ToLower(strings.TrimSpace(c.Name))
			if name != "" {
				certs = append(certs, name)
			}
		}
	}
	return certs
}
