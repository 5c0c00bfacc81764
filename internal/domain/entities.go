// Package domain holds the core entities and ports of the candidate ranker.
package domain

import (
	"context"
	"errors"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUpstreamTimeout = errors.New("upstream timeout")
	ErrInternal        = errors.New("internal error")
)

// Education is one entry in a candidate's educational background.
type Education struct {
	Degree         string `json:"degree"`
	FieldOfStudy   string `json:"field_of_study"`
	Institution    string `json:"institution,omitempty"`
	GraduationYear string `json:"graduation_year,omitempty"`
}

// Experience is one position in a candidate's work history.
type Experience struct {
	JobTitle         string   `json:"job_title"`
	Company          string   `json:"company,omitempty"`
	Duration         string   `json:"duration,omitempty"`
	Responsibilities []string `json:"responsibilities"`
}

// SkillGroup is a named bag of skills. Candidate profiles group skills by
// category; job records may carry the same shape under several fields, where
// extractors populate either Requirements, Skills, or a single Name depending
// on the upstream source.
type SkillGroup struct {
	Category     string   `json:"category,omitempty"`
	Name         string   `json:"name,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
}

// Certification is a professional certification held or required.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
}

// LanguageSkill is a language the candidate speaks with a proficiency label.
type LanguageSkill struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

// LanguageRequirement is a language a job requires at a given level.
// Level and Proficiency are alternative spellings from different extractors;
// Level wins when both are set.
type LanguageRequirement struct {
	Language    string `json:"language"`
	Level       string `json:"level,omitempty"`
	Proficiency string `json:"proficiency,omitempty"`
}

// Candidate is the profile the similarity engine scores. The engine reads it
// and never mutates it.
type Candidate struct {
	ID                string          `json:"id,omitempty"`
	FullName          string          `json:"full_name"`
	Summary           string          `json:"summary"`
	YearsOfExperience int             `json:"years_of_experience"`
	Education         []Education     `json:"education"`
	Experience        []Experience    `json:"experience"`
	Skills            []SkillGroup    `json:"skills"`
	Certifications    []Certification `json:"certifications"`
	Languages         []LanguageSkill `json:"languages"`
}

// Job is the requirements side of a match. Skill, certification and language
// requirements may appear under several fields because the upstream
// extraction does not normalize them; the job-context builder scans all of
// them in a fixed priority order.
type Job struct {
	ID               string   `json:"id,omitempty"`
	JobTitle         string   `json:"job_title"`
	JobSummary       string   `json:"job_summary"`
	JobDescription   string   `json:"job_description"`
	Responsibilities []string `json:"responsibilities"`

	RequiredSkills  []SkillGroup `json:"required_skills"`
	Skills          []SkillGroup `json:"skills,omitempty"`
	TechnicalSkills []SkillGroup `json:"technical_skills,omitempty"`
	CoreSkills      []SkillGroup `json:"core_skills,omitempty"`

	EducationRequirements []string `json:"education_requirements"`

	RequiredLanguages    []LanguageRequirement `json:"required_languages,omitempty"`
	Languages            []LanguageRequirement `json:"languages,omitempty"`
	LanguageRequirements []LanguageRequirement `json:"language_requirements,omitempty"`

	RequiredCertifications    []Certification `json:"required_certifications,omitempty"`
	Certifications            []Certification `json:"certifications,omitempty"`
	CertificationRequirements []Certification `json:"certification_requirements,omitempty"`
	PreferredCertifications   []Certification `json:"preferred_certifications,omitempty"`

	MinYearsExperience int    `json:"min_years_experience"`
	MaxYearsExperience *int   `json:"max_years_experience,omitempty"`
	SeniorityLevel     string `json:"seniority_level"`
}

// SimilarityScore is the per candidate x job scoring result. All scores are
// in [0,1] and rounded to 4 decimal places.
type SimilarityScore struct {
	OverallScore       float64        `json:"overall_score"`
	SkillsScore        float64        `json:"skills_score"`
	ExperienceScore    float64        `json:"experience_score"`
	EducationScore     float64        `json:"education_score"`
	SemanticSimilarity float64        `json:"semantic_similarity"`
	SeniorityMatch     float64        `json:"seniority_match"`
	DetailedBreakdown  map[string]any `json:"detailed_breakdown"`
}

// Repositories (ports)

type CandidateRepository interface {
	Create(ctx Context, c Candidate) (string, error)
	Get(ctx Context, id string) (Candidate, error)
	List(ctx Context, offset, limit int, search string) ([]Candidate, error)
}

type JobRepository interface {
	Create(ctx Context, j Job) (string, error)
	Get(ctx Context, id string) (Job, error)
}

// EmbeddingClient (port)

type EmbeddingClient interface {
	// Embed returns one vector per input text.
	Embed(ctx Context, texts []string) ([][]float32, error)
}

// CacheInvalidator (port) broadcasts job-context evictions to peer replicas.
// An empty jobID means "evict everything".
type CacheInvalidator interface {
	PublishEvict(ctx Context, jobID string) error
}

// Context is an alias to context.Context so ports read uniformly.
type Context = context.Context
