// Package match builds scored, explained search results from index hits.
package match

import (
	"math"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
)

// Kind selects what a search returns.
type Kind string

// Search kinds.
const (
	Candidates Kind = "candidates"
	Jobs       Kind = "jobs"
)

const (
	explainSkills     = 3
	noSkillsRationale = "Semantic match based on overall profile"
)

// Collection returns the index collection searched for k.
func (k Kind) Collection() vector.Collection {
	if k == Jobs {
		return vector.Jobs
	}
	return vector.Resumes
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k == Candidates || k == Jobs }

// Match is one ranked search result. Score is a display value in [0,100].
type Match struct {
	Kind            Kind     `json:"kind"`
	ID              string   `json:"id"`
	Name            string   `json:"name,omitempty"`
	Title           string   `json:"title,omitempty"`
	Company         string   `json:"company,omitempty"`
	CurrentRole     string   `json:"current_role,omitempty"`
	ExperienceCount int      `json:"experience_years,omitempty"`
	Location        string   `json:"location,omitempty"`
	SalaryRange     string   `json:"salary_range,omitempty"`
	Skills          []string `json:"skills"`
	Score           float64  `json:"match_score"`
	Explanation     string   `json:"explanation"`
}

type hitMeta struct {
	Name            string   `mapstructure:"name"`
	Skills          []string `mapstructure:"skills"`
	CurrentRole     string   `mapstructure:"current_role"`
	ExperienceCount int      `mapstructure:"experience_count"`
	Title           string   `mapstructure:"title"`
	Company         string   `mapstructure:"company"`
	Location        string   `mapstructure:"location"`
	RequiredSkills  []string `mapstructure:"required_skills"`
	SalaryRange     string   `mapstructure:"salary_range"`
}

// FromHit converts an index hit into a match. Metadata is decoded leniently:
// missing or mistyped keys fall back to placeholders.
func FromHit(kind Kind, hit vector.Hit, query string) Match {
	var meta hitMeta
	_ = mapstructure.WeakDecode(hit.Metadata, &meta)

	m := Match{
		Kind:  kind,
		ID:    hit.ID,
		Score: Score(hit.Score),
	}

	switch kind {
	case Jobs:
		m.Title = orDefault(meta.Title, "Unknown Position")
		m.Company = orDefault(meta.Company, "Unknown Company")
		m.Location = meta.Location
		m.SalaryRange = meta.SalaryRange
		m.Skills = nonNil(meta.RequiredSkills)
	default:
		m.Name = orDefault(meta.Name, "Unknown")
		m.CurrentRole = meta.CurrentRole
		m.ExperienceCount = meta.ExperienceCount
		m.Skills = nonNil(meta.Skills)
	}

	m.Explanation = Explain(m.Skills, query)
	return m
}

// Score rescales a [0,1] similarity to the [0,100] display range with one decimal.
func Score(similarity float64) float64 {
	s := math.Round(similarity*1000) / 10
	return math.Max(0, math.Min(100, s))
}

// Explain derives a short rationale from indexed skills: skills mentioned in the
// query come first, otherwise the leading skills of the record.
func Explain(skills []string, query string) string {
	if len(skills) == 0 {
		return noSkillsRationale
	}

	q := strings.ToLower(query)
	picked := make([]string, 0, explainSkills)
	for _, s := range skills {
		if len(picked) == explainSkills {
			break
		}
		if q != "" && strings.Contains(q, strings.ToLower(s)) {
			picked = append(picked, s)
		}
	}
	if len(picked) == 0 {
		picked = skills[:min(explainSkills, len(skills))]
	}

	return "Matches on: " + strings.Join(picked, ", ")
}

// Props renders the match as a RankedList item.
func (m Match) Props() map[string]any {
	if m.Kind == Jobs {
		return map[string]any{
			"id":              m.ID,
			"title":           m.Title,
			"company":         m.Company,
			"match_score":     m.Score,
			"location":        m.Location,
			"salary_range":    m.SalaryRange,
			"required_skills": m.Skills,
			"explanation":     m.Explanation,
		}
	}
	return map[string]any{
		"id":               m.ID,
		"name":             m.Name,
		"match_score":      m.Score,
		"skills":           m.Skills,
		"experience_years": m.ExperienceCount,
		"current_role":     m.CurrentRole,
		"explanation":      m.Explanation,
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
