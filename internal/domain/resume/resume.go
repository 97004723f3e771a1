// Package resume holds the structured candidate record extracted from free text.
package resume

import (
	"fmt"
	"strings"
	"time"
)

// MaxFallbackRunes bounds the raw-text prefix used when no structured field is usable.
const MaxFallbackRunes = 2000

const (
	topExperiences = 3
)

// Experience is one work history entry.
type Experience struct {
	Title       string `json:"title" mapstructure:"title"`
	Company     string `json:"company" mapstructure:"company"`
	Duration    string `json:"duration" mapstructure:"duration"`
	Description string `json:"description,omitempty" mapstructure:"description"`
}

// Education is one education entry.
type Education struct {
	Degree      string `json:"degree" mapstructure:"degree"`
	Institution string `json:"institution,omitempty" mapstructure:"institution"`
	Year        string `json:"year,omitempty" mapstructure:"year"`
}

// Parsed is the structured part of a resume.
type Parsed struct {
	Name       string       `json:"name" mapstructure:"name"`
	Email      string       `json:"email" mapstructure:"email"`
	Phone      string       `json:"phone" mapstructure:"phone"`
	Skills     []string     `json:"skills" mapstructure:"skills"`
	Experience []Experience `json:"experience" mapstructure:"experience"`
	Education  []Education  `json:"education" mapstructure:"education"`
	Summary    string       `json:"summary" mapstructure:"summary"`
}

// Resume is a persisted candidate record.
type Resume struct {
	ID          string    `json:"id"`
	CandidateID string    `json:"candidate_id"`
	FileName    string    `json:"file_name,omitempty"`
	RawText     string    `json:"raw_text"`
	Parsed      Parsed    `json:"parsed_data"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Sanitize trims every field, keeps experience entries with both title and company,
// keeps education entries with a degree and replaces nil lists with empty ones.
func (p Parsed) Sanitize() Parsed {
	out := Parsed{
		Name:       strings.TrimSpace(p.Name),
		Email:      strings.TrimSpace(p.Email),
		Phone:      strings.TrimSpace(p.Phone),
		Summary:    strings.TrimSpace(p.Summary),
		Skills:     cleanList(p.Skills),
		Experience: make([]Experience, 0, len(p.Experience)),
		Education:  make([]Education, 0, len(p.Education)),
	}

	for _, e := range p.Experience {
		e = Experience{
			Title:       strings.TrimSpace(e.Title),
			Company:     strings.TrimSpace(e.Company),
			Duration:    strings.TrimSpace(e.Duration),
			Description: strings.TrimSpace(e.Description),
		}
		if e.Title == "" || e.Company == "" {
			continue
		}
		out.Experience = append(out.Experience, e)
	}

	for _, e := range p.Education {
		e = Education{
			Degree:      strings.TrimSpace(e.Degree),
			Institution: strings.TrimSpace(e.Institution),
			Year:        strings.TrimSpace(e.Year),
		}
		if e.Degree == "" {
			continue
		}
		out.Education = append(out.Education, e)
	}

	return out
}

// EmbeddingText builds the canonical text that represents the resume in the index:
// summary, skills, then the top experience entries. Falls back to a raw-text prefix.
func (p Parsed) EmbeddingText(rawText string) string {
	var parts []string

	if p.Summary != "" {
		parts = append(parts, "Summary: "+p.Summary)
	}
	if len(p.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(p.Skills, ", "))
	}
	for i, e := range p.Experience {
		if i == topExperiences {
			break
		}
		line := fmt.Sprintf("%s at %s", e.Title, e.Company)
		if e.Description != "" {
			line += ": " + e.Description
		}
		parts = append(parts, line)
	}

	if len(parts) == 0 {
		return Truncate(rawText, MaxFallbackRunes)
	}
	return strings.Join(parts, "\n")
}

// CurrentRole returns "title at company" of the most recent experience entry.
func (p Parsed) CurrentRole() string {
	if len(p.Experience) == 0 {
		return ""
	}
	e := p.Experience[0]
	return e.Title + " at " + e.Company
}

// DisplayName returns the candidate name or a neutral placeholder.
func (p Parsed) DisplayName() string {
	if p.Name == "" {
		return "candidate"
	}
	return p.Name
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
