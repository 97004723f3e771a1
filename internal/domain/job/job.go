// Package job holds the structured job record extracted from a job description.
package job

import (
	"strings"
	"time"

	"github.com/kailas-cloud/talentmatch/internal/domain/resume"
)

const topListItems = 5

// Parsed is the structured part of a job description.
type Parsed struct {
	Title            string   `json:"title" mapstructure:"title"`
	Company          string   `json:"company" mapstructure:"company"`
	Location         string   `json:"location" mapstructure:"location"`
	RequiredSkills   []string `json:"required_skills" mapstructure:"required_skills"`
	Responsibilities []string `json:"responsibilities" mapstructure:"responsibilities"`
	Qualifications   []string `json:"qualifications" mapstructure:"qualifications"`
	SalaryRange      string   `json:"salary_range" mapstructure:"salary_range"`
	JobType          string   `json:"job_type" mapstructure:"job_type"`
}

// Job is a persisted job record.
type Job struct {
	ID          string    `json:"id"`
	RecruiterID string    `json:"recruiter_id"`
	FileName    string    `json:"file_name,omitempty"`
	RawText     string    `json:"raw_text"`
	Parsed      Parsed    `json:"parsed_data"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Sanitize trims every field and replaces nil lists with empty ones.
func (p Parsed) Sanitize() Parsed {
	return Parsed{
		Title:            strings.TrimSpace(p.Title),
		Company:          strings.TrimSpace(p.Company),
		Location:         strings.TrimSpace(p.Location),
		RequiredSkills:   cleanList(p.RequiredSkills),
		Responsibilities: cleanList(p.Responsibilities),
		Qualifications:   cleanList(p.Qualifications),
		SalaryRange:      strings.TrimSpace(p.SalaryRange),
		JobType:          strings.TrimSpace(p.JobType),
	}
}

// EmbeddingText builds the canonical text that represents the job in the index.
// Falls back to a raw-text prefix when no structured field is usable.
func (p Parsed) EmbeddingText(rawText string) string {
	var parts []string

	if p.Title != "" {
		parts = append(parts, "Job Title: "+p.Title)
	}
	if p.Company != "" {
		parts = append(parts, "Company: "+p.Company)
	}
	if len(p.RequiredSkills) > 0 {
		parts = append(parts, "Required Skills: "+strings.Join(p.RequiredSkills, ", "))
	}
	if len(p.Responsibilities) > 0 {
		parts = append(parts, "Responsibilities: "+strings.Join(head(p.Responsibilities), "; "))
	}
	if len(p.Qualifications) > 0 {
		parts = append(parts, "Qualifications: "+strings.Join(head(p.Qualifications), "; "))
	}

	if len(parts) == 0 {
		return resume.Truncate(rawText, resume.MaxFallbackRunes)
	}
	return strings.Join(parts, "\n")
}

// DisplayTitle returns the job title or a neutral placeholder.
func (p Parsed) DisplayTitle() string {
	if p.Title == "" {
		return "position"
	}
	return p.Title
}

func head(items []string) []string {
	if len(items) > topListItems {
		return items[:topListItems]
	}
	return items
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
