// Package chat holds conversation sessions and their append-only turns.
package chat

import (
	"strings"
	"time"

	"github.com/kailas-cloud/talentmatch/internal/domain/envelope"
)

// HistoryWindow is the number of most recent turns replayed into a prompt.
const HistoryWindow = 10

// TurnRole is the author of a turn.
type TurnRole string

// Turn authors.
const (
	TurnUser      TurnRole = "user"
	TurnAssistant TurnRole = "assistant"
	TurnSystem    TurnRole = "system"
)

// BindingType names the kind of records attached to a session.
type BindingType string

// Context binding types.
const (
	BindResume      BindingType = "resume"
	BindJob         BindingType = "job"
	BindMultiResume BindingType = "multi_resume"
	BindResumeJob   BindingType = "resume_job"
)

// Binding attaches a session to one or more structured records.
type Binding struct {
	Type BindingType `json:"type,omitempty"`
	IDs  []string    `json:"ids,omitempty"`
}

// NewBinding validates a raw binding. Unknown types and empty id lists yield
// an empty binding rather than an error.
func NewBinding(rawType string, ids []string) Binding {
	t := BindingType(strings.ToLower(strings.TrimSpace(rawType)))
	switch t {
	case BindResume, BindJob, BindMultiResume, BindResumeJob:
	default:
		return Binding{}
	}

	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			clean = append(clean, id)
		}
	}
	if len(clean) == 0 {
		return Binding{}
	}
	return Binding{Type: t, IDs: clean}
}

// IsEmpty reports whether no records are attached.
func (b Binding) IsEmpty() bool { return b.Type == "" || len(b.IDs) == 0 }

// ResumeIDs returns the resume ids referenced by the binding.
func (b Binding) ResumeIDs() []string {
	switch b.Type {
	case BindResume, BindResumeJob:
		return b.IDs[:1]
	case BindMultiResume:
		return b.IDs
	default:
		return nil
	}
}

// JobIDs returns the job ids referenced by the binding.
// For resume_job the job is the second id.
func (b Binding) JobIDs() []string {
	switch b.Type {
	case BindJob:
		return b.IDs[:1]
	case BindResumeJob:
		if len(b.IDs) > 1 {
			return b.IDs[1:2]
		}
	}
	return nil
}

// Session is a conversation owned by one user.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Binding   Binding   `json:"context"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Turn is an immutable message within a session.
type Turn struct {
	ID         string               `json:"id"`
	SessionID  string               `json:"session_id"`
	Role       TurnRole             `json:"role"`
	Content    string               `json:"content"`
	Components []envelope.Component `json:"ui_components,omitempty"`
	Actions    []envelope.Action    `json:"actions,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}
