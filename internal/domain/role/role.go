// Package role defines the two caller roles.
package role

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/talentmatch/internal/domain"
)

// Role is the caller's side of the marketplace.
type Role string

// Supported roles.
const (
	Candidate Role = "candidate"
	Recruiter Role = "recruiter"
)

// Parse validates a raw role string (case-insensitive).
func Parse(raw string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case Candidate, Recruiter:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidRole, raw)
	}
}

// Valid reports whether r is one of the supported roles.
func (r Role) Valid() bool { return r == Candidate || r == Recruiter }

func (r Role) String() string { return string(r) }
