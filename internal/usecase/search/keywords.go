package search

import (
	"strings"

	"github.com/kailas-cloud/talentmatch/internal/domain/match"
)

var showAllCandidates = []string{
	"all candidates", "all candidate", "show me candidates", "show me candidate",
	"list candidates", "list candidate", "all the candidates", "all the candidate",
	"every candidate", "available candidates", "available candidate",
	"best match", "best candidates", "matching candidates", "find candidates",
	"show candidates", "show candidate", "candidates for", "candidate for",
}

var showAllJobs = []string{
	"all jobs", "all job", "show me jobs", "show me job", "show jobs", "show job",
	"list jobs", "list job", "all the jobs", "all the job", "every job",
	"available jobs", "available job", "job openings", "job opening",
	"best job", "jobs for me", "job for me", "find jobs", "find job",
	"matching jobs", "matching job", "recommended jobs", "recommended job",
	"available jon", "available position", "open positions",
}

// IsShowAll reports whether query asks for an unfiltered listing.
// Matching is a case-insensitive substring test against a fixed keyword list per kind.
func IsShowAll(kind match.Kind, query string) bool {
	keywords := showAllCandidates
	if kind == match.Jobs {
		keywords = showAllJobs
	}

	q := strings.ToLower(query)
	for _, k := range keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}
