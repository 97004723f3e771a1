// Package intent defines the closed set of routing labels and the classifier decision.
package intent

import "strings"

// Intent is a routing label produced by the classifier.
type Intent string

// Closed enumeration of routing labels.
const (
	IngestResume     Intent = "ingest-resume"
	IngestJob        Intent = "ingest-job"
	SearchCandidates Intent = "search-candidates"
	SearchJobs       Intent = "search-jobs"
	ChatAboutResume  Intent = "chat-about-resume"
	ChatAboutJob     Intent = "chat-about-job"
	GeneralChat      Intent = "general-chat"
)

// Fallback is the label used whenever a reply cannot be mapped onto the enumeration.
const Fallback = GeneralChat

// FallbackConfidence is attached to decisions produced without a usable classifier reply.
const FallbackConfidence = 0.5

var all = []Intent{
	IngestResume, IngestJob,
	SearchCandidates, SearchJobs,
	ChatAboutResume, ChatAboutJob,
	GeneralChat,
}

// aliases maps labels emitted by older prompt versions onto the enumeration.
var aliases = map[string]Intent{
	"upload-resume": IngestResume,
	"parse-resume":  IngestResume,
	"upload-job":    IngestJob,
	"parse-job":     IngestJob,
	"chat-resume":   ChatAboutResume,
	"chat-job":      ChatAboutJob,
	"chat":          GeneralChat,
}

// All returns every member of the enumeration in declaration order.
func All() []Intent {
	out := make([]Intent, len(all))
	copy(out, all)
	return out
}

// Valid reports whether i is a member of the enumeration.
func (i Intent) Valid() bool {
	for _, v := range all {
		if v == i {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (i Intent) String() string { return string(i) }

// Parse normalizes a raw label. Case, surrounding space and "_" or " " separators
// are ignored. Unknown labels map to Fallback and ok is false.
func Parse(raw string) (Intent, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)

	if i := Intent(s); i.Valid() {
		return i, true
	}
	if i, found := aliases[s]; found {
		return i, true
	}
	return Fallback, false
}

// IsIngest reports whether i routes to a document-ingest handler.
func (i Intent) IsIngest() bool { return i == IngestResume || i == IngestJob }

// IsSearch reports whether i routes to the search handler.
func (i Intent) IsSearch() bool { return i == SearchCandidates || i == SearchJobs }
