// Package vector defines the entries and queries exchanged with the similarity index.
package vector

// Collection names a logical index.
type Collection string

// Indexed collections.
const (
	Resumes Collection = "resumes"
	Jobs    Collection = "jobs"
)

// Metadata keys written at ingest time and read back by search.
const (
	MetaType            = "type"
	MetaOwner           = "owner_id"
	MetaName            = "name"
	MetaSkills          = "skills"
	MetaSummary         = "summary"
	MetaCurrentRole     = "current_role"
	MetaExperienceCount = "experience_count"
	MetaTitle           = "title"
	MetaCompany         = "company"
	MetaLocation        = "location"
	MetaRequiredSkills  = "required_skills"
	MetaSalaryRange     = "salary_range"
	MetaJobType         = "job_type"
)

// Tag fields are the only keys usable as exact-match filters.
const (
	TagOwner    = "owner_id"
	TagSkills   = "skills"
	TagLocation = "location"
	TagCompany  = "company"
	TagJobType  = "job_type"
)

var tagFields = map[Collection][]string{
	Resumes: {TagOwner, TagSkills},
	Jobs:    {TagOwner, TagSkills, TagLocation, TagCompany, TagJobType},
}

// TagFields returns the filterable tag fields of a collection.
func TagFields(c Collection) []string {
	return append([]string(nil), tagFields[c]...)
}

// IsTagField reports whether key can be used as a filter on c.
func IsTagField(c Collection, key string) bool {
	for _, f := range tagFields[c] {
		if f == key {
			return true
		}
	}
	return false
}

// Valid reports whether c is a known collection.
func (c Collection) Valid() bool {
	_, ok := tagFields[c]
	return ok
}

// Entry is a single upsert into the index.
type Entry struct {
	Collection Collection
	ID         string
	Vector     []float32
	Metadata   map[string]any
	Tags       map[string][]string
}

// Query is a single similarity search.
type Query struct {
	Collection Collection
	Vector     []float32
	Limit      int
	// Threshold drops hits whose similarity is below it (0 keeps everything).
	Threshold float64
	Filters   map[string]string
}

// Hit is one ranked result, ordered by descending similarity.
type Hit struct {
	ID       string
	Score    float64 // similarity in [0,1]
	Metadata map[string]any
}
