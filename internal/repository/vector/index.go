package vector

import (
	"github.com/kailas-cloud/talentmatch/internal/db"
	"github.com/kailas-cloud/talentmatch/internal/domain"
	domvec "github.com/kailas-cloud/talentmatch/internal/domain/vector"
)

// tagSeparator splits multi-valued tags. Locations and skills may contain commas.
const tagSeparator = "|"

// HNSWConfig tunes the vector graph built for every collection.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

func indexName(c domvec.Collection) string {
	return domain.KeyPrefix + "idx:" + string(c)
}

func entryPrefix(c domvec.Collection) string {
	return domain.KeyPrefix + "vec:" + string(c) + ":"
}

func entryKey(c domvec.Collection, id string) string {
	return entryPrefix(c) + id
}

// buildIndex describes the FT index of a collection: its tag fields plus an HNSW/COSINE vector.
func buildIndex(c domvec.Collection, dim int, hnsw HNSWConfig) (*db.IndexDefinition, error) {
	b := db.NewIndex(indexName(c)).OnHash().Prefix(entryPrefix(c))
	for _, tag := range domvec.TagFields(c) {
		b = b.TagWithOpts(tag, tagSeparator, false)
	}
	return b.VectorHNSW(fieldVector, dim, db.DistanceCosine, hnsw.M, hnsw.EFConstruct).Build()
}
