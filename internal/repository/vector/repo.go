// Package vector stores embeddings in Redis hashes covered by FT vector indexes.
package vector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/talentmatch/internal/db"
	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/search/filter"
	domvec "github.com/kailas-cloud/talentmatch/internal/domain/vector"
)

const (
	fieldVector = "vector"
	fieldMeta   = "meta"
	fieldScore  = "__vector_score"
)

// store is the consumer interface for the vector index (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	Del(ctx context.Context, key string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements the similarity index used by ingest and search.
type Repo struct {
	store store
	dim   int
	hnsw  HNSWConfig
}

// New creates a vector repository for embeddings of the given dimension.
func New(s store, dim int, hnsw HNSWConfig) *Repo {
	return &Repo{store: s, dim: dim, hnsw: hnsw}
}

// EnsureIndexes creates the FT index of every collection that does not exist yet.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	for _, c := range []domvec.Collection{domvec.Resumes, domvec.Jobs} {
		name := indexName(c)
		exists, err := r.store.IndexExists(ctx, name)
		if err != nil {
			return fmt.Errorf("check index %s: %w: %w", name, domain.ErrIndexUnavailable, err)
		}
		if exists {
			continue
		}

		def, err := buildIndex(c, r.dim, r.hnsw)
		if err != nil {
			return fmt.Errorf("build index %s: %w", name, err)
		}
		if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("create index %s: %w: %w", name, domain.ErrIndexUnavailable, err)
		}
	}
	return nil
}

// Upsert writes (or overwrites) one entry.
func (r *Repo) Upsert(ctx context.Context, e domvec.Entry) error {
	if !e.Collection.Valid() {
		return fmt.Errorf("unknown collection %q", e.Collection)
	}
	if e.ID == "" {
		return errors.New("entry id is required")
	}
	if len(e.Vector) != r.dim {
		return fmt.Errorf("vector dimension %d, index expects %d", len(e.Vector), r.dim)
	}

	meta, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	fields := map[string]string{
		fieldVector: string(db.EncodeVector(e.Vector)),
		fieldMeta:   string(meta),
	}
	for k, values := range e.Tags {
		if !domvec.IsTagField(e.Collection, k) {
			continue
		}
		if v := joinTag(values); v != "" {
			fields[k] = v
		}
	}

	key := entryKey(e.Collection, e.ID)
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w: %w", key, domain.ErrIndexUnavailable, err)
	}
	return nil
}

// Delete removes an entry. Missing entries are not an error.
func (r *Repo) Delete(ctx context.Context, c domvec.Collection, id string) error {
	key := entryKey(c, id)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w: %w", key, domain.ErrIndexUnavailable, err)
	}
	return nil
}

// Search returns up to q.Limit hits ordered by descending similarity.
// Hits below q.Threshold are dropped; filters on non-tag keys are ignored.
func (r *Repo) Search(ctx context.Context, q domvec.Query) ([]domvec.Hit, error) {
	if !q.Collection.Valid() {
		return nil, fmt.Errorf("unknown collection %q", q.Collection)
	}
	if q.Limit <= 0 {
		return nil, nil
	}

	expr, err := filter.FromMap(q.Filters, func(key string) bool {
		return domvec.IsTagField(q.Collection, key)
	})
	if err != nil {
		return nil, fmt.Errorf("build filters: %w: %w", domain.ErrInvalidInput, err)
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    indexName(q.Collection),
		Filters:      expr,
		Vector:       q.Vector,
		K:            q.Limit,
		ReturnFields: []string{fieldMeta, fieldScore},
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w: %w", q.Collection, domain.ErrIndexUnavailable, err)
	}

	return parseHits(sr, q.Collection, q.Threshold), nil
}

func parseHits(sr *db.SearchResult, c domvec.Collection, threshold float64) []domvec.Hit {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	prefix := entryPrefix(c)
	hits := make([]domvec.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		if entry.Score < threshold {
			continue
		}
		meta := map[string]any{}
		if raw := entry.Fields[fieldMeta]; raw != "" {
			// битые метаданные не должны ронять поиск
			_ = json.Unmarshal([]byte(raw), &meta)
		}
		hits = append(hits, domvec.Hit{
			ID:       strings.TrimPrefix(entry.Key, prefix),
			Score:    entry.Score,
			Metadata: meta,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return hits
}

func joinTag(values []string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(strings.ReplaceAll(v, tagSeparator, " "))
		if v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, tagSeparator)
}
