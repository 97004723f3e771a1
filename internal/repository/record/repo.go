// Package record persists parsed resumes and jobs as JSON documents with a per-owner index set.
package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/kailas-cloud/talentmatch/internal/db"
	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/resume"
)

// store is the consumer interface for record persistence (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// accessors tells the generic repo how to read identity off a record.
type accessors[T any] struct {
	kind     string
	id       func(*T) string
	owner    func(*T) string
	created  func(*T) time.Time
	notFound error
}

// Repo stores records of one kind under "<prefix><kind>:<id>".
type Repo[T any] struct {
	store store
	acc   accessors[T]
}

// NewResumes creates the resume repository.
func NewResumes(s store) *Repo[resume.Resume] {
	return &Repo[resume.Resume]{store: s, acc: accessors[resume.Resume]{
		kind:     "resume",
		id:       func(r *resume.Resume) string { return r.ID },
		owner:    func(r *resume.Resume) string { return r.CandidateID },
		created:  func(r *resume.Resume) time.Time { return r.CreatedAt },
		notFound: domain.ErrResumeNotFound,
	}}
}

// NewJobs creates the job repository.
func NewJobs(s store) *Repo[job.Job] {
	return &Repo[job.Job]{store: s, acc: accessors[job.Job]{
		kind:     "job",
		id:       func(j *job.Job) string { return j.ID },
		owner:    func(j *job.Job) string { return j.RecruiterID },
		created:  func(j *job.Job) time.Time { return j.CreatedAt },
		notFound: domain.ErrJobNotFound,
	}}
}

func (r *Repo[T]) key(id string) string {
	return domain.KeyPrefix + r.acc.kind + ":" + id
}

func (r *Repo[T]) ownerKey(owner string) string {
	return domain.KeyPrefix + "owner:" + r.acc.kind + ":" + owner
}

// Create writes the record and adds it to its owner's set.
func (r *Repo[T]) Create(ctx context.Context, rec *T) error {
	id := r.acc.id(rec)
	if id == "" {
		return fmt.Errorf("%s id is required", r.acc.kind)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", r.acc.kind, err)
	}

	key := r.key(id)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w: %w", key, domain.ErrStorageUnavailable, err)
	}

	if owner := r.acc.owner(rec); owner != "" {
		if err := r.store.SAdd(ctx, r.ownerKey(owner), id); err != nil {
			return fmt.Errorf("index owner %s: %w: %w", owner, domain.ErrStorageUnavailable, err)
		}
	}
	return nil
}

// Get loads a record by id.
func (r *Repo[T]) Get(ctx context.Context, id string) (*T, error) {
	key := r.key(id)
	raw, err := r.store.JSONGet(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, r.acc.notFound
		}
		return nil, fmt.Errorf("json.get %s: %w: %w", key, domain.ErrStorageUnavailable, err)
	}

	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &rec, nil
}

// ListByOwner returns the owner's records, newest first.
// Ids left in the owner set after a partial delete are skipped.
func (r *Repo[T]) ListByOwner(ctx context.Context, owner string) ([]*T, error) {
	ids, err := r.store.SMembers(ctx, r.ownerKey(owner))
	if err != nil {
		return nil, fmt.Errorf("list %s ids: %w: %w", r.acc.kind, domain.ErrStorageUnavailable, err)
	}

	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		rec, err := r.Get(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := r.acc.created(out[i]), r.acc.created(out[j])
		if ti.Equal(tj) {
			return r.acc.id(out[i]) < r.acc.id(out[j])
		}
		return ti.After(tj)
	})
	return out, nil
}

// Delete removes the record and its owner index entry.
func (r *Repo[T]) Delete(ctx context.Context, id string) error {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	key := r.key(id)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w: %w", key, domain.ErrStorageUnavailable, err)
	}
	if owner := r.acc.owner(rec); owner != "" {
		if err := r.store.SRem(ctx, r.ownerKey(owner), id); err != nil {
			return fmt.Errorf("unindex owner %s: %w: %w", owner, domain.ErrStorageUnavailable, err)
		}
	}
	return nil
}
