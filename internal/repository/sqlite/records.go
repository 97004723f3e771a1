package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/resume"
)

// Records stores one kind of record in the shared records table.
type Records[T any] struct {
	db       *sql.DB
	kind     string
	id       func(*T) string
	owner    func(*T) string
	created  func(*T) time.Time
	notFound error
}

// Resumes returns the resume repository.
func (d *DB) Resumes() *Records[resume.Resume] {
	return &Records[resume.Resume]{
		db:       d.db,
		kind:     "resume",
		id:       func(r *resume.Resume) string { return r.ID },
		owner:    func(r *resume.Resume) string { return r.CandidateID },
		created:  func(r *resume.Resume) time.Time { return r.CreatedAt },
		notFound: domain.ErrResumeNotFound,
	}
}

// Jobs returns the job repository.
func (d *DB) Jobs() *Records[job.Job] {
	return &Records[job.Job]{
		db:       d.db,
		kind:     "job",
		id:       func(j *job.Job) string { return j.ID },
		owner:    func(j *job.Job) string { return j.RecruiterID },
		created:  func(j *job.Job) time.Time { return j.CreatedAt },
		notFound: domain.ErrJobNotFound,
	}
}

// Create inserts or replaces a record.
func (r *Records[T]) Create(ctx context.Context, rec *T) error {
	id := r.id(rec)
	if id == "" {
		return fmt.Errorf("%s id is required", r.kind)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", r.kind, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO records (kind, id, owner_id, created_at, data) VALUES (?, ?, ?, ?, ?)`,
		r.kind, id, r.owner(rec), r.created(rec).UnixNano(), string(data))
	if err != nil {
		return fmt.Errorf("save %s %s: %w: %w", r.kind, id, domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Get loads a record by id.
func (r *Records[T]) Get(ctx context.Context, id string) (*T, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM records WHERE kind = ? AND id = ?`, r.kind, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.notFound
		}
		return nil, fmt.Errorf("get %s %s: %w: %w", r.kind, id, domain.ErrStorageUnavailable, err)
	}
	return decode[T](data)
}

// ListByOwner returns the owner's records, newest first.
func (r *Records[T]) ListByOwner(ctx context.Context, owner string) ([]*T, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT data FROM records WHERE kind = ? AND owner_id = ? ORDER BY created_at DESC, id ASC`,
		r.kind, owner)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w: %w", r.kind, domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var out []*T
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.kind, err)
		}
		rec, err := decode[T](data)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes a record.
func (r *Records[T]) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE kind = ? AND id = ?`, r.kind, id)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w: %w", r.kind, id, domain.ErrStorageUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.notFound
	}
	return nil
}

func decode[T any](data string) (*T, error) {
	var rec T
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}
