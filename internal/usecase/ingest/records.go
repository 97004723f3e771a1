package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/resume"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
)

// GetResume returns a resume by id.
func (s *Service) GetResume(ctx context.Context, id string) (resume.Resume, error) {
	r, err := s.resumes.Get(ctx, id)
	if err != nil {
		return resume.Resume{}, fmt.Errorf("get resume %s: %w", id, err)
	}
	return *r, nil
}

// ListResumes returns the owner's resumes, newest first. limit <= 0 returns all.
func (s *Service) ListResumes(ctx context.Context, owner string, limit int) ([]resume.Resume, error) {
	items, err := s.resumes.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	return deref(items, limit), nil
}

// DeleteResume removes the owner's resume and its index entry.
func (s *Service) DeleteResume(ctx context.Context, id, owner string) error {
	r, err := s.resumes.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get resume %s: %w", id, err)
	}
	if r.CandidateID != owner {
		return fmt.Errorf("delete resume %s: %w", id, domain.ErrForbidden)
	}
	return s.remove(ctx, vector.Resumes, id, s.resumes.Delete)
}

// GetJob returns a job by id.
func (s *Service) GetJob(ctx context.Context, id string) (job.Job, error) {
	j, err := s.jobs.Get(ctx, id)
	if err != nil {
		return job.Job{}, fmt.Errorf("get job %s: %w", id, err)
	}
	return *j, nil
}

// ListJobs returns the owner's jobs, newest first. limit <= 0 returns all.
func (s *Service) ListJobs(ctx context.Context, owner string, limit int) ([]job.Job, error) {
	items, err := s.jobs.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return deref(items, limit), nil
}

// DeleteJob removes the owner's job and its index entry.
func (s *Service) DeleteJob(ctx context.Context, id, owner string) error {
	j, err := s.jobs.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get job %s: %w", id, err)
	}
	if j.RecruiterID != owner {
		return fmt.Errorf("delete job %s: %w", id, domain.ErrForbidden)
	}
	return s.remove(ctx, vector.Jobs, id, s.jobs.Delete)
}

// remove drops the index entry, then the record.
func (s *Service) remove(
	ctx context.Context, c vector.Collection, id string,
	deleteRecord func(context.Context, string) error,
) error {
	if err := s.index.Delete(ctx, c, id); err != nil {
		return fmt.Errorf("delete index entry %s: %w", id, err)
	}
	if err := deleteRecord(ctx, id); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}

	s.logger.Info("Record deleted", zap.String("collection", string(c)), zap.String("id", id))
	return nil
}

func deref[T any](items []*T, limit int) []T {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		out = append(out, *it)
	}
	return out
}
