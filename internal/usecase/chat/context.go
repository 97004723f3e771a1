package chat

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	domchat "github.com/kailas-cloud/talentmatch/internal/domain/chat"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/resume"
	"github.com/kailas-cloud/talentmatch/internal/prompts"
)

// promptContext is the record context injected into the chat prompt.
type promptContext struct {
	resume     *resume.Parsed // first resume, for single-resume bindings
	resumeJSON string
	jobJSON    string
	multiJSON  string
}

func (c promptContext) vars() prompts.Vars {
	return prompts.Vars{
		"resume_context":     orNone(c.resumeJSON),
		"job_context":        orNone(c.jobJSON),
		"candidates_context": orNone(c.multiJSON),
	}
}

// buildContext loads the records named by the binding. Missing records are
// skipped; storage failures are logged and skipped too.
func (s *Service) buildContext(ctx context.Context, b domchat.Binding) promptContext {
	var pc promptContext
	if b.IsEmpty() {
		return pc
	}

	switch b.Type {
	case domchat.BindResume, domchat.BindResumeJob:
		if ids := b.ResumeIDs(); len(ids) > 0 {
			if r := s.loadResume(ctx, ids[0]); r != nil {
				pc.resume = &r.Parsed
				pc.resumeJSON = toJSON(r.Parsed)
			}
		}
		if ids := b.JobIDs(); len(ids) > 0 {
			if j := s.loadJob(ctx, ids[0]); j != nil {
				pc.jobJSON = toJSON(j.Parsed)
			}
		}
	case domchat.BindJob:
		if j := s.loadJob(ctx, b.JobIDs()[0]); j != nil {
			pc.jobJSON = toJSON(j.Parsed)
		}
	case domchat.BindMultiResume:
		parsed := make([]resume.Parsed, 0, len(b.IDs))
		for _, id := range b.ResumeIDs() {
			if r := s.loadResume(ctx, id); r != nil {
				parsed = append(parsed, r.Parsed)
			}
		}
		pc.multiJSON = toJSON(parsed)
	}

	return pc
}

func (s *Service) loadResume(ctx context.Context, id string) *resume.Resume {
	r, err := s.resumes.Get(ctx, id)
	if err != nil {
		s.logMissing("resume", id, err)
		return nil
	}
	return r
}

func (s *Service) loadJob(ctx context.Context, id string) *job.Job {
	j, err := s.jobs.Get(ctx, id)
	if err != nil {
		s.logMissing("job", id, err)
		return nil
	}
	return j
}

func (s *Service) logMissing(kind, id string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Debug("Context record not found", zap.String("kind", kind), zap.String("id", id))
		return
	}
	s.logger.Warn("Context record unavailable", zap.String("kind", kind), zap.String("id", id), zap.Error(err))
}

func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
