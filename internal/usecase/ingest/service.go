// Package ingest turns raw resume and job text into structured, indexed records.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/resume"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
	"github.com/kailas-cloud/talentmatch/internal/prompts"
	"github.com/kailas-cloud/talentmatch/internal/usecase/llmjson"
)

const (
	extractTemperature = 0.1
	extractMaxTokens   = 2000

	typeResume = "resume"
	typeJob    = "job"
)

// Service ingests and manages resumes and jobs.
type Service struct {
	llm     Completer
	prompts Prompts
	embed   Embedder
	index   Index
	resumes RecordStore[resume.Resume]
	jobs    RecordStore[job.Job]
	logger  *zap.Logger

	now   func() time.Time
	newID func() string
}

// New creates an ingest service.
func New(
	llm Completer, p Prompts, embed Embedder, index Index,
	resumes RecordStore[resume.Resume], jobs RecordStore[job.Job],
	logger *zap.Logger,
) *Service {
	return &Service{
		llm:     llm,
		prompts: p,
		embed:   embed,
		index:   index,
		resumes: resumes,
		jobs:    jobs,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// IngestResume extracts, indexes and persists a resume.
func (s *Service) IngestResume(ctx context.Context, rawText, ownerID, fileName string) (resume.Resume, error) {
	if err := validate(rawText, ownerID); err != nil {
		return resume.Resume{}, err
	}

	var parsed resume.Parsed
	if err := s.extract(ctx, prompts.ResumeParser, "resume_text", rawText, &parsed); err != nil {
		return resume.Resume{}, fmt.Errorf("parse resume: %w", err)
	}
	parsed = parsed.Sanitize()

	now := s.now()
	rec := resume.Resume{
		ID:          s.newID(),
		CandidateID: ownerID,
		FileName:    fileName,
		RawText:     rawText,
		Parsed:      parsed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	entry := vector.Entry{
		Collection: vector.Resumes,
		ID:         rec.ID,
		Metadata: map[string]any{
			vector.MetaType:            typeResume,
			vector.MetaOwner:           ownerID,
			vector.MetaName:            parsed.Name,
			vector.MetaSkills:          parsed.Skills,
			vector.MetaSummary:         parsed.Summary,
			vector.MetaCurrentRole:     parsed.CurrentRole(),
			vector.MetaExperienceCount: len(parsed.Experience),
		},
		Tags: map[string][]string{
			vector.TagOwner:  {ownerID},
			vector.TagSkills: parsed.Skills,
		},
	}

	err := s.indexAndPersist(ctx, entry, parsed.EmbeddingText(rawText), func(ctx context.Context) error {
		return s.resumes.Create(ctx, &rec)
	})
	if err != nil {
		return resume.Resume{}, fmt.Errorf("ingest resume: %w", err)
	}

	s.logger.Info("Resume ingested",
		zap.String("resume_id", rec.ID),
		zap.String("owner_id", ownerID),
		zap.Int("skills", len(parsed.Skills)),
		zap.Int("experience", len(parsed.Experience)),
	)
	return rec, nil
}

// IngestJob extracts, indexes and persists a job description.
func (s *Service) IngestJob(ctx context.Context, rawText, ownerID, fileName string) (job.Job, error) {
	if err := validate(rawText, ownerID); err != nil {
		return job.Job{}, err
	}

	var parsed job.Parsed
	if err := s.extract(ctx, prompts.JobParser, "job_description", rawText, &parsed); err != nil {
		return job.Job{}, fmt.Errorf("parse job: %w", err)
	}
	parsed = parsed.Sanitize()

	now := s.now()
	rec := job.Job{
		ID:          s.newID(),
		RecruiterID: ownerID,
		FileName:    fileName,
		RawText:     rawText,
		Parsed:      parsed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tags := map[string][]string{
		vector.TagOwner:  {ownerID},
		vector.TagSkills: parsed.RequiredSkills,
	}
	for tag, v := range map[string]string{
		vector.TagLocation: parsed.Location,
		vector.TagCompany:  parsed.Company,
		vector.TagJobType:  parsed.JobType,
	} {
		if v != "" {
			tags[tag] = []string{v}
		}
	}

	entry := vector.Entry{
		Collection: vector.Jobs,
		ID:         rec.ID,
		Metadata: map[string]any{
			vector.MetaType:           typeJob,
			vector.MetaOwner:          ownerID,
			vector.MetaTitle:          parsed.Title,
			vector.MetaCompany:        parsed.Company,
			vector.MetaLocation:       parsed.Location,
			vector.MetaRequiredSkills: parsed.RequiredSkills,
			vector.MetaSalaryRange:    parsed.SalaryRange,
			vector.MetaJobType:        parsed.JobType,
		},
		Tags: tags,
	}

	err := s.indexAndPersist(ctx, entry, parsed.EmbeddingText(rawText), func(ctx context.Context) error {
		return s.jobs.Create(ctx, &rec)
	})
	if err != nil {
		return job.Job{}, fmt.Errorf("ingest job: %w", err)
	}

	s.logger.Info("Job ingested",
		zap.String("job_id", rec.ID),
		zap.String("owner_id", ownerID),
		zap.String("title", parsed.Title),
	)
	return rec, nil
}

// indexAndPersist embeds text, upserts the entry and then persists the record.
// When persisting fails the index entry is removed again on a best-effort basis.
func (s *Service) indexAndPersist(
	ctx context.Context, entry vector.Entry, text string, persist func(context.Context) error,
) error {
	emb, err := s.embed.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	entry.Vector = emb.Embedding

	if err := s.index.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("index: %w", err)
	}

	if err := persist(ctx); err != nil {
		// Контекст запроса мог истечь, компенсация всё равно нужна.
		cctx := context.WithoutCancel(ctx)
		if derr := s.index.Delete(cctx, entry.Collection, entry.ID); derr != nil {
			s.logger.Error("Compensating index delete failed",
				zap.String("collection", string(entry.Collection)),
				zap.String("id", entry.ID),
				zap.Error(derr),
			)
		}
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}

func (s *Service) extract(ctx context.Context, promptName, textVar, rawText string, out any) error {
	p, err := s.prompts.Get(promptName)
	if err != nil {
		return fmt.Errorf("load prompt: %w", err)
	}
	system, user := p.Render(prompts.Vars{textVar: rawText})

	reply, err := s.llm.Complete(ctx, domain.CompletionRequest{
		Name:        promptName,
		System:      system,
		Messages:    []domain.Message{{Role: domain.MessageRoleUser, Content: user}},
		JSON:        true,
		Temperature: extractTemperature,
		MaxTokens:   extractMaxTokens,
	})
	if err != nil {
		return fmt.Errorf("complete: %w", err)
	}

	if err := llmjson.Decode(reply.Text, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func validate(rawText, ownerID string) error {
	if strings.TrimSpace(rawText) == "" {
		return domain.ErrEmptyDocument
	}
	if strings.TrimSpace(ownerID) == "" {
		return fmt.Errorf("%w: owner id is required", domain.ErrInvalidInput)
	}
	return nil
}
