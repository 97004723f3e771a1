package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/envelope"
	"github.com/kailas-cloud/talentmatch/internal/domain/intent"
	"github.com/kailas-cloud/talentmatch/internal/domain/match"
	"github.com/kailas-cloud/talentmatch/internal/usecase/chat"
	"github.com/kailas-cloud/talentmatch/internal/usecase/search"
)

func (o *Orchestrator) ingestResume(ctx context.Context, st *state) (envelope.Envelope, error) {
	a := st.req.Attachment
	if a == nil || strings.TrimSpace(a.Content) == "" {
		return envelope.Envelope{}, domain.NewInputError(domain.ErrMissingAttachment,
			"No file content provided for resume parsing")
	}

	r, err := o.ingest.IngestResume(ctx, a.Content, st.req.UserID, a.FileName)
	if err != nil {
		return envelope.Envelope{}, fmt.Errorf("ingest resume: %w", err)
	}

	name := r.Parsed.Name
	if name == "" {
		name = "candidate"
	}

	props := structProps(r.Parsed)
	props["id"] = r.ID

	return envelope.New(fmt.Sprintf("Successfully parsed your resume, %s!", name)).
		WithComponents(envelope.NewComponent(envelope.ComponentResumeViewer, props)).
		WithActions(envelope.Button("Find Matching Jobs", "search_jobs", map[string]any{"resume_id": r.ID})), nil
}

func (o *Orchestrator) ingestJob(ctx context.Context, st *state) (envelope.Envelope, error) {
	a := st.req.Attachment
	if a == nil || strings.TrimSpace(a.Content) == "" {
		return envelope.Envelope{}, domain.NewInputError(domain.ErrMissingAttachment,
			"No file content provided for job parsing")
	}

	j, err := o.ingest.IngestJob(ctx, a.Content, st.req.UserID, a.FileName)
	if err != nil {
		return envelope.Envelope{}, fmt.Errorf("ingest job: %w", err)
	}

	title := j.Parsed.Title
	if title == "" {
		title = "position"
	}

	props := structProps(j.Parsed)
	props["id"] = j.ID

	return envelope.New(fmt.Sprintf("Successfully parsed job: %s", title)).
		WithComponents(envelope.NewComponent(envelope.ComponentJobCard, props)).
		WithActions(envelope.Button("Find Matching Candidates", "search_candidates", map[string]any{"job_id": j.ID})), nil
}

func (o *Orchestrator) runSearch(ctx context.Context, st *state) (envelope.Envelope, error) {
	req := search.Request{Kind: match.Candidates, Query: st.req.Message}
	if st.decision.Intent == intent.SearchJobs {
		req.Kind = match.Jobs
	}

	// the reference is the bound record of the opposite kind
	if !st.binding.IsEmpty() {
		var refs []string
		if req.Kind == match.Candidates {
			refs = st.binding.JobIDs()
		} else {
			refs = st.binding.ResumeIDs()
		}
		if len(refs) > 0 {
			req.ReferenceID = refs[0]
		}
	}

	res, err := o.search.Search(ctx, req)
	if err != nil {
		return envelope.Envelope{}, fmt.Errorf("search %s: %w", req.Kind, err)
	}

	items := make([]map[string]any, 0, len(res.Matches))
	for _, m := range res.Matches {
		items = append(items, m.Props())
	}

	noun, title := "candidates", "Matching Candidates"
	if req.Kind == match.Jobs {
		noun, title = "jobs", "Matching Jobs"
	}

	env := envelope.New(fmt.Sprintf("Found %d matching %s", len(items), noun)).
		WithComponents(envelope.NewComponent(envelope.ComponentRankedList, map[string]any{
			"title": title,
			"items": items,
		}))
	if req.Kind == match.Candidates {
		env = env.WithActions(envelope.Button("Chat with Selected", "chat_with_candidates", nil))
	}
	return env, nil
}

func (o *Orchestrator) runChat(ctx context.Context, st *state) (envelope.Envelope, error) {
	env, err := o.chat.Chat(ctx, chat.Request{
		Message:   st.req.Message,
		UserID:    st.req.UserID,
		Role:      st.role,
		SessionID: st.req.SessionID,
		Binding:   st.binding,
		Intent:    st.decision.Intent,
	})
	if err != nil {
		return envelope.Envelope{}, fmt.Errorf("chat: %w", err)
	}
	return env, nil
}
