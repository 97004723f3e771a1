// Package chat runs context-aware conversations bound to resumes and jobs.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	domchat "github.com/kailas-cloud/talentmatch/internal/domain/chat"
	"github.com/kailas-cloud/talentmatch/internal/domain/envelope"
	"github.com/kailas-cloud/talentmatch/internal/domain/intent"
	"github.com/kailas-cloud/talentmatch/internal/domain/role"
	"github.com/kailas-cloud/talentmatch/internal/prompts"
)

const (
	chatTemperature = 0.7
	chatMaxTokens   = 1000
	maxSkillTags    = 10
)

// Request is one conversational turn.
type Request struct {
	Message   string
	UserID    string
	Role      role.Role
	SessionID string
	Binding   domchat.Binding
	// Intent is the classifier label, used only as a hint.
	Intent intent.Intent
}

// Service handles chat turns and session history.
type Service struct {
	llm      Completer
	prompts  Prompts
	sessions SessionStore
	resumes  ResumeReader
	jobs     JobReader
	window   int
	logger   *zap.Logger

	now   func() time.Time
	newID func() string
}

// New creates a chat service. window <= 0 uses domchat.HistoryWindow.
func New(
	llm Completer, p Prompts, sessions SessionStore,
	resumes ResumeReader, jobs JobReader, window int, logger *zap.Logger,
) *Service {
	if window <= 0 {
		window = domchat.HistoryWindow
	}
	return &Service{
		llm:      llm,
		prompts:  p,
		sessions: sessions,
		resumes:  resumes,
		jobs:     jobs,
		window:   window,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Chat answers req within its session, creating the session when needed,
// and appends the user and assistant turns to it.
func (s *Service) Chat(ctx context.Context, req Request) (envelope.Envelope, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return envelope.Envelope{}, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if !req.Role.Valid() {
		return envelope.Envelope{}, fmt.Errorf("chat: %w", domain.ErrInvalidRole)
	}

	sess, err := s.resolveSession(ctx, req)
	if err != nil {
		return envelope.Envelope{}, err
	}

	history, err := s.sessions.RecentTurns(ctx, sess.ID, s.window)
	if err != nil {
		return envelope.Envelope{}, fmt.Errorf("load history: %w", err)
	}

	pc := s.buildContext(ctx, sess.Binding)

	reply, err := s.complete(ctx, req, pc, history)
	if err != nil {
		return envelope.Envelope{}, err
	}

	env := envelope.New(reply).
		WithComponents(skillTags(pc)...).
		WithActions(roleAction(req.Role)).
		WithSession(sess.ID)

	now := s.now()
	userTurn := domchat.Turn{
		ID:        s.newID(),
		SessionID: sess.ID,
		Role:      domchat.TurnUser,
		Content:   req.Message,
		CreatedAt: now,
	}
	assistantTurn := domchat.Turn{
		ID:         s.newID(),
		SessionID:  sess.ID,
		Role:       domchat.TurnAssistant,
		Content:    env.Message,
		Components: env.UIComponents,
		Actions:    env.Actions,
		CreatedAt:  now,
	}
	if err := s.sessions.AppendTurns(ctx, sess.ID, userTurn, assistantTurn); err != nil {
		return envelope.Envelope{}, fmt.Errorf("append turns: %w", err)
	}
	if err := s.sessions.Touch(ctx, sess.ID, now); err != nil {
		s.logger.Warn("Session touch failed", zap.String("session_id", sess.ID), zap.Error(err))
	}

	return env, nil
}

// resolveSession returns the caller's session, creating one when the id is
// empty, unknown or owned by someone else.
func (s *Service) resolveSession(ctx context.Context, req Request) (*domchat.Session, error) {
	if req.SessionID != "" {
		sess, err := s.sessions.Get(ctx, req.SessionID)
		switch {
		case err == nil && sess.UserID == req.UserID:
			if sess.Binding.IsEmpty() && !req.Binding.IsEmpty() {
				sess.Binding = req.Binding
				sess.UpdatedAt = s.now()
				if err := s.sessions.Update(ctx, sess); err != nil {
					return nil, fmt.Errorf("bind session: %w", err)
				}
			}
			return sess, nil
		case err == nil:
			s.logger.Warn("Session owned by another user, starting a new one",
				zap.String("session_id", req.SessionID),
				zap.String("user_id", req.UserID),
			)
		case !isNotFound(err):
			return nil, fmt.Errorf("get session: %w", err)
		}
	}

	now := s.now()
	sess := &domchat.Session{
		ID:        s.newID(),
		UserID:    req.UserID,
		Binding:   req.Binding,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

func (s *Service) complete(
	ctx context.Context, req Request, pc promptContext, history []domchat.Turn,
) (string, error) {
	name := prompts.ChatCandidate
	if req.Role == role.Recruiter {
		name = prompts.ChatRecruiter
	}

	p, err := s.prompts.Get(name)
	if err != nil {
		return "", fmt.Errorf("load prompt: %w", err)
	}

	vars := pc.vars()
	vars["user_message"] = req.Message
	vars["intent"] = req.Intent.String()
	system, user := p.Render(vars)

	msgs := make([]domain.Message, 0, len(history)+1)
	for _, t := range history {
		switch t.Role {
		case domchat.TurnUser:
			msgs = append(msgs, domain.Message{Role: domain.MessageRoleUser, Content: t.Content})
		case domchat.TurnAssistant:
			msgs = append(msgs, domain.Message{Role: domain.MessageRoleAssistant, Content: t.Content})
		}
	}
	msgs = append(msgs, domain.Message{Role: domain.MessageRoleUser, Content: user})

	out, err := s.llm.Complete(ctx, domain.CompletionRequest{
		Name:        name,
		System:      system,
		Messages:    msgs,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	reply := strings.TrimSpace(out.Text)
	if reply == "" {
		reply = envelope.EmptyReplyMessage
	}
	return reply, nil
}

func skillTags(pc promptContext) []envelope.Component {
	if pc.resume == nil || len(pc.resume.Skills) == 0 {
		return nil
	}
	skills := pc.resume.Skills
	if len(skills) > maxSkillTags {
		skills = skills[:maxSkillTags]
	}
	return []envelope.Component{
		envelope.NewComponent(envelope.ComponentSkillTags, map[string]any{"skills": skills}),
	}
}

func roleAction(r role.Role) envelope.Action {
	if r == role.Recruiter {
		return envelope.Button("Search Similar Candidates", "search_candidates", nil)
	}
	return envelope.Button("Find Matching Jobs", "search_jobs", nil)
}
