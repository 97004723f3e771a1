package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	domchat "github.com/kailas-cloud/talentmatch/internal/domain/chat"
)

// History returns every turn of the user's session in order.
func (s *Service) History(ctx context.Context, sessionID, userID string) ([]domchat.Turn, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	if sess.UserID != userID {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrForbidden)
	}

	turns, err := s.sessions.RecentTurns(ctx, sessionID, 0)
	if err != nil {
		return nil, fmt.Errorf("load turns: %w", err)
	}
	if turns == nil {
		turns = []domchat.Turn{}
	}
	return turns, nil
}

// Sessions lists the user's sessions, most recently active first.
func (s *Service) Sessions(ctx context.Context, userID string) ([]domchat.Session, error) {
	items, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	out := make([]domchat.Session, 0, len(items))
	for _, it := range items {
		out = append(out, *it)
	}
	return out, nil
}

func isNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }
