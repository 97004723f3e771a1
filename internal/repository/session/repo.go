// Package session persists chat sessions as JSON documents and their turns as append-only lists.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/kailas-cloud/talentmatch/internal/db"
	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/chat"
)

// store is the consumer interface for session persistence (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	RPush(ctx context.Context, key string, values ...[]byte) error
	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)
}

// Repo implements usecase/chat.SessionStore on Redis.
type Repo struct {
	store store
}

// New creates a session repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

func sessionKey(id string) string { return domain.KeyPrefix + "session:" + id }
func turnsKey(id string) string   { return domain.KeyPrefix + "session:" + id + ":turns" }
func userKey(user string) string  { return domain.KeyPrefix + "user:" + user + ":sessions" }

// Create stores a new session and registers it under its user.
func (r *Repo) Create(ctx context.Context, s *chat.Session) error {
	if err := r.put(ctx, s); err != nil {
		return err
	}
	if err := r.store.SAdd(ctx, userKey(s.UserID), s.ID); err != nil {
		return fmt.Errorf("index session %s: %w: %w", s.ID, domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Update overwrites a session document (binding and timestamps).
func (r *Repo) Update(ctx context.Context, s *chat.Session) error {
	return r.put(ctx, s)
}

func (r *Repo) put(ctx context.Context, s *chat.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	key := sessionKey(s.ID)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w: %w", key, domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Get loads a session by id.
func (r *Repo) Get(ctx context.Context, id string) (*chat.Session, error) {
	key := sessionKey(id)
	raw, err := r.store.JSONGet(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("json.get %s: %w: %w", key, domain.ErrStorageUnavailable, err)
	}
	var s chat.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &s, nil
}

// Touch bumps updated_at without rewriting the document.
func (r *Repo) Touch(ctx context.Context, id string, at time.Time) error {
	data, err := json.Marshal(at)
	if err != nil {
		return fmt.Errorf("marshal time: %w", err)
	}
	if err := r.store.JSONSet(ctx, sessionKey(id), "$.updated_at", data); err != nil {
		return fmt.Errorf("touch session %s: %w: %w", id, domain.ErrStorageUnavailable, err)
	}
	return nil
}

// ListByUser returns a user's sessions, most recently active first.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]*chat.Session, error) {
	ids, err := r.store.SMembers(ctx, userKey(userID))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w: %w", domain.ErrStorageUnavailable, err)
	}

	out := make([]*chat.Session, 0, len(ids))
	for _, id := range ids {
		s, err := r.Get(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// AppendTurns adds turns to the end of the session history in one round trip.
func (r *Repo) AppendTurns(ctx context.Context, sessionID string, turns ...chat.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	values := make([][]byte, 0, len(turns))
	for i := range turns {
		data, err := json.Marshal(&turns[i])
		if err != nil {
			return fmt.Errorf("marshal turn: %w", err)
		}
		values = append(values, data)
	}
	if err := r.store.RPush(ctx, turnsKey(sessionID), values...); err != nil {
		return fmt.Errorf("append turns %s: %w: %w", sessionID, domain.ErrStorageUnavailable, err)
	}
	return nil
}

// RecentTurns returns the last n turns in chronological order; n <= 0 returns all of them.
func (r *Repo) RecentTurns(ctx context.Context, sessionID string, n int) ([]chat.Turn, error) {
	start := int64(0)
	if n > 0 {
		start = -int64(n)
	}
	raw, err := r.store.LRange(ctx, turnsKey(sessionID), start, -1)
	if err != nil {
		return nil, fmt.Errorf("read turns %s: %w: %w", sessionID, domain.ErrStorageUnavailable, err)
	}

	turns := make([]chat.Turn, 0, len(raw))
	for _, item := range raw {
		var t chat.Turn
		if err := json.Unmarshal(item, &t); err != nil {
			return nil, fmt.Errorf("decode turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}
