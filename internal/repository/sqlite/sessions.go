package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/chat"
)

// Sessions implements usecase/chat.SessionStore on SQLite.
type Sessions struct {
	db *sql.DB
}

// Sessions returns the session repository.
func (d *DB) Sessions() *Sessions {
	return &Sessions{db: d.db}
}

// Create stores a new session.
func (s *Sessions) Create(ctx context.Context, sess *chat.Session) error {
	return s.upsert(ctx, sess)
}

// Update overwrites a session.
func (s *Sessions) Update(ctx context.Context, sess *chat.Session) error {
	return s.upsert(ctx, sess)
}

func (s *Sessions) upsert(ctx context.Context, sess *chat.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (id, user_id, updated_at, data) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.UpdatedAt.UnixNano(), string(data))
	if err != nil {
		return fmt.Errorf("save session %s: %w: %w", sess.ID, domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Get loads a session by id.
func (s *Sessions) Get(ctx context.Context, id string) (*chat.Session, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM sessions WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session %s: %w: %w", id, domain.ErrStorageUnavailable, err)
	}
	var sess chat.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Touch bumps updated_at.
func (s *Sessions) Touch(ctx context.Context, id string, at time.Time) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	sess.UpdatedAt = at
	return s.upsert(ctx, sess)
}

// ListByUser returns a user's sessions, most recently active first.
func (s *Sessions) ListByUser(ctx context.Context, userID string) ([]*chat.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM sessions WHERE user_id = ? ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w: %w", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var out []*chat.Session
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		var sess chat.Session
		if err := json.Unmarshal([]byte(data), &sess); err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
		out = append(out, &sess)
	}
	return out, rows.Err()
}

// AppendTurns adds turns atomically.
func (s *Sessions) AppendTurns(ctx context.Context, sessionID string, turns ...chat.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w: %w", domain.ErrStorageUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range turns {
		data, err := json.Marshal(&turns[i])
		if err != nil {
			return fmt.Errorf("marshal turn: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO turns (session_id, data) VALUES (?, ?)`, sessionID, string(data)); err != nil {
			return fmt.Errorf("insert turn: %w: %w", domain.ErrStorageUnavailable, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit turns: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// RecentTurns returns the last n turns in chronological order; n <= 0 returns all.
func (s *Sessions) RecentTurns(ctx context.Context, sessionID string, n int) ([]chat.Turn, error) {
	limit := -1
	if n > 0 {
		limit = n
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM (
			SELECT seq, data FROM turns WHERE session_id = ? ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("read turns: %w: %w", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var out []chat.Turn
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		var t chat.Turn
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, fmt.Errorf("decode turn: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
