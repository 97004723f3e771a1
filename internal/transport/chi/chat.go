package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain/role"
	"github.com/kailas-cloud/talentmatch/internal/logger"
	"github.com/kailas-cloud/talentmatch/internal/usecase/orchestrator"
)

const (
	defaultStreamDelay = 20 * time.Millisecond
	// maxAttachmentBytes bounds inline document text.
	maxAttachmentBytes = 1 << 20
)

// ChatRequest is the body of the chat endpoints.
type ChatRequest struct {
	Message     string   `json:"message"`
	SessionID   string   `json:"session_id,omitempty"`
	ContextType string   `json:"context_type,omitempty"`
	ContextIDs  []string `json:"context_ids,omitempty"`
	// Attachment carries an inline document (resume or job text).
	Attachment *AttachmentRequest `json:"attachment,omitempty"`
}

// AttachmentRequest is an inline document.
type AttachmentRequest struct {
	FileName string `json:"file_name"`
	Content  string `json:"content"`
}

// streamEvent is one SSE payload.
type streamEvent struct {
	Type    string `json:"type"`
	Content any    `json:"content"`
}

// Chat handles POST /v1/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeChat(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.runner.Run(r.Context(), req))
}

// RoleChat handles POST /v1/chat/{role}: the path role must match the caller.
func (s *Server) RoleChat(w http.ResponseWriter, r *http.Request) {
	pathRole, err := role.Parse(chirouter.URLParam(r, "role"))
	if err != nil {
		writeError(w, http.StatusNotFound, CodeNotFound, "unknown chat endpoint")
		return
	}
	id, _ := IdentityFrom(r.Context())
	if id.Role != pathRole {
		writeError(w, http.StatusForbidden, CodeForbidden, fmt.Sprintf("this endpoint is for %ss only", pathRole))
		return
	}
	s.Chat(w, r)
}

// ChatStream handles POST /v1/chat/stream. The envelope is replayed as SSE:
// word chunks, then ui_components, actions, session and [DONE].
func (s *Server) ChatStream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeChat(w, r)
	if !ok {
		return
	}

	env := s.runner.Run(r.Context(), req)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	log := logger.FromContext(r.Context())

	send := func(payload string) bool {
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			log.Debug("SSE client gone", zap.Error(err))
			return false
		}
		_ = rc.Flush()
		return true
	}
	event := func(typ string, content any) bool {
		b, err := json.Marshal(streamEvent{Type: typ, Content: content})
		if err != nil {
			log.Error("SSE encode failed", zap.String("type", typ), zap.Error(err))
			return true
		}
		return send(string(b))
	}

	for _, chunk := range wordChunks(env.Message) {
		if !event("text", chunk) {
			return
		}
		if s.streamDelay > 0 {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(s.streamDelay):
			}
		}
	}
	if len(env.UIComponents) > 0 && !event("ui_components", env.UIComponents) {
		return
	}
	if len(env.Actions) > 0 && !event("actions", env.Actions) {
		return
	}
	if env.SessionID != "" && !event("session", env.SessionID) {
		return
	}
	send("[DONE]")
}

// ListSessions handles GET /v1/sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	sessions, err := s.convs.Sessions(r.Context(), id.UserID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": sessions})
}

// ListTurns handles GET /v1/sessions/{id}/turns.
func (s *Server) ListTurns(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	turns, err := s.convs.History(r.Context(), chirouter.URLParam(r, "id"), id.UserID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": turns})
}

func (s *Server) decodeChat(w http.ResponseWriter, r *http.Request) (orchestrator.Request, bool) {
	var body ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return orchestrator.Request{}, false
	}

	id, _ := IdentityFrom(r.Context())
	req := orchestrator.Request{
		Message:     body.Message,
		UserID:      id.UserID,
		Role:        id.Role.String(),
		SessionID:   body.SessionID,
		ContextType: body.ContextType,
		ContextIDs:  body.ContextIDs,
	}
	if a := body.Attachment; a != nil {
		if len(a.Content) > maxAttachmentBytes {
			writeError(w, http.StatusRequestEntityTooLarge, CodeValidationFailed, "attachment is too large")
			return orchestrator.Request{}, false
		}
		req.Attachment = &orchestrator.Attachment{FileName: a.FileName, Content: a.Content}
	}
	return req, true
}

// wordChunks splits a message on single spaces, keeping the separator on
// every chunk but the last so the concatenation equals the input.
func wordChunks(msg string) []string {
	if msg == "" {
		return nil
	}
	words := strings.Split(msg, " ")
	out := make([]string, len(words))
	for i, w := range words {
		if i < len(words)-1 {
			w += " "
		}
		out[i] = w
	}
	return out
}
