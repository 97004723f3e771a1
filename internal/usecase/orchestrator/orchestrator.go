// Package orchestrator routes one user request through the dispatch graph:
// Routing, then exactly one of IngestResume, IngestJob, Search, Chat or
// ErrorHandler, then Done.
package orchestrator

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	domchat "github.com/kailas-cloud/talentmatch/internal/domain/chat"
	"github.com/kailas-cloud/talentmatch/internal/domain/envelope"
	"github.com/kailas-cloud/talentmatch/internal/domain/intent"
	"github.com/kailas-cloud/talentmatch/internal/domain/role"
	"github.com/kailas-cloud/talentmatch/internal/logger"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
	"github.com/kailas-cloud/talentmatch/internal/tracing"
)

// Node is a state of the dispatch graph.
type Node string

// Graph states.
const (
	NodeRouting      Node = "routing"
	NodeIngestResume Node = "ingest_resume"
	NodeIngestJob    Node = "ingest_job"
	NodeSearch       Node = "search"
	NodeChat         Node = "chat"
	NodeError        Node = "error"
)

// dispatchTable maps every intent onto its handler node.
var dispatchTable = map[intent.Intent]Node{
	intent.IngestResume:     NodeIngestResume,
	intent.IngestJob:        NodeIngestJob,
	intent.SearchCandidates: NodeSearch,
	intent.SearchJobs:       NodeSearch,
	intent.ChatAboutResume:  NodeChat,
	intent.ChatAboutJob:     NodeChat,
	intent.GeneralChat:      NodeChat,
}

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]{0,127}$`)

// Attachment is an uploaded document.
type Attachment struct {
	FileName string
	Content  string
}

// Request is the single inbound contract of the core.
type Request struct {
	Message     string
	UserID      string
	Role        string
	SessionID   string
	ContextType string
	ContextIDs  []string
	Attachment  *Attachment
}

// state is the per-run scratchpad. It never outlives Run.
type state struct {
	req       Request
	role      role.Role
	binding   domchat.Binding
	decision  intent.Decision
	threadKey string
	err       error
}

type handler func(ctx context.Context, st *state) (envelope.Envelope, error)

// Orchestrator owns the dispatch graph. It holds no per-run state and is safe
// for concurrent use.
type Orchestrator struct {
	classifier Classifier
	ingest     Ingester
	search     Searcher
	chat       Chatter
	tracer     trace.Tracer
	logger     *zap.Logger
	timeout    time.Duration

	handlers map[Node]handler
}

// New creates an orchestrator. timeout <= 0 disables the per-run deadline.
func New(
	classifier Classifier, ingest Ingester, search Searcher, chat Chatter,
	tp trace.TracerProvider, timeout time.Duration, logger *zap.Logger,
) *Orchestrator {
	o := &Orchestrator{
		classifier: classifier,
		ingest:     ingest,
		search:     search,
		chat:       chat,
		tracer:     tracing.Tracer(tp),
		logger:     logger,
		timeout:    timeout,
	}
	o.handlers = map[Node]handler{
		NodeIngestResume: o.ingestResume,
		NodeIngestJob:    o.ingestJob,
		NodeSearch:       o.runSearch,
		NodeChat:         o.runChat,
	}
	return o
}

// Run executes one request and always returns a displayable envelope.
func (o *Orchestrator) Run(ctx context.Context, req Request) (env envelope.Envelope) {
	st := &state{req: req, threadKey: threadKey(req)}
	start := time.Now()

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	log := o.logger.With(
		zap.String("thread_key", st.threadKey),
		zap.String("user_id", req.UserID),
		zap.String("role", req.Role),
	)
	ctx = logger.ContextWithLogger(ctx, log)

	ctx, span := o.tracer.Start(ctx, "orchestrator.run", trace.WithAttributes(
		tracing.AttrThreadKey.String(st.threadKey),
		tracing.AttrUserID.String(req.UserID),
		tracing.AttrRole.String(req.Role),
	))

	node := NodeError
	defer func() {
		if r := recover(); r != nil {
			log.Error("Orchestrator panic recovered",
				zap.Any("panic", r),
				zap.String("node", string(node)),
				zap.Stack("stack"),
			)
			st.err = fmt.Errorf("%w: %v", errPanic, r)
			node = NodeError
			env = o.handleError(st)
		}

		env = envelope.Normalize(env)
		if env.SessionID == "" {
			env.SessionID = req.SessionID
		}

		span.SetAttributes(tracing.AttrIntent.String(st.decision.Intent.String()), tracing.AttrNode.String(string(node)))
		tracing.End(span, st.err)

		log.Info("Run completed",
			zap.String("intent", st.decision.Intent.String()),
			zap.Float64("confidence", st.decision.Confidence),
			zap.String("node", string(node)),
			zap.Bool("degraded", st.err != nil),
			zap.Duration("duration", time.Since(start)),
		)
	}()

	node = o.route(ctx, st)
	env = o.dispatch(ctx, node, st)
	return env
}

// route validates the request and picks exactly one successor node.
func (o *Orchestrator) route(ctx context.Context, st *state) Node {
	defer observe(NodeRouting, time.Now())

	if err := o.validate(st); err != nil {
		st.err = err
		return NodeError
	}

	if strings.TrimSpace(st.req.Message) == "" {
		// validate guarantees an attachment here
		st.decision = intent.Decision{
			Intent:     ingestIntent(st.role),
			Confidence: 1,
			Entities:   map[string]any{},
		}
	} else {
		st.decision = o.classifier.Classify(ctx, st.req.Message, st.role, contextHint(st.binding))
	}

	metrics.IntentsTotal.WithLabelValues(
		st.decision.Intent.String(),
		strconv.FormatBool(st.decision.IsFallback()),
	).Inc()

	next, ok := dispatchTable[st.decision.Intent]
	if !ok {
		st.err = fmt.Errorf("%w %q", errUnroutable, st.decision.Intent)
		return NodeError
	}
	return next
}

func (o *Orchestrator) validate(st *state) error {
	req := st.req
	if strings.TrimSpace(req.UserID) == "" {
		return domain.NewInputError(domain.ErrInvalidInput, "a user id is required")
	}

	r, err := role.Parse(req.Role)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	st.role = r

	if strings.TrimSpace(req.Message) == "" && req.Attachment == nil {
		return domain.NewInputError(domain.ErrInvalidInput, "the message is empty")
	}

	for _, id := range req.ContextIDs {
		if id = strings.TrimSpace(id); id != "" && !idPattern.MatchString(id) {
			return domain.NewInputError(domain.ErrInvalidInput, "context id %q is malformed", logger.Truncate(id, 40))
		}
	}
	if req.SessionID != "" && !idPattern.MatchString(req.SessionID) {
		return domain.NewInputError(domain.ErrInvalidInput, "the session id is malformed")
	}

	st.binding = domchat.NewBinding(req.ContextType, req.ContextIDs)
	return nil
}

// dispatch invokes the node's handler once. A handler failure is rendered by
// the error node within the same run.
func (o *Orchestrator) dispatch(ctx context.Context, node Node, st *state) envelope.Envelope {
	h, ok := o.handlers[node]
	if !ok {
		return o.handleError(st)
	}

	ctx, span := o.tracer.Start(ctx, "orchestrator."+string(node))
	start := time.Now()

	env, err := call(ctx, h, st)

	observe(node, start)
	tracing.End(span, err)

	if err != nil {
		st.err = err
		metrics.NodeErrorsTotal.WithLabelValues(string(node)).Inc()
		logger.FromContext(ctx).Error("Handler failed",
			zap.String("node", string(node)),
			zap.String("intent", st.decision.Intent.String()),
			zap.Error(err),
		)
		return o.handleError(st)
	}
	return env
}

func call(ctx context.Context, h handler, st *state) (env envelope.Envelope, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error("Handler panic recovered", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("%w: %v", errPanic, r)
		}
	}()
	return h(ctx, st)
}

// handleError formats the captured error. It is pure and never fails.
func (o *Orchestrator) handleError(st *state) envelope.Envelope {
	defer observe(NodeError, time.Now())
	return envelope.New(errorMessage(st.err))
}

func observe(node Node, start time.Time) {
	metrics.NodeDuration.WithLabelValues(string(node)).Observe(time.Since(start).Seconds())
}

func threadKey(req Request) string {
	if req.SessionID != "" {
		return req.SessionID
	}
	return req.UserID
}

func ingestIntent(r role.Role) intent.Intent {
	if r == role.Recruiter {
		return intent.IngestJob
	}
	return intent.IngestResume
}

func contextHint(b domchat.Binding) string {
	if b.IsEmpty() {
		return ""
	}
	return fmt.Sprintf("The user is looking at %s context (%d record(s))", b.Type, len(b.IDs))
}
