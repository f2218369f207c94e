package chat

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/SubhamSharma-IITM/dost-chat/pkg/dost"
)

// Phase names the request lifecycle states.
type Phase int

const (
	// PhaseIdle accepts new submissions.
	PhaseIdle Phase = iota
	// PhaseSubmitting covers echo append and dispatch.
	PhaseSubmitting
	// PhaseAwaitingResponse has a request on the wire.
	PhaseAwaitingResponse
	// PhaseRevealing holds the normalized response until the shell finishes
	// displaying it.
	PhaseRevealing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseAwaitingResponse:
		return "awaiting-response"
	case PhaseRevealing:
		return "revealing"
	default:
		return "unknown"
	}
}

// ErrRequestInFlight rejects a submission attempted while another request is
// active. At most one request is in flight at a time.
var ErrRequestInFlight = errors.New("a request is already in flight")

// FailureNotice is the single generic user-visible notice for transport
// failures. Nothing more specific crosses into the presentation shell.
const FailureNotice = "Something went wrong!"

// voiceFallbackText replaces the voice placeholder when the response carries
// no usable transcription.
const voiceFallbackText = "Voice input"

// QueryService dispatches assembled payloads to the backend. dost.Client is
// the production implementation.
type QueryService interface {
	ProcessQuery(ctx context.Context, sessionID string, p *dost.Payload) (*dost.QueryResponse, error)
}

// RequestHandle is the cancellation capability for the single in-flight
// request, independent of the transport. Cancellation is cooperative: it
// prevents the result of the call from being applied, it cannot recall
// already-transmitted bytes.
type RequestHandle struct {
	cancel    context.CancelFunc
	cancelled atomic.Bool
}

// Cancel marks the handle cancelled and releases the underlying request.
func (h *RequestHandle) Cancel() {
	h.cancelled.Store(true)
	h.cancel()
}

// Cancelled reports whether Cancel has been invoked.
func (h *RequestHandle) Cancelled() bool {
	return h.cancelled.Load()
}

// EventType classifies controller events.
type EventType int

const (
	// EventResponseReady signals a normalized response awaiting reveal.
	EventResponseReady EventType = iota
	// EventFailed signals a transport failure; Notice carries the generic
	// user-visible text.
	EventFailed
	// EventCancelled signals that an explicit cancellation settled. Silent:
	// no user-visible notice.
	EventCancelled
)

// Event notifies the presentation shell that the in-flight request settled.
type Event struct {
	Type   EventType
	Notice string
}

// Controller owns the conversation log and the single in-flight request:
// it issues requests, exposes cancellation, enforces the at-most-one-active
// invariant, and maps completion, failure and cancellation into state
// transitions. Network-boundary failures never propagate past it.
type Controller struct {
	svc     QueryService
	session SessionID
	logger  *zap.Logger

	mu      sync.Mutex
	log     *Log
	phase   Phase
	active  *RequestHandle
	pending *Message

	events chan Event
}

// NewController creates a controller bound to one session identity.
func NewController(svc QueryService, session SessionID, logger *zap.Logger) *Controller {
	return &Controller{
		svc:     svc,
		session: session,
		logger:  logger,
		log:     NewLog(),
		events:  make(chan Event, 4),
	}
}

// Log returns the conversation log, the only state the shell renders.
func (c *Controller) Log() *Log {
	return c.log
}

// Session returns the session identity attached to every request.
func (c *Controller) Session() SessionID {
	return c.session
}

// Events delivers settlement notifications to the shell.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Phase returns the current lifecycle state.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Loading reports whether a turn is still in progress: a request on the wire
// or a response not yet fully revealed.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase != PhaseIdle
}

// ResponseReady reports whether a normalized response awaits reveal.
func (c *Controller) ResponseReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// PendingResponse returns a copy of the response awaiting reveal, or nil.
func (c *Controller) PendingResponse() *Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil
	}
	m := *c.pending
	return &m
}

// submissionMeta records what the dispatch goroutine needs to settle a turn.
type submissionMeta struct {
	userMsgID     string
	voice         bool
	nonText       bool
	contextPrefix string
}

// Submit validates the staged input and dispatches it. Valid only from Idle.
// The user's message is appended immediately (optimistic echo) with a local
// preview for image attachments; callers clear their staged input
// unconditionally once Submit accepts, independent of the eventual outcome.
//
// ErrEmptyInput means nothing happened (no message, no request).
// ErrRequestInFlight is a precondition violation, never a silent queue.
func (c *Controller) Submit(in Input) (*RequestHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseIdle {
		return nil, ErrRequestInFlight
	}

	payload, err := BuildPayload(in)
	if err != nil {
		return nil, err
	}

	c.phase = PhaseSubmitting

	echo := Message{
		ID:          NewID(),
		Role:        RoleUser,
		Text:        echoText(in),
		NeedsReveal: true,
	}
	if in.Image != nil {
		echo.Preview = in.Image.Name
	}
	c.log.Append(echo)

	ctx, cancel := context.WithCancel(context.Background())
	h := &RequestHandle{cancel: cancel}
	c.active = h
	c.pending = nil
	c.phase = PhaseAwaitingResponse

	meta := submissionMeta{
		userMsgID:     echo.ID,
		voice:         in.Audio != nil,
		nonText:       in.Audio != nil || in.Image != nil,
		contextPrefix: contextPrefix(in),
	}
	go c.dispatch(ctx, h, payload, meta)

	c.logger.Info("query submitted",
		zap.String("message_id", echo.ID),
		zap.Bool("voice", meta.voice),
		zap.Bool("image", in.Image != nil),
	)
	return h, nil
}

// Cancel aborts the active request and discards any pending response. With
// no active request it is a silent no-op. No user-visible notice is raised.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return
	}
	h := c.active
	c.active = nil
	c.pending = nil
	c.phase = PhaseIdle

	h.Cancel()
	c.logger.Info("request cancelled by user")
}

// FinishReveal is the shell's single callback once it has finished revealing
// the pending response: the message joins the log and loading clears.
func (c *Controller) FinishReveal() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseRevealing || c.pending == nil {
		return
	}
	c.log.Append(*c.pending)
	c.pending = nil
	c.phase = PhaseIdle
}

// dispatch runs on its own goroutine: it performs the network call and maps
// the outcome back into lifecycle state. A handle superseded by Cancel (or by
// a later Submit) never applies its result.
func (c *Controller) dispatch(ctx context.Context, h *RequestHandle, p *dost.Payload, meta submissionMeta) {
	resp, err := c.svc.ProcessQuery(ctx, string(c.session), p)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != h {
		return
	}
	c.active = nil

	if h.Cancelled() || errors.Is(err, context.Canceled) {
		c.phase = PhaseIdle
		c.pending = nil
		c.emit(Event{Type: EventCancelled})
		return
	}

	if err != nil {
		c.phase = PhaseIdle
		c.logger.Error("query failed", zap.Error(err))
		c.emit(Event{Type: EventFailed, Notice: FailureNotice})
		return
	}

	if meta.nonText {
		c.applyTranscript(meta, resp)
	}

	answer := dost.Normalize(resp)
	pending := Message{
		ID:          NewID(),
		Role:        RoleSystem,
		Kind:        answer.Kind,
		Script:      answer.Script,
		Results:     answer.Results,
		NeedsReveal: true,
	}
	c.pending = &pending
	c.phase = PhaseRevealing

	c.logger.Info("response normalized",
		zap.String("kind", string(answer.Kind)),
		zap.Int("script_segments", len(answer.Script)),
		zap.Int("results", len(answer.Results)),
	)
	c.emit(Event{Type: EventResponseReady})
}

// applyTranscript rewrites the echoed user message in place once the backend
// reports what it heard or read, re-prepending any caption as a bold
// "Context:" line. Malformed echoes degrade, they never fail the turn.
func (c *Controller) applyTranscript(meta submissionMeta, resp *dost.QueryResponse) {
	text, ok := dost.TranscriptText(resp.Query)
	if !ok {
		if !meta.voice {
			return
		}
		text = voiceFallbackText
	}
	c.log.AmendText(meta.userMsgID, withContextPrefix(meta.contextPrefix, text))
}

// emit never blocks the dispatch goroutine; a full channel drops the event.
func (c *Controller) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.logger.Warn("dropping controller event", zap.Int("event_type", int(ev.Type)))
	}
}
