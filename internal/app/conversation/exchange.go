package conversation

import (
	"context"

	"github.com/google/uuid"

	"github.com/dbu-intelligence/navigator/internal/domain"
	"github.com/dbu-intelligence/navigator/internal/observability"
)

// Outcome is the way one exchange with the inference endpoint ended.
type Outcome int

const (
	OutcomeReply Outcome = iota
	OutcomeBackendError
	OutcomeEmpty
	OutcomeTransportFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReply:
		return "reply"
	case OutcomeBackendError:
		return "backend_error"
	case OutcomeEmpty:
		return "empty"
	case OutcomeTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Exchange is a submitted request waiting for its response.
type Exchange struct {
	ID          domain.ExchangeID
	SessionID   domain.SessionID
	UserMessage domain.Message
	Request     domain.InferenceRequest
}

// Result is the classified response of an exchange. Text is what the
// assistant message will say.
type Result struct {
	Exchange *Exchange
	Outcome  Outcome
	Text     string
	Err      error
}

// Submit is the first phase of sending: it appends the user message, marks the
// manager in flight, builds the request and clears the pending input. It
// returns false, changing nothing, when a request is already in flight or
// nothing is staged.
func (m *Manager) Submit(ctx context.Context) (*Exchange, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inFlight {
		return nil, false
	}
	if m.pending.IsEmpty() {
		return nil, false
	}

	hasAttachment := m.pending.Attachment != nil
	text := m.pending.Text
	if text == "" && hasAttachment {
		text = AttachmentPlaceholder
	}

	userMsg := m.appendLocked(domain.RoleUser, text, hasAttachment)
	m.inFlight = true

	ex := &Exchange{
		ID:          domain.ExchangeID(uuid.NewString()),
		SessionID:   m.session.ID,
		UserMessage: userMsg,
		Request: domain.InferenceRequest{
			Message: m.pending.Text,
			Image:   m.pending.Attachment,
		},
	}

	m.pending = domain.PendingInput{}

	observability.LoggerFromContext(ctx).Info("message submitted",
		"exchange_id", ex.ID,
		"session_id", ex.SessionID,
		"has_attachment", hasAttachment,
	)

	return ex, true
}

// Dispatch performs the one call to the inference endpoint for ex and
// classifies the response. It does not touch manager state, so it may run off
// the event loop.
func (m *Manager) Dispatch(ctx context.Context, ex *Exchange) Result {
	ctx = observability.WithExchangeID(ctx, string(ex.ID))
	log := observability.LoggerFromContext(ctx)

	resp, err := m.inference.Send(ctx, ex.Request)
	if err != nil {
		log.Warn("inference request failed", "error", err)
		return Result{Exchange: ex, Outcome: OutcomeTransportFailure, Text: ConnectionFallback, Err: err}
	}

	return Classify(ex, resp)
}

// Classify maps a well-formed response onto an outcome. A reply wins over an
// error; a response with neither gets the fixed fallback.
func Classify(ex *Exchange, resp domain.InferenceResponse) Result {
	switch {
	case resp.Reply != "":
		return Result{Exchange: ex, Outcome: OutcomeReply, Text: resp.Reply}
	case resp.Error != "":
		return Result{Exchange: ex, Outcome: OutcomeBackendError, Text: resp.Error}
	default:
		return Result{Exchange: ex, Outcome: OutcomeEmpty, Text: NoResponseFallback}
	}
}

// Complete is the second phase of sending: it appends the assistant message for
// res, starts speaking a reply without waiting for it, and always clears the
// in-flight flag.
func (m *Manager) Complete(ctx context.Context, res Result) domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.inFlight = false }()

	if res.Exchange != nil {
		ctx = observability.WithExchangeID(ctx, string(res.Exchange.ID))
	}
	log := observability.LoggerFromContext(ctx)

	msg := m.appendLocked(domain.RoleAssistant, res.Text, false)

	if res.Outcome == OutcomeReply && m.speech != nil {
		m.speaking.Add(1)
		go func() {
			defer m.speaking.Done()
			m.speak(context.WithoutCancel(ctx), res.Text)
		}()
	}

	log.Info("exchange completed", "outcome", res.Outcome.String(), "session_id", m.session.ID)
	return msg
}

func (m *Manager) speak(ctx context.Context, text string) {
	if err := m.speech.Speak(ctx, text); err != nil {
		observability.LoggerFromContext(ctx).Warn("speech output failed", "error", err)
	}
}

// WaitSpeech blocks until every reply handed to speech output has finished or
// ctx is done. Callers that exit right after a reply use it; the chat page
// never does.
func (m *Manager) WaitSpeech(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.speaking.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Send runs Submit, Dispatch and Complete back to back for callers without an
// event loop. It returns false when Submit rejected the call.
func (m *Manager) Send(ctx context.Context) (Result, bool) {
	ex, ok := m.Submit(ctx)
	if !ok {
		return Result{}, false
	}

	res := m.Dispatch(ctx, ex)
	m.Complete(ctx, res)
	return res, true
}
