package conversation

import (
	"context"
	"fmt"

	"github.com/dbu-intelligence/navigator/internal/domain"
	"github.com/dbu-intelligence/navigator/internal/observability"
)

const (
	UnsupportedNotice = "Voice recognition is not supported on this system. Configure a dictation backend to use it."
	DeniedNotice      = "Microphone access was denied. Please check your system settings."
)

// Notice is a message the user has to acknowledge before continuing.
type Notice struct {
	Text string
}

func (m *Manager) Listening() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listening
}

// SpeechAvailable reports whether dictation can be started at all.
func (m *Manager) SpeechAvailable() bool {
	return m.capture != nil && m.capture.Available()
}

// StartDictation starts one dictation. Events must be fed back through
// HandleDictationEvent. Nothing changes when the capability is missing.
func (m *Manager) StartDictation(ctx context.Context) (<-chan domain.DictationEvent, error) {
	if !m.SpeechAvailable() {
		return nil, domain.ErrSpeechUnavailable
	}

	m.mu.Lock()
	if m.listening {
		m.mu.Unlock()
		return nil, domain.ErrDictationActive
	}
	m.listening = true
	m.mu.Unlock()

	events, err := m.capture.Listen(ctx)
	if err != nil {
		m.mu.Lock()
		m.listening = false
		m.mu.Unlock()
		return nil, fmt.Errorf("start dictation: %w", err)
	}
	return events, nil
}

// HandleDictationEvent applies one dictation event. A transcript replaces the
// pending text. A denied microphone yields a Notice.
func (m *Manager) HandleDictationEvent(ctx context.Context, ev domain.DictationEvent) *Notice {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := observability.LoggerFromContext(ctx).With("event", ev.Type.String())

	switch ev.Type {
	case domain.DictationStarted:
		m.listening = true
		log.Debug("microphone is listening")
	case domain.DictationResult:
		m.pending.Text = ev.Transcript
		log.Debug("dictation recognized", "chars", len(ev.Transcript))
	case domain.DictationFailed:
		m.listening = false
		log.Warn("dictation failed", "kind", ev.Kind, "error", ev.Err)
		if ev.Kind == domain.DictationDenied {
			return &Notice{Text: DeniedNotice}
		}
	case domain.DictationEnded:
		m.listening = false
	}
	return nil
}

// Dictate runs StartDictation and drains its events. Used by callers without an
// event loop.
func (m *Manager) Dictate(ctx context.Context) (*Notice, error) {
	events, err := m.StartDictation(ctx)
	if err != nil {
		return nil, err
	}

	var notice *Notice
	for ev := range events {
		if n := m.HandleDictationEvent(ctx, ev); n != nil {
			notice = n
		}
	}

	// a capability that closes without DictationEnded still ends the dictation
	m.mu.Lock()
	m.listening = false
	m.mu.Unlock()

	return notice, nil
}
