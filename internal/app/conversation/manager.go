package conversation

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dbu-intelligence/navigator/internal/domain"
	"github.com/dbu-intelligence/navigator/internal/observability"
)

const (
	InitialWelcome = "Welcome to DBU Intelligence. I am ready to assist with campus navigation, academic data, or image analysis."
	SessionWelcome = "New Intelligence Session. How can I assist you?"

	AttachmentPlaceholder = "Analyzed an image"
	NoResponseFallback    = "No response received from AI."
	ConnectionFallback    = "Failed to connect to backend. Is it running?"

	// TitleLength is the number of runes kept from a reply when it becomes an
	// archive title.
	TitleLength   = 25
	TitleEllipsis = "..."
)

// Manager owns the active session, the pending input, the in-flight flag and
// the archive of retired sessions. All state changes go through its methods.
type Manager struct {
	inference domain.InferenceClient
	speech    domain.SpeechOutput
	capture   domain.SpeechCapture
	archive   domain.ArchiveStore
	now       func() time.Time

	mu        sync.Mutex
	session   domain.Session
	pending   domain.PendingInput
	inFlight  bool
	listening bool

	speaking sync.WaitGroup
}

type Option func(*Manager)

// WithSpeechOutput sets the capability used to read replies aloud.
func WithSpeechOutput(s domain.SpeechOutput) Option {
	return func(m *Manager) { m.speech = s }
}

// WithSpeechCapture sets the dictation capability.
func WithSpeechCapture(c domain.SpeechCapture) Option {
	return func(m *Manager) { m.capture = c }
}

// WithClock replaces time.Now for message and archive timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a manager with a fresh session seeded with the initial
// welcome message. inference and archive are required.
func NewManager(inference domain.InferenceClient, archive domain.ArchiveStore, opts ...Option) *Manager {
	m := &Manager{
		inference: inference,
		archive:   archive,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.session = m.newSession(InitialWelcome)
	return m
}

func (m *Manager) newSession(welcome string) domain.Session {
	now := m.now()
	return domain.Session{
		ID:        domain.SessionID(uuid.NewString()),
		CreatedAt: now,
		Transcript: []domain.Message{{
			ID:        domain.MessageID(uuid.NewString()),
			Role:      domain.RoleAssistant,
			Text:      welcome,
			CreatedAt: now,
		}},
	}
}

// StartNewSession retires the active session and replaces it with a fresh one.
// An archive entry is produced only if the retired session had more than its
// welcome message; it is returned so callers can show it.
func (m *Manager) StartNewSession(ctx context.Context) *domain.ArchiveEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := observability.LoggerFromContext(ctx).With("session_id", m.session.ID)

	var entry *domain.ArchiveEntry
	if len(m.session.Transcript) > 1 {
		e := domain.ArchiveEntry{
			SessionID:  m.session.ID,
			Title:      archiveTitle(m.session.Transcript[1:]),
			ArchivedAt: m.now(),
		}
		if err := m.archive.PrependEntry(e); err != nil {
			log.Error("failed to archive session", "error", err)
		} else {
			entry = &e
		}
	}

	m.session = m.newSession(SessionWelcome)
	m.pending = domain.PendingInput{}

	log.Info("new session started", "new_session_id", m.session.ID, "archived", entry != nil)
	return entry
}

// archiveTitle picks the first assistant reply after the welcome message, or
// the first message at all when no reply has arrived yet.
func archiveTitle(msgs []domain.Message) string {
	source := msgs[0].Text
	for _, msg := range msgs {
		if msg.Role == domain.RoleAssistant {
			source = msg.Text
			break
		}
	}
	return TruncateTitle(source)
}

// TruncateTitle keeps the first TitleLength runes of text and appends the
// ellipsis marker.
func TruncateTitle(text string) string {
	if utf8.RuneCountInString(text) > TitleLength {
		text = string([]rune(text)[:TitleLength])
	}
	return text + TitleEllipsis
}

func (m *Manager) SetPendingText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending.Text = text
}

// SetPendingAttachment stages a, replacing any staged attachment. nil cancels.
func (m *Manager) SetPendingAttachment(a *domain.Attachment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending.Attachment = a
}

// Session returns a copy of the active session.
func (m *Manager) Session() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session
	s.Transcript = append([]domain.Message(nil), m.session.Transcript...)
	return s
}

func (m *Manager) Transcript() []domain.Message {
	return m.Session().Transcript
}

func (m *Manager) Pending() domain.PendingInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

func (m *Manager) InFlight() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight
}

// Archive lists retired session titles, most recent first.
func (m *Manager) Archive() []domain.ArchiveEntry {
	entries, err := m.archive.ListEntries(0)
	if err != nil {
		observability.Logger().Error("failed to list archive", "error", err)
		return nil
	}
	return entries
}

func (m *Manager) appendLocked(role domain.Role, text string, hasAttachment bool) domain.Message {
	msg := domain.Message{
		ID:            domain.MessageID(uuid.NewString()),
		Role:          role,
		Text:          text,
		HasAttachment: hasAttachment,
		CreatedAt:     m.now(),
	}
	m.session.Transcript = append(m.session.Transcript, msg)
	return msg
}
