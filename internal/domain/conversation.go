package domain

import "strings"

// Message is one entry of a session transcript (user or assistant).
// Messages are never modified after they are appended.
type Message struct {
	ID            MessageID
	Role          Role
	Text          string
	HasAttachment bool
	CreatedAt     Timestamp
}

// Session is one continuous conversation. Transcript[0] is always the seeded
// welcome message.
type Session struct {
	ID         SessionID
	CreatedAt  Timestamp
	Transcript []Message
}

// ArchiveEntry is what remains of a retired session: a short title.
type ArchiveEntry struct {
	SessionID  SessionID
	Title      string
	ArchivedAt Timestamp
}

// Attachment is a binary asset staged by the user (an image, in practice).
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// PendingInput is what the user has staged but not yet submitted.
type PendingInput struct {
	Text       string
	Attachment *Attachment
}

// IsEmpty reports whether nothing is staged. Whitespace-only text counts as
// nothing.
func (p PendingInput) IsEmpty() bool {
	return strings.TrimSpace(p.Text) == "" && p.Attachment == nil
}
