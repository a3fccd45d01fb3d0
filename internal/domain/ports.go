package domain

import "context"

// InferenceRequest is the payload of one exchange with the inference endpoint.
type InferenceRequest struct {
	Message string
	Image   *Attachment
}

// InferenceResponse mirrors the endpoint's JSON body. Both fields are optional.
type InferenceResponse struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// InferenceClient defines how the client talks to the remote inference endpoint.
// A returned error means the exchange failed at the transport level; application
// errors come back in InferenceResponse.Error.
type InferenceClient interface {
	Send(ctx context.Context, req InferenceRequest) (InferenceResponse, error)
}

// SpeechOutput speaks arbitrary text. Callers do not wait on it.
type SpeechOutput interface {
	Speak(ctx context.Context, text string) error
}

// SpeechCapture is a speech-to-text capability that may not exist on the host.
type SpeechCapture interface {
	Available() bool
	// Listen starts one dictation. The channel delivers DictationStarted, at most
	// one DictationResult or DictationFailed, then DictationEnded, and is closed.
	Listen(ctx context.Context) (<-chan DictationEvent, error)
}

// ArchiveStore keeps the titles of retired sessions, most recent first.
type ArchiveStore interface {
	PrependEntry(entry ArchiveEntry) error
	ListEntries(limit int) ([]ArchiveEntry, error)
}
