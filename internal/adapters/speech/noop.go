package speech

import (
	"context"

	"github.com/dbu-intelligence/navigator/internal/domain"
)

// Unsupported is the SpeechCapture of a host without dictation.
type Unsupported struct{}

func (Unsupported) Available() bool { return false }

func (Unsupported) Listen(context.Context) (<-chan domain.DictationEvent, error) {
	return nil, domain.ErrSpeechUnavailable
}

// Silent discards everything it is asked to say.
type Silent struct{}

func (Silent) Speak(context.Context, string) error { return nil }
