package domain

type DictationEventType int

const (
	DictationStarted DictationEventType = iota
	DictationResult
	DictationFailed
	DictationEnded
)

func (t DictationEventType) String() string {
	switch t {
	case DictationStarted:
		return "started"
	case DictationResult:
		return "result"
	case DictationFailed:
		return "failed"
	case DictationEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// DictationFailureKind separates a denied microphone from everything else,
// because the former gets its own notice.
type DictationFailureKind string

const (
	DictationDenied  DictationFailureKind = "permission_denied"
	DictationFailure DictationFailureKind = "failure"
)

type DictationEvent struct {
	Type       DictationEventType
	Transcript string
	Kind       DictationFailureKind
	Err        error
}
