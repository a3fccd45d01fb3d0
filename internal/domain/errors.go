package domain

import "errors"

var (
	ErrSpeechUnavailable = errors.New("speech recognition is not available on this system")
	ErrDictationActive   = errors.New("a dictation is already running")
	ErrMicrophoneDenied  = errors.New("microphone access denied")
	ErrEmptyAttachment   = errors.New("attachment is empty")
)
