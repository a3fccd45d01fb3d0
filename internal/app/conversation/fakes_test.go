package conversation_test

import (
	"context"
	"errors"
	"sync"

	"github.com/dbu-intelligence/navigator/internal/domain"
)

type fakeInference struct {
	mu       sync.Mutex
	resp     domain.InferenceResponse
	err      error
	requests []domain.InferenceRequest
}

func (f *fakeInference) Send(_ context.Context, req domain.InferenceRequest) (domain.InferenceResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.resp, f.err
}

func (f *fakeInference) respond(resp domain.InferenceResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resp, f.err = resp, err
}

func (f *fakeInference) calls() []domain.InferenceRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.InferenceRequest(nil), f.requests...)
}

type fakeSpeaker struct {
	spoken chan string
	err    error
}

func newFakeSpeaker() *fakeSpeaker {
	return &fakeSpeaker{spoken: make(chan string, 8)}
}

func (f *fakeSpeaker) Speak(_ context.Context, text string) error {
	f.spoken <- text
	return f.err
}

type fakeCapture struct {
	available bool
	events    []domain.DictationEvent
	err       error
}

func (f *fakeCapture) Available() bool { return f.available }

func (f *fakeCapture) Listen(context.Context) (<-chan domain.DictationEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan domain.DictationEvent, len(f.events))
	for _, ev := range f.events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:5001: connect: connection refused")

// gatedSpeaker blocks every Speak until release is closed.
type gatedSpeaker struct {
	release chan struct{}
	done    chan string
}

func newGatedSpeaker() *gatedSpeaker {
	return &gatedSpeaker{release: make(chan struct{}), done: make(chan string, 8)}
}

func (g *gatedSpeaker) Speak(_ context.Context, text string) error {
	<-g.release
	g.done <- text
	return nil
}
