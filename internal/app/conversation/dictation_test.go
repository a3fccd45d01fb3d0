package conversation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbu-intelligence/navigator/internal/app/conversation"
	"github.com/dbu-intelligence/navigator/internal/domain"
)

func TestDictationUnavailable(t *testing.T) {
	ctx := context.Background()

	m, _ := newTestManager(t)
	_, err := m.StartDictation(ctx)
	assert.ErrorIs(t, err, domain.ErrSpeechUnavailable)
	assert.False(t, m.Listening())

	m, _ = newTestManager(t, conversation.WithSpeechCapture(&fakeCapture{available: false}))
	m.SetPendingText("keep me")
	_, err = m.Dictate(ctx)
	assert.ErrorIs(t, err, domain.ErrSpeechUnavailable)
	assert.Equal(t, "keep me", m.Pending().Text)
	assert.False(t, m.Listening())
}

func TestDictationResultFillsPendingText(t *testing.T) {
	capture := &fakeCapture{
		available: true,
		events: []domain.DictationEvent{
			{Type: domain.DictationStarted},
			{Type: domain.DictationResult, Transcript: "where is the library"},
			{Type: domain.DictationEnded},
		},
	}
	m, _ := newTestManager(t, conversation.WithSpeechCapture(capture))
	m.SetPendingText("old draft")

	notice, err := m.Dictate(context.Background())
	require.NoError(t, err)
	assert.Nil(t, notice)
	assert.Equal(t, "where is the library", m.Pending().Text)
	assert.False(t, m.Listening())
	assert.Len(t, m.Transcript(), 1, "dictation never submits")
}

func TestDictationDeniedRaisesNotice(t *testing.T) {
	capture := &fakeCapture{
		available: true,
		events: []domain.DictationEvent{
			{Type: domain.DictationStarted},
			{Type: domain.DictationFailed, Kind: domain.DictationDenied, Err: domain.ErrMicrophoneDenied},
			{Type: domain.DictationEnded},
		},
	}
	m, _ := newTestManager(t, conversation.WithSpeechCapture(capture))

	notice, err := m.Dictate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, conversation.DeniedNotice, notice.Text)
	assert.False(t, m.Listening())
	assert.Empty(t, m.Pending().Text)
}

func TestDictationGenericFailureIsQuiet(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	assert.Nil(t, m.HandleDictationEvent(ctx, domain.DictationEvent{Type: domain.DictationStarted}))
	assert.True(t, m.Listening())

	notice := m.HandleDictationEvent(ctx, domain.DictationEvent{
		Type: domain.DictationFailed,
		Kind: domain.DictationFailure,
		Err:  errors.New("no speech detected"),
	})
	assert.Nil(t, notice)
	assert.False(t, m.Listening())
}

func TestDictationSingleOutstanding(t *testing.T) {
	capture := &fakeCapture{available: true}
	m, _ := newTestManager(t, conversation.WithSpeechCapture(capture))
	ctx := context.Background()

	events, err := m.StartDictation(ctx)
	require.NoError(t, err)
	assert.True(t, m.Listening())

	_, err = m.StartDictation(ctx)
	assert.ErrorIs(t, err, domain.ErrDictationActive)

	for ev := range events {
		m.HandleDictationEvent(ctx, ev)
	}
	m.HandleDictationEvent(ctx, domain.DictationEvent{Type: domain.DictationEnded})
	assert.False(t, m.Listening())
}

func TestDictationListenErrorResetsState(t *testing.T) {
	capture := &fakeCapture{available: true, err: errors.New("recorder missing")}
	m, _ := newTestManager(t, conversation.WithSpeechCapture(capture))

	_, err := m.StartDictation(context.Background())
	assert.Error(t, err)
	assert.False(t, m.Listening())
}
