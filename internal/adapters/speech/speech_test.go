package speech

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbu-intelligence/navigator/internal/domain"
)

type fakeAudio struct {
	speechReq     openai.CreateSpeechRequest
	transcription string
	transcribeErr error
	speechErr     error
}

func (f *fakeAudio) CreateSpeech(_ context.Context, req openai.CreateSpeechRequest) (openai.RawResponse, error) {
	f.speechReq = req
	if f.speechErr != nil {
		return openai.RawResponse{}, f.speechErr
	}
	return openai.RawResponse{ReadCloser: io.NopCloser(strings.NewReader("ID3fake-mp3"))}, nil
}

func (f *fakeAudio) CreateTranscription(_ context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	if _, err := os.Stat(req.FilePath); err != nil {
		return openai.AudioResponse{}, err
	}
	return openai.AudioResponse{Text: f.transcription}, f.transcribeErr
}

type recordedRun struct {
	name string
	args []string
}

func fakeRunner(calls *[]recordedRun, stderr string, err error) runFunc {
	return func(_ context.Context, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, recordedRun{name: name, args: args})
		return []byte(stderr), err
	}
}

func drain(t *testing.T, ch <-chan domain.DictationEvent) []domain.DictationEvent {
	t.Helper()
	var out []domain.DictationEvent
	for ev := range ch {
		out = append(out, ev)
	}
	return out
}

func newTestDictation(api audioAPI, run runFunc) *OpenAIDictation {
	return &OpenAIDictation{
		api:      api,
		recorder: "arecord",
		args:     []string{"-q", "-d", "5"},
		run:      run,
		lookup:   func(string) bool { return true },
	}
}

func TestDictationResult(t *testing.T) {
	var calls []recordedRun
	d := newTestDictation(&fakeAudio{transcription: "  where is the library \n"}, fakeRunner(&calls, "", nil))

	ch, err := d.Listen(context.Background())
	require.NoError(t, err)
	events := drain(t, ch)

	require.Len(t, events, 3)
	assert.Equal(t, domain.DictationStarted, events[0].Type)
	assert.Equal(t, domain.DictationResult, events[1].Type)
	assert.Equal(t, "where is the library", events[1].Transcript)
	assert.Equal(t, domain.DictationEnded, events[2].Type)

	require.Len(t, calls, 1)
	assert.Equal(t, "arecord", calls[0].name)
	assert.Equal(t, []string{"-q", "-d", "5"}, calls[0].args[:3])
	assert.True(t, strings.HasSuffix(calls[0].args[3], ".wav"))
}

func TestDictationPermissionDenied(t *testing.T) {
	var calls []recordedRun
	run := fakeRunner(&calls, "arecord: main:831: audio open error: Permission denied", errors.New("exit status 1"))
	d := newTestDictation(&fakeAudio{}, run)

	ch, err := d.Listen(context.Background())
	require.NoError(t, err)
	events := drain(t, ch)

	require.Len(t, events, 3)
	assert.Equal(t, domain.DictationFailed, events[1].Type)
	assert.Equal(t, domain.DictationDenied, events[1].Kind)
	assert.ErrorIs(t, events[1].Err, domain.ErrMicrophoneDenied)
}

func TestDictationOtherFailures(t *testing.T) {
	var calls []recordedRun

	d := newTestDictation(&fakeAudio{}, fakeRunner(&calls, "device busy", errors.New("exit status 1")))
	events := drain(t, must(d.Listen(context.Background())))
	assert.Equal(t, domain.DictationFailure, events[1].Kind)

	d = newTestDictation(&fakeAudio{transcription: "   "}, fakeRunner(&calls, "", nil))
	events = drain(t, must(d.Listen(context.Background())))
	assert.Equal(t, domain.DictationFailed, events[1].Type)
	assert.Equal(t, domain.DictationFailure, events[1].Kind)

	d = newTestDictation(&fakeAudio{transcribeErr: errors.New("401")}, fakeRunner(&calls, "", nil))
	events = drain(t, must(d.Listen(context.Background())))
	assert.Equal(t, domain.DictationFailure, events[1].Kind)
}

func must(ch <-chan domain.DictationEvent, err error) <-chan domain.DictationEvent {
	if err != nil {
		panic(err)
	}
	return ch
}

func TestDictationUnavailableWithoutRecorder(t *testing.T) {
	d := newTestDictation(&fakeAudio{}, nil)
	d.lookup = func(string) bool { return false }

	assert.False(t, d.Available())
	_, err := d.Listen(context.Background())
	assert.ErrorIs(t, err, domain.ErrSpeechUnavailable)
}

func TestOpenAISpeakerPlaysAudio(t *testing.T) {
	var calls []recordedRun
	api := &fakeAudio{}
	s := &OpenAISpeaker{api: api, model: "tts-1", voice: "alloy", player: "ffplay", args: []string{"-nodisp"}, run: fakeRunner(&calls, "", nil)}

	require.NoError(t, s.Speak(context.Background(), "**Library**: Building 4"))
	assert.Equal(t, "Library: Building 4", api.speechReq.Input)
	assert.Equal(t, openai.SpeechVoice("alloy"), api.speechReq.Voice)

	require.Len(t, calls, 1)
	assert.Equal(t, "ffplay", calls[0].name)
	played := calls[0].args[len(calls[0].args)-1]
	assert.True(t, strings.HasSuffix(played, ".mp3"))
	_, err := os.Stat(played)
	assert.True(t, os.IsNotExist(err), "temp audio is removed after playback")
}

func TestOpenAISpeakerError(t *testing.T) {
	var calls []recordedRun
	s := &OpenAISpeaker{api: &fakeAudio{speechErr: errors.New("rate limited")}, player: "ffplay", run: fakeRunner(&calls, "", nil)}

	assert.Error(t, s.Speak(context.Background(), "hello"))
	assert.Empty(t, calls)
}

func TestCommandSpeaker(t *testing.T) {
	var calls []recordedRun
	s, err := NewCommandSpeaker("espeak -s 150")
	require.NoError(t, err)
	s.run = fakeRunner(&calls, "", nil)

	require.NoError(t, s.Speak(context.Background(), "- Wear **warm** clothes"))
	require.Len(t, calls, 1)
	assert.Equal(t, "espeak", calls[0].name)
	assert.Equal(t, []string{"-s", "150", "Wear warm clothes"}, calls[0].args)

	require.NoError(t, s.Speak(context.Background(), "**"))
	assert.Len(t, calls, 1, "nothing left to say")

	s.run = fakeRunner(&calls, "no audio device", errors.New("exit status 1"))
	assert.Error(t, s.Speak(context.Background(), "hello"))
}

func TestNewCommandSpeakerEmpty(t *testing.T) {
	_, err := NewCommandSpeaker("   ")
	assert.Error(t, err)
}

func TestIsPermissionDenied(t *testing.T) {
	assert.True(t, isPermissionDenied(os.ErrPermission, nil))
	assert.True(t, isPermissionDenied(errors.New("exit status 1"), []byte("Operation not permitted")))
	assert.False(t, isPermissionDenied(errors.New("exit status 1"), []byte("no such device")))
}

func TestNoopAdapters(t *testing.T) {
	var capture domain.SpeechCapture = Unsupported{}
	assert.False(t, capture.Available())
	_, err := capture.Listen(context.Background())
	assert.ErrorIs(t, err, domain.ErrSpeechUnavailable)

	var out domain.SpeechOutput = Silent{}
	assert.NoError(t, out.Speak(context.Background(), "hello"))
}
