package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"

	"github.com/dbu-intelligence/navigator/internal/domain"
	"github.com/dbu-intelligence/navigator/internal/observability"
)

// audioAPI is the part of *openai.Client used here.
type audioAPI interface {
	CreateSpeech(ctx context.Context, request openai.CreateSpeechRequest) (openai.RawResponse, error)
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string

	TTSModel string
	Voice    string

	// PlayerCommand plays an audio file given as its last argument.
	PlayerCommand string
	// RecordCommand records from the microphone into a WAV file given as its
	// last argument and exits.
	RecordCommand string
}

// NewOpenAIClient builds the go-openai client shared by the speaker and the
// dictation.
func NewOpenAIClient(cfg OpenAIConfig) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" && cfg.BaseURL != "https://api.openai.com/v1" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}

// OpenAISpeaker synthesizes replies with the OpenAI speech endpoint and plays
// them with a local player.
type OpenAISpeaker struct {
	api    audioAPI
	model  string
	voice  string
	player string
	args   []string
	run    runFunc
	mu     sync.Mutex
}

func NewOpenAISpeaker(client *openai.Client, cfg OpenAIConfig) (*OpenAISpeaker, error) {
	player, args, err := splitCommand(cfg.PlayerCommand)
	if err != nil {
		return nil, fmt.Errorf("player command: %w", err)
	}
	model := cfg.TTSModel
	if model == "" {
		model = string(openai.TTSModel1)
	}
	voice := cfg.Voice
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}
	return &OpenAISpeaker{
		api:    client,
		model:  model,
		voice:  voice,
		player: player,
		args:   args,
		run:    runCommand,
	}, nil
}

func (s *OpenAISpeaker) Speak(ctx context.Context, text string) error {
	text = stripMarkdown(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	audio, err := s.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.SpeechVoice(s.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return fmt.Errorf("openai speech: %w", err)
	}
	defer audio.Close()

	f, err := os.CreateTemp("", "navigator-tts-*.mp3")
	if err != nil {
		return fmt.Errorf("creating audio file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := io.Copy(f, audio); err != nil {
		f.Close()
		return fmt.Errorf("writing audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing audio file: %w", err)
	}

	args := append(append([]string(nil), s.args...), f.Name())
	if stderr, err := s.run(ctx, s.player, args...); err != nil {
		return fmt.Errorf("playing audio with %s: %w: %s", s.player, err, bytes.TrimSpace(stderr))
	}
	return nil
}

// OpenAIDictation records one clip with a local recorder and transcribes it
// with Whisper.
type OpenAIDictation struct {
	api      audioAPI
	recorder string
	args     []string
	run      runFunc
	lookup   func(string) bool
}

func NewOpenAIDictation(client *openai.Client, cfg OpenAIConfig) (*OpenAIDictation, error) {
	recorder, args, err := splitCommand(cfg.RecordCommand)
	if err != nil {
		return nil, fmt.Errorf("record command: %w", err)
	}
	return &OpenAIDictation{
		api:      client,
		recorder: recorder,
		args:     args,
		run:      runCommand,
		lookup:   commandAvailable,
	}, nil
}

// Available is false when the recorder program is not installed.
func (d *OpenAIDictation) Available() bool {
	return d.api != nil && d.lookup(d.recorder)
}

func (d *OpenAIDictation) Listen(ctx context.Context) (<-chan domain.DictationEvent, error) {
	if !d.Available() {
		return nil, domain.ErrSpeechUnavailable
	}

	events := make(chan domain.DictationEvent, 3)
	go func() {
		defer close(events)
		events <- domain.DictationEvent{Type: domain.DictationStarted}
		events <- d.capture(ctx)
		events <- domain.DictationEvent{Type: domain.DictationEnded}
	}()
	return events, nil
}

func (d *OpenAIDictation) capture(ctx context.Context) domain.DictationEvent {
	log := observability.LoggerFromContext(ctx).With("recorder", d.recorder)

	f, err := os.CreateTemp("", "navigator-dictation-*.wav")
	if err != nil {
		return failed(domain.DictationFailure, fmt.Errorf("creating recording file: %w", err))
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	args := append(append([]string(nil), d.args...), path)
	if stderr, err := d.run(ctx, d.recorder, args...); err != nil {
		if isPermissionDenied(err, stderr) {
			log.Warn("microphone access denied", "stderr", string(bytes.TrimSpace(stderr)))
			return failed(domain.DictationDenied, fmt.Errorf("%w: %v", domain.ErrMicrophoneDenied, err))
		}
		return failed(domain.DictationFailure, fmt.Errorf("recording with %s: %w", d.recorder, err))
	}

	resp, err := d.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: path,
	})
	if err != nil {
		return failed(domain.DictationFailure, fmt.Errorf("openai transcription: %w", err))
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return failed(domain.DictationFailure, errors.New("no speech detected"))
	}
	return domain.DictationEvent{Type: domain.DictationResult, Transcript: text}
}

func failed(kind domain.DictationFailureKind, err error) domain.DictationEvent {
	return domain.DictationEvent{Type: domain.DictationFailed, Kind: kind, Err: err}
}
