package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	httpadapter "github.com/dbu-intelligence/navigator/internal/adapters/http"
	"github.com/dbu-intelligence/navigator/internal/adapters/llm"
	"github.com/dbu-intelligence/navigator/internal/adapters/speech"
	"github.com/dbu-intelligence/navigator/internal/adapters/storage/memory"
	"github.com/dbu-intelligence/navigator/internal/adapters/tui"
	"github.com/dbu-intelligence/navigator/internal/app/conversation"
	"github.com/dbu-intelligence/navigator/internal/config"
	"github.com/dbu-intelligence/navigator/internal/domain"
	"github.com/dbu-intelligence/navigator/internal/observability"
)

func initLogging(cfg *config.Config) (func(), error) {
	if cfg.LogFile == "" || cfg.LogFile == "-" {
		observability.Init(os.Stderr, cfg.LogLevel)
		return func() {}, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	observability.Init(f, cfg.LogLevel)
	return func() { _ = f.Close() }, nil
}

func newInference(ctx context.Context, cfg *config.Config) (domain.InferenceClient, error) {
	log := observability.WithFields("component", "inference", "backend", string(cfg.Backend))

	switch cfg.Backend {
	case config.BackendMock:
		log.Info("using mock inference")
		return llm.NewMockInference(), nil

	case config.BackendGemini:
		log.Info("using gemini inference", "model", cfg.ModelName, "project", cfg.GCPProjectID)
		client, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
			APIKey:    cfg.GeminiAPIKey,
			Project:   cfg.GCPProjectID,
			Location:  cfg.GCPLocation,
			ModelName: cfg.ModelName,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing gemini client: %w", err)
		}
		return client, nil

	default:
		log.Info("using http inference", "endpoint", cfg.Endpoint)
		return httpadapter.NewClient(cfg.Endpoint, cfg.HTTPTimeout), nil
	}
}

func openAIConfig(cfg *config.Config) speech.OpenAIConfig {
	return speech.OpenAIConfig{
		APIKey:        cfg.OpenAIAPIKey,
		BaseURL:       cfg.OpenAIBaseURL,
		TTSModel:      cfg.TTSModel,
		Voice:         cfg.TTSVoice,
		PlayerCommand: cfg.PlayerCommand,
		RecordCommand: cfg.RecordCommand,
	}
}

// newSpeechOutput falls back to silence when the configured output cannot be
// used; replies are still shown.
func newSpeechOutput(cfg *config.Config) domain.SpeechOutput {
	log := observability.WithFields("component", "speech_output", "mode", cfg.SpeechOutput)

	switch cfg.SpeechOutput {
	case "command":
		s, err := speech.NewCommandSpeaker(cfg.SpeechCommand)
		if err != nil {
			log.Warn("speech output disabled", "error", err)
			return speech.Silent{}
		}
		return s

	case "openai":
		oc := openAIConfig(cfg)
		s, err := speech.NewOpenAISpeaker(speech.NewOpenAIClient(oc), oc)
		if err != nil {
			log.Warn("speech output disabled", "error", err)
			return speech.Silent{}
		}
		return s
	}
	return speech.Silent{}
}

func newSpeechCapture(cfg *config.Config) domain.SpeechCapture {
	if cfg.Dictation != "openai" {
		return speech.Unsupported{}
	}

	oc := openAIConfig(cfg)
	d, err := speech.NewOpenAIDictation(speech.NewOpenAIClient(oc), oc)
	if err != nil {
		observability.WithFields("component", "dictation").Warn("dictation disabled", "error", err)
		return speech.Unsupported{}
	}
	return d
}

func newManager(ctx context.Context, cfg *config.Config) (*conversation.Manager, error) {
	inference, err := newInference(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return conversation.NewManager(inference, memory.NewArchiveStore(),
		conversation.WithSpeechOutput(newSpeechOutput(cfg)),
		conversation.WithSpeechCapture(newSpeechCapture(cfg)),
	), nil
}

func runInteractive(ctx context.Context, cfg *config.Config) error {
	manager, err := newManager(ctx, cfg)
	if err != nil {
		return err
	}

	model := tui.New(ctx, manager, tui.Options{GlamourStyle: glamourStyle})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running chat page: %w", err)
	}
	return nil
}

// askSpeechTimeout bounds how long the one-shot command waits for a reply to be
// read aloud before exiting.
const askSpeechTimeout = 2 * time.Minute

func runAsk(ctx context.Context, cfg *config.Config, out io.Writer, message, image string) error {
	manager, err := newManager(ctx, cfg)
	if err != nil {
		return err
	}
	return ask(ctx, manager, out, message, image, askSpeechTimeout)
}

func ask(ctx context.Context, manager *conversation.Manager, out io.Writer, message, image string, speechTimeout time.Duration) error {
	manager.SetPendingText(message)
	if image != "" {
		att, err := conversation.LoadAttachment(image)
		if err != nil {
			return err
		}
		manager.SetPendingAttachment(att)
	}

	res, ok := manager.Send(ctx)
	if !ok {
		return errors.New("nothing to send: give a message or --image")
	}

	if _, err := fmt.Fprintln(out, res.Text); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, speechTimeout)
	defer cancel()
	if err := manager.WaitSpeech(waitCtx); err != nil {
		observability.Logger().Warn("exiting before speech finished", "error", err)
	}
	return nil
}
