package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Backend string

const (
	BackendHTTP   Backend = "http"
	BackendGemini Backend = "gemini"
	BackendMock   Backend = "mock"
)

type Config struct {
	Backend Backend

	Endpoint    string
	HTTPTimeout time.Duration

	GeminiAPIKey string
	GCPProjectID string
	GCPLocation  string
	ModelName    string

	SpeechOutput  string // "none", "command" or "openai"
	SpeechCommand string
	Dictation     string // "none" or "openai"
	RecordCommand string
	PlayerCommand string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	TTSModel      string
	TTSVoice      string

	LogLevel string
	LogFile  string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	// bare numbers are seconds
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// Load reads an optional .env file, then all env vars, and builds the config.
func Load() (*Config, error) {
	// a missing .env is the normal case
	_ = godotenv.Load()

	timeout, err := getDurationEnv("DBU_HTTP_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Backend: Backend(getEnv("DBU_BACKEND", string(BackendHTTP))),

		Endpoint:    getEnv("DBU_ENDPOINT", "http://127.0.0.1:5001/chat"),
		HTTPTimeout: timeout,

		GeminiAPIKey: getEnv("DBU_GEMINI_API_KEY", os.Getenv("GEMINI_API_KEY")),
		GCPProjectID: getEnv("DBU_GCP_PROJECT", ""),
		GCPLocation:  getEnv("DBU_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("DBU_MODEL_NAME", "gemini-flash-latest"),

		SpeechOutput:  getEnv("DBU_SPEECH_OUTPUT", "none"),
		SpeechCommand: getEnv("DBU_SPEECH_COMMAND", "espeak"),
		Dictation:     getEnv("DBU_DICTATION", "none"),
		RecordCommand: getEnv("DBU_RECORD_COMMAND", "arecord -q -f cd -d 5"),
		PlayerCommand: getEnv("DBU_PLAYER_COMMAND", "ffplay -nodisp -autoexit -loglevel quiet"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		TTSModel:      getEnv("DBU_TTS_MODEL", "tts-1"),
		TTSVoice:      getEnv("DBU_TTS_VOICE", "alloy"),

		LogLevel: getEnv("DBU_LOG_LEVEL", "info"),
		LogFile:  getEnv("DBU_LOG_FILE", filepath.Join(os.TempDir(), "navigator.log")),
	}

	if getBoolEnv("DBU_DEBUG", false) {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

// Validate checks the fields the selected adapters depend on. Flags may change
// the config after Load, so this runs separately.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendHTTP:
		if c.Endpoint == "" {
			errs = append(errs, errors.New("DBU_ENDPOINT must be set for the http backend"))
		}
	case BackendGemini:
		if c.GeminiAPIKey == "" && c.GCPProjectID == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY or DBU_GCP_PROJECT must be set for the gemini backend"))
		}
	case BackendMock:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}

	switch c.SpeechOutput {
	case "none", "command":
	case "openai":
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY must be set for openai speech output"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown speech output %q", c.SpeechOutput))
	}

	switch c.Dictation {
	case "none":
	case "openai":
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY must be set for openai dictation"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown dictation mode %q", c.Dictation))
	}

	if c.HTTPTimeout < 0 {
		errs = append(errs, errors.New("DBU_HTTP_TIMEOUT must not be negative"))
	}

	return errors.Join(errs...)
}
