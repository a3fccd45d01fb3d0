package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DBU_BACKEND", "DBU_ENDPOINT", "DBU_HTTP_TIMEOUT", "DBU_GEMINI_API_KEY", "GEMINI_API_KEY",
		"DBU_GCP_PROJECT", "DBU_SPEECH_OUTPUT", "DBU_DICTATION", "OPENAI_API_KEY",
		"DBU_LOG_LEVEL", "DBU_DEBUG",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendHTTP, cfg.Backend)
	assert.Equal(t, "http://127.0.0.1:5001/chat", cfg.Endpoint)
	assert.Equal(t, 60*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "none", cfg.SpeechOutput)
	assert.Equal(t, "none", cfg.Dictation)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DBU_BACKEND", "mock")
	t.Setenv("DBU_ENDPOINT", "http://campus.local/chat")
	t.Setenv("DBU_HTTP_TIMEOUT", "15")
	t.Setenv("DBU_DEBUG", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendMock, cfg.Backend)
	assert.Equal(t, "http://campus.local/chat", cfg.Endpoint)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadDurationForms(t *testing.T) {
	clearEnv(t)

	t.Setenv("DBU_HTTP_TIMEOUT", "1m30s")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.HTTPTimeout)

	t.Setenv("DBU_HTTP_TIMEOUT", "soon")
	_, err = Load()
	assert.ErrorContains(t, err, "DBU_HTTP_TIMEOUT")
}

func TestGeminiKeyFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "from-generic")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-generic", cfg.GeminiAPIKey)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Backend:      BackendHTTP,
			Endpoint:     "http://127.0.0.1:5001/chat",
			SpeechOutput: "none",
			Dictation:    "none",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "ok", mutate: func(*Config) {}},
		{name: "mock needs nothing", mutate: func(c *Config) { c.Backend = BackendMock; c.Endpoint = "" }},
		{name: "missing endpoint", mutate: func(c *Config) { c.Endpoint = "" }, wantErr: "DBU_ENDPOINT"},
		{name: "unknown backend", mutate: func(c *Config) { c.Backend = "carrier-pigeon" }, wantErr: "unknown backend"},
		{name: "gemini without credentials", mutate: func(c *Config) { c.Backend = BackendGemini }, wantErr: "GEMINI_API_KEY"},
		{name: "gemini with project", mutate: func(c *Config) { c.Backend = BackendGemini; c.GCPProjectID = "dbu" }},
		{name: "openai speech without key", mutate: func(c *Config) { c.SpeechOutput = "openai" }, wantErr: "speech output"},
		{name: "openai dictation without key", mutate: func(c *Config) { c.Dictation = "openai" }, wantErr: "dictation"},
		{name: "unknown speech output", mutate: func(c *Config) { c.SpeechOutput = "loud" }, wantErr: "unknown speech output"},
		{name: "negative timeout", mutate: func(c *Config) { c.HTTPTimeout = -time.Second }, wantErr: "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDebugForcesLogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{value: "", want: "warn"},
		{value: "1", want: "debug"},
		{value: "true", want: "debug"},
		{value: "TRUE", want: "debug"},
		{value: "0", want: "warn"},
		{value: "yes", want: "warn"},
	}

	for _, tt := range tests {
		t.Run("DBU_DEBUG="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DBU_LOG_LEVEL", "warn")
			t.Setenv("DBU_DEBUG", tt.value)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.LogLevel)
		})
	}
}
