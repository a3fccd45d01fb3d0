package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dbu-intelligence/navigator/internal/config"
)

var (
	// Global flags
	backend      string
	endpoint     string
	logLevel     string
	logFile      string
	speechOutput string
	dictation    string
	glamourStyle string

	// ask flags
	imagePath string
)

// rootCmd runs the interactive chat page.
var rootCmd = &cobra.Command{
	Use:   "navigator",
	Short: "DBU Intelligence campus assistant",
	Long: `navigator is a terminal chat client for the DBU Intelligence inference service.

Ask about campus navigation or academic data, attach images for analysis,
dictate questions and have replies read aloud.

Run without arguments to start the interactive chat page.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closeLog, err := setup()
		if err != nil {
			return err
		}
		defer closeLog()
		return runInteractive(cmd.Context(), cfg)
	},
}

// askCmd sends one message and prints the reply.
var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send a single message and print the reply",
	Long: `Sends one exchange through the same session manager the chat page uses.

Examples:
  navigator ask "Where is the engineering library?"
  navigator ask --image map.png "Which building is this?"
  navigator ask --image timetable.jpg`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closeLog, err := setup()
		if err != nil {
			return err
		}
		defer closeLog()

		message := ""
		if len(args) == 1 {
			message = args[0]
		}
		return runAsk(cmd.Context(), cfg, cmd.OutOrStdout(), message, imagePath)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&backend, "backend", "", "inference backend: http, gemini or mock (env DBU_BACKEND)")
	pf.StringVar(&endpoint, "endpoint", "", "chat endpoint for the http backend (env DBU_ENDPOINT)")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (env DBU_LOG_LEVEL)")
	pf.StringVar(&logFile, "log-file", "", "log destination (env DBU_LOG_FILE)")
	pf.StringVar(&speechOutput, "speech", "", "reply read-aloud: none, command or openai (env DBU_SPEECH_OUTPUT)")
	pf.StringVar(&dictation, "dictation", "", "dictation: none or openai (env DBU_DICTATION)")

	rootCmd.Flags().StringVar(&glamourStyle, "style", "", "markdown style (dark, light, notty); detected when empty")

	askCmd.Flags().StringVar(&imagePath, "image", "", "image file to attach")

	rootCmd.AddCommand(askCmd)
}

// setup loads config, applies flag overrides and points the logger at the
// log file. The returned func closes the log file.
func setup() (*config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	closeLog, err := initLogging(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, closeLog, nil
}

func applyFlags(cfg *config.Config) {
	if backend != "" {
		cfg.Backend = config.Backend(backend)
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if speechOutput != "" {
		cfg.SpeechOutput = speechOutput
	}
	if dictation != "" {
		cfg.Dictation = dictation
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
