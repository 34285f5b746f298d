package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"eventsphere-scanner/internal/api"
	"eventsphere-scanner/internal/config"
	"eventsphere-scanner/internal/journal"
)

var (
	cfgFile  string
	cfg      *config.Config
	provider journal.Provider
)

var rootCmd = &cobra.Command{
	Use:   "eventsphere-scanner",
	Short: "EventSphere attendance scanning station",
	Long:  `Operator-side toolkit for confirming presences at EventSphere events: QR scanning, manual code entry and a local attendance console.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		godotenv.Load()

		var err error
		if cfgFile != "" {
			cfg, err = config.LoadConfig(cfgFile)
		} else {
			cfg, err = config.LoadConfig()
		}
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		config.Cfg = cfg

		initLogger(cfg)

		// Initialize the local scan journal
		provider = journal.NewProvider(&cfg.Storage)
		if provider == nil {
			slog.Error("Failed to initialize journal storage")
			os.Exit(1)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		// Cleanup
		if provider != nil {
			provider.Close()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Initialize logger
func initLogger(cfg *config.Config) *slog.Logger {
	// Determine level from config and set it on the handler options.
	var level slog.Level
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		println("Invalid log level in config, defaulting to INFO")
	}
	handlerOpts := &slog.HandlerOptions{
		Level: level,
	}

	// Tables and results go to stdout, logs stay on stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts))
	slog.SetDefault(logger)

	slog.Debug("Logger initialized", "level", level.String())
	return logger
}

func newAPIClient() *api.Client {
	return api.NewClient(cfg.APIBaseURL, cfg.APIToken)
}

// eventIDOrDefault resolves the event to operate on: the --event flag wins,
// then the configured default.
func eventIDOrDefault(flagValue int64) int64 {
	if flagValue != 0 {
		return flagValue
	}
	if cfg.EventID != 0 {
		return cfg.EventID
	}
	slog.Error("No event given. Use --event or set EVENT_ID.")
	os.Exit(1)
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}
