package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	_ "time/tzdata"

	"github.com/rpggio/worklog/internal/app"
	"github.com/rpggio/worklog/internal/config"
	"github.com/spf13/cobra"
)

var Version = "dev"

type globalFlags struct {
	dbPath string
	owner  string
	json   bool
}

func main() {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "worklog",
		Short:         "worklog - track where working time goes",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "database path (overrides WORKLOG_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&flags.owner, "owner", "", "owner to act as (defaults to auth.default_owner)")
	rootCmd.PersistentFlags().BoolVar(&flags.json, "json", false, "print JSON instead of text")

	rootCmd.AddCommand(serveCmd(flags))
	rootCmd.AddCommand(mcpCmd(flags))
	rootCmd.AddCommand(startCmd(flags))
	rootCmd.AddCommand(stopCmd(flags))
	rootCmd.AddCommand(interruptCmd(flags))
	rootCmd.AddCommand(statusCmd(flags))
	rootCmd.AddCommand(summaryCmd(flags))
	rootCmd.AddCommand(heatmapCmd(flags))
	rootCmd.AddCommand(taskTypesCmd(flags))
	rootCmd.AddCommand(apiKeyCmd(flags))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and applies command line overrides.
func (f *globalFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	if f.dbPath != "" {
		cfg.DB.Path = f.dbPath
	}
	return cfg, nil
}

func (f *globalFlags) ownerID(cfg config.Config) string {
	if f.owner != "" {
		return f.owner
	}
	return cfg.Auth.DefaultOwner
}

// openApp builds an App for one-shot commands, logging to stderr.
func (f *globalFlags) openApp() (*app.App, config.Config, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, config.Config{}, err
	}
	logger := newLogger(os.Stderr, cfg.Log.Level)
	a, err := app.New(cfg, logger)
	if err != nil {
		return nil, config.Config{}, err
	}
	return a, cfg, nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
