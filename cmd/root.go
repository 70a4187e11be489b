// Package cmd provides the CLI commands for the metadata bridge.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
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
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var rootCmd = &cobra.Command{
	Use:   "metax-bridge",
	Short: "Synchronize Kielipankki metadata to Metax",
	Long: `metax-bridge harvests corpus metadata records from the Kielipankki
OAI-PMH API, maps them to the Metax dataset schema, and keeps the
Kielipankki data catalog in Metax in sync with the source: new records
are created, changed records updated, and records removed from the
source are deleted.

Examples:
  metax-bridge harvest --config config/config.yml
  metax-bridge delete-record urn:nbn:fi:lb-1999010101 --config config/config.yml
  metax-bridge dialects`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	setupLogger()
	rootCmd.AddCommand(harvestCmd)
	rootCmd.AddCommand(deleteRecordCmd)
	rootCmd.AddCommand(dialectsCmd)
}
