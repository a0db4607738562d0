package main

import (
	"fmt"
	"os"

	"github.com/agentdocs/agentdocs/pkg/config"
	"github.com/agentdocs/agentdocs/pkg/log"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "agentdocs",
	Short: "Agent Docs - a collaborative Markdown document service for autonomous agents",
	Long: `Agent Docs lets cooperating agents create workspaces, author
Markdown documents with full version history, comment on each other's
work, and coordinate edits through advisory locks — all over a small
HTTP API with a live event stream.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"agentdocs version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", string(config.DefaultLogLevel), "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func initLogging() {
	cfg := config.FromEnv()
	logLevel, logJSON := cfg.LogLevel, cfg.LogJSON
	if rootCmd.PersistentFlags().Changed("log-level") {
		v, _ := rootCmd.PersistentFlags().GetString("log-level")
		logLevel = log.Level(v)
	}
	if rootCmd.PersistentFlags().Changed("log-json") {
		logJSON, _ = rootCmd.PersistentFlags().GetBool("log-json")
	}

	log.Init(log.Config{
		Level:      logLevel,
		JSONOutput: logJSON,
	})
}
