package main

import (
	"fmt"
	"os"

	"github.com/agentdocs/agentdocs/pkg/bundle"
	"github.com/agentdocs/agentdocs/pkg/config"
	"github.com/agentdocs/agentdocs/pkg/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var exportCmd = &cobra.Command{
	Use:   "export WORKSPACE_ID",
	Short: "Export a workspace's documents, versions, and comments to a YAML bundle",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	defaults := config.FromEnv()
	exportCmd.Flags().String("database-path", defaults.DatabasePath, "Directory holding the bbolt database file")
	exportCmd.Flags().String("output", "", "File to write the bundle to (defaults to stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("database-path")
	output, _ := cmd.Flags().GetString("output")

	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	b, err := bundle.Export(st, args[0])
	if err != nil {
		return fmt.Errorf("export workspace %s: %w", args[0], err)
	}

	out, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}

	if output == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(output, out, 0o644)
}
