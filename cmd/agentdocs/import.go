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

var importCmd = &cobra.Command{
	Use:   "import BUNDLE_FILE",
	Short: "Import a YAML bundle as a new workspace",
	Long: `import reads a bundle produced by "agentdocs export" and recreates
its workspace, documents, and comments under a freshly minted manage key.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	defaults := config.FromEnv()
	importCmd.Flags().String("database-path", defaults.DatabasePath, "Directory holding the bbolt database file")
}

func runImport(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("database-path")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read bundle file: %w", err)
	}

	var b bundle.Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("parse bundle: %w", err)
	}

	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ws, key, err := bundle.Import(st, &b)
	if err != nil {
		return fmt.Errorf("import bundle: %w", err)
	}

	fmt.Printf("Imported workspace %q (id: %s)\n", ws.Name, ws.ID)
	fmt.Printf("Manage key: %s\n", key)
	fmt.Println("Store this key now — it cannot be recovered later.")
	return nil
}
