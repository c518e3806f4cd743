package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/jeremyhon/grove/internal/config"
	"github.com/jeremyhon/grove/internal/style"
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Initialize grove for this repository",
	Long: `Write a grove.json into the primary workspace.

The project name defaults to the primary workspace's directory name. Copy
and symlink patterns and the package-manager hint are prefilled from the
user settings file (~/.config/grove/settings.toml) when present.

Run once per repository; subsequent runs fail rather than overwrite.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	m, err := getManager()
	if err != nil {
		return err
	}

	root := m.Root()
	if config.ProjectConfigExists(root) {
		return fmt.Errorf("%s already exists in %s", config.ProjectFileName, root)
	}

	name := filepath.Base(root)
	if len(args) == 1 {
		name = args[0]
	}

	cfg := config.NewProjectConfig(name, config.LoadSettings())
	if err := config.SaveProjectConfig(root, cfg); err != nil {
		return fmt.Errorf("writing %s: %w", config.ProjectFileName, err)
	}

	fmt.Printf("%s Initialized project %s\n", style.SuccessPrefix, style.Bold.Render(cfg.Name))
	fmt.Printf("  %s\n", style.Dim.Render(filepath.Join(root, config.ProjectFileName)))
	fmt.Printf("  Workspaces will live in %s\n", style.Dim.Render(m.WorkspacesDir()))
	return nil
}
