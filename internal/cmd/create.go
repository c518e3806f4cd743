package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/jeremyhon/grove/internal/style"
)

var createCmd = &cobra.Command{
	Use:   "create <feature>...",
	Short: "Create a workspace for a feature branch",
	Long: `Create a branch-scoped workspace for a feature.

The feature text is sanitized into a branch name (e.g. "User Auth" becomes
user-auth) and checked out into <project>__workspaces/<branch> next to the
primary workspace. An existing local branch is reused; an existing remote
branch is tracked; otherwise a fresh branch is created off the default
branch. Configured files are then copied or symlinked in and the postSetup
hook runs.

Creating the same feature twice is a no-op that prints the existing path.

Only the workspace path is written to stdout, so shell integration can
capture it:
  cd "$(grove create "user auth")"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	m, err := requireProject()
	if err != nil {
		return err
	}

	feature := strings.Join(args, " ")
	result, err := m.Create(feature)
	if result != nil {
		printWarnings(result.Warnings)
	}
	if err != nil {
		return err
	}

	if result.Created {
		fmt.Fprintf(os.Stderr, "%s Created workspace for %s\n", style.SuccessPrefix, style.Bold.Render(result.Branch))
	} else {
		fmt.Fprintf(os.Stderr, "Workspace for %s already exists\n", style.Bold.Render(result.Branch))
	}
	fmt.Println(result.Path)
	return nil
}
