// Package cmd implements the grove command-line surface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/jeremyhon/grove/internal/style"
)

var rootCmd = &cobra.Command{
	Use:   "grove",
	Short: "Branch-scoped git workspaces",
	Long: `grove manages isolated, branch-scoped working copies of a git
repository, built on git worktrees.

Each feature gets its own directory sharing the repository's history with
the primary workspace. Configured files are copied or symlinked in on
creation, and the workspace is reclaimed once its branch has merged — grove
never deletes the primary workspace or unmerged work.

Typical flow:
  grove init                 # once, in the main checkout
  grove create "user auth"   # workspace on branch user-auth
  grove go user-auth         # print its path (cd "$(grove go user-auth)")
  grove delete user-auth     # after the branch has merged
  grove prune                # sweep every merged workspace`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command, printing errors to stderr. Machine-readable
// output (workspace paths) goes to stdout only.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", style.Error.Render("Error:"), err)
		os.Exit(1)
	}
}
