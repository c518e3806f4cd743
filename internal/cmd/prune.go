package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/jeremyhon/grove/internal/style"
	"github.com/jeremyhon/grove/internal/workspace"
)

var (
	pruneForce  bool
	pruneDryRun bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete every workspace whose branch has merged",
	Long: `Delete all non-primary workspaces whose branches are merged into the
default branch.

Detached workspaces are skipped with a warning. With --dry-run the candidate
paths are printed and nothing is touched. Otherwise one confirmation covers
the whole batch (unless --force), and individual failures don't stop the
remaining removals.

Examples:
  grove prune --dry-run
  grove prune --force`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func init() {
	pruneCmd.Flags().BoolVarP(&pruneForce, "force", "f", false, "Skip confirmation; force-delete branches")
	pruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", false, "Show what would be removed without removing")
	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	m, err := getManager()
	if err != nil {
		return err
	}

	result, err := m.Prune(workspace.PruneOptions{
		DryRun:  pruneDryRun,
		Force:   pruneForce,
		Confirm: promptYesNo,
	})
	if result != nil {
		printWarnings(result.Warnings)
	}
	if err != nil {
		return err
	}

	if len(result.Candidates) == 0 {
		fmt.Fprintln(os.Stderr, "No merged workspaces to prune.")
		return nil
	}

	if pruneDryRun {
		fmt.Fprintf(os.Stderr, "Would remove %d workspace(s):\n", len(result.Candidates))
		for _, c := range result.Candidates {
			fmt.Println(c.Path)
		}
		return nil
	}

	if result.Aborted {
		fmt.Fprintln(os.Stderr, "Cancelled.")
		return nil
	}

	for _, path := range result.Removed {
		fmt.Fprintf(os.Stderr, "  %s %s\n", style.SuccessPrefix, style.Dim.Render(path))
	}
	if len(result.Failed) > 0 {
		fmt.Fprintf(os.Stderr, "%s Some removals failed:\n", style.WarningPrefix)
		for _, f := range result.Failed {
			fmt.Fprintf(os.Stderr, "  - %s\n", f)
		}
		return fmt.Errorf("%d removal(s) failed", len(result.Failed))
	}
	fmt.Fprintf(os.Stderr, "%s Removed %d workspace(s).\n", style.SuccessPrefix, len(result.Removed))
	return nil
}
