package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/jeremyhon/grove/internal/style"
	"github.com/jeremyhon/grove/internal/workspace"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:     "delete [path|branch]",
	Aliases: []string{"rm"},
	Short:   "Delete a workspace and its local branch",
	Long: `Delete a workspace once its branch has merged.

With no argument, deletes the workspace containing the current directory.
The primary workspace is never deleted.

Unless --force is given, deletion requires the branch to be merged into the
default branch; an unmerged branch aborts cleanly without touching anything.
Uncommitted changes produce a warning, and a confirmation prompt is shown on
a terminal.

When the deleted workspace contained the current directory, the primary
workspace's path is printed to stdout so shell integration can relocate:
  cd "$(grove delete)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip the merge gate and confirmation; force-delete the branch")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	m, err := getManager()
	if err != nil {
		return err
	}

	token := ""
	if len(args) == 1 {
		token = args[0]
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	result, err := m.Delete(token, workspace.DeleteOptions{
		Force:   deleteForce,
		WorkDir: cwd,
		Confirm: promptYesNo,
	})
	if result != nil {
		printWarnings(result.Warnings)
	}
	if err != nil {
		return err
	}

	if result.Aborted {
		// Safety abort: nothing was mutated and that is a success.
		fmt.Fprintf(os.Stderr, "%s %s\n", style.WarningPrefix, result.AbortReason)
		return nil
	}

	fmt.Fprintf(os.Stderr, "%s Deleted workspace %s\n", style.SuccessPrefix, style.Dim.Render(result.Path))
	if result.RelocateTo != "" {
		fmt.Println(result.RelocateTo)
	}
	return nil
}
