package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jeremyhon/grove/internal/style"
)

var goCreate bool

var goCmd = &cobra.Command{
	Use:     "go [path|branch]",
	Aliases: []string{"resolve"},
	Short:   "Resolve a workspace path",
	Long: `Resolve a path or branch name to a workspace directory and print it.

Resolution tries, in order: the argument as an existing workspace path, the
canonical workspace directory for the sanitized name, then a
case-insensitive match against checked-out branches. With --create, an
unmatched name is handed to the create flow instead of failing.

With no argument on a terminal, an interactive picker lists the live
workspaces.

Meant for shell integration:
  cd "$(grove go user-auth)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGo,
}

func init() {
	goCmd.Flags().BoolVarP(&goCreate, "create", "c", false, "Create the workspace if no match is found")
	rootCmd.AddCommand(goCmd)
}

func runGo(cmd *cobra.Command, args []string) error {
	m, err := getManager()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("workspace name required when not running interactively")
		}
		records, err := m.ListWorkspaces()
		if err != nil {
			return err
		}
		path, err := pickWorkspace(records)
		if err != nil {
			return err
		}
		if path == "" {
			// Exit non-zero so `cd "$(grove go)"` fails loudly instead of
			// landing the shell in $HOME on an empty substitution.
			return fmt.Errorf("no workspace selected")
		}
		fmt.Println(path)
		return nil
	}

	res, err := m.Resolve(args[0], goCreate)
	if err != nil {
		return err
	}
	if res.CaseMismatch {
		fmt.Fprintf(os.Stderr, "%s reusing workspace for branch %s (differs from %q only in case)\n",
			style.WarningPrefix, res.Branch, args[0])
	}
	if res.Created {
		fmt.Fprintf(os.Stderr, "%s Created workspace for %s\n", style.SuccessPrefix, style.Bold.Render(res.Branch))
	}
	fmt.Println(res.Path)
	return nil
}
