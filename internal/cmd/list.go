package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/jeremyhon/grove/internal/style"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workspaces",
	Long: `List all live workspaces of the current repository.

State is read fresh from git on every call; grove keeps no database of
workspaces.

Examples:
  grove list
  grove list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	m, err := getManager()
	if err != nil {
		return err
	}

	records, err := m.ListWorkspaces()
	if err != nil {
		return err
	}

	if listJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No workspaces found.")
		return nil
	}

	fmt.Printf("%s\n\n", style.Bold.Render("Workspaces"))
	for _, rec := range records {
		marker := " "
		if rec.IsPrimary {
			marker = style.Success.Render("●")
		}
		branch := rec.Branch
		if branch == "" {
			branch = style.Dim.Render("(detached)")
		}
		head := rec.Head
		if len(head) > 8 {
			head = head[:8]
		}
		fmt.Printf("  %s %-30s %s  %s\n", marker, branch, style.Dim.Render(head), rec.Path)
	}
	return nil
}
