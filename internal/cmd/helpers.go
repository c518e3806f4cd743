package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jeremyhon/grove/internal/style"
	"github.com/jeremyhon/grove/internal/workspace"
)

// getManager builds a workspace manager for the repository containing the
// current directory.
func getManager() (*workspace.Manager, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return workspace.FromDir(cwd)
}

// requireProject is getManager plus the project-config requirement, for
// flows that need an initialized project.
func requireProject() (*workspace.Manager, error) {
	m, err := getManager()
	if err != nil {
		return nil, err
	}
	if m.Config() == nil {
		return nil, workspace.ErrNotInitialized
	}
	return m, nil
}

// promptYesNo asks for interactive confirmation on stderr. Without a TTY it
// answers no: destructive flows must be explicit in scripts (--force).
func promptYesNo(message string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", message)
	response, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// printWarnings emits collected non-fatal problems to stderr.
func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "%s %s\n", style.WarningPrefix, w)
	}
}
