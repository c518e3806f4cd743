// Package hooks executes user-configured shell commands at workspace
// lifecycle points with a fixed environment contract.
package hooks

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jeremyhon/grove/internal/config"
)

// Name identifies a lifecycle point. The set is closed: hooks are a small
// tagged enum mapped to optional command strings, not freeform dispatch.
type Name string

const (
	PostSetup  Name = "postSetup"
	PreDelete  Name = "preDelete"
	PostDelete Name = "postDelete"
)

// ErrHookFailed wraps a hook command's non-zero exit. A failed hook is fatal
// to the enclosing flow.
var ErrHookFailed = errors.New("hook failed")

// defaultInstallCommands are common dependency-install commands used as
// postSetup defaults. When the configured postSetup matches one of these and
// the workspace has no package manifest, the hook is skipped: there is
// nothing to install and the command would fail spuriously.
var defaultInstallCommands = map[string]bool{
	"npm install":  true,
	"npm ci":       true,
	"yarn":         true,
	"yarn install": true,
	"pnpm install": true,
	"bun install":  true,
}

// runCommand is the executor seam; tests replace it to observe hook
// invocations without a live shell.
var runCommand = func(cmd *exec.Cmd) error { return cmd.Run() }

// Context carries the workspace-specific values for one hook invocation.
type Context struct {
	ProjectPath   string // primary workspace root
	WorkspacePath string // target workspace directory
	Branch        string
}

// Run executes the named hook from cfg, no-oping silently when the hook is
// not configured. The command runs via the shell in the workspace directory
// with the enumerated GROVE_* environment on top of the parent environment.
func Run(name Name, cfg *config.ProjectConfig, ctx Context) error {
	command := commandFor(name, cfg)
	if command == "" {
		return nil
	}

	if name == PostSetup && shouldSkipInstall(command, ctx.WorkspacePath) {
		return nil
	}

	env := config.HookEnv(config.HookEnvConfig{
		Project:       cfg,
		ProjectPath:   ctx.ProjectPath,
		Branch:        ctx.Branch,
		WorkspacePath: ctx.WorkspacePath,
	})

	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = ctx.WorkspacePath
	if cmd.Dir == "" {
		cmd.Dir = ctx.ProjectPath
	}
	cmd.Env = config.EnvForExecCommand(env)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := runCommand(cmd); err != nil {
		detail := strings.TrimSpace(output.String())
		if detail != "" {
			return fmt.Errorf("%w: %s (%s): %s", ErrHookFailed, name, err, detail)
		}
		return fmt.Errorf("%w: %s: %s", ErrHookFailed, name, err)
	}
	return nil
}

func commandFor(name Name, cfg *config.ProjectConfig) string {
	if cfg == nil {
		return ""
	}
	switch name {
	case PostSetup:
		return cfg.Hooks.PostSetup
	case PreDelete:
		return cfg.Hooks.PreDelete
	case PostDelete:
		return cfg.Hooks.PostDelete
	}
	return ""
}

// shouldSkipInstall reports whether a default package-install command should
// be skipped because the workspace carries no package manifest.
func shouldSkipInstall(command, workspacePath string) bool {
	if !defaultInstallCommands[strings.TrimSpace(command)] {
		return false
	}
	if workspacePath == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(workspacePath, "package.json"))
	return os.IsNotExist(err)
}
