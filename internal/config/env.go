package config

import (
	"os"
	"sort"
	"strings"
)

// HookEnvConfig specifies the context for generating hook environment
// variables. This is the single source of truth for the hook env contract.
type HookEnvConfig struct {
	// Project is the project configuration backing the hook.
	Project *ProjectConfig

	// ProjectPath is the primary workspace root. Sets GROVE_PROJECT_PATH.
	ProjectPath string

	// Branch is the workspace's branch, when the hook concerns a specific
	// workspace. Sets GROVE_BRANCH.
	Branch string

	// WorkspacePath is the workspace directory, when applicable.
	// Sets GROVE_WORKSPACE_PATH.
	WorkspacePath string
}

// HookEnv returns the fixed set of environment variables exposed to hook
// commands. Hooks see only these grove variables on top of the parent
// process environment; the contract is enumerated here so it stays testable
// without a live shell.
func HookEnv(cfg HookEnvConfig) map[string]string {
	env := make(map[string]string)

	if cfg.Project != nil {
		env["GROVE_PROJECT_ID"] = cfg.Project.ProjectID
		env["GROVE_PROJECT_NAME"] = cfg.Project.Name
		if cfg.Project.PackageManager != "" {
			env["GROVE_PACKAGE_MANAGER"] = cfg.Project.PackageManager
		}
	}
	if cfg.ProjectPath != "" {
		env["GROVE_PROJECT_PATH"] = cfg.ProjectPath
	}
	if cfg.Branch != "" {
		env["GROVE_BRANCH"] = cfg.Branch
	}
	if cfg.WorkspacePath != "" {
		env["GROVE_WORKSPACE_PATH"] = cfg.WorkspacePath
	}
	return env
}

// EnvForExecCommand returns os.Environ() with the given env vars appended,
// for setting cmd.Env on exec.Command.
func EnvForExecCommand(env map[string]string) []string {
	result := os.Environ()
	for _, k := range sortedKeys(env) {
		result = append(result, k+"="+env[k])
	}
	return result
}

// ShellQuote returns a shell-safe quoted string. Values containing special
// characters are wrapped in single quotes, with embedded single quotes
// escaped using the '\'' idiom.
func ShellQuote(s string) string {
	needsQuoting := false
	for _, c := range s {
		switch c {
		case ' ', '\t', '\n', '"', '\'', '`', '$', '\\', '!', '*', '?',
			'[', ']', '{', '}', '(', ')', '<', '>', '|', '&', ';', '#':
			needsQuoting = true
		}
		if needsQuoting {
			break
		}
	}
	if !needsQuoting && s != "" {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
