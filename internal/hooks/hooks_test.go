package hooks

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeremyhon/grove/internal/config"
)

func testConfig(postSetup string) *config.ProjectConfig {
	return &config.ProjectConfig{
		ProjectID: "id-1",
		Name:      "demo",
		Hooks:     config.Hooks{PostSetup: postSetup, PreDelete: "echo pre", PostDelete: "echo post"},
	}
}

func withExecutor(t *testing.T, fn func(cmd *exec.Cmd) error) {
	t.Helper()
	prev := runCommand
	runCommand = fn
	t.Cleanup(func() { runCommand = prev })
}

func TestRun_UnconfiguredIsNoop(t *testing.T) {
	called := false
	withExecutor(t, func(cmd *exec.Cmd) error {
		called = true
		return nil
	})

	cfg := &config.ProjectConfig{ProjectID: "id-1", Name: "demo"}
	if err := Run(PostSetup, cfg, Context{WorkspacePath: t.TempDir()}); err != nil {
		t.Fatalf("unconfigured hook should be a no-op, got %v", err)
	}
	if called {
		t.Error("executor should not run for an unconfigured hook")
	}
}

func TestRun_NilConfigIsNoop(t *testing.T) {
	called := false
	withExecutor(t, func(cmd *exec.Cmd) error {
		called = true
		return nil
	})

	if err := Run(PreDelete, nil, Context{WorkspacePath: t.TempDir()}); err != nil {
		t.Fatalf("nil config should be a no-op, got %v", err)
	}
	if called {
		t.Error("executor should not run with a nil config")
	}
}

func TestRun_CommandAndDir(t *testing.T) {
	var got *exec.Cmd
	withExecutor(t, func(cmd *exec.Cmd) error {
		got = cmd
		return nil
	})

	ws := t.TempDir()
	cfg := testConfig("make setup")
	if err := Run(PostSetup, cfg, Context{ProjectPath: "/repos/demo", WorkspacePath: ws, Branch: "topic"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got == nil {
		t.Fatal("executor never invoked")
	}
	if len(got.Args) != 3 || got.Args[0] != "sh" || got.Args[1] != "-c" || got.Args[2] != "make setup" {
		t.Errorf("args = %v, want sh -c 'make setup'", got.Args)
	}
	if got.Dir != ws {
		t.Errorf("dir = %q, want workspace %q", got.Dir, ws)
	}
}

func TestRun_EnvContract(t *testing.T) {
	var got *exec.Cmd
	withExecutor(t, func(cmd *exec.Cmd) error {
		got = cmd
		return nil
	})

	ws := t.TempDir()
	cfg := testConfig("true")
	cfg.PackageManager = "pnpm"
	if err := Run(PostSetup, cfg, Context{ProjectPath: "/repos/demo", WorkspacePath: ws, Branch: "user-auth"}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	env := make(map[string]string)
	for _, kv := range got.Env {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	want := map[string]string{
		"GROVE_PROJECT_ID":      "id-1",
		"GROVE_PROJECT_NAME":    "demo",
		"GROVE_PACKAGE_MANAGER": "pnpm",
		"GROVE_PROJECT_PATH":    "/repos/demo",
		"GROVE_BRANCH":          "user-auth",
		"GROVE_WORKSPACE_PATH":  ws,
	}
	for k, v := range want {
		if env[k] != v {
			t.Errorf("env[%s] = %q, want %q", k, env[k], v)
		}
	}
}

func TestRun_SkipsDefaultInstallWithoutManifest(t *testing.T) {
	called := false
	withExecutor(t, func(cmd *exec.Cmd) error {
		called = true
		return nil
	})

	ws := t.TempDir() // no package.json
	if err := Run(PostSetup, testConfig("npm install"), Context{WorkspacePath: ws}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if called {
		t.Error("default install command should be skipped without package.json")
	}
}

func TestRun_RunsDefaultInstallWithManifest(t *testing.T) {
	called := false
	withExecutor(t, func(cmd *exec.Cmd) error {
		called = true
		return nil
	})

	ws := t.TempDir()
	if err := os.WriteFile(filepath.Join(ws, "package.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Run(PostSetup, testConfig("npm install"), Context{WorkspacePath: ws}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !called {
		t.Error("install command should run when package.json exists")
	}
}

func TestRun_CustomCommandNeverSkipped(t *testing.T) {
	called := false
	withExecutor(t, func(cmd *exec.Cmd) error {
		called = true
		return nil
	})

	ws := t.TempDir() // no package.json, but the command is not a default install
	if err := Run(PostSetup, testConfig("./scripts/setup.sh"), Context{WorkspacePath: ws}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !called {
		t.Error("custom command should run regardless of package.json")
	}
}

func TestRun_SkipPolicyOnlyAppliesToPostSetup(t *testing.T) {
	called := false
	withExecutor(t, func(cmd *exec.Cmd) error {
		called = true
		return nil
	})

	cfg := testConfig("")
	cfg.Hooks.PreDelete = "npm install" // odd, but configured is configured
	if err := Run(PreDelete, cfg, Context{WorkspacePath: t.TempDir()}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !called {
		t.Error("skip policy must not apply to pre-delete hooks")
	}
}

func TestRun_FailureIsFatal(t *testing.T) {
	withExecutor(t, func(cmd *exec.Cmd) error {
		cmd.Stderr.Write([]byte("boom\n"))
		return errors.New("exit status 1")
	})

	err := Run(PostSetup, testConfig("make setup"), Context{WorkspacePath: t.TempDir()})
	if !errors.Is(err, ErrHookFailed) {
		t.Fatalf("expected ErrHookFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error should carry command output: %v", err)
	}
	if !strings.Contains(err.Error(), string(PostSetup)) {
		t.Errorf("error should name the hook: %v", err)
	}
}
