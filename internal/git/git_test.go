package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func hasGit() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

func gitRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		"GIT_CONFIG_GLOBAL=/dev/null", "GIT_CONFIG_SYSTEM=/dev/null",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

// newRepo creates a repository with an initial commit on the given branch.
func newRepo(t *testing.T, branch string) string {
	t.Helper()
	if !hasGit() {
		t.Skip("git not installed")
	}
	dir := filepath.Join(t.TempDir(), "repo")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	gitRun(t, dir, "init")
	gitRun(t, dir, "symbolic-ref", "HEAD", "refs/heads/"+branch)
	gitRun(t, dir, "commit", "--allow-empty", "-m", "initial")
	return dir
}

func TestParseWorkspaceList(t *testing.T) {
	out := strings.Join([]string{
		"worktree /repos/app",
		"HEAD 1111111111111111111111111111111111111111",
		"branch refs/heads/main",
		"",
		"worktree /repos/app__workspaces/user-auth",
		"HEAD 2222222222222222222222222222222222222222",
		"branch refs/heads/user-auth",
		"",
		"worktree /repos/app__workspaces/spike",
		"HEAD 3333333333333333333333333333333333333333",
		"detached",
	}, "\n")

	records := parseWorkspaceList(out, "main")
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3: %+v", len(records), records)
	}

	if !records[0].IsPrimary {
		t.Error("main record should be primary via default-branch match")
	}
	if records[0].Branch != "main" || records[0].Path != "/repos/app" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].IsPrimary {
		t.Error("feature record must not be primary")
	}
	if records[1].Branch != "user-auth" {
		t.Errorf("branch = %q, want user-auth", records[1].Branch)
	}
	if records[2].Branch != "" {
		t.Errorf("detached record should have empty branch, got %q", records[2].Branch)
	}
	if records[2].Head != "3333333333333333333333333333333333333333" {
		t.Errorf("unexpected head: %q", records[2].Head)
	}
}

func TestParseWorkspaceList_BareMarker(t *testing.T) {
	out := strings.Join([]string{
		"worktree /repos/app.git",
		"bare",
		"",
		"worktree /repos/app__workspaces/fix",
		"HEAD 4444444444444444444444444444444444444444",
		"branch refs/heads/fix",
	}, "\n")

	records := parseWorkspaceList(out, "")
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if !records[0].IsPrimary {
		t.Error("bare record should be primary via root marker")
	}
	if records[1].IsPrimary {
		t.Error("linked record must not be primary")
	}
}

func TestParseWorkspaceList_Empty(t *testing.T) {
	if records := parseWorkspaceList("", "main"); len(records) != 0 {
		t.Errorf("empty input should parse to no records, got %+v", records)
	}
}

func TestIsRepository(t *testing.T) {
	if !hasGit() {
		t.Skip("git not installed")
	}
	repo := newRepo(t, "main")
	if !IsRepository(repo) {
		t.Error("initialized repo should be a repository")
	}
	if IsRepository(t.TempDir()) {
		t.Error("empty dir should not be a repository")
	}
}

func TestIsWorkspaceRoot(t *testing.T) {
	repo := newRepo(t, "main")

	if !IsWorkspaceRoot(repo) {
		t.Error("working tree root should be a workspace root")
	}

	sub := filepath.Join(repo, "src", "deep")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if IsWorkspaceRoot(sub) {
		t.Error("subdirectory inside a working tree is not a workspace root")
	}
	if IsWorkspaceRoot(t.TempDir()) {
		t.Error("non-repo dir is not a workspace root")
	}

	// A linked worktree's own root qualifies too.
	ws := filepath.Join(filepath.Dir(repo), "linked")
	gitRun(t, repo, "worktree", "add", "-b", "linked", ws, "main")
	if !IsWorkspaceRoot(ws) {
		t.Error("linked worktree root should be a workspace root")
	}
}

func TestCurrentBranch(t *testing.T) {
	repo := newRepo(t, "main")
	g := NewGit(repo)

	if got := g.CurrentBranch(); got != "main" {
		t.Errorf("CurrentBranch = %q, want main", got)
	}

	gitRun(t, repo, "checkout", "--detach")
	if got := g.CurrentBranch(); got != "" {
		t.Errorf("detached CurrentBranch = %q, want empty", got)
	}
}

func TestDefaultBranch_FallbackChain(t *testing.T) {
	tests := []struct {
		branch string
		want   string
	}{
		{"main", "main"},
		{"master", "master"},
		{"develop", "develop"},
	}
	for _, tt := range tests {
		t.Run(tt.branch, func(t *testing.T) {
			repo := newRepo(t, tt.branch)
			got, err := NewGit(repo).DefaultBranch()
			if err != nil {
				t.Fatalf("DefaultBranch: %v", err)
			}
			if got != tt.want {
				t.Errorf("DefaultBranch = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultBranch_NoneMatch(t *testing.T) {
	repo := newRepo(t, "trunk")
	if _, err := NewGit(repo).DefaultBranch(); err == nil {
		t.Error("expected error when no conventional branch exists")
	}
}

func TestBranchExists(t *testing.T) {
	repo := newRepo(t, "main")
	g := NewGit(repo)

	if !g.BranchExists("main") {
		t.Error("main should exist")
	}
	if g.BranchExists("nope") {
		t.Error("nonexistent branch reported as existing")
	}
}

func TestIsBranchMerged(t *testing.T) {
	repo := newRepo(t, "main")
	g := NewGit(repo)

	// Branch at main's tip: trivially merged.
	gitRun(t, repo, "branch", "same-tip")
	merged, err := g.IsBranchMerged("same-tip", "main")
	if err != nil {
		t.Fatalf("IsBranchMerged: %v", err)
	}
	if !merged {
		t.Error("branch at main's tip should be merged")
	}

	// Branch with its own commit: not merged.
	gitRun(t, repo, "checkout", "-b", "ahead")
	gitRun(t, repo, "commit", "--allow-empty", "-m", "work")
	gitRun(t, repo, "checkout", "main")
	merged, err = g.IsBranchMerged("ahead", "main")
	if err != nil {
		t.Fatalf("IsBranchMerged: %v", err)
	}
	if merged {
		t.Error("branch ahead of main should not be merged")
	}

	// Merge it, then it is.
	gitRun(t, repo, "merge", "ahead")
	merged, err = g.IsBranchMerged("ahead", "main")
	if err != nil {
		t.Fatalf("IsBranchMerged: %v", err)
	}
	if !merged {
		t.Error("merged branch should report merged")
	}
}

func TestIsWorkingTreeClean(t *testing.T) {
	repo := newRepo(t, "main")
	g := NewGit(repo)

	clean, err := g.IsWorkingTreeClean(repo)
	if err != nil {
		t.Fatalf("IsWorkingTreeClean: %v", err)
	}
	if !clean {
		t.Error("fresh repo should be clean")
	}

	if err := os.WriteFile(filepath.Join(repo, "scratch.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	clean, err = g.IsWorkingTreeClean(repo)
	if err != nil {
		t.Fatalf("IsWorkingTreeClean: %v", err)
	}
	if clean {
		t.Error("untracked file should make the tree dirty")
	}
}

func TestListWorkspaces(t *testing.T) {
	repo := newRepo(t, "main")
	g := NewGit(repo)

	wsPath := filepath.Join(filepath.Dir(repo), "feature-ws")
	gitRun(t, repo, "worktree", "add", "-b", "feature", wsPath, "main")

	records, err := g.ListWorkspaces()
	if err != nil {
		t.Fatalf("ListWorkspaces: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(records), records)
	}

	var primary, feature *Workspace
	for i := range records {
		switch records[i].Branch {
		case "main":
			primary = &records[i]
		case "feature":
			feature = &records[i]
		}
	}
	if primary == nil || !primary.IsPrimary {
		t.Errorf("main workspace should be primary: %+v", records)
	}
	if feature == nil || feature.IsPrimary {
		t.Errorf("feature workspace should not be primary: %+v", records)
	}
	if feature != nil && feature.Head == "" {
		t.Error("feature record should carry a head commit")
	}
}

func TestAddRemoveWorkspace(t *testing.T) {
	repo := newRepo(t, "main")
	g := NewGit(repo)

	wsPath := filepath.Join(filepath.Dir(repo), "ws")
	if err := g.AddWorkspaceNewBranch(wsPath, "topic", "main"); err != nil {
		t.Fatalf("AddWorkspaceNewBranch: %v", err)
	}
	if !IsRepository(wsPath) {
		t.Fatal("new workspace should be a valid repository")
	}
	if !g.BranchExists("topic") {
		t.Fatal("branch should exist after workspace add")
	}

	// Adding again must fail: the branch is already checked out.
	if err := g.AddWorkspace(filepath.Join(filepath.Dir(repo), "dup"), "topic"); err == nil {
		t.Error("checking out the same branch twice should fail")
	}

	if err := g.RemoveWorkspace(wsPath, false); err != nil {
		t.Fatalf("RemoveWorkspace: %v", err)
	}
	if _, err := os.Stat(wsPath); !os.IsNotExist(err) {
		t.Error("workspace directory should be gone")
	}
	if err := g.DeleteBranch("topic", false); err != nil {
		t.Fatalf("DeleteBranch: %v", err)
	}
	if g.BranchExists("topic") {
		t.Error("branch should be gone after delete")
	}
}
