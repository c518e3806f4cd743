// Package git wraps the git subprocess for workspace introspection and
// mutation. Every external call returns (output, error); non-zero exits are
// mapped to package sentinel errors so call sites can branch on expected
// outcomes ("branch doesn't exist yet" is control flow, not an exception).
package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Common errors.
var (
	ErrNotRepository   = errors.New("not a git repository")
	ErrBranchNotFound  = errors.New("branch not found")
	ErrWorkspaceExists = errors.New("workspace already exists")
	ErrLockedOrDirty   = errors.New("workspace is locked or contains modifications")
	ErrNoDefaultBranch = errors.New("could not determine default branch")
)

// conventionalDefaults is the ordered fallback chain used when the remote's
// symbolic HEAD is unavailable. This is a heuristic over common conventions,
// not a protocol: the first name that exists as a local ref wins.
var conventionalDefaults = []string{"main", "master", "develop"}

// Workspace is one live checkout of the repository. The set of workspaces is
// never cached between invocations; it is re-derived from git on every call.
type Workspace struct {
	Path      string `json:"path"`
	Branch    string `json:"branch,omitempty"` // empty when detached
	Head      string `json:"head,omitempty"`
	IsPrimary bool   `json:"is_primary"`
}

// Git wraps git operations rooted at a working directory.
type Git struct {
	dir string
}

// NewGit creates a Git wrapper that runs commands in dir.
func NewGit(dir string) *Git {
	return &Git{dir: dir}
}

// WorkDir returns the directory this wrapper operates in.
func (g *Git) WorkDir() string {
	return g.dir
}

// run executes a git command in g.dir and returns trimmed stdout.
func (g *Git) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	if g.dir != "" {
		cmd.Dir = g.dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", g.wrapError(err, stderr.String(), args)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// wrapError maps git stderr to sentinel errors, falling back to a wrapped
// error that carries the captured diagnostic output.
func (g *Git) wrapError(err error, stderr string, args []string) error {
	stderr = strings.TrimSpace(stderr)

	switch {
	case strings.Contains(stderr, "not a git repository"):
		return ErrNotRepository
	case strings.Contains(stderr, "already exists"),
		strings.Contains(stderr, "already checked out"):
		return ErrWorkspaceExists
	case strings.Contains(stderr, "is locked"),
		strings.Contains(stderr, "contains modified or untracked files"):
		return ErrLockedOrDirty
	case strings.Contains(stderr, "not a valid ref"),
		strings.Contains(stderr, "unknown revision"),
		strings.Contains(stderr, "invalid reference"),
		strings.Contains(stderr, "not found"):
		return fmt.Errorf("%w: %s", ErrBranchNotFound, stderr)
	}

	if stderr != "" {
		return fmt.Errorf("git %s: %s", args[0], stderr)
	}
	return fmt.Errorf("git %s: %w", args[0], err)
}

// IsRepository reports whether path is inside a git working tree.
// Never returns an error: any failure to query counts as false.
func IsRepository(path string) bool {
	cmd := exec.Command("git", "-C", path, "rev-parse", "--is-inside-work-tree")
	out, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// IsWorkspaceRoot reports whether path is the root directory of a working
// tree. A subdirectory inside a workspace is not a workspace root, even
// though rev-parse answers queries from there too.
func IsWorkspaceRoot(path string) bool {
	cmd := exec.Command("git", "-C", path, "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		return false
	}
	top := strings.TrimSpace(string(out))

	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return filepath.Clean(top) == filepath.Clean(abs)
}

// TopLevel returns the root of the working tree containing g.dir.
func (g *Git) TopLevel() (string, error) {
	return g.run("rev-parse", "--show-toplevel")
}

// CurrentBranch returns the checked-out branch name, or the empty string for
// a detached HEAD. Detached state is not an error.
func (g *Git) CurrentBranch() string {
	out, err := g.run("symbolic-ref", "--quiet", "--short", "HEAD")
	if err != nil {
		return ""
	}
	return out
}

// BranchExists reports whether a local branch exists.
func (g *Git) BranchExists(branch string) bool {
	_, err := g.run("show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	return err == nil
}

// RemoteBranchExists reports whether a remote-tracking ref exists for branch.
func (g *Git) RemoteBranchExists(remote, branch string) bool {
	_, err := g.run("show-ref", "--verify", "--quiet",
		fmt.Sprintf("refs/remotes/%s/%s", remote, branch))
	return err == nil
}

// DefaultBranch resolves the repository's default branch. It asks the remote's
// symbolic HEAD first; when that is unset or there is no remote, it falls
// through the conventional names, taking the first that exists locally.
func (g *Git) DefaultBranch() (string, error) {
	out, err := g.run("symbolic-ref", "--short", "refs/remotes/origin/HEAD")
	if err == nil {
		return strings.TrimPrefix(out, "origin/"), nil
	}
	for _, name := range conventionalDefaults {
		if g.BranchExists(name) {
			return name, nil
		}
	}
	return "", ErrNoDefaultBranch
}

// IsBranchMerged reports whether branch's tip is an ancestor of target's tip.
// Exit status 1 from merge-base means "not an ancestor", which is a normal
// outcome, not an error.
func (g *Git) IsBranchMerged(branch, target string) (bool, error) {
	cmd := exec.Command("git", "merge-base", "--is-ancestor", branch, target)
	cmd.Dir = g.dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return false, nil
	}
	return false, g.wrapError(err, stderr.String(), []string{"merge-base"})
}

// IsWorkingTreeClean reports whether the working tree at path has no
// uncommitted or untracked changes.
func (g *Git) IsWorkingTreeClean(path string) (bool, error) {
	out, err := NewGit(path).run("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out == "", nil
}

// Fetch updates remote-tracking refs. Callers treat failure as non-fatal:
// merge-safety checks stay valid against stale-but-present local refs, and a
// failed fetch can only produce a false "not merged", never a false "merged".
func (g *Git) Fetch(remote string) error {
	_, err := g.run("fetch", "--prune", remote)
	return err
}

// ListWorkspaces parses `git worktree list --porcelain` into typed records.
// The bare/primary record carries IsPrimary; additionally the record whose
// branch matches the resolved default branch is marked primary, so a
// correctly configured repository identifies its primary either way.
func (g *Git) ListWorkspaces() ([]Workspace, error) {
	out, err := g.run("worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	defaultBranch, _ := g.DefaultBranch()
	return parseWorkspaceList(out, defaultBranch), nil
}

// parseWorkspaceList classifies porcelain output lines into workspace
// records. One record per block: a `worktree` line flushes the previous
// record and starts a new one; `HEAD` and `branch` set fields; `bare` marks
// the repository root record.
func parseWorkspaceList(out, defaultBranch string) []Workspace {
	var records []Workspace
	var cur Workspace
	var started bool

	flush := func() {
		if started && cur.Path != "" {
			records = append(records, cur)
		}
		cur = Workspace{}
		started = false
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			cur.Path = strings.TrimPrefix(line, "worktree ")
			started = true
		case strings.HasPrefix(line, "HEAD "):
			cur.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch refs/heads/"):
			cur.Branch = strings.TrimPrefix(line, "branch refs/heads/")
		case strings.HasPrefix(line, "branch "):
			cur.Branch = strings.TrimPrefix(line, "branch ")
		case line == "bare":
			cur.IsPrimary = true
		}
	}
	flush()

	if defaultBranch != "" {
		for i := range records {
			if records[i].Branch == defaultBranch {
				records[i].IsPrimary = true
			}
		}
	}
	return records
}

// AddWorkspace checks out an existing local branch into a new workspace.
func (g *Git) AddWorkspace(path, branch string) error {
	_, err := g.run("worktree", "add", path, branch)
	return err
}

// AddWorkspaceTracking creates branch tracking remote/branch and checks it
// out into a new workspace.
func (g *Git) AddWorkspaceTracking(path, branch, remote string) error {
	_, err := g.run("worktree", "add", "--track", "-b", branch, path,
		fmt.Sprintf("%s/%s", remote, branch))
	return err
}

// AddWorkspaceNewBranch creates a fresh branch off base and checks it out
// into a new workspace.
func (g *Git) AddWorkspaceNewBranch(path, branch, base string) error {
	_, err := g.run("worktree", "add", "-b", branch, path, base)
	return err
}

// RemoveWorkspace removes a workspace directory through git. With force set,
// locked and dirty workspaces are removed too.
func (g *Git) RemoveWorkspace(path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	_, err := g.run(args...)
	return err
}

// PruneWorkspaces drops stale workspace metadata for directories that no
// longer exist on disk.
func (g *Git) PruneWorkspaces() error {
	_, err := g.run("worktree", "prune")
	return err
}

// DeleteBranch deletes a local branch. Non-forced deletion (-d) refuses
// unmerged branches, which is the safety we want on the normal path.
func (g *Git) DeleteBranch(branch string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	_, err := g.run("branch", flag, branch)
	return err
}
