// Package workspace implements the lifecycle engine for branch-scoped
// workspaces: branch/path resolution, the merge-safety gate, and the
// orchestrated create, delete, and prune flows. Git's live state is the only
// source of truth; workspace records are re-derived on every call.
package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jeremyhon/grove/internal/config"
	"github.com/jeremyhon/grove/internal/git"
)

// Common errors.
var (
	ErrNotRepository    = errors.New("not inside a git repository")
	ErrNotInitialized   = config.ErrNotInitialized
	ErrEmptyName        = errors.New("feature name resolves to an empty branch name")
	ErrPrimaryProtected = errors.New("refusing to delete the primary workspace")
	ErrNotFound         = errors.New("workspace not found")
)

// NotFoundError reports a failed resolution and names every path attempted,
// so the user can see exactly what was tried.
type NotFoundError struct {
	Token string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no workspace for %q (tried %s)", e.Token, strings.Join(e.Tried, ", "))
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// WorkspacesSuffix is appended to the project directory name to form the
// sibling directory that holds all branch workspaces.
const WorkspacesSuffix = "__workspaces"

// Manager orchestrates workspace lifecycle flows. It owns the sequence of
// mutating git calls for the duration of one command invocation and holds no
// state across invocations beyond its injected collaborators.
type Manager struct {
	root string // primary workspace root
	cfg  *config.ProjectConfig
	git  *git.Git
}

// NewManager creates a Manager rooted at the primary workspace. cfg may be
// nil for read-only flows; mutating flows require it and fail with
// ErrNotInitialized otherwise.
func NewManager(root string, cfg *config.ProjectConfig, g *git.Git) *Manager {
	return &Manager{root: root, cfg: cfg, git: g}
}

// FromDir locates the primary workspace of the repository containing dir and
// builds a Manager for it. Works from inside any workspace of the project.
// A missing project config is not an error here; flows that need it fail
// with ErrNotInitialized when they run.
func FromDir(dir string) (*Manager, error) {
	if !git.IsRepository(dir) {
		return nil, ErrNotRepository
	}
	g := git.NewGit(dir)

	var root string
	if records, err := g.ListWorkspaces(); err == nil {
		if primary := primaryOf(records); primary != nil {
			root = primary.Path
		}
	}
	if root == "" {
		top, err := g.TopLevel()
		if err != nil {
			return nil, err
		}
		root = top
	}

	cfg, err := config.LoadProjectConfig(root)
	if err != nil && !errors.Is(err, config.ErrNotInitialized) {
		return nil, err
	}
	return NewManager(root, cfg, git.NewGit(root)), nil
}

// Root returns the primary workspace root.
func (m *Manager) Root() string { return m.root }

// Config returns the project configuration, which may be nil.
func (m *Manager) Config() *config.ProjectConfig { return m.cfg }

// WorkspacesDir returns the directory holding all branch workspaces:
// a sibling of the primary workspace named <project>__workspaces.
func (m *Manager) WorkspacesDir() string {
	parent := filepath.Dir(m.root)
	return filepath.Join(parent, filepath.Base(m.root)+WorkspacesSuffix)
}

// WorkspacePath returns the canonical directory for a branch name.
func (m *Manager) WorkspacePath(branch string) string {
	return filepath.Join(m.WorkspacesDir(), branch)
}

// ListWorkspaces re-derives the live workspace records from git.
func (m *Manager) ListWorkspaces() ([]git.Workspace, error) {
	return m.git.ListWorkspaces()
}

// mergeGateTarget returns the ref merge-safety checks evaluate against:
// the remote-tracking ref of the default branch when one exists, so the
// preceding fetch is what the gate actually sees, else the local default.
func (m *Manager) mergeGateTarget() (string, error) {
	defaultBranch, err := m.git.DefaultBranch()
	if err != nil {
		return "", err
	}
	if m.git.RemoteBranchExists("origin", defaultBranch) {
		return "origin/" + defaultBranch, nil
	}
	return defaultBranch, nil
}

// requireConfig gates mutating flows on an initialized project.
func (m *Manager) requireConfig() error {
	if m.cfg == nil {
		return ErrNotInitialized
	}
	return nil
}

// workspaceContaining returns the record whose directory contains path, or
// nil when path lies outside every known workspace.
func workspaceContaining(records []git.Workspace, path string) *git.Workspace {
	path = filepath.Clean(path)
	for i := range records {
		root := filepath.Clean(records[i].Path)
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return &records[i]
		}
	}
	return nil
}

// primaryOf returns the primary record from a live listing, or nil.
func primaryOf(records []git.Workspace) *git.Workspace {
	for i := range records {
		if records[i].IsPrimary {
			return &records[i]
		}
	}
	return nil
}
