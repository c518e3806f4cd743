package workspace

import (
	"fmt"
	"os"

	"github.com/jeremyhon/grove/internal/files"
	"github.com/jeremyhon/grove/internal/git"
	"github.com/jeremyhon/grove/internal/hooks"
)

// CreateResult reports the outcome of a create flow.
type CreateResult struct {
	Path   string
	Branch string

	// Created is false when an existing valid workspace was reused
	// (idempotent re-entry).
	Created bool

	// Warnings are non-fatal problems encountered along the way, e.g. a
	// failed fetch. The caller decides how to surface them.
	Warnings []string
}

// Test seams for the external collaborators exercised mid-flow, so rollback
// behavior can be driven without breaking a real repository.
var (
	syncWorkspace = func(m *Manager, target string) error {
		if err := files.CopyPatterns(m.cfg.CopyPatterns, m.root, target); err != nil {
			return err
		}
		return files.LinkPatterns(m.cfg.SymlinkPatterns, m.root, target)
	}
	runHook = hooks.Run
)

// Create makes a branch-scoped workspace for the given feature text.
// Calling it twice with the same feature is safe: the second call finds the
// existing valid workspace and returns its path without mutating anything.
//
// On any failure after the workspace exists, the flow rolls back: the
// workspace is removed through git (raw recursive delete as fallback), stale
// metadata is pruned, and a branch this call freshly created is deleted.
// Rollback failures are reported but never mask the original error.
func (m *Manager) Create(feature string) (*CreateResult, error) {
	if err := m.requireConfig(); err != nil {
		return nil, err
	}

	branch := Sanitize(feature)
	if branch == "" {
		return nil, fmt.Errorf("%w: %q", ErrEmptyName, feature)
	}

	target := m.WorkspacePath(branch)
	result := &CreateResult{Path: target, Branch: branch}

	if files.IsDirectory(target) && git.IsWorkspaceRoot(target) {
		return result, nil
	}

	if err := m.git.Fetch("origin"); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("fetch failed, proceeding with local refs: %v", err))
	}

	freshBranch, err := m.addWorkspace(target, branch)
	if err != nil {
		return result, fmt.Errorf("creating workspace for %s: %w", branch, err)
	}
	result.Created = true

	if err := syncWorkspace(m, target); err != nil {
		m.rollbackCreate(target, branch, freshBranch, result)
		return result, fmt.Errorf("syncing files into %s: %w", target, err)
	}

	if err := runHook(hooks.PostSetup, m.cfg, hooks.Context{
		ProjectPath:   m.root,
		WorkspacePath: target,
		Branch:        branch,
	}); err != nil {
		m.rollbackCreate(target, branch, freshBranch, result)
		return result, err
	}

	return result, nil
}

// addWorkspace creates the branch+workspace pair, preferring an existing
// local branch, then an existing remote branch (tracked), then a fresh
// branch off the default branch. Reports whether the branch was freshly
// created, which bounds what rollback may delete.
func (m *Manager) addWorkspace(target, branch string) (fresh bool, err error) {
	if m.git.BranchExists(branch) {
		return false, m.git.AddWorkspace(target, branch)
	}
	if m.git.RemoteBranchExists("origin", branch) {
		return true, m.git.AddWorkspaceTracking(target, branch, "origin")
	}
	base, err := m.git.DefaultBranch()
	if err != nil {
		base = "HEAD"
	}
	return true, m.git.AddWorkspaceNewBranch(target, branch, base)
}

func (m *Manager) rollbackCreate(target, branch string, freshBranch bool, result *CreateResult) {
	if err := m.git.RemoveWorkspace(target, true); err != nil {
		if rmErr := os.RemoveAll(target); rmErr != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("rollback: could not remove %s: %v", target, rmErr))
		}
	}
	if err := m.git.PruneWorkspaces(); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("rollback: worktree prune failed: %v", err))
	}
	if freshBranch {
		if err := m.git.DeleteBranch(branch, true); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("rollback: could not delete branch %s: %v", branch, err))
		}
	}
}
