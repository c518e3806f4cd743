package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jeremyhon/grove/internal/git"
	"github.com/jeremyhon/grove/internal/hooks"
)

// DeleteOptions configure a delete flow.
type DeleteOptions struct {
	// Force bypasses the merge gate, the dirty-tree warning, and the
	// confirmation prompt, and force-deletes the branch.
	Force bool

	// WorkDir is the caller's current directory, used to locate the target
	// when no token is given and to detect self-deletion.
	WorkDir string

	// Confirm is the interactive confirmation collaborator. Nil or Force
	// bypasses it entirely.
	Confirm func(message string) bool
}

// DeleteResult reports the outcome of a delete flow.
type DeleteResult struct {
	Path   string
	Branch string

	// Aborted is set for the safety abort: the merge gate failed or the
	// user declined confirmation. No mutation was performed and the flow
	// terminated successfully.
	Aborted bool

	// AbortReason explains an abort for the user.
	AbortReason string

	// RelocateTo carries the primary workspace path when the deleted
	// workspace contained the caller's working directory.
	RelocateTo string

	Warnings []string
}

// Delete removes a workspace and its local branch. The target is the token
// resolved through the standard chain, or — when token is empty — the
// workspace containing opts.WorkDir. The primary workspace is never deleted,
// for any input that resolves to it.
//
// Unless forced, deletion is gated on the branch being merged into the
// default branch; an unmerged branch is a safety abort, not an error.
func (m *Manager) Delete(token string, opts DeleteOptions) (*DeleteResult, error) {
	records, err := m.ListWorkspaces()
	if err != nil {
		return nil, err
	}

	var target *git.Workspace
	var caseNote string
	if token == "" {
		if opts.WorkDir == "" {
			return nil, errors.New("no workspace given and no working directory to infer it from")
		}
		target = workspaceContaining(records, opts.WorkDir)
		if target == nil {
			return nil, &NotFoundError{Token: opts.WorkDir, Tried: []string{opts.WorkDir}}
		}
	} else {
		res, err := m.Resolve(token, false)
		if err != nil {
			return nil, err
		}
		if res.CaseMismatch {
			caseNote = fmt.Sprintf("matched branch %s (differs from %q only in case)", res.Branch, token)
		}
		target = workspaceByPath(records, res.Path)
		if target == nil {
			return nil, &NotFoundError{Token: token, Tried: []string{res.Path}}
		}
	}

	if target.IsPrimary {
		return nil, fmt.Errorf("%w: %s", ErrPrimaryProtected, target.Path)
	}

	result := &DeleteResult{Path: target.Path, Branch: target.Branch}
	if caseNote != "" {
		result.Warnings = append(result.Warnings, caseNote)
	}

	if !opts.Force {
		if err := m.git.Fetch("origin"); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("fetch failed, checking merge status against local refs: %v", err))
		}
		if target.Branch == "" {
			result.Aborted = true
			result.AbortReason = "workspace is in a detached state; use --force to delete it"
			return result, nil
		}
		gate, err := m.mergeGateTarget()
		if err != nil {
			return nil, err
		}
		merged, err := m.git.IsBranchMerged(target.Branch, gate)
		if err != nil {
			return nil, err
		}
		if !merged {
			result.Aborted = true
			result.AbortReason = fmt.Sprintf(
				"branch %s is not merged into %s; merge it first or use --force",
				target.Branch, gate)
			return result, nil
		}

		if clean, err := m.git.IsWorkingTreeClean(target.Path); err == nil && !clean {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s has uncommitted changes", target.Path))
		}

		if opts.Confirm != nil {
			if !opts.Confirm(fmt.Sprintf("Delete workspace %s (branch %s)?", target.Path, target.Branch)) {
				result.Aborted = true
				result.AbortReason = "cancelled"
				return result, nil
			}
		}
	}

	if err := m.removeWorkspace(target, opts.Force, result); err != nil {
		return result, err
	}

	if opts.WorkDir != "" && isUnder(opts.WorkDir, target.Path) {
		if primary := primaryOf(records); primary != nil {
			result.RelocateTo = primary.Path
		}
	}
	return result, nil
}

// removeWorkspace applies the delete mutation steps shared by Delete and
// Prune: pre-delete hook, worktree removal, metadata prune, branch deletion,
// post-delete hook. The hook failures are fatal; a failed branch delete on
// the non-forced path is downgraded to a warning since the workspace is
// already gone.
func (m *Manager) removeWorkspace(target *git.Workspace, force bool, result *DeleteResult) error {
	hookCtx := hooks.Context{
		ProjectPath:   m.root,
		WorkspacePath: target.Path,
		Branch:        target.Branch,
	}
	if err := runHook(hooks.PreDelete, m.cfg, hookCtx); err != nil {
		return err
	}

	if err := m.git.RemoveWorkspace(target.Path, force); err != nil {
		return fmt.Errorf("removing workspace %s: %w", target.Path, err)
	}
	if err := m.git.PruneWorkspaces(); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("worktree prune failed: %v", err))
	}
	if target.Branch != "" {
		if err := m.git.DeleteBranch(target.Branch, force); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("could not delete branch %s: %v", target.Branch, err))
		}
	}

	return runHook(hooks.PostDelete, m.cfg, hookCtx)
}

func workspaceByPath(records []git.Workspace, path string) *git.Workspace {
	path = filepath.Clean(path)
	for i := range records {
		if filepath.Clean(records[i].Path) == path {
			return &records[i]
		}
	}
	return nil
}

func isUnder(path, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	return path == root || strings.HasPrefix(path, root+string(filepath.Separator))
}
