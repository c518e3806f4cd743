package workspace

import (
	"fmt"

	"github.com/jeremyhon/grove/internal/git"
)

// PruneOptions configure a prune flow.
type PruneOptions struct {
	// DryRun evaluates candidates and performs no mutation.
	DryRun bool

	// Force bypasses the batch confirmation.
	Force bool

	// Confirm is asked once for the whole batch unless Force is set.
	Confirm func(message string) bool
}

// PruneResult reports the outcome of a prune flow.
type PruneResult struct {
	// Candidates is exactly the set of non-primary workspaces whose branch
	// resolves and is merged into the default branch.
	Candidates []git.Workspace

	// Removed are the candidate paths successfully deleted.
	Removed []string

	// Failed records per-workspace failures; prune continues past them.
	Failed []string

	// Aborted is set when the user declined the batch confirmation.
	Aborted bool

	Warnings []string
}

// Prune enumerates all non-primary workspaces, applies the same merge gate
// as Delete to build the candidate set, and removes every candidate.
// Workspaces with no resolvable branch are skipped with a warning, never
// candidates. Individual failures do not stop the batch.
func (m *Manager) Prune(opts PruneOptions) (*PruneResult, error) {
	records, err := m.ListWorkspaces()
	if err != nil {
		return nil, err
	}

	result := &PruneResult{}

	if err := m.git.Fetch("origin"); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("fetch failed, checking merge status against local refs: %v", err))
	}

	gate, err := m.mergeGateTarget()
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec.IsPrimary {
			continue
		}
		if rec.Branch == "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("skipping %s: detached, no branch to check", rec.Path))
			continue
		}
		merged, err := m.git.IsBranchMerged(rec.Branch, gate)
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("skipping %s: %v", rec.Path, err))
			continue
		}
		if merged {
			result.Candidates = append(result.Candidates, rec)
		}
	}

	if opts.DryRun || len(result.Candidates) == 0 {
		return result, nil
	}

	if !opts.Force && opts.Confirm != nil {
		if !opts.Confirm(fmt.Sprintf("Delete %d merged workspace(s)?", len(result.Candidates))) {
			result.Aborted = true
			return result, nil
		}
	}

	for i := range result.Candidates {
		rec := result.Candidates[i]
		sub := &DeleteResult{Path: rec.Path, Branch: rec.Branch}
		if err := m.removeWorkspace(&rec, opts.Force, sub); err != nil {
			result.Failed = append(result.Failed, fmt.Sprintf("%s: %v", rec.Path, err))
			continue
		}
		result.Warnings = append(result.Warnings, sub.Warnings...)
		result.Removed = append(result.Removed, rec.Path)
	}
	return result, nil
}
