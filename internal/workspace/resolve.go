package workspace

import (
	"path/filepath"
	"strings"

	"github.com/jeremyhon/grove/internal/files"
	"github.com/jeremyhon/grove/internal/git"
)

// Resolution is the outcome of resolving a user token to a workspace.
type Resolution struct {
	Path string

	// Branch is the workspace's branch when known from the live records.
	Branch string

	// CaseMismatch is set when the match came from the case-insensitive
	// branch scan, i.e. an existing workspace whose branch differs from the
	// token only in case was reused. Surfaced so callers can log it; the
	// fallback recovers case-insensitive-filesystem mismatches but could
	// mask an intent to create a genuinely new, differently-cased branch.
	CaseMismatch bool

	// Created is set when the token fell through to auto-create.
	Created bool
}

// Resolve maps a user token (path or branch name) to a workspace directory
// using the layered fallback chain:
//
//  1. the token as an existing on-disk workspace path
//  2. the canonical per-project path for the sanitized token
//  3. a case-insensitive branch match over live workspace records
//  4. auto-create (when enabled), else NotFoundError naming paths 1 and 2
//
// Every consumer resolves through this one method so the same token always
// resolves identically everywhere.
func (m *Manager) Resolve(token string, autoCreate bool) (*Resolution, error) {
	direct, err := filepath.Abs(token)
	if err != nil {
		direct = token
	}
	// Must be a workspace root, not merely inside one: a plain subdirectory
	// named like a branch would otherwise shadow the canonical workspace.
	if files.IsDirectory(direct) && git.IsWorkspaceRoot(direct) {
		return &Resolution{Path: direct}, nil
	}

	canonical := m.WorkspacePath(Sanitize(token))
	if files.IsDirectory(canonical) && git.IsWorkspaceRoot(canonical) {
		return &Resolution{Path: canonical}, nil
	}

	records, err := m.ListWorkspaces()
	if err == nil {
		for _, rec := range records {
			if rec.Branch == "" {
				continue
			}
			if strings.EqualFold(rec.Branch, token) && files.IsDirectory(rec.Path) {
				return &Resolution{
					Path:         rec.Path,
					Branch:       rec.Branch,
					CaseMismatch: rec.Branch != token,
				}, nil
			}
		}
	}

	if autoCreate {
		created, err := m.Create(token)
		if err != nil {
			return nil, err
		}
		return &Resolution{Path: created.Path, Branch: created.Branch, Created: created.Created}, nil
	}

	return nil, &NotFoundError{Token: token, Tried: []string{direct, canonical}}
}
