// Package files provides the glob-based copy and symlink mechanics used to
// populate new workspaces from the primary workspace.
package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDirectory reports whether path exists and is a directory.
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// RemoveTree deletes path and everything under it.
func RemoveTree(path string) error {
	return os.RemoveAll(path)
}

// CopyPatterns copies every file matching the glob patterns (relative to
// from) into the same relative location under to. Matches that no longer
// exist are skipped; directories are copied recursively.
func CopyPatterns(patterns []string, from, to string) error {
	matches, err := expand(patterns, from)
	if err != nil {
		return err
	}
	for _, rel := range matches {
		src := filepath.Join(from, rel)
		dst := filepath.Join(to, rel)
		if err := copyPath(src, dst); err != nil {
			return fmt.Errorf("copying %s: %w", rel, err)
		}
	}
	return nil
}

// LinkPatterns symlinks every match of the glob patterns (relative to from)
// into the same relative location under to. Existing destinations are left
// untouched.
func LinkPatterns(patterns []string, from, to string) error {
	matches, err := expand(patterns, from)
	if err != nil {
		return err
	}
	for _, rel := range matches {
		src := filepath.Join(from, rel)
		dst := filepath.Join(to, rel)
		if Exists(dst) {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.Symlink(src, dst); err != nil {
			return fmt.Errorf("linking %s: %w", rel, err)
		}
	}
	return nil
}

// expand resolves glob patterns against root, returning root-relative paths.
func expand(patterns []string, root string) ([]string, error) {
	var result []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			rel, err := filepath.Rel(root, m)
			if err != nil || seen[rel] {
				continue
			}
			seen[rel] = true
			result = append(result, rel)
		}
	}
	return result, nil
}

func copyPath(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return copyDir(src, dst)
	}
	return copyFile(src, dst, info.Mode())
}

func copyDir(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		s := filepath.Join(src, entry.Name())
		d := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyDir(s, d); err != nil {
				return err
			}
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if err := copyFile(s, d, info.Mode()); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
