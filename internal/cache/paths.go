// Package cache resolves deterministic on-disk locations for structural
// documents and persists them without ever exposing a torn file to a
// concurrent reader.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir is the cache directory created under the project root.
var Dir = filepath.Join("assets", ".visualizer")

// FolderSnapshotName is the per-folder hierarchy snapshot filename.
const FolderSnapshotName = "folder_structure.json"

// maxRootDepth bounds the ancestor walk during root discovery.
const maxRootDepth = 10

// FindProjectRoot discovers the directory that anchors the cache for a
// target path. It walks ancestors looking for a version-control marker,
// then walks again looking for a cache directory left by a prior scan,
// and finally falls back to the parent of the starting directory. Once a
// cache directory exists anywhere on the ancestor chain, discovery is
// idempotent.
func FindProjectRoot(target string) string {
	abs, err := filepath.Abs(target)
	if err != nil {
		abs = target
	}
	start := abs
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		start = filepath.Dir(abs)
	}

	if root, ok := findMarkerUp(start, ".git"); ok {
		return root
	}
	if root, ok := findMarkerUp(start, Dir); ok {
		return root
	}
	return filepath.Dir(start)
}

// findMarkerUp walks up from dir (inclusive) looking for a directory
// named marker, up to maxRootDepth levels.
func findMarkerUp(dir, marker string) (string, bool) {
	for i := 0; i < maxRootDepth; i++ {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

// Resolve turns (target path, root) into the deterministic cache file
// path, creating the cache directory if absent. The filename is derived
// from the target's relative path under root; a relative path that would
// escape the root falls back to the sanitized absolute path, so two
// different files under one root can never collide unless their
// sanitized names are literally identical.
func Resolve(target, root string) (string, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("cache: resolving %s: %w", target, err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("cache: resolving root %s: %w", root, err)
	}

	name := ""
	rel, relErr := filepath.Rel(absRoot, absTarget)
	if relErr != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		name = sanitize(absTarget)
	} else {
		name = sanitize(rel)
	}

	dir := filepath.Join(absRoot, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cache: creating %s: %w", dir, err)
	}
	return filepath.Join(dir, "meta_"+name+".json"), nil
}

// SnapshotPath returns the folder-hierarchy snapshot path under root,
// creating the cache directory if absent.
func SnapshotPath(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("cache: resolving root %s: %w", root, err)
	}
	dir := filepath.Join(absRoot, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cache: creating %s: %w", dir, err)
	}
	return filepath.Join(dir, FolderSnapshotName), nil
}

// sanitize replaces path separators and literal dots with underscores so
// the result is a single flat filename component.
func sanitize(path string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ".", "_")
	return r.Replace(path)
}
