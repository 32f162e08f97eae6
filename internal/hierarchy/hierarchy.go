// Package hierarchy builds immutable directory-tree snapshots. A
// snapshot is rebuilt wholesale on every folder scan and never merged
// with a prior one.
package hierarchy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Node kinds.
const (
	KindFile   = "file"
	KindFolder = "folder"
)

// DefaultIgnoreGlobs are skipped during traversal, in addition to any
// dot-prefixed name.
var DefaultIgnoreGlobs = []string{
	".git", "node_modules", "__pycache__", ".DS_Store", "venv", ".next",
}

// Node is one entry in a directory snapshot. Only folders carry a
// children list.
type Node struct {
	Name     string
	Kind     string
	Path     string
	Children []*Node
}

// MarshalJSON emits the children field for folders only, including an
// empty folder's [].
func (n *Node) MarshalJSON() ([]byte, error) {
	if n.Kind == KindFolder {
		children := n.Children
		if children == nil {
			children = []*Node{}
		}
		return json.Marshal(struct {
			Name     string  `json:"name"`
			Kind     string  `json:"kind"`
			Path     string  `json:"path"`
			Children []*Node `json:"children"`
		}{n.Name, n.Kind, n.Path, children})
	}
	return json.Marshal(struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
		Path string `json:"path"`
	}{n.Name, n.Kind, n.Path})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name     string  `json:"name"`
		Kind     string  `json:"kind"`
		Path     string  `json:"path"`
		Children []*Node `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Name, n.Kind, n.Path, n.Children = raw.Name, raw.Kind, raw.Path, raw.Children
	return nil
}

// Build snapshots the tree rooted at path. Entries matching an ignore
// glob or starting with a dot are skipped; children are ordered by
// case-insensitive name. A directory that cannot be listed yields an
// empty children list rather than aborting the snapshot.
func Build(path string, ignoreGlobs []string) (*Node, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: stat %s: %w", path, err)
	}
	if ignoreGlobs == nil {
		ignoreGlobs = DefaultIgnoreGlobs
	}
	return build(path, info.IsDir(), ignoreGlobs), nil
}

func build(path string, isDir bool, ignoreGlobs []string) *Node {
	node := &Node{
		Name: filepath.Base(filepath.Clean(path)),
		Kind: KindFile,
		Path: path,
	}
	if !isDir {
		return node
	}

	node.Kind = KindFolder
	node.Children = []*Node{}

	entries, err := os.ReadDir(path)
	if err != nil {
		// Partial trees beat aborting the whole scan.
		return node
	}
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || ignored(name, ignoreGlobs) {
			continue
		}
		child := build(filepath.Join(path, name), entry.IsDir(), ignoreGlobs)
		node.Children = append(node.Children, child)
	}
	return node
}

func ignored(name string, globs []string) bool {
	for _, g := range globs {
		if g == "" {
			continue
		}
		if ok, err := doublestar.Match(g, name); err == nil && ok {
			return true
		}
	}
	return false
}
