package codemap

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pramethg/CodeMapVisualizer/internal/cache"
	"github.com/pramethg/CodeMapVisualizer/internal/document"
)

// newProject lays out a project root with a .git marker and returns it.
func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	return root
}

func writeSource(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestScanner(t *testing.T, opts ...Option) *Scanner {
	t.Helper()
	s, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

const pySource = `def alpha():
    return 1

class Box:
    size = 3

    def volume(self):
        return self.size
`

func TestScanFile_WritesDocumentToCachePath(t *testing.T) {
	root := newProject(t)
	target := writeSource(t, root, "src/box.py", pySource)
	s := newTestScanner(t)

	doc, err := s.ScanFile(target, "")
	require.NoError(t, err)
	assert.Equal(t, KindPython, doc.Kind)
	assert.Equal(t, []string{"alpha"}, doc.Functions)
	assert.Equal(t, []CommentEntry{}, doc.Comments)

	cachePath, err := cache.Resolve(target, root)
	require.NoError(t, err)
	data, err := os.ReadFile(cachePath)
	require.NoError(t, err)

	var persisted document.Structural
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, doc.Functions, persisted.Functions)
	assert.Equal(t, doc.Signatures, persisted.Signatures)
}

func TestScanFile_UnsupportedExtension(t *testing.T) {
	root := newProject(t)
	target := writeSource(t, root, "notes.txt", "hello")
	s := newTestScanner(t)

	_, err := s.ScanFile(target, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestScanFile_MissingFile(t *testing.T) {
	s := newTestScanner(t)
	_, err := s.ScanFile(filepath.Join(t.TempDir(), "ghost.py"), "")
	require.Error(t, err)
}

func TestScanFile_PreservesCommentsAcrossRescan(t *testing.T) {
	root := newProject(t)
	target := writeSource(t, root, "src/box.py", pySource)
	s := newTestScanner(t)

	_, err := s.ScanFile(target, "")
	require.NoError(t, err)

	comments := []CommentEntry{
		{NodeLabel: "Box", Text: "core container", Title: "Box notes", Timestamp: "1700000000123"},
		{NodeLabel: "alpha", Text: "entry point", Title: "", Timestamp: "0"},
	}
	_, err = s.SaveComments(target, comments, "")
	require.NoError(t, err)

	// Rescanning replaces everything except comments, which are carried
	// forward untouched, in order, without deduplication.
	doc, err := s.ScanFile(target, "")
	require.NoError(t, err)
	assert.Equal(t, comments, doc.Comments)

	doc, err = s.ScanFile(target, "")
	require.NoError(t, err)
	assert.Equal(t, comments, doc.Comments)
}

func TestScanFile_CorruptPriorCacheTreatedAsAbsent(t *testing.T) {
	root := newProject(t)
	target := writeSource(t, root, "model.m", "function f()\nend\n")
	s := newTestScanner(t)

	cachePath, err := cache.Resolve(target, root)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cachePath, []byte("{{{ not json"), 0o644))

	doc, err := s.ScanFile(target, "")
	require.NoError(t, err)
	assert.Equal(t, []CommentEntry{}, doc.Comments)
}

func TestScanFile_RootHintOverridesDiscovery(t *testing.T) {
	root := newProject(t)
	other := t.TempDir()
	target := writeSource(t, root, "main.cpp", "int main() {\n}\n")
	s := newTestScanner(t)

	_, err := s.ScanFile(target, other)
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(other, "assets", ".visualizer"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestScanFile_SyntaxErrorPropagates(t *testing.T) {
	root := newProject(t)
	target := writeSource(t, root, "bad.py", "def broken(:\n")
	s := newTestScanner(t)

	_, err := s.ScanFile(target, "")
	require.Error(t, err)
}

func TestSaveComments_WithoutPriorScan(t *testing.T) {
	root := newProject(t)
	target := writeSource(t, root, "late.py", "x = 1\n")
	s := newTestScanner(t)

	// No prior document: the save operates on an empty one.
	doc, err := s.SaveComments(target, []CommentEntry{{NodeLabel: "n", Text: "t", Timestamp: "0"}}, "")
	require.NoError(t, err)
	require.Len(t, doc.Comments, 1)
	assert.Equal(t, "n", doc.Comments[0].NodeLabel)
}

func TestAddComment_AppendsLegacyShape(t *testing.T) {
	root := newProject(t)
	target := writeSource(t, root, "box.py", pySource)
	s := newTestScanner(t)

	_, err := s.ScanFile(target, "")
	require.NoError(t, err)

	doc, err := s.AddComment(target, "Box", "first", "")
	require.NoError(t, err)
	doc, err = s.AddComment(target, "Box", "second", "")
	require.NoError(t, err)

	require.Len(t, doc.Comments, 2)
	assert.Equal(t, "first", doc.Comments[0].Text)
	assert.Equal(t, "second", doc.Comments[1].Text)
	assert.Equal(t, "", doc.Comments[0].Title)
	assert.Equal(t, json.Number("0"), doc.Comments[0].Timestamp)

	// A rescan keeps both appended comments.
	scanned, err := s.ScanFile(target, "")
	require.NoError(t, err)
	assert.Equal(t, doc.Comments, scanned.Comments)
}

func TestScanFolder_WritesSnapshot(t *testing.T) {
	root := newProject(t)
	writeSource(t, root, "src/app.py", "x = 1\n")
	writeSource(t, root, "src/zed.m", "y = 2;\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules"), 0o755))
	s := newTestScanner(t)

	node, err := s.ScanFolder(root)
	require.NoError(t, err)
	assert.Equal(t, "folder", node.Kind)

	var names []string
	for _, c := range node.Children {
		names = append(names, c.Name)
	}
	assert.NotContains(t, names, ".git")
	assert.NotContains(t, names, "node_modules")
	assert.Contains(t, names, "src")

	snapshot := filepath.Join(root, "assets", ".visualizer", "folder_structure.json")
	data, err := os.ReadFile(snapshot)
	require.NoError(t, err)

	var persisted HierarchyNode
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, node.Name, persisted.Name)
}

func TestScanner_RecordsHistory(t *testing.T) {
	root := newProject(t)
	target := writeSource(t, root, "src/box.py", pySource)
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	s := newTestScanner(t, WithHistory(dbPath))

	_, err := s.ScanFile(target, "")
	require.NoError(t, err)
	_, err = s.ScanFolder(root)
	require.NoError(t, err)

	scans, err := s.History().Recent(10)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	assert.Equal(t, "folder", scans[0].Kind)
	assert.Equal(t, KindPython, scans[1].Kind)
	assert.Equal(t, 1, scans[1].Functions)
	assert.Equal(t, 1, scans[1].Classes)
	assert.Equal(t, 1, scans[1].Methods)
}
