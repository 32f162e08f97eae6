package codemap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pramethg/CodeMapVisualizer/internal/cache"
	"github.com/pramethg/CodeMapVisualizer/internal/document"
	"github.com/pramethg/CodeMapVisualizer/internal/hierarchy"
	"github.com/pramethg/CodeMapVisualizer/internal/history"
	"github.com/pramethg/CodeMapVisualizer/internal/parser"
)

// ErrUnsupportedFileType is returned by ScanFile for extensions no
// analyzer claims. Callers surface it explicitly rather than treating it
// as a scan failure.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// Scanner orchestrates scans: analyzer dispatch, prior-document lookup
// for comment preservation, and atomic cache writes. A Scanner is safe
// to reuse across calls; concurrent scans of the same target race on the
// comment-preservation read-modify-write, last writer wins.
type Scanner struct {
	ledger      *history.Ledger
	ledgerPath  string
	ignoreGlobs []string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithHistory records every completed scan in a SQLite ledger at dbPath.
func WithHistory(dbPath string) Option {
	return func(s *Scanner) {
		s.ledgerPath = dbPath
	}
}

// WithIgnoreGlobs overrides the default ignore set used by ScanFolder.
func WithIgnoreGlobs(globs ...string) Option {
	return func(s *Scanner) {
		s.ignoreGlobs = globs
	}
}

// New creates a Scanner.
func New(opts ...Option) (*Scanner, error) {
	s := &Scanner{}
	for _, opt := range opts {
		opt(s)
	}
	if s.ledgerPath != "" {
		l, err := history.Open(s.ledgerPath)
		if err != nil {
			return nil, fmt.Errorf("codemap: open history: %w", err)
		}
		s.ledger = l
	}
	return s, nil
}

// Close releases the Scanner's ledger, if any.
func (s *Scanner) Close() error {
	if s.ledger != nil {
		return s.ledger.Close()
	}
	return nil
}

// History returns the scan ledger, or nil when history is disabled.
func (s *Scanner) History() *history.Ledger {
	return s.ledger
}

// ScanFile re-parses one source file and persists the resulting document
// to its deterministic cache path. User-authored comments from the prior
// persisted document, if any, are carried forward untouched; a corrupt
// or unreadable prior document is treated as absent. rootHint overrides
// project-root discovery when non-empty.
func (s *Scanner) ScanFile(path, rootHint string) (*document.Structural, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("codemap: %s: %w", path, err)
	}

	root := rootHint
	if root == "" {
		root = cache.FindProjectRoot(path)
	}
	cachePath, err := cache.Resolve(path, root)
	if err != nil {
		return nil, fmt.Errorf("codemap: %w", err)
	}

	an := parser.ForPath(path)
	if an == nil {
		return nil, fmt.Errorf("codemap: %s: %w", filepath.Ext(path), ErrUnsupportedFileType)
	}
	doc, err := an.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("codemap: %w", err)
	}

	doc.Comments = priorComments(cachePath)

	if err := cache.WriteJSON(cachePath, doc); err != nil {
		return nil, fmt.Errorf("codemap: %w", err)
	}

	s.record(path, root, cachePath, doc)
	return doc, nil
}

// ScanFolder rebuilds the hierarchy snapshot for a directory and
// persists it under the directory's project root.
func (s *Scanner) ScanFolder(path string) (*hierarchy.Node, error) {
	node, err := hierarchy.Build(path, s.ignoreGlobs)
	if err != nil {
		return nil, fmt.Errorf("codemap: %w", err)
	}

	root := cache.FindProjectRoot(path)
	snapshotPath, err := cache.SnapshotPath(root)
	if err != nil {
		return nil, fmt.Errorf("codemap: %w", err)
	}
	if err := cache.WriteJSON(snapshotPath, node); err != nil {
		return nil, fmt.Errorf("codemap: %w", err)
	}

	if s.ledger != nil {
		// Folder snapshots are recorded without symbol counts.
		s.ledger.Record(&history.Scan{
			Path:      path,
			Root:      root,
			CachePath: snapshotPath,
			Kind:      "folder",
		})
	}
	return node, nil
}

// SaveComments replaces the comments of the persisted document for path
// and returns the full document. A missing or corrupt prior document is
// treated as an empty one.
func (s *Scanner) SaveComments(path string, comments []document.CommentEntry, rootHint string) (*document.Structural, error) {
	doc, cachePath, err := s.loadForCommentEdit(path, rootHint)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []document.CommentEntry{}
	}
	doc.Comments = comments
	if err := cache.WriteJSON(cachePath, doc); err != nil {
		return nil, fmt.Errorf("codemap: %w", err)
	}
	return doc, nil
}

// AddComment appends one comment to the persisted document for path and
// returns the full document. The legacy append shape carries an empty
// title and a zero timestamp.
func (s *Scanner) AddComment(path, nodeLabel, text, rootHint string) (*document.Structural, error) {
	doc, cachePath, err := s.loadForCommentEdit(path, rootHint)
	if err != nil {
		return nil, err
	}
	doc.Comments = append(doc.Comments, document.CommentEntry{
		NodeLabel: nodeLabel,
		Text:      text,
		Title:     "",
		Timestamp: "0",
	})
	if err := cache.WriteJSON(cachePath, doc); err != nil {
		return nil, fmt.Errorf("codemap: %w", err)
	}
	return doc, nil
}

func (s *Scanner) loadForCommentEdit(path, rootHint string) (*document.Structural, string, error) {
	root := rootHint
	if root == "" {
		root = cache.FindProjectRoot(path)
	}
	cachePath, err := cache.Resolve(path, root)
	if err != nil {
		return nil, "", fmt.Errorf("codemap: %w", err)
	}
	doc := &document.Structural{}
	if !cache.ReadJSON(cachePath, doc) {
		doc = &document.Structural{}
	}
	if doc.Comments == nil {
		doc.Comments = []document.CommentEntry{}
	}
	return doc, cachePath, nil
}

// priorComments loads the comments field of the prior persisted document
// at cachePath. Missing file, corrupt JSON, or an absent comments field
// all yield a fresh empty sequence.
func priorComments(cachePath string) []document.CommentEntry {
	var prior struct {
		Comments *[]document.CommentEntry `json:"comments"`
	}
	if cache.ReadJSON(cachePath, &prior) && prior.Comments != nil {
		return *prior.Comments
	}
	return []document.CommentEntry{}
}

// record writes one file-scan event to the ledger, if enabled. Ledger
// failures never fail a scan.
func (s *Scanner) record(path, root, cachePath string, doc *document.Structural) {
	if s.ledger == nil {
		return
	}
	methods := 0
	for _, cls := range doc.ClassDetails {
		methods += len(cls.Methods)
	}
	// The MATLAB analyzer leaves Classes empty and reports through
	// ClassDetails instead.
	classes := len(doc.Classes)
	if classes == 0 {
		classes = len(doc.ClassDetails)
	}
	s.ledger.Record(&history.Scan{
		Path:      path,
		Root:      root,
		CachePath: cachePath,
		Kind:      doc.Kind,
		Functions: len(doc.Functions),
		Classes:   classes,
		Methods:   methods,
	})
}
