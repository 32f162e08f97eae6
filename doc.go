// Package codemap indexes source files into normalized structural
// documents and persists them to a deterministic on-disk cache,
// preserving user-authored annotations across rescans.
//
// # Pipeline
//
// A file scan runs in four steps:
//
//  1. Locate: discover the project root (version-control marker, prior
//     cache directory, or grandparent fallback) and derive the cache
//     path from the sanitized relative path of the target.
//
//  2. Analyze: dispatch on file extension to one of three analyzers —
//     a tree-sitter based Python analyzer, a line-oriented MATLAB
//     analyzer with heuristic dependency extraction, and a restricted
//     regex C++ analyzer. All three share one output contract.
//
//  3. Merge: copy the comments field of the previously persisted
//     document, if any, into the fresh document. A corrupt prior
//     document is treated as absent.
//
//  4. Persist: write the document atomically (temp file plus rename) so
//     a concurrent reader never observes a torn file.
//
// # Usage
//
// Create a Scanner and scan:
//
//	s, err := codemap.New()
//	if err != nil { ... }
//	defer s.Close()
//
//	doc, err := s.ScanFile("model/Solver.m", "")
//	tree, err := s.ScanFolder("model")
//
// # Cache layout
//
// Documents land under <root>/assets/.visualizer/ as
// meta_<sanitizedRelPath>.json per file and folder_structure.json per
// folder snapshot, serialized as 2-space-indented UTF-8 JSON.
//
// # Concurrency
//
// Scans are synchronous and take no locks. Concurrent scans of the same
// target race on the comment-preservation read-modify-write; the last
// writer wins. Callers needing stronger guarantees must serialize scans
// per path externally. The atomic write only guarantees that readers
// never see a half-written file, not that concurrent writers are
// ordered.
package codemap
