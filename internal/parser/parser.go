// Package parser turns source files into structural documents. Three
// analyzers share one output contract: a tree-sitter based Python
// analyzer, a line-oriented MATLAB analyzer with its own nesting state
// machine, and a deliberately restricted regex C++ analyzer.
package parser

import (
	"path/filepath"
	"strings"

	"github.com/pramethg/CodeMapVisualizer/internal/document"
)

// Analyzer parses one source file into a structural document.
type Analyzer interface {
	Parse(path string) (*document.Structural, error)
}

// extToAnalyzer maps file extensions to analyzer instances. Analyzers are
// stateless; a single instance serves all calls.
var extToAnalyzer = map[string]Analyzer{
	".py":  pythonAnalyzer{},
	".m":   matlabAnalyzer{},
	".cpp": cppAnalyzer{},
	".h":   cppAnalyzer{},
}

// ForPath returns the analyzer for a file path based on its extension, or
// nil if the extension is not supported. Callers must surface nil as an
// explicit unsupported-file-type result.
func ForPath(path string) Analyzer {
	ext := strings.ToLower(filepath.Ext(path))
	return extToAnalyzer[ext]
}

// Extensions returns the set of supported file extensions (with dot).
func Extensions() []string {
	exts := make([]string, 0, len(extToAnalyzer))
	for ext := range extToAnalyzer {
		exts = append(exts, ext)
	}
	return exts
}
