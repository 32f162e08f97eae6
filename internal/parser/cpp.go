package parser

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pramethg/CodeMapVisualizer/internal/document"
)

// cppAnalyzer is a deliberately restricted C++ analyzer: two regex
// passes over the whole file. Function matching is limited to a fixed
// set of primitive return types on a single line to bound false
// positives. Multi-line signatures, templates, namespaces, and
// non-primitive return types are unsupported.
type cppAnalyzer struct{}

var (
	cppClassRe = regexp.MustCompile(`\bclass\s+(\w+)`)
	cppFuncRe  = regexp.MustCompile(`\b(void|int|float|double|bool|string|auto)\s+(\w+)\s*\([^)]*\)\s*\{`)
)

func (cppAnalyzer) Parse(path string) (*document.Structural, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parser: reading %s: %w", path, err)
	}
	return parseCpp(src), nil
}

func parseCpp(src []byte) *document.Structural {
	doc := document.New(document.KindCpp)
	content := string(src)

	for _, m := range cppClassRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		doc.Classes = append(doc.Classes, name)
		doc.Signatures[name] = strings.TrimSpace(content[m[0]:m[1]])
		doc.Locations[name] = lineOfOffset(content, m[0])
	}

	for _, m := range cppFuncRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[4]:m[5]]
		doc.Functions = append(doc.Functions, name)
		sig := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(content[m[0]:m[1]]), "{"))
		doc.Signatures[name] = sig
		doc.Locations[name] = lineOfOffset(content, m[0])
	}

	return doc
}

// lineOfOffset converts a byte offset into a 1-based line number.
func lineOfOffset(content string, offset int) int {
	return strings.Count(content[:offset], "\n") + 1
}
