package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pramethg/CodeMapVisualizer/internal/document"
)

// Heuristic dependency extraction. This is a regex pass over captured
// function bodies, not scope analysis: aliasing and shadowing are
// invisible to it, and both false positives and false negatives are
// expected. The contract tests only this documented behavior; do not
// upgrade it silently to a real resolver.

var (
	// obj.name, self.name, this.name — group 2 captures the opening
	// parenthesis when the reference is a call.
	qualifiedRefRe = regexp.MustCompile(`\b(?:self|obj|this)\.([a-zA-Z_]\w*)(\s*\()?`)
	// bare identifier immediately followed by ( — a call candidate.
	bareCallRe = regexp.MustCompile(`\b([a-zA-Z_]\w*)\s*\(`)
)

// controlKeywords are never call targets.
var controlKeywords = map[string]bool{
	"if": true, "elseif": true, "else": true, "for": true, "parfor": true,
	"while": true, "switch": true, "case": true, "try": true, "catch": true,
	"end": true, "function": true, "return": true,
}

// extractDependencies runs after the full line scan, once per captured
// function body, against the sets of all method and property names seen.
// Methods with no detected edges get no entry at all.
func extractDependencies(doc *document.Structural) {
	methods := map[string]bool{}
	props := map[string]bool{}
	for _, cls := range doc.ClassDetails {
		for _, m := range cls.Methods {
			methods[m.Name] = true
		}
		for _, p := range cls.Properties {
			props[p.Name] = true
		}
	}
	if len(methods) == 0 && len(props) == 0 {
		return
	}

	deps := map[string]document.Dependency{}
	for name, body := range doc.Definitions {
		calls := map[string]bool{}
		uses := map[string]bool{}

		for _, m := range qualifiedRefRe.FindAllStringSubmatch(body, -1) {
			ref, paren := m[1], m[2]
			if paren != "" {
				if methods[ref] && ref != name {
					calls[ref] = true
				}
			} else if props[ref] {
				uses[ref] = true
			}
		}

		for _, m := range bareCallRe.FindAllStringSubmatchIndex(body, -1) {
			ref := body[m[2]:m[3]]
			// Skip qualified references (handled above) and control flow.
			if m[2] > 0 && body[m[2]-1] == '.' {
				continue
			}
			if controlKeywords[strings.ToLower(ref)] {
				continue
			}
			if methods[ref] && ref != name {
				calls[ref] = true
			}
		}

		if len(calls) == 0 && len(uses) == 0 {
			continue
		}
		deps[name] = document.Dependency{
			Calls:          sortedKeys(calls),
			UsesProperties: sortedKeys(uses),
		}
	}

	if len(deps) > 0 {
		doc.Dependencies = deps
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
