// Package document defines the structural document produced by every
// analyzer and persisted as the on-disk cache artifact. The JSON field
// names here are a wire contract consumed by external tooling; renaming
// a tag is a breaking change.
package document

import "encoding/json"

// Document kinds, one per analyzer.
const (
	KindPython = "python"
	KindMatlab = "matlab"
	KindCpp    = "cpp"
)

// Structural is the normalized extraction result for one source file.
//
// Every key in Signatures, Definitions, and Locations refers to a name
// reachable via Functions, Classes, or ClassDetails methods. Definitions
// and Dependencies are only populated by the analyzers that support them
// and are omitted from JSON when empty. Comments is the one field whose
// lifecycle is independent of parsing: it is carried forward from the
// previous persisted document on every rescan.
type Structural struct {
	Kind         string                `json:"kind"`
	Functions    []string              `json:"functions"`
	Classes      []string              `json:"classes"`
	ClassDetails []*ClassInfo          `json:"classDetails"`
	Signatures   map[string]string     `json:"signatures"`
	Definitions  map[string]string     `json:"definitions,omitempty"`
	Locations    map[string]int        `json:"locations"`
	Dependencies map[string]Dependency `json:"dependencies,omitempty"`
	Comments     []CommentEntry        `json:"comments"`
}

// New returns an empty Structural of the given kind with all collections
// initialized, so the marshaled form always carries the full schema.
func New(kind string) *Structural {
	return &Structural{
		Kind:         kind,
		Functions:    []string{},
		Classes:      []string{},
		ClassDetails: []*ClassInfo{},
		Signatures:   map[string]string{},
		Locations:    map[string]int{},
		Comments:     []CommentEntry{},
	}
}

// ClassInfo describes one class and its members in discovery order.
type ClassInfo struct {
	Name       string          `json:"name"`
	Properties []*PropertyInfo `json:"properties"`
	Methods    []*MethodInfo   `json:"methods"`
}

// PropertyInfo is a class property. Attributes is reserved for modifiers
// the analyzers may attach; it is always present, possibly empty.
type PropertyInfo struct {
	Name       string   `json:"name"`
	Attributes []string `json:"attributes"`
}

// MethodInfo is a class method. For dotted getter/setter forms
// (get.propName, set.propName) the accessor prefix lands in Attributes and
// the property name in Property; for decorated methods the decorator names
// land in Attributes.
type MethodInfo struct {
	Name       string   `json:"name"`
	Signature  string   `json:"signature"`
	Attributes []string `json:"attributes"`
	Property   string   `json:"property,omitempty"`
}

// Dependency holds the heuristic call and property-use edges detected in
// one method body. Both lists are sorted; methods with no edges at all
// have no Dependency entry.
type Dependency struct {
	Calls          []string `json:"calls"`
	UsesProperties []string `json:"usesProperties"`
}

// CommentEntry is a user-authored annotation attached to a graph node.
// Timestamp is kept as a raw JSON number so fractional epoch values
// written by other tooling survive a round trip unchanged.
type CommentEntry struct {
	NodeLabel string      `json:"nodeLabel"`
	Text      string      `json:"text"`
	Title     string      `json:"title"`
	Timestamp json.Number `json:"timestamp"`
}
