package codemap

import (
	"github.com/pramethg/CodeMapVisualizer/internal/document"
	"github.com/pramethg/CodeMapVisualizer/internal/hierarchy"
	"github.com/pramethg/CodeMapVisualizer/internal/history"
)

// Public type aliases for internal types used in the Scanner API. These
// are Go type aliases (=) — identical to the internal types at compile
// time; external consumers use these names without conversion.

type Structural = document.Structural
type ClassInfo = document.ClassInfo
type PropertyInfo = document.PropertyInfo
type MethodInfo = document.MethodInfo
type Dependency = document.Dependency
type CommentEntry = document.CommentEntry
type HierarchyNode = hierarchy.Node
type ScanRecord = history.Scan

// Document kind values, as persisted in the kind field.
const (
	KindPython = document.KindPython
	KindMatlab = document.KindMatlab
	KindCpp    = document.KindCpp
)
