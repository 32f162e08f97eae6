package parser

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/pramethg/CodeMapVisualizer/internal/document"
)

// pythonAnalyzer extracts structure from Python sources using the
// tree-sitter grammar. Only top-level statements are walked: top-level
// functions, and classes with their immediate members.
type pythonAnalyzer struct{}

func (pythonAnalyzer) Parse(path string) (*document.Structural, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parser: reading %s: %w", path, err)
	}
	return parsePython(src, path)
}

func parsePython(src []byte, label string) (*document.Structural, error) {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	tree, err := p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parser: parsing %s: %w", label, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("parser: %s: invalid python syntax", label)
	}

	doc := document.New(document.KindPython)
	doc.Definitions = map[string]string{}
	lines := strings.Split(string(src), "\n")

	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		switch node.Type() {
		case "function_definition":
			addPythonFunction(doc, node, src, lines)
		case "class_definition":
			addPythonClass(doc, node, src, lines)
		case "decorated_definition":
			def := node.ChildByFieldName("definition")
			if def == nil {
				continue
			}
			switch def.Type() {
			case "function_definition":
				addPythonFunction(doc, def, src, lines)
			case "class_definition":
				addPythonClass(doc, def, src, lines)
			}
		}
	}
	return doc, nil
}

// addPythonFunction records a top-level function: name, reconstructed
// signature, verbatim body, and the line of the def keyword itself.
func addPythonFunction(doc *document.Structural, fn *sitter.Node, src []byte, lines []string) {
	nameNode := fn.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Content(src)
	doc.Functions = append(doc.Functions, name)
	doc.Signatures[name] = pythonSignature(fn, src)
	doc.Definitions[name] = fn.Content(src)
	doc.Locations[name] = defKeywordLine(lines, int(fn.StartPoint().Row), "def")
}

// addPythonClass records a class, its simple class-level assignments as
// properties, and its methods under both bare and Class.method keys.
func addPythonClass(doc *document.Structural, cls *sitter.Node, src []byte, lines []string) {
	nameNode := cls.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	className := nameNode.Content(src)
	doc.Classes = append(doc.Classes, className)

	info := &document.ClassInfo{
		Name:       className,
		Properties: []*document.PropertyInfo{},
		Methods:    []*document.MethodInfo{},
	}
	doc.ClassDetails = append(doc.ClassDetails, info)

	headerLine := defKeywordLine(lines, int(cls.StartPoint().Row), "class")
	doc.Signatures[className] = classHeader(lines, headerLine)
	doc.Locations[className] = headerLine

	body := cls.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		switch stmt.Type() {
		case "function_definition":
			addPythonMethod(doc, info, stmt, nil, src, lines)
		case "decorated_definition":
			def := stmt.ChildByFieldName("definition")
			if def != nil && def.Type() == "function_definition" {
				addPythonMethod(doc, info, def, decoratorNames(stmt, src), src, lines)
			}
		case "expression_statement":
			addPythonClassProperty(info, stmt, src)
		}
	}
}

// addPythonMethod records one method. Signature and verbatim body are
// stored under both the bare name and the Class.method qualified name;
// callers may look up either form, so the duplication is deliberate.
func addPythonMethod(doc *document.Structural, info *document.ClassInfo, fn *sitter.Node, decorators []string, src []byte, lines []string) {
	nameNode := fn.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Content(src)
	qualified := info.Name + "." + name
	if decorators == nil {
		decorators = []string{}
	}

	sig := pythonSignature(fn, src)
	body := fn.Content(src)

	info.Methods = append(info.Methods, &document.MethodInfo{
		Name:       name,
		Signature:  sig,
		Attributes: decorators,
	})
	doc.Signatures[name] = sig
	doc.Signatures[qualified] = sig
	doc.Definitions[name] = body
	doc.Definitions[qualified] = body
	doc.Locations[name] = defKeywordLine(lines, int(fn.StartPoint().Row), "def")
}

// addPythonClassProperty records a simple class-level assignment target
// (x = ... or x: int = ...) as a property. No type inference.
func addPythonClassProperty(info *document.ClassInfo, stmt *sitter.Node, src []byte) {
	if stmt.NamedChildCount() == 0 {
		return
	}
	assign := stmt.NamedChild(0)
	if assign.Type() != "assignment" {
		return
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return
	}
	name := left.Content(src)
	for _, p := range info.Properties {
		if p.Name == name {
			return
		}
	}
	info.Properties = append(info.Properties, &document.PropertyInfo{
		Name:       name,
		Attributes: []string{},
	})
}

// pythonSignature reconstructs a one-line signature from the parameter
// list: name(param[: type], *args, **kwargs) -> ret. Default values are
// dropped; annotations are kept.
func pythonSignature(fn *sitter.Node, src []byte) string {
	var b strings.Builder
	if nameNode := fn.ChildByFieldName("name"); nameNode != nil {
		b.WriteString(nameNode.Content(src))
	}
	b.WriteString("(")
	if params := fn.ChildByFieldName("parameters"); params != nil {
		for i, n := 0, int(params.NamedChildCount()); i < n; i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(formatPythonParam(params.NamedChild(i), src))
		}
	}
	b.WriteString(")")
	if ret := fn.ChildByFieldName("return_type"); ret != nil {
		b.WriteString(" -> ")
		b.WriteString(ret.Content(src))
	}
	return b.String()
}

func formatPythonParam(param *sitter.Node, src []byte) string {
	switch param.Type() {
	case "typed_parameter":
		// The pattern is the first named child; the annotation is the
		// type field.
		var name string
		if param.NamedChildCount() > 0 {
			name = param.NamedChild(0).Content(src)
		}
		if typ := param.ChildByFieldName("type"); typ != nil {
			return name + ": " + typ.Content(src)
		}
		return name
	case "default_parameter":
		if nameNode := param.ChildByFieldName("name"); nameNode != nil {
			return nameNode.Content(src)
		}
	case "typed_default_parameter":
		nameNode := param.ChildByFieldName("name")
		typ := param.ChildByFieldName("type")
		if nameNode != nil && typ != nil {
			return nameNode.Content(src) + ": " + typ.Content(src)
		}
		if nameNode != nil {
			return nameNode.Content(src)
		}
	}
	// identifier, list_splat_pattern (*args), dictionary_splat_pattern
	// (**kwargs), and anything else render as written.
	return param.Content(src)
}

// decoratorNames extracts decorator names from a decorated_definition,
// without the @ marker or any call arguments.
func decoratorNames(decorated *sitter.Node, src []byte) []string {
	names := []string{}
	for i := 0; i < int(decorated.NamedChildCount()); i++ {
		child := decorated.NamedChild(i)
		if child.Type() != "decorator" {
			continue
		}
		name := strings.TrimPrefix(strings.TrimSpace(child.Content(src)), "@")
		if idx := strings.Index(name, "("); idx >= 0 {
			name = name[:idx]
		}
		names = append(names, name)
	}
	return names
}

// defKeywordLine returns the 1-based line of the def/class keyword,
// scanning forward from the node-reported line past decorator lines. The
// grammar reports the function node itself, but scanning keeps the
// answer correct when callers pass a decorated_definition position, and
// it lands on the "async def" line for async functions.
func defKeywordLine(lines []string, startRow int, keyword string) int {
	for i := startRow; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, keyword+" ") ||
			strings.HasPrefix(trimmed, "async "+keyword+" ") {
			return i + 1
		}
	}
	return startRow + 1
}

// classHeader returns the class definition line without its trailing
// colon, used as the class signature.
func classHeader(lines []string, headerLine int) string {
	if headerLine < 1 || headerLine > len(lines) {
		return ""
	}
	header := strings.TrimSpace(lines[headerLine-1])
	return strings.TrimSuffix(header, ":")
}
