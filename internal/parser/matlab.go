package parser

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pramethg/CodeMapVisualizer/internal/document"
)

// matlabAnalyzer recovers structure from MATLAB sources. No AST is
// available for this language family, so this is a single-pass line
// scanner driven by leading-whitespace depth and block keywords. It
// handles classdef files with multiple properties/methods blocks, dotted
// getter/setter methods, and nested control flow inside function bodies.
type matlabAnalyzer struct{}

var (
	matlabClassdefRe = regexp.MustCompile(`^classdef\s*(?:\([^)]*\))?\s*(\w+)`)
	matlabFunctionRe = regexp.MustCompile(`^function\s+(?:(?:\[[^\]]*\]|\w+)\s*=\s*)?([a-zA-Z_][\w.]*)`)
	matlabPropsRe    = regexp.MustCompile(`^properties(\s*$|\s*\()`)
	matlabBlocksRe   = regexp.MustCompile(`^(methods|events|enumeration)(\s*$|\s*\()`)
	matlabOpenerRe   = regexp.MustCompile(`^(if|for|while|switch|try|parfor)\b`)
	matlabIdentRe    = regexp.MustCompile(`^([a-zA-Z_]\w*)`)
)

// matlabKeywords are identifiers that can never be property names. The
// comparison is case-insensitive.
var matlabKeywords = map[string]bool{
	"end": true, "properties": true, "methods": true, "events": true,
	"enumeration": true, "classdef": true, "function": true,
}

func (matlabAnalyzer) Parse(path string) (*document.Structural, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parser: reading %s: %w", path, err)
	}
	return parseMatlab(src), nil
}

// fnTracker follows one open function body. depth counts nested
// if/for/while/switch/try/parfor blocks; the end that arrives at depth
// zero closes the function.
type fnTracker struct {
	name     string
	startIdx int
	depth    int
}

// matlabBuilder is the mutable state threaded through the line scan. It
// lives for exactly one Parse call.
type matlabBuilder struct {
	doc   *document.Structural
	lines []string

	class       *document.ClassInfo
	classIndent int
	inProps     bool
	propsIndent int
	fn          *fnTracker
}

func parseMatlab(src []byte) *document.Structural {
	b := &matlabBuilder{
		doc:   document.New(document.KindMatlab),
		lines: strings.Split(string(src), "\n"),
	}
	b.doc.Definitions = map[string]string{}

	for i, raw := range b.lines {
		stripped := strings.TrimLeft(raw, " \t")
		indent := len(raw) - len(stripped)
		if stripped == "" || strings.HasPrefix(stripped, "%") {
			continue
		}
		// Strip inline comments. Naive: a % inside a string literal also
		// truncates, which matches the documented heuristic behavior.
		code := strings.TrimSpace(strings.SplitN(stripped, "%", 2)[0])
		if code == "" {
			continue
		}
		b.scanLine(i, indent, code)
	}

	// A function still open at EOF (script-style file without a trailing
	// end) closes at the last line.
	b.closeFn(len(b.lines) - 1)

	extractDependencies(b.doc)
	return b.doc
}

// scanLine dispatches one code line. The end keyword is ambiguous — it
// may close a nested block, a properties block, or the enclosing class —
// and is disambiguated purely by indentation against the stored
// indentation of each construct. Check order matters: class end, then
// standalone function start, then properties end, then body tracking,
// then class members.
func (b *matlabBuilder) scanLine(i, indent int, code string) {
	// Class opening.
	if m := matlabClassdefRe.FindStringSubmatch(code); m != nil {
		b.closeFn(i - 1)
		b.class = &document.ClassInfo{
			Name:       m[1],
			Properties: []*document.PropertyInfo{},
			Methods:    []*document.MethodInfo{},
		}
		b.doc.ClassDetails = append(b.doc.ClassDetails, b.class)
		b.doc.Signatures[m[1]] = code
		b.doc.Locations[m[1]] = i + 1
		b.classIndent = indent
		b.inProps = false
		return
	}

	// Class end: an end at or left of the classdef indentation.
	if b.class != nil && code == "end" && indent <= b.classIndent {
		b.closeFn(i - 1)
		b.class = nil
		b.inProps = false
		return
	}

	// Standalone function start (outside any class).
	if b.class == nil {
		if m := matlabFunctionRe.FindStringSubmatch(code); m != nil {
			b.closeFn(i - 1)
			name := m[1]
			b.doc.Functions = append(b.doc.Functions, name)
			b.doc.Signatures[name] = code
			b.doc.Locations[name] = i + 1
			b.fn = &fnTracker{name: name, startIdx: i}
			return
		}
	}

	// Properties block end. inProps and an open function body are
	// mutually exclusive, so this cannot steal a body's end.
	if b.class != nil && b.inProps && code == "end" && indent <= b.propsIndent {
		b.inProps = false
		return
	}

	// Function body tracking: nested blocks bump the depth, the matching
	// end at depth zero closes the body.
	if b.fn != nil {
		if matlabOpenerRe.MatchString(code) {
			b.fn.depth++
			return
		}
		if code == "end" {
			if b.fn.depth > 0 {
				b.fn.depth--
			} else {
				b.closeFn(i)
			}
			return
		}
	}

	if b.class == nil {
		return
	}

	// Inside a class: block openers, method definitions, property lines.
	if b.fn == nil && matlabPropsRe.MatchString(code) {
		b.inProps = true
		b.propsIndent = indent
		return
	}
	if b.fn == nil && matlabBlocksRe.MatchString(code) {
		// methods/events/enumeration open no tracked scope of their own;
		// their end is absorbed by the class-end indentation check.
		b.inProps = false
		return
	}
	if m := matlabFunctionRe.FindStringSubmatch(code); m != nil {
		b.closeFn(i - 1)
		b.inProps = false
		b.addMethod(m[1], code, i)
		return
	}
	if b.inProps {
		b.addProperty(code)
	}
}

// addMethod records a method line inside the current class. Dotted
// getter/setter forms (get.propName, set.propName) store the accessor
// prefix as an attribute and the suffix as the owning property.
func (b *matlabBuilder) addMethod(fullName, code string, i int) {
	method := &document.MethodInfo{
		Name:       fullName,
		Signature:  code,
		Attributes: []string{},
	}
	if dot := strings.Index(fullName, "."); dot >= 0 {
		method.Attributes = []string{fullName[:dot]}
		method.Property = fullName[dot+1:]
	}
	b.class.Methods = append(b.class.Methods, method)
	b.doc.Signatures[fullName] = code
	b.doc.Locations[fullName] = i + 1
	b.fn = &fnTracker{name: fullName, startIdx: i}
}

// addProperty records the first identifier on a properties-block line,
// once per class, skipping case-insensitive keyword collisions.
func (b *matlabBuilder) addProperty(code string) {
	m := matlabIdentRe.FindStringSubmatch(code)
	if m == nil {
		return
	}
	name := m[1]
	if matlabKeywords[strings.ToLower(name)] {
		return
	}
	for _, p := range b.class.Properties {
		if p.Name == name {
			return
		}
	}
	b.class.Properties = append(b.class.Properties, &document.PropertyInfo{
		Name:       name,
		Attributes: []string{},
	})
}

// closeFn slices the verbatim line range of the open function body, if
// any, into the definitions map. endIdx is inclusive.
func (b *matlabBuilder) closeFn(endIdx int) {
	if b.fn == nil {
		return
	}
	if endIdx >= len(b.lines) {
		endIdx = len(b.lines) - 1
	}
	if endIdx >= b.fn.startIdx {
		body := strings.Join(b.lines[b.fn.startIdx:endIdx+1], "\n")
		b.doc.Definitions[b.fn.name] = body
	}
	b.fn = nil
}
