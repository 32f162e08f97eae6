package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	codemap "github.com/pramethg/CodeMapVisualizer"
)

// validateFormat rejects unknown --format values before any command runs.
func validateFormat(format string) error {
	switch format {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("invalid format %q: must be json or text", format)
	}
}

// outputJSON writes v to stdout as 2-space-indented JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readAllStdin() ([]byte, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return data, nil
}

// formatDocumentText renders a structural document as aligned symbol
// rows: kind, name, line, and one-line signature.
func formatDocumentText(w io.Writer, doc *codemap.Structural) {
	fmt.Fprintf(w, "kind: %s\n", doc.Kind)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tNAME\tLINE\tSIGNATURE")
	for _, name := range doc.Classes {
		fmt.Fprintf(tw, "class\t%s\t%d\t%s\n", name, doc.Locations[name], doc.Signatures[name])
	}
	for _, cls := range doc.ClassDetails {
		if line, ok := doc.Locations[cls.Name]; ok && !contains(doc.Classes, cls.Name) {
			fmt.Fprintf(tw, "class\t%s\t%d\t%s\n", cls.Name, line, doc.Signatures[cls.Name])
		}
		for _, m := range cls.Methods {
			fmt.Fprintf(tw, "method\t%s.%s\t%d\t%s\n", cls.Name, m.Name, doc.Locations[m.Name], m.Signature)
		}
		for _, p := range cls.Properties {
			fmt.Fprintf(tw, "property\t%s.%s\t\t\n", cls.Name, p.Name)
		}
	}
	for _, name := range doc.Functions {
		fmt.Fprintf(tw, "function\t%s\t%d\t%s\n", name, doc.Locations[name], doc.Signatures[name])
	}
	tw.Flush()

	if len(doc.Comments) > 0 {
		fmt.Fprintf(w, "comments: %d\n", len(doc.Comments))
	}
}

// formatTreeText renders a hierarchy snapshot with two-space indentation
// per level, folders suffixed with a separator.
func formatTreeText(w io.Writer, node *codemap.HierarchyNode, depth int) {
	name := node.Name
	if node.Kind == "folder" {
		name += "/"
	}
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), name)
	for _, child := range node.Children {
		formatTreeText(w, child, depth+1)
	}
}

// formatHistoryText renders ledger rows as aligned columns.
func formatHistoryText(w io.Writer, scans []*codemap.ScanRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tPATH\tFUNCS\tCLASSES\tMETHODS\tWHEN")
	for _, s := range scans {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%s\n",
			s.ID, s.Kind, s.Path, s.Functions, s.Classes, s.Methods,
			s.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	tw.Flush()
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
