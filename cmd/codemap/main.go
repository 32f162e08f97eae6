package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	codemap "github.com/pramethg/CodeMapVisualizer"
)

var (
	flagFormat  string
	flagRoot    string
	flagHistory string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "codemap",
	Short:         "Structural source indexing with a comment-preserving cache",
	Long:          "Codemap parses Python, MATLAB, and C++ sources into structural documents and persists them under <root>/assets/.visualizer, carrying user comments across rescans.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "project root override (default: discovered from the target path)")
	rootCmd.PersistentFlags().StringVar(&flagHistory, "history-db", "", "record scans in a SQLite ledger at this path")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(historyCmd)

	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentSaveCmd)
}

// newScanner builds a Scanner from the persistent flags.
func newScanner() (*codemap.Scanner, error) {
	var opts []codemap.Option
	if flagHistory != "" {
		opts = append(opts, codemap.WithHistory(flagHistory))
	}
	return codemap.New(opts...)
}

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Scan one source file into a structural document",
	Long:  "Parses the file with the analyzer matching its extension, merges prior comments, and writes the document to its cache path.",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	start := time.Now()
	s, err := newScanner()
	if err != nil {
		return err
	}
	defer s.Close()

	doc, err := s.ScanFile(args[0], flagRoot)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Scanned %s in %s\n", args[0], time.Since(start).Round(time.Millisecond))

	if flagFormat == "text" {
		formatDocumentText(os.Stdout, doc)
		return nil
	}
	return outputJSON(doc)
}

var treeCmd = &cobra.Command{
	Use:   "tree <folder>",
	Short: "Snapshot a directory hierarchy",
	Long:  "Recursively snapshots the directory, skipping ignored and dot-prefixed entries, and writes folder_structure.json under the project root.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTree,
}

func runTree(cmd *cobra.Command, args []string) error {
	s, err := newScanner()
	if err != nil {
		return err
	}
	defer s.Close()

	node, err := s.ScanFolder(args[0])
	if err != nil {
		return err
	}
	if flagFormat == "text" {
		formatTreeText(os.Stdout, node, 0)
		return nil
	}
	return outputJSON(node)
}

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage user comments on a scanned file",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <file> <node-label> <text>",
	Short: "Append one comment to a file's document",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newScanner()
		if err != nil {
			return err
		}
		defer s.Close()

		doc, err := s.AddComment(args[0], args[1], args[2], flagRoot)
		if err != nil {
			return err
		}
		return outputJSON(doc)
	},
}

var commentSaveCmd = &cobra.Command{
	Use:   "save <file> <comments.json>",
	Short: "Replace a file's comments from a JSON file (use - for stdin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args[1])
		if err != nil {
			return err
		}
		var comments []codemap.CommentEntry
		if err := json.Unmarshal(data, &comments); err != nil {
			return fmt.Errorf("parsing comments: %w", err)
		}

		s, err := newScanner()
		if err != nil {
			return err
		}
		defer s.Close()

		doc, err := s.SaveComments(args[0], comments, flagRoot)
		if err != nil {
			return err
		}
		return outputJSON(doc)
	},
}

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded scans from the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagHistory == "" {
			return fmt.Errorf("history requires --history-db")
		}
		s, err := newScanner()
		if err != nil {
			return err
		}
		defer s.Close()

		scans, err := s.History().Recent(flagHistoryLimit)
		if err != nil {
			return err
		}
		if flagFormat == "text" {
			formatHistoryText(os.Stdout, scans)
			return nil
		}
		return outputJSON(scans)
	},
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 50, "maximum number of scans to list")
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return readAllStdin()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
