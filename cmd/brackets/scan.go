package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jward/brackets"
	"github.com/jward/brackets/internal/audit"
	"github.com/jward/brackets/internal/lang"
	"github.com/jward/brackets/internal/logging"
	"github.com/jward/brackets/internal/markdown"
	"github.com/jward/brackets/internal/textpos"
)

// source is one input read by scan or audit.
type source struct {
	path     string // "" for stdin
	language string
	text     string
}

// readSources reads each path, or stdin when there are none or the path
// is "-".
func readSources(stdin io.Reader, paths []string) ([]source, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	var out []source
	for _, p := range paths {
		if p == "-" {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("reading stdin: %w", err)
			}
			out = append(out, source{text: string(data)})
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving file path %q: %w", p, err)
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		language, _ := lang.Detect(abs, data)
		out = append(out, source{path: abs, language: language, text: string(data)})
	}
	return out, nil
}

// scanSource scans src, only inside fenced code blocks for Markdown when
// that is enabled.
func (a *app) scanSource(src source) []brackets.Interval {
	if src.language == lang.Markdown && a.settings.Markdown {
		return markdown.Scan([]byte(src.text))
	}
	return brackets.Scan(src.text)
}

func newScanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [file...]",
		Short: "Scan files or stdin and print their intervals",
		Long:  "Scans each file (or stdin) without touching the database and prints its intervals ordered by start offset. Only kinds named by --kinds are printed when the flag is given; otherwise every kind is.",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := brackets.AllKinds
			if cmd.Flags().Changed("kinds") {
				ks, err := a.kinds()
				if err != nil {
					return a.outputError("scan", err)
				}
				filter = ks
			}
			sources, err := readSources(cmd.InOrStdin(), args)
			if err != nil {
				return a.outputError("scan", err)
			}

			results := []CLIInterval{}
			for _, src := range sources {
				lines := textpos.NewLines(src.text)
				for _, iv := range brackets.NewIndex(src.text, a.scanSource(src)).Intervals() {
					if filter.Has(iv.Kind) {
						results = append(results, intervalToCLI(src.path, src.text, lines, a.unit(), iv))
					}
				}
			}
			return a.outputResult(CLIResult{Command: "scan", Results: results})
		},
	}
}

func newAuditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "audit <file>...",
		Short: "Compare the scanner with tree-sitter and check regex literals",
		Long:  "Scans each file and reports where a tree-sitter grammar delimits brackets or comments differently, and regex literals that do not compile as ECMAScript. Findings describe heuristic misses; the scanner output itself is unchanged.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readSources(cmd.InOrStdin(), args)
			if err != nil {
				return a.outputError("audit", err)
			}

			results := []CLIFinding{}
			for _, src := range sources {
				findings, err := audit.Run(cmd.Context(), src.language, src.text, a.scanSource(src))
				if err != nil {
					return a.outputError("audit", fmt.Errorf("%s: %w", src.path, err))
				}
				lines := textpos.NewLines(src.text)
				for _, f := range findings {
					pos := lines.Position(f.Start, a.unit())
					results = append(results, CLIFinding{
						File: src.path, Source: f.Source, Kind: f.Kind,
						Start: f.Start, End: f.End, Line: pos.Line, Col: pos.Col,
						Message: f.Message,
					})
				}
				if !audit.GrammarChecked(src.language) {
					a.logger.Debug("no grammar comparison", logging.FieldPath, src.path, logging.FieldLanguage, src.language)
				}
			}
			return a.outputResult(CLIResult{Command: "audit", Results: results})
		},
	}
}
