package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jward/brackets"
	"github.com/jward/brackets/internal/scan"
	"github.com/jward/brackets/internal/textpos"
)

func newQueryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the interval database",
		Long:  "Run queries against indexed files. All line and column numbers are 0-based; columns count what --columns says. A file that changed since it was indexed is rescanned first.",
	}
	cmd.AddCommand(newEnclosingCmd(a))
	cmd.AddCommand(newPeerCmd(a, "next"))
	cmd.AddCommand(newPeerCmd(a, "prev"))
	cmd.AddCommand(newTagCmd(a))
	cmd.AddCommand(newLocateCmd(a))
	cmd.AddCommand(newIntervalsCmd(a))
	cmd.AddCommand(newFindingsCmd(a))
	cmd.AddCommand(newFilesCmd(a))
	cmd.AddCommand(newCountsCmd(a))
	return cmd
}

// position parses <file> <line> <col>.
type position struct {
	file      string
	line, col int
}

func parsePosition(args []string) (position, error) {
	file, err := filepath.Abs(args[0])
	if err != nil {
		return position{}, fmt.Errorf("resolving file path %q: %w", args[0], err)
	}
	line, err := parseIntArg(args[1], "line")
	if err != nil {
		return position{}, err
	}
	col, err := parseIntArg(args[2], "col")
	if err != nil {
		return position{}, err
	}
	return position{file: file, line: line, col: col}, nil
}

// withEngine opens the database, runs fn and writes its result.
func (a *app) withEngine(command string, fn func(*brackets.Engine) (any, error)) error {
	engine, err := a.openEngine()
	if err != nil {
		return a.outputError(command, err)
	}
	defer engine.Close()

	results, err := fn(engine)
	if err != nil {
		return a.outputError(command, err)
	}
	return a.outputResult(CLIResult{Command: command, Results: results})
}

func newEnclosingCmd(a *app) *cobra.Command {
	var strict, immediate bool
	cmd := &cobra.Command{
		Use:   "enclosing <file> <line> <col>",
		Short: "Innermost interval of the candidate kinds around a position",
		Long:  "Returns the innermost interval of --kinds containing the position. Without --strict a position on an opening delimiter, or just after a closing one, counts as inside it. With --immediate only the deepest interval is considered, and nothing is returned when its kind is not a candidate.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine("enclosing", func(e *brackets.Engine) (any, error) {
				pos, err := parsePosition(args)
				if err != nil {
					return nil, err
				}
				kinds, err := a.kinds()
				if err != nil {
					return nil, err
				}
				span, err := e.Query().EnclosingAt(cmd.Context(), pos.file, pos.line, pos.col, kinds, strict, immediate)
				if err != nil {
					return nil, err
				}
				return spanToCLI(span), nil
			})
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "do not treat a position on a delimiter as inside it")
	cmd.Flags().BoolVar(&immediate, "immediate", false, "consider only the deepest interval")
	return cmd
}

func newPeerCmd(a *app, direction string) *cobra.Command {
	short := "Next interval at the same or an outer depth"
	if direction == "prev" {
		short = "Previous interval at the same or an outer depth"
	}
	return &cobra.Command{
		Use:   direction + " <file> <line> <col>",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(direction, func(e *brackets.Engine) (any, error) {
				pos, err := parsePosition(args)
				if err != nil {
					return nil, err
				}
				kinds, err := a.kinds()
				if err != nil {
					return nil, err
				}
				peer := e.Query().NextPeer
				if direction == "prev" {
					peer = e.Query().PrevPeer
				}
				span, err := peer(cmd.Context(), pos.file, pos.line, pos.col, kinds)
				if err != nil {
					return nil, err
				}
				return spanToCLI(span), nil
			})
		},
	}
}

func newTagCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "tag <file> <line> <col>",
		Short: "Markup element enclosing a position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine("tag", func(e *brackets.Engine) (any, error) {
				pos, err := parsePosition(args)
				if err != nil {
					return nil, err
				}
				pair, err := e.Query().TagPair(cmd.Context(), pos.file, pos.line, pos.col, name)
				if err != nil || pair == nil {
					return (*CLITagPair)(nil), err
				}
				return &CLITagPair{
					Name:  pair.Name,
					Open:  *spanToCLI(&pair.Open),
					Close: *spanToCLI(&pair.Close),
				}, nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "only match elements with this tag name")
	return cmd
}

func newLocateCmd(a *app) *cobra.Command {
	var line int
	cmd := &cobra.Command{
		Use:   "locate <file> <expr>",
		Short: "Resolve a locator expression such as 12r2b",
		Long: `Resolves a locator expression: a line number, absolute or +/- relative to --line (1-based), followed by one or more locators. Each locator is a delimiter class with an optional 1-based occurrence:

  r  parentheses    t  square brackets    g  angle tags
  b  braces         s  quotes

"12r2b" is the second '(' or ')' on line 12, then the first '{' or '}'. Each delimiter resolves to the interval it belongs to.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine("locate", func(e *brackets.Engine) (any, error) {
				file, err := filepath.Abs(args[0])
				if err != nil {
					return nil, err
				}
				spans, err := e.Query().Locate(cmd.Context(), file, args[1], max(line-1, 0))
				if err != nil {
					return nil, err
				}
				out := []CLIInterval{}
				for i := range spans {
					out = append(out, *spanToCLI(&spans[i]))
				}
				return out, nil
			})
		},
	}
	cmd.Flags().IntVar(&line, "line", 1, "cursor line for relative expressions (1-based)")
	return cmd
}

func newIntervalsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "intervals <file>",
		Short: "Stored intervals of a file, outer first",
		Long:  "Lists the stored intervals of a file with their nesting depth. Only kinds named by --kinds are listed when the flag is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine("intervals", func(e *brackets.Engine) (any, error) {
				file, err := filepath.Abs(args[0])
				if err != nil {
					return nil, err
				}
				filter := brackets.AllKinds
				if cmd.Flags().Changed("kinds") {
					if filter, err = a.kinds(); err != nil {
						return nil, err
					}
				}
				rows, err := e.Query().Intervals(file)
				if err != nil {
					return nil, err
				}
				out := []CLIInterval{}
				for _, r := range rows {
					k, err := scan.ParseKind(r.Kind)
					if err != nil || !filter.Has(k) {
						continue
					}
					out = append(out, rowToCLI(file, r))
				}
				return out, nil
			})
		},
	}
}

func newFindingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "findings <file>",
		Short: "Audit findings recorded for a file by 'index --audit'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine("findings", func(e *brackets.Engine) (any, error) {
				file, err := filepath.Abs(args[0])
				if err != nil {
					return nil, err
				}
				findings, err := e.Query().Findings(file)
				if err != nil {
					return nil, err
				}
				// Positions come from the file as it is now.
				data, err := os.ReadFile(file)
				if err != nil {
					return nil, fmt.Errorf("reading %s: %w", args[0], err)
				}
				lines := textpos.NewLines(string(data))
				out := []CLIFinding{}
				for _, f := range findings {
					pos := lines.Position(f.StartOffset, a.unit())
					out = append(out, CLIFinding{
						File: file, Source: f.Source, Kind: f.Kind,
						Start: f.StartOffset, End: f.EndOffset, Line: pos.Line, Col: pos.Col,
						Message: f.Message,
					})
				}
				return out, nil
			})
		},
	}
}

func newFilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List indexed files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine("files", func(e *brackets.Engine) (any, error) {
				files, err := e.Query().Files()
				if err != nil {
					return nil, err
				}
				out := []CLIFile{}
				for _, f := range files {
					out = append(out, fileToCLI(f))
				}
				return out, nil
			})
		},
	}
}

func newCountsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "counts [file]",
		Short: "Interval counts per kind for a file or the whole database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine("counts", func(e *brackets.Engine) (any, error) {
				file := ""
				if len(args) == 1 {
					abs, err := filepath.Abs(args[0])
					if err != nil {
						return nil, err
					}
					file = abs
				}
				counts, err := e.Query().KindCounts(file)
				if err != nil {
					return nil, err
				}
				return kindCountsToCLI(counts), nil
			})
		},
	}
}
