package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-runewidth"

	"github.com/jward/brackets/internal/ui/pretty"
)

// outputResult writes a CLIResult in the selected format.
func (a *app) outputResult(result CLIResult) error {
	if a.settings.Format == "text" {
		return a.outputResultText(result)
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as a
// CLIResult envelope. In text mode it goes to stderr.
func (a *app) outputError(command string, err error) error {
	a.errorHandled = true
	if a.settings.Format == "text" {
		fmt.Fprintf(a.errOut, "Error: %s\n", err)
		return err
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(CLIResult{Command: command, Error: err.Error()})
	return err
}

// outputResultText dispatches to the text formatter for the result type.
func (a *app) outputResultText(result CLIResult) error {
	w := a.out
	width := pretty.TermWidth(w)

	switch v := result.Results.(type) {
	case []CLIInterval:
		a.formatIntervalsText(w, width, v)
	case *CLIInterval:
		if v != nil {
			a.formatIntervalsText(w, width, []CLIInterval{*v})
		}
	case *CLITagPair:
		if v != nil {
			a.formatIntervalsText(w, width, []CLIInterval{v.Open, v.Close})
		}
	case []CLIFinding:
		a.formatFindingsText(w, width, v)
	case []CLIFile:
		formatFilesText(w, v)
	case []CLIKindCount:
		formatKindCountsText(w, v)
	case CLIIndexSummary:
		a.formatIndexSummaryText(w, v)
	case CLIScriptResult:
		formatScriptResultText(w, v)
	case nil:
		// No output for nil results (e.g., enclosing with no match).
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

// formatIntervalsText writes one styled line per interval:
// "file:line:col-line:col kind snippet".
func (a *app) formatIntervalsText(w io.Writer, width int, ivs []CLIInterval) {
	s := a.styles
	for _, iv := range ivs {
		var prefix strings.Builder
		if iv.File != "" {
			prefix.WriteString(s.Path.Render(iv.File))
		}
		loc := fmt.Sprintf(":%d:%d-%d:%d", iv.StartLine, iv.StartCol, iv.EndLine, iv.EndCol)
		prefix.WriteString(s.Location.Render(loc))

		kind := iv.Kind
		if iv.TagName != "" {
			kind += "<" + iv.TagName + ">"
		}
		line := prefix.String() + " " + s.Kind(iv.Kind).Render(kind)

		if iv.Text != "" {
			used := runewidth.StringWidth(iv.File+loc+kind) + 2
			line += " " + s.Snippet.Render(pretty.Snippet(iv.Text, max(20, width-used)))
		}
		fmt.Fprintln(w, line)
	}
}

// formatFindingsText writes one styled line per finding.
func (a *app) formatFindingsText(w io.Writer, width int, findings []CLIFinding) {
	s := a.styles
	if len(findings) == 0 {
		fmt.Fprintln(w, s.Success.Render("No findings"))
		return
	}
	for _, f := range findings {
		loc := fmt.Sprintf(":%d:%d", f.Line, f.Col)
		used := runewidth.StringWidth(f.File+loc+f.Kind) + 2
		fmt.Fprintf(w, "%s%s %s %s\n",
			s.Path.Render(f.File), s.Location.Render(loc),
			s.Finding.Render(f.Kind),
			pretty.Truncate(f.Message, max(20, width-used)))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, s.Dim.Render(fmt.Sprintf("%d finding(s)", len(findings))))
}

// formatFilesText formats CLIFile results as aligned columns.
func formatFilesText(w io.Writer, files []CLIFile) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPATH\tLANGUAGE\tLINES")
	for _, f := range files {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", f.ID, f.Path, f.Language, f.LineCount)
	}
	tw.Flush()
}

// formatKindCountsText formats CLIKindCount results as aligned columns.
func formatKindCountsText(w io.Writer, counts []CLIKindCount) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tCOUNT")
	total := 0
	for _, kc := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", kc.Kind, kc.Count)
		total += kc.Count
	}
	fmt.Fprintf(tw, "total\t%d\n", total)
	tw.Flush()
}

// formatIndexSummaryText formats an index run as readable text.
func (a *app) formatIndexSummaryText(w io.Writer, s CLIIndexSummary) {
	fmt.Fprintln(w, a.styles.Header.Render("Index Summary"))
	fmt.Fprintln(w, "=============")
	fmt.Fprintf(w, "Root:      %s\n", s.Root)
	fmt.Fprintf(w, "Database:  %s\n", s.Database)
	fmt.Fprintf(w, "Files:     %d seen, %d indexed, %d unchanged, %d skipped, %d pruned\n",
		s.Seen, s.Indexed, s.Unchanged, s.Skipped, s.Pruned)
	fmt.Fprintf(w, "Intervals: %d\n", s.Intervals)
	if s.Findings > 0 {
		fmt.Fprintf(w, "Findings:  %d\n", s.Findings)
	}
	fmt.Fprintf(w, "Elapsed:   %dms\n", s.ElapsedMS)
}

// formatScriptResultText prints a script's value; maps and lists as
// indented JSON.
func formatScriptResultText(w io.Writer, r CLIScriptResult) {
	switch r.Value.(type) {
	case map[string]any, []any:
		data, err := json.MarshalIndent(r.Value, "", "  ")
		if err == nil {
			fmt.Fprintln(w, string(data))
			return
		}
	case nil:
		return
	}
	fmt.Fprintln(w, r.Value)
}
