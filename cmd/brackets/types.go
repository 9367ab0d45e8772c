package main

import (
	"github.com/jward/brackets"
	"github.com/jward/brackets/internal/textpos"
)

// CLIResult is the top-level JSON envelope for every command.
type CLIResult struct {
	Command string `json:"command"`
	Results any    `json:"results"`
	Error   string `json:"error,omitempty"`
}

// CLIInterval is a JSON-friendly interval. Lines and columns are 0-based.
type CLIInterval struct {
	File      string `json:"file,omitempty"`
	Kind      string `json:"kind"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
	Depth     *int   `json:"depth,omitempty"`
	TagRole   string `json:"tag_role,omitempty"`
	TagName   string `json:"tag_name,omitempty"`
	Text      string `json:"text,omitempty"`
}

// CLITagPair is a JSON-friendly element.
type CLITagPair struct {
	Name  string      `json:"name"`
	Open  CLIInterval `json:"open"`
	Close CLIInterval `json:"close"`
}

// CLIFile is a JSON-friendly indexed file.
type CLIFile struct {
	ID        int64  `json:"id"`
	Path      string `json:"path"`
	Language  string `json:"language"`
	LineCount int    `json:"line_count"`
	Size      int64  `json:"size"`
}

// CLIFinding is a JSON-friendly audit finding.
type CLIFinding struct {
	File    string `json:"file"`
	Source  string `json:"source"`
	Kind    string `json:"kind"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// CLIKindCount is a JSON-friendly per-kind interval count.
type CLIKindCount struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// CLIIndexSummary reports one index run.
type CLIIndexSummary struct {
	Root      string `json:"root"`
	Database  string `json:"database"`
	Seen      int    `json:"seen"`
	Indexed   int    `json:"indexed"`
	Unchanged int    `json:"unchanged"`
	Skipped   int    `json:"skipped"`
	Pruned    int    `json:"pruned"`
	Intervals int    `json:"intervals"`
	Findings  int    `json:"findings"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

// CLIScriptResult wraps whatever a script returned.
type CLIScriptResult struct {
	Value any `json:"value"`
}

// spanToCLI converts a query Span.
func spanToCLI(s *brackets.Span) *CLIInterval {
	if s == nil {
		return nil
	}
	return &CLIInterval{
		File:      s.File,
		Kind:      s.Kind.String(),
		Start:     s.Start,
		End:       s.End,
		StartLine: s.StartLine,
		StartCol:  s.StartCol,
		EndLine:   s.EndLine,
		EndCol:    s.EndCol,
		TagName:   s.TagName,
		Text:      s.Text,
	}
}

// rowToCLI converts a stored interval row.
func rowToCLI(file string, r *brackets.IntervalRow) CLIInterval {
	depth := r.Depth
	return CLIInterval{
		File:      file,
		Kind:      r.Kind,
		Start:     r.StartOffset,
		End:       r.EndOffset,
		StartLine: r.StartLine,
		StartCol:  r.StartCol,
		EndLine:   r.EndLine,
		EndCol:    r.EndCol,
		Depth:     &depth,
		TagRole:   r.TagRole,
		TagName:   r.TagName,
	}
}

// intervalToCLI converts a freshly scanned interval of text.
func intervalToCLI(file, text string, lines *textpos.Lines, unit textpos.Unit, iv brackets.Interval) CLIInterval {
	start := lines.Position(iv.Start, unit)
	end := lines.Position(iv.End, unit)
	out := CLIInterval{
		File:      file,
		Kind:      iv.Kind.String(),
		Start:     iv.Start,
		End:       iv.End,
		StartLine: start.Line,
		StartCol:  start.Col,
		EndLine:   end.Line,
		EndCol:    end.Col,
		Text:      text[iv.Start:iv.End],
	}
	if iv.Tag != nil {
		out.TagRole = iv.Tag.Role.String()
		out.TagName = iv.Tag.Name
	}
	return out
}

func fileToCLI(f *brackets.File) CLIFile {
	return CLIFile{ID: f.ID, Path: f.Path, Language: f.Language, LineCount: f.LineCount, Size: f.Size}
}

func kindCountsToCLI(counts []brackets.KindCount) []CLIKindCount {
	out := make([]CLIKindCount, 0, len(counts))
	for _, kc := range counts {
		out = append(out, CLIKindCount{Kind: kc.Kind, Count: kc.Count})
	}
	return out
}
