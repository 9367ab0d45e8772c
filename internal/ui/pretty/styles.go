// Package pretty provides lipgloss-styled text output for the CLI.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles holds the renderers used by text output.
type Styles struct {
	Path     lipgloss.Style
	Location lipgloss.Style
	Header   lipgloss.Style

	// Interval kind families.
	Bracket lipgloss.Style
	Quote   lipgloss.Style
	Comment lipgloss.Style
	Tag     lipgloss.Style

	Snippet lipgloss.Style
	Finding lipgloss.Style
	Success lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates Styles with or without color.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &Styles{
			Path: plain, Location: plain, Header: plain,
			Bracket: plain, Quote: plain, Comment: plain, Tag: plain,
			Snippet: plain, Finding: plain, Success: plain,
			Dim: plain, Bold: plain,
		}
	}
	return &Styles{
		Path:     lipgloss.NewStyle().Bold(true),
		Location: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),

		Bracket: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Quote:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Comment: lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		Tag:     lipgloss.NewStyle().Foreground(lipgloss.Color("13")),

		Snippet: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Finding: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// Kind returns the style for an interval kind name.
func (s *Styles) Kind(kind string) lipgloss.Style {
	switch kind {
	case "paren", "bracket", "brace", "template_hole":
		return s.Bracket
	case "single_quote", "double_quote", "template_string", "regex":
		return s.Quote
	case "line_comment", "block_comment":
		return s.Comment
	case "angle_tag":
		return s.Tag
	}
	return s.Dim
}

// IsColorEnabled resolves a color mode ("auto", "always", "never") for
// writer. Auto enables color only on a terminal with NO_COLOR unset.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
