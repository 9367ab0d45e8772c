package pretty

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const defaultTermWidth = 100

// TermWidth returns the column count of writer's terminal, or a default
// when writer is not a terminal.
func TermWidth(writer io.Writer) int {
	if f, ok := writer.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}

// Truncate shortens s to at most width display cells, ending with "…" when
// anything was cut. A width of zero or less disables truncation.
func Truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

var snippetEscaper = strings.NewReplacer("\r", `\r`, "\n", `\n`, "\t", `\t`)

// Snippet renders interval text on one line: control whitespace is escaped
// and the result is truncated to width cells.
func Snippet(text string, width int) string {
	return Truncate(snippetEscaper.Replace(text), width)
}
