package audit

import (
	"fmt"

	"github.com/dlclark/regexp2"

	"github.com/jward/brackets/internal/scan"
)

// Regexes compiles the body of every RegexLiteral interval with ECMAScript
// semantics and reports those that fail. Flags directly after the closing
// slash are honoured where regexp2's ECMAScript mode accepts them (i and m).
func Regexes(text string, intervals []scan.Interval) []Finding {
	var out []Finding
	for _, iv := range intervals {
		if iv.Kind != scan.RegexLiteral || iv.Len() < 2 {
			continue
		}
		body := text[iv.Start+1 : iv.End-1]
		opts := regexp2.ECMAScript | flagOptions(text[iv.End:])
		if _, err := regexp2.Compile(body, opts); err != nil {
			out = append(out, Finding{
				Source:  SourceRegex,
				Kind:    KindRegexInvalid,
				Start:   iv.Start,
				End:     iv.End,
				Message: fmt.Sprintf("regex literal does not compile: %v", err),
			})
		}
	}
	return out
}

// flagOptions reads ECMAScript flag letters at the start of rest.
func flagOptions(rest string) regexp2.RegexOptions {
	var opts regexp2.RegexOptions
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 'g', 'y', 'd', 's', 'u', 'v':
		default:
			return opts
		}
	}
	return opts
}
