// Package brackets scans source text into matched delimiter spans and
// answers positional queries over them: what encloses the cursor, which
// delimiter is the next or previous peer, and which markup tag closes the
// one the cursor is in.
//
// # Scanning
//
// [Scan] makes one left-to-right pass over the text with an explicit mode
// state machine (code, comments, quoted strings, template strings and
// regex literals) and an open-delimiter stack. It never fails: unmatched
// closers are ignored and unmatched openers are dropped at end of input.
// Telling a regex from a division and a tag from a comparison is
// heuristic.
//
// # Queries
//
// An [Index] is built once from a scan and never changes. A [Matcher]
// wraps an Index together with the [Document] it came from so queries can
// be made with line and column positions, and a [Cache] holds at most one
// Matcher per buffer, rebuilding it on the first query after an edit or
// focus change:
//
//	c := brackets.NewCache()
//	m := c.Get(brackets.NewTextDocument(text, brackets.Runes))
//	iv, ok := m.EnclosingAt(brackets.Position{Line: 3, Col: 8}, brackets.Brackets, false, false)
//
//	c.OnEdit() // the next Get rescans
//
// # Indexing files
//
// An [Engine] stores the scans of many files in SQLite, skipping files
// whose content hash is unchanged:
//
//	e, err := brackets.New("brackets.db", brackets.WithAudit(true))
//	if err != nil { ... }
//	defer e.Close()
//
//	stats, err := e.IndexDirectory(ctx, "path/to/project")
//	span, err := e.Query().EnclosingAt(ctx, "main.go", 10, 5, brackets.Brackets, false, false)
//
// Markdown files are scanned only inside their fenced code blocks. With
// [WithAudit] the Engine also records findings where tree-sitter disagrees
// with the scanner, and regex literals that do not compile.
//
// # Scripts
//
// [Engine.RunScript] evaluates Risor scripts with scanning, query and store
// functions installed as globals. See the internal/runtime package for the
// full set.
package brackets
