package brackets

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jward/brackets/internal/logging"
)

// benchSource is a realistic TypeScript file with nested calls, template
// strings, regex literals and JSX-like tags.
const benchSource = "import { useState } from 'react';\n" +
	"\n" +
	"// Formats a list of users for display.\n" +
	"export function formatUsers(users: User[], opts = { sep: ', ' }): string {\n" +
	"  const names = users.filter((u) => u.active).map((u) => `${u.first} ${u.last}`);\n" +
	"  if (names.length === 0) {\n" +
	"    return '';\n" +
	"  }\n" +
	"  return names.join(opts.sep).replace(/\\s+/g, ' ');\n" +
	"}\n" +
	"\n" +
	"/* Renders the list. */\n" +
	"export function List({ users }: Props) {\n" +
	"  const [open, setOpen] = useState(false);\n" +
	"  return (\n" +
	"    <ul className=\"users\" onClick={() => setOpen(!open)}>\n" +
	"      {users.map((u) => (\n" +
	"        <li key={u.id}>{formatUsers([u])}</li>\n" +
	"      ))}\n" +
	"    </ul>\n" +
	"  );\n" +
	"}\n"

func benchText(copies int) string {
	return strings.Repeat(benchSource, copies)
}

func BenchmarkScan(b *testing.B) {
	text := benchText(50)
	b.SetBytes(int64(len(text)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Scan(text)
	}
}

func BenchmarkBuild(b *testing.B) {
	text := benchText(50)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Build(text)
	}
}

func BenchmarkEnclosingAt(b *testing.B) {
	text := benchText(50)
	x := Build(text)
	cursor := strings.LastIndex(text, "formatUsers([u])") + len("formatUsers([")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x.EnclosingAt(cursor, Brackets, false, false)
	}
}

func BenchmarkCacheGet(b *testing.B) {
	doc := NewTextDocument(benchText(50), Runes)
	c := NewCache(WithCacheLogger(logging.Discard()))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.OnEdit()
		c.Get(doc)
	}
}

func BenchmarkIndexFiles(b *testing.B) {
	for _, parallel := range []bool{false, true} {
		name := "serial"
		if parallel {
			name = "parallel"
		}
		b.Run(name, func(b *testing.B) {
			srcDir := b.TempDir()
			var paths []string
			for i := range 20 {
				path := filepath.Join(srcDir, "f"+strings.Repeat("x", i)+".tsx")
				if err := os.WriteFile(path, []byte(benchText(5)), 0o644); err != nil {
					b.Fatal(err)
				}
				paths = append(paths, path)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				e, err := New(filepath.Join(b.TempDir(), "bench.db"), WithParallel(parallel), WithLogger(logging.Discard()))
				if err != nil {
					b.Fatal(err)
				}
				b.StartTimer()
				if _, err := e.IndexFiles(context.Background(), paths); err != nil {
					b.Fatal(err)
				}
				b.StopTimer()
				e.Close()
				b.StartTimer()
			}
		})
	}
}
