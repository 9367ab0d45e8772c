// Package lang maps files to language names and tree-sitter grammars, and
// decides which files are worth scanning at all.
package lang

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-enry/go-enry/v2"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Markdown is scanned only inside fenced code blocks.
const Markdown = "markdown"

// extToLanguage maps file extensions to canonical language names.
var extToLanguage = map[string]string{
	".go":       "go",
	".ts":       "typescript",
	".mts":      "typescript",
	".cts":      "typescript",
	".tsx":      "tsx",
	".js":       "javascript",
	".mjs":      "javascript",
	".cjs":      "javascript",
	".jsx":      "javascript",
	".py":       "python",
	".rs":       "rust",
	".c":        "c",
	".h":        "c",
	".cpp":      "cpp",
	".cc":       "cpp",
	".cxx":      "cpp",
	".hpp":      "cpp",
	".java":     "java",
	".php":      "php",
	".rb":       "ruby",
	".html":     "html",
	".htm":      "html",
	".vue":      "html",
	".svelte":   "html",
	".css":      "css",
	".md":       Markdown,
	".markdown": Markdown,
}

// enryNames maps go-enry language names onto ours for files whose
// extension is not in extToLanguage.
var enryNames = map[string]string{
	"Go":         "go",
	"TypeScript": "typescript",
	"TSX":        "tsx",
	"JavaScript": "javascript",
	"Python":     "python",
	"Rust":       "rust",
	"C":          "c",
	"C++":        "cpp",
	"Java":       "java",
	"PHP":        "php",
	"Ruby":       "ruby",
	"HTML":       "html",
	"Vue":        "html",
	"CSS":        "css",
	"Markdown":   Markdown,
}

// langToGrammar maps language names to tree-sitter Language objects.
// Lazily initialized on first call via sync.Once.
var (
	langToGrammar map[string]*sitter.Language
	grammarsOnce  sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		langToGrammar = map[string]*sitter.Language{
			"go":         golang.GetLanguage(),
			"typescript": ts.GetLanguage(),
			"tsx":        tsx.GetLanguage(),
			"javascript": javascript.GetLanguage(),
			"python":     python.GetLanguage(),
			"rust":       rust.GetLanguage(),
			"c":          c.GetLanguage(),
			"cpp":        cpp.GetLanguage(),
			"java":       java.GetLanguage(),
			"php":        php.GetLanguage(),
			"ruby":       ruby.GetLanguage(),
			"html":       html.GetLanguage(),
			"css":        css.GetLanguage(),
		}
	})
}

// ForFile returns the canonical language name for a file path based on its
// extension. Returns ("", false) if the extension is not recognized.
func ForFile(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := extToLanguage[ext]
	return lang, ok
}

// Detect resolves a language from the extension first and falls back to
// go-enry's filename, shebang and content heuristics.
func Detect(path string, content []byte) (string, bool) {
	if lang, ok := ForFile(path); ok {
		return lang, true
	}
	if name, safe := enry.GetLanguageByShebang(content); safe {
		if lang, ok := enryNames[name]; ok {
			return lang, true
		}
	}
	lang, ok := enryNames[enry.GetLanguage(filepath.Base(path), content)]
	return lang, ok
}

// SkipReason returns why a file should not be scanned, or "" if it should.
func SkipReason(path string, content []byte) string {
	switch {
	case enry.IsVendor(path):
		return "vendor"
	case enry.IsBinary(content):
		return "binary"
	case enry.IsGenerated(path, content):
		return "generated"
	}
	return ""
}

// Grammar returns the tree-sitter Language for a canonical language name.
// Returns (nil, false) if the language has no grammar.
func Grammar(lang string) (*sitter.Language, bool) {
	initGrammars()
	l, ok := langToGrammar[lang]
	return l, ok
}

// Supported lists every language name ForFile can return, sorted.
func Supported() []string {
	seen := map[string]bool{}
	var out []string
	for _, lang := range extToLanguage {
		if !seen[lang] {
			seen[lang] = true
			out = append(out, lang)
		}
	}
	sort.Strings(out)
	return out
}

// IsSupported reports whether lang is one of Supported.
func IsSupported(lang string) bool {
	for _, l := range extToLanguage {
		if l == lang {
			return true
		}
	}
	return false
}
