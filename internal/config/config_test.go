package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Formats(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	tests := map[string]string{
		"c.yaml": "format: text\nkinds: [paren, brace]\nparallel: false\n",
		"c.toml": "format = \"text\"\nkinds = [\"paren\", \"brace\"]\nparallel = false\n",
		"c.json": `{"format": "text", "kinds": ["paren", "brace"], "parallel": false}`,
	}
	for name, content := range tests {
		path := filepath.Join(dir, name)
		writeFile(t, path, content)

		f, err := Load(path)
		require.NoError(t, err, name)
		require.NotNil(t, f.Format, name)
		assert.Equal(t, "text", *f.Format, name)
		require.NotNil(t, f.Kinds, name)
		assert.Equal(t, []string{"paren", "brace"}, *f.Kinds, name)
		require.NotNil(t, f.Parallel, name)
		assert.False(t, *f.Parallel, name)
		assert.Nil(t, f.DB, name)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"bad.yaml": "colour: always\n",
		"bad.toml": "colour = \"always\"\n",
		"bad.json": `{"colour": "always"}`,
	} {
		path := filepath.Join(dir, name)
		writeFile(t, path, content)
		_, err := Load(path)
		assert.Error(t, err, name)
	}
}

func TestLoad_EmptyAndUnsupported(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	writeFile(t, empty, "")
	f, err := Load(empty)
	require.NoError(t, err)
	assert.Nil(t, f.Format)

	ini := filepath.Join(dir, "c.ini")
	writeFile(t, ini, "format=text")
	_, err = Load(ini)
	assert.Error(t, err)

	f, err = Load("")
	require.NoError(t, err)
	assert.Nil(t, f.Format)
}

func TestFind(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeFile(t, filepath.Join(root, ".brackets.toml"), "format = \"text\"\n")

	path, origin, err := Find(nested, "", filepath.Join(root, "xdg-none"), root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".brackets.toml"), path)
	assert.Equal(t, "cwd-up", origin)

	explicit := filepath.Join(root, "other.yaml")
	writeFile(t, explicit, "format: json\n")
	path, origin, err = Find(nested, explicit, "", root)
	require.NoError(t, err)
	assert.Equal(t, explicit, path)
	assert.Equal(t, "explicit", origin)

	_, _, err = Find(nested, root, "", root)
	assert.Error(t, err, "explicit directory")
}

func TestFind_XDG(t *testing.T) {
	t.Parallel()
	work := t.TempDir()
	xdg := t.TempDir()
	writeFile(t, filepath.Join(xdg, "brackets", "config.yaml"), "format: text\n")

	path, origin, err := Find(work, "", xdg, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "brackets", "config.yaml"), path)
	assert.Equal(t, "xdg", origin)
}

func TestFromEnv(t *testing.T) {
	t.Parallel()
	f, err := FromEnv(envMap(map[string]string{
		"BRACKETS_FORMAT":   " text ",
		"BRACKETS_KINDS":    "paren, ,angle_tag",
		"BRACKETS_MARKDOWN": "false",
	}))
	require.NoError(t, err)
	assert.Equal(t, "text", *f.Format)
	assert.Equal(t, []string{"paren", "angle_tag"}, *f.Kinds)
	assert.False(t, *f.Markdown)
	assert.Nil(t, f.Parallel)

	_, err = FromEnv(envMap(map[string]string{"BRACKETS_PARALLEL": "maybe"}))
	assert.ErrorContains(t, err, "BRACKETS_PARALLEL")
}

func TestMerge_Precedence(t *testing.T) {
	t.Parallel()
	file := File{Format: strPtr("text"), Columns: strPtr("rune")}
	env := File{Columns: strPtr("grapheme")}
	flags := File{Kinds: &[]string{"angle_tag"}}

	got := Merge(Defaults(), file, env, flags)
	assert.Equal(t, "text", got.Format)
	assert.Equal(t, "grapheme", got.Columns)
	assert.Equal(t, []string{"angle_tag"}, got.Kinds)
	assert.True(t, got.Parallel, "untouched default")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	s := Defaults()
	s.Format = "TEXT"
	s.Columns = "cells"
	require.NoError(t, Validate(&s))
	assert.Equal(t, "text", s.Format)
	assert.Equal(t, "display", s.Columns)

	bad := Defaults()
	bad.Format = "xml"
	bad.Color = "sometimes"
	bad.Kinds = []string{"paren", "squiggle"}
	bad.Languages = []string{"cobol"}
	err := Validate(&bad)
	require.Error(t, err)
	assert.ErrorContains(t, err, "xml")
	assert.ErrorContains(t, err, "sometimes")
	assert.ErrorContains(t, err, "squiggle")
	assert.ErrorContains(t, err, "cobol")

	empty := Defaults()
	empty.Kinds = nil
	assert.ErrorContains(t, Validate(&empty), "kinds")
}

func TestResolve(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".brackets.yaml"), "format: text\ncolumns: rune\nlog_level: info\n")

	got, err := Resolve(Options{
		StartDir: root,
		Getenv: envMap(map[string]string{
			"BRACKETS_COLUMNS": "display",
			"XDG_CONFIG_HOME":  filepath.Join(root, "none"),
		}),
		Flags: File{LogLevel: strPtr("debug")},
	})
	require.NoError(t, err)
	assert.Equal(t, "text", got.Format)
	assert.Equal(t, "display", got.Columns)
	assert.Equal(t, "debug", got.LogLevel)
	assert.Equal(t, filepath.Join(root, ".brackets.yaml"), got.Source)
	assert.Equal(t, "cwd-up", got.Origin)
}

func TestResolve_InvalidFile(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	path := filepath.Join(root, ".brackets.json")
	writeFile(t, path, `{"format": "xml"}`)

	_, err := Resolve(Options{StartDir: root, Getenv: envMap(map[string]string{
		"XDG_CONFIG_HOME": filepath.Join(root, "none"),
	})})
	require.Error(t, err)
	assert.ErrorContains(t, err, path)
}
