package config

import "strings"

// Merge applies layers over base in order; later layers win.
func Merge(base Settings, layers ...File) Settings {
	out := base
	for _, layer := range layers {
		out.DB = resolveString(out.DB, layer.DB)
		out.Format = resolveString(out.Format, layer.Format)
		out.LogLevel = resolveString(out.LogLevel, layer.LogLevel)
		out.Columns = resolveString(out.Columns, layer.Columns)
		out.Color = resolveString(out.Color, layer.Color)
		out.Kinds = resolveStrings(out.Kinds, layer.Kinds)
		out.Languages = resolveStrings(out.Languages, layer.Languages)
		out.Parallel = resolveBool(out.Parallel, layer.Parallel)
		out.Markdown = resolveBool(out.Markdown, layer.Markdown)
	}
	return out
}

func resolveString(cur string, v *string) string {
	if v == nil {
		return cur
	}
	return strings.TrimSpace(*v)
}

func resolveStrings(cur []string, v *[]string) []string {
	if v == nil {
		return cur
	}
	out := make([]string, len(*v))
	copy(out, *v)
	return out
}

func resolveBool(cur bool, v *bool) bool {
	if v == nil {
		return cur
	}
	return *v
}
