// Package config discovers, loads and merges brackets configuration from
// YAML, TOML or JSON files and BRACKETS_* environment variables.
package config

// File is one configuration layer. Nil fields leave the value below them
// untouched when layers are merged.
type File struct {
	DB        *string   `yaml:"db" toml:"db" json:"db"`
	Format    *string   `yaml:"format" toml:"format" json:"format"`
	LogLevel  *string   `yaml:"log_level" toml:"log_level" json:"log_level"`
	Columns   *string   `yaml:"columns" toml:"columns" json:"columns"`
	Kinds     *[]string `yaml:"kinds" toml:"kinds" json:"kinds"`
	Languages *[]string `yaml:"languages" toml:"languages" json:"languages"`
	Parallel  *bool     `yaml:"parallel" toml:"parallel" json:"parallel"`
	Markdown  *bool     `yaml:"markdown" toml:"markdown" json:"markdown"`
	Color     *string   `yaml:"color" toml:"color" json:"color"`
}

// Settings is the fully resolved configuration.
type Settings struct {
	// DB is empty when the database lives in the default location under the
	// repository root.
	DB        string
	Format    string
	LogLevel  string
	Columns   string
	Kinds     []string
	Languages []string
	Parallel  bool
	Markdown  bool
	Color     string

	// Source is the config file that contributed, if any.
	Source string
	// Origin says how Source was found: "explicit", "cwd-up" or "xdg".
	Origin string
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Format:   "json",
		LogLevel: "warn",
		Columns:  "byte",
		Kinds:    []string{"paren", "bracket", "brace"},
		Parallel: true,
		Markdown: true,
		Color:    "auto",
	}
}

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }
