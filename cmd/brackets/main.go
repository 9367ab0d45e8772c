package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jward/brackets"
	"github.com/jward/brackets/internal/config"
	"github.com/jward/brackets/internal/logging"
	"github.com/jward/brackets/internal/scan"
	"github.com/jward/brackets/internal/textpos"
	"github.com/jward/brackets/internal/ui/pretty"
)

func main() {
	a := newApp(os.Stdout, os.Stderr, os.Getenv)
	if err := newRootCmd(a).Execute(); err != nil {
		if !a.errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

// app carries flag values and the settings resolved from them for one
// command invocation.
type app struct {
	out    io.Writer
	errOut io.Writer
	getenv func(string) string

	flagConfig   string
	flagDB       string
	flagFormat   string
	flagLogLevel string
	flagColor    string
	flagColumns  string
	flagKinds    string

	settings config.Settings
	logger   *log.Logger
	styles   *pretty.Styles

	// errorHandled is set by outputError so main() doesn't double-print.
	errorHandled bool
}

func newApp(out, errOut io.Writer, getenv func(string) string) *app {
	return &app{out: out, errOut: errOut, getenv: getenv}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "brackets",
		Short:         "Matched-delimiter scanning and structural queries",
		Long:          "Brackets scans source text into matched delimiter spans (brackets, quotes, comments, regex literals, template holes, markup tags) and answers positional queries over them. Files can be indexed into a SQLite database and queried by line and column.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
		// No Run: prints help.
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flagConfig, "config", "", "config file (default: .brackets.{yaml,toml,json} searched upward, then $XDG_CONFIG_HOME/brackets)")
	pf.StringVar(&a.flagDB, "db", "", "database path (default: .brackets/index.db relative to repo root)")
	pf.StringVar(&a.flagFormat, "format", "json", "output format: json|text")
	pf.StringVar(&a.flagLogLevel, "log-level", "warn", "log level: debug|info|warn|error")
	pf.StringVar(&a.flagColor, "color", "auto", "colorize text output: auto|always|never")
	pf.StringVar(&a.flagColumns, "columns", "byte", "what columns count: byte|rune|grapheme|display")
	pf.StringVar(&a.flagKinds, "kinds", "paren,bracket,brace", "comma-separated candidate kinds, or all")

	root.AddCommand(newScanCmd(a))
	root.AddCommand(newAuditCmd(a))
	root.AddCommand(newIndexCmd(a))
	root.AddCommand(newQueryCmd(a))
	root.AddCommand(newRunCmd(a))
	return root
}

// configure resolves settings from defaults, the config file, BRACKETS_*
// variables and the flags that were set explicitly.
func (a *app) configure(cmd *cobra.Command) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting cwd: %w", err)
	}
	settings, err := config.Resolve(config.Options{
		StartDir: cwd,
		Explicit: a.flagConfig,
		Getenv:   a.getenv,
		Flags:    a.flagLayer(cmd),
	})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.settings = settings
	a.logger = logging.NewWithWriter(a.errOut, settings.LogLevel)
	a.styles = pretty.NewStyles(pretty.IsColorEnabled(settings.Color, a.out))
	if settings.Source != "" {
		a.logger.Debug("loaded config", logging.FieldPath, settings.Source, "origin", settings.Origin)
	}
	return nil
}

// flagLayer holds only the persistent flags given on the command line so
// their defaults never mask the config file.
func (a *app) flagLayer(cmd *cobra.Command) config.File {
	var f config.File
	changed := func(name string) bool { return cmd.Flags().Changed(name) }
	if changed("db") {
		f.DB = &a.flagDB
	}
	if changed("format") {
		f.Format = &a.flagFormat
	}
	if changed("log-level") {
		f.LogLevel = &a.flagLogLevel
	}
	if changed("color") {
		f.Color = &a.flagColor
	}
	if changed("columns") {
		f.Columns = &a.flagColumns
	}
	if changed("kinds") {
		kinds := config.SplitList(a.flagKinds)
		f.Kinds = &kinds
	}
	return f
}

// unit returns the configured column unit.
func (a *app) unit() textpos.Unit {
	u, err := textpos.ParseUnit(a.settings.Columns)
	if err != nil {
		return textpos.Bytes
	}
	return u
}

// kinds returns the configured candidate kinds.
func (a *app) kinds() (brackets.KindSet, error) {
	ks, err := scan.ParseKinds(a.settings.Kinds...)
	if err != nil {
		return 0, err
	}
	if ks.Empty() {
		return 0, brackets.ErrNoKinds
	}
	return ks, nil
}

// engineOptions builds Engine options from the settings.
func (a *app) engineOptions() []brackets.Option {
	opts := []brackets.Option{
		brackets.WithLogger(a.logger),
		brackets.WithParallel(a.settings.Parallel),
		brackets.WithMarkdown(a.settings.Markdown),
		brackets.WithColumnUnit(a.unit()),
	}
	if len(a.settings.Languages) > 0 {
		opts = append(opts, brackets.WithLanguages(a.settings.Languages...))
	}
	return opts
}

// resolveDBPath returns the database path from the settings or the default.
func (a *app) resolveDBPath(repoRoot string) string {
	if db := a.settings.DB; db != "" {
		if filepath.IsAbs(db) {
			return db
		}
		return filepath.Join(repoRoot, db)
	}
	return filepath.Join(repoRoot, ".brackets", "index.db")
}

// errMissingDB is returned by openEngine when no database exists yet.
var errMissingDB = errors.New("database not found")

// openEngine opens the existing database for the repository around cwd.
func (a *app) openEngine(extra ...brackets.Option) (*brackets.Engine, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting cwd: %w", err)
	}
	dbPath := a.resolveDBPath(findRepoRoot(cwd))
	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s (run 'brackets index' first)", errMissingDB, dbPath)
	}
	return brackets.New(dbPath, append(a.engineOptions(), extra...)...)
}

// resolveTargetDir returns the absolute path of the directory to index.
func resolveTargetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

// findRepoRoot walks up from startDir looking for a .git directory.
// Returns the directory containing .git, or startDir if not found.
func findRepoRoot(startDir string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return startDir
		}
		dir = parent
	}
}

// parseIntArg parses a positional argument as a non-negative integer.
func parseIntArg(value, name string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", name, value)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be non-negative", name, value)
	}
	return n, nil
}

// parseSetFlags turns key=value pairs into script globals.
func parseSetFlags(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", p)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}
