package main

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jward/brackets"
	"github.com/jward/brackets/internal/runtime"
	"github.com/jward/brackets/scripts"
)

func newRunCmd(a *app) *cobra.Command {
	var scriptsDir, file string
	var sets []string
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run a Risor script with the brackets host functions",
		Long: `Runs a Risor script and prints the value of its last expression. Scripts are
looked up in --scripts-dir, or among the bundled scripts (summary, deepest)
when it is not given. The ".risor" extension is optional.

The scan, index and tree-sitter functions are always available. When an
index database exists, the store functions (indexed_files, file_info,
intervals_by_file, intervals_at, findings_by_file, kind_counts, db_query) are
installed too.

Globals: "file" and "text" hold --file and its content; --set key=value adds
string globals.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			globals, err := parseSetFlags(sets)
			if err != nil {
				return a.outputError("run", err)
			}
			globals["file"], globals["text"] = "", ""
			if file != "" {
				abs, err := filepath.Abs(file)
				if err != nil {
					return a.outputError("run", fmt.Errorf("resolving file path %q: %w", file, err))
				}
				data, err := os.ReadFile(abs)
				if err != nil {
					return a.outputError("run", fmt.Errorf("reading %s: %w", file, err))
				}
				globals["file"], globals["text"] = abs, string(data)
			}

			name := args[0]
			if path.Ext(name) == "" {
				name += ".risor"
			}

			var value any
			engine, err := a.openEngine(scriptOption(scriptsDir))
			switch {
			case err == nil:
				defer engine.Close()
				value, err = engine.RunScript(cmd.Context(), name, globals)
			case errors.Is(err, errMissingDB):
				a.logger.Debug("no index database; store functions unavailable")
				value, err = a.standaloneRuntime(scriptsDir).RunScript(cmd.Context(), name, globals)
			}
			if err != nil {
				return a.outputError("run", err)
			}
			return a.outputResult(CLIResult{Command: "run", Results: CLIScriptResult{Value: value}})
		},
	}
	cmd.Flags().StringVar(&scriptsDir, "scripts-dir", "", "directory to load scripts from (default: bundled scripts)")
	cmd.Flags().StringVar(&file, "file", "", "file exposed to the script as the file and text globals")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "extra global as key=value (repeatable)")
	return cmd
}

func scriptOption(scriptsDir string) brackets.Option {
	if scriptsDir != "" {
		return brackets.WithScriptsDir(scriptsDir)
	}
	return brackets.WithScriptsFS(scripts.FS)
}

func (a *app) standaloneRuntime(scriptsDir string) *runtime.Runtime {
	opts := []runtime.RuntimeOption{runtime.WithRuntimeLogger(a.logger)}
	if scriptsDir == "" {
		opts = append(opts, runtime.WithRuntimeFS(scripts.FS))
	}
	return runtime.NewRuntime(nil, scriptsDir, opts...)
}
