package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jward/brackets"
	"github.com/jward/brackets/internal/logging"
)

func newIndexCmd(a *app) *cobra.Command {
	var (
		force     bool
		withAudit bool
	)
	cmd := &cobra.Command{
		Use:   "index [path]",
		Short: "Index a directory into the interval database",
		Long:  "Scans every supported file under path (default: the current directory) and stores its intervals in the SQLite database. Unchanged files are skipped by content hash and records of deleted files are pruned. A database built by a different scanner version is rebuilt from scratch.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetDir, err := resolveTargetDir(args)
			if err != nil {
				return a.outputError("index", err)
			}

			repoRoot := findRepoRoot(targetDir)
			dbPath := a.resolveDBPath(repoRoot)
			if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
				return a.outputError("index", fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err))
			}

			if force {
				if err := removeDB(dbPath); err != nil {
					return a.outputError("index", fmt.Errorf("removing database for --force: %w", err))
				}
				a.logger.Info("cleared database", logging.FieldDB, dbPath)
			}

			opts := append(a.engineOptions(), brackets.WithAudit(withAudit))
			engine, err := brackets.New(dbPath, opts...)
			if err != nil {
				return a.outputError("index", fmt.Errorf("creating engine: %w", err))
			}
			defer func() { engine.Close() }()

			if !force && engine.ScannerChanged() {
				files, err := engine.Store().Files()
				if err == nil && len(files) > 0 {
					a.logger.Info("scanner version changed, rebuilding", logging.FieldDB, dbPath)
					engine.Close()
					if err := removeDB(dbPath); err != nil {
						return a.outputError("index", err)
					}
					rebuilt, err := brackets.New(dbPath, opts...)
					if err != nil {
						return a.outputError("index", fmt.Errorf("creating engine: %w", err))
					}
					engine = rebuilt
				}
			}

			stats, err := engine.IndexDirectory(cmd.Context(), targetDir)
			if err != nil {
				return a.outputError("index", fmt.Errorf("indexing: %w", err))
			}

			return a.outputResult(CLIResult{Command: "index", Results: CLIIndexSummary{
				Root:      targetDir,
				Database:  dbPath,
				Seen:      stats.Seen,
				Indexed:   stats.Indexed,
				Unchanged: stats.Unchanged,
				Skipped:   stats.Skipped,
				Pruned:    stats.Pruned,
				Intervals: stats.Intervals,
				Findings:  stats.Findings,
				ElapsedMS: stats.Elapsed.Milliseconds(),
			}})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "delete the database and reindex from scratch")
	cmd.Flags().BoolVar(&withAudit, "audit", false, "record tree-sitter and regex findings for each file")
	return cmd
}

// removeDB deletes a SQLite database and its WAL side files.
func removeDB(dbPath string) error {
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}
