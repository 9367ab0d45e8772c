package brackets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jward/brackets/internal/audit"
	"github.com/jward/brackets/internal/lang"
	"github.com/jward/brackets/internal/logging"
	"github.com/jward/brackets/internal/markdown"
	"github.com/jward/brackets/internal/runtime"
	"github.com/jward/brackets/internal/scan"
	"github.com/jward/brackets/internal/store"
	"github.com/jward/brackets/internal/textpos"
)

const scannerVersionKey = "scanner_version"

// Engine indexes files into a SQLite interval store and answers file-level
// queries over it.
type Engine struct {
	store     *store.Store
	runtime   *runtime.Runtime
	languages map[string]bool // nil means all languages
	logger    *log.Logger

	scriptsDir string
	scriptsFS  fs.FS

	useParallel bool
	markdown    bool
	audit       bool
	unit        ColumnUnit
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguages restricts which languages the Engine will index.
func WithLanguages(languages ...string) Option {
	return func(e *Engine) {
		e.languages = make(map[string]bool, len(languages))
		for _, l := range languages {
			e.languages[l] = true
		}
	}
}

// WithParallel controls parallel scanning. When true (default), IndexFiles
// scans on a worker pool and commits each file's batch from one goroutine.
func WithParallel(parallel bool) Option {
	return func(e *Engine) {
		e.useParallel = parallel
	}
}

// WithMarkdown controls whether Markdown files are indexed. Only their
// fenced code blocks are scanned. Default true.
func WithMarkdown(enabled bool) Option {
	return func(e *Engine) {
		e.markdown = enabled
	}
}

// WithAudit records grammar and regex findings for each indexed file.
func WithAudit(enabled bool) Option {
	return func(e *Engine) {
		e.audit = enabled
	}
}

// WithColumnUnit sets what stored and queried columns count. Default Bytes.
func WithColumnUnit(unit ColumnUnit) Option {
	return func(e *Engine) {
		e.unit = unit
	}
}

// WithLogger sets the Engine's logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithScriptsFS loads scripts for RunScript from fsys.
func WithScriptsFS(fsys fs.FS) Option {
	return func(e *Engine) {
		e.scriptsFS = fsys
	}
}

// WithScriptsDir loads scripts for RunScript from dir. WithScriptsFS takes
// precedence.
func WithScriptsDir(dir string) Option {
	return func(e *Engine) {
		e.scriptsDir = dir
	}
}

// New creates an Engine backed by a SQLite database at dbPath.
func New(dbPath string, opts ...Option) (*Engine, error) {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("brackets: create store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("brackets: migrate: %w", err)
	}

	e := &Engine{
		store:       s,
		useParallel: true,
		markdown:    true,
		unit:        textpos.Bytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.Default()
	}

	rtOpts := []runtime.RuntimeOption{runtime.WithRuntimeLogger(e.logger)}
	if e.scriptsFS != nil {
		rtOpts = append(rtOpts, runtime.WithRuntimeFS(e.scriptsFS))
	}
	e.runtime = runtime.NewRuntime(s, e.scriptsDir, rtOpts...)
	return e, nil
}

// Close releases the Engine's database resources.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store returns the underlying Store for direct access.
func (e *Engine) Store() *Store {
	return e.store
}

// ColumnUnit returns what the Engine's columns count.
func (e *Engine) ColumnUnit() ColumnUnit {
	return e.unit
}

// ScannerChanged reports whether the database was built by different
// scanning heuristics, or has never recorded a version. When true the
// caller should delete the database and reindex from scratch.
func (e *Engine) ScannerChanged() bool {
	stored, err := e.store.GetMetadata(scannerVersionKey)
	if err != nil || stored == "" {
		return true
	}
	return stored != scan.Version
}

func (e *Engine) storeScannerVersion() {
	if err := e.store.SetMetadata(scannerVersionKey, scan.Version); err != nil {
		e.logger.Warn("could not record scanner version", logging.FieldError, err)
	}
}

// Query returns a QueryBuilder over the Engine's store.
func (e *Engine) Query() *QueryBuilder {
	return &QueryBuilder{engine: e, store: e.store}
}

// RunScript runs a Risor script with the store functions installed.
func (e *Engine) RunScript(ctx context.Context, path string, extra map[string]any) (any, error) {
	return e.runtime.RunScript(ctx, path, extra)
}

// IndexStats summarizes one IndexFiles or IndexDirectory call.
type IndexStats struct {
	Seen      int
	Indexed   int
	Unchanged int
	Skipped   int
	Pruned    int
	Intervals int
	Findings  int
	Elapsed   time.Duration
}

// IndexFiles indexes the given paths. For each file it:
//  1. detects the language and drops unsupported, filtered, vendored,
//     binary and generated files
//  2. skips files whose content hash is unchanged
//  3. replaces the file's rows with a fresh scan, with line, column and
//     nesting depth for every interval, plus audit findings when enabled
//
// Errors on individual files are logged and collected; processing
// continues.
func (e *Engine) IndexFiles(ctx context.Context, paths []string) (IndexStats, error) {
	return e.indexFiles(ctx, "", paths)
}

// indexFiles indexes paths. Vendor detection sees paths relative to root,
// or just the parent directory and file name when root is empty.
func (e *Engine) indexFiles(ctx context.Context, root string, paths []string) (IndexStats, error) {
	start := time.Now()
	var (
		stats IndexStats
		err   error
	)
	if e.useParallel {
		stats, err = e.indexFilesParallel(ctx, root, paths)
	} else {
		stats, err = e.indexFilesSerial(ctx, root, paths)
	}
	stats.Elapsed = time.Since(start)
	e.storeScannerVersion()

	e.logger.Info("indexed files",
		logging.FieldFilesSeen, stats.Seen,
		logging.FieldFilesIndexed, stats.Indexed,
		logging.FieldFilesSkipped, stats.Skipped,
		logging.FieldIntervals, stats.Intervals,
		logging.FieldElapsed, stats.Elapsed.Round(time.Millisecond),
	)
	return stats, err
}

func (e *Engine) indexFilesSerial(ctx context.Context, root string, paths []string) (IndexStats, error) {
	var (
		stats IndexStats
		errs  []error
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Seen++
		item, skip, err := e.prepareFile(root, path)
		if err != nil {
			e.logger.Warn("index failed", logging.FieldPath, path, logging.FieldError, err)
			errs = append(errs, fmt.Errorf("index %s: %w", path, err))
			continue
		}
		if skip != "" {
			stats.count(skip)
			continue
		}
		n, f, err := e.scanFile(ctx, item, e.store)
		if err == nil {
			err = e.store.SetFileHash(item.fileID, item.hash)
		}
		if err != nil {
			e.logger.Warn("index failed", logging.FieldPath, path, logging.FieldError, err)
			errs = append(errs, fmt.Errorf("index %s: %w", path, err))
			if err := e.store.DeleteFileData(item.fileID); err != nil {
				errs = append(errs, fmt.Errorf("cleanup %s: %w", path, err))
			}
			continue
		}
		stats.Indexed++
		stats.Intervals += n
		stats.Findings += f
	}
	if len(errs) > 0 {
		return stats, fmt.Errorf("indexing had %d error(s): %w", len(errs), errs[0])
	}
	return stats, nil
}

const skipUnchanged = "unchanged"

func (s *IndexStats) count(reason string) {
	if reason == skipUnchanged {
		s.Unchanged++
		return
	}
	s.Skipped++
}

// discard removes the records of prepared files that will not be scanned.
func (e *Engine) discard(items []workItem) error {
	var errs []error
	for _, item := range items {
		if err := e.store.DeleteFileData(item.fileID); err != nil {
			errs = append(errs, fmt.Errorf("cleanup %s: %w", item.path, err))
		}
	}
	return errors.Join(errs...)
}

// workItem is a file whose old rows are gone and whose new file record
// exists without a hash, ready to be scanned.
type workItem struct {
	path     string
	language string
	fileID   int64
	hash     string
	content  []byte
	batch    *store.BatchedStore
}

// prepareFile detects the language, checks the hash and replaces the file
// record. A non-empty skip reason means there is nothing to scan.
func (e *Engine) prepareFile(root, path string) (workItem, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return workItem{}, "", err
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return workItem{}, "", fmt.Errorf("read file: %w", err)
	}

	language, ok := lang.Detect(abs, content)
	if !ok {
		return workItem{}, e.skip(abs, "unsupported"), nil
	}
	if e.languages != nil && !e.languages[language] {
		return workItem{}, e.skip(abs, "filtered"), nil
	}
	if language == lang.Markdown && !e.markdown {
		return workItem{}, e.skip(abs, "markdown disabled"), nil
	}
	if reason := lang.SkipReason(vendorPath(root, abs), content); reason != "" {
		return workItem{}, e.skip(abs, reason), nil
	}

	hash := store.ContentHash(content)
	existing, err := e.store.FileByPath(abs)
	if err != nil {
		return workItem{}, "", fmt.Errorf("lookup file: %w", err)
	}
	if existing != nil && existing.Hash == hash {
		return workItem{}, skipUnchanged, nil
	}
	if existing != nil {
		if err := e.store.DeleteFileData(existing.ID); err != nil {
			return workItem{}, "", fmt.Errorf("delete old data: %w", err)
		}
	}

	// The hash is written only together with the file's rows, so a run that
	// stops before then leaves the file looking changed.
	fileID, err := e.store.InsertFile(&store.File{
		Path:        abs,
		Language:    language,
		LineCount:   bytes.Count(content, []byte{'\n'}) + 1,
		Size:        int64(len(content)),
		LastIndexed: time.Now(),
	})
	if err != nil {
		return workItem{}, "", fmt.Errorf("insert file: %w", err)
	}
	return workItem{path: abs, language: language, fileID: fileID, hash: hash, content: content}, "", nil
}

func vendorPath(root, abs string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.Base(filepath.Dir(abs)) + "/" + filepath.Base(abs)
}

func (e *Engine) skip(path, reason string) string {
	e.logger.Debug("skipping file", logging.FieldPath, path, logging.FieldReason, reason)
	return reason
}

// scanFile scans one prepared file and writes its rows to ds. It returns
// the interval and finding counts.
func (e *Engine) scanFile(ctx context.Context, item workItem, ds store.DataStore) (int, int, error) {
	text := string(item.content)
	var ivs []scan.Interval
	if item.language == lang.Markdown {
		ivs = markdown.Scan(item.content)
	} else {
		ivs = scan.Scan(text)
	}

	rows := intervalRows(item.fileID, text, ivs, e.unit)
	for i := range rows {
		if _, err := ds.InsertInterval(&rows[i]); err != nil {
			return 0, 0, err
		}
	}

	if !e.audit {
		return len(rows), 0, nil
	}
	findings, err := audit.Run(ctx, item.language, text, ivs)
	if err != nil {
		return 0, 0, fmt.Errorf("audit: %w", err)
	}
	for _, f := range findings {
		if _, err := ds.InsertFinding(&store.Finding{
			FileID:      item.fileID,
			Source:      f.Source,
			Kind:        f.Kind,
			StartOffset: f.Start,
			EndOffset:   f.End,
			Message:     f.Message,
		}); err != nil {
			return 0, 0, err
		}
	}
	return len(rows), len(findings), nil
}

// intervalRows converts scanned intervals into rows ordered outer first,
// filling in positions and nesting depth.
func intervalRows(fileID int64, text string, ivs []scan.Interval, unit textpos.Unit) []store.Interval {
	sorted := make([]scan.Interval, len(ivs))
	copy(sorted, ivs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End > sorted[j].End
	})

	lines := textpos.NewLines(text)
	rows := make([]store.Interval, 0, len(sorted))
	var open []int // end offsets of the intervals enclosing the current one
	for _, iv := range sorted {
		for len(open) > 0 && open[len(open)-1] <= iv.Start {
			open = open[:len(open)-1]
		}
		row := store.FromScan(fileID, iv)
		start := lines.Position(iv.Start, unit)
		end := lines.Position(iv.End, unit)
		row.StartLine, row.StartCol = start.Line, start.Col
		row.EndLine, row.EndCol = end.Line, end.Col
		row.Depth = len(open)
		rows = append(rows, row)
		open = append(open, iv.End)
	}
	return rows
}

var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
}

// IndexDirectory indexes every supported file under root and prunes
// records of files under root that no longer exist. Inside a git
// repository git ls-files is used so .gitignore is respected; otherwise the
// tree is walked, skipping hidden directories, node_modules, vendor and
// __pycache__.
func (e *Engine) IndexDirectory(ctx context.Context, root string) (IndexStats, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return IndexStats{}, err
	}
	paths, err := gitListFiles(abs)
	if err != nil {
		e.logger.Debug("git ls-files unavailable, walking", logging.FieldPath, abs, logging.FieldError, err)
		paths, err = walkListFiles(abs)
		if err != nil {
			return IndexStats{}, err
		}
	}

	stats, indexErr := e.indexFiles(ctx, abs, paths)
	pruned, err := e.prune(abs, paths)
	if err != nil {
		return stats, err
	}
	stats.Pruned = pruned
	return stats, indexErr
}

// prune deletes the records of files under root that are not in keep.
func (e *Engine) prune(root string, keep []string) (int, error) {
	keepSet := make(map[string]bool, len(keep))
	for _, p := range keep {
		keepSet[p] = true
	}
	files, err := e.store.Files()
	if err != nil {
		return 0, fmt.Errorf("prune: %w", err)
	}
	prefix := root + string(filepath.Separator)
	var stale []int64
	for _, f := range files {
		if strings.HasPrefix(f.Path, prefix) && !keepSet[f.Path] {
			stale = append(stale, f.ID)
		}
	}
	if err := e.store.DeleteFiles(stale); err != nil {
		return 0, fmt.Errorf("prune: %w", err)
	}
	if len(stale) > 0 {
		e.logger.Info("pruned deleted files", logging.FieldFilesPruned, len(stale))
	}
	return len(stale), nil
}

// gitListFiles lists tracked and untracked, non-ignored files under root
// that have a recognized extension.
func gitListFiles(root string) ([]string, error) {
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git ls-files: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		absPath := filepath.Join(root, line)
		if _, ok := lang.ForFile(absPath); ok {
			paths = append(paths, absPath)
		}
	}
	return paths, nil
}

func walkListFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := lang.ForFile(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return paths, nil
}
