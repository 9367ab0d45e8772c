package brackets

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/jward/brackets/internal/logging"
	"github.com/jward/brackets/internal/store"
)

// indexFilesParallel indexes files in three phases:
//
//	Phase A (serial):   language detection, hash check, old row cleanup, file records without hashes.
//	Phase B (parallel): scan and audit on a worker pool, each file into its own batch.
//	Phase C (serial):   commit each batch and its file hash in one transaction.
func (e *Engine) indexFilesParallel(ctx context.Context, root string, paths []string) (IndexStats, error) {
	var (
		stats IndexStats
		errs  []error
		items []workItem
	)

	// ---- Phase A ----
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, errors.Join(err, e.discard(items))
		}
		stats.Seen++
		item, skip, err := e.prepareFile(root, path)
		if err != nil {
			e.logger.Warn("index failed", logging.FieldPath, path, logging.FieldError, err)
			errs = append(errs, fmt.Errorf("prepare %s: %w", path, err))
			continue
		}
		if skip != "" {
			stats.count(skip)
			continue
		}
		item.batch = store.NewBatchedStore(e.store)
		item.batch.FileID, item.batch.FileHash = item.fileID, item.hash
		items = append(items, item)
	}

	if len(items) > 0 {
		// ---- Phase B ----
		numWorkers := max(1, min(runtime.NumCPU(), len(items)))
		e.logger.Debug("scanning", logging.FieldFilesIndexed, len(items), logging.FieldWorkers, numWorkers)

		workCh := make(chan workItem, len(items))
		for _, item := range items {
			workCh <- item
		}
		close(workCh)

		type result struct {
			item      workItem
			intervals int
			findings  int
			err       error
		}
		resultCh := make(chan result, len(items))

		var wg sync.WaitGroup
		for range numWorkers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for item := range workCh {
					n, f, err := e.scanFile(ctx, item, item.batch)
					resultCh <- result{item: item, intervals: n, findings: f, err: err}
				}
			}()
		}

		go func() {
			wg.Wait()
			close(resultCh)
		}()

		// ---- Phase C ----
		for res := range resultCh {
			if res.err != nil {
				e.logger.Warn("index failed", logging.FieldPath, res.item.path, logging.FieldError, res.err)
				errs = append(errs, fmt.Errorf("scan %s: %w", res.item.path, res.err))
				// Drop the half-written file so the next run retries it.
				if err := e.discard([]workItem{res.item}); err != nil {
					errs = append(errs, err)
				}
				continue
			}
			if err := e.store.CommitBatch(res.item.batch); err != nil {
				e.logger.Warn("commit failed", logging.FieldPath, res.item.path, logging.FieldError, err)
				errs = append(errs, fmt.Errorf("commit %s: %w", res.item.path, err))
				if err := e.discard([]workItem{res.item}); err != nil {
					errs = append(errs, err)
				}
				continue
			}
			stats.Indexed++
			stats.Intervals += res.intervals
			stats.Findings += res.findings
		}
	}

	if len(errs) > 0 {
		return stats, fmt.Errorf("parallel indexing had %d error(s): %w", len(errs), errs[0])
	}
	return stats, nil
}
