package store

import (
	"database/sql"
	"fmt"
)

// CommitBatch inserts all buffered rows from a BatchedStore into SQLite
// within a single transaction. Fake IDs are replaced by the real IDs
// SQLite assigns.
func (s *Store) CommitBatch(batch *BatchedStore) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("commit batch: begin: %w", err)
	}
	defer tx.Rollback()

	batch.mu.Lock()
	defer batch.mu.Unlock()

	ivStmt, err := tx.Prepare(`INSERT INTO intervals (file_id, kind, start_offset, end_offset,
		start_line, start_col, end_line, end_col, depth, tag_role, tag_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("commit batch: prepare intervals: %w", err)
	}
	defer ivStmt.Close()

	for i := range batch.Intervals {
		iv := &batch.Intervals[i]
		id, err := insertTx(ivStmt,
			iv.FileID, iv.Kind, iv.StartOffset, iv.EndOffset,
			iv.StartLine, iv.StartCol, iv.EndLine, iv.EndCol, iv.Depth, iv.TagRole, iv.TagName,
		)
		if err != nil {
			return fmt.Errorf("commit batch: interval %s[%d,%d): %w", iv.Kind, iv.StartOffset, iv.EndOffset, err)
		}
		iv.ID = id
	}

	fStmt, err := tx.Prepare(`INSERT INTO findings (file_id, source, kind, start_offset, end_offset, message)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("commit batch: prepare findings: %w", err)
	}
	defer fStmt.Close()

	for i := range batch.Findings {
		f := &batch.Findings[i]
		id, err := insertTx(fStmt, f.FileID, f.Source, f.Kind, f.StartOffset, f.EndOffset, f.Message)
		if err != nil {
			return fmt.Errorf("commit batch: finding %s: %w", f.Kind, err)
		}
		f.ID = id
	}

	if batch.FileID != 0 && batch.FileHash != "" {
		if _, err := tx.Exec("UPDATE files SET hash = ? WHERE id = ?", batch.FileHash, batch.FileID); err != nil {
			return fmt.Errorf("commit batch: file hash: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func insertTx(stmt *sql.Stmt, args ...any) (int64, error) {
	res, err := stmt.Exec(args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
