package store

import "fmt"

// IntervalCols is the column list for interval queries.
const IntervalCols = `id, file_id, kind, start_offset, end_offset,
	start_line, start_col, end_line, end_col, depth, tag_role, tag_name`

func (s *Store) InsertInterval(iv *Interval) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO intervals (file_id, kind, start_offset, end_offset,
			start_line, start_col, end_line, end_col, depth, tag_role, tag_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		iv.FileID, iv.Kind, iv.StartOffset, iv.EndOffset,
		iv.StartLine, iv.StartCol, iv.EndLine, iv.EndCol, iv.Depth, iv.TagRole, iv.TagName,
	)
	if err != nil {
		return 0, fmt.Errorf("insert interval: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	iv.ID = id
	return id, nil
}

// ScanIntervalRow scans a single row selected with IntervalCols.
func ScanIntervalRow(scanner interface{ Scan(...any) error }) (*Interval, error) {
	iv := &Interval{}
	err := scanner.Scan(
		&iv.ID, &iv.FileID, &iv.Kind, &iv.StartOffset, &iv.EndOffset,
		&iv.StartLine, &iv.StartCol, &iv.EndLine, &iv.EndCol, &iv.Depth, &iv.TagRole, &iv.TagName,
	)
	if err != nil {
		return nil, err
	}
	return iv, nil
}

func (s *Store) queryIntervals(query string, args ...any) ([]*Interval, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Interval
	for rows.Next() {
		iv, err := ScanIntervalRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interval: %w", err)
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

// IntervalsByFile returns a file's intervals ordered by start offset, outer
// intervals first.
func (s *Store) IntervalsByFile(fileID int64) ([]*Interval, error) {
	return s.queryIntervals(
		"SELECT "+IntervalCols+" FROM intervals WHERE file_id = ? ORDER BY start_offset, end_offset DESC",
		fileID,
	)
}

func (s *Store) IntervalsByKind(fileID int64, kind string) ([]*Interval, error) {
	return s.queryIntervals(
		"SELECT "+IntervalCols+" FROM intervals WHERE file_id = ? AND kind = ? ORDER BY start_offset, end_offset DESC",
		fileID, kind,
	)
}

// IntervalsContaining returns the intervals of a file that strictly contain
// offset, outermost first.
func (s *Store) IntervalsContaining(fileID int64, offset int) ([]*Interval, error) {
	return s.queryIntervals(
		"SELECT "+IntervalCols+` FROM intervals
		 WHERE file_id = ? AND start_offset < ? AND end_offset > ?
		 ORDER BY start_offset, end_offset DESC`,
		fileID, offset, offset,
	)
}

// KindCounts returns interval counts per kind, across all files when fileID
// is 0.
func (s *Store) KindCounts(fileID int64) ([]KindCount, error) {
	query := "SELECT kind, COUNT(*) FROM intervals GROUP BY kind ORDER BY kind"
	var args []any
	if fileID != 0 {
		query = "SELECT kind, COUNT(*) FROM intervals WHERE file_id = ? GROUP BY kind ORDER BY kind"
		args = append(args, fileID)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("kind counts: %w", err)
	}
	defer rows.Close()
	var out []KindCount
	for rows.Next() {
		var kc KindCount
		if err := rows.Scan(&kc.Kind, &kc.Count); err != nil {
			return nil, fmt.Errorf("scan kind count: %w", err)
		}
		out = append(out, kc)
	}
	return out, rows.Err()
}

// --- Findings ---

func (s *Store) InsertFinding(f *Finding) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO findings (file_id, source, kind, start_offset, end_offset, message)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.FileID, f.Source, f.Kind, f.StartOffset, f.EndOffset, f.Message,
	)
	if err != nil {
		return 0, fmt.Errorf("insert finding: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	f.ID = id
	return id, nil
}

func (s *Store) FindingsByFile(fileID int64) ([]*Finding, error) {
	rows, err := s.db.Query(
		`SELECT id, file_id, source, kind, start_offset, end_offset, message
		 FROM findings WHERE file_id = ? ORDER BY start_offset, id`, fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("findings by file: %w", err)
	}
	defer rows.Close()
	var out []*Finding
	for rows.Next() {
		f := &Finding{}
		if err := rows.Scan(&f.ID, &f.FileID, &f.Source, &f.Kind, &f.StartOffset, &f.EndOffset, &f.Message); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
