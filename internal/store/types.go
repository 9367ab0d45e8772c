package store

import (
	"fmt"
	"time"

	"github.com/jward/brackets/internal/scan"
)

type File struct {
	ID          int64
	Path        string
	Language    string
	Hash        string
	LineCount   int
	Size        int64
	LastIndexed time.Time
}

// Interval is one scanned interval row. Offsets are bytes; lines and
// columns are 0-based with byte columns.
type Interval struct {
	ID          int64
	FileID      int64
	Kind        string
	StartOffset int
	EndOffset   int
	StartLine   int
	StartCol    int
	EndLine     int
	EndCol      int
	// Depth is the number of intervals enclosing this one.
	Depth   int
	TagRole string
	TagName string
}

// Finding is a scanner quality observation recorded by the audit pass.
type Finding struct {
	ID          int64
	FileID      int64
	Source      string
	Kind        string
	StartOffset int
	EndOffset   int
	Message     string
}

// FromScan converts a scanned interval into a row for fileID. Line and
// column fields are left for the caller.
func FromScan(fileID int64, iv scan.Interval) Interval {
	row := Interval{
		FileID:      fileID,
		Kind:        iv.Kind.String(),
		StartOffset: iv.Start,
		EndOffset:   iv.End,
	}
	if iv.Tag != nil {
		row.TagRole = iv.Tag.Role.String()
		row.TagName = iv.Tag.Name
	}
	return row
}

// Scan converts the row back into a scanned interval.
func (r *Interval) Scan() (scan.Interval, error) {
	k, err := scan.ParseKind(r.Kind)
	if err != nil {
		return scan.Interval{}, fmt.Errorf("interval %d: %w", r.ID, err)
	}
	iv := scan.Interval{Kind: k, Start: r.StartOffset, End: r.EndOffset}
	if r.TagRole != "" {
		role, ok := scan.ParseTagRole(r.TagRole)
		if !ok {
			return scan.Interval{}, fmt.Errorf("interval %d: unknown tag role %q", r.ID, r.TagRole)
		}
		iv.Tag = &scan.Tag{Role: role, Name: r.TagName}
	}
	return iv, nil
}

// KindCount is the number of intervals of one kind.
type KindCount struct {
	Kind  string
	Count int
}
