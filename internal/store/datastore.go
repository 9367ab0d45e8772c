package store

// DataStore is the interface for scan-phase data access. Both Store (direct
// SQLite) and BatchedStore (in-memory buffering for parallel indexing)
// implement it.
type DataStore interface {
	// Inserts; each returns the assigned ID.
	InsertInterval(iv *Interval) (int64, error)
	InsertFinding(f *Finding) (int64, error)

	IntervalsByFile(fileID int64) ([]*Interval, error)
}

// Compile-time check: *Store satisfies DataStore.
var _ DataStore = (*Store)(nil)
