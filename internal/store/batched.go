package store

import "sync"

// BatchedStore buffers inserts for files being scanned in parallel, using
// fake (negative) IDs until CommitBatch writes them.
//
// Thread safety: the mutex protects fake ID allocation and slice appends.
// IntervalsByFile reads through to the underlying Store and merges what is
// buffered.
type BatchedStore struct {
	store *Store
	mu    sync.Mutex

	Intervals []Interval
	Findings  []Finding

	// FileID and FileHash, when set, are written by CommitBatch in the
	// same transaction as the rows.
	FileID   int64
	FileHash string

	nextFakeID int64 // starts at -1, decrements
}

// Compile-time check: *BatchedStore satisfies DataStore.
var _ DataStore = (*BatchedStore)(nil)

// NewBatchedStore creates a BatchedStore backed by the given Store for reads.
func NewBatchedStore(s *Store) *BatchedStore {
	return &BatchedStore{
		store:      s,
		nextFakeID: -1,
	}
}

func (b *BatchedStore) allocFakeID() int64 {
	id := b.nextFakeID
	b.nextFakeID--
	return id
}

func (b *BatchedStore) InsertInterval(iv *Interval) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fakeID := b.allocFakeID()
	iv.ID = fakeID
	b.Intervals = append(b.Intervals, *iv)
	return fakeID, nil
}

func (b *BatchedStore) InsertFinding(f *Finding) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fakeID := b.allocFakeID()
	f.ID = fakeID
	b.Findings = append(b.Findings, *f)
	return fakeID, nil
}

// IntervalsByFile returns committed intervals for a file followed by any
// buffered ones.
func (b *BatchedStore) IntervalsByFile(fileID int64) ([]*Interval, error) {
	out, err := b.store.IntervalsByFile(fileID)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Intervals {
		if b.Intervals[i].FileID == fileID {
			out = append(out, &b.Intervals[i])
		}
	}
	return out, nil
}

// Len returns the number of buffered rows.
func (b *BatchedStore) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Intervals) + len(b.Findings)
}
