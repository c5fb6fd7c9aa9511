// Package kv is the memory-mapped transactional KV substrate HelixDB's
// storage core, BM25 index, and HNSW index are all built on top of
// (spec.md §4.1). It wraps BadgerDB, giving MVCC snapshots, a
// single-writer lock, prefix/range iteration, and lazy-decode byte
// access, and translates Badger's own error set into the Kind taxonomy
// in pkg/herrors.
//
// Grounded on pkg/storage/badger.go (teacher): this module keeps the same
// options tuning (low-memory defaults, sync-writes toggle, in-memory test
// mode) but drops the fixed node/edge/label prefix scheme in favor of
// open-ended named tables, since spec.md §3 names considerably more
// tables (vectors, vector_data, bm25_*, hnsw_*, secondary_indices[name])
// than the teacher's five.
package kv

import (
	"bytes"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/helixdb/helixdb/pkg/herrors"
)

// Env is the open database handle. One Env backs every table in the
// system; tables are namespaced by a one-byte key prefix (see the table
// constants in pkg/storage/keys.go).
type Env struct {
	db *badger.DB
}

// Options configures Open.
type Options struct {
	// Path is the on-disk directory. Ignored when InMemory is true.
	Path string

	// InMemory runs Badger with no on-disk footprint (tests only).
	InMemory bool

	// SyncWrites forces fsync after every commit. Slower, more durable.
	SyncWrites bool

	// There is no low-memory option: Open always applies
	// reduced-footprint tuning (small memtables, value-log files and
	// caches), suitable for containers and embedded deployment.
}

// Open creates or opens the environment at opts.Path (or purely in-memory
// when opts.InMemory is set).
func Open(opts Options) (*Env, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = bopts.WithInMemory(true)
	}
	if opts.SyncWrites {
		bopts = bopts.WithSyncWrites(true)
	}
	bopts = bopts.
		WithLogger(nil).
		WithMemTableSize(16 << 20).
		WithValueLogFileSize(64 << 20).
		WithNumMemtables(2).
		WithNumLevelZeroTables(2).
		WithNumLevelZeroTablesStall(4).
		WithValueThreshold(1024).
		WithBlockCacheSize(32 << 20).
		WithIndexCacheSize(16 << 20)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, herrors.New(herrors.KindIO, "kv.Open", err)
	}
	return &Env{db: db}, nil
}

// Close releases the environment. Safe to call once.
func (e *Env) Close() error {
	if err := e.db.Close(); err != nil {
		return herrors.New(herrors.KindIO, "kv.Close", err)
	}
	return nil
}

// RunValueLogGC triggers Badger's value-log garbage collection. Safe to
// call periodically from a background maintenance loop; returns
// badger.ErrNoRewrite (swallowed) when there is nothing to reclaim.
func (e *Env) RunValueLogGC(discardRatio float64) error {
	err := e.db.RunValueLogGC(discardRatio)
	if err != nil && err != badger.ErrNoRewrite {
		return herrors.New(herrors.KindIO, "kv.RunValueLogGC", err)
	}
	return nil
}

// ---------------------------------------------------------------------
// Transactions
// ---------------------------------------------------------------------

// Txn is the common read surface shared by read-only and read-write
// transactions.
type Txn struct {
	t        *badger.Txn
	writable bool
}

// ReadTxn opens a read-only MVCC snapshot. The snapshot is fixed at the
// moment this call returns (spec.md §5: "readers see a consistent
// snapshot taken at read_txn() time").
func (e *Env) ReadTxn() *Txn {
	return &Txn{t: e.db.NewTransaction(false), writable: false}
}

// WriteTxn opens an exclusive read-write transaction. Only one write txn
// may be open at a time per Env; a second concurrent call blocks until
// the first commits or discards (Badger's single-writer guarantee,
// spec.md §4.1).
func (e *Env) WriteTxn() *Txn {
	return &Txn{t: e.db.NewTransaction(true), writable: true}
}

// Writable reports whether t may mutate state.
func (t *Txn) Writable() bool { return t.writable }

// Discard releases the transaction without committing. Safe to call
// after Commit (no-op).
func (t *Txn) Discard() { t.t.Discard() }

// Commit applies all buffered writes atomically. Only valid on a writable
// transaction.
func (t *Txn) Commit() error {
	if !t.writable {
		return herrors.New(herrors.KindTransaction, "kv.Commit", fmt.Errorf("transaction is read-only"))
	}
	if err := t.t.Commit(); err != nil {
		return herrors.New(herrors.KindTransaction, "kv.Commit", err)
	}
	return nil
}

// Get fetches the value stored at key, or herrors.KindNotFound.
func (t *Txn) Get(key []byte) ([]byte, error) {
	out, _, err := t.GetWithVersion(key)
	return out, err
}

// GetWithVersion is like Get but also returns the item's Badger version:
// the commit timestamp the value was written at, or — for a key this
// same writable txn has Put but not yet committed — that txn's own read
// timestamp. Two Gets of the same key returning the same version saw the
// same write, which is what a decoded-value cache needs to validate a
// hit against the caller's actual snapshot rather than trusting that
// nothing changed since the cache was last populated (spec.md §5:
// readers must see a consistent snapshot taken at read_txn() time).
func (t *Txn) GetWithVersion(key []byte) ([]byte, uint64, error) {
	item, err := t.t.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, 0, herrors.New(herrors.KindNotFound, "kv.Get", nil)
	}
	if err != nil {
		return nil, 0, herrors.New(herrors.KindIO, "kv.Get", err)
	}
	var out []byte
	err = item.Value(func(val []byte) error {
		out = append([]byte{}, val...)
		return nil
	})
	if err != nil {
		return nil, 0, herrors.New(herrors.KindIO, "kv.Get", err)
	}
	return out, item.Version(), nil
}

// Has reports whether key exists, without paying for a value copy.
func (t *Txn) Has(key []byte) (bool, error) {
	_, err := t.t.Get(key)
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, herrors.New(herrors.KindIO, "kv.Has", err)
	}
	return true, nil
}

// Put writes key/value. Requires a writable transaction.
func (t *Txn) Put(key, value []byte) error {
	if !t.writable {
		return herrors.New(herrors.KindTransaction, "kv.Put", fmt.Errorf("read-only transaction"))
	}
	if err := t.t.Set(key, value); err != nil {
		return herrors.New(herrors.KindIO, "kv.Put", err)
	}
	return nil
}

// Delete removes key. Requires a writable transaction. Deleting a
// missing key is not an error at this layer — callers that need
// NotFound semantics check existence first (this mirrors Badger, which
// treats Delete of an absent key as a successful tombstone write).
func (t *Txn) Delete(key []byte) error {
	if !t.writable {
		return herrors.New(herrors.KindTransaction, "kv.Delete", fmt.Errorf("read-only transaction"))
	}
	if err := t.t.Delete(key); err != nil {
		return herrors.New(herrors.KindIO, "kv.Delete", err)
	}
	return nil
}

// ---------------------------------------------------------------------
// Iteration
// ---------------------------------------------------------------------

// Entry is one key/value pair yielded by an iterator. Value is nil until
// Load is called, implementing the "lazy-decode iterators that return
// raw bytes until the caller forces decode" contract of spec.md §4.1.
type Entry struct {
	Key   []byte
	item  *badger.Item
}

// Load forces the value to be fetched and copied out.
func (e Entry) Load() ([]byte, error) {
	var out []byte
	err := e.item.Value(func(val []byte) error {
		out = append([]byte{}, val...)
		return nil
	})
	if err != nil {
		return nil, herrors.New(herrors.KindIO, "kv.Entry.Load", err)
	}
	return out, nil
}

// PrefixIter scans every key with the given prefix in ascending
// (big-endian) key order, calling fn for each. Iteration stops early,
// without error, if fn returns false.
func (t *Txn) PrefixIter(prefix []byte, fn func(Entry) (bool, error)) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := t.t.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		key := append([]byte{}, item.Key()...)
		cont, err := fn(Entry{Key: key, item: item})
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}
	return nil
}

// RangeIter scans keys in [start, end) in ascending order. If end is nil,
// the scan continues through the end of the table (the caller is
// expected to pass a prefix-bounded start/end pair).
func (t *Txn) RangeIter(start, end []byte, fn func(Entry) (bool, error)) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := t.t.NewIterator(opts)
	defer it.Close()

	for it.Seek(start); it.Valid(); it.Next() {
		item := it.Item()
		key := item.Key()
		if end != nil && bytes.Compare(key, end) >= 0 {
			break
		}
		keyCopy := append([]byte{}, key...)
		cont, err := fn(Entry{Key: keyCopy, item: item})
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}
	return nil
}

// CountPrefix is a convenience helper that counts keys under prefix
// without forcing value decode.
func (t *Txn) CountPrefix(prefix []byte) (int, error) {
	n := 0
	err := t.PrefixIter(prefix, func(Entry) (bool, error) {
		n++
		return true, nil
	})
	return n, err
}
