package storage

import (
	"testing"

	"github.com/helixdb/helixdb/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNodeHitsCacheOnSecondCall(t *testing.T) {
	env := openTestEnv(t)
	cache, err := NewEntityCache(CacheConfig{NumCounters: 100, MaxCost: 1000, BufferItems: 8})
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	s := New().WithCache(cache)

	txn := env.WriteTxn()
	n, err := s.AddNode(txn, "person", model.Properties{"name": model.String("alice")}, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()
	first, err := s.GetNode(rtx, n.ID)
	require.NoError(t, err)
	cache.nodes.Wait()
	_, version, err := rtx.GetWithVersion(nodeKey(n.ID))
	require.NoError(t, err)
	_, hit := cache.getNode(n.ID, version)
	require.True(t, hit)

	second, err := s.GetNode(rtx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Properties["name"].Str, second.Properties["name"].Str)
}

func TestGetNodeReturnsIndependentCopiesAcrossCalls(t *testing.T) {
	env := openTestEnv(t)
	cache, err := NewEntityCache(CacheConfig{NumCounters: 100, MaxCost: 1000, BufferItems: 8})
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	s := New().WithCache(cache)

	txn := env.WriteTxn()
	n, err := s.AddNode(txn, "person", model.Properties{"name": model.String("alice")}, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()
	first, err := s.GetNode(rtx, n.ID)
	require.NoError(t, err)
	cache.nodes.Wait()

	first.Properties["name"] = model.String("mutated")

	second, err := s.GetNode(rtx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", second.Properties["name"].Str)
}

func TestUpdateNodeEvictsStaleCacheEntry(t *testing.T) {
	env := openTestEnv(t)
	cache, err := NewEntityCache(CacheConfig{NumCounters: 100, MaxCost: 1000, BufferItems: 8})
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	s := New().WithCache(cache)

	txn := env.WriteTxn()
	n, err := s.AddNode(txn, "person", model.Properties{"name": model.String("alice")}, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	_, err = s.GetNode(rtx, n.ID)
	require.NoError(t, err)
	rtx.Discard()
	cache.nodes.Wait()

	wtx := env.WriteTxn()
	_, err = s.UpdateNode(wtx, n.ID, model.Properties{"name": model.String("bob")}, nil)
	require.NoError(t, err)
	require.NoError(t, wtx.Commit())

	rtx2 := env.ReadTxn()
	defer rtx2.Discard()
	out, err := s.GetNode(rtx2, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", out.Properties["name"].Str)
}

func TestDropNodeEvictsCacheEntry(t *testing.T) {
	env := openTestEnv(t)
	cache, err := NewEntityCache(CacheConfig{NumCounters: 100, MaxCost: 1000, BufferItems: 8})
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	s := New().WithCache(cache)

	txn := env.WriteTxn()
	n, err := s.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	_, err = s.GetNode(rtx, n.ID)
	require.NoError(t, err)
	rtx.Discard()
	cache.nodes.Wait()

	wtx := env.WriteTxn()
	require.NoError(t, s.DropNode(wtx, n.ID))
	require.NoError(t, wtx.Commit())

	rtx2 := env.ReadTxn()
	defer rtx2.Discard()
	_, err = s.GetNode(rtx2, n.ID)
	require.Error(t, err)
}

func TestGetNodeDoesNotLeakStaleSnapshotAcrossReaders(t *testing.T) {
	env := openTestEnv(t)
	cache, err := NewEntityCache(CacheConfig{NumCounters: 100, MaxCost: 1000, BufferItems: 8})
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	s := New().WithCache(cache)

	txn := env.WriteTxn()
	n, err := s.AddNode(txn, "person", model.Properties{"name": model.String("alice")}, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	// Reader A's snapshot is fixed at ReadTxn() time, before the update below.
	readerA := env.ReadTxn()
	defer readerA.Discard()

	wtx := env.WriteTxn()
	_, err = s.UpdateNode(wtx, n.ID, model.Properties{"name": model.String("bob")}, nil)
	require.NoError(t, err)
	require.NoError(t, wtx.Commit())

	// Reader A populates the cache from its own (now stale, pre-update) view,
	// after the update has already evicted whatever was cached before it.
	staleRead, err := s.GetNode(readerA, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", staleRead.Properties["name"].Str)
	cache.nodes.Wait()

	// A fresh reader opened after the commit must see "bob", not the version
	// reader A just (correctly, for its own snapshot) cached.
	readerB := env.ReadTxn()
	defer readerB.Discard()
	freshRead, err := s.GetNode(readerB, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", freshRead.Properties["name"].Str)
}

func TestGetNodeInsideWriteTxnDoesNotPopulateCache(t *testing.T) {
	env := openTestEnv(t)
	cache, err := NewEntityCache(CacheConfig{NumCounters: 100, MaxCost: 1000, BufferItems: 8})
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	s := New().WithCache(cache)

	wtx := env.WriteTxn()
	n, err := s.AddNode(wtx, "person", model.Properties{"name": model.String("alice")}, nil)
	require.NoError(t, err)

	// Reading the node back inside the same, still-uncommitted write txn
	// must not leave an entry behind for other transactions to pick up.
	_, err = s.GetNode(wtx, n.ID)
	require.NoError(t, err)
	cache.nodes.Wait()
	wtx.Discard()

	verify := env.ReadTxn()
	defer verify.Discard()
	_, _, err = verify.GetWithVersion(nodeKey(n.ID))
	require.Error(t, err, "node must not exist after discard")
	_, hit := cache.nodes.Get(n.ID)
	assert.False(t, hit, "a discarded write txn's read must never populate the shared cache")
}

func TestNilCacheDisablesCachingWithoutErrors(t *testing.T) {
	env := openTestEnv(t)
	s := New()

	txn := env.WriteTxn()
	n, err := s.AddNode(txn, "person", model.Properties{"name": model.String("alice")}, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()
	out, err := s.GetNode(rtx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", out.Properties["name"].Str)
}
