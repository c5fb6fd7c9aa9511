package traversal

import (
	"testing"

	"github.com/helixdb/helixdb/pkg/bm25"
	"github.com/helixdb/helixdb/pkg/hnsw"
	"github.com/helixdb/helixdb/pkg/kv"
	"github.com/helixdb/helixdb/pkg/model"
	"github.com/helixdb/helixdb/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestEngine(t *testing.T) (*kv.Env, *Engine) {
	t.Helper()
	env, err := kv.Open(kv.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })

	store := storage.New()
	eng := &Engine{
		Store: store,
		BM25:  bm25.New(store),
		HNSW:  hnsw.New(store, hnsw.DefaultConfig()),
	}
	return env, eng
}

func TestCollectOnEmptyPipelineIsNoSourceError(t *testing.T) {
	_, eng := openTestEngine(t)
	env, _ := openTestEngine(t)
	_ = env

	p := New(eng, nil)
	_, err := p.FilterRef(func(Item) (bool, error) { return true, nil }).Collect()
	require.Error(t, err)
}

func TestNFromUnknownIDIsEmptyNotError(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.ReadTxn()
	defer txn.Discard()

	p := New(eng, txn).NFromID(model.NewID())
	// an unknown id yields an empty, non-erroring source
	items, err := p.Collect()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFromSliceSeedsPipeline(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	defer txn.Discard()

	n, err := eng.Store.AddNode(txn, "person", model.Properties{"name": model.String("alice")}, nil)
	require.NoError(t, err)

	items, err := FromSlice(eng, txn, []Item{model.TVFromNode(n)}).Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, n.ID, items[0].ID())
}

func TestErrIteratorPropagatesPastEveryAdapter(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.ReadTxn()
	defer txn.Discard()

	p := New(eng, txn).FilterRef(func(Item) (bool, error) { return true, nil })
	require.Error(t, p.Err())

	_, err := p.Dedup().Range(0, 1).Collect()
	require.Error(t, err)
}
