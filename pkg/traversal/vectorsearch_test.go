package traversal

import (
	"testing"

	"github.com/helixdb/helixdb/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchVReturnsClosestFirst(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()

	v1, err := eng.Store.InsertVector(txn, "doc", []float64{1, 0}, nil)
	require.NoError(t, err)
	require.NoError(t, eng.HNSW.Insert(txn, v1.ID))
	v2, err := eng.Store.InsertVector(txn, "doc", []float64{0, 1}, nil)
	require.NoError(t, err)
	require.NoError(t, eng.HNSW.Insert(txn, v2.ID))
	v3, err := eng.Store.InsertVector(txn, "doc", []float64{1, 0.01}, nil)
	require.NoError(t, err)
	require.NoError(t, eng.HNSW.Insert(txn, v3.ID))
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	items, err := New(eng, rtx).SearchV([]float64{1, 0}, 2, nil).Collect()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, v1.ID, items[0].ID())
	assert.Equal(t, v3.ID, items[1].ID())
}

func TestBruteForceSearchVFiltersNonVectorItemsAndRanksByDistance(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()

	v1, err := eng.Store.InsertVector(txn, "doc", []float64{1, 0}, nil)
	require.NoError(t, err)
	v2, err := eng.Store.InsertVector(txn, "doc", []float64{0, 1}, nil)
	require.NoError(t, err)
	n, err := eng.Store.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	mixed := []Item{model.TVFromVector(v2), model.TVFromNode(n), model.TVFromVector(v1)}
	collected, err := FromSlice(eng, rtx, mixed).BruteForceSearchV([]float64{1, 0}, 1).Collect()
	require.NoError(t, err)
	require.Len(t, collected, 1)
	assert.Equal(t, v1.ID, collected[0].ID())
}

func TestSearchBM25FiltersByLabel(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()

	doc, err := eng.Store.AddNode(txn, "doc", model.Properties{"text": model.String("the quick brown fox")}, nil)
	require.NoError(t, err)
	require.NoError(t, eng.BM25.IndexDoc(txn, doc.ID, "the quick brown fox"))

	other, err := eng.Store.AddNode(txn, "article", model.Properties{"text": model.String("lazy dog fox")}, nil)
	require.NoError(t, err)
	require.NoError(t, eng.BM25.IndexDoc(txn, other.ID, "lazy dog fox"))
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	items, err := New(eng, rtx).SearchBM25("doc", "fox", 5).Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, doc.ID, items[0].ID())
}
