package traversal

import (
	"testing"

	"github.com/helixdb/helixdb/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortestPathAcrossChain(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()

	a, err := eng.Store.AddNode(txn, "n", nil, nil)
	require.NoError(t, err)
	b, err := eng.Store.AddNode(txn, "n", nil, nil)
	require.NoError(t, err)
	c, err := eng.Store.AddNode(txn, "n", nil, nil)
	require.NoError(t, err)
	d, err := eng.Store.AddNode(txn, "n", nil, nil)
	require.NoError(t, err)

	_, err = eng.Store.AddEdge(txn, "link", nil, a.ID, b.ID, model.EdgeTypeNode)
	require.NoError(t, err)
	_, err = eng.Store.AddEdge(txn, "link", nil, b.ID, c.ID, model.EdgeTypeNode)
	require.NoError(t, err)
	_, err = eng.Store.AddEdge(txn, "link", nil, c.ID, d.ID, model.EdgeTypeNode)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	items, err := New(eng, rtx).ShortestPath("link", a.ID, d.ID).Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, model.TVPath, items[0].Kind)
	assert.Equal(t, []model.ID{a.ID, b.ID, c.ID, d.ID}, items[0].Path)
}

func TestShortestPathSameNodeIsSingleton(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	a, err := eng.Store.AddNode(txn, "n", nil, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	items, err := New(eng, rtx).ShortestPath("link", a.ID, a.ID).Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []model.ID{a.ID}, items[0].Path)
}

func TestShortestPathNoPathIsEmpty(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	a, err := eng.Store.AddNode(txn, "n", nil, nil)
	require.NoError(t, err)
	b, err := eng.Store.AddNode(txn, "n", nil, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	items, err := New(eng, rtx).ShortestPath("link", a.ID, b.ID).Collect()
	require.NoError(t, err)
	assert.Empty(t, items)
}
