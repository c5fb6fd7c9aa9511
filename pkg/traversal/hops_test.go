package traversal

import (
	"testing"

	"github.com/helixdb/helixdb/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutAndInTraverseEdges(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()

	alice, err := eng.Store.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)
	bob, err := eng.Store.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)
	_, err = eng.Store.AddEdge(txn, "knows", nil, alice.ID, bob.ID, model.EdgeTypeNode)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	items, err := New(eng, rtx).NFromID(alice.ID).Out("knows", model.EdgeTypeNode).Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, bob.ID, items[0].ID())

	items, err = New(eng, rtx).NFromID(bob.ID).In_("knows", model.EdgeTypeNode).Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, alice.ID, items[0].ID())
}

func TestOutRequiresNodeUpstream(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	defer txn.Discard()

	e, err := func() (*model.Edge, error) {
		a, err := eng.Store.AddNode(txn, "person", nil, nil)
		if err != nil {
			return nil, err
		}
		b, err := eng.Store.AddNode(txn, "person", nil, nil)
		if err != nil {
			return nil, err
		}
		return eng.Store.AddEdge(txn, "knows", nil, a.ID, b.ID, model.EdgeTypeNode)
	}()
	require.NoError(t, err)

	_, err = New(eng, txn).EFromID(e.ID).Out("knows", model.EdgeTypeNode).Collect()
	require.Error(t, err)
}

func TestOutEAndInEYieldEdgeEntities(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()

	alice, err := eng.Store.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)
	bob, err := eng.Store.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)
	edge, err := eng.Store.AddEdge(txn, "knows", nil, alice.ID, bob.ID, model.EdgeTypeNode)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	items, err := New(eng, rtx).NFromID(alice.ID).OutE("knows").Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, edge.ID, items[0].ID())

	items, err = New(eng, rtx).NFromID(bob.ID).InE("knows").Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, edge.ID, items[0].ID())
}

func TestFromNToNFromVToV(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()

	alice, err := eng.Store.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)
	vec, err := eng.Store.InsertVector(txn, "doc", []float64{1, 0}, nil)
	require.NoError(t, err)
	edge, err := eng.Store.AddEdge(txn, "embeds", nil, alice.ID, vec.ID, model.EdgeTypeVector)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	items, err := New(eng, rtx).EFromID(edge.ID).FromN().Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, alice.ID, items[0].ID())

	items, err = New(eng, rtx).EFromID(edge.ID).ToV().Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, vec.ID, items[0].ID())
}
