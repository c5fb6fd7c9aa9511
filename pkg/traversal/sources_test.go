package traversal

import (
	"testing"

	"github.com/helixdb/helixdb/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNFromIDAndNFromType(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()

	alice, err := eng.Store.AddNode(txn, "person", model.Properties{"name": model.String("alice")}, []string{"name"})
	require.NoError(t, err)
	_, err = eng.Store.AddNode(txn, "person", model.Properties{"name": model.String("bob")}, []string{"name"})
	require.NoError(t, err)
	_, err = eng.Store.AddNode(txn, "company", model.Properties{"name": model.String("acme")}, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	items, err := New(eng, rtx).NFromID(alice.ID).Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, alice.ID, items[0].ID())

	items, err = New(eng, rtx).NFromType("person").Collect()
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestNFromIndexLooksUpSecondaryKey(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	alice, err := eng.Store.AddNode(txn, "person", model.Properties{"name": model.String("alice")}, []string{"name"})
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()
	items, err := New(eng, rtx).NFromIndex("person", "name", model.String("alice")).Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, alice.ID, items[0].ID())
}

func TestEFromIDAndEFromType(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	alice, err := eng.Store.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)
	bob, err := eng.Store.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)
	e, err := eng.Store.AddEdge(txn, "knows", nil, alice.ID, bob.ID, model.EdgeTypeNode)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	items, err := New(eng, rtx).EFromID(e.ID).Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, err = New(eng, rtx).EFromType("knows").Collect()
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestAddNStartsSingleItemPipeline(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	defer txn.Discard()

	items, err := New(eng, txn).AddN("person", model.Properties{"name": model.String("carl")}, []string{"name"}).Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.TVNode, items[0].Kind)
}

func TestAddEConnectsTwoNodes(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	defer txn.Discard()

	alice, err := eng.Store.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)
	bob, err := eng.Store.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)

	items, err := New(eng, txn).AddE("knows", nil, alice.ID, bob.ID, false, model.EdgeTypeNode).Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.TVEdge, items[0].Kind)
	assert.Equal(t, alice.ID, items[0].Edge.From)
	assert.Equal(t, bob.ID, items[0].Edge.To)
}

func TestInsertVAndInsertVs(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	defer txn.Discard()

	items, err := New(eng, txn).InsertV([]float64{1, 0}, "doc", nil).Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.TVVector, items[0].Kind)

	items, err = New(eng, txn).InsertVs([][]float64{{0, 1}, {1, 1}}, "doc", nil).Collect()
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
