package traversal

import (
	"testing"

	"github.com/helixdb/helixdb/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdatePatchMergesProperties(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	defer txn.Discard()

	a, err := eng.Store.AddNode(txn, "person", model.Properties{"name": model.String("alice")}, nil)
	require.NoError(t, err)

	items, err := New(eng, txn).NFromID(a.ID).Update(model.Properties{"age": model.Integer(31)}).Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "alice", items[0].Node.Properties["name"].Str)
	assert.Equal(t, int64(31), items[0].Node.Properties["age"].Int)
}

func TestUpdateRejectsReadOnlyTxn(t *testing.T) {
	env, eng := openTestEngine(t)
	wtxn := env.WriteTxn()
	a, err := eng.Store.AddNode(wtxn, "person", nil, nil)
	require.NoError(t, err)
	require.NoError(t, wtxn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	p := New(eng, rtx).NFromID(a.ID).Update(model.Properties{"x": model.Integer(1)})
	require.Error(t, p.Err())
}

func TestDropTraversalDropsNodeAndIgnoresOtherKinds(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	defer txn.Discard()

	a, err := eng.Store.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)

	_, err = New(eng, txn).NFromID(a.ID).DropTraversal().Collect()
	require.NoError(t, err)

	_, err = eng.Store.GetNode(txn, a.ID)
	require.Error(t, err)

	items, err := FromSlice(eng, txn, []Item{model.TVFromValue(model.Empty)}).DropTraversal().Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestDropTraversalRejectsReadOnlyTxn(t *testing.T) {
	env, eng := openTestEngine(t)
	rtx := env.ReadTxn()
	defer rtx.Discard()

	p := New(eng, rtx).NFromType("person").DropTraversal()
	require.Error(t, p.Err())
}
