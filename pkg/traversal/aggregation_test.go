package traversal

import (
	"testing"

	"github.com/helixdb/helixdb/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountConsumesPipeline(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	for i := 0; i < 3; i++ {
		_, err := eng.Store.AddNode(txn, "person", nil, nil)
		require.NoError(t, err)
	}
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	n, err := New(eng, rtx).NFromType("person").Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
}

func TestExistShortCircuitsOnFirstItem(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	_, err := eng.Store.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	ok, err := New(eng, rtx).NFromType("person").Exist()
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = New(eng, rtx).NFromType("nonexistent").Exist()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMapTraversalTransformsItems(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	_, err := eng.Store.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	items, err := New(eng, rtx).NFromType("person").MapTraversal(func(_ *Pipeline, item Item) (Item, error) {
		return model.TVFromCount(1), nil
	}).Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.TVCount, items[0].Kind)
}

func TestMapTraversalMutRejectsReadOnlyTxn(t *testing.T) {
	env, eng := openTestEngine(t)
	rtx := env.ReadTxn()
	defer rtx.Discard()

	p := New(eng, rtx).NFromType("person").MapTraversalMut(func(_ *Pipeline, item Item) (Item, error) {
		return item, nil
	})
	require.Error(t, p.Err())
}
