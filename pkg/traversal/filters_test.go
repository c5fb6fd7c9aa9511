package traversal

import (
	"testing"

	"github.com/helixdb/helixdb/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterRefKeepsMatching(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()

	a, err := eng.Store.AddNode(txn, "person", model.Properties{"age": model.Integer(30)}, nil)
	require.NoError(t, err)
	_, err = eng.Store.AddNode(txn, "person", model.Properties{"age": model.Integer(20)}, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	items, err := New(eng, rtx).NFromType("person").FilterRef(func(item Item) (bool, error) {
		return item.Node.Properties["age"].Int >= 25, nil
	}).Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].ID())
}

func TestFilterMutRejectsReadOnlyTxn(t *testing.T) {
	env, eng := openTestEngine(t)
	rtx := env.ReadTxn()
	defer rtx.Discard()

	p := New(eng, rtx).NFromType("person").FilterMut(func(Item) (bool, error) { return true, nil })
	require.Error(t, p.Err())
}

func TestRangeSkipsThenEmits(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	for i := 0; i < 5; i++ {
		_, err := eng.Store.AddNode(txn, "person", nil, nil)
		require.NoError(t, err)
	}
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	items, err := New(eng, rtx).NFromType("person").Range(1, 3).Collect()
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRangeUnboundedEnd(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	for i := 0; i < 4; i++ {
		_, err := eng.Store.AddNode(txn, "person", nil, nil)
		require.NoError(t, err)
	}
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	items, err := New(eng, rtx).NFromType("person").Range(2, -1).Collect()
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestDedupPreservesFirstOccurrence(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	a, err := eng.Store.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	dup := []Item{model.TVFromNode(a), model.TVFromNode(a)}
	items, err := FromSlice(eng, rtx, dup).Dedup().Collect()
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestOrderByAscSortsByPropertyWithIDTieBreak(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	_, err := eng.Store.AddNode(txn, "person", model.Properties{"age": model.Integer(30)}, nil)
	require.NoError(t, err)
	young, err := eng.Store.AddNode(txn, "person", model.Properties{"age": model.Integer(10)}, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	items, err := New(eng, rtx).NFromType("person").OrderByAsc("age").Collect()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, young.ID, items[0].ID())
}

func TestCheckPropertyYieldsEmptyOnMissing(t *testing.T) {
	env, eng := openTestEngine(t)
	txn := env.WriteTxn()
	_, err := eng.Store.AddNode(txn, "person", model.Properties{"name": model.String("x")}, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	items, err := New(eng, rtx).NFromType("person").CheckProperty("missing").Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.Empty, items[0].Val)
}
