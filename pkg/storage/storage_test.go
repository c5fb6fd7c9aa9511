package storage

import (
	"testing"

	"github.com/helixdb/helixdb/pkg/kv"
	"github.com/helixdb/helixdb/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestEnv(t *testing.T) *kv.Env {
	t.Helper()
	env, err := kv.Open(kv.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func TestAddNodeAndGetNode(t *testing.T) {
	env := openTestEnv(t)
	s := New()

	txn := env.WriteTxn()
	n, err := s.AddNode(txn, "person", model.Properties{"name": model.String("alice")}, []string{"name"})
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()
	out, err := s.GetNode(rtx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "person", out.Label)
	assert.Equal(t, "alice", out.Properties["name"].Str)
}

func TestNodesByLabelScan(t *testing.T) {
	env := openTestEnv(t)
	s := New()

	txn := env.WriteTxn()
	_, err := s.AddNode(txn, "person", model.Properties{"name": model.String("alice")}, nil)
	require.NoError(t, err)
	_, err = s.AddNode(txn, "person", model.Properties{"name": model.String("bob")}, nil)
	require.NoError(t, err)
	_, err = s.AddNode(txn, "company", model.Properties{"name": model.String("acme")}, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()
	var ids []model.ID
	err = s.NodesByLabel(rtx, "person", func(id model.ID) (bool, error) {
		ids = append(ids, id)
		return true, nil
	})
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestAddEdgeAndAdjacency(t *testing.T) {
	env := openTestEnv(t)
	s := New()

	txn := env.WriteTxn()
	p1, err := s.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)
	p2, err := s.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)
	e, err := s.AddEdge(txn, "knows", nil, p1.ID, p2.ID, model.EdgeTypeNode)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	var outTo []model.ID
	err = s.OutEdges(rtx, "knows", p1.ID, func(edgeID, to model.ID) (bool, error) {
		assert.Equal(t, e.ID, edgeID)
		outTo = append(outTo, to)
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []model.ID{p2.ID}, outTo)

	var inFrom []model.ID
	err = s.InEdges(rtx, "knows", p2.ID, func(edgeID, from model.ID) (bool, error) {
		inFrom = append(inFrom, from)
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []model.ID{p1.ID}, inFrom)
}

func TestEdgesByLabelScan(t *testing.T) {
	env := openTestEnv(t)
	s := New()

	txn := env.WriteTxn()
	p1, _ := s.AddNode(txn, "person", nil, nil)
	p2, _ := s.AddNode(txn, "person", nil, nil)
	_, err := s.AddEdge(txn, "knows", nil, p1.ID, p2.ID, model.EdgeTypeNode)
	require.NoError(t, err)
	_, err = s.AddEdge(txn, "likes", nil, p1.ID, p2.ID, model.EdgeTypeNode)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()
	var ids []model.ID
	err = s.EdgesByLabel(rtx, "knows", func(id model.ID) (bool, error) {
		ids = append(ids, id)
		return true, nil
	})
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestDropNodeCascadesEdges(t *testing.T) {
	env := openTestEnv(t)
	s := New()

	txn := env.WriteTxn()
	p1, err := s.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)
	p2, err := s.AddNode(txn, "person", nil, nil)
	require.NoError(t, err)
	_, err = s.AddEdge(txn, "knows", nil, p1.ID, p2.ID, model.EdgeTypeNode)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	txn2 := env.WriteTxn()
	require.NoError(t, s.DropNode(txn2, p1.ID))
	require.NoError(t, txn2.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	_, err = s.GetNode(rtx, p1.ID)
	require.Error(t, err)

	var seen int
	err = s.InEdges(rtx, "knows", p2.ID, func(model.ID, model.ID) (bool, error) {
		seen++
		return true, nil
	})
	require.NoError(t, err)
	assert.Zero(t, seen, "drop_node must leave no row referencing the dropped node")

	var persons []model.ID
	err = s.NodesByLabel(rtx, "person", func(id model.ID) (bool, error) {
		persons = append(persons, id)
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []model.ID{p2.ID}, persons)
}

func TestDropEdgeRemovesBothAdjacencyRows(t *testing.T) {
	env := openTestEnv(t)
	s := New()

	txn := env.WriteTxn()
	p1, _ := s.AddNode(txn, "person", nil, nil)
	p2, _ := s.AddNode(txn, "person", nil, nil)
	e, err := s.AddEdge(txn, "knows", nil, p1.ID, p2.ID, model.EdgeTypeNode)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	txn2 := env.WriteTxn()
	require.NoError(t, s.DropEdge(txn2, e.ID))
	require.NoError(t, txn2.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()
	var outCount, inCount int
	_ = s.OutEdges(rtx, "knows", p1.ID, func(model.ID, model.ID) (bool, error) { outCount++; return true, nil })
	_ = s.InEdges(rtx, "knows", p2.ID, func(model.ID, model.ID) (bool, error) { inCount++; return true, nil })
	assert.Zero(t, outCount)
	assert.Zero(t, inCount)
}

func TestInsertVectorSplitAcrossTables(t *testing.T) {
	env := openTestEnv(t)
	s := New()

	txn := env.WriteTxn()
	v, err := s.InsertVector(txn, "embedding", []float64{1, 2, 3}, model.Properties{"source": model.String("doc1")})
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	core, err := s.VectorCore(rtx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, core.Data)
	assert.Nil(t, core.Properties)

	full, err := s.GetVector(rtx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "doc1", full.Properties["source"].Str)
}

func TestDropVectorIsTombstoneNotDelete(t *testing.T) {
	env := openTestEnv(t)
	s := New()

	txn := env.WriteTxn()
	v, err := s.InsertVector(txn, "embedding", []float64{1, 2}, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	txn2 := env.WriteTxn()
	require.NoError(t, s.DropVector(txn2, v.ID))
	require.NoError(t, txn2.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()
	core, err := s.VectorCore(rtx, v.ID)
	require.NoError(t, err, "tombstoned vector core must still be readable")
	assert.True(t, core.IsDeleted)
}

func TestUpdateNodeMergesPropsAndReindexes(t *testing.T) {
	env := openTestEnv(t)
	s := New()

	txn := env.WriteTxn()
	n, err := s.AddNode(txn, "person", model.Properties{"email": model.String("old@x.com")}, []string{"email"})
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	txn2 := env.WriteTxn()
	_, err = s.UpdateNode(txn2, n.ID, model.Properties{"email": model.String("new@x.com")}, []string{"email"})
	require.NoError(t, err)
	require.NoError(t, txn2.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	out, err := s.GetNode(rtx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", out.Properties["email"].Str)

	var stale []model.ID
	err = s.LookupIndex(rtx, "node:person", "email", model.String("old@x.com"), func(id model.ID) (bool, error) {
		stale = append(stale, id)
		return true, nil
	})
	require.NoError(t, err)
	assert.Empty(t, stale, "update must drop the stale secondary index row")

	var fresh []model.ID
	err = s.LookupIndex(rtx, "node:person", "email", model.String("new@x.com"), func(id model.ID) (bool, error) {
		fresh = append(fresh, id)
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []model.ID{n.ID}, fresh)
}

func TestUpdateVectorLeavesEmbeddingUntouched(t *testing.T) {
	env := openTestEnv(t)
	s := New()

	txn := env.WriteTxn()
	v, err := s.InsertVector(txn, "embedding", []float64{1, 2, 3}, model.Properties{"source": model.String("a")})
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	txn2 := env.WriteTxn()
	_, err = s.UpdateVector(txn2, v.ID, model.Properties{"source": model.String("b")})
	require.NoError(t, err)
	require.NoError(t, txn2.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()
	out, err := s.GetVector(rtx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", out.Properties["source"].Str)
	assert.Equal(t, []float64{1, 2, 3}, out.Data)
}

func TestSecondaryIndexLookup(t *testing.T) {
	env := openTestEnv(t)
	s := New()

	txn := env.WriteTxn()
	n, err := s.AddNode(txn, "person", model.Properties{"email": model.String("a@x.com")}, []string{"email"})
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()
	var found []model.ID
	err = s.LookupIndex(rtx, "node:person", "email", model.String("a@x.com"), func(id model.ID) (bool, error) {
		found = append(found, id)
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []model.ID{n.ID}, found)
}
