package bm25

import (
	"testing"

	"github.com/helixdb/helixdb/pkg/kv"
	"github.com/helixdb/helixdb/pkg/model"
	"github.com/helixdb/helixdb/pkg/storage"
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

func TestTokenize(t *testing.T) {
	toks := Tokenize("The Quick, brown FOX! a")
	assert.Equal(t, []string{"the", "quick", "brown", "fox"}, toks)
}

func TestIndexAndSearchFindsRelevantDoc(t *testing.T) {
	env := openTestEnv(t)
	st := storage.New()
	ix := New(st)

	docA, docB := model.NewID(), model.NewID()

	txn := env.WriteTxn()
	require.NoError(t, ix.IndexDoc(txn, docA, "the quick brown fox jumps over the lazy dog"))
	require.NoError(t, ix.IndexDoc(txn, docB, "completely unrelated text about cooking pasta"))
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()
	results, err := ix.Search(rtx, "fox dog", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, docA, results[0].ID)
}

func TestDeleteDocRemovesFromSearch(t *testing.T) {
	env := openTestEnv(t)
	st := storage.New()
	ix := New(st)
	doc := model.NewID()

	txn := env.WriteTxn()
	require.NoError(t, ix.IndexDoc(txn, doc, "unique searchable keyword"))
	require.NoError(t, txn.Commit())

	txn2 := env.WriteTxn()
	require.NoError(t, ix.DeleteDoc(txn2, doc))
	require.NoError(t, txn2.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()
	results, err := ix.Search(rtx, "unique searchable keyword", 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	stats, err := st.BM25Stats(rtx)
	require.NoError(t, err)
	assert.Zero(t, stats.N)
	assert.Zero(t, stats.TotalTokens)
}

func TestSearchTopKRespected(t *testing.T) {
	env := openTestEnv(t)
	st := storage.New()
	ix := New(st)

	txn := env.WriteTxn()
	for i := 0; i < 5; i++ {
		require.NoError(t, ix.IndexDoc(txn, model.NewID(), "shared keyword appears in every document"))
	}
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()
	results, err := ix.Search(rtx, "shared keyword", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchUnknownTermReturnsNoResults(t *testing.T) {
	env := openTestEnv(t)
	st := storage.New()
	ix := New(st)

	txn := env.WriteTxn()
	require.NoError(t, ix.IndexDoc(txn, model.NewID(), "hello world"))
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()
	results, err := ix.Search(rtx, "nonexistentterm", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
