package hnsw

import (
	"fmt"
	"math"
	"math/rand"
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

func insertVec(t *testing.T, env *kv.Env, st *storage.Store, idx *Index, data []float64) model.ID {
	t.Helper()
	txn := env.WriteTxn()
	v, err := st.InsertVector(txn, "embedding", data, nil)
	require.NoError(t, err)
	require.NoError(t, idx.Insert(txn, v.ID))
	require.NoError(t, txn.Commit())
	return v.ID
}

func TestInsertAndSearchFindsNearest(t *testing.T) {
	env := openTestEnv(t)
	st := storage.New()
	idx := New(st, DefaultConfig())

	target := insertVec(t, env, st, idx, []float64{1, 0, 0})
	_ = insertVec(t, env, st, idx, []float64{0, 1, 0})
	_ = insertVec(t, env, st, idx, []float64{0, 0, 1})
	_ = insertVec(t, env, st, idx, []float64{-1, 0, 0})

	rtx := env.ReadTxn()
	defer rtx.Discard()
	results, err := idx.Search(rtx, []float64{0.9, 0.1, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, target, results[0].ID)
}

func TestSearchRespectsTombstoneFilter(t *testing.T) {
	env := openTestEnv(t)
	st := storage.New()
	idx := New(st, DefaultConfig())

	target := insertVec(t, env, st, idx, []float64{1, 0, 0})
	_ = insertVec(t, env, st, idx, []float64{0, 1, 0})

	txn := env.WriteTxn()
	require.NoError(t, st.DropVector(txn, target))
	require.NoError(t, txn.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()
	results, err := idx.Search(rtx, []float64{1, 0, 0}, 5, DefaultTombstoneFilter)
	require.NoError(t, err)
	for _, r := range results {
		assert.NotEqual(t, target, r.ID, "tombstoned vector must not appear in filtered results")
	}
}

func TestSearchEmptyGraphReturnsNoResults(t *testing.T) {
	env := openTestEnv(t)
	st := storage.New()
	idx := New(st, DefaultConfig())

	rtx := env.ReadTxn()
	defer rtx.Discard()
	results, err := idx.Search(rtx, []float64{1, 0}, 5, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRecallAgainstBruteForce(t *testing.T) {
	env := openTestEnv(t)
	st := storage.New()
	idx := New(st, DefaultConfig())

	rng := rand.New(rand.NewSource(42))
	const n = 200
	const dims = 8
	ids := make([]model.ID, n)
	vecs := make([][]float64, n)
	for i := 0; i < n; i++ {
		v := make([]float64, dims)
		for d := range v {
			v[d] = rng.Float64()*2 - 1
		}
		vecs[i] = v
		ids[i] = insertVec(t, env, st, idx, v)
	}

	query := make([]float64, dims)
	for d := range query {
		query[d] = rng.Float64()*2 - 1
	}

	type scored struct {
		id   model.ID
		dist float64
	}
	bruteForce := make([]scored, n)
	for i := range vecs {
		bruteForce[i] = scored{id: ids[i], dist: cosineDistance(query, vecs[i])}
	}
	for i := 0; i < len(bruteForce); i++ {
		for j := i + 1; j < len(bruteForce); j++ {
			if bruteForce[j].dist < bruteForce[i].dist {
				bruteForce[i], bruteForce[j] = bruteForce[j], bruteForce[i]
			}
		}
	}
	const k = 10
	truth := make(map[model.ID]bool, k)
	for _, s := range bruteForce[:k] {
		truth[s.id] = true
	}

	rtx := env.ReadTxn()
	defer rtx.Discard()
	results, err := idx.Search(rtx, query, k, nil)
	require.NoError(t, err)

	hits := 0
	for _, r := range results {
		if truth[r.ID] {
			hits++
		}
	}
	assert.GreaterOrEqual(t, hits, int(0.9*float64(k)), fmt.Sprintf("recall too low: %d/%d", hits, k))
}

func cosineDistance(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
