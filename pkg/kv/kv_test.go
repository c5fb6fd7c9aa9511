package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestEnv(t *testing.T) *Env {
	t.Helper()
	env, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func TestPutGetCommitVisibility(t *testing.T) {
	env := openTestEnv(t)

	wtx := env.WriteTxn()
	require.NoError(t, wtx.Put([]byte("k1"), []byte("v1")))
	require.NoError(t, wtx.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()
	v, err := rtx.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)
}

func TestGetNotFound(t *testing.T) {
	env := openTestEnv(t)
	rtx := env.ReadTxn()
	defer rtx.Discard()
	_, err := rtx.Get([]byte("missing"))
	require.Error(t, err)
}

func TestReadSnapshotIsolation(t *testing.T) {
	env := openTestEnv(t)

	wtx := env.WriteTxn()
	require.NoError(t, wtx.Put([]byte("a"), []byte("1")))
	require.NoError(t, wtx.Commit())

	rtx := env.ReadTxn() // snapshot taken here
	defer rtx.Discard()

	wtx2 := env.WriteTxn()
	require.NoError(t, wtx2.Put([]byte("a"), []byte("2")))
	require.NoError(t, wtx2.Commit())

	v, err := rtx.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v, "reader snapshot must not see post-snapshot writes")
}

func TestPrefixIterOrderAndEarlyStop(t *testing.T) {
	env := openTestEnv(t)

	wtx := env.WriteTxn()
	for _, k := range []string{"p:a", "p:b", "p:c", "q:z"} {
		require.NoError(t, wtx.Put([]byte(k), []byte(k)))
	}
	require.NoError(t, wtx.Commit())

	rtx := env.ReadTxn()
	defer rtx.Discard()

	var seen []string
	err := rtx.PrefixIter([]byte("p:"), func(e Entry) (bool, error) {
		seen = append(seen, string(e.Key))
		return len(seen) < 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"p:a", "p:b"}, seen)
}

func TestDiscardedWriteTxnDoesNotPersist(t *testing.T) {
	env := openTestEnv(t)

	wtx := env.WriteTxn()
	require.NoError(t, wtx.Put([]byte("ghost"), []byte("x")))
	wtx.Discard()

	rtx := env.ReadTxn()
	defer rtx.Discard()
	_, err := rtx.Get([]byte("ghost"))
	require.Error(t, err)
}

func TestReadTxnRejectsWrites(t *testing.T) {
	env := openTestEnv(t)
	rtx := env.ReadTxn()
	defer rtx.Discard()
	err := rtx.Put([]byte("k"), []byte("v"))
	require.Error(t, err)
}
