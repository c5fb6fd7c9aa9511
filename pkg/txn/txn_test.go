package txn

import (
	"testing"

	"github.com/helixdb/helixdb/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openEnv(t *testing.T) *kv.Env {
	t.Helper()
	env, err := kv.Open(kv.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func TestReadHandleBindIsReusable(t *testing.T) {
	g := NewGraph(openEnv(t))
	rh := g.ReadTxn()
	defer rh.Discard()

	assert.Same(t, rh.Bind(), rh.Bind())
}

func TestWriteHandleBindOnceSucceeds(t *testing.T) {
	g := NewGraph(openEnv(t))
	wh := g.WriteTxn()
	defer wh.Discard()

	tx, err := wh.Bind()
	require.NoError(t, err)
	require.NotNil(t, tx)
}

func TestWriteHandleSecondBindFails(t *testing.T) {
	g := NewGraph(openEnv(t))
	wh := g.WriteTxn()
	defer wh.Discard()

	_, err := wh.Bind()
	require.NoError(t, err)

	_, err = wh.Bind()
	require.Error(t, err)
}

func TestWriteHandleCommitWithoutBind(t *testing.T) {
	g := NewGraph(openEnv(t))
	wh := g.WriteTxn()
	require.NoError(t, wh.Commit())
}
