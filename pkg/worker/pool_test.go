package worker

import (
	"testing"

	"github.com/helixdb/helixdb/pkg/bm25"
	"github.com/helixdb/helixdb/pkg/config"
	"github.com/helixdb/helixdb/pkg/hnsw"
	"github.com/helixdb/helixdb/pkg/kv"
	"github.com/helixdb/helixdb/pkg/model"
	"github.com/helixdb/helixdb/pkg/storage"
	"github.com/helixdb/helixdb/pkg/traversal"
	"github.com/helixdb/helixdb/pkg/txn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestPool(t *testing.T, workers int) *Pool {
	t.Helper()
	env, err := kv.Open(kv.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })

	store := storage.New()
	engine := &traversal.Engine{
		Store: store,
		BM25:  bm25.New(store),
		HNSW:  hnsw.New(store, hnsw.DefaultConfig()),
	}
	graph := txn.NewGraph(env)

	p := New(graph, engine, config.WorkerConfig{Count: workers, QueueDepth: 8, PinCPU: false})
	p.Start()
	t.Cleanup(p.Stop)
	return p
}

func TestDispatchUnknownHandlerReturnsNotFound(t *testing.T) {
	p := openTestPool(t, 1)
	resp := p.Dispatch(Request{Name: "nope"})
	require.Error(t, resp.Err)
}

func TestDispatchMutatingHandlerCommits(t *testing.T) {
	p := openTestPool(t, 2)
	p.Register(Handler{
		Name:     "add_person",
		Mutating: true,
		Run: func(pl *traversal.Pipeline, body map[string]any) (any, error) {
			items, err := pl.AddN("person", model.Properties{"name": model.String(body["name"].(string))}, nil).Collect()
			if err != nil {
				return nil, err
			}
			return items[0].ID(), nil
		},
	})

	resp := p.Dispatch(Request{Name: "add_person", Body: map[string]any{"name": "alice"}})
	require.NoError(t, resp.Err)
	id, ok := resp.Result.(model.ID)
	require.True(t, ok)
	assert.False(t, id.IsNil())
}

func TestDispatchReadHandlerSeesCommittedWrites(t *testing.T) {
	p := openTestPool(t, 2)
	p.Register(Handler{
		Name:     "add_person",
		Mutating: true,
		Run: func(pl *traversal.Pipeline, body map[string]any) (any, error) {
			_, err := pl.AddN("person", nil, nil).Collect()
			return nil, err
		},
	})
	p.Register(Handler{
		Name: "count_people",
		Run: func(pl *traversal.Pipeline, _ map[string]any) (any, error) {
			return pl.NFromType("person").Count()
		},
	})

	for i := 0; i < 3; i++ {
		resp := p.Dispatch(Request{Name: "add_person"})
		require.NoError(t, resp.Err)
	}

	resp := p.Dispatch(Request{Name: "count_people"})
	require.NoError(t, resp.Err)
	assert.Equal(t, uint64(3), resp.Result)
}

func TestMutatingHandlerErrorAbortsTransaction(t *testing.T) {
	p := openTestPool(t, 1)
	p.Register(Handler{
		Name:     "add_then_fail",
		Mutating: true,
		Run: func(pl *traversal.Pipeline, _ map[string]any) (any, error) {
			if _, err := pl.AddN("person", nil, nil).Collect(); err != nil {
				return nil, err
			}
			return nil, assertErr{}
		},
	})
	p.Register(Handler{
		Name: "count_people",
		Run: func(pl *traversal.Pipeline, _ map[string]any) (any, error) {
			return pl.NFromType("person").Count()
		},
	})

	resp := p.Dispatch(Request{Name: "add_then_fail"})
	require.Error(t, resp.Err)

	resp = p.Dispatch(Request{Name: "count_people"})
	require.NoError(t, resp.Err)
	assert.Equal(t, uint64(0), resp.Result)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func TestDispatchAfterStopReturnsError(t *testing.T) {
	env, err := kv.Open(kv.Options{InMemory: true})
	require.NoError(t, err)
	defer env.Close()

	store := storage.New()
	engine := &traversal.Engine{Store: store, BM25: bm25.New(store), HNSW: hnsw.New(store, hnsw.DefaultConfig())}
	p := New(txn.NewGraph(env), engine, config.WorkerConfig{Count: 1, QueueDepth: 4})
	p.Start()
	p.Stop()

	resp := p.Dispatch(Request{Name: "whatever"})
	require.Error(t, resp.Err)
}
