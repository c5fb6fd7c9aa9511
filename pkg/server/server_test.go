package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/helixdb/helixdb/pkg/bm25"
	"github.com/helixdb/helixdb/pkg/config"
	"github.com/helixdb/helixdb/pkg/hnsw"
	"github.com/helixdb/helixdb/pkg/kv"
	"github.com/helixdb/helixdb/pkg/model"
	"github.com/helixdb/helixdb/pkg/storage"
	"github.com/helixdb/helixdb/pkg/traversal"
	"github.com/helixdb/helixdb/pkg/txn"
	"github.com/helixdb/helixdb/pkg/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	env, err := kv.Open(kv.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })

	store := storage.New()
	engine := &traversal.Engine{Store: store, BM25: bm25.New(store), HNSW: hnsw.New(store, hnsw.DefaultConfig())}
	graph := txn.NewGraph(env)

	pool := worker.New(graph, engine, config.WorkerConfig{Count: 2, QueueDepth: 8, PinCPU: false})
	pool.Register(worker.Handler{
		Name:     "add_person",
		Mutating: true,
		Run: func(p *traversal.Pipeline, body map[string]any) (any, error) {
			items, err := p.AddN("person", model.Properties{"name": model.String(body["name"].(string))}, nil).Collect()
			if err != nil {
				return nil, err
			}
			return items[0].ID(), nil
		},
	})
	pool.Register(worker.Handler{
		Name: "count_people",
		Run: func(p *traversal.Pipeline, _ map[string]any) (any, error) {
			return p.NFromType("person").Count()
		},
	})
	pool.Start()
	t.Cleanup(pool.Stop)

	cfg := DefaultConfig()
	return New(pool, store, graph, cfg)
}

func TestHandleQueryDispatchesToRegisteredHandler(t *testing.T) {
	s := setupTestServer(t)
	body, _ := json.Marshal(map[string]any{"name": "alice"})
	req := httptest.NewRequest(http.MethodPost, "/add_person", bytes.NewReader(body))
	w := httptest.NewRecorder()

	s.buildRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var id string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &id))
	assert.NotEmpty(t, id)
}

func TestHandleQueryUnknownNameReturnsNotFound(t *testing.T) {
	s := setupTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/nope", nil)
	w := httptest.NewRecorder()

	s.buildRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleNodeDetailsReturnsCreatedNode(t *testing.T) {
	s := setupTestServer(t)

	addBody, _ := json.Marshal(map[string]any{"name": "bob"})
	addReq := httptest.NewRequest(http.MethodPost, "/add_person", bytes.NewReader(addBody))
	addW := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(addW, addReq)
	require.Equal(t, http.StatusOK, addW.Code)
	var id string
	require.NoError(t, json.Unmarshal(addW.Body.Bytes(), &id))

	req := httptest.NewRequest(http.MethodGet, "/node-details?id="+id, nil)
	w := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var node model.Node
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &node))
	assert.Equal(t, "person", node.Label)
}

func TestHandleNodeDetailsMissingIDReturnsBadRequest(t *testing.T) {
	s := setupTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/node-details", nil)
	w := httptest.NewRecorder()

	s.buildRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleNodeDetailsUnknownIDReturnsNotFound(t *testing.T) {
	s := setupTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/node-details?id="+model.NewID().String(), nil)
	w := httptest.NewRecorder()

	s.buildRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleIntrospectListsRegisteredQueries(t *testing.T) {
	s := setupTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/introspect", nil)
	w := httptest.NewRecorder()

	s.buildRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var infos []worker.HandlerInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &infos))
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	assert.Contains(t, names, "add_person")
	assert.Contains(t, names, "count_people")
}

func TestHandleGraphvisReturnsHTML(t *testing.T) {
	s := setupTestServer(t)
	addBody, _ := json.Marshal(map[string]any{"name": "carol"})
	addReq := httptest.NewRequest(http.MethodPost, "/add_person", bytes.NewReader(addBody))
	s.buildRouter().ServeHTTP(httptest.NewRecorder(), addReq)

	req := httptest.NewRequest(http.MethodGet, "/graphvis", nil)
	w := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "carol")
}

func TestCorsMiddlewareSetsHeaders(t *testing.T) {
	s := setupTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/introspect", nil)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()

	s.buildRouter().ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
