package storage

import (
	"github.com/dgraph-io/ristretto/v2"

	"github.com/helixdb/helixdb/pkg/model"
)

// EntityCache is a decoded-entity cache sitting in front of the KV
// substrate, so a hot node/edge/vector body doesn't pay badger's
// decode cost on every hop (spec.md §4.3's iterator algebra re-fetches
// the same handful of popular nodes on every adjacency walk). Backed
// by ristretto, the same role the teacher's pkg/cache fills for parsed
// query plans, here applied to entity bodies instead.
//
// The cache is shared across every read and write transaction in the
// process, but a single entity can legitimately have different values
// under different MVCC snapshots (spec.md §5: "readers see a consistent
// snapshot taken at read_txn() time"). Keying purely by id would let one
// transaction's view stomp another's, so every cache slot also carries
// the Badger commit version (kv.Txn.GetWithVersion) the cached value was
// read at; a lookup only counts as a hit when the caller's own current
// version for that key matches. Storage.go only ever populates a slot
// from a read-only transaction (never from inside an in-flight write
// txn, whose Puts are only provisionally visible until Commit), so a
// transaction later Discard()ed can never leave a phantom value for
// other readers to pick up.
//
// A nil *EntityCache disables caching entirely; Store treats every
// cache call as optional, so tests and throwaway in-memory engines can
// skip it.
type EntityCache struct {
	nodes   *ristretto.Cache[model.ID, versionedNode]
	edges   *ristretto.Cache[model.ID, versionedEdge]
	vectors *ristretto.Cache[model.ID, versionedVector]
}

type versionedNode struct {
	version uint64
	node    *model.Node
}

type versionedEdge struct {
	version uint64
	edge    *model.Edge
}

type versionedVector struct {
	version uint64
	vector  *model.Vector
}

// CacheConfig sizes the three underlying ristretto caches.
type CacheConfig struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
}

// DefaultCacheConfig allows up to 64<<20 entries per entity kind (every
// entry costs 1, see NewEntityCache), generous enough for a single embedded process without needing its own env var
// knob (spec.md §6 doesn't name one).
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{NumCounters: 1e6, MaxCost: 64 << 20, BufferItems: 64}
}

// NewEntityCache builds the three underlying caches. Each decoded
// entity's cost is pegged at 1 regardless of size — HelixDB's entities
// are property maps and short vectors, not large blobs, so sizing by
// count rather than byte weight keeps this simple.
func NewEntityCache(cfg CacheConfig) (*EntityCache, error) {
	nodes, err := ristretto.NewCache(&ristretto.Config[model.ID, versionedNode]{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		return nil, err
	}
	edges, err := ristretto.NewCache(&ristretto.Config[model.ID, versionedEdge]{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		nodes.Close()
		return nil, err
	}
	vectors, err := ristretto.NewCache(&ristretto.Config[model.ID, versionedVector]{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		nodes.Close()
		edges.Close()
		return nil, err
	}
	return &EntityCache{nodes: nodes, edges: edges, vectors: vectors}, nil
}

// Close releases the underlying ristretto caches' background goroutines.
func (c *EntityCache) Close() {
	c.nodes.Close()
	c.edges.Close()
	c.vectors.Close()
}

func cloneProperties(p model.Properties) model.Properties {
	if p == nil {
		return nil
	}
	out := make(model.Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// cloneNode/cloneEdge/cloneVector give every GetNode/GetEdge/VectorCore
// caller a struct private to them, whether or not the value came from
// cache. Storage.Update* methods mutate the struct they get back
// in place before re-encoding it; without a defensive copy here, that
// mutation would corrupt a value other goroutines (or cache) still
// see.
func cloneNode(n *model.Node) *model.Node {
	cp := *n
	cp.Properties = cloneProperties(n.Properties)
	return &cp
}

func cloneEdge(e *model.Edge) *model.Edge {
	cp := *e
	cp.Properties = cloneProperties(e.Properties)
	return &cp
}

func cloneVector(v *model.Vector) *model.Vector {
	cp := *v
	cp.Properties = cloneProperties(v.Properties)
	if v.Data != nil {
		cp.Data = append([]float64(nil), v.Data...)
	}
	return &cp
}

// getNode returns a cache hit only when the stored entry's version
// matches the caller's current view of id (see EntityCache's doc
// comment) — a version mismatch is treated exactly like a miss.
func (c *EntityCache) getNode(id model.ID, version uint64) (*model.Node, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.nodes.Get(id)
	if !ok || v.version != version {
		return nil, false
	}
	return v.node, true
}

// putNode populates the cache. Callers must only do this from a
// read-only transaction — never from inside an in-flight write txn,
// whose own version tag (its read timestamp, not a real commit
// timestamp) could otherwise collide with a later, unrelated
// transaction's view if the write is ultimately discarded.
func (c *EntityCache) putNode(n *model.Node, version uint64) {
	if c == nil {
		return
	}
	c.nodes.Set(n.ID, versionedNode{version: version, node: n}, 1)
}

func (c *EntityCache) dropNode(id model.ID) {
	if c == nil {
		return
	}
	c.nodes.Del(id)
}

func (c *EntityCache) getEdge(id model.ID, version uint64) (*model.Edge, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.edges.Get(id)
	if !ok || v.version != version {
		return nil, false
	}
	return v.edge, true
}

func (c *EntityCache) putEdge(e *model.Edge, version uint64) {
	if c == nil {
		return
	}
	c.edges.Set(e.ID, versionedEdge{version: version, edge: e}, 1)
}

func (c *EntityCache) dropEdge(id model.ID) {
	if c == nil {
		return
	}
	c.edges.Del(id)
}

func (c *EntityCache) getVector(id model.ID, version uint64) (*model.Vector, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.vectors.Get(id)
	if !ok || v.version != version {
		return nil, false
	}
	return v.vector, true
}

func (c *EntityCache) putVector(v *model.Vector, version uint64) {
	if c == nil {
		return
	}
	c.vectors.Set(v.ID, versionedVector{version: version, vector: v}, 1)
}

func (c *EntityCache) dropVector(id model.ID) {
	if c == nil {
		return
	}
	c.vectors.Del(id)
}
