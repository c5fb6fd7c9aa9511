package storage

import (
	"github.com/helixdb/helixdb/pkg/codec"
	"github.com/helixdb/helixdb/pkg/herrors"
	"github.com/helixdb/helixdb/pkg/kv"
	"github.com/helixdb/helixdb/pkg/model"
)

// IndexDeleter is implemented by the BM25 full-text index (pkg/bm25).
// Storage calls DeleteDoc on drop_node/drop_edge so a removed entity
// stops surfacing in search_bm25 results, per spec.md §4.4.
type IndexDeleter interface {
	DeleteDoc(txn *kv.Txn, id model.ID) error
}

// Store is the durable entity and secondary-index layer. It has no
// mutable state of its own beyond the migration registry, the optional
// BM25 hook and the optional entity cache; all actual data lives in the kv.Env supplied to
// every method via an explicit transaction, so a Store is safe to share
// across goroutines (spec.md §4.1/§5: one write transaction at a time,
// enforced by pkg/kv, not by this layer).
type Store struct {
	migrations *model.MigrationRegistry
	fulltext   IndexDeleter // nil disables BM25 cascade-delete
	cache      *EntityCache // nil disables decoded-entity caching
}

// New returns a Store with an empty migration registry and no BM25
// hook. Use WithMigrations/WithFulltext/WithCache to wire them in.
func New() *Store {
	return &Store{migrations: model.NewMigrationRegistry()}
}

func (s *Store) WithMigrations(reg *model.MigrationRegistry) *Store {
	s.migrations = reg
	return s
}

func (s *Store) WithFulltext(ft IndexDeleter) *Store {
	s.fulltext = ft
	return s
}

// WithCache enables the decoded-entity cache for GetNode, GetEdge and
// VectorCore reads; the Update*/Drop* paths evict from it. GetVector
// always decodes from the KV store.
func (s *Store) WithCache(c *EntityCache) *Store {
	s.cache = c
	return s
}

// ---------------------------------------------------------------------
// Nodes
// ---------------------------------------------------------------------

// AddNode creates a node, writing its body, its nodes_by_label entry,
// and every declared secondary index whose field is present in props
// (spec.md §4.4 add_node).
func (s *Store) AddNode(txn *kv.Txn, label string, props model.Properties, indexedFields []string) (*model.Node, error) {
	n := &model.Node{
		ID:         model.NewID(),
		Label:      label,
		Properties: props,
		Version:    model.CurrentVersion,
	}
	if err := txn.Put(nodeKey(n.ID), codec.EncodeNodeBody(n)); err != nil {
		return nil, herrors.New(herrors.KindIO, "storage.AddNode", err)
	}
	if err := txn.Put(nodeByLabelKey(label, n.ID), nil); err != nil {
		return nil, herrors.New(herrors.KindIO, "storage.AddNode", err)
	}
	if err := s.indexFields(txn, "node:"+label, indexedFields, props, n.ID); err != nil {
		return nil, err
	}
	return n, nil
}

// GetNode fetches a node by id, applying any pending schema migration.
// Always returns a copy private to the caller, cached or not, so a
// caller that mutates it in place (UpdateNode) never corrupts the
// shared cache entry.
//
// The cache lookup is validated against the version this specific txn
// observes for id (not just keyed by id), so a transaction whose
// snapshot predates or postdates another's never gets handed the wrong
// one's cached value (see EntityCache's doc comment). The KV Get still
// runs on every call — what the cache actually saves is the decode and
// migration-upgrade cost on a hit, not the lookup itself.
func (s *Store) GetNode(txn *kv.Txn, id model.ID) (*model.Node, error) {
	raw, version, err := txn.GetWithVersion(nodeKey(id))
	if err != nil {
		return nil, herrors.New(herrors.KindNotFound, "storage.GetNode", err)
	}
	if n, ok := s.cache.getNode(id, version); ok {
		return cloneNode(n), nil
	}
	n, err := codec.DecodeNodeBody(id, raw)
	if err != nil {
		return nil, herrors.New(herrors.KindConversion, "storage.GetNode", err)
	}
	n.Properties, n.Version = s.migrations.Upgrade(n.Label, n.Version, n.Properties)
	// Only a read-only transaction's view is safe to cache: a write
	// txn's Get reflects its own uncommitted Put, tagged with that
	// txn's read timestamp rather than a real commit version, which
	// must never leak into the shared cache (see EntityCache's doc
	// comment).
	if !txn.Writable() {
		s.cache.putNode(n, version)
	}
	return cloneNode(n), nil
}

// NodesByLabel streams every node_by_label id for label in ascending id
// order (spec.md §4.3 n_from_type source).
func (s *Store) NodesByLabel(txn *kv.Txn, label string, fn func(model.ID) (bool, error)) error {
	prefix := nodeByLabelPrefix(label)
	return txn.PrefixIter(prefix, func(e kv.Entry) (bool, error) {
		id, err := model.IDFromBytes(e.Key[len(prefix):])
		if err != nil {
			return false, herrors.New(herrors.KindConversion, "storage.NodesByLabel", err)
		}
		return fn(id)
	})
}

// SampleNodes decodes up to limit nodes from the node table in key order,
// regardless of label. Used by the HTTP /graphvis route for a bounded
// preview; not exposed to any query pipeline since it ignores labels and
// indices entirely.
func (s *Store) SampleNodes(txn *kv.Txn, limit int) ([]*model.Node, error) {
	var out []*model.Node
	prefix := []byte{tableNodes}
	err := txn.PrefixIter(prefix, func(e kv.Entry) (bool, error) {
		if len(out) >= limit {
			return false, nil
		}
		id, err := model.IDFromBytes(e.Key[len(prefix):])
		if err != nil {
			return false, herrors.New(herrors.KindConversion, "storage.SampleNodes", err)
		}
		raw, err := e.Load()
		if err != nil {
			return false, herrors.New(herrors.KindIO, "storage.SampleNodes", err)
		}
		n, err := codec.DecodeNodeBody(id, raw)
		if err != nil {
			return false, herrors.New(herrors.KindConversion, "storage.SampleNodes", err)
		}
		n.Properties, n.Version = s.migrations.Upgrade(n.Label, n.Version, n.Properties)
		out = append(out, n)
		return true, nil
	})
	return out, err
}

// UpdateNode patch-merges patch into id's existing property map and
// refreshes indexedFields' secondary index rows (spec.md §4.3 update:
// "patch-merges into existing property map; maintains secondary
// indices").
func (s *Store) UpdateNode(txn *kv.Txn, id model.ID, patch model.Properties, indexedFields []string) (*model.Node, error) {
	n, err := s.GetNode(txn, id)
	if err != nil {
		return nil, err
	}
	if err := s.dropIndexedFields(txn, "node:"+n.Label, n.Properties, id); err != nil {
		return nil, err
	}
	n.Properties = n.Properties.Merge(patch)
	if err := txn.Put(nodeKey(id), codec.EncodeNodeBody(n)); err != nil {
		return nil, herrors.New(herrors.KindIO, "storage.UpdateNode", err)
	}
	if err := s.indexFields(txn, "node:"+n.Label, indexedFields, n.Properties, id); err != nil {
		return nil, err
	}
	// Evict rather than repopulate: n isn't guaranteed committed yet, so
	// caching it here could leave a phantom value behind a discarded
	// write. The next GetNode lazily refills from whatever actually
	// lands in the KV store.
	s.cache.dropNode(id)
	return n, nil
}

// DropNode removes a node and every edge incident to it (both
// directions), its label-scan row, and its secondary index rows,
// triggering a BM25 delete if a full-text hook is wired in. Invariant
// (spec.md §4.4/§9): "drop_node(n) ⇒ no row anywhere references n."
func (s *Store) DropNode(txn *kv.Txn, id model.ID) error {
	n, err := s.GetNode(txn, id)
	if err != nil {
		return err
	}

	var incident []model.ID
	if err := txn.PrefixIter(outEdgeAllPrefix(id), func(e kv.Entry) (bool, error) {
		incident = append(incident, edgeIDFromAdjacencyKey(e.Key))
		return true, nil
	}); err != nil {
		return herrors.New(herrors.KindIO, "storage.DropNode", err)
	}
	if err := txn.PrefixIter(inEdgeAllPrefix(id), func(e kv.Entry) (bool, error) {
		incident = append(incident, edgeIDFromAdjacencyKey(e.Key))
		return true, nil
	}); err != nil {
		return herrors.New(herrors.KindIO, "storage.DropNode", err)
	}
	for _, eid := range incident {
		if err := s.DropEdge(txn, eid); err != nil && herrors.KindOf(err) != herrors.KindNotFound {
			return err
		}
	}

	if err := txn.Delete(nodeKey(id)); err != nil {
		return herrors.New(herrors.KindIO, "storage.DropNode", err)
	}
	if err := txn.Delete(nodeByLabelKey(n.Label, id)); err != nil {
		return herrors.New(herrors.KindIO, "storage.DropNode", err)
	}
	if err := s.dropIndexedFields(txn, "node:"+n.Label, n.Properties, id); err != nil {
		return err
	}
	if s.fulltext != nil {
		if err := s.fulltext.DeleteDoc(txn, id); err != nil {
			return err
		}
	}
	s.cache.dropNode(id)
	return nil
}

// ---------------------------------------------------------------------
// Edges
// ---------------------------------------------------------------------

// AddEdge creates an edge between from and to, writing its body, its
// edges_by_label entry, and both adjacency rows (spec.md §4.4 add_edge).
// edgeType only affects which far-endpoint table a later out()/in_() hop
// reads from; storage itself does not validate that from/to exist in
// that table (the traversal hop surfaces a NotFound if they don't).
func (s *Store) AddEdge(txn *kv.Txn, label string, props model.Properties, from, to model.ID, edgeType model.EdgeType) (*model.Edge, error) {
	e := &model.Edge{
		ID:         model.NewID(),
		Label:      label,
		From:       from,
		To:         to,
		Properties: props,
		Version:    model.CurrentVersion,
	}
	if err := txn.Put(edgeKey(e.ID), codec.EncodeEdgeBody(e)); err != nil {
		return nil, herrors.New(herrors.KindIO, "storage.AddEdge", err)
	}
	if err := txn.Put(edgeByLabelKey(label, e.ID), nil); err != nil {
		return nil, herrors.New(herrors.KindIO, "storage.AddEdge", err)
	}
	if err := txn.Put(outEdgeKey(label, from, e.ID), to.Bytes()); err != nil {
		return nil, herrors.New(herrors.KindIO, "storage.AddEdge", err)
	}
	if err := txn.Put(inEdgeKey(label, to, e.ID), from.Bytes()); err != nil {
		return nil, herrors.New(herrors.KindIO, "storage.AddEdge", err)
	}
	return e, nil
}

// GetEdge fetches an edge by id, applying any pending schema migration.
// Always returns a private copy, cached or not (see GetNode).
func (s *Store) GetEdge(txn *kv.Txn, id model.ID) (*model.Edge, error) {
	raw, version, err := txn.GetWithVersion(edgeKey(id))
	if err != nil {
		return nil, herrors.New(herrors.KindNotFound, "storage.GetEdge", err)
	}
	if e, ok := s.cache.getEdge(id, version); ok {
		return cloneEdge(e), nil
	}
	e, err := codec.DecodeEdgeBody(id, raw)
	if err != nil {
		return nil, herrors.New(herrors.KindConversion, "storage.GetEdge", err)
	}
	e.Properties, e.Version = s.migrations.Upgrade(e.Label, e.Version, e.Properties)
	if !txn.Writable() {
		s.cache.putEdge(e, version)
	}
	return cloneEdge(e), nil
}

// EdgesByLabel streams every edges_by_label id for label in ascending id
// order (spec.md §4.3 e_from_type source).
func (s *Store) EdgesByLabel(txn *kv.Txn, label string, fn func(model.ID) (bool, error)) error {
	prefix := edgeByLabelPrefix(label)
	return txn.PrefixIter(prefix, func(e kv.Entry) (bool, error) {
		id, err := model.IDFromBytes(e.Key[len(prefix):])
		if err != nil {
			return false, herrors.New(herrors.KindConversion, "storage.EdgesByLabel", err)
		}
		return fn(id)
	})
}

// OutEdges scans out_edges[label, from] in edge-id order, yielding (edge
// id, to id) pairs without fetching the edge body (spec.md §4.3 out/out_e
// hops).
func (s *Store) OutEdges(txn *kv.Txn, label string, from model.ID, fn func(edgeID, to model.ID) (bool, error)) error {
	return txn.PrefixIter(outEdgePrefix(label, from), func(e kv.Entry) (bool, error) {
		to, err := model.IDFromBytes(mustLoad(e))
		if err != nil {
			return false, herrors.New(herrors.KindConversion, "storage.OutEdges", err)
		}
		return fn(edgeIDFromAdjacencyKey(e.Key), to)
	})
}

// InEdges scans in_edges[label, to] in edge-id order, yielding (edge id,
// from id) pairs (spec.md §4.3 in_/in_e hops).
func (s *Store) InEdges(txn *kv.Txn, label string, to model.ID, fn func(edgeID, from model.ID) (bool, error)) error {
	return txn.PrefixIter(inEdgePrefix(label, to), func(e kv.Entry) (bool, error) {
		from, err := model.IDFromBytes(mustLoad(e))
		if err != nil {
			return false, herrors.New(herrors.KindConversion, "storage.InEdges", err)
		}
		return fn(edgeIDFromAdjacencyKey(e.Key), from)
	})
}

func mustLoad(e kv.Entry) []byte {
	v, err := e.Load()
	if err != nil {
		return nil
	}
	return v
}

// UpdateEdge patch-merges patch into id's existing property map. Edge
// property maps carry no declared secondary indices in spec.md §3, so
// unlike UpdateNode there is nothing to re-index.
func (s *Store) UpdateEdge(txn *kv.Txn, id model.ID, patch model.Properties) (*model.Edge, error) {
	e, err := s.GetEdge(txn, id)
	if err != nil {
		return nil, err
	}
	e.Properties = e.Properties.Merge(patch)
	if err := txn.Put(edgeKey(id), codec.EncodeEdgeBody(e)); err != nil {
		return nil, herrors.New(herrors.KindIO, "storage.UpdateEdge", err)
	}
	s.cache.dropEdge(id)
	return e, nil
}

// DropEdge removes both adjacency rows and the edge body (spec.md §4.4
// drop_edge).
func (s *Store) DropEdge(txn *kv.Txn, id model.ID) error {
	e, err := s.GetEdge(txn, id)
	if err != nil {
		return err
	}
	if err := txn.Delete(outEdgeKey(e.Label, e.From, id)); err != nil {
		return herrors.New(herrors.KindIO, "storage.DropEdge", err)
	}
	if err := txn.Delete(inEdgeKey(e.Label, e.To, id)); err != nil {
		return herrors.New(herrors.KindIO, "storage.DropEdge", err)
	}
	if err := txn.Delete(edgeByLabelKey(e.Label, id)); err != nil {
		return herrors.New(herrors.KindIO, "storage.DropEdge", err)
	}
	if err := txn.Delete(edgeKey(id)); err != nil {
		return herrors.New(herrors.KindIO, "storage.DropEdge", err)
	}
	s.cache.dropEdge(id)
	return nil
}

// ---------------------------------------------------------------------
// Vectors
// ---------------------------------------------------------------------

// InsertVector creates a vector entry, splitting its body across the
// `vectors` and `vector_data` tables (spec.md §3's deliberate split) and
// recording it in vectors_by_label. The HNSW graph insertion itself is
// the caller's responsibility (pkg/hnsw), since it needs read access to
// other vectors of the same label to pick neighbors.
func (s *Store) InsertVector(txn *kv.Txn, label string, data []float64, props model.Properties) (*model.Vector, error) {
	v := &model.Vector{
		ID:         model.NewID(),
		Data:       data,
		Properties: props,
		Label:      label,
		Version:    model.CurrentVersion,
	}
	if err := txn.Put(vectorKey(v.ID), codec.EncodeVectorCore(v)); err != nil {
		return nil, herrors.New(herrors.KindIO, "storage.InsertVector", err)
	}
	if err := txn.Put(vectorDataKey(v.ID), codec.EncodeVectorData(props)); err != nil {
		return nil, herrors.New(herrors.KindIO, "storage.InsertVector", err)
	}
	if err := txn.Put(vectorByLabelKey(label, v.ID), nil); err != nil {
		return nil, herrors.New(herrors.KindIO, "storage.InsertVector", err)
	}
	return v, nil
}

// GetVector fetches the core vector plus its joined properties.
func (s *Store) GetVector(txn *kv.Txn, id model.ID) (*model.Vector, error) {
	raw, err := txn.Get(vectorKey(id))
	if err != nil {
		return nil, herrors.New(herrors.KindNotFound, "storage.GetVector", err)
	}
	v, err := codec.DecodeVectorCore(id, raw)
	if err != nil {
		return nil, herrors.New(herrors.KindConversion, "storage.GetVector", err)
	}
	rawProps, err := txn.Get(vectorDataKey(id))
	if err != nil && herrors.KindOf(err) != herrors.KindNotFound {
		return nil, herrors.New(herrors.KindIO, "storage.GetVector", err)
	}
	if rawProps != nil {
		props, err := codec.DecodeVectorData(rawProps)
		if err != nil {
			return nil, herrors.New(herrors.KindConversion, "storage.GetVector", err)
		}
		v.Properties, v.Version = s.migrations.Upgrade(v.Label, v.Version, props)
	}
	return v, nil
}

// VectorCore fetches only the `vectors` table row — no property join —
// for the hot path HNSW graph traversal walks (spec.md §3's reason for
// splitting the table in the first place). This is the one path the
// entity cache matters most for, since a single search_v call re-reads
// the same popular neighbors on every layer it descends.
func (s *Store) VectorCore(txn *kv.Txn, id model.ID) (*model.Vector, error) {
	raw, version, err := txn.GetWithVersion(vectorKey(id))
	if err != nil {
		return nil, herrors.New(herrors.KindNotFound, "storage.VectorCore", err)
	}
	if v, ok := s.cache.getVector(id, version); ok {
		return cloneVector(v), nil
	}
	v, err := codec.DecodeVectorCore(id, raw)
	if err != nil {
		return nil, herrors.New(herrors.KindConversion, "storage.VectorCore", err)
	}
	if !txn.Writable() {
		s.cache.putVector(v, version)
	}
	return cloneVector(v), nil
}

// UpdateVector patch-merges patch into a vector's property map, leaving
// its embedding and HNSW placement untouched — re-embedding a vector
// goes through insert_v instead (spec.md §3 Lifecycle: "mutated only by
// update or insert_v (for vectors)").
func (s *Store) UpdateVector(txn *kv.Txn, id model.ID, patch model.Properties) (*model.Vector, error) {
	v, err := s.GetVector(txn, id)
	if err != nil {
		return nil, err
	}
	v.Properties = v.Properties.Merge(patch)
	if err := txn.Put(vectorDataKey(id), codec.EncodeVectorData(v.Properties)); err != nil {
		return nil, herrors.New(herrors.KindIO, "storage.UpdateVector", err)
	}
	s.cache.dropVector(id)
	return v, nil
}

// DropVector flips the tombstone flag in the vector core rather than
// deleting it outright: HNSW neighbor lists are left in place and
// filtered at query time (spec.md §4.4 drop_vector, lazy deletion).
func (s *Store) DropVector(txn *kv.Txn, id model.ID) error {
	v, err := s.VectorCore(txn, id)
	if err != nil {
		return err
	}
	v.IsDeleted = true
	if err := txn.Put(vectorKey(id), codec.EncodeVectorCore(v)); err != nil {
		return herrors.New(herrors.KindIO, "storage.DropVector", err)
	}
	if s.fulltext != nil {
		if err := s.fulltext.DeleteDoc(txn, id); err != nil {
			return err
		}
	}
	s.cache.dropVector(id)
	return nil
}

// VectorsByLabel streams every vector id under label, including
// tombstoned ones — callers filter IsDeleted themselves (brute-force
// search and HNSW maintenance need to see tombstones for different
// reasons).
func (s *Store) VectorsByLabel(txn *kv.Txn, label string, fn func(model.ID) (bool, error)) error {
	prefix := vectorByLabelPrefix(label)
	return txn.PrefixIter(prefix, func(e kv.Entry) (bool, error) {
		id, err := model.IDFromBytes(e.Key[len(prefix):])
		if err != nil {
			return false, herrors.New(herrors.KindConversion, "storage.VectorsByLabel", err)
		}
		return fn(id)
	})
}

// ---------------------------------------------------------------------
// Secondary indices
// ---------------------------------------------------------------------

// indexFields writes one secondary_indices row per field in
// indexedFields that is present in props, under the given index
// namespace (spec.md §3 secondary_indices[name]).
func (s *Store) indexFields(txn *kv.Txn, namespace string, indexedFields []string, props model.Properties, id model.ID) error {
	for _, field := range indexedFields {
		val, ok := props[field]
		if !ok {
			continue
		}
		vb := codec.EncodeValue(nil, val)
		if err := txn.Put(secondaryIndexKey(namespace+"."+field, vb, id), nil); err != nil {
			return herrors.New(herrors.KindIndex, "storage.indexFields", err)
		}
	}
	return nil
}

func (s *Store) dropIndexedFields(txn *kv.Txn, namespace string, props model.Properties, id model.ID) error {
	for field, val := range props {
		vb := codec.EncodeValue(nil, val)
		key := secondaryIndexKey(namespace+"."+field, vb, id)
		has, err := txn.Has(key)
		if err != nil {
			return herrors.New(herrors.KindIO, "storage.dropIndexedFields", err)
		}
		if !has {
			continue
		}
		if err := txn.Delete(key); err != nil {
			return herrors.New(herrors.KindIndex, "storage.dropIndexedFields", err)
		}
	}
	return nil
}

// LookupIndex returns every id stored under namespace.field for the
// given value (spec.md §4.3 n_from_index source).
func (s *Store) LookupIndex(txn *kv.Txn, namespace, field string, val model.Value, fn func(model.ID) (bool, error)) error {
	vb := codec.EncodeValue(nil, val)
	prefix := secondaryIndexPrefix(namespace+"."+field, vb)
	return txn.PrefixIter(prefix, func(e kv.Entry) (bool, error) {
		id, err := model.IDFromBytes(e.Key[len(prefix):])
		if err != nil {
			return false, herrors.New(herrors.KindConversion, "storage.LookupIndex", err)
		}
		return fn(id)
	})
}
