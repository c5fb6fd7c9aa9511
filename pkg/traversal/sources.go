package traversal

import (
	"github.com/helixdb/helixdb/pkg/herrors"
	"github.com/helixdb/helixdb/pkg/model"
)

// idLookupIterator lazily decodes one entity per id, skipping any that
// have since been deleted (NotFound is swallowed rather than failing
// the whole scan, matching a label/index scan racing a concurrent
// drop within the same MVCC snapshot semantics).
type idLookupIterator struct {
	ids   []model.ID
	pos   int
	fetch func(model.ID) (Item, bool, error)
}

func (it *idLookupIterator) Next() (Item, bool, error) {
	for it.pos < len(it.ids) {
		id := it.ids[it.pos]
		it.pos++
		item, ok, err := it.fetch(id)
		if err != nil {
			return Item{}, false, err
		}
		if ok {
			return item, true, nil
		}
	}
	return Item{}, false, nil
}

func (p *Pipeline) nodeFetcher() func(model.ID) (Item, bool, error) {
	return func(id model.ID) (Item, bool, error) {
		n, err := p.engine.Store.GetNode(p.txn, id)
		if err != nil {
			if herrors.KindOf(err) == herrors.KindNotFound {
				return Item{}, false, nil
			}
			return Item{}, false, err
		}
		return model.TVFromNode(n), true, nil
	}
}

func (p *Pipeline) edgeFetcher() func(model.ID) (Item, bool, error) {
	return func(id model.ID) (Item, bool, error) {
		e, err := p.engine.Store.GetEdge(p.txn, id)
		if err != nil {
			if herrors.KindOf(err) == herrors.KindNotFound {
				return Item{}, false, nil
			}
			return Item{}, false, err
		}
		return model.TVFromEdge(e), true, nil
	}
}

func (p *Pipeline) vectorFetcher() func(model.ID) (Item, bool, error) {
	return func(id model.ID) (Item, bool, error) {
		v, err := p.engine.Store.GetVector(p.txn, id)
		if err != nil {
			if herrors.KindOf(err) == herrors.KindNotFound {
				return Item{}, false, nil
			}
			return Item{}, false, err
		}
		return model.TVFromVector(v), true, nil
	}
}

// NFromID starts a pipeline at the single node id, or an empty pipeline
// if it no longer exists.
func (p *Pipeline) NFromID(id model.ID) *Pipeline {
	return p.setSource(&idLookupIterator{ids: []model.ID{id}, fetch: p.nodeFetcher()})
}

// NFromType starts a pipeline over every node of label, in ascending id
// order (spec.md §4.3 "Sources preserve KV iteration order").
func (p *Pipeline) NFromType(label string) *Pipeline {
	var ids []model.ID
	if err := p.engine.Store.NodesByLabel(p.txn, label, func(id model.ID) (bool, error) {
		ids = append(ids, id)
		return true, nil
	}); err != nil {
		return p.fail(err)
	}
	return p.setSource(&idLookupIterator{ids: ids, fetch: p.nodeFetcher()})
}

// NFromIndex starts a pipeline over every node of label whose field
// property equals key (spec.md §4.3 n_from_index).
func (p *Pipeline) NFromIndex(label, field string, key model.Value) *Pipeline {
	var ids []model.ID
	if err := p.engine.Store.LookupIndex(p.txn, "node:"+label, field, key, func(id model.ID) (bool, error) {
		ids = append(ids, id)
		return true, nil
	}); err != nil {
		return p.fail(err)
	}
	return p.setSource(&idLookupIterator{ids: ids, fetch: p.nodeFetcher()})
}

// EFromID starts a pipeline at the single edge id.
func (p *Pipeline) EFromID(id model.ID) *Pipeline {
	return p.setSource(&idLookupIterator{ids: []model.ID{id}, fetch: p.edgeFetcher()})
}

// EFromType starts a pipeline over every edge of label.
func (p *Pipeline) EFromType(label string) *Pipeline {
	var ids []model.ID
	if err := p.engine.Store.EdgesByLabel(p.txn, label, func(id model.ID) (bool, error) {
		ids = append(ids, id)
		return true, nil
	}); err != nil {
		return p.fail(err)
	}
	return p.setSource(&idLookupIterator{ids: ids, fetch: p.edgeFetcher()})
}

// VFromID starts a pipeline at the single vector id.
func (p *Pipeline) VFromID(id model.ID) *Pipeline {
	return p.setSource(&idLookupIterator{ids: []model.ID{id}, fetch: p.vectorFetcher()})
}

// AddN creates a node and starts a (mutating) single-item pipeline over
// it, per spec.md §4.3 add_n.
func (p *Pipeline) AddN(label string, props model.Properties, indexedFields []string) *Pipeline {
	if p.err != nil {
		return p
	}
	n, err := p.engine.Store.AddNode(p.txn, label, props, indexedFields)
	if err != nil {
		return p.fail(err)
	}
	return p.setSource(&sliceIterator{items: []Item{model.TVFromNode(n)}})
}

// AddE creates an edge between from and to and starts a single-item
// pipeline over it (spec.md §4.3 add_e). isVectorEdge is accepted for
// symmetry with spec.md's signature but is redundant with edgeType,
// which already selects the endpoint table read by out/in_ hops.
func (p *Pipeline) AddE(label string, props model.Properties, from, to model.ID, isVectorEdge bool, edgeType model.EdgeType) *Pipeline {
	if p.err != nil {
		return p
	}
	e, err := p.engine.Store.AddEdge(p.txn, label, props, from, to, edgeType)
	if err != nil {
		return p.fail(err)
	}
	return p.setSource(&sliceIterator{items: []Item{model.TVFromEdge(e)}})
}

// InsertV inserts a vector and indexes it into HNSW, starting a
// single-item pipeline over it (spec.md §4.3 insert_v).
func (p *Pipeline) InsertV(query []float64, label string, props model.Properties) *Pipeline {
	if p.err != nil {
		return p
	}
	v, err := p.engine.Store.InsertVector(p.txn, label, query, props)
	if err != nil {
		return p.fail(err)
	}
	if p.engine.HNSW != nil {
		if err := p.engine.HNSW.Insert(p.txn, v.ID); err != nil {
			return p.fail(err)
		}
	}
	return p.setSource(&sliceIterator{items: []Item{model.TVFromVector(v)}})
}

// InsertVs batch-inserts several vectors sharing one property map,
// starting a pipeline over all of them (spec.md §4.3 insert_vs).
func (p *Pipeline) InsertVs(queries [][]float64, label string, props model.Properties) *Pipeline {
	if p.err != nil {
		return p
	}
	items := make([]Item, 0, len(queries))
	for _, q := range queries {
		v, err := p.engine.Store.InsertVector(p.txn, label, q, props)
		if err != nil {
			return p.fail(err)
		}
		if p.engine.HNSW != nil {
			if err := p.engine.HNSW.Insert(p.txn, v.ID); err != nil {
				return p.fail(err)
			}
		}
		items = append(items, model.TVFromVector(v))
	}
	return p.setSource(&sliceIterator{items: items})
}
