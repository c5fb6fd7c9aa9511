// Package traversal is HelixDB's lazy pipeline algebra (spec.md §4.3): a
// single-threaded chain of typed iterator adapters over
// model.TraversalValue, bound to one transaction. A compiled query is a
// chain of calls against a *Pipeline; nothing runs until a terminal sink
// (Collect/Count/Exist) pulls.
//
// Grounded on nothing in the teacher directly — straga-Mimir_lite has no
// lazy iterator algebra, it runs eager Cypher pattern matches — so this
// package follows the shape of Go's own container/heap-adjacent
// "wrap an upstream Iterator" idiom the teacher's pkg/search hnsw/fulltext
// code uses for frontier expansion, generalized into a reusable chain.
package traversal

import (
	"github.com/helixdb/helixdb/pkg/bm25"
	"github.com/helixdb/helixdb/pkg/hnsw"
	"github.com/helixdb/helixdb/pkg/kv"
	"github.com/helixdb/helixdb/pkg/model"
	"github.com/helixdb/helixdb/pkg/storage"
)

// Item is the value type flowing between adapters.
type Item = model.TraversalValue

// Iterator is the upstream contract every adapter wraps: pull-based,
// yielding items one at a time until ok is false (exhausted) or err is
// non-nil (terminal failure). An error is never followed by a further
// item (spec.md §4.3 "Error propagation": errors pass downstream
// unchanged and fail the whole pipeline at the sink).
type Iterator interface {
	Next() (Item, bool, error)
}

// Engine bundles the shared, read-only-after-open collaborators every
// pipeline needs (spec.md §5 "Shared resources": "the graph handle is
// shared read-only across workers").
type Engine struct {
	Store *storage.Store
	BM25  *bm25.Index
	HNSW  *hnsw.Index
}

// Pipeline is the builder spec.md §4.3/§9 describes: it binds a
// transaction at its head and every subsequent call appends one adapter.
// A Pipeline built over a read-only txn is a read-only pipeline; one
// built over a write txn is a mutating pipeline — the distinction is
// enforced by kv.Txn itself (Put/Delete reject a read-only handle), not
// re-checked here except where an adapter is write-only by contract
// (filter_mut, update, drop_traversal, add_n/add_e/insert_v).
type Pipeline struct {
	engine *Engine
	txn    *kv.Txn
	it     Iterator
	err    error
}

// New starts an empty pipeline bound to txn. Call a source method
// (NFromID, NFromType, AddN, ...) before any hop/filter.
func New(engine *Engine, txn *kv.Txn) *Pipeline {
	return &Pipeline{engine: engine, txn: txn}
}

// Txn exposes the bound transaction, needed by map_traversal/
// map_traversal_mut callbacks per spec.md §4.3.
func (p *Pipeline) Txn() *kv.Txn { return p.txn }

// Engine exposes the shared collaborators, for adapters defined outside
// this package (map_traversal callbacks that themselves start a nested
// pipeline).
func (p *Pipeline) Engine() *Engine { return p.engine }

// Err returns the sticky error recorded by a failed adapter, if any.
func (p *Pipeline) Err() error { return p.err }

// fail records err and replaces the tail adapter with one that always
// returns it, short-circuiting every later Next call. This is how "an
// adapter yielding Err(e) passes it downstream unchanged" is realized:
// subsequent chained calls become no-ops once err is set.
func (p *Pipeline) fail(err error) *Pipeline {
	if p.err == nil {
		p.err = err
	}
	p.it = errIterator{err}
	return p
}

type errIterator struct{ err error }

func (e errIterator) Next() (Item, bool, error) { return Item{}, false, e.err }

// setSource installs it as the pipeline's first adapter. Sources call
// this instead of appending, since they have no upstream.
func (p *Pipeline) setSource(it Iterator) *Pipeline {
	if p.err != nil {
		return p
	}
	p.it = it
	return p
}

// chain appends a new tail adapter wrapping the current one, unless the
// pipeline has already failed.
func (p *Pipeline) chain(build func(upstream Iterator) Iterator) *Pipeline {
	if p.err != nil {
		return p
	}
	if p.it == nil {
		return p.fail(errNoSource)
	}
	p.it = build(p.it)
	return p
}

// Next pulls the next item from the pipeline's current tail adapter.
func (p *Pipeline) Next() (Item, bool, error) {
	if p.it == nil {
		return Item{}, false, p.err
	}
	return p.it.Next()
}

// Collect drains the pipeline into a slice, stopping at the first error.
func (p *Pipeline) Collect() ([]Item, error) {
	var out []Item
	for {
		item, ok, err := p.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, item)
	}
}

// sliceIterator replays a pre-materialized list. Used both by sources
// that can only be produced eagerly (an id lookup, an insert) and by
// FromSlice, which lets a read-only pipeline's materialized results seed
// a new mutating pipeline (spec.md §4.3: "a read-only pipeline may be
// extended from a previously materialized value list into a new
// mutating pipeline").
type sliceIterator struct {
	items []Item
	pos   int
}

func (s *sliceIterator) Next() (Item, bool, error) {
	if s.pos >= len(s.items) {
		return Item{}, false, nil
	}
	it := s.items[s.pos]
	s.pos++
	return it, true, nil
}

// FromSlice starts a new pipeline over txn whose source is a previously
// materialized item list.
func FromSlice(engine *Engine, txn *kv.Txn, items []Item) *Pipeline {
	return New(engine, txn).setSource(&sliceIterator{items: items})
}
