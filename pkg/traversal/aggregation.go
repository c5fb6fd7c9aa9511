package traversal

import "github.com/helixdb/helixdb/pkg/herrors"

// Count consumes the entire upstream and returns the number of items
// seen (spec.md §4.3 count, a terminal sink).
func (p *Pipeline) Count() (uint64, error) {
	if p.err != nil {
		return 0, p.err
	}
	var n uint64
	for {
		_, ok, err := p.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			return n, nil
		}
		n++
	}
}

// Exist returns true as soon as the upstream yields its first item
// (spec.md §4.3 exist(&mut): "returns true on first Ok"), without
// draining the rest of the pipeline.
func (p *Pipeline) Exist() (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	_, ok, err := p.Next()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// MapFunc transforms one item into another, with read access to the
// transaction through the Pipeline passed in.
type MapFunc func(p *Pipeline, item Item) (Item, error)

type mapIterator struct {
	p        *Pipeline
	upstream Iterator
	f        MapFunc
}

func (m *mapIterator) Next() (Item, bool, error) {
	item, ok, err := m.upstream.Next()
	if err != nil || !ok {
		return Item{}, ok, err
	}
	out, err := m.f(m.p, item)
	if err != nil {
		return Item{}, false, err
	}
	return out, true, nil
}

// MapTraversal applies f to every item, lazily (spec.md §4.3
// map_traversal).
func (p *Pipeline) MapTraversal(f MapFunc) *Pipeline {
	return p.chain(func(upstream Iterator) Iterator {
		return &mapIterator{p: p, upstream: upstream, f: f}
	})
}

// MapTraversalMut is map_traversal's write-only counterpart (spec.md
// §4.3 map_traversal_mut): f may mutate state through p.Txn(), so it is
// only valid on a mutating pipeline.
func (p *Pipeline) MapTraversalMut(f MapFunc) *Pipeline {
	if p.err == nil && p.txn != nil && !p.txn.Writable() {
		return p.fail(herrors.New(herrors.KindTransaction, "traversal.MapTraversalMut", errString("map_traversal_mut requires a write transaction")))
	}
	return p.MapTraversal(f)
}
