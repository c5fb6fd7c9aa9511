package traversal

import (
	"github.com/helixdb/helixdb/pkg/herrors"
	"github.com/helixdb/helixdb/pkg/model"
)

// flatMapIterator expands each upstream item into zero or more
// downstream items, buffering only the current item's expansion — the
// hop adapters (spec.md §4.3 out/in_/out_e/in_e) are all instances of
// this shape.
type flatMapIterator struct {
	upstream Iterator
	expand   func(Item) ([]Item, error)
	queue    []Item
	qpos     int
}

func (f *flatMapIterator) Next() (Item, bool, error) {
	for {
		if f.qpos < len(f.queue) {
			it := f.queue[f.qpos]
			f.qpos++
			return it, true, nil
		}
		up, ok, err := f.upstream.Next()
		if err != nil {
			return Item{}, false, err
		}
		if !ok {
			return Item{}, false, nil
		}
		expanded, err := f.expand(up)
		if err != nil {
			return Item{}, false, err
		}
		f.queue = expanded
		f.qpos = 0
	}
}

func (p *Pipeline) endpointFetcher(edgeType model.EdgeType) func(model.ID) (Item, bool, error) {
	if edgeType == model.EdgeTypeVector {
		return p.vectorFetcher()
	}
	return p.nodeFetcher()
}

// Out expands every upstream node through out_edges[edgeLabel], fetching
// the far endpoint from the table edgeType selects (spec.md §4.3 out).
// Edge-id order within one (node, edgeLabel) group is preserved; chained
// hops flatten depth-first because flatMapIterator only ever holds one
// upstream item's expansion at a time.
func (p *Pipeline) Out(edgeLabel string, edgeType model.EdgeType) *Pipeline {
	fetch := p.endpointFetcher(edgeType)
	return p.chain(func(upstream Iterator) Iterator {
		return &flatMapIterator{upstream: upstream, expand: func(item Item) ([]Item, error) {
			if item.Kind != model.TVNode {
				return nil, herrors.New(herrors.KindInvalidInput, "traversal.Out", errString("out() requires a node upstream"))
			}
			var out []Item
			err := p.engine.Store.OutEdges(p.txn, edgeLabel, item.Node.ID, func(_ model.ID, to model.ID) (bool, error) {
				endpoint, ok, err := fetch(to)
				if err != nil {
					return false, err
				}
				if ok {
					out = append(out, endpoint)
				}
				return true, nil
			})
			return out, err
		}}
	})
}

// In_ is the mirror of Out over in_edges (spec.md §4.3 in_).
func (p *Pipeline) In_(edgeLabel string, edgeType model.EdgeType) *Pipeline {
	fetch := p.endpointFetcher(edgeType)
	return p.chain(func(upstream Iterator) Iterator {
		return &flatMapIterator{upstream: upstream, expand: func(item Item) ([]Item, error) {
			if item.Kind != model.TVNode {
				return nil, herrors.New(herrors.KindInvalidInput, "traversal.In_", errString("in_() requires a node upstream"))
			}
			var out []Item
			err := p.engine.Store.InEdges(p.txn, edgeLabel, item.Node.ID, func(_ model.ID, from model.ID) (bool, error) {
				endpoint, ok, err := fetch(from)
				if err != nil {
					return false, err
				}
				if ok {
					out = append(out, endpoint)
				}
				return true, nil
			})
			return out, err
		}}
	})
}

// OutE expands every upstream node into the edge entities themselves
// (spec.md §4.3 out_e), rather than their far endpoints.
func (p *Pipeline) OutE(edgeLabel string) *Pipeline {
	return p.chain(func(upstream Iterator) Iterator {
		return &flatMapIterator{upstream: upstream, expand: func(item Item) ([]Item, error) {
			if item.Kind != model.TVNode {
				return nil, herrors.New(herrors.KindInvalidInput, "traversal.OutE", errString("out_e() requires a node upstream"))
			}
			var out []Item
			err := p.engine.Store.OutEdges(p.txn, edgeLabel, item.Node.ID, func(edgeID model.ID, _ model.ID) (bool, error) {
				e, ok, err := p.edgeFetcher()(edgeID)
				if err != nil {
					return false, err
				}
				if ok {
					out = append(out, e)
				}
				return true, nil
			})
			return out, err
		}}
	})
}

// InE is the mirror of OutE over in_edges (spec.md §4.3 in_e).
func (p *Pipeline) InE(edgeLabel string) *Pipeline {
	return p.chain(func(upstream Iterator) Iterator {
		return &flatMapIterator{upstream: upstream, expand: func(item Item) ([]Item, error) {
			if item.Kind != model.TVNode {
				return nil, herrors.New(herrors.KindInvalidInput, "traversal.InE", errString("in_e() requires a node upstream"))
			}
			var out []Item
			err := p.engine.Store.InEdges(p.txn, edgeLabel, item.Node.ID, func(edgeID model.ID, _ model.ID) (bool, error) {
				e, ok, err := p.edgeFetcher()(edgeID)
				if err != nil {
					return false, err
				}
				if ok {
					out = append(out, e)
				}
				return true, nil
			})
			return out, err
		}}
	})
}

func (p *Pipeline) edgeEndpoint(who string, fetch func(model.ID) (Item, bool, error), pick func(*model.Edge) model.ID) *Pipeline {
	return p.chain(func(upstream Iterator) Iterator {
		return &flatMapIterator{upstream: upstream, expand: func(item Item) ([]Item, error) {
			if item.Kind != model.TVEdge {
				return nil, herrors.New(herrors.KindInvalidInput, "traversal."+who, errString(who+"() requires an edge upstream"))
			}
			endpoint, ok, err := fetch(pick(item.Edge))
			if err != nil || !ok {
				return nil, err
			}
			return []Item{endpoint}, nil
		}}
	})
}

// FromN resolves an edge's From endpoint as a node (spec.md §4.3 from_n).
func (p *Pipeline) FromN() *Pipeline {
	return p.edgeEndpoint("FromN", p.nodeFetcher(), func(e *model.Edge) model.ID { return e.From })
}

// ToN resolves an edge's To endpoint as a node (spec.md §4.3 to_n).
func (p *Pipeline) ToN() *Pipeline {
	return p.edgeEndpoint("ToN", p.nodeFetcher(), func(e *model.Edge) model.ID { return e.To })
}

// FromV resolves an edge's From endpoint as a vector (spec.md §4.3 from_v).
func (p *Pipeline) FromV() *Pipeline {
	return p.edgeEndpoint("FromV", p.vectorFetcher(), func(e *model.Edge) model.ID { return e.From })
}

// ToV resolves an edge's To endpoint as a vector (spec.md §4.3 to_v).
func (p *Pipeline) ToV() *Pipeline {
	return p.edgeEndpoint("ToV", p.vectorFetcher(), func(e *model.Edge) model.ID { return e.To })
}
