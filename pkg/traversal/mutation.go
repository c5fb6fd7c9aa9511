package traversal

import (
	"github.com/helixdb/helixdb/pkg/herrors"
	"github.com/helixdb/helixdb/pkg/model"
)

func (p *Pipeline) requireWritable(op string) error {
	if p.txn == nil || !p.txn.Writable() {
		return herrors.New(herrors.KindTransaction, op, errString(op+" requires a write transaction"))
	}
	return nil
}

type updateIterator struct {
	p        *Pipeline
	upstream Iterator
	props    model.Properties
}

func (u *updateIterator) Next() (Item, bool, error) {
	item, ok, err := u.upstream.Next()
	if err != nil || !ok {
		return Item{}, ok, err
	}
	store := u.p.engine.Store
	switch item.Kind {
	case model.TVNode:
		n, err := store.UpdateNode(u.p.txn, item.Node.ID, u.props, nil)
		if err != nil {
			return Item{}, false, err
		}
		return model.TVFromNode(n), true, nil
	case model.TVEdge:
		e, err := store.UpdateEdge(u.p.txn, item.Edge.ID, u.props)
		if err != nil {
			return Item{}, false, err
		}
		return model.TVFromEdge(e), true, nil
	case model.TVVector:
		v, err := store.UpdateVector(u.p.txn, item.Vec.ID, u.props)
		if err != nil {
			return Item{}, false, err
		}
		return model.TVFromVector(v), true, nil
	default:
		return Item{}, false, herrors.New(herrors.KindInvalidInput, "traversal.Update", errString("update() requires a node, edge, or vector item"))
	}
}

// Update patch-merges props into every upstream entity's property map,
// re-fetching the freshly merged entity as the new item (spec.md §4.3
// update). Node index maintenance declares no fields to re-index since
// the upstream doesn't carry the original indexed_fields list; a caller
// needing reindexing on update should follow with a fresh n_from_index
// lookup, or the compiled query layer can thread indexed_fields through
// when it knows the label's schema.
func (p *Pipeline) Update(props model.Properties) *Pipeline {
	if p.err == nil {
		if err := p.requireWritable("traversal.Update"); err != nil {
			return p.fail(err)
		}
	}
	return p.chain(func(upstream Iterator) Iterator {
		return &updateIterator{p: p, upstream: upstream, props: props}
	})
}

type dropIterator struct {
	p        *Pipeline
	upstream Iterator
}

func (d *dropIterator) Next() (Item, bool, error) {
	for {
		item, ok, err := d.upstream.Next()
		if err != nil || !ok {
			return Item{}, ok, err
		}
		store := d.p.engine.Store
		switch item.Kind {
		case model.TVNode:
			if err := store.DropNode(d.p.txn, item.Node.ID); err != nil {
				return Item{}, false, err
			}
		case model.TVEdge:
			if err := store.DropEdge(d.p.txn, item.Edge.ID); err != nil {
				return Item{}, false, err
			}
		case model.TVVector:
			if err := store.DropVector(d.p.txn, item.Vec.ID); err != nil {
				return Item{}, false, err
			}
		default:
			// Value/Empty/Count/Path items are ignored, per spec.md §4.3
			// drop_traversal: "ignores Value/Empty".
		}
		return item, true, nil
	}
}

// DropTraversal drops whatever entity kind each upstream item is —
// node, edge, or vector — ignoring Value/Empty/Count/Path items (spec.md
// §4.3 drop_traversal).
func (p *Pipeline) DropTraversal() *Pipeline {
	if p.err == nil {
		if err := p.requireWritable("traversal.DropTraversal"); err != nil {
			return p.fail(err)
		}
	}
	return p.chain(func(upstream Iterator) Iterator {
		return &dropIterator{p: p, upstream: upstream}
	})
}
