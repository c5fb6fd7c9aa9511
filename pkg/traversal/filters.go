package traversal

import (
	"sort"

	"github.com/helixdb/helixdb/pkg/herrors"
	"github.com/helixdb/helixdb/pkg/model"
)

// Predicate is a filter callback; an error is treated as a failed item
// (spec.md §4.3: "a filter predicate's error is equivalent to a failed
// item and surfaces at collection").
type Predicate func(Item) (bool, error)

type filterIterator struct {
	upstream Iterator
	keep     Predicate
}

func (f *filterIterator) Next() (Item, bool, error) {
	for {
		item, ok, err := f.upstream.Next()
		if err != nil || !ok {
			return Item{}, ok, err
		}
		pass, err := f.keep(item)
		if err != nil {
			return Item{}, false, err
		}
		if pass {
			return item, true, nil
		}
	}
}

// FilterRef keeps only items for which pred returns true. Valid on any
// pipeline (spec.md §4.3 filter_ref).
func (p *Pipeline) FilterRef(pred Predicate) *Pipeline {
	return p.chain(func(upstream Iterator) Iterator {
		return &filterIterator{upstream: upstream, keep: pred}
	})
}

// FilterMut is filter_ref's write-only counterpart (spec.md §4.3
// filter_mut): pred may mutate state through p.Txn(), so it is only
// valid on a mutating pipeline.
func (p *Pipeline) FilterMut(pred Predicate) *Pipeline {
	if p.err == nil && p.txn != nil && !p.txn.Writable() {
		return p.fail(herrors.New(herrors.KindTransaction, "traversal.FilterMut", errString("filter_mut requires a write transaction")))
	}
	return p.FilterRef(pred)
}

type rangeIterator struct {
	upstream   Iterator
	start, end int
	pos        int
}

func (r *rangeIterator) Next() (Item, bool, error) {
	for r.pos < r.start {
		_, ok, err := r.upstream.Next()
		if err != nil || !ok {
			return Item{}, ok, err
		}
		r.pos++
	}
	if r.end >= 0 && r.pos >= r.end {
		return Item{}, false, nil
	}
	item, ok, err := r.upstream.Next()
	if err != nil || !ok {
		return Item{}, ok, err
	}
	r.pos++
	return item, true, nil
}

// Range emits items in the half-open interval [start, end), skipping
// the first start items (spec.md §4.3 range: "half-open, skips then
// emits"). end < 0 means unbounded.
func (p *Pipeline) Range(start, end int) *Pipeline {
	return p.chain(func(upstream Iterator) Iterator {
		return &rangeIterator{upstream: upstream, start: start, end: end}
	})
}

// dedupKey computes the identity dedup compares on: entity kind uses
// ID(), Value uses its JSON-like Any() representation, Path uses the
// joined id sequence. Count has no natural identity and is left
// unnormalized (two Count items are equal only if numerically equal).
func dedupKey(item Item) any {
	switch item.Kind {
	case model.TVNode, model.TVEdge, model.TVVector:
		return item.ID()
	case model.TVValue:
		return item.Val.Any()
	case model.TVPath:
		var key string
		for _, id := range item.Path {
			key += id.String() + "|"
		}
		return key
	case model.TVCount:
		return item.Count
	default:
		return nil
	}
}

type dedupIterator struct {
	upstream Iterator
	seen     map[any]bool
}

func (d *dedupIterator) Next() (Item, bool, error) {
	for {
		item, ok, err := d.upstream.Next()
		if err != nil || !ok {
			return Item{}, ok, err
		}
		key := dedupKey(item)
		if d.seen[key] {
			continue
		}
		d.seen[key] = true
		return item, true, nil
	}
}

// Dedup drops items whose dedup key has already been emitted, preserving
// first occurrence (spec.md §4.3 dedup).
func (p *Pipeline) Dedup() *Pipeline {
	return p.chain(func(upstream Iterator) Iterator {
		return &dedupIterator{upstream: upstream, seen: make(map[any]bool)}
	})
}

func propertyOf(item Item) model.Properties {
	switch item.Kind {
	case model.TVNode:
		return item.Node.Properties
	case model.TVEdge:
		return item.Edge.Properties
	case model.TVVector:
		return item.Vec.Properties
	default:
		return nil
	}
}

// orderByIterator materializes its entire upstream, then sorts by the
// named property with a stable id tie-break (spec.md §4.3 order_by_*:
// "materializes and sorts by a single property with stable tie-break on
// id").
type orderByIterator struct {
	items []Item
	pos   int
}

func (o *orderByIterator) Next() (Item, bool, error) {
	if o.pos >= len(o.items) {
		return Item{}, false, nil
	}
	it := o.items[o.pos]
	o.pos++
	return it, true, nil
}

func (p *Pipeline) orderBy(prop string, desc bool) *Pipeline {
	if p.err != nil {
		return p
	}
	items, err := p.Collect()
	if err != nil {
		return p.fail(err)
	}
	less := func(i, j int) bool {
		vi := propertyOf(items[i])[prop]
		vj := propertyOf(items[j])[prop]
		c := compareValues(vi, vj)
		if c != 0 {
			if desc {
				return c > 0
			}
			return c < 0
		}
		return items[i].ID().Less(items[j].ID())
	}
	sort.SliceStable(items, less)
	return p.setSource(&orderByIterator{items: items})
}

// OrderByAsc sorts the materialized upstream ascending by prop (spec.md
// §4.3 order_by_asc).
func (p *Pipeline) OrderByAsc(prop string) *Pipeline { return p.orderBy(prop, false) }

// OrderByDesc sorts the materialized upstream descending by prop
// (spec.md §4.3 order_by_desc).
func (p *Pipeline) OrderByDesc(prop string) *Pipeline { return p.orderBy(prop, true) }

// compareValues orders two property Values for sort purposes: numeric
// kinds compare numerically, everything else falls back to string
// comparison of their Any() representation. Mismatched kinds (e.g.
// comparing a String to an Integer because the property is absent on
// some items) are ordered by kind so the sort is still well-defined
// rather than panicking.
func compareValues(a, b model.Value) int {
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	switch a.Kind {
	case model.ValueInteger:
		return cmpInt(a.Int, b.Int)
	case model.ValueFloat:
		return cmpFloat(a.Float, b.Float)
	case model.ValueString:
		return cmpString(a.Str, b.Str)
	case model.ValueBoolean:
		return cmpBool(a.Bool, b.Bool)
	case model.ValueDate:
		return cmpInt(a.Date.UnixNano(), b.Date.UnixNano())
	default:
		return 0
	}
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

type checkPropertyIterator struct {
	upstream Iterator
	prop     string
}

func (c *checkPropertyIterator) Next() (Item, bool, error) {
	item, ok, err := c.upstream.Next()
	if err != nil || !ok {
		return Item{}, ok, err
	}
	props := propertyOf(item)
	if props == nil {
		return model.TVFromValue(model.Empty), true, nil
	}
	val, ok := props[c.prop]
	if !ok {
		val = model.Empty
	}
	return model.TVFromValue(val), true, nil
}

// CheckProperty projects the named property's Value from every upstream
// entity item, yielding Value::Empty for a missing optional property
// rather than an error (spec.md §4.3 check_property).
func (p *Pipeline) CheckProperty(prop string) *Pipeline {
	return p.chain(func(upstream Iterator) Iterator {
		return &checkPropertyIterator{upstream: upstream, prop: prop}
	})
}
