package traversal

import (
	"sort"

	"github.com/helixdb/helixdb/pkg/herrors"
	"github.com/helixdb/helixdb/pkg/hnsw"
	"github.com/helixdb/helixdb/pkg/model"
	"github.com/helixdb/helixdb/pkg/vector"
)

// SearchV runs an approximate nearest-neighbor search over the shared
// HNSW index and emits the k closest vectors in ascending distance order
// (spec.md §4.3 search_v, §4.6). filter, if non-nil, is applied the same
// way hnsw.Index.Search applies it: candidates are still walked through
// for recall, only admission to the result set is gated. Tombstoned
// vectors (is_deleted=true) are always excluded from the result set
// regardless of filter, matching hnsw.DefaultTombstoneFilter — they stay
// reachable in neighbor lists, they just never surface as a hit.
func (p *Pipeline) SearchV(query []float64, k int, filter hnsw.Filter) *Pipeline {
	if p.err != nil {
		return p
	}
	if p.engine.HNSW == nil {
		return p.fail(herrors.New(herrors.KindNotEnabled, "traversal.SearchV", errString("no HNSW index configured for this engine")))
	}
	effective := func(v *model.Vector) bool {
		return hnsw.DefaultTombstoneFilter(v) && (filter == nil || filter(v))
	}
	results, err := p.engine.HNSW.Search(p.txn, query, k, effective)
	if err != nil {
		return p.fail(err)
	}
	fetch := p.vectorFetcher()
	items := make([]Item, 0, len(results))
	for _, r := range results {
		item, ok, err := fetch(r.ID)
		if err != nil {
			return p.fail(err)
		}
		if ok {
			items = append(items, item)
		}
	}
	return p.setSource(&sliceIterator{items: items})
}

// BruteForceSearchV scores every vector already present in the upstream
// against query by cosine distance and keeps the k closest, in ascending
// distance order (spec.md §4.3 brute_force_search_v). Non-vector upstream
// items are filtered out rather than causing an error or panic (spec.md
// §10 open question b).
func (p *Pipeline) BruteForceSearchV(query []float64, k int) *Pipeline {
	if p.err != nil {
		return p
	}
	upstream, err := p.Collect()
	if err != nil {
		return p.fail(err)
	}

	type scored struct {
		item Item
		dist float64
	}
	var candidates []scored
	for _, item := range upstream {
		if item.Kind != model.TVVector {
			continue
		}
		if item.Vec.IsDeleted {
			continue
		}
		candidates = append(candidates, scored{item: item, dist: vector.Distance(query, item.Vec.Data)})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
	if k >= 0 && k < len(candidates) {
		candidates = candidates[:k]
	}
	items := make([]Item, len(candidates))
	for i, c := range candidates {
		items[i] = c.item
	}
	return p.setSource(&sliceIterator{items: items})
}

// SearchBM25 runs a BM25 full-text search over the shared index, keeps
// only hits whose owning node carries label, and emits the matching
// nodes as a new source in descending score order (spec.md §4.3
// search_bm25, §4.5). Because the BM25 posting lists carry no label,
// label filtering happens after scoring; a query asking for k
// label-matching hits may receive fewer than k if enough of the index's
// global top-k fall outside label.
func (p *Pipeline) SearchBM25(label, query string, k int) *Pipeline {
	if p.err != nil {
		return p
	}
	if p.engine.BM25 == nil {
		return p.fail(herrors.New(herrors.KindNotEnabled, "traversal.SearchBM25", errString("no BM25 index configured for this engine")))
	}
	results, err := p.engine.BM25.Search(p.txn, query, k)
	if err != nil {
		return p.fail(err)
	}
	fetch := p.nodeFetcher()
	var items []Item
	for _, r := range results {
		n, err := p.engine.Store.GetNode(p.txn, r.ID)
		if err != nil {
			if herrors.KindOf(err) == herrors.KindNotFound {
				continue
			}
			return p.fail(err)
		}
		if n.Label != label {
			continue
		}
		item, ok, err := fetch(r.ID)
		if err != nil {
			return p.fail(err)
		}
		if ok {
			items = append(items, item)
		}
	}
	return p.setSource(&sliceIterator{items: items})
}
