// Package hnsw is HelixDB's persisted multi-layer proximity graph vector
// index (spec.md §4.6). Every call takes the caller's kv.Txn and reads
// and writes straight through pkg/storage's hnsw_* table accessors —
// there is no in-memory graph, unlike the teacher's HNSWIndex, because
// spec.md §4.1 requires all index state to live behind the same MVCC
// transaction discipline as everything else (a reader must never see a
// half-built graph from a concurrent insert).
//
// Grounded on pkg/search/hnsw_index.go (teacher): the same two-heap
// (min-heap frontier, bounded max-heap results) beam search, the same
// closest-m neighbor selection heuristic, and the same greedy
// single-path descent above the insertion layer. Generalized from an
// in-process map[string]*hnswNode to storage-backed per-(layer,id)
// neighbor rows, and from a per-index entry point to the spec's single
// global one.
package hnsw

import (
	"container/heap"
	"math"
	"math/rand"
	"sort"

	"github.com/helixdb/helixdb/pkg/kv"
	"github.com/helixdb/helixdb/pkg/model"
	"github.com/helixdb/helixdb/pkg/storage"
	"github.com/helixdb/helixdb/pkg/vector"
)

// Config holds the fixed HNSW parameters (spec.md §4.6).
type Config struct {
	M              int // max out-degree per layer, above layer 0
	MMax0          int // layer 0 fan-out cap
	EfConstruction int // candidate list size during insertion
	EfSearch       int // candidate list size during search
}

// DefaultConfig matches the teacher's DefaultHNSWConfig values.
func DefaultConfig() Config {
	return Config{M: 16, MMax0: 32, EfConstruction: 200, EfSearch: 100}
}

func (c Config) levelMultiplier() float64 { return 1.0 / math.Log(float64(c.M)) }

// Index is a thin facade over pkg/storage's hnsw_* tables. It holds no
// graph state itself.
type Index struct {
	store *storage.Store
	cfg   Config
}

func New(store *storage.Store, cfg Config) *Index {
	return &Index{store: store, cfg: cfg}
}

// randomLevel draws a layer from a geometric distribution with
// parameter ln(M), per spec.md §4.6.
func (h *Index) randomLevel() int {
	r := rand.Float64()
	if r == 0 {
		r = 1e-12
	}
	return int(-math.Log(r) * h.cfg.levelMultiplier())
}

// Insert adds id (whose core vector body must already exist in the
// `vectors` table) into the graph: greedy descent from the entry point
// to the insertion layer, then neighbor selection and symmetric
// linking at every layer ≤ the insertion layer, promoting the entry
// point if id's layer exceeds the current top (spec.md §4.6 Insert).
func (h *Index) Insert(txn *kv.Txn, id model.ID) error {
	v, err := h.store.VectorCore(txn, id)
	if err != nil {
		return err
	}
	level := h.randomLevel()
	if err := h.store.PutHNSWNodeLayer(txn, id, uint8(level)); err != nil {
		return err
	}

	ep, ok, err := h.store.HNSWEntryPoint(txn)
	if err != nil {
		return err
	}
	if !ok {
		return h.store.PutHNSWEntryPoint(txn, storage.EntryPoint{ID: id, Layer: uint8(level)})
	}

	cur := ep.ID
	for l := int(ep.Layer); l > level; l-- {
		cur, err = h.searchLayerSingle(txn, v.Data, cur, uint8(l))
		if err != nil {
			return err
		}
	}

	top := level
	if int(ep.Layer) < top {
		top = int(ep.Layer)
	}
	for l := top; l >= 0; l-- {
		candidates, err := h.searchLayer(txn, v.Data, cur, h.cfg.EfConstruction, uint8(l), nil)
		if err != nil {
			return err
		}
		maxDeg := h.capAt(l)
		neighbors := h.selectNeighbors(txn, v.Data, idsOf(candidates), maxDeg)
		if err := h.store.PutHNSWNeighbors(txn, uint8(l), id, neighbors); err != nil {
			return err
		}
		for _, nb := range neighbors {
			if err := h.linkBack(txn, uint8(l), nb, id, maxDeg); err != nil {
				return err
			}
		}
		if len(candidates) > 0 {
			cur = candidates[0].ID
		}
	}

	if level > int(ep.Layer) {
		if err := h.store.PutHNSWEntryPoint(txn, storage.EntryPoint{ID: id, Layer: uint8(level)}); err != nil {
			return err
		}
	}
	return nil
}

func (h *Index) capAt(layer int) int {
	if layer == 0 {
		return h.cfg.MMax0
	}
	return h.cfg.M
}

// linkBack adds id to nb's neighbor list at layer, pruning back to cap
// by re-running neighbor selection if nb's list overflows (spec.md
// §4.6 "if a neighbor exceeds its cap, prune it by re-running selection
// on its current neighbor set").
func (h *Index) linkBack(txn *kv.Txn, layer uint8, nb, id model.ID, maxDeg int) error {
	existing, err := h.store.HNSWNeighbors(txn, layer, nb)
	if err != nil {
		return err
	}
	existing = append(existing, id)
	if len(existing) > maxDeg {
		nbVec, err := h.store.VectorCore(txn, nb)
		if err != nil {
			return err
		}
		existing = h.selectNeighbors(txn, nbVec.Data, existing, maxDeg)
	}
	return h.store.PutHNSWNeighbors(txn, layer, nb, existing)
}

// selectNeighbors picks up to m candidates closest to query. This is
// the teacher's simple closest-m heuristic (diversity-aware pruning is
// a known HNSW refinement the teacher doesn't implement either).
func (h *Index) selectNeighbors(txn *kv.Txn, query []float64, candidates []model.ID, m int) []model.ID {
	type scored struct {
		id   model.ID
		dist float64
	}
	scoredList := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		v, err := h.store.VectorCore(txn, c)
		if err != nil {
			continue
		}
		scoredList = append(scoredList, scored{id: c, dist: vector.Distance(query, v.Data)})
	}
	sort.Slice(scoredList, func(i, j int) bool { return scoredList[i].dist < scoredList[j].dist })
	if len(scoredList) > m {
		scoredList = scoredList[:m]
	}
	out := make([]model.ID, len(scoredList))
	for i, s := range scoredList {
		out[i] = s.id
	}
	return out
}

func idsOf(results []Result) []model.ID {
	ids := make([]model.ID, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return ids
}

// searchLayerSingle performs the greedy single-path descent used above
// the insertion/search entry layer: repeatedly step to the closest
// unvisited neighbor until no neighbor improves on the current node.
func (h *Index) searchLayerSingle(txn *kv.Txn, query []float64, entry model.ID, layer uint8) (model.ID, error) {
	current := entry
	curVec, err := h.store.VectorCore(txn, current)
	if err != nil {
		return entry, err
	}
	currentDist := vector.Distance(query, curVec.Data)

	for {
		neighbors, err := h.store.HNSWNeighbors(txn, layer, current)
		if err != nil {
			return current, err
		}
		changed := false
		for _, nb := range neighbors {
			nbVec, err := h.store.VectorCore(txn, nb)
			if err != nil {
				continue
			}
			d := vector.Distance(query, nbVec.Data)
			if d < currentDist {
				current, currentDist, changed = nb, d, true
			}
		}
		if !changed {
			break
		}
	}
	return current, nil
}

// Result is one candidate returned by the layer-0 beam search, ordered
// closest-first.
type Result struct {
	ID       model.ID
	Distance float64
}

// Filter is applied to a candidate vector before it is admitted to the
// result set; the neighbor graph itself is still walked through
// filtered-out nodes so recall is unaffected (spec.md §4.6 Search).
type Filter func(*model.Vector) bool

// searchLayer runs beam search at layer with candidate-list size ef,
// using a min-heap frontier and a bounded max-heap of admitted results.
// filter, if non-nil, gates admission to the results heap only — the
// frontier still expands through filtered nodes.
func (h *Index) searchLayer(txn *kv.Txn, query []float64, entry model.ID, ef int, layer uint8, filter Filter) ([]Result, error) {
	visited := map[model.ID]bool{entry: true}

	entryVec, err := h.store.VectorCore(txn, entry)
	if err != nil {
		return nil, err
	}
	entryDist := vector.Distance(query, entryVec.Data)

	frontier := &minHeap{{ID: entry, Distance: entryDist}}
	heap.Init(frontier)

	results := &maxHeap{}
	if filter == nil || filter(entryVec) {
		heap.Push(results, Result{ID: entry, Distance: entryDist})
	}

	for frontier.Len() > 0 {
		closest := heap.Pop(frontier).(Result)
		if results.Len() >= ef && closest.Distance > (*results)[0].Distance {
			break
		}

		neighbors, err := h.store.HNSWNeighbors(txn, layer, closest.ID)
		if err != nil {
			return nil, err
		}
		for _, nb := range neighbors {
			if visited[nb] {
				continue
			}
			visited[nb] = true

			nbVec, err := h.store.VectorCore(txn, nb)
			if err != nil {
				continue
			}
			d := vector.Distance(query, nbVec.Data)
			if results.Len() < ef || d < (*results)[0].Distance {
				heap.Push(frontier, Result{ID: nb, Distance: d})
				if filter == nil || filter(nbVec) {
					heap.Push(results, Result{ID: nb, Distance: d})
					if results.Len() > ef {
						heap.Pop(results)
					}
				}
			}
		}
	}

	out := make([]Result, results.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(results).(Result)
	}
	return out, nil
}

// Search descends greedily from the entry point through layers above 0,
// then runs a bounded beam search at layer 0, returning up to k results
// closest-first (spec.md §4.6 Search). A nil entry point (empty graph)
// returns an empty result set, not an error.
func (h *Index) Search(txn *kv.Txn, query []float64, k int, filter Filter) ([]Result, error) {
	ep, ok, err := h.store.HNSWEntryPoint(txn)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	cur := ep.ID
	for l := int(ep.Layer); l > 0; l-- {
		cur, err = h.searchLayerSingle(txn, query, cur, uint8(l))
		if err != nil {
			return nil, err
		}
	}

	results, err := h.searchLayer(txn, query, cur, h.cfg.EfSearch, 0, filter)
	if err != nil {
		return nil, err
	}
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// DefaultTombstoneFilter excludes tombstoned vectors from search
// results while leaving them reachable in neighbor lists (spec.md §4.6
// "Tombstoned vectors are filtered from the result set but remain in
// neighbor lists").
func DefaultTombstoneFilter(v *model.Vector) bool { return !v.IsDeleted }

// ---------------------------------------------------------------------
// heaps
// ---------------------------------------------------------------------

// minHeap orders by ascending distance — the search frontier, always
// expanding the closest unexplored candidate next.
type minHeap []Result

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].Distance < h[j].Distance }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(Result)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// maxHeap orders by descending distance — the bounded result set, so
// popping the root evicts the current worst admitted candidate.
type maxHeap []Result

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[i].Distance > h[j].Distance }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x interface{}) { *h = append(*h, x.(Result)) }
func (h *maxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
