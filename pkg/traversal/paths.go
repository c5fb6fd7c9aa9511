package traversal

import (
	"sort"

	"github.com/helixdb/helixdb/pkg/model"
)

// bfsNode records how a node was first reached during one direction of
// the bidirectional search: which node discovered it and over which
// edge. hasParent is false only for the two BFS roots (from/to).
type bfsNode struct {
	parent    model.ID
	edge      model.ID
	hasParent bool
}

// ShortestPath runs a bidirectional BFS between from and to over
// edgeLabel — forward from `from` via out_edges, backward from `to` via
// in_edges — and emits a single Path value (spec.md §4.3 shortest_path).
// An empty, non-erroring pipeline results if no path exists.
func (p *Pipeline) ShortestPath(edgeLabel string, from, to model.ID) *Pipeline {
	if p.err != nil {
		return p
	}
	path, found, err := p.bidirectionalBFS(edgeLabel, from, to)
	if err != nil {
		return p.fail(err)
	}
	if !found {
		return p.setSource(&sliceIterator{})
	}
	return p.setSource(&sliceIterator{items: []Item{model.TVFromPath(path)}})
}

func (p *Pipeline) bidirectionalBFS(edgeLabel string, from, to model.ID) ([]model.ID, bool, error) {
	if from == to {
		return []model.ID{from}, true, nil
	}

	fwd := map[model.ID]bfsNode{from: {}}
	bwd := map[model.ID]bfsNode{to: {}}
	fwdFrontier := []model.ID{from}
	bwdFrontier := []model.ID{to}

	for len(fwdFrontier) > 0 && len(bwdFrontier) > 0 {
		var meet []model.ID
		var err error
		// Expand the smaller frontier each round, the standard
		// bidirectional-BFS balance heuristic.
		if len(fwdFrontier) <= len(bwdFrontier) {
			fwdFrontier, meet, err = p.expandFrontier(edgeLabel, fwdFrontier, fwd, bwd, true)
		} else {
			bwdFrontier, meet, err = p.expandFrontier(edgeLabel, bwdFrontier, bwd, fwd, false)
		}
		if err != nil {
			return nil, false, err
		}
		if len(meet) > 0 {
			// Ties at the meeting layer resolved by lower id (spec.md
			// §4.3 shortest_path).
			sort.Slice(meet, func(i, j int) bool { return meet[i].Less(meet[j]) })
			return reconstructPath(meet[0], fwd, bwd), true, nil
		}
	}
	return nil, false, nil
}

// expandFrontier walks one BFS step outward from frontier in the
// direction forward selects (true: out_edges, false: in_edges),
// recording newly-discovered nodes into own and returning any node
// already present in other (a meeting point). Edges are visited in
// ascending edge-id order (storage guarantee), so the first edge to
// reach a new node is automatically the lexicographically smallest —
// spec.md §4.3's "tie-break: lexicographic by encountered edge id".
func (p *Pipeline) expandFrontier(edgeLabel string, frontier []model.ID, own, other map[model.ID]bfsNode, forward bool) ([]model.ID, []model.ID, error) {
	var next []model.ID
	var meet []model.ID
	for _, node := range frontier {
		var scanErr error
		visit := func(edgeID, neighbor model.ID) (bool, error) {
			if _, seen := own[neighbor]; seen {
				return true, nil
			}
			own[neighbor] = bfsNode{parent: node, edge: edgeID, hasParent: true}
			next = append(next, neighbor)
			if _, ok := other[neighbor]; ok {
				meet = append(meet, neighbor)
			}
			return true, nil
		}
		if forward {
			scanErr = p.engine.Store.OutEdges(p.txn, edgeLabel, node, visit)
		} else {
			scanErr = p.engine.Store.InEdges(p.txn, edgeLabel, node, visit)
		}
		if scanErr != nil {
			return nil, nil, scanErr
		}
	}
	return next, meet, nil
}

// reconstructPath stitches the forward chain (from -> ... -> meet) and
// the backward chain (meet -> ... -> to) into one ordered node-id
// sequence including both endpoints.
func reconstructPath(meet model.ID, fwd, bwd map[model.ID]bfsNode) []model.ID {
	var fwdPart []model.ID
	for cur := meet; ; {
		fwdPart = append(fwdPart, cur)
		n := fwd[cur]
		if !n.hasParent {
			break
		}
		cur = n.parent
	}
	for i, j := 0, len(fwdPart)-1; i < j; i, j = i+1, j-1 {
		fwdPart[i], fwdPart[j] = fwdPart[j], fwdPart[i]
	}

	var bwdPart []model.ID
	for cur := meet; ; {
		n := bwd[cur]
		if !n.hasParent {
			break
		}
		cur = n.parent
		bwdPart = append(bwdPart, cur)
	}

	return append(fwdPart, bwdPart...)
}
