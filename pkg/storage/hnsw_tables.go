package storage

import (
	"github.com/helixdb/helixdb/pkg/codec"
	"github.com/helixdb/helixdb/pkg/herrors"
	"github.com/helixdb/helixdb/pkg/kv"
	"github.com/helixdb/helixdb/pkg/model"
)

// EntryPoint is the HNSW graph's single global entry point: the id of
// the node at the top layer, and that layer's index (spec.md §4.6).
type EntryPoint struct {
	ID    model.ID
	Layer uint8
}

// HNSWNeighbors reads the neighbor list stored at (layer, id). A missing
// row is not an error — it means the vector has no recorded neighbors at
// that layer yet — and returns a nil slice.
func (s *Store) HNSWNeighbors(txn *kv.Txn, layer uint8, id model.ID) ([]model.ID, error) {
	raw, err := txn.Get(hnswNeighborsKey(layer, id))
	if err != nil {
		if herrors.KindOf(err) == herrors.KindNotFound {
			return nil, nil
		}
		return nil, herrors.New(herrors.KindIO, "storage.HNSWNeighbors", err)
	}
	ids, err := codec.DecodeIDList(raw)
	if err != nil {
		return nil, herrors.New(herrors.KindConversion, "storage.HNSWNeighbors", err)
	}
	return ids, nil
}

// PutHNSWNeighbors overwrites the neighbor list at (layer, id).
func (s *Store) PutHNSWNeighbors(txn *kv.Txn, layer uint8, id model.ID, neighbors []model.ID) error {
	if err := txn.Put(hnswNeighborsKey(layer, id), codec.EncodeIDList(neighbors)); err != nil {
		return herrors.New(herrors.KindIO, "storage.PutHNSWNeighbors", err)
	}
	return nil
}

// HNSWNodeLayer reads the top layer a vector was assigned at insertion.
// ok is false if the vector has never been inserted into the graph.
func (s *Store) HNSWNodeLayer(txn *kv.Txn, id model.ID) (layer uint8, ok bool, err error) {
	raw, err := txn.Get(hnswNodeLayerKey(id))
	if err != nil {
		if herrors.KindOf(err) == herrors.KindNotFound {
			return 0, false, nil
		}
		return 0, false, herrors.New(herrors.KindIO, "storage.HNSWNodeLayer", err)
	}
	if len(raw) < 1 {
		return 0, false, herrors.New(herrors.KindConversion, "storage.HNSWNodeLayer", nil)
	}
	return raw[0], true, nil
}

// PutHNSWNodeLayer records the top layer a vector was assigned at
// insertion.
func (s *Store) PutHNSWNodeLayer(txn *kv.Txn, id model.ID, layer uint8) error {
	if err := txn.Put(hnswNodeLayerKey(id), []byte{layer}); err != nil {
		return herrors.New(herrors.KindIO, "storage.PutHNSWNodeLayer", err)
	}
	return nil
}

// HNSWEntryPoint reads the graph's single entry point. ok is false if
// the graph is empty.
func (s *Store) HNSWEntryPoint(txn *kv.Txn) (ep EntryPoint, ok bool, err error) {
	raw, err := txn.Get(hnswEntryPointKey)
	if err != nil {
		if herrors.KindOf(err) == herrors.KindNotFound {
			return EntryPoint{}, false, nil
		}
		return EntryPoint{}, false, herrors.New(herrors.KindIO, "storage.HNSWEntryPoint", err)
	}
	if len(raw) < 17 {
		return EntryPoint{}, false, herrors.New(herrors.KindConversion, "storage.HNSWEntryPoint", nil)
	}
	id, err := model.IDFromBytes(raw[:16])
	if err != nil {
		return EntryPoint{}, false, herrors.New(herrors.KindConversion, "storage.HNSWEntryPoint", err)
	}
	return EntryPoint{ID: id, Layer: raw[16]}, true, nil
}

// PutHNSWEntryPoint overwrites the graph's entry point.
func (s *Store) PutHNSWEntryPoint(txn *kv.Txn, ep EntryPoint) error {
	buf := make([]byte, 0, 17)
	buf = append(buf, ep.ID.Bytes()...)
	buf = append(buf, ep.Layer)
	if err := txn.Put(hnswEntryPointKey, buf); err != nil {
		return herrors.New(herrors.KindIO, "storage.PutHNSWEntryPoint", err)
	}
	return nil
}
