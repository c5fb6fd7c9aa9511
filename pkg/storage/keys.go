// Package storage is the durable entity and index layer built on top of
// pkg/kv. It owns the key-prefix scheme for every table spec.md §3 names
// and the atomic maintenance of secondary structures (label scans,
// adjacency, secondary property indices) on every mutation.
//
// Grounded on pkg/storage/badger.go (teacher): single-byte table
// prefixes, composite keys built by straight concatenation, same
// "index key carries no value, existence is the payload" idiom. Extended
// with spec.md's wider table list (vectors/vector_data split, bm25_*,
// hnsw_*, secondary_indices[name]) and a 32-bit xxhash label prefix
// (teacher stores the label string inline; spec.md favors a fixed-width
// hash so adjacency keys stay a constant size across arbitrarily long
// labels).
package storage

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/helixdb/helixdb/pkg/model"
)

// Table prefixes. One byte each, matching the teacher's single-byte
// prefix convention.
const (
	tableNodes            = byte(0x01) // id -> NodeBody
	tableEdges            = byte(0x02) // id -> EdgeBody
	tableVectors          = byte(0x03) // id -> VectorCore
	tableVectorData       = byte(0x04) // id -> properties (vector_data)
	tableOutEdges         = byte(0x05) // label_hash . from_id . edge_id -> ()
	tableInEdges          = byte(0x06) // label_hash . to_id . edge_id -> ()
	tableNodesByLabel     = byte(0x07) // label_hash . id -> ()
	tableEdgesByLabel     = byte(0x08) // label_hash . id -> ()
	tableVectorsByLabel   = byte(0x09) // label_hash . id -> ()
	tableSecondaryIndex   = byte(0x0A) // index_name . value_bytes . id -> ()
	tableBM25Postings     = byte(0x0B) // term_hash . doc_id -> term frequency varint
	tableBM25DocStats     = byte(0x0C) // doc_id -> doc length varint
	tableBM25GlobalStats  = byte(0x0D) // singleton -> (doc count, total length)
	tableHNSWNeighbors    = byte(0x0E) // layer . vector_id -> neighbor id list
	tableHNSWEntryPoint   = byte(0x0F) // singleton -> (entry vector id, top layer)
	tableHNSWNodeLayer    = byte(0x10) // vector_id -> top layer assigned at insert
	tableBM25DocTerms     = byte(0x11) // doc_id -> term hash list (reverse index for delete_doc)
)

// labelHash returns the 32-bit xxhash prefix used to bucket a label
// across the adjacency and label-scan tables, keeping composite keys a
// fixed width regardless of label string length.
func labelHash(label string) uint32 {
	return uint32(xxhash.Sum64String(label))
}

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func keyWithID(table byte, id model.ID) []byte {
	buf := make([]byte, 0, 17)
	buf = append(buf, table)
	return append(buf, id.Bytes()...)
}

// nodeKey, edgeKey, vectorKey, vectorDataKey address the four primary
// entity tables.
func nodeKey(id model.ID) []byte       { return keyWithID(tableNodes, id) }
func edgeKey(id model.ID) []byte       { return keyWithID(tableEdges, id) }
func vectorKey(id model.ID) []byte     { return keyWithID(tableVectors, id) }
func vectorDataKey(id model.ID) []byte { return keyWithID(tableVectorData, id) }

// labelScanKey returns a single entry's index key in one of the
// by-label tables; labelScanPrefix below returns the prefix over every
// entity of the given label.
func labelScanKey(table byte, label string, id model.ID) []byte {
	buf := make([]byte, 0, 21)
	buf = append(buf, table)
	buf = appendU32(buf, labelHash(label))
	return append(buf, id.Bytes()...)
}

func labelScanPrefix(table byte, label string) []byte {
	buf := make([]byte, 0, 5)
	buf = append(buf, table)
	return appendU32(buf, labelHash(label))
}

func nodeByLabelKey(label string, id model.ID) []byte   { return labelScanKey(tableNodesByLabel, label, id) }
func nodeByLabelPrefix(label string) []byte              { return labelScanPrefix(tableNodesByLabel, label) }
func edgeByLabelKey(label string, id model.ID) []byte    { return labelScanKey(tableEdgesByLabel, label, id) }
func edgeByLabelPrefix(label string) []byte              { return labelScanPrefix(tableEdgesByLabel, label) }
func vectorByLabelKey(label string, id model.ID) []byte  { return labelScanKey(tableVectorsByLabel, label, id) }
func vectorByLabelPrefix(label string) []byte            { return labelScanPrefix(tableVectorsByLabel, label) }

// outEdgeKey / inEdgeKey address the adjacency tables. spec.md §3 names
// the tuple (label_hash, from_id/to_id, edge_id); this module orders it
// node-id-first — `from_id ∥ label_hash ∥ edge_id` — so that a single
// table serves both of its documented uses: a long prefix (node id +
// label hash) gives out()/in_()'s label-scoped neighbor scan in edge-id
// order, while a short prefix (node id alone) gives drop_node's
// unscoped incident-edge enumeration (spec.md §4.4 "enumerates incident
// edges via out_edges/in_edges prefix scans") without a second index.
// The value stored at this key is the far endpoint id, so a hop never
// has to fetch the edge body just to learn where it leads.
func outEdgeKey(label string, from model.ID, edgeID model.ID) []byte {
	buf := make([]byte, 0, 37)
	buf = append(buf, tableOutEdges)
	buf = append(buf, from.Bytes()...)
	buf = appendU32(buf, labelHash(label))
	return append(buf, edgeID.Bytes()...)
}

func outEdgePrefix(label string, from model.ID) []byte {
	buf := make([]byte, 0, 21)
	buf = append(buf, tableOutEdges)
	buf = append(buf, from.Bytes()...)
	return appendU32(buf, labelHash(label))
}

func outEdgeAllPrefix(from model.ID) []byte {
	buf := make([]byte, 0, 17)
	buf = append(buf, tableOutEdges)
	return append(buf, from.Bytes()...)
}

func inEdgeKey(label string, to model.ID, edgeID model.ID) []byte {
	buf := make([]byte, 0, 37)
	buf = append(buf, tableInEdges)
	buf = append(buf, to.Bytes()...)
	buf = appendU32(buf, labelHash(label))
	return append(buf, edgeID.Bytes()...)
}

func inEdgePrefix(label string, to model.ID) []byte {
	buf := make([]byte, 0, 21)
	buf = append(buf, tableInEdges)
	buf = append(buf, to.Bytes()...)
	return appendU32(buf, labelHash(label))
}

func inEdgeAllPrefix(to model.ID) []byte {
	buf := make([]byte, 0, 17)
	buf = append(buf, tableInEdges)
	return append(buf, to.Bytes()...)
}

// edgeIDFromAdjacencyKey extracts the trailing 16-byte edge id from an
// out_edges/in_edges key of any prefix length.
func edgeIDFromAdjacencyKey(key []byte) model.ID {
	id, _ := model.IDFromBytes(key[len(key)-16:])
	return id
}

// secondaryIndexKey addresses a user-declared secondary property index
// entry: index name hash, then the raw encoded value bytes, then the
// owning entity id, so a lookup is a prefix scan over (index, value).
func secondaryIndexKey(indexName string, valueBytes []byte, id model.ID) []byte {
	buf := make([]byte, 0, 5+len(valueBytes)+16)
	buf = append(buf, tableSecondaryIndex)
	buf = appendU32(buf, labelHash(indexName))
	buf = append(buf, valueBytes...)
	return append(buf, id.Bytes()...)
}

func secondaryIndexPrefix(indexName string, valueBytes []byte) []byte {
	buf := make([]byte, 0, 5+len(valueBytes))
	buf = append(buf, tableSecondaryIndex)
	buf = appendU32(buf, labelHash(indexName))
	return append(buf, valueBytes...)
}

// bm25PostingKey / bm25DocStatsKey / bm25GlobalStatsKey address the BM25
// index tables (pkg/bm25).
func bm25PostingKey(termHash uint64, docID model.ID) []byte {
	buf := make([]byte, 0, 25)
	buf = append(buf, tableBM25Postings)
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], termHash)
	buf = append(buf, tmp[:]...)
	return append(buf, docID.Bytes()...)
}

func bm25PostingPrefix(termHash uint64) []byte {
	buf := make([]byte, 0, 9)
	buf = append(buf, tableBM25Postings)
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], termHash)
	return append(buf, tmp[:]...)
}

func bm25DocStatsKey(docID model.ID) []byte { return keyWithID(tableBM25DocStats, docID) }

func bm25DocTermsKey(docID model.ID) []byte { return keyWithID(tableBM25DocTerms, docID) }

var bm25GlobalStatsKey = []byte{tableBM25GlobalStats}

// hnswNeighborsKey / hnswEntryPointKey address the HNSW graph tables
// (pkg/hnsw).
func hnswNeighborsKey(layer uint8, vectorID model.ID) []byte {
	buf := make([]byte, 0, 18)
	buf = append(buf, tableHNSWNeighbors, layer)
	return append(buf, vectorID.Bytes()...)
}

func hnswNodeLayerKey(vectorID model.ID) []byte { return keyWithID(tableHNSWNodeLayer, vectorID) }

var hnswEntryPointKey = []byte{tableHNSWEntryPoint}
