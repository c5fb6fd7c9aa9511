package storage

import (
	"encoding/binary"

	"github.com/helixdb/helixdb/pkg/herrors"
	"github.com/helixdb/helixdb/pkg/kv"
	"github.com/helixdb/helixdb/pkg/model"
)

// GlobalStats is the singleton `global_stats(() → {N, avgdl, total_tokens})`
// row BM25 scoring reads on every query (spec.md §4.5).
type GlobalStats struct {
	N           uint64 // number of indexed documents
	TotalTokens uint64 // sum of every document's token count
}

// AvgDL is the average document length, the denominator term in the BM25
// length-normalization factor. Zero documents yields 0, not NaN.
func (g GlobalStats) AvgDL() float64 {
	if g.N == 0 {
		return 0
	}
	return float64(g.TotalTokens) / float64(g.N)
}

func appendVarU64(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

// BM25Posting reads the term frequency of term in doc, or 0 if the term
// doesn't appear (no posting row).
func (s *Store) BM25Posting(txn *kv.Txn, termHash uint64, doc model.ID) (uint64, error) {
	raw, err := txn.Get(bm25PostingKey(termHash, doc))
	if err != nil {
		if herrors.KindOf(err) == herrors.KindNotFound {
			return 0, nil
		}
		return 0, herrors.New(herrors.KindIO, "storage.BM25Posting", err)
	}
	tf, _ := binary.Uvarint(raw)
	return tf, nil
}

// PutBM25Posting writes the term frequency of term in doc.
func (s *Store) PutBM25Posting(txn *kv.Txn, termHash uint64, doc model.ID, tf uint64) error {
	if err := txn.Put(bm25PostingKey(termHash, doc), appendVarU64(nil, tf)); err != nil {
		return herrors.New(herrors.KindIO, "storage.PutBM25Posting", err)
	}
	return nil
}

// DeleteBM25Posting removes a posting row entirely (used once a term's
// count in a deleted/updated doc reaches zero).
func (s *Store) DeleteBM25Posting(txn *kv.Txn, termHash uint64, doc model.ID) error {
	if err := txn.Delete(bm25PostingKey(termHash, doc)); err != nil {
		return herrors.New(herrors.KindIO, "storage.DeleteBM25Posting", err)
	}
	return nil
}

// BM25PostingsForTerm scans every (doc, tf) pair for termHash.
func (s *Store) BM25PostingsForTerm(txn *kv.Txn, termHash uint64, fn func(doc model.ID, tf uint64) (bool, error)) error {
	prefix := bm25PostingPrefix(termHash)
	return txn.PrefixIter(prefix, func(e kv.Entry) (bool, error) {
		raw, err := e.Load()
		if err != nil {
			return false, herrors.New(herrors.KindIO, "storage.BM25PostingsForTerm", err)
		}
		tf, _ := binary.Uvarint(raw)
		doc, err := model.IDFromBytes(e.Key[len(prefix):])
		if err != nil {
			return false, herrors.New(herrors.KindConversion, "storage.BM25PostingsForTerm", err)
		}
		return fn(doc, tf)
	})
}

// BM25DocLen reads a document's token count, or (0, false) if it has no
// stats row (never indexed, or already deleted).
func (s *Store) BM25DocLen(txn *kv.Txn, doc model.ID) (length uint64, ok bool, err error) {
	raw, err := txn.Get(bm25DocStatsKey(doc))
	if err != nil {
		if herrors.KindOf(err) == herrors.KindNotFound {
			return 0, false, nil
		}
		return 0, false, herrors.New(herrors.KindIO, "storage.BM25DocLen", err)
	}
	length, _ = binary.Uvarint(raw)
	return length, true, nil
}

// PutBM25DocLen writes a document's token count.
func (s *Store) PutBM25DocLen(txn *kv.Txn, doc model.ID, length uint64) error {
	if err := txn.Put(bm25DocStatsKey(doc), appendVarU64(nil, length)); err != nil {
		return herrors.New(herrors.KindIO, "storage.PutBM25DocLen", err)
	}
	return nil
}

// DeleteBM25DocLen removes a document's stats row.
func (s *Store) DeleteBM25DocLen(txn *kv.Txn, doc model.ID) error {
	if err := txn.Delete(bm25DocStatsKey(doc)); err != nil {
		return herrors.New(herrors.KindIO, "storage.DeleteBM25DocLen", err)
	}
	return nil
}

// BM25DocTerms reads the reverse-index row recording which term hashes
// a document contributed, so delete_doc knows what to decrement without
// re-tokenizing (spec.md §4.5 "reverse the increments").
func (s *Store) BM25DocTerms(txn *kv.Txn, doc model.ID) ([]uint64, error) {
	raw, err := txn.Get(bm25DocTermsKey(doc))
	if err != nil {
		if herrors.KindOf(err) == herrors.KindNotFound {
			return nil, nil
		}
		return nil, herrors.New(herrors.KindIO, "storage.BM25DocTerms", err)
	}
	n, off := binary.Uvarint(raw)
	terms := make([]uint64, n)
	for i := uint64(0); i < n; i++ {
		t, m := binary.Uvarint(raw[off:])
		terms[i] = t
		off += m
	}
	return terms, nil
}

// PutBM25DocTerms overwrites the reverse-index row for doc.
func (s *Store) PutBM25DocTerms(txn *kv.Txn, doc model.ID, terms []uint64) error {
	buf := appendVarU64(nil, uint64(len(terms)))
	for _, t := range terms {
		buf = appendVarU64(buf, t)
	}
	if err := txn.Put(bm25DocTermsKey(doc), buf); err != nil {
		return herrors.New(herrors.KindIO, "storage.PutBM25DocTerms", err)
	}
	return nil
}

// DeleteBM25DocTerms removes a document's reverse-index row.
func (s *Store) DeleteBM25DocTerms(txn *kv.Txn, doc model.ID) error {
	if err := txn.Delete(bm25DocTermsKey(doc)); err != nil {
		return herrors.New(herrors.KindIO, "storage.DeleteBM25DocTerms", err)
	}
	return nil
}

// BM25Stats reads the global corpus statistics, defaulting to the zero
// value (N=0) if the singleton row has never been written.
func (s *Store) BM25Stats(txn *kv.Txn) (GlobalStats, error) {
	raw, err := txn.Get(bm25GlobalStatsKey)
	if err != nil {
		if herrors.KindOf(err) == herrors.KindNotFound {
			return GlobalStats{}, nil
		}
		return GlobalStats{}, herrors.New(herrors.KindIO, "storage.BM25Stats", err)
	}
	n, off := binary.Uvarint(raw)
	tot, _ := binary.Uvarint(raw[off:])
	return GlobalStats{N: n, TotalTokens: tot}, nil
}

// PutBM25Stats overwrites the global corpus statistics.
func (s *Store) PutBM25Stats(txn *kv.Txn, stats GlobalStats) error {
	buf := appendVarU64(nil, stats.N)
	buf = appendVarU64(buf, stats.TotalTokens)
	if err := txn.Put(bm25GlobalStatsKey, buf); err != nil {
		return herrors.New(herrors.KindIO, "storage.PutBM25Stats", err)
	}
	return nil
}
