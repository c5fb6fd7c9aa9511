// Package txn is the transaction façade spec.md §4.3 calls for: a thin
// layer that opens read or write handles against the KV substrate and
// binds exactly one of them to the head of a traversal pipeline.
//
// Read adapters share a read handle freely; a write handle may only
// ever back one pipeline. Go has no affine types, so "forbid concurrent
// pipelines over the same write txn statically" is approximated with a
// one-shot guard: Bind consumes the handle and a second call returns
// KindTransaction, the same family of error a Badger double-commit
// would raise.
package txn

import (
	"sync/atomic"

	"github.com/helixdb/helixdb/pkg/herrors"
	"github.com/helixdb/helixdb/pkg/kv"
)

// ReadHandle wraps a read-only kv.Txn. Unlike WriteHandle it has no
// single-use restriction: spec.md §4.3 says a read-only pipeline may
// itself be extended into further pipelines from its materialized
// values, and many read pipelines may run concurrently over one Env.
type ReadHandle struct {
	t *kv.Txn
}

// Bind returns the underlying transaction for a pipeline builder to
// hold. Safe to call more than once.
func (h *ReadHandle) Bind() *kv.Txn { return h.t }

// Discard releases the snapshot without side effects.
func (h *ReadHandle) Discard() { h.t.Discard() }

// WriteHandle wraps a write kv.Txn and may back exactly one pipeline.
type WriteHandle struct {
	t     *kv.Txn
	bound atomic.Bool
}

// Bind hands the write transaction to a pipeline builder. A second call
// on the same handle — whether from the same goroutine re-entering the
// builder or a concurrent one racing it — fails, since the KV substrate
// already serializes one write txn per Env and a second pipeline over
// the same handle would race its buffered writes.
func (h *WriteHandle) Bind() (*kv.Txn, error) {
	if !h.bound.CompareAndSwap(false, true) {
		return nil, herrors.New(herrors.KindTransaction, "txn.Bind", errAlreadyBound)
	}
	return h.t, nil
}

var errAlreadyBound = &boundError{}

type boundError struct{}

func (*boundError) Error() string { return "write handle already bound to a pipeline" }

// Commit applies all buffered writes. Valid whether or not Bind was
// called (a handle that was opened, never bound, and committed is just
// a no-op transaction).
func (h *WriteHandle) Commit() error { return h.t.Commit() }

// Discard releases the transaction without committing.
func (h *WriteHandle) Discard() { h.t.Discard() }

// Env is the minimal surface txn needs from pkg/kv, kept as an
// interface so tests can swap in a fake without opening Badger.
type Env interface {
	ReadTxn() *kv.Txn
	WriteTxn() *kv.Txn
}

// Graph is the top-level handle a worker reserves per request (spec.md
// §4.7): one per open database, shared read-only across every worker
// goroutine. It hands out fresh Read/Write handles on demand; it holds
// no mutable state of its own.
type Graph struct {
	env Env
}

func NewGraph(env Env) *Graph { return &Graph{env: env} }

// ReadTxn opens a new read-only snapshot.
func (g *Graph) ReadTxn() *ReadHandle { return &ReadHandle{t: g.env.ReadTxn()} }

// WriteTxn opens a new exclusive write transaction. Blocks (inside the
// KV substrate) until any other open write transaction on this Env
// commits or discards.
func (g *Graph) WriteTxn() *WriteHandle { return &WriteHandle{t: g.env.WriteTxn()} }
