// Package worker implements HelixDB's fixed-size request dispatch pool
// (spec.md §4.7, §5): ingress hands a (request, reply) pair over a
// bounded MPMC channel; a fixed number of worker goroutines, each
// optionally pinned to its own CPU core, pull one request at a time,
// run the named compiled query inside the correctly-kinded transaction,
// and answer on the reply channel.
//
// Grounded on pkg/storage/async_engine.go's goroutine lifecycle
// (stopChan + sync.WaitGroup, a blocking select loop) for Start/Stop;
// CPU pinning uses golang.org/x/sys/unix.SchedSetaffinity directly,
// since nothing in the teacher pins worker goroutines to cores.
package worker

import (
	"runtime"
	"sort"
	"sync"

	"github.com/helixdb/helixdb/pkg/config"
	"github.com/helixdb/helixdb/pkg/herrors"
	"github.com/helixdb/helixdb/pkg/traversal"
	"github.com/helixdb/helixdb/pkg/txn"
)

// Handler is one named, compiled query. Mutating selects which kind of
// transaction the pool binds before running it (spec.md §4.3/§9's
// read-only vs. mutating pipeline distinction).
type Handler struct {
	Name     string
	Mutating bool
	Run      func(p *traversal.Pipeline, body map[string]any) (any, error)
}

// Request is what ingress sends into the dispatch channel.
type Request struct {
	Name string
	Body map[string]any
}

// Response is what a worker sends back. Err is set if the named handler
// doesn't exist, the transaction failed to bind, or Run itself failed —
// in every case the pipeline boundary is where the error is caught and
// the transaction is aborted (spec.md §7).
type Response struct {
	Result any
	Err    error
}

type job struct {
	req   Request
	reply chan Response
}

// Pool is the fixed worker pool. Its graph/engine handles are shared
// read-only across every worker (spec.md §5 "Shared resources"); no
// worker ever retains a reference to another's job.
type Pool struct {
	graph  *txn.Graph
	engine *traversal.Engine

	handlers map[string]Handler

	queue    chan job
	workers  int
	pinCPU   bool
	stopChan chan struct{}
	wg       sync.WaitGroup

	startOnce sync.Once
	started   bool
}

// New builds a Pool bound to graph/engine, sized per cfg. A Count of 0
// defaults to runtime.NumCPU(), one worker per core (spec.md §5
// "Parallel OS threads... each bound to its own CPU core").
func New(graph *txn.Graph, engine *traversal.Engine, cfg config.WorkerConfig) *Pool {
	workers := cfg.Count
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{
		graph:    graph,
		engine:   engine,
		handlers: make(map[string]Handler),
		queue:    make(chan job, cfg.QueueDepth),
		workers:  workers,
		pinCPU:   cfg.PinCPU,
		stopChan: make(chan struct{}),
	}
}

// Register adds a compiled query under its name. Call before Start; the
// handler map is read-only once workers are running.
func (p *Pool) Register(h Handler) {
	p.handlers[h.Name] = h
}

// HandlerInfo describes one registered query for GET /introspect.
type HandlerInfo struct {
	Name     string `json:"name"`
	Mutating bool   `json:"mutating"`
}

// Introspect lists every registered query name and whether it mutates
// (spec.md §6 "GET /introspect — list declared types/queries").
func (p *Pool) Introspect() []HandlerInfo {
	out := make([]HandlerInfo, 0, len(p.handlers))
	for _, h := range p.handlers {
		out = append(out, HandlerInfo{Name: h.Name, Mutating: h.Mutating})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Start spawns the fixed worker goroutines. Safe to call once; later
// calls are no-ops.
func (p *Pool) Start() {
	p.startOnce.Do(func() {
		p.started = true
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.workerLoop(i)
		}
	})
}

// Stop closes the dispatch channel's stop signal and waits for every
// worker to finish its current job (spec.md §5 "the worker still
// completes the transaction to preserve invariants" even mid-shutdown —
// Stop waits for in-flight jobs, it does not interrupt them).
func (p *Pool) Stop() {
	if !p.started {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
}

// Dispatch sends req into the bounded queue and blocks for its reply.
// The reply channel is buffered by one, so a caller that stops waiting
// (a dropped context, a closed connection) never blocks the worker that
// eventually answers (spec.md §5 "Cancellation & timeouts").
func (p *Pool) Dispatch(req Request) Response {
	select {
	case <-p.stopChan:
		return Response{Err: herrors.New(herrors.KindInvariant, "worker.Dispatch", errString("pool is stopped"))}
	default:
	}
	reply := make(chan Response, 1)
	select {
	case p.queue <- job{req: req, reply: reply}:
	case <-p.stopChan:
		return Response{Err: herrors.New(herrors.KindInvariant, "worker.Dispatch", errString("pool is stopped"))}
	}
	return <-reply
}

func (p *Pool) workerLoop(id int) {
	defer p.wg.Done()
	if p.pinCPU {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		_ = pinToCPU(id)
	}
	for {
		select {
		case j := <-p.queue:
			j.reply <- p.run(j.req)
		case <-p.stopChan:
			// Drain whatever is already queued so a caller blocked in
			// Dispatch before Stop was called still gets an answer.
			for {
				select {
				case j := <-p.queue:
					j.reply <- p.run(j.req)
				default:
					return
				}
			}
		}
	}
}

func (p *Pool) run(req Request) Response {
	h, ok := p.handlers[req.Name]
	if !ok {
		return Response{Err: herrors.New(herrors.KindNotFound, "worker.run", errString("unknown query: "+req.Name))}
	}

	if h.Mutating {
		wh := p.graph.WriteTxn()
		t, err := wh.Bind()
		if err != nil {
			wh.Discard()
			return Response{Err: err}
		}
		result, err := h.Run(traversal.New(p.engine, t), req.Body)
		if err != nil {
			wh.Discard()
			return Response{Err: err}
		}
		if err := wh.Commit(); err != nil {
			return Response{Err: err}
		}
		return Response{Result: result}
	}

	rh := p.graph.ReadTxn()
	defer rh.Discard()
	result, err := h.Run(traversal.New(p.engine, rh.Bind()), req.Body)
	return Response{Result: result, Err: err}
}

type errString string

func (e errString) Error() string { return string(e) }
