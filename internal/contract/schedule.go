package contract

import (
	"runtime"
	"sync"

	"github.com/relcc/tcengine/internal/block"
	"github.com/relcc/tcengine/internal/diagram"
	"github.com/relcc/tcengine/internal/options"
	"github.com/relcc/tcengine/internal/storage"
)

// Residency is which of the three diagrams in a mult call are resident on
// disk, driving which loop runs outermost. There are eight combinations
// (C, A, B each mem-or-disk); whichever operand is on disk should own the
// outer loop so each of its blocks is read exactly once per pass.
type Residency struct {
	AOnDisk, BOnDisk, COnDisk bool
}

// OuterMost picks which diagram's block loop should run outermost. When
// more than one operand is on disk, C takes priority (it is read-modify-
// written every inner iteration regardless, so keeping its loop outermost
// bounds the number of times it's touched), then A, then B.
func (r Residency) OuterMost() string {
	switch {
	case r.COnDisk:
		return "C"
	case r.AOnDisk:
		return "A"
	case r.BOnDisk:
		return "B"
	default:
		return "none" // fully in-memory: loop order doesn't affect I/O
	}
}

// Task is one GEMM accumulation: the matching triple of blocks for a mult
// call, reshaped into supermatricised views by the caller (engine.Mult).
type Task struct {
	A, B, C *block.Block
	ViewA   View
	ViewB   View
	ViewC   View
	AlphaR  float64
	AlphaC  complex128
}

// Backend bundles the I/O layer a block-loop needs to load/store operands
// around each GEMM.
type Backend = storage.Backend

// Run executes every task in tasks, honoring the configured thread
// scheme. ThreadExternal parallelises across destination blocks: tasks
// sharing a C block run one after another on the same worker, each a
// single-threaded GEMM, so accumulations into one destination block never
// overlap; a concurrent restore of a non-unique operand block is safe because each
// task carries its own private reconstructed buffer. ThreadInternal runs
// tasks sequentially; per-GEMM multi-threading is left to the BLAS
// implementation linked in (native.Implementation is single-threaded, a
// vendor BLAS swapped in via blas64.Use may not be).
func Run(tasks []Task, opts *options.Options) {
	switch opts.ThreadScheme {
	case options.ThreadExternal:
		runExternal(tasks, opts.NThreads)
	default:
		runSequential(tasks)
	}
}

func runSequential(tasks []Task) {
	for _, t := range tasks {
		execute(t)
	}
}

func runExternal(tasks []Task, nthreads int) {
	if nthreads <= 0 {
		nthreads = runtime.NumCPU()
	}
	byDest := make(map[*block.Block][]Task)
	var heads []Task
	for _, t := range tasks {
		if _, seen := byDest[t.C]; !seen {
			heads = append(heads, t)
		}
		byDest[t.C] = append(byDest[t.C], t)
	}
	pool := NewWorkerPool(nthreads)
	pool.Run(heads, func(h Task) {
		for _, t := range byDest[h.C] {
			execute(t)
		}
	})
}

func execute(t Task) {
	Contract(t.ViewA, t.ViewB, t.ViewC, t.AlphaR, t.AlphaC)
}

// DiagramResidency inspects which of a mult call's three diagrams have
// any on-disk blocks, so the caller can pick a loop order via
// Residency.OuterMost that keeps the disk-resident operand's loop
// outermost.
func DiagramResidency(a, b, c *diagram.Diagram) Residency {
	has := func(d *diagram.Diagram) bool {
		for _, blk := range d.Blocks {
			if blk.Storage == storage.OnDisk {
				return true
			}
		}
		return false
	}
	return Residency{AOnDisk: has(a), BOnDisk: has(b), COnDisk: has(c)}
}

// WorkerPool runs GEMM tasks across a fixed number of goroutines, each
// pulling from a shared channel — the external-parallelism scheme.
type WorkerPool struct {
	NumWorkers int
	mu         sync.Mutex
	completed  int
}

func NewWorkerPool(n int) *WorkerPool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return &WorkerPool{NumWorkers: n}
}

// Run distributes tasks across the pool's workers, each applying fn to
// its assigned tasks.
func (p *WorkerPool) Run(tasks []Task, fn func(Task)) {
	ch := make(chan Task, len(tasks))
	for _, t := range tasks {
		ch <- t
	}
	close(ch)

	var wg sync.WaitGroup
	for i := 0; i < p.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range ch {
				fn(t)
				p.mu.Lock()
				p.completed++
				p.mu.Unlock()
			}
		}()
	}
	wg.Wait()
}

func (p *WorkerPool) Completed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}
