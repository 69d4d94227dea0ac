// Package engine is the operations surface the CC equations call:
// template/copy/reorder/mult/add/update/perm/diveps/closed/expand/
// selection/diffmax/findmax/scalar_product/clear, plus the engine's
// own extensions for core-correlation removal and intruder-state
// prediction. Operands are passed as *diagram.Diagram values, not looked
// up by name (PredictIntruders is the exception: it takes its operand's
// stack name); operations that build a new diagram register it on the
// diagram stack carried in a Context under the name they are given.
package engine

import (
	"github.com/relcc/tcengine/internal/dstack"
	"github.com/relcc/tcengine/internal/options"
	"github.com/relcc/tcengine/internal/spinor"
	"github.com/relcc/tcengine/internal/storage"
	"github.com/relcc/tcengine/internal/symmetry"
)

// Context bundles the process-wide state every engine operation needs,
// threaded explicitly instead of living behind file-scope globals: the
// symmetry table, the spinor catalogue, the diagram stack, the run
// options, the storage backend and memory allocator, and the run id.
type Context struct {
	Symmetry  *symmetry.Table
	Spinors   *spinor.Catalog
	Stack     *dstack.Stack
	Options   *options.Options
	Storage   *storage.Backend
	Allocator *storage.Allocator
	RunID     string
}

// NewContext wires up a fresh Context from its components. The driver
// builds one Context per run and passes it to every engine call.
func NewContext(sym *symmetry.Table, cat *spinor.Catalog, opts *options.Options) *Context {
	backend := storage.NewBackend(opts.ScratchDir, opts.RunID, opts.DiskUsageLevel >= storage.LevelCompressed)
	return &Context{
		Symmetry:  sym,
		Spinors:   cat,
		Stack:     dstack.New(),
		Options:   opts,
		Storage:   backend,
		Allocator: storage.NewAllocator(opts.MaxMemoryBytes),
		RunID:     opts.RunID,
	}
}

func (c *Context) policy() storage.Policy {
	return storage.Policy{Level: c.Options.DiskUsageLevel}
}
