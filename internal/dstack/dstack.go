// Package dstack implements the process-wide diagram stack: a
// fixed-capacity LIFO addressable by name, with positional markers that
// let a CC iteration discard every temporary it created in one call.
package dstack

import (
	"github.com/relcc/tcengine/internal/diagram"
	"github.com/relcc/tcengine/internal/errs"
)

// MaxDepth bounds the stack, mirroring the reference engine's
// CC_MAX_STACK_DEPTH — a hard capacity chosen generously above any real
// run's working-set size so overflow always indicates a leaked temporary.
const MaxDepth = 1024

// Stack is the diagram stack. It is not safe for concurrent structural
// mutation (Push/Replace/Erase/RestorePos); callers serialize those calls,
// per the concurrency model's single-threaded stack structure rule.
type Stack struct {
	entries []*diagram.Diagram
	byName  map[string]int // name -> index in entries
}

// New creates an empty stack.
func New() *Stack {
	return &Stack{byName: make(map[string]int)}
}

// Push adds d to the top of the stack. Pushing a second diagram under a
// name already on the stack is a malformed-request error; use Replace to
// swap one out deliberately.
func (s *Stack) Push(d *diagram.Diagram) {
	if len(s.entries) >= MaxDepth {
		errs.Fatal(errs.New(errs.KindCapacity, "dstack: stack overflow (MaxDepth=%d)", MaxDepth))
	}
	if _, exists := s.byName[d.Name]; exists {
		errs.Fatal(errs.New(errs.KindMalformed, "dstack: diagram %q already on stack", d.Name))
	}
	s.byName[d.Name] = len(s.entries)
	s.entries = append(s.entries, d)
}

// Replace atomically swaps the diagram named d.Name for d, at the same
// stack position. It is a malformed-request error if no diagram by that
// name exists.
func (s *Stack) Replace(d *diagram.Diagram) {
	i, ok := s.byName[d.Name]
	if !ok {
		errs.Fatal(errs.New(errs.KindMalformed, "dstack: replace of unknown diagram %q", d.Name))
	}
	s.entries[i] = d
}

// Get returns the diagram named name, or nil.
func (s *Stack) Get(name string) *diagram.Diagram {
	i, ok := s.byName[name]
	if !ok {
		return nil
	}
	return s.entries[i]
}

// Erase removes and frees the diagram named name. It is a no-op if the
// name isn't on the stack.
func (s *Stack) Erase(name string) {
	i, ok := s.byName[name]
	if !ok {
		return
	}
	s.removeAt(i)
}

func (s *Stack) removeAt(i int) {
	delete(s.byName, s.entries[i].Name)
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	for name, idx := range s.byName {
		if idx > i {
			s.byName[name] = idx - 1
		}
	}
}

// Pos is an opaque stack-depth marker returned by GetPos and consumed by
// RestorePos.
type Pos int

// GetPos returns the current stack depth, to be passed to RestorePos once
// the caller's temporaries are no longer needed.
func (s *Stack) GetPos() Pos {
	return Pos(len(s.entries))
}

// RestorePos truncates the stack back to p, freeing every diagram pushed
// since GetPos returned p. Typical use: a CC iteration step saves the
// position, creates intermediates, and restores it at the end of the
// step.
func (s *Stack) RestorePos(p Pos) {
	if int(p) > len(s.entries) {
		errs.Fatal(errs.New(errs.KindMalformed, "dstack: RestorePos to %d exceeds current depth %d", p, len(s.entries)))
	}
	for i := len(s.entries) - 1; i >= int(p); i-- {
		delete(s.byName, s.entries[i].Name)
	}
	s.entries = s.entries[:p]
}

// Depth returns the number of diagrams currently on the stack.
func (s *Stack) Depth() int { return len(s.entries) }
