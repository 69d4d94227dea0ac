package dstack

import (
	"testing"

	"github.com/relcc/tcengine/internal/diagram"
	"github.com/relcc/tcengine/internal/errs"
)

func named(name string) *diagram.Diagram {
	return &diagram.Diagram{Name: name}
}

func TestPushGetErase(t *testing.T) {
	s := New()
	s.Push(named("t2"))
	if s.Get("t2") == nil {
		t.Fatal("expected t2 on stack")
	}
	s.Erase("t2")
	if s.Get("t2") != nil {
		t.Fatal("expected t2 removed")
	}
}

func TestRestorePos(t *testing.T) {
	s := New()
	s.Push(named("base"))
	p := s.GetPos()
	s.Push(named("tmp1"))
	s.Push(named("tmp2"))
	s.RestorePos(p)
	if s.Depth() != 1 {
		t.Fatalf("expected depth 1 after restore, got %d", s.Depth())
	}
	if s.Get("base") == nil {
		t.Fatal("base should survive RestorePos")
	}
}

func TestPushDuplicateNameFails(t *testing.T) {
	s := New()
	s.Push(named("dup"))
	defer func() {
		if code, recovered := errs.Recover(); !recovered || code != 1 {
			t.Fatal("expected Fatal to panic with a recoverable exit")
		}
	}()
	s.Push(named("dup"))
}
