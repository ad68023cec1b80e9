package engine

import (
	"testing"
)

func TestPageIndex_SetAndGet(t *testing.T) {
	p := NewPageIndex()

	p.SetIDs(1, []string{"A", "B", "C"})

	ids := p.IDs(1)
	if len(ids) != 3 || ids[0] != "A" || ids[2] != "C" {
		t.Errorf("Unexpected ids: %v", ids)
	}

	if got := p.IDs(2); got != nil {
		t.Errorf("Unknown page should yield nil, got %v", got)
	}
}

func TestPageIndex_SetReplacesWholesale(t *testing.T) {
	p := NewPageIndex()

	p.SetIDs(1, []string{"A", "B"})
	p.SetIDs(1, []string{"C"})

	ids := p.IDs(1)
	if len(ids) != 1 || ids[0] != "C" {
		t.Errorf("Expected [C], got %v", ids)
	}
}

func TestPageIndex_Clear(t *testing.T) {
	p := NewPageIndex()

	p.SetIDs(1, []string{"A"})
	p.SetIDs(2, []string{"B"})
	p.Clear()

	if p.Len() != 0 {
		t.Errorf("Expected empty index, got %d pages", p.Len())
	}
	if got := p.IDs(1); got != nil {
		t.Errorf("Cleared page should yield nil, got %v", got)
	}
}
