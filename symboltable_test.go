package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestNewSymbolTable(t *testing.T) {
	st := NewSymbolTable()
	be.Equal(t, st.Size(), 0)
	be.Equal(t, len(st.Names()), 0)
}

func TestLocationAssignsSlotsInFirstUseOrder(t *testing.T) {
	st := NewSymbolTable()
	be.Equal(t, st.Location(ScannerSlotName), 0)
	be.Equal(t, st.Location("x"), 1)
	be.Equal(t, st.Location("y"), 2)
	be.Equal(t, st.Location("x"), 1)
	be.Equal(t, st.Location(ScannerSlotName), 0)
	be.Equal(t, st.Location("z"), 3)
	be.Equal(t, st.Size(), 4)
	be.Equal(t, st.Names(), []string{ScannerSlotName, "x", "y", "z"})
}

func TestLocationSlotsAreDenseAndStable(t *testing.T) {
	st := NewSymbolTable()
	lookups := []string{"b", "a", "b", "c", "a", "d", "c", "b", "e", "a"}

	first := make(map[string]int)
	for _, name := range lookups {
		slot := st.Location(name)
		if want, seen := first[name]; seen {
			be.Equal(t, slot, want)
		} else {
			first[name] = slot
		}
	}

	be.Equal(t, st.Size(), len(first))
	used := make(map[int]bool)
	for _, slot := range first {
		be.True(t, slot >= 0 && slot < st.Size())
		be.True(t, !used[slot])
		used[slot] = true
	}
}

func TestNamesIsACopy(t *testing.T) {
	st := NewSymbolTable()
	st.Location("x")
	names := st.Names()
	names[0] = "changed"
	be.Equal(t, st.Names(), []string{"x"})
}

func TestScannerSlotNameIsNotAnIdentifier(t *testing.T) {
	_, err := NewLexer([]byte(ScannerSlotName))
	be.True(t, err != nil)
}

func TestLabelAllocator(t *testing.T) {
	la := &LabelAllocator{}
	be.Equal(t, la.Count(), 0)
	be.Equal(t, la.Next(), "l1")
	be.Equal(t, la.Next(), "l2")
	be.Equal(t, la.Count(), 2)
}

func TestLabelAllocatorUniqueness(t *testing.T) {
	la := &LabelAllocator{}
	seen := make(map[string]bool)
	for range 10000 {
		l := la.Next()
		be.True(t, !seen[l])
		seen[l] = true
	}
	be.Equal(t, la.Count(), 10000)
}
