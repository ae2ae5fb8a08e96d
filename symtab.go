package main

import "strconv"

// ScannerSlotName names the local slot holding the runtime's input reader.
// No Small identifier can spell it, so it never collides with a variable.
const ScannerSlotName = "Java Scanner"

// SymbolTable maps identifiers to local slot indices. Slots are assigned in
// first-lookup order starting at 0 and are never reused.
type SymbolTable struct {
	slots map[string]int
	names []string // names[slot] is the identifier stored in slot
}

// NewSymbolTable creates a new empty symbol table
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{slots: make(map[string]int)}
}

// Location returns the slot of name, assigning the next free slot the
// first time name is seen.
func (st *SymbolTable) Location(name string) int {
	if slot, ok := st.slots[name]; ok {
		return slot
	}
	slot := len(st.names)
	st.slots[name] = slot
	st.names = append(st.names, name)
	return slot
}

// Size returns the number of slots assigned so far.
func (st *SymbolTable) Size() int {
	return len(st.names)
}

// Names returns the identifiers in slot order.
func (st *SymbolTable) Names() []string {
	return append([]string(nil), st.names...)
}

// LabelAllocator issues control-flow labels that are unique within one
// compilation.
type LabelAllocator struct {
	current int
}

// Next returns a new, unique label.
func (la *LabelAllocator) Next() string {
	la.current++
	return "l" + strconv.Itoa(la.current)
}

// Count returns how many labels have been issued.
func (la *LabelAllocator) Count() int {
	return la.current
}
