// Package arena implements the circular instruction memory the
// warriors fight over. Every read and write goes through modular
// indexing, so there is no out-of-bounds access to guard against; the
// arena never fails.
package arena

import (
	"wars/modn"
	"wars/redcode"
)

// An Arena is a fixed-size sequence of instruction cells indexed
// modulo its size. The size is set at construction and never changes.
//
// Components hold a pointer to the arena the way hardware hangs off a
// shared bus; the simulator owns it, the executor mutates it.
type Arena struct {
	cells []redcode.Instruction
}

// New returns an arena of the given size with every cell set to the
// default instruction. Panics if size is zero; the builder validates
// configuration before constructing one.
func New(size uint32) *Arena {
	a := &Arena{cells: make([]redcode.Instruction, size)}
	a.Clear()
	return a
}

// Size returns the number of cells.
func (a *Arena) Size() uint32 {
	return uint32(len(a.cells))
}

// Fetch returns a copy of the cell at addr mod size. Working on a copy
// is what makes instructions like MOV.I $0, $1 well defined when the
// source and destination overlap.
func (a *Arena) Fetch(addr redcode.Address) redcode.Instruction {
	return a.cells[addr%a.Size()]
}

// Store overwrites the cell at addr mod size.
func (a *Arena) Store(addr redcode.Address, ins redcode.Instruction) {
	a.cells[addr%a.Size()] = ins
}

// View returns a copy of all cells, for observers and tests.
func (a *Arena) View() []redcode.Instruction {
	out := make([]redcode.Instruction, len(a.cells))
	copy(out, a.cells)
	return out
}

// Clear resets every cell to the default instruction.
func (a *Arena) Clear() {
	if len(a.cells) == 0 {
		panic("arena size must be positive")
	}
	for i := range a.cells {
		a.cells[i] = redcode.Default()
	}
}

// Add returns (base + disp) mod size.
func (a *Arena) Add(base redcode.Address, disp redcode.Value) redcode.Address {
	return modn.Add(base, disp, a.Size())
}

// Sub returns (base - disp) mod size, without underflow.
func (a *Arena) Sub(base redcode.Address, disp redcode.Value) redcode.Address {
	return modn.Sub(base, disp, a.Size())
}

// Norm reduces any value into [0, size); the loader uses it to
// canonicalise displacements on the way in.
func (a *Arena) Norm(v redcode.Value) redcode.Value {
	return modn.Norm(v, a.Size())
}
