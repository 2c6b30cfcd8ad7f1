package mars

import (
	"wars/modn"
	"wars/redcode"
)

// Operand resolution is pure: it computes the effective address and
// records any pending pointer bump without touching the arena. Both
// operands are resolved before either side effect lands, then the
// pre-decrements are applied A-operand first, the opcode runs, and
// the post-increments are applied in the same order. Resolving first
// matters because reading one operand may otherwise observe the other
// operand's bump half-applied.

type effect int

const (
	effNone effect = iota
	effPreDecA
	effPreDecB
	effPostIncA
	effPostIncB
)

type resolved struct {
	addr   redcode.Address // effective cell address
	target redcode.Address // direct cell the side effect lands on
	eff    effect
}

// resolve computes one operand's effective address. Pre-decrement
// modes follow the already-decremented pointer; post-increment modes
// follow the original one.
func (m *Mars) resolve(pc redcode.Address, f redcode.Field) resolved {
	direct := m.mem.Add(pc, f.Value)

	switch f.Mode {
	case redcode.Immediate:
		return resolved{addr: pc}

	case redcode.Direct:
		return resolved{addr: direct}

	case redcode.AIndirect:
		return resolved{addr: m.mem.Add(direct, m.mem.Fetch(direct).A.Value)}

	case redcode.BIndirect:
		return resolved{addr: m.mem.Add(direct, m.mem.Fetch(direct).B.Value)}

	case redcode.APreDec:
		ptr := modn.Dec(m.mem.Fetch(direct).A.Value, m.mem.Size())
		return resolved{addr: m.mem.Add(direct, ptr), target: direct, eff: effPreDecA}

	case redcode.BPreDec:
		ptr := modn.Dec(m.mem.Fetch(direct).B.Value, m.mem.Size())
		return resolved{addr: m.mem.Add(direct, ptr), target: direct, eff: effPreDecB}

	case redcode.APostInc:
		return resolved{addr: m.mem.Add(direct, m.mem.Fetch(direct).A.Value), target: direct, eff: effPostIncA}

	case redcode.BPostInc:
		return resolved{addr: m.mem.Add(direct, m.mem.Fetch(direct).B.Value), target: direct, eff: effPostIncB}
	}

	return resolved{addr: direct}
}

// applyPre lands a pending pre-decrement on its direct cell.
func (m *Mars) applyPre(r resolved) {
	switch r.eff {
	case effPreDecA:
		cell := m.mem.Fetch(r.target)
		cell.A.Value = modn.Dec(cell.A.Value, m.mem.Size())
		m.mem.Store(r.target, cell)
	case effPreDecB:
		cell := m.mem.Fetch(r.target)
		cell.B.Value = modn.Dec(cell.B.Value, m.mem.Size())
		m.mem.Store(r.target, cell)
	}
}

// applyPost lands a pending post-increment on its direct cell.
func (m *Mars) applyPost(r resolved) {
	switch r.eff {
	case effPostIncA:
		cell := m.mem.Fetch(r.target)
		cell.A.Value = modn.Inc(cell.A.Value, m.mem.Size())
		m.mem.Store(r.target, cell)
	case effPostIncB:
		cell := m.mem.Fetch(r.target)
		cell.B.Value = modn.Inc(cell.B.Value, m.mem.Size())
		m.mem.Store(r.target, cell)
	}
}
