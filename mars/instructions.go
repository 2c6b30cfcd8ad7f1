package mars

import (
	"wars/modn"
	"wars/redcode"
)

// One exec method per opcode, dispatched from execute. Each returns an
// outcome: the event to report, where the thread continues (if it
// does), and any thread spawned by SPL.

type outcome struct {
	event   Event
	next    redcode.Address
	died    bool
	spawn   redcode.Address
	spawned bool
}

func (m *Mars) stepped(pc redcode.Address) outcome {
	return outcome{event: Stepped, next: m.mem.Add(pc, 1)}
}

func (m *Mars) skipped(pc redcode.Address) outcome {
	return outcome{event: Skipped, next: m.mem.Add(pc, 2)}
}

func jumped(addr redcode.Address) outcome {
	return outcome{event: Jumped, next: addr}
}

func died() outcome {
	return outcome{event: ThreadTerminated, died: true}
}

// execute runs one fetched instruction: resolve both operands, land
// the pre-decrements (A-operand's first), dispatch, land the
// post-increments in the same order.
func (m *Mars) execute(p *process, pc redcode.Address) outcome {
	ir := m.mem.Fetch(pc)

	ra := m.resolve(pc, ir.A)
	rb := m.resolve(pc, ir.B)

	m.applyPre(ra)
	m.applyPre(rb)

	var out outcome
	switch ir.Op {
	case redcode.Dat:
		out = died()
	case redcode.Mov:
		out = m.execMov(ir, pc, ra, rb)
	case redcode.Add:
		out = m.execArith(ir, pc, ra, rb, modn.Add)
	case redcode.Sub:
		out = m.execArith(ir, pc, ra, rb, modn.Sub)
	case redcode.Mul:
		out = m.execArith(ir, pc, ra, rb, mulMod)
	case redcode.Div:
		out = m.execDivMod(ir, pc, ra, rb, func(b, a uint32) uint32 { return b / a })
	case redcode.Mod:
		out = m.execDivMod(ir, pc, ra, rb, func(b, a uint32) uint32 { return b % a })
	case redcode.Jmp:
		out = jumped(ra.addr)
	case redcode.Jmz:
		out = m.execJmz(ir, pc, ra, rb)
	case redcode.Jmn:
		out = m.execJmn(ir, pc, ra, rb)
	case redcode.Djn:
		out = m.execDjn(ir, pc, ra, rb)
	case redcode.Spl:
		out = m.execSpl(p, pc, ra)
	case redcode.Seq:
		out = m.execSeq(ir, pc, ra, rb)
	case redcode.Sne:
		out = m.execSne(ir, pc, ra, rb)
	case redcode.Slt:
		out = m.execSlt(ir, pc, ra, rb)
	case redcode.Ldp:
		out = m.execLdp(p, ir, pc, rb)
	case redcode.Stp:
		out = m.execStp(p, ir, pc, ra)
	case redcode.Nop:
		out = m.stepped(pc)
	default:
		out = m.stepped(pc)
	}

	m.applyPost(ra)
	m.applyPost(rb)
	return out
}

// Sub-field routing. A selector picks a cell's A or B field; a
// modifier routes (source, destination) selector pairs.

type fieldSel int

const (
	selA fieldSel = iota
	selB
)

func getField(ins redcode.Instruction, s fieldSel) redcode.Value {
	if s == selA {
		return ins.A.Value
	}
	return ins.B.Value
}

func setField(ins *redcode.Instruction, s fieldSel, v redcode.Value) {
	if s == selA {
		ins.A.Value = v
	} else {
		ins.B.Value = v
	}
}

// pairs returns the (source, destination) sub-field pairs a modifier
// routes. I routes like F here; the opcodes where I means "whole
// instruction" (MOV, SEQ, SNE) special-case it before asking.
func pairs(mod redcode.Modifier) [][2]fieldSel {
	switch mod {
	case redcode.ModA:
		return [][2]fieldSel{{selA, selA}}
	case redcode.ModB:
		return [][2]fieldSel{{selB, selB}}
	case redcode.ModAB:
		return [][2]fieldSel{{selA, selB}}
	case redcode.ModBA:
		return [][2]fieldSel{{selB, selA}}
	case redcode.ModX:
		return [][2]fieldSel{{selA, selB}, {selB, selA}}
	default: // ModF, ModI
		return [][2]fieldSel{{selA, selA}, {selB, selB}}
	}
}

// Mov - copy selected fields from source to destination.
func (m *Mars) execMov(ir redcode.Instruction, pc redcode.Address, ra, rb resolved) outcome {
	src := m.mem.Fetch(ra.addr) // private copy; safe when ra == rb
	if ir.Mod == redcode.ModI {
		m.mem.Store(rb.addr, src)
		return m.stepped(pc)
	}
	dst := m.mem.Fetch(rb.addr)
	for _, pr := range pairs(ir.Mod) {
		setField(&dst, pr[1], getField(src, pr[0]))
	}
	m.mem.Store(rb.addr, dst)
	return m.stepped(pc)
}

// Add/Sub/Mul - componentwise modular arithmetic into the destination.
func (m *Mars) execArith(ir redcode.Instruction, pc redcode.Address, ra, rb resolved, op func(b, a, size uint32) uint32) outcome {
	src := m.mem.Fetch(ra.addr)
	dst := m.mem.Fetch(rb.addr)
	size := m.mem.Size()
	for _, pr := range pairs(ir.Mod) {
		setField(&dst, pr[1], op(getField(dst, pr[1]), getField(src, pr[0]), size))
	}
	m.mem.Store(rb.addr, dst)
	return m.stepped(pc)
}

// mulMod multiplies through uint64 so the product cannot wrap before
// reduction.
func mulMod(b, a, size uint32) uint32 {
	return uint32(uint64(b) * uint64(a) % uint64(size))
}

// Div/Mod - componentwise, but a zero divisor anywhere among the
// active components kills the thread with the destination untouched.
func (m *Mars) execDivMod(ir redcode.Instruction, pc redcode.Address, ra, rb resolved, op func(b, a uint32) uint32) outcome {
	src := m.mem.Fetch(ra.addr)
	dst := m.mem.Fetch(rb.addr)
	for _, pr := range pairs(ir.Mod) {
		if getField(src, pr[0]) == 0 {
			return died()
		}
	}
	for _, pr := range pairs(ir.Mod) {
		setField(&dst, pr[1], op(getField(dst, pr[1]), getField(src, pr[0])))
	}
	m.mem.Store(rb.addr, dst)
	return m.stepped(pc)
}

// Jmz - jump if the tested destination field(s) are zero. A/BA test
// the A field, B/AB the B field, F/X/I both.
func (m *Mars) execJmz(ir redcode.Instruction, pc redcode.Address, ra, rb resolved) outcome {
	dst := m.mem.Fetch(rb.addr)
	var zero bool
	switch ir.Mod {
	case redcode.ModA, redcode.ModBA:
		zero = dst.A.Value == 0
	case redcode.ModB, redcode.ModAB:
		zero = dst.B.Value == 0
	default:
		zero = dst.A.Value == 0 && dst.B.Value == 0
	}
	if zero {
		return jumped(ra.addr)
	}
	return m.stepped(pc)
}

// Jmn - jump if non-zero; F/X/I require both fields non-zero.
func (m *Mars) execJmn(ir redcode.Instruction, pc redcode.Address, ra, rb resolved) outcome {
	dst := m.mem.Fetch(rb.addr)
	var nonzero bool
	switch ir.Mod {
	case redcode.ModA, redcode.ModBA:
		nonzero = dst.A.Value != 0
	case redcode.ModB, redcode.ModAB:
		nonzero = dst.B.Value != 0
	default:
		nonzero = dst.A.Value != 0 && dst.B.Value != 0
	}
	if nonzero {
		return jumped(ra.addr)
	}
	return m.stepped(pc)
}

// Djn - decrement the tested field(s) in place, then jump if the
// result is non-zero; F/X/I jump if either field survived non-zero.
func (m *Mars) execDjn(ir redcode.Instruction, pc redcode.Address, ra, rb resolved) outcome {
	size := m.mem.Size()
	dst := m.mem.Fetch(rb.addr)
	var nonzero bool
	switch ir.Mod {
	case redcode.ModA, redcode.ModBA:
		dst.A.Value = modn.Dec(dst.A.Value, size)
		nonzero = dst.A.Value != 0
	case redcode.ModB, redcode.ModAB:
		dst.B.Value = modn.Dec(dst.B.Value, size)
		nonzero = dst.B.Value != 0
	default:
		dst.A.Value = modn.Dec(dst.A.Value, size)
		dst.B.Value = modn.Dec(dst.B.Value, size)
		nonzero = dst.A.Value != 0 || dst.B.Value != 0
	}
	m.mem.Store(rb.addr, dst)
	if nonzero {
		return jumped(ra.addr)
	}
	return m.stepped(pc)
}

// Spl - enqueue a new thread at the A operand's effective address,
// after the continuation. At the thread cap it degrades to a step.
func (m *Mars) execSpl(p *process, pc redcode.Address, ra resolved) outcome {
	// the executing thread is out of the FIFO right now, hence +1
	if len(p.threads)+1 >= m.cfg.MaxThreads {
		return m.stepped(pc)
	}
	out := m.stepped(pc)
	out.event = Split
	out.spawn = ra.addr
	out.spawned = true
	return out
}

// seqEqual reports whether the selected fields compare equal; I
// compares whole instructions.
func (m *Mars) seqEqual(ir redcode.Instruction, ra, rb resolved) bool {
	src := m.mem.Fetch(ra.addr)
	dst := m.mem.Fetch(rb.addr)
	if ir.Mod == redcode.ModI {
		return src == dst
	}
	for _, pr := range pairs(ir.Mod) {
		if getField(src, pr[0]) != getField(dst, pr[1]) {
			return false
		}
	}
	return true
}

// Seq - skip the next instruction if the selected fields are equal.
func (m *Mars) execSeq(ir redcode.Instruction, pc redcode.Address, ra, rb resolved) outcome {
	if m.seqEqual(ir, ra, rb) {
		return m.skipped(pc)
	}
	return m.stepped(pc)
}

// Sne - skip if any selected field differs.
func (m *Mars) execSne(ir redcode.Instruction, pc redcode.Address, ra, rb resolved) outcome {
	if !m.seqEqual(ir, ra, rb) {
		return m.skipped(pc)
	}
	return m.stepped(pc)
}

// Slt - skip if every selected source field is strictly less than its
// destination counterpart. No wrapping here; the comparison is on the
// canonical [0, size) values.
func (m *Mars) execSlt(ir redcode.Instruction, pc redcode.Address, ra, rb resolved) outcome {
	src := m.mem.Fetch(ra.addr)
	dst := m.mem.Fetch(rb.addr)
	for _, pr := range pairs(ir.Mod) {
		if getField(src, pr[0]) >= getField(dst, pr[1]) {
			return m.stepped(pc)
		}
	}
	return m.skipped(pc)
}

// Ldp - load one private storage cell into the destination. The index
// comes from the A operand's displacement, not its effective address.
// With no private storage configured the thread dies. The slot is a
// scalar, so F/X/I route like B.
func (m *Mars) execLdp(p *process, ir redcode.Instruction, pc redcode.Address, rb resolved) outcome {
	store := m.pspace[p.pin]
	if len(store) == 0 {
		return died()
	}
	v := store[int(ir.A.Value)%len(store)]
	dst := m.mem.Fetch(rb.addr)
	switch ir.Mod {
	case redcode.ModA, redcode.ModBA:
		dst.A.Value = v
	default:
		dst.B.Value = v
	}
	m.mem.Store(rb.addr, dst)
	return m.stepped(pc)
}

// Stp - store one source field into private storage at the index from
// the B operand's displacement. Same scalar-slot routing as Ldp.
func (m *Mars) execStp(p *process, ir redcode.Instruction, pc redcode.Address, ra resolved) outcome {
	store := m.pspace[p.pin]
	if len(store) == 0 {
		return died()
	}
	src := m.mem.Fetch(ra.addr)
	var v redcode.Value
	switch ir.Mod {
	case redcode.ModA, redcode.ModAB:
		v = src.A.Value
	default:
		v = src.B.Value
	}
	store[int(ir.B.Value)%len(store)] = v
	return m.stepped(pc)
}
