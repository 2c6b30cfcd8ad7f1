// Package mars implements the Memory Array Redcode Simulator: the
// arena, the operand resolver, the instruction executor, the
// round-robin scheduler, and the program loader.
//
// The simulator is single-threaded cooperative. One Step call
// advances exactly one thread of one process by one instruction and
// either completes fully or (if already halted) does nothing at all;
// there is no blocking primitive anywhere inside. Callers wanting
// parallel matches run disjoint Mars instances.
package mars

import (
	"wars/arena"
	"wars/redcode"
)

// A Pid identifies a loaded program for its whole life; a Pin keys a
// program's private storage and survives Reset (but not ResetHard).
type (
	Pid int
	Pin int
)

// A process owns a FIFO of thread program counters. It sits in the
// scheduler queue exactly as long as the FIFO is non-empty. Threads
// are anonymous; their only identity is queue position.
type process struct {
	pid     Pid
	pin     Pin
	threads []redcode.Address // front at index 0
}

// Mars is one simulator instance. It exclusively owns the arena and
// the scheduler queue; each process exclusively owns its thread FIFO.
// Not safe for concurrent Step calls.
type Mars struct {
	cfg Config
	mem *arena.Arena

	// scheduler FIFO, front at index 0
	procs []*process

	// private storage, keyed by pin so it can outlive the process
	// across rounds
	pspace map[Pin][]redcode.Value

	// pins claimed since the last Reset, for conflict detection
	pins map[Pin]Pid

	nextPid Pid
	cycle   int
	halted  bool
}

// Step executes one instruction of the front process's front thread
// and rotates both queues. On a halted simulator it is a safe no-op:
// the first call after the cycle budget runs out returns
// MaxCyclesReached, every other one returns Halted.
func (m *Mars) Step() Event {
	if m.halted {
		return Halted
	}
	if m.cycle >= m.cfg.MaxCycles {
		m.halted = true
		return MaxCyclesReached
	}

	p := m.procs[0]
	m.procs = m.procs[1:]
	pc := p.threads[0]
	p.threads = p.threads[1:]

	out := m.execute(p, pc)

	// the continuation goes back first, then any split thread
	if !out.died {
		p.threads = append(p.threads, out.next)
	}
	if out.spawned {
		p.threads = append(p.threads, out.spawn)
	}
	if len(p.threads) > 0 {
		m.procs = append(m.procs, p)
	}

	m.cycle++
	if len(m.procs) == 0 {
		m.halted = true
	}
	return out.event
}

// Halted reports whether the simulator has stopped: no live process
// remains, or the cycle budget was hit.
func (m *Mars) Halted() bool {
	return m.halted || m.cycle >= m.cfg.MaxCycles
}

// Winner returns the sole surviving process's pid. There is no winner
// while several processes live, and none after cycle exhaustion (a
// draw).
func (m *Mars) Winner() (Pid, bool) {
	if m.cycle >= m.cfg.MaxCycles {
		return 0, false
	}
	if len(m.procs) == 1 {
		return m.procs[0].pid, true
	}
	return 0, false
}

// Cycle returns the number of instructions executed so far.
func (m *Mars) Cycle() int {
	return m.cycle
}

// Pid returns the pid of the process whose thread executes next.
func (m *Mars) Pid() (Pid, bool) {
	if len(m.procs) == 0 {
		return 0, false
	}
	return m.procs[0].pid, true
}

// PC returns the program counter that executes next.
func (m *Mars) PC() (redcode.Address, bool) {
	if len(m.procs) == 0 {
		return 0, false
	}
	return m.procs[0].threads[0], true
}

// ProcessCount returns the number of live processes.
func (m *Mars) ProcessCount() int {
	return len(m.procs)
}

// ThreadCount returns the total number of live threads across all
// processes.
func (m *Mars) ThreadCount() int {
	n := 0
	for _, p := range m.procs {
		n += len(p.threads)
	}
	return n
}

// ProcessThreads pairs a pid with a snapshot of its thread FIFO.
type ProcessThreads struct {
	Pid Pid
	PCs []redcode.Address
}

// Threads returns every live process's thread FIFO in scheduling
// order.
func (m *Mars) Threads() []ProcessThreads {
	out := make([]ProcessThreads, 0, len(m.procs))
	for _, p := range m.procs {
		pcs := make([]redcode.Address, len(p.threads))
		copy(pcs, p.threads)
		out = append(out, ProcessThreads{Pid: p.pid, PCs: pcs})
	}
	return out
}

// Memory returns a copy of the whole arena.
func (m *Mars) Memory() []redcode.Instruction {
	return m.mem.View()
}

// Fetch returns a copy of one arena cell.
func (m *Mars) Fetch(addr redcode.Address) redcode.Instruction {
	return m.mem.Fetch(addr)
}

// PSpace returns a copy of the private storage registered under pin.
func (m *Mars) PSpace(pin Pin) ([]redcode.Value, bool) {
	store, ok := m.pspace[pin]
	if !ok {
		return nil, false
	}
	out := make([]redcode.Value, len(store))
	copy(out, store)
	return out, true
}

// Size returns the arena size.
func (m *Mars) Size() uint32 {
	return m.mem.Size()
}

// PSpaceSize returns the configured private storage size.
func (m *Mars) PSpaceSize() uint32 {
	return m.cfg.PSpaceSize
}

// Version returns the informational version (x100).
func (m *Mars) Version() int {
	return m.cfg.Version
}

// MaxCycles returns the cycle budget.
func (m *Mars) MaxCycles() int {
	return m.cfg.MaxCycles
}

// MaxThreads returns the per-process thread cap.
func (m *Mars) MaxThreads() int {
	return m.cfg.MaxThreads
}

// MaxLength returns the longest loadable program.
func (m *Mars) MaxLength() int {
	return m.cfg.MaxLength
}

// MinDistance returns the minimum circular distance between batch
// placements.
func (m *Mars) MinDistance() uint32 {
	return m.cfg.MinDistance
}
