package mars

import (
	"errors"

	"github.com/golang/glog"

	"wars/modn"
	"wars/redcode"
)

// Load validation failures. The simulator's state is unchanged when
// any of these is returned.
var (
	ErrProgramTooLong  = errors.New("program exceeds maximum length")
	ErrInvalidDistance = errors.New("programs closer than the minimum distance")
	ErrPinConflict     = errors.New("pin already in use")
	ErrEmptyBatch      = errors.New("batch contains no programs")
)

// A Placement is one program plus where and under which pin to load
// it. Pin is optional; left nil, the pin defaults to the assigned
// pid.
type Placement struct {
	Addr    redcode.Address
	Pin     *Pin
	Program []redcode.Instruction
}

// Load stamps one program into the arena at addr (reduced modulo the
// arena size, wrapping across the boundary) and registers a process
// with a single thread there.
func (m *Mars) Load(addr redcode.Address, program []redcode.Instruction) (Pid, error) {
	return m.load(Placement{Addr: addr, Program: program})
}

// LoadWithPin is Load with an explicit private-storage pin.
func (m *Mars) LoadWithPin(addr redcode.Address, pin Pin, program []redcode.Instruction) (Pid, error) {
	return m.load(Placement{Addr: addr, Pin: &pin, Program: program})
}

func (m *Mars) load(pl Placement) (Pid, error) {
	if err := m.validatePlacement(pl); err != nil {
		return 0, err
	}
	return m.commit(pl), nil
}

// LoadBatch loads several programs, additionally enforcing the
// minimum pairwise circular distance between their placements. On any
// failure nothing is committed.
func (m *Mars) LoadBatch(placements []Placement) ([]Pid, error) {
	if len(placements) == 0 {
		return nil, ErrEmptyBatch
	}

	seen := make(map[Pin]bool)
	for _, pl := range placements {
		if err := m.validatePlacement(pl); err != nil {
			return nil, err
		}
		if pl.Pin != nil {
			if seen[*pl.Pin] {
				return nil, ErrPinConflict
			}
			seen[*pl.Pin] = true
		}
	}

	size := m.mem.Size()
	for i := range placements {
		for j := i + 1; j < len(placements); j++ {
			a := placements[i].Addr % size
			b := placements[j].Addr % size
			if modn.Dist(a, b, size) < m.cfg.MinDistance {
				return nil, ErrInvalidDistance
			}
		}
	}

	pids := make([]Pid, 0, len(placements))
	for _, pl := range placements {
		pids = append(pids, m.commit(pl))
	}
	return pids, nil
}

func (m *Mars) validatePlacement(pl Placement) error {
	if len(pl.Program) > m.cfg.MaxLength {
		return ErrProgramTooLong
	}
	if pl.Pin != nil {
		if _, used := m.pins[*pl.Pin]; used {
			return ErrPinConflict
		}
	}
	return nil
}

// commit performs the actual placement; validation has already
// passed.
func (m *Mars) commit(pl Placement) Pid {
	pid := m.nextPid
	m.nextPid++

	pin := Pin(pid)
	if pl.Pin != nil {
		pin = *pl.Pin
	}

	dest := pl.Addr % m.mem.Size()
	for i, ins := range pl.Program {
		m.mem.Store(m.mem.Add(dest, redcode.Value(i)), m.canon(ins))
	}

	// private storage survives Reset, so a pin reloaded for a new
	// round keeps what it stored last round
	if _, ok := m.pspace[pin]; !ok {
		m.pspace[pin] = make([]redcode.Value, m.cfg.PSpaceSize)
	}
	m.pins[pin] = pid

	m.procs = append(m.procs, &process{
		pid:     pid,
		pin:     pin,
		threads: []redcode.Address{dest},
	})
	m.halted = false

	glog.V(1).Infof("loaded pid=%d pin=%d at %04d, %d cells", pid, pin, dest, len(pl.Program))
	return pid
}

// canon folds an instruction's displacements into [0, size).
// Displacements written as "-n" in source text arrive as
// two's-complement wraps of n; fold them back through the modulus
// rather than reducing the wrapped bit pattern, which would land on
// the wrong residue for any arena size that does not divide 2^32.
func (m *Mars) canon(ins redcode.Instruction) redcode.Instruction {
	ins.A.Value = m.canonValue(ins.A.Value)
	ins.B.Value = m.canonValue(ins.B.Value)
	return ins
}

func (m *Mars) canonValue(v redcode.Value) redcode.Value {
	if int32(v) < 0 {
		return modn.Sub(0, uint32(-int64(int32(v))), m.mem.Size())
	}
	return m.mem.Norm(v)
}

// Reset clears the arena back to default cells, drops every process,
// and rewinds the cycle counter. Private storage is kept; ResetHard
// drops it too.
func (m *Mars) Reset() {
	m.mem.Clear()
	m.procs = nil
	m.pins = make(map[Pin]Pid)
	m.cycle = 0
	m.halted = true
	glog.V(1).Info("reset")
}

// ResetHard is Reset plus clearing all private storage.
func (m *Mars) ResetHard() {
	m.Reset()
	m.pspace = make(map[Pin][]redcode.Value)
}
