// Package game runs a corewars match on top of a Mars, tracking
// players by pin and reporting eliminations and the final outcome.
package game

import (
	"github.com/golang/glog"

	"wars/mars"
	"wars/redcode"
)

// A Result is the outcome of a finished match.
type Result struct {
	Winner mars.Pin
	Draw   bool
	Cycles int
}

// A Game wraps one simulator and the pin bookkeeping for its players.
type Game struct {
	m        *mars.Mars
	pidToPin map[mars.Pid]mars.Pin
	pinToPid map[mars.Pin]mars.Pid
}

// New wraps an already-built (typically empty) simulator.
func New(m *mars.Mars) *Game {
	return &Game{
		m:        m,
		pidToPin: make(map[mars.Pid]mars.Pin),
		pinToPid: make(map[mars.Pin]mars.Pid),
	}
}

// Mars exposes the underlying simulator for observers.
func (g *Game) Mars() *mars.Mars {
	return g.m
}

// AddPlayer loads a program at the given address under the next free
// pin.
func (g *Game) AddPlayer(program []redcode.Instruction, addr redcode.Address) (mars.Pin, error) {
	return g.AddPlayerWithPin(program, addr, g.nextPin())
}

// AddPlayerWithPin loads a program under an explicit pin.
func (g *Game) AddPlayerWithPin(program []redcode.Instruction, addr redcode.Address, pin mars.Pin) (mars.Pin, error) {
	pid, err := g.m.LoadWithPin(addr, pin, program)
	if err != nil {
		return 0, err
	}
	g.pidToPin[pid] = pin
	g.pinToPid[pin] = pid
	glog.V(1).Infof("player pin=%d loaded as pid=%d at %04d", pin, pid, addr)
	return pin, nil
}

// Step advances the match one cycle and reports the pins of any
// players whose last thread died during it.
func (g *Game) Step() (mars.Event, []mars.Pin) {
	before := g.livePids()
	ev := g.m.Step()

	var eliminated []mars.Pin
	alive := g.livePids()
	for pid := range before {
		if !alive[pid] {
			eliminated = append(eliminated, g.pidToPin[pid])
		}
	}
	return ev, eliminated
}

// Winner returns the pin of the sole surviving player.
func (g *Game) Winner() (mars.Pin, bool) {
	pid, ok := g.m.Winner()
	if !ok {
		return 0, false
	}
	return g.pidToPin[pid], true
}

// Run steps the match until it is decided: one player left standing,
// everyone dead, or the cycle budget exhausted.
func (g *Game) Run() Result {
	for {
		if pin, ok := g.Winner(); ok {
			glog.V(1).Infof("player %d wins at cycle %d", pin, g.m.Cycle())
			return Result{Winner: pin, Cycles: g.m.Cycle()}
		}
		if g.m.Halted() {
			// everyone died, or the budget ran out
			return Result{Draw: true, Cycles: g.m.Cycle()}
		}

		ev, eliminated := g.Step()
		for _, pin := range eliminated {
			glog.V(1).Infof("player %d eliminated at cycle %d", pin, g.m.Cycle())
		}
		if ev == mars.MaxCyclesReached {
			return Result{Draw: true, Cycles: g.m.Cycle()}
		}
	}
}

func (g *Game) livePids() map[mars.Pid]bool {
	live := make(map[mars.Pid]bool, g.m.ProcessCount())
	for _, pt := range g.m.Threads() {
		live[pt.Pid] = true
	}
	return live
}

func (g *Game) nextPin() mars.Pin {
	pin := mars.Pin(0)
	for {
		if _, taken := g.pinToPid[pin]; !taken {
			return pin
		}
		pin++
	}
}
