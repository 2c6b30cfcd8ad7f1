// The wars command loads redcode warriors into a fresh arena, runs
// the match, and reports the outcome.
//
// Exit codes: 0 when the match was decided (including a draw), 1 on a
// warrior load or parse error, 2 on a configuration error.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/tebeka/atexit"

	"wars/game"
	"wars/mars"
	"wars/redcode"
)

const memoryViewSize = 17

var (
	arenaSize   = flag.Uint("size", mars.DefaultArenaSize, "cells in the arena")
	pspaceSize  = flag.Uint("pspace", mars.DefaultPSpaceSize, "private storage cells per warrior (0 disables LDP/STP)")
	maxCycles   = flag.Int("cycles", mars.DefaultMaxCycles, "cycle budget before a draw")
	maxThreads  = flag.Int("threads", mars.DefaultMaxThreads, "thread cap per warrior")
	maxLength   = flag.Int("length", mars.DefaultMaxLength, "longest loadable warrior")
	minDistance = flag.Uint("distance", mars.DefaultMinDistance, "minimum distance between warriors")
	stepMode    = flag.Bool("step", false, "single-step on stdin, dumping the arena around the pc")
	debugMode   = flag.Bool("debug", false, "open the interactive debugger instead of running")
)

func main() {
	flag.Parse()
	atexit.Register(glog.Flush)

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] warrior.red [warrior.red ...]\n", os.Args[0])
		flag.PrintDefaults()
		atexit.Exit(2)
	}

	m, err := mars.NewBuilder().
		WithArenaSize(uint32(*arenaSize)).
		WithPSpaceSize(uint32(*pspaceSize)).
		WithMaxCycles(*maxCycles).
		WithMaxThreads(*maxThreads).
		WithMaxLength(*maxLength).
		WithMinDistance(uint32(*minDistance)).
		Build()
	if err != nil {
		glog.Errorf("configuration: %v", err)
		atexit.Exit(2)
	}

	g := game.New(m)
	pins := make(map[mars.Pin]string)

	// spread the warriors evenly around the arena
	spacing := m.Size() / uint32(flag.NArg())
	for i, path := range flag.Args() {
		src, err := os.ReadFile(path)
		if err != nil {
			glog.Errorf("%s: %v", path, err)
			atexit.Exit(1)
		}
		prog, err := redcode.ParseProgram(string(src))
		if err != nil {
			glog.Errorf("%s: %v", path, err)
			atexit.Exit(1)
		}

		pin, err := g.AddPlayer(prog, uint32(i)*spacing)
		if err != nil {
			glog.Errorf("%s: %v", path, err)
			atexit.Exit(1)
		}
		pins[pin] = path
		glog.Infof("%s: %d cells at %04d", path, len(prog), uint32(i)*spacing)
	}

	switch {
	case *debugMode:
		if err := m.Debug(); err != nil {
			glog.Errorf("debugger: %v", err)
			atexit.Exit(1)
		}
	case *stepMode:
		runInteractive(g)
	default:
		report(g.Run(), pins)
	}
	atexit.Exit(0)
}

func report(res game.Result, pins map[mars.Pin]string) {
	if res.Draw {
		fmt.Printf("draw after %d cycles\n", res.Cycles)
		return
	}
	fmt.Printf("%s wins after %d cycles\n", pins[res.Winner], res.Cycles)
}

// runInteractive mirrors the batch loop but waits for a newline
// between cycles, printing the arena around the current pc.
func runInteractive(g *game.Game) {
	m := g.Mars()
	stdin := bufio.NewScanner(os.Stdin)

	for !m.Halted() {
		printWindow(m)
		fmt.Print("> ")
		if !stdin.Scan() {
			fmt.Println()
			return
		}

		ev, eliminated := g.Step()
		fmt.Println(ev)
		for _, pin := range eliminated {
			fmt.Printf("player %d eliminated\n", pin)
		}
	}

	if pin, ok := g.Winner(); ok {
		fmt.Printf("player %d wins after %d cycles\n", pin, m.Cycle())
	} else {
		fmt.Printf("draw after %d cycles\n", m.Cycle())
	}
}

func printWindow(m *mars.Mars) {
	pc, running := m.PC()
	if !running {
		return
	}
	pid, _ := m.Pid()
	fmt.Printf("| cycle: %04d | pid: %02d | pc: %04d |\n", m.Cycle(), pid, pc)

	start := pc + m.Size() - (memoryViewSize-1)/2
	for i := uint32(0); i < uint32(memoryViewSize); i++ {
		addr := (start + i) % m.Size()
		if addr == pc {
			fmt.Printf(">[%04d] %v\n", addr, m.Fetch(addr))
		} else {
			fmt.Printf(" [%04d] %v\n", addr, m.Fetch(addr))
		}
	}
}
