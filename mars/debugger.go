package mars

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"wars/redcode"
)

// windowSize is how many arena cells the debugger shows around the
// current program counter.
const windowSize = 17

type model struct {
	m *Mars

	prevPC redcode.Address
	lastEv Event
}

// Init is the first function that will be called. No initial command
// is needed; the caller loads programs before starting the debugger.
func (md model) Init() tea.Cmd {
	return nil
}

// Update steps the simulator on space/j and quits on q.
func (md model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return md, tea.Quit

		case " ", "j":
			if pc, ok := md.m.PC(); ok {
				md.prevPC = pc
			}
			md.lastEv = md.m.Step()
		}
	}
	return md, nil
}

// renderWindow renders the cells around the current PC, one per line,
// with the PC marked.
func (md model) renderWindow() string {
	size := md.m.Size()
	pc, running := md.m.PC()

	start := pc + size - (windowSize-1)/2
	lines := make([]string, 0, windowSize)
	for i := uint32(0); i < uint32(windowSize); i++ {
		addr := (start + i) % size
		mark := " "
		if running && addr == pc {
			mark = ">"
		}
		lines = append(lines, fmt.Sprintf("%s[%04d] %v", mark, addr, md.m.Fetch(addr)))
	}
	return strings.Join(lines, "\n")
}

func (md model) status() string {
	pid, _ := md.m.Pid()
	pc, _ := md.m.PC()

	threads := ""
	for _, pt := range md.m.Threads() {
		threads += fmt.Sprintf("\npid %d: %d thread(s)", pt.Pid, len(pt.PCs))
	}

	return fmt.Sprintf(`
cycle: %d / %d
   pc: %04d (%04d)
  pid: %d
 last: %v
halted: %v
%s`,
		md.m.Cycle(), md.m.MaxCycles(),
		pc, md.prevPC,
		pid,
		md.lastEv,
		md.m.Halted(),
		threads,
	)
}

// View renders the debugger UI: the arena window beside the machine
// status, with a dump of the next instruction underneath.
func (md model) View() string {
	var next any
	if pc, ok := md.m.PC(); ok {
		next = md.m.Fetch(pc)
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			md.renderWindow(),
			md.status(),
		),
		"",
		spew.Sdump(next),
		"space/j: step   q: quit",
	)
}

// Debug starts an interactive TUI over an already-loaded simulator:
// space or j single-steps, q quits.
func (m *Mars) Debug() error {
	_, err := tea.NewProgram(model{m: m}).Run()
	return err
}
