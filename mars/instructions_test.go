package mars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wars/redcode"
)

// newTestMars builds a small machine and loads one program at 0.
func newTestMars(t *testing.T, size uint32, src string) *Mars {
	t.Helper()
	m, err := NewBuilder().
		WithArenaSize(size).
		WithMaxLength(int(size)).
		WithMinDistance(1).
		WithMaxCycles(10000).
		Build()
	require.NoError(t, err)
	_, err = m.Load(0, mustParse(t, src))
	require.NoError(t, err)
	return m
}

func pcOf(t *testing.T, m *Mars) redcode.Address {
	t.Helper()
	pc, ok := m.PC()
	require.True(t, ok)
	return pc
}

func TestMovModifiers(t *testing.T) {
	// source cell holds (5,9), destination starts as (1,2)
	for _, tc := range []struct {
		mod  string
		a, b redcode.Value
	}{
		{"A", 5, 2},
		{"B", 1, 9},
		{"AB", 1, 5},
		{"BA", 9, 2},
		{"F", 5, 9},
		{"X", 9, 5},
	} {
		m := newTestMars(t, 16, `
MOV.`+tc.mod+` $1, $2
DAT.F #5, #9
DAT.F #1, #2
`)
		assert.Equal(t, Stepped, m.Step())
		got := m.Fetch(2)
		assert.Equal(t, tc.a, got.A.Value, "MOV.%s A field", tc.mod)
		assert.Equal(t, tc.b, got.B.Value, "MOV.%s B field", tc.mod)
	}

	// I moves the whole instruction
	m := newTestMars(t, 16, `
MOV.I $1, $2
SPL.B *3, <4
DAT.F #1, #2
`)
	m.Step()
	assert.Equal(t, m.Fetch(1), m.Fetch(2))
}

func TestMovSelfCopyIsIdempotent(t *testing.T) {
	m := newTestMars(t, 16, "MOV.I $0, $0")
	before := m.Fetch(0)
	assert.Equal(t, Stepped, m.Step())
	assert.Equal(t, before, m.Fetch(0))
	assert.Equal(t, 1, m.ThreadCount())
}

func TestAddWraps(t *testing.T) {
	m := newTestMars(t, 16, `
ADD.AB #15, $1
DAT.F #0, #3
`)
	m.Step()
	assert.Equal(t, redcode.Value(2), m.Fetch(1).B.Value) // 3+15 mod 16
}

func TestSubWrapsBelowZero(t *testing.T) {
	m := newTestMars(t, 16, `
SUB.AB #1, $1
DAT.F #0, #0
`)
	m.Step()
	// 0-1 wraps to size-1, never negative
	assert.Equal(t, redcode.Value(15), m.Fetch(1).B.Value)
}

func TestMulReduces(t *testing.T) {
	m := newTestMars(t, 16, `
MUL.AB #5, $1
DAT.F #0, #7
`)
	m.Step()
	assert.Equal(t, redcode.Value(3), m.Fetch(1).B.Value) // 35 mod 16
}

func TestDivAndMod(t *testing.T) {
	m := newTestMars(t, 16, `
DIV.AB #4, $1
DAT.F #0, #13
`)
	m.Step()
	assert.Equal(t, redcode.Value(3), m.Fetch(1).B.Value)

	m = newTestMars(t, 16, `
MOD.AB #4, $1
DAT.F #0, #13
`)
	m.Step()
	assert.Equal(t, redcode.Value(1), m.Fetch(1).B.Value)
}

func TestDivByZeroKillsThread(t *testing.T) {
	m := newTestMars(t, 16, `
DIV.AB #0, $1
DAT.F #7, #13
`)
	assert.Equal(t, ThreadTerminated, m.Step())
	assert.Equal(t, 0, m.ThreadCount())
	// destination untouched
	assert.Equal(t, redcode.Value(13), m.Fetch(1).B.Value)
}

func TestDivZeroAmongPairIsAllOrNothing(t *testing.T) {
	// DIV.F with one zero divisor: the thread dies and neither
	// destination component changes
	m := newTestMars(t, 16, `
DIV.F $1, $2
DAT.F #2, #0
DAT.F #8, #9
`)
	assert.Equal(t, ThreadTerminated, m.Step())
	assert.Equal(t, redcode.Value(8), m.Fetch(2).A.Value)
	assert.Equal(t, redcode.Value(9), m.Fetch(2).B.Value)
}

func TestJmpUsesEffectiveAddress(t *testing.T) {
	m := newTestMars(t, 16, "JMP $5, $0")
	assert.Equal(t, Jumped, m.Step())
	assert.Equal(t, redcode.Address(5), pcOf(t, m))

	// indirect jump follows the pointer like any other operand
	m = newTestMars(t, 16, `
JMP @1, $0
DAT.F #0, #2
`)
	assert.Equal(t, Jumped, m.Step())
	assert.Equal(t, redcode.Address(3), pcOf(t, m)) // 1 + cell[1].B

	// a jump past the boundary lands modulo the arena size
	m = newTestMars(t, 16, "JMP $100, $0")
	m.Step()
	assert.Equal(t, redcode.Address(4), pcOf(t, m)) // 100 mod 16
}

func TestJmz(t *testing.T) {
	m := newTestMars(t, 16, `
JMZ $5, $1
DAT.F #3, #0
`)
	assert.Equal(t, Jumped, m.Step()) // B field is zero
	assert.Equal(t, redcode.Address(5), pcOf(t, m))

	m = newTestMars(t, 16, `
JMZ $5, $1
DAT.F #0, #3
`)
	assert.Equal(t, Stepped, m.Step()) // B field is not

	// F requires both zero
	m = newTestMars(t, 16, `
JMZ.F $5, $1
DAT.F #0, #3
`)
	assert.Equal(t, Stepped, m.Step())
}

func TestJmn(t *testing.T) {
	m := newTestMars(t, 16, `
JMN $5, $1
DAT.F #0, #3
`)
	assert.Equal(t, Jumped, m.Step())

	m = newTestMars(t, 16, `
JMN $5, $1
DAT.F #3, #0
`)
	assert.Equal(t, Stepped, m.Step())

	// F requires both non-zero
	m = newTestMars(t, 16, `
JMN.F $5, $1
DAT.F #3, #0
`)
	assert.Equal(t, Stepped, m.Step())
}

func TestDjn(t *testing.T) {
	m := newTestMars(t, 16, `
DJN $5, $1
DAT.F #0, #2
`)
	assert.Equal(t, Jumped, m.Step())
	assert.Equal(t, redcode.Value(1), m.Fetch(1).B.Value) // decremented in place
	assert.Equal(t, redcode.Address(5), pcOf(t, m))

	// hitting zero falls through
	m = newTestMars(t, 16, `
DJN $5, $1
DAT.F #0, #1
`)
	assert.Equal(t, Stepped, m.Step())
	assert.Equal(t, redcode.Value(0), m.Fetch(1).B.Value)

	// the decrement wraps like everything else
	m = newTestMars(t, 16, `
DJN $5, $1
DAT.F #0, #0
`)
	assert.Equal(t, Jumped, m.Step())
	assert.Equal(t, redcode.Value(15), m.Fetch(1).B.Value)
}

func TestSeqSkips(t *testing.T) {
	m := newTestMars(t, 16, `
SEQ.I $1, $2
NOP $0, $0
NOP $0, $0
`)
	assert.Equal(t, Skipped, m.Step())
	assert.Equal(t, redcode.Address(2), pcOf(t, m))

	m = newTestMars(t, 16, `
SEQ.I $1, $2
NOP $0, $0
NOP $1, $0
`)
	assert.Equal(t, Stepped, m.Step())
	assert.Equal(t, redcode.Address(1), pcOf(t, m))
}

func TestSneSkips(t *testing.T) {
	m := newTestMars(t, 16, `
SNE.I $1, $2
NOP $0, $0
NOP $1, $0
`)
	assert.Equal(t, Skipped, m.Step())

	m = newTestMars(t, 16, `
SNE.I $1, $2
NOP $0, $0
NOP $0, $0
`)
	assert.Equal(t, Stepped, m.Step())
}

func TestSlt(t *testing.T) {
	m := newTestMars(t, 16, `
SLT.AB #3, $1
DAT.F #0, #5
`)
	assert.Equal(t, Skipped, m.Step()) // 3 < 5

	m = newTestMars(t, 16, `
SLT.AB #5, $1
DAT.F #0, #5
`)
	assert.Equal(t, Stepped, m.Step()) // not strictly less

	// F: every component must be less
	m = newTestMars(t, 16, `
SLT.F $1, $2
DAT.F #1, #9
DAT.F #2, #5
`)
	assert.Equal(t, Stepped, m.Step()) // 1<2 but 9>=5
}

func TestNop(t *testing.T) {
	m := newTestMars(t, 16, "NOP $0, $0")
	assert.Equal(t, Stepped, m.Step())
	assert.Equal(t, redcode.Address(1), pcOf(t, m))
}

func TestIndirectModes(t *testing.T) {
	// *: follow the direct cell's A field
	m := newTestMars(t, 16, `
MOV.AB #9, *1
DAT.F #2, #0
`)
	m.Step()
	assert.Equal(t, redcode.Value(9), m.Fetch(3).B.Value) // 1 + cell[1].A

	// @: follow the direct cell's B field
	m = newTestMars(t, 16, `
MOV.AB #9, @1
DAT.F #0, #4
`)
	m.Step()
	assert.Equal(t, redcode.Value(9), m.Fetch(5).B.Value) // 1 + cell[1].B
}

func TestPreDecrementModes(t *testing.T) {
	// <: decrement the pointer, then follow it
	m := newTestMars(t, 16, `
MOV.AB #9, <1
DAT.F #0, #3
`)
	m.Step()
	assert.Equal(t, redcode.Value(2), m.Fetch(1).B.Value) // pointer bumped down
	assert.Equal(t, redcode.Value(9), m.Fetch(3).B.Value) // 1 + (3-1)

	// {: same through the A field
	m = newTestMars(t, 16, `
MOV.AB #9, {1
DAT.F #3, #0
`)
	m.Step()
	assert.Equal(t, redcode.Value(2), m.Fetch(1).A.Value)
	assert.Equal(t, redcode.Value(9), m.Fetch(3).B.Value)
}

func TestPostIncrementModes(t *testing.T) {
	// >: follow the pointer, then increment it
	m := newTestMars(t, 16, `
MOV.AB #9, >1
DAT.F #0, #3
`)
	m.Step()
	assert.Equal(t, redcode.Value(4), m.Fetch(1).B.Value) // bumped after
	assert.Equal(t, redcode.Value(9), m.Fetch(4).B.Value) // 1 + 3, pre-bump

	// }: same through the A field
	m = newTestMars(t, 16, `
MOV.AB #9, }1
DAT.F #3, #0
`)
	m.Step()
	assert.Equal(t, redcode.Value(4), m.Fetch(1).A.Value)
	assert.Equal(t, redcode.Value(9), m.Fetch(4).B.Value)
}

// Both operands bump the same cell: each resolves against the
// original pointer minus its own decrement, then both decrements
// land, A-operand's first.
func TestDoublePreDecrementSameCell(t *testing.T) {
	m := newTestMars(t, 16, `
MOV.I <1, <1
DAT.F #0, #5
`)
	m.Step()
	assert.Equal(t, redcode.Value(3), m.Fetch(1).B.Value)
}

func TestDoublePostIncrementSameCell(t *testing.T) {
	m := newTestMars(t, 16, `
MOV.I >1, >1
DAT.F #0, #5
`)
	m.Step()
	assert.Equal(t, redcode.Value(7), m.Fetch(1).B.Value)
}

// The executor reads its cells after the pre-decrements have landed.
func TestExecutorSeesPreDecrement(t *testing.T) {
	m := newTestMars(t, 16, `
MOV.AB <1, $1
DAT.F #0, #3
`)
	m.Step()
	// the destination is cell 1 itself; its B was decremented to 2
	// before the copy, and the copy then overwrote it with the
	// source cell's A field (cell 3 is a default DAT, A=0)
	assert.Equal(t, redcode.Value(0), m.Fetch(1).B.Value)
	assert.Equal(t, redcode.Value(0), m.Fetch(1).A.Value)
}

func TestImmediateResolvesToPC(t *testing.T) {
	// with an immediate B operand the destination is the instruction
	// itself
	m := newTestMars(t, 16, "ADD.AB #4, #9")
	m.Step()
	assert.Equal(t, redcode.Value(13), m.Fetch(0).B.Value)
}
