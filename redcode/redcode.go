// Package redcode defines the instruction model shared by the
// assembler front end and the simulator: opcodes, modifiers,
// addressing modes, and the canonical textual form.

package redcode

import "fmt"

// Address and Value are the same cell-sized quantity; an Address names
// a cell in the arena, a Value is the content of one instruction
// field. Both are kept in [0, m) for an arena of size m, so plain
// aliases are enough (signed displacements only exist in source text,
// never in a loaded cell).
type (
	Address = uint32
	Value   = uint32
)

// An OpCode selects the operation an instruction performs. The operand
// fields decide where it reads and writes; the Modifier decides which
// sub-fields participate.
type OpCode int

const (
	Dat OpCode = iota // kills the executing thread
	Mov
	Add
	Sub
	Mul
	Div
	Mod
	Jmp
	Jmz
	Jmn
	Djn
	Spl
	Seq
	Sne
	Slt
	Ldp // private-storage load
	Stp // private-storage store
	Nop
)

// Cmp is the traditional mnemonic for Seq; it parses as an alias and
// always prints back as SEQ.
const Cmp = Seq

var opCodeNames = [...]string{
	Dat: "DAT",
	Mov: "MOV",
	Add: "ADD",
	Sub: "SUB",
	Mul: "MUL",
	Div: "DIV",
	Mod: "MOD",
	Jmp: "JMP",
	Jmz: "JMZ",
	Jmn: "JMN",
	Djn: "DJN",
	Spl: "SPL",
	Seq: "SEQ",
	Sne: "SNE",
	Slt: "SLT",
	Ldp: "LDP",
	Stp: "STP",
	Nop: "NOP",
}

func (o OpCode) String() string {
	if o < 0 || int(o) >= len(opCodeNames) {
		return fmt.Sprintf("OpCode(%d)", int(o))
	}
	return opCodeNames[o]
}

// A Modifier selects which sub-fields of the source and destination
// cells an operation touches.
type Modifier int

const (
	ModA  Modifier = iota // A -> A
	ModB                  // B -> B
	ModAB                 // A -> B
	ModBA                 // B -> A
	ModF                  // (A,B) -> (A,B)
	ModX                  // (A,B) -> (B,A)
	ModI                  // whole instruction; only meaningful for MOV/SEQ/SNE
)

var modifierNames = [...]string{
	ModA:  "A",
	ModB:  "B",
	ModAB: "AB",
	ModBA: "BA",
	ModF:  "F",
	ModX:  "X",
	ModI:  "I",
}

func (m Modifier) String() string {
	if m < 0 || int(m) >= len(modifierNames) {
		return fmt.Sprintf("Modifier(%d)", int(m))
	}
	return modifierNames[m]
}

// An AddressingMode tells the simulator how to turn an operand into an
// effective cell address. There are 8 modes; four of them follow a
// pointer held in another cell's A or B field, optionally bumping that
// field on the way through.
type AddressingMode int

const (
	Immediate AddressingMode = iota // '#': the operand is the cell itself
	Direct                          // '$': pc + displacement
	AIndirect                       // '*': follow the direct cell's A field
	BIndirect                       // '@': follow the direct cell's B field
	APreDec                         // '{': A-indirect, decrementing the pointer first
	APostInc                        // '}': A-indirect, incrementing the pointer after
	BPreDec                         // '<': B-indirect, decrementing the pointer first
	BPostInc                        // '>': B-indirect, incrementing the pointer after
)

var modeSigils = [...]byte{
	Immediate: '#',
	Direct:    '$',
	AIndirect: '*',
	BIndirect: '@',
	APreDec:   '{',
	APostInc:  '}',
	BPreDec:   '<',
	BPostInc:  '>',
}

// Sigil returns the single-character prefix used in source text.
func (m AddressingMode) Sigil() byte {
	if m < 0 || int(m) >= len(modeSigils) {
		return '?'
	}
	return modeSigils[m]
}

func (m AddressingMode) String() string {
	return string(m.Sigil())
}

// modeFromSigil is the inverse of Sigil.
func modeFromSigil(c byte) (AddressingMode, bool) {
	for mode, sigil := range modeSigils {
		if sigil == c {
			return AddressingMode(mode), true
		}
	}
	return 0, false
}

// A Field is one operand: a displacement plus the addressing mode that
// interprets it.
type Field struct {
	Value Value
	Mode  AddressingMode
}

func (f Field) String() string {
	return fmt.Sprintf("%c%d", f.Mode.Sigil(), f.Value)
}

// An Instruction is one arena cell. The zero value is not the default
// cell (the zero Modifier is A, not F); use Default.
type Instruction struct {
	Op  OpCode
	Mod Modifier
	A   Field
	B   Field
}

// Default returns the inert cell the arena is initialised with:
// DAT.F #0, #0. Any thread stepping onto it dies.
func Default() Instruction {
	return Instruction{
		Op:  Dat,
		Mod: ModF,
		A:   Field{Mode: Immediate},
		B:   Field{Mode: Immediate},
	}
}

// String renders the canonical upper-case form, e.g. "MOV.I $0, $1".
// ParseInstruction accepts this form back unchanged.
func (i Instruction) String() string {
	return fmt.Sprintf("%v.%v %v, %v", i.Op, i.Mod, i.A, i.B)
}

// DefaultModifier supplies the modifier for source text that omits
// one, following the ICWS '94 defaulting rules: the opcode picks a
// family, and immediate operands narrow the choice.
func DefaultModifier(op OpCode, aMode, bMode AddressingMode) Modifier {
	switch op {
	case Dat:
		return ModF
	case Mov, Seq, Sne:
		switch {
		case aMode == Immediate:
			return ModAB
		case bMode == Immediate:
			return ModB
		default:
			return ModI
		}
	case Add, Sub, Mul, Div, Mod:
		switch {
		case aMode == Immediate:
			return ModAB
		case bMode == Immediate:
			return ModB
		default:
			return ModF
		}
	case Slt, Ldp, Stp:
		if aMode == Immediate {
			return ModAB
		}
		return ModB
	default: // Jmp, Jmz, Jmn, Djn, Spl, Nop
		return ModB
	}
}
