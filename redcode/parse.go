package redcode

import (
	"fmt"
	"strconv"
	"strings"
)

// The parser consumes one instruction per line:
//
//	OPCODE[.MODIFIER]  [<mode>]<disp>[, [<mode>]<disp>]
//
// Opcode and modifier tokens are case-insensitive. A missing modifier
// is defaulted per DefaultModifier; a missing B operand defaults to
// $0. ';' starts a comment; blank lines are skipped.
//
// Displacements may carry a leading '-' in source text. The parsed
// Field keeps the two's-complement wrap of the negative value; the
// loader renormalises every field into [0, m) when the program is
// placed, so a negative displacement never reaches the arena.

var opCodesByName = map[string]OpCode{
	"DAT": Dat,
	"MOV": Mov,
	"ADD": Add,
	"SUB": Sub,
	"MUL": Mul,
	"DIV": Div,
	"MOD": Mod,
	"JMP": Jmp,
	"JMZ": Jmz,
	"JMN": Jmn,
	"DJN": Djn,
	"SPL": Spl,
	"CMP": Cmp, // alias, canonicalises to SEQ
	"SEQ": Seq,
	"SNE": Sne,
	"SLT": Slt,
	"LDP": Ldp,
	"STP": Stp,
	"NOP": Nop,
}

var modifiersByName = map[string]Modifier{
	"A":  ModA,
	"B":  ModB,
	"AB": ModAB,
	"BA": ModBA,
	"F":  ModF,
	"X":  ModX,
	"I":  ModI,
}

// ParseProgram parses a whole warrior listing, one instruction per
// non-blank line.
func ParseProgram(src string) ([]Instruction, error) {
	var prog []Instruction
	for n, line := range strings.Split(src, "\n") {
		line = stripComment(line)
		if strings.TrimSpace(line) == "" {
			continue
		}
		ins, err := ParseInstruction(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		prog = append(prog, ins)
	}
	return prog, nil
}

// ParseInstruction parses a single source line (without comment).
func ParseInstruction(line string) (Instruction, error) {
	line = strings.TrimSpace(stripComment(line))
	if line == "" {
		return Instruction{}, fmt.Errorf("empty instruction")
	}

	opTok := line
	rest := ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		opTok, rest = line[:i], strings.TrimSpace(line[i+1:])
	}

	opName, modName, hasMod := strings.Cut(strings.ToUpper(opTok), ".")
	op, ok := opCodesByName[opName]
	if !ok {
		return Instruction{}, fmt.Errorf("unknown opcode %q", opName)
	}

	if rest == "" {
		return Instruction{}, fmt.Errorf("%s: missing A operand", opName)
	}
	operands := strings.Split(rest, ",")
	if len(operands) > 2 {
		return Instruction{}, fmt.Errorf("%s: too many operands", opName)
	}

	a, err := parseField(operands[0])
	if err != nil {
		return Instruction{}, fmt.Errorf("%s: A operand: %w", opName, err)
	}
	b := Field{Mode: Direct} // omitted B defaults to $0
	if len(operands) == 2 {
		if b, err = parseField(operands[1]); err != nil {
			return Instruction{}, fmt.Errorf("%s: B operand: %w", opName, err)
		}
	}

	mod := DefaultModifier(op, a.Mode, b.Mode)
	if hasMod {
		if mod, ok = modifiersByName[modName]; !ok {
			return Instruction{}, fmt.Errorf("unknown modifier %q", modName)
		}
	}

	return Instruction{Op: op, Mod: mod, A: a, B: b}, nil
}

func parseField(s string) (Field, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Field{}, fmt.Errorf("empty operand")
	}

	mode := Direct
	if m, ok := modeFromSigil(s[0]); ok {
		mode = m
		s = strings.TrimSpace(s[1:])
	}

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return Field{}, fmt.Errorf("bad displacement %q", s)
	}

	v := Value(n)
	if neg {
		v = -v // wraps; the loader folds this back into [0, m)
	}
	return Field{Value: v, Mode: mode}, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}
