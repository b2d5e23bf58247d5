package cpu

import (
	"fmt"
	"iter"
	"maps"
	"strings"
)

// CodeOp is an instruction opcode, the low two decimal digits of a word.
type CodeOp int64

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_ADD  = CodeOp(1)  // add
	OP_MUL  = CodeOp(2)  // mul
	OP_IN   = CodeOp(3)  // in
	OP_OUT  = CodeOp(4)  // out
	OP_JT   = CodeOp(5)  // jt
	OP_JF   = CodeOp(6)  // jf
	OP_LT   = CodeOp(7)  // lt
	OP_EQ   = CodeOp(8)  // eq
	OP_ARB  = CodeOp(9)  // arb
	OP_HALT = CodeOp(99) // hlt
)

// opParams is the number of parameters consumed by each opcode.
var opParams = map[CodeOp]int{
	OP_ADD:  3,
	OP_MUL:  3,
	OP_IN:   1,
	OP_OUT:  1,
	OP_JT:   2,
	OP_JF:   2,
	OP_LT:   3,
	OP_EQ:   3,
	OP_ARB:  1,
	OP_HALT: 0,
}

// Valid returns true if the opcode is part of the instruction set.
func (op CodeOp) Valid() bool {
	_, ok := opParams[op]
	return ok
}

// Params returns the number of parameters following the opcode word.
func (op CodeOp) Params() int {
	return opParams[op]
}

// Writes returns true if the last parameter is a write destination.
func (op CodeOp) Writes() bool {
	switch op {
	case OP_ADD, OP_MUL, OP_IN, OP_LT, OP_EQ:
		return true
	}
	return false
}

// CodeMode is a parameter addressing mode.
type CodeMode int64

//go:generate go tool stringer -linecomment -type=CodeMode
const (
	MODE_POSITION  = CodeMode(0) // pos
	MODE_IMMEDIATE = CodeMode(1) // imm
	MODE_RELATIVE  = CodeMode(2) // rel
)

var _cpu_defines = map[string]string{
	"OP_ADD":         fmt.Sprintf("%d", int64(OP_ADD)),
	"OP_MUL":         fmt.Sprintf("%d", int64(OP_MUL)),
	"OP_IN":          fmt.Sprintf("%d", int64(OP_IN)),
	"OP_OUT":         fmt.Sprintf("%d", int64(OP_OUT)),
	"OP_JT":          fmt.Sprintf("%d", int64(OP_JT)),
	"OP_JF":          fmt.Sprintf("%d", int64(OP_JF)),
	"OP_LT":          fmt.Sprintf("%d", int64(OP_LT)),
	"OP_EQ":          fmt.Sprintf("%d", int64(OP_EQ)),
	"OP_ARB":         fmt.Sprintf("%d", int64(OP_ARB)),
	"OP_HALT":        fmt.Sprintf("%d", int64(OP_HALT)),
	"MODE_POSITION":  fmt.Sprintf("%d", int64(MODE_POSITION)),
	"MODE_IMMEDIATE": fmt.Sprintf("%d", int64(MODE_IMMEDIATE)),
	"MODE_RELATIVE":  fmt.Sprintf("%d", int64(MODE_RELATIVE)),
}

// Defines returns the instruction set constants as assembler equates.
func Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Opcode represents a line of assembled code with its source location and generated words.
type Opcode struct {
	LineNo int
	Ip     int
	Words  []string
	Codes  []int64
	Links  map[int]string // Index into Codes of words to patch with a label address.
}

// Code is a single IntCode instruction word.
type Code int64

// modeScale is the decimal scale of each parameter's mode digit.
var modeScale = [3]int64{100, 1000, 10000}

// MakeCode creates an instruction word from an opcode and parameter modes.
func MakeCode(op CodeOp, modes ...CodeMode) Code {
	if len(modes) > len(modeScale) {
		panic("too many parameter modes")
	}
	word := int64(op)
	for n, mode := range modes {
		word += int64(mode) * modeScale[n]
	}
	return Code(word)
}

// Op returns the opcode of the instruction word.
func (code Code) Op() CodeOp {
	return CodeOp(int64(code) % 100)
}

// Mode returns the addressing mode of parameter n, counting from 1.
func (code Code) Mode(n int) CodeMode {
	return CodeMode((int64(code) / modeScale[n-1]) % 10)
}

// String returns the assembly language representation of the instruction word.
func (code Code) String() string {
	op := code.Op()
	if !op.Valid() {
		return fmt.Sprintf("?%d", int64(code))
	}

	parts := []string{op.String()}
	for n := range op.Params() {
		parts = append(parts, code.Mode(n+1).String())
	}

	return strings.Join(parts, ".")
}
