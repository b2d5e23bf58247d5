// Package cpu implements the IntCode machine and its assembler.
//
// A Machine owns a sparse Tape of signed 64-bit cells, an instruction pointer
// and a relative base register. Instruction words select an opcode with their
// two low decimal digits, and the addressing mode of each parameter
// (position, immediate or relative) with the digits above.
//
// Execution suspends at every output instruction: Resume returns the value
// and a later Resume continues from the same state.
//
// The assembler provides a small assembly language for IntCode, supporting
// macros, labels, equates, and compile-time expression evaluation.
package cpu
