package cpu

import (
	"errors"

	"github.com/fdouw/intcode/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrAlreadyActive   = errors.New(f("machine already active"))
	ErrNotActive       = errors.New(f("machine not active"))
	ErrInputExhausted  = errors.New(f("input exhausted"))
	ErrNegativeAddress = errors.New(f("negative address"))

	// Instruction decode errors
	ErrUnknownOpcode    = errors.New(f("unknown opcode"))
	ErrUnknownMode      = errors.New(f("unknown addressing mode"))
	ErrInvalidWriteMode = errors.New(f("immediate mode is invalid for writing"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrTargetInvalid      = errors.New(f("target invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrFault locates a fatal condition raised while executing an instruction.
type ErrFault struct {
	Ip   int64 // Address of the faulting instruction word.
	Word Code  // Instruction word at Ip.
	Err  error
}

func (err *ErrFault) Error() string {
	return f("fault at %v [%v] %v", err.Ip, err.Word.String(), err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

type ErrOpcode CodeOp

func (eo ErrOpcode) Error() string {
	return f("bad opcode %v", int64(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	if err == ErrUnknownOpcode {
		return true
	}
	_, ok = err.(ErrOpcode)
	return
}

type ErrMode struct {
	Param int
	Mode  CodeMode
}

func (err ErrMode) Error() string {
	return f("parameter %d: bad mode %v", err.Param, int64(err.Mode))
}

func (err ErrMode) Is(target error) bool {
	return target == ErrUnknownMode
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
