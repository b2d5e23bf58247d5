// Copyright 2025, fdouw <https://github.com/fdouw>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler for IntCode programs.
//
// Operands are written as:
//
//	expr      position mode
//	#expr     immediate mode
//	rb+expr   relative mode (also rb-expr, and rb alone)
//
// where expr is a number, a 'c' character, an equate, a label, or a $(...)
// starlark expression.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of jump labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// opMap maps mnemonics to opcodes.
var opMap = map[string]CodeOp{
	OP_ADD.String():  OP_ADD,
	OP_MUL.String():  OP_MUL,
	OP_IN.String():   OP_IN,
	OP_OUT.String():  OP_OUT,
	OP_JT.String():   OP_JT,
	OP_JF.String():   OP_JF,
	OP_LT.String():   OP_LT,
	OP_EQ.String():   OP_EQ,
	OP_ARB.String():  OP_ARB,
	OP_HALT.String(): OP_HALT,
}

var labelRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// term resolves a word to a value, or to a label to link.
func (asm *Assembler) term(word string) (value int64, label string, err error) {
	equate, ok := asm.Equate[word]
	if ok {
		word = equate
	}

	value, err = asm.valueOf(word)
	if err == nil {
		return
	}

	if labelRe.MatchString(word) {
		err = nil
		label = word
	}

	return
}

// operand decodes an instruction operand into its mode and value.
func (asm *Assembler) operand(word string) (mode CodeMode, value int64, label string, err error) {
	negate := false

	switch {
	case strings.HasPrefix(word, "#"):
		mode = MODE_IMMEDIATE
		word = word[1:]
	case word == "rb":
		mode = MODE_RELATIVE
		return
	case strings.HasPrefix(word, "rb+"):
		mode = MODE_RELATIVE
		word = word[3:]
	case strings.HasPrefix(word, "rb-"):
		mode = MODE_RELATIVE
		word = word[3:]
		negate = true
	default:
		mode = MODE_POSITION
	}

	value, label, err = asm.term(word)
	if err != nil {
		return
	}

	if negate {
		if len(label) != 0 {
			err = ErrTargetInvalid
			return
		}
		value = -value
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 int64
		value64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be mnemonics
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	for key, ip := range asm.Label {
		pred[key] = starlark.MakeInt(ip)
	}
	err = nil

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	line = strings.NewReplacer(",", " ", "\t", " ").Replace(line)
	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentIp()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// Check for equates of whole words next
	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", fmt.Sprintf("%v_%v_", name, lineno))
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentIp gets the current Ip
func (asm *Assembler) currentIp() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Ip + len(last.Codes)
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range Defines() {
		asm.Equate[attr] = val
	}
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		for index, label := range op.Links {
			ip, ok := asm.Label[label]
			if !ok {
				err = ErrLabelMissing(label)
				return
			}
			op.Codes[index] += int64(ip)
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []int64
	var links map[int]string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(codes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Ip: asm.currentIp(), Words: initial_words, Codes: codes, Links: links}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	link := func(label string) {
		if links == nil {
			links = make(map[int]string)
		}
		links[len(codes)] = label
	}

	// Alternate syntax substitutions
	switch {
	case len(words) == 1 && words[0] == "halt":
		words = []string{"hlt"}
	case len(words) >= 1 && words[0] == "jnz":
		words = append([]string{"jt"}, words[1:]...)
	case len(words) >= 1 && words[0] == "jz":
		words = append([]string{"jf"}, words[1:]...)
	case len(words) == 2 && words[0] == "jump":
		// jump TARGET => jt #1 TARGET
		words = []string{"jt", "#1", words[1]}
	case len(words) == 3 && words[0] == "mov":
		// mov SRC DST => add SRC #0 DST
		words = []string{"add", words[1], "#0", words[2]}
	default:
		// unchanged
	}

	if words[0] == ".data" {
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var value int64
			var label string
			value, label, err = asm.term(word)
			if err != nil {
				codes = nil
				return
			}
			if len(label) != 0 {
				link(label)
			}
			codes = append(codes, value)
		}
		return
	}

	op, ok := opMap[words[0]]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	args := words[1:]
	if len(args) < op.Params() {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > op.Params() {
		err = ErrOpcodeExtraArgs
		return
	}

	modes := make([]CodeMode, len(args))
	values := make([]int64, len(args))
	labels := make([]string, len(args))
	for n, arg := range args {
		modes[n], values[n], labels[n], err = asm.operand(arg)
		if err != nil {
			return
		}
	}

	if op.Writes() && modes[len(modes)-1] == MODE_IMMEDIATE {
		err = ErrTargetInvalid
		return
	}

	codes = append(codes, int64(MakeCode(op, modes...)))
	for n := range args {
		if len(labels[n]) != 0 {
			link(labels[n])
		}
		codes = append(codes, values[n])
	}

	return
}
