package cpu

import (
	"fmt"
	"iter"
	"log"
)

// Machine is the simulation context for a single IntCode program.
//
// A Machine runs until the next output instruction, returns the value, and
// may then be resumed with fresh input. Machines share no state.
type Machine struct {
	Verbose bool   // Set to enable verbose logging.
	Name    string // Identifier for the machine instance.

	Tape  *Tape // Program memory.
	Ticks int   // Instructions executed since reset.

	ip      int64 // Current instruction pointer.
	relBase int64 // Relative base register.
	active  bool  // Set while the machine may execute.
}

// NewMachine creates a machine bound to a program image.
// The machine is inactive until Reset.
func NewMachine(name string, image []int64) (m *Machine) {
	m = &Machine{
		Name: name,
		Tape: NewTape(image),
	}

	return
}

// Ip returns the current instruction pointer.
func (m *Machine) Ip() int64 {
	return m.ip
}

// RelativeBase returns the relative base register.
func (m *Machine) RelativeBase() int64 {
	return m.relBase
}

// Active returns true if the machine may still execute.
func (m *Machine) Active() bool {
	return m.active
}

// String returns the current machine state as a string.
func (m *Machine) String() (text string) {
	regs := []string{"name", "active", "ip", "rb", "code", "ticks"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "name":
			strval = m.Name
		case "active":
			strval = fmt.Sprintf("%v", m.active)
		case "ip":
			strval = fmt.Sprintf("%d", m.ip)
		case "rb":
			strval = fmt.Sprintf("%d", m.relBase)
		case "code":
			word, err := m.Tape.Read(m.ip)
			if err != nil {
				strval = "----"
			} else {
				strval = fmt.Sprintf("%d %v", word, Code(word))
			}
		case "ticks":
			strval = fmt.Sprintf("%d", m.Ticks)
		}
		text += fmt.Sprintf("% 6s: %v\n", reg, strval)
	}

	return
}

// Reset the machine state.
// - Reloads the program image into the tape.
// - Zeros the instruction pointer, relative base and tick counter.
// - Marks the machine active.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("cpu: %v: reset", m.Name)
	}

	m.Tape.Reset()
	m.ip = 0
	m.relBase = 0
	m.Ticks = 0
	m.active = true
}

// Stop marks the machine inactive, leaving the tape and registers untouched.
func (m *Machine) Stop() {
	m.active = false
}

// Start resets the machine and resumes it.
func (m *Machine) Start(inputs []int64) (output bool, value int64, err error) {
	m.Reset()
	return m.Resume(inputs)
}

// Run restarts the machine from its program image, and runs to its first
// output or halt. An active machine is only restarted if force is set.
func (m *Machine) Run(inputs []int64, force bool) (output bool, value int64, err error) {
	if m.active && !force {
		err = ErrAlreadyActive
		return
	}

	return m.Start(inputs)
}

// Resume executes instructions until an output instruction, a halt, or a
// fatal error.
//
// On output, it returns (true, value, nil) and the machine stays active with
// the instruction pointer just past the output instruction. On halt, it
// returns (false, 0, nil) and the machine becomes inactive.
//
// Input instructions consume inputs from its first element on every call;
// the input index does not carry over between calls. A caller whose program
// reads across several outputs must pass, on each call, the values that the
// input instructions of that call will read.
//
// Any fatal error leaves the machine inactive until the next Reset.
func (m *Machine) Resume(inputs []int64) (output bool, value int64, err error) {
	if !m.active {
		err = ErrNotActive
		return
	}

	var halted bool
	for !output && !halted {
		output, halted, value, err = m.Tick(&inputs)
		if err != nil {
			return
		}
	}

	return
}

// Outputs returns an iterator over the output values of the machine,
// resuming with the same inputs after every output until the machine halts.
// A fatal error is yielded as the final element.
func (m *Machine) Outputs(inputs []int64) iter.Seq2[int64, error] {
	return func(yield func(value int64, err error) bool) {
		for {
			output, value, err := m.Resume(inputs)
			if err != nil {
				yield(0, err)
				return
			}
			if !output {
				return
			}
			if !yield(value, nil) {
				return
			}
		}
	}
}

// Tick executes a single instruction of an active machine.
// Input instructions take their value from the front of *inputs.
func (m *Machine) Tick(inputs *[]int64) (output bool, halted bool, value int64, err error) {
	if !m.active {
		err = ErrNotActive
		return
	}

	ip := m.ip

	var word int64
	word, err = m.Tape.Read(ip)
	if err == nil {
		output, halted, value, err = m.execute(Code(word), inputs)
	}

	if err != nil {
		m.active = false
		err = &ErrFault{Ip: ip, Word: Code(word), Err: err}
		return
	}

	m.Ticks += 1

	return
}

// execute executes a single decoded instruction word, located at the
// instruction pointer.
func (m *Machine) execute(code Code, inputs *[]int64) (output bool, halted bool, value int64, err error) {
	if m.Verbose {
		log.Printf("%v: %d: %v", m.Name, m.ip, code)
	}

	// Step past the instruction word.
	m.ip++

	op := code.Op()

	var a, b int64
	switch op {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		a, err = m.getValue(code, 1)
		if err != nil {
			return
		}
		b, err = m.getValue(code, 2)
		if err != nil {
			return
		}
		var result int64
		switch op {
		case OP_ADD:
			result = a + b
		case OP_MUL:
			result = a * b
		case OP_LT:
			if a < b {
				result = 1
			}
		case OP_EQ:
			if a == b {
				result = 1
			}
		}
		err = m.setValue(code, 3, result)
	case OP_IN:
		if len(*inputs) == 0 {
			err = ErrInputExhausted
			return
		}
		a = (*inputs)[0]
		*inputs = (*inputs)[1:]
		err = m.setValue(code, 1, a)
	case OP_OUT:
		value, err = m.getValue(code, 1)
		if err != nil {
			return
		}
		output = true
	case OP_JT, OP_JF:
		a, err = m.getValue(code, 1)
		if err != nil {
			return
		}
		b, err = m.getValue(code, 2)
		if err != nil {
			return
		}
		if (op == OP_JT) == (a != 0) {
			m.ip = b
		}
	case OP_ARB:
		a, err = m.getValue(code, 1)
		if err != nil {
			return
		}
		m.relBase += a
	case OP_HALT:
		if m.Verbose {
			log.Printf("%v: halt", m.Name)
		}
		m.active = false
		halted = true
	default:
		err = ErrOpcode(op)
	}

	return
}

// address returns the effective address of parameter n, and advances the
// instruction pointer past it.
func (m *Machine) address(code Code, n int) (addr int64, err error) {
	slot := m.ip
	m.ip++

	mode := code.Mode(n)
	switch mode {
	case MODE_POSITION:
		addr, err = m.Tape.Read(slot)
	case MODE_IMMEDIATE:
		addr = slot
	case MODE_RELATIVE:
		addr, err = m.Tape.Read(slot)
		addr += m.relBase
	default:
		err = ErrMode{Param: n, Mode: mode}
	}

	return
}

// getValue reads parameter n of the instruction.
func (m *Machine) getValue(code Code, n int) (value int64, err error) {
	addr, err := m.address(code, n)
	if err != nil {
		return
	}

	value, err = m.Tape.Read(addr)

	return
}

// setValue writes value to the destination parameter n of the instruction.
func (m *Machine) setValue(code Code, n int, value int64) (err error) {
	if code.Mode(n) == MODE_IMMEDIATE {
		m.ip++
		err = ErrInvalidWriteMode
		return
	}

	addr, err := m.address(code, n)
	if err != nil {
		return
	}

	err = m.Tape.Write(addr, value)

	return
}
