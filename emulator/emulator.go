// Copyright 2025, fdouw <https://github.com/fdouw>

package emulator

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"

	"github.com/fdouw/intcode/cpu"
	"github.com/fdouw/intcode/internal"
	"github.com/fdouw/intcode/io"
)

const (
	MACHINE_NAME    = "ICM" // Name of the emulated machine.
	OUTPUT_CAPACITY = 8192  // Default output buffer capacity, in values.
)

var _emulator_defines = map[string]string{
	"TAPE_GROWTH":      fmt.Sprintf("%v", cpu.TAPE_GROWTH),
	"TAPE_DENSE_LIMIT": fmt.Sprintf("%v", cpu.TAPE_DENSE_LIMIT),
}

// Emulator state. Machine + program + I/O channels.
type Emulator struct {
	Verbose      bool         // If set, enables verbose logging.
	*cpu.Machine              // Reference to the machine simulation.
	Program      *cpu.Program // Assembled program listing, if any.
	Image        []int64      // Program image, used when Program is empty.

	Input  io.Channel // Values offered to every Resume.
	Output io.Channel // Destination of every output value.

	Produced int // Output values produced since reset.
}

// NewEmulator creates a new emulator, reading no input and buffering
// output in memory.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Machine: cpu.NewMachine(MACHINE_NAME, nil),
		Program: &cpu.Program{},
		Input:   &io.Rom{},
		Output:  &io.Temporary{Capacity: OUTPUT_CAPACITY},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		cpu.Defines(),
	)
}

// Reset loads the program into a fresh machine and rewinds the channels.
// It fails with io.ErrImageEmpty when there is no program to load.
func (emu *Emulator) Reset() (err error) {
	image := emu.Image
	if len(emu.Program.Opcodes) != 0 {
		image = emu.Program.Image()
	}

	if len(image) == 0 {
		err = io.ErrImageEmpty
		return
	}

	emu.Machine = cpu.NewMachine(MACHINE_NAME, image)
	emu.Machine.Verbose = emu.Verbose

	emu.Input.Rewind()
	emu.Output.Rewind()
	emu.Produced = 0

	emu.Machine.Reset()

	if emu.Verbose {
		log.Printf("emulator: %d words loaded", len(image))
	}

	return
}

// LineNo returns the source line number for the word at ip, or 0 when the
// program was not assembled.
func (emu *Emulator) LineNo(ip int64) int {
	dbg := emu.Program.Debug(ip)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick resumes the machine until its next output, which is sent to the
// output channel. The whole of the input channel is offered to the machine.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set machine verbosity
	emu.Machine.Verbose = emu.Verbose

	defer func() {
		if err != nil {
			ip := emu.Machine.Ip()
			var fault *cpu.ErrFault
			if errors.As(err, &fault) {
				ip = fault.Ip
			}
			err = &ErrRuntime{Ip: ip, LineNo: emu.LineNo(ip), Err: err}
		}
	}()

	inputs := slices.Collect(emu.Input.Receive())

	output, value, err := emu.Machine.Resume(inputs)
	if err != nil {
		return
	}

	if !output {
		if emu.Verbose {
			log.Printf("emulator: halted after %d outputs, %d ticks", emu.Produced, emu.Machine.Ticks)
		}
		done = true
		return
	}

	emu.Produced++
	err = emu.Output.Send(value)

	return
}

// Run ticks the emulator until the machine halts.
func (emu *Emulator) Run() (err error) {
	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		if err != nil {
			return err
		}
	}

	return
}
