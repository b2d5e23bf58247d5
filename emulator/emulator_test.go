package emulator

import (
	"bytes"
	"errors"
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fdouw/intcode/cpu"
	"github.com/fdouw/intcode/io"
)

var quine = []int64{109, 1, 204, -1, 1001, 100, 1, 100, 1008, 100, 16, 101, 1006, 101, 0, 99}

func assemble(t *testing.T, emu *Emulator, program []string) {
	asm := &cpu.Assembler{}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	emu.Program = prog
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Machine)
	assert.NotNil(emu.Program)
	assert.IsType(&io.Rom{}, emu.Input)
	assert.IsType(&io.Temporary{}, emu.Output)

	defines := maps.Collect(emu.Defines())
	assert.Equal("1024", defines["TAPE_GROWTH"])
	assert.Equal("1", defines["OP_ADD"])
	assert.Equal("2", defines["MODE_RELATIVE"])
}

func TestEmulator_Reset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assert.ErrorIs(emu.Reset(), io.ErrImageEmpty)
	assert.False(emu.Active())

	// A listing with only labels and equates has no words either.
	assemble(t, emu, []string{
		".equ N 5",
		"start:",
	})
	assert.ErrorIs(emu.Reset(), io.ErrImageEmpty)

	emu.Image = []int64{99}
	assert.NoError(emu.Reset())
	assert.True(emu.Active())
}

func TestEmulator_Image(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Image = quine

	assert.NoError(emu.Reset())
	assert.NoError(emu.Run())

	assert.Equal(16, emu.Produced)
	assert.False(emu.Active())
	assert.Equal(quine, slices.Collect(emu.Output.Receive()))

	// Reset restores the image and empties the output.
	assert.NoError(emu.Reset())
	assert.Equal(0, emu.Produced)
	assert.Empty(slices.Collect(emu.Output.Receive()))
	assert.NoError(emu.Run())
	assert.Equal(quine, slices.Collect(emu.Output.Receive()))
}

func TestEmulator_Program(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assemble(t, emu, []string{
		"      in value",
		"      mul value #TAPE_GROWTH value",
		"      out value",
		"      hlt",
		"value: .data 0",
	})

	emu.Input = &io.Rom{Data: []int64{3}}

	var out bytes.Buffer
	emu.Output = &io.Tape{Output: &out}

	assert.NoError(emu.Reset())

	done, err := emu.Tick()
	assert.NoError(err)
	assert.False(done)
	assert.Equal(1, emu.Produced)

	done, err = emu.Tick()
	assert.NoError(err)
	assert.True(done)

	assert.Equal("3072\n", out.String())
	assert.Equal(3, emu.LineNo(6))
	assert.Equal(0, emu.LineNo(100))
}

func TestEmulator_Errors(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assemble(t, emu, []string{
		"out #1",
		".data 42",
	})

	assert.NoError(emu.Reset())

	done, err := emu.Tick()
	assert.NoError(err)
	assert.False(done)

	_, err = emu.Tick()
	assert.ErrorIs(err, cpu.ErrUnknownOpcode)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(int64(2), runtime.Ip)
		assert.Equal(2, runtime.LineNo)
		assert.Contains(runtime.Error(), "line 2")
	}

	// The machine is stopped after a fault.
	_, err = emu.Tick()
	assert.ErrorIs(err, cpu.ErrNotActive)
}

func TestEmulator_OutputFull(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Image = quine
	emu.Output = &io.Temporary{Capacity: 4}

	assert.NoError(emu.Reset())

	err := emu.Run()
	assert.ErrorIs(err, io.ErrChannelFull)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(0, runtime.LineNo)
		assert.NotContains(runtime.Error(), "line")
	}
	assert.Equal([]int64{109, 1, 204, -1}, slices.Collect(emu.Output.Receive()))
}

func TestEmulator_Verbose(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Verbose = true
	emu.Image = []int64{104, 5, 99}

	assert.NoError(emu.Reset())
	assert.True(emu.Machine.Verbose)
	assert.NoError(emu.Run())
	assert.Equal([]int64{5}, slices.Collect(emu.Output.Receive()))
}
