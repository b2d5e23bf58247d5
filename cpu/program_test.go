package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Ip: 0, Words: []string{"in", "10"}, Codes: []int64{3, 10}},
			{LineNo: 2, Ip: 2, Words: []string{"out", "10"}, Codes: []int64{4, 10}},
			{LineNo: 4, Ip: 4, Words: []string{"hlt"}, Codes: []int64{99}},
		},
	}

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.Opcode.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(3)
	assert.NotNil(dbg.Opcode)
	assert.Equal(2, dbg.Opcode.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(4)
	assert.NotNil(dbg.Opcode)
	assert.Equal(4, dbg.Opcode.LineNo)
	assert.Equal(0, dbg.Index)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Ip: 0, Words: []string{"hlt"}, Codes: []int64{99}},
		},
	}

	dbg := prog.Debug(10)
	assert.Nil(dbg.Opcode)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(-1)
	assert.Nil(dbg.Opcode)
}

func TestProgram_Image(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{}
	assert.Nil(prog.Image())

	prog = &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Ip: 0, Codes: []int64{104, 7}},
			{LineNo: 2, Ip: 4, Codes: []int64{99}},
		},
	}

	// Gaps are zero filled.
	assert.Equal([]int64{104, 7, 0, 0, 99}, prog.Image())
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Ip: 0, Codes: []int64{104, 7}},
			{LineNo: 2, Ip: 2, Codes: []int64{99}},
		},
	}

	var ips []int64
	var codes []int64
	for ip, code := range prog.Codes() {
		ips = append(ips, ip)
		codes = append(codes, code)
	}
	assert.Equal([]int64{0, 1, 2}, ips)
	assert.Equal([]int64{104, 7, 99}, codes)

	count := 0
	for range prog.Codes() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(2, count)
}
