package io

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"strconv"
	"strings"
)

// Tape provides decimal text I/O for a machine.
//
// Input values are read once from Input, separated by commas or whitespace,
// and replayed on every Receive. Each value sent is written to Output on its
// own line.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	Err error // First error seen reading Input.

	loaded bool
	values []int64
}

var _ Channel = (*Tape)(nil)

// Rewind is not possible on a tape.
func (tc *Tape) Rewind() {
}

// load reads and parses all of the input.
func (tc *Tape) load() {
	tc.loaded = true

	if tc.Input == nil {
		return
	}

	text, err := io.ReadAll(tc.Input)
	if err != nil {
		tc.Err = err
		return
	}

	words := strings.Fields(strings.ReplaceAll(string(text), ",", " "))
	for n, word := range words {
		value, err := strconv.ParseInt(word, 10, 64)
		if err != nil {
			tc.Err = &ErrInputSyntax{Index: n, Word: word}
			return
		}
		tc.values = append(tc.values, value)
	}
}

// Receive returns an iterator over the input values.
func (tc *Tape) Receive() iter.Seq[int64] {
	if !tc.loaded {
		tc.load()
	}

	return slices.Values(tc.values)
}

// Send writes a value to the output stream.
func (tc *Tape) Send(value int64) (err error) {
	_, err = fmt.Fprintln(tc.Output, value)
	return
}
