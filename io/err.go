package io

import (
	"errors"

	"github.com/fdouw/intcode/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelFull = errors.New(f("channel full"))

	// Image errors
	ErrImageEmpty = errors.New(f("image empty"))
)

// ErrImageSyntax reports a program image word that is not an integer.
type ErrImageSyntax struct {
	Index int
	Word  string
}

func (err *ErrImageSyntax) Error() string {
	return f("image word %d '%v' is not an integer", err.Index, err.Word)
}

// ErrInputSyntax reports an input value that is not an integer.
type ErrInputSyntax struct {
	Index int
	Word  string
}

func (err *ErrInputSyntax) Error() string {
	return f("input value %d '%v' is not an integer", err.Index, err.Word)
}
