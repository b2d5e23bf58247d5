package emulator

import (
	"github.com/fdouw/intcode/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Ip     int64
	LineNo int // Source line, if the program was assembled.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("ip %d %v", err.Ip, err.Err)
	}
	return f("line %d ip %d %v", err.LineNo, err.Ip, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
