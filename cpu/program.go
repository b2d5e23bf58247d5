package cpu

import (
	"iter"
)

// Program is an assembled IntCode listing.
type Program struct {
	Opcodes []Opcode
}

// Debug locates a word of the program listing.
type Debug struct {
	*Opcode
	Index int
}

// Debug returns the listing entry that holds the word at address ip.
func (prog *Program) Debug(ip int64) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if ip >= int64(op.Ip) && ip < int64(op.Ip)+int64(len(op.Codes)) {
			index := int(ip - int64(op.Ip))
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  index,
			}
			break
		}
	}

	return
}

// Image returns the program image of the listing.
func (prog *Program) Image() (image []int64) {
	for ip, code := range prog.Codes() {
		for int64(len(image)) <= ip {
			image = append(image, 0)
		}
		image[ip] = code
	}

	return
}

// Codes returns an iterator over the address and value of every word.
func (prog *Program) Codes() iter.Seq2[int64, int64] {
	return func(yield func(ip int64, code int64) bool) {
		for _, op := range prog.Opcodes {
			ip := int64(op.Ip)
			for n, code := range op.Codes {
				if !yield(ip+int64(n), code) {
					return
				}
			}
		}
	}
}
