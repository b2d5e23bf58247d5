// Copyright 2025, fdouw <https://github.com/fdouw>

package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/fdouw/intcode/cpu"
	"github.com/fdouw/intcode/emulator"
	"github.com/fdouw/intcode/io"
)

func main() {
	var compile string
	var program string
	var save bool
	var input string
	var inline string
	var output string
	var verbose bool

	flag.StringVar(&compile, "c", "", ".ic assembly file to compile")
	flag.StringVar(&program, "p", "", "program image file to run")
	flag.BoolVar(&save, "s", false, "Save compiled image to output, do not execute")
	flag.StringVar(&input, "i", "", "Input values file ('-' for stdin)")
	flag.StringVar(&inline, "I", "", "Input values, comma separated")
	flag.StringVar(&output, "o", "-", "Output")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	// Compile a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		emu.Image = emu.Program.Image()
	} else if len(program) != 0 {
		var err error
		emu.Image, err = io.LoadImage(program)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		log.Fatalf("%v: one of -c or -p is required", os.Args[0])
	}

	tape := &io.Tape{}

	if output == "-" {
		tape.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		tape.Output = ouf
	}

	if save {
		err := io.WriteImage(tape.Output, emu.Image)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	switch {
	case len(inline) != 0:
		tape.Input = strings.NewReader(inline)
	case input == "-":
		tape.Input = os.Stdin
	case len(input) != 0:
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		tape.Input = inf
	}

	// Load the input values up front, to report malformed input.
	tape.Receive()
	if tape.Err != nil {
		source := input
		if len(inline) != 0 {
			source = "-I"
		}
		log.Fatalf("%v: %v", source, tape.Err)
	}

	emu.Input = tape
	emu.Output = tape

	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		if err != nil {
			log.Fatal(err)
		}
	}
}
