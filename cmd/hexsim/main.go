// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"encoding/gob"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/hex-lang/gohex/pkg/assembler"
	"github.com/hex-lang/gohex/pkg/debugger"
	"github.com/hex-lang/gohex/pkg/machine"
)

var helpvar bool
var debugvar bool
var tracevar bool
var dumpvar bool
var shouldexit bool

const usage = "hexsim [-debug] [-trace] [-dump] filename"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&debugvar, "debug", false, "Runs the machine in a debug CLI")
	flag.BoolVar(&tracevar, "trace", false, "Prints each executed instruction's register state to stderr")
	flag.BoolVar(&dumpvar, "dump", false, "Prints the final register and memory state on exit")
	flag.Parse()
}

func hexsim() int {
	if helpvar {
		fmt.Println(usage)
		return 0
	}

	args := flag.Args()

	if len(args) != 1 {
		log.Println(usage)
		return 1
	}

	file, err := os.Open(args[0])
	if err != nil {
		log.Println(err)
		return 1
	}
	defer file.Close()

	var mc machine.Machine
	mc.Streams = machine.NewStreams(os.Stdin, os.Stdout, os.Stderr)

	if debugvar {
		var dbg debugger.Debugger
		dbg.HandleBreak = handleBreak
		dbg.HandleRead = handleRead
		dbg.HandleWrite = handleWrite
		dbg.Binary = file
		mc.Debugger = &dbg

		filename := filepath.Dir(args[0]) + "/" + strings.ReplaceAll(
			filepath.Base(args[0]), filepath.Ext(args[0]), ".hexdb",
		)

		if symfile, err := os.Open(filename); err == nil {
			var symtable assembler.SymTable

			if err := gob.NewDecoder(symfile).Decode(&symtable); err == nil {
				dbg.SymTable = &symtable
			} else {
				log.Println("Error loading symbol file")
				log.Println(err)
			}

			symfile.Close()
		} else {
			log.Println("Error loading symbol file")
			log.Println(err)
		}

		if dbg.SymTable != nil && dbg.SymTable.Source != "" {
			if srcfile, err := os.Open(dbg.SymTable.Source); err == nil {
				dbg.Source = srcfile
				defer srcfile.Close()
			} else {
				log.Println("Error loading source file")
				log.Println(err)
			}
		}

		c := make(chan os.Signal, 1)
		defer close(c)

		signal.Notify(c, os.Interrupt)
		go func() {
			for range c {
				fmt.Println()
				dbg.Break = true
			}
		}()
	}

	if err := mc.LoadBin(file); err != nil {
		log.Println(err)
		return 1
	}

	enterRawTerm()
	defer exitRawTerm()

	if debugvar {
		debugREPL(mc.Debugger.(*debugger.Debugger), &mc)
	}

	for !shouldexit && mc.State.Running {
		if tracevar {
			fmt.Fprintf(
				os.Stderr,
				"trace: pc=%#08x areg=%#08x breg=%#08x oreg=%#08x\n",
				mc.State.PC, mc.State.AReg, mc.State.BReg, mc.State.OReg,
			)
		}

		if err := mc.Step(); err != nil {
			exitRawTerm()
			log.Println(err)
			return 1
		}
	}

	if dumpvar {
		dumpState(&mc.State)
	}

	return int(mc.State.ExitCode)
}

// dumpState prints the final register file and the lowest 64 words of
// memory, matching the debugger's register/memory printing style for use
// outside an interactive session.
func dumpState(mc *machine.MachineState) {
	fmt.Fprintf(
		os.Stderr,
		"\033[1mpc:\033[0m %#08x \033[1mareg:\033[0m %#08x \033[1mbreg:\033[0m %#08x \033[1moreg:\033[0m %#08x \033[1mexit:\033[0m %d\n",
		mc.PC, mc.AReg, mc.BReg, mc.OReg, mc.ExitCode,
	)

	for i := 0; i < 64; i++ {
		if i%4 == 0 {
			if i != 0 {
				fmt.Fprintln(os.Stderr)
			}
			fmt.Fprintf(os.Stderr, "\033[1m[%#08x]\033[0m ", i)
		}
		fmt.Fprintf(os.Stderr, "%#08x ", mc.Memory[i])
	}
	fmt.Fprintln(os.Stderr)
}

func main() {
	os.Exit(hexsim())
}
