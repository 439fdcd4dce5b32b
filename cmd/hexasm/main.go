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
	"bufio"
	"encoding/gob"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hex-lang/gohex/pkg/assembler"
)

var helpvar bool
var debugvar bool
var tokensvar bool
var treevar bool
var outvar string

const usage = "hexasm [-debug] [-tokens] [-tree] [-o outfile] filename"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(
		&debugvar, "debug", false,
		"Specifies whether to generate debugging information as a symbol "+
			"table. The table will use the output filename with extension "+
			"'.hexdb'",
	)
	flag.BoolVar(&tokensvar, "tokens", false, "Prints the source's token stream and exits")
	flag.BoolVar(&treevar, "tree", false, "Prints a human-readable dump of the resolved program and exits")
	flag.StringVar(
		&outvar, "o", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
	flag.Parse()
}

func hexasm() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	var infile string
	var input io.ReadSeeker

	if stat, _ := os.Stdin.Stat(); stat.Mode()&os.ModeCharDevice == 0 {
		input = os.Stdin
		log.SetPrefix("\033[1m<stdin>:\033[0m ")

		if outvar == "" {
			outvar = "out.bin"
		}
	} else {
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

		filename := filepath.Base(file.Name())

		if stat, err := file.Stat(); err != nil {
			log.Println(err)
			return 1
		} else if stat.IsDir() {
			log.Printf("%s is not a valid Hex assembly file", filename)
			return 1
		}

		input = file
		infile = file.Name()
		log.SetPrefix(fmt.Sprintf("\033[1m%s:\033[0m ", filename))

		if outvar == "" {
			outvar = strings.ReplaceAll(filename, filepath.Ext(filename), ".bin")
		}
	}

	if tokensvar {
		lex := assembler.NewLexer(input)
		if err := lex.EmitTokens(os.Stdout); err != nil {
			log.Println(err)
			return 1
		}
		return 0
	}

	source := ""
	if infile != "" {
		if abs, err := filepath.Abs(infile); err == nil {
			source = abs
		}
	}

	directives, errs := assembler.Parse(input)
	if len(errs) == 0 {
		if _, _, resolveErrs := assembler.Resolve(directives); len(resolveErrs) > 0 {
			errs = resolveErrs
		}
	}

	if len(errs) > 0 {
		printErrors(input, errs)
		return 1
	}

	if treevar {
		if err := assembler.EmitTree(os.Stdout, directives); err != nil {
			log.Println(err)
			return 1
		}
		return 0
	}

	binaryBytes, symtable, err := assembler.EmitBin(directives, source)
	if err != nil {
		log.Println(err)
		return 1
	}

	if err := os.WriteFile(outvar, binaryBytes, 0666); err != nil {
		log.Println("Error writing output file")
		log.Println(err)
		return 1
	}

	if debugvar {
		filename := filepath.Dir(outvar) + "/" + strings.ReplaceAll(
			filepath.Base(outvar), filepath.Ext(outvar), ".hexdb",
		)

		file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
		if err != nil {
			log.Println("Error creating symbol table")
			log.Println(err)
			return 1
		}

		if err := gob.NewEncoder(file).Encode(symtable); err != nil {
			file.Close()
			log.Println("Error writing symbol table")
			log.Println(err)
			return 1
		}

		file.Close()
	}

	return 0
}

func printErrors(input io.ReadSeeker, errs []error) {
	if input == os.Stdin {
		for _, err := range errs {
			log.Println(err)
		}
		return
	}

	for _, err := range errs {
		tokenErr, ok := err.(assembler.TokenError)
		if !ok {
			log.Println(err)
			continue
		}

		cursor := tokenErr.GetPosition()

		lineStart := cursor.Byte - int64(cursor.Column-1)
		if lineStart < 0 {
			lineStart = 0
		}

		if _, seekErr := input.Seek(lineStart, os.SEEK_SET); seekErr != nil {
			log.Println(err)
			continue
		}

		line, _ := bufio.NewReader(input).ReadString('\n')
		line = strings.TrimRight(line, "\n")

		underline := fmt.Sprintf("%s^", strings.Repeat(" ", cursor.Column-1))

		log.Printf("%s\n%s\n\033[31m%s\033[0m", err, line, underline)
	}
}

func main() {
	os.Exit(hexasm())
}
