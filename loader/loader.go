// Package loader assembles source files, links the resulting objects,
// and loads the image into a fresh VM. Linking already produces a flat
// image addressed from 0, so loading is simpler than per-instruction
// address placement: it is just Memory.LoadImage plus VM setup.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mjfoley/vam16/encoder"
	"github.com/mjfoley/vam16/linker"
	"github.com/mjfoley/vam16/objfile"
	"github.com/mjfoley/vam16/parser"
	"github.com/mjfoley/vam16/vm"
)

// ParseSource reads one translation unit from r and returns its parsed
// program. Comment stripping and line splitting are this package's
// responsibility; the lexer and parser only ever see one already-clean
// logical line at a time.
func ParseSource(r io.Reader) (parser.Program, error) {
	p := parser.New()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		p.ParseLine(stripComment(scanner.Text()), lineNo)
	}
	if err := scanner.Err(); err != nil {
		return parser.Program{}, fmt.Errorf("reading source: %w", err)
	}
	if p.Errors().HasErrors() {
		return parser.Program{}, p.Errors()
	}
	return p.Program(), nil
}

// AssembleSource parses and generates code for one translation unit read
// from r.
func AssembleSource(r io.Reader) (*objfile.Object, error) {
	prog, err := ParseSource(r)
	if err != nil {
		return nil, err
	}
	return encoder.New().Generate(prog)
}

// stripComment removes everything from the first ';' to end of line and
// trims trailing whitespace.
func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimRight(line, " \t")
}

// LinkAndLoad links objects into a flat image and loads it into a new VM
// configured with cfg.
func LinkAndLoad(objects []*objfile.Object, cfg vm.Config) (*vm.VM, error) {
	image, err := linker.Link(objects)
	if err != nil {
		return nil, fmt.Errorf("linking: %w", err)
	}
	machine, err := vm.New(image, cfg)
	if err != nil {
		return nil, fmt.Errorf("loading image: %w", err)
	}
	return machine, nil
}
