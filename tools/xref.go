// Package tools holds auxiliary developer utilities built on the parser,
// separate from the assemble/link/run pipeline.
package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mjfoley/vam16/parser"
)

// ReferenceType says how a symbol was used at a given source position.
type ReferenceType int

const (
	RefDefinition ReferenceType = iota
	RefJump
	RefCall
	RefMemory
)

func (r ReferenceType) String() string {
	switch r {
	case RefDefinition:
		return "definition"
	case RefJump:
		return "jump"
	case RefCall:
		return "call"
	case RefMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// Reference is one occurrence of a symbol name.
type Reference struct {
	Type ReferenceType
	Line int
}

// Symbol collects every reference to one name across a program.
type Symbol struct {
	Name        string
	Definition  *Reference
	References  []*Reference
	IsDataLabel bool
	IsFunction  bool // called via CALL at least once
}

// XRefGenerator builds a symbol cross-reference from a parsed program.
type XRefGenerator struct {
	symbols map[string]*Symbol
}

// NewXRefGenerator returns an empty generator.
func NewXRefGenerator() *XRefGenerator {
	return &XRefGenerator{symbols: make(map[string]*Symbol)}
}

// Generate walks prog and returns every symbol it mentions.
func (x *XRefGenerator) Generate(prog parser.Program) map[string]*Symbol {
	for _, inst := range prog.Instructions {
		if inst.Label != "" {
			x.get(inst.Label).Definition = &Reference{Type: RefDefinition, Line: inst.Pos.Line}
		}
		if inst.IsLabelOnly() {
			continue
		}
		for _, op := range inst.Operands {
			if op.Kind != parser.OpLabel {
				continue
			}
			refType := RefMemory
			switch {
			case op.Bracketed:
				refType = RefMemory
			case inst.Mnemonic == "CALL":
				refType = RefCall
			default:
				refType = RefJump
			}
			sym := x.get(op.Label)
			sym.References = append(sym.References, &Reference{Type: refType, Line: inst.Pos.Line})
			if refType == RefCall {
				sym.IsFunction = true
			}
		}
	}

	for _, name := range prog.DataLabelOrder {
		sym := x.get(name)
		sym.IsDataLabel = true
		if sym.Definition == nil {
			sym.Definition = &Reference{Type: RefDefinition}
		}
	}

	return x.symbols
}

func (x *XRefGenerator) get(name string) *Symbol {
	if sym, ok := x.symbols[name]; ok {
		return sym
	}
	sym := &Symbol{Name: name}
	x.symbols[name] = sym
	return sym
}

// Report renders symbols as a sorted, human-readable cross-reference.
func Report(symbols map[string]*Symbol) string {
	names := make([]string, 0, len(symbols))
	for name := range symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintln(&b, "Symbol Cross-Reference")
	fmt.Fprintln(&b, "======================")

	for _, name := range names {
		sym := symbols[name]
		fmt.Fprintf(&b, "%-24s", sym.Name)
		switch {
		case sym.IsFunction:
			fmt.Fprint(&b, " [function]")
		case sym.IsDataLabel:
			fmt.Fprint(&b, " [data]")
		default:
			fmt.Fprint(&b, " [label]")
		}
		fmt.Fprintln(&b)

		if sym.Definition != nil && sym.Definition.Line > 0 {
			fmt.Fprintf(&b, "  defined:    line %d\n", sym.Definition.Line)
		} else if sym.Definition == nil {
			fmt.Fprintln(&b, "  defined:    (undefined)")
		}

		if len(sym.References) == 0 {
			fmt.Fprintln(&b, "  referenced: (never)")
		} else {
			lines := make([]string, len(sym.References))
			for i, ref := range sym.References {
				lines[i] = fmt.Sprintf("%d", ref.Line)
			}
			fmt.Fprintf(&b, "  referenced: %d time(s), line(s) %s\n", len(sym.References), strings.Join(lines, ", "))
		}
		fmt.Fprintln(&b)
	}

	return b.String()
}
