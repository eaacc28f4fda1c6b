package parser

import (
	"fmt"

	"github.com/mjfoley/vam16/lexer"
)

// Error is a syntactic or semantic error discovered while parsing a line.
// Every error carries the position of the offending token so callers can
// report a precise line and column.
type Error struct {
	Pos     lexer.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// ErrorList collects every error seen across a translation unit. Parsing
// never stops at the first error: each bad line is abandoned and the
// parser resumes at the next line so later errors are also reported, but
// no object is generated once the list is non-empty.
type ErrorList struct {
	Errors []*Error
}

func (el *ErrorList) add(pos lexer.Position, format string, args ...any) {
	el.Errors = append(el.Errors, &Error{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (el *ErrorList) HasErrors() bool { return len(el.Errors) > 0 }

func (el *ErrorList) Error() string {
	if len(el.Errors) == 0 {
		return ""
	}
	s := "s"
	if len(el.Errors) == 1 {
		s = ""
	}
	msg := fmt.Sprintf("%d error%s:\n", len(el.Errors), s)
	for _, e := range el.Errors {
		msg += "  " + e.Error() + "\n"
	}
	return msg
}
