package glsl

import (
	"fmt"
	"strings"
)

// Error is a single diagnostic.
type Error struct {
	Line  int
	Token string
	Msg   string
}

func errorf(line int, tok, format string, args ...any) *Error {
	return &Error{Line: line, Token: tok, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("ERROR: 0:%d: '%s' : %s", e.Line, e.Token, e.Msg)
}

// ErrorList collects the diagnostics of one compilation.
type ErrorList []*Error

func (l ErrorList) Error() string {
	lines := make([]string, len(l))
	for i, e := range l {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// LinkError reports why two stages could not be combined.
type LinkError struct {
	Msgs []string
}

func (e *LinkError) Error() string {
	lines := make([]string, len(e.Msgs))
	for i, m := range e.Msgs {
		lines[i] = "error: " + m
	}
	return strings.Join(lines, "\n")
}
