package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/seuros/gopher-sass/src/scss"
	"github.com/seuros/gopher-sass/src/split"
)

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	return e.msg
}

func usageErrorf(code int, format string, args ...interface{}) error {
	return &exitError{
		code: code,
		msg:  fmt.Sprintf(format, args...),
	}
}

// stylesheetError turns a parse or partition failure into the message
// printed by the CLI. Other errors are returned unchanged.
func stylesheetError(err error, trace bool) error {
	var (
		pos    scss.Position
		msg    string
		frames []split.Frame
	)
	var splitErr split.Error
	var syntaxErr *scss.SyntaxError
	switch {
	case errors.As(err, &splitErr):
		pos, msg, frames = splitErr.Pos(), splitErr.Message(), splitErr.Trace()
	case errors.As(err, &syntaxErr):
		pos, msg = syntaxErr.Position, syntaxErr.Message
	default:
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Error on line %d of %s: %s", pos.Line, displayName(pos.File), msg)
	if trace {
		b.WriteString("\nBacktrace:")
		fmt.Fprintf(&b, "\n  %s:%d", displayName(pos.File), pos.Line)
		for _, f := range frames {
			fmt.Fprintf(&b, "\n  %s:%d: %s", displayName(f.Position.File), f.Position.Line, frameLabel(f))
		}
	} else {
		b.WriteString("\n  Use --trace for backtrace")
	}
	return &exitError{code: 1, msg: b.String()}
}

func frameLabel(f split.Frame) string {
	if f.Kind == "import" {
		return "imported " + f.Name
	}
	return "in mixin " + f.Name
}

func displayName(file string) string {
	if file == "" || file == "-" {
		return "standard input"
	}
	return file
}
