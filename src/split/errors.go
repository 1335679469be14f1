package split

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/seuros/gopher-sass/src/scss"
)

// Frame is one entry of the include/import stack active when an error was
// raised.
type Frame struct {
	// Kind is "mixin" or "import".
	Kind     string
	Name     string
	Position scss.Position
}

func (f Frame) String() string {
	if f.Kind == "import" {
		return fmt.Sprintf("%s: imported %s", f.Position, f.Name)
	}
	return fmt.Sprintf("%s: in mixin %s", f.Position, f.Name)
}

// Error is implemented by every error raised while partitioning.
type Error interface {
	error
	// Pos returns the position of the offending node.
	Pos() scss.Position
	// Message returns the error text without position.
	Message() string
	// Trace returns the include/import frames, innermost first.
	Trace() []Frame
}

// Location is embedded by all partition errors.
type Location struct {
	Position scss.Position
	Frames   []Frame
}

func (l *Location) Pos() scss.Position { return l.Position }
func (l *Location) Trace() []Frame     { return l.Frames }

// locate fills in the node position and stack of the visit that failed,
// keeping whatever the error already knew.
func (l *Location) locate(pos scss.Position, frames []Frame) {
	if l.Position.IsZero() {
		l.Position = pos
	}
	if l.Frames == nil && len(frames) > 0 {
		l.Frames = append([]Frame(nil), frames...)
	}
}

type locatable interface {
	locate(pos scss.Position, frames []Frame)
}

func format(pos scss.Position, msg string) string {
	if pos.IsZero() {
		return msg
	}
	return fmt.Sprintf("%s: %s", pos, msg)
}

func titled(k CallableKind) string {
	s := string(k)
	if s == "" {
		return "Mixin"
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// LookupError reports a mixin or variable that is not defined.
type LookupError struct {
	Location
	// Kind is "mixin" or "variable".
	Kind string
	Name string
}

func (e *LookupError) Message() string {
	if e.Kind == "variable" {
		return fmt.Sprintf("Undefined variable: \"$%s\".", e.Name)
	}
	return fmt.Sprintf("Undefined %s '%s'.", e.Kind, e.Name)
}

func (e *LookupError) Error() string { return format(e.Position, e.Message()) }

// ArityError reports too many positional arguments.
type ArityError struct {
	Location
	Kind     CallableKind
	Callee   string
	Declared int
	Supplied int
}

func (e *ArityError) Message() string {
	return fmt.Sprintf("%s %s takes %d %s but %d %s passed.",
		titled(e.Kind), e.Callee,
		e.Declared, plural(e.Declared, "argument", "arguments"),
		e.Supplied, plural(e.Supplied, "was", "were"))
}

func (e *ArityError) Error() string { return format(e.Position, e.Message()) }

// KeywordError reports named arguments that match no parameter.
type KeywordError struct {
	Location
	Kind   CallableKind
	Callee string
	Names  []string
}

func (e *KeywordError) Message() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("%s %s doesn't have an argument named $%s.", titled(e.Kind), e.Callee, e.Names[0])
	}
	names := make([]string, len(e.Names))
	for i, n := range e.Names {
		names[i] = "$" + n
	}
	return fmt.Sprintf("%s %s doesn't have the following arguments: %s.", titled(e.Kind), e.Callee, strings.Join(names, ", "))
}

func (e *KeywordError) Error() string { return format(e.Position, e.Message()) }

// DuplicateArgumentError reports a parameter supplied twice.
type DuplicateArgumentError struct {
	Location
	Kind   CallableKind
	Callee string
	Name   string
	// Named is set when the same keyword appeared twice, as opposed to a
	// positional and a keyword argument for one parameter.
	Named bool
}

func (e *DuplicateArgumentError) Message() string {
	if e.Named {
		return fmt.Sprintf("%s %s was passed argument $%s twice.", titled(e.Kind), e.Callee, e.Name)
	}
	return fmt.Sprintf("%s %s was passed argument $%s both by position and by name.", titled(e.Kind), e.Callee, e.Name)
}

func (e *DuplicateArgumentError) Error() string { return format(e.Position, e.Message()) }

// MissingArgumentError reports a parameter without any value.
type MissingArgumentError struct {
	Location
	Kind   CallableKind
	Callee string
	Name   string
}

func (e *MissingArgumentError) Message() string {
	return fmt.Sprintf("%s %s is missing argument $%s.", titled(e.Kind), e.Callee, e.Name)
}

func (e *MissingArgumentError) Error() string { return format(e.Position, e.Message()) }

// ImportCycleError reports a document that transitively imports itself.
type ImportCycleError struct {
	Location
	// Chain lists canonical paths from the first occurrence back to itself.
	Chain []string
}

func (e *ImportCycleError) Message() string {
	links := make([]string, 0, len(e.Chain))
	for i := 0; i+1 < len(e.Chain); i++ {
		links = append(links, fmt.Sprintf("%s imports %s", e.Chain[i], e.Chain[i+1]))
	}
	return "An @import loop has been found: " + strings.Join(links, ", ")
}

func (e *ImportCycleError) Error() string { return format(e.Position, e.Message()) }

// ImportError reports an import that could not be loaded or parsed.
type ImportError struct {
	Location
	Path string
	Err  error
}

func (e *ImportError) Message() string {
	return fmt.Sprintf("File to import not found or unreadable: %s: %v", e.Path, e.Err)
}

func (e *ImportError) Error() string { return format(e.Position, e.Message()) }

func (e *ImportError) Unwrap() error { return e.Err }

// MixinCycleError reports a mixin that includes itself while expanding.
type MixinCycleError struct {
	Location
	Name  string
	Chain []string
}

func (e *MixinCycleError) Message() string {
	links := make([]string, 0, len(e.Chain))
	for i := 0; i+1 < len(e.Chain); i++ {
		links = append(links, fmt.Sprintf("%s includes %s", e.Chain[i], e.Chain[i+1]))
	}
	return "An @include loop has been found: " + strings.Join(links, ", ")
}

func (e *MixinCycleError) Error() string { return format(e.Position, e.Message()) }

// RecursionError reports include/import nesting deeper than the limit.
type RecursionError struct {
	Location
	Limit int
}

func (e *RecursionError) Message() string {
	return fmt.Sprintf("Maximum nesting depth of %d exceeded.", e.Limit)
}

func (e *RecursionError) Error() string { return format(e.Position, e.Message()) }

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
