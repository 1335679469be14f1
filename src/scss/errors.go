package scss

import "fmt"

// SyntaxError is returned by the parser, and by selector re-parsing during a
// partition, when source text cannot be understood.
type SyntaxError struct {
	Position Position
	Message  string
}

func (e *SyntaxError) Error() string {
	if e.Position.IsZero() {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Position, e.Message)
}

// Pos returns the location of the error.
func (e *SyntaxError) Pos() Position { return e.Position }
