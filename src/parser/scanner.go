package parser

import (
	"fmt"
	"strings"
)

// statement is one raw SCSS statement: a prelude optionally followed by a
// block of nested statements. Comments are statements of their own.
type statement struct {
	line     int
	prelude  string
	hasBlock bool
	block    []statement

	comment bool
	silent  bool
}

// scanner splits SCSS source into statements. Everything inside a prelude
// stays raw text; expressions are parsed later by the value grammar.
type scanner struct {
	src  string
	pos  int
	line int
}

func newScanner(src string) *scanner {
	return &scanner{src: strings.ReplaceAll(src, "\r\n", "\n"), line: 1}
}

type scanError struct {
	line int
	msg  string
}

func (e *scanError) Error() string { return fmt.Sprintf("line %d: %s", e.line, e.msg) }

func (s *scanner) errorf(line int, format string, args ...interface{}) error {
	return &scanError{line: line, msg: fmt.Sprintf(format, args...)}
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek(offset int) byte {
	if s.pos+offset >= len(s.src) {
		return 0
	}
	return s.src[s.pos+offset]
}

func (s *scanner) advance() byte {
	c := s.src[s.pos]
	s.pos++
	if c == '\n' {
		s.line++
	}
	return c
}

func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.peek(0) {
		case ' ', '\t', '\n', '\f', '\r':
			s.advance()
		default:
			return
		}
	}
}

// scanBlock reads statements until the closing brace of the current block,
// or until the end of input at the top level.
func (s *scanner) scanBlock(nested bool, openLine int) ([]statement, error) {
	var out []statement
	for {
		s.skipSpace()
		if s.eof() {
			if nested {
				return nil, s.errorf(openLine, `expected "}" to close block`)
			}
			return out, nil
		}
		switch {
		case s.peek(0) == '}':
			if !nested {
				return nil, s.errorf(s.line, `unexpected "}"`)
			}
			s.advance()
			return out, nil
		case s.peek(0) == ';':
			s.advance()
			continue
		case s.peek(0) == '/' && s.peek(1) == '*':
			line := s.line
			text, err := s.loudComment()
			if err != nil {
				return nil, err
			}
			out = append(out, statement{line: line, prelude: text, comment: true})
			continue
		case s.peek(0) == '/' && s.peek(1) == '/':
			line := s.line
			out = append(out, statement{line: line, prelude: s.silentComment(), comment: true, silent: true})
			continue
		}

		st, err := s.scanStatement()
		if err != nil {
			return nil, err
		}
		if st.prelude == "" && !st.hasBlock {
			continue
		}
		out = append(out, st)
	}
}

func (s *scanner) loudComment() (string, error) {
	start, line := s.pos, s.line
	s.advance()
	s.advance()
	for !s.eof() {
		if s.peek(0) == '*' && s.peek(1) == '/' {
			s.advance()
			s.advance()
			return s.src[start:s.pos], nil
		}
		s.advance()
	}
	return "", s.errorf(line, "unterminated comment")
}

func (s *scanner) silentComment() string {
	start := s.pos
	for !s.eof() && s.peek(0) != '\n' {
		s.advance()
	}
	return s.src[start:s.pos]
}

// scanStatement reads a prelude up to `;`, `{` or the `}` closing the
// enclosing block, then the nested block if there is one.
func (s *scanner) scanStatement() (statement, error) {
	st := statement{line: s.line}
	var b strings.Builder
	depth := 0
	for !s.eof() {
		c := s.peek(0)
		switch {
		case c == '"' || c == '\'':
			str, err := s.quoted()
			if err != nil {
				return st, err
			}
			b.WriteString(str)
			continue
		case c == '#' && s.peek(1) == '{':
			text, err := s.interpolation()
			if err != nil {
				return st, err
			}
			b.WriteString(text)
			continue
		case c == '/' && s.peek(1) == '*':
			text, err := s.loudComment()
			if err != nil {
				return st, err
			}
			b.WriteString(text)
			continue
		case c == '/' && s.peek(1) == '/' && depth == 0:
			s.silentComment()
			continue
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case depth == 0 && c == ';':
			s.advance()
			st.prelude = strings.TrimSpace(b.String())
			return st, nil
		case depth == 0 && c == '}':
			st.prelude = strings.TrimSpace(b.String())
			return st, nil
		case depth == 0 && c == '{':
			open := s.line
			s.advance()
			st.prelude = strings.TrimSpace(b.String())
			st.hasBlock = true
			block, err := s.scanBlock(true, open)
			if err != nil {
				return st, err
			}
			st.block = block
			return st, nil
		}
		b.WriteByte(s.advance())
	}
	st.prelude = strings.TrimSpace(b.String())
	return st, nil
}

func (s *scanner) quoted() (string, error) {
	start, line := s.pos, s.line
	q := s.advance()
	for !s.eof() {
		c := s.advance()
		switch c {
		case '\\':
			if !s.eof() {
				s.advance()
			}
		case q:
			return s.src[start:s.pos], nil
		case '\n':
			return "", s.errorf(line, "unterminated string")
		}
	}
	return "", s.errorf(line, "unterminated string")
}

// interpolation consumes a balanced `#{...}` including nested braces and
// strings.
func (s *scanner) interpolation() (string, error) {
	start, line := s.pos, s.line
	s.advance()
	s.advance()
	depth := 1
	for !s.eof() {
		switch s.peek(0) {
		case '"', '\'':
			if _, err := s.quoted(); err != nil {
				return "", err
			}
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				s.advance()
				return s.src[start:s.pos], nil
			}
		}
		s.advance()
	}
	return "", s.errorf(line, `expected "}" to close interpolation`)
}
