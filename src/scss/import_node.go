package scss

import "strings"

// Import is a single `@import` target. A statement importing several files
// is parsed into one Import per target.
type Import struct {
	Position Position
	// Path is the target as written, without quotes.
	Path string
	// Plain marks imports left to the browser (CSS files, url(), remote).
	Plain bool
	// Media holds a trailing media query of a plain import.
	Media string
}

func (n *Import) Pos() Position { return n.Position }

// Accept satisfies the Node interface.
func (n *Import) Accept(v Visitor) error {
	if vv, ok := v.(interface{ VisitImport(*Import) error }); ok {
		return vv.VisitImport(n)
	}
	return nil
}

func (*Import) node() {}

// IsPlainImport reports whether path refers to a plain CSS import that Sass
// leaves untouched.
func IsPlainImport(path string) bool {
	switch {
	case strings.HasSuffix(path, ".css"):
		return true
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"), strings.HasPrefix(path, "//"):
		return true
	case strings.HasPrefix(path, "url("):
		return true
	}
	return false
}
