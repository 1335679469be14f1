// Package importer resolves @import targets against the importing file and
// a list of load paths, and caches the parsed stylesheets.
package importer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/seuros/gopher-sass/src/parser"
	"github.com/seuros/gopher-sass/src/scss"
)

// ErrNotFound is returned when no candidate file exists for an import.
var ErrNotFound = errors.New("no matching file in the importing directory or load paths")

// ReadFunc reads the file at path. It must report missing files with an
// error matching fs.ErrNotExist.
type ReadFunc func(path string) ([]byte, error)

// Importer loads stylesheets for @import.
type Importer struct {
	read      ReadFunc
	loadPaths []string
	parser    *parser.Parser
	cache     *DocumentCache
}

// New creates an importer reading files with read. Load paths are searched
// in order after the directory of the importing file.
func New(read ReadFunc, loadPaths ...string) (*Importer, error) {
	p, err := parser.New()
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	paths := make([]string, 0, len(loadPaths))
	for _, lp := range loadPaths {
		if lp = strings.TrimSpace(lp); lp != "" {
			paths = append(paths, lp)
		}
	}
	return &Importer{
		read:      read,
		loadPaths: paths,
		parser:    p,
		cache:     NewDocumentCache(0),
	}, nil
}

// OS creates an importer reading from the file system.
func OS(loadPaths ...string) (*Importer, error) {
	return New(os.ReadFile, loadPaths...)
}

// LoadPaths returns the configured load paths.
func (i *Importer) LoadPaths() []string {
	return append([]string(nil), i.loadPaths...)
}

// Cache exposes the parsed document cache.
func (i *Importer) Cache() *DocumentCache {
	return i.cache
}

// Canonical returns the identity of file used for cycle detection.
func (i *Importer) Canonical(file string) string {
	if file == "" {
		return ""
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return filepath.Clean(file)
	}
	return abs
}

// Import resolves path relative to from and returns the parsed stylesheet.
func (i *Importer) Import(path, from string) (string, *scss.Document, error) {
	for _, candidate := range i.candidates(path, from) {
		canonical := i.Canonical(candidate)
		doc, err := i.cache.Fetch(canonical, func() (*scss.Document, error) {
			src, err := i.read(canonical)
			if err != nil {
				return nil, err
			}
			return i.parser.Parse(canonical, string(src))
		})
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", nil, err
		}
		return canonical, doc, nil
	}
	return "", nil, ErrNotFound
}

// candidates lists the files an import may refer to, in lookup order.
func (i *Importer) candidates(path, from string) []string {
	name := filepath.FromSlash(path)
	var dirs []string
	switch {
	case filepath.IsAbs(name):
		dirs = []string{""}
	case from == "" || from == "-":
		dirs = append([]string{"."}, i.loadPaths...)
	default:
		dirs = append([]string{filepath.Dir(from)}, i.loadPaths...)
	}

	var out []string
	for _, dir := range dirs {
		base := filepath.Join(dir, name)
		if filepath.Ext(base) == ".scss" {
			out = append(out, base, partial(base))
			continue
		}
		out = append(out, base+".scss", partial(base+".scss"))
	}
	return out
}

// partial returns the underscore-prefixed variant of a file name.
func partial(file string) string {
	dir, base := filepath.Split(file)
	if strings.HasPrefix(base, "_") {
		return file
	}
	return filepath.Join(dir, "_"+base)
}
