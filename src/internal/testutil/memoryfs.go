// Package testutil provides shared utilities for tests that load stylesheets
package testutil

import (
	"fmt"
	"io/fs"
	"sync"
)

// MemoryFS serves files from a map and counts how often each one is read.
// ReadFile matches importer.ReadFunc.
type MemoryFS struct {
	mu    sync.Mutex
	files map[string]string
	reads map[string]int
}

// NewMemoryFS creates a file system holding files, keyed by path.
func NewMemoryFS(files map[string]string) *MemoryFS {
	if files == nil {
		files = map[string]string{}
	}
	return &MemoryFS{files: files, reads: map[string]int{}}
}

// ReadFile returns the content stored under path, or an error matching
// fs.ErrNotExist.
func (m *MemoryFS) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	m.reads[path]++
	return []byte(src), nil
}

// WriteFile stores content under path.
func (m *MemoryFS) WriteFile(path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = content
}

// Reads returns how many times path was read successfully.
func (m *MemoryFS) Reads(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[path]
}
