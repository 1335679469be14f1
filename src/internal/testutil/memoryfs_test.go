package testutil

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFS(t *testing.T) {
	m := NewMemoryFS(map[string]string{"/a.scss": "a { b: c; }"})

	got, err := m.ReadFile("/a.scss")
	require.NoError(t, err)
	assert.Equal(t, "a { b: c; }", string(got))
	assert.Equal(t, 1, m.Reads("/a.scss"))

	_, err = m.ReadFile("/missing.scss")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Zero(t, m.Reads("/missing.scss"))

	m.WriteFile("/missing.scss", "x { y: z; }")
	_, err = m.ReadFile("/missing.scss")
	assert.NoError(t, err)
}
