package inputs

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestExpand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.log"), "b")
	writeFile(t, filepath.Join(dir, "a.log"), "a")
	writeFile(t, filepath.Join(dir, "nested", "deep", "c.log"), "c")
	writeFile(t, filepath.Join(dir, "notes.txt"), "n")

	t.Run("no args means stdin", func(t *testing.T) {
		t.Parallel()
		got, err := Expand(nil)
		require.NoError(t, err)
		assert.Equal(t, []string{Stdin}, got)
	})

	t.Run("literal file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(dir, "notes.txt")
		got, err := Expand([]string{path})
		require.NoError(t, err)
		assert.Equal(t, []string{path}, got)
	})

	t.Run("doublestar pattern", func(t *testing.T) {
		t.Parallel()
		got, err := Expand([]string{filepath.Join(dir, "**", "*.log")})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.log"),
			filepath.Join(dir, "b.log"),
			filepath.Join(dir, "nested", "deep", "c.log"),
		}, got)
	})

	t.Run("argument order kept", func(t *testing.T) {
		t.Parallel()
		got, err := Expand([]string{filepath.Join(dir, "notes.txt"), Stdin, filepath.Join(dir, "a.log")})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "notes.txt"), Stdin, filepath.Join(dir, "a.log")}, got)
	})

	t.Run("directories skipped", func(t *testing.T) {
		t.Parallel()
		_, err := Expand([]string{filepath.Join(dir, "nested")})
		require.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := Expand([]string{filepath.Join(dir, "missing.log")})
		require.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("bad pattern", func(t *testing.T) {
		t.Parallel()
		_, err := Expand([]string{filepath.Join(dir, "[")})
		require.Error(t, err)
	})
}

func TestOpen(t *testing.T) {
	t.Parallel()

	rc, err := Open(Stdin, strings.NewReader("from stdin"))
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "from stdin", string(data))

	path := filepath.Join(t.TempDir(), "in.txt")
	writeFile(t, path, "from file")
	rc, err = Open(path, nil)
	require.NoError(t, err)
	data, err = io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "from file", string(data))

	_, err = Open(filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
}
