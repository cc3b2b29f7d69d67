package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TempDir is a utility struct for managing temporary directories in tests.
type TempDir struct {
	t    *testing.T
	path string
}

// NewTempDir creates a temporary directory and registers cleanup with the test.
func NewTempDir(t *testing.T) *TempDir {
	t.Helper()
	path, err := os.MkdirTemp("", "validator-load-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		require.NoError(t, os.RemoveAll(path), "failed to remove temp dir: "+path)
	})
	return &TempDir{t: t, path: path}
}

// Path returns the path of the temporary directory.
func (td *TempDir) Path() string {
	return td.path
}

// File returns the path of name inside the temporary directory. The file is not created.
func (td *TempDir) File(name string) string {
	return filepath.Join(td.path, name)
}

// WriteFile writes content to name inside the temporary directory and returns its path.
func (td *TempDir) WriteFile(name string, content []byte) string {
	td.t.Helper()
	path := td.File(name)
	require.NoError(td.t, os.WriteFile(path, content, 0o644), "failed to write fixture file "+path)
	return path
}
