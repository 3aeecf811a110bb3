package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingSkipsRollbacks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_likes.sql", "0001_init.sql", "0001_init_rollback.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o644))
	}

	files, err := pending(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0002_likes.sql"}, files)
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "0001", version("0001_init.sql"))
	assert.Equal(t, "0003", version("0003_add_index_on_likes.sql"))
}

func TestShippedMigrationsHaveRollbacks(t *testing.T) {
	dir := filepath.Join("..", "..", "migrations")
	files, err := pending(dir)
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		_, err := os.Stat(filepath.Join(dir, f[:len(f)-len(".sql")]+"_rollback.sql"))
		assert.NoError(t, err, f)
	}
}
