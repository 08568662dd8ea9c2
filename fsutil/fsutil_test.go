package fsutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEnsureDirIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)
	path := filepath.Join("data", "pdb", "1aki")

	require.NoError(t, EnsureDir(fs, log, path))
	exists, err := afero.DirExists(fs, path)
	require.NoError(t, err)
	assert.True(t, exists)
	require.Equal(t, 1, logs.FilterMessage("Created directory").Len())

	// Second call is a no-op
	require.NoError(t, EnsureDir(fs, log, path))
	assert.Equal(t, 1, logs.FilterMessage("Created directory").Len())
}

func TestEnsureDirOnFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "occupied", []byte("x"), 0644))
	err := EnsureDir(fs, nil, "occupied")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestListFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "out/a/1.gro", nil, 0644))
	require.NoError(t, afero.WriteFile(fs, "out/2.gro", nil, 0644))
	files, err := ListFiles(fs, "out")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join("out", "2.gro"),
		filepath.Join("out", "a", "1.gro"),
	}, files)
}
