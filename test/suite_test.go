package test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thavlik/foldy-prep/fsutil"
	"github.com/thavlik/foldy-prep/gromacs"
	"github.com/thavlik/foldy-prep/rcsb"
)

func liveDownloader(t *testing.T) *rcsb.Downloader {
	if _, ok := os.LookupEnv("RCSB_LIVE"); !ok {
		t.Skip("RCSB_LIVE not set")
	}
	d := rcsb.NewDownloader(zap.NewNop())
	d.Client.Timeout = time.Minute * 3
	return d
}

func TestErrPDBNotFound(t *testing.T) {
	d := liveDownloader(t)
	err := d.Download(context.Background(), t.TempDir(), "abcd.pdb")
	var dlErr *rcsb.DownloadError
	require.True(t, errors.As(err, &dlErr))
	assert.Equal(t, 404, dlErr.StatusCode)
}

func TestBasicDownload(t *testing.T) {
	d := liveDownloader(t)
	pdbID, ok := os.LookupEnv("PDB_ID")
	if !ok {
		pdbID = "1aki"
	}
	pdbID = strings.ToLower(pdbID)
	dir := t.TempDir()
	require.NoError(t, d.Download(context.Background(), dir, pdbID+".pdb"))
	info, err := os.Stat(filepath.Join(dir, pdbID+".pdb"))
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

// TestBasicMinim runs the full preparation pipeline against a real
// GROMACS install. GMX names the binary and MDP_DIR holds ions.mdp
// and emin.mdp.
func TestBasicMinim(t *testing.T) {
	d := liveDownloader(t)
	gmx, ok := os.LookupEnv("GMX")
	if !ok {
		t.Skip("GMX not set")
	}
	mdpDir, ok := os.LookupEnv("MDP_DIR")
	require.Truef(t, ok, "missing MDP_DIR")
	pdbID := "1aki"
	t.Run(pdbID, func(t *testing.T) {
		root := t.TempDir()
		fs := afero.NewOsFs()
		pdbDir := filepath.Join(root, "pdb")
		workDir := filepath.Join(root, "work", pdbID)
		require.NoError(t, fsutil.EnsureDir(fs, nil, pdbDir))
		require.NoError(t, fsutil.EnsureDir(fs, nil, workDir))
		require.NoError(t, d.Download(context.Background(), pdbDir, pdbID+".pdb"))
		cmds, err := gromacs.PrepareCommands(gromacs.Params{
			Gmx:        gmx,
			PDBFile:    filepath.Join(pdbDir, pdbID+".pdb"),
			ForceField: "oplsaa",
			MdpDir:     mdpDir,
			WorkDir:    workDir,
		})
		require.NoError(t, err)
		require.NoError(t, gromacs.NewRunner(zap.NewNop()).Run(context.Background(), cmds, true))
		files, err := fsutil.ListFiles(fs, workDir)
		require.NoError(t, err)
		assert.Contains(t, files, filepath.Join(workDir, "em.gro"))
	})
}
