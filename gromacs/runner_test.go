package gromacs

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*Runner, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewRunner(zap.New(core)), logs
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "marker")
	r, logs := observed()
	err := r.Run(context.Background(), []Command{
		Cmd("true"),
		Cmd("false"),
		Cmd("touch", marker),
	}, true)
	require.Error(t, err)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 1, cmdErr.Index)
	assert.Equal(t, "false", cmdErr.Command.Path)
	var exitErr *exec.ExitError
	assert.True(t, errors.As(err, &exitErr))

	// The third command never ran
	assert.NoFileExists(t, marker)
	assert.Equal(t, 2, logs.FilterMessage("Running command").Len())
	assert.Equal(t, 1, logs.FilterMessage("Failed to run command").Len())
}

func TestRunCapturesOutput(t *testing.T) {
	r, logs := observed()
	err := r.Run(context.Background(), []Command{
		Cmd("sh", "-c", "echo out; echo err >&2; exit 3"),
	}, true)
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "out\n", cmdErr.Stdout)
	assert.Equal(t, "err\n", cmdErr.Stderr)

	stdout := logs.FilterMessage("Output").All()
	require.Len(t, stdout, 1)
	assert.Equal(t, "out\n", stdout[0].ContextMap()["stdout"])
	stderr := logs.FilterMessage("Error").All()
	require.Len(t, stderr, 1)
	assert.Equal(t, "err\n", stderr[0].ContextMap()["stderr"])
}

func TestRunOutputSuppression(t *testing.T) {
	cmds := []Command{Cmd("echo", "hello")}

	r, logs := observed()
	require.NoError(t, r.Run(context.Background(), cmds, true))
	assert.Equal(t, 0, logs.FilterMessage("hello\n").Len())

	r, logs = observed()
	require.NoError(t, r.Run(context.Background(), cmds, false))
	assert.Equal(t, 1, logs.FilterMessage("hello\n").Len())
}

func TestRunNoShellExpansion(t *testing.T) {
	r, logs := observed()
	require.NoError(t, r.Run(context.Background(), []Command{
		Cmd("echo", "$HOME", "*", "a;b"),
	}, false))
	assert.Equal(t, 1, logs.FilterMessage("$HOME * a;b\n").Len())
}

func TestRunStdinAndDir(t *testing.T) {
	dir := t.TempDir()
	r, logs := observed()
	require.NoError(t, r.Run(context.Background(), []Command{
		{Path: "sh", Args: []string{"-c", "cat > piped.txt"}, Dir: dir, Stdin: "SOL\n"},
		{Path: "cat", Args: []string{"piped.txt"}, Dir: dir},
	}, false))
	assert.Equal(t, 1, logs.FilterMessage("SOL\n").Len())
}

func TestRunMissingExecutable(t *testing.T) {
	r, _ := observed()
	err := r.Run(context.Background(), []Command{Cmd("definitely-not-a-real-binary")}, true)
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 0, cmdErr.Index)
}

func TestRunEmpty(t *testing.T) {
	r, logs := observed()
	require.NoError(t, r.Run(context.Background(), nil, false))
	assert.Equal(t, 0, logs.Len())
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "gmx mdrun -v", Cmd("gmx", "mdrun", "-v").String())
	c := Command{Path: "gmx", Args: []string{"genion"}, Stdin: "SOL\n"}
	assert.Equal(t, `gmx genion <<< "SOL\n"`, c.String())
}
