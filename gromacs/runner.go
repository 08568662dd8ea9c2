package gromacs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thavlik/foldy-prep/logging"
)

// Command is a single process invocation. It is never passed
// through a shell.
type Command struct {
	Path  string
	Args  []string
	Dir   string
	Stdin string
}

// Cmd builds a Command from an executable and its arguments.
func Cmd(path string, args ...string) Command {
	return Command{Path: path, Args: args}
}

func (c Command) String() string {
	parts := append([]string{c.Path}, c.Args...)
	s := strings.Join(parts, " ")
	if c.Stdin != "" {
		s = fmt.Sprintf("%s <<< %q", s, c.Stdin)
	}
	return s
}

// CommandError is returned by Run when a command fails. Commands
// after Index were not started.
type CommandError struct {
	Index   int
	Command Command
	Stdout  string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %d (%s): %v", e.Index, e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Runner executes command sequences one at a time.
type Runner struct {
	Log logging.Logger
}

// NewRunner returns a Runner logging to log.
func NewRunner(log logging.Logger) *Runner {
	return &Runner{Log: log}
}

// Run executes cmds in order and stops at the first failure. Stdout
// of successful commands is logged unless suppressOutput is set.
// Nothing already executed is undone.
func (r *Runner) Run(ctx context.Context, cmds []Command, suppressOutput bool) error {
	log := logging.OrNop(r.Log)
	runID := uuid.New().String()
	for i, c := range cmds {
		log.Debug("Running command",
			zap.String("run", runID),
			zap.Int("step", i),
			zap.Int("of", len(cmds)),
			zap.Stringer("cmd", c))
		stdout, stderr, err := execute(ctx, c)
		if err != nil {
			log.Error("Failed to run command",
				zap.String("run", runID),
				zap.Stringer("cmd", c))
			log.Error("Output", zap.String("run", runID), zap.String("stdout", stdout))
			log.Error("Error", zap.String("run", runID), zap.String("stderr", stderr))
			return &CommandError{
				Index:   i,
				Command: c,
				Stdout:  stdout,
				Stderr:  stderr,
				Err:     err,
			}
		}
		if !suppressOutput {
			log.Info(stdout, zap.String("run", runID), zap.Int("step", i))
		}
	}
	return nil
}

func execute(ctx context.Context, c Command) (string, string, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	if c.Stdin != "" {
		cmd.Stdin = strings.NewReader(c.Stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
