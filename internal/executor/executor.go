// Package executor spawns the command attached to a selected line.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"
)

// Environment variables handed to every spawned command.
const (
	EnvLineNr  = "LINE_VIEW_LINE_NR"
	EnvLineSrc = "LINE_VIEW_LINE_SRC"
)

// Command is a fully resolved invocation: Args[0] is the program.
type Command struct {
	Args     []string
	Source   string
	Position int
}

// Started describes a spawned process. PID is zero when nothing was spawned.
type Started struct {
	PID int
}

// Executor starts commands without waiting for them to finish.
type Executor interface {
	Execute(ctx context.Context, c Command) (Started, error)
}

// Func adapts a function to the Executor interface.
type Func func(ctx context.Context, c Command) (Started, error)

// Execute calls f.
func (f Func) Execute(ctx context.Context, c Command) (Started, error) {
	return f(ctx, c)
}

// Process runs commands as detached child processes and reaps them in the
// background.
type Process struct {
	logger *slog.Logger
	dir    string
	wg     sync.WaitGroup
}

// NewProcess creates a Process. dir is the working directory for spawned
// commands; empty means the current one.
func NewProcess(logger *slog.Logger, dir string) *Process {
	if logger == nil {
		logger = slog.Default()
	}
	return &Process{logger: logger, dir: dir}
}

// Execute spawns c. An empty argument list spawns nothing.
func (p *Process) Execute(ctx context.Context, c Command) (Started, error) {
	if len(c.Args) == 0 {
		return Started{}, nil
	}
	if err := ctx.Err(); err != nil {
		return Started{}, err
	}

	// Not bound to ctx: the process outlives the request that started it.
	cmd := exec.Command(c.Args[0], c.Args[1:]...)
	cmd.Dir = p.dir
	cmd.Env = append(os.Environ(),
		EnvLineNr+"="+strconv.Itoa(c.Position),
		EnvLineSrc+"="+c.Source,
	)

	if err := cmd.Start(); err != nil {
		return Started{}, fmt.Errorf("executor: spawn %s %q: %w", c.Args[0], c.Args[1:], err)
	}

	pid := cmd.Process.Pid
	p.logger.Info("command started",
		slog.Int("pid", pid),
		slog.Any("args", c.Args),
		slog.String("source", c.Source),
		slog.Int("line", c.Position))

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := cmd.Wait(); err != nil {
			p.logger.Warn("command failed", slog.Int("pid", pid), slog.String("error", err.Error()))
			return
		}
		p.logger.Debug("command exited", slog.Int("pid", pid))
	}()

	return Started{PID: pid}, nil
}

// Wait blocks until every process started so far has exited.
func (p *Process) Wait() {
	p.wg.Wait()
}
