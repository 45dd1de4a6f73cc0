// Package gitcmd runs git plumbing commands and returns their output.
// Every call is a blocking external-process invocation; the package adds
// no caching and no retries.
package gitcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// CommandError reports a git invocation that exited non-zero.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = fmt.Sprintf("exit status %d", e.ExitCode)
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), msg)
}

// Runner executes git commands bound to a working directory.
type Runner struct {
	dir string
	git string
	log *slog.Logger
}

// New locates the git binary and returns a Runner bound to dir.
func New(dir string) (*Runner, error) {
	git, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("git command not found: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", dir, err)
	}
	return &Runner{dir: abs, git: git, log: slog.Default()}, nil
}

// Dir returns the directory commands run in.
func (r *Runner) Dir() string { return r.dir }

// In returns a Runner bound to another directory, sharing the located git
// binary.
func (r *Runner) In(dir string) *Runner {
	return &Runner{dir: dir, git: r.git, log: r.log}
}

func (r *Runner) command(ctx context.Context, dir string, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.git, args...)
	cmd.Dir = dir
	return cmd
}

func (r *Runner) exec(ctx context.Context, dir string, args []string) ([]byte, error) {
	start := time.Now()
	cmd := r.command(ctx, dir, args)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	r.log.Debug("git command completed",
		"dir", dir,
		"args", args,
		"duration_ms", time.Since(start).Milliseconds(),
		"ok", err == nil)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &CommandError{
				Args:     args,
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return stdout.Bytes(), nil
}

// Run executes git with args and returns trimmed standard output.
func (r *Runner) Run(ctx context.Context, args ...string) (string, error) {
	out, err := r.exec(ctx, r.dir, args)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// RunDir is Run with an explicit working directory.
func (r *Runner) RunDir(ctx context.Context, dir string, args ...string) (string, error) {
	out, err := r.exec(ctx, dir, args)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Lines executes git with args and returns standard output split into
// lines. Trailing newlines do not produce an empty final line.
func (r *Runner) Lines(ctx context.Context, args ...string) ([]string, error) {
	out, err := r.exec(ctx, r.dir, args)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// Stream executes git with args and returns its standard output as an
// incremental reader. The returned closer waits for the process; a
// non-zero exit surfaces from Close.
func (r *Runner) Stream(ctx context.Context, args ...string) (io.ReadCloser, error) {
	return r.pipe(ctx, args)
}

// Binary is Stream for callers that treat the output as raw bytes. The two
// are distinct in the interface the core consumes even though the plumbing
// is shared.
func (r *Runner) Binary(ctx context.Context, args ...string) (io.ReadCloser, error) {
	return r.pipe(ctx, args)
}

func (r *Runner) pipe(ctx context.Context, args []string) (io.ReadCloser, error) {
	cmd := r.command(ctx, r.dir, args)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return &processReader{r: stdout, cmd: cmd, args: args, stderr: &stderr}, nil
}

// RevParse resolves one or more revision specs via `rev-parse --verify
// --quiet`, one result per spec, in order.
func (r *Runner) RevParse(ctx context.Context, specs ...string) ([]string, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("rev-parse: no specs given")
	}
	results := make([]string, 0, len(specs))
	for _, spec := range specs {
		out, err := r.Run(ctx, "rev-parse", "--verify", "--quiet", spec)
		if err != nil {
			return nil, err
		}
		results = append(results, out)
	}
	return results, nil
}

// processReader couples the child's stdout with process reaping.
type processReader struct {
	r      io.ReadCloser
	cmd    *exec.Cmd
	args   []string
	stderr *bytes.Buffer
	closed bool
}

func (p *processReader) Read(b []byte) (int, error) { return p.r.Read(b) }

func (p *processReader) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	// Drain so the child is not killed by a broken pipe mid-write.
	_, _ = io.Copy(io.Discard, p.r)
	p.r.Close()
	if err := p.cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &CommandError{
				Args:     p.args,
				ExitCode: exitErr.ExitCode(),
				Stderr:   p.stderr.String(),
			}
		}
		return fmt.Errorf("git %s: %w", p.args[0], err)
	}
	return nil
}

func splitLines(out []byte) []string {
	s := strings.TrimRight(string(out), "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}
