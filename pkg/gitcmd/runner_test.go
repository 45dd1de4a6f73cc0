package gitcmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// initTestRepo creates a throwaway repository with one commit. Tests skip
// when git is not installed.
func initTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=Test", "GIT_COMMITTER_EMAIL=test@example.com")
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("init", "-q")
	if err := os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	run("add", "hello.txt")
	run("commit", "-q", "-m", "initial")
	return dir
}

func TestRunnerRun(t *testing.T) {
	dir := initTestRepo(t)
	r, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := r.Run(context.Background(), "rev-parse", "HEAD")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 40 && len(out) != 64 {
		t.Errorf("rev-parse HEAD: got %q", out)
	}
}

func TestRunnerLines(t *testing.T) {
	dir := initTestRepo(t)
	r, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	lines, err := r.Lines(context.Background(), "ls-files")
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if len(lines) != 1 || lines[0] != "hello.txt" {
		t.Errorf("Lines: got %v", lines)
	}
}

func TestRunnerBinary(t *testing.T) {
	dir := initTestRepo(t)
	r, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	hash, err := r.Run(ctx, "rev-parse", "HEAD:hello.txt")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	rc, err := r.Binary(ctx, "cat-file", "blob", hash)
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if err := rc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if string(data) != "hello\n" {
		t.Errorf("blob content: got %q", data)
	}
}

func TestRunnerCommandError(t *testing.T) {
	dir := initTestRepo(t)
	r, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = r.Run(context.Background(), "rev-parse", "--verify", "--quiet", "refs/heads/no-such-branch")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("got %v, want CommandError", err)
	}
	if cmdErr.ExitCode == 0 {
		t.Error("ExitCode is zero for a failed command")
	}
}

func TestRunnerRevParse(t *testing.T) {
	dir := initTestRepo(t)
	r, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	results, err := r.RevParse(context.Background(), "HEAD", "HEAD^{tree}")
	if err != nil {
		t.Fatalf("RevParse: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results: got %d, want 2", len(results))
	}
	for _, out := range results {
		if len(out) != 40 && len(out) != 64 {
			t.Errorf("result: got %q", out)
		}
	}
}

func TestRunnerRunDir(t *testing.T) {
	dir := initTestRepo(t)
	r, err := New(os.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := r.RunDir(context.Background(), dir, "rev-parse", "--show-toplevel")
	if err != nil {
		t.Fatalf("RunDir: %v", err)
	}
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	got, err := filepath.EvalSymlinks(out)
	if err != nil {
		t.Fatalf("EvalSymlinks out: %v", err)
	}
	if got != want {
		t.Errorf("RunDir toplevel: got %q, want %q", got, want)
	}
}

func TestSplitLines(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"\n", nil},
		{"a\nb\n", []string{"a", "b"}},
		{"a\r\nb", []string{"a", "b"}},
	}
	for _, c := range cases {
		got := splitLines([]byte(c.in))
		if strings.Join(got, "|") != strings.Join(c.want, "|") {
			t.Errorf("splitLines(%q): got %v, want %v", c.in, got, c.want)
		}
	}
}
