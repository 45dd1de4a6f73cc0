package repo

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/xgit-dev/xgit/pkg/gitcmd"
)

// fakeRunner scripts git output for tests. Responses are keyed by the
// space-joined argument list; directory-scoped responses for RunDir calls
// use a "dir\x00args" key and win over the plain key.
type fakeRunner struct {
	t     *testing.T
	out   map[string]string
	fails map[string]*gitcmd.CommandError
	calls map[string]int
}

func newFakeRunner(t *testing.T) *fakeRunner {
	return &fakeRunner{
		t:     t,
		out:   make(map[string]string),
		fails: make(map[string]*gitcmd.CommandError),
		calls: make(map[string]int),
	}
}

func key(args ...string) string { return strings.Join(args, " ") }

func (f *fakeRunner) script(out string, args ...string) {
	k := key(args...)
	f.out[k] = out
	delete(f.fails, k)
}

func (f *fakeRunner) scriptDir(dir, out string, args ...string) {
	f.out[dir+"\x00"+key(args...)] = out
}

func (f *fakeRunner) scriptFail(args ...string) {
	k := key(args...)
	f.fails[k] = &gitcmd.CommandError{Args: args, ExitCode: 1, Stderr: "scripted failure"}
	delete(f.out, k)
}

func (f *fakeRunner) lookup(k string) (string, error) {
	f.calls[k]++
	if cmdErr, ok := f.fails[k]; ok {
		return "", cmdErr
	}
	out, ok := f.out[k]
	if !ok {
		f.t.Fatalf("unscripted git call: %s", k)
	}
	return out, nil
}

func (f *fakeRunner) callCount(args ...string) int { return f.calls[key(args...)] }

func (f *fakeRunner) Run(ctx context.Context, args ...string) (string, error) {
	out, err := f.lookup(key(args...))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (f *fakeRunner) RunDir(ctx context.Context, dir string, args ...string) (string, error) {
	scoped := dir + "\x00" + key(args...)
	if _, ok := f.out[scoped]; ok {
		out, err := f.lookup(scoped)
		return strings.TrimSpace(out), err
	}
	return f.Run(ctx, args...)
}

func (f *fakeRunner) Lines(ctx context.Context, args ...string) ([]string, error) {
	out, err := f.lookup(key(args...))
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimRight(out, "\n")
	if trimmed == "" {
		return nil, nil
	}
	return strings.Split(trimmed, "\n"), nil
}

func (f *fakeRunner) Stream(ctx context.Context, args ...string) (io.ReadCloser, error) {
	out, err := f.lookup(key(args...))
	if err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(out)), nil
}

func (f *fakeRunner) Binary(ctx context.Context, args ...string) (io.ReadCloser, error) {
	return f.Stream(ctx, args...)
}

func (f *fakeRunner) RevParse(ctx context.Context, specs ...string) ([]string, error) {
	results := make([]string, 0, len(specs))
	for _, spec := range specs {
		out, err := f.Run(ctx, "rev-parse", "--verify", "--quiet", spec)
		if err != nil {
			return nil, err
		}
		results = append(results, out)
	}
	return results, nil
}

var _ Runner = (*fakeRunner)(nil)
