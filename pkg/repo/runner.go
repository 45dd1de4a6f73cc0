package repo

import (
	"context"
	"errors"
	"io"

	"github.com/xgit-dev/xgit/pkg/gitcmd"
)

// Runner is the synchronous git command interface the core talks through.
// *gitcmd.Runner satisfies it; tests substitute a scripted fake.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
	RunDir(ctx context.Context, dir string, args ...string) (string, error)
	Lines(ctx context.Context, args ...string) ([]string, error)
	Stream(ctx context.Context, args ...string) (io.ReadCloser, error)
	Binary(ctx context.Context, args ...string) (io.ReadCloser, error)
	RevParse(ctx context.Context, specs ...string) ([]string, error)
}

var _ Runner = (*gitcmd.Runner)(nil)

// isCommandFailure reports whether err is a non-zero git exit, as opposed
// to a spawn failure or context cancellation. Lookup commands that exit
// non-zero mean "no such object/ref"; anything else is an external command
// failure and is passed through untranslated.
func isCommandFailure(err error) bool {
	var cmdErr *gitcmd.CommandError
	return errors.As(err, &cmdErr)
}
