package main

import (
	"context"
	"fmt"

	"github.com/xgit-dev/xgit/pkg/repo"
)

// openSession builds a navigation context anchored at the worktree
// containing --dir. The returned context is pre-selected: branch, commit
// and path cursor are set from that worktree's HEAD.
func openSession(ctx context.Context) (*repo.Context, error) {
	xc := repo.NewContext()
	if _, err := xc.OpenWorktree(ctx, flagDir, true); err != nil {
		return nil, err
	}
	return xc, nil
}

// anchorRev re-anchors the session at an alternate revision when rev is
// non-empty.
func anchorRev(ctx context.Context, xc *repo.Context, rev string) error {
	if rev == "" {
		return nil
	}
	if err := xc.SetCommitRev(ctx, rev); err != nil {
		return fmt.Errorf("revision %q: %w", rev, err)
	}
	return nil
}
