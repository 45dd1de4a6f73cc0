package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xgit-dev/xgit/pkg/repo"
)

// describe prints machine-readable JSON for the session or a single
// object. "repo" and "worktree" are keywords; anything else is tried as a
// revision, then as a path within the anchored commit.
func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe [repo|worktree|rev|path]",
		Short: "Describe the session or an object as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xc, err := openSession(cmd.Context())
			if err != nil {
				return err
			}

			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			v, err := describeTarget(cmd, xc, target)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		},
	}
}

func describeTarget(cmd *cobra.Command, xc *repo.Context, target string) (any, error) {
	ctx := cmd.Context()
	switch target {
	case "":
		return repo.DescribeContext(xc)
	case "repo":
		r, err := xc.Repository()
		if err != nil {
			return nil, err
		}
		return repo.DescribeRepository(ctx, r)
	case "worktree":
		wt, err := xc.Worktree()
		if err != nil {
			return nil, err
		}
		return repo.DescribeWorktree(wt)
	}

	r, err := xc.Repository()
	if err != nil {
		return nil, err
	}
	if obj, err := r.GetObject(ctx, target, ""); err == nil {
		switch o := obj.(type) {
		case *repo.Commit:
			return repo.DescribeCommit(ctx, o)
		case *repo.TagObject:
			return repo.DescribeTag(ctx, o)
		}
	}
	entry, err := xc.EntryAt(ctx, target)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("describe: %q is neither a revision nor a path: %w", target, repo.ErrNotFound)
		}
		return nil, err
	}
	return repo.DescribeEntry(ctx, entry)
}
