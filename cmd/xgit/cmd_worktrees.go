package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newWorktreesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worktrees",
		Short: "List the repository's worktrees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			xc, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			r, err := xc.Repository()
			if err != nil {
				return err
			}
			worktrees, err := r.Worktrees(cmd.Context())
			if err != nil {
				return err
			}

			paths := make([]string, 0, len(worktrees))
			for p := range worktrees {
				paths = append(paths, p)
			}
			sort.Strings(paths)

			out := cmd.OutOrStdout()
			for _, p := range paths {
				wt := worktrees[p]
				head := "(no commit)"
				if commit, err := wt.Commit(); err == nil {
					head = commit.Hash().Abbrev()
				}
				branch := "(detached)"
				if b := wt.Branch(); b != nil {
					branch = b.ShortName()
				}
				fmt.Fprintf(out, "%s %s %s", head, branch, wt.Path())
				if wt.Locked != "" {
					fmt.Fprintf(out, " locked:%s", wt.Locked)
				}
				if wt.Prunable != "" {
					fmt.Fprintf(out, " prunable:%s", wt.Prunable)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
