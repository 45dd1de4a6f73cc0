package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPwdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pwd",
		Short: "Show the anchored worktree, branch, commit and path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			xc, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			wt, err := xc.Worktree()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "worktree: %s\n", wt.Path())
			if branch := xc.Branch(); branch != nil {
				fmt.Fprintf(out, "branch:   %s\n", branch.Name())
			} else {
				fmt.Fprintln(out, "branch:   (detached)")
			}
			commit, err := xc.Commit()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "commit:   %s\n", commit.Hash())
			fmt.Fprintf(out, "path:     %s\n", xc.Path())
			return nil
		},
	}
}
