package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xgit-dev/xgit/pkg/repo"
)

func newRefsCmd() *cobra.Command {
	var kind string
	var resolve bool

	cmd := &cobra.Command{
		Use:   "refs",
		Short: "List the repository's refs",
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
			refs, err := r.Refs(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, ref := range refs {
				if kind != "" && string(ref.Kind()) != kind {
					continue
				}
				if !resolve {
					fmt.Fprintf(out, "%-13s %s\n", ref.Kind(), ref.Name())
					continue
				}
				target, err := ref.Target(cmd.Context())
				if err != nil {
					return fmt.Errorf("ref %s: %w", ref.Name(), err)
				}
				fmt.Fprintf(out, "%s %-6s %s\n", target.Hash().Abbrev(), target.Type(), ref.Name())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", fmt.Sprintf("filter by kind: %s, %s, %s, %s, %s",
		repo.KindBranch, repo.KindRemoteBranch, repo.KindTag, repo.KindReplacement, repo.KindOther))
	cmd.Flags().BoolVar(&resolve, "resolve", false, "resolve each ref to its target object")
	return cmd
}
