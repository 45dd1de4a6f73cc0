package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/xgit-dev/xgit/pkg/repo"
)

func newCatCmd() *cobra.Command {
	var rev string
	var zstdOut bool
	var output string

	cmd := &cobra.Command{
		Use:   "cat <path>",
		Short: "Write a blob's content to stdout or a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xc, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := anchorRev(cmd.Context(), xc, rev); err != nil {
				return err
			}
			entry, err := xc.EntryAt(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			blob, err := entry.Blob()
			if err != nil {
				return err
			}

			var dst io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("cat: %w", err)
				}
				defer f.Close()
				dst = f
			}
			_, err = blob.Export(cmd.Context(), dst, repo.ExportOptions{Zstd: zstdOut})
			return err
		},
	}
	cmd.Flags().StringVar(&rev, "rev", "", "anchor at this revision instead of HEAD")
	cmd.Flags().BoolVar(&zstdOut, "zstd", false, "compress the output with zstd")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
