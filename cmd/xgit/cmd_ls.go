package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/xgit-dev/xgit/pkg/object"
	"github.com/xgit-dev/xgit/pkg/repo"
)

func newLsCmd() *cobra.Command {
	var long bool
	var rev string

	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List a tree within the anchored commit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xc, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := anchorRev(cmd.Context(), xc, rev); err != nil {
				return err
			}

			target := "."
			if len(args) == 1 {
				target = args[0]
			}
			entry, err := xc.EntryAt(cmd.Context(), target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if entry.Type() != object.TypeTree {
				return printEntry(cmd, entry, long)
			}
			tree, err := entry.Tree()
			if err != nil {
				return err
			}
			entries, err := tree.Entries(cmd.Context())
			if err != nil {
				return err
			}
			if long {
				for _, e := range entries {
					line, err := e.LongLine(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintln(out, line)
				}
				return nil
			}
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				name := e.Name()
				if e.Type() == object.TypeTree {
					name += "/"
				}
				names = append(names, name)
			}
			printColumns(out, names)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "show mode, type, hash and size")
	cmd.Flags().StringVar(&rev, "rev", "", "anchor at this revision instead of HEAD")
	return cmd
}

func printEntry(cmd *cobra.Command, entry *repo.Entry, long bool) error {
	var line string
	var err error
	if long {
		line, err = entry.LongLine(cmd.Context())
	} else {
		line, err = entry.Line(cmd.Context())
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
	return nil
}

// printColumns lays names out in columns sized to the terminal, one per
// line when stdout is not a terminal.
func printColumns(out io.Writer, names []string) {
	width := 0
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = w
		}
	}
	if width <= 0 {
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
		return
	}

	longest := 0
	for _, n := range names {
		if len(n) > longest {
			longest = len(n)
		}
	}
	cell := longest + 2
	cols := width / cell
	if cols < 1 {
		cols = 1
	}
	for i, n := range names {
		last := i == len(names)-1 || (i+1)%cols == 0
		if last {
			fmt.Fprintln(out, n)
		} else {
			fmt.Fprint(out, n, strings.Repeat(" ", cell-len(n)))
		}
	}
}
