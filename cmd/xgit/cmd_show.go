package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xgit-dev/xgit/pkg/repo"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [rev]",
		Short: "Show an object: commit metadata, tag metadata, tree listing or blob content",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xc, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			r, err := xc.Repository()
			if err != nil {
				return err
			}

			target := "HEAD"
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				target = strings.TrimSpace(args[0])
			}
			obj, err := r.GetObject(cmd.Context(), target, "")
			if err != nil {
				return err
			}
			return showObject(cmd, obj)
		},
	}
}

func showObject(cmd *cobra.Command, obj repo.Object) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch o := obj.(type) {
	case *repo.Commit:
		author, err := o.Author(ctx)
		if err != nil {
			return err
		}
		message, err := o.Message(ctx)
		if err != nil {
			return err
		}
		parents, err := o.Parents(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "commit %s\n", o.Hash())
		for _, p := range parents {
			fmt.Fprintf(out, "parent %s\n", p.Hash())
		}
		fmt.Fprintf(out, "Author: %s\n", author)
		fmt.Fprintf(out, "Date:   %s\n", author.When.Format("2006-01-02 15:04:05 -0700"))
		fmt.Fprintln(out)
		for _, line := range strings.Split(strings.TrimRight(message, "\n"), "\n") {
			fmt.Fprintf(out, "    %s\n", line)
		}
		return nil

	case *repo.TagObject:
		name, err := o.TagName(ctx)
		if err != nil {
			return err
		}
		tagger, err := o.Tagger(ctx)
		if err != nil {
			return err
		}
		target, err := o.Object(ctx)
		if err != nil {
			return err
		}
		message, err := o.Message(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "tag %s\n", name)
		fmt.Fprintf(out, "object %s (%s)\n", target.Hash(), target.Type())
		fmt.Fprintf(out, "Tagger: %s\n", tagger)
		fmt.Fprintln(out)
		for _, line := range strings.Split(strings.TrimRight(message, "\n"), "\n") {
			fmt.Fprintf(out, "    %s\n", line)
		}
		return showObject(cmd, target)

	case *repo.Tree:
		entries, err := o.Entries(ctx)
		if err != nil {
			return err
		}
		for _, e := range entries {
			line, err := e.LongLine(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, line)
		}
		return nil

	case *repo.Blob:
		rc, err := o.Reader(ctx)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, rc); err != nil {
			rc.Close()
			return err
		}
		return rc.Close()
	}
	return fmt.Errorf("show: unhandled object type %s", obj.Type())
}
