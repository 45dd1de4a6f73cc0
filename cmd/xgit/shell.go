package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/xgit-dev/xgit/pkg/object"
	"github.com/xgit-dev/xgit/pkg/repo"
)

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive exploration session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			xc, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			sh, err := newShell(cmd.Context(), xc, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer sh.close()
			return sh.run(cmd.Context())
		},
	}
}

// shell is one interactive session over a fixed context. The session
// watches the git directory; ref updates made behind its back flip a
// staleness flag that is surfaced in the prompt, never acted on.
type shell struct {
	id      string
	xc      *repo.Context
	in      io.Reader
	out     io.Writer
	watcher *fsnotify.Watcher
	stale   chan struct{}
	log     *slog.Logger
}

func newShell(ctx context.Context, xc *repo.Context, in io.Reader, out io.Writer) (*shell, error) {
	id := uuid.NewString()
	log := slog.Default().With("session", id)

	sh := &shell{
		id:    id,
		xc:    xc,
		in:    in,
		out:   out,
		stale: make(chan struct{}, 1),
		log:   log,
	}

	r, err := xc.Repository()
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("staleness watch unavailable", "error", err)
		return sh, nil
	}
	if err := watcher.Add(r.Path()); err != nil {
		log.Warn("staleness watch unavailable", "dir", r.Path(), "error", err)
		watcher.Close()
		return sh, nil
	}
	sh.watcher = watcher
	go sh.watch()
	return sh, nil
}

func (s *shell) watch() {
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			s.log.Debug("git directory changed", "name", ev.Name, "op", ev.Op.String())
			select {
			case s.stale <- struct{}{}:
			default:
			}
		case _, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (s *shell) isStale() bool {
	select {
	case <-s.stale:
		return true
	default:
		return false
	}
}

func (s *shell) close() {
	if s.watcher != nil {
		s.watcher.Close()
	}
}

func (s *shell) prompt() string {
	at := "(detached)"
	if b := s.xc.Branch(); b != nil {
		at = b.ShortName()
	}
	marker := ""
	if s.isStale() {
		marker = "*"
	}
	return fmt.Sprintf("xgit %s%s:%s> ", at, marker, s.xc.Path())
}

func (s *shell) run(ctx context.Context) error {
	s.log.Info("session started")
	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, s.prompt())
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		name, args := fields[0], fields[1:]
		if name == "exit" || name == "quit" {
			break
		}
		if err := s.dispatch(ctx, name, args); err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
	}
	s.log.Info("session ended")
	return scanner.Err()
}

func (s *shell) dispatch(ctx context.Context, name string, args []string) error {
	switch name {
	case "help":
		fmt.Fprintln(s.out, "commands: ls [path], cd [path], pwd, cat <path>, show [rev], checkout <rev>, refs, refd <hash>, help, exit")
		return nil
	case "pwd":
		wt, err := s.xc.Worktree()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s:%s\n", wt.Path(), s.xc.Path())
		return nil
	case "cd":
		target := "/"
		if len(args) > 0 {
			target = args[0]
		}
		return s.xc.ChangeDir(ctx, target)
	case "ls":
		target := "."
		if len(args) > 0 {
			target = args[0]
		}
		return s.ls(ctx, target)
	case "cat":
		if len(args) != 1 {
			return fmt.Errorf("usage: cat <path>")
		}
		return s.cat(ctx, args[0])
	case "show":
		target := "HEAD"
		if len(args) > 0 {
			target = args[0]
		}
		return s.show(ctx, target)
	case "checkout":
		if len(args) != 1 {
			return fmt.Errorf("usage: checkout <rev>")
		}
		return s.xc.SetCommitRev(ctx, args[0])
	case "refs":
		return s.refs(ctx)
	case "refd":
		if len(args) != 1 {
			return fmt.Errorf("usage: refd <hash>")
		}
		return s.referencedBy(args[0])
	}
	return fmt.Errorf("unknown command %q, try help", name)
}

func (s *shell) ls(ctx context.Context, target string) error {
	entry, err := s.xc.EntryAt(ctx, target)
	if err != nil {
		return err
	}
	if entry.Type() != object.TypeTree {
		line, err := entry.Line(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, line)
		return nil
	}
	tree, err := entry.Tree()
	if err != nil {
		return err
	}
	entries, err := tree.Entries(ctx)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		n := e.Name()
		if e.Type() == object.TypeTree {
			n += "/"
		}
		names = append(names, n)
	}
	printColumns(s.out, names)
	return nil
}

func (s *shell) cat(ctx context.Context, target string) error {
	entry, err := s.xc.EntryAt(ctx, target)
	if err != nil {
		return err
	}
	blob, err := entry.Blob()
	if err != nil {
		return err
	}
	lines, err := blob.Lines(ctx)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(s.out, line)
	}
	return nil
}

func (s *shell) show(ctx context.Context, target string) error {
	r, err := s.xc.Repository()
	if err != nil {
		return err
	}
	obj, err := r.GetObject(ctx, target, "")
	if err != nil {
		return err
	}
	cmd := &cobra.Command{}
	cmd.SetContext(ctx)
	cmd.SetOut(s.out)
	return showObject(cmd, obj)
}

func (s *shell) refs(ctx context.Context) error {
	r, err := s.xc.Repository()
	if err != nil {
		return err
	}
	refs, err := r.Refs(ctx)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		fmt.Fprintf(s.out, "%-13s %s\n", ref.Kind(), ref.Name())
	}
	return nil
}

// referencedBy reports where a hash has been seen from during this
// session. The index only knows objects the session has expanded.
func (s *shell) referencedBy(hash string) error {
	h, err := object.ParseHash(hash)
	if err != nil {
		return err
	}
	refs := s.xc.References(h)
	if len(refs) == 0 {
		fmt.Fprintln(s.out, "no recorded references; expand more of the graph first")
		return nil
	}
	for _, ref := range refs {
		fmt.Fprintf(s.out, "%-6s %s (repo %s)\n", ref.Kind, ref.Locator, ref.RepositoryID)
	}
	return nil
}
