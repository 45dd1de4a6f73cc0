package repo

import (
	"context"
	"fmt"
)

// Worktree is a checked-out instance of a repository: a checkout path, the
// worktree-specific (or shared) git directory, the current branch and the
// current HEAD commit.
type Worktree struct {
	repo     *Repository
	path     string
	repoPath string
	branch   *Ref    // nil when detached
	commit   *Commit // never nil after construction from real data

	Locked   string
	Prunable string
}

// Repository returns the owning repository.
func (w *Worktree) Repository() *Repository { return w.repo }

// Path returns the checkout root.
func (w *Worktree) Path() string { return w.path }

// RepositoryPath returns the worktree's git directory: worktree-specific
// for linked worktrees, the common directory for the main one.
func (w *Worktree) RepositoryPath() string { return w.repoPath }

// Branch returns the current branch ref, nil when detached.
func (w *Worktree) Branch() *Ref { return w.branch }

// Detached reports whether the worktree has no branch.
func (w *Worktree) Detached() bool { return w.branch == nil }

// Commit returns the current HEAD commit. A worktree must be anchored to a
// commit; reading one that is not set is a precondition failure.
func (w *Worktree) Commit() (*Commit, error) {
	if w.commit == nil {
		return nil, fmt.Errorf("worktree %s: %w", w.path, ErrNoCommit)
	}
	return w.commit, nil
}

// SetBranchRef points the worktree at an existing ref.
func (w *Worktree) SetBranchRef(ref *Ref) {
	w.branch = ref
}

// SetBranchName resolves name against the owning repository and points the
// worktree at it. An empty name detaches.
func (w *Worktree) SetBranchName(ctx context.Context, name string) error {
	if name == "" {
		w.branch = nil
		return nil
	}
	ref, err := newRef(name, w.repo)
	if err != nil {
		return fmt.Errorf("worktree %s: branch: %w", w.path, err)
	}
	w.branch = ref
	return nil
}

// Detach clears the branch.
func (w *Worktree) Detach() { w.branch = nil }

// SetCommit anchors the worktree at a commit.
func (w *Worktree) SetCommit(c *Commit) error {
	if c == nil {
		return fmt.Errorf("worktree %s: %w: nil commit", w.path, ErrInvalidArgument)
	}
	w.commit = c
	return nil
}

// SetCommitRev resolves a revision string via the repository and anchors
// the worktree at the result.
func (w *Worktree) SetCommitRev(ctx context.Context, rev string) error {
	obj, err := w.repo.GetObject(ctx, rev, "")
	if err != nil {
		return fmt.Errorf("worktree %s: commit: %w", w.path, err)
	}
	commit, ok := obj.(*Commit)
	if !ok {
		return fmt.Errorf("worktree %s: %q is a %s, not a commit: %w", w.path, rev, obj.Type(), ErrInvalidArgument)
	}
	w.commit = commit
	return nil
}

func (w *Worktree) String() string {
	return fmt.Sprintf("worktree %s", w.path)
}
