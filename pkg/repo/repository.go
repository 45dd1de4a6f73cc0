package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xgit-dev/xgit/pkg/object"
)

// DefaultRefCandidates is the preference order used to pick a ref when the
// caller names none.
var DefaultRefCandidates = []string{
	"refs/heads/main",
	"refs/heads/master",
	"HEAD",
	"refs/remotes/origin/HEAD",
}

// Repository owns the object and entry caches for one common git
// directory. All worktrees of a repository share one Repository and thus
// one cache, which is what keeps identity comparisons exact.
type Repository struct {
	path string // absolute path to the common .git directory
	run  Runner
	ctx  *Context // owning context, nil for a standalone repository

	objects map[object.Hash]Object
	entries map[entryKey]*Entry

	worktreesLoaded bool
	worktrees       map[string]*Worktree
	worktreeOrder   []string
	preferred       *Worktree

	idLoaded bool
	id       string
}

// NewRepository builds a repository handle over the common git directory
// at path. No I/O happens until something is resolved.
func NewRepository(path string, run Runner) *Repository {
	return &Repository{
		path:    filepath.Clean(path),
		run:     run,
		objects: make(map[object.Hash]Object),
		entries: make(map[entryKey]*Entry),
	}
}

// Path returns the common .git directory path.
func (r *Repository) Path() string { return r.path }

// ObjectCount returns the number of cached objects, for diagnostics.
func (r *Repository) ObjectCount() int { return len(r.objects) }

// ID derives the content-based repository identity: an order-independent
// fold over all root-commit hashes. Clones of the same history compute
// equal ids. Computed once and cached.
func (r *Repository) ID(ctx context.Context) (string, error) {
	if r.idLoaded {
		return r.id, nil
	}
	lines, err := r.run.Lines(ctx, "rev-list", "--max-parents=0", "--all")
	if err != nil {
		return "", fmt.Errorf("repository %s: id: %w", r.path, err)
	}
	roots := make([]object.Hash, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			roots = append(roots, object.Hash(line))
		}
	}
	id, err := object.FoldID(roots)
	if err != nil {
		return "", fmt.Errorf("repository %s: id: %w", r.path, err)
	}
	r.id = id
	r.idLoaded = true
	return id, nil
}

// GetObject resolves a revision string to an object. A 6-or-more hex
// digit string is disambiguated via a direct revision lookup first, then
// retried as refs/heads/<name>; a symbolic name without a refs/ prefix is
// tried as refs/heads/<name>. hint is forwarded to Resolve; the cache
// stays authoritative.
func (r *Repository) GetObject(ctx context.Context, rev string, hint object.Type) (Object, error) {
	rev = strings.TrimSpace(rev)
	if rev == "" {
		return nil, fmt.Errorf("%w: empty revision", ErrInvalidArgument)
	}

	var out string
	var err error
	if object.IsAbbrevHash(rev) {
		out, err = r.run.Run(ctx, "rev-parse", "--verify", "--quiet", rev)
		if err != nil {
			if !isCommandFailure(err) {
				return nil, fmt.Errorf("revision %q: %w", rev, err)
			}
			// A short hex string can also be a branch name.
			out, err = r.run.Run(ctx, "rev-parse", "--verify", "--quiet", "refs/heads/"+rev)
		}
	} else {
		name := rev
		if !strings.HasPrefix(name, "refs/") {
			name = "refs/heads/" + name
		}
		out, err = r.run.Run(ctx, "rev-parse", "--verify", "--quiet", name)
	}
	if err != nil {
		if isCommandFailure(err) {
			return nil, fmt.Errorf("revision %q: %w (%v)", rev, ErrNotFound, err)
		}
		return nil, fmt.Errorf("revision %q: %w", rev, err)
	}

	hash, err := object.ParseHash(out)
	if err != nil {
		return nil, fmt.Errorf("revision %q: %w: %v", rev, ErrInvalidArgument, err)
	}
	return r.Resolve(ctx, hash, hint, -1)
}

// GetObjectRef resolves a ref to its target object.
func (r *Repository) GetObjectRef(ctx context.Context, ref *Ref) (Object, error) {
	if ref == nil {
		return nil, fmt.Errorf("%w: nil ref", ErrInvalidArgument)
	}
	return ref.Target(ctx)
}

// GetRef resolves the first usable ref out of names, or out of
// DefaultRefCandidates when names is empty. Unresolvable candidates are
// skipped, not escalated; the call fails only when every candidate does.
func (r *Repository) GetRef(ctx context.Context, names ...string) (*Ref, error) {
	candidates := names
	if len(candidates) == 0 {
		candidates = DefaultRefCandidates
	}
	for _, name := range candidates {
		ref, err := newRef(name, r)
		if err != nil {
			continue
		}
		if _, err := ref.Target(ctx); err != nil {
			continue
		}
		return ref, nil
	}
	return nil, fmt.Errorf("no usable ref among %v: %w", candidates, ErrNotFound)
}

// Refs enumerates every ref in the repository with its kind and target
// hash, via for-each-ref.
func (r *Repository) Refs(ctx context.Context) ([]*Ref, error) {
	lines, err := r.run.Lines(ctx, "for-each-ref", "--format=%(objectname) %(refname)")
	if err != nil {
		return nil, fmt.Errorf("repository %s: refs: %w", r.path, err)
	}
	refs := make([]*Ref, 0, len(lines))
	for _, line := range lines {
		hashPart, name, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		ref, err := newRef(name, r)
		if err != nil {
			continue
		}
		if hash, herr := object.ParseHash(hashPart); herr == nil {
			if obj, rerr := r.Resolve(ctx, hash, "", -1); rerr == nil {
				ref.target = obj
				r.addReference(ctx, hash, ref.name, RefFromRef)
			}
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// Worktrees returns the worktree map keyed by checkout path, parsed once
// from the porcelain listing. Bare entries are excluded.
func (r *Repository) Worktrees(ctx context.Context) (map[string]*Worktree, error) {
	if err := r.loadWorktrees(ctx); err != nil {
		return nil, err
	}
	return r.worktrees, nil
}

func (r *Repository) loadWorktrees(ctx context.Context) error {
	if r.worktreesLoaded {
		return nil
	}
	lines, err := r.run.Lines(ctx, "worktree", "list", "--porcelain")
	if err != nil {
		return fmt.Errorf("repository %s: worktrees: %w", r.path, err)
	}

	worktrees := make(map[string]*Worktree)
	var order []string
	for _, rec := range object.ParseWorktreeList(lines) {
		if rec.Bare {
			continue
		}
		wtPath := filepath.Clean(rec.Path)

		commitObj, err := r.Resolve(ctx, rec.Head, object.TypeCommit, -1)
		if err != nil {
			return fmt.Errorf("repository %s: worktree %s: %w", r.path, wtPath, err)
		}
		commit, ok := commitObj.(*Commit)
		if !ok {
			return fmt.Errorf("repository %s: worktree %s: HEAD %s: %w: cached as %s",
				r.path, wtPath, rec.Head, ErrInvalidArgument, commitObj.Type())
		}

		var branch *Ref
		if rec.Branch != "" {
			branch, err = newRef(rec.Branch, r)
			if err != nil {
				return fmt.Errorf("repository %s: worktree %s: %w", r.path, wtPath, err)
			}
		}

		repoPath, err := r.run.RunDir(ctx, wtPath, "rev-parse", "--absolute-git-dir")
		if err != nil {
			return fmt.Errorf("repository %s: worktree %s: git dir: %w", r.path, wtPath, err)
		}

		wt := &Worktree{
			repo:     r,
			path:     wtPath,
			repoPath: filepath.Clean(repoPath),
			branch:   branch,
			commit:   commit,
			Locked:   rec.Locked,
			Prunable: rec.Prunable,
		}
		worktrees[wtPath] = wt
		order = append(order, wtPath)
	}

	r.worktrees = worktrees
	r.worktreeOrder = order
	r.worktreesLoaded = true
	return nil
}

// Worktree returns the preferred worktree: the checkout that is the parent
// of the .git directory, or the first listed for bare repositories. Fails
// with ErrNoWorktree when the repository has none.
func (r *Repository) Worktree(ctx context.Context) (*Worktree, error) {
	if r.preferred != nil {
		return r.preferred, nil
	}
	if err := r.loadWorktrees(ctx); err != nil {
		return nil, err
	}
	if filepath.Base(r.path) == ".git" {
		if wt, ok := r.worktrees[filepath.Dir(r.path)]; ok {
			r.preferred = wt
			return wt, nil
		}
	}
	if len(r.worktreeOrder) > 0 {
		r.preferred = r.worktrees[r.worktreeOrder[0]]
		return r.preferred, nil
	}
	return nil, fmt.Errorf("repository %s: %w", r.path, ErrNoWorktree)
}

// WorktreeAt returns the worktree checked out at path, if any.
func (r *Repository) WorktreeAt(ctx context.Context, path string) (*Worktree, error) {
	if err := r.loadWorktrees(ctx); err != nil {
		return nil, err
	}
	wt, ok := r.worktrees[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("no worktree at %s: %w", path, ErrNotFound)
	}
	return wt, nil
}

// addReference records that target was observed referenced from locator.
// The index lives on the owning context; a standalone repository records
// nothing. Failures to compute the repository id degrade to not
// recording; the index is an observation log, not a correctness
// dependency.
func (r *Repository) addReference(ctx context.Context, target object.Hash, locator string, kind ReferenceKind) {
	if r.ctx == nil {
		return
	}
	id, err := r.ID(ctx)
	if err != nil {
		return
	}
	r.ctx.AddReference(target, id, locator, kind)
}
