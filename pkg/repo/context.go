package repo

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/xgit-dev/xgit/pkg/gitcmd"
	"github.com/xgit-dev/xgit/pkg/object"
)

// ReferenceKind says what sort of place an object was observed referenced
// from.
type ReferenceKind string

const (
	RefFromRef    ReferenceKind = "ref"
	RefFromTree   ReferenceKind = "tree"
	RefFromCommit ReferenceKind = "commit"
	RefFromTag    ReferenceKind = "tag"
)

func refKindFor(t object.Type) (ReferenceKind, error) {
	switch t {
	case object.TypeTree:
		return RefFromTree, nil
	case object.TypeCommit:
		return RefFromCommit, nil
	case object.TypeTag:
		return RefFromTag, nil
	}
	return "", fmt.Errorf("%w: a %s cannot reference other objects", ErrInvalidArgument, t)
}

// Reference is one observation in the reverse-reference index: the object
// was seen referenced from locator (a ref name or a parent object hash)
// inside the repository with the given id.
type Reference struct {
	RepositoryID string
	Locator      string
	Kind         ReferenceKind
}

// Context is the user-facing navigation state: the active worktree, branch,
// commit and path cursor, plus the memoization maps for repositories and
// worktrees and the reverse-reference index. One Context serves one
// exploration session.
type Context struct {
	newRunner func(dir string) (Runner, error)

	repositories map[string]*Repository // by common git dir
	worktrees    map[string]*Worktree   // by checkout path

	current *Worktree
	branch  *Ref
	commit  *Commit
	path    string // posix cursor within the commit tree, "." at the root

	refs map[object.Hash]map[Reference]struct{}
}

// NewContext builds an empty context. With no options it spawns real git
// runners via gitcmd.New.
func NewContext(opts ...ContextOption) *Context {
	c := &Context{
		newRunner: func(dir string) (Runner, error) {
			return gitcmd.New(dir)
		},
		repositories: make(map[string]*Repository),
		worktrees:    make(map[string]*Worktree),
		path:         ".",
		refs:         make(map[object.Hash]map[Reference]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContextOption configures a Context at construction.
type ContextOption func(*Context)

// WithRunnerFactory substitutes the runner constructor; tests use it to
// script git output.
func WithRunnerFactory(f func(dir string) (Runner, error)) ContextOption {
	return func(c *Context) { c.newRunner = f }
}

// OpenRepository opens (or returns the already-open) repository whose
// common git directory governs dir. Paths with no git directory in their
// ancestry fail with ErrNotFound.
func (c *Context) OpenRepository(ctx context.Context, dir string) (*Repository, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("open repository %q: %w", dir, err)
	}
	run, err := c.newRunner(abs)
	if err != nil {
		return nil, fmt.Errorf("open repository %q: %w", dir, err)
	}
	common, err := run.Run(ctx, "rev-parse", "--git-common-dir")
	if err != nil {
		if isCommandFailure(err) {
			return nil, fmt.Errorf("open repository %q: %w: no git directory in ancestry (%v)", dir, ErrNotFound, err)
		}
		return nil, fmt.Errorf("open repository %q: %w", dir, err)
	}
	if !filepath.IsAbs(common) {
		common = filepath.Join(abs, common)
	}
	common = filepath.Clean(common)

	if repo, ok := c.repositories[common]; ok {
		return repo, nil
	}
	repoRun, err := c.newRunner(common)
	if err != nil {
		return nil, fmt.Errorf("open repository %q: %w", dir, err)
	}
	repo := NewRepository(common, repoRun)
	repo.ctx = c
	c.repositories[common] = repo
	return repo, nil
}

// OpenWorktree opens the worktree containing dir, memoized by canonical
// checkout path, and makes it current unless makeCurrent is false. The
// current branch, commit and path cursor are reset from the worktree.
func (c *Context) OpenWorktree(ctx context.Context, dir string, makeCurrent bool) (*Worktree, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("open worktree %q: %w", dir, err)
	}
	run, err := c.newRunner(abs)
	if err != nil {
		return nil, fmt.Errorf("open worktree %q: %w", dir, err)
	}
	top, err := run.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		if isCommandFailure(err) {
			return nil, fmt.Errorf("open worktree %q: %w: no worktree here (%v)", dir, ErrNotFound, err)
		}
		return nil, fmt.Errorf("open worktree %q: %w", dir, err)
	}
	top = filepath.Clean(top)

	if wt, ok := c.worktrees[top]; ok {
		if makeCurrent {
			if err := c.selectWorktree(ctx, wt); err != nil {
				return nil, err
			}
		}
		return wt, nil
	}

	repo, err := c.OpenRepository(ctx, top)
	if err != nil {
		return nil, err
	}

	// Prefer the porcelain listing's view of this checkout; fall back to
	// assembling one by hand when the listing does not know the path (a
	// repository seen mid-prune, for instance).
	wt, err := repo.WorktreeAt(ctx, top)
	if err != nil {
		wt, err = c.assembleWorktree(ctx, repo, run, top)
		if err != nil {
			return nil, fmt.Errorf("open worktree %q: %w", dir, err)
		}
		repo.worktrees[top] = wt
		repo.worktreeOrder = append(repo.worktreeOrder, top)
	}
	c.worktrees[top] = wt

	if makeCurrent {
		if err := c.selectWorktree(ctx, wt); err != nil {
			return nil, err
		}
	}
	return wt, nil
}

func (c *Context) assembleWorktree(ctx context.Context, repo *Repository, run Runner, top string) (*Worktree, error) {
	gitDir, err := run.Run(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return nil, fmt.Errorf("worktree git dir: %w", err)
	}
	heads, err := run.RevParse(ctx, "HEAD")
	if err != nil {
		if isCommandFailure(err) {
			return nil, fmt.Errorf("worktree HEAD: %w", ErrNoCommit)
		}
		return nil, fmt.Errorf("worktree HEAD: %w", err)
	}
	commitObj, err := repo.Resolve(ctx, object.Hash(heads[0]), object.TypeCommit, -1)
	if err != nil {
		return nil, err
	}
	commit, ok := commitObj.(*Commit)
	if !ok {
		return nil, fmt.Errorf("HEAD %s: %w: cached as %s", heads[0], ErrInvalidArgument, commitObj.Type())
	}

	var branch *Ref
	if name, err := run.Run(ctx, "symbolic-ref", "--quiet", "HEAD"); err == nil && name != "" {
		branch, err = newRef(name, repo)
		if err != nil {
			return nil, err
		}
	}

	return &Worktree{
		repo:     repo,
		path:     top,
		repoPath: filepath.Clean(gitDir),
		branch:   branch,
		commit:   commit,
	}, nil
}

// selectWorktree makes wt current and re-anchors branch, commit and path.
func (c *Context) selectWorktree(ctx context.Context, wt *Worktree) error {
	commit, err := wt.Commit()
	if err != nil {
		return err
	}
	c.current = wt
	c.branch = wt.Branch()
	c.commit = commit
	c.path = "."
	return nil
}

// Worktree returns the active worktree.
func (c *Context) Worktree() (*Worktree, error) {
	if c.current == nil {
		return nil, fmt.Errorf("context: %w", ErrNoWorktree)
	}
	return c.current, nil
}

// Repository returns the active worktree's repository.
func (c *Context) Repository() (*Repository, error) {
	wt, err := c.Worktree()
	if err != nil {
		return nil, err
	}
	return wt.Repository(), nil
}

// Branch returns the active branch, nil when detached.
func (c *Context) Branch() *Ref { return c.branch }

// Commit returns the active commit.
func (c *Context) Commit() (*Commit, error) {
	if c.commit == nil {
		return nil, fmt.Errorf("context: %w", ErrNoCommit)
	}
	return c.commit, nil
}

// Path returns the navigation cursor within the active commit's tree.
func (c *Context) Path() string { return c.path }

// SetBranchRef points the context at an existing ref.
func (c *Context) SetBranchRef(ref *Ref) { c.branch = ref }

// SetBranchName resolves name against the active repository; empty
// detaches.
func (c *Context) SetBranchName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		c.branch = nil
		return nil
	}
	repo, err := c.Repository()
	if err != nil {
		return err
	}
	ref, err := newRef(name, repo)
	if err != nil {
		return err
	}
	c.branch = ref
	return nil
}

// SetCommit anchors the context at a commit.
func (c *Context) SetCommit(commit *Commit) error {
	if commit == nil {
		return fmt.Errorf("context: %w: nil commit", ErrInvalidArgument)
	}
	c.commit = commit
	return nil
}

// SetCommitRev resolves a revision string via the active repository.
func (c *Context) SetCommitRev(ctx context.Context, rev string) error {
	repo, err := c.Repository()
	if err != nil {
		return err
	}
	obj, err := repo.GetObject(ctx, rev, "")
	if err != nil {
		return err
	}
	return c.setCommitObject(ctx, obj, rev)
}

// SetCommitRef anchors the context at a ref's target, dereferencing tag
// objects down to a commit.
func (c *Context) SetCommitRef(ctx context.Context, ref *Ref) error {
	obj, err := ref.Target(ctx)
	if err != nil {
		return err
	}
	return c.setCommitObject(ctx, obj, ref.Name())
}

// SetCommitTag anchors the context at the commit a tag ultimately points
// to. Nested tags are dereferenced recursively; a chain that does not end
// at a commit is an error.
func (c *Context) SetCommitTag(ctx context.Context, tag *TagObject) error {
	return c.setCommitObject(ctx, tag, string(tag.Hash()))
}

const maxTagDepth = 16

func (c *Context) setCommitObject(ctx context.Context, obj Object, what string) error {
	for depth := 0; depth < maxTagDepth; depth++ {
		switch o := obj.(type) {
		case *Commit:
			c.commit = o
			return nil
		case *TagObject:
			target, err := o.Object(ctx)
			if err != nil {
				return err
			}
			obj = target
		default:
			return fmt.Errorf("%q resolves to a %s, not a commit: %w", what, obj.Type(), ErrInvalidArgument)
		}
	}
	return fmt.Errorf("%q: tag chain deeper than %d: %w", what, maxTagDepth, ErrInvalidArgument)
}

// Root resolves the root tree of the active commit as a synthetic entry:
// path ".", parent object the commit itself.
func (c *Context) Root(ctx context.Context) (*Entry, error) {
	commit, err := c.Commit()
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree(ctx)
	if err != nil {
		return nil, err
	}
	repo, err := c.Repository()
	if err != nil {
		return nil, err
	}
	return repo.newEntry(ctx, tree, "", object.ModeDir, ".", commit, nil)
}

// EntryAt resolves a path relative to the cursor ("/"-rooted paths are
// taken from the tree root) down to an entry.
func (c *Context) EntryAt(ctx context.Context, p string) (*Entry, error) {
	target := c.resolvePath(p)
	entry, err := c.Root(ctx)
	if err != nil {
		return nil, err
	}
	if target == "." {
		return entry, nil
	}
	for _, part := range strings.Split(target, "/") {
		entry, err = entry.Get(ctx, part)
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", target, err)
		}
	}
	return entry, nil
}

// ChangeDir moves the cursor. The destination must exist and be a tree.
func (c *Context) ChangeDir(ctx context.Context, p string) error {
	target := c.resolvePath(p)
	entry, err := c.EntryAt(ctx, p)
	if err != nil {
		return err
	}
	if entry.Type() != object.TypeTree {
		return fmt.Errorf("path %q is a %s, not a tree: %w", target, entry.Type(), ErrInvalidArgument)
	}
	c.path = target
	return nil
}

// resolvePath normalizes p against the cursor into a clean posix path
// relative to the tree root ("." for the root itself).
func (c *Context) resolvePath(p string) string {
	p = strings.TrimSpace(p)
	var joined string
	switch {
	case p == "":
		joined = c.path
	case strings.HasPrefix(p, "/"):
		joined = strings.TrimPrefix(p, "/")
	default:
		joined = path.Join(c.path, p)
	}
	joined = path.Clean(joined)
	if joined == "" || joined == "/" || strings.HasPrefix(joined, "..") {
		return "."
	}
	return joined
}

// AddReference appends an observation to the reverse-reference index. The
// index is additive for the life of the context: that an object was once
// reachable from somewhere stays true.
func (c *Context) AddReference(target object.Hash, repositoryID, locator string, kind ReferenceKind) {
	set, ok := c.refs[target]
	if !ok {
		set = make(map[Reference]struct{})
		c.refs[target] = set
	}
	set[Reference{RepositoryID: repositoryID, Locator: locator, Kind: kind}] = struct{}{}
}

// References returns every recorded observation for hash.
func (c *Context) References(hash object.Hash) []Reference {
	set := c.refs[hash]
	refs := make([]Reference, 0, len(set))
	for ref := range set {
		refs = append(refs, ref)
	}
	return refs
}
