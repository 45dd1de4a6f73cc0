package repo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xgit-dev/xgit/pkg/object"
)

// newTestContext wires a Context to one scripted runner shared across
// every directory the context opens.
func newTestContext(t *testing.T) (*Context, *fakeRunner) {
	f := newFakeRunner(t)
	f.script("commit", "cat-file", "-t", fxCommit)
	f.script(fxCommitBody(), "cat-file", "commit", fxCommit)
	f.script(fxTreeListing(), "ls-tree", "--long", fxTree)
	f.script(fxSubtreeListing(), "ls-tree", "--long", fxSubtree)
	f.script("hello\nworld\n", "cat-file", "blob", fxBlob)
	f.script(fxRoot, "rev-list", "--max-parents=0", "--all")

	f.script("/home/jane/proj/.git", "rev-parse", "--git-common-dir")
	f.script("/home/jane/proj", "rev-parse", "--show-toplevel")
	f.script("/home/jane/proj/.git", "rev-parse", "--absolute-git-dir")
	f.script(strings.Join([]string{
		"worktree /home/jane/proj",
		"HEAD " + fxCommit,
		"branch refs/heads/main",
	}, "\n"), "worktree", "list", "--porcelain")

	c := NewContext(WithRunnerFactory(func(dir string) (Runner, error) {
		return f, nil
	}))
	return c, f
}

func openTestWorktree(t *testing.T, c *Context) *Worktree {
	t.Helper()
	wt, err := c.OpenWorktree(context.Background(), "/home/jane/proj", true)
	if err != nil {
		t.Fatalf("OpenWorktree: %v", err)
	}
	return wt
}

func TestOpenWorktree(t *testing.T) {
	c, _ := newTestContext(t)
	wt := openTestWorktree(t, c)

	if wt.Path() != "/home/jane/proj" {
		t.Errorf("path: got %q", wt.Path())
	}
	got, err := c.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if got != wt {
		t.Error("opened worktree is not current")
	}
	if c.Branch() == nil || c.Branch().Name() != "refs/heads/main" {
		t.Errorf("branch: got %v", c.Branch())
	}
	commit, err := c.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if string(commit.Hash()) != fxCommit {
		t.Errorf("commit: got %s", commit.Hash())
	}
	if c.Path() != "." {
		t.Errorf("path cursor: got %q, want .", c.Path())
	}
}

func TestOpenWorktreeMemoized(t *testing.T) {
	c, _ := newTestContext(t)
	first := openTestWorktree(t, c)
	second := openTestWorktree(t, c)
	if first != second {
		t.Error("same checkout opened as two worktrees")
	}
	r1, err := c.OpenRepository(context.Background(), "/home/jane/proj")
	if err != nil {
		t.Fatalf("OpenRepository: %v", err)
	}
	r2, err := c.OpenRepository(context.Background(), "/home/jane/proj")
	if err != nil {
		t.Fatalf("OpenRepository again: %v", err)
	}
	if r1 != r2 {
		t.Error("same common dir opened as two repositories")
	}
	if first.Repository() != r1 {
		t.Error("worktree repository is not the memoized instance")
	}
}

func TestOpenRepositoryNotARepository(t *testing.T) {
	f := newFakeRunner(t)
	f.scriptFail("rev-parse", "--git-common-dir")
	c := NewContext(WithRunnerFactory(func(dir string) (Runner, error) {
		return f, nil
	}))
	_, err := c.OpenRepository(context.Background(), "/tmp/nothing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestRootAndNavigation(t *testing.T) {
	c, _ := newTestContext(t)
	openTestWorktree(t, c)
	ctx := context.Background()

	root, err := c.Root(ctx)
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if root.Path() != "." || root.Type() != object.TypeTree {
		t.Errorf("root: path %q type %q", root.Path(), root.Type())
	}
	if root.ParentObject() == nil || root.ParentObject().Type() != object.TypeCommit {
		t.Error("root parent is not the commit")
	}

	entry, err := c.EntryAt(ctx, "src/util.go")
	if err != nil {
		t.Fatalf("EntryAt: %v", err)
	}
	if entry.Path() != "src/util.go" {
		t.Errorf("entry path: got %q", entry.Path())
	}
	if entry.Name() != "util.go" {
		t.Errorf("entry name: got %q", entry.Name())
	}
	if entry.Parent() == nil || entry.Parent().Name() != "src" {
		t.Error("entry parent chain broken")
	}
}

func TestChangeDir(t *testing.T) {
	c, _ := newTestContext(t)
	openTestWorktree(t, c)
	ctx := context.Background()

	if err := c.ChangeDir(ctx, "src"); err != nil {
		t.Fatalf("ChangeDir: %v", err)
	}
	if c.Path() != "src" {
		t.Errorf("cursor: got %q, want src", c.Path())
	}

	// Relative resolution happens against the cursor.
	entry, err := c.EntryAt(ctx, "util.go")
	if err != nil {
		t.Fatalf("EntryAt: %v", err)
	}
	if entry.Path() != "src/util.go" {
		t.Errorf("entry path: got %q", entry.Path())
	}

	if err := c.ChangeDir(ctx, ".."); err != nil {
		t.Fatalf("ChangeDir ..: %v", err)
	}
	if c.Path() != "." {
		t.Errorf("cursor: got %q, want .", c.Path())
	}

	// Climbing past the root clamps to the root.
	if err := c.ChangeDir(ctx, "../../.."); err != nil {
		t.Fatalf("ChangeDir escape: %v", err)
	}
	if c.Path() != "." {
		t.Errorf("cursor after escape: got %q, want .", c.Path())
	}
}

func TestChangeDirIntoBlob(t *testing.T) {
	c, _ := newTestContext(t)
	openTestWorktree(t, c)
	err := c.ChangeDir(context.Background(), "README.md")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got %v, want ErrInvalidArgument", err)
	}
}

func TestEntryAtMissing(t *testing.T) {
	c, _ := newTestContext(t)
	openTestWorktree(t, c)
	_, err := c.EntryAt(context.Background(), "src/ghost.go")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestSetCommitRevThroughTag(t *testing.T) {
	c, f := newTestContext(t)
	openTestWorktree(t, c)
	ctx := context.Background()

	f.script(fxTag, "rev-parse", "--verify", "--quiet", "refs/tags/v1")
	f.script("tag", "cat-file", "-t", fxTag)
	f.script(strings.Join([]string{
		"object " + fxCommit,
		"type commit",
		"tag v1",
		"tagger Jane Doe <jane@example.com> 1712345678 +0200",
		"",
		"release",
	}, "\n"), "cat-file", "tag", fxTag)

	if err := c.SetCommitRev(ctx, "refs/tags/v1"); err != nil {
		t.Fatalf("SetCommitRev: %v", err)
	}
	commit, err := c.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if string(commit.Hash()) != fxCommit {
		t.Errorf("anchored commit: got %s", commit.Hash())
	}
}

func TestSetCommitRevNotACommit(t *testing.T) {
	c, f := newTestContext(t)
	openTestWorktree(t, c)

	f.script(fxBlob, "rev-parse", "--verify", "--quiet", "refs/heads/blobby")
	f.script("blob", "cat-file", "-t", fxBlob)
	err := c.SetCommitRev(context.Background(), "blobby")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got %v, want ErrInvalidArgument", err)
	}
}

func TestReferenceIndex(t *testing.T) {
	c, _ := newTestContext(t)
	openTestWorktree(t, c)
	ctx := context.Background()

	commit, err := c.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, err := commit.Tree(ctx); err != nil {
		t.Fatalf("Tree: %v", err)
	}

	repoID, err := commit.repo.ID(ctx)
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	refs := c.References(object.Hash(fxTree))
	found := false
	for _, ref := range refs {
		if ref == (Reference{RepositoryID: repoID, Locator: fxCommit, Kind: RefFromCommit}) {
			found = true
		}
	}
	if !found {
		t.Errorf("tree reference from commit not recorded: %+v", refs)
	}

	// Expanding the root tree records entry references from the tree.
	if _, err := c.EntryAt(ctx, "README.md"); err != nil {
		t.Fatalf("EntryAt: %v", err)
	}
	blobRefs := c.References(object.Hash(fxBlob))
	if len(blobRefs) == 0 {
		t.Error("blob reference from tree not recorded")
	}

	if got := c.References(object.Hash(strings.Repeat("e", 40))); len(got) != 0 {
		t.Errorf("unknown hash has references: %+v", got)
	}
}

func TestResolvePath(t *testing.T) {
	c, _ := newTestContext(t)
	c.path = "src/deep"
	cases := []struct {
		in   string
		want string
	}{
		{"", "src/deep"},
		{".", "src/deep"},
		{"..", "src"},
		{"../..", "."},
		{"../../..", "."},
		{"/", "."},
		{"/docs", "docs"},
		{"sub", "src/deep/sub"},
		{"./sub/", "src/deep/sub"},
	}
	for _, cse := range cases {
		if got := c.resolvePath(cse.in); got != cse.want {
			t.Errorf("resolvePath(%q): got %q, want %q", cse.in, got, cse.want)
		}
	}
}
