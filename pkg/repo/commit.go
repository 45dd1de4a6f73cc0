package repo

import (
	"context"
	"fmt"

	"github.com/xgit-dev/xgit/pkg/object"
)

// Commit is a snapshot object. All fields are populated together by one
// parse pass over the commit body; a failed parse leaves the commit
// unloaded with no field readable. Resolving a commit never forces the
// bodies of its parents; they stay lazy until accessed themselves.
type Commit struct {
	meta
	loaded  bool
	tree    *Tree
	parents []*Commit
	info    *object.CommitInfo
}

func newCommit(r *Repository, hash object.Hash) *Commit {
	return &Commit{meta: meta{repo: r, hash: hash, size: -1}}
}

func (c *Commit) Type() object.Type { return object.TypeCommit }

func (c *Commit) load(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	lines, err := c.repo.run.Lines(ctx, "cat-file", "commit", string(c.hash))
	if err != nil {
		if isCommandFailure(err) {
			return fmt.Errorf("commit %s: %w (%v)", c.hash, ErrNotFound, err)
		}
		return fmt.Errorf("commit %s: read: %w", c.hash, err)
	}
	info, err := object.ParseCommit(lines)
	if err != nil {
		return fmt.Errorf("commit %s: %w: %v", c.hash, ErrMalformedObject, err)
	}

	treeObj, err := c.repo.Resolve(ctx, info.Tree, object.TypeTree, -1)
	if err != nil {
		return fmt.Errorf("commit %s: tree: %w", c.hash, err)
	}
	tree, ok := treeObj.(*Tree)
	if !ok {
		return fmt.Errorf("commit %s: tree %s: %w: cached as %s", c.hash, info.Tree, ErrInvalidArgument, treeObj.Type())
	}

	parents := make([]*Commit, 0, len(info.Parents))
	for _, ph := range info.Parents {
		pObj, err := c.repo.Resolve(ctx, ph, object.TypeCommit, -1)
		if err != nil {
			return fmt.Errorf("commit %s: parent %s: %w", c.hash, ph, err)
		}
		parent, ok := pObj.(*Commit)
		if !ok {
			return fmt.Errorf("commit %s: parent %s: %w: cached as %s", c.hash, ph, ErrInvalidArgument, pObj.Type())
		}
		parents = append(parents, parent)
	}

	c.repo.addReference(ctx, info.Tree, string(c.hash), RefFromCommit)
	for _, ph := range info.Parents {
		c.repo.addReference(ctx, ph, string(c.hash), RefFromCommit)
	}

	c.tree = tree
	c.parents = parents
	c.info = info
	c.loaded = true
	return nil
}

// Tree returns the root tree of the commit.
func (c *Commit) Tree(ctx context.Context) (*Tree, error) {
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c.tree, nil
}

// Parents returns the parent commits in file order; empty for a root
// commit.
func (c *Commit) Parents(ctx context.Context) ([]*Commit, error) {
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c.parents, nil
}

// Author returns the author signature.
func (c *Commit) Author(ctx context.Context) (object.Signature, error) {
	if err := c.load(ctx); err != nil {
		return object.Signature{}, err
	}
	return c.info.Author, nil
}

// Committer returns the committer signature.
func (c *Commit) Committer(ctx context.Context) (object.Signature, error) {
	if err := c.load(ctx); err != nil {
		return object.Signature{}, err
	}
	return c.info.Committer, nil
}

// Message returns the commit message.
func (c *Commit) Message(ctx context.Context) (string, error) {
	if err := c.load(ctx); err != nil {
		return "", err
	}
	return c.info.Message, nil
}

// GPGSig returns the raw armored signature block, empty for unsigned
// commits.
func (c *Commit) GPGSig(ctx context.Context) (string, error) {
	if err := c.load(ctx); err != nil {
		return "", err
	}
	return c.info.GPGSig, nil
}

func (c *Commit) String() string {
	return fmt.Sprintf("commit %s", c.hash)
}
