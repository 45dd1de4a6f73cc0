package repo

import (
	"context"
	"fmt"

	"github.com/xgit-dev/xgit/pkg/object"
)

// Tree is a directory object: an ordered, immutable mapping from entry
// name to Entry. Construction is O(1) and does no I/O; the first mapping
// operation expands the tree with a single listing call. Expansion is
// idempotent: once loaded, every read is a pure lookup.
type Tree struct {
	meta
	loaded bool
	names  []string
	byName map[string]*Entry
	byHash map[object.Hash][]*Entry
}

func newTree(r *Repository, hash object.Hash) *Tree {
	return &Tree{meta: meta{repo: r, hash: hash, size: -1}}
}

func (t *Tree) Type() object.Type { return object.TypeTree }

// load expands the tree. On failure the tree stays unexpanded so the
// caller may retry after the external condition clears.
func (t *Tree) load(ctx context.Context) error {
	if t.loaded {
		return nil
	}
	lines, err := t.repo.run.Lines(ctx, "ls-tree", "--long", string(t.hash))
	if err != nil {
		if isCommandFailure(err) {
			return fmt.Errorf("tree %s: %w (%v)", t.hash, ErrNotFound, err)
		}
		return fmt.Errorf("tree %s: list: %w", t.hash, err)
	}

	names := make([]string, 0, len(lines))
	byName := make(map[string]*Entry, len(lines))
	byHash := make(map[object.Hash][]*Entry)
	for _, line := range lines {
		if line == "" {
			continue
		}
		tl, err := object.ParseTreeLine(line)
		if err != nil {
			return fmt.Errorf("tree %s: %w: %v", t.hash, ErrMalformedObject, err)
		}
		child, err := t.repo.Resolve(ctx, tl.Hash, tl.Type, tl.Size)
		if err != nil {
			return fmt.Errorf("tree %s: entry %q: %w", t.hash, tl.Name, err)
		}
		entry, err := t.repo.newEntry(ctx, child, tl.Name, tl.Mode, "", t, nil)
		if err != nil {
			return fmt.Errorf("tree %s: entry %q: %w", t.hash, tl.Name, err)
		}
		names = append(names, tl.Name)
		byName[tl.Name] = entry
		byHash[tl.Hash] = append(byHash[tl.Hash], entry)
	}

	t.names = names
	t.byName = byName
	t.byHash = byHash
	t.loaded = true
	return nil
}

// Len returns the number of entries.
func (t *Tree) Len(ctx context.Context) (int, error) {
	if err := t.load(ctx); err != nil {
		return 0, err
	}
	return len(t.names), nil
}

// Contains reports whether the tree has an entry named name.
func (t *Tree) Contains(ctx context.Context, name string) (bool, error) {
	if err := t.load(ctx); err != nil {
		return false, err
	}
	_, ok := t.byName[name]
	return ok, nil
}

// Get returns the entry named name.
func (t *Tree) Get(ctx context.Context, name string) (*Entry, error) {
	if err := t.load(ctx); err != nil {
		return nil, err
	}
	entry, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("tree %s: entry %q: %w", t.hash, name, ErrNotFound)
	}
	return entry, nil
}

// Entries returns all entries in listing order.
func (t *Tree) Entries(ctx context.Context) ([]*Entry, error) {
	if err := t.load(ctx); err != nil {
		return nil, err
	}
	entries := make([]*Entry, len(t.names))
	for i, name := range t.names {
		entries[i] = t.byName[name]
	}
	return entries, nil
}

// EntriesByHash returns every entry in this tree whose content is hash.
// Distinct names or modes can share one object.
func (t *Tree) EntriesByHash(ctx context.Context, hash object.Hash) ([]*Entry, error) {
	if err := t.load(ctx); err != nil {
		return nil, err
	}
	return t.byHash[hash], nil
}

// Set always fails: trees are content-addressed, changing an entry would
// change the hash.
func (t *Tree) Set(string, *Entry) error {
	return fmt.Errorf("tree %s: %w", t.hash, ErrImmutableTree)
}

// Delete always fails, as Set does.
func (t *Tree) Delete(string) error {
	return fmt.Errorf("tree %s: %w", t.hash, ErrImmutableTree)
}

func (t *Tree) String() string {
	return fmt.Sprintf("tree %s", t.hash)
}
