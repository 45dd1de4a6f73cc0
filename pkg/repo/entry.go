package repo

import (
	"context"
	"fmt"
	"path"
	"strconv"

	"github.com/xgit-dev/xgit/pkg/object"
)

// Entry is a named, moded reference to an object as it appears inside a
// tree (or, for the synthetic root, under a commit). It is a read-only
// value: callers never construct one directly; entries come from tree
// expansion or context root resolution, which assign the cache key.
//
// The same content at two paths yields two distinct entries; the
// underlying Object stays the single cached instance.
type Entry struct {
	repo        *Repository
	obj         Object
	name        string
	mode        object.Mode
	path        string // posix path from the tree root, "" when unanchored
	parentObj   Object // owning tree/commit/tag, nil for free-floating
	parentEntry *Entry // owning entry when reached by navigation
}

// entryKey is the identity under which entries are cached. The name is
// part of the identity: siblings with identical content are still
// distinct entries.
type entryKey struct {
	repoPath   string
	name       string
	path       string
	hash       object.Hash
	mode       object.Mode
	parentHash object.Hash
}

// newEntry canonicalizes an entry in the repository's entry cache and
// records the reference observation for the target object.
func (r *Repository) newEntry(ctx context.Context, obj Object, name string, mode object.Mode, entryPath string, parentObj Object, parentEntry *Entry) (*Entry, error) {
	var parentHash object.Hash
	if parentObj != nil {
		parentHash = parentObj.Hash()
	}
	key := entryKey{
		repoPath:   r.path,
		name:       name,
		path:       entryPath,
		hash:       obj.Hash(),
		mode:       mode,
		parentHash: parentHash,
	}
	if entry, ok := r.entries[key]; ok {
		return entry, nil
	}
	entry := &Entry{
		repo:        r,
		obj:         obj,
		name:        name,
		mode:        mode,
		path:        entryPath,
		parentObj:   parentObj,
		parentEntry: parentEntry,
	}
	r.entries[key] = entry

	if parentObj != nil {
		kind, err := refKindFor(parentObj.Type())
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", name, err)
		}
		r.addReference(ctx, obj.Hash(), string(parentHash), kind)
	}
	return entry, nil
}

// Object returns the wrapped object.
func (e *Entry) Object() Object { return e.obj }

// Name returns the entry name within its tree.
func (e *Entry) Name() string { return e.name }

// Mode returns the entry mode.
func (e *Entry) Mode() object.Mode { return e.mode }

// Path returns the entry position from the tree root: "." for the root
// entry, "" when the entry was reached without path context.
func (e *Entry) Path() string { return e.path }

// Hash passes through to the wrapped object.
func (e *Entry) Hash() object.Hash { return e.obj.Hash() }

// Type passes through to the wrapped object.
func (e *Entry) Type() object.Type { return e.obj.Type() }

// Size passes through to the wrapped object.
func (e *Entry) Size(ctx context.Context) (int64, error) { return e.obj.Size(ctx) }

// ParentObject returns the tree, commit or tag object this entry was found
// in, nil when unknown.
func (e *Entry) ParentObject() Object { return e.parentObj }

// Parent returns the owning entry when this entry was reached by
// navigating through one; entries produced by direct tree expansion have
// object-level parents only.
func (e *Entry) Parent() *Entry { return e.parentEntry }

// Tree returns the wrapped object as a tree.
func (e *Entry) Tree() (*Tree, error) {
	tree, ok := e.obj.(*Tree)
	if !ok {
		return nil, fmt.Errorf("entry %q is a %s, not a tree: %w", e.name, e.Type(), ErrInvalidArgument)
	}
	return tree, nil
}

// Blob returns the wrapped object as a blob.
func (e *Entry) Blob() (*Blob, error) {
	blob, ok := e.obj.(*Blob)
	if !ok {
		return nil, fmt.Errorf("entry %q is a %s, not a blob: %w", e.name, e.Type(), ErrInvalidArgument)
	}
	return blob, nil
}

// Get navigates into a tree entry, returning the named child anchored at
// this entry's path.
func (e *Entry) Get(ctx context.Context, name string) (*Entry, error) {
	tree, err := e.Tree()
	if err != nil {
		return nil, err
	}
	child, err := tree.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	childPath := ""
	if e.path != "" {
		childPath = path.Join(e.path, name)
	}
	return e.repo.newEntry(ctx, child.Object(), name, child.Mode(), childPath, tree, e)
}

// Contains reports whether a tree entry has a child named name.
func (e *Entry) Contains(ctx context.Context, name string) (bool, error) {
	tree, err := e.Tree()
	if err != nil {
		return false, err
	}
	return tree.Contains(ctx, name)
}

// sizeColumn renders the size field: "-" for trees and submodules, whose
// listing size is unknown without an extra query.
func (e *Entry) sizeColumn(ctx context.Context) (string, error) {
	if e.Type() != object.TypeBlob {
		return "-", nil
	}
	n, err := e.Size(ctx)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n, 10), nil
}

// Line renders the one-line form: "D <hash> <size> <name>".
func (e *Entry) Line(ctx context.Context) (string, error) {
	size, err := e.sizeColumn(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %8s %s", e.mode.Prefix(), e.Hash(), size, e.name), nil
}

// LongLine renders the long form: "D <type> <hash> <size>\t<name>".
func (e *Entry) LongLine(ctx context.Context) (string, error) {
	size, err := e.sizeColumn(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %s %8s\t%s", e.mode.Prefix(), e.Type(), e.Hash(), size, e.name), nil
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s %s %s\t%s", e.mode.Prefix(), e.Type(), e.Hash(), e.name)
}
