// Package repo is the stateful core of the explorer: a per-repository
// object cache with lazily populated blob/tree/commit/tag variants, tree
// entries, refs, worktrees and the navigation context. Everything reads
// the object database through the Runner interface; nothing here ever
// writes to it.
package repo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/xgit-dev/xgit/pkg/object"
)

// Object is one of the four object kinds, cached canonically per
// (repository, hash). Two objects are the same object iff they are the
// same instance; Resolve guarantees at most one live instance per hash.
type Object interface {
	Hash() object.Hash
	Type() object.Type
	// Size is the object size in bytes, resolved through the object
	// database on first access and cached.
	Size(ctx context.Context) (int64, error)
}

// Equal reports object equality: same hash, same concrete kind.
func Equal(a, b Object) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Hash() == b.Hash() && a.Type() == b.Type()
}

// meta carries the identity shared by every object variant.
type meta struct {
	repo *Repository
	hash object.Hash
	size int64 // -1 until resolved
}

func (m *meta) Hash() object.Hash { return m.hash }

func (m *meta) Size(ctx context.Context) (int64, error) {
	if m.size >= 0 {
		return m.size, nil
	}
	out, err := m.repo.run.Run(ctx, "cat-file", "-s", string(m.hash))
	if err != nil {
		if isCommandFailure(err) {
			return 0, fmt.Errorf("object %s: %w (%v)", m.hash, ErrNotFound, err)
		}
		return 0, fmt.Errorf("object %s size: %w", m.hash, err)
	}
	n, err := strconv.ParseInt(out, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("object %s size: %w: %v", m.hash, ErrMalformedObject, err)
	}
	m.size = n
	return n, nil
}

// Resolve returns the canonical instance for hash, constructing and
// caching it on first sight. A cached instance wins over any hint: the
// cache is authoritative. With no type hint, one cat-file -t call asks the
// database for the kind.
func (r *Repository) Resolve(ctx context.Context, hash object.Hash, hint object.Type, size int64) (Object, error) {
	if !object.IsFullHash(string(hash)) {
		return nil, fmt.Errorf("%w: invalid object hash %q", ErrInvalidArgument, hash)
	}
	if obj, ok := r.objects[hash]; ok {
		return obj, nil
	}

	typ := hint
	if typ == "" {
		out, err := r.run.Run(ctx, "cat-file", "-t", string(hash))
		if err != nil {
			if isCommandFailure(err) {
				return nil, fmt.Errorf("object %s: %w (%v)", hash, ErrNotFound, err)
			}
			return nil, fmt.Errorf("object %s type: %w", hash, err)
		}
		typ, err = object.ParseType(out)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w: %v", hash, ErrInvalidArgument, err)
		}
	}

	var obj Object
	switch typ {
	case object.TypeBlob:
		obj = newBlob(r, hash, size)
	case object.TypeTree:
		obj = newTree(r, hash)
	case object.TypeCommit:
		obj = newCommit(r, hash)
	case object.TypeTag:
		obj = newTagObject(r, hash)
	default:
		return nil, fmt.Errorf("object %s: %w: unknown object kind %q", hash, ErrInvalidArgument, typ)
	}
	r.objects[hash] = obj
	return obj, nil
}
