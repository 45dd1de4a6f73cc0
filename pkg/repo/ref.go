package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/xgit-dev/xgit/pkg/object"
)

// RefKind classifies a ref by its namespace prefix.
type RefKind string

const (
	KindBranch       RefKind = "branch"      // refs/heads/
	KindRemoteBranch RefKind = "remote"      // refs/remotes/
	KindTag          RefKind = "tag"         // refs/tags/
	KindReplacement  RefKind = "replacement" // refs/replace/
	KindOther        RefKind = "other"       // HEAD, refs/stash, ...
)

// Ref is a named pointer into the object database, usually at a commit.
type Ref struct {
	name   string
	repo   *Repository
	target Object // nil until resolved
}

func newRef(name string, r *Repository) (*Ref, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty ref name", ErrInvalidArgument)
	}
	return &Ref{name: name, repo: r}, nil
}

// Name returns the full ref name, e.g. "refs/heads/main".
func (r *Ref) Name() string { return r.name }

// Repository returns the owning repository.
func (r *Ref) Repository() *Repository { return r.repo }

// Kind classifies the ref by namespace.
func (r *Ref) Kind() RefKind {
	switch {
	case strings.HasPrefix(r.name, "refs/heads/"):
		return KindBranch
	case strings.HasPrefix(r.name, "refs/remotes/"):
		return KindRemoteBranch
	case strings.HasPrefix(r.name, "refs/tags/"):
		return KindTag
	case strings.HasPrefix(r.name, "refs/replace/"):
		return KindReplacement
	}
	return KindOther
}

// ShortName strips the namespace prefix for display.
func (r *Ref) ShortName() string {
	for _, prefix := range []string{"refs/heads/", "refs/remotes/", "refs/tags/", "refs/replace/"} {
		if strings.HasPrefix(r.name, prefix) {
			return strings.TrimPrefix(r.name, prefix)
		}
	}
	return r.name
}

// Target resolves the ref to its object, memoized on the ref. The
// observation is recorded in the reference index.
func (r *Ref) Target(ctx context.Context) (Object, error) {
	if r.target != nil {
		return r.target, nil
	}
	out, err := r.repo.run.Run(ctx, "rev-parse", "--verify", "--quiet", r.name)
	if err != nil {
		if isCommandFailure(err) {
			return nil, fmt.Errorf("ref %s: %w (%v)", r.name, ErrNotFound, err)
		}
		return nil, fmt.Errorf("ref %s: %w", r.name, err)
	}
	hash, err := object.ParseHash(out)
	if err != nil {
		return nil, fmt.Errorf("ref %s: %w: %v", r.name, ErrInvalidArgument, err)
	}
	obj, err := r.repo.Resolve(ctx, hash, "", -1)
	if err != nil {
		return nil, fmt.Errorf("ref %s: %w", r.name, err)
	}
	r.repo.addReference(ctx, hash, r.name, RefFromRef)
	r.target = obj
	return obj, nil
}

func (r *Ref) String() string { return r.name }
