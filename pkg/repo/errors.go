package repo

import "errors"

// Failure classes surfaced by the core. Callers distinguish them with
// errors.Is; the concrete messages carry the specifics.
var (
	// ErrNotFound: no such object, ref, worktree or repository.
	ErrNotFound = errors.New("not found")

	// ErrNotARepository: the path has no git directory in its ancestry.
	ErrNotARepository = errors.New("not a git repository")

	// ErrNoWorktree: a repository operation needs a worktree and none exists.
	ErrNoWorktree = errors.New("no worktree")

	// ErrNoCommit: a worktree or context has no commit set.
	ErrNoCommit = errors.New("commit has not been set")

	// ErrMalformedObject: an object body violates the expected grammar.
	// Fatal for that object; never retried.
	ErrMalformedObject = errors.New("malformed object")

	// ErrInvalidArgument: bad hash syntax, bad object kind, bad revision.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrImmutableTree: attempted mutation of a content-addressed tree.
	ErrImmutableTree = errors.New("tree is immutable")
)
