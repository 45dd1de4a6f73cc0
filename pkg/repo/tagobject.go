package repo

import (
	"context"
	"fmt"

	"github.com/xgit-dev/xgit/pkg/object"
)

// TagObject is an annotated (possibly signed) tag: a named, messaged
// pointer at any of the four object kinds. Parsing is atomic, as for
// Commit.
type TagObject struct {
	meta
	loaded bool
	target Object
	info   *object.TagInfo
}

func newTagObject(r *Repository, hash object.Hash) *TagObject {
	return &TagObject{meta: meta{repo: r, hash: hash, size: -1}}
}

func (t *TagObject) Type() object.Type { return object.TypeTag }

func (t *TagObject) load(ctx context.Context) error {
	if t.loaded {
		return nil
	}
	lines, err := t.repo.run.Lines(ctx, "cat-file", "tag", string(t.hash))
	if err != nil {
		if isCommandFailure(err) {
			return fmt.Errorf("tag %s: %w (%v)", t.hash, ErrNotFound, err)
		}
		return fmt.Errorf("tag %s: read: %w", t.hash, err)
	}
	info, err := object.ParseTag(lines)
	if err != nil {
		return fmt.Errorf("tag %s: %w: %v", t.hash, ErrMalformedObject, err)
	}

	target, err := t.repo.Resolve(ctx, info.Object, info.TargetType, -1)
	if err != nil {
		return fmt.Errorf("tag %s: target: %w", t.hash, err)
	}
	t.repo.addReference(ctx, info.Object, string(t.hash), RefFromTag)

	t.target = target
	t.info = info
	t.loaded = true
	return nil
}

// Object returns the tagged target, polymorphic over the four kinds.
func (t *TagObject) Object(ctx context.Context) (Object, error) {
	if err := t.load(ctx); err != nil {
		return nil, err
	}
	return t.target, nil
}

// TargetType returns the declared kind of the target.
func (t *TagObject) TargetType(ctx context.Context) (object.Type, error) {
	if err := t.load(ctx); err != nil {
		return "", err
	}
	return t.info.TargetType, nil
}

// TagName returns the tag's own name from the object body.
func (t *TagObject) TagName(ctx context.Context) (string, error) {
	if err := t.load(ctx); err != nil {
		return "", err
	}
	return t.info.Name, nil
}

// Tagger returns the tagger signature.
func (t *TagObject) Tagger(ctx context.Context) (object.Signature, error) {
	if err := t.load(ctx); err != nil {
		return object.Signature{}, err
	}
	return t.info.Tagger, nil
}

// Message returns the tag message.
func (t *TagObject) Message(ctx context.Context) (string, error) {
	if err := t.load(ctx); err != nil {
		return "", err
	}
	return t.info.Message, nil
}

// Signature returns the trailing armored block, empty for unsigned tags.
func (t *TagObject) Signature(ctx context.Context) (string, error) {
	if err := t.load(ctx); err != nil {
		return "", err
	}
	return t.info.Signature, nil
}

func (t *TagObject) String() string {
	return fmt.Sprintf("tag %s", t.hash)
}
