package repo

import (
	"context"
	"time"

	"github.com/xgit-dev/xgit/pkg/object"
)

// JSON description of the navigation state, for the debug describer. Lazy
// fields are forced, so describing an object loads it.

type WorktreeJSON struct {
	Repository     string `json:"repository"`
	RepositoryPath string `json:"repository_path"`
	Path           string `json:"path"`
	Branch         string `json:"branch,omitempty"`
	Commit         string `json:"commit"`
	Locked         string `json:"locked,omitempty"`
	Prunable       string `json:"prunable,omitempty"`
}

type RepositoryJSON struct {
	Path      string         `json:"path"`
	ID        string         `json:"id"`
	Worktrees []WorktreeJSON `json:"worktrees"`
	Objects   int            `json:"objects"`
}

type ContextJSON struct {
	Worktree WorktreeJSON `json:"worktree"`
	Path     string       `json:"path"`
	Branch   string       `json:"branch,omitempty"`
	Commit   string       `json:"commit"`
}

type SignatureJSON struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	When  time.Time `json:"when"`
}

type CommitJSON struct {
	Hash      string        `json:"hash"`
	Tree      string        `json:"tree"`
	Parents   []string      `json:"parents"`
	Author    SignatureJSON `json:"author"`
	Committer SignatureJSON `json:"committer"`
	Message   string        `json:"message"`
	Signed    bool          `json:"signed"`
}

type TagJSON struct {
	Hash       string        `json:"hash"`
	Object     string        `json:"object"`
	TargetType string        `json:"target_type"`
	Name       string        `json:"name"`
	Tagger     SignatureJSON `json:"tagger"`
	Message    string        `json:"message"`
	Signed     bool          `json:"signed"`
}

type EntryJSON struct {
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
	Mode string `json:"mode"`
	Type string `json:"type"`
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

func describeSignature(s object.Signature) SignatureJSON {
	return SignatureJSON{Name: s.Name, Email: s.Email, When: s.When}
}

// DescribeWorktree renders a worktree for JSON output.
func DescribeWorktree(w *Worktree) (*WorktreeJSON, error) {
	commit, err := w.Commit()
	if err != nil {
		return nil, err
	}
	out := &WorktreeJSON{
		Repository:     w.Repository().Path(),
		RepositoryPath: w.RepositoryPath(),
		Path:           w.Path(),
		Commit:         string(commit.Hash()),
		Locked:         w.Locked,
		Prunable:       w.Prunable,
	}
	if b := w.Branch(); b != nil {
		out.Branch = b.Name()
	}
	return out, nil
}

// DescribeRepository renders a repository, forcing its id and worktree
// map.
func DescribeRepository(ctx context.Context, r *Repository) (*RepositoryJSON, error) {
	id, err := r.ID(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.loadWorktrees(ctx); err != nil {
		return nil, err
	}
	out := &RepositoryJSON{Path: r.path, ID: id, Objects: len(r.objects)}
	for _, p := range r.worktreeOrder {
		wj, err := DescribeWorktree(r.worktrees[p])
		if err != nil {
			return nil, err
		}
		out.Worktrees = append(out.Worktrees, *wj)
	}
	return out, nil
}

// DescribeContext renders the active navigation state.
func DescribeContext(c *Context) (*ContextJSON, error) {
	wt, err := c.Worktree()
	if err != nil {
		return nil, err
	}
	wj, err := DescribeWorktree(wt)
	if err != nil {
		return nil, err
	}
	commit, err := c.Commit()
	if err != nil {
		return nil, err
	}
	out := &ContextJSON{Worktree: *wj, Path: c.Path(), Commit: string(commit.Hash())}
	if b := c.Branch(); b != nil {
		out.Branch = b.Name()
	}
	return out, nil
}

// DescribeCommit renders a commit, forcing its body.
func DescribeCommit(ctx context.Context, c *Commit) (*CommitJSON, error) {
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	parents := make([]string, len(c.parents))
	for i, p := range c.parents {
		parents[i] = string(p.Hash())
	}
	return &CommitJSON{
		Hash:      string(c.Hash()),
		Tree:      string(c.tree.Hash()),
		Parents:   parents,
		Author:    describeSignature(c.info.Author),
		Committer: describeSignature(c.info.Committer),
		Message:   c.info.Message,
		Signed:    c.info.GPGSig != "",
	}, nil
}

// DescribeTag renders a tag object, forcing its body.
func DescribeTag(ctx context.Context, t *TagObject) (*TagJSON, error) {
	if err := t.load(ctx); err != nil {
		return nil, err
	}
	return &TagJSON{
		Hash:       string(t.Hash()),
		Object:     string(t.info.Object),
		TargetType: string(t.info.TargetType),
		Name:       t.info.Name,
		Tagger:     describeSignature(t.info.Tagger),
		Message:    t.info.Message,
		Signed:     t.info.Signature != "",
	}, nil
}

// DescribeEntry renders a tree entry.
func DescribeEntry(ctx context.Context, e *Entry) (*EntryJSON, error) {
	size := int64(-1)
	if e.Type() == object.TypeBlob {
		var err error
		size, err = e.Size(ctx)
		if err != nil {
			return nil, err
		}
	}
	return &EntryJSON{
		Name: e.Name(),
		Path: e.Path(),
		Mode: string(e.Mode()),
		Type: string(e.Type()),
		Hash: string(e.Hash()),
		Size: size,
	}, nil
}
