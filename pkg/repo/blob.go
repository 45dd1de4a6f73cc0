package repo

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/xgit-dev/xgit/pkg/object"
)

// Blob is a file-content object. Content is never held in memory by the
// model: Data, Reader and Lines each re-read the object database, so blobs
// of any size stay safe to navigate repeatedly.
type Blob struct {
	meta
}

func newBlob(r *Repository, hash object.Hash, size int64) *Blob {
	if size < 0 {
		size = -1
	}
	return &Blob{meta: meta{repo: r, hash: hash, size: size}}
}

func (b *Blob) Type() object.Type { return object.TypeBlob }

// Data reads the full blob content.
func (b *Blob) Data(ctx context.Context) ([]byte, error) {
	rc, err := b.Reader(ctx)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(rc)
	cerr := rc.Close()
	if err != nil {
		return nil, fmt.Errorf("blob %s: read: %w", b.hash, err)
	}
	if cerr != nil {
		return nil, fmt.Errorf("blob %s: %w", b.hash, cerr)
	}
	return data, nil
}

// Reader streams the blob content. Each call spawns an independent read;
// concurrent readers do not share a buffer. The caller must Close.
func (b *Blob) Reader(ctx context.Context) (io.ReadCloser, error) {
	rc, err := b.repo.run.Binary(ctx, "cat-file", "blob", string(b.hash))
	if err != nil {
		return nil, fmt.Errorf("blob %s: %w", b.hash, err)
	}
	return rc, nil
}

// Lines reads the blob content as a line sequence.
func (b *Blob) Lines(ctx context.Context) ([]string, error) {
	rc, err := b.repo.run.Stream(ctx, "cat-file", "blob", string(b.hash))
	if err != nil {
		return nil, fmt.Errorf("blob %s: %w", b.hash, err)
	}
	defer rc.Close()

	var lines []string
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("blob %s: scan: %w", b.hash, err)
	}
	return lines, nil
}

func (b *Blob) String() string {
	return fmt.Sprintf("blob %s", b.hash)
}
