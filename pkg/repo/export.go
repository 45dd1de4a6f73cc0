package repo

import (
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// ExportOptions controls how blob content is written by Export.
type ExportOptions struct {
	// Zstd compresses the output stream with zstd.
	Zstd bool
}

// Export streams the blob's content to dst, optionally zstd-compressed.
// It returns the number of uncompressed bytes read from the blob.
func (b *Blob) Export(ctx context.Context, dst io.Writer, opts ExportOptions) (int64, error) {
	src, err := b.Reader(ctx)
	if err != nil {
		return 0, err
	}

	if !opts.Zstd {
		n, err := io.Copy(dst, src)
		if err != nil {
			src.Close()
			return n, fmt.Errorf("export blob %s: %w", b.hash, err)
		}
		return n, src.Close()
	}

	enc, err := zstd.NewWriter(dst)
	if err != nil {
		src.Close()
		return 0, fmt.Errorf("export blob %s: %w", b.hash, err)
	}
	n, err := io.Copy(enc, src)
	if err != nil {
		enc.Close()
		src.Close()
		return n, fmt.Errorf("export blob %s: %w", b.hash, err)
	}
	if err := enc.Close(); err != nil {
		src.Close()
		return n, fmt.Errorf("export blob %s: %w", b.hash, err)
	}
	return n, src.Close()
}

// NewZstdReader wraps r with zstd decompression, for reading back
// exported blobs.
func NewZstdReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &zstdReadCloser{dec: dec}, nil
}

type zstdReadCloser struct {
	dec *zstd.Decoder
}

func (z *zstdReadCloser) Read(p []byte) (int, error) {
	return z.dec.Read(p)
}

func (z *zstdReadCloser) Close() error {
	z.dec.Close()
	return nil
}
