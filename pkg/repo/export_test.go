package repo

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/xgit-dev/xgit/pkg/object"
)

func resolveBlob(t *testing.T, r *Repository) *Blob {
	t.Helper()
	obj, err := r.Resolve(context.Background(), object.Hash(fxBlob), object.TypeBlob, -1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return obj.(*Blob)
}

func TestExportPlain(t *testing.T) {
	r, _ := newTestRepo(t)
	blob := resolveBlob(t, r)

	var buf bytes.Buffer
	n, err := blob.Export(context.Background(), &buf, ExportOptions{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if buf.String() != "hello\nworld\n" {
		t.Errorf("content: got %q", buf.String())
	}
	if n != int64(buf.Len()) {
		t.Errorf("count: got %d, want %d", n, buf.Len())
	}
}

func TestExportZstdRoundTrip(t *testing.T) {
	r, _ := newTestRepo(t)
	blob := resolveBlob(t, r)

	var buf bytes.Buffer
	n, err := blob.Export(context.Background(), &buf, ExportOptions{Zstd: true})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if n != int64(len("hello\nworld\n")) {
		t.Errorf("uncompressed count: got %d", n)
	}

	rc, err := NewZstdReader(&buf)
	if err != nil {
		t.Fatalf("NewZstdReader: %v", err)
	}
	defer rc.Close()
	back, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(back) != "hello\nworld\n" {
		t.Errorf("round trip: got %q", back)
	}
}

func TestBlobData(t *testing.T) {
	r, _ := newTestRepo(t)
	blob := resolveBlob(t, r)
	data, err := blob.Data(context.Background())
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if string(data) != "hello\nworld\n" {
		t.Errorf("Data: got %q", data)
	}
}

func TestBlobLines(t *testing.T) {
	r, _ := newTestRepo(t)
	blob := resolveBlob(t, r)
	lines, err := blob.Lines(context.Background())
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if len(lines) != 2 || lines[0] != "hello" || lines[1] != "world" {
		t.Errorf("Lines: got %v", lines)
	}
}
