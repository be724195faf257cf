package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestFS(t *testing.T) (*FS, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return fs, dir
}

func TestWriteRead(t *testing.T) {
	fs, _ := newTestFS(t)

	if err := fs.Write("blog/hello.md", []byte("content")); err != nil {
		t.Fatal(err)
	}
	data, err := fs.Read("blog/hello.md")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "content" {
		t.Errorf("read = %q, want %q", data, "content")
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	fs, dir := newTestFS(t)
	if err := fs.Write("codex/a.md", []byte("x")); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "codex"))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "a.md" {
			t.Errorf("unexpected file in dir: %s", e.Name())
		}
	}
}

func TestReadMissing(t *testing.T) {
	fs, _ := newTestFS(t)
	_, err := fs.Read("nope.md")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestTraversalRejected(t *testing.T) {
	fs, _ := newTestFS(t)
	for _, p := range []string{"../outside.md", "a/../../outside.md", "/etc/passwd"} {
		if err := fs.Write(p, []byte("x")); err == nil {
			t.Errorf("write %q should be rejected", p)
		}
		if _, err := fs.Read(p); err == nil {
			t.Errorf("read %q should be rejected", p)
		}
	}
}

func TestListFiltersBySuffixAndSkipsHidden(t *testing.T) {
	fs, _ := newTestFS(t)
	_ = fs.Write("products/figs/kit/product.md", []byte("p"))
	_ = fs.Write("products/figs/kit/tags.txt", []byte("t"))
	_ = fs.Write("products/figs/kit/.hidden", []byte("h"))

	metas, err := fs.List("products", "product.md")
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 1 {
		t.Fatalf("len = %d, want 1", len(metas))
	}
	if metas[0].Path != "products/figs/kit/product.md" {
		t.Errorf("path = %q", metas[0].Path)
	}
	if metas[0].Checksum == "" {
		t.Error("checksum should be set")
	}
}

func TestListMissingDirIsEmpty(t *testing.T) {
	fs, _ := newTestFS(t)
	metas, err := fs.List("blog", ".md")
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 0 {
		t.Errorf("len = %d, want 0", len(metas))
	}
}

func TestRemoveAll(t *testing.T) {
	fs, _ := newTestFS(t)
	_ = fs.Write("products/figs/kit/product.md", []byte("p"))

	if err := fs.RemoveAll("products/figs/kit"); err != nil {
		t.Fatal(err)
	}
	if fs.Exists("products/figs/kit") {
		t.Error("dir should be gone")
	}
	err := fs.RemoveAll("products/figs/kit")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("second remove should report ErrNotExist, got %v", err)
	}
}

func TestRemoveAllRefusesRoot(t *testing.T) {
	fs, _ := newTestFS(t)
	if err := fs.RemoveAll(""); err == nil {
		t.Error("removing root should fail")
	}
}
