package util_test

import (
	"os"
	"path/filepath"
	"testing"

	"txrecipe/internal/util"
)

func TestMovePath(t *testing.T) {
	tmpDir := t.TempDir()

	src := filepath.Join(tmpDir, "src")
	if err := os.MkdirAll(filepath.Join(src, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "nested", "a.txt"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(tmpDir, "dest")
	if err := util.MovePath(src, dest); err != nil {
		t.Fatalf("MovePath: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "nested", "a.txt"))
	if err != nil {
		t.Fatalf("reading moved file: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("moved file content = %q", data)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source should be gone after move")
	}
}

func TestCopyTree(t *testing.T) {
	tmpDir := t.TempDir()

	src := filepath.Join(tmpDir, "tree")
	if err := os.MkdirAll(filepath.Join(src, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "sub", "f.cfg"), []byte("cfg"), 0600); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(tmpDir, "copy")
	if err := util.CopyTree(src, dest); err != nil {
		t.Fatalf("CopyTree: %v", err)
	}

	info, err := os.Stat(filepath.Join(dest, "sub", "f.cfg"))
	if err != nil {
		t.Fatalf("copied file missing: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("copied file mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source should survive a copy: %v", err)
	}
}
