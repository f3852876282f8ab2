package handoff

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blinkread/blink/internal/engine"
)

func TestComputeHash(t *testing.T) {
	tmpDir := t.TempDir()
	file1 := filepath.Join(tmpDir, "test1.txt")
	file2 := filepath.Join(tmpDir, "test2.txt")
	file3 := filepath.Join(tmpDir, "test1_copy.txt")

	os.WriteFile(file1, []byte("Hello, World!"), 0644)
	os.WriteFile(file2, []byte("Different content"), 0644)
	os.WriteFile(file3, []byte("Hello, World!"), 0644) // Same as file1

	hash1, err := ComputeHash(file1)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}
	hash2, err := ComputeHash(file2)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}
	hash3, err := ComputeHash(file3)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}

	if hash1 != hash3 {
		t.Errorf("Same content should produce same hash: %s != %s", hash1, hash3)
	}
	if hash1 == hash2 {
		t.Errorf("Different content should produce different hash")
	}
	if len(hash1) != 32 {
		t.Errorf("Hash should be 32 chars, got %d", len(hash1))
	}
}

func TestComputeHashMissingFile(t *testing.T) {
	if _, err := ComputeHash(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	chapters := []engine.Chapter{
		{Title: "One", Text: "alpha beta", WordCount: 2},
		{Title: "Two", Text: "gamma", WordCount: 1},
	}

	if _, ok := store.Load("abc123"); ok {
		t.Error("Load before Save should miss")
	}

	if err := store.Save("abc123", chapters); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok := store.Load("abc123")
	if !ok {
		t.Fatal("Load after Save should hit")
	}
	if len(got) != 2 || got[0].Title != "One" || got[1].WordCount != 1 {
		t.Errorf("Load = %+v, want original chapters", got)
	}

	if err := store.Clear("abc123"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := store.Load("abc123"); ok {
		t.Error("Load after Clear should miss")
	}
}

func TestClearMissingEntry(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Clear("never-saved"); err != nil {
		t.Errorf("Clear of missing entry = %v, want nil", err)
	}
}
