package intake

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFromText(t *testing.T) {
	chapters, err := FromText("Hello world this is a test.")
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	if len(chapters) != 1 {
		t.Fatalf("got %d chapters, want 1", len(chapters))
	}
	if chapters[0].Title != "Untitled" {
		t.Errorf("Title = %q, want Untitled", chapters[0].Title)
	}
	if chapters[0].WordCount != 6 {
		t.Errorf("WordCount = %d, want 6", chapters[0].WordCount)
	}
}

func TestFromTextEmpty(t *testing.T) {
	if _, err := FromText("  \n "); !errors.Is(err, ErrNoContent) {
		t.Errorf("FromText error = %v, want ErrNoContent", err)
	}
}

func TestFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("plain text", func(t *testing.T) {
		content := "Hello world this is a test."
		path := filepath.Join(tmpDir, "test.txt")
		os.WriteFile(path, []byte(content), 0644)

		chapters, err := FromFile(path)
		if err != nil {
			t.Fatalf("FromFile: %v", err)
		}
		if len(chapters) != 1 || chapters[0].Text != content {
			t.Errorf("got %+v, want one chapter with original text", chapters)
		}
	})

	t.Run("markdown goes through the markdown source", func(t *testing.T) {
		path := filepath.Join(tmpDir, "test.md")
		os.WriteFile(path, []byte("# One\nalpha\n# Two\nbeta\n"), 0644)

		chapters, err := FromFile(path)
		if err != nil {
			t.Fatalf("FromFile: %v", err)
		}
		if len(chapters) != 2 {
			t.Errorf("got %d chapters, want 2", len(chapters))
		}
	})

	t.Run("nonexistent file", func(t *testing.T) {
		if _, err := FromFile(filepath.Join(tmpDir, "nonexistent.txt")); err == nil {
			t.Error("expected error")
		}
	})
}

func TestDecodeText(t *testing.T) {
	t.Run("utf8 passes through", func(t *testing.T) {
		if got := decodeText([]byte("héllo")); got != "héllo" {
			t.Errorf("got %q, want héllo", got)
		}
	})

	t.Run("bom stripped", func(t *testing.T) {
		if got := decodeText([]byte{0xEF, 0xBB, 0xBF, 'h', 'i'}); got != "hi" {
			t.Errorf("got %q, want hi", got)
		}
	})

	t.Run("latin-1 fallback", func(t *testing.T) {
		// "café" in ISO 8859-1: é is a single 0xE9 byte, invalid UTF-8.
		if got := decodeText([]byte{'c', 'a', 'f', 0xE9}); got != "café" {
			t.Errorf("got %q, want café", got)
		}
	})
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	if len(formats) < 2 {
		t.Fatalf("got %d formats, want at least EPUB and Markdown", len(formats))
	}
}
