package engine

import (
	"errors"
	"testing"
)

func TestFlatten(t *testing.T) {
	chapters := []Chapter{
		{Title: "One", Text: "a b c d e"},
		{Title: "Two", Text: "f g h"},
	}

	entries, err := Flatten(chapters)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if len(entries) != 8 {
		t.Fatalf("len(entries) = %d, want 8", len(entries))
	}

	for i, entry := range entries {
		wantChapter := 0
		if i >= 5 {
			wantChapter = 1
		}
		if entry.ChapterIndex != wantChapter {
			t.Errorf("entry %d: ChapterIndex = %d, want %d", i, entry.ChapterIndex, wantChapter)
		}
	}

	if entries[0].IndexInChapter != 0 || entries[5].IndexInChapter != 0 {
		t.Error("chapter-local indices should restart per chapter")
	}
	if !entries[4].LastInChapter {
		t.Error("entry 4 should be last in chapter 0")
	}
	if entries[3].LastInChapter {
		t.Error("entry 3 should not be last in chapter 0")
	}
	if !entries[7].LastInChapter {
		t.Error("entry 7 should be last in chapter 1")
	}
}

func TestFlattenSkipsEmptyChapters(t *testing.T) {
	chapters := []Chapter{
		{Title: "One", Text: "a b"},
		{Title: "Blank", Text: "   \n "},
		{Title: "Three", Text: "c"},
	}

	entries, err := Flatten(chapters)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if entries[2].ChapterIndex != 2 {
		t.Errorf("entry 2: ChapterIndex = %d, want 2", entries[2].ChapterIndex)
	}
}

func TestFlattenEmptyInput(t *testing.T) {
	tests := []struct {
		name     string
		chapters []Chapter
	}{
		{"no chapters", nil},
		{"all whitespace", []Chapter{{Title: "A", Text: "  "}, {Title: "B", Text: "\n"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Flatten(tt.chapters); !errors.Is(err, ErrEmptyInput) {
				t.Errorf("Flatten() error = %v, want ErrEmptyInput", err)
			}
		})
	}
}
