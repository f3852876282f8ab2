package intake

import (
	"os"
	"strings"
	"testing"
)

func TestTextFromHTML(t *testing.T) {
	htmlContent := `
	<html>
		<head><title>Test</title><style>p { color: red }</style></head>
		<body>
			<h1>Chapter 1</h1>
			<p>This is the <b>first</b> paragraph.</p>
			<p>
				This is the second paragraph
				with a newline.
			</p>
			<div>Some <span>nested</span> text.</div>
			<script>var hidden = "should not appear";</script>
		</body>
	</html>
	`

	text := textFromHTML(htmlContent)
	words := strings.Fields(text)

	expectedWords := []string{"Test", "Chapter", "1", "This", "is", "the", "first", "paragraph.", "This", "is", "the", "second", "paragraph", "with", "a", "newline.", "Some", "nested", "text."}

	if len(words) != len(expectedWords) {
		t.Fatalf("Expected %d words, got %d: %v", len(expectedWords), len(words), words)
	}
	for i, word := range words {
		if word != expectedWords[i] {
			t.Errorf("Word %d: expected %q, got %q", i, expectedWords[i], word)
		}
	}
	if strings.Contains(text, "hidden") {
		t.Error("script content leaked into extracted text")
	}
}

func TestTitleMapFromNCX(t *testing.T) {
	ncxData := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <navMap>
    <navPoint id="np1" playOrder="1">
      <navLabel><text>A Scandal in Bohemia</text></navLabel>
      <content src="text/chapter1.xhtml"/>
      <navPoint id="np1a" playOrder="2">
        <navLabel><text>Part II</text></navLabel>
        <content src="text/chapter1.xhtml#part2"/>
      </navPoint>
    </navPoint>
    <navPoint id="np2" playOrder="3">
      <navLabel><text>The Red-Headed League</text></navLabel>
      <content src="text/chapter2.xhtml"/>
    </navPoint>
  </navMap>
</ncx>`)

	titles := titleMapFromNCX(ncxData)

	tests := []struct {
		href string
		want string
	}{
		{"text/chapter1.xhtml", "A Scandal in Bohemia"},
		{"chapter1.xhtml", "A Scandal in Bohemia"},
		{"text/chapter2.xhtml", "The Red-Headed League"},
		{"chapter2.xhtml", "The Red-Headed League"},
	}
	for _, tt := range tests {
		if got := titles[tt.href]; got != tt.want {
			t.Errorf("titles[%q] = %q, want %q", tt.href, got, tt.want)
		}
	}

	// The first title wins for a shared base href; the nested fragment
	// entry must not overwrite it.
	if got := titles["text/chapter1.xhtml#part2"]; got != "Part II" {
		t.Errorf("fragment href title = %q, want Part II", got)
	}
}

func TestTitleMapFromBadNCX(t *testing.T) {
	if titles := titleMapFromNCX([]byte("not xml at all")); len(titles) != 0 {
		t.Errorf("got %v, want empty map", titles)
	}
}

func TestEPUBSourceMetadata(t *testing.T) {
	s := &EPUBSource{}
	if s.Name() != "EPUB" {
		t.Errorf("Name() = %q, want EPUB", s.Name())
	}
	if exts := s.Extensions(); len(exts) != 1 || exts[0] != ".epub" {
		t.Errorf("Extensions() = %v, want [.epub]", exts)
	}
}

func TestEPUBChapters(t *testing.T) {
	epubPath := "../../testdata/sample.epub"
	if _, err := os.Stat(epubPath); os.IsNotExist(err) {
		t.Skip("testdata/sample.epub not found, skipping test")
	}

	s := &EPUBSource{}
	chapters, err := s.Chapters(epubPath)
	if err != nil {
		t.Fatalf("Chapters: %v", err)
	}
	if len(chapters) == 0 {
		t.Fatal("expected non-empty chapters")
	}
	for i, ch := range chapters {
		if ch.Title == "" {
			t.Errorf("chapter %d has no title", i)
		}
		if len(ch.Text) < minSectionChars {
			t.Errorf("chapter %d is shorter than the section minimum", i)
		}
		if ch.WordCount == 0 {
			t.Errorf("chapter %d: WordCount = 0", i)
		}
	}
}
