package intake

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/blinkread/blink/internal/engine"
)

// MarkdownSource implements Source for Markdown files, splitting chapters
// on headers.
type MarkdownSource struct{}

func init() {
	Register(&MarkdownSource{})
}

func (s *MarkdownSource) Name() string         { return "Markdown" }
func (s *MarkdownSource) Extensions() []string { return []string{".md", ".markdown"} }

// headerRegex matches markdown headers (# to ######)
var headerRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// Chapters splits a Markdown file into chapters at header lines. Text
// before the first header, or a file with no headers at all, becomes a
// single "Document" chapter.
func (s *MarkdownSource) Chapters(filename string) ([]engine.Chapter, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var chapters []engine.Chapter
	title := ""
	var body strings.Builder

	flush := func() {
		text := strings.TrimSpace(body.String())
		body.Reset()
		if text == "" {
			return
		}
		t := title
		if t == "" {
			t = "Document"
		}
		chapters = append(chapters, newChapter(t, text))
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if match := headerRegex.FindStringSubmatch(line); match != nil {
			flush()
			title = strings.TrimSpace(match[2])
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(chapters) == 0 {
		return nil, ErrNoContent
	}
	return chapters, nil
}
