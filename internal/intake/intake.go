// Package intake turns files, URLs, and raw text into the chapter lists
// the playback engine consumes.
package intake

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/blinkread/blink/internal/engine"
	"github.com/blinkread/blink/internal/tokenizer"
)

// ErrNoContent is returned when a source yields no readable text.
var ErrNoContent = errors.New("no readable content")

// Source defines a file format reader that extracts chapters.
type Source interface {
	Name() string
	Extensions() []string
	Chapters(filename string) ([]engine.Chapter, error)
}

var registry []Source

// Register adds a source to the registry.
func Register(s Source) {
	registry = append(registry, s)
}

// SupportedFormats returns registered source names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, s := range registry {
		out = append(out, s.Name()+" ("+strings.Join(s.Extensions(), ", ")+")")
	}
	return out
}

// FromFile extracts chapters from a file, using a registered source or
// the plain text fallback.
func FromFile(filename string) ([]engine.Chapter, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range registry {
		for _, e := range s.Extensions() {
			if ext == e {
				return s.Chapters(filename)
			}
		}
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return FromText(decodeText(data))
}

// FromText wraps raw text in a single untitled chapter.
func FromText(text string) ([]engine.Chapter, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoContent
	}
	return []engine.Chapter{newChapter("Untitled", text)}, nil
}

// decodeText interprets bytes as UTF-8, falling back to Latin-1 for
// legacy text files.
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

// newChapter builds a chapter with its advisory word count filled in.
func newChapter(title, text string) engine.Chapter {
	return engine.Chapter{
		Title:     title,
		Text:      text,
		WordCount: tokenizer.CountWords(text),
	}
}
