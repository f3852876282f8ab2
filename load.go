package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blinkread/blink/internal/engine"
	"github.com/blinkread/blink/internal/handoff"
	"github.com/blinkread/blink/internal/intake"
)

// loadChapters resolves the chapter list from the first argument (file
// path or URL) or stdin. File extractions are cached through the handoff
// store so reopening a document skips re-extraction; fresh bypasses the
// cache.
func loadChapters(args []string, fresh bool) ([]engine.Chapter, error) {
	if len(args) == 0 {
		return chaptersFromStdin()
	}

	src := args[0]
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return intake.FetchChapters(src)
	}

	store, storeErr := handoff.NewStore()
	hash := ""
	if storeErr == nil {
		if h, err := handoff.ComputeHash(src); err == nil {
			hash = h
		}
	}

	if hash != "" && !fresh {
		if chapters, ok := store.Load(hash); ok {
			return chapters, nil
		}
	}

	chapters, err := intake.FromFile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", src, err)
	}
	if hash != "" {
		// Cache failures only cost the next startup some extraction time.
		store.Save(hash, chapters)
	}
	return chapters, nil
}

func chaptersFromStdin() ([]engine.Chapter, error) {
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return nil, errors.New("no input provided; provide a file, a URL, or pipe text to stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return intake.FromText(string(data))
}
