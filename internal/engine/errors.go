package engine

import "errors"

// Common errors for the playback engine.
var (
	// ErrEmptyInput is returned at construction when tokenizing every
	// supplied chapter yields zero tokens. It is fatal to the session.
	ErrEmptyInput = errors.New("no readable words in any chapter")

	// ErrInvalidChapterIndex is returned by JumpToChapter when no word in
	// the flattened sequence belongs to the requested chapter.
	ErrInvalidChapterIndex = errors.New("no such chapter")
)
