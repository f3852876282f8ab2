package engine

import "github.com/blinkread/blink/internal/tokenizer"

// Chapter is the unit of intake: a plain title/text pair. WordCount is
// advisory and need not match the tokenizer's own count.
type Chapter struct {
	Title     string `json:"title"`
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
}

// Entry is one word of the flattened reading sequence, tagged with the
// chapter it came from.
type Entry struct {
	Token          string
	ChapterIndex   int
	IndexInChapter int
	LastInChapter  bool
}

// Flatten tokenizes every chapter in order and concatenates the results
// into the session's immutable word sequence. Chapters that tokenize to
// nothing contribute no entries. It returns ErrEmptyInput when the whole
// sequence would be empty.
func Flatten(chapters []Chapter) ([]Entry, error) {
	var entries []Entry
	for ci, ch := range chapters {
		tokens := tokenizer.Tokenize(ch.Text)
		for wi, tok := range tokens {
			entries = append(entries, Entry{
				Token:          tok,
				ChapterIndex:   ci,
				IndexInChapter: wi,
				LastInChapter:  wi == len(tokens)-1,
			})
		}
	}
	if len(entries) == 0 {
		return nil, ErrEmptyInput
	}
	return entries, nil
}
