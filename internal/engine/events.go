package engine

import "time"

// EventType defines the type of playback event.
type EventType string

const (
	// EventWord carries the token to display. It fires on every timed
	// emission and on every command that moves the cursor.
	EventWord EventType = "word"
	// EventChapter fires when the current chapter changes.
	EventChapter EventType = "chapter"
	// EventChapterComplete fires once when the last word of a non-final
	// chapter has been shown.
	EventChapterComplete EventType = "chapter_complete"
	// EventFinished fires once when the last word of the last chapter has
	// been shown. TotalWords and Elapsed carry the completion metrics.
	EventFinished EventType = "finished"
	// EventState fires on play/pause/speed changes that do not move the
	// cursor, so observers can refresh affordances.
	EventState EventType = "state"
)

// Event represents a playback update for observers.
type Event struct {
	Type         EventType
	State        State
	Token        string
	Position     int
	Percent      int
	ChapterIndex int
	ChapterTitle string
	WPM          int
	Playing      bool
	TotalWords   int
	Elapsed      time.Duration
	At           time.Time
}
