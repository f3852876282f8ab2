// Package engine drives timed, chapter-aware RSVP playback over a
// flattened word sequence.
package engine

import (
	"math"
	"sync"
	"time"
)

// Engine owns the flattened word sequence for one reading session and the
// cursor into it. All commands are safe for concurrent use; at most one
// scheduled word emission is pending at any time, and every command that
// moves the cursor or changes the play state cancels it first.
type Engine struct {
	mu       sync.Mutex
	chapters []Chapter
	entries  []Entry

	state     State
	position  int
	targetWPM int

	// elapsed accumulates closed reading intervals. playStart marks the
	// open interval while playing; zero otherwise.
	elapsed   time.Duration
	playStart time.Time

	timer    *time.Timer
	timerGen uint64

	events      []chan Event
	lastChapter int
	closed      bool

	now func() time.Time
}

// New builds a session over the given chapters at the given target speed.
// It returns ErrEmptyInput when the chapters tokenize to nothing.
func New(chapters []Chapter, wpm int) (*Engine, error) {
	entries, err := Flatten(chapters)
	if err != nil {
		return nil, err
	}
	if wpm < MinWPM {
		wpm = MinWPM
	}
	return &Engine{
		chapters:    chapters,
		entries:     entries,
		state:       StateIdle,
		targetWPM:   wpm,
		lastChapter: -1,
		now:         time.Now,
	}, nil
}

// Subscribe registers a new observer channel.
func (e *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	e.mu.Lock()
	e.events = append(e.events, ch)
	e.mu.Unlock()
	return ch
}

// Close cancels any pending emission and closes observer channels. The
// engine accepts no commands afterward.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.cancelTimerLocked()
	events := e.events
	e.events = nil
	e.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Play starts or resumes playback. It reports false when the engine is
// already playing, halted at a chapter boundary, or out of words (in
// which case the session is routed to Finished instead).
func (e *Engine) Play() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state == StatePlaying || e.state == StateChapterComplete {
		return false
	}
	if e.position >= len(e.entries) {
		e.finishLocked()
		return false
	}
	e.playLocked()
	return true
}

// Pause suspends playback, folding the open interval into elapsed time.
func (e *Engine) Pause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state != StatePlaying {
		return false
	}
	e.cancelTimerLocked()
	e.foldIntervalLocked()
	e.setStateLocked(StatePaused)
	e.emitStateLocked()
	return true
}

// AdjustSpeed changes the target speed by delta words per minute, floored
// at MinWPM. The new speed applies from the next scheduled emission; the
// emission already pending keeps its delay.
func (e *Engine) AdjustSpeed(delta int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	wpm := e.targetWPM + delta
	if wpm < MinWPM {
		wpm = MinWPM
	}
	e.targetWPM = wpm
	e.emitStateLocked()
	return wpm
}

// Skip moves the cursor by delta words, clamped to the sequence. Playback
// pauses around the move and resumes only if it was playing before.
func (e *Engine) Skip(delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state == StateFinished {
		return
	}
	wasPlaying := e.state == StatePlaying
	e.cancelTimerLocked()
	e.foldIntervalLocked()

	pos := e.position + delta
	if pos < 0 {
		pos = 0
	}
	if pos > len(e.entries)-1 {
		pos = len(e.entries) - 1
	}
	e.position = pos

	if wasPlaying {
		e.playLocked()
		return
	}
	e.setStateLocked(StatePaused)
	e.emitWordLocked(e.position, false)
}

// JumpToChapter moves the cursor to the first word of the given chapter
// and pauses there. It returns ErrInvalidChapterIndex when no word in the
// sequence belongs to that chapter, leaving the session untouched.
func (e *Engine) JumpToChapter(chapter int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state == StateFinished {
		return nil
	}
	idx := -1
	for i, entry := range e.entries {
		if entry.ChapterIndex == chapter {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrInvalidChapterIndex
	}
	e.cancelTimerLocked()
	e.foldIntervalLocked()
	e.position = idx
	e.setStateLocked(StatePaused)
	e.emitWordLocked(e.position, false)
	return nil
}

// NextChapter resumes playback at the chapter after the current one, or
// finishes the session when none remains.
func (e *Engine) NextChapter() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state == StateFinished {
		return
	}
	e.cancelTimerLocked()
	e.foldIntervalLocked()

	// The boundary advance already moved the cursor onto the first word
	// of the chapter that follows the completed one, so at a boundary the
	// cursor's own chapter is the one to enter.
	next := e.currentChapterLocked() + 1
	if e.state == StateChapterComplete {
		next = e.currentChapterLocked()
	}
	if next < len(e.chapters) {
		for i, entry := range e.entries {
			if entry.ChapterIndex == next {
				e.position = i
				e.playLocked()
				return
			}
		}
		// The next chapter tokenized to nothing; keep going from the
		// cursor if any words remain.
		if e.position < len(e.entries) {
			e.playLocked()
			return
		}
	}
	e.finishLocked()
}

// Restart rewinds the session to the first word with zeroed elapsed time.
// Any open interval is discarded. The first token is announced for
// display but playback does not start.
func (e *Engine) Restart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.cancelTimerLocked()
	e.playStart = time.Time{}
	e.position = 0
	e.elapsed = 0
	e.lastChapter = -1
	e.setStateLocked(StateIdle)
	e.emitWordLocked(0, false)
}

// State returns the current playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// IsPlaying reports whether words are being emitted on a timer.
func (e *Engine) IsPlaying() bool {
	return e.State() == StatePlaying
}

// CurrentToken returns the token at the cursor.
func (e *Engine) CurrentToken() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.entries[e.displayIndexLocked()].Token
}

// Position returns the cursor into the flattened sequence.
func (e *Engine) Position() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

// Len returns the total number of words in the session.
func (e *Engine) Len() int {
	return len(e.entries)
}

// Progress returns the reading progress as a percentage in [0, 100].
func (e *Engine) Progress() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateFinished || e.position >= len(e.entries) {
		return 100
	}
	return e.percentAtLocked(e.position)
}

// CurrentChapter returns the index of the chapter at the cursor.
func (e *Engine) CurrentChapter() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentChapterLocked()
}

// CurrentChapterTitle returns the title of the chapter at the cursor.
func (e *Engine) CurrentChapterTitle() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.chapters[e.currentChapterLocked()].Title
}

// Chapters returns the chapter list the session was built from.
func (e *Engine) Chapters() []Chapter {
	return e.chapters
}

// TargetWPM returns the current target speed.
func (e *Engine) TargetWPM() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.targetWPM
}

// Elapsed returns accumulated active reading time, including the open
// interval when playing.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsedLocked()
}

// playLocked opens a reading interval and emits the word at the cursor.
func (e *Engine) playLocked() {
	e.setStateLocked(StatePlaying)
	e.playStart = e.now()
	e.stepLocked()
}

// stepLocked emits the word at the cursor, advances it, and either
// schedules the next emission, halts at a chapter boundary, or finishes.
func (e *Engine) stepLocked() {
	idx := e.position
	entry := e.entries[idx]
	e.emitWordLocked(idx, true)
	e.position++

	if e.position >= len(e.entries) {
		e.finishLocked()
		return
	}
	if entry.LastInChapter && entry.ChapterIndex < len(e.chapters)-1 {
		e.foldIntervalLocked()
		e.setStateLocked(StateChapterComplete)
		e.emitLocked(Event{
			Type:         EventChapterComplete,
			State:        e.state,
			ChapterIndex: entry.ChapterIndex,
			ChapterTitle: e.chapters[entry.ChapterIndex].Title,
			Position:     idx,
			Percent:      e.percentAtLocked(idx),
			WPM:          e.targetWPM,
		})
		return
	}
	e.scheduleLocked(Delay(idx, e.targetWPM))
}

// finishLocked folds any open interval and enters Finished exactly once,
// emitting the completion metrics.
func (e *Engine) finishLocked() {
	e.cancelTimerLocked()
	e.foldIntervalLocked()
	if e.state == StateFinished {
		return
	}
	e.setStateLocked(StateFinished)
	e.emitLocked(Event{
		Type:       EventFinished,
		State:      e.state,
		Percent:    100,
		TotalWords: len(e.entries),
		Elapsed:    e.elapsed,
		WPM:        e.targetWPM,
	})
}

// scheduleLocked arms the single pending emission timer.
func (e *Engine) scheduleLocked(d time.Duration) {
	e.timerGen++
	gen := e.timerGen
	e.timer = time.AfterFunc(d, func() {
		e.tick(gen)
	})
}

// tick runs a scheduled emission. A stale generation means the timer was
// cancelled after firing; it must not touch the cursor.
func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || gen != e.timerGen || e.state != StatePlaying {
		return
	}
	e.stepLocked()
}

// cancelTimerLocked invalidates and stops any pending emission.
func (e *Engine) cancelTimerLocked() {
	e.timerGen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// foldIntervalLocked closes the open reading interval into elapsed.
// Negative wall-clock intervals are treated as zero.
func (e *Engine) foldIntervalLocked() {
	if e.playStart.IsZero() {
		return
	}
	if d := e.now().Sub(e.playStart); d > 0 {
		e.elapsed += d
	}
	e.playStart = time.Time{}
}

func (e *Engine) elapsedLocked() time.Duration {
	total := e.elapsed
	if !e.playStart.IsZero() {
		if d := e.now().Sub(e.playStart); d > 0 {
			total += d
		}
	}
	return total
}

func (e *Engine) setStateLocked(to State) {
	if e.state == to || !canTransition(e.state, to) {
		return
	}
	e.state = to
}

// displayIndexLocked returns the index of the word on display: the cursor,
// or the last word once the cursor has run off the end.
func (e *Engine) displayIndexLocked() int {
	if e.position >= len(e.entries) {
		return len(e.entries) - 1
	}
	return e.position
}

func (e *Engine) currentChapterLocked() int {
	return e.entries[e.displayIndexLocked()].ChapterIndex
}

func (e *Engine) percentAtLocked(idx int) int {
	p := int(math.Round(100 * float64(idx+1) / float64(len(e.entries))))
	if p > 100 {
		p = 100
	}
	return p
}

// emitWordLocked announces the word at idx, preceded by a chapter event
// when the chapter changed since the last announcement.
func (e *Engine) emitWordLocked(idx int, playing bool) {
	entry := e.entries[idx]
	if entry.ChapterIndex != e.lastChapter {
		e.lastChapter = entry.ChapterIndex
		e.emitLocked(Event{
			Type:         EventChapter,
			State:        e.state,
			ChapterIndex: entry.ChapterIndex,
			ChapterTitle: e.chapters[entry.ChapterIndex].Title,
			Position:     idx,
			WPM:          e.targetWPM,
			Playing:      playing,
		})
	}
	e.emitLocked(Event{
		Type:         EventWord,
		State:        e.state,
		Token:        entry.Token,
		Position:     idx,
		Percent:      e.percentAtLocked(idx),
		ChapterIndex: entry.ChapterIndex,
		ChapterTitle: e.chapters[entry.ChapterIndex].Title,
		WPM:          e.targetWPM,
		Playing:      playing,
	})
}

func (e *Engine) emitStateLocked() {
	e.emitLocked(Event{
		Type:         EventState,
		State:        e.state,
		Position:     e.position,
		ChapterIndex: e.currentChapterLocked(),
		WPM:          e.targetWPM,
		Playing:      e.state == StatePlaying,
		Elapsed:      e.elapsedLocked(),
	})
}

// emitLocked delivers an event to every observer without blocking; a full
// observer misses the event.
func (e *Engine) emitLocked(ev Event) {
	ev.At = e.now()
	for _, ch := range e.events {
		select {
		case ch <- ev:
		default:
		}
	}
}
