//go:build !gui

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blinkread/blink/internal/engine"
	"github.com/blinkread/blink/internal/tokenizer"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// The UI clamps speed adjustments to this range in steps of 50 WPM; the
// engine itself only enforces its own lower bound.
const (
	minWPM  = 100
	maxWPM  = 1000
	wpmStep = 50
)

var (
	orpStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0000"))

	wordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	chapterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAFF")).
			Bold(true)

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)
)

type eventMsg engine.Event

type eventsClosedMsg struct{}

type model struct {
	eng    *engine.Engine
	events <-chan engine.Event

	token        string
	position     int
	percent      int
	chapterTitle string
	wpm          int
	playing      bool
	state        engine.State

	totalWords int
	elapsed    time.Duration

	bar      progress.Model
	width    int
	height   int
	quitting bool
}

func newModel(eng *engine.Engine) model {
	return model{
		eng:          eng,
		events:       eng.Subscribe(16),
		token:        eng.CurrentToken(),
		percent:      eng.Progress(),
		chapterTitle: eng.CurrentChapterTitle(),
		wpm:          eng.TargetWPM(),
		state:        eng.State(),
		bar:          progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		width:        80,
		height:       24,
	}
}

func waitForEvent(ch <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.events),
		func() tea.Msg {
			m.eng.Play()
			return nil
		},
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case " ":
			switch m.state {
			case engine.StateChapterComplete:
				m.eng.NextChapter()
			case engine.StatePlaying:
				m.eng.Pause()
			default:
				m.eng.Play()
			}
			return m, nil

		case "+", "=", "up":
			if m.wpm < maxWPM {
				m.wpm = m.eng.AdjustSpeed(wpmStep)
			}
			return m, nil

		case "-", "down":
			if m.wpm > minWPM {
				m.wpm = m.eng.AdjustSpeed(-wpmStep)
			}
			return m, nil

		case "left":
			m.eng.Skip(-10)
			return m, nil

		case "right":
			m.eng.Skip(10)
			return m, nil

		case "[":
			m.eng.JumpToChapter(m.eng.CurrentChapter() - 1)
			return m, nil

		case "]":
			m.eng.JumpToChapter(m.eng.CurrentChapter() + 1)
			return m, nil

		case "n":
			m.eng.NextChapter()
			return m, nil

		case "r":
			m.eng.Restart()
			return m, nil

		case "q", "Q", "ctrl+c":
			m.quitting = true
			m.eng.Close()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = msg.Width - 4
		return m, nil

	case eventMsg:
		ev := engine.Event(msg)
		m.state = ev.State
		switch ev.Type {
		case engine.EventWord:
			m.token = ev.Token
			m.position = ev.Position
			m.percent = ev.Percent
			m.chapterTitle = ev.ChapterTitle
			m.playing = ev.Playing
			m.wpm = ev.WPM
		case engine.EventChapter:
			m.chapterTitle = ev.ChapterTitle
		case engine.EventChapterComplete:
			m.playing = false
		case engine.EventFinished:
			m.playing = false
			m.percent = 100
			m.totalWords = ev.TotalWords
			m.elapsed = ev.Elapsed
		case engine.EventState:
			m.playing = ev.Playing
			m.wpm = ev.WPM
		}
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	if m.state == engine.StateFinished {
		return m.completionView()
	}

	pause := ""
	switch {
	case m.state == engine.StateChapterComplete:
		pause = pausedStyle.Render(" [CHAPTER DONE — SPACE for next]")
	case !m.playing:
		pause = pausedStyle.Render(" [PAUSED]")
	}

	status := statusStyle.Render(
		fmt.Sprintf("%s | Word %d/%d | %d WPM%s",
			chapterStyle.Render(m.chapterTitle),
			m.position+1,
			m.eng.Len(),
			m.wpm,
			pause,
		),
	)

	controls := controlsStyle.Render("SPACE: pause/play  ↑/↓: speed  ←/→: skip 10  [/]: chapter  N: next chapter  R: restart  Q: quit")
	bar := m.bar.ViewAs(float64(m.percent) / 100)

	// Reserve 3 lines: status at top, progress bar and controls at bottom
	avail := m.height - 3
	if avail < 1 {
		avail = 1
	}
	vPad := avail / 2

	var sb strings.Builder

	sb.WriteString(status)
	sb.WriteString("\n")

	for i := 0; i < vPad; i++ {
		sb.WriteString("\n")
	}

	sb.WriteString(anchorORPText(formatWord(m.token), m.token, m.width))

	remaining := avail - vPad
	for i := 0; i < remaining; i++ {
		sb.WriteString("\n")
	}

	sb.WriteString(bar)
	sb.WriteString("\n")
	sb.WriteString(controls)

	return sb.String()
}

func (m model) completionView() string {
	secs := m.elapsed.Round(time.Second)
	avg := 0.0
	if m.elapsed > 0 {
		avg = float64(m.totalWords) / m.elapsed.Minutes()
	}
	return fmt.Sprintf("\n  %s\n\n  %s\n  %s\n  %s\n\n  %s\n",
		completeStyle.Render("Reading complete!"),
		statusStyle.Render(fmt.Sprintf("Words read:   %d", m.totalWords)),
		statusStyle.Render(fmt.Sprintf("Reading time: %s", secs)),
		statusStyle.Render(fmt.Sprintf("Average:      %.0f WPM", avg)),
		controlsStyle.Render("R: read again  Q: quit"),
	)
}

// formatWord highlights the optimal recognition point of a token.
func formatWord(word string) string {
	if word == "" {
		return ""
	}
	runes := []rune(word)
	orp := tokenizer.ORPIndex(word)
	if orp >= len(runes) {
		orp = len(runes) - 1
	}

	before := string(runes[:orp])
	focus := string(runes[orp])
	after := ""
	if orp+1 < len(runes) {
		after = string(runes[orp+1:])
	}

	return wordStyle.Render(before) +
		orpStyle.Render(focus) +
		wordStyle.Render(after)
}

// anchorORPText pads the rendered word so its ORP sits at screen center.
func anchorORPText(text string, word string, width int) string {
	anchor := width / 2
	pad := anchor - tokenizer.ORPIndex(word)
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + text
}

func main() {
	wpm := flag.Int("w", 300, "Words per minute (default: 300)")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	fresh := flag.Bool("fresh", false, "Ignore cached chapter extraction")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Blink - Terminal Speed Reading Tool\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  blink [options] [file|url]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  blink file.txt              Read from file at 300 WPM\n")
		fmt.Fprintf(os.Stderr, "  blink -w 500 book.epub      Read an EPUB at 500 WPM\n")
		fmt.Fprintf(os.Stderr, "  blink https://a.com/x.md    Fetch and read a remote document\n")
		fmt.Fprintf(os.Stderr, "  cat file.txt | blink        Read from stdin\n")
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  SPACE    Pause/play (next chapter at a chapter break)\n")
		fmt.Fprintf(os.Stderr, "  +/-      Increase/decrease speed by 50 WPM\n")
		fmt.Fprintf(os.Stderr, "  ↑/↓      Increase/decrease speed by 50 WPM\n")
		fmt.Fprintf(os.Stderr, "  ←/→      Skip back/forward 10 words\n")
		fmt.Fprintf(os.Stderr, "  [/]      Jump to previous/next chapter\n")
		fmt.Fprintf(os.Stderr, "  N        Next chapter\n")
		fmt.Fprintf(os.Stderr, "  R        Restart\n")
		fmt.Fprintf(os.Stderr, "  Q        Quit\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("blink %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	chapters, err := loadChapters(flag.Args(), *fresh)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	eng, err := engine.New(chapters, clampWPM(*wpm))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(newModel(eng), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// clampWPM snaps a requested speed into the UI range.
func clampWPM(wpm int) int {
	if wpm < minWPM {
		return minWPM
	}
	if wpm > maxWPM {
		return maxWPM
	}
	return wpm
}
