//go:build gui

package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/blinkread/blink/internal/engine"
	"github.com/blinkread/blink/internal/tokenizer"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// The UI clamps speed adjustments to this range in steps of 50 WPM.
const (
	minWPM  = 100
	maxWPM  = 1000
	wpmStep = 50
)

type gui struct {
	eng             *engine.Engine
	fontSize        float32
	chaptersVisible bool
}

func createWordDisplay(word string, fontSize float32, windowWidth float32) *fyne.Container {
	runes := []rune(word)
	orp := tokenizer.ORPIndex(word)

	// Ensure orp is within bounds
	if orp >= len(runes) {
		orp = len(runes) - 1
	}
	if orp < 0 {
		orp = 0
	}

	before := ""
	focus := ""
	after := ""
	if len(runes) > 0 {
		before = string(runes[:orp])
		focus = string(runes[orp])
		if orp+1 < len(runes) {
			after = string(runes[orp+1:])
		}
	}

	beforeText := canvas.NewText(before, color.White)
	beforeText.TextSize = fontSize
	beforeText.TextStyle.Bold = true

	focusText := canvas.NewText(focus, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	focusText.TextSize = fontSize
	focusText.TextStyle.Bold = true

	afterText := canvas.NewText(after, color.White)
	afterText.TextSize = fontSize
	afterText.TextStyle.Bold = true

	// Measure text
	beforeSize := beforeText.MinSize()
	focusSize := focusText.MinSize()

	// Horizontal: anchor ORP at center
	centerX := windowWidth / 2
	beforeX := centerX - beforeSize.Width
	focusX := centerX
	afterX := centerX + focusSize.Width

	if beforeX < 0 {
		beforeX = 0
	}

	c := &fyne.Container{
		Layout: &centerVerticalLayout{},
		Objects: []fyne.CanvasObject{
			beforeText,
			focusText,
			afterText,
		},
	}

	beforeText.Move(fyne.NewPos(beforeX, 0))
	focusText.Move(fyne.NewPos(focusX, 0))
	afterText.Move(fyne.NewPos(afterX, 0))

	return c
}

type centerVerticalLayout struct{}

func (l *centerVerticalLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var maxH float32
	for _, o := range objects {
		size := o.MinSize()
		if size.Height > maxH {
			maxH = size.Height
		}
	}
	return fyne.NewSize(0, maxH)
}

func (l *centerVerticalLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	var maxH float32
	for _, o := range objects {
		objSize := o.MinSize()
		if objSize.Height > maxH {
			maxH = objSize.Height
		}
	}

	y := (size.Height - maxH) / 2
	if y < 0 {
		y = 0
	}

	for _, o := range objects {
		pos := o.Position()
		o.Move(fyne.NewPos(pos.X, y))
		o.Resize(o.MinSize())
	}
}

func main() {
	wpm := flag.Int("w", 300, "Words per minute")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	showChapters := flag.Bool("chapters", false, "Show chapter list at startup")
	fresh := flag.Bool("fresh", false, "Ignore cached chapter extraction")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Blink - GUI Speed Reading Tool\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  blink [options] [file|url]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  blink file.txt              Read from file at 300 WPM\n")
		fmt.Fprintf(os.Stderr, "  blink -w 500 book.epub      Read an EPUB at 500 WPM\n")
		fmt.Fprintf(os.Stderr, "  blink --chapters book.epub  Show chapter panel at startup\n")
		fmt.Fprintf(os.Stderr, "  cat file.txt | blink        Read from stdin\n")
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

	g := &gui{
		eng:             eng,
		fontSize:        72,
		chaptersVisible: *showChapters && len(chapters) > 1,
	}

	a := app.New()
	w := a.NewWindow("blink - Speed Reader")

	statusLabel := widget.NewLabel("")
	statusLabel.Alignment = fyne.TextAlignCenter

	chapterHint := ""
	if len(chapters) > 1 {
		chapterHint = "  C: chapters  N: next chapter"
	}
	controlsLabel := widget.NewLabel("SPACE: pause  ↑/↓: speed  +/-: font  ←/→: skip 10" + chapterHint + "  R: restart  F: fullscreen  Q: quit")
	controlsLabel.Alignment = fyne.TextAlignCenter

	wordContainer := container.NewStack()

	updateStatus := func() {
		pauseText := ""
		switch g.eng.State() {
		case engine.StateChapterComplete:
			pauseText = " [CHAPTER DONE — SPACE for next]"
		case engine.StateFinished:
			pauseText = " [DONE]"
		case engine.StatePlaying:
		default:
			pauseText = " [PAUSED]"
		}
		statusLabel.SetText(fmt.Sprintf("%s | Word %d/%d (%d%%) | %d WPM | Font: %.0f%s",
			g.eng.CurrentChapterTitle(),
			g.eng.Position()+1,
			g.eng.Len(),
			g.eng.Progress(),
			g.eng.TargetWPM(),
			g.fontSize,
			pauseText))
	}

	showWord := func(word string) {
		canvasWidth := w.Canvas().Size().Width
		if canvasWidth <= 0 {
			canvasWidth = 800
		}
		wordContainer.Objects = []fyne.CanvasObject{createWordDisplay(word, g.fontSize, canvasWidth)}
		wordContainer.Refresh()
	}

	showCompletion := func(totalWords int, elapsed time.Duration) {
		avg := 0.0
		if elapsed > 0 {
			avg = float64(totalWords) / elapsed.Minutes()
		}
		done := canvas.NewText("Reading complete!", color.RGBA{G: 255, A: 255})
		done.TextSize = g.fontSize / 2
		done.TextStyle.Bold = true
		done.Alignment = fyne.TextAlignCenter
		stats := canvas.NewText(
			fmt.Sprintf("%d words in %s (%.0f WPM average)", totalWords, elapsed.Round(time.Second), avg),
			color.White)
		stats.TextSize = g.fontSize / 4
		stats.Alignment = fyne.TextAlignCenter
		wordContainer.Objects = []fyne.CanvasObject{container.NewVBox(done, stats)}
		wordContainer.Refresh()
	}

	updateDisplay := func() {
		showWord(g.eng.CurrentToken())
		updateStatus()
	}

	// Chapter panel
	var chapterPanel *container.Split
	var mainContainer *fyne.Container

	readingContent := container.NewBorder(
		statusLabel,
		controlsLabel,
		nil, nil,
		wordContainer,
	)

	if len(chapters) > 1 {
		chapterList := widget.NewList(
			func() int { return len(chapters) },
			func() fyne.CanvasObject {
				return widget.NewLabel("Title")
			},
			func(id widget.ListItemID, obj fyne.CanvasObject) {
				label := obj.(*widget.Label)
				label.SetText(fmt.Sprintf("%d. %s (%d words)", id+1, chapters[id].Title, chapters[id].WordCount))
			},
		)

		chapterList.OnSelected = func(id widget.ListItemID) {
			if err := g.eng.JumpToChapter(id); err == nil {
				g.chaptersVisible = false
				chapterPanel.Leading.Hide()
				chapterPanel.Refresh()
			}
		}

		chapterContainer := container.NewBorder(
			widget.NewLabel("Chapters"),
			widget.NewLabel("Click to jump • C to close"),
			nil, nil,
			chapterList,
		)

		chapterPanel = container.NewHSplit(chapterContainer, readingContent)
		chapterPanel.Offset = 0.33

		if !g.chaptersVisible {
			chapterContainer.Hide()
		}

		mainContainer = container.NewStack(chapterPanel)
	} else {
		mainContainer = container.NewStack(readingContent)
	}

	// The engine owns all timing; the UI just mirrors its events.
	events := eng.Subscribe(16)
	go func() {
		for ev := range events {
			ev := ev
			fyne.Do(func() {
				switch ev.Type {
				case engine.EventWord:
					showWord(ev.Token)
					updateStatus()
				case engine.EventFinished:
					showCompletion(ev.TotalWords, ev.Elapsed)
					updateStatus()
				default:
					updateStatus()
				}
			})
		}
	}()

	w.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeySpace:
			switch g.eng.State() {
			case engine.StateChapterComplete:
				g.eng.NextChapter()
			case engine.StatePlaying:
				g.eng.Pause()
			default:
				g.eng.Play()
			}

		case fyne.KeyUp:
			if g.eng.TargetWPM() < maxWPM {
				g.eng.AdjustSpeed(wpmStep)
			}

		case fyne.KeyDown:
			if g.eng.TargetWPM() > minWPM {
				g.eng.AdjustSpeed(-wpmStep)
			}

		case fyne.KeyLeft:
			g.eng.Skip(-10)

		case fyne.KeyRight:
			g.eng.Skip(10)

		case fyne.KeyF:
			w.SetFullScreen(!w.FullScreen())

		case fyne.KeyQ:
			g.eng.Close()
			a.Quit()
		}
	})

	w.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 'c', 'C':
			if chapterPanel != nil {
				g.chaptersVisible = !g.chaptersVisible
				if g.chaptersVisible {
					g.eng.Pause()
					chapterPanel.Leading.Show()
				} else {
					chapterPanel.Leading.Hide()
				}
				chapterPanel.Refresh()
			}

		case 'n', 'N':
			g.eng.NextChapter()

		case 'r', 'R':
			g.eng.Restart()

		case '+', '=':
			if g.fontSize < 200 {
				g.fontSize += 5
				updateDisplay()
			}
		case '-':
			if g.fontSize > 20 {
				g.fontSize -= 5
				updateDisplay()
			}
		}
	})

	w.Resize(fyne.NewSize(800, 600))
	w.SetContent(mainContainer)

	w.SetOnClosed(func() {
		g.eng.Close()
	})

	// Initialize first word after window shows
	go func() {
		time.Sleep(100 * time.Millisecond)
		fyne.Do(updateDisplay)
	}()

	w.ShowAndRun()
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
