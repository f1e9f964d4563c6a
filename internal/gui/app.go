package gui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/tlinquata/ordkort/internal/cli"
	"codeberg.org/tlinquata/ordkort/internal/processor"
)

// cefrLevels are the selectable proficiency levels, easiest first.
var cefrLevels = []string{"A1", "A2", "B1", "B2", "C1", "C2"}

// Application is the compact GUI shell: a word list, a level picker and a
// run log. Processing happens on a background goroutine and streams its
// progress into the window.
type Application struct {
	app    fyne.App
	window fyne.Window

	wordInput   *CustomMultiLineEntry
	levelSelect *widget.Select
	startButton *ttwidget.Button
	cancelBtn   *ttwidget.Button
	progressBar *widget.ProgressBar
	logLabel    *widget.Label
	logScroll   *container.Scroll

	flags *cli.Flags

	mu     sync.Mutex
	cancel context.CancelFunc
	lines  []string
}

// New creates the GUI application around the given flag set. The flags
// carry the provider and output configuration shared with the CLI.
func New(flags *cli.Flags) *Application {
	if flags.OutputDir == "" {
		home, _ := os.UserHomeDir()
		flags.OutputDir = filepath.Join(home, ".local", "state", "ordkort", "cards")
	}
	if flags.Level == "" {
		flags.Level = "B1"
	}

	a := &Application{
		app:   app.NewWithID("org.codeberg.tlinquata.ordkort"),
		flags: flags,
	}
	a.buildUI()
	return a
}

// Run shows the window and enters the Fyne main loop.
func (a *Application) Run() {
	a.window.ShowAndRun()
}

func (a *Application) buildUI() {
	a.window = a.app.NewWindow("ordkort — Danish Flashcard Generator")

	a.wordInput = NewCustomMultiLineEntry()
	a.wordInput.SetPlaceHolder("One Danish word per line, e.g.\nhund\nrejse\nøjeblik")
	a.wordInput.SetOnEscape(func() { a.window.Canvas().Unfocus() })

	a.levelSelect = widget.NewSelect(cefrLevels, func(level string) {
		a.flags.Level = level
	})
	a.levelSelect.SetSelected(a.flags.Level)

	a.startButton = ttwidget.NewButton("Start", a.onStart)
	a.startButton.SetToolTip("Generate sentences, audio and cards for the words above")

	a.cancelBtn = ttwidget.NewButton("Cancel", a.onCancel)
	a.cancelBtn.SetToolTip("Stop the current run; finished words are kept")
	a.cancelBtn.Disable()

	a.progressBar = widget.NewProgressBar()

	a.logLabel = widget.NewLabel("")
	a.logLabel.Wrapping = fyne.TextWrapWord
	a.logScroll = container.NewScroll(a.logLabel)
	a.logScroll.SetMinSize(fyne.NewSize(460, 200))

	controls := container.NewBorder(nil, nil,
		widget.NewLabel("Level:"), nil, a.levelSelect)
	buttons := container.NewGridWithColumns(2, a.startButton, a.cancelBtn)

	content := container.NewBorder(
		nil,
		container.NewVBox(controls, buttons, a.progressBar, a.logScroll),
		nil, nil,
		a.wordInput,
	)

	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.window.Resize(fyne.NewSize(480, 520))
	a.window.SetCloseIntercept(func() {
		a.onCancel()
		a.window.Close()
	})
}

// onStart kicks off a processing run for the entered words.
func (a *Application) onStart() {
	words := parseWordList(a.wordInput.Text)
	if len(words) == 0 {
		a.appendLog("Enter at least one word first.")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.mu.Lock()
	if a.cancel != nil {
		a.mu.Unlock()
		cancel()
		return // a run is already active
	}
	a.cancel = cancel
	a.lines = nil
	a.mu.Unlock()

	a.logLabel.SetText("")
	a.progressBar.SetValue(0)
	a.startButton.Disable()
	a.cancelBtn.Enable()

	proc := processor.NewProcessor(a.flags, guiObserver{a})

	go func() {
		summary, err := proc.RunWords(ctx, words)
		fyne.Do(func() {
			a.finishRun(summary, err)
		})
	}()
}

// onCancel cancels the active run, if any.
func (a *Application) onCancel() {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// finishRun resets the controls after a run completes. Runs on the Fyne
// goroutine.
func (a *Application) finishRun(summary *processor.Summary, err error) {
	a.mu.Lock()
	a.cancel = nil
	a.mu.Unlock()

	a.startButton.Enable()
	a.cancelBtn.Disable()

	if err != nil {
		a.appendLog(fmt.Sprintf("Run failed: %v", err))
		return
	}
	if summary != nil {
		a.progressBar.SetValue(1)
		a.appendLog(fmt.Sprintf("Done: %d/%d words, %d cards.",
			summary.OK, summary.Total, summary.Cards))
		a.appendLog(fmt.Sprintf("Cards written to %s", summary.CSVPath))
	}
}

// appendLog adds a line to the run log and scrolls to the bottom. Must be
// called on the Fyne goroutine.
func (a *Application) appendLog(line string) {
	a.mu.Lock()
	a.lines = append(a.lines, line)
	text := strings.Join(a.lines, "\n")
	a.mu.Unlock()

	a.logLabel.SetText(text)
	a.logScroll.ScrollToBottom()
}

// parseWordList splits the entry text into one word per line, dropping
// blanks.
func parseWordList(text string) []string {
	var words []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			words = append(words, line)
		}
	}
	return words
}

// guiObserver forwards pipeline events into the window. Events arrive
// from the worker goroutine and are marshaled onto the Fyne goroutine.
type guiObserver struct {
	app *Application
}

func (o guiObserver) Logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	fyne.Do(func() {
		o.app.appendLog(line)
	})
}

func (o guiObserver) Progress(completed, total int) {
	fyne.Do(func() {
		if total > 0 {
			o.app.progressBar.SetValue(float64(completed) / float64(total))
		}
	})
}

func (o guiObserver) RunError(err error) {
	fyne.Do(func() {
		o.app.appendLog(fmt.Sprintf("ERROR: %v", err))
	})
}
