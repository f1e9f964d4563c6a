package sentence

import (
	"fmt"
	"io"
)

// Observer receives progress and log events from a processing run. All
// events arrive from the single worker goroutine driving the pipeline, so
// implementations never see concurrent calls.
type Observer interface {
	// Logf reports a per-word or per-chunk log line.
	Logf(format string, args ...any)
	// Progress reports coarse progress after each completed chunk.
	Progress(completed, total int)
	// RunError reports a batch-fatal failure exactly once per run,
	// distinct from the per-word log stream.
	RunError(err error)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) Logf(string, ...any) {}

func (NopObserver) Progress(int, int) {}

func (NopObserver) RunError(error) {}

// WriterObserver writes events as plain lines, suitable for CLI output.
type WriterObserver struct {
	W io.Writer
}

func (o WriterObserver) Logf(format string, args ...any) {
	fmt.Fprintf(o.W, format+"\n", args...)
}

func (o WriterObserver) Progress(completed, total int) {
	fmt.Fprintf(o.W, "Progress: %d/%d words\n", completed, total)
}

func (o WriterObserver) RunError(err error) {
	fmt.Fprintf(o.W, "ERROR: %v\n", err)
}
