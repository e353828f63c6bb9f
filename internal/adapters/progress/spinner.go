package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/fatih/color"
)

var (
	infoColor  = color.New(color.FgCyan)
	errorColor = color.New(color.FgRed)
	stepColor  = color.New(color.FgWhite, color.Faint)
)

// SpinnerSink shows a spinner on stderr while a step is in flight and
// prints messages to out
type SpinnerSink struct {
	spinner *spinner.Spinner
	out     io.Writer
}

// NewSpinnerSink creates a new spinner-based progress sink
func NewSpinnerSink(out io.Writer) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.HideCursor = false

	return &SpinnerSink{spinner: s, out: out}
}

// OnProgress handles progress events
func (r *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if !event.Spinner {
		if r.spinner.Active() {
			r.spinner.Stop()
		}
		return
	}

	suffix := " " + event.Message
	if event.Total > 0 {
		suffix = fmt.Sprintf(" %s %s", stepColor.Sprintf("[%d/%d]", event.Current, event.Total), event.Message)
	}
	r.spinner.Suffix = suffix
	if !r.spinner.Active() {
		r.spinner.Start()
	}
}

// Info prints an info message
func (r *SpinnerSink) Info(message string) {
	r.pause(func() { infoColor.Fprintln(r.out, message) })
}

// Error prints an error message
func (r *SpinnerSink) Error(message string) {
	r.pause(func() { errorColor.Fprintln(r.out, message) })
}

// pause stops the spinner around a write so lines don't interleave
func (r *SpinnerSink) pause(write func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	write()
	if wasActive {
		r.spinner.Start()
	}
}

// Stop halts the spinner, if running
func (r *SpinnerSink) Stop() {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

var _ usecase.ProgressSink = (*SpinnerSink)(nil)
