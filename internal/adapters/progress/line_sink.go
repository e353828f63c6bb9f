package progress

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
)

// LineSink prints messages as plain lines, for non-interactive runs
type LineSink struct {
	out io.Writer
}

// NewLineSink creates a sink writing to out
func NewLineSink(out io.Writer) *LineSink {
	return &LineSink{out: out}
}

func (l *LineSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {}

func (l *LineSink) Info(message string) {
	fmt.Fprintln(l.out, message)
}

func (l *LineSink) Error(message string) {
	fmt.Fprintln(l.out, message)
}

var _ usecase.ProgressSink = (*LineSink)(nil)

// NewSink picks the sink for the run: nothing in JSON mode, plain lines
// when non-interactive, a spinner otherwise.
func NewSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	switch {
	case cfg.JSON:
		return NewNopSink()
	case cfg.NonInteractive:
		return NewLineSink(os.Stdout)
	default:
		return NewSpinnerSink(os.Stdout)
	}
}
