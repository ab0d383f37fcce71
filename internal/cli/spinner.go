package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status line on stderr while slow work (tile downloads,
// database reads) runs. It draws nothing when stderr is not a terminal.
type spinner struct {
	w       io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// newSpinner starts a spinner that ends on Stop or when ctx is done.
func newSpinner(ctx context.Context, message string) *spinner {
	return startSpinner(ctx, os.Stderr, message, isTerminal(os.Stderr))
}

func startSpinner(ctx context.Context, w io.Writer, message string, animate bool) *spinner {
	s := &spinner{w: w, message: message, stop: make(chan struct{}), done: make(chan struct{})}
	go s.run(ctx, animate)
	return s
}

func (s *spinner) run(ctx context.Context, animate bool) {
	defer close(s.done)
	if !animate {
		select {
		case <-ctx.Done():
		case <-s.stop:
		}
		return
	}

	t := time.NewTicker(spinnerInterval)
	defer t.Stop()
	defer s.clear()
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-t.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
		}
	}
}

func (s *spinner) clear() {
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// Stop ends the animation and waits for the line to be cleared. It is safe
// to call more than once.
func (s *spinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}

// StopWithError stops the spinner and prints message as an error.
func (s *spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
