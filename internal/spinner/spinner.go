// Package spinner renders a single-line progress indicator for long-running
// browser tasks.
package spinner

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Start displays an animated spinner with the given message on w, appending
// the elapsed time once the task has been running for more than a second.
// Browser tasks routinely run for minutes, so the elapsed display is the main
// signal that the run is still alive. Call the returned function to stop the
// spinner and clear the line.
func Start(w io.Writer, message string) (stop func()) {
	done := make(chan struct{})
	cleared := make(chan struct{})
	start := time.Now()
	var stopOnce sync.Once

	go func() {
		i := 0
		lineLen := 0
		for {
			select {
			case <-done:
				fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", lineLen)) //nolint:errcheck
				close(cleared)
				return
			case <-time.After(80 * time.Millisecond):
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], message)
				if elapsed := time.Since(start); elapsed >= time.Second {
					line += fmt.Sprintf(" (%ds)", int(elapsed.Seconds()))
				}
				if len(line) > lineLen {
					lineLen = len(line)
				}
				fmt.Fprintf(w, "\r%s", line) //nolint:errcheck
				i++
			}
		}
	}()

	return func() {
		stopOnce.Do(func() {
			close(done)
		})
		<-cleared
	}
}
