package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess    = 0 // All tasks passed
	ExitTestFailed = 1 // One or more tasks failed
	ExitError      = 2 // Configuration or runtime error
)

// TaskFailureError indicates that the run itself completed,
// but one or more tasks failed.
type TaskFailureError struct {
	Message string
}

func (e *TaskFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var taskFailureErr *TaskFailureError
		if errors.As(err, &taskFailureErr) {
			os.Exit(ExitTestFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
