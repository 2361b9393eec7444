package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // Everything passed
	ExitCheckFailed = 1 // Payload validation or reward tolerance failed
	ExitError       = 2 // Configuration or runtime error
)

// CheckFailureError indicates that the command ran to completion, but the
// inputs it inspected did not pass.
type CheckFailureError struct {
	Message string
}

func (e *CheckFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var checkErr *CheckFailureError
		if errors.As(err, &checkErr) {
			os.Exit(ExitCheckFailed)
		}

		os.Exit(ExitError)
	}
}
