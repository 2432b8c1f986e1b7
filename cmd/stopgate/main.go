package main

import (
	"fmt"
	"os"
)

// Exit codes. Any completed decision (resume or stop) exits 0; non-zero is
// reserved for failures that prevented a decision at all (e.g. unreadable
// configuration).
const (
	ExitDecision = 0
	ExitError    = 2
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitError)
	}
}
