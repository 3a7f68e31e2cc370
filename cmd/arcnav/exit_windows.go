//go:build windows

package main

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/term"
)

func exit(err error) {
	code := exitCode(err)

	// double-clicking arcnav.exe opens a console that closes as soon as the process ends.
	if code != 0 && term.IsTerminal(int(os.Stdin.Fd())) {
		_, _ = fmt.Fprintf(os.Stderr, "Press any key to close console\n")
		_, _, _ = bufio.NewReader(os.Stdin).ReadRune()
	}

	if code != 0 {
		os.Exit(code)
	}
}
