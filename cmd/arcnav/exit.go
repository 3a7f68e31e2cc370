//go:build !windows

package main

import "os"

func exit(err error) {
	if code := exitCode(err); code != 0 {
		os.Exit(code)
	}
}
