package main

import (
	"errors"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/arcnav/internal/cmd"
)

func main() {
	_, err := cmd.NewParser().Parse()
	exit(err)
}

// exitCode returns 0 on success or help, 2 on usage errors, and 1 otherwise.
func exitCode(err error) int {
	var fe *flags.Error
	switch {
	case err == nil, flags.WroteHelp(err):
		return 0
	case errors.As(err, &fe) && fe.Type != flags.ErrUnknown:
		return 2
	default:
		return 1
	}
}
