package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// MkExclDir creates a new directory with the condition that the directory did not exist prior to this call.
//
// If name already exists, "-1", "-2", etc. are appended until a new directory can be created. The name of the created
// directory is returned.
func MkExclDir(name string) (string, error) {
	dir := name
	for i := 0; ; {
		switch err := os.Mkdir(dir, 0755); {
		case err == nil:
			return dir, nil
		case errors.Is(err, os.ErrExist):
			i++
			dir = name + "-" + strconv.Itoa(i)
		default:
			return "", fmt.Errorf("create directory error: %w", err)
		}
	}
}
