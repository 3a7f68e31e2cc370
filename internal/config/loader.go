// Package config loads the .arcnav INI file that provides defaults for the command line flags.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-ini/ini"
)

// Name is the name of the configuration file.
const Name = ".arcnav"

// Loader can be used for loading .arcnav configuration as well as overridden with default settings.
//
// The zero value has no configuration; every For* method returns defaults until Load or LoadFile succeeds.
type Loader struct {
	cfg *ini.File
}

// Load will traverse the directory hierarchy upwards from the working directory to find the first ".arcnav" file
// available and load its contents into the Loader.
//
// The name of the .arcnav file is returned, or an empty string if none was found.
func (l *Loader) Load(ctx context.Context) (string, error) {
	cur, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory error: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		path := filepath.Join(cur, Name)
		fi, err := os.Stat(path)
		switch {
		case err == nil && !fi.IsDir():
			return path, l.LoadFile(path)
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf(`stat file "%s" error: %w`, path, err)
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", nil
		}

		cur = parent
	}
}

// LoadFile loads the contents of the given file into the Loader.
//
// If the file cannot be parsed, the Loader is reset to have no configuration.
func (l *Loader) LoadFile(path string) (err error) {
	if l.cfg, err = ini.Load(path); err != nil {
		l.cfg = ini.Empty()
		return fmt.Errorf(`load config file "%s" error: %w`, path, err)
	}

	return nil
}

func (l *Loader) section(name string) *ini.Section {
	if l.cfg == nil {
		return nil
	}

	sec, err := l.cfg.GetSection(name)
	if err != nil {
		return nil
	}

	return sec
}

// DefaultLoader is the default Loader instance for package-level methods.
var DefaultLoader = &Loader{cfg: ini.Empty()}

// Load calls Loader.Load on the DefaultLoader instance.
func Load(ctx context.Context) (string, error) {
	return DefaultLoader.Load(ctx)
}
