package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

func (a *Archiver) AddToArchive(ctx context.Context, name string, sourcePaths []string, progress ProgressFunc) error {
	f, err := a.detect(ctx, name)
	if err != nil {
		return err
	}
	if !f.Capabilities().Add {
		return unsupported("add", f)
	}

	sources, total, err := collectSources(ctx, sourcePaths)
	if err != nil {
		return err
	}

	// entries with the same names as the files being added are replaced; names match case-insensitively.
	replaced := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		replaced[strings.ToLower(s.name)] = struct{}{}
	}
	keep := func(n string) bool {
		n, _ = normalizeName(n)
		_, ok := replaced[strings.ToLower(n)]
		return !ok
	}

	return a.rewriteZip(ctx, name, keep, func(zw *zip.Writer) error {
		tracker := newProgressTracker(progress, len(sources), total)
		buf := make([]byte, a.opts.BufferSize)

		for _, s := range sources {
			if err := ctx.Err(); err != nil {
				return err
			}

			tracker.start(s.local)
			if err := a.addZipFile(ctx, zw, s, buf); err != nil {
				return &EntryError{Op: "add", Path: s.local, Err: err}
			}
			tracker.advance(s.local, s.size())
		}

		if n := len(sources); n != 0 {
			tracker.finish(sources[n-1].local)
		}

		return nil
	})
}

func (a *Archiver) DeleteEntries(ctx context.Context, name string, entryPaths []string) error {
	f, err := a.detect(ctx, name)
	if err != nil {
		return err
	}
	if !f.Capabilities().Delete {
		return unsupported("delete", f)
	}
	if len(entryPaths) == 0 {
		return nil
	}

	match := a.matcher(entryPaths)
	keep := func(n string) bool {
		return !match(n)
	}

	if f == FormatZip {
		return a.rewriteZip(ctx, name, keep, nil)
	}

	return a.rewriteTar(ctx, name, f, keep)
}

// source is a local file or directory to be added to an archive.
type source struct {
	// local is the path on the local file system.
	local string
	// name is the normalised path in the archive.
	name string
	fi   fs.FileInfo
}

func (s source) size() int64 {
	if s.fi.Mode().IsRegular() {
		return s.fi.Size()
	}

	return 0
}

// collectSources walks the given paths and returns the files and directories to be added.
//
// A directory is added recursively under its base name; non-regular files are ignored. The total size of the regular
// files is returned for progress report.
func collectSources(ctx context.Context, paths []string) (sources []source, total int64, err error) {
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, 0, fmt.Errorf(`stat file "%s" error: %w`, p, err)
		}

		base := filepath.Base(filepath.Clean(p))
		if !fi.IsDir() {
			sources = append(sources, source{local: p, name: base, fi: fi})
			total += fi.Size()
			continue
		}

		err = filepath.WalkDir(p, func(local string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err = ctx.Err(); err != nil {
				return err
			}
			if !d.IsDir() && !d.Type().IsRegular() {
				return nil
			}

			rel, err := filepath.Rel(p, local)
			if err != nil {
				return err
			}

			fi, err := d.Info()
			if err != nil {
				return err
			}

			s := source{local: local, name: path.Join(base, filepath.ToSlash(rel)), fi: fi}
			sources = append(sources, s)
			total += s.size()
			return nil
		})
		if err != nil {
			return nil, 0, err
		}
	}

	return sources, total, nil
}
