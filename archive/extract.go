package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// errIllegalPath is returned for entries whose path would escape the destination directory.
var errIllegalPath = errors.New("illegal path")

func (a *Archiver) ExtractAll(ctx context.Context, path, destination string, progress ProgressFunc) error {
	return a.extract(ctx, path, destination, nil, progress)
}

func (a *Archiver) ExtractEntries(ctx context.Context, path string, entryPaths []string, destination string, progress ProgressFunc) error {
	if len(entryPaths) == 0 {
		return nil
	}

	return a.extract(ctx, path, destination, a.matcher(entryPaths), progress)
}

// extract extracts the entries selected by match (nil selects everything) to the dir directory.
//
// Files that have been extracted before an error or cancellation are left as-is.
func (a *Archiver) extract(ctx context.Context, name, dir string, match func(string) bool, progress ProgressFunc) error {
	f, err := a.detect(ctx, name)
	if err != nil {
		return err
	}

	// the first pass counts the entries and bytes to be extracted for progress report.
	var (
		n     int
		total int64
	)
	for m, err := range a.members(ctx, name, f) {
		if err != nil {
			return err
		}

		if e := m.entry(); e.Path != "" && (match == nil || match(e.Path)) {
			n++
			total += e.Size
		}
	}

	if err = os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf(`create directory "%s" error: %w`, dir, err)
	}

	var (
		tracker = newProgressTracker(progress, n, total)
		buf     = make([]byte, a.opts.BufferSize)
		last    string
	)
	for m, err := range a.members(ctx, name, f) {
		if err != nil {
			return err
		}

		if err = ctx.Err(); err != nil {
			return err
		}

		e := m.entry()
		if e.Path == "" || match != nil && !match(e.Path) {
			continue
		}

		tracker.start(e.Path)
		if err = a.extractMember(ctx, dir, m, e, buf); err != nil {
			return &EntryError{Op: "extract", Path: e.Path, Err: err}
		}
		tracker.advance(e.Path, e.Size)
		last = e.Path
	}

	tracker.finish(last)
	return nil
}

// extractMember writes one member to its path under dir.
//
// Links and other special files are skipped.
func (a *Archiver) extractMember(ctx context.Context, dir string, m member, e Entry, buf []byte) error {
	target, err := safeJoin(dir, e.Path)
	if err != nil {
		return err
	}

	if e.IsDir {
		return os.MkdirAll(target, 0755)
	}
	if !m.regular() {
		return nil
	}

	if err = os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	perm := m.mode().Perm()
	if perm == 0 {
		perm = 0644
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if a.opts.NoOverwrite {
		flag = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	w, err := os.OpenFile(target, flag, perm)
	if err != nil {
		if a.opts.NoOverwrite && errors.Is(err, fs.ErrExist) {
			return nil
		}

		return err
	}

	r, err := m.Open()
	if err != nil {
		_ = w.Close()
		return err
	}

	_, err = copyBufferWithContext(ctx, w, r, buf)
	_ = r.Close()
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	if !e.LastModified.IsZero() {
		if err = os.Chtimes(target, time.Time{}, e.LastModified); err != nil {
			return fmt.Errorf("change mod time error: %w", err)
		}
	}

	return nil
}

// safeJoin joins the archive path to dir, returning errIllegalPath if the result is not inside dir.
func safeJoin(dir, p string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(p))

	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errIllegalPath
	}

	return target, nil
}
