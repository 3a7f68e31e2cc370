package archive

import (
	"context"
	"fmt"
)

func (a *Archiver) IsArchive(ctx context.Context, path string) (bool, error) {
	f, err := DetectFormat(ctx, path)
	return f != FormatUnknown, err
}

func (a *Archiver) Capabilities(ctx context.Context, path string) (Capabilities, error) {
	f, err := a.detect(ctx, path)
	if err != nil {
		return Capabilities{}, err
	}

	return f.Capabilities(), nil
}

func (a *Archiver) ListEntries(ctx context.Context, path string) ([]Entry, error) {
	f, err := a.detect(ctx, path)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0)
	for m, err := range a.members(ctx, path, f) {
		if err != nil {
			if len(entries) == 0 && !isFatal(err) {
				return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
			}

			return nil, err
		}

		if err = ctx.Err(); err != nil {
			return nil, err
		}

		if e := m.entry(); e.Path != "" {
			entries = append(entries, e)
		}
	}

	return entries, nil
}
