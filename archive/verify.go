package archive

import (
	"context"
	"errors"
	"io"
)

func (a *Archiver) TestArchive(ctx context.Context, path string) (bool, error) {
	f, err := a.detect(ctx, path)
	switch {
	case errors.Is(err, ErrInvalidFormat):
		return false, nil
	case err != nil:
		return false, err
	}

	buf := make([]byte, a.opts.BufferSize)

	for m, err := range a.members(ctx, path, f) {
		if err == nil {
			err = ctx.Err()
		}
		if err == nil && m.regular() {
			err = readAll(ctx, m, buf)
		}

		switch {
		case err == nil:
		case isFatal(err):
			return false, err
		default:
			return false, nil
		}
	}

	return true, nil
}

// readAll reads the member to io.Discard which lets the decompressor verify checksums.
func readAll(ctx context.Context, m member, buf []byte) error {
	r, err := m.Open()
	if err != nil {
		return err
	}
	defer r.Close()

	_, err = copyBufferWithContext(ctx, io.Discard, r, buf)
	return err
}
