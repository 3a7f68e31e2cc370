package codec

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// Gzip implements Codec for gzip compression algorithm.
type Gzip struct {
	// Level is the compression level passed to gzip.NewWriterLevel.
	//
	// The zero value means gzip.DefaultCompression rather than gzip.NoCompression.
	Level int
}

var _ Codec = Gzip{}

func (c Gzip) NewDecoder(src io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(src)
}

func (c Gzip) NewEncoder(dst io.Writer) (io.WriteCloser, error) {
	if c.Level == 0 {
		return gzip.NewWriterLevel(dst, gzip.DefaultCompression)
	}

	return gzip.NewWriterLevel(dst, c.Level)
}

func (c Gzip) Ext() string {
	return ".gz"
}
