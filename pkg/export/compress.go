package export

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// Codec is an optional compression layer chosen from the destination suffix.
type Codec string

const (
	CodecNone   Codec = ""
	CodecGzip   Codec = "gzip"
	CodecZstd   Codec = "zstd"
	CodecBrotli Codec = "br"
	CodecLZ4    Codec = "lz4"
	CodecSnappy Codec = "snappy"
)

var codecSuffixes = map[string]Codec{
	".gz":  CodecGzip,
	".zst": CodecZstd,
	".br":  CodecBrotli,
	".lz4": CodecLZ4,
	".sz":  CodecSnappy,
}

// CodecFor picks the codec for dest and returns dest without the
// compression suffix.
func CodecFor(dest string) (Codec, string) {
	ext := strings.ToLower(path.Ext(dest))
	if c, ok := codecSuffixes[ext]; ok {
		return c, strings.TrimSuffix(dest, dest[len(dest)-len(ext):])
	}
	return CodecNone, dest
}

// ContentEncoding is the HTTP Content-Encoding value for the codec, if any.
func (c Codec) ContentEncoding() string {
	switch c {
	case CodecGzip, CodecZstd, CodecBrotli:
		return string(c)
	}
	return ""
}

// compressWriter wraps w in the codec's writer. Closing the result flushes
// the codec and then commits w; Abort discards w.
func compressWriter(w sink, c Codec) (sink, error) {
	var cw io.WriteCloser
	switch c {
	case CodecNone:
		return w, nil
	case CodecGzip:
		cw = gzip.NewWriter(w)
	case CodecZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		cw = zw
	case CodecBrotli:
		cw = brotli.NewWriterLevel(w, brotli.DefaultCompression)
	case CodecLZ4:
		cw = lz4.NewWriter(w)
	case CodecSnappy:
		cw = snappy.NewBufferedWriter(w)
	default:
		return nil, fmt.Errorf("unsupported codec: %q", c)
	}
	return &chainSink{WriteCloser: cw, next: w}, nil
}

type chainSink struct {
	io.WriteCloser
	next sink
}

func (c *chainSink) Close() error {
	if err := c.WriteCloser.Close(); err != nil {
		_ = c.next.Abort()
		return err
	}
	return c.next.Close()
}

func (c *chainSink) Abort() error {
	// release the codec's resources; its output is thrown away
	_ = c.WriteCloser.Close()
	return c.next.Abort()
}

// decompressReader is the read side of compressWriter. Closing the result
// releases the codec but not r.
func decompressReader(r io.Reader, c Codec) (io.ReadCloser, error) {
	switch c {
	case CodecNone:
		return io.NopCloser(r), nil
	case CodecGzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gr, nil
	case CodecZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return zr.IOReadCloser(), nil
	case CodecBrotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	case CodecLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CodecSnappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	}
	return nil, fmt.Errorf("unsupported codec: %q", c)
}
