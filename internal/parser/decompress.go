package parser

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// openDemo opens path for reading. Compressed demos (.zst, .bz2, .gz) are
// inflated into a temporary file so the hash matches the plain .dem and the
// result is seekable. cleanup closes and removes whatever was opened.
func openDemo(path string) (f *os.File, cleanup func(), err error) {
	src, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open demo: %w", err)
	}

	var r io.Reader
	switch {
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(src)
		if err != nil {
			src.Close()
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		r = dec
	case strings.HasSuffix(path, ".bz2"):
		r = bzip2.NewReader(src)
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(src)
		if err != nil {
			src.Close()
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		r = gz
	default:
		return src, func() { src.Close() }, nil
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "csmap-*.dem")
	if err != nil {
		return nil, nil, fmt.Errorf("create temp demo: %w", err)
	}
	cleanup = func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}
	if _, err := io.Copy(tmp, r); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("decompress %s: %w", path, err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("seek demo: %w", err)
	}
	return tmp, cleanup, nil
}
