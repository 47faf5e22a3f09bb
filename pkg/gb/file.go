package gb

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/morozRed/gbgraph/pkg/errs"
	"github.com/morozRed/gbgraph/pkg/graph"
)

// Compression is the stream codec wrapping a GraphBase file.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
	CompressionSnappy
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionSnappy:
		return "snappy"
	default:
		return "none"
	}
}

// CompressionFor picks the codec from the file extension: .gz, .zst or .sz.
func CompressionFor(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return CompressionGzip
	case ".zst":
		return CompressionZstd
	case ".sz":
		return CompressionSnappy
	default:
		return CompressionNone
	}
}

// IsGraphFile reports whether path names a GraphBase file, compressed or not.
func IsGraphFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	if CompressionFor(base) != CompressionNone {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return filepath.Ext(base) == ".gb"
}

// ReadFile reads the graph stored at path.
func ReadFile(path string, opts ...Option) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError(path, err, "failed to open")
	}
	defer f.Close()

	r, err := decompress(f, CompressionFor(path))
	if err != nil {
		return nil, ioError(path, err, "failed to open compressed stream")
	}
	defer r.Close()

	return Read(r, path, opts...)
}

// WriteFile writes g to path, replacing any existing file atomically.
func WriteFile(g *graph.Graph, path string, opts ...Option) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ioError(path, err, "failed to create directory")
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	f, err := os.Create(tmp)
	if err != nil {
		return ioError(path, err, "failed to create")
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	w, err := compress(f, CompressionFor(path))
	if err != nil {
		return ioError(path, err, "failed to open compressed stream")
	}
	if err := Write(w, g, opts...); err != nil {
		_ = w.Close()
		return errs.Locate(err, path, 0)
	}
	if err := w.Close(); err != nil {
		return ioError(path, err, "failed to finish compressed stream")
	}
	if err := f.Close(); err != nil {
		return ioError(path, err, "failed to close")
	}
	if err := os.Rename(tmp, path); err != nil {
		return ioError(path, err, "failed to replace")
	}
	return nil
}

func ioError(path string, err error, msg string) error {
	e := errs.Wrap(errs.TypeIO, err, "%s", msg)
	e.File = path
	return e
}

func decompress(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionGzip:
		return gzip.NewReader(r)
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case CompressionSnappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func compress(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionZstd:
		return zstd.NewWriter(w)
	case CompressionSnappy:
		return snappy.NewBufferedWriter(w), nil
	default:
		return nopWriteCloser{w}, nil
	}
}
