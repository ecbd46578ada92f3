package transport

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/zstd"

	"github.com/jsonstream/jsonstream"
)

// defaultReadSize is the bounded read used per decompression step, so a
// compacting incremental parser never has to buffer the whole decompressed
// payload at once.
const defaultReadSize = 32 * 1024

// ZstdSource decompresses a zstd-compressed byte stream incrementally and
// absorbs the decompressed bytes into a Parser in bounded-size reads,
// driven off a streaming io.Reader rather than a single DecodeAll call so
// arbitrarily large payloads never need to be held in memory whole.
type ZstdSource[V any] struct {
	dec      *zstd.Decoder
	parser   *jsonstream.Parser[V]
	logger   hclog.Logger
	readSize int
}

// NewZstdSource wraps r, a zstd-compressed stream, decompressing into
// parser as bytes are read. logger may be nil. readSize, if zero, defaults
// to defaultReadSize.
func NewZstdSource[V any](r io.Reader, parser *jsonstream.Parser[V], logger hclog.Logger, readSize int) (*ZstdSource[V], error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if readSize <= 0 {
		readSize = defaultReadSize
	}
	return &ZstdSource[V]{
		dec:      dec,
		parser:   parser,
		logger:   logger.Named("transport.zstd"),
		readSize: readSize,
	}, nil
}

// Run decompresses and absorbs the entire stream, calling Finish once the
// underlying reader is exhausted, and returns every value produced.
func (s *ZstdSource[V]) Run() ([]V, error) {
	defer s.dec.Close()
	buf := make([]byte, s.readSize)
	var all []V
	for {
		n, readErr := s.dec.Read(buf)
		if n > 0 {
			s.logger.Trace("decompressed chunk", "bytes", n)
			values, err := s.parser.Absorb(buf[:n])
			all = append(all, values...)
			if err != nil {
				return all, err
			}
		}
		if readErr == io.EOF {
			values, err := s.parser.Finish()
			return append(all, values...), err
		}
		if readErr != nil {
			return all, fmt.Errorf("zstd decompress: %w", readErr)
		}
	}
}
