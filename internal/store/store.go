// internal/store/store.go
//
// Disk-backed spill store for combinatorial intermediate results.
// A Store owns a directory and one append-only Stream per record Kind.
//
// Characteristics:
//   - Append buffers records in memory; once the buffer holds more than the
//     threshold (default 1,000,000) it is flushed to the backing file as
//     newline-delimited text and cleared.
//   - ReadAll flushes what is still buffered and returns a forward-only Reader over
//     the file (write-then-read pipeline; never concurrent read/write on one stream).
//   - Backing files are deleted when a stream is first opened: a run never sees the
//     previous run's scratch data.
//   - Flush and read failures are returned to the caller, which aborts the run.
//     There is no partial-write recovery; everything here is recomputable.
//   - Optional zstd: every flush appends one zstd frame.

package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultThreshold is the buffered record count that triggers a flush.
const DefaultThreshold = 1_000_000

// ErrUnknownKind is returned for a stream kind the store does not know.
var ErrUnknownKind = errors.New("store: unknown stream kind")

// Kind names a record stream.
type Kind string

const (
	// WordIndexCombinations holds ordered word-index permutations ("3,0,7,1,2").
	WordIndexCombinations Kind = "word-index-combinations"
	// WordCombinations holds word lists ("ŠUPA,LUPA,...").
	WordCombinations Kind = "word-combinations"
	// SelectionCombinations holds "<indices>:<sel;sel;...>" summaries.
	SelectionCombinations Kind = "words-selection-combinations"
)

// Kinds lists every known stream kind.
var Kinds = []Kind{WordIndexCombinations, WordCombinations, SelectionCombinations}

// Compression selects the on-disk encoding of flushed records.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
)

// Option configures a Store.
type Option func(*Store)

// Threshold sets the buffered record count that triggers a flush.
func Threshold(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.threshold = n
		}
	}
}

// Compress selects the encoding of flushed records.
func Compress(c Compression) Option {
	return func(s *Store) { s.compression = c }
}

// Logger sets the logger.
func Logger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Store owns the spill streams of one run.
type Store struct {
	dir         string
	threshold   int
	compression Compression
	log         zerolog.Logger

	mu      sync.Mutex       // guards streams
	streams map[Kind]*Stream // opened lazily
}

// Open prepares dir (created if missing) for a run.
// An unwritable directory is a configuration error.
func Open(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("spill dir %s not writable: %w", dir, err)
	}
	tmp.Close()
	_ = os.Remove(tmp.Name())

	s := &Store{
		dir:         dir,
		threshold:   DefaultThreshold,
		compression: CompressionNone,
		log:         zerolog.Nop(),
		streams:     make(map[Kind]*Stream),
	}
	for _, o := range opts {
		o(s)
	}
	switch s.compression {
	case CompressionNone, CompressionZstd:
	default:
		return nil, fmt.Errorf("store: unknown compression %q", s.compression)
	}
	return s, nil
}

// Dir returns the store's directory.
func (s *Store) Dir() string { return s.dir }

// Stream returns the stream for kind, truncating its backing file on first use.
func (s *Store) Stream(kind Kind) (*Stream, error) {
	if !knownKind(kind) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.streams[kind]; ok {
		return st, nil
	}

	path := filepath.Join(s.dir, string(kind)+"-cache.txt")
	if s.compression == CompressionZstd {
		path += ".zst"
	}
	switch err := os.Remove(path); {
	case err == nil:
		s.log.Info().Str("file", path).Msg("spill file exists - deleted")
	case errors.Is(err, os.ErrNotExist):
		s.log.Debug().Str("file", path).Msg("spill file does not exist")
	default:
		return nil, fmt.Errorf("truncate %s: %w", path, err)
	}

	st := &Stream{
		kind:        kind,
		path:        path,
		threshold:   s.threshold,
		compression: s.compression,
		log:         s.log.With().Str("stream", string(kind)).Logger(),
	}
	s.streams[kind] = st
	return st, nil
}

// Flush flushes every opened stream.
func (s *Store) Flush() error {
	s.mu.Lock()
	streams := make([]*Stream, 0, len(s.streams))
	for _, st := range s.streams {
		streams = append(streams, st)
	}
	s.mu.Unlock()

	for _, st := range streams {
		if err := st.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func knownKind(k Kind) bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}
