package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
)

// maxRecordSize bounds one line on read-back.
const maxRecordSize = 16 << 20

// Stream is an append-only record sink bound to one backing file.
// Append and Flush are safe for concurrent use.
type Stream struct {
	kind        Kind
	path        string
	threshold   int
	compression Compression
	log         zerolog.Logger

	mu       sync.Mutex // guards everything below
	buf      []string
	appended int64
	flushed  int64
	bytes    int64
}

// Append buffers record, flushing once more than threshold records are buffered.
func (s *Stream) Append(record string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, record)
	s.appended++
	if len(s.buf) > s.threshold {
		return s.flushLocked()
	}
	return nil
}

// Flush writes every buffered record to the backing file.
func (s *Stream) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *Stream) flushLocked() error {
	if len(s.buf) == 0 {
		return nil
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("flush %s: %w", s.kind, err)
	}

	cw := &countingWriter{w: f}
	var (
		sink io.Writer = cw
		enc  *zstd.Encoder
	)
	if s.compression == CompressionZstd {
		if enc, err = zstd.NewWriter(cw); err != nil {
			f.Close()
			return fmt.Errorf("flush %s: create zstd encoder: %w", s.kind, err)
		}
		sink = enc
	}

	w := bufio.NewWriterSize(sink, 1<<20)
	for _, rec := range s.buf {
		if _, err = w.WriteString(rec); err == nil {
			err = w.WriteByte('\n')
		}
		if err != nil {
			break
		}
	}
	if err == nil {
		err = w.Flush()
	}
	if enc != nil {
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("flush %s: %w", s.kind, err)
	}

	s.flushed += int64(len(s.buf))
	s.bytes += cw.n
	s.log.Debug().
		Int("records", len(s.buf)).
		Str("written", humanize.Bytes(uint64(cw.n))).
		Str("total", humanize.Bytes(uint64(s.bytes))).
		Msg("spill flushed")
	s.buf = s.buf[:0]
	return nil
}

// Len returns the number of records appended so far.
func (s *Stream) Len() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appended
}

// Flushed returns the number of records written to disk so far.
func (s *Stream) Flushed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushed
}

// Size returns the bytes written to the backing file so far.
func (s *Stream) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytes
}

// Buffered returns the number of records waiting for a flush.
func (s *Stream) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf)
}

// Path returns the backing file.
func (s *Stream) Path() string { return s.path }

// ReadAll flushes pending records and opens a single-pass reader over the stream.
// A stream that never flushed reads as empty.
func (s *Stream) ReadAll() (*Reader, error) {
	if err := s.Flush(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Reader{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.kind, err)
	}

	r := &Reader{f: f}
	var src io.Reader = f
	if s.compression == CompressionZstd {
		if r.dec, err = zstd.NewReader(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("read %s: create zstd decoder: %w", s.kind, err)
		}
		src = r.dec
	}
	r.sc = bufio.NewScanner(src)
	r.sc.Buffer(make([]byte, 64*1024), maxRecordSize)
	return r, nil
}

// Reader iterates the records of a stream, one line at a time.
//
//	r, err := st.ReadAll()
//	...
//	defer r.Close()
//	for r.Next() {
//		use(r.Record())
//	}
//	if err := r.Err(); err != nil { ... }
type Reader struct {
	f   *os.File
	dec *zstd.Decoder
	sc  *bufio.Scanner
	rec string
}

// Next advances to the next record.
func (r *Reader) Next() bool {
	if r.sc == nil || !r.sc.Scan() {
		return false
	}
	r.rec = r.sc.Text()
	return true
}

// Record returns the current record.
func (r *Reader) Record() string { return r.rec }

// Err returns the first read error, if any.
func (r *Reader) Err() error {
	if r.sc == nil {
		return nil
	}
	return r.sc.Err()
}

// Close releases the backing file.
func (r *Reader) Close() error {
	if r.dec != nil {
		r.dec.Close()
	}
	if r.f == nil {
		return nil
	}
	return r.f.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
