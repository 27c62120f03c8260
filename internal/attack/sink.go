package attack

import (
	"fmt"
	"hash"
	"os"
	"sync"

	sha256simd "github.com/minio/sha256-simd"

	"github.com/dansarie/socracked-go/internal/crackerr"
)

// Sink is the single append-only writer for verified candidate keys. All
// state is guarded by one mutex, mirroring the original's write_lock but
// covering only the output file, found-count, and running checksum rather
// than the whole process.
type Sink struct {
	mu      sync.Mutex
	file    *os.File
	digest  hash.Hash
	found   uint64
	lastKey uint64
	path    string
}

// NewSink opens path for append, creating it if necessary, and prepares a
// running SHA-256 checksum of the file's contents, seeded with whatever the
// file already held.
func NewSink(path string) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, crackerr.New(crackerr.IoError, "open output file", err)
	}
	existing, err := os.ReadFile(path)
	if err != nil {
		f.Close()
		return nil, crackerr.New(crackerr.IoError, "read output file", err)
	}
	digest := sha256simd.New()
	digest.Write(existing)
	return &Sink{file: f, path: path, digest: digest}, nil
}

// Emit appends key as a 14-hex-digit line and updates the found-count and
// running checksum, all under the same lock. Returns an error only on an
// underlying write failure; the caller treats that as fatal to the whole
// run, since the output file is the single source of truth for results.
func (s *Sink) Emit(key uint64) error {
	line := FormatKey(key) + "\n"
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.file.WriteString(line); err != nil {
		return crackerr.New(crackerr.IoError, "write result", err)
	}
	if err := s.file.Sync(); err != nil {
		return crackerr.New(crackerr.IoError, "flush result", err)
	}
	s.digest.Write([]byte(line))
	s.found++
	s.lastKey = key
	return nil
}

// Found returns the number of keys emitted so far.
func (s *Sink) Found() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.found
}

// LastKey returns the most recently emitted key, or zero if none has been
// emitted yet.
func (s *Sink) LastKey() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastKey
}

// Close flushes and closes the output file, then writes a "<path>.sha256"
// sidecar in the same format sha256sum emits, so a downstream consumer can
// detect truncation or corruption of the result file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.file.Close(); err != nil {
		return crackerr.New(crackerr.IoError, "close output file", err)
	}
	sum := s.digest.Sum(nil)
	sidecar := s.path + ".sha256"
	line := fmt.Sprintf("%x  %s\n", sum, s.path)
	if err := os.WriteFile(sidecar, []byte(line), 0644); err != nil {
		return crackerr.New(crackerr.IoError, "write checksum sidecar", err)
	}
	return nil
}
