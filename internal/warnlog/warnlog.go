// Package warnlog is the injectable warning sink the elf reader uses for
// non-fatal conditions (malformed padding, unknown-but-reserved enumerant
// codes, a section type that fell back to ProgBits).
package warnlog

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// Sink receives a formatted warning.  Implementations must be safe for
// concurrent use, since a single Sink may be shared across parses running
// on different goroutines.
type Sink interface {
	Warnf(format string, args ...any)
}

// stdSink wraps a stdlib *log.Logger.  log.Logger serializes its own
// writes, so stdSink needs no additional locking.
type stdSink struct {
	logger *log.Logger
}

func (s *stdSink) Warnf(format string, args ...any) {
	s.logger.Printf("warning: "+format, args...)
}

// Default returns the package's default sink, which writes to stderr.
func Default() Sink {
	return &stdSink{logger: log.New(os.Stderr, "", log.LstdFlags)}
}

// New wraps an arbitrary *log.Logger as a Sink.
func New(logger *log.Logger) Sink {
	return &stdSink{logger: logger}
}

// discard is a Sink that drops every warning.
type discard struct{}

func (discard) Warnf(string, ...any) {}

// Discard is a Sink that silently drops all warnings.
var Discard Sink = discard{}

// Recording is a Sink that accumulates formatted messages, for tests that
// assert on which warnings a parse emitted.
type Recording struct {
	mu       sync.Mutex
	Messages []string
}

func (r *Recording) Warnf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}
