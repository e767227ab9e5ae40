// Package tail adapts ring.Buffer to byte streams.
package tail

import (
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tinovyatkin/tailring/ring"
)

// Writer is an io.Writer that retains only the tail of what is written to it.
// Input is decoded as UTF-8: a rune split across two writes is reassembled,
// and invalid bytes are replaced with U+FFFD.
// It is safe for concurrent use.
type Writer struct {
	mu      sync.Mutex
	buf     *ring.Buffer
	pending []byte // incomplete rune from the previous write
	written int64
}

// Stats describes how much has passed through a Writer.
type Stats struct {
	// Written is the number of bytes accepted by Write.
	Written int64 `json:"written"`
	// Retained is the number of bytes currently held.
	Retained int `json:"retained"`
	// Discarding reports whether the buffer is skipping the rest of a
	// truncated line.
	Discarding bool `json:"discarding"`
}

// NewWriter returns a Writer keeping at most maxSize bytes.
func NewWriter(maxSize int, g ring.Granularity) *Writer {
	if maxSize < 0 {
		maxSize = 0
	}
	return &Writer{
		buf:     ring.New(maxSize, g),
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

// Write pushes p into the buffer. It always consumes all of p.
func (w *Writer) Write(p []byte) (int, error) {
	n := len(p)
	if n == 0 {
		return 0, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.written += int64(n)
	if len(w.pending) > 0 {
		joined := make([]byte, 0, len(w.pending)+n)
		joined = append(joined, w.pending...)
		p = append(joined, p...)
		w.pending = w.pending[:0]
	}

	cut := incompleteSuffix(p)
	w.pending = append(w.pending, p[cut:]...)
	w.push(p[:cut])
	return n, nil
}

// WriteString is like Write but avoids a copy when s is already complete.
func (w *Writer) WriteString(s string) (int, error) {
	w.mu.Lock()
	if len(w.pending) == 0 && utf8.ValidString(s) {
		w.written += int64(len(s))
		w.buf.Push(s)
		w.mu.Unlock()
		return len(s), nil
	}
	w.mu.Unlock()
	return w.Write([]byte(s))
}

// Flush stores a trailing incomplete rune, if any, as U+FFFD. Call it once
// the input has ended.
func (w *Writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.pending) > 0 {
		w.pending = w.pending[:0]
		w.buf.Push(string(utf8.RuneError))
	}
}

// Reset drops all retained content and counters.
func (w *Writer) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Clear()
	w.pending = w.pending[:0]
	w.written = 0
}

func (w *Writer) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

// WriteTo writes the retained content to dst.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.WriteTo(dst)
}

// Stats returns the current counters.
func (w *Writer) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Stats{
		Written:    w.written,
		Retained:   w.buf.Len(),
		Discarding: w.buf.Discarding(),
	}
}

func (w *Writer) push(p []byte) {
	if len(p) == 0 {
		return
	}
	if utf8.Valid(p) {
		w.buf.Push(string(p))
		return
	}
	w.buf.Push(strings.ToValidUTF8(string(p), string(utf8.RuneError)))
}

// incompleteSuffix returns the offset of a trailing rune that is cut short,
// or len(p) if p ends on a complete rune. Invalid bytes count as complete.
func incompleteSuffix(p []byte) int {
	for i := len(p) - 1; i >= 0 && i >= len(p)-(utf8.UTFMax-1); i-- {
		if !utf8.RuneStart(p[i]) {
			continue
		}
		if !utf8.FullRune(p[i:]) {
			return i
		}
		break
	}
	return len(p)
}
