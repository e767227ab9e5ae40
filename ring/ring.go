// Package ring implements a fixed-capacity circular buffer for UTF-8 text.
//
// A Buffer keeps only the most recent content of a stream of strings, up to a
// byte budget set at construction. When an append would exceed the budget,
// the oldest content is evicted, either character by character or whole lines
// at a time (see Granularity). The retained content is always valid UTF-8.
//
// Pushing a followed by b always leaves the buffer in the same state as
// pushing a+b. Under Line granularity this means a line truncated by
// eviction keeps being discarded across pushes until its '\n' arrives.
//
// A Buffer is not safe for concurrent use.
package ring

import (
	"bytes"
	"io"
	"iter"
	"slices"
	"strings"
	"unicode/utf8"
)

type state uint8

const (
	stateNormal state = iota
	// stateDiscarding drops input up to and including the next '\n'. The
	// buffer is empty while in this state.
	stateDiscarding
)

// Buffer is a circular string buffer with a fixed maximum size in bytes.
type Buffer struct {
	data        []byte // backing array, len(data) is the capacity
	head        int    // index of the oldest byte
	n           int    // number of bytes stored
	granularity Granularity
	state       state
}

// New returns an empty Buffer holding at most maxSize bytes.
//
// A zero maxSize yields a buffer that discards everything pushed to it.
// New panics if maxSize is negative.
func New(maxSize int, g Granularity) *Buffer {
	if maxSize < 0 {
		panic("ring: negative buffer size")
	}
	return &Buffer{
		data:        make([]byte, maxSize),
		granularity: g,
	}
}

// Len returns the number of bytes stored.
func (b *Buffer) Len() int { return b.n }

// IsEmpty reports whether the buffer holds no content.
func (b *Buffer) IsEmpty() bool { return b.n == 0 }

// MaxSize returns the capacity in bytes.
func (b *Buffer) MaxSize() int { return len(b.data) }

// Granularity returns the eviction granularity.
func (b *Buffer) Granularity() Granularity { return b.granularity }

// Discarding reports whether the buffer is skipping input until the end of a
// line that was truncated by eviction. Only possible under Line granularity.
func (b *Buffer) Discarding() bool { return b.state == stateDiscarding }

// Clear removes all content and returns the buffer to its initial state.
func (b *Buffer) Clear() {
	b.truncate()
	b.state = stateNormal
}

// Slices returns the stored content as two runs without copying. The runs
// are not necessarily valid UTF-8 on their own, but head followed by tail
// always is. tail is nil unless the content wraps around the backing array.
func (b *Buffer) Slices() (head, tail []byte) {
	end := b.head + b.n
	if end <= len(b.data) {
		return b.data[b.head:end], nil
	}
	return b.data[b.head:], b.data[:end-len(b.data)]
}

// MakeContiguous rearranges the backing array so the content is a single run
// and returns it. The returned slice aliases the buffer and is invalidated by
// the next Push or Clear.
func (b *Buffer) MakeContiguous() []byte {
	if b.head+b.n > len(b.data) {
		// Rotate left by head.
		slices.Reverse(b.data[:b.head])
		slices.Reverse(b.data[b.head:])
		slices.Reverse(b.data)
		b.head = 0
	}
	out := b.data[b.head : b.head+b.n]
	if !utf8.Valid(out) {
		panic("ring: buffer holds invalid UTF-8")
	}
	return out
}

// String returns a copy of the content.
func (b *Buffer) String() string {
	head, tail := b.Slices()
	var sb strings.Builder
	sb.Grow(b.n)
	sb.Write(head)
	sb.Write(tail)
	return sb.String()
}

// WriteTo writes the content to w. It implements io.WriterTo.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	head, tail := b.Slices()
	n, err := w.Write(head)
	if err != nil || len(tail) == 0 {
		return int64(n), err
	}
	m, err := w.Write(tail)
	return int64(n + m), err
}

// Push appends s, evicting old content as needed to stay within MaxSize.
func (b *Buffer) Push(s string) {
	for done := false; !done; {
		s, done = b.step(s)
	}
}

// step runs one transition of the push state machine. It consumes a prefix of
// s (possibly evicting stored content) and returns the unconsumed rest. done
// is set once s has been fully stored or discarded. A push completes in at
// most four steps.
func (b *Buffer) step(s string) (rest string, done bool) {
	if b.state == stateDiscarding {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			return "", true
		}
		b.state = stateNormal
		s = s[i+1:]
	}

	quota := b.n + len(s) - len(b.data)
	switch {
	case quota <= 0:
		b.write(s)
		return "", true

	case b.n == 0:
		cut := quota + BoundaryOffset(stringBytes(s[quota:]))
		b.evictedThrough(s[cut-1])
		return s[cut:], false

	case quota >= b.n:
		b.evictedThrough(b.at(b.n - 1))
		b.truncate()
		return s, false

	default:
		cut := quota + BoundaryOffset(b.bytesFrom(quota, s))
		last := b.at(cut - 1)
		b.drop(cut)
		if b.granularity == Line && last != '\n' {
			if i := b.indexByte('\n'); i >= 0 {
				b.drop(i + 1)
			} else {
				b.truncate()
				b.state = stateDiscarding
			}
		}
		return s, false
	}
}

// evictedThrough records that eviction stopped right after last. Under Line
// granularity, stopping mid-line means the rest of that line is owed.
func (b *Buffer) evictedThrough(last byte) {
	if b.granularity == Line && last != '\n' {
		b.state = stateDiscarding
	}
}

func (b *Buffer) wrap(i int) int {
	if i >= len(b.data) {
		return i - len(b.data)
	}
	return i
}

func (b *Buffer) at(i int) byte { return b.data[b.wrap(b.head+i)] }

// write appends s; the caller guarantees it fits.
func (b *Buffer) write(s string) {
	if len(s) == 0 {
		return
	}
	end := b.wrap(b.head + b.n)
	k := copy(b.data[end:], s)
	copy(b.data, s[k:])
	b.n += len(s)
}

// drop removes the oldest k bytes.
func (b *Buffer) drop(k int) {
	b.n -= k
	if b.n == 0 {
		b.head = 0
		return
	}
	b.head = b.wrap(b.head + k)
}

func (b *Buffer) truncate() {
	b.head = 0
	b.n = 0
}

func (b *Buffer) indexByte(c byte) int {
	head, tail := b.Slices()
	if i := bytes.IndexByte(head, c); i >= 0 {
		return i
	}
	if i := bytes.IndexByte(tail, c); i >= 0 {
		return len(head) + i
	}
	return -1
}

// bytesFrom yields the logical concatenation of the content and s, starting
// at offset off.
func (b *Buffer) bytesFrom(off int, s string) iter.Seq[byte] {
	return func(yield func(byte) bool) {
		for i := off; i < b.n; i++ {
			if !yield(b.at(i)) {
				return
			}
		}
		for i := max(off-b.n, 0); i < len(s); i++ {
			if !yield(s[i]) {
				return
			}
		}
	}
}
