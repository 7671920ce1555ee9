// Package buffer owns the raw document text and its line index.
//
// Offsets are rune offsets. Size() is always a valid position (just past the
// last character) but never a readable character. Every mutation rebuilds the
// line index in full and then notifies listeners synchronously, in
// registration order.
package buffer

import (
	"errors"
	"fmt"

	"github.com/kobzarvs/qcore/internal/logger"
)

// Terminator is returned by At for the one-past-end offset.
const Terminator rune = 0

var ErrOutOfRange = errors.New("offset out of range")

type Slice struct {
	Start int
	End   int
}

func (s Slice) Len() int { return s.End - s.Start }

func (s Slice) Empty() bool { return s.Start == s.End }

// Contains reports whether off lies in [Start, End).
func (s Slice) Contains(off int) bool { return off >= s.Start && off < s.End }

type Coord struct {
	Row int
	Col int
}

// Listener is notified after every effective mutation of a Buffer.
type Listener interface {
	BufferChanged(b *Buffer)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(b *Buffer)

func (f ListenerFunc) BufferChanged(b *Buffer) { f(b) }

type Buffer struct {
	data      []rune
	lines     []Slice
	listeners []Listener
	notifying bool
	version   uint64
}

func New() *Buffer {
	b := &Buffer{}
	b.lines = computeLines(b.data)
	return b
}

// AddListener appends l to the notification chain. A listener that depends on
// another listener's derived state must be added after it. Adding a listener
// from inside a notification is a programming error and panics.
func (b *Buffer) AddListener(l Listener) {
	if b.notifying {
		logger.Panic("buffer: AddListener called during notification")
	}
	b.listeners = append(b.listeners, l)
}

func (b *Buffer) Size() int { return len(b.data) }

func (b *Buffer) Version() uint64 { return b.version }

func (b *Buffer) Text() string { return string(b.data) }

// Substring returns the text in [start, end).
func (b *Buffer) Substring(start, end int) string {
	if start < 0 || end < start || end > len(b.data) {
		panic(fmt.Sprintf("buffer: substring [%d,%d) out of range [0,%d]", start, end, len(b.data)))
	}
	return string(b.data[start:end])
}

// At returns the rune at offset. Offset Size() yields Terminator.
func (b *Buffer) At(offset int) rune {
	if offset < 0 || offset > len(b.data) {
		panic(fmt.Sprintf("buffer: offset %d out of range [0,%d]", offset, len(b.data)))
	}
	if offset == len(b.data) {
		return Terminator
	}
	return b.data[offset]
}

func (b *Buffer) InsertText(index int, text string) error {
	if index < 0 || index > len(b.data) {
		return fmt.Errorf("insert at %d (size %d): %w", index, len(b.data), ErrOutOfRange)
	}
	if text == "" {
		return nil
	}
	ins := []rune(text)
	data := make([]rune, 0, len(b.data)+len(ins))
	data = append(data, b.data[:index]...)
	data = append(data, ins...)
	data = append(data, b.data[index:]...)
	b.data = data
	logger.Debug("buffer insert", "index", index, "runes", len(ins))
	b.changed()
	return nil
}

func (b *Buffer) RemoveText(index, count int) error {
	if count == 0 {
		return nil
	}
	if index < 0 || count < 0 || index+count > len(b.data) {
		return fmt.Errorf("remove %d at %d (size %d): %w", count, index, len(b.data), ErrOutOfRange)
	}
	b.data = append(b.data[:index:index], b.data[index+count:]...)
	logger.Debug("buffer remove", "index", index, "count", count)
	b.changed()
	return nil
}

// SetText replaces the whole document. It is not undoable and always notifies.
func (b *Buffer) SetText(text string) {
	b.data = []rune(text)
	logger.Debug("buffer set text", "runes", len(b.data))
	b.changed()
}

func (b *Buffer) changed() {
	b.lines = computeLines(b.data)
	b.version++
	b.notifying = true
	defer func() { b.notifying = false }()
	for _, l := range b.listeners {
		l.BufferChanged(b)
	}
}

// LineText returns line i without its terminator.
func (b *Buffer) LineText(i int) string {
	l := b.GetLine(i)
	return string(b.data[l.Start:l.End])
}

// Lines returns the lines as strings, for tests and debugging.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		out[i] = string(b.data[l.Start:l.End])
	}
	return out
}

func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer{size=%d lines=%d}", len(b.data), len(b.lines))
}
