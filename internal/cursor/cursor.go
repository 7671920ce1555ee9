// Package cursor implements the multi-cursor model over a buffer.
//
// Cursors is a value type. Every command returns a new Cursors and never
// writes through to the receiver's storage, so snapshots kept by the edit
// history stay exactly as they were captured.
package cursor

import (
	"time"

	"github.com/kobzarvs/qcore/internal/buffer"
)

const DefaultBlinkInterval = 530 * time.Millisecond

// Cursor is one edit point. When Selecting is set, the selection spans from
// Anchor to Index in either direction.
type Cursor struct {
	Index      int
	Anchor     int
	Selecting  bool
	DesiredCol int
}

// At returns a cursor without selection at offset.
func At(offset int) Cursor {
	return Cursor{Index: offset, Anchor: offset}
}

// Selection returns the normalized selected range. ok is false when nothing
// is selected.
func (c Cursor) Selection() (buffer.Slice, bool) {
	if !c.Selecting || c.Anchor == c.Index {
		return buffer.Slice{Start: c.Index, End: c.Index}, false
	}
	if c.Anchor < c.Index {
		return buffer.Slice{Start: c.Anchor, End: c.Index}, true
	}
	return buffer.Slice{Start: c.Index, End: c.Anchor}, true
}

func (c Cursor) HasSelection() bool {
	_, ok := c.Selection()
	return ok
}

// span is the selected range, or the empty range at the caret.
func (c Cursor) span() buffer.Slice {
	s, _ := c.Selection()
	return s
}

func (c Cursor) samePosition(o Cursor) bool {
	if c.Index != o.Index || c.HasSelection() != o.HasSelection() {
		return false
	}
	return !c.HasSelection() || c.Anchor == o.Anchor
}

// Cursors is the ordered cursor collection plus the shared blink clock.
// Index 0 is the primary cursor.
type Cursors struct {
	list     []Cursor
	elapsed  time.Duration
	interval time.Duration
}

// New returns a single cursor at offset 0.
func New() Cursors {
	return Cursors{list: []Cursor{At(0)}, interval: DefaultBlinkInterval}
}

// FromList builds a collection from list. An empty list yields New().
func FromList(list ...Cursor) Cursors {
	return New().Replace(list)
}

func (c Cursors) Len() int { return len(c.list) }

func (c Cursors) At(i int) Cursor { return c.list[i] }

func (c Cursors) Primary() Cursor { return c.list[0] }

// All returns a copy of the cursors.
func (c Cursors) All() []Cursor {
	out := make([]Cursor, len(c.list))
	copy(out, c.list)
	return out
}

// Replace returns a collection holding list with duplicates merged and the
// blink clock reset. An empty list collapses to one cursor at 0.
func (c Cursors) Replace(list []Cursor) Cursors {
	if len(list) == 0 {
		list = []Cursor{At(0)}
	}
	next := c
	next.list = make([]Cursor, len(list))
	copy(next.list, list)
	next.normalize()
	return next.resetBlink()
}

// SamePositions reports whether both collections hold the same carets and
// selections in the same order. Desired columns and blink state are ignored.
func (c Cursors) SamePositions(o Cursors) bool {
	if len(c.list) != len(o.list) {
		return false
	}
	for i := range c.list {
		if !c.list[i].samePosition(o.list[i]) {
			return false
		}
	}
	return true
}

// HasSelection reports whether any cursor has a non-empty selection.
func (c Cursors) HasSelection() bool {
	for _, cur := range c.list {
		if cur.HasSelection() {
			return true
		}
	}
	return false
}

// ClearMultiCursors collapses the collection back to the primary cursor.
func (c Cursors) ClearMultiCursors() Cursors {
	return c.Replace(c.list[:1])
}

// SetPrimary makes cursor i the primary one, keeping the others in order.
func (c Cursors) SetPrimary(i int) Cursors {
	if i <= 0 || i >= len(c.list) {
		return c
	}
	list := make([]Cursor, 0, len(c.list))
	list = append(list, c.list[i])
	list = append(list, c.list[:i]...)
	list = append(list, c.list[i+1:]...)
	return c.Replace(list)
}

// SelectAll replaces every cursor with one selection over the whole buffer.
func (c Cursors) SelectAll(buf *buffer.Buffer) Cursors {
	size := buf.Size()
	cur := Cursor{Index: size, Anchor: 0, Selecting: size > 0}
	cur.DesiredCol = buf.IndexToCoord(size).Col
	return c.Replace([]Cursor{cur})
}

// normalize merges cursors that share a position or whose selections
// overlap. The earlier cursor survives, so the primary is never dropped.
func (c *Cursors) normalize() {
	kept := c.list[:0:0]
	for _, cur := range c.list {
		merged := false
		for i := range kept {
			if overlaps(kept[i], cur) {
				kept[i] = merge(kept[i], cur)
				merged = true
				break
			}
		}
		if !merged {
			kept = append(kept, cur)
		}
	}
	c.list = kept
}

// overlaps also reports a caret touching either edge of a selection, so a
// removal at that caret can never reach into the selected range.
func overlaps(a, b Cursor) bool {
	if a.samePosition(b) {
		return true
	}
	sa, sb := a.span(), b.span()
	switch {
	case sa.Empty() && sb.Empty():
		return false
	case sa.Empty() || sb.Empty():
		return sa.Start <= sb.End && sb.Start <= sa.End
	}
	return sa.Start < sb.End && sb.Start < sa.End
}

func merge(a, b Cursor) Cursor {
	sa, sb := a.span(), b.span()
	start, end := min(sa.Start, sb.Start), max(sa.End, sb.End)
	if start == end {
		return a
	}
	if sa == (buffer.Slice{Start: start, End: end}) {
		return a
	}
	backward := a.HasSelection() && a.Index < a.Anchor
	if !a.HasSelection() {
		backward = b.HasSelection() && b.Index < b.Anchor
	}
	out := Cursor{Index: end, Anchor: start, Selecting: true, DesiredCol: a.DesiredCol}
	if backward {
		out.Index, out.Anchor = start, end
	}
	return out
}
