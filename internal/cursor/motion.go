package cursor

import (
	"unicode"

	"github.com/kobzarvs/qcore/internal/buffer"
)

// motion computes the new caret offset for one cursor.
type motion func(buf *buffer.Buffer, cur Cursor, extend bool) int

// apply runs m for every cursor. Horizontal motions refresh DesiredCol,
// vertical ones keep it. Extending starts the selection lazily and clears it
// again when the caret returns to the anchor.
func (c Cursors) apply(buf *buffer.Buffer, extend, vertical bool, m motion) Cursors {
	list := make([]Cursor, len(c.list))
	for i, cur := range c.list {
		idx := m(buf, cur, extend)
		if extend {
			if !cur.Selecting {
				cur.Anchor = cur.Index
				cur.Selecting = true
			}
			cur.Index = idx
			if cur.Index == cur.Anchor {
				cur.Selecting = false
			}
		} else {
			cur.Index = idx
			cur.Anchor = idx
			cur.Selecting = false
		}
		if !vertical {
			cur.DesiredCol = buf.IndexToCoord(cur.Index).Col
		}
		list[i] = cur
	}
	return c.Replace(list)
}

func (c Cursors) MoveLeft(buf *buffer.Buffer, extend bool) Cursors {
	return c.apply(buf, extend, false, func(buf *buffer.Buffer, cur Cursor, extend bool) int {
		if sel, ok := cur.Selection(); ok && !extend {
			return sel.Start
		}
		return max(cur.Index-1, 0)
	})
}

func (c Cursors) MoveRight(buf *buffer.Buffer, extend bool) Cursors {
	return c.apply(buf, extend, false, func(buf *buffer.Buffer, cur Cursor, extend bool) int {
		if sel, ok := cur.Selection(); ok && !extend {
			return sel.End
		}
		return min(cur.Index+1, buf.Size())
	})
}

func (c Cursors) MoveUp(buf *buffer.Buffer, extend bool) Cursors {
	return c.apply(buf, extend, true, func(buf *buffer.Buffer, cur Cursor, _ bool) int {
		return verticalTarget(buf, cur, -1)
	})
}

func (c Cursors) MoveDown(buf *buffer.Buffer, extend bool) Cursors {
	return c.apply(buf, extend, true, func(buf *buffer.Buffer, cur Cursor, _ bool) int {
		return verticalTarget(buf, cur, 1)
	})
}

func (c Cursors) MoveLineStart(buf *buffer.Buffer, extend bool) Cursors {
	return c.apply(buf, extend, false, func(buf *buffer.Buffer, cur Cursor, _ bool) int {
		return buf.GetLine(buf.IndexToCoord(cur.Index).Row).Start
	})
}

func (c Cursors) MoveLineEnd(buf *buffer.Buffer, extend bool) Cursors {
	return c.apply(buf, extend, false, func(buf *buffer.Buffer, cur Cursor, _ bool) int {
		return buf.GetLine(buf.IndexToCoord(cur.Index).Row).End
	})
}

func (c Cursors) MoveFileStart(buf *buffer.Buffer, extend bool) Cursors {
	return c.apply(buf, extend, false, func(*buffer.Buffer, Cursor, bool) int { return 0 })
}

func (c Cursors) MoveFileEnd(buf *buffer.Buffer, extend bool) Cursors {
	return c.apply(buf, extend, false, func(buf *buffer.Buffer, _ Cursor, _ bool) int { return buf.Size() })
}

// MoveWordLeft jumps to the start of the previous word or punctuation run.
// At a line start it moves to the end of the previous line.
func (c Cursors) MoveWordLeft(buf *buffer.Buffer, extend bool) Cursors {
	return c.apply(buf, extend, false, func(buf *buffer.Buffer, cur Cursor, _ bool) int {
		line := buf.GetLine(buf.IndexToCoord(cur.Index).Row)
		if cur.Index <= line.Start {
			return max(cur.Index-1, 0)
		}
		idx := cur.Index - 1
		for idx > line.Start && isSpaceRune(buf.At(idx)) {
			idx--
		}
		if isWordRune(buf.At(idx)) {
			for idx > line.Start && isWordRune(buf.At(idx-1)) {
				idx--
			}
			return idx
		}
		for idx > line.Start && isPunctRune(buf.At(idx-1)) {
			idx--
		}
		return idx
	})
}

// MoveWordRight skips the current word or punctuation run and the spaces
// after it. At a line end it moves to the start of the next line.
func (c Cursors) MoveWordRight(buf *buffer.Buffer, extend bool) Cursors {
	return c.apply(buf, extend, false, func(buf *buffer.Buffer, cur Cursor, _ bool) int {
		line := buf.GetLine(buf.IndexToCoord(cur.Index).Row)
		if cur.Index >= line.End {
			return min(cur.Index+1, buf.Size())
		}
		idx := cur.Index
		switch r := buf.At(idx); {
		case isSpaceRune(r):
			for idx < line.End && isSpaceRune(buf.At(idx)) {
				idx++
			}
			return idx
		case isWordRune(r):
			for idx < line.End && isWordRune(buf.At(idx)) {
				idx++
			}
		default:
			for idx < line.End && isPunctRune(buf.At(idx)) {
				idx++
			}
		}
		for idx < line.End && isSpaceRune(buf.At(idx)) {
			idx++
		}
		return idx
	})
}

// AddCursorDown adds a cursor one line below the lowest cursor, at its
// desired column.
func (c Cursors) AddCursorDown(buf *buffer.Buffer) Cursors {
	ref := c.list[0]
	for _, cur := range c.list[1:] {
		if cur.Index > ref.Index {
			ref = cur
		}
	}
	return c.addCursor(buf, ref, 1)
}

// AddCursorUp adds a cursor one line above the highest cursor.
func (c Cursors) AddCursorUp(buf *buffer.Buffer) Cursors {
	ref := c.list[0]
	for _, cur := range c.list[1:] {
		if cur.Index < ref.Index {
			ref = cur
		}
	}
	return c.addCursor(buf, ref, -1)
}

// addCursor appends the new cursor. On the first or last line the target is
// the reference position itself, which normalize folds away.
func (c Cursors) addCursor(buf *buffer.Buffer, ref Cursor, dir int) Cursors {
	idx := verticalTarget(buf, ref, dir)
	next := Cursor{Index: idx, Anchor: idx, DesiredCol: ref.DesiredCol}
	list := make([]Cursor, 0, len(c.list)+1)
	list = append(list, c.list...)
	list = append(list, next)
	return c.Replace(list)
}

// verticalTarget is the offset dir lines away at the desired column, clamped
// to the target line. Leaving the document keeps the caret where it is.
func verticalTarget(buf *buffer.Buffer, cur Cursor, dir int) int {
	row := buf.IndexToCoord(cur.Index).Row + dir
	if row < 0 || row >= buf.GetLineCount() {
		return cur.Index
	}
	line := buf.GetLine(row)
	return line.Start + min(max(cur.DesiredCol, 0), line.Len())
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isSpaceRune(r rune) bool {
	return r != '\n' && unicode.IsSpace(r)
}

func isPunctRune(r rune) bool {
	return r != buffer.Terminator && !isWordRune(r) && !unicode.IsSpace(r)
}
