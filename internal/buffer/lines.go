package buffer

import (
	"fmt"
	"sort"
)

// computeLines scans data for line feeds. The result always has at least one
// entry: an empty document, or one ending in '\n', gets a trailing null line.
func computeLines(data []rune) []Slice {
	lines := make([]Slice, 0, 16)
	start := 0
	for i, r := range data {
		if r == '\n' {
			lines = append(lines, Slice{Start: start, End: i})
			start = i + 1
		}
	}
	return append(lines, Slice{Start: start, End: len(data)})
}

func (b *Buffer) GetLineCount() int { return len(b.lines) }

// GetLine returns line i. Negative i counts from the end, -1 being the last line.
func (b *Buffer) GetLine(i int) Slice {
	if i < 0 {
		i += len(b.lines)
	}
	if i < 0 || i >= len(b.lines) {
		panic(fmt.Sprintf("buffer: line %d out of range [0,%d)", i, len(b.lines)))
	}
	return b.lines[i]
}

// HasNullLine reports whether the document ends with an empty, addressless
// line: the buffer is empty or ends with a line feed.
func (b *Buffer) HasNullLine() bool {
	n := len(b.data)
	if n == 0 || b.data[n-1] == '\n' {
		return true
	}
	return b.lines[len(b.lines)-1].Start >= n
}

// IndexToCoord maps an offset in [0, Size()] to its row and column.
func (b *Buffer) IndexToCoord(offset int) Coord {
	if offset < 0 || offset > len(b.data) {
		panic(fmt.Sprintf("buffer: offset %d out of range [0,%d]", offset, len(b.data)))
	}
	// Line ends are strictly increasing, so the first line with End >= offset
	// can be found by binary search.
	row := sort.Search(len(b.lines), func(i int) bool { return b.lines[i].End >= offset })
	return Coord{Row: row, Col: offset - b.lines[row].Start}
}

// CoordToIndex is the inverse of IndexToCoord. Row is clamped to the line
// index and Col to the line length.
func (b *Buffer) CoordToIndex(c Coord) int {
	row := clamp(c.Row, 0, len(b.lines)-1)
	l := b.lines[row]
	return l.Start + clamp(c.Col, 0, l.Len())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
