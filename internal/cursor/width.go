package cursor

import (
	"github.com/rivo/uniseg"

	"github.com/kobzarvs/qcore/internal/buffer"
)

// VisualCol returns the screen column of offset within its line, expanding
// tabs to tabWidth stops and counting wide characters as two cells.
func VisualCol(buf *buffer.Buffer, offset, tabWidth int) int {
	if tabWidth < 1 {
		tabWidth = 1
	}
	line := buf.GetLine(buf.IndexToCoord(offset).Row)
	col := 0
	for i := line.Start; i < offset; i++ {
		r := buf.At(i)
		if r == '\t' {
			col += tabWidth - (col % tabWidth)
			continue
		}
		col += uniseg.StringWidth(string(r))
	}
	return col
}
