package document

import (
	"github.com/kobzarvs/qcore/internal/buffer"
	"github.com/kobzarvs/qcore/internal/cursor"
)

// ExpandSelection selects the next larger syntax node around the primary
// cursor, dropping the other cursors. It reports false when there is no
// larger node or no syntax tree.
func (d *Document) ExpandSelection() bool {
	if d.scopes == nil {
		p := d.cursors.Primary()
		sel, _ := p.Selection()
		var scopes []buffer.Slice
		for _, r := range d.hl.NodeRangesAt(sel.Start) {
			if r.Start <= sel.Start && r.End >= sel.End && r != sel {
				scopes = append(scopes, r)
			}
		}
		if len(scopes) == 0 {
			return false
		}
		d.scopes = scopes
		d.scopeIndex = 0
		d.scopeOrigin = p
	}
	if d.scopeIndex >= len(d.scopes) {
		return false
	}
	d.cursors = d.cursors.Replace([]cursor.Cursor{d.selectRange(d.scopes[d.scopeIndex])})
	d.scopeIndex++
	return true
}

// ShrinkSelection steps back to the previous node selected by
// ExpandSelection, and finally to the cursor expansion started from.
func (d *Document) ShrinkSelection() bool {
	if d.scopeIndex == 0 {
		return false
	}
	d.scopeIndex--
	if d.scopeIndex == 0 {
		d.cursors = d.cursors.Replace([]cursor.Cursor{d.scopeOrigin})
		return true
	}
	d.cursors = d.cursors.Replace([]cursor.Cursor{d.selectRange(d.scopes[d.scopeIndex-1])})
	return true
}

func (d *Document) selectRange(r buffer.Slice) cursor.Cursor {
	return cursor.Cursor{
		Index:      r.End,
		Anchor:     r.Start,
		Selecting:  r.Start != r.End,
		DesiredCol: d.buf.IndexToCoord(r.End).Col,
	}
}
