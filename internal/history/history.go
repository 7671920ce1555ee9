// Package history records buffer edits as undoable actions.
//
// Every edit goes through a commit, which applies the change to the buffer
// and returns the cursors to use afterwards. Consecutive single-character
// keystrokes of the same class are merged into one action, so undo removes a
// typed word at a time.
package history

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/kobzarvs/qcore/internal/buffer"
	"github.com/kobzarvs/qcore/internal/cursor"
	"github.com/kobzarvs/qcore/internal/logger"
)

const DefaultLimit = 1000

// savedNever marks a save point that no longer exists in the log.
const savedNever = -2

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

type Listener interface {
	HistoryChanged(h *History)
}

type ListenerFunc func(h *History)

func (f ListenerFunc) HistoryChanged(h *History) { f(h) }

type Option func(*History)

// WithLimit caps the number of stored actions. The oldest ones are dropped
// first. Non-positive values keep the default.
func WithLimit(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.limit = n
		}
	}
}

type History struct {
	buf     *buffer.Buffer
	actions []Action
	// ptr is the index of the last applied action, -1 when none is.
	ptr   int
	saved int
	limit int
	// mergeOpen is set while the action at ptr came from a commit and may
	// absorb the next one.
	mergeOpen bool

	listeners []Listener
	notifying bool
}

func New(buf *buffer.Buffer, opts ...Option) *History {
	h := &History{buf: buf, ptr: -1, saved: -1, limit: DefaultLimit}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *History) Buffer() *buffer.Buffer { return h.buf }

func (h *History) AddListener(l Listener) {
	if h.notifying {
		logger.Panic("history: AddListener called during notification")
	}
	h.listeners = append(h.listeners, l)
}

func (h *History) Len() int { return len(h.actions) }

func (h *History) Ptr() int { return h.ptr }

func (h *History) Limit() int { return h.limit }

// Actions returns a copy of the stored actions, oldest first.
func (h *History) Actions() []Action {
	out := make([]Action, len(h.actions))
	copy(out, h.actions)
	return out
}

func (h *History) HasUndo() bool { return h.ptr >= 0 }

func (h *History) HasRedo() bool { return h.ptr < len(h.actions)-1 }

// MarkSaved records the current state as the clean one.
func (h *History) MarkSaved() {
	h.saved = h.ptr
	h.mergeOpen = false
	h.notify()
}

// Modified reports whether the buffer differs from the last saved state.
func (h *History) Modified() bool { return h.ptr != h.saved }

// edit is one cursor's delta while a commit is being built.
type edit struct {
	cursor int
	delta  TextDelta
}

// CommitInsertText replaces every cursor's selection, or inserts at its
// caret, with text. It returns the cursors placed after the inserted text.
func (h *History) CommitInsertText(c cursor.Cursors, text string) (cursor.Cursors, error) {
	if err := h.checkCursors(c); err != nil {
		return c, err
	}
	edits := make([]edit, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		cur := c.At(i)
		sel, _ := cur.Selection()
		d := TextDelta{Offset: sel.Start, Removed: h.buf.Substring(sel.Start, sel.End), Added: text}
		if d.Removed == "" && d.Added == "" {
			continue
		}
		edits = append(edits, edit{cursor: i, delta: d})
	}
	return h.commit(c, TextInsert, edits)
}

// CommitRemoveText deletes every cursor's selection. Cursors without a
// selection delete one rune in dir; at the buffer edges they do nothing.
func (h *History) CommitRemoveText(c cursor.Cursors, dir Direction) (cursor.Cursors, error) {
	if err := h.checkCursors(c); err != nil {
		return c, err
	}
	size := h.buf.Size()
	edits := make([]edit, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		cur := c.At(i)
		sel, ok := cur.Selection()
		if !ok {
			switch {
			case dir == Backward && cur.Index > 0:
				sel = buffer.Slice{Start: cur.Index - 1, End: cur.Index}
			case dir == Forward && cur.Index < size:
				sel = buffer.Slice{Start: cur.Index, End: cur.Index + 1}
			default:
				continue
			}
		}
		edits = append(edits, edit{cursor: i, delta: TextDelta{Offset: sel.Start, Removed: h.buf.Substring(sel.Start, sel.End)}})
	}
	return h.commit(c, TextRemove, edits)
}

func (h *History) checkCursors(c cursor.Cursors) error {
	size := h.buf.Size()
	for i := 0; i < c.Len(); i++ {
		cur := c.At(i)
		if cur.Index < 0 || cur.Index > size || cur.Anchor < 0 || cur.Anchor > size {
			return fmt.Errorf("history: cursor %d at %d/%d outside buffer of size %d: %w",
				i, cur.Index, cur.Anchor, size, buffer.ErrOutOfRange)
		}
	}
	return nil
}

func (h *History) commit(c cursor.Cursors, kind Kind, edits []edit) (cursor.Cursors, error) {
	if len(edits) == 0 {
		return c, nil
	}
	// Highest offset first; for a shared offset, the wider range goes first
	// so an insert at the same point lands in front of it.
	sort.SliceStable(edits, func(i, j int) bool {
		a, b := edits[i].delta, edits[j].delta
		if a.Offset != b.Offset {
			return a.Offset > b.Offset
		}
		return utf8.RuneCountInString(a.Removed) > utf8.RuneCountInString(b.Removed)
	})
	if edits = clipOverlaps(edits); len(edits) == 0 {
		return c, nil
	}
	deltas := make([]TextDelta, len(edits))
	for i, e := range edits {
		deltas[i] = e.delta
	}
	if err := h.redoDeltas(deltas); err != nil {
		return c, err
	}

	after := h.placeCursors(c, edits)
	mergeable, whitespace := classify(kind, deltas)
	if mergeable && kind == TextRemove && c.HasSelection() {
		mergeable = false
	}
	a := Action{
		Kind:         kind,
		Deltas:       deltas,
		Before:       c,
		After:        after,
		Mergeable:    mergeable,
		IsWhitespace: whitespace,
	}
	if h.tryMerge(a) {
		logger.Debug("history: merged", "kind", kind, "ptr", h.ptr)
	} else {
		h.push(a)
	}
	h.mergeOpen = true
	h.notify()
	return after, nil
}

// clipOverlaps trims a removal reaching into the range of the edit applied
// before it, and drops edits left empty. edits is in application order.
func clipOverlaps(edits []edit) []edit {
	out := edits[:0]
	limit := -1
	for _, e := range edits {
		if limit >= 0 {
			removed := []rune(e.delta.Removed)
			if e.delta.Offset+len(removed) > limit {
				e.delta.Removed = string(removed[:max(limit-e.delta.Offset, 0)])
			}
		}
		if e.delta.Removed == "" && e.delta.Added == "" {
			logger.Debug("history: dropped overlapping edit", "cursor", e.cursor, "offset", e.delta.Offset)
			continue
		}
		out = append(out, e)
		limit = e.delta.Offset
	}
	return out
}

// placeCursors maps every cursor to its offset once the edits are applied.
// edits is in application order, so the edits after k are the ones at or
// below k's offset and they shift k by their net length.
func (h *History) placeCursors(c cursor.Cursors, edits []edit) cursor.Cursors {
	shiftAfter := make([]int, len(edits)+1)
	for k := len(edits) - 1; k >= 0; k-- {
		shiftAfter[k] = shiftAfter[k+1] + edits[k].delta.net()
	}
	byCursor := make(map[int]int, len(edits))
	for k, e := range edits {
		byCursor[e.cursor] = k
	}

	list := make([]cursor.Cursor, c.Len())
	for i := 0; i < c.Len(); i++ {
		var idx int
		if k, ok := byCursor[i]; ok {
			d := edits[k].delta
			idx = d.Offset + utf8.RuneCountInString(d.Added) + shiftAfter[k+1]
		} else {
			idx = c.At(i).Index
			for _, e := range edits {
				if e.delta.Offset < c.At(i).Index {
					idx += e.delta.net()
				}
			}
		}
		cur := cursor.At(idx)
		cur.DesiredCol = h.buf.IndexToCoord(idx).Col
		list[i] = cur
	}
	return c.Replace(list)
}

func (h *History) tryMerge(a Action) bool {
	if !h.mergeOpen || h.ptr < 0 || h.ptr != len(h.actions)-1 || h.saved == h.ptr {
		return false
	}
	prev := &h.actions[h.ptr]
	if !prev.Mergeable || !a.Mergeable || prev.Kind != a.Kind || prev.IsWhitespace != a.IsWhitespace {
		return false
	}
	if !a.Before.SamePositions(prev.After) {
		return false
	}
	merged, ok := coalesce(a.Kind, prev.Deltas, a.Deltas)
	if !ok {
		return false
	}
	prev.Deltas = merged
	prev.After = a.After
	return true
}

func (h *History) push(a Action) {
	if h.ptr < len(h.actions)-1 {
		h.actions = h.actions[:h.ptr+1]
		if h.saved > h.ptr {
			h.saved = savedNever
		}
	}
	h.actions = append(h.actions, a)
	h.ptr++
	if excess := len(h.actions) - h.limit; excess > 0 {
		h.actions = append(h.actions[:0:0], h.actions[excess:]...)
		h.ptr -= excess
		if h.saved != savedNever {
			h.saved -= excess
			if h.saved < -1 {
				h.saved = savedNever
			}
		}
		logger.Debug("history: dropped oldest actions", "count", excess)
	}
}

// Undo reverts the action at the pointer and returns the cursors recorded
// before it.
func (h *History) Undo() (cursor.Cursors, error) {
	if !h.HasUndo() {
		return cursor.Cursors{}, ErrNothingToUndo
	}
	a := h.actions[h.ptr]
	if err := h.undoDeltas(a.Deltas); err != nil {
		return cursor.Cursors{}, err
	}
	h.ptr--
	h.mergeOpen = false
	h.notify()
	return a.Before, nil
}

// Redo reapplies the next action and returns the cursors recorded after it.
func (h *History) Redo() (cursor.Cursors, error) {
	if !h.HasRedo() {
		return cursor.Cursors{}, ErrNothingToRedo
	}
	a := h.actions[h.ptr+1]
	if err := h.redoDeltas(a.Deltas); err != nil {
		return cursor.Cursors{}, err
	}
	h.ptr++
	h.mergeOpen = false
	h.notify()
	return a.After, nil
}

func (h *History) redoDeltas(deltas []TextDelta) error {
	for _, d := range deltas {
		if err := h.replace(d.Offset, d.Removed, d.Added); err != nil {
			return err
		}
	}
	return nil
}

func (h *History) undoDeltas(deltas []TextDelta) error {
	for i := len(deltas) - 1; i >= 0; i-- {
		d := deltas[i]
		if err := h.replace(d.Offset, d.Added, d.Removed); err != nil {
			return err
		}
	}
	return nil
}

func (h *History) replace(offset int, old, text string) error {
	if n := utf8.RuneCountInString(old); n > 0 {
		if err := h.buf.RemoveText(offset, n); err != nil {
			return fmt.Errorf("history: remove %d at %d: %w", n, offset, err)
		}
	}
	if err := h.buf.InsertText(offset, text); err != nil {
		return fmt.Errorf("history: insert at %d: %w", offset, err)
	}
	return nil
}

func (h *History) notify() {
	h.notifying = true
	defer func() { h.notifying = false }()
	for _, l := range h.listeners {
		l.HistoryChanged(h)
	}
}
