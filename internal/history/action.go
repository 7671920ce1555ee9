package history

import (
	"unicode"
	"unicode/utf8"

	"github.com/kobzarvs/qcore/internal/cursor"
)

type Kind int

const (
	TextInsert Kind = iota
	TextRemove
)

func (k Kind) String() string {
	switch k {
	case TextInsert:
		return "TEXT_INSERT"
	case TextRemove:
		return "TEXT_REMOVE"
	default:
		return "UNKNOWN"
	}
}

// Direction selects which rune CommitRemoveText deletes when a cursor has no
// selection.
type Direction int

const (
	Backward Direction = iota
	Forward
)

// TextDelta replaces Removed with Added at Offset.
type TextDelta struct {
	Offset  int
	Removed string
	Added   string
}

func (d TextDelta) net() int {
	return utf8.RuneCountInString(d.Added) - utf8.RuneCountInString(d.Removed)
}

// Action is one undoable step. Deltas are applied in slice order and each
// Offset is valid at the moment its delta is applied; a single commit stores
// them by descending offset so earlier deltas never move later ones.
type Action struct {
	Kind   Kind
	Deltas []TextDelta
	Before cursor.Cursors
	After  cursor.Cursors

	// Mergeable marks single-rune edits that may absorb the next keystroke.
	Mergeable bool
	// IsWhitespace is the character class of a mergeable edit. A keystroke
	// of the other class starts a new group.
	IsWhitespace bool
}

// classify reports whether every delta edits exactly one rune other than a
// line feed, and whether all those runes are whitespace.
func classify(kind Kind, deltas []TextDelta) (mergeable, whitespace bool) {
	whitespace = true
	for _, d := range deltas {
		text := d.Added
		if kind == TextRemove {
			if d.Added != "" {
				return false, false
			}
			text = d.Removed
		} else if d.Removed != "" {
			return false, false
		}
		r, size := utf8.DecodeRuneInString(text)
		if size == 0 || size != len(text) || r == '\n' {
			return false, false
		}
		if !unicode.IsSpace(r) {
			whitespace = false
		}
	}
	if len(deltas) == 0 {
		return false, false
	}
	if !whitespace {
		// Mixed classes across cursors never merge.
		for _, d := range deltas {
			r, _ := utf8.DecodeRuneInString(d.Added + d.Removed)
			if unicode.IsSpace(r) {
				return false, false
			}
		}
	}
	return true, whitespace
}

// coalesce folds next into prev when every cursor continued exactly where
// prev left it: typing forward, backspacing backward or deleting in place.
// Both slices are in descending offset order, one delta per cursor.
func coalesce(kind Kind, prev, next []TextDelta) ([]TextDelta, bool) {
	if len(prev) != len(next) {
		return nil, false
	}
	out := make([]TextDelta, len(prev))
	lower := 0
	for j := len(prev) - 1; j >= 0; j-- {
		p, n := prev[j], next[j]
		// n.Offset is in post-prev coordinates; lower is what the prev
		// deltas below this one added.
		at := n.Offset - lower
		switch kind {
		case TextInsert:
			if at != p.Offset+utf8.RuneCountInString(p.Added) {
				return nil, false
			}
			out[j] = TextDelta{Offset: p.Offset, Removed: p.Removed, Added: p.Added + n.Added}
		case TextRemove:
			switch {
			case at+utf8.RuneCountInString(n.Removed) == p.Offset:
				out[j] = TextDelta{Offset: at, Removed: n.Removed + p.Removed}
			case at == p.Offset:
				out[j] = TextDelta{Offset: p.Offset, Removed: p.Removed + n.Removed}
			default:
				return nil, false
			}
		}
		lower += p.net()
	}
	for j := 0; j+1 < len(out); j++ {
		below := out[j+1]
		if out[j].Offset < below.Offset+utf8.RuneCountInString(below.Removed) {
			return nil, false
		}
	}
	return out, true
}
