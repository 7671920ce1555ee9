// Package highlight turns a buffer's text into capture-tagged spans using
// tree-sitter grammars.
//
// Spans are over rune offsets, sorted by start with the enclosing span
// first, so a consumer that paints them in order lets inner captures win.
package highlight

import (
	"context"
	"fmt"
	"sort"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kobzarvs/qcore/internal/buffer"
	"github.com/kobzarvs/qcore/internal/logger"
)

// HighlightSlice tags [Start, End) with a capture name such as
// "keyword.control.repeat".
type HighlightSlice struct {
	Start   int
	End     int
	Capture string
}

// Highlighter re-parses its buffer on every change. Register it on the
// buffer before anything that reads its spans.
type Highlighter struct {
	reg    *Registry
	lang   *Language
	parser *sitter.Parser
	tree   *sitter.Tree

	buf    *buffer.Buffer
	source []byte
	// runeAt maps a byte offset of source to its rune offset.
	runeAt []int
	slices []HighlightSlice
}

func New(reg *Registry) *Highlighter {
	if reg == nil {
		reg = Default()
	}
	return &Highlighter{reg: reg, parser: sitter.NewParser()}
}

// Language returns the active language name, or "" for plain text.
func (h *Highlighter) Language() string {
	if h.lang == nil {
		return ""
	}
	return h.lang.Name
}

// SetLanguage switches grammars and re-highlights the last seen buffer. An
// empty name turns highlighting off. On error the previous language stays.
func (h *Highlighter) SetLanguage(name string) error {
	if name == "" {
		h.lang = nil
		h.rebuild()
		return nil
	}
	lang, err := h.reg.Lookup(name)
	if err != nil {
		return err
	}
	h.lang = lang
	h.parser.SetLanguage(lang.Grammar)
	h.closeTree()
	h.rebuild()
	return nil
}

// BufferChanged implements buffer.Listener.
func (h *Highlighter) BufferChanged(b *buffer.Buffer) {
	h.buf = b
	h.rebuild()
}

func (h *Highlighter) rebuild() {
	h.slices = nil
	if h.buf == nil {
		return
	}
	h.source = []byte(h.buf.Text())
	h.runeAt = runeOffsets(h.source)
	if h.lang == nil {
		h.closeTree()
		return
	}

	tree, err := h.parser.ParseCtx(context.Background(), nil, h.source)
	if err != nil {
		logger.Warn("highlight: parse failed", "language", h.lang.Name, "error", err)
		h.closeTree()
		return
	}
	h.closeTree()
	h.tree = tree
	if h.lang.Query == nil {
		return
	}

	h.slices = normalize(h.query())
	if debugChecks {
		checkNesting(h.slices)
	}
	logger.Debug("highlight: rebuilt", "language", h.lang.Name, "spans", len(h.slices))
}

func (h *Highlighter) query() []HighlightSlice {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(h.lang.Query, h.tree.RootNode())

	var out []HighlightSlice
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, h.source)
		if match == nil {
			continue
		}
		for _, capture := range match.Captures {
			start := h.runeOffset(capture.Node.StartByte())
			end := h.runeOffset(capture.Node.EndByte())
			if start >= end {
				continue
			}
			out = append(out, HighlightSlice{
				Start:   start,
				End:     end,
				Capture: h.lang.Query.CaptureNameForId(capture.Index),
			})
		}
	}
	return out
}

// normalize sorts spans by start, wider first, and drops exact range
// duplicates. Equal ranges keep the order the query produced them in, so the
// first capture wins.
func normalize(spans []HighlightSlice) []HighlightSlice {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End > spans[j].End
	})
	out := spans[:0]
	for i, s := range spans {
		if i > 0 && s.Start == spans[i-1].Start && s.End == spans[i-1].End {
			continue
		}
		out = append(out, s)
	}
	return out
}

// checkNesting panics when two spans partially overlap. spans must already
// be normalized.
func checkNesting(spans []HighlightSlice) {
	var open []HighlightSlice
	for _, s := range spans {
		for len(open) > 0 && open[len(open)-1].End <= s.Start {
			open = open[:len(open)-1]
		}
		if n := len(open); n > 0 && s.End > open[n-1].End {
			p := open[n-1]
			logger.Panic(fmt.Sprintf("highlight: span %s [%d,%d) partially overlaps %s [%d,%d)",
				s.Capture, s.Start, s.End, p.Capture, p.Start, p.End))
		}
		open = append(open, s)
	}
}

func (h *Highlighter) closeTree() {
	if h.tree != nil {
		h.tree.Close()
		h.tree = nil
	}
}

func runeOffsets(src []byte) []int {
	table := make([]int, len(src)+1)
	r := 0
	for i := 0; i < len(src); {
		_, size := utf8.DecodeRune(src[i:])
		for k := 0; k < size; k++ {
			table[i+k] = r
		}
		i += size
		r++
	}
	table[len(src)] = r
	return table
}

func (h *Highlighter) runeOffset(b uint32) int {
	if int(b) >= len(h.runeAt) {
		return h.runeAt[len(h.runeAt)-1]
	}
	return h.runeAt[b]
}

// Slices returns a copy of the current spans.
func (h *Highlighter) Slices() []HighlightSlice {
	out := make([]HighlightSlice, len(h.slices))
	copy(out, h.slices)
	return out
}

// GetHighlightSlice returns the first span containing offset.
func (h *Highlighter) GetHighlightSlice(offset int) (HighlightSlice, bool) {
	for _, s := range h.slices {
		if s.Start > offset {
			break
		}
		if offset < s.End {
			return s, true
		}
	}
	return HighlightSlice{}, false
}

// SlicesInRange returns the spans intersecting [start, end), in order.
func (h *Highlighter) SlicesInRange(start, end int) []HighlightSlice {
	var out []HighlightSlice
	for _, s := range h.slices {
		if s.Start >= end {
			break
		}
		if s.End > start {
			out = append(out, s)
		}
	}
	return out
}

// NodeRangesAt returns the ranges of the named syntax nodes containing
// offset, innermost first. Consecutive equal ranges are reported once.
func (h *Highlighter) NodeRangesAt(offset int) []buffer.Slice {
	if h.tree == nil || h.buf == nil || offset < 0 || offset > h.buf.Size() {
		return nil
	}
	root := h.tree.RootNode()
	if root == nil {
		return nil
	}
	coord := h.buf.IndexToCoord(offset)
	line := h.buf.GetLine(coord.Row)
	col := len(h.buf.Substring(line.Start, offset))
	point := sitter.Point{Row: uint32(coord.Row), Column: uint32(col)}

	node := root.NamedDescendantForPointRange(point, point)
	var stack []buffer.Slice
	for node != nil {
		r := buffer.Slice{Start: h.runeOffset(node.StartByte()), End: h.runeOffset(node.EndByte())}
		if len(stack) == 0 || stack[len(stack)-1] != r {
			stack = append(stack, r)
		}
		node = node.Parent()
	}
	return stack
}
