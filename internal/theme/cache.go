package theme

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qcore/internal/buffer"
	"github.com/kobzarvs/qcore/internal/highlight"
	"github.com/kobzarvs/qcore/internal/logger"
)

// Themelet is the resolved style of one character.
type Themelet struct {
	Color     tcell.Color
	Modifiers tcell.AttrMask
}

func (t Themelet) Style() tcell.Style {
	return tcell.StyleDefault.Foreground(t.Color).Attributes(t.Modifiers)
}

// SliceSource provides highlight spans in paint order.
type SliceSource interface {
	Slices() []highlight.HighlightSlice
}

// StyleCache keeps one Themelet per buffer character. It must be notified of
// buffer changes after the highlighter so it paints the fresh spans.
type StyleCache struct {
	src       SliceSource
	theme     *Theme
	buf       *buffer.Buffer
	themelets []Themelet
}

func NewStyleCache(src SliceSource, t *Theme) *StyleCache {
	return &StyleCache{src: src, theme: t}
}

// BufferChanged implements buffer.Listener.
func (c *StyleCache) BufferChanged(b *buffer.Buffer) {
	c.buf = b
	c.CacheThemelets(b)
}

// ThemeChanged implements Listener.
func (c *StyleCache) ThemeChanged(t *Theme) {
	c.theme = t
	if c.buf != nil {
		c.CacheThemelets(c.buf)
	}
}

// CacheThemelets rebuilds every themelet: the base style first, then each
// span in order. An entry without a foreground keeps the color underneath.
func (c *StyleCache) CacheThemelets(b *buffer.Buffer) {
	size := b.Size()
	if cap(c.themelets) >= size {
		c.themelets = c.themelets[:size]
	} else {
		c.themelets = make([]Themelet, size)
	}

	base := Themelet{Color: tcell.ColorDefault}
	if c.theme != nil {
		e := c.theme.Base()
		base = Themelet{Color: e.Foreground, Modifiers: e.Modifiers}
	}
	for i := range c.themelets {
		c.themelets[i] = base
	}
	if c.theme == nil || c.src == nil {
		return
	}

	unresolved := 0
	for _, s := range c.src.Slices() {
		e, ok := c.theme.GetEntry(s.Capture)
		if !ok {
			unresolved++
			continue
		}
		start, end := max(s.Start, 0), min(s.End, size)
		for i := start; i < end; i++ {
			if e.HasForeground {
				c.themelets[i].Color = e.Foreground
			}
			c.themelets[i].Modifiers = e.Modifiers
		}
	}
	if unresolved > 0 {
		logger.Debug("theme: captures without entry", "theme", c.theme.Name(), "count", unresolved)
	}
}

// Themelet returns the style at offset. It panics when offset is outside
// the buffer.
func (c *StyleCache) Themelet(offset int) Themelet {
	return c.themelets[offset]
}

func (c *StyleCache) Themelets() []Themelet {
	out := make([]Themelet, len(c.themelets))
	copy(out, c.themelets)
	return out
}

func (c *StyleCache) Len() int { return len(c.themelets) }
