// Package theme resolves capture names to terminal styles.
package theme

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/multierr"
)

// BaseEntry styles text no capture applies to.
const BaseEntry = "ui.text"

var (
	ErrNoTheme     = errors.New("no theme")
	ErrBadColor    = errors.New("bad color")
	ErrBadModifier = errors.New("bad modifier")
)

// EntryDef is one parsed theme rule. Colors are "#RRGGBB", a palette name
// or a terminal color name.
type EntryDef struct {
	Fg        string
	Bg        string
	Modifiers []string
}

// Definition is a parsed theme file.
type Definition struct {
	Entries map[string]EntryDef
	Palette map[string]string
}

type Entry struct {
	Foreground tcell.Color
	Background tcell.Color
	Modifiers  tcell.AttrMask
	// HasForeground is set when the rule names a foreground, "default"
	// included. Entries without one keep the color they are painted over.
	HasForeground bool
}

func (e Entry) Style() tcell.Style {
	return tcell.StyleDefault.Foreground(e.Foreground).Background(e.Background).Attributes(e.Modifiers)
}

var defaultEntry = Entry{Foreground: tcell.ColorDefault, Background: tcell.ColorDefault}

var modifierNames = map[string]tcell.AttrMask{
	"bold":        tcell.AttrBold,
	"dim":         tcell.AttrDim,
	"italic":      tcell.AttrItalic,
	"underlined":  tcell.AttrUnderline,
	"reversed":    tcell.AttrReverse,
	"blink":       tcell.AttrBlink,
	"crossed_out": tcell.AttrStrikeThrough,
}

type Theme struct {
	name    string
	entries map[string]Entry
}

// Compile resolves every entry of def. Problems are collected and returned
// together; the theme is usable either way, with bad colors left at the
// terminal default and bad modifiers ignored.
func Compile(name string, def Definition) (*Theme, error) {
	t := &Theme{name: name, entries: make(map[string]Entry, len(def.Entries))}
	var errs error

	keys := make([]string, 0, len(def.Entries))
	for k := range def.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		d := def.Entries[key]
		e := defaultEntry
		var err error
		e.HasForeground = strings.TrimSpace(d.Fg) != ""
		if e.Foreground, err = resolveColor(d.Fg, def.Palette); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("theme %s: %s fg: %w", name, key, err))
		}
		if e.Background, err = resolveColor(d.Bg, def.Palette); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("theme %s: %s bg: %w", name, key, err))
		}
		for _, m := range d.Modifiers {
			mask, ok := modifierNames[strings.ToLower(strings.TrimSpace(m))]
			if !ok {
				errs = multierr.Append(errs, fmt.Errorf("theme %s: %s: %q: %w", name, key, m, ErrBadModifier))
				continue
			}
			e.Modifiers |= mask
		}
		t.entries[key] = e
	}
	return t, errs
}

func resolveColor(s string, palette map[string]string) (tcell.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return tcell.ColorDefault, nil
	}
	if v, ok := palette[s]; ok {
		s = strings.TrimSpace(v)
	}
	if strings.HasPrefix(s, "#") {
		if !isHex6(s[1:]) {
			return tcell.ColorDefault, fmt.Errorf("%q: %w", s, ErrBadColor)
		}
		c, err := colorful.Hex(strings.ToLower(s))
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("%q: %w", s, ErrBadColor)
		}
		r, g, b := c.RGB255()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
	}
	name := strings.ToLower(s)
	if name == "default" {
		return tcell.ColorDefault, nil
	}
	if c, ok := tcell.ColorNames[name]; ok {
		return c, nil
	}
	return tcell.ColorDefault, fmt.Errorf("%q: %w", s, ErrBadColor)
}

func isHex6(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

func (t *Theme) Name() string { return t.name }

// GetEntry resolves name, falling back to ever shorter dot-separated
// prefixes: "keyword.control.repeat", "keyword.control", "keyword".
func (t *Theme) GetEntry(name string) (Entry, bool) {
	return Lookup(t.entries, name)
}

// Lookup is the prefix fallback used by GetEntry.
func Lookup(entries map[string]Entry, name string) (Entry, bool) {
	for name != "" {
		if e, ok := entries[name]; ok {
			return e, true
		}
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			break
		}
		name = name[:i]
	}
	return Entry{}, false
}

// Base is the style of plain text.
func (t *Theme) Base() Entry {
	if e, ok := t.entries[BaseEntry]; ok {
		return e
	}
	return defaultEntry
}

// Style returns the tcell style for a capture or UI name, or the base style
// when the theme has no rule for it.
func (t *Theme) Style(name string) tcell.Style {
	if e, ok := t.GetEntry(name); ok {
		return e.Style()
	}
	return t.Base().Style()
}
