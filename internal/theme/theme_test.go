package theme

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/multierr"
)

func mustCompile(t *testing.T, def Definition) *Theme {
	t.Helper()
	th, err := Compile("test", def)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	return th
}

func TestGetEntryStripsSegments(t *testing.T) {
	th := mustCompile(t, Definition{Entries: map[string]EntryDef{
		"keyword":         {Fg: "#ff0000"},
		"keyword.control": {Fg: "#00ff00"},
	}})
	cases := []struct {
		name string
		want tcell.Color
		ok   bool
	}{
		{"keyword.control.repeat", tcell.NewRGBColor(0, 255, 0), true},
		{"keyword.function", tcell.NewRGBColor(255, 0, 0), true},
		{"keyword", tcell.NewRGBColor(255, 0, 0), true},
		{"string.special", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		e, ok := th.GetEntry(tc.name)
		if ok != tc.ok {
			t.Fatalf("GetEntry(%q) ok = %v, want %v", tc.name, ok, tc.ok)
		}
		if ok && e.Foreground != tc.want {
			t.Fatalf("GetEntry(%q) fg = %v, want %v", tc.name, e.Foreground, tc.want)
		}
	}
}

func TestLookupOnlyKeyword(t *testing.T) {
	entries := map[string]Entry{"keyword": {Modifiers: tcell.AttrBold}}
	if e, ok := Lookup(entries, "keyword.control.repeat"); !ok || e.Modifiers != tcell.AttrBold {
		t.Fatalf("Lookup = %+v, %v, want keyword entry", e, ok)
	}
	if _, ok := Lookup(map[string]Entry{}, "keyword.control.repeat"); ok {
		t.Fatalf("Lookup on empty theme found an entry")
	}
}

func TestColorsAndPalette(t *testing.T) {
	th := mustCompile(t, Definition{
		Palette: map[string]string{"accent": "#AbCdEf"},
		Entries: map[string]EntryDef{
			"upper":   {Fg: "#FFAA00"},
			"palette": {Fg: "accent", Bg: "#000000"},
			"named":   {Fg: "red"},
		},
	})
	if e, _ := th.GetEntry("upper"); e.Foreground != tcell.NewRGBColor(255, 170, 0) {
		t.Fatalf("upper fg = %v", e.Foreground)
	}
	e, _ := th.GetEntry("palette")
	if e.Foreground != tcell.NewRGBColor(0xab, 0xcd, 0xef) || e.Background != tcell.NewRGBColor(0, 0, 0) {
		t.Fatalf("palette entry = %+v", e)
	}
	if e, _ := th.GetEntry("named"); e.Foreground != tcell.ColorRed {
		t.Fatalf("named fg = %v, want red", e.Foreground)
	}
}

func TestMalformedColorsFallBack(t *testing.T) {
	th, err := Compile("bad", Definition{Entries: map[string]EntryDef{
		"short":    {Fg: "#fff"},
		"nothex":   {Fg: "#12345g"},
		"unknown":  {Fg: "blurple"},
		"modifier": {Modifiers: []string{"bold", "sparkly"}},
	}})
	if err == nil {
		t.Fatalf("Compile error = nil, want diagnostics")
	}
	errs := multierr.Errors(err)
	if len(errs) != 4 {
		t.Fatalf("errors = %d (%v), want 4", len(errs), err)
	}
	if !errors.Is(err, ErrBadColor) || !errors.Is(err, ErrBadModifier) {
		t.Fatalf("error = %v, want ErrBadColor and ErrBadModifier", err)
	}
	for _, name := range []string{"short", "nothex", "unknown"} {
		if e, ok := th.GetEntry(name); !ok || e.Foreground != tcell.ColorDefault {
			t.Fatalf("GetEntry(%q) = %+v, %v, want default color", name, e, ok)
		}
	}
	if e, _ := th.GetEntry("modifier"); e.Modifiers != tcell.AttrBold {
		t.Fatalf("modifiers = %v, want bold only", e.Modifiers)
	}
}

func TestModifiers(t *testing.T) {
	th := mustCompile(t, Definition{Entries: map[string]EntryDef{
		"all": {Modifiers: []string{"bold", "dim", "italic", "underlined", "reversed", "blink", "crossed_out"}},
	}})
	want := tcell.AttrBold | tcell.AttrDim | tcell.AttrItalic | tcell.AttrUnderline |
		tcell.AttrReverse | tcell.AttrBlink | tcell.AttrStrikeThrough
	if e, _ := th.GetEntry("all"); e.Modifiers != want {
		t.Fatalf("modifiers = %v, want %v", e.Modifiers, want)
	}
}

func TestBaseAndStyle(t *testing.T) {
	empty := mustCompile(t, Definition{})
	if empty.Base() != defaultEntry {
		t.Fatalf("Base = %+v, want default entry", empty.Base())
	}
	th := mustCompile(t, Definition{Entries: map[string]EntryDef{
		BaseEntry: {Fg: "#010203"},
		"comment": {Fg: "#0a0b0c", Modifiers: []string{"italic"}},
	}})
	fg, _, attrs := th.Style("comment.line").Decompose()
	if fg != tcell.NewRGBColor(10, 11, 12) || attrs&tcell.AttrItalic == 0 {
		t.Fatalf("Style(comment.line) = %v %v", fg, attrs)
	}
	if fg, _, _ := th.Style("ui.statusline").Decompose(); fg != tcell.NewRGBColor(1, 2, 3) {
		t.Fatalf("Style fallback fg = %v, want base", fg)
	}
}

func TestDefaultDefinitionCompiles(t *testing.T) {
	th, err := Compile(DefaultName, DefaultDefinition())
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if th.Base().Foreground == tcell.ColorDefault {
		t.Fatalf("default theme has no base foreground")
	}
}

func TestManager(t *testing.T) {
	m := NewManager(nil)
	if err := m.SetTheme(nil); !errors.Is(err, ErrNoTheme) {
		t.Fatalf("SetTheme(nil) = %v, want ErrNoTheme", err)
	}
	var got []string
	m.AddListener(ListenerFunc(func(t *Theme) { got = append(got, t.Name()) }))
	th := mustCompile(t, Definition{})
	if err := m.SetTheme(th); err != nil {
		t.Fatalf("SetTheme error: %v", err)
	}
	if m.Theme() != th || len(got) != 1 || got[0] != "test" {
		t.Fatalf("Theme = %v, notified %v", m.Theme(), got)
	}
}

func TestManagerAddListenerDuringNotifyPanics(t *testing.T) {
	m := NewManager(nil)
	m.AddListener(ListenerFunc(func(*Theme) {
		m.AddListener(ListenerFunc(func(*Theme) {}))
	}))
	defer func() {
		if recover() == nil {
			t.Fatalf("AddListener during notification did not panic")
		}
	}()
	_ = m.SetTheme(mustCompile(t, Definition{}))
}
