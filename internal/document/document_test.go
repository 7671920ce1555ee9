package document

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kobzarvs/qcore/internal/buffer"
	"github.com/kobzarvs/qcore/internal/config"
	"github.com/kobzarvs/qcore/internal/cursor"
	"github.com/kobzarvs/qcore/internal/logger"
	"github.com/kobzarvs/qcore/internal/theme"
)

const goSource = "package main\n\nfunc main() {\n\tx := 1\n}\n"

func newDoc(t *testing.T, opts Options) *Document {
	t.Helper()
	d, err := New(opts)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return d
}

func loadDoc(t *testing.T, path, text string) *Document {
	t.Helper()
	d := newDoc(t, Options{})
	if err := d.Load(path, text); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return d
}

func exec(t *testing.T, d *Document, actions ...string) {
	t.Helper()
	for _, a := range actions {
		ok, err := d.Exec(a)
		if err != nil {
			t.Fatalf("Exec(%q) error: %v", a, err)
		}
		if !ok {
			t.Fatalf("Exec(%q) not handled", a)
		}
	}
}

func keys(t *testing.T, d *Document, ks ...string) {
	t.Helper()
	for _, k := range ks {
		ok, err := d.ExecKey(k)
		if err != nil {
			t.Fatalf("ExecKey(%q) error: %v", k, err)
		}
		if !ok {
			t.Fatalf("ExecKey(%q) not handled", k)
		}
	}
}

func TestNewEmpty(t *testing.T) {
	d := newDoc(t, Options{})
	if d.Text() != "" || d.Styles().Len() != 0 {
		t.Fatalf("text = %q, themelets = %d, want empty", d.Text(), d.Styles().Len())
	}
	if d.Modified() {
		t.Fatalf("Modified = true, want false")
	}
	if d.Themes().Theme().Name() != theme.DefaultName {
		t.Fatalf("theme = %q, want %q", d.Themes().Theme().Name(), theme.DefaultName)
	}
}

func TestNewUnknownLanguage(t *testing.T) {
	if _, err := New(Options{Language: "cobol"}); err == nil {
		t.Fatalf("New error = nil, want unknown language")
	}
}

func TestThemeletsFollowEdits(t *testing.T) {
	d := newDoc(t, Options{Language: "go"})
	if err := d.Insert("package main\n"); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if d.Styles().Len() != d.Buffer().Size() {
		t.Fatalf("themelets = %d, want %d", d.Styles().Len(), d.Buffer().Size())
	}
	keyword := tcell.NewRGBColor(0xc5, 0x86, 0xc0)
	if got := d.Styles().Themelet(0).Color; got != keyword {
		t.Fatalf("Themelet(0) = %v, want %v", got, keyword)
	}
	base := d.Themes().Theme().Base().Foreground
	if got := d.Styles().Themelet(7).Color; got != base {
		t.Fatalf("Themelet(7) = %v, want base %v", got, base)
	}

	// Text inserted in front shifts the keyword; the cache must see the new spans.
	d.SetCursors(cursor.FromList(cursor.At(0)))
	if err := d.Insert("\n"); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if got := d.Styles().Themelet(1).Color; got != keyword {
		t.Fatalf("Themelet(1) = %v, want %v", got, keyword)
	}
}

func TestExecKeyTypingAndUndo(t *testing.T) {
	d := newDoc(t, Options{})
	keys(t, d, "a", "b", "space", "c")
	if d.Text() != "ab c" {
		t.Fatalf("text = %q, want %q", d.Text(), "ab c")
	}
	for _, want := range []string{"ab ", "ab", ""} {
		keys(t, d, "ctrl+z")
		if d.Text() != want {
			t.Fatalf("text = %q, want %q", d.Text(), want)
		}
	}
	// Nothing left to undo is not an error.
	keys(t, d, "ctrl+z")
	keys(t, d, "ctrl+shift+z")
	if d.Text() != "ab" {
		t.Fatalf("text after redo = %q, want %q", d.Text(), "ab")
	}
}

func TestExecUnknown(t *testing.T) {
	d := newDoc(t, Options{})
	if ok, err := d.Exec("teleport"); ok || err != nil {
		t.Fatalf("Exec = %v, %v, want false, nil", ok, err)
	}
	if ok, err := d.ExecKey("f12"); ok || err != nil {
		t.Fatalf("ExecKey = %v, %v, want false, nil", ok, err)
	}
}

func TestExecUserKeymap(t *testing.T) {
	cfg := config.Default()
	cfg.Keymap["ctrl+e"] = "line_end"
	d := newDoc(t, Options{Config: cfg})
	if err := d.Load("", "hello"); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	keys(t, d, "ctrl+e")
	if got := d.Cursors().Primary().Index; got != 5 {
		t.Fatalf("Index = %d, want 5", got)
	}
}

func TestExecMotionsAndSelection(t *testing.T) {
	d := loadDoc(t, "", "ab\ncd")
	exec(t, d, "file_end")
	if got := d.Cursors().Primary().Index; got != 5 {
		t.Fatalf("Index = %d, want 5", got)
	}
	exec(t, d, "extend_line_start")
	sel, ok := d.Cursors().Primary().Selection()
	if !ok || sel != (buffer.Slice{Start: 3, End: 5}) {
		t.Fatalf("Selection = %v, %v, want [3,5)", sel, ok)
	}
	exec(t, d, "backspace")
	if d.Text() != "ab\n" {
		t.Fatalf("text = %q, want %q", d.Text(), "ab\n")
	}
	exec(t, d, "file_start", "delete_char")
	if d.Text() != "b\n" {
		t.Fatalf("text = %q, want %q", d.Text(), "b\n")
	}
}

func TestExecMultiCursor(t *testing.T) {
	d := loadDoc(t, "", "ab\ncd")
	exec(t, d, "line_end", "add_cursor_down")
	if d.Cursors().Len() != 2 {
		t.Fatalf("cursors = %d, want 2", d.Cursors().Len())
	}
	keys(t, d, "x")
	if d.Text() != "abx\ncdx" {
		t.Fatalf("text = %q, want %q", d.Text(), "abx\ncdx")
	}
	exec(t, d, "clear_multi_cursors")
	if d.Cursors().Len() != 1 || d.Cursors().Primary().Index != 3 {
		t.Fatalf("cursors = %+v, want one at 3", d.Cursors().All())
	}
	exec(t, d, "select_all")
	sel, _ := d.Cursors().Primary().Selection()
	if sel != (buffer.Slice{Start: 0, End: d.Buffer().Size()}) {
		t.Fatalf("select_all = %v", sel)
	}
	exec(t, d, "indent")
	if d.Text() != "\t" {
		t.Fatalf("text = %q, want tab", d.Text())
	}
}

func TestRotatePrimary(t *testing.T) {
	d := loadDoc(t, "", "a\nb\nc")
	exec(t, d, "add_cursor_down", "add_cursor_down")
	var got []int
	for i := 0; i < 3; i++ {
		keys(t, d, "alt+r")
		got = append(got, d.Cursors().Primary().Index)
	}
	if diff := cmp.Diff([]int{4, 2, 0}, got); diff != "" {
		t.Fatalf("primaries mismatch (-want +got):\n%s", diff)
	}
}

func TestVisualColUsesTabWidth(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.TabWidth = 8
	d := newDoc(t, Options{Config: cfg})
	if err := d.Load("", "\tx\n世x"); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := d.VisualCol(1); got != 8 {
		t.Fatalf("VisualCol(1) = %d, want 8", got)
	}
	if got := d.VisualCol(4); got != 2 {
		t.Fatalf("VisualCol(4) = %d, want 2", got)
	}
}

func TestAddCursorOnLastLineWithSelection(t *testing.T) {
	d := loadDoc(t, "x.txt", "abcdefg")
	keys(t, d, "right", "right", "right", "shift+right", "shift+right", "ctrl+alt+down")
	if d.Cursors().Len() != 1 {
		t.Fatalf("cursors = %+v, want the caret folded into the selection", d.Cursors().All())
	}
	keys(t, d, "backspace")
	if d.Text() != "abcfg" {
		t.Fatalf("text = %q, want %q", d.Text(), "abcfg")
	}
	keys(t, d, "ctrl+z")
	if d.Text() != "abcdefg" {
		t.Fatalf("text after undo = %q, want %q", d.Text(), "abcdefg")
	}
}

func TestExpandShrinkSelection(t *testing.T) {
	d := loadDoc(t, "main.go", goSource)
	off := strings.Index(goSource, "x :=")
	origin := cursor.At(off)
	d.SetCursors(cursor.FromList(origin))

	if !d.ExpandSelection() {
		t.Fatalf("ExpandSelection = false, want true")
	}
	first, _ := d.Cursors().Primary().Selection()
	if first != (buffer.Slice{Start: off, End: off + 1}) {
		t.Fatalf("first selection = %v, want identifier [%d,%d)", first, off, off+1)
	}
	if !d.ExpandSelection() {
		t.Fatalf("second ExpandSelection = false, want true")
	}
	second, _ := d.Cursors().Primary().Selection()
	if second.Start > first.Start || second.End < first.End || second == first {
		t.Fatalf("second selection %v does not enclose %v", second, first)
	}

	if !d.ShrinkSelection() {
		t.Fatalf("ShrinkSelection = false, want true")
	}
	if got, _ := d.Cursors().Primary().Selection(); got != first {
		t.Fatalf("after shrink = %v, want %v", got, first)
	}
	if !d.ShrinkSelection() {
		t.Fatalf("ShrinkSelection to origin = false, want true")
	}
	if got := d.Cursors().Primary(); got.HasSelection() || got.Index != off {
		t.Fatalf("after full shrink = %+v, want caret at %d", got, off)
	}
	if d.ShrinkSelection() {
		t.Fatalf("ShrinkSelection past origin = true, want false")
	}
}

func TestExpandSelectionAfterMoveStartsOver(t *testing.T) {
	d := loadDoc(t, "main.go", goSource)
	d.SetCursors(cursor.FromList(cursor.At(strings.Index(goSource, "main()"))))
	exec(t, d, "expand_selection", "expand_selection", "move_right")
	if d.ShrinkSelection() {
		t.Fatalf("ShrinkSelection after a motion = true, want false")
	}
}

func TestExpandSelectionPlainText(t *testing.T) {
	d := loadDoc(t, "notes.txt", "hello")
	if d.ExpandSelection() {
		t.Fatalf("ExpandSelection without a tree = true, want false")
	}
}

func TestSetLanguageForPath(t *testing.T) {
	d := loadDoc(t, "notes.txt", "package main\n")
	if d.Highlighter().Language() != "" || len(d.Highlighter().Slices()) != 0 {
		t.Fatalf("plain text got language %q", d.Highlighter().Language())
	}
	if err := d.Load("main.go", "package main\n"); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if d.Highlighter().Language() != "go" || len(d.Highlighter().Slices()) == 0 {
		t.Fatalf("main.go language = %q, spans = %d", d.Highlighter().Language(), len(d.Highlighter().Slices()))
	}
	if d.History().HasUndo() {
		t.Fatalf("Load kept history")
	}
}

func TestSetLanguageForPathMissingGrammar(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.Use(core)
	t.Cleanup(func() { logger.L, logger.S = nil, nil })

	langs := config.Languages{Languages: []config.Language{{Name: "cobol", FileTypes: []string{"cob"}}}}
	d := newDoc(t, Options{Languages: langs})
	if err := d.Load("pay.cob", "IDENTIFICATION DIVISION."); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if d.Highlighter().Language() != "" {
		t.Fatalf("language = %q, want plain text", d.Highlighter().Language())
	}
	if logs.FilterMessage("document: no grammar, using plain text").Len() != 1 {
		t.Fatalf("warnings = %v", logs.All())
	}
}

func TestOpenSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	if err := os.WriteFile(path, []byte(goSource), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	d := newDoc(t, Options{})
	if err := d.Open(path); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if d.Path() != path || d.Text() != goSource || d.Modified() {
		t.Fatalf("after Open: path %q, modified %v", d.Path(), d.Modified())
	}
	keys(t, d, "/", "/")
	if !d.Modified() {
		t.Fatalf("Modified = false after typing")
	}
	exec(t, d, "save")
	if d.Modified() {
		t.Fatalf("Modified = true after save")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != "//"+goSource {
		t.Fatalf("saved = %q", data)
	}
	exec(t, d, "undo")
	if !d.Modified() {
		t.Fatalf("Modified = false after undo past the save point")
	}
}

func TestOpenMissing(t *testing.T) {
	d := newDoc(t, Options{})
	err := d.Open(filepath.Join(t.TempDir(), "nope.go"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Open error = %v, want not-exist", err)
	}
}

func TestSaveWithoutPath(t *testing.T) {
	d := newDoc(t, Options{})
	if err := d.Save(""); err == nil {
		t.Fatalf("Save error = nil, want no path error")
	}
}

func TestSetThemeRebuildsThemelets(t *testing.T) {
	d := loadDoc(t, "main.go", goSource)
	red := tcell.NewRGBColor(255, 0, 0)
	th, err := theme.Compile("red", theme.Definition{Entries: map[string]theme.EntryDef{
		theme.BaseEntry: {Fg: "#ffffff"},
		"keyword":       {Fg: "#ff0000"},
	}})
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if err := d.SetTheme(th); err != nil {
		t.Fatalf("SetTheme error: %v", err)
	}
	want := []tcell.Color{red, red, red, red, red, red, red}
	got := make([]tcell.Color, 7)
	for i := range got {
		got[i] = d.Styles().Themelet(i).Color
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("themelets mismatch (-want +got):\n%s", diff)
	}
	if err := d.SetTheme(nil); !errors.Is(err, theme.ErrNoTheme) {
		t.Fatalf("SetTheme(nil) error = %v, want ErrNoTheme", err)
	}
}

func TestMotionFor(t *testing.T) {
	cases := []struct {
		action string
		extend bool
		ok     bool
	}{
		{"move_left", false, true},
		{"extend_left", true, true},
		{"extend_word_right", true, true},
		{"extend_file_end", true, true},
		{"extend_undo", false, false},
		{"undo", false, false},
	}
	for _, tc := range cases {
		_, extend, ok := motionFor(tc.action)
		if extend != tc.extend || ok != tc.ok {
			t.Fatalf("motionFor(%q) = %v, %v, want %v, %v", tc.action, extend, ok, tc.extend, tc.ok)
		}
	}
}
