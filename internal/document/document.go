// Package document wires a buffer to its highlighter, style cache, edit
// history and cursors, and exposes the editing commands.
package document

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kobzarvs/qcore/internal/buffer"
	"github.com/kobzarvs/qcore/internal/config"
	"github.com/kobzarvs/qcore/internal/cursor"
	"github.com/kobzarvs/qcore/internal/highlight"
	"github.com/kobzarvs/qcore/internal/history"
	"github.com/kobzarvs/qcore/internal/logger"
	"github.com/kobzarvs/qcore/internal/theme"
)

type Options struct {
	Config    config.Config
	Languages config.Languages
	Theme     *theme.Theme
	// Language is a highlight registry name; empty means plain text.
	Language string
	Registry *highlight.Registry
}

// Motion is a cursor command taking the buffer and the extend flag, such as
// cursor.Cursors.MoveWordLeft.
type Motion func(c cursor.Cursors, buf *buffer.Buffer, extend bool) cursor.Cursors

type Document struct {
	cfg   config.Config
	langs config.Languages
	path  string

	buf     *buffer.Buffer
	hl      *highlight.Highlighter
	styles  *theme.StyleCache
	themes  *theme.Manager
	hist    *history.History
	cursors cursor.Cursors

	// scopes is the syntax range stack used by expand/shrink selection;
	// scopeIndex counts how many of them have been selected.
	scopes      []buffer.Slice
	scopeIndex  int
	scopeOrigin cursor.Cursor
}

// New builds an empty document. The highlighter is registered on the buffer
// before the style cache so themelets are painted from fresh spans.
func New(opts Options) (*Document, error) {
	cfg := opts.Config
	if cfg.Keymap == nil {
		cfg = config.Default()
	}
	th := opts.Theme
	if th == nil {
		var err error
		if th, err = theme.Compile(theme.DefaultName, theme.DefaultDefinition()); err != nil {
			return nil, fmt.Errorf("document: default theme: %w", err)
		}
	}
	langs := opts.Languages
	if len(langs.Languages) == 0 {
		langs = config.DefaultLanguages()
	}

	d := &Document{cfg: cfg, langs: langs, buf: buffer.New()}
	d.hl = highlight.New(opts.Registry)
	if err := d.hl.SetLanguage(opts.Language); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	d.styles = theme.NewStyleCache(d.hl, th)
	d.buf.AddListener(d.hl)
	d.buf.AddListener(d.styles)
	d.themes = theme.NewManager(th)
	d.themes.AddListener(d.styles)
	d.styles.CacheThemelets(d.buf)

	d.hist = history.New(d.buf, history.WithLimit(cfg.Editor.HistoryLimit))
	d.cursors = cursor.New().WithBlinkInterval(cfg.Editor.BlinkInterval())
	return d, nil
}

func (d *Document) Buffer() *buffer.Buffer { return d.buf }

func (d *Document) Cursors() cursor.Cursors { return d.cursors }

func (d *Document) Highlighter() *highlight.Highlighter { return d.hl }

func (d *Document) Styles() *theme.StyleCache { return d.styles }

func (d *Document) Themes() *theme.Manager { return d.themes }

func (d *Document) History() *history.History { return d.hist }

func (d *Document) Path() string { return d.path }

func (d *Document) Text() string { return d.buf.Text() }

func (d *Document) Modified() bool { return d.hist.Modified() }

// SetCursors replaces the cursors, for callers that place them directly.
func (d *Document) SetCursors(c cursor.Cursors) {
	d.setCursors(c)
}

// SetLanguageForPath picks the grammar from the file name. Unknown file
// types fall back to plain text.
func (d *Document) SetLanguageForPath(path string) error {
	name := ""
	if lang := d.langs.Match(path); lang != nil {
		name = lang.GrammarName()
	}
	err := d.hl.SetLanguage(name)
	if errors.Is(err, highlight.ErrUnknownLanguage) {
		logger.Warn("document: no grammar, using plain text", "path", path, "language", name)
		err = d.hl.SetLanguage("")
	}
	if err != nil {
		return err
	}
	d.styles.CacheThemelets(d.buf)
	return nil
}

// Load replaces the content with text as an unmodified document. History is
// reset.
func (d *Document) Load(path, text string) error {
	d.path = path
	if err := d.SetLanguageForPath(path); err != nil {
		return err
	}
	d.buf.SetText(text)
	d.hist = history.New(d.buf, history.WithLimit(d.cfg.Editor.HistoryLimit))
	d.cursors = d.cursors.Replace([]cursor.Cursor{cursor.At(0)})
	d.resetScopes()
	logger.Info("document: loaded", "path", path, "size", d.buf.Size())
	return nil
}

func (d *Document) Open(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("document: open %s: %w", path, err)
	}
	return d.Load(path, string(data))
}

// Save writes the buffer to path, or to the loaded path when path is empty,
// and marks the history clean.
func (d *Document) Save(path string) error {
	if path == "" {
		path = d.path
	}
	if path == "" {
		return errors.New("document: save: no path")
	}
	if err := os.WriteFile(path, []byte(d.buf.Text()), 0o644); err != nil {
		return fmt.Errorf("document: save %s: %w", path, err)
	}
	d.path = path
	d.hist.MarkSaved()
	logger.Info("document: saved", "path", path)
	return nil
}

func (d *Document) SetTheme(t *theme.Theme) error {
	return d.themes.SetTheme(t)
}

// Insert types text at every cursor, replacing selections.
func (d *Document) Insert(text string) error {
	c, err := d.hist.CommitInsertText(d.cursors, text)
	if err != nil {
		return err
	}
	d.setCursors(c)
	return nil
}

func (d *Document) Backspace() error {
	return d.remove(history.Backward)
}

func (d *Document) Delete() error {
	return d.remove(history.Forward)
}

func (d *Document) remove(dir history.Direction) error {
	c, err := d.hist.CommitRemoveText(d.cursors, dir)
	if err != nil {
		return err
	}
	d.setCursors(c)
	return nil
}

func (d *Document) Undo() error {
	c, err := d.hist.Undo()
	if err != nil {
		return err
	}
	d.setCursors(c)
	return nil
}

func (d *Document) Redo() error {
	c, err := d.hist.Redo()
	if err != nil {
		return err
	}
	d.setCursors(c)
	return nil
}

func (d *Document) Move(m Motion, extend bool) {
	d.setCursors(m(d.cursors, d.buf, extend))
}

func (d *Document) AddCursorDown() { d.setCursors(d.cursors.AddCursorDown(d.buf)) }

func (d *Document) AddCursorUp() { d.setCursors(d.cursors.AddCursorUp(d.buf)) }

func (d *Document) ClearMultiCursors() { d.setCursors(d.cursors.ClearMultiCursors()) }

func (d *Document) SelectAll() { d.setCursors(d.cursors.SelectAll(d.buf)) }

// VisualCol is the screen column of offset with the configured tab width.
func (d *Document) VisualCol(offset int) int {
	return cursor.VisualCol(d.buf, offset, d.cfg.Editor.TabWidth)
}

// RotatePrimary makes the last cursor the primary one; repeated calls cycle
// through every cursor.
func (d *Document) RotatePrimary() { d.setCursors(d.cursors.SetPrimary(d.cursors.Len() - 1)) }

// Tick advances the cursor blink clock.
func (d *Document) Tick(dt time.Duration) { d.cursors = d.cursors.Tick(dt) }

func (d *Document) setCursors(c cursor.Cursors) {
	d.cursors = c
	d.resetScopes()
}

func (d *Document) resetScopes() {
	d.scopes = nil
	d.scopeIndex = 0
}
