package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kobzarvs/qcore/internal/config"
	"github.com/kobzarvs/qcore/internal/document"
	"github.com/kobzarvs/qcore/internal/logger"
	"github.com/kobzarvs/qcore/internal/theme"
)

// App is the qcore developer tool: it opens a file, optionally replays keys
// against it and dumps the resulting highlight spans.
type App struct {
	args []string
	out  io.Writer
}

func New(args []string) *App {
	return &App{args: args, out: os.Stdout}
}

type options struct {
	debug  bool
	keys   string
	theme  string
	styles bool
	save   bool
	from   int
	to     int
	path   string
}

func (a *App) parse() (options, error) {
	var opts options
	fs := flag.NewFlagSet("qcore", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&opts.debug, "debug", false, "log at debug level")
	fs.StringVar(&opts.keys, "keys", "", "comma separated keys to replay, e.g. \"ctrl+end,enter,x\"")
	fs.StringVar(&opts.theme, "theme", "", "theme name, overriding config.toml")
	fs.BoolVar(&opts.styles, "styles", false, "print the resolved color of each span")
	fs.BoolVar(&opts.save, "save", false, "write the file back after replaying keys")
	fs.IntVar(&opts.from, "from", 0, "first rune offset to dump")
	fs.IntVar(&opts.to, "to", 0, "rune offset to stop the dump at, 0 for the end")
	if err := fs.Parse(a.args); err != nil {
		return opts, err
	}
	if fs.NArg() != 1 {
		return opts, errors.New("usage: qcore [-debug] [-keys k1,k2] [-theme name] [-styles] [-save] [-from n] [-to n] file")
	}
	opts.path = fs.Arg(0)
	return opts, nil
}

func (a *App) Run() error {
	opts, err := a.parse()
	if err != nil {
		return err
	}
	if err := logger.Init(opts.debug); err != nil {
		return err
	}
	defer logger.Close()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}
	th, err := loadTheme(cfg, opts.theme)
	if err != nil {
		return err
	}

	doc, err := document.New(document.Options{Config: cfg, Languages: langs, Theme: th})
	if err != nil {
		return err
	}
	if err := doc.Open(opts.path); err != nil {
		return err
	}
	if err := replay(doc, opts.keys); err != nil {
		return err
	}
	if opts.save {
		if err := doc.Save(""); err != nil {
			return err
		}
	}
	return a.dump(doc, opts)
}

// loadTheme reads and compiles the named theme. Compile diagnostics are
// logged; an unreadable theme falls back to the built-in one.
func loadTheme(cfg config.Config, name string) (*theme.Theme, error) {
	if name == "" {
		name = cfg.Editor.Theme
	}
	def, err := config.LoadTheme(name)
	if err != nil {
		logger.Warn("app: theme not loaded, using default", "theme", name, "error", err)
		name, def = theme.DefaultName, theme.DefaultDefinition()
	}
	th, err := theme.Compile(name, def)
	if err != nil {
		logger.Warn("app: theme diagnostics", "theme", name, "error", err)
	}
	if th == nil {
		return nil, fmt.Errorf("app: theme %s: %w", name, theme.ErrNoTheme)
	}
	return th, nil
}

func replay(doc *document.Document, keys string) error {
	if keys == "" {
		return nil
	}
	for _, k := range strings.Split(keys, ",") {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		ok, err := doc.ExecKey(k)
		if err != nil {
			return fmt.Errorf("app: key %q: %w", k, err)
		}
		if !ok {
			logger.Warn("app: unbound key", "key", k)
		}
	}
	return nil
}

// dump prints the spans intersecting [from, to). With styles each line also
// carries the span's color and its row:column on screen.
func (a *App) dump(doc *document.Document, opts options) error {
	to := opts.to
	if to <= 0 {
		to = doc.Buffer().Size()
	}
	for _, s := range doc.Highlighter().SlicesInRange(opts.from, to) {
		var err error
		if opts.styles && s.Start < doc.Styles().Len() {
			tl := doc.Styles().Themelet(s.Start)
			row := doc.Buffer().IndexToCoord(s.Start).Row
			_, err = fmt.Fprintf(a.out, "%d %d %s #%06x %d:%d\n",
				s.Start, s.End, s.Capture, tl.Color.Hex(), row, doc.VisualCol(s.Start))
		} else {
			_, err = fmt.Fprintf(a.out, "%d %d %s\n", s.Start, s.End, s.Capture)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
