package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/kobzarvs/qcore/internal/cursor"
	"github.com/kobzarvs/qcore/internal/history"
	"github.com/kobzarvs/qcore/internal/logger"
	"github.com/kobzarvs/qcore/internal/theme"
)

type EditorOptions struct {
	TabWidth     int    `toml:"tab-width"`
	HistoryLimit int    `toml:"history-limit"`
	CursorBlink  string `toml:"cursor-blink"`
	Theme        string `toml:"theme"`
}

// BlinkInterval parses CursorBlink. Unparsable or non-positive values give
// the default interval.
func (o EditorOptions) BlinkInterval() time.Duration {
	if o.CursorBlink == "" {
		return cursor.DefaultBlinkInterval
	}
	d, err := time.ParseDuration(o.CursorBlink)
	if err != nil || d <= 0 {
		logger.Warn("config: bad cursor-blink", "value", o.CursorBlink, "error", err)
		return cursor.DefaultBlinkInterval
	}
	return d
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	// Keymap maps key names to document actions.
	Keymap map[string]string `toml:"keymap"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:     4,
			HistoryLimit: history.DefaultLimit,
			CursorBlink:  cursor.DefaultBlinkInterval.String(),
			Theme:        theme.DefaultName,
		},
		Keymap: map[string]string{
			"left":            "move_left",
			"right":           "move_right",
			"up":              "move_up",
			"down":            "move_down",
			"shift+left":      "extend_left",
			"shift+right":     "extend_right",
			"shift+up":        "extend_up",
			"shift+down":      "extend_down",
			"home":            "line_start",
			"end":             "line_end",
			"shift+home":      "extend_line_start",
			"shift+end":       "extend_line_end",
			"ctrl+home":       "file_start",
			"ctrl+end":        "file_end",
			"alt+left":        "word_left",
			"alt+right":       "word_right",
			"alt+shift+left":  "extend_word_left",
			"alt+shift+right": "extend_word_right",
			"ctrl+alt+down":   "add_cursor_down",
			"ctrl+alt+up":     "add_cursor_up",
			"esc":             "clear_multi_cursors",
			"alt+r":           "rotate_primary",
			"ctrl+a":          "select_all",
			"alt+up":          "expand_selection",
			"alt+down":        "shrink_selection",
			"backspace":       "backspace",
			"del":             "delete_char",
			"enter":           "newline",
			"tab":             "indent",
			"ctrl+z":          "undo",
			"ctrl+shift+z":    "redo",
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Editor.HistoryLimit > 0 {
		cfg.Editor.HistoryLimit = userCfg.Editor.HistoryLimit
	}
	if userCfg.Editor.CursorBlink != "" {
		cfg.Editor.CursorBlink = userCfg.Editor.CursorBlink
	}
	if userCfg.Editor.Theme != "" {
		cfg.Editor.Theme = userCfg.Editor.Theme
	}
	for k, v := range userCfg.Keymap {
		cfg.Keymap[k] = v
	}
	logger.Debug("config: loaded", "path", path)
	return cfg, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("QCORE_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qcore"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qcore"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
