package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/kobzarvs/qcore/internal/theme"
)

const maxInherits = 8

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads theme/<name>.toml. Rules are either a color string or a
// table with fg, bg and modifiers; tables of other keys nest names with a
// dot. A [palette] table names colors, and inherits = "<name>" layers the
// file over another theme. The built-in theme needs no file.
func LoadTheme(name string) (theme.Definition, error) {
	return loadTheme(name, 0)
}

func loadTheme(name string, depth int) (theme.Definition, error) {
	if depth > maxInherits {
		return theme.Definition{}, fmt.Errorf("theme %s: inherits nested too deeply", name)
	}
	path, err := ThemePath(name)
	if err != nil {
		return theme.Definition{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && name == theme.DefaultName {
			return theme.DefaultDefinition(), nil
		}
		return theme.Definition{}, err
	}

	var raw map[string]toml.Primitive
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return theme.Definition{}, fmt.Errorf("theme %s: %w", name, err)
	}

	def := theme.Definition{Entries: map[string]theme.EntryDef{}, Palette: map[string]string{}}
	if p, ok := raw["inherits"]; ok {
		var parent string
		if err := md.PrimitiveDecode(p, &parent); err != nil {
			return theme.Definition{}, fmt.Errorf("theme %s: inherits: %w", name, err)
		}
		if def, err = loadTheme(parent, depth+1); err != nil {
			return theme.Definition{}, fmt.Errorf("theme %s: %w", name, err)
		}
		def = cloneDefinition(def)
	}
	if p, ok := raw["palette"]; ok {
		var palette map[string]string
		if err := md.PrimitiveDecode(p, &palette); err != nil {
			return theme.Definition{}, fmt.Errorf("theme %s: palette: %w", name, err)
		}
		for k, v := range palette {
			def.Palette[k] = v
		}
	}
	for key, p := range raw {
		if key == "inherits" || key == "palette" {
			continue
		}
		if err := decodeRule(md, key, p, def.Entries); err != nil {
			return theme.Definition{}, fmt.Errorf("theme %s: %w", name, err)
		}
	}
	return def, nil
}

func decodeRule(md toml.MetaData, key string, p toml.Primitive, out map[string]theme.EntryDef) error {
	var color string
	if err := md.PrimitiveDecode(p, &color); err == nil {
		out[key] = theme.EntryDef{Fg: color}
		return nil
	}
	var table map[string]toml.Primitive
	if err := md.PrimitiveDecode(p, &table); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	var e theme.EntryDef
	isRule := false
	for k, v := range table {
		var err error
		switch k {
		case "fg":
			err = md.PrimitiveDecode(v, &e.Fg)
		case "bg":
			err = md.PrimitiveDecode(v, &e.Bg)
		case "modifiers":
			err = md.PrimitiveDecode(v, &e.Modifiers)
		default:
			err = decodeRule(md, key+"."+k, v, out)
			if err == nil {
				continue
			}
		}
		if err != nil {
			return fmt.Errorf("%s.%s: %w", key, k, err)
		}
		isRule = true
	}
	if isRule {
		out[key] = e
	}
	return nil
}

func cloneDefinition(d theme.Definition) theme.Definition {
	out := theme.Definition{
		Entries: make(map[string]theme.EntryDef, len(d.Entries)),
		Palette: make(map[string]string, len(d.Palette)),
	}
	for k, v := range d.Entries {
		out.Entries[k] = v
	}
	for k, v := range d.Palette {
		out.Palette[k] = v
	}
	return out
}
