package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Language struct {
	Name      string   `toml:"name"`
	FileTypes []string `toml:"file-types"`
	// Grammar names the highlight registry entry. Empty means Name.
	Grammar string `toml:"grammar"`
}

func (l Language) GrammarName() string {
	if l.Grammar != "" {
		return l.Grammar
	}
	return l.Name
}

type Languages struct {
	Languages []Language `toml:"language"`
}

// DefaultLanguages maps file types to the built-in grammars.
func DefaultLanguages() Languages {
	return Languages{Languages: []Language{
		{Name: "go", FileTypes: []string{"go"}},
		{Name: "bash", FileTypes: []string{"sh", "bash", "zsh", ".bashrc", ".zshrc", ".profile"}},
		{Name: "toml", FileTypes: []string{"toml", "Cargo.lock"}},
		{Name: "yaml", FileTypes: []string{"yaml", "yml"}},
		{Name: "markdown", FileTypes: []string{"md", "markdown"}},
	}}
}

func (l Languages) Match(path string) *Language {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for i := range l.Languages {
		lang := &l.Languages[i]
		for _, ft := range lang.FileTypes {
			ftLower := strings.ToLower(ft)
			if ftLower == ext || ftLower == baseLower {
				return lang
			}
			if strings.HasPrefix(ftLower, ".") && strings.TrimPrefix(ftLower, ".") == ext {
				return lang
			}
		}
	}
	return nil
}

// LoadLanguages returns the user's languages.toml entries followed by the
// defaults, so user file types match first.
func LoadLanguages() (Languages, error) {
	defaults := DefaultLanguages()
	path, err := LanguagesPath()
	if err != nil {
		return defaults, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return defaults, err
	}

	var cfg Languages
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return defaults, err
	}
	cfg.Languages = append(cfg.Languages, defaults.Languages...)
	return cfg, nil
}

func LanguagesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "languages.toml"), nil
}
