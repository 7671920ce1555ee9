package theme

// DefaultName is the theme used when no theme file is configured.
const DefaultName = "qcore_dark"

// DefaultDefinition is a dark theme covering the built-in capture families.
func DefaultDefinition() Definition {
	return Definition{
		Palette: map[string]string{
			"bg":     "#1e1e1e",
			"fg":     "#d4d4d4",
			"gray":   "#6a9955",
			"blue":   "#569cd6",
			"orange": "#ce9178",
			"green":  "#b5cea8",
			"yellow": "#dcdcaa",
			"teal":   "#4ec9b0",
			"sky":    "#9cdcfe",
			"gold":   "#d7ba7d",
		},
		Entries: map[string]EntryDef{
			BaseEntry:                   {Fg: "fg", Bg: "bg"},
			"ui.selection":              {Bg: "#264f78"},
			"ui.cursor":                 {Modifiers: []string{"reversed"}},
			"comment":                   {Fg: "gray", Modifiers: []string{"italic"}},
			"keyword":                   {Fg: "blue"},
			"keyword.control":           {Fg: "#c586c0"},
			"string":                    {Fg: "orange"},
			"constant":                  {Fg: "sky"},
			"constant.numeric":          {Fg: "green"},
			"constant.character.escape": {Fg: "gold"},
			"function":                  {Fg: "yellow"},
			"type":                      {Fg: "teal"},
			"namespace":                 {Fg: "teal"},
			"variable":                  {Fg: "sky"},
			"variable.parameter":        {Fg: "sky", Modifiers: []string{"italic"}},
			"operator":                  {Fg: "fg"},
			"punctuation":               {Fg: "fg"},
			"label":                     {Fg: "gold"},
			"markup.heading":            {Fg: "blue", Modifiers: []string{"bold"}},
			"markup.link":               {Fg: "sky", Modifiers: []string{"underlined"}},
			"markup.raw":                {Fg: "orange"},
		},
	}
}
