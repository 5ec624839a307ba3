package render

// Icon is the glyph and colour a marker is drawn with.
type Icon struct {
	Glyph string `mapstructure:"glyph" yaml:"glyph"`
	Color string `mapstructure:"color" yaml:"color"`
}

// IconSet maps categories to icons. Unregistered categories get Default.
type IconSet struct {
	Default Icon
	byCat   map[string]Icon
}

// DefaultIcon is used when no category icon matches.
var DefaultIcon = Icon{Glyph: "●", Color: "#7C3AED"}

// NewIconSet copies byCat; blank glyphs or colours fall back to def's.
func NewIconSet(def Icon, byCat map[string]Icon) IconSet {
	if def.Glyph == "" {
		def.Glyph = DefaultIcon.Glyph
	}
	if def.Color == "" {
		def.Color = DefaultIcon.Color
	}
	m := make(map[string]Icon, len(byCat))
	for cat, ic := range byCat {
		if ic.Glyph == "" {
			ic.Glyph = def.Glyph
		}
		if ic.Color == "" {
			ic.Color = def.Color
		}
		m[cat] = ic
	}
	return IconSet{Default: def, byCat: m}
}

// DefaultIcons registers the two categories the published dataset colours.
func DefaultIcons() IconSet {
	return NewIconSet(DefaultIcon, map[string]Icon{
		"A2.1": {Glyph: "●", Color: "#EF4444"},
		"A3.1": {Glyph: "●", Color: "#3B82F6"},
	})
}

// For returns the icon for category and whether one was registered.
func (s IconSet) For(category string) (Icon, bool) {
	if ic, ok := s.byCat[category]; ok && category != "" {
		return ic, true
	}
	def := s.Default
	if def.Glyph == "" {
		def = DefaultIcon
	}
	return def, false
}
