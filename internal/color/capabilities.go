package color

import "strings"

// Capabilities is the parsed GREP_COLORS table: one Cap per output field,
// plus the two boolean switches `rv` and `ne`.
type Capabilities struct {
	// SelectedMatch ("ms") colors a match on a selected line.
	SelectedMatch Cap
	// ContextMatch ("mc") colors a match on a context line.
	ContextMatch Cap
	// Match ("mt") colors a match regardless of selected/context, overriding
	// ms/mc when set explicitly by the user.
	Match    Cap
	Filename Cap // fn
	Line     Cap // ln
	Byte     Cap // bn
	Sep      Cap // se
	Selected Cap // sl
	Context  Cap // cx

	// Invert swaps the Selected/Context line colors when the run is
	// inverted (`rv` capability).
	Invert bool
	// EraseEOLDisable disables the erase-to-end-of-line suffix (`ne`).
	EraseEOLDisable bool

	// matchExplicit records whether `mt` was set by the user, so callers
	// can tell it apart from the derived default.
	matchExplicit bool
}

// Default returns grep's standard color table.
func Default() Capabilities {
	return Capabilities{
		SelectedMatch: New("01", "31").WithEraseEOL(),
		ContextMatch:  New("01", "31").WithEraseEOL(),
		Filename:      New("35").WithEraseEOL(),
		Line:          New("32").WithEraseEOL(),
		Byte:          New("32").WithEraseEOL(),
		Sep:           New("36").WithEraseEOL(),
		Selected:      Cap{},
		Context:       Cap{},
	}
}

// MatchCap returns the match color to use for a line, honoring an explicit
// `mt` override over the selected/context-specific `ms`/`mc` pair.
func (c Capabilities) MatchCap(selected bool) Cap {
	if c.matchExplicit {
		return c.Match
	}
	if selected {
		return c.SelectedMatch
	}
	return c.ContextMatch
}

// LineCap returns the whole-line color for a selected or context line,
// honoring `rv` (reverse selected/context colors under invert).
func (c Capabilities) LineCap(selected, inverted bool) Cap {
	if inverted && c.Invert {
		selected = !selected
	}
	if selected {
		return c.Selected
	}
	return c.Context
}

// ParseGrepColors parses a GREP_COLORS environment value
// ("cap=value:cap=value:...") on top of Default(), so unknown or omitted
// caps keep their default. Unknown capability names are ignored, per
// spec.md's forward-compatibility note.
func ParseGrepColors(env string) Capabilities {
	c := Default()
	if env == "" {
		return c
	}
	for _, pair := range strings.Split(env, ":") {
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		capName, val := parts[0], parts[1]
		switch capName {
		case "mt":
			c.Match = ParseAttrs(val).WithEraseEOL()
			c.matchExplicit = true
		case "ms":
			c.SelectedMatch = ParseAttrs(val).WithEraseEOL()
		case "mc":
			c.ContextMatch = ParseAttrs(val).WithEraseEOL()
		case "fn":
			c.Filename = ParseAttrs(val).WithEraseEOL()
		case "ln":
			c.Line = ParseAttrs(val).WithEraseEOL()
		case "bn":
			c.Byte = ParseAttrs(val).WithEraseEOL()
		case "se":
			c.Sep = ParseAttrs(val).WithEraseEOL()
		case "sl":
			c.Selected = ParseAttrs(val).WithEraseEOL()
		case "cx":
			c.Context = ParseAttrs(val).WithEraseEOL()
		case "rv":
			c.Invert = ParseBool(val)
		case "ne":
			c.EraseEOLDisable = ParseBool(val)
		}
	}
	if c.EraseEOLDisable {
		c.stripEraseEOL()
	}
	return c
}

// ApplyLegacyGrepColor folds the deprecated single-attribute GREP_COLOR
// variable into `ms`, `mc` and `mt`, matching historical grep behavior:
// GREP_COLOR only ever controlled the match color.
func (c Capabilities) ApplyLegacyGrepColor(attr string) Capabilities {
	if attr == "" {
		return c
	}
	attrCap := ParseAttrs(attr).WithEraseEOL()
	c.SelectedMatch = attrCap
	c.ContextMatch = attrCap
	c.Match = attrCap
	c.matchExplicit = true
	return c
}

func (c *Capabilities) stripEraseEOL() {
	strip := func(c Cap) Cap {
		c.eraseEOL = false
		return c
	}
	c.SelectedMatch = strip(c.SelectedMatch)
	c.ContextMatch = strip(c.ContextMatch)
	c.Match = strip(c.Match)
	c.Filename = strip(c.Filename)
	c.Line = strip(c.Line)
	c.Byte = strip(c.Byte)
	c.Sep = strip(c.Sep)
	c.Selected = strip(c.Selected)
	c.Context = strip(c.Context)
}
