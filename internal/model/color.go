package model

import "strings"

// Color is an event tag. Values outside Palette are kept as-is and only
// affect display.
type Color string

// PaletteEntry is one selectable color.
type PaletteEntry struct {
	Label string
	Value Color
}

// Palette lists the recognized colors; the first entry is the default.
var Palette = []PaletteEntry{
	{Label: "Blue", Value: "#93C5FD"},
	{Label: "Green", Value: "#86EFAC"},
	{Label: "Yellow", Value: "#FDE047"},
	{Label: "Red", Value: "#FCA5A5"},
	{Label: "Purple", Value: "#C4B5FD"},
	{Label: "Gray", Value: "#E2E8F0"},
}

// DefaultColor returns the first palette entry.
func DefaultColor() Color {
	return Palette[0].Value
}

// ParseColor resolves a palette label ("red") or value ("#FCA5A5").
// Anything else passes through unchanged.
func ParseColor(s string) Color {
	s = strings.TrimSpace(s)
	for _, p := range Palette {
		if strings.EqualFold(p.Label, s) || strings.EqualFold(string(p.Value), s) {
			return p.Value
		}
	}
	return Color(s)
}

// Label returns the palette label, or the raw value for unknown colors.
func (c Color) Label() string {
	for _, p := range Palette {
		if p.Value == c {
			return p.Label
		}
	}
	return string(c)
}
