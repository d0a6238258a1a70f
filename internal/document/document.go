// Package document defines the abstract document model exchanged between
// the translation engine and per-format document collaborators. The engine
// never inspects a concrete file format; collaborators extract occurrences
// into these types and apply the engine's output back to their own storage.
package document

// Location identifies one physical region in a document (a cell, a text
// run anchor, a shape). The value is produced and owned by the document
// collaborator; the engine only compares and echoes it.
type Location string

// ColorKind tags which variant of a ColorSpec is populated.
type ColorKind int

const (
	// ColorUnset means the segment carries no explicit color.
	ColorUnset ColorKind = iota
	// ColorDirect is an explicit RGB value.
	ColorDirect
	// ColorPalette is an index into the document's legacy color palette.
	ColorPalette
	// ColorTheme is a theme color slot, optionally adjusted by a tint.
	ColorTheme
	// ColorAuto lets the renderer pick a contrasting color.
	ColorAuto
)

// ColorSpec is a tagged color variant. Exactly one variant is meaningful,
// selected by Kind; copies must preserve the kind and never coerce one
// variant into another.
type ColorSpec struct {
	Kind    ColorKind
	RGB     string   // ColorDirect: RRGGBB hex, no leading '#'
	Palette int      // ColorPalette: palette index
	Theme   int      // ColorTheme: theme slot
	Tint    *float64 // ColorTheme: optional tint in [-1, 1]
}

// DirectColor returns a ColorSpec holding an explicit RGB value.
func DirectColor(rgb string) ColorSpec {
	return ColorSpec{Kind: ColorDirect, RGB: rgb}
}

// PaletteColor returns a ColorSpec referencing a palette index.
func PaletteColor(index int) ColorSpec {
	return ColorSpec{Kind: ColorPalette, Palette: index}
}

// ThemeColor returns a ColorSpec referencing a theme slot. tint may be nil.
func ThemeColor(theme int, tint *float64) ColorSpec {
	return ColorSpec{Kind: ColorTheme, Theme: theme, Tint: tint}
}

// AutoColor returns the automatic color variant.
func AutoColor() ColorSpec {
	return ColorSpec{Kind: ColorAuto}
}

// Clone returns a copy of the color with the same kind and payload.
func (c ColorSpec) Clone() ColorSpec {
	out := c
	if c.Tint != nil {
		tint := *c.Tint
		out.Tint = &tint
	}
	return out
}

// FontStyle describes the character formatting of one segment. Zero-valued
// fields mean "inherit the document default".
type FontStyle struct {
	Family    string
	SizePt    float64
	Bold      bool
	Italic    bool
	Underline bool
	Color     ColorSpec
}

// Clone returns a deep copy of the style.
func (f *FontStyle) Clone() *FontStyle {
	if f == nil {
		return nil
	}
	out := *f
	out.Color = f.Color.Clone()
	return &out
}

// FormatSegment is a contiguous substring of an occurrence's text sharing
// one uniform style. A nil Style inherits the document default.
type FormatSegment struct {
	Text  string
	Style *FontStyle
}

// TextOccurrence is one place in a document where translatable text was
// found. Segments, when present, concatenate to exactly RawText. An
// occurrence is created once during extraction and replaced, never mutated.
type TextOccurrence struct {
	RawText     string
	Location    Location
	Segments    []FormatSegment
	MirrorGroup string // empty when the location is not mirrored
}

// SegmentsValid reports whether the segments concatenate to RawText.
// Occurrences without segments are always valid (plain text).
func (o *TextOccurrence) SegmentsValid() bool {
	if len(o.Segments) == 0 {
		return true
	}
	total := 0
	for _, s := range o.Segments {
		total += len(s.Text)
	}
	if total != len(o.RawText) {
		return false
	}
	pos := 0
	for _, s := range o.Segments {
		if o.RawText[pos:pos+len(s.Text)] != s.Text {
			return false
		}
		pos += len(s.Text)
	}
	return true
}

// MirrorGroup is a set of locations that must display byte-identical text,
// such as the cells under one merged range.
type MirrorGroup struct {
	ID      string
	Members []Location
}

// Target is the write side of a document collaborator. ApplyText replaces
// the text at a location with styled segments; ResolveMirrorGroup reports
// whether a location participates in a mirrored region.
type Target interface {
	ApplyText(loc Location, segments []FormatSegment) error
	ResolveMirrorGroup(loc Location) (*MirrorGroup, bool)
}
