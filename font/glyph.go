// Package font resolves font identifiers to glyph maps: lookup tables from
// character to its multi-row block-art representation. Fonts ship embedded in
// the binary; additional fonts can be loaded from a user directory.
package font

import "github.com/mattn/go-runewidth"

// GlyphMap is one font's character table. Every glyph has exactly Height
// rows, and every row of a given glyph has the same display width. The space
// character is always present and serves as the width reference for
// characters the font does not cover.
type GlyphMap struct {
	// Name is the font identifier the map was resolved from.
	Name string
	// Height is the row count shared by all glyphs.
	Height int

	glyphs map[rune][]string
}

// Lookup returns the rows for r, and whether the font covers it. Fonts
// usually define capitals only, so a miss falls back to the upper-case form
// of r before giving up.
func (m GlyphMap) Lookup(r rune) ([]string, bool) {
	return m.foldLookup(r)
}

// BlankWidth is the display width used for characters the font does not
// cover: the width of the space glyph, or of any glyph when space is somehow
// absent.
func (m GlyphMap) BlankWidth() int {
	if rows, ok := m.glyphs[' ']; ok && len(rows) > 0 {
		return runewidth.StringWidth(rows[0])
	}
	for _, rows := range m.glyphs {
		if len(rows) > 0 {
			return runewidth.StringWidth(rows[0])
		}
	}
	return 1
}

// Len returns the number of characters the font covers.
func (m GlyphMap) Len() int { return len(m.glyphs) }
