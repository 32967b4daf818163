package forge

import (
	"strings"

	"github.com/asciiforge/asciiforge/font"
)

// Render composes text into block art using the given glyph map. It is pure
// and deterministic: the same text and font always produce byte-identical
// output.
//
// Composition is row-major: for each of the font's rows, every character's
// corresponding glyph row is concatenated left to right. Characters the font
// does not cover become blank space as wide as the font's space glyph; they
// never abort rendering. Rows are joined with newlines and whitespace is
// preserved exactly as the font defines it.
func Render(text string, glyphs font.GlyphMap) string {
	rows := make([]strings.Builder, glyphs.Height)
	blank := strings.Repeat(" ", glyphs.BlankWidth())

	for _, r := range text {
		glyph, ok := glyphs.Lookup(r)
		for i := range rows {
			if ok {
				rows[i].WriteString(glyph[i])
			} else {
				rows[i].WriteString(blank)
			}
		}
	}

	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return strings.Join(lines, "\n")
}
