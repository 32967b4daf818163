package font

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Font files are plain text:
//
//	# comment
//	height 5
//	char A
//	.##.
//	#..#
//	####
//	#..#
//	#..#
//	char space
//	...
//
// Each "char" line names a single character (or the word "space") and is
// followed by exactly height rows. Inside rows, "." marks a blank cell and
// every other character is kept literally, which keeps blank columns visible
// in the file. Rows of a glyph are padded to the glyph's widest row so every
// row has equal display width.

// Parse reads a font definition and returns its glyph map. The map is valid
// on return: uniform height, space defined, equal row widths per glyph.
func Parse(name, data string) (GlyphMap, error) {
	sc := bufio.NewScanner(strings.NewReader(data))

	height := 0
	glyphs := make(map[rune][]string)
	lineNo := 0

	next := func() (string, bool) {
		for sc.Scan() {
			lineNo++
			line := sc.Text()
			// Comments and blank lines are only meaningful between glyph
			// blocks; glyph rows are consumed verbatim below.
			if trimmed := strings.TrimSpace(line); trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
			return line, true
		}
		return "", false
	}

	line, ok := next()
	if !ok {
		return GlyphMap{}, fmt.Errorf("font %s: empty definition", name)
	}
	if !strings.HasPrefix(line, "height ") {
		return GlyphMap{}, fmt.Errorf("font %s: line %d: expected height declaration, got %q", name, lineNo, line)
	}
	h, err := strconv.Atoi(strings.TrimPrefix(line, "height "))
	if err != nil || h < 1 {
		return GlyphMap{}, fmt.Errorf("font %s: line %d: bad height %q", name, lineNo, strings.TrimPrefix(line, "height "))
	}
	height = h

	for {
		line, ok := next()
		if !ok {
			break
		}
		if !strings.HasPrefix(line, "char ") {
			return GlyphMap{}, fmt.Errorf("font %s: line %d: expected char declaration, got %q", name, lineNo, line)
		}
		r, err := parseCharName(strings.TrimPrefix(line, "char "))
		if err != nil {
			return GlyphMap{}, fmt.Errorf("font %s: line %d: %w", name, lineNo, err)
		}

		rows := make([]string, 0, height)
		for i := 0; i < height; i++ {
			if !sc.Scan() {
				return GlyphMap{}, fmt.Errorf("font %s: glyph %q: want %d rows, got %d", name, r, height, i)
			}
			lineNo++
			rows = append(rows, strings.ReplaceAll(sc.Text(), ".", " "))
		}
		glyphs[r] = padRows(rows)
	}

	if _, ok := glyphs[' ']; !ok {
		return GlyphMap{}, fmt.Errorf("font %s: space glyph is required", name)
	}

	return GlyphMap{Name: name, Height: height, glyphs: glyphs}, nil
}

// parseCharName resolves the argument of a "char" line. Rows cannot carry a
// meaningful lone space, so the space glyph is spelled out.
func parseCharName(s string) (rune, error) {
	if s == "space" {
		return ' ', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("bad char name %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// padRows right-pads every row to the display width of the widest row.
func padRows(rows []string) []string {
	width := 0
	for _, row := range rows {
		if w := runewidth.StringWidth(row); w > width {
			width = w
		}
	}
	padded := make([]string, len(rows))
	for i, row := range rows {
		padded[i] = row + strings.Repeat(" ", width-runewidth.StringWidth(row))
	}
	return padded
}

// foldLookup finds rows for r, falling back to its upper-case form. Fonts
// typically define capitals only.
func (m GlyphMap) foldLookup(r rune) ([]string, bool) {
	if rows, ok := m.glyphs[r]; ok {
		return rows, true
	}
	if upper := unicode.ToUpper(r); upper != r {
		if rows, ok := m.glyphs[upper]; ok {
			return rows, true
		}
	}
	return nil, false
}
