package forge

import (
	"strings"
	"testing"

	"github.com/asciiforge/asciiforge/font"
)

const testFontDef = `height 2

char space
..
..

char H
#.#.
###.

char I
#.
#.

char A
.#..
#.#.
`

func testFont(t *testing.T) font.GlyphMap {
	t.Helper()
	m, err := font.Parse("testfont", testFontDef)
	if err != nil {
		t.Fatalf("unable to parse test font: %v", err)
	}
	return m
}

// TestRenderComposition verifies row-major left-to-right composition.
func TestRenderComposition(t *testing.T) {
	glyphs := testFont(t)

	got := Render("HI", glyphs)
	// "." cells become spaces during parsing.
	want := strings.ReplaceAll(strings.Join([]string{
		"#.#.#.",
		"###.#.",
	}, "\n"), ".", " ")
	if got != want {
		t.Errorf("Render(HI) =\n%s\nwant:\n%s", got, want)
	}

	if lines := strings.Split(got, "\n"); len(lines) != glyphs.Height {
		t.Errorf("output has %d lines, want %d", len(lines), glyphs.Height)
	}
}

// TestRenderDeterminism verifies repeated renders are byte-identical.
func TestRenderDeterminism(t *testing.T) {
	glyphs := testFont(t)

	first := Render("AHA HI", glyphs)
	second := Render("AHA HI", glyphs)
	if first != second {
		t.Error("Render produced different output for identical input")
	}
}

// TestRenderUnknownCharacter verifies unsupported characters become blank
// space as wide as the space glyph instead of aborting.
func TestRenderUnknownCharacter(t *testing.T) {
	glyphs := testFont(t)

	got := Render("I@I", glyphs)
	// I is two cells wide, the blank filler matches the space glyph's width.
	want := strings.ReplaceAll(strings.Join([]string{
		"#...#.",
		"#...#.",
	}, "\n"), ".", " ")
	if got != want {
		t.Errorf("Render(I@I) =\n%q\nwant:\n%q", got, want)
	}
}

// TestRenderCaseFolding verifies lower-case input resolves to the capitals
// the font defines.
func TestRenderCaseFolding(t *testing.T) {
	glyphs := testFont(t)

	if got, want := Render("hi", glyphs), Render("HI", glyphs); got != want {
		t.Errorf("Render(hi) = %q, want %q", got, want)
	}
}

// TestRenderPreservesWhitespace verifies per-row whitespace from the font is
// kept exactly, including trailing blanks.
func TestRenderPreservesWhitespace(t *testing.T) {
	glyphs := testFont(t)

	got := Render("A", glyphs)
	want := ".#..\n#.#."
	// "." cells become spaces during parsing.
	want = strings.ReplaceAll(want, ".", " ")
	if got != want {
		t.Errorf("Render(A) = %q, want %q", got, want)
	}
}

// TestRenderEmptyText verifies empty input yields the font's empty rows; the
// orchestrator rejects empty text before rendering, but the renderer itself
// must stay total.
func TestRenderEmptyText(t *testing.T) {
	glyphs := testFont(t)

	if got, want := Render("", glyphs), "\n"; got != want {
		t.Errorf("Render(\"\") = %q, want %q", got, want)
	}
}
