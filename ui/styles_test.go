package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// TestSchemeByName verifies case-insensitive lookup with fallback to none.
func TestSchemeByName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"fire", "fire"},
		{"FIRE", "fire"},
		{"ocean", "ocean"},
		{"", "none"},
		{"plaid", "none"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SchemeByName(tt.in).Name; got != tt.want {
				t.Errorf("SchemeByName(%q).Name = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestColorizeNone verifies the none scheme leaves art untouched.
func TestColorizeNone(t *testing.T) {
	art := "##\n##"
	if got := Colorize(art, SchemeByName("none"), "none", 0); got != art {
		t.Errorf("Colorize with no palette altered the art: %q", got)
	}
}

// TestColorizeLineCount verifies styling preserves the line structure.
func TestColorizeLineCount(t *testing.T) {
	art := "a\nb\nc"
	got := Colorize(art, SchemeByName("fire"), "none", 0)
	if lines := strings.Split(got, "\n"); len(lines) != 3 {
		t.Errorf("Colorize produced %d lines, want 3", len(lines))
	}
}

// TestColorizeFrameAdvancesPalette verifies the frame offset changes the
// applied colors so animations actually animate.
func TestColorizeFrameAdvancesPalette(t *testing.T) {
	// Tests run without a terminal; force a color profile so styling is
	// observable.
	lipgloss.SetColorProfile(termenv.TrueColor)

	art := "####"
	first := Colorize(art, SchemeByName("none"), "rainbow", 0)
	second := Colorize(art, SchemeByName("none"), "rainbow", 1)
	if first == second {
		t.Error("rainbow frames 0 and 1 are identical")
	}
}

// TestFilterFonts verifies fuzzy filtering and the empty-query passthrough.
func TestFilterFonts(t *testing.T) {
	names := []string{"standard", "mini", "block"}

	if got := filterFonts("", names); len(got) != 3 {
		t.Errorf("empty query filtered to %v, want all names", got)
	}
	got := filterFonts("std", names)
	if len(got) != 1 || got[0] != "standard" {
		t.Errorf("filterFonts(std) = %v, want [standard]", got)
	}
	if got := filterFonts("zzz", names); len(got) != 0 {
		t.Errorf("filterFonts(zzz) = %v, want none", got)
	}
}
