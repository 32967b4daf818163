package font

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed assets/*.txt
var fontFS embed.FS

// builtinNames lists the fonts shipped with the binary, in display order.
var builtinNames = []string{"standard", "mini"}

// loadBuiltin reads and parses an embedded font by name.
func loadBuiltin(name string) (GlyphMap, error) {
	data, err := fontFS.ReadFile("assets/" + name + ".txt")
	if err != nil {
		return GlyphMap{}, fmt.Errorf("unable to read embedded font %s: %w", name, err)
	}
	m, err := Parse(name, string(data))
	if err != nil {
		return GlyphMap{}, fmt.Errorf("unable to parse embedded font: %w", err)
	}
	return m, nil
}

// builtinExists reports whether name is one of the embedded fonts.
func builtinExists(name string) bool {
	for _, n := range builtinNames {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
