package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/asciiforge/asciiforge/forge"
)

var fontsCmd = &cobra.Command{
	Use:     "fonts",
	Short:   "List the available fonts",
	Long:    paragraph(fmt.Sprintf("\nList every %s font, built-in and user-provided, with a short sample.", keyword("available"))),
	Example: paragraph("asciiforge fonts\nasciiforge fonts --fonts-dir ~/my-fonts"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		fonts := newFontProvider()
		defer fonts.Close() //nolint:errcheck

		title := cases.Title(language.English)
		for _, name := range fonts.Names() {
			glyphs := fonts.Font(name)
			fmt.Printf("%s (%d rows)\n", title.String(name), glyphs.Height)
			fmt.Println(forge.Render("Abc", glyphs))
		}
		return nil
	},
}
