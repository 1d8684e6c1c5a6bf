package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/smith-tools/sosumi/internal/render"
)

// writeLine writes text to stdout followed by a single newline. A thin
// wrapper so output funnels through one place regardless of which
// subcommand produced it.
func writeLine(text string) {
	fmt.Println(text)
}

// printRendered writes a rendered document to stdout. Markdown output is
// passed through glamour for ANSI terminal rendering; anything glamour
// cannot handle falls back to the raw text.
func printRendered(rendered render.Rendered) error {
	if rendered.Format != render.FormatMarkdown {
		writeLine(rendered.Text)
		return nil
	}
	out, err := glamour.Render(rendered.Text, "auto")
	if err != nil {
		writeLine(rendered.Text)
		return nil
	}
	writeLine(out)
	return nil
}
