package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# Keys

| key | action |
|---|---|
| j / k | scroll one row |
| pgdn / pgup | scroll one page |
| g / G | jump to top / bottom |
| f / F | fling down / up |
| + / - | more / fewer columns |
| a | append cards |
| x | remove the first visible card |
| r | reshuffle (invalidates positions) |
| s / o | save / restore viewport |
| t | next theme |
| ? | close this help |
| q | quit |

Drag with the left button to scroll; release fast to fling. Click a card to
flash it, hold to remove it.
`

// renderHelp renders the key table for width, falling back to the raw
// markdown if glamour fails.
func renderHelp(width int) string {
	wrap := width - 8
	if wrap < 20 {
		wrap = 20
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(wrap))
	if err != nil {
		return helpMarkdown
	}
	out, err := renderer.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.Trim(out, "\n")
}
