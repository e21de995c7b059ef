package ui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

const defaultTheme = "catppuccin"

type palette struct {
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Border    lipgloss.Color
	Banner    lipgloss.Color
	Photo     lipgloss.Color
	Pressed   lipgloss.Color
	Flash     lipgloss.Color
	StatusBg  lipgloss.Color
	StatusFg  lipgloss.Color
	StatusErr lipgloss.Color
}

var palettes = map[string]palette{
	"catppuccin": {
		Text:      lipgloss.Color("#cdd6f4"),
		Muted:     lipgloss.Color("#a6adc8"),
		Border:    lipgloss.Color("#585b70"),
		Banner:    lipgloss.Color("#cba6f7"),
		Photo:     lipgloss.Color("#94e2d5"),
		Pressed:   lipgloss.Color("#f9e2af"),
		Flash:     lipgloss.Color("#f38ba8"),
		StatusBg:  lipgloss.Color("#313244"),
		StatusFg:  lipgloss.Color("#cdd6f4"),
		StatusErr: lipgloss.Color("#f38ba8"),
	},
	"dracula": {
		Text:      lipgloss.Color("#f8f8f2"),
		Muted:     lipgloss.Color("#6272a4"),
		Border:    lipgloss.Color("#44475a"),
		Banner:    lipgloss.Color("#bd93f9"),
		Photo:     lipgloss.Color("#8be9fd"),
		Pressed:   lipgloss.Color("#f1fa8c"),
		Flash:     lipgloss.Color("#ff79c6"),
		StatusBg:  lipgloss.Color("#343746"),
		StatusFg:  lipgloss.Color("#f8f8f2"),
		StatusErr: lipgloss.Color("#ff5555"),
	},
	"gruvbox": {
		Text:      lipgloss.Color("#ebdbb2"),
		Muted:     lipgloss.Color("#a89984"),
		Border:    lipgloss.Color("#665c54"),
		Banner:    lipgloss.Color("#fabd2f"),
		Photo:     lipgloss.Color("#8ec07c"),
		Pressed:   lipgloss.Color("#fe8019"),
		Flash:     lipgloss.Color("#d3869b"),
		StatusBg:  lipgloss.Color("#3c3836"),
		StatusFg:  lipgloss.Color("#ebdbb2"),
		StatusErr: lipgloss.Color("#fb4934"),
	},
	"solarized_dark": {
		Text:      lipgloss.Color("#fdf6e3"),
		Muted:     lipgloss.Color("#93a1a1"),
		Border:    lipgloss.Color("#586e75"),
		Banner:    lipgloss.Color("#b58900"),
		Photo:     lipgloss.Color("#2aa198"),
		Pressed:   lipgloss.Color("#cb4b16"),
		Flash:     lipgloss.Color("#d33682"),
		StatusBg:  lipgloss.Color("#073642"),
		StatusFg:  lipgloss.Color("#fdf6e3"),
		StatusErr: lipgloss.Color("#dc322f"),
	},
}

func paletteFor(name string) palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[defaultTheme]
}

func themeNames() []string {
	names := make([]string, 0, len(palettes))
	for k := range palettes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// nextThemeName steps through the sorted theme names, wrapping at both ends.
// An unknown current name counts as the first theme.
func nextThemeName(current string, step int) string {
	names := themeNames()
	idx := sort.SearchStrings(names, current)
	if idx >= len(names) || names[idx] != current {
		idx = 0
	}
	idx = ((idx+step)%len(names) + len(names)) % len(names)
	return names[idx]
}

// cardStyles are the frames a card is drawn with. They keep feed.Frame's
// border and padding so drawn cards match their measured height.
type cardStyles struct {
	normal  lipgloss.Style
	photo   lipgloss.Style
	pressed lipgloss.Style
	flash   lipgloss.Style
	status  lipgloss.Style
	failed  lipgloss.Style
}

func stylesFor(p palette, frame lipgloss.Style) cardStyles {
	return cardStyles{
		normal:  frame.BorderForeground(p.Border).Foreground(p.Text),
		photo:   frame.BorderForeground(p.Border).Foreground(p.Photo),
		pressed: frame.BorderForeground(p.Pressed).Foreground(p.Pressed),
		flash:   frame.BorderForeground(p.Flash).Foreground(p.Flash),
		status:  lipgloss.NewStyle().Background(p.StatusBg).Foreground(p.StatusFg),
		failed:  lipgloss.NewStyle().Background(p.StatusBg).Foreground(p.StatusErr).Bold(true),
	}
}
