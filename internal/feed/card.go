package feed

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Kind is what an entry shows.
type Kind int

const (
	KindNote Kind = iota
	KindPhoto
	// KindBanner is the feed header or footer. Banners span every lane.
	KindBanner
)

func (k Kind) String() string {
	switch k {
	case KindNote:
		return "note"
	case KindPhoto:
		return "photo"
	case KindBanner:
		return "banner"
	}
	return "unknown"
}

// Entry is one generated piece of feed content.
type Entry struct {
	ID    int64
	Kind  Kind
	Title string
	Body  string
	// Rows is the picture height of a photo.
	Rows int
}

// Frame is the style a card is measured with. Renderers may recolour it but
// must keep its border and padding.
var Frame = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

var titleStyle = lipgloss.NewStyle().Bold(true)

// Card is the item content for one entry. Its height depends on the width it
// is given.
type Card struct {
	Entry Entry
	flash int

	bannerWidth int
	bannerText  string
}

func NewCard(e Entry) *Card { return &Card{Entry: e, bannerWidth: -1} }

// Reset points the card at e. A flash survives only if e is the same entry.
func (c *Card) Reset(e Entry) {
	if c.Entry.ID != e.ID {
		c.flash = 0
	}
	c.Entry = e
	c.bannerWidth = -1
}

func (c *Card) Measure(width int) int { return lipgloss.Height(c.Render(width, Frame)) }

// HasTransientState reports a running flash. The grid keeps such cards bound
// to their entry instead of pooling them.
func (c *Card) HasTransientState() bool { return c.flash > 0 }

// Flash highlights the card for the given number of frames.
func (c *Card) Flash(frames int) { c.flash = frames }

func (c *Card) Flashing() bool { return c.flash > 0 }

// Tick counts down a flash and reports whether it is still running.
func (c *Card) Tick() bool {
	if c.flash > 0 {
		c.flash--
	}
	return c.flash > 0
}

// Render draws the card width cells wide inside frame.
func (c *Card) Render(width int, frame lipgloss.Style) string {
	if c.Entry.Kind == KindBanner {
		return c.banner(width)
	}
	inner := width - frame.GetHorizontalBorderSize()
	if inner < 1 {
		inner = 1
	}
	text := inner - frame.GetHorizontalPadding()
	if text < 1 {
		text = 1
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(c.Entry.Title))
	switch c.Entry.Kind {
	case KindPhoto:
		fill := strings.Repeat("▒", text)
		for i := 0; i < c.Entry.Rows; i++ {
			b.WriteString("\n" + fill)
		}
	default:
		if c.Entry.Body != "" {
			b.WriteString("\n" + c.Entry.Body)
		}
	}
	return frame.Width(inner).Render(b.String())
}

// banner renders markdown to the full width. The result is cached per width.
func (c *Card) banner(width int) string {
	if width == c.bannerWidth {
		return c.bannerText
	}
	out := c.Entry.Body
	if width > 4 {
		renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width-4))
		if err == nil {
			if rendered, err := renderer.Render(c.Entry.Body); err == nil {
				out = strings.Trim(rendered, "\n")
			}
		}
	}
	c.bannerWidth, c.bannerText = width, lipgloss.NewStyle().Width(width).Render(out)
	return c.bannerText
}
