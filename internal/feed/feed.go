// Package feed is a deterministic data source for the grid: a seeded stream
// of notes and photos framed by a header and footer banner.
package feed

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/DaanHessen/stagger-tui/internal/engine"
)

const (
	headerID int64 = -10
	footerID int64 = -11
)

var (
	ErrNotEntry = errors.New("position is not an entry")
)

var (
	titleWords = []string{
		"harbor", "lantern", "quiet", "orchard", "copper", "meadow", "signal",
		"north", "ember", "glass", "tide", "atlas", "hollow", "river", "static",
	}
	bodyWords = []string{
		"the", "light", "moves", "over", "water", "and", "nobody", "notices",
		"until", "morning", "a", "small", "engine", "hums", "behind", "walls",
		"of", "paper", "while", "trains", "pass", "slowly", "through", "fog",
	}
)

// Feed implements engine.Adapter.
type Feed struct {
	seed      Seed
	entries   []Entry
	nextID    int64
	banners   bool
	shuffles  int
	observers map[int]engine.Observer
	nextObs   int

	created int
	reused  int
}

// Option configures a Feed.
type Option func(*Feed)

// WithoutBanners drops the header and footer.
func WithoutBanners() Option { return func(f *Feed) { f.banners = false } }

// New generates n entries from seed.
func New(seed Seed, n int, opts ...Option) *Feed {
	f := &Feed{seed: seed, banners: true, nextID: 1, observers: map[int]engine.Observer{}}
	for _, opt := range opts {
		opt(f)
	}
	f.entries = make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		f.entries = append(f.entries, f.generate())
	}
	return f
}

// Key identifies the feed for persistence.
func (f *Feed) Key() string { return "feed:" + f.seed.Text }

func (f *Feed) generate() Entry {
	id := f.nextID
	f.nextID++
	s := f.seed.Stream(fmt.Sprintf("entry:%d", id))
	e := Entry{ID: id, Title: title(s.Child("title"))}
	if s.Intn(3) == 0 {
		e.Kind = KindPhoto
		e.Rows = s.Between(2, 8)
		return e
	}
	e.Kind = KindNote
	e.Body = sentence(s.Child("body"), s.Between(4, 28))
	return e
}

func title(s *Stream) string {
	a, b := Pick(s, titleWords), Pick(s, titleWords)
	return strings.ToUpper(a[:1]) + a[1:] + " " + b
}

func sentence(s *Stream, words int) string {
	out := make([]string, words)
	for i := range out {
		out[i] = Pick(s, bodyWords)
	}
	out[0] = strings.ToUpper(out[0][:1]) + out[0][1:]
	return strings.Join(out, " ") + "."
}

func (f *Feed) offset() int {
	if f.banners {
		return 1
	}
	return 0
}

// Len is the number of entries, banners excluded.
func (f *Feed) Len() int { return len(f.entries) }

func (f *Feed) Count() int {
	if f.banners {
		return len(f.entries) + 2
	}
	return len(f.entries)
}

// Entry returns what is shown at pos.
func (f *Feed) Entry(pos int) (Entry, bool) {
	if pos < 0 || pos >= f.Count() {
		return Entry{}, false
	}
	if f.banners {
		switch pos {
		case 0:
			return f.header(), true
		case f.Count() - 1:
			return f.footer(), true
		}
	}
	return f.entries[pos-f.offset()], true
}

func (f *Feed) header() Entry {
	body := fmt.Sprintf("## stagger\nseed `%s`, %d cards. Drag or use the wheel to scroll, click a card to flash it.", f.seed.Text, len(f.entries))
	return Entry{ID: headerID, Kind: KindBanner, Body: body}
}

func (f *Feed) footer() Entry {
	return Entry{ID: footerID, Kind: KindBanner, Body: "*end of feed*"}
}

func (f *Feed) ViewType(pos int) int {
	e, ok := f.Entry(pos)
	if !ok {
		return engine.ViewTypeIgnore
	}
	switch e.Kind {
	case KindBanner:
		return engine.ViewTypeHeaderOrFooter
	case KindPhoto:
		return 1
	}
	return 0
}

func (f *Feed) ViewTypeCount() int { return 2 }
func (f *Feed) HasStableIDs() bool { return true }

func (f *Feed) StableID(pos int) int64 {
	e, ok := f.Entry(pos)
	if !ok {
		return engine.InvalidID
	}
	return e.ID
}

func (f *Feed) IsEnabled(pos int) bool {
	e, ok := f.Entry(pos)
	return ok && e.Kind != KindBanner
}

// Bind fills recycled with the entry at pos, or builds a new card.
func (f *Feed) Bind(pos int, recycled *engine.Item) *engine.Item {
	e, ok := f.Entry(pos)
	if !ok {
		return nil
	}
	if recycled != nil {
		if card, ok := recycled.Content.(*Card); ok {
			card.Reset(e)
			f.reused++
			return recycled
		}
	}
	f.created++
	return &engine.Item{Content: NewCard(e)}
}

// Stats reports how many cards were built and how many binds reused one.
func (f *Feed) Stats() (created, reused int) { return f.created, f.reused }

func (f *Feed) Subscribe(o engine.Observer) func() {
	id := f.nextObs
	f.nextObs++
	f.observers[id] = o
	return func() { delete(f.observers, id) }
}

func (f *Feed) changed() {
	for _, o := range f.observers {
		o.Changed()
	}
}

func (f *Feed) invalidated() {
	for _, o := range f.observers {
		o.Invalidated()
	}
}

// Append adds n generated entries before the footer.
func (f *Feed) Append(n int) {
	if n <= 0 {
		return
	}
	for i := 0; i < n; i++ {
		f.entries = append(f.entries, f.generate())
	}
	f.changed()
}

// Remove deletes the entry at pos.
func (f *Feed) Remove(pos int) error {
	e, ok := f.Entry(pos)
	if !ok || e.Kind == KindBanner {
		return errors.Wrapf(ErrNotEntry, "remove %d", pos)
	}
	i := pos - f.offset()
	f.entries = append(f.entries[:i], f.entries[i+1:]...)
	f.changed()
	return nil
}

// Reshuffle reorders every entry. The old positions mean nothing afterwards,
// so observers are told the data was invalidated.
func (f *Feed) Reshuffle() {
	f.shuffles++
	s := f.seed.Stream(fmt.Sprintf("reshuffle:%d", f.shuffles))
	for i := len(f.entries) - 1; i > 0; i-- {
		j := s.Intn(i + 1)
		f.entries[i], f.entries[j] = f.entries[j], f.entries[i]
	}
	f.invalidated()
}
