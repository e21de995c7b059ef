package ui

import (
	"context"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/DaanHessen/stagger-tui/internal/engine"
	"github.com/DaanHessen/stagger-tui/internal/feed"
	"github.com/DaanHessen/stagger-tui/internal/store"
	"github.com/DaanHessen/stagger-tui/internal/util"
)

const (
	frameInterval = 16 * time.Millisecond
	flashFrames   = 20
	wheelRows     = 3
	keepStates    = 5
	maxColumns    = 6
	laneWidth     = 28
	appendCount   = 10
	flingSpeed    = 240.0
)

// StateStore persists grid state between runs. *store.StateRepo satisfies it.
type StateStore interface {
	Save(ctx context.Context, feedKey string, s *engine.SavedState) (uuid.UUID, error)
	Latest(ctx context.Context, feedKey string) (*engine.SavedState, uuid.UUID, error)
	Prune(ctx context.Context, feedKey string, keep int) (int64, error)
}

type frameMsg time.Time

type flash struct {
	h    engine.Handle
	card *feed.Card
}

// session holds what the grid callbacks mutate. The model is copied on every
// update, so it keeps a pointer to this.
type session struct {
	grid    *engine.Controller
	feed    *feed.Feed
	host    *gridHost
	flashes []flash
	status  string

	pointerDown bool
	scrollState engine.ScrollState
	first       int
	visible     int
	total       int
}

func (s *session) OnScroll(first, visible, total int) {
	s.first, s.visible, s.total = first, visible, total
}

func (s *session) OnScrollStateChanged(st engine.ScrollState) { s.scrollState = st }

func (s *session) childAt(pos int) *engine.Item {
	for _, it := range s.grid.Children() {
		if it.Position == pos {
			return it
		}
	}
	return nil
}

func (s *session) onClick(pos int, id int64) {
	it := s.childAt(pos)
	if it == nil {
		return
	}
	card, ok := it.Content.(*feed.Card)
	if !ok {
		return
	}
	card.Flash(flashFrames)
	s.flashes = append(s.flashes, flash{h: it.Handle(), card: card})
	s.status = fmt.Sprintf("clicked %s #%d", card.Entry.Kind, id)
}

// onLongClick removes the pressed entry.
func (s *session) onLongClick(pos int, id int64) bool {
	if err := s.feed.Remove(pos); err != nil {
		return false
	}
	s.status = fmt.Sprintf("removed #%d", id)
	return true
}

// tickFlashes advances every running flash by one frame. A flash whose card
// left the screen keeps counting down; the grid holds such cards aside until
// they finish.
func (s *session) tickFlashes() {
	out := s.flashes[:0]
	for _, f := range s.flashes {
		if f.card.Tick() {
			if it := s.grid.Resolve(f.h); it == nil {
				if cur := s.childAt(f.h.Position); cur != nil && cur.Content == f.card {
					f.h = cur.Handle()
				}
			}
			out = append(out, f)
		}
	}
	s.flashes = out
}

type model struct {
	ctx      context.Context
	cfg      util.Config
	version  string
	s        *session
	repo     StateStore
	theme    string
	styles   cardStyles
	width    int
	height   int
	clock    func() time.Duration
	ticking  bool
	showHelp bool
	help     string
	err      error
}

func columnsFor(width, _ int) int {
	n := width / laneWidth
	if n < 1 {
		return 1
	}
	if n > maxColumns {
		return maxColumns
	}
	return n
}

// initialModel builds the feed and grid. A nil repo disables persistence.
func initialModel(ctx context.Context, repo StateStore, cfg util.Config, version string) (model, error) {
	seed, err := feed.NewSeed(cfg.Seed)
	if err != nil {
		return model{}, errors.Wrap(err, "feed seed")
	}
	items := cfg.Items
	if items <= 0 {
		items = 120
	}
	s := &session{feed: feed.New(seed, items), host: newGridHost()}
	s.grid = engine.New(s.host,
		engine.WithItemMargin(cfg.Margin),
		engine.WithColumnCountFunc(columnsFor),
		engine.WithTouchSlop(1),
		engine.WithFlingVelocity(8, 600),
		engine.WithItemClick(s.onClick),
		engine.WithItemLongClick(s.onLongClick),
		engine.WithScrollListener(s),
		engine.WithLogger(log.Default()),
	)
	if err := s.grid.SetAdapter(s.feed); err != nil {
		return model{}, err
	}
	if cfg.Columns > 0 {
		if err := s.grid.SetColumnCount(cfg.Columns); err != nil {
			return model{}, err
		}
	}
	start := time.Now()
	m := model{
		ctx:     ctx,
		cfg:     cfg,
		version: version,
		s:       s,
		repo:    repo,
		clock:   func() time.Duration { return time.Since(start) },
	}
	m.setTheme(cfg.Theme)
	if repo != nil {
		m.restoreState()
	}
	return m, nil
}

func (m *model) setTheme(name string) {
	if _, ok := palettes[name]; !ok {
		name = defaultTheme
	}
	m.theme = name
	m.styles = stylesFor(paletteFor(name), feed.Frame)
}

func (m *model) fail(err error) {
	if err == nil {
		return
	}
	m.err = err
	log.Printf("grid: %v", err)
}

// layout sizes the grid to everything above the status line.
func (m *model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	gh := m.height - statusRows
	if gh < 1 {
		gh = 1
	}
	w, h := m.s.grid.Measure(engine.Exactly(m.width), engine.Exactly(gh))
	m.fail(m.s.grid.Layout(0, 0, w, h))
}

func (m model) gridHeight() int {
	if h := m.height - statusRows; h > 0 {
		return h
	}
	return 1
}

func (m model) needsFrame() bool {
	return m.s.host.pending || m.s.grid.NeedsFrame() || len(m.s.flashes) > 0
}

func (m *model) schedule() tea.Cmd {
	if m.ticking || !m.needsFrame() {
		return nil
	}
	m.ticking = true
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *model) frame() {
	m.ticking = false
	m.s.host.takeFrame()
	m.fail(m.s.grid.OnFrame(m.clock()))
	m.s.tickFlashes()
}

func (m *model) scroll(rows int) {
	_, err := m.s.grid.ScrollBy(rows)
	m.fail(err)
}

func (m *model) touch(action engine.TouchAction, x, y int) {
	_, err := m.s.grid.OnTouch(engine.TouchEvent{Action: action, X: x, Y: y, Time: m.clock()})
	m.fail(err)
}

func (m *model) mouse(msg tea.MouseMsg) {
	if m.showHelp {
		return
	}
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scroll(-wheelRows)
	case msg.Button == tea.MouseButtonWheelDown:
		m.scroll(wheelRows)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.s.pointerDown = true
		m.touch(engine.ActionDown, msg.X, msg.Y)
	case msg.Action == tea.MouseActionMotion && m.s.pointerDown:
		m.touch(engine.ActionMove, msg.X, msg.Y)
	case msg.Action == tea.MouseActionRelease && m.s.pointerDown:
		m.s.pointerDown = false
		m.touch(engine.ActionUp, msg.X, msg.Y)
	}
}

func (m *model) changeColumns(step int) {
	n := m.s.grid.ColumnCount() + step
	if n < 1 || n > maxColumns {
		return
	}
	m.fail(m.s.grid.SetColumnCount(n))
	m.s.status = fmt.Sprintf("%d columns", n)
}

// removeFirstVisible drops the first entry on screen, skipping the header.
func (m *model) removeFirstVisible() {
	for _, it := range m.s.grid.Children() {
		if it.IsHeaderOrFooter() {
			continue
		}
		id := it.StableID
		if err := m.s.feed.Remove(it.Position); err != nil {
			m.fail(err)
			return
		}
		m.s.status = fmt.Sprintf("removed #%d", id)
		return
	}
}

func (m *model) saveState() {
	if m.repo == nil {
		m.s.status = "persistence disabled"
		return
	}
	ctx, cancel := context.WithTimeout(m.ctx, 5*time.Second)
	defer cancel()
	key := m.s.feed.Key()
	id, err := m.repo.Save(ctx, key, m.s.grid.Save())
	if err != nil {
		m.fail(err)
		return
	}
	if _, err := m.repo.Prune(ctx, key, keepStates); err != nil {
		m.fail(err)
	}
	m.s.status = "saved " + id.String()[:8]
}

func (m *model) restoreState() {
	if m.repo == nil {
		m.s.status = "persistence disabled"
		return
	}
	ctx, cancel := context.WithTimeout(m.ctx, 5*time.Second)
	defer cancel()
	st, id, err := m.repo.Latest(ctx, m.s.feed.Key())
	if errors.Is(err, store.ErrNotFound) {
		m.s.status = "nothing saved yet"
		return
	}
	if err != nil {
		m.fail(err)
		return
	}
	m.fail(m.s.grid.Restore(st))
	m.s.status = "restored " + id.String()[:8]
}

func (m *model) toggleHelp() {
	m.showHelp = !m.showHelp
	m.s.grid.SetOverlayOpen(m.showHelp)
	if m.showHelp {
		m.help = renderHelp(m.width)
	}
}

// tea.Model implementation ---------------------------------------------------
func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		if m.showHelp {
			m.help = renderHelp(m.width)
		}
		return m, m.schedule()
	case frameMsg:
		m.frame()
		return m, m.schedule()
	case tea.MouseMsg:
		m.mouse(msg)
		return m, m.schedule()
	case tea.KeyMsg:
		k := msg.String()
		if m.showHelp {
			switch k {
			case "?", "esc", "q":
				m.toggleHelp()
			case "ctrl+c":
				return m.quit()
			}
			return m, nil
		}
		m.err = nil
		switch k {
		case "q", "ctrl+c":
			return m.quit()
		case "down", "j":
			m.scroll(1)
		case "up", "k":
			m.scroll(-1)
		case "pgdown", "ctrl+f", " ":
			m.scroll(m.gridHeight() - 1)
		case "pgup", "ctrl+b":
			m.scroll(-(m.gridHeight() - 1))
		case "home", "g":
			m.fail(m.s.grid.SetSelection(0))
		case "end", "G":
			m.fail(m.s.grid.SetSelection(m.s.feed.Count() - 1))
		case "f":
			m.s.grid.Fling(flingSpeed)
		case "F":
			m.s.grid.Fling(-flingSpeed)
		case "+", "=":
			m.changeColumns(1)
		case "-":
			m.changeColumns(-1)
		case "a":
			m.s.feed.Append(appendCount)
			m.s.status = fmt.Sprintf("appended %d", appendCount)
		case "x":
			m.removeFirstVisible()
		case "r":
			m.s.feed.Reshuffle()
			m.s.status = "reshuffled"
		case "s":
			m.saveState()
		case "o":
			m.restoreState()
		case "t":
			m.setTheme(nextThemeName(m.theme, 1))
			m.s.status = "theme " + m.theme
		case "?":
			m.toggleHelp()
		}
		return m, m.schedule()
	}
	return m, nil
}

func (m model) quit() (tea.Model, tea.Cmd) {
	if m.repo != nil {
		m.saveState()
	}
	return m, tea.Quit
}
