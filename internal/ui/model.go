package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cwarden/eventscope/internal/cluster"
	"github.com/cwarden/eventscope/internal/config"
	"github.com/cwarden/eventscope/internal/drag"
	"github.com/cwarden/eventscope/internal/geo"
	"github.com/cwarden/eventscope/internal/logger"
	"github.com/cwarden/eventscope/internal/radius"
	"github.com/cwarden/eventscope/internal/session"
	"github.com/cwarden/eventscope/internal/timeline"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
)

type ViewMode int

const (
	ViewDay ViewMode = iota
	ViewMap
	ViewHelp
	ViewCenterInput
)

type Model struct {
	// Core components
	config  *config.Config
	session *session.Session
	tracker *drag.Tracker
	scale   cellScale

	// View state
	mode          ViewMode
	previousMode  ViewMode
	selectedDate  time.Time
	selectedEvent string // ID of the highlighted event
	topRow        int    // first visible timeline row

	// Map state
	mapCenter       geo.Coordinate
	mapZoom         float64
	selectedCluster int

	// Center input
	inputBuffer string

	// UI state
	width      int
	height     int
	message    string
	messageSeq int

	styles Styles
}

type Styles struct {
	Normal   lipgloss.Style
	Selected lipgloss.Style
	Today    lipgloss.Style
	Header   lipgloss.Style
	Help     lipgloss.Style
	Message  lipgloss.Style
	Ring     lipgloss.Style
	Marker   lipgloss.Style
}

func NewModel(cfg *config.Config, sess *session.Session) *Model {
	now := time.Now()

	m := &Model{
		config:       cfg,
		session:      sess,
		tracker:      drag.NewTracker(cfg.Geometry),
		scale:        newCellScale(cfg.Geometry, 0),
		mode:         ViewDay,
		selectedDate: sess.Month,
		mapCenter:    sess.Center,
		mapZoom:      cfg.MapZoom,
		styles:       DefaultStyles(cfg.Colors),
	}
	if m.selectedDate.IsZero() {
		m.selectedDate = now
	}

	// Start the day view at 8am
	m.topRow = 8 * m.scale.rowsPerHour(cfg.Geometry)
	return m
}

func DefaultStyles(colors map[string]string) Styles {
	pick := func(name, fallback string) string {
		if c, ok := colors[name]; ok && c != "" {
			return c
		}
		return fallback
	}

	return Styles{
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")).
			Background(lipgloss.Color(pick("selected", "220"))).
			Bold(true),
		Today: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true),
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(pick("header", "220"))).
			Bold(true).
			Underline(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Message: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		Ring: lipgloss.NewStyle().
			Foreground(lipgloss.Color(pick("ring", "39"))),
		Marker: lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")).
			Background(lipgloss.Color("252")).
			Bold(true),
	}
}

func (m *Model) Init() tea.Cmd {
	return m.reloadCmd()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scale = newCellScale(m.config.Geometry, m.scheduleWidth())
		m.scroll(0)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case StoreReloadedMsg:
		// The visible slice is about to be replaced
		if _, ok := m.tracker.Cancel(); ok {
			logger.L().Debug("drag cancelled by reload")
		}
		return m, m.reloadCmd()

	case reloadedMsg:
		if msg.err != nil {
			return m, m.showMessage(fmt.Sprintf("Error: %v", msg.err))
		}
		m.clampSelection()
		return m, nil

	case centerResolvedMsg:
		if errors.Is(msg.err, session.ErrLocationNotFound) {
			return m, m.showMessage(fmt.Sprintf("Location not found: %s", msg.query))
		}
		if msg.err != nil {
			return m, m.showMessage(fmt.Sprintf("Error: %v", msg.err))
		}
		if err := m.session.SetCenter(context.Background(), msg.coord, msg.query); err != nil {
			return m, m.showMessage(fmt.Sprintf("Error: %v", err))
		}
		m.mapCenter = msg.coord
		m.clampSelection()
		return m, m.showMessage(fmt.Sprintf("Center: %s", msg.query))

	case messageTimeoutMsg:
		if msg.seq == m.messageSeq {
			m.message = ""
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch m.mode {
	case ViewMap:
		return m.renderMapView()
	case ViewHelp:
		return m.viewHelp()
	case ViewCenterInput:
		return m.viewCenterInput()
	default:
		return m.renderDayView()
	}
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ViewCenterInput:
		return m.handleInputKeys(msg)
	case ViewHelp:
		// Any key returns
		m.mode = m.previousMode
		return m, nil
	}

	action := m.config.ActionFor(key)
	if action == "" {
		action = arrowActions(m.mode, key)
	}

	switch action {
	case "quit":
		return m, tea.Quit

	case "help":
		m.previousMode = m.mode
		m.mode = ViewHelp
		return m, nil

	case "refresh":
		return m, m.reloadCmd()

	case "today":
		m.selectedDate = time.Now()
		return m, m.monthChanged()

	case "next_day":
		m.selectedDate = m.selectedDate.AddDate(0, 0, 1)
		return m, m.monthChanged()

	case "prev_day":
		m.selectedDate = m.selectedDate.AddDate(0, 0, -1)
		return m, m.monthChanged()

	case "next_month":
		m.selectedDate = m.selectedDate.AddDate(0, 1, 0)
		return m, m.monthChanged()

	case "prev_month":
		m.selectedDate = m.selectedDate.AddDate(0, -1, 0)
		return m, m.monthChanged()

	case "next_event":
		m.moveSelection(1)
		return m, nil

	case "prev_event":
		m.moveSelection(-1)
		return m, nil

	case "move_later":
		return m, m.nudgeSelected(1)

	case "move_earlier":
		return m, m.nudgeSelected(-1)

	case "toggle_favorite":
		return m, m.toggleFavorite()

	case "favorites_only":
		on := !m.session.FavoritesOnly
		if err := m.session.SetFavoritesOnly(context.Background(), on); err != nil {
			return m, m.showMessage(fmt.Sprintf("Error: %v", err))
		}
		m.clampSelection()
		if on {
			return m, m.showMessage("Showing favorites")
		}
		return m, m.showMessage("Showing all events")

	case "cycle_radius":
		return m, m.cycleRadius()

	case "toggle_map":
		if m.mode == ViewMap {
			m.mode = ViewDay
		} else {
			m.mode = ViewMap
			m.selectedCluster = 0
		}
		return m, nil

	case "set_center":
		m.previousMode = m.mode
		m.mode = ViewCenterInput
		m.inputBuffer = ""
		return m, nil

	case "default_center":
		if err := m.session.UseDefaultCenter(context.Background()); err != nil {
			return m, m.showMessage(fmt.Sprintf("Error: %v", err))
		}
		m.mapCenter = m.session.Center
		m.clampSelection()
		return m, m.showMessage(fmt.Sprintf("Center: %s", m.session.CenterName))

	case "zoom_in":
		if m.mapZoom < 19 {
			m.mapZoom++
		}
		return m, nil

	case "zoom_out":
		if m.mapZoom > 1 {
			m.mapZoom--
		}
		return m, nil

	case "pan_left", "pan_right", "pan_up", "pan_down":
		m.pan(action)
		return m, nil

	case "cancel":
		if _, ok := m.tracker.Cancel(); ok {
			return m, m.showMessage("Move cancelled")
		}
		return m, nil

	case "select":
		if m.mode == ViewMap {
			m.openSelectedCluster()
		}
		return m, nil

	case "scroll_down":
		m.scroll(m.scale.rowsPerHour(m.config.Geometry))
		return m, nil

	case "scroll_up":
		m.scroll(-m.scale.rowsPerHour(m.config.Geometry))
		return m, nil
	}

	return m, nil
}

// arrowActions gives the arrow keys a meaning that depends on the view.
func arrowActions(mode ViewMode, key string) string {
	if mode == ViewMap {
		switch key {
		case "left":
			return "pan_left"
		case "right":
			return "pan_right"
		case "up":
			return "pan_up"
		case "down":
			return "pan_down"
		}
		return ""
	}

	switch key {
	case "left":
		return "prev_day"
	case "right":
		return "next_day"
	case "up":
		return "scroll_up"
	case "down":
		return "scroll_down"
	case "tab":
		return "next_event"
	case "shift+tab":
		return "prev_event"
	}
	return ""
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = m.previousMode
		return m, nil

	case tea.KeyEnter:
		m.mode = m.previousMode
		if m.inputBuffer == "" {
			return m, nil
		}
		return m, m.resolveCenterCmd(m.inputBuffer)

	case tea.KeyBackspace:
		if len(m.inputBuffer) > 0 {
			r := []rune(m.inputBuffer)
			m.inputBuffer = string(r[:len(r)-1])
		}

	case tea.KeySpace:
		m.inputBuffer += " "

	case tea.KeyRunes:
		m.inputBuffer += string(msg.Runes)
	}

	return m, nil
}

// monthChanged reloads when the selected day has left the loaded month.
func (m *Model) monthChanged() tea.Cmd {
	m.selectedEvent = ""
	y, mo, _ := m.selectedDate.Date()
	sy, smo, _ := m.session.Month.Date()
	if y == sy && mo == smo {
		m.clampSelection()
		return nil
	}
	m.session.Month = m.selectedDate
	return m.reloadCmd()
}

// reloadCmd reloads the session. It runs synchronously because the
// session is only touched from Update.
func (m *Model) reloadCmd() tea.Cmd {
	err := m.session.Reload(context.Background())
	return func() tea.Msg {
		return reloadedMsg{err: err}
	}
}

func (m *Model) resolveCenterCmd(query string) tea.Cmd {
	return func() tea.Msg {
		c, err := m.session.Resolve(context.Background(), query)
		return centerResolvedMsg{query: query, coord: c, err: err}
	}
}

func (m *Model) toggleFavorite() tea.Cmd {
	id := m.selectedEvent
	if m.mode == ViewMap {
		clusters := m.currentClusters()
		if m.selectedCluster < len(clusters) {
			id = clusters[m.selectedCluster].Representative.ID
		}
	}
	if id == "" {
		return nil
	}

	ctx := context.Background()
	if err := m.session.ToggleFavorite(ctx, id); err != nil {
		return m.showMessage(fmt.Sprintf("Error: %v", err))
	}
	m.clampSelection()
	if fav, _ := m.session.Repo.IsFavorite(ctx, id); fav {
		return m.showMessage("Added to favorites")
	}
	return m.showMessage("Removed from favorites")
}

func (m *Model) cycleRadius() tea.Cmd {
	next := radius.Presets[0]
	for i, p := range radius.Presets {
		if p.Miles == m.session.RadiusMiles {
			next = radius.Presets[(i+1)%len(radius.Presets)]
			break
		}
	}
	if err := m.session.SetRadius(context.Background(), next.Miles); err != nil {
		return m.showMessage(fmt.Sprintf("Error: %v", err))
	}
	m.clampSelection()
	return m.showMessage(fmt.Sprintf("Radius: %s", next.Label))
}

// nudgeSelected moves the highlighted event by whole hours through the
// same tracker the mouse uses.
func (m *Model) nudgeSelected(hours int) tea.Cmd {
	ev := m.session.Find(m.selectedEvent)
	if ev == nil {
		return nil
	}

	g := m.config.Geometry
	m.tracker.Location = m.selectedDate.Location()
	top := ev.Start.In(m.tracker.Location).Hour() * g.HourHeight
	if err := m.tracker.PointerDown(ev, top, 0); err != nil {
		return m.showMessage(fmt.Sprintf("Error: %v", err))
	}
	if _, err := m.tracker.PointerMove(hours * g.HourHeight); err != nil {
		m.tracker.Cancel()
		return nil
	}
	start, err := m.tracker.PointerUp()
	if err != nil {
		return nil
	}
	return m.showMessage(fmt.Sprintf("%s moved to %s", ev.Title, start.Format(m.config.TimeFormat)))
}

func (m *Model) pan(action string) {
	w, h := m.mapPixelSize()
	proj := cluster.Mercator{Center: m.mapCenter, Zoom: m.mapZoom, Width: w, Height: h}
	switch action {
	case "pan_left":
		proj = proj.Pan(-float64(w)/4, 0)
	case "pan_right":
		proj = proj.Pan(float64(w)/4, 0)
	case "pan_up":
		proj = proj.Pan(0, -float64(h)/4)
	case "pan_down":
		proj = proj.Pan(0, float64(h)/4)
	}
	m.mapCenter = proj.Center
	m.selectedCluster = 0
}

func (m *Model) scroll(rows int) {
	m.topRow += rows
	maxTop := m.scale.rows(m.config.Geometry.DayHeight()) - m.timelineRows()
	if m.topRow > maxTop {
		m.topRow = maxTop
	}
	if m.topRow < 0 {
		m.topRow = 0
	}
}

// dayLayout lays out the selected day's visible events.
func (m *Model) dayLayout() []timeline.Assignment {
	return timeline.LayoutDay(timeline.EventsOn(m.session.Visible(), m.selectedDate))
}

func (m *Model) moveSelection(delta int) {
	if m.mode == ViewMap {
		n := len(m.currentClusters())
		if n == 0 {
			return
		}
		m.selectedCluster = (m.selectedCluster + delta + n) % n
		return
	}

	layout := m.dayLayout()
	if len(layout) == 0 {
		m.selectedEvent = ""
		return
	}
	idx := -1
	for i, a := range layout {
		if a.Event.ID == m.selectedEvent {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(layout) - 1
	default:
		idx = (idx + delta + len(layout)) % len(layout)
	}
	m.selectedEvent = layout[idx].Event.ID
	m.ensureVisible(layout[idx])
}

// clampSelection drops selections that no longer exist after a reload.
func (m *Model) clampSelection() {
	if m.selectedEvent != "" {
		found := false
		for _, a := range m.dayLayout() {
			if a.Event.ID == m.selectedEvent {
				found = true
				break
			}
		}
		if !found {
			m.selectedEvent = ""
		}
	}
	if n := len(m.currentClusters()); m.selectedCluster >= n {
		m.selectedCluster = 0
	}
}

func (m *Model) ensureVisible(a timeline.Assignment) {
	r := m.scale.cells(m.config.Geometry.Rect(a))
	if r.row < m.topRow {
		m.topRow = r.row
	}
	if bottom := r.row + r.height; bottom > m.topRow+m.timelineRows() {
		m.topRow = bottom - m.timelineRows()
	}
	m.scroll(0)
}

func (m *Model) showMessage(msg string) tea.Cmd {
	m.message = msg
	m.messageSeq++
	seq := m.messageSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return messageTimeoutMsg{seq: seq}
	})
}

// StoreReloadedMsg tells the model its repository changed underneath it.
type StoreReloadedMsg struct{}

// Message types
type messageTimeoutMsg struct{ seq int }
type reloadedMsg struct{ err error }
type centerResolvedMsg struct {
	query string
	coord geo.Coordinate
	err   error
}
