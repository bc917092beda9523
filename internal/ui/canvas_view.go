package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/cwarden/eventscope/internal/timeline"
	"github.com/muesli/reflow/wordwrap"
)

// Rows above the timeline; the status bar takes two below it.
const headerRows = 1

// cellScale converts timeline pixels to terminal cells.
type cellScale struct {
	X, Y int // pixels per cell
}

// newCellScale fits the lanes into width columns and gives each hour two
// rows. A width of zero keeps the default of 8 pixels per column.
func newCellScale(g timeline.Geometry, width int) cellScale {
	y := g.HourHeight / 2
	if y < 1 {
		y = 1
	}
	x := 8
	if width > 0 {
		span := g.BaseOffset + g.LaneWidth
		x = (span + width - 1) / width
		if x < 1 {
			x = 1
		}
	}
	return cellScale{X: x, Y: y}
}

func (s cellScale) rowsPerHour(g timeline.Geometry) int {
	if n := g.HourHeight / s.Y; n > 0 {
		return n
	}
	return 1
}

// rows rounds a pixel height up to whole rows.
func (s cellScale) rows(px int) int {
	return (px + s.Y - 1) / s.Y
}

type cellRect struct {
	col, row, width, height int
}

func (s cellScale) cells(r timeline.Rect) cellRect {
	c := cellRect{
		col:    r.Left / s.X,
		row:    r.Top / s.Y,
		width:  r.Width / s.X,
		height: s.rows(r.Height),
	}
	if c.width < 1 {
		c.width = 1
	}
	if c.height < 1 {
		c.height = 1
	}
	return c
}

func (r cellRect) contains(col, row int) bool {
	return col >= r.col && col < r.col+r.width && row >= r.row && row < r.row+r.height
}

func (m *Model) scheduleWidth() int {
	w := m.width * 2 / 3
	if w < 40 {
		w = 40
	}
	return w
}

func (m *Model) timelineRows() int {
	rows := m.height - headerRows - 2
	if rows < 1 {
		rows = 1
	}
	return rows
}

// renderDayView renders the day timeline using a lipgloss Canvas
func (m *Model) renderDayView() string {
	var layers []*lipgloss.Layer

	layers = append(layers, m.createDayHeaderLayer())
	layers = append(layers, m.createHourLabelLayers()...)
	layers = append(layers, m.createEventBlockLayers()...)

	// Sidebar with 1 column spacing
	scheduleWidth := m.scheduleWidth()
	if sidebarWidth := m.width - scheduleWidth - 1; sidebarWidth > 0 {
		layers = append(layers, m.createSidebarLayer(scheduleWidth+1, sidebarWidth))
	}

	layers = append(layers, m.createStatusBarLayers()...)

	return lipgloss.NewCanvas(layers...).Render()
}

func (m *Model) createDayHeaderLayer() *lipgloss.Layer {
	title := m.selectedDate.Format(m.config.DateFormat)
	if sameDay(m.selectedDate, time.Now()) {
		title += " (today)"
	}
	return lipgloss.NewLayer(m.styles.Header.Render(title)).X(0).Y(0).Z(0)
}

// createHourLabelLayers creates one layer per visible hour label
func (m *Model) createHourLabelLayers() []*lipgloss.Layer {
	var layers []*lipgloss.Layer
	g := m.config.Geometry
	now := time.Now()
	visibleRows := m.timelineRows()

	for hour := 0; hour < 24; hour++ {
		row := hour*g.HourHeight/m.scale.Y - m.topRow
		if row < 0 || row >= visibleRows {
			continue
		}

		label := time.Date(2000, 1, 1, hour, 0, 0, 0, time.Local).Format(m.config.TimeFormat)
		style := m.styles.Normal
		if sameDay(m.selectedDate, now) && now.Hour() == hour {
			style = m.styles.Today
		}

		layers = append(layers, lipgloss.NewLayer(style.Render(label)).X(0).Y(headerRows+row).Z(0))
	}

	return layers
}

// createEventBlockLayers creates one layer per event block. A block being
// dragged follows the tracker instead of its start hour.
func (m *Model) createEventBlockLayers() []*lipgloss.Layer {
	var layers []*lipgloss.Layer
	g := m.config.Geometry
	visibleRows := m.timelineRows()
	active := m.tracker.Active()

	for i, a := range m.dayLayout() {
		rect := g.Rect(a)
		dragging := active != nil && active.Event.ID == a.Event.ID
		if dragging {
			rect.Top = active.Top
		}
		c := m.scale.cells(rect)

		start := c.row - m.topRow
		end := start + c.height
		if end <= 0 || start >= visibleRows {
			continue
		}
		clippedStart := start
		if clippedStart < 0 {
			clippedStart = 0
		}
		if end > visibleRows {
			end = visibleRows
		}

		var lines []string
		if start >= 0 {
			title := a.Event.Title
			if dragging {
				title = "↕ " + title
			}
			lines = append(lines, truncateText(title, c.width))
			if c.height > 1 {
				lines = append(lines, truncateText(m.formatTimeRange(*a.Event), c.width))
			}
		}

		bg := m.categoryColor(*a.Event)
		style := lipgloss.NewStyle().
			Background(bg).
			Foreground(textColorFor(bg)).
			Width(c.width).
			Height(end - clippedStart)
		if a.Event.ID == m.selectedEvent || dragging {
			style = style.Bold(true).Underline(true)
		}

		layer := lipgloss.NewLayer(style.Render(strings.Join(lines, "\n"))).
			X(c.col).
			Y(headerRows + clippedStart).
			Z(i + 1) // Events have Z > 0, hour labels are Z = 0
		layers = append(layers, layer)
	}

	return layers
}

// blockAt hit-tests screen cell (col, row) against the visible blocks,
// topmost first.
func (m *Model) blockAt(col, row int) (timeline.Assignment, bool) {
	timelineRow := row - headerRows + m.topRow
	if row < headerRows || row >= headerRows+m.timelineRows() {
		return timeline.Assignment{}, false
	}

	layout := m.dayLayout()
	for i := len(layout) - 1; i >= 0; i-- {
		if m.scale.cells(m.config.Geometry.Rect(layout[i])).contains(col, timelineRow) {
			return layout[i], true
		}
	}
	return timeline.Assignment{}, false
}

// createSidebarLayer shows the highlighted event, or a summary of the day
func (m *Model) createSidebarLayer(xOffset, width int) *lipgloss.Layer {
	var lines []string
	layout := m.dayLayout()

	lines = append(lines, m.styles.Header.Render("Day"))
	lanes := 0
	if len(layout) > 0 {
		lanes = layout[0].LaneCount
	}
	lines = append(lines, fmt.Sprintf("%d events in %d lanes", len(layout), lanes))
	lines = append(lines, "")

	lines = append(lines, m.styles.Header.Render("Selected"))
	ev := m.session.Find(m.selectedEvent)
	if ev == nil {
		lines = append(lines, m.styles.Help.Render("(click an event or press j)"))
	} else {
		lines = append(lines, m.eventDetails(*ev, width-2)...)
	}

	if ring, _ := m.session.Ring(); ring != nil {
		lines = append(lines, "")
		lines = append(lines, m.styles.Header.Render("Search area"))
		summary := fmt.Sprintf("%s around %s (%s)",
			radiusLabel(m.session.RadiusMiles), m.session.CenterName, m.session.Center)
		lines = append(lines, wordwrap.String(summary, width-2))
	}

	return lipgloss.NewLayer(strings.Join(lines, "\n")).
		X(xOffset).
		Y(0).
		Z(1000) // High Z to ensure sidebar is on top
}

// createStatusBarLayers creates the two status lines under the timeline
func (m *Model) createStatusBarLayers() []*lipgloss.Layer {
	y := headerRows + m.timelineRows()
	if m.mode == ViewMap {
		y = headerRows + m.mapRows()
	}

	status := fmt.Sprintf(" %s | %d events | %s around %s",
		m.session.Month.Format("January 2006"),
		len(m.session.Visible()),
		radiusLabel(m.session.RadiusMiles),
		m.session.CenterName)
	if m.session.FavoritesOnly {
		status += " | favorites"
	}

	layers := []*lipgloss.Layer{
		lipgloss.NewLayer(m.styles.Help.Render(status)).X(0).Y(y).Z(2000),
	}

	if m.message != "" {
		layers = append(layers, lipgloss.NewLayer(m.styles.Message.Render(m.message)).X(0).Y(y+1).Z(2000))
		return layers
	}

	helpText := "h/l:day  j/k:event  J/K:move  drag:reschedule  R:radius  F:favorites  m:map  c:center  ?:help  q:quit"
	if m.mode == ViewMap {
		helpText = "j/k:cluster  arrows:pan  +/-:zoom  enter:open  f:favorite  R:radius  m:day  ?:help  q:quit"
	}
	rightAligned := m.styles.Help.Width(m.width).Align(lipgloss.Right).Render(helpText)
	return append(layers, lipgloss.NewLayer(rightAligned).X(0).Y(y+1).Z(2000))
}
