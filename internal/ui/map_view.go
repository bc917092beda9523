package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/cwarden/eventscope/internal/cluster"
	"github.com/muesli/reflow/wordwrap"
)

// Map pixels per terminal cell. Cells are about twice as tall as wide.
const (
	mapPixelX = 8
	mapPixelY = 16
)

func (m *Model) mapRows() int {
	return m.timelineRows()
}

func (m *Model) mapPixelSize() (int, int) {
	return m.scheduleWidth() * mapPixelX, m.mapRows() * mapPixelY
}

// projection is the Mercator view the map is drawn with. Clusters are
// rebuilt against it on every render.
func (m *Model) projection() cluster.Mercator {
	w, h := m.mapPixelSize()
	return cluster.Mercator{Center: m.mapCenter, Zoom: m.mapZoom, Width: w, Height: h}
}

func (m *Model) currentClusters() []cluster.Cluster {
	return m.session.Clusters(m.projection())
}

// renderMapView renders markers, the radius ring and a cluster list
func (m *Model) renderMapView() string {
	proj := m.projection()
	clusters := m.currentClusters()
	cols, rows := m.scheduleWidth(), m.mapRows()

	var layers []*lipgloss.Layer

	header := fmt.Sprintf("Map · zoom %.0f · %s", m.mapZoom, m.session.CenterName)
	layers = append(layers, lipgloss.NewLayer(m.styles.Header.Render(header)).X(0).Y(0).Z(0))

	background := lipgloss.NewStyle().
		Background(lipgloss.Color("234")).
		Width(cols).
		Height(rows).
		Render("")
	layers = append(layers, lipgloss.NewLayer(background).X(0).Y(headerRows).Z(0))

	layers = append(layers, m.createRingLayers(proj)...)

	if p := proj.ToPixel(m.session.Center); proj.Contains(p) {
		layers = append(layers, lipgloss.NewLayer(m.styles.Ring.Render("+")).
			X(int(p.X)/mapPixelX).
			Y(headerRows+int(p.Y)/mapPixelY).
			Z(2))
	}

	for i, c := range clusters {
		p := proj.ToPixel(*c.Representative.Coordinate)
		if !proj.Contains(p) {
			continue
		}

		label := "●"
		if !c.Singleton() {
			label = fmt.Sprintf("%d", len(c.Members))
		}

		bg := m.categoryColor(*c.Representative)
		style := m.styles.Marker.Background(bg).Foreground(textColorFor(bg))
		if i == m.selectedCluster {
			style = m.styles.Selected
		}

		layers = append(layers, lipgloss.NewLayer(style.Render(label)).
			X(int(p.X)/mapPixelX).
			Y(headerRows+int(p.Y)/mapPixelY).
			Z(10+i))
	}

	if sidebarWidth := m.width - cols - 1; sidebarWidth > 0 {
		layers = append(layers, m.createClusterListLayer(clusters, proj, cols+1, sidebarWidth))
	}

	layers = append(layers, m.createStatusBarLayers()...)

	return lipgloss.NewCanvas(layers...).Render()
}

// createRingLayers dots the search radius outline, one layer per cell
func (m *Model) createRingLayers(proj cluster.Mercator) []*lipgloss.Layer {
	ring, err := m.session.Ring()
	if err != nil || ring == nil {
		return nil
	}

	var layers []*lipgloss.Layer
	seen := make(map[[2]int]bool)
	for _, c := range ring {
		p := proj.ToPixel(c)
		if !proj.Contains(p) {
			continue
		}
		cell := [2]int{int(p.X) / mapPixelX, int(p.Y) / mapPixelY}
		if seen[cell] {
			continue
		}
		seen[cell] = true
		layers = append(layers, lipgloss.NewLayer(m.styles.Ring.Render("·")).
			X(cell[0]).
			Y(headerRows+cell[1]).
			Z(1))
	}
	return layers
}

// createClusterListLayer lists every cluster and expands the selected one
func (m *Model) createClusterListLayer(clusters []cluster.Cluster, proj cluster.Mercator, xOffset, width int) *lipgloss.Layer {
	var lines []string

	lines = append(lines, m.styles.Header.Render(fmt.Sprintf("Clusters (%d)", len(clusters))))
	if len(clusters) == 0 {
		lines = append(lines, m.styles.Help.Render("(no mapped events)"))
	}

	for i, c := range clusters {
		line := c.Representative.Title
		if !c.Singleton() {
			line = fmt.Sprintf("%s (+%d)", line, len(c.Members)-1)
		}
		if !proj.Contains(proj.ToPixel(*c.Representative.Coordinate)) {
			line += " (off map)"
		}
		line = truncateText(line, width-2)

		if i == m.selectedCluster {
			line = m.styles.Selected.Render(line)
		} else {
			line = m.styles.Normal.Render(line)
		}
		lines = append(lines, line)
	}

	if m.selectedCluster < len(clusters) {
		c := clusters[m.selectedCluster]
		lines = append(lines, "")
		lines = append(lines, m.styles.Header.Render("Events here"))
		for _, ev := range c.Members {
			entry := fmt.Sprintf("%s %s", ev.Start.Format("Jan 2 "+m.config.TimeFormat), ev.Title)
			// Wrap long titles using wordwrap to avoid breaking words
			wrapped := wordwrap.String(entry, width-4)
			for j, l := range strings.Split(wrapped, "\n") {
				if j == 0 {
					lines = append(lines, "• "+l)
				} else {
					lines = append(lines, "  "+l)
				}
			}
		}
	}

	return lipgloss.NewLayer(strings.Join(lines, "\n")).
		X(xOffset).
		Y(0).
		Z(1000)
}

// openSelectedCluster jumps to the day of the cluster's representative
func (m *Model) openSelectedCluster() {
	clusters := m.currentClusters()
	if m.selectedCluster >= len(clusters) {
		return
	}
	rep := clusters[m.selectedCluster].Representative

	m.mode = ViewDay
	m.selectedDate = rep.Start.In(m.selectedDate.Location())
	m.selectedEvent = rep.ID
	for _, a := range m.dayLayout() {
		if a.Event.ID == rep.ID {
			m.ensureVisible(a)
			break
		}
	}
}
