package ui

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/cwarden/eventscope/internal/event"
	"github.com/cwarden/eventscope/internal/geo"
	"github.com/cwarden/eventscope/internal/radius"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

// categoryColor returns the configured color for an event's category
func (m *Model) categoryColor(ev event.Event) color.Color {
	name := event.ClassifyCategory(ev.Category).String()
	if c, ok := m.config.Colors[name]; ok && c != "" {
		return lipgloss.Color(c)
	}
	return lipgloss.ANSIColor(240) // Gray for unconfigured categories
}

// textColorFor picks black or white text for a background
func textColorFor(bg color.Color) color.Color {
	r, g, b, _ := bg.RGBA()
	luma := (299*r + 587*g + 114*b) / 1000 >> 8
	if luma > 140 {
		return lipgloss.Color("#000000")
	}
	return lipgloss.Color("#FFFFFF")
}

func truncateText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 3 {
		return truncate.String(s, uint(width))
	}
	return truncate.StringWithTail(s, uint(width), "...")
}

func (m *Model) formatTimeRange(ev event.Event) string {
	return ev.Start.Format(m.config.TimeFormat) + "-" + ev.End().Format(m.config.TimeFormat)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

func radiusLabel(miles float64) string {
	for _, p := range radius.Presets {
		if p.Miles == miles {
			return p.Label
		}
	}
	return fmt.Sprintf("%g miles", miles)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// eventDetails renders the sidebar description of one event
func (m *Model) eventDetails(ev event.Event, width int) []string {
	if width < 20 {
		width = 20 // Minimum width to avoid too narrow wrapping
	}

	var lines []string
	title := ev.Title
	if fav, err := m.session.Repo.IsFavorite(context.Background(), ev.ID); err == nil && fav {
		title = "★ " + title
	}
	lines = append(lines, m.styles.Today.Render(wordwrap.String(title, width)))

	when := m.formatTimeRange(ev)
	if ev.Duration != nil {
		when += fmt.Sprintf(" (%s)", formatDuration(*ev.Duration))
	}
	lines = append(lines, when)
	lines = append(lines, m.styles.Help.Render("Category: "+event.ClassifyCategory(ev.Category).String()))

	if ev.Venue != "" {
		lines = append(lines, wordwrap.String(ev.Venue, width))
	}
	if addr := ev.FullAddress(); addr != "" {
		lines = append(lines, wordwrap.String(addr, width))
	}

	if ev.Coordinate != nil {
		if d, err := geo.Distance(m.session.Center, *ev.Coordinate); err == nil {
			lines = append(lines, m.styles.Help.Render(fmt.Sprintf("%.1f mi from %s", d, m.session.CenterName)))
		}
	} else {
		lines = append(lines, m.styles.Help.Render("(not on the map)"))
	}

	if ev.Description != "" {
		lines = append(lines, "")
		// Wrap long descriptions using wordwrap to avoid breaking words/URLs
		for _, line := range strings.Split(wordwrap.String(ev.Description, width), "\n") {
			if line != "" {
				lines = append(lines, line)
			}
		}
	}
	if ev.URL != "" {
		lines = append(lines, m.styles.Help.Render(ev.URL))
	}

	return lines
}
