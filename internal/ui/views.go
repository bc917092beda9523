package ui

import (
	"github.com/charmbracelet/lipgloss/v2"
)

func (m *Model) viewHelp() string {
	help := []string{
		m.styles.Header.Render("Eventscope Help"),
		"",
		m.styles.Normal.Render("Day view:"),
		m.styles.Help.Render("  h/l/←/→   - Previous / next day"),
		m.styles.Help.Render("  </>       - Previous / next month"),
		m.styles.Help.Render("  t         - Today"),
		m.styles.Help.Render("  j/k/tab   - Next / previous event"),
		m.styles.Help.Render("  ↑/↓/wheel - Scroll"),
		m.styles.Help.Render("  J/K       - Move event an hour later / earlier"),
		m.styles.Help.Render("  drag      - Move event to another hour"),
		m.styles.Help.Render("  esc       - Cancel a move in progress"),
		"",
		m.styles.Normal.Render("Map view:"),
		m.styles.Help.Render("  j/k       - Next / previous cluster"),
		m.styles.Help.Render("  arrows    - Pan"),
		m.styles.Help.Render("  +/-       - Zoom"),
		m.styles.Help.Render("  enter     - Open cluster in day view"),
		"",
		m.styles.Normal.Render("Anywhere:"),
		m.styles.Help.Render("  f         - Toggle favorite"),
		m.styles.Help.Render("  F         - Favorites only"),
		m.styles.Help.Render("  R         - Cycle radius (All, 5, 10, 20 miles)"),
		m.styles.Help.Render("  c         - Set search center from an address"),
		m.styles.Help.Render("  C         - Reset search center"),
		m.styles.Help.Render("  m         - Toggle map"),
		m.styles.Help.Render("  r         - Refresh"),
		m.styles.Help.Render("  ?         - Toggle help"),
		m.styles.Help.Render("  q         - Quit"),
		"",
		m.styles.Help.Render("Press any key to return..."),
	}

	return lipgloss.JoinVertical(lipgloss.Left, help...)
}

func (m *Model) viewCenterInput() string {
	var sections []string

	sections = append(sections, m.styles.Header.Render("Search Center"))
	sections = append(sections, "")
	sections = append(sections, m.styles.Normal.Render("Enter an address (e.g., '1032 W Sheridan Rd, Chicago, IL'):"))
	sections = append(sections, m.styles.Selected.Render(m.inputBuffer+"█"))
	sections = append(sections, "")
	sections = append(sections, m.styles.Help.Render("Current: "+m.session.CenterName+" ("+m.session.Center.String()+")"))
	sections = append(sections, m.styles.Help.Render("Enter to search, Esc to cancel"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
