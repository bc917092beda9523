package ui

import (
	"errors"
	"fmt"

	"github.com/cwarden/eventscope/internal/drag"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ViewDay {
		return m, nil
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scroll(-1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.scroll(1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		return m, m.pointerDown(msg.X, msg.Y)
	case msg.Action == tea.MouseActionMotion:
		m.pointerMove(msg.Y)
	case msg.Action == tea.MouseActionRelease:
		return m, m.pointerUp()
	}

	return m, nil
}

// pixelY converts a screen row to a day timeline pixel.
func (m *Model) pixelY(row int) int {
	return (row - headerRows + m.topRow) * m.scale.Y
}

func (m *Model) pointerDown(col, row int) tea.Cmd {
	a, ok := m.blockAt(col, row)
	if !ok {
		return nil
	}
	m.selectedEvent = a.Event.ID

	// Drag the session's copy so the drop is kept
	ev := m.session.Find(a.Event.ID)
	if ev == nil {
		return nil
	}

	// Drops land on the day being viewed
	if m.tracker.Active() == nil {
		m.tracker.Location = m.selectedDate.Location()
	}
	blockTop := m.config.Geometry.Rect(a).Top
	err := m.tracker.PointerDown(ev, blockTop, m.pixelY(row)-blockTop)
	if errors.Is(err, drag.ErrGestureActive) {
		return m.showMessage("Finish the current move first (esc cancels)")
	}
	if err != nil {
		return m.showMessage(fmt.Sprintf("Error: %v", err))
	}
	return nil
}

func (m *Model) pointerMove(row int) {
	g := m.tracker.Active()
	if g == nil {
		return
	}
	// Pointer positions are relative to the block's current top
	m.tracker.PointerMove(m.pixelY(row) - g.Top)
}

func (m *Model) pointerUp() tea.Cmd {
	g := m.tracker.Active()
	if g == nil {
		return nil
	}
	moved := g.Top != g.OriginTop

	title := g.Event.Title
	start, err := m.tracker.PointerUp()
	if err != nil {
		return m.showMessage(fmt.Sprintf("Error: %v", err))
	}
	if !moved {
		return nil
	}
	return m.showMessage(fmt.Sprintf("%s moved to %s", title, start.Format(m.config.TimeFormat)))
}
