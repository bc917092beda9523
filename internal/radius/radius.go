// Package radius keeps the events that fall within a search radius.
package radius

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwarden/eventscope/internal/event"
	"github.com/cwarden/eventscope/internal/geo"
)

// Preset is one of the radius choices offered to the user.
type Preset struct {
	Label string
	Miles float64
}

// Presets lists the selectable radii. Zero miles disables filtering.
var Presets = []Preset{
	{Label: "All", Miles: 0},
	{Label: "5 miles", Miles: 5},
	{Label: "10 miles", Miles: 10},
	{Label: "20 miles", Miles: 20},
}

// ParsePreset accepts "All", a preset label, or a bare number of miles.
func ParsePreset(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") || s == "" {
		return 0, nil
	}
	for _, p := range Presets {
		if strings.EqualFold(p.Label, s) {
			return p.Miles, nil
		}
	}

	field := strings.Fields(s)[0]
	miles, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid radius %q: %w", s, err)
	}
	if math.IsNaN(miles) || math.IsInf(miles, 0) {
		return 0, fmt.Errorf("invalid radius %q: not a finite distance", s)
	}
	if miles < 0 {
		return 0, fmt.Errorf("invalid radius %q: negative", s)
	}
	return miles, nil
}

// Apply returns the events within radiusMiles of center. A radius <= 0
// returns events unchanged, coordinate-less events included. Otherwise
// events without a coordinate, or with a coordinate that cannot be
// measured, are dropped. The input slice is never modified.
func Apply(events []event.Event, center geo.Coordinate, radiusMiles float64) []event.Event {
	if radiusMiles <= 0 {
		return events
	}

	kept := make([]event.Event, 0, len(events))
	for _, ev := range events {
		if ev.Coordinate == nil {
			continue
		}
		d, err := geo.Distance(center, *ev.Coordinate)
		if err != nil {
			continue
		}
		if d <= radiusMiles {
			kept = append(kept, ev)
		}
	}
	return kept
}
